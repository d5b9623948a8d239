package harvest

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures every configuration knob that influences a harvest run.
// All values originate from Viper so the engine can be configured via files,
// env vars, or CLI flags.
type Config struct {
	BaseURL        string
	BrowsePath     string
	OutputTemplate string
	InputFile      string
	MaxWorkers     int
	MaxAttempts    int
	BaseDelay      time.Duration
	RemoveDead     bool
	EntrySelector  string
	NextSelector   string
	UserAgent      string
	RequestTimeout time.Duration
	MetricsAddr    string
	HistoryPath    string
}

// LoadConfig constructs a Config by reading from Viper.
func LoadConfig(v *viper.Viper) (Config, error) {
	cfg := Config{
		BaseURL:        v.GetString("harvest.base_url"),
		BrowsePath:     v.GetString("harvest.browse_path"),
		OutputTemplate: v.GetString("harvest.output_template"),
		InputFile:      v.GetString("harvest.input_file"),
		MaxWorkers:     v.GetInt("harvest.max_workers"),
		MaxAttempts:    v.GetInt("harvest.max_attempts"),
		BaseDelay:      v.GetDuration("harvest.base_delay"),
		RemoveDead:     v.GetBool("harvest.remove_dead"),
		EntrySelector:  v.GetString("harvest.entry_selector"),
		NextSelector:   v.GetString("harvest.next_selector"),
		UserAgent:      v.GetString("harvest.user_agent"),
		RequestTimeout: v.GetDuration("harvest.request_timeout"),
		MetricsAddr:    v.GetString("harvest.metrics_addr"),
		HistoryPath:    v.GetString("harvest.history_path"),
	}
	return cfg, cfg.Validate()
}

// MergePolicy maps the remove-dead switch onto the merge policy.
func (c Config) MergePolicy() MergePolicy {
	if c.RemoveDead {
		return MergeReplace
	}
	return MergeUnion
}

// IndexURL builds the first-page URL for a letter. The letter is query-escaped
// so the catch-all "#" survives as %23 instead of becoming a fragment.
func (c Config) IndexURL(letter Letter) string {
	q := url.Values{"character": []string{string(letter)}}
	return strings.TrimRight(c.BaseURL, "/") + c.BrowsePath + "?" + q.Encode()
}

// Validate checks for obviously bad configuration combinations.
func (c Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("harvest.base_url must be an absolute URL, got %q", c.BaseURL)
	}
	if !strings.HasPrefix(c.BrowsePath, "/") {
		return fmt.Errorf("harvest.browse_path must start with /, got %q", c.BrowsePath)
	}
	if !strings.Contains(c.OutputTemplate, "{0}") {
		return fmt.Errorf("harvest.output_template must contain a {0} letter slot, got %q", c.OutputTemplate)
	}
	if c.InputFile == "" {
		return fmt.Errorf("harvest.input_file must be set")
	}
	if c.MaxWorkers <= 0 {
		return fmt.Errorf("harvest.max_workers must be > 0")
	}
	if c.MaxAttempts < 0 {
		return fmt.Errorf("harvest.max_attempts must be >= 0")
	}
	if c.BaseDelay <= 0 {
		return fmt.Errorf("harvest.base_delay must be > 0")
	}
	if c.EntrySelector == "" {
		return fmt.Errorf("harvest.entry_selector must be set")
	}
	if c.NextSelector == "" {
		return fmt.Errorf("harvest.next_selector must be set")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("harvest.user_agent must be set")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("harvest.request_timeout must be > 0")
	}
	return nil
}
