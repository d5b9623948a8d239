// Package fetch implements the page fetcher as a colly-backed HTTP session.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
)

const resultKey = "fetch_result"

// Config captures the transport knobs for a Session.
type Config struct {
	UserAgent      string
	RequestTimeout time.Duration
	MaxConcurrency int
}

// Session is the run-scoped HTTP session shared by every crawl task. All
// requests go through one colly collector, so cookies set by the site are
// preserved across letters and pages. Redirects are not followed: a 3xx
// response is returned to the caller as-is, and retries are allowed to revisit
// the same URL.
type Session struct {
	collector *colly.Collector
	logger    *zap.Logger
}

// NewSession constructs a configured Session.
func NewSession(cfg Config, logger *zap.Logger) (*Session, error) {
	if cfg.UserAgent == "" {
		return nil, errors.New("fetch: user agent is required")
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 15 * time.Second
	}
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := colly.NewCollector(
		colly.UserAgent(cfg.UserAgent),
		colly.AllowURLRevisit(),
	)
	// Non-2xx bodies still reach OnResponse; the crawler owns the retry
	// decision, not the transport.
	c.ParseHTTPErrorResponse = true
	c.WithTransport(&http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          64,
		MaxIdleConnsPerHost:   16,
		MaxConnsPerHost:       cfg.MaxConcurrency * 2,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: cfg.RequestTimeout,
		ForceAttemptHTTP2:     true,
	})
	c.SetRequestTimeout(cfg.RequestTimeout)
	c.SetRedirectHandler(func(_ *http.Request, _ []*http.Request) error {
		return http.ErrUseLastResponse
	})

	s := &Session{collector: c, logger: logger}

	c.OnResponse(func(r *colly.Response) {
		ch, _ := r.Ctx.GetAny(resultKey).(chan result)
		if ch == nil {
			return
		}
		send(ch, result{
			status: r.StatusCode,
			body:   append([]byte(nil), r.Body...),
		})
	})
	c.OnError(func(r *colly.Response, err error) {
		var ch chan result
		if r != nil && r.Ctx != nil {
			ch, _ = r.Ctx.GetAny(resultKey).(chan result)
		}
		if ch == nil {
			return
		}
		if err == nil {
			err = errors.New("unknown colly error")
		}
		if r != nil && r.StatusCode != 0 {
			// The request completed; report the status and let the caller
			// apply its non-200 handling.
			send(ch, result{status: r.StatusCode, body: append([]byte(nil), r.Body...)})
			return
		}
		send(ch, result{err: err})
	})

	return s, nil
}

// Fetch retrieves url through the shared session. The HTTP status is returned
// for every completed request, 200 or not; err is reserved for transport
// failures. Requests in flight are not cancellable; ctx is honored between
// requests.
//
// The collector is synchronous, so Request has run the callbacks and the
// result channel is populated by the time it returns. Waiting on the
// collector itself would gate this call on every other task's in-flight
// request.
func (s *Session) Fetch(ctx context.Context, url string) (int, []byte, error) {
	if err := ctx.Err(); err != nil {
		return 0, nil, err
	}

	ch := make(chan result, 1)
	rctx := colly.NewContext()
	rctx.Put(resultKey, ch)

	if err := s.collector.Request(http.MethodGet, url, nil, rctx, nil); err != nil {
		return 0, nil, fmt.Errorf("request %s: %w", url, err)
	}

	select {
	case res := <-ch:
		if res.err != nil {
			return 0, nil, fmt.Errorf("fetch %s: %w", url, res.err)
		}
		return res.status, res.body, nil
	default:
		return 0, nil, fmt.Errorf("fetch %s: no response produced", url)
	}
}

type result struct {
	status int
	body   []byte
	err    error
}

func send(ch chan result, res result) {
	select {
	case ch <- res:
	default:
	}
}
