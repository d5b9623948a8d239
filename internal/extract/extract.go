// Package extract parses browse-index pages into entry lists and pagination
// links using goquery selectors.
package extract

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/lexharvest/lexharvest/internal/harvest"
)

// Default selectors matching the browse page structure. The entry list lives
// in a multi-column <ul>; the next-page link is the rel=next anchor.
const (
	DefaultEntrySelector = "ul.mt-3.columns-2 li a"
	DefaultNextSelector  = "a[rel=next]"
)

// PageExtractor implements harvest.Extractor for one page structure.
type PageExtractor struct {
	entrySelector string
	nextSelector  string
}

// New returns a PageExtractor using the given selectors; empty selectors fall
// back to the defaults.
func New(entrySelector, nextSelector string) *PageExtractor {
	if entrySelector == "" {
		entrySelector = DefaultEntrySelector
	}
	if nextSelector == "" {
		nextSelector = DefaultNextSelector
	}
	return &PageExtractor{
		entrySelector: entrySelector,
		nextSelector:  nextSelector,
	}
}

// Extract returns the entries listed on the page and the absolute URL of the
// next page. The next link's href is resolved against pageURL, so relative
// pagination hrefs work. An absent next link ends the letter's pagination.
func (e *PageExtractor) Extract(pageURL string, body []byte) (harvest.PageResult, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return harvest.PageResult{}, fmt.Errorf("parse page %s: %w", pageURL, err)
	}

	var result harvest.PageResult
	doc.Find(e.entrySelector).Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if text != "" {
			result.Entries = append(result.Entries, text)
		}
	})

	href, ok := doc.Find(e.nextSelector).First().Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		return result, nil
	}
	next, err := resolveNext(pageURL, href)
	if err != nil {
		return harvest.PageResult{}, err
	}
	result.NextURL = next
	return result, nil
}

func resolveNext(pageURL, href string) (string, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("parse page url %s: %w", pageURL, err)
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", fmt.Errorf("parse next href %q: %w", href, err)
	}
	return base.ResolveReference(ref).String(), nil
}
