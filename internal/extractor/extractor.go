// Package extractor turns a downloaded page's bytes into outbound links and
// optional typed data. The shell (decode and parse) is fixed; which
// elements count as links, and what data (if any) a page yields, is a
// pluggable Strategy so a deployment can swap in a richer selector without
// touching the parse/resolve/filter plumbing.
package extractor

import (
	"bytes"
	"net/url"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// Strategy selects outbound links and data items from a parsed document.
// href values are resolved against base and filtered to http/https by the
// Shell, not by the Strategy, so every Strategy gets that for free.
type Strategy interface {
	Select(doc *goquery.Document) (hrefs []string, data []DataItem)
}

// Shell is the fixed decode+parse+resolve+filter wrapper around a Strategy.
type Shell struct {
	strategy Strategy
}

// NewShell builds a Shell. A nil strategy defaults to AnchorStrategy, the
// href-of-every-anchor-tag selector.
func NewShell(strategy Strategy) Shell {
	if strategy == nil {
		strategy = AnchorStrategy{}
	}
	return Shell{strategy: strategy}
}

// Extract decodes content as text, parses it as HTML, and runs the
// configured Strategy over the result, resolving every selected href
// against base and discarding anything that doesn't resolve to an
// absolute http or https URL.
func (s Shell) Extract(content []byte, base url.URL) (Result, *Error) {
	if !utf8.Valid(content) {
		return Result{}, &Error{Message: "content is not valid utf-8", Cause: ErrCauseNotUTF8}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return Result{}, &Error{Message: err.Error(), Cause: ErrCauseNotHTML}
	}

	hrefs, data := s.strategy.Select(doc)

	links := make([]url.URL, 0, len(hrefs))
	for _, href := range hrefs {
		ref, err := url.Parse(href)
		if err != nil {
			continue
		}
		resolved := base.ResolveReference(ref)
		if resolved.Scheme != "http" && resolved.Scheme != "https" {
			continue
		}
		links = append(links, *resolved)
	}

	return Result{Links: links, Data: data}, nil
}

// AnchorStrategy is the default Strategy: it takes the href attribute of
// every anchor tag and emits no data.
type AnchorStrategy struct{}

func (AnchorStrategy) Select(doc *goquery.Document) ([]string, []DataItem) {
	var hrefs []string
	doc.Find("a").Each(func(_ int, sel *goquery.Selection) {
		if href, ok := sel.Attr("href"); ok {
			hrefs = append(hrefs, href)
		}
	})
	return hrefs, nil
}
