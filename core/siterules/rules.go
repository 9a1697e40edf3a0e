// ABOUTME: Site-specific DOM cleanups applied to reader documents, dispatched by host
// ABOUTME: Each rule is best-effort; a failing rule never aborts the pipeline

package siterules

import (
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"

	"manabi-reader/core/interfaces"
)

// Rule mutates doc for a page on a specific site.
type Rule func(doc *goquery.Document, u *url.URL) error

// Registry maps hosts to rules. A rule registered for "example.com" also
// applies to its subdomains.
type Registry struct {
	mu     sync.RWMutex
	rules  map[string][]namedRule
	logger interfaces.Logger
}

type namedRule struct {
	name string
	fn   Rule
}

// NewRegistry creates an empty registry.
func NewRegistry(logger interfaces.Logger) *Registry {
	if logger == nil {
		logger = interfaces.NopLogger{}
	}
	return &Registry{rules: make(map[string][]namedRule), logger: logger}
}

// Register adds a rule for host.
func (r *Registry) Register(host, name string, fn Rule) {
	host = strings.ToLower(strings.TrimPrefix(host, "."))
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules[host] = append(r.rules[host], namedRule{name: name, fn: fn})
}

// RulesFor returns the names of the rules that apply to host, most specific first.
func (r *Registry) RulesFor(host string) []string {
	var names []string
	for _, nr := range r.match(host) {
		names = append(names, nr.name)
	}
	return names
}

func (r *Registry) match(host string) []namedRule {
	host = strings.ToLower(host)
	r.mu.RLock()
	defer r.mu.RUnlock()
	var matched []namedRule
	for h := host; h != ""; {
		matched = append(matched, r.rules[h]...)
		i := strings.IndexByte(h, '.')
		if i < 0 {
			break
		}
		h = h[i+1:]
	}
	return matched
}

// Apply runs every rule registered for u's host. Failures are logged and skipped.
func (r *Registry) Apply(doc *goquery.Document, u *url.URL) {
	if doc == nil || u == nil {
		return
	}
	for _, nr := range r.match(u.Hostname()) {
		if err := runRule(nr.fn, doc, u); err != nil {
			r.logger.Warn("Site rule failed", map[string]interface{}{
				"rule":  nr.name,
				"url":   u.String(),
				"error": err.Error(),
			})
		}
	}
}

func runRule(fn Rule, doc *goquery.Document, u *url.URL) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return fn(doc, u)
}

// NewDefaultRegistry returns a registry preloaded with the built-in rules.
func NewDefaultRegistry(logger interfaces.Logger) *Registry {
	r := NewRegistry(logger)
	r.Register("www3.nhk.or.jp", "nhk-easy-dictionary", unlinkNHKDictionary)
	r.Register("mainichi.jp", "mainichi-boilerplate", stripMainichiBoilerplate)
	r.Register("www.asahi.com", "asahi-boilerplate", stripAsahiBoilerplate)
	r.Register("news.yahoo.co.jp", "yahoo-news-boilerplate", stripYahooNewsBoilerplate)
	r.Register("ncode.syosetu.com", "syosetu-line-breaks", removeSyosetuLineBreaks)
	r.Register("kakuyomu.jp", "kakuyomu-full-width-spaces", collapseFullWidthSpaces)
	r.Register("www.aozora.gr.jp", "aozora-bibliography", stripAozoraNotes)
	r.Register("wikipedia.org", "wikipedia-chrome", stripWikipediaChrome)
	return r
}
