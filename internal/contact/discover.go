package contact

import (
	"context"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// commonSlugs are contact-page paths worth probing on any Brazilian
// business site, tried before the base page's own links.
var commonSlugs = []string{
	"/contato",
	"/contato/",
	"/fale-conosco",
	"/fale-conosco/",
	"/contact",
	"/contact/",
	"/contatos",
	"/contatos/",
	"/institucional",
	"/sobre",
	"/unidades",
	"/onde-estamos",
	"/localizacao",
}

// linkKeywords flag anchors pointing at contact-like pages, matched against
// both href and anchor text.
var linkKeywords = []string{"contato", "fale", "contact", "unidades", "onde", "local"}

// DiscoverPages builds an ordered list of candidate contact pages for a
// site: the fixed slug list resolved against the base URL, augmented with
// same-host links scraped from the base page. When the base page cannot be
// fetched, discovery degrades to the slug list alone. URLs are
// deduplicated with fragments stripped and the list is capped at limit.
func DiscoverPages(ctx context.Context, f *Fetcher, baseURL string, limit int) []string {
	baseURL = NormalizeURL(baseURL)
	if baseURL == "" {
		return nil
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil
	}

	var candidates []string
	for _, slug := range commonSlugs {
		ref, err := url.Parse(slug)
		if err != nil {
			continue
		}
		candidates = append(candidates, base.ResolveReference(ref).String())
	}

	if pageHTML, err := f.FetchHTML(ctx, baseURL); err == nil {
		candidates = append(candidates, scanLinks(base, pageHTML)...)
	}

	var uniq []string
	seen := make(map[string]struct{})
	for _, u := range candidates {
		u, _, _ = strings.Cut(u, "#")
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		uniq = append(uniq, u)
		if len(uniq) >= limit {
			break
		}
	}

	return uniq
}

// scanLinks extracts contact-flavored anchors from a page, keeping only
// links that stay on the base host (www prefix ignored).
func scanLinks(base *url.URL, pageHTML string) []string {
	baseHost := strings.TrimPrefix(base.Host, "www.")

	var links []string
	tz := html.NewTokenizer(strings.NewReader(pageHTML))
	var pendingHref string
	var anchorText strings.Builder
	inAnchor := false

	flush := func() {
		if pendingHref == "" {
			return
		}
		low := strings.ToLower(pendingHref)
		txt := strings.ToLower(anchorText.String())
		if !containsAny(low, linkKeywords) && !containsAny(txt, linkKeywords) {
			return
		}
		ref, err := url.Parse(pendingHref)
		if err != nil {
			return
		}
		full := base.ResolveReference(ref)
		if strings.TrimPrefix(full.Host, "www.") != baseHost {
			return
		}
		links = append(links, full.String())
	}

	for {
		switch tz.Next() {
		case html.ErrorToken:
			return links
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := tz.Token()
			if tok.Data == "a" {
				if inAnchor {
					flush()
				}
				inAnchor = true
				pendingHref = strings.TrimSpace(attrVal(tok, "href"))
				anchorText.Reset()
			}
		case html.TextToken:
			if inAnchor {
				anchorText.Write(tz.Text())
			}
		case html.EndTagToken:
			tok := tz.Token()
			if tok.Data == "a" && inAnchor {
				flush()
				inAnchor = false
				pendingHref = ""
			}
		}
	}
}

func containsAny(s string, keys []string) bool {
	for _, k := range keys {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
