package contact

import (
	"encoding/json"
	"regexp"
	"sort"
	"strings"

	"github.com/kaptinlin/jsonrepair"
	"golang.org/x/net/html"
)

// phoneRe matches Brazilian phone numbers: optional +55 country code,
// optional two-digit area code (possibly parenthesized), a 4-5 digit
// subscriber prefix and a 4 digit suffix.
var phoneRe = regexp.MustCompile(
	`(?:(?:\+?55)\s*)?` +
		`(?:\(?\d{2}\)?\s*)?` +
		`(?:9?\d{4})[-\s]?\d{4}`)

// addrHintRe matches a street-type keyword followed by a house/km number
// within a non-greedy span. Bare keyword hits are filtered by length below.
var addrHintRe = regexp.MustCompile(
	`(?i)(Rua|Avenida|Av\.|Rodovia|R\.|Alameda|Travessa|Estrada|Praça|Quadra|Lote|Km)\b.*?\d{1,5}`)

// minAddressLen discards keyword matches too short to carry a real address.
const minAddressLen = 15

// ExtractStructured scans embedded JSON-LD blocks for telephone and address
// fields. Blocks may be a single object, a list of objects, or an object
// carrying an @graph array; anything else, including blocks that stay
// malformed after repair, is skipped.
func ExtractStructured(pageHTML string) (phones, addresses []string) {
	phoneSeen := make(map[string]struct{})
	addrSeen := make(map[string]struct{})

	for _, raw := range jsonLDBlocks(pageHTML) {
		data, ok := parseJSONBlock(raw)
		if !ok {
			continue
		}

		for _, item := range itemsOf(data) {
			obj, ok := item.(map[string]any)
			if !ok {
				continue
			}

			tel, _ := obj["telephone"].(string)
			if tel == "" {
				tel, _ = obj["phone"].(string)
			}
			for _, m := range phoneRe.FindAllString(tel, -1) {
				if _, dup := phoneSeen[m]; !dup {
					phoneSeen[m] = struct{}{}
					phones = append(phones, m)
				}
			}

			if addr := structuredAddress(obj["address"]); addr != "" {
				if _, dup := addrSeen[addr]; !dup {
					addrSeen[addr] = struct{}{}
					addresses = append(addresses, addr)
				}
			}
		}
	}

	return phones, addresses
}

// jsonLDBlocks returns the text content of every
// <script type="application/ld+json"> element in the document.
func jsonLDBlocks(pageHTML string) []string {
	var blocks []string

	tz := html.NewTokenizer(strings.NewReader(pageHTML))
	inBlock := false
	var buf strings.Builder

	for {
		switch tz.Next() {
		case html.ErrorToken:
			return blocks
		case html.StartTagToken:
			tok := tz.Token()
			if tok.Data == "script" && attrVal(tok, "type") == "application/ld+json" {
				inBlock = true
				buf.Reset()
			}
		case html.TextToken:
			if inBlock {
				buf.Write(tz.Text())
			}
		case html.EndTagToken:
			tok := tz.Token()
			if inBlock && tok.Data == "script" {
				inBlock = false
				if raw := strings.TrimSpace(buf.String()); raw != "" {
					blocks = append(blocks, raw)
				}
			}
		}
	}
}

// parseJSONBlock unmarshals a JSON-LD block, giving malformed blocks a
// second chance through jsonrepair before skipping them.
func parseJSONBlock(raw string) (any, bool) {
	var data any
	if err := json.Unmarshal([]byte(raw), &data); err == nil {
		return data, true
	}

	repaired, err := jsonrepair.JSONRepair(raw)
	if err != nil {
		return nil, false
	}
	if err := json.Unmarshal([]byte(repaired), &data); err != nil {
		return nil, false
	}
	return data, true
}

// itemsOf flattens the tolerated JSON-LD shapes into a list of candidates.
func itemsOf(data any) []any {
	switch v := data.(type) {
	case []any:
		return v
	case map[string]any:
		if graph, ok := v["@graph"].([]any); ok {
			return graph
		}
		return []any{v}
	}
	return nil
}

// structuredAddress rebuilds an address from a schema.org PostalAddress
// object, or passes a plain string through.
func structuredAddress(addr any) string {
	switch v := addr.(type) {
	case map[string]any:
		var parts []string
		for _, key := range []string{"streetAddress", "addressLocality", "addressRegion", "postalCode", "addressCountry"} {
			if p, ok := v[key].(string); ok && p != "" {
				parts = append(parts, p)
			}
		}
		return strings.Join(parts, ", ")
	case string:
		return strings.TrimSpace(v)
	}
	return ""
}

// ExtractFreeText scans visible page text for phone numbers and
// address-looking snippets.
func ExtractFreeText(text string) (phones, addresses []string) {
	seen := make(map[string]struct{})
	for _, m := range phoneRe.FindAllString(text, -1) {
		if _, dup := seen[m]; !dup {
			seen[m] = struct{}{}
			phones = append(phones, m)
		}
	}

	addrSeen := make(map[string]struct{})
	for _, m := range addrHintRe.FindAllString(text, -1) {
		snippet := strings.TrimSpace(m)
		if len(snippet) < minAddressLen {
			continue
		}
		if _, dup := addrSeen[snippet]; !dup {
			addrSeen[snippet] = struct{}{}
			addresses = append(addresses, snippet)
		}
	}

	return phones, addresses
}

var spaceRe = regexp.MustCompile(`\s+`)

// BestPhone collapses whitespace, deduplicates, and picks the longest
// surviving candidate. Longer strings tend to carry area and country codes
// rather than truncated fragments.
func BestPhone(phones []string) string {
	var cleaned []string
	seen := make(map[string]struct{})
	for _, p := range phones {
		p = strings.TrimSpace(spaceRe.ReplaceAllString(p, " "))
		if p == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		cleaned = append(cleaned, p)
	}
	if len(cleaned) == 0 {
		return ""
	}
	sort.SliceStable(cleaned, func(i, j int) bool { return len(cleaned[i]) > len(cleaned[j]) })
	return cleaned[0]
}

// BestAddress deduplicates and picks the longest candidate — more detail
// beats less.
func BestAddress(addresses []string) string {
	var cleaned []string
	seen := make(map[string]struct{})
	for _, a := range addresses {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		if _, dup := seen[a]; dup {
			continue
		}
		seen[a] = struct{}{}
		cleaned = append(cleaned, a)
	}
	if len(cleaned) == 0 {
		return ""
	}
	sort.SliceStable(cleaned, func(i, j int) bool { return len(cleaned[i]) > len(cleaned[j]) })
	return cleaned[0]
}

// VisibleText strips scripts, styles and tags from HTML, leaving
// newline-separated text suitable for the free-text extractors.
func VisibleText(pageHTML string) string {
	var sb strings.Builder

	tz := html.NewTokenizer(strings.NewReader(pageHTML))
	skipDepth := 0

	for {
		switch tz.Next() {
		case html.ErrorToken:
			return sb.String()
		case html.StartTagToken:
			tok := tz.Token()
			if tok.Data == "script" || tok.Data == "style" || tok.Data == "noscript" {
				skipDepth++
			}
		case html.EndTagToken:
			tok := tz.Token()
			if (tok.Data == "script" || tok.Data == "style" || tok.Data == "noscript") && skipDepth > 0 {
				skipDepth--
			}
		case html.TextToken:
			if skipDepth > 0 {
				continue
			}
			if text := strings.TrimSpace(string(tz.Text())); text != "" {
				sb.WriteString(text)
				sb.WriteByte('\n')
			}
		}
	}
}

func attrVal(tok html.Token, name string) string {
	for _, a := range tok.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}
