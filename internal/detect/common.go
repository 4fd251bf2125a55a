// Copyright (c) 2026 John Earle
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package detect implements the four classification detectors (account,
// purchase, subscription, newsletter) described in spec §4.5-4.8: each
// scores a single email against a pattern catalog, extracts typed
// entities, and exposes a batch-mode aggregator.
package detect

import (
	"regexp"
	"strconv"
	"strings"
)

// domainOf returns the lowercased domain portion of an email address, or
// "" if addr has no '@'.
func domainOf(addr string) string {
	i := strings.LastIndexByte(addr, '@')
	if i < 0 {
		return ""
	}
	return strings.ToLower(addr[i+1:])
}

// labelOf returns the local-part ("label") of an email address.
func labelOf(addr string) string {
	i := strings.LastIndexByte(addr, '@')
	if i < 0 {
		return addr
	}
	return addr[:i]
}

// catalogLookup is the fixed 3-stage lookup order from spec §9: exact
// domain, then suffix ("ends with '.'+key"), then substring of the
// label portion. keys must be iterated in a stable order (callers
// pass a pre-sorted slice) so results stay stable as a catalog grows.
func catalogLookup(domain, label string, keys []string) (key string, ok bool) {
	domain = strings.ToLower(domain)
	if _, exists := indexOf(keys, domain); exists {
		return domain, true
	}
	for _, k := range keys {
		if strings.HasSuffix(domain, "."+k) {
			return k, true
		}
	}
	label = strings.ToLower(label)
	for _, k := range keys {
		if label != "" && strings.Contains(label, k) {
			return k, true
		}
	}
	return "", false
}

func indexOf(keys []string, v string) (int, bool) {
	for i, k := range keys {
		if k == v {
			return i, true
		}
	}
	return -1, false
}

// anyMatch reports whether s matches any of the given precompiled
// patterns.
func anyMatch(patterns []*regexp.Regexp, s string) bool {
	for _, re := range patterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// countMatches returns the number of distinct patterns (not occurrences)
// that match s at least once.
func countMatches(patterns []*regexp.Regexp, s string) int {
	n := 0
	for _, re := range patterns {
		if re.MatchString(s) {
			n++
		}
	}
	return n
}

// currencySymbolRe matches a currency symbol/code followed by an amount
// token; symbolToCurrency maps the symbol/code to its ISO 4217 code.
var currencySymbolRe = regexp.MustCompile(`(?i)(US\$|USD|\$|EUR|€|GBP|£|JPY|¥)\s?([\d.,']+)`)

func symbolToCurrency(sym string) string {
	switch strings.ToUpper(sym) {
	case "$", "US$", "USD":
		return "USD"
	case "€", "EUR":
		return "EUR"
	case "£", "GBP":
		return "GBP"
	case "¥", "JPY":
		return "JPY"
	}
	return "USD"
}

// parseAmountToken normalizes a raw numeric token (with thousands/decimal
// separators that vary by currency) into a float64. EUR amounts with a
// ",\d{2}" tail are treated as European format: '.' is a thousands
// separator and ',' is the decimal point (spec §4.6). Apostrophe
// thousands separators (Swiss-style) are always stripped, as is a
// trailing '.' or ',' that ends the sentence rather than the number.
func parseAmountToken(raw, currency string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	raw = strings.ReplaceAll(raw, "'", "")
	raw = strings.TrimRight(raw, ".,")
	isEuropean := currency == "EUR" && regexp.MustCompile(`,\d{2}$`).MatchString(raw)
	if isEuropean {
		raw = strings.ReplaceAll(raw, ".", "")
		raw = strings.ReplaceAll(raw, ",", ".")
	} else {
		raw = strings.ReplaceAll(raw, ",", "")
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// contextAnchoredAmountRes are tried first, in order, against subject+body
// text: patterns that name the amount's role ("total", "amount charged",
// "payment of") so the match is high-confidence even with other numbers
// in the message.
var contextAnchoredAmountRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:order\s+)?total\s*:?\s*(US\$|USD|\$|EUR|€|GBP|£|JPY|¥)\s?([\d.,']+)`),
	regexp.MustCompile(`(?i)amount\s+charged\s*:?\s*(US\$|USD|\$|EUR|€|GBP|£|JPY|¥)\s?([\d.,']+)`),
	regexp.MustCompile(`(?i)payment\s+of\s*(US\$|USD|\$|EUR|€|GBP|£|JPY|¥)\s?([\d.,']+)`),
	regexp.MustCompile(`(?i)you\s+(?:were\s+|have\s+been\s+)?charged\s*:?\s*(US\$|USD|\$|EUR|€|GBP|£|JPY|¥)\s?([\d.,']+)`),
	regexp.MustCompile(`(?i)grand\s+total\s*:?\s*(US\$|USD|\$|EUR|€|GBP|£|JPY|¥)\s?([\d.,']+)`),
}

// extractAmount implements spec §4.6's two-stage extraction: context-
// anchored patterns first, then a fallback scan across up to 5
// currency-tagged amounts returning the maximum within (0, maxAmount].
func extractAmount(text string, maxAmount float64) (amount float64, currency string, ok bool) {
	for _, re := range contextAnchoredAmountRes {
		if m := re.FindStringSubmatch(text); m != nil {
			cur := symbolToCurrency(m[1])
			if v, pok := parseAmountToken(m[2], cur); pok && v > 0 {
				return v, cur, true
			}
		}
	}

	matches := currencySymbolRe.FindAllStringSubmatch(text, 5)
	best := 0.0
	bestCur := ""
	found := false
	for _, m := range matches {
		cur := symbolToCurrency(m[1])
		v, pok := parseAmountToken(m[2], cur)
		if !pok || v <= 0 || v > maxAmount {
			continue
		}
		if v > best {
			best = v
			bestCur = cur
			found = true
		}
	}
	if !found {
		return 0, "", false
	}
	return best, bestCur, true
}

// orderNumberRe captures a candidate order/confirmation number token
// after common lead-ins. The separator is mandatory: without one,
// "order confirmation #ABC-123" lets "confirmation" satisfy the capture
// ahead of the real number instead of being tried as its own lead-in.
// "number"/"no." are grouped with an optional trailing colon so
// "Order number: 112-..." consumes the word and the colon as one
// separator instead of treating them as competing alternatives.
var orderNumberRe = regexp.MustCompile(`(?i)(?:order|confirmation|invoice)\s*(?:#|(?:number|no\.?)\s*:?|:)\s*#?\s*([A-Za-z0-9][A-Za-z0-9-]{4,29})`)

// cssLikeSuffixes reject tokens that are obviously CSS class fragments
// leaking from an HTML-stripped body rather than a real order number.
var cssLikeSuffixes = []string{"-collapse", "-color", "-width", "-height", "-radius", "-shadow"}

// validOrderToken rejects candidate tokens that don't look like real
// order numbers: length 5-30, alphanumeric lead character, overall
// [A-Z0-9-]+, excluding CSS-like suffixes.
func validOrderToken(tok string) bool {
	if len(tok) < 5 || len(tok) > 30 {
		return false
	}
	upper := strings.ToUpper(tok)
	if !regexp.MustCompile(`^[A-Z0-9][A-Z0-9-]*$`).MatchString(upper) {
		return false
	}
	lower := strings.ToLower(tok)
	for _, suf := range cssLikeSuffixes {
		if strings.HasSuffix(lower, suf) {
			return false
		}
	}
	return true
}

// extractOrderNumber returns the first valid order number found in text.
func extractOrderNumber(text string) (string, bool) {
	for _, m := range orderNumberRe.FindAllStringSubmatch(text, -1) {
		if validOrderToken(m[1]) {
			return strings.ToUpper(m[1]), true
		}
	}
	return "", false
}

// titleCase renders a hyphen/underscore/camelCase domain label as a human
// display name, used when no catalog or pattern match yields a name.
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")
	s = splitCamel(s)
	words := strings.Fields(s)
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

var camelBoundaryRe = regexp.MustCompile(`([a-z0-9])([A-Z])`)

func splitCamel(s string) string {
	return camelBoundaryRe.ReplaceAllString(s, "$1 $2")
}

// humanizeDomain turns a bare domain like "my-cool-app.io" into "My Cool
// App", stripping the TLD and common second-level suffixes.
func humanizeDomain(domain string) string {
	parts := strings.Split(domain, ".")
	if len(parts) == 0 {
		return domain
	}
	label := parts[0]
	if len(parts) > 2 {
		// keep the registrable label, not subdomains like "mail."
		label = parts[len(parts)-2]
	}
	return titleCase(label)
}
