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

package mime

import (
	"regexp"
	"strings"
)

// nameAddrRe matches `"Display Name" <addr@host>` or `Display Name <addr@host>`.
var nameAddrRe = regexp.MustCompile(`^\s*"?([^"<]*)"?\s*<([^<>]+)>\s*$`)

// bareAddrRe matches a bare address with no display name or angle brackets.
var bareAddrRe = regexp.MustCompile(`^\s*([^\s<>]+@[^\s<>]+)\s*$`)

// ParseAddress parses a single From/Reply-To style value. Malformed
// tokens yield the raw trimmed value as addr with ok=false and no name,
// per spec §4.3.5.
func ParseAddress(raw string) (addr, name string, ok bool) {
	raw = strings.TrimSpace(DecodeEncodedWords(raw))
	if raw == "" {
		return "", "", false
	}
	if m := nameAddrRe.FindStringSubmatch(raw); m != nil {
		a := strings.ToLower(strings.TrimSpace(m[2]))
		n := strings.TrimSpace(m[1])
		if a != "" {
			return a, n, true
		}
	}
	if m := bareAddrRe.FindStringSubmatch(raw); m != nil {
		return strings.ToLower(m[1]), "", true
	}
	return raw, "", false
}

// ParseAddressList splits a comma-or-semicolon-delimited recipient header
// into individual lowercased addresses, preserving duplicates and order.
func ParseAddressList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := splitAddressList(raw)
	var out []string
	for _, p := range parts {
		if addr, _, ok := ParseAddress(p); ok {
			out = append(out, addr)
		} else if strings.TrimSpace(p) != "" {
			out = append(out, strings.ToLower(strings.TrimSpace(p)))
		}
	}
	return out
}

// splitAddressList splits on top-level commas/semicolons, respecting
// quoted display names and angle-bracket groups so "Doe, Jane" <a@b.com>
// doesn't get split mid-name.
func splitAddressList(raw string) []string {
	var parts []string
	var cur strings.Builder
	inQuotes := false
	depth := 0
	for _, r := range raw {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			cur.WriteRune(r)
		case r == '<' && !inQuotes:
			depth++
			cur.WriteRune(r)
		case r == '>' && !inQuotes:
			if depth > 0 {
				depth--
			}
			cur.WriteRune(r)
		case (r == ',' || r == ';') && !inQuotes && depth == 0:
			parts = append(parts, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	if strings.TrimSpace(cur.String()) != "" {
		parts = append(parts, cur.String())
	}
	return parts
}

// angledAddrRe is a lenient extractor for dirty data like References/
// In-Reply-To — it finds every <...> token regardless of surrounding text.
var angledAddrRe = regexp.MustCompile(`<([^<>\s]+)>`)

// ExtractAngledTokens returns every <...> delimited token found in raw, in
// order. Useful for headers like References that are whitespace-separated
// lists of message IDs rather than RFC 5322 address lists.
func ExtractAngledTokens(raw string) []string {
	matches := angledAddrRe.FindAllStringSubmatch(raw, -1)
	if len(matches) == 0 {
		return nil
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[1])
	}
	return out
}
