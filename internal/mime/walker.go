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
	"time"

	"github.com/Technical-1/email-archive-parser/internal/model"
)

// maxMultipartDepth guards against pathological nesting; spec places no
// numeric bound on recursion depth but an unbounded walk over adversarial
// input is a resource hazard, not a correctness requirement.
const maxMultipartDepth = 20

// partTree is the decoded result of walking a message's MIME structure.
type partTree struct {
	plain          string
	html           string
	hasAttachment  bool
}

// walkPart decodes a single part (header + raw body bytes) and, for
// multipart containers, recurses into each child part depth-first. The
// first text/plain part found fills t.plain and the first text/html part
// fills t.html — later parts of the same subtype are ignored, matching
// the "part selection policy" in spec §4.3.3.
func walkPart(header Header, rawBody []byte, depth int, t *partTree) {
	if depth > maxMultipartDepth {
		return
	}

	disp := ParseContentType(header.Get("Content-Disposition"))
	if disp.Type == "attachment" {
		t.hasAttachment = true
	}

	ct := ParseContentType(header.Get("Content-Type"))
	if ct.Type == "" {
		ct.Type = "text/plain"
	}

	if ct.IsMultipart() {
		boundary := ct.Boundary()
		for _, raw := range splitMultipart(rawBody, boundary) {
			if len(raw) == 0 {
				continue
			}
			h, bodyOffset := ParseHeaders(raw)
			body := raw[bodyOffset:]
			cd := ParseContentType(h.Get("Content-Disposition"))
			if cd.Type == "attachment" || hasAttachmentFilename(cd) {
				t.hasAttachment = true
			}
			walkPart(h, body, depth+1, t)
		}
		return
	}

	decoded := DecodeTransferEncoding(header.Get("Content-Transfer-Encoding"), rawBody)
	text := string(decoded)

	switch ct.Subtype() {
	case "html":
		if t.html == "" {
			t.html = text
		}
	default: // "plain" and any other non-multipart, non-attachment leaf
		if t.plain == "" && disp.Type != "attachment" {
			t.plain = text
		}
	}
}

func hasAttachmentFilename(cd ContentType) bool {
	_, ok := cd.Params["filename"]
	return ok
}

// WalkOptions controls record-level behavior independent of the MIME
// decode itself.
type WalkOptions struct {
	// BinaryGuardThreshold is forwarded to LooksBinary; zero uses 0.30.
	BinaryGuardThreshold float64
	// RawSize is the byte length of the original message block, used for
	// model.Email.Size (capped at model.SizeCap).
	RawSize int
}

// Walk parses a single raw RFC-822 message (as produced by the MBOX
// splitter, From_ separator line already stripped by the caller or still
// present as the first line — both are tolerated) into a normalized
// model.Email. It returns ok=false when the record fails a hard check and
// must be silently skipped per spec §4.3 failure semantics.
func Walk(raw []byte, opts WalkOptions) (email model.Email, ok bool) {
	raw = stripLeadingSeparator(raw)

	header, bodyOffset := ParseHeaders(raw)
	body := raw[bodyOffset:]

	var tree partTree
	walkPart(header, body, 0, &tree)

	plain := tree.plain
	html := tree.html
	if plain == "" && html == "" {
		if fallback := fallbackPlainText(body); fallback != "" {
			plain = fallback
		}
	}
	if plain == "" && html != "" {
		plain = StripHTML(html)
	}

	subject := DecodeEncodedWords(header.Get("Subject"))
	hasSubject := strings.TrimSpace(subject) != ""
	if !hasSubject {
		subject = model.NoSubjectPlaceholder
	}

	senderAddr, senderName, senderOK := ParseAddress(header.Get("From"))
	if !senderOK && senderAddr == "" {
		return model.Email{}, false
	}
	if strings.Count(senderAddr, "@") != 1 {
		return model.Email{}, false
	}

	threshold := opts.BinaryGuardThreshold
	if LooksBinary(plain, threshold) && !hasSubject {
		return model.Email{}, false
	}

	if plain == "" && html == "" && !hasSubject {
		return model.Email{}, false
	}

	recipients := ParseAddressList(header.Get("To"))
	recipients = append(recipients, ParseAddressList(header.Get("Cc"))...)

	var labels []string
	hasGmailLabels := header.Has("X-Gmail-Labels")
	if hasGmailLabels {
		labels = ParseGmailLabels(header.Get("X-Gmail-Labels"))
	}

	size := opts.RawSize
	if size == 0 {
		size = len(raw)
	}
	if size > model.SizeCap {
		size = model.SizeCap
	}

	email = model.Email{
		Subject:        subject,
		Sender:         senderAddr,
		SenderName:     senderName,
		Recipients:     recipients,
		Date:           parseDate(header.Get("Date")),
		Body:           plain,
		HTMLBody:       html,
		Size:           size,
		IsRead:         !hasGmailLabels || IsRead(labels),
		IsStarred:      hasGmailLabels && IsStarred(labels),
		FolderID:       folderID(hasGmailLabels, labels),
		Labels:         labels,
		ThreadID:       deriveThreadID(header, subject),
		MessageID:      strings.Trim(strings.TrimSpace(header.Get("Message-ID")), "<>"),
		HasAttachments: tree.hasAttachment,
	}
	return email, true
}

// folderID resolves Email.FolderID: OLM-style messages (no X-Gmail-Labels
// header at all) default to "inbox" per spec §4.4.3; Gmail-labeled
// messages use the full priority resolution in PrimaryFolderID.
func folderID(hasGmailLabels bool, labels []string) string {
	if !hasGmailLabels {
		return "inbox"
	}
	return PrimaryFolderID(labels)
}

func stripLeadingSeparator(raw []byte) []byte {
	if !strings.HasPrefix(string(raw), "From ") {
		return raw
	}
	nl := strings.IndexByte(string(raw), '\n')
	if nl < 0 {
		return raw
	}
	line := raw[:nl]
	for _, tok := range []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"} {
		if strings.Contains(string(line), tok) {
			return raw[nl+1:]
		}
	}
	return raw
}

var visiblePrintableRe = regexp.MustCompile(`[\x20-\x7e]`)

// fallbackPlainText retains the raw body as plain text when no MIME part
// was selected but visible content remains after stripping MIME scaffold
// lines, provided at least 20 printable characters survive (spec §4.3.3).
func fallbackPlainText(body []byte) string {
	lines := strings.Split(string(body), "\n")
	var kept []string
	for _, l := range lines {
		trimmed := strings.TrimSpace(l)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "--") {
			continue
		}
		lower := strings.ToLower(trimmed)
		if strings.HasPrefix(lower, "content-type:") ||
			strings.HasPrefix(lower, "content-transfer-encoding:") ||
			strings.HasPrefix(lower, "content-disposition:") ||
			strings.HasPrefix(lower, "mime-version:") {
			continue
		}
		kept = append(kept, trimmed)
	}
	text := strings.Join(kept, "\n")
	printable := visiblePrintableRe.FindAllString(text, -1)
	if len(printable) < 20 {
		return ""
	}
	return text
}

// dateLayouts covers the RFC 5322 date forms seen in real-world mail,
// including the obsolete variants without seconds or with named zones.
var dateLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 -0700 (MST)",
	"2 Jan 2006 15:04:05 -0700",
	time.RFC822Z,
	time.RFC822,
}

// parseDate falls back to "now" on a malformed or missing Date header,
// per spec's data-model invariant that Date is never null after
// normalization.
func parseDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Now().UTC()
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Now().UTC()
}

// replyPrefixRe strips leading reply/forward markers across the
// languages named in spec §3, applied repeatedly until stable.
var replyPrefixRe = regexp.MustCompile(`(?i)^(re|fwd?|aw|sv|vs|antw|r)\s*:\s*`)

// NormalizeSubject strips repeated reply/forward prefixes and collapses
// whitespace, producing the canonical form used for thread synthesis and
// the idempotence property in spec §8.
func NormalizeSubject(subject string) string {
	s := strings.TrimSpace(subject)
	for {
		stripped := replyPrefixRe.ReplaceAllString(s, "")
		stripped = strings.TrimSpace(stripped)
		if stripped == s {
			break
		}
		s = stripped
	}
	return s
}

var kebabNonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

func kebabSubject(subject string) string {
	s := strings.ToLower(NormalizeSubject(subject))
	s = kebabNonAlnum.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// deriveThreadID implements the priority order from spec §3:
// X-Gm-Thrid -> Thread-Topic -> first token of References -> In-Reply-To
// -> synthetic subject:<kebab-cased normalized subject>.
func deriveThreadID(header Header, subject string) string {
	if v := strings.TrimSpace(header.Get("X-Gm-Thrid")); v != "" {
		return v
	}
	if v := strings.TrimSpace(header.Get("Thread-Topic")); v != "" {
		return "topic:" + kebabSubject(DecodeEncodedWords(v))
	}
	if refs := ExtractAngledTokens(header.Get("References")); len(refs) > 0 {
		return refs[0]
	}
	if v := strings.TrimSpace(header.Get("In-Reply-To")); v != "" {
		if toks := ExtractAngledTokens(v); len(toks) > 0 {
			return toks[0]
		}
		return strings.Trim(v, "<>")
	}
	return "subject:" + kebabSubject(subject)
}
