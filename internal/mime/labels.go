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

// systemLabels are excluded from custom-label consideration per spec §4.3.6.
var systemLabels = map[string]bool{
	"opened":    true,
	"unread":    true,
	"starred":   true,
	"important": true,
	"all mail":  true,
}

func isCategoryLabel(l string) bool {
	return strings.HasPrefix(l, "category ")
}

var kebabInvalid = regexp.MustCompile(`[^a-z0-9 -]`)

// ParseGmailLabels parses an X-Gmail-Labels header value: a comma-separated
// list with double-quote escaping for embedded commas, lowercased.
func ParseGmailLabels(header string) []string {
	if strings.TrimSpace(header) == "" {
		return nil
	}
	var labels []string
	var cur strings.Builder
	inQuotes := false
	flush := func() {
		v := strings.TrimSpace(cur.String())
		v = strings.Trim(v, `"`)
		if v != "" {
			labels = append(labels, strings.ToLower(v))
		}
		cur.Reset()
	}
	for _, r := range header {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			cur.WriteRune(r)
		case r == ',' && !inQuotes:
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return labels
}

// kebabCase converts a custom label into the folder_id form: lowercased,
// invalid characters stripped, spaces collapsed to hyphens, truncated to
// 50 characters.
func kebabCase(label string) string {
	l := strings.ToLower(strings.TrimSpace(label))
	l = kebabInvalid.ReplaceAllString(l, "")
	l = strings.Join(strings.Fields(l), "-")
	if len(l) > 50 {
		l = l[:50]
	}
	return l
}

// FolderIDsFromLabels maps a parsed label set to canonical folder_ids
// following the priority table in spec §6. It returns every folder_id the
// label set resolves to (system folders the set matches, plus at most one
// custom-label-derived id); when none match, it returns ["archive"].
func FolderIDsFromLabels(labels []string) []string {
	set := make(map[string]bool, len(labels))
	for _, l := range labels {
		set[l] = true
	}

	var ids []string
	add := func(id string) {
		for _, existing := range ids {
			if existing == id {
				return
			}
		}
		ids = append(ids, id)
	}

	if set["inbox"] {
		add("inbox")
	}
	if set["sent"] || set["sent mail"] {
		add("sent")
	}
	if set["draft"] || set["drafts"] {
		add("drafts")
	}
	if set["spam"] {
		add("spam")
	}
	if set["trash"] {
		add("trash")
	}

	if len(ids) == 0 {
		if custom := firstCustomLabel(labels); custom != "" {
			add(kebabCase(custom))
		} else {
			add("archive")
		}
	}

	return ids
}

// PrimaryFolderID resolves the single folder_id used for Email.FolderID,
// applying the full priority order: inbox > sent > drafts > spam > trash >
// first custom label (kebab-cased) > archive.
func PrimaryFolderID(labels []string) string {
	set := make(map[string]bool, len(labels))
	for _, l := range labels {
		set[l] = true
	}
	switch {
	case set["inbox"]:
		return "inbox"
	case set["sent"] || set["sent mail"]:
		return "sent"
	case set["draft"] || set["drafts"]:
		return "drafts"
	case set["spam"]:
		return "spam"
	case set["trash"]:
		return "trash"
	}
	if custom := firstCustomLabel(labels); custom != "" {
		return kebabCase(custom)
	}
	return "archive"
}

func firstCustomLabel(labels []string) string {
	for _, l := range labels {
		if systemLabels[l] || isCategoryLabel(l) {
			continue
		}
		switch l {
		case "inbox", "sent", "sent mail", "draft", "drafts", "spam", "trash":
			continue
		}
		return l
	}
	return ""
}

// IsRead reports whether a label set marks a message as read.
func IsRead(labels []string) bool {
	for _, l := range labels {
		if l == "unread" {
			return false
		}
	}
	return true
}

// IsStarred reports whether a label set marks a message as starred.
func IsStarred(labels []string) bool {
	for _, l := range labels {
		if l == "starred" {
			return true
		}
	}
	return false
}
