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

package mbox

import "github.com/Technical-1/email-archive-parser/internal/mime"

// ParseGmailLabels parses an X-Gmail-Labels header value into a lowercased
// label list. The implementation lives in package mime (spec §4.3.6 is
// part of the MIME walker algorithm); this forwards it to match the
// public surface named in spec §6 (MBOXParser.parse_gmail_labels).
func ParseGmailLabels(header string) []string {
	return mime.ParseGmailLabels(header)
}

// FolderIDsFromLabels maps a parsed label set to every matching canonical
// folder_id, per the priority table in spec §6. Matches
// MBOXParser.folder_ids_from_labels in the public surface.
func FolderIDsFromLabels(labels []string) []string {
	return mime.FolderIDsFromLabels(labels)
}
