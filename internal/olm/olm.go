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

package olm

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Technical-1/email-archive-parser/internal/mime"
	"github.com/Technical-1/email-archive-parser/internal/model"
)

// messageEntryRe matches com.microsoft.__Messages/.../message_<digits>.xml
// entries, case-sensitively per spec §6.
var messageEntryRe = regexp.MustCompile(`^com\.microsoft\.__Messages/.*message_(\d+)\.xml$`)

func isContactsEntry(name string) bool {
	if name == "Address Book/Contacts.xml" {
		return true
	}
	parts := strings.Split(name, "/")
	return len(parts) >= 2 && parts[len(parts)-2] == "Contacts" && strings.HasSuffix(name, ".xml")
}

func isCalendarEntry(name string) bool {
	base := path.Base(name)
	return strings.HasPrefix(base, "Calendar") && strings.HasSuffix(base, ".xml")
}

// IsOLM reports whether data looks like a ZIP container with at least one
// entry matching the OLM message path pattern (spec §6). A bare ZIP magic
// check alone would misidentify arbitrary ZIP files.
func IsOLM(data []byte) bool {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return false
	}
	for _, f := range zr.File {
		if messageEntryRe.MatchString(f.Name) {
			return true
		}
	}
	return false
}

// ParseResult is the OLM-specific decode output, folded into
// model.ParseResult by the top-level parser package.
type ParseResult struct {
	Emails   []model.Email
	Contacts []model.Contact
}

// Parse decodes an OLM ZIP archive held entirely in memory (OLM files are
// inherently random-access ZIP containers; spec §4.1 "chunked" framing
// applies to byte *acquisition*, not to ZIP's own central-directory
// structure, which archive/zip requires seekable access to).
func Parse(data []byte, opts model.ParseOptions) (ParseResult, error) {
	o := opts.Defaulted()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return ParseResult{}, &model.MalformedArchiveError{Reason: "not a valid ZIP container", Err: err}
	}

	type msgEntry struct {
		num  int
		file *zip.File
	}
	var messages []msgEntry
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if m := messageEntryRe.FindStringSubmatch(f.Name); m != nil {
			n, _ := strconv.Atoi(m[1])
			messages = append(messages, msgEntry{num: n, file: f})
		}
	}
	// Ascending numeric order of message_<n>.xml, per the ordering
	// guarantee in spec §5.
	sort.Slice(messages, func(i, j int) bool { return messages[i].num < messages[j].num })

	reportProgress := func(pct int, msg string) {
		if o.OnProgress != nil {
			o.OnProgress(model.ProgressEvent{Stage: model.StageExtracting, Progress: pct, Message: msg})
		}
	}
	reportProgress(0, fmt.Sprintf("found %d messages", len(messages)))

	var result ParseResult

	for i, me := range messages {
		if o.Cancel != nil && o.Cancel() {
			return result, &model.CancelledError{}
		}
		email, ok := parseMessageEntry(me.file)
		if !ok {
			continue
		}
		result.Emails = append(result.Emails, email)

		if len(messages) > 0 && i%25 == 0 {
			reportProgress(int(float64(i+1)/float64(len(messages))*100), "parsing messages")
		}
	}

	if *o.ExtractContacts {
		result.Contacts = model.TallyContacts(result.Emails)
		mergeExplicitContacts(zr, &result)
	}

	reportProgress(100, "extraction complete")
	return result, nil
}

// parseMessageEntry decodes a single message_<n>.xml entry. A malformed
// (non-well-formed) XML document is skipped individually — entry
// iteration continues — per spec §4.4's recovery semantics.
func parseMessageEntry(f *zip.File) (email model.Email, ok bool) {
	rc, err := f.Open()
	if err != nil {
		return model.Email{}, false
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return model.Email{}, false
	}
	root, err := parseXML(data)
	if err != nil {
		return model.Email{}, false
	}

	subject := root.text("OPFMessageCopySubject")
	hasSubject := strings.TrimSpace(subject) != ""
	if !hasSubject {
		subject = model.NoSubjectPlaceholder
	}

	from := root.addressesIn("OPFMessageCopyFromAddresses")
	var sender, senderDisplay string
	if len(from) > 0 {
		sender = from[0].Address
		senderDisplay = from[0].Name
	}
	if strings.Count(sender, "@") != 1 {
		return model.Email{}, false
	}

	var recipients []string
	for _, a := range root.addressesIn("OPFMessageCopyToAddresses") {
		recipients = append(recipients, a.Address)
	}
	for _, a := range root.addressesIn("OPFMessageCopyCCAddresses") {
		recipients = append(recipients, a.Address)
	}

	plain := root.text("OPFMessageCopyBody")
	html := root.text("OPFMessageCopyHTMLBody")
	if plain == "" && html != "" {
		plain = mime.StripHTML(html)
	}
	if plain == "" && html == "" && !hasSubject {
		return model.Email{}, false
	}
	if mime.LooksBinary(plain, 0) && !hasSubject {
		return model.Email{}, false
	}

	sent := root.text("OPFMessageCopySentTime")
	if sent == "" {
		sent = root.text("OPFMessageCopyReceivedTime")
	}
	date := parseOLMTime(sent)

	size := len(data)
	if size > model.SizeCap {
		size = model.SizeCap
	}

	hasAttachments := false
	if v := root.text("OPFMessageCopyHasAttachments"); v == "1" || strings.EqualFold(v, "true") {
		hasAttachments = true
	}

	messageID := root.text("OPFMessageCopyInternetMessageId")

	email = model.Email{
		Subject:        subject,
		Sender:         sender,
		SenderName:     senderDisplay,
		Recipients:     recipients,
		Date:           date,
		Body:           plain,
		HTMLBody:       html,
		Size:           size,
		IsRead:         true,
		IsStarred:      false,
		FolderID:       "inbox", // OLM has no Gmail-label analog, spec §4.4.3
		ThreadID:       threadIDFromMessage(root, subject),
		MessageID:      messageID,
		HasAttachments: hasAttachments,
	}
	return email, true
}

func threadIDFromMessage(root *node, subject string) string {
	if v := root.text("OPFMessageCopyThreadIndex"); v != "" {
		return v
	}
	if v := root.text("OPFMessageCopyThreadTopic"); v != "" {
		return "topic:" + mime.NormalizeSubject(v)
	}
	return "subject:" + strings.ToLower(strings.Join(strings.Fields(mime.NormalizeSubject(subject)), "-"))
}

// olmTimeLayouts covers the sent-time formats seen across OLM export
// versions — ISO-8601 with and without fractional seconds.
var olmTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02T15:04:05Z",
	"2006-01-02 15:04:05",
}

func parseOLMTime(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Now().UTC()
	}
	for _, layout := range olmTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Now().UTC()
}

// mergeExplicitContacts folds in any contacts named in an explicit
// Address Book/Contacts.xml, in addition to the per-sender contacts
// already tallied from messages (spec §4.4.4: "even when an explicit
// Contacts.xml entry exists").
func mergeExplicitContacts(zr *zip.Reader, result *ParseResult) {
	for _, f := range zr.File {
		if !isContactsEntry(f.Name) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			continue
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			continue
		}
		root, err := parseXML(data)
		if err != nil {
			continue
		}
		for _, c := range root.findAll("Contact") {
			email := strings.ToLower(strings.TrimSpace(c.attr("emailaddress")))
			if email == "" {
				email = strings.ToLower(strings.TrimSpace(c.text("EmailAddress")))
			}
			if email == "" || !strings.Contains(email, "@") {
				continue
			}
			name := c.attr("displayname")
			if name == "" {
				name = c.text("DisplayName")
			}
			found := false
			for i := range result.Contacts {
				if result.Contacts[i].Email == email {
					found = true
					if name != "" && result.Contacts[i].Name == "" {
						result.Contacts[i].Name = name
					}
					break
				}
			}
			if !found {
				result.Contacts = append(result.Contacts, model.Contact{
					Name:  name,
					Email: email,
				})
			}
		}
	}
}
