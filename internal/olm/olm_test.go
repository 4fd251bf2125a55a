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
	"testing"

	"github.com/Technical-1/email-archive-parser/internal/model"
)

const sampleMessageXML = `<Message>
  <OPFMessageCopySubject>Project Plan</OPFMessageCopySubject>
  <OPFMessageCopyFromAddresses>
    <Address OPFContactEmailAddressAddress="alice@example.com" OPFContactEmailAddressName="Alice"></Address>
  </OPFMessageCopyFromAddresses>
  <OPFMessageCopyToAddresses>
    <Address OPFContactEmailAddressAddress="bob@example.com" OPFContactEmailAddressName="Bob"></Address>
  </OPFMessageCopyToAddresses>
  <OPFMessageCopyBody>Here is the plan we discussed yesterday.</OPFMessageCopyBody>
  <OPFMessageCopySentTime>2023-05-01T10:00:00Z</OPFMessageCopySentTime>
  <OPFMessageCopyInternetMessageId>abc123@example.com</OPFMessageCopyInternetMessageId>
</Message>`

func boolPtr(b bool) *bool { return &b }

func buildOLM(t *testing.T, entries map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create entry %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("write entry %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestIsOLMDetectsMessageEntries(t *testing.T) {
	data := buildOLM(t, map[string]string{
		"com.microsoft.__Messages/Inbox/message_1.xml": sampleMessageXML,
	})
	if !IsOLM(data) {
		t.Error("expected archive with message_N.xml entry to be detected as OLM")
	}

	plainZip := buildOLM(t, map[string]string{"readme.txt": "not an olm archive"})
	if IsOLM(plainZip) {
		t.Error("expected plain zip without message entries to be rejected")
	}
}

func TestParseExtractsMessagesInAscendingOrder(t *testing.T) {
	data := buildOLM(t, map[string]string{
		"com.microsoft.__Messages/Inbox/message_2.xml": `<Message>
			<OPFMessageCopySubject>Second</OPFMessageCopySubject>
			<OPFMessageCopyFromAddresses><Address OPFContactEmailAddressAddress="b@example.com"></Address></OPFMessageCopyFromAddresses>
			<OPFMessageCopyBody>second body</OPFMessageCopyBody>
		</Message>`,
		"com.microsoft.__Messages/Inbox/message_1.xml": `<Message>
			<OPFMessageCopySubject>First</OPFMessageCopySubject>
			<OPFMessageCopyFromAddresses><Address OPFContactEmailAddressAddress="a@example.com"></Address></OPFMessageCopyFromAddresses>
			<OPFMessageCopyBody>first body</OPFMessageCopyBody>
		</Message>`,
	})

	result, err := Parse(data, model.ParseOptions{ExtractContacts: boolPtr(true)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Emails) != 2 {
		t.Fatalf("got %d emails, want 2", len(result.Emails))
	}
	if result.Emails[0].Subject != "First" || result.Emails[1].Subject != "Second" {
		t.Errorf("emails out of order: %q, %q", result.Emails[0].Subject, result.Emails[1].Subject)
	}
	if len(result.Contacts) != 2 {
		t.Errorf("got %d contacts, want 2", len(result.Contacts))
	}
}

func TestParseMessageFields(t *testing.T) {
	data := buildOLM(t, map[string]string{
		"com.microsoft.__Messages/Inbox/message_1.xml": sampleMessageXML,
	})

	result, err := Parse(data, model.ParseOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Emails) != 1 {
		t.Fatalf("got %d emails, want 1", len(result.Emails))
	}
	e := result.Emails[0]
	if e.Sender != "alice@example.com" {
		t.Errorf("sender = %q", e.Sender)
	}
	if e.FolderID != "inbox" {
		t.Errorf("folder id = %q, want inbox", e.FolderID)
	}
	if len(e.Recipients) != 1 || e.Recipients[0] != "bob@example.com" {
		t.Errorf("recipients = %v", e.Recipients)
	}
	if e.MessageID != "abc123@example.com" {
		t.Errorf("message id = %q", e.MessageID)
	}
}

func TestParseSkipsEntryWithoutSender(t *testing.T) {
	data := buildOLM(t, map[string]string{
		"com.microsoft.__Messages/Inbox/message_1.xml": `<Message>
			<OPFMessageCopySubject>No sender</OPFMessageCopySubject>
			<OPFMessageCopyBody>body text here</OPFMessageCopyBody>
		</Message>`,
	})

	result, err := Parse(data, model.ParseOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Emails) != 0 {
		t.Errorf("expected entry without sender to be skipped, got %d emails", len(result.Emails))
	}
}

func TestMergeExplicitContacts(t *testing.T) {
	data := buildOLM(t, map[string]string{
		"com.microsoft.__Messages/Inbox/message_1.xml": sampleMessageXML,
		"Address Book/Contacts.xml": `<Contacts>
			<Contact emailaddress="carol@example.com" displayname="Carol"></Contact>
		</Contacts>`,
	})

	result, err := Parse(data, model.ParseOptions{ExtractContacts: boolPtr(true)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found := false
	for _, c := range result.Contacts {
		if c.Email == "carol@example.com" && c.Name == "Carol" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected explicit contact carol@example.com to be merged, got %+v", result.Contacts)
	}
}
