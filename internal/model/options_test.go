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

package model

import "testing"

func TestDefaultedAppliesExtractContactsDefault(t *testing.T) {
	o := ParseOptions{}.Defaulted()
	if o.ExtractContacts == nil {
		t.Fatal("expected ExtractContacts to be defaulted, got nil")
	}
	if !*o.ExtractContacts {
		t.Error("expected ExtractContacts default to be true")
	}
}

func TestDefaultedPreservesExplicitExtractContacts(t *testing.T) {
	disabled := false
	o := ParseOptions{ExtractContacts: &disabled}.Defaulted()
	if o.ExtractContacts == nil || *o.ExtractContacts {
		t.Error("expected an explicit false ExtractContacts to survive Defaulted")
	}
}

func TestTallyContactsDedupsBySenderAndCountsEmails(t *testing.T) {
	emails := []Email{
		{Sender: "alice@example.com", SenderName: "Alice"},
		{Sender: "bob@example.com", SenderName: "Bob"},
		{Sender: "alice@example.com"},
		{Sender: ""},
	}

	contacts := TallyContacts(emails)
	if len(contacts) != 2 {
		t.Fatalf("got %d contacts, want 2", len(contacts))
	}

	var alice, bob *Contact
	for i := range contacts {
		switch contacts[i].Email {
		case "alice@example.com":
			alice = &contacts[i]
		case "bob@example.com":
			bob = &contacts[i]
		}
	}
	if alice == nil || alice.EmailCount != 2 {
		t.Errorf("alice contact = %+v, want EmailCount 2", alice)
	}
	if alice != nil && alice.Name != "Alice" {
		t.Errorf("alice name = %q, want Alice", alice.Name)
	}
	if bob == nil || bob.EmailCount != 1 {
		t.Errorf("bob contact = %+v, want EmailCount 1", bob)
	}
}
