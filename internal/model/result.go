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

import "time"

// Contact is derived from unique senders (MBOX, OLM) or, optionally, from
// an OLM Address Book entry.
type Contact struct {
	Name       string
	Email      string
	EmailCount int
	LastSeen   string // RFC3339; kept as string to match the OLM field's raw form
}

// TallyContacts derives one Contact per unique, non-empty sender address
// across emails in order, incrementing EmailCount and advancing LastSeen
// on repeat senders. Shared by the MBOX and OLM decoders so both derive
// contacts the same way from their respective message streams.
func TallyContacts(emails []Email) []Contact {
	var contacts []Contact
	idx := make(map[string]int)
	for _, email := range emails {
		if email.Sender == "" {
			continue
		}
		lastSeen := email.Date.Format(time.RFC3339)
		if i, seen := idx[email.Sender]; seen {
			contacts[i].EmailCount++
			if lastSeen > contacts[i].LastSeen {
				contacts[i].LastSeen = lastSeen
			}
			if contacts[i].Name == "" && email.SenderName != "" {
				contacts[i].Name = email.SenderName
			}
			continue
		}
		idx[email.Sender] = len(contacts)
		contacts = append(contacts, Contact{
			Name:       email.SenderName,
			Email:      email.Sender,
			EmailCount: 1,
			LastSeen:   lastSeen,
		})
	}
	return contacts
}

// Stats summarizes a completed (or partially completed) parse.
type Stats struct {
	EmailCount       int
	DroppedRecords   int
	ContactCount     int
}

// ParseResult is returned by parser.ParseFile and parser.ParseBuffer. Emails/Accounts/etc are
// whatever was successfully extracted up to a fatal error, if any —
// callers may surface Err and still use the partial data.
type ParseResult struct {
	RunID         string
	Emails        []Email
	Contacts      []Contact
	Accounts      []AccountRecord
	Purchases     []PurchaseRecord
	Subscriptions []SubscriptionRecord
	Newsletters   []NewsletterRecord
	Stats         Stats
	Err           error
}
