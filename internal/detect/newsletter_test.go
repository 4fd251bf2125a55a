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

package detect

import (
	"testing"

	"github.com/Technical-1/email-archive-parser/internal/model"
)

func TestNewsletterDetectorClassifiesNewsletter(t *testing.T) {
	d := NewNewsletterDetector()
	email := model.Email{
		Sender:  "digest@news.example.com",
		Subject: "Your weekly digest",
		Body: "Here's what happened this week. Manage preferences. View in browser.",
	}

	m := d.Detect(email)
	if !m.Matched {
		t.Fatal("expected match")
	}
	if m.Record.IsPromotional {
		t.Error("expected newsletter classification, got promotional")
	}
}

func TestNewsletterDetectorClassifiesPromotional(t *testing.T) {
	d := NewNewsletterDetector()
	email := model.Email{
		Sender:  "deals@promo.example.com",
		Subject: "Flash sale: save 30% off everything",
		Body:    "Use code SAVE30 at checkout. Unsubscribe here. Manage preferences. Privacy policy.",
	}

	m := d.Detect(email)
	if !m.Matched {
		t.Fatal("expected match")
	}
	if !m.Record.IsPromotional {
		t.Error("expected promotional classification")
	}
}

func TestNewsletterDetectorRegularEmailNotMatched(t *testing.T) {
	d := NewNewsletterDetector()
	email := model.Email{
		Sender:  "alice@example.com",
		Subject: "Dinner plans",
		Body:    "Are we still on for dinner Friday?",
	}
	c := d.Categorize(email)
	if !c.Regular {
		t.Errorf("expected Regular classification, got %+v", c)
	}
}

func TestExtractUnsubscribeLinkPrefersAnchorText(t *testing.T) {
	html := `<p>Thanks for reading.</p><a href="https://example.com/u/12345">unsubscribe</a>`
	link := ExtractUnsubscribeLink(html)
	if link != "https://example.com/u/12345" {
		t.Errorf("link = %q", link)
	}
}

func TestExtractUnsubscribeLinkFallsBackToPlainURL(t *testing.T) {
	body := "To stop these emails visit https://example.com/opt-out?id=42 at any time."
	link := ExtractUnsubscribeLink(body)
	if link != "https://example.com/opt-out?id=42" {
		t.Errorf("link = %q", link)
	}
}

func TestExtractUnsubscribeLinkEmptyWhenAbsent(t *testing.T) {
	if link := ExtractUnsubscribeLink("just a normal message with no links"); link != "" {
		t.Errorf("expected empty link, got %q", link)
	}
}
