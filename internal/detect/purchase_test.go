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

func TestPurchaseDetectorMatchesCatalogMerchant(t *testing.T) {
	d := NewPurchaseDetector()
	email := model.Email{
		Sender:  "auto-confirm@amazon.com",
		Subject: "Order confirmation for your Amazon.com purchase",
		Body:    "Order total: $42.99. Order number: 112-3456789-1234567. Your order has been placed.",
	}

	m := d.Detect(email)
	if !m.Matched {
		t.Fatalf("expected match, confidence=%d", m.Confidence)
	}
	if m.Record.Merchant != "Amazon" {
		t.Errorf("merchant = %q, want Amazon", m.Record.Merchant)
	}
	if m.Record.Amount != 42.99 {
		t.Errorf("amount = %v, want 42.99", m.Record.Amount)
	}
	if m.Record.Currency != "USD" {
		t.Errorf("currency = %q, want USD", m.Record.Currency)
	}
	if m.Record.Category != "ecommerce" {
		t.Errorf("category = %q, want ecommerce", m.Record.Category)
	}
}

func TestPurchaseDetectorAntiPatternRejectsMarketingEmail(t *testing.T) {
	d := NewPurchaseDetector()
	email := model.Email{
		Sender:  "deals@amazon.com",
		Subject: "Flash sale: save $20 today only!",
		Body:    "Up to 50% off. Free shipping. Use promo code now. Shop now before it's gone. Don't miss out!",
	}
	if m := d.Detect(email); m.Matched {
		t.Errorf("expected anti-pattern rejection, got match %+v", m)
	}
}

func TestPurchaseDetectorRequiresPositiveAmount(t *testing.T) {
	d := NewPurchaseDetector()
	email := model.Email{
		Sender:  "orders@amazon.com",
		Subject: "Your order confirmation",
		Body:    "Thank you for your order. Your order has been placed and is being processed.",
	}
	m := d.Detect(email)
	if m.Matched {
		t.Errorf("expected no match without an extractable amount, got %+v", m)
	}
}

func TestPurchaseDetectorEuropeanAmountFormat(t *testing.T) {
	amount, currency, ok := extractAmount("Order total: EUR 1.234,56", 500000)
	if !ok {
		t.Fatal("expected amount to parse")
	}
	if currency != "EUR" {
		t.Errorf("currency = %q, want EUR", currency)
	}
	if amount != 1234.56 {
		t.Errorf("amount = %v, want 1234.56", amount)
	}
}

func TestPurchaseDetectorCategoryLookup(t *testing.T) {
	d := NewPurchaseDetector()
	if cat := d.Category("Amazon"); cat != "ecommerce" {
		t.Errorf("category = %q, want ecommerce", cat)
	}
	if cat := d.Category("Unknown Merchant Xyz"); cat != "" {
		t.Errorf("category = %q, want empty for unknown merchant", cat)
	}
}

func TestPurchaseDetectorOrderConfirmationSubjectExtractsOrderNumber(t *testing.T) {
	d := NewPurchaseDetector()
	email := model.Email{
		Sender:  "orders@amazon.com",
		Subject: "Your order confirmation #ABC-123456",
		Body:    "Order total: $49.99",
	}

	m := d.Detect(email)
	if !m.Matched {
		t.Fatalf("expected match, confidence=%d", m.Confidence)
	}
	if m.Record.Merchant != "Amazon" {
		t.Errorf("merchant = %q, want Amazon", m.Record.Merchant)
	}
	if m.Record.Amount != 49.99 {
		t.Errorf("amount = %v, want 49.99", m.Record.Amount)
	}
	if m.Record.Currency != "USD" {
		t.Errorf("currency = %q, want USD", m.Record.Currency)
	}
	if m.Record.OrderNumber != "ABC-123456" {
		t.Errorf("order number = %q, want ABC-123456", m.Record.OrderNumber)
	}
	if m.Record.Category != "ecommerce" {
		t.Errorf("category = %q, want ecommerce", m.Record.Category)
	}
}

func TestExtractOrderNumberRejectsCSSLikeSuffixes(t *testing.T) {
	if _, ok := extractOrderNumber("border-radius: 4px; border-collapse: collapse;"); ok {
		t.Error("expected CSS-like tokens to be rejected")
	}
	if tok, ok := extractOrderNumber("Order number: AB12345-67"); !ok || tok != "AB12345-67" {
		t.Errorf("got (%q, %v), want (AB12345-67, true)", tok, ok)
	}
}
