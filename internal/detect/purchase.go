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
	"regexp"
	"strings"

	"github.com/Technical-1/email-archive-parser/internal/model"
)

var purchaseAntiPatternRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)save \$\d+`),
	regexp.MustCompile(`(?i)up to \d+% off`),
	regexp.MustCompile(`(?i)free shipping`),
	regexp.MustCompile(`(?i)limited time`),
	regexp.MustCompile(`(?i)promo code`),
	regexp.MustCompile(`(?i)shop now`),
	regexp.MustCompile(`(?i)unsubscribe`),
	regexp.MustCompile(`(?i)flash sale`),
	regexp.MustCompile(`(?i)exclusive offer`),
	regexp.MustCompile(`(?i)don't miss out`),
}

var purchaseSubjectRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(?:your )?order (?:confirmation|receipt|#)`),
	regexp.MustCompile(`(?i)^receipt (?:for|from)`),
	regexp.MustCompile(`(?i)^invoice`),
	regexp.MustCompile(`(?i)^shipping confirmation`),
	regexp.MustCompile(`(?i)^your.*has shipped`),
	regexp.MustCompile(`(?i)^order #?\d`),
	regexp.MustCompile(`(?i)^thank you for your (order|purchase)`),
	regexp.MustCompile(`(?i)^payment (received|confirmation)`),
}

var purchaseBodyRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)order total\s*:?\s*\$[\d.,]+`),
	regexp.MustCompile(`(?i)payment of\s*\$[\d.,]+`),
	regexp.MustCompile(`(?i)your order (?:has been|was) (?:placed|confirmed)`),
	regexp.MustCompile(`(?i)order (?:number|#)\s*:?\s*[A-Z0-9-]+`),
	regexp.MustCompile(`(?i)we('ve| have) charged your`),
}

// PurchaseDetector scores emails for "the user completed an online
// purchase" per spec §4.6.
type PurchaseDetector struct{}

// NewPurchaseDetector returns a stateless PurchaseDetector.
func NewPurchaseDetector() *PurchaseDetector { return &PurchaseDetector{} }

// PurchaseMatch is the per-email detection outcome.
type PurchaseMatch struct {
	Record     model.PurchaseRecord
	Confidence int
	Matched    bool
}

// Detect implements the ordered scoring pipeline in spec §4.6.
func (d *PurchaseDetector) Detect(email model.Email) PurchaseMatch {
	combined := email.Subject + "\n" + email.Body

	if countMatches(purchaseAntiPatternRes, combined) >= 3 {
		return PurchaseMatch{Confidence: 0}
	}

	domain := domainOf(email.Sender)
	label := labelOf(email.Sender)

	score := 0
	var merchant, category string
	if key, ok := catalogLookup(domain, label, merchantKeys); ok {
		entry := merchantCatalog[key]
		merchant = entry.Name
		category = entry.Category
		score += 30
	}
	if anyMatch(purchaseSubjectRes, email.Subject) {
		score += 35
	}
	if anyMatch(purchaseBodyRes, email.Body) {
		score += 25
	}

	if score < 30 {
		return PurchaseMatch{Confidence: cap100(score)}
	}

	amount, currency, amountOK := extractAmount(combined, 500000)
	if amountOK {
		switch {
		case amount > 0 && amount < 10000:
			score += 20
		case amount >= 10000:
			score += 10
		}
	}

	var orderNumber string
	if tok, ok := extractOrderNumber(combined); ok {
		orderNumber = tok
		score += 15
	}

	score = cap100(score)

	if score < 70 || !amountOK || amount <= 0 || merchant == "" {
		return PurchaseMatch{Confidence: score}
	}

	if category == "" {
		category = "other"
	}

	return PurchaseMatch{
		Confidence: score,
		Matched:    true,
		Record: model.PurchaseRecord{
			Merchant:     merchant,
			Amount:       amount,
			Currency:     currency,
			PurchaseDate: email.Date,
			OrderNumber:  orderNumber,
			Category:     category,
			Confidence:   score,
		},
	}
}

func cap100(score int) int {
	if score > 100 {
		return 100
	}
	if score < 0 {
		return 0
	}
	return score
}

// DetectBatch runs Detect over every email, returning one record per
// matched purchase in source order (purchases are not deduplicated
// across emails — spec's data model keys purchases by order, not by
// merchant — so this is a straight filter/map, not an aggregation).
func (d *PurchaseDetector) DetectBatch(emails []model.Email) []model.PurchaseRecord {
	var out []model.PurchaseRecord
	for _, email := range emails {
		if m := d.Detect(email); m.Matched {
			out = append(out, m.Record)
		}
	}
	return out
}

// Category returns the catalog category for a merchant, matched
// case-insensitively against the catalog's canonical merchant names
// (PurchaseDetector.category(merchant) in the spec's surface). It returns
// "" for a merchant that is not in the catalog.
func (d *PurchaseDetector) Category(merchant string) string {
	lower := strings.ToLower(merchant)
	for _, k := range merchantKeys {
		if strings.ToLower(merchantCatalog[k].Name) == lower {
			return merchantCatalog[k].Category
		}
	}
	return ""
}

// KnownMerchants returns every canonical merchant name in the catalog.
func (d *PurchaseDetector) KnownMerchants() []string {
	seen := make(map[string]bool)
	var names []string
	for _, k := range merchantKeys {
		name := merchantCatalog[k].Name
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}
