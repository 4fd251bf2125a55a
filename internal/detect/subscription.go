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

var subscriptionSubjectRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)subscription (confirmed|renewed|receipt)`),
	regexp.MustCompile(`(?i)your (monthly|yearly|annual) (subscription|membership|plan)`),
	regexp.MustCompile(`(?i)auto.?renew`),
	regexp.MustCompile(`(?i)recurring (payment|charge)`),
	regexp.MustCompile(`(?i)your membership (has been|was) renewed`),
	regexp.MustCompile(`(?i)payment receipt.*subscription`),
}

var subscriptionBodyRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)subscription plan\s*:`),
	regexp.MustCompile(`(?i)billing period\s*:`),
	regexp.MustCompile(`(?i)next billing date\s*:`),
	regexp.MustCompile(`(?i)(monthly|annual|yearly) subscription`),
	regexp.MustCompile(`(?i)renews on`),
	regexp.MustCompile(`(?i)cancel anytime`),
	regexp.MustCompile(`(?i)your subscription will automatically renew`),
}

// SubscriptionDetector scores emails for "this is a recurring
// subscription/membership email" per spec §4.7.
type SubscriptionDetector struct{}

// NewSubscriptionDetector returns a stateless SubscriptionDetector.
func NewSubscriptionDetector() *SubscriptionDetector { return &SubscriptionDetector{} }

// SubscriptionMatch is the per-email detection outcome.
type SubscriptionMatch struct {
	Record  model.SubscriptionRecord
	Matched bool
}

// Detect implements spec §4.7's two-stage qualification followed by
// extraction.
func (d *SubscriptionDetector) Detect(email model.Email) SubscriptionMatch {
	qualifies := anyMatch(subscriptionSubjectRes, email.Subject)
	if !qualifies {
		qualifies = countMatches(subscriptionBodyRes, email.Body) >= 2
	}
	if !qualifies {
		return SubscriptionMatch{}
	}

	combined := email.Subject + "\n" + email.Body
	amount, currency, amountOK := extractAmount(combined, 100000)

	freq := subscriptionFrequency(combined)

	domain := domainOf(email.Sender)
	label := labelOf(email.Sender)

	var serviceName, category string
	if key, ok := catalogLookup(domain, label, subscriptionKeys); ok {
		entry := subscriptionCatalog[key]
		serviceName = entry.Name
		category = entry.Category
	}
	if serviceName == "" {
		if extracted, ok := extractServiceNameFromSubject(email.Subject); ok {
			serviceName = extracted
		}
	}
	if serviceName == "" && email.SenderName != "" {
		serviceName = email.SenderName
	}
	if serviceName == "" {
		serviceName = humanizeDomain(domain)
	}
	if category == "" {
		category = "other"
	}

	var monthlyAmount float64
	if amountOK {
		monthlyAmount = normalizeToMonthly(amount, freq)
	}

	return SubscriptionMatch{
		Matched: true,
		Record: model.SubscriptionRecord{
			ServiceName:     serviceName,
			MonthlyAmount:   monthlyAmount,
			Currency:        currency,
			Frequency:       freq,
			LastRenewalDate: email.Date,
			EmailIDs:        []string{email.MessageID},
			IsActive:        true,
			Category:        category,
			Confidence:      subscriptionConfidence(qualifies, amountOK),
		},
	}
}

func subscriptionConfidence(qualifies, amountOK bool) int {
	score := 0
	if qualifies {
		score += 70
	}
	if amountOK {
		score += 20
	}
	return cap100(score)
}

// subscriptionFrequency derives Frequency by keyword scan, per spec §4.7:
// yearly/annual wins over weekly, monthly is the default.
func subscriptionFrequency(text string) model.Frequency {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "yearly") || strings.Contains(lower, "annual") ||
		strings.Contains(lower, "per year") || strings.Contains(lower, "/year"):
		return model.FrequencyYearly
	case strings.Contains(lower, "weekly") || strings.Contains(lower, "per week") ||
		strings.Contains(lower, "/week"):
		return model.FrequencyWeekly
	default:
		return model.FrequencyMonthly
	}
}

// normalizeToMonthly converts an extracted charge amount to its monthly
// equivalent so MonthlyAmount is comparable across services billed at
// different cadences.
func normalizeToMonthly(amount float64, freq model.Frequency) float64 {
	switch freq {
	case model.FrequencyYearly:
		return amount / 12
	case model.FrequencyWeekly:
		return amount * 52 / 12
	default:
		return amount
	}
}

// DetectBatch aggregates matches by case-insensitive ServiceName. The
// most-recent email (by Date) drives LastRenewalDate/Frequency and, when
// its amount is positive, MonthlyAmount/Currency; the group keeps the
// ServiceName spelling of its first match. Every match's MessageID is
// appended to EmailIDs, per spec §3 & §4.7.
func (d *SubscriptionDetector) DetectBatch(emails []model.Email) []model.SubscriptionRecord {
	index := make(map[string]int)
	var out []model.SubscriptionRecord
	for _, email := range emails {
		m := d.Detect(email)
		if !m.Matched {
			continue
		}
		key := strings.ToLower(m.Record.ServiceName)
		if i, ok := index[key]; ok {
			existing := &out[i]
			existing.EmailIDs = append(existing.EmailIDs, m.Record.EmailIDs...)
			if !m.Record.LastRenewalDate.Before(existing.LastRenewalDate) {
				existing.LastRenewalDate = m.Record.LastRenewalDate
				if m.Record.MonthlyAmount > 0 {
					existing.MonthlyAmount = m.Record.MonthlyAmount
					existing.Currency = m.Record.Currency
				}
				existing.Frequency = m.Record.Frequency
			}
			continue
		}
		index[key] = len(out)
		out = append(out, m.Record)
	}
	return out
}

// KnownServices returns every canonical service name in the subscription
// catalog.
func (d *SubscriptionDetector) KnownServices() []string {
	seen := make(map[string]bool)
	var names []string
	for _, k := range subscriptionKeys {
		name := subscriptionCatalog[k].Name
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}
