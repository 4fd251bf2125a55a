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

var accountSubjectRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^welcome to`),
	regexp.MustCompile(`(?i)^verify your.*(email|account)`),
	regexp.MustCompile(`(?i)^activate your.*account`),
	regexp.MustCompile(`(?i)email verification`),
	regexp.MustCompile(`(?i)^confirm your.*(email|account)`),
	regexp.MustCompile(`(?i)^please verify`),
	regexp.MustCompile(`(?i)^your.*account.*(created|is ready)`),
	regexp.MustCompile(`(?i)^finish (setting up|creating) your account`),
	regexp.MustCompile(`(?i)^thanks for (signing up|joining|registering)`),
	regexp.MustCompile(`(?i)^(one more step|almost there).*verify`),
}

var accountBodyRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)click.*to verify your email`),
	regexp.MustCompile(`(?i)your account has been created`),
	regexp.MustCompile(`(?i)verification code\s*:?\s*\d{4,8}`),
	regexp.MustCompile(`(?i)confirm your email address`),
	regexp.MustCompile(`(?i)welcome aboard`),
	regexp.MustCompile(`(?i)you('re| are) (almost |)ready to (get started|go)`),
	regexp.MustCompile(`(?i)activate your account by clicking`),
	regexp.MustCompile(`(?i)this email (confirms|verifies) your (registration|sign.?up)`),
}

var serviceFromSubjectRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^welcome to ([A-Z][\w.&' -]{1,29})[!.,]`),
	regexp.MustCompile(`(?i)thanks for (?:signing up|joining|registering)(?:\s+(?:for|with))?\s+([A-Z][\w.&' -]{1,29})[!.,]?`),
	regexp.MustCompile(`(?i)your ([A-Z][\w.&' -]{1,29}) account is ready`),
}

// AccountDetector scores emails for "the user just created an account at
// service X" per spec §4.5.
type AccountDetector struct{}

// NewAccountDetector returns a stateless AccountDetector.
func NewAccountDetector() *AccountDetector { return &AccountDetector{} }

// AccountMatch is the per-email detection outcome, including the
// confidence score that drove the emit decision.
type AccountMatch struct {
	Record     model.AccountRecord
	Confidence int
	Matched    bool
}

// Detect scores a single email and returns a match iff confidence >= 70
// and a service name was resolved, per spec §4.5.
func (d *AccountDetector) Detect(email model.Email) AccountMatch {
	domain := domainOf(email.Sender)
	label := labelOf(email.Sender)
	subject := email.Subject
	body := email.Body

	score := 0
	var serviceName string
	var serviceType model.ServiceType = model.ServiceOther

	if key, ok := catalogLookup(domain, label, serviceKeys); ok {
		entry := serviceCatalog[key]
		serviceName = entry.Name
		serviceType = entry.Type
		score += 40
	}

	if anyMatch(accountSubjectRes, subject) {
		score += 40
	}
	if anyMatch(accountBodyRes, body) {
		score += 30
	}

	if serviceName == "" {
		if extracted, ok := extractServiceNameFromSubject(subject); ok {
			serviceName = extracted
			score += 10
		}
	}

	if score > 100 {
		score = 100
	}

	if score < 70 || serviceName == "" {
		return AccountMatch{Confidence: score}
	}

	return AccountMatch{
		Confidence: score,
		Matched:    true,
		Record: model.AccountRecord{
			ServiceName:   serviceName,
			SignupDate:    email.Date,
			ServiceType:   serviceType,
			Domain:        domain,
			EmailCount:    1,
			SignupEmailID: email.MessageID,
			Confidence:    score,
		},
	}
}

// extractServiceNameFromSubject applies the ordered regex attempts from
// spec §4.5, requiring the extracted name be 2-30 chars and start with an
// alphabetic character.
func extractServiceNameFromSubject(subject string) (string, bool) {
	for _, re := range serviceFromSubjectRes {
		if m := re.FindStringSubmatch(subject); m != nil {
			name := strings.TrimSpace(m[1])
			if len(name) < 2 || len(name) > 30 {
				continue
			}
			r := rune(name[0])
			if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')) {
				continue
			}
			return name, true
		}
	}
	return "", false
}

// DetectBatch runs Detect across every email and aggregates by
// case-insensitive service name, retaining the earliest SignupDate and
// incrementing EmailCount per additional hit (spec §4.5, §3). Ties on
// SignupDate are broken by earliest record, per spec §5's ordering
// guarantee — since input order is preserved, "earliest" among equal
// timestamps is simply "first seen."
func (d *AccountDetector) DetectBatch(emails []model.Email) []model.AccountRecord {
	index := make(map[string]int)
	var out []model.AccountRecord
	for _, email := range emails {
		m := d.Detect(email)
		if !m.Matched {
			continue
		}
		key := strings.ToLower(m.Record.ServiceName)
		if i, ok := index[key]; ok {
			out[i].EmailCount++
			if m.Record.SignupDate.Before(out[i].SignupDate) {
				out[i].SignupDate = m.Record.SignupDate
				out[i].SignupEmailID = m.Record.SignupEmailID
			}
			if m.Record.Confidence > out[i].Confidence {
				out[i].Confidence = m.Record.Confidence
			}
			continue
		}
		index[key] = len(out)
		out = append(out, m.Record)
	}
	return out
}

// KnownServices returns every canonical service name in the built-in
// catalog, for introspection (spec §6: AccountDetector.known_services()).
func (d *AccountDetector) KnownServices() []string {
	seen := make(map[string]bool)
	var names []string
	for _, k := range serviceKeys {
		name := serviceCatalog[k].Name
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}
