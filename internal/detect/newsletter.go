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
	"sort"
	"strings"

	"github.com/Technical-1/email-archive-parser/internal/model"
)

var newsletterSubjectRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bnewsletter\b`),
	regexp.MustCompile(`(?i)weekly digest`),
	regexp.MustCompile(`(?i)monthly roundup`),
	regexp.MustCompile(`(?i)issue #\d+`),
	regexp.MustCompile(`(?i)vol\.? \d+`),
}

var promoSubjectRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)save \d+% off`),
	regexp.MustCompile(`(?i)flash sale`),
	regexp.MustCompile(`(?i)limited time`),
	regexp.MustCompile(`(?i)exclusive offer`),
	regexp.MustCompile(`(?i)use code\b`),
	regexp.MustCompile(`(?i)black friday`),
}

var marketingBodyRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)unsubscribe`),
	regexp.MustCompile(`(?i)manage preferences`),
	regexp.MustCompile(`(?i)view in browser`),
	regexp.MustCompile(`(?i)copyright ©`),
	regexp.MustCompile(`(?i)all rights reserved`),
	regexp.MustCompile(`(?i)privacy policy`),
}

var promoSubdomainPrefixes = []string{"promo.", "marketing.", "newsletter.", "news.", "email.", "offers."}

var listUnsubscribeRe = regexp.MustCompile(`(?i)list-unsubscribe`)

// NewsletterDetector scores emails along two independent axes —
// "newsletter" and "promotional" — per spec §4.8.
type NewsletterDetector struct{}

// NewNewsletterDetector returns a stateless NewsletterDetector.
func NewNewsletterDetector() *NewsletterDetector { return &NewsletterDetector{} }

// Categorization is the result of NewsletterDetector.Categorize.
type Categorization struct {
	Newsletter bool
	Promotional bool
	Regular    bool
}

// NewsletterMatch is the per-email detection outcome.
type NewsletterMatch struct {
	Record         model.NewsletterRecord
	NewsletterScore int
	PromotionalScore int
	Matched        bool
}

// Detect scores email and returns a match iff it qualifies as either
// newsletter or promotional per the thresholds in spec §4.8.
func (d *NewsletterDetector) Detect(email model.Email) NewsletterMatch {
	nScore, pScore := scoreAxes(email)

	isPromotional := pScore >= 40
	isNewsletter := nScore >= 40 && !isPromotional

	if !isNewsletter && !isPromotional {
		return NewsletterMatch{NewsletterScore: nScore, PromotionalScore: pScore}
	}

	confidence := nScore
	if pScore > confidence {
		confidence = pScore
	}
	confidence = cap100(confidence)

	link := ExtractUnsubscribeLink(email.HTMLBody)
	if link == "" {
		link = ExtractUnsubscribeLink(email.Body)
	}

	return NewsletterMatch{
		NewsletterScore:  nScore,
		PromotionalScore: pScore,
		Matched:          true,
		Record: model.NewsletterRecord{
			SenderEmail:     strings.ToLower(email.Sender),
			SenderName:      email.SenderName,
			EmailCount:      1,
			LastEmailDate:   email.Date,
			UnsubscribeLink: link,
			IsPromotional:   isPromotional,
			Confidence:      confidence,
		},
	}
}

func scoreAxes(email model.Email) (newsletterScore, promotionalScore int) {
	body := email.Body
	subject := email.Subject
	domain := domainOf(email.Sender)

	marketingHits := countMatches(marketingBodyRes, body)
	marketingScoreStrong := 0
	if marketingHits >= 3 {
		marketingScoreStrong = 25
	} else if marketingHits >= 2 {
		marketingScoreStrong = 15
	}
	marketingScorePromo := 0
	if marketingHits >= 3 {
		marketingScorePromo = 20
	} else if marketingHits >= 2 {
		marketingScorePromo = 10
	}

	subdomainPromo := hasPromoSubdomain(domain)
	unsubLink := ExtractUnsubscribeLink(email.HTMLBody) != "" || ExtractUnsubscribeLink(body) != ""
	listUnsub := listUnsubscribeRe.MatchString(subject + " " + body)

	if anyMatch(newsletterSubjectRes, subject) {
		newsletterScore += 30
	}
	newsletterScore += marketingScoreStrong
	if subdomainPromo {
		newsletterScore += 20
	}
	if unsubLink {
		newsletterScore += 15
	}
	if listUnsub {
		newsletterScore += 10
	}

	if anyMatch(promoSubjectRes, subject) {
		promotionalScore += 35
	}
	promotionalScore += marketingScorePromo
	if subdomainPromo {
		promotionalScore += 20
	}
	if unsubLink {
		promotionalScore += 10
	}

	return cap100(newsletterScore), cap100(promotionalScore)
}

func hasPromoSubdomain(domain string) bool {
	for _, prefix := range promoSubdomainPrefixes {
		if strings.HasPrefix(domain, prefix) {
			return true
		}
	}
	return false
}

// Categorize classifies a single email into exactly one of newsletter,
// promotional, or regular, matching NewsletterDetector.categorize in the
// spec's surface.
func (d *NewsletterDetector) Categorize(email model.Email) Categorization {
	m := d.Detect(email)
	if !m.Matched {
		return Categorization{Regular: true}
	}
	if m.Record.IsPromotional {
		return Categorization{Promotional: true}
	}
	return Categorization{Newsletter: true}
}

var unsubscribeAnchorRes = []*regexp.Regexp{
	regexp.MustCompile(`(?is)<a[^>]+href=["']([^"']+)["'][^>]*>[^<]*unsubscribe[^<]*</a>`),
	regexp.MustCompile(`(?is)<a[^>]+href=["']([^"']*unsubscribe[^"']*)["']`),
	regexp.MustCompile(`(?is)<a[^>]+href=["']([^"']*opt-out[^"']*)["']`),
	regexp.MustCompile(`(?is)<a[^>]+href=["']([^"']*email-preferences[^"']*)["']`),
	regexp.MustCompile(`(?is)<a[^>]+href=["']([^"']*manage-preferences[^"']*)["']`),
}

var plainURLUnsubRe = regexp.MustCompile(`(?i)https?://[^\s"'<>]*(unsubscribe|opt-out|preferences)[^\s"'<>]*`)

// ExtractUnsubscribeLink implements the ordered anchor/fallback
// extraction in spec §4.8, accepting only http(s) links.
func ExtractUnsubscribeLink(doc string) string {
	if doc == "" {
		return ""
	}
	for _, re := range unsubscribeAnchorRes {
		if m := re.FindStringSubmatch(doc); m != nil {
			if link := acceptHTTPLink(m[1]); link != "" {
				return link
			}
		}
	}
	if m := plainURLUnsubRe.FindString(doc); m != "" {
		if link := acceptHTTPLink(m); link != "" {
			return link
		}
	}
	return ""
}

func acceptHTTPLink(link string) string {
	lower := strings.ToLower(strings.TrimSpace(link))
	if strings.HasPrefix(lower, "javascript:") || strings.HasPrefix(lower, "mailto:") {
		return ""
	}
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return ""
	}
	return strings.TrimSpace(link)
}

// canonicalSenderNames resolves a handful of well-known domains to a
// display name, used when the message carries no sender name; other
// domains fall back to a humanized domain (spec §4.8).
var canonicalSenderNames = map[string]string{
	"nytimes.com":    "New York Times",
	"wsj.com":        "The Wall Street Journal",
	"medium.com":     "Medium",
	"substack.com":   "Substack",
	"theverge.com":   "The Verge",
	"techcrunch.com": "TechCrunch",
}

func resolveSenderName(email model.Email) string {
	if email.SenderName != "" {
		return email.SenderName
	}
	domain := domainOf(email.Sender)
	if name, ok := canonicalSenderNames[domain]; ok {
		return name
	}
	return humanizeDomain(domain)
}

// DetectBatch groups matches by SenderEmail, computing average
// inter-arrival days (sorted by date descending) to derive Frequency,
// per spec §4.8.
func (d *NewsletterDetector) DetectBatch(emails []model.Email) []model.NewsletterRecord {
	groups := make(map[string][]model.Email)
	var order []string
	for _, email := range emails {
		m := d.Detect(email)
		if !m.Matched {
			continue
		}
		key := strings.ToLower(email.Sender)
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], email)
	}

	var out []model.NewsletterRecord
	for _, key := range order {
		group := groups[key]
		sort.SliceStable(group, func(i, j int) bool { return group[i].Date.After(group[j].Date) })

		mostRecent := group[0]
		mRecord := d.Detect(mostRecent).Record

		link := mRecord.UnsubscribeLink
		for _, e := range group {
			if link != "" {
				break
			}
			link = ExtractUnsubscribeLink(e.HTMLBody)
			if link == "" {
				link = ExtractUnsubscribeLink(e.Body)
			}
		}

		record := model.NewsletterRecord{
			SenderEmail:     key,
			SenderName:      resolveSenderName(mostRecent),
			EmailCount:      len(group),
			LastEmailDate:   group[0].Date,
			Frequency:       inferFrequency(group),
			UnsubscribeLink: link,
			IsPromotional:   mRecord.IsPromotional,
			Confidence:      mRecord.Confidence,
		}
		out = append(out, record)
	}
	return out
}

// inferFrequency computes average inter-arrival days across a
// date-descending-sorted group and buckets it per spec §4.8.
func inferFrequency(group []model.Email) model.Frequency {
	if len(group) < 2 {
		return model.FrequencyIrregular
	}
	var totalDays float64
	for i := 0; i < len(group)-1; i++ {
		totalDays += group[i].Date.Sub(group[i+1].Date).Hours() / 24
	}
	avg := totalDays / float64(len(group)-1)
	switch {
	case avg <= 2:
		return model.FrequencyDaily
	case avg <= 10:
		return model.FrequencyWeekly
	case avg <= 45:
		return model.FrequencyMonthly
	default:
		return model.FrequencyIrregular
	}
}
