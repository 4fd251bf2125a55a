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

// Package model defines the data structures shared across the archive
// ingestion and classification pipeline.
package model

import "time"

// SizeCap is the observability cap on Email.Size — messages larger than
// this are still fully parsed, only the reported size is capped.
const SizeCap = 100_000

// Email is the normalized unit produced by every ingestion path (MBOX or
// OLM). Its invariants are enforced by the producer, not by this type:
// Sender must contain exactly one '@', Date is never the zero value, and
// Body+HTMLBody is non-empty unless Subject is non-empty.
type Email struct {
	Subject        string
	Sender         string // lowercased, angle brackets stripped
	SenderName     string // RFC 2047 decoded display name, optional
	Recipients     []string
	Date           time.Time
	Body           string
	HTMLBody       string
	Size           int // byte length of the raw message, capped at SizeCap
	IsRead         bool
	IsStarred      bool
	FolderID       string
	Labels         []string
	ThreadID       string
	MessageID      string
	HasAttachments bool
}

// NoSubjectPlaceholder is substituted for Email.Subject when a message
// carries no Subject header.
const NoSubjectPlaceholder = "(No Subject)"

// AccountRecord describes a detected "account created at service X" event.
type AccountRecord struct {
	ServiceName    string
	SignupDate     time.Time
	ServiceType    ServiceType
	Domain         string
	EmailCount     int
	SignupEmailID  string
	Confidence     int
}

// ServiceType classifies the kind of service an account or subscription
// belongs to.
type ServiceType string

const (
	ServiceStreaming      ServiceType = "streaming"
	ServiceEcommerce      ServiceType = "ecommerce"
	ServiceSocial         ServiceType = "social"
	ServiceBanking        ServiceType = "banking"
	ServiceCommunication  ServiceType = "communication"
	ServiceDevelopment    ServiceType = "development"
	ServiceSoftware       ServiceType = "software"
	ServiceNews           ServiceType = "news"
	ServiceFitness        ServiceType = "fitness"
	ServiceOther          ServiceType = "other"
)

// PurchaseRecord describes a detected online purchase.
type PurchaseRecord struct {
	Merchant     string
	Amount       float64
	Currency     string
	PurchaseDate time.Time
	OrderNumber  string
	Items        []string
	Category     string
	Confidence   int
}

// Frequency describes how often a recurring email-driven event repeats.
type Frequency string

const (
	FrequencyDaily    Frequency = "daily"
	FrequencyWeekly   Frequency = "weekly"
	FrequencyMonthly  Frequency = "monthly"
	FrequencyYearly   Frequency = "yearly"
	FrequencyIrregular Frequency = "irregular"
)

// SubscriptionRecord describes a detected recurring subscription/membership.
type SubscriptionRecord struct {
	ServiceName      string
	MonthlyAmount    float64
	Currency         string
	Frequency        Frequency
	LastRenewalDate  time.Time
	EmailIDs         []string
	IsActive         bool
	Category         string
	Confidence       int
}

// NewsletterRecord describes a detected newsletter or promotional sender.
type NewsletterRecord struct {
	SenderEmail      string
	SenderName       string
	EmailCount       int
	LastEmailDate    time.Time
	Frequency        Frequency
	UnsubscribeLink  string
	IsPromotional    bool
	Confidence       int
}
