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
	"sort"

	"github.com/Technical-1/email-archive-parser/internal/model"
)

// serviceEntry is one row of the account-detector's service catalog:
// canonical display name + service type, keyed by a registrable domain.
type serviceEntry struct {
	Name string
	Type model.ServiceType
}

// serviceCatalog is an immutable table shared by every AccountDetector
// call (spec §5: "no process-wide caches... shared safely by read-only
// reference"). Built once at package init via buildServiceCatalog.
var serviceCatalog = buildServiceCatalog()
var serviceKeys = sortedKeys(serviceCatalog)

func buildServiceCatalog() map[string]serviceEntry {
	m := map[string]serviceEntry{
		"netflix.com":       {"Netflix", model.ServiceStreaming},
		"hulu.com":          {"Hulu", model.ServiceStreaming},
		"disneyplus.com":    {"Disney+", model.ServiceStreaming},
		"hbomax.com":        {"HBO Max", model.ServiceStreaming},
		"max.com":           {"Max", model.ServiceStreaming},
		"spotify.com":       {"Spotify", model.ServiceStreaming},
		"apple.com":         {"Apple", model.ServiceOther},
		"music.apple.com":   {"Apple Music", model.ServiceStreaming},
		"tv.apple.com":      {"Apple TV+", model.ServiceStreaming},
		"paramountplus.com": {"Paramount+", model.ServiceStreaming},
		"peacocktv.com":     {"Peacock", model.ServiceStreaming},
		"youtube.com":       {"YouTube", model.ServiceStreaming},
		"twitch.tv":         {"Twitch", model.ServiceStreaming},
		"pandora.com":       {"Pandora", model.ServiceStreaming},
		"soundcloud.com":    {"SoundCloud", model.ServiceStreaming},
		"tidal.com":         {"Tidal", model.ServiceStreaming},
		"audible.com":       {"Audible", model.ServiceStreaming},

		"amazon.com":    {"Amazon", model.ServiceEcommerce},
		"ebay.com":      {"eBay", model.ServiceEcommerce},
		"etsy.com":      {"Etsy", model.ServiceEcommerce},
		"walmart.com":   {"Walmart", model.ServiceEcommerce},
		"target.com":    {"Target", model.ServiceEcommerce},
		"bestbuy.com":   {"Best Buy", model.ServiceEcommerce},
		"shopify.com":   {"Shopify", model.ServiceEcommerce},
		"aliexpress.com": {"AliExpress", model.ServiceEcommerce},
		"wish.com":      {"Wish", model.ServiceEcommerce},
		"wayfair.com":   {"Wayfair", model.ServiceEcommerce},
		"chewy.com":     {"Chewy", model.ServiceEcommerce},
		"instacart.com": {"Instacart", model.ServiceEcommerce},
		"doordash.com":  {"DoorDash", model.ServiceEcommerce},
		"grubhub.com":   {"Grubhub", model.ServiceEcommerce},
		"uber.com":      {"Uber", model.ServiceEcommerce},
		"lyft.com":      {"Lyft", model.ServiceEcommerce},

		"facebook.com":  {"Facebook", model.ServiceSocial},
		"instagram.com": {"Instagram", model.ServiceSocial},
		"twitter.com":   {"Twitter", model.ServiceSocial},
		"x.com":         {"X", model.ServiceSocial},
		"linkedin.com":  {"LinkedIn", model.ServiceSocial},
		"pinterest.com": {"Pinterest", model.ServiceSocial},
		"reddit.com":    {"Reddit", model.ServiceSocial},
		"tiktok.com":    {"TikTok", model.ServiceSocial},
		"snapchat.com":  {"Snapchat", model.ServiceSocial},
		"discord.com":   {"Discord", model.ServiceSocial},
		"tumblr.com":    {"Tumblr", model.ServiceSocial},
		"meetup.com":    {"Meetup", model.ServiceSocial},
		"nextdoor.com":  {"Nextdoor", model.ServiceSocial},

		"chase.com":            {"Chase", model.ServiceBanking},
		"bankofamerica.com":    {"Bank of America", model.ServiceBanking},
		"wellsfargo.com":       {"Wells Fargo", model.ServiceBanking},
		"citibank.com":         {"Citibank", model.ServiceBanking},
		"capitalone.com":       {"Capital One", model.ServiceBanking},
		"americanexpress.com":  {"American Express", model.ServiceBanking},
		"discover.com":         {"Discover", model.ServiceBanking},
		"paypal.com":           {"PayPal", model.ServiceBanking},
		"venmo.com":            {"Venmo", model.ServiceBanking},
		"stripe.com":           {"Stripe", model.ServiceBanking},
		"robinhood.com":        {"Robinhood", model.ServiceBanking},
		"coinbase.com":         {"Coinbase", model.ServiceBanking},
		"schwab.com":           {"Charles Schwab", model.ServiceBanking},
		"fidelity.com":         {"Fidelity", model.ServiceBanking},
		"ally.com":             {"Ally Bank", model.ServiceBanking},
		"wise.com":             {"Wise", model.ServiceBanking},

		"gmail.com":      {"Gmail", model.ServiceCommunication},
		"outlook.com":    {"Outlook", model.ServiceCommunication},
		"yahoo.com":      {"Yahoo Mail", model.ServiceCommunication},
		"protonmail.com": {"ProtonMail", model.ServiceCommunication},
		"zoom.us":        {"Zoom", model.ServiceCommunication},
		"slack.com":      {"Slack", model.ServiceCommunication},
		"teams.microsoft.com": {"Microsoft Teams", model.ServiceCommunication},
		"skype.com":      {"Skype", model.ServiceCommunication},
		"whatsapp.com":   {"WhatsApp", model.ServiceCommunication},
		"telegram.org":   {"Telegram", model.ServiceCommunication},
		"signal.org":     {"Signal", model.ServiceCommunication},

		"github.com":      {"GitHub", model.ServiceDevelopment},
		"gitlab.com":      {"GitLab", model.ServiceDevelopment},
		"bitbucket.org":   {"Bitbucket", model.ServiceDevelopment},
		"aws.amazon.com":  {"AWS", model.ServiceDevelopment},
		"azure.com":       {"Microsoft Azure", model.ServiceDevelopment},
		"cloud.google.com": {"Google Cloud", model.ServiceDevelopment},
		"digitalocean.com": {"DigitalOcean", model.ServiceDevelopment},
		"heroku.com":      {"Heroku", model.ServiceDevelopment},
		"vercel.com":      {"Vercel", model.ServiceDevelopment},
		"netlify.com":     {"Netlify", model.ServiceDevelopment},
		"npmjs.com":       {"npm", model.ServiceDevelopment},
		"docker.com":      {"Docker", model.ServiceDevelopment},
		"atlassian.com":   {"Atlassian", model.ServiceDevelopment},
		"jetbrains.com":   {"JetBrains", model.ServiceDevelopment},
		"cloudflare.com":  {"Cloudflare", model.ServiceDevelopment},
		"linode.com":      {"Linode", model.ServiceDevelopment},
		"ovhcloud.com":    {"OVHcloud", model.ServiceDevelopment},
		"replit.com":      {"Replit", model.ServiceDevelopment},

		"dropbox.com":     {"Dropbox", model.ServiceOther},
		"box.com":         {"Box", model.ServiceOther},
		"notion.so":       {"Notion", model.ServiceOther},
		"trello.com":      {"Trello", model.ServiceOther},
		"asana.com":       {"Asana", model.ServiceOther},
		"airbnb.com":      {"Airbnb", model.ServiceOther},
		"booking.com":     {"Booking.com", model.ServiceOther},
		"expedia.com":     {"Expedia", model.ServiceOther},
		"canva.com":       {"Canva", model.ServiceOther},
		"adobe.com":       {"Adobe", model.ServiceOther},
		"grammarly.com":   {"Grammarly", model.ServiceOther},
		"duolingo.com":    {"Duolingo", model.ServiceOther},
		"coursera.org":    {"Coursera", model.ServiceOther},
		"udemy.com":       {"Udemy", model.ServiceOther},
		"medium.com":      {"Medium", model.ServiceOther},
		"substack.com":    {"Substack", model.ServiceOther},
		"patreon.com":     {"Patreon", model.ServiceOther},
		"eventbrite.com":  {"Eventbrite", model.ServiceOther},
		"strava.com":      {"Strava", model.ServiceFitness},
		"peloton.com":     {"Peloton", model.ServiceFitness},
		"myfitnesspal.com": {"MyFitnessPal", model.ServiceFitness},
		"fitbit.com":      {"Fitbit", model.ServiceFitness},
	}
	return m
}

// merchantEntry is one row of the purchase-detector's merchant catalog.
type merchantEntry struct {
	Name     string
	Category string
}

var merchantCatalog = buildMerchantCatalog()
var merchantKeys = sortedKeys(merchantCatalog)

func buildMerchantCatalog() map[string]merchantEntry {
	return map[string]merchantEntry{
		"amazon.com":     {"Amazon", "ecommerce"},
		"ebay.com":       {"eBay", "ecommerce"},
		"etsy.com":       {"Etsy", "ecommerce"},
		"walmart.com":    {"Walmart", "retail"},
		"target.com":     {"Target", "retail"},
		"bestbuy.com":    {"Best Buy", "electronics"},
		"apple.com":      {"Apple", "electronics"},
		"aliexpress.com": {"AliExpress", "ecommerce"},
		"wayfair.com":    {"Wayfair", "home"},
		"chewy.com":      {"Chewy", "pets"},
		"instacart.com":  {"Instacart", "grocery"},
		"doordash.com":   {"DoorDash", "food"},
		"grubhub.com":    {"Grubhub", "food"},
		"uber.com":       {"Uber", "transport"},
		"ubereats.com":   {"Uber Eats", "food"},
		"lyft.com":       {"Lyft", "transport"},
		"airbnb.com":     {"Airbnb", "travel"},
		"booking.com":    {"Booking.com", "travel"},
		"expedia.com":    {"Expedia", "travel"},
		"delta.com":      {"Delta Air Lines", "travel"},
		"united.com":     {"United Airlines", "travel"},
		"southwest.com":  {"Southwest Airlines", "travel"},
		"nike.com":       {"Nike", "apparel"},
		"zara.com":       {"Zara", "apparel"},
		"ikea.com":       {"IKEA", "home"},
		"homedepot.com":  {"The Home Depot", "home"},
	}
}

// subscriptionCatalogEntry is one row of the subscription-detector's
// service catalog: canonical name and billing category.
type subscriptionCatalogEntry struct {
	Name     string
	Category string
}

var subscriptionCatalog = buildSubscriptionCatalog()
var subscriptionKeys = sortedKeys(subscriptionCatalog)

func buildSubscriptionCatalog() map[string]subscriptionCatalogEntry {
	return map[string]subscriptionCatalogEntry{
		"netflix.com":       {"Netflix", "streaming"},
		"hulu.com":          {"Hulu", "streaming"},
		"disneyplus.com":    {"Disney+", "streaming"},
		"hbomax.com":        {"HBO Max", "streaming"},
		"max.com":           {"Max", "streaming"},
		"spotify.com":       {"Spotify", "streaming"},
		"music.apple.com":   {"Apple Music", "streaming"},
		"tv.apple.com":      {"Apple TV+", "streaming"},
		"paramountplus.com": {"Paramount+", "streaming"},
		"peacocktv.com":     {"Peacock", "streaming"},
		"youtube.com":       {"YouTube Premium", "streaming"},
		"tidal.com":         {"Tidal", "streaming"},
		"audible.com":       {"Audible", "streaming"},
		"sling.com":         {"Sling TV", "streaming"},
		"fubo.tv":           {"fuboTV", "streaming"},

		"adobe.com":      {"Adobe Creative Cloud", "software"},
		"microsoft.com":  {"Microsoft 365", "software"},
		"dropbox.com":    {"Dropbox", "software"},
		"notion.so":      {"Notion", "software"},
		"canva.com":      {"Canva Pro", "software"},
		"github.com":     {"GitHub", "software"},
		"1password.com":  {"1Password", "software"},
		"lastpass.com":   {"LastPass", "software"},
		"grammarly.com":  {"Grammarly", "software"},
		"zoom.us":        {"Zoom", "software"},
		"slack.com":      {"Slack", "software"},
		"atlassian.com":  {"Atlassian", "software"},
		"evernote.com":   {"Evernote", "software"},
		"expressvpn.com": {"ExpressVPN", "software"},
		"nordvpn.com":    {"NordVPN", "software"},

		"nytimes.com":       {"The New York Times", "news"},
		"wsj.com":           {"The Wall Street Journal", "news"},
		"washingtonpost.com": {"The Washington Post", "news"},
		"economist.com":     {"The Economist", "news"},
		"medium.com":        {"Medium", "news"},
		"substack.com":      {"Substack", "news"},

		"peloton.com":      {"Peloton", "fitness"},
		"strava.com":       {"Strava", "fitness"},
		"myfitnesspal.com": {"MyFitnessPal", "fitness"},
		"classpass.com":    {"ClassPass", "fitness"},
		"fitbit.com":       {"Fitbit Premium", "fitness"},

		"duolingo.com": {"Duolingo Plus", "other"},
		"coursera.org": {"Coursera Plus", "other"},
		"patreon.com":  {"Patreon", "other"},
		"amazon.com":   {"Amazon Prime", "other"},
		"costco.com":   {"Costco Membership", "other"},
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
