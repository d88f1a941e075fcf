// Package transform contains the in-memory record pipeline that sits between
// extraction and loading: de-duplication by natural key, per-kind field
// cleaning, and structural validation with per-record rejection reasons.
//
// Cleaning is fail-soft throughout: a bad field value becomes nil (or a
// neutral default) and the record keeps flowing; only validation removes
// whole records from the load set.
package transform

import (
	"net/url"
	"regexp"
	"strings"

	"opinionetl/internal/model"
)

var (
	emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phoneRe = regexp.MustCompile(`[^\d+\-() ]`)
)

// Clean applies the per-kind normalization rules to r in place. Every rule is
// per-field and order-independent; Clean never drops a record.
func Clean(r model.Record) {
	switch t := r.(type) {
	case *model.Source:
		t.Name = cleanText(t.Name)
		t.SourceType = cleanText(t.SourceType)
		t.Description = cleanLongText(t.Description)
		t.URL = cleanURL(t.URL)
	case *model.Product:
		t.Code = cleanText(t.Code)
		t.Name = cleanText(t.Name)
		t.Category = cleanShortText(t.Category)
		t.Subcategory = cleanShortText(t.Subcategory)
		t.Brand = cleanShortText(t.Brand)
		t.Description = cleanLongText(t.Description)
		if t.Price != nil && *t.Price <= 0 {
			t.Price = nil
		}
	case *model.Customer:
		t.FirstName = cleanText(t.FirstName)
		t.LastName = cleanText(t.LastName)
		t.Email = cleanEmail(t.Email)
		t.Phone = cleanPhone(t.Phone)
		t.City = cleanShortText(t.City)
		t.Country = cleanShortText(t.Country)
		t.Gender = coerceGender(t.Gender)
	case *model.Survey:
		t.Title = cleanText(t.Title)
		t.MainQuestion = cleanShortText(t.MainQuestion)
		t.Comment = cleanLongText(t.Comment)
		t.OverallRating = ratingInRange(t.OverallRating, 1, 10)
		t.QualityRating = ratingInRange(t.QualityRating, 1, 5)
		t.ServiceRating = ratingInRange(t.ServiceRating, 1, 5)
		t.PriceRating = ratingInRange(t.PriceRating, 1, 5)
		t.Sentiment = normalizeSentiment(t.Sentiment)
	case *model.SocialComment:
		t.Platform = cleanText(t.Platform)
		t.Username = cleanShortText(t.Username)
		t.Text = cleanRequiredLongText(t.Text)
		t.Hashtags = cleanShortText(t.Hashtags)
		t.Sentiment = normalizeSentiment(t.Sentiment)
		t.Likes = floorZero(t.Likes)
		t.Shares = floorZero(t.Shares)
		t.Replies = floorZero(t.Replies)
	case *model.WebReview:
		t.Site = cleanText(t.Site)
		t.Title = cleanShortText(t.Title)
		t.Text = cleanRequiredLongText(t.Text)
		t.Reviewer = cleanShortText(t.Reviewer)
		t.Sentiment = normalizeSentiment(t.Sentiment)
		if t.NumericRating != nil && (*t.NumericRating < 0 || *t.NumericRating > 5) {
			t.NumericRating = nil
		}
		t.StarRating = ratingInRange(t.StarRating, 1, 5)
		t.HelpfulVotes = floorZero(t.HelpfulVotes)
		t.TotalVotes = floorZero(t.TotalVotes)
	}
}

// cleanText collapses runs of whitespace to a single space and trims the
// ends. Empty input stays the empty string.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// cleanShortText is cleanText for optional short fields: whitespace-only
// values become nil.
func cleanShortText(p *string) *string {
	if p == nil {
		return nil
	}
	s := cleanText(*p)
	if s == "" {
		return nil
	}
	return &s
}

// cleanLongText is the same rule for long/free-text optional fields.
func cleanLongText(p *string) *string { return cleanShortText(p) }

// cleanRequiredLongText cleans a required text field in place; emptiness is
// left for validation to flag.
func cleanRequiredLongText(s string) string { return cleanText(s) }

// cleanEmail lower-cases and trims, then requires a local@domain.tld shape:
// exactly one '@', a dot in the domain, no embedded whitespace. Anything else
// becomes nil.
func cleanEmail(p *string) *string {
	if p == nil {
		return nil
	}
	s := strings.ToLower(strings.TrimSpace(*p))
	if s == "" || !emailRe.MatchString(s) || strings.Count(s, "@") != 1 {
		return nil
	}
	return &s
}

// cleanPhone strips everything but digits, '+', '-', parentheses and spaces.
// Empty after stripping becomes nil.
func cleanPhone(p *string) *string {
	if p == nil {
		return nil
	}
	s := strings.TrimSpace(phoneRe.ReplaceAllString(*p, ""))
	if s == "" {
		return nil
	}
	return &s
}

// coerceGender upper-cases and coerces anything outside {M, F, OTRO} to
// "Otro".
func coerceGender(p *string) *string {
	if p == nil {
		return nil
	}
	s := strings.ToUpper(strings.TrimSpace(*p))
	switch s {
	case "M", "F", "OTRO":
		return &s
	default:
		other := "Otro"
		return &other
	}
}

// ratingInRange nils out-of-range ratings. Values are never clamped and the
// record never rejected for a bad rating.
func ratingInRange(p *int, min, max int) *int {
	if p == nil {
		return nil
	}
	if *p < min || *p > max {
		return nil
	}
	return p
}

// normalizeSentiment maps free-form sentiment labels onto the canonical
// three-value set. Unknown and empty labels both normalize to "Neutral".
func normalizeSentiment(p *string) *string {
	var raw string
	if p != nil {
		raw = strings.ToLower(strings.TrimSpace(*p))
	}
	var out string
	switch raw {
	case "positivo", "positive", "bueno", "good":
		out = "Positivo"
	case "negativo", "negative", "malo", "bad":
		out = "Negativo"
	default:
		out = "Neutral"
	}
	return &out
}

// cleanURL keeps only values that parse as an absolute URI.
func cleanURL(p *string) *string {
	if p == nil {
		return nil
	}
	s := strings.TrimSpace(*p)
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil || !u.IsAbs() {
		return nil
	}
	return &s
}

// floorZero floors negative counters (likes, votes, ...) to zero.
func floorZero(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
