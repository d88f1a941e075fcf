package transform

import (
	"fmt"

	"opinionetl/internal/model"
)

// Validate re-checks the structural constraints of a cleaned record:
// required fields non-empty, lengths within the declared maxima, and rating
// ranges. It is deliberately independent of Clean: it inspects the record as
// given and reports every violated constraint, so a record that bypassed
// cleaning is still caught here.
func Validate(r model.Record) (ok bool, reasons []string) {
	var v violations
	switch t := r.(type) {
	case *model.Source:
		v.required("Name", t.Name)
		v.maxLen("Name", t.Name, 100)
		v.required("SourceType", t.SourceType)
		v.maxLen("SourceType", t.SourceType, 50)
		v.maxLenOpt("URL", t.URL, 255)
		v.maxLenOpt("Description", t.Description, 500)
	case *model.Product:
		v.required("Code", t.Code)
		v.maxLen("Code", t.Code, 50)
		v.required("Name", t.Name)
		v.maxLen("Name", t.Name, 200)
		v.maxLenOpt("Category", t.Category, 100)
		v.maxLenOpt("Subcategory", t.Subcategory, 100)
		v.maxLenOpt("Description", t.Description, 1000)
		v.maxLenOpt("Brand", t.Brand, 100)
		v.maxLen("Status", t.Status, 20)
	case *model.Customer:
		v.required("Code", t.Code)
		v.maxLen("Code", t.Code, 50)
		v.required("FirstName", t.FirstName)
		v.maxLen("FirstName", t.FirstName, 100)
		v.required("LastName", t.LastName)
		v.maxLen("LastName", t.LastName, 100)
		v.maxLenOpt("Email", t.Email, 255)
		v.maxLenOpt("Phone", t.Phone, 20)
		v.maxLenOpt("Gender", t.Gender, 10)
		v.maxLenOpt("City", t.City, 100)
		v.maxLenOpt("Country", t.Country, 100)
		v.maxLen("Segment", t.Segment, 50)
		v.maxLen("Status", t.Status, 20)
	case *model.Survey:
		v.required("Title", t.Title)
		v.maxLen("Title", t.Title, 200)
		v.maxLenOpt("MainQuestion", t.MainQuestion, 500)
		v.inRange("OverallRating", t.OverallRating, 1, 10)
		v.inRange("QualityRating", t.QualityRating, 1, 5)
		v.inRange("ServiceRating", t.ServiceRating, 1, 5)
		v.inRange("PriceRating", t.PriceRating, 1, 5)
		v.maxLenOpt("Comment", t.Comment, 2000)
		v.maxLenOpt("Sentiment", t.Sentiment, 20)
	case *model.SocialComment:
		v.required("Platform", t.Platform)
		v.maxLen("Platform", t.Platform, 50)
		v.maxLenOpt("Username", t.Username, 100)
		v.required("Text", t.Text)
		v.maxLen("Text", t.Text, 4000)
		v.maxLenOpt("Hashtags", t.Hashtags, 500)
		v.maxLenOpt("Sentiment", t.Sentiment, 20)
		v.nonNegative("Likes", t.Likes)
		v.nonNegative("Shares", t.Shares)
		v.nonNegative("Replies", t.Replies)
	case *model.WebReview:
		v.required("Site", t.Site)
		v.maxLen("Site", t.Site, 100)
		v.maxLenOpt("Title", t.Title, 300)
		v.required("Text", t.Text)
		v.maxLen("Text", t.Text, 4000)
		v.inRange("StarRating", t.StarRating, 1, 5)
		v.maxLenOpt("Reviewer", t.Reviewer, 100)
		v.maxLenOpt("Sentiment", t.Sentiment, 20)
		v.nonNegative("HelpfulVotes", t.HelpfulVotes)
		v.nonNegative("TotalVotes", t.TotalVotes)
		if t.NumericRating != nil && (*t.NumericRating < 0 || *t.NumericRating > 5) {
			v.add("NumericRating %v outside [0,5]", *t.NumericRating)
		}
	}
	return len(v) == 0, v
}

type violations []string

func (v *violations) add(format string, a ...any) {
	*v = append(*v, fmt.Sprintf(format, a...))
}

func (v *violations) required(field, val string) {
	if val == "" {
		v.add("required field %s missing", field)
	}
}

func (v *violations) maxLen(field, val string, max int) {
	if len([]rune(val)) > max {
		v.add("field %s exceeds max length %d", field, max)
	}
}

func (v *violations) maxLenOpt(field string, val *string, max int) {
	if val != nil {
		v.maxLen(field, *val, max)
	}
}

func (v *violations) inRange(field string, val *int, min, max int) {
	if val != nil && (*val < min || *val > max) {
		v.add("field %s %d outside [%d,%d]", field, *val, min, max)
	}
}

func (v *violations) nonNegative(field string, val int) {
	if val < 0 {
		v.add("field %s must not be negative", field)
	}
}
