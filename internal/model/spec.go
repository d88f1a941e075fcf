package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Spec carries the per-kind storage metadata: destination table, insert
// column order (surrogate id excluded; the store assigns it), the id column,
// and the column holding the natural key for reference kinds.
type Spec struct {
	Table string

	// IDColumn is the surrogate-key column assigned by the store.
	IDColumn string

	// KeyColumn names the natural-key column for reference kinds
	// (Sources.Name, Products.Code, Customers.Code); empty for the rest.
	KeyColumn string

	// Columns is the ordered insert column list; InsertArgs returns values
	// aligned to this order.
	Columns []string

	// DefaultFile is the conventional CSV file name for this kind, relative
	// to the configured data directory.
	DefaultFile string
}

var specs = map[Kind]Spec{
	KindSource: {
		Table:     "Sources",
		IDColumn:  "SourceID",
		KeyColumn: "Name",
		Columns: []string{
			"Name", "SourceType", "URL", "Description", "Active", "CreatedAt",
		},
		DefaultFile: "fuentes.csv",
	},
	KindProduct: {
		Table:     "Products",
		IDColumn:  "ProductID",
		KeyColumn: "Code",
		Columns: []string{
			"Code", "Name", "Category", "Subcategory", "Price",
			"Description", "Brand", "Status", "CreatedAt", "UpdatedAt",
		},
		DefaultFile: "productos.csv",
	},
	KindCustomer: {
		Table:     "Customers",
		IDColumn:  "CustomerID",
		KeyColumn: "Code",
		Columns: []string{
			"Code", "FirstName", "LastName", "Email", "Phone", "BirthDate",
			"Gender", "City", "Country", "Segment", "Status",
			"RegisteredAt", "UpdatedAt",
		},
		DefaultFile: "clientes.csv",
	},
	KindSurvey: {
		Table:    "Surveys",
		IDColumn: "SurveyID",
		Columns: []string{
			"CustomerID", "ProductID", "SourceID", "Title", "MainQuestion",
			"OverallRating", "QualityRating", "ServiceRating", "PriceRating",
			"Comment", "Sentiment", "SentimentConfidence",
			"SurveyDate", "CreatedAt",
		},
		DefaultFile: "encuestas.csv",
	},
	KindSocialComment: {
		Table:    "SocialComments",
		IDColumn: "CommentID",
		Columns: []string{
			"CustomerID", "ProductID", "SourceID", "Platform", "Username",
			"Text", "Likes", "Shares", "Replies", "Hashtags",
			"Sentiment", "SentimentConfidence", "PublishedAt", "ExtractedAt",
		},
		DefaultFile: "comentarios_sociales.csv",
	},
	KindWebReview: {
		Table:    "WebReviews",
		IDColumn: "ReviewID",
		Columns: []string{
			"CustomerID", "ProductID", "SourceID", "Site", "Title", "Text",
			"NumericRating", "StarRating", "Reviewer", "VerifiedPurchase",
			"HelpfulVotes", "TotalVotes", "Sentiment", "SentimentConfidence",
			"ReviewDate", "ExtractedAt",
		},
		DefaultFile: "resenas_web.csv",
	},
}

// SpecFor returns the storage spec for k. It panics on an unknown kind; the
// kind set is closed and every value comes from the Kinds table.
func SpecFor(k Kind) Spec {
	s, ok := specs[k]
	if !ok {
		panic(fmt.Sprintf("model: no spec for kind %d", int(k)))
	}
	return s
}

// keySep joins natural-key components. A control character never present in
// field data, so "a"+"bc" and "ab"+"c" cannot collide.
const keySep = '\x1f'

const (
	dayLayout    = "20060102"     // day precision
	minuteLayout = "200601021504" // minute precision
)

// NaturalKey builds the composite key that identifies a logical duplicate of
// r, independent of any store-assigned id. ok is false when the record lacks
// the fields the key is made of; such records are never considered unique and
// the deduplicator drops them.
func NaturalKey(r Record) (key string, ok bool) {
	var b strings.Builder
	switch t := r.(type) {
	case *Source:
		if t.Name == "" || t.SourceType == "" {
			return "", false
		}
		b.WriteString(t.Name)
		b.WriteByte(keySep)
		b.WriteString(t.SourceType)
	case *Product:
		if t.Code == "" {
			return "", false
		}
		b.WriteString(t.Code)
	case *Customer:
		if t.Code == "" {
			return "", false
		}
		b.WriteString(t.Code)
		b.WriteByte(keySep)
		b.WriteString(strDeref(t.Email))
	case *Survey:
		if t.SurveyDate.IsZero() {
			return "", false
		}
		b.WriteString(strconv.Itoa(t.CustomerID))
		b.WriteByte(keySep)
		b.WriteString(strconv.Itoa(t.ProductID))
		b.WriteByte(keySep)
		b.WriteString(t.SurveyDate.Format(dayLayout))
	case *SocialComment:
		if strDeref(t.Username) == "" || t.PublishedAt.IsZero() {
			return "", false
		}
		b.WriteString(strDeref(t.Username))
		b.WriteByte(keySep)
		b.WriteString(strconv.Itoa(t.ProductID))
		b.WriteByte(keySep)
		b.WriteString(t.PublishedAt.Format(minuteLayout))
	case *WebReview:
		if strDeref(t.Reviewer) == "" || t.ReviewDate.IsZero() {
			return "", false
		}
		b.WriteString(strDeref(t.Reviewer))
		b.WriteByte(keySep)
		b.WriteString(strconv.Itoa(t.ProductID))
		b.WriteByte(keySep)
		b.WriteString(t.ReviewDate.Format(dayLayout))
	default:
		return "", false
	}
	return b.String(), true
}

// InsertArgs returns the insert values for r aligned to SpecFor(r.Kind()).Columns.
// Optional fields bind as explicit nil so drivers send NULL.
func InsertArgs(r Record) []any {
	switch t := r.(type) {
	case *Source:
		return []any{
			t.Name, t.SourceType, nullStr(t.URL), nullStr(t.Description),
			t.Active, t.CreatedAt,
		}
	case *Product:
		return []any{
			t.Code, t.Name, nullStr(t.Category), nullStr(t.Subcategory),
			nullFloat(t.Price), nullStr(t.Description), nullStr(t.Brand),
			t.Status, t.CreatedAt, t.UpdatedAt,
		}
	case *Customer:
		return []any{
			t.Code, t.FirstName, t.LastName, nullStr(t.Email),
			nullStr(t.Phone), nullTime(t.BirthDate), nullStr(t.Gender),
			nullStr(t.City), nullStr(t.Country), t.Segment, t.Status,
			t.RegisteredAt, t.UpdatedAt,
		}
	case *Survey:
		return []any{
			t.CustomerID, t.ProductID, t.SourceID, t.Title,
			nullStr(t.MainQuestion), nullInt(t.OverallRating),
			nullInt(t.QualityRating), nullInt(t.ServiceRating),
			nullInt(t.PriceRating), nullStr(t.Comment), nullStr(t.Sentiment),
			nullFloat(t.SentimentConfidence), t.SurveyDate, t.CreatedAt,
		}
	case *SocialComment:
		return []any{
			nullInt(t.CustomerID), t.ProductID, t.SourceID, t.Platform,
			nullStr(t.Username), t.Text, t.Likes, t.Shares, t.Replies,
			nullStr(t.Hashtags), nullStr(t.Sentiment),
			nullFloat(t.SentimentConfidence), t.PublishedAt, t.ExtractedAt,
		}
	case *WebReview:
		return []any{
			nullInt(t.CustomerID), t.ProductID, t.SourceID, t.Site,
			nullStr(t.Title), t.Text, nullFloat(t.NumericRating),
			nullInt(t.StarRating), nullStr(t.Reviewer), t.VerifiedPurchase,
			t.HelpfulVotes, t.TotalVotes, nullStr(t.Sentiment),
			nullFloat(t.SentimentConfidence), t.ReviewDate, t.ExtractedAt,
		}
	default:
		return nil
	}
}

func strDeref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func nullStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullFloat(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullTime(p *time.Time) any {
	if p == nil {
		return nil
	}
	return *p
}
