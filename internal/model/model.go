// Package model defines the closed set of entity kinds moved by the pipeline
// and the per-kind metadata the other stages key off: destination table,
// insert column order, natural-key construction, and processing order.
//
// The six kinds form a sealed sum type: every per-kind decision elsewhere in
// the codebase is a switch over Kind (or over the concrete Record type) that
// the compiler can check for exhaustiveness, rather than runtime reflection.
package model

import "time"

// Kind identifies one of the six entity variants.
type Kind int

const (
	KindSource Kind = iota
	KindProduct
	KindCustomer
	KindSurvey
	KindSocialComment
	KindWebReview
)

// Kinds lists all entity kinds in dependency order: reference kinds first
// (they must be loaded before their ids can be resolved), then the dependent
// opinion kinds. The orchestrator processes stages in exactly this order.
var Kinds = [...]Kind{
	KindSource,
	KindProduct,
	KindCustomer,
	KindSurvey,
	KindSocialComment,
	KindWebReview,
}

// ReferenceKinds are the kinds whose surrogate ids are referenced by others.
var ReferenceKinds = [...]Kind{KindSource, KindProduct, KindCustomer}

func (k Kind) String() string {
	switch k {
	case KindSource:
		return "source"
	case KindProduct:
		return "product"
	case KindCustomer:
		return "customer"
	case KindSurvey:
		return "survey"
	case KindSocialComment:
		return "social_comment"
	case KindWebReview:
		return "web_review"
	default:
		return "unknown"
	}
}

// IsReference reports whether other kinds carry foreign keys to k.
func (k Kind) IsReference() bool {
	return k == KindSource || k == KindProduct || k == KindCustomer
}

// Record is the sealed interface implemented by the six entity structs.
// Surrogate ids are assigned by the store on insert and stay zero in memory;
// nothing in the transform layer ever fabricates one.
type Record interface {
	Kind() Kind
	sealed()
}

// Source is a place opinions come from (survey platform, social network,
// review site). Its natural key is Name+SourceType.
type Source struct {
	ID          int
	Name        string
	SourceType  string
	URL         *string
	Description *string
	Active      bool
	CreatedAt   time.Time
}

func (*Source) Kind() Kind { return KindSource }
func (*Source) sealed()    {}

// Product is a catalog entry; Code is the synthesized natural key
// ("PROD_<raw id>").
type Product struct {
	ID          int
	Code        string
	Name        string
	Category    *string
	Subcategory *string
	Price       *float64
	Description *string
	Brand       *string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (*Product) Kind() Kind { return KindProduct }
func (*Product) sealed()    {}

// Customer holds one customer row; Code is the synthesized natural key
// ("CLI_<raw id>"). The source files carry no last name, so extraction fills
// a placeholder.
type Customer struct {
	ID           int
	Code         string
	FirstName    string
	LastName     string
	Email        *string
	Phone        *string
	BirthDate    *time.Time
	Gender       *string
	City         *string
	Country      *string
	Segment      string
	Status       string
	RegisteredAt time.Time
	UpdatedAt    time.Time
}

func (*Customer) Kind() Kind { return KindCustomer }
func (*Customer) sealed()    {}

// Survey is a satisfaction survey response. CustomerID/ProductID/SourceID are
// surrogate foreign keys synthesized at extraction (the files carry no
// resolvable customer reference).
type Survey struct {
	ID                  int
	CustomerID          int
	ProductID           int
	SourceID            int
	Title               string
	MainQuestion        *string
	OverallRating       *int // 1..10
	QualityRating       *int // 1..5
	ServiceRating       *int // 1..5
	PriceRating         *int // 1..5
	Comment             *string
	Sentiment           *string
	SentimentConfidence *float64
	SurveyDate          time.Time
	CreatedAt           time.Time
}

func (*Survey) Kind() Kind { return KindSurvey }
func (*Survey) sealed()    {}

// SocialComment is a post scraped from a social platform.
type SocialComment struct {
	ID                  int
	CustomerID          *int
	ProductID           int
	SourceID            int
	Platform            string
	Username            *string
	Text                string
	Likes               int
	Shares              int
	Replies             int
	Hashtags            *string
	Sentiment           *string
	SentimentConfidence *float64
	PublishedAt         time.Time
	ExtractedAt         time.Time
}

func (*SocialComment) Kind() Kind { return KindSocialComment }
func (*SocialComment) sealed()    {}

// WebReview is a review scraped from a retail/review site.
type WebReview struct {
	ID                  int
	CustomerID          *int
	ProductID           int
	SourceID            int
	Site                string
	Title               *string
	Text                string
	NumericRating       *float64 // 0..5
	StarRating          *int     // 1..5
	Reviewer            *string
	VerifiedPurchase    bool
	HelpfulVotes        int
	TotalVotes          int
	Sentiment           *string
	SentimentConfidence *float64
	ReviewDate          time.Time
	ExtractedAt         time.Time
}

func (*WebReview) Kind() Kind { return KindWebReview }
func (*WebReview) sealed()    {}
