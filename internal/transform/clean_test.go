package transform

import (
	"testing"

	"opinionetl/internal/model"
)

func strp(s string) *string { return &s }
func intp(n int) *int       { return &n }

func TestCleanCustomerEmail(t *testing.T) {
	cases := []struct {
		name string
		in   *string
		want *string
	}{
		{"mixed case and padding", strp("  JOHN@Example.COM "), strp("john@example.com")},
		{"not an email", strp("not-an-email"), nil},
		{"double at", strp("a@@b.com"), nil},
		{"missing tld dot", strp("a@b"), nil},
		{"embedded space", strp("a b@c.com"), nil},
		{"nil stays nil", nil, nil},
		{"valid", strp("ana@mail.es"), strp("ana@mail.es")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := &model.Customer{Code: "CLI_1", FirstName: "Ana", LastName: "X", Email: tc.in}
			Clean(c)
			if (c.Email == nil) != (tc.want == nil) {
				t.Fatalf("email=%v want %v", deref(c.Email), deref(tc.want))
			}
			if c.Email != nil && *c.Email != *tc.want {
				t.Fatalf("email=%q want %q", *c.Email, *tc.want)
			}
		})
	}
}

func TestCleanCustomerPhoneStripsJunk(t *testing.T) {
	c := &model.Customer{Phone: strp("+34 (600) 123-456 ext#7abc")}
	Clean(c)
	if c.Phone == nil {
		t.Fatal("phone dropped entirely")
	}
	for _, r := range *c.Phone {
		switch {
		case r >= '0' && r <= '9':
		case r == '+' || r == '-' || r == '(' || r == ')' || r == ' ':
		default:
			t.Fatalf("phone %q contains %q", *c.Phone, r)
		}
	}
}

func TestCleanCustomerGender(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"m", "M"},
		{"F", "F"},
		{"otro", "OTRO"},
		{"x", "Otro"},
		{"desconocido", "Otro"},
	}
	for _, tc := range cases {
		c := &model.Customer{Gender: strp(tc.in)}
		Clean(c)
		if c.Gender == nil || *c.Gender != tc.want {
			t.Errorf("gender(%q)=%v want %q", tc.in, deref(c.Gender), tc.want)
		}
	}
}

func TestCleanSurveyRatingsOutOfRangeBecomeNil(t *testing.T) {
	s := &model.Survey{
		Title:         "t",
		OverallRating: intp(10),
		QualityRating: intp(7),
		ServiceRating: intp(0),
		PriceRating:   intp(3),
	}
	Clean(s)
	if s.OverallRating == nil || *s.OverallRating != 10 {
		t.Errorf("overall 10 is in range, got %v", s.OverallRating)
	}
	if s.QualityRating != nil {
		t.Errorf("quality 7 out of range, got %v", *s.QualityRating)
	}
	if s.ServiceRating != nil {
		t.Errorf("service 0 out of range, got %v", *s.ServiceRating)
	}
	if s.PriceRating == nil || *s.PriceRating != 3 {
		t.Errorf("price 3 in range, got %v", s.PriceRating)
	}
}

func TestCleanSentimentNormalization(t *testing.T) {
	cases := []struct {
		in   *string
		want string
	}{
		{strp("POSITIVO"), "Positivo"},
		{strp("good"), "Positivo"},
		{strp("Malo"), "Negativo"},
		{strp("negative"), "Negativo"},
		{strp("meh"), "Neutral"},
		{strp(""), "Neutral"},
		{nil, "Neutral"},
	}
	for _, tc := range cases {
		s := &model.Survey{Title: "t", Sentiment: tc.in}
		Clean(s)
		if s.Sentiment == nil || *s.Sentiment != tc.want {
			t.Errorf("sentiment(%v)=%v want %q", deref(tc.in), deref(s.Sentiment), tc.want)
		}
	}
}

func TestCleanSocialCommentCounters(t *testing.T) {
	c := &model.SocialComment{Platform: "X", Text: "hola", Likes: -5, Shares: 3, Replies: -1}
	Clean(c)
	if c.Likes != 0 || c.Replies != 0 {
		t.Errorf("negative counters must floor to zero: likes=%d replies=%d", c.Likes, c.Replies)
	}
	if c.Shares != 3 {
		t.Errorf("shares=%d want 3", c.Shares)
	}
}

func TestCleanCollapsesWhitespace(t *testing.T) {
	s := &model.Source{Name: "  Fuente   1 ", SourceType: "\tEncuesta  Online\n"}
	Clean(s)
	if s.Name != "Fuente 1" {
		t.Errorf("name=%q", s.Name)
	}
	if s.SourceType != "Encuesta Online" {
		t.Errorf("type=%q", s.SourceType)
	}
}

func TestCleanSourceURL(t *testing.T) {
	cases := []struct {
		in   *string
		keep bool
	}{
		{strp("https://example.com/x"), true},
		{strp("example.com"), false},
		{strp("   "), false},
		{nil, false},
	}
	for _, tc := range cases {
		s := &model.Source{Name: "n", SourceType: "t", URL: tc.in}
		Clean(s)
		if (s.URL != nil) != tc.keep {
			t.Errorf("url(%v) kept=%v want %v", deref(tc.in), s.URL != nil, tc.keep)
		}
	}
}

func TestCleanProductPrice(t *testing.T) {
	zero := 0.0
	neg := -3.5
	ok := 19.99
	for _, tc := range []struct {
		in   *float64
		keep bool
	}{
		{&zero, false},
		{&neg, false},
		{&ok, true},
		{nil, false},
	} {
		p := &model.Product{Code: "PROD_1", Name: "n", Price: tc.in}
		Clean(p)
		if (p.Price != nil) != tc.keep {
			t.Errorf("price(%v) kept=%v want %v", tc.in, p.Price != nil, tc.keep)
		}
	}
}

func TestCleanWebReviewNumericRating(t *testing.T) {
	bad := 7.5
	good := 4.5
	r := &model.WebReview{Site: "s", Text: "t", NumericRating: &bad}
	Clean(r)
	if r.NumericRating != nil {
		t.Errorf("rating 7.5 out of [0,5], got %v", *r.NumericRating)
	}
	r = &model.WebReview{Site: "s", Text: "t", NumericRating: &good}
	Clean(r)
	if r.NumericRating == nil || *r.NumericRating != 4.5 {
		t.Errorf("rating 4.5 in range, got %v", r.NumericRating)
	}
}

func deref(p *string) string {
	if p == nil {
		return "<nil>"
	}
	return *p
}
