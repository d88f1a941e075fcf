package sqlite

import (
	"context"
	"fmt"

	"opinionetl/internal/storage"
)

// ensureSchema creates the six destination tables when they do not exist.
// SQLite is typeless about lengths, so the varchar maxima live in the
// validator, not here.
func ensureSchema(ctx context.Context, repo storage.Repository) error {
	for _, stmt := range schema {
		if err := repo.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("sqlite ddl: %w", err)
		}
	}
	return nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS "Sources" (
	"SourceID"    INTEGER PRIMARY KEY AUTOINCREMENT,
	"Name"        TEXT NOT NULL,
	"SourceType"  TEXT NOT NULL,
	"URL"         TEXT,
	"Description" TEXT,
	"Active"      INTEGER NOT NULL DEFAULT 1,
	"CreatedAt"   TIMESTAMP NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS "Products" (
	"ProductID"   INTEGER PRIMARY KEY AUTOINCREMENT,
	"Code"        TEXT NOT NULL UNIQUE,
	"Name"        TEXT NOT NULL,
	"Category"    TEXT,
	"Subcategory" TEXT,
	"Price"       REAL,
	"Description" TEXT,
	"Brand"       TEXT,
	"Status"      TEXT NOT NULL,
	"CreatedAt"   TIMESTAMP NOT NULL,
	"UpdatedAt"   TIMESTAMP NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS "Customers" (
	"CustomerID"   INTEGER PRIMARY KEY AUTOINCREMENT,
	"Code"         TEXT NOT NULL UNIQUE,
	"FirstName"    TEXT NOT NULL,
	"LastName"     TEXT NOT NULL,
	"Email"        TEXT,
	"Phone"        TEXT,
	"BirthDate"    TIMESTAMP,
	"Gender"       TEXT,
	"City"         TEXT,
	"Country"      TEXT,
	"Segment"      TEXT NOT NULL,
	"Status"       TEXT NOT NULL,
	"RegisteredAt" TIMESTAMP NOT NULL,
	"UpdatedAt"    TIMESTAMP NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS "Surveys" (
	"SurveyID"            INTEGER PRIMARY KEY AUTOINCREMENT,
	"CustomerID"          INTEGER NOT NULL REFERENCES "Customers" ("CustomerID"),
	"ProductID"           INTEGER NOT NULL REFERENCES "Products" ("ProductID"),
	"SourceID"            INTEGER NOT NULL REFERENCES "Sources" ("SourceID"),
	"Title"               TEXT NOT NULL,
	"MainQuestion"        TEXT,
	"OverallRating"       INTEGER,
	"QualityRating"       INTEGER,
	"ServiceRating"       INTEGER,
	"PriceRating"         INTEGER,
	"Comment"             TEXT,
	"Sentiment"           TEXT,
	"SentimentConfidence" REAL,
	"SurveyDate"          TIMESTAMP NOT NULL,
	"CreatedAt"           TIMESTAMP NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS "SocialComments" (
	"CommentID"           INTEGER PRIMARY KEY AUTOINCREMENT,
	"CustomerID"          INTEGER REFERENCES "Customers" ("CustomerID"),
	"ProductID"           INTEGER NOT NULL REFERENCES "Products" ("ProductID"),
	"SourceID"            INTEGER NOT NULL REFERENCES "Sources" ("SourceID"),
	"Platform"            TEXT NOT NULL,
	"Username"            TEXT,
	"Text"                TEXT NOT NULL,
	"Likes"               INTEGER NOT NULL DEFAULT 0,
	"Shares"              INTEGER NOT NULL DEFAULT 0,
	"Replies"             INTEGER NOT NULL DEFAULT 0,
	"Hashtags"            TEXT,
	"Sentiment"           TEXT,
	"SentimentConfidence" REAL,
	"PublishedAt"         TIMESTAMP NOT NULL,
	"ExtractedAt"         TIMESTAMP NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS "WebReviews" (
	"ReviewID"            INTEGER PRIMARY KEY AUTOINCREMENT,
	"CustomerID"          INTEGER REFERENCES "Customers" ("CustomerID"),
	"ProductID"           INTEGER NOT NULL REFERENCES "Products" ("ProductID"),
	"SourceID"            INTEGER NOT NULL REFERENCES "Sources" ("SourceID"),
	"Site"                TEXT NOT NULL,
	"Title"               TEXT,
	"Text"                TEXT NOT NULL,
	"NumericRating"       REAL,
	"StarRating"          INTEGER,
	"Reviewer"            TEXT,
	"VerifiedPurchase"    INTEGER NOT NULL DEFAULT 0,
	"HelpfulVotes"        INTEGER NOT NULL DEFAULT 0,
	"TotalVotes"          INTEGER NOT NULL DEFAULT 0,
	"Sentiment"           TEXT,
	"SentimentConfidence" REAL,
	"ReviewDate"          TIMESTAMP NOT NULL,
	"ExtractedAt"         TIMESTAMP NOT NULL
)`,
}
