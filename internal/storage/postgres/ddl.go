package postgres

import (
	"context"
	"fmt"

	"opinionetl/internal/storage"
)

// ensureSchema creates the six destination tables when they do not exist.
// Statements run in dependency order so the foreign keys of the opinion
// tables can reference the reference tables.
func ensureSchema(ctx context.Context, repo storage.Repository) error {
	for _, stmt := range schema {
		if err := repo.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("postgres ddl: %w", err)
		}
	}
	return nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS "Sources" (
	"SourceID"    SERIAL PRIMARY KEY,
	"Name"        VARCHAR(100) NOT NULL,
	"SourceType"  VARCHAR(50) NOT NULL,
	"URL"         VARCHAR(255),
	"Description" VARCHAR(500),
	"Active"      BOOLEAN NOT NULL DEFAULT TRUE,
	"CreatedAt"   TIMESTAMP NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS "Products" (
	"ProductID"   SERIAL PRIMARY KEY,
	"Code"        VARCHAR(50) NOT NULL UNIQUE,
	"Name"        VARCHAR(200) NOT NULL,
	"Category"    VARCHAR(100),
	"Subcategory" VARCHAR(100),
	"Price"       NUMERIC(12,2),
	"Description" VARCHAR(1000),
	"Brand"       VARCHAR(100),
	"Status"      VARCHAR(20) NOT NULL,
	"CreatedAt"   TIMESTAMP NOT NULL,
	"UpdatedAt"   TIMESTAMP NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS "Customers" (
	"CustomerID"   SERIAL PRIMARY KEY,
	"Code"         VARCHAR(50) NOT NULL UNIQUE,
	"FirstName"    VARCHAR(100) NOT NULL,
	"LastName"     VARCHAR(100) NOT NULL,
	"Email"        VARCHAR(255),
	"Phone"        VARCHAR(20),
	"BirthDate"    DATE,
	"Gender"       VARCHAR(10),
	"City"         VARCHAR(100),
	"Country"      VARCHAR(100),
	"Segment"      VARCHAR(50) NOT NULL,
	"Status"       VARCHAR(20) NOT NULL,
	"RegisteredAt" TIMESTAMP NOT NULL,
	"UpdatedAt"    TIMESTAMP NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS "Surveys" (
	"SurveyID"            SERIAL PRIMARY KEY,
	"CustomerID"          INTEGER NOT NULL REFERENCES "Customers" ("CustomerID"),
	"ProductID"           INTEGER NOT NULL REFERENCES "Products" ("ProductID"),
	"SourceID"            INTEGER NOT NULL REFERENCES "Sources" ("SourceID"),
	"Title"               VARCHAR(200) NOT NULL,
	"MainQuestion"        VARCHAR(500),
	"OverallRating"       INTEGER,
	"QualityRating"       INTEGER,
	"ServiceRating"       INTEGER,
	"PriceRating"         INTEGER,
	"Comment"             VARCHAR(2000),
	"Sentiment"           VARCHAR(20),
	"SentimentConfidence" DOUBLE PRECISION,
	"SurveyDate"          TIMESTAMP NOT NULL,
	"CreatedAt"           TIMESTAMP NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS "SocialComments" (
	"CommentID"           SERIAL PRIMARY KEY,
	"CustomerID"          INTEGER REFERENCES "Customers" ("CustomerID"),
	"ProductID"           INTEGER NOT NULL REFERENCES "Products" ("ProductID"),
	"SourceID"            INTEGER NOT NULL REFERENCES "Sources" ("SourceID"),
	"Platform"            VARCHAR(50) NOT NULL,
	"Username"            VARCHAR(100),
	"Text"                VARCHAR(4000) NOT NULL,
	"Likes"               INTEGER NOT NULL DEFAULT 0,
	"Shares"              INTEGER NOT NULL DEFAULT 0,
	"Replies"             INTEGER NOT NULL DEFAULT 0,
	"Hashtags"            VARCHAR(500),
	"Sentiment"           VARCHAR(20),
	"SentimentConfidence" DOUBLE PRECISION,
	"PublishedAt"         TIMESTAMP NOT NULL,
	"ExtractedAt"         TIMESTAMP NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS "WebReviews" (
	"ReviewID"            SERIAL PRIMARY KEY,
	"CustomerID"          INTEGER REFERENCES "Customers" ("CustomerID"),
	"ProductID"           INTEGER NOT NULL REFERENCES "Products" ("ProductID"),
	"SourceID"            INTEGER NOT NULL REFERENCES "Sources" ("SourceID"),
	"Site"                VARCHAR(100) NOT NULL,
	"Title"               VARCHAR(300),
	"Text"                VARCHAR(4000) NOT NULL,
	"NumericRating"       DOUBLE PRECISION,
	"StarRating"          INTEGER,
	"Reviewer"            VARCHAR(100),
	"VerifiedPurchase"    BOOLEAN NOT NULL DEFAULT FALSE,
	"HelpfulVotes"        INTEGER NOT NULL DEFAULT 0,
	"TotalVotes"          INTEGER NOT NULL DEFAULT 0,
	"Sentiment"           VARCHAR(20),
	"SentimentConfidence" DOUBLE PRECISION,
	"ReviewDate"          TIMESTAMP NOT NULL,
	"ExtractedAt"         TIMESTAMP NOT NULL
)`,
}
