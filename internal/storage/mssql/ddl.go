package mssql

import (
	"context"
	"fmt"

	"opinionetl/internal/storage"
)

// ensureSchema creates the six destination tables when they do not exist.
// SQL Server has no CREATE TABLE IF NOT EXISTS, so each statement is guarded
// by an OBJECT_ID probe.
func ensureSchema(ctx context.Context, repo storage.Repository) error {
	for _, t := range schema {
		stmt := fmt.Sprintf("IF OBJECT_ID(N'%s', N'U') IS NULL\n%s", t.name, t.create)
		if err := repo.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("mssql ddl %s: %w", t.name, err)
		}
	}
	return nil
}

var schema = []struct {
	name   string
	create string
}{
	{"Sources", `CREATE TABLE [Sources] (
	[SourceID]    INT IDENTITY(1,1) PRIMARY KEY,
	[Name]        NVARCHAR(100) NOT NULL,
	[SourceType]  NVARCHAR(50) NOT NULL,
	[URL]         NVARCHAR(255) NULL,
	[Description] NVARCHAR(500) NULL,
	[Active]      BIT NOT NULL DEFAULT 1,
	[CreatedAt]   DATETIME2 NOT NULL
)`},
	{"Products", `CREATE TABLE [Products] (
	[ProductID]   INT IDENTITY(1,1) PRIMARY KEY,
	[Code]        NVARCHAR(50) NOT NULL UNIQUE,
	[Name]        NVARCHAR(200) NOT NULL,
	[Category]    NVARCHAR(100) NULL,
	[Subcategory] NVARCHAR(100) NULL,
	[Price]       DECIMAL(12,2) NULL,
	[Description] NVARCHAR(1000) NULL,
	[Brand]       NVARCHAR(100) NULL,
	[Status]      NVARCHAR(20) NOT NULL,
	[CreatedAt]   DATETIME2 NOT NULL,
	[UpdatedAt]   DATETIME2 NOT NULL
)`},
	{"Customers", `CREATE TABLE [Customers] (
	[CustomerID]   INT IDENTITY(1,1) PRIMARY KEY,
	[Code]         NVARCHAR(50) NOT NULL UNIQUE,
	[FirstName]    NVARCHAR(100) NOT NULL,
	[LastName]     NVARCHAR(100) NOT NULL,
	[Email]        NVARCHAR(255) NULL,
	[Phone]        NVARCHAR(20) NULL,
	[BirthDate]    DATE NULL,
	[Gender]       NVARCHAR(10) NULL,
	[City]         NVARCHAR(100) NULL,
	[Country]      NVARCHAR(100) NULL,
	[Segment]      NVARCHAR(50) NOT NULL,
	[Status]       NVARCHAR(20) NOT NULL,
	[RegisteredAt] DATETIME2 NOT NULL,
	[UpdatedAt]    DATETIME2 NOT NULL
)`},
	{"Surveys", `CREATE TABLE [Surveys] (
	[SurveyID]            INT IDENTITY(1,1) PRIMARY KEY,
	[CustomerID]          INT NOT NULL REFERENCES [Customers] ([CustomerID]),
	[ProductID]           INT NOT NULL REFERENCES [Products] ([ProductID]),
	[SourceID]            INT NOT NULL REFERENCES [Sources] ([SourceID]),
	[Title]               NVARCHAR(200) NOT NULL,
	[MainQuestion]        NVARCHAR(500) NULL,
	[OverallRating]       INT NULL,
	[QualityRating]       INT NULL,
	[ServiceRating]       INT NULL,
	[PriceRating]         INT NULL,
	[Comment]             NVARCHAR(2000) NULL,
	[Sentiment]           NVARCHAR(20) NULL,
	[SentimentConfidence] FLOAT NULL,
	[SurveyDate]          DATETIME2 NOT NULL,
	[CreatedAt]           DATETIME2 NOT NULL
)`},
	{"SocialComments", `CREATE TABLE [SocialComments] (
	[CommentID]           INT IDENTITY(1,1) PRIMARY KEY,
	[CustomerID]          INT NULL REFERENCES [Customers] ([CustomerID]),
	[ProductID]           INT NOT NULL REFERENCES [Products] ([ProductID]),
	[SourceID]            INT NOT NULL REFERENCES [Sources] ([SourceID]),
	[Platform]            NVARCHAR(50) NOT NULL,
	[Username]            NVARCHAR(100) NULL,
	[Text]                NVARCHAR(4000) NOT NULL,
	[Likes]               INT NOT NULL DEFAULT 0,
	[Shares]              INT NOT NULL DEFAULT 0,
	[Replies]             INT NOT NULL DEFAULT 0,
	[Hashtags]            NVARCHAR(500) NULL,
	[Sentiment]           NVARCHAR(20) NULL,
	[SentimentConfidence] FLOAT NULL,
	[PublishedAt]         DATETIME2 NOT NULL,
	[ExtractedAt]         DATETIME2 NOT NULL
)`},
	{"WebReviews", `CREATE TABLE [WebReviews] (
	[ReviewID]            INT IDENTITY(1,1) PRIMARY KEY,
	[CustomerID]          INT NULL REFERENCES [Customers] ([CustomerID]),
	[ProductID]           INT NOT NULL REFERENCES [Products] ([ProductID]),
	[SourceID]            INT NOT NULL REFERENCES [Sources] ([SourceID]),
	[Site]                NVARCHAR(100) NOT NULL,
	[Title]               NVARCHAR(300) NULL,
	[Text]                NVARCHAR(4000) NOT NULL,
	[NumericRating]       FLOAT NULL,
	[StarRating]          INT NULL,
	[Reviewer]            NVARCHAR(100) NULL,
	[VerifiedPurchase]    BIT NOT NULL DEFAULT 0,
	[HelpfulVotes]        INT NOT NULL DEFAULT 0,
	[TotalVotes]          INT NOT NULL DEFAULT 0,
	[Sentiment]           NVARCHAR(20) NULL,
	[SentimentConfidence] FLOAT NULL,
	[ReviewDate]          DATETIME2 NOT NULL,
	[ExtractedAt]         DATETIME2 NOT NULL
)`},
}
