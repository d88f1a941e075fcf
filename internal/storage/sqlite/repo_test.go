package sqlite

import (
	"context"
	"testing"
	"time"

	"opinionetl/internal/model"
	"opinionetl/internal/storage"
)

func openMemory(t *testing.T) storage.Repository {
	t.Helper()
	repo, err := storage.New(context.Background(), storage.Config{Kind: "sqlite", DSN: ":memory:"})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(repo.Close)
	if err := storage.EnsureSchema(context.Background(), "sqlite", repo); err != nil {
		t.Fatal(err)
	}
	return repo
}

func TestEnsureSchemaIdempotent(t *testing.T) {
	repo := openMemory(t)
	if err := storage.EnsureSchema(context.Background(), "sqlite", repo); err != nil {
		t.Fatalf("second bootstrap must be a no-op: %v", err)
	}
}

func TestLoadAndIDPairs(t *testing.T) {
	repo := openMemory(t)
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	recs := []model.Record{
		&model.Source{Name: "Fuente_1", SourceType: "Encuesta", Active: true, CreatedAt: now},
		&model.Source{Name: "Fuente_2", SourceType: "Red Social", Active: true, CreatedAt: now},
	}
	l := &storage.Loader{Repo: repo, BatchSize: 100}
	sum, err := l.Load(context.Background(), recs)
	if err != nil {
		t.Fatal(err)
	}
	if sum.Loaded != 2 {
		t.Fatalf("loaded=%d want 2", sum.Loaded)
	}

	pairs, err := repo.IDPairs(context.Background(), "Sources", "SourceID", "Name")
	if err != nil {
		t.Fatal(err)
	}
	if len(pairs) != 2 {
		t.Fatalf("pairs=%d want 2", len(pairs))
	}
	if pairs[0].ID == 0 || pairs[0].Key != "Fuente_1" {
		t.Errorf("pair[0]=%+v", pairs[0])
	}
}

func TestUniqueViolationSkipsRowAndCommitsChunk(t *testing.T) {
	repo := openMemory(t)
	now := time.Now()

	recs := []model.Record{
		&model.Product{Code: "PROD_1", Name: "a", Status: "Activo", CreatedAt: now, UpdatedAt: now},
		&model.Product{Code: "PROD_1", Name: "b", Status: "Activo", CreatedAt: now, UpdatedAt: now},
		&model.Product{Code: "PROD_2", Name: "c", Status: "Activo", CreatedAt: now, UpdatedAt: now},
	}
	l := &storage.Loader{Repo: repo, BatchSize: 100}
	sum, err := l.Load(context.Background(), recs)
	if err != nil {
		t.Fatal(err)
	}
	if sum.Loaded != 2 || len(sum.Skipped) != 1 {
		t.Fatalf("loaded=%d skipped=%d", sum.Loaded, len(sum.Skipped))
	}

	pairs, err := repo.IDPairs(context.Background(), "Products", "ProductID", "Code")
	if err != nil {
		t.Fatal(err)
	}
	if len(pairs) != 2 {
		t.Fatalf("committed rows=%d want 2", len(pairs))
	}
}

func TestNullableColumnsRoundTrip(t *testing.T) {
	repo := openMemory(t)
	now := time.Now()

	c := &model.Customer{
		Code: "CLI_1", FirstName: "Ana", LastName: "Apellido_Generado",
		Segment: "Regular", Status: "Activo", RegisteredAt: now, UpdatedAt: now,
	}
	l := &storage.Loader{Repo: repo, BatchSize: 10}
	sum, err := l.Load(context.Background(), []model.Record{c})
	if err != nil || sum.Loaded != 1 {
		t.Fatalf("sum=%+v err=%v", sum, err)
	}
}
