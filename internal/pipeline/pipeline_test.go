package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"opinionetl/internal/config"
	"opinionetl/internal/model"
	"opinionetl/internal/storage"

	_ "opinionetl/internal/storage/all"
)

var testFiles = map[string]string{
	"fuentes.csv": "IdFuente,TipoFuente,URL,FechaCarga\n" +
		"1,Encuesta,https://encuestas.example.com,2024-01-10\n" +
		"2,Red Social,,2024-01-11\n",
	"productos.csv": "IdProducto,Nombre,Categoría,Precio\n" +
		"1,Laptop,Electrónica,899.99\n" +
		"1,Laptop Duplicada,Electrónica,899.99\n" +
		"2,Teclado,Electrónica,25.50\n",
	"clientes.csv": "IdCliente,Nombre,Email,Genero\n" +
		"1,Ana,ANA@Mail.es,F\n" +
		"2,Luis,not-an-email,m\n",
	"encuestas.csv": "TituloEncuesta,CalificacionGeneral,SentimientoAnalizado,FechaEncuesta\n" +
		"Encuesta enero,8,Positivo,2024-01-20\n" +
		",11,malo,2024-01-21\n",
	"comentarios_sociales.csv": "PlataformaSocial,UsuarioSocial,TextoComentario,NumLikes,FechaPublicacion\n" +
		"Twitter,@ana,Muy buen producto,-3,2024-02-01 10:30:00\n",
	"resenas_web.csv": "SitioWeb,UsuarioReseñador,TextoReseña,CalificacionEstrellas,FechaReseña\n" +
		"Amazon,Carlos,Excelente compra,5,2024-02-05\n",
}

func setup(t *testing.T, files map[string]string) (config.Run, storage.Repository) {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	cfg := config.Run{
		Job:     "test",
		DataDir: dir,
		Storage: config.Storage{Kind: "sqlite", DSN: ":memory:"},
		Runtime: config.Runtime{BatchSize: 100},
	}
	repo, err := storage.New(context.Background(), storage.Config{Kind: cfg.Storage.Kind, DSN: cfg.Storage.DSN})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(repo.Close)
	if err := storage.EnsureSchema(context.Background(), "sqlite", repo); err != nil {
		t.Fatal(err)
	}
	return cfg, repo
}

func stageFor(t *testing.T, sum Summary, kind model.Kind) StageResult {
	t.Helper()
	for _, st := range sum.Stages {
		if st.Kind == kind {
			return st
		}
	}
	t.Fatalf("no stage for kind %s", kind)
	return StageResult{}
}

func TestRunFullImport(t *testing.T) {
	cfg, repo := setup(t, testFiles)

	sum, err := New(cfg, repo).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if sum.Failed() != 0 {
		t.Fatalf("failed stages: %d", sum.Failed())
	}

	wantLoaded := map[model.Kind]int{
		model.KindSource:        2,
		model.KindProduct:       2, // duplicate PROD_1 removed
		model.KindCustomer:      2,
		model.KindSurvey:        2,
		model.KindSocialComment: 1,
		model.KindWebReview:     1,
	}
	for kind, want := range wantLoaded {
		if got := stageFor(t, sum, kind).Loaded; got != want {
			t.Errorf("kind=%s loaded=%d want %d", kind, got, want)
		}
	}

	prod := stageFor(t, sum, model.KindProduct)
	if prod.Transform.Duplicates != 1 {
		t.Errorf("product duplicates=%d want 1", prod.Transform.Duplicates)
	}

	// The opinion rows must reference ids that exist in the store.
	pairs, err := repo.IDPairs(context.Background(), "Products", "ProductID", "Code")
	if err != nil {
		t.Fatal(err)
	}
	valid := map[int]bool{}
	for _, p := range pairs {
		valid[p.ID] = true
	}
	if len(valid) != 2 {
		t.Fatalf("product ids=%d want 2", len(valid))
	}
}

func TestRunStageFailureDoesNotStopRun(t *testing.T) {
	files := map[string]string{}
	for k, v := range testFiles {
		files[k] = v
	}
	delete(files, "encuestas.csv")

	cfg, repo := setup(t, files)
	sum, err := New(cfg, repo).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if sum.Failed() != 1 {
		t.Fatalf("failed=%d want 1", sum.Failed())
	}
	if stageFor(t, sum, model.KindSurvey).Err == nil {
		t.Fatal("survey stage must fail on a missing file")
	}
	if got := stageFor(t, sum, model.KindWebReview).Loaded; got != 1 {
		t.Errorf("later stage must still load: web reviews=%d", got)
	}
}

func TestRunWithoutReferenceFilesUsesFallbackIDs(t *testing.T) {
	files := map[string]string{
		"resenas_web.csv": testFiles["resenas_web.csv"],
	}
	cfg, repo := setup(t, files)
	sum, err := New(cfg, repo).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	// Three reference stages and two opinion stages fail on missing files;
	// the reviews still import with fallback foreign keys.
	if got := stageFor(t, sum, model.KindWebReview).Loaded; got != 1 {
		t.Errorf("web reviews=%d want 1", got)
	}
}

func TestRunCancelled(t *testing.T) {
	cfg, repo := setup(t, testFiles)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(cfg, repo).Run(ctx)
	if err == nil {
		t.Fatal("cancelled run must surface an error")
	}
}
