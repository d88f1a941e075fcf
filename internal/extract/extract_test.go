package extract

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"opinionetl/internal/model"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestValidateFile(t *testing.T) {
	good := writeFile(t, "ok.csv", "IdFuente,TipoFuente\n1,Encuesta\n")
	empty := writeFile(t, "empty.csv", "")
	txt := writeFile(t, "data.txt", "hello")

	cases := []struct {
		name string
		path string
		ok   bool
	}{
		{"valid", good, true},
		{"empty path", "", false},
		{"missing", filepath.Join(t.TempDir(), "nope.csv"), false},
		{"zero bytes", empty, false},
		{"wrong extension", txt, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateFile(tc.path)
			if tc.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.ok {
				var se *SourceError
				if !errors.As(err, &se) {
					t.Fatalf("want *SourceError, got %v", err)
				}
			}
		})
	}
}

func TestExtractorFile(t *testing.T) {
	path := writeFile(t, "fuentes.csv",
		"\ufeffIdFuente,TipoFuente,URL,Descripcion,Activa,FechaCarga\n"+
			"1,Encuesta,https://example.com,Portal de encuestas,true,2024-01-15\n"+
			"2,Red Social,,,false,\n")

	ex := &Extractor{Binder: testBinder()}
	recs, err := ex.File(context.Background(), model.KindSource, path)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 {
		t.Fatalf("len=%d want 2", len(recs))
	}

	first := recs[0].(*model.Source)
	if first.Name != "Fuente_1" {
		t.Errorf("BOM broke the first header: name=%q", first.Name)
	}
	second := recs[1].(*model.Source)
	if second.Active {
		t.Error("explicit false must not default to true")
	}
	if second.CreatedAt != fixedNow {
		t.Errorf("blank date must fall back to now, got %v", second.CreatedAt)
	}
}

func TestExtractorFileAccentedHeaders(t *testing.T) {
	path := writeFile(t, "productos.csv",
		"IdProducto,Nombre,Categoría,Precio\n"+
			"10,Teclado,Electrónica,25.50\n")

	ex := &Extractor{Binder: testBinder()}
	recs, err := ex.File(context.Background(), model.KindProduct, path)
	if err != nil {
		t.Fatal(err)
	}
	p := recs[0].(*model.Product)
	if p.Category == nil || *p.Category != "Electrónica" {
		t.Fatalf("accented header not matched: %v", p.Category)
	}
}

func TestExtractorFileRaggedRows(t *testing.T) {
	path := writeFile(t, "clientes.csv",
		"IdCliente,Nombre,Email\n"+
			"1,Ana,ana@mail.es\n"+
			"2,Luis\n"+ // short row
			"3,Marta,marta@mail.es,extra,cells\n")

	ex := &Extractor{Binder: testBinder()}
	recs, err := ex.File(context.Background(), model.KindCustomer, path)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 3 {
		t.Fatalf("ragged rows must still bind: len=%d", len(recs))
	}
	luis := recs[1].(*model.Customer)
	if luis.Email != nil {
		t.Errorf("short row must leave email nil, got %v", *luis.Email)
	}
}

func TestExtractorFileCancelled(t *testing.T) {
	path := writeFile(t, "fuentes.csv", "IdFuente,TipoFuente\n1,Encuesta\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ex := &Extractor{Binder: testBinder()}
	_, err := ex.File(ctx, model.KindSource, path)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
}
