// Command csvprobe inspects the input CSV files of a run before importing
// them: it validates each file, canonicalizes its headers the same way the
// extractor does, and reports which expected columns are present, missing,
// or unrecognized.
//
// Example:
//
//	csvprobe -config=configs/run.json
//	csvprobe -file=data/encuestas.csv -kind=survey
package main

import (
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"opinionetl/internal/config"
	"opinionetl/internal/extract"
	"opinionetl/internal/model"
)

var (
	flagConfig = flag.String("config", "", "run config JSON path; probes every configured file")
	flagFile   = flag.String("file", "", "single CSV file to probe (with -kind)")
	flagKind   = flag.String("kind", "", "entity kind of -file (source, product, customer, survey, social_comment, web_review)")
)

func main() {
	flag.Parse()

	switch {
	case *flagConfig != "":
		cfg, err := config.Load(*flagConfig)
		if err != nil {
			fatalf("%v", err)
		}
		ok := true
		for _, kind := range model.Kinds {
			if !probe(kind, cfg.FileFor(kind)) {
				ok = false
			}
		}
		if !ok {
			os.Exit(1)
		}

	case *flagFile != "":
		kind, err := kindByName(*flagKind)
		if err != nil {
			fatalf("%v", err)
		}
		if !probe(kind, *flagFile) {
			os.Exit(1)
		}

	default:
		fatalf("either -config or -file/-kind is required")
	}
}

func kindByName(name string) (model.Kind, error) {
	for _, k := range model.Kinds {
		if k.String() == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown kind %q", name)
}

// probe reports one file. Returns false when the file is unusable.
func probe(kind model.Kind, path string) bool {
	fmt.Printf("%s: %s\n", kind, path)
	if err := extract.ValidateFile(path); err != nil {
		fmt.Printf("  UNUSABLE: %v\n", err)
		return false
	}

	f, err := os.Open(path)
	if err != nil {
		fmt.Printf("  UNUSABLE: %v\n", err)
		return false
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		fmt.Printf("  UNUSABLE: cannot read header: %v\n", err)
		return false
	}

	present := make(map[string]string, len(header))
	for _, h := range header {
		present[extract.CanonicalField(h)] = h
	}

	var missing []string
	for _, want := range expectedFields[kind] {
		if _, ok := present[want]; !ok {
			missing = append(missing, want)
		}
	}

	rows := 0
	for {
		_, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			continue
		}
		rows++
	}

	fmt.Printf("  columns=%d rows=%d\n", len(header), rows)
	if len(missing) > 0 {
		fmt.Printf("  missing: %s (defaults will be synthesized)\n", strings.Join(missing, ", "))
	}
	return true
}

// expectedFields lists the canonical header names the binder reads per kind.
var expectedFields = map[model.Kind][]string{
	model.KindSource:   {"idfuente", "tipofuente", "url", "descripcion", "activa", "fechacarga"},
	model.KindProduct:  {"idproducto", "nombre", "categoria", "subcategoria", "precio", "descripcion", "marca", "estado"},
	model.KindCustomer: {"idcliente", "nombre", "email", "telefono", "fechanacimiento", "genero", "ciudad", "pais", "segmentocliente", "estado"},
	model.KindSurvey: {
		"tituloencuesta", "preguntaprincipal", "calificaciongeneral", "calificacioncalidad",
		"calificacionservicio", "calificacionprecio", "comentario", "sentimientoanalizado",
		"confianzasentimiento", "fechaencuesta",
	},
	model.KindSocialComment: {
		"plataformasocial", "usuariosocial", "textocomentario", "numlikes", "numcompartidos",
		"numrespuestas", "hashtagsprincipales", "sentimientoanalizado", "fechapublicacion",
	},
	model.KindWebReview: {
		"sitioweb", "tituloresena", "textoresena", "calificacionnumerica", "calificacionestrellas",
		"usuarioresenador", "compraverificada", "votosutiles", "votostotal",
		"sentimientoanalizado", "fecharesena",
	},
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
