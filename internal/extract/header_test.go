package extract

import "testing"

func TestCanonicalField(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"IdFuente", "idfuente"},
		{"Categoría", "categoria"},
		{"TituloReseña", "tituloresena"},
		{" Fecha Carga ", "fechacarga"},
		{"num_likes", "numlikes"},
		{"\ufeffIdProducto", "idproducto"},
		{"ÁÉÍÓÚñü", "aeiounu"},
		{"", ""},
		{"123", "123"},
	}
	for _, tc := range cases {
		if got := CanonicalField(tc.in); got != tc.want {
			t.Errorf("CanonicalField(%q)=%q want %q", tc.in, got, tc.want)
		}
	}
}
