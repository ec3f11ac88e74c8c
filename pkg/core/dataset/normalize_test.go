package dataset

import "testing"

func TestFoldHeader(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Año", "ano"},
		{"  Ejecución  ", "ejecucion"},
		{"SEMESTRAL", "semestral"},
		{"Ñandú", "nandu"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		if got := FoldHeader(tt.in); got != tt.want {
			t.Errorf("FoldHeader(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeHeaders(t *testing.T) {
	in := []string{"ano", "AÑO", "ejecucion", " Meta ", "Cumplimiento", "Columna Rara"}
	want := []string{"Año", "Año", "Ejecución", "Meta", "Cumplimiento", "Columna Rara"}
	got := NormalizeHeaders(in)
	if len(got) != len(want) {
		t.Fatalf("length %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("header %d: %q, want %q", i, got[i], want[i])
		}
	}
}

func TestNormalizeLabel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Calidad  ", "Calidad"},
		{"Educación   para  toda la vida", "Educación para toda la vida"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeLabel(tt.in); got != tt.want {
			t.Errorf("NormalizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLabelKeyCollapsesVariants(t *testing.T) {
	variants := []string{"Expansión", " expansión ", "EXPANSION", "Expansion"}
	want := LabelKey(variants[0])
	for _, v := range variants[1:] {
		if got := LabelKey(v); got != want {
			t.Errorf("LabelKey(%q) = %q, want %q", v, got, want)
		}
	}
	if LabelKey("Calidad") == LabelKey("Expansión") {
		t.Error("distinct labels collided")
	}
}
