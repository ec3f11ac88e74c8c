// Package dataset loads the unified indicator workbook and applies the
// standard filter chain every aggregation entry point shares.
package dataset

import "strings"

// accentFold maps Spanish accented runes to their ASCII bases. Headers in
// exported workbooks arrive with or without tildes depending on the export
// path, so comparisons always run on the folded form.
var accentFold = map[rune]rune{
	'á': 'a', 'é': 'e', 'í': 'i', 'ó': 'o', 'ú': 'u', 'ü': 'u', 'ñ': 'n',
	'Á': 'a', 'É': 'e', 'Í': 'i', 'Ó': 'o', 'Ú': 'u', 'Ü': 'u', 'Ñ': 'n',
}

// FoldHeader returns the ASCII-folded, lower-cased, trimmed form of a column
// header, the key used for canonical lookups.
func FoldHeader(s string) string {
	s = strings.TrimSpace(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if f, ok := accentFold[r]; ok {
			b.WriteRune(f)
			continue
		}
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}

// canonicalHeaders maps folded header forms to the canonical spelling the
// rest of the pipeline expects. Exact match only; anything else passes
// through unchanged.
var canonicalHeaders = map[string]string{
	"ano":            "Año",
	"ejecucion":      "Ejecución",
	"ejecucion s":    "Ejecución s",
	"clasificacion":  "Clasificación",
	"proyeccion":     "Proyección",
	"caracteristica": "CARACTERÍSTICA",
	"indicador":      "Indicador",
	"linea":          "Linea",
	"objetivo":       "Objetivo",
	"meta":           "Meta",
	"meta s":         "Meta s",
	"meta_pdi":       "Meta_PDI",
	"cumplimiento":   "Cumplimiento",
	"fuente":         "Fuente",
	"proyectos":      "Proyectos",
	"sentido":        "Sentido",
	"periodicidad":   "Periodicidad",
	"semestre":       "Semestre",
	"estado":         "Estado",
}

// NormalizeHeaders canonicalizes a header row. Unrecognized headers are left
// as-is (trimmed); the function never fails.
func NormalizeHeaders(headers []string) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		folded := FoldHeader(h)
		if canonical, ok := canonicalHeaders[folded]; ok {
			out[i] = canonical
			continue
		}
		out[i] = strings.TrimSpace(h)
	}
	return out
}

// NormalizeLabel applies the same trim/fold discipline to grouping label
// values (line, objective, goal) so whitespace and casing variants of the
// same label never split a group. The display form keeps its accents; only
// leading/trailing space is dropped and inner runs of whitespace collapsed.
func NormalizeLabel(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// LabelKey returns the collision-safe grouping key for a label: folded,
// lower-cased, whitespace-collapsed.
func LabelKey(s string) string {
	return FoldHeader(NormalizeLabel(s))
}
