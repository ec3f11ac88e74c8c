package models

// Corporate palette used by tiles, tables and exports.
var Colors = map[string]string{
	"primary":   "#003d82",
	"secondary": "#0066cc",
	"accent":    "#4a90e2",
	"light":     "#e8f1f9",
	"gray":      "#666666",
	"success":   "#28a745",
	"warning":   "#ffc107",
	"danger":    "#dc3545",
	"white":     "#ffffff",
}

// LineColors maps each strategic line to its institutional display color.
// Underscore variants cover datasets exported with folded label names.
var LineColors = map[string]string{
	"Expansión":                     "#FBAF17",
	"Transformación organizacional": "#42F2F2",
	"Transformación_Organizacional": "#42F2F2",
	"Calidad":                       "#EC0677",
	"Experiencia":                   "#1FB2DE",
	"Sostenibilidad":                "#A6CE38",
	"Educación para toda la vida":   "#0F385A",
	"Educación_para_toda_la_vida":   "#0F385A",
}

// LineColor resolves the display color for a strategic line, falling back to
// the corporate primary for lines introduced after the palette was fixed.
func LineColor(line string) string {
	if c, ok := LineColors[line]; ok {
		return c
	}
	return Colors["primary"]
}
