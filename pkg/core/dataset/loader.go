package dataset

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"strategic_dashboard/pkg/core/compliance"
	"strategic_dashboard/pkg/models"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// ErrDataUnavailable marks the one fatal failure mode: the source workbook is
// missing, unreadable or locked. Everything downstream degrades instead.
var ErrDataUnavailable = errors.New("source dataset unavailable")

const (
	// Workbook sheet names. Unificado holds the period observations,
	// Base_Indicadores the per-indicator metadata.
	SheetUnified = "Unificado"
	SheetBase    = "Base_Indicadores"
)

// LoadWorkbook reads the unified workbook into an immutable Dataset snapshot.
// Malformed numeric cells become nil and are excluded from all downstream
// means; only an unreadable workbook or a missing Unificado sheet is fatal.
func LoadWorkbook(path string) (*models.Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrDataUnavailable, path, err)
	}
	defer f.Close()

	unified, err := f.GetRows(SheetUnified)
	if err != nil || len(unified) == 0 {
		return nil, fmt.Errorf("%w: sheet %q missing or empty", ErrDataUnavailable, SheetUnified)
	}

	meta := map[string]models.IndicatorMeta{}
	if base, err := f.GetRows(SheetBase); err == nil && len(base) > 1 {
		meta = parseBaseSheet(base)
	}

	ds := ParseRows(unified, meta)
	fmt.Printf("[DATASET] Loaded %s: %d records, %d indicator metas (version %s)\n",
		path, len(ds.Records), len(ds.Meta), ds.Version)
	return ds, nil
}

// parseBaseSheet extracts indicator metadata (periodicity, directionality,
// goal, units) keyed by indicator name.
func parseBaseSheet(rows [][]string) map[string]models.IndicatorMeta {
	headers := NormalizeHeaders(rows[0])
	col := indexHeaders(headers)
	meta := make(map[string]models.IndicatorMeta)
	for _, row := range rows[1:] {
		name := NormalizeLabel(cell(row, col.idx("Indicador")))
		if name == "" {
			continue
		}
		m := models.IndicatorMeta{
			Indicator:   name,
			Periodicity: strings.TrimSpace(cell(row, col.idx("Periodicidad"))),
			Direction:   parseDirection(cell(row, col.idx("Sentido"))),
			GoalID:      NormalizeLabel(cell(row, col.idx("Meta_PDI"))),
			TargetUnit:  strings.TrimSpace(cell(row, col.idx("Meta s"))),
			ActualUnit:  strings.TrimSpace(cell(row, col.idx("Ejecución s"))),
		}
		if m.Periodicity == "" {
			m.Periodicity = "Anual"
		}
		meta[name] = m
	}
	return meta
}

// ParseRows builds a Dataset snapshot from a raw header+data row table.
// Optional columns absent from the header row are flagged in Schema so
// downstream filters short-circuit gracefully. Exposed for tests and for
// callers that source the table from something other than the workbook.
func ParseRows(rows [][]string, meta map[string]models.IndicatorMeta) *models.Dataset {
	headers := NormalizeHeaders(rows[0])
	col := indexHeaders(headers)

	schema := models.Schema{
		HasYear:       col.has("Año"),
		HasSemester:   col.has("Semestre"),
		HasTarget:     col.has("Meta"),
		HasActual:     col.has("Ejecución"),
		HasCompliance: col.has("Cumplimiento"),
		HasSource:     col.has("Fuente"),
		HasKind:       col.has("Proyectos"),
		HasDirection:  col.has("Sentido"),
		HasStatus:     col.has("Estado"),
		HasGoalID:     col.has("Meta_PDI"),
	}

	records := make([]models.IndicatorRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		r := models.IndicatorRecord{
			Indicator:  NormalizeLabel(cell(row, col.idx("Indicador"))),
			Line:       NormalizeLabel(cell(row, col.idx("Linea"))),
			Objective:  NormalizeLabel(cell(row, col.idx("Objetivo"))),
			Year:       parseIntCell(cell(row, col.idx("Año"))),
			Semester:   parseSemester(cell(row, col.idx("Semestre"))),
			Target:     parseFloatCell(cell(row, col.idx("Meta"))),
			Actual:     parseFloatCell(cell(row, col.idx("Ejecución"))),
			Compliance: parseFloatCell(cell(row, col.idx("Cumplimiento"))),
			StatusText: strings.TrimSpace(cell(row, col.idx("Estado"))),
		}
		if r.Indicator == "" && r.Line == "" {
			continue // blank filler row
		}
		if schema.HasSource {
			r.Source = parseSource(cell(row, col.idx("Fuente")))
		}
		if schema.HasKind {
			r.Kind = parseKind(cell(row, col.idx("Proyectos")))
		}
		if schema.HasDirection {
			r.Direction = parseDirection(cell(row, col.idx("Sentido")))
		}
		if g := NormalizeLabel(cell(row, col.idx("Meta_PDI"))); g != "" {
			r.GoalID = g
		}
		// Metadata joins resolved once at load time.
		if m, ok := meta[r.Indicator]; ok {
			if r.Direction == "" {
				r.Direction = m.Direction
			}
			if r.GoalID == "" {
				r.GoalID = m.GoalID
			}
		}
		if r.Direction == "" {
			r.Direction = models.DirectionIncreasing
		}
		records = append(records, r)
	}

	if schema.HasCompliance {
		rescaleCompliance(records)
	} else if schema.HasTarget && schema.HasActual {
		// Compliance column absent: derive it from target and actual.
		for i := range records {
			records[i].Compliance = compliance.Compute(records[i].Target, records[i].Actual, records[i].Direction)
		}
		schema.HasCompliance = true
	}

	return &models.Dataset{
		Version: uuid.NewString(),
		Records: records,
		Meta:    meta,
		Schema:  schema,
	}
}

// rescaleCompliance raises a 0-1 fractional compliance column to the 0-100
// scale. The max-value heuristic (all values <= 2) runs exactly once, here.
func rescaleCompliance(records []models.IndicatorRecord) {
	max := 0.0
	any := false
	for i := range records {
		if c := records[i].Compliance; c != nil {
			any = true
			if *c > max {
				max = *c
			}
		}
	}
	if !any || max > 2 {
		return
	}
	for i := range records {
		if c := records[i].Compliance; c != nil {
			scaled := *c * 100
			records[i].Compliance = &scaled
		}
	}
}

// columnIndex resolves canonical header names to column positions. A missing
// header resolves to -1, which cell() reads as empty.
type columnIndex map[string]int

func indexHeaders(headers []string) columnIndex {
	col := make(columnIndex, len(headers))
	for i, h := range headers {
		if _, seen := col[h]; !seen {
			col[h] = i
		}
	}
	return col
}

func (c columnIndex) idx(name string) int {
	if i, ok := c[name]; ok {
		return i
	}
	return -1
}

func (c columnIndex) has(name string) bool {
	_, ok := c[name]
	return ok
}

// cell fetches a cell by column index, tolerating ragged and short rows.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// thousandsGrouped matches numbers whose commas are unambiguously thousands
// separators, e.g. "1,500" or "-12,345.67". Anything else with a comma (a
// decimal-comma "3,5", "1,23,4") cannot be read safely and coerces to null.
var thousandsGrouped = regexp.MustCompile(`^-?\d{1,3}(,\d{3})+(\.\d+)?$`)

func parseFloatCell(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	// Workbook exports sometimes carry thousands separators or percent signs.
	s = strings.TrimSpace(strings.ReplaceAll(s, "%", ""))
	if strings.Contains(s, ",") {
		if !thousandsGrouped.MatchString(s) {
			return nil // MalformedValue: ambiguous separator
		}
		s = strings.ReplaceAll(s, ",", "")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil // MalformedValue: coerced to null at the point of read
	}
	return &v
}

func parseIntCell(s string) *int {
	f := parseFloatCell(s)
	if f == nil {
		return nil
	}
	v := int(*f)
	return &v
}

func parseSemester(s string) *int {
	v := parseIntCell(s)
	if v == nil || (*v != 1 && *v != 2) {
		return nil
	}
	return v
}

func parseSource(s string) models.SourceType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "avance":
		return models.SourceAvance
	case "cierre":
		return models.SourceCierre
	}
	return models.SourceType(strings.TrimSpace(s))
}

// parseKind maps the 0/1 Proyectos flag (blank counts as 0, matching how the
// source dashboard treated NaN).
func parseKind(s string) models.RecordKind {
	if f := parseFloatCell(s); f != nil && *f == 1 {
		return models.KindProject
	}
	return models.KindIndicator
}

func parseDirection(s string) models.Direction {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "decreciente":
		return models.DirectionDecreasing
	case "creciente":
		return models.DirectionIncreasing
	}
	return ""
}
