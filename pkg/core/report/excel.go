package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ExportExcel writes a report to an xlsx workbook: a metrics summary sheet,
// the per-line table and the full cascade. Returns the serialized workbook
// bytes; the caller owns delivery (download response, file on disk).
func ExportExcel(rep *Report) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const summary = "Resumen"
	if err := f.SetSheetName("Sheet1", summary); err != nil {
		return nil, fmt.Errorf("rename summary sheet: %w", err)
	}
	writeRow(f, summary, 1, []interface{}{"Métrica", "Valor"})
	snap := rep.Snapshot
	rows := [][]interface{}{
		{"Año", snap.Year},
		{"Cumplimiento promedio", snap.Overall},
		{"Total indicadores", snap.TotalIndicators},
		{"Metas cumplidas", snap.Met},
		{"En alerta", snap.AtRisk},
		{"No cumplidos", snap.Failing},
		{"Stand by", snap.StandBy},
		{"Líneas estratégicas", snap.TotalLines},
	}
	for i, r := range rows {
		writeRow(f, summary, i+2, r)
	}

	const lines = "Lineas"
	if _, err := f.NewSheet(lines); err != nil {
		return nil, fmt.Errorf("create sheet %s: %w", lines, err)
	}
	writeRow(f, lines, 1, []interface{}{"Línea Estratégica", "Indicadores", "Cumplimiento", "Estado"})
	for i, l := range rep.Lines {
		writeRow(f, lines, i+2, []interface{}{l.Line, l.Indicators, l.Compliance, l.Status})
	}

	const cascade = "Cascada"
	if _, err := f.NewSheet(cascade); err != nil {
		return nil, fmt.Errorf("create sheet %s: %w", cascade, err)
	}
	writeRow(f, cascade, 1, []interface{}{"Nivel", "Línea", "Objetivo", "Meta PDI", "Indicador", "Cumplimiento", "Indicadores"})
	for i, n := range rep.Cascade {
		writeRow(f, cascade, i+2, []interface{}{n.Level, n.Line, n.Objective, n.GoalID, n.Indicator, n.Compliance, n.Indicators})
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) {
	cell, _ := excelize.CoordinatesToCellName(1, row)
	// SetSheetRow only fails on malformed coordinates, which ours are not.
	_ = f.SetSheetRow(sheet, cell, &values)
}
