package narrative

import (
	"strings"
	"testing"

	"strategic_dashboard/pkg/core/aggregate"
	"strategic_dashboard/pkg/core/metrics"
	"strategic_dashboard/pkg/models"
)

func floatPtr(v float64) *float64 { return &v }

func TestGeneralPrompt(t *testing.T) {
	snap := &metrics.Snapshot{Year: 2025, Overall: 87.3, TotalIndicators: 42, Met: 20, AtRisk: 12, Failing: 10}
	lines := []aggregate.LineSummary{
		{Line: "Calidad", Compliance: 95.5, Indicators: 12},
		{Line: "Expansión", Compliance: 79.1, Indicators: 8},
	}
	p := GeneralPrompt(snap, lines)

	for _, want := range []string{"Año 2025", "87.3%", "Calidad: 95.5% (12 indicadores)", "Expansión: 79.1%", "RESUMEN EJECUTIVO"} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestPromptsRequestStructuredResponse(t *testing.T) {
	prompts := map[string]string{
		"general":   GeneralPrompt(&metrics.Snapshot{Year: 2025}, nil),
		"line":      LinePrompt(aggregate.LineSummary{Line: "Calidad"}, nil),
		"indicator": IndicatorPrompt(aggregate.History{Indicator: "Ind X"}, "L", "O"),
	}
	for name, p := range prompts {
		if !strings.Contains(p, `"analisis"`) || !strings.Contains(p, `"recomendacion"`) {
			t.Errorf("%s prompt does not request the structured object", name)
		}
	}
}

func TestGeneralPromptWithoutLines(t *testing.T) {
	p := GeneralPrompt(&metrics.Snapshot{Year: 2025}, nil)
	if !strings.Contains(p, "No hay datos disponibles") {
		t.Error("empty line set should be stated explicitly")
	}
}

func TestLinePromptUsesObjectiveNodes(t *testing.T) {
	line := aggregate.LineSummary{Line: "Calidad", Compliance: 92.0, Indicators: 5}
	objectives := []aggregate.CascadeNode{
		{Level: 2, Line: "Calidad", Objective: "Obj 1", Compliance: 100, Indicators: 3},
		{Level: 3, Line: "Calidad", Objective: "Obj 1", GoalID: "M1", Compliance: 100, Indicators: 3}, // ignored
		{Level: 2, Line: "Calidad", Objective: "Obj 2", Compliance: 84, Indicators: 2},
	}
	p := LinePrompt(line, objectives)

	if !strings.Contains(p, `"Calidad"`) || !strings.Contains(p, "92.0%") {
		t.Errorf("line header missing: %s", p)
	}
	if !strings.Contains(p, "Obj 1: 100.0%") || !strings.Contains(p, "Obj 2: 84.0%") {
		t.Error("objective rows missing")
	}
	if strings.Contains(p, "M1") {
		t.Error("goal-level nodes leaked into the objective list")
	}
}

func TestIndicatorPromptDirectionWording(t *testing.T) {
	h := aggregate.History{
		Indicator: "Tasa de deserción",
		Direction: models.DirectionDecreasing,
		Points: []aggregate.HistoryPoint{
			{Period: "2023", Target: floatPtr(10), Actual: floatPtr(9), Compliance: floatPtr(111.1)},
			{Period: "2024", Target: floatPtr(10), Actual: nil, Compliance: nil},
		},
	}
	p := IndicatorPrompt(h, "Experiencia", "Obj 4")

	for _, want := range []string{"Tasa de deserción", "Experiencia", "Obj 4", "disminuye",
		"2023: Meta: 10.00, Ejecución: 9.00, Cumplimiento: 111.1%", "Ejecución: N/D"} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestIndicatorPromptWithoutHistory(t *testing.T) {
	p := IndicatorPrompt(aggregate.History{Indicator: "Ind X", Direction: models.DirectionIncreasing}, "L", "O")
	if !strings.Contains(p, "No hay datos históricos") {
		t.Error("missing history should be stated explicitly")
	}
	if !strings.Contains(p, "aumenta") {
		t.Error("increasing direction wording missing")
	}
}
