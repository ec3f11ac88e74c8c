package narrative

import (
	"fmt"
	"strings"

	"strategic_dashboard/pkg/core/aggregate"
	"strategic_dashboard/pkg/core/metrics"
	"strategic_dashboard/pkg/models"
)

// SystemPrompt frames every narrative request.
const SystemPrompt = "Eres un analista estratégico institucional. Respondes en español, " +
	"con tono profesional, conciso y orientado a la acción."

// responseFormat closes every prompt with the structured-object request
// RenderResponse decodes.
const responseFormat = "\n\nResponde únicamente con un objeto JSON con las claves " +
	`"analisis" (el análisis en Markdown) y "recomendacion" (una frase accionable).`

// GeneralPrompt builds the executive-summary request for the whole plan.
func GeneralPrompt(snap *metrics.Snapshot, lines []aggregate.LineSummary) string {
	var lineText strings.Builder
	for _, l := range lines {
		fmt.Fprintf(&lineText, "- %s: %.1f%% (%d indicadores)\n", l.Line, l.Compliance, l.Indicators)
	}
	if lineText.Len() == 0 {
		lineText.WriteString("No hay datos disponibles\n")
	}

	return fmt.Sprintf(`Analiza los siguientes datos del Plan de Desarrollo Institucional (PDI):

**Métricas Generales (Año %d):**
- Cumplimiento promedio general: %.1f%%
- Total de indicadores activos: %d
- Indicadores con meta cumplida (>=100%%): %d
- Indicadores en alerta (80-99.9%%): %d
- Indicadores que requieren atención (<80%%): %d

**Cumplimiento por Línea Estratégica:**
%s
Genera un RESUMEN EJECUTIVO de máximo 150 palabras que incluya:
1. Estado general del cumplimiento del PDI
2. Las 2 líneas estratégicas con mejor desempeño
3. Las líneas que requieren mayor atención
4. Una conclusión sobre la tendencia general`,
		snap.Year, snap.Overall, snap.TotalIndicators, snap.Met, snap.AtRisk, snap.Failing,
		lineText.String()) + responseFormat
}

// LinePrompt builds the analysis request for one strategic line.
func LinePrompt(line aggregate.LineSummary, objectives []aggregate.CascadeNode) string {
	var objText strings.Builder
	for _, o := range objectives {
		if o.Level != 2 {
			continue
		}
		fmt.Fprintf(&objText, "- %s: %.1f%% (%d indicadores)\n", o.Objective, o.Compliance, o.Indicators)
	}
	if objText.Len() == 0 {
		objText.WriteString("No hay objetivos con datos\n")
	}

	return fmt.Sprintf(`Analiza la línea estratégica "%s" del PDI:

- Cumplimiento promedio de la línea: %.1f%%
- Total de indicadores: %d

**Cumplimiento por Objetivo:**
%s
Genera un ANÁLISIS de máximo 120 palabras que incluya:
1. Evaluación del desempeño de la línea
2. Los objetivos con mayor y menor avance
3. Una recomendación específica y accionable`,
		line.Line, line.Compliance, line.Indicators, objText.String()) + responseFormat
}

// IndicatorPrompt builds the analysis request for one indicator, including
// its closed-record history.
func IndicatorPrompt(h aggregate.History, line, objective string) string {
	var histText strings.Builder
	for _, p := range h.Points {
		fmt.Fprintf(&histText, "- %s: Meta: %s, Ejecución: %s, Cumplimiento: %s\n",
			p.Period, fmtVal(p.Target), fmtVal(p.Actual), fmtPct(p.Compliance))
	}
	if histText.Len() == 0 {
		histText.WriteString("No hay datos históricos\n")
	}

	verb := "aumenta"
	if h.Direction == models.DirectionDecreasing {
		verb = "disminuye"
	}

	return fmt.Sprintf(`Analiza el siguiente indicador del PDI:

**Indicador:** %s
**Línea Estratégica:** %s
**Objetivo:** %s
**Sentido:** %s (el indicador se considera positivo si %s)

**Histórico de Desempeño:**
%s
Genera un ANÁLISIS de máximo 100 palabras que incluya:
1. Evaluación de la tendencia
2. Identificación de brechas significativas
3. Una recomendación específica y accionable`,
		h.Indicator, line, objective, h.Direction, verb, histText.String()) + responseFormat
}

func fmtVal(v *float64) string {
	if v == nil {
		return "N/D"
	}
	return fmt.Sprintf("%.2f", *v)
}

func fmtPct(v *float64) string {
	if v == nil {
		return "N/D"
	}
	return fmt.Sprintf("%.1f%%", *v)
}
