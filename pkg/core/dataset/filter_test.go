package dataset

import (
	"reflect"
	"testing"

	"strategic_dashboard/pkg/models"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func rec(line, objective, indicator string, year int, src models.SourceType, compliance *float64) models.IndicatorRecord {
	return models.IndicatorRecord{
		Line:       line,
		Objective:  objective,
		Indicator:  indicator,
		Year:       intPtr(year),
		Source:     src,
		Kind:       models.KindIndicator,
		Compliance: compliance,
	}
}

func fullSchema() models.Schema {
	return models.Schema{
		HasYear: true, HasSemester: true, HasTarget: true, HasActual: true,
		HasCompliance: true, HasSource: true, HasKind: true,
		HasDirection: true, HasStatus: true, HasGoalID: true,
	}
}

func testDataset() *models.Dataset {
	records := []models.IndicatorRecord{
		rec("Calidad", "Obj 1", "Ind A", 2025, models.SourceAvance, floatPtr(90)),
		rec("Calidad", "Obj 1", "Ind B", 2025, models.SourceCierre, floatPtr(80)),
		rec("Calidad", "Obj 1", "Ind C", 2024, models.SourceAvance, floatPtr(70)),
		rec("Expansión", "Obj 2", "Ind D", 2025, models.SourceAvance, nil),
		rec("Expansión", "Obj 2", "Ind E", 2021, models.SourceAvance, floatPtr(60)),
	}
	standby := rec("Calidad", "Obj 1", "Ind F", 2025, models.SourceAvance, floatPtr(0))
	standby.StatusText = " Stand By "
	standby.Actual = floatPtr(0)
	records = append(records, standby)

	project := rec("Calidad", "Obj 1", "Proy X", 2025, models.SourceAvance, floatPtr(100))
	project.Kind = models.KindProject
	records = append(records, project)

	return &models.Dataset{Version: "v1", Records: records, Schema: fullSchema()}
}

func names(records []models.IndicatorRecord) []string {
	out := make([]string, len(records))
	for i := range records {
		out[i] = records[i].Indicator
	}
	return out
}

func TestApplyDefaultChain(t *testing.T) {
	got := names(Apply(testDataset(), DefaultOptions(2025)))
	// Ind B is Cierre, Ind C is 2024, Ind D has nil compliance, Ind E is
	// outside the window, Ind F is stand-by, Proy X is a project.
	want := []string{"Ind A"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Apply = %v, want %v", got, want)
	}
}

func TestApplyIndividualPredicates(t *testing.T) {
	ds := testDataset()
	tests := []struct {
		name string
		opts Options
		want []string
	}{
		{"year only", Options{Year: 2024}, []string{"Ind C"}},
		{"window only", Options{AllowedYears: []int{2024, 2025}},
			[]string{"Ind A", "Ind B", "Ind C", "Ind D", "Ind F", "Proy X"}},
		{"source only", Options{Source: models.SourceCierre}, []string{"Ind B"}},
		{"kind project", Options{Kind: models.KindProject}, []string{"Proy X"}},
		{"line with label variant", Options{Line: "  expansion "}, []string{"Ind D", "Ind E"}},
		{"objective", Options{Objective: "Obj 2"}, []string{"Ind D", "Ind E"}},
		{"require compliance", Options{RequireCompliance: true},
			[]string{"Ind A", "Ind B", "Ind C", "Ind E", "Ind F", "Proy X"}},
		{"exclude stand-by", Options{ExcludeStandBy: true},
			[]string{"Ind A", "Ind B", "Ind C", "Ind D", "Ind E", "Proy X"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := names(Apply(ds, tt.opts)); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Apply = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	ds := testDataset()
	opts := DefaultOptions(2025)
	once := Apply(ds, opts)
	twice := Apply(&models.Dataset{Records: once, Schema: ds.Schema}, opts)
	if !reflect.DeepEqual(names(once), names(twice)) {
		t.Errorf("second application changed the result: %v vs %v", names(once), names(twice))
	}
}

func TestApplyIsOrderIndependent(t *testing.T) {
	ds := testDataset()
	// Splitting the chain into two sequential passes must equal one pass
	// with all predicates, regardless of the split.
	full := Apply(ds, DefaultOptions(2025))

	first := Apply(ds, Options{Year: 2025, AllowedYears: DefaultReportingYears, ExcludeStandBy: true})
	second := Apply(&models.Dataset{Records: first, Schema: ds.Schema},
		Options{Source: models.SourceAvance, Kind: models.KindIndicator, RequireCompliance: true})
	if !reflect.DeepEqual(names(full), names(second)) {
		t.Errorf("split chain = %v, want %v", names(second), names(full))
	}

	firstB := Apply(ds, Options{Source: models.SourceAvance, Kind: models.KindIndicator, RequireCompliance: true})
	secondB := Apply(&models.Dataset{Records: firstB, Schema: ds.Schema},
		Options{Year: 2025, AllowedYears: DefaultReportingYears, ExcludeStandBy: true})
	if !reflect.DeepEqual(names(full), names(secondB)) {
		t.Errorf("reversed split = %v, want %v", names(secondB), names(full))
	}
}

func TestApplyAbsentColumnsNoOp(t *testing.T) {
	ds := testDataset()
	ds.Schema = models.Schema{} // nothing present
	got := Apply(ds, DefaultOptions(2025))
	if len(got) != len(ds.Records) {
		t.Errorf("predicates on absent columns should pass everything: %d of %d survived",
			len(got), len(ds.Records))
	}
}

func TestApplyDoesNotMutate(t *testing.T) {
	ds := testDataset()
	before := len(ds.Records)
	out := Apply(ds, DefaultOptions(2025))
	if len(ds.Records) != before {
		t.Fatal("snapshot mutated")
	}
	if len(out) > 0 {
		out[0].Indicator = "changed"
		for i := range ds.Records {
			if ds.Records[i].Indicator == "changed" {
				t.Fatal("result aliases the snapshot")
			}
		}
	}
}

func TestIsStandBy(t *testing.T) {
	tests := []struct {
		name   string
		status string
		actual *float64
		want   bool
	}{
		{"status and nil actual", "stand by", nil, true},
		{"status and zero actual", "Stand By", floatPtr(0), true},
		{"case and space variants", "  STAND BY  ", nil, true},
		{"status with nonzero actual", "stand by", floatPtr(5), false},
		{"no status", "", nil, false},
		{"other status", "activo", floatPtr(0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := models.IndicatorRecord{StatusText: tt.status, Actual: tt.actual}
			if got := r.IsStandBy(); got != tt.want {
				t.Errorf("IsStandBy = %v, want %v", got, tt.want)
			}
		})
	}
}
