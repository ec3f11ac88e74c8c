package dataset

import (
	"reflect"
	"testing"

	"strategic_dashboard/pkg/models"
)

func listRecords() []models.IndicatorRecord {
	return []models.IndicatorRecord{
		{Line: "Calidad", Objective: "Obj 1", Indicator: "Ind A"},
		{Line: "calidad ", Objective: "Obj 1", Indicator: "Ind A"}, // semester twin
		{Line: "Calidad", Objective: "Obj 2", Indicator: "Ind B"},
		{Line: "Expansión", Objective: "Obj 3", Indicator: "Ind C"},
		{Line: "Expansión", Objective: "Obj 3", Indicator: ""},
	}
}

func TestLines(t *testing.T) {
	got := Lines(listRecords())
	want := []string{"Calidad", "Expansión"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Lines = %v, want %v", got, want)
	}
}

func TestObjectivesScopedToLine(t *testing.T) {
	records := listRecords()
	if got, want := Objectives(records, "Calidad"), []string{"Obj 1", "Obj 2"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Objectives(Calidad) = %v, want %v", got, want)
	}
	if got, want := Objectives(records, ""), []string{"Obj 1", "Obj 2", "Obj 3"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Objectives(all) = %v, want %v", got, want)
	}
}

func TestIndicatorsScoped(t *testing.T) {
	records := listRecords()
	if got, want := Indicators(records, "Calidad", "Obj 1"), []string{"Ind A"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Indicators = %v, want %v", got, want)
	}
	if got, want := Indicators(records, "Expansión", ""), []string{"Ind C"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Indicators = %v, want %v", got, want)
	}
}

func TestCountDistinctIndicators(t *testing.T) {
	if got := CountDistinctIndicators(listRecords()); got != 3 {
		t.Errorf("CountDistinctIndicators = %d, want 3", got)
	}
	if got := CountDistinctIndicators(nil); got != 0 {
		t.Errorf("empty set = %d, want 0", got)
	}
}
