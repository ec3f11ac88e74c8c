package narrative

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	coreNarrative "strategic_dashboard/pkg/core/narrative"
	"strategic_dashboard/pkg/core/session"
	"strategic_dashboard/pkg/core/store"
	"strategic_dashboard/pkg/models"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func setupNarrative(t *testing.T) *store.NarrativeCache {
	t.Helper()
	ds := &models.Dataset{
		Version: "v1",
		Records: []models.IndicatorRecord{
			{
				Line: "Calidad", Objective: "Obj 1", Indicator: "Ind A",
				Year: intPtr(2025), Source: models.SourceAvance,
				Kind: models.KindIndicator, Compliance: floatPtr(95),
			},
		},
		Schema: models.Schema{
			HasYear: true, HasCompliance: true, HasSource: true,
			HasKind: true, HasStatus: true,
		},
	}
	cache := store.NewNarrativeCache(nil, filepath.Join(t.TempDir(), "cache.json"))
	InitHandler(session.FromDataset(ds), coreNarrative.NewGenerator(nil, cache, "test-model"))
	return cache
}

func post(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/narrative", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	HandleNarrative(w, req)
	return w
}

func TestHandleNarrativeServesPlaceholderWithoutProvider(t *testing.T) {
	setupNarrative(t)
	w := post(t, `{"kind": "general", "year": 2025}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var resp NarrativeResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Key != coreNarrative.GeneralKey {
		t.Errorf("key = %q", resp.Key)
	}
	if resp.Text != coreNarrative.Placeholder {
		t.Errorf("text = %q, want the placeholder", resp.Text)
	}
}

func TestHandleNarrativeServesCachedText(t *testing.T) {
	cache := setupNarrative(t)
	entry := store.NarrativeEntry{Text: "La línea avanza según lo planeado."}
	if err := cache.Save(context.Background(), "Calidad", entry); err != nil {
		t.Fatal(err)
	}

	w := post(t, `{"kind": "line", "line": "Calidad", "year": 2025}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var resp NarrativeResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Text != entry.Text {
		t.Errorf("text = %q, want the cached analysis", resp.Text)
	}
}

func TestHandleNarrativeKeysThroughCanonicalLabels(t *testing.T) {
	cache := setupNarrative(t)
	lineEntry := store.NarrativeEntry{Text: "Análisis de línea pregenerado."}
	if err := cache.Save(context.Background(), "Calidad", lineEntry); err != nil {
		t.Fatal(err)
	}
	indEntry := store.NarrativeEntry{Text: "Análisis de indicador pregenerado."}
	if err := cache.Save(context.Background(), "Ind A", indEntry); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		body    string
		wantKey string
		want    string
	}{
		{"line case variant", `{"kind": "line", "line": "CALIDAD"}`, "Calidad", lineEntry.Text},
		{"line whitespace variant", `{"kind": "line", "line": "  Calidad  "}`, "Calidad", lineEntry.Text},
		{"indicator case variant", `{"kind": "indicator", "indicator": "ind a"}`, "Ind A", indEntry.Text},
		{"indicator whitespace variant", `{"kind": "indicator", "indicator": " Ind   A "}`, "Ind A", indEntry.Text},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(t, tt.body)
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d: %s", w.Code, w.Body.String())
			}
			var resp NarrativeResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatal(err)
			}
			if resp.Key != tt.wantKey {
				t.Errorf("key = %q, want %q", resp.Key, tt.wantKey)
			}
			if resp.Text != tt.want {
				t.Errorf("text = %q, want the pre-generated analysis", resp.Text)
			}
		})
	}
}

func TestHandleNarrativeIndicatorKind(t *testing.T) {
	setupNarrative(t)
	w := post(t, `{"kind": "indicator", "indicator": "Ind A", "line": "Calidad", "objective": "Obj 1"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var resp NarrativeResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Key != "Ind A" {
		t.Errorf("key = %q", resp.Key)
	}
}

func TestHandleNarrativeValidation(t *testing.T) {
	setupNarrative(t)
	tests := []struct {
		name string
		body string
	}{
		{"unknown kind", `{"kind": "nonsense"}`},
		{"line without name", `{"kind": "line"}`},
		{"indicator without name", `{"kind": "indicator"}`},
		{"unknown line", `{"kind": "line", "line": "No existe"}`},
		{"broken body", `{"kind":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := post(t, tt.body); w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
}

func TestHandleNarrativeRejectsGet(t *testing.T) {
	setupNarrative(t)
	w := httptest.NewRecorder()
	HandleNarrative(w, httptest.NewRequest("GET", "/api/narrative", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", w.Code)
	}
}
