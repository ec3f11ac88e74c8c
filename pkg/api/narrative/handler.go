// Package narrative exposes AI narrative generation over HTTP.
package narrative

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"strategic_dashboard/pkg/core/aggregate"
	"strategic_dashboard/pkg/core/dataset"
	"strategic_dashboard/pkg/core/narrative"
	"strategic_dashboard/pkg/core/session"
	"strategic_dashboard/pkg/core/store"
	"strategic_dashboard/pkg/models"
)

var (
	sess *session.Session
	gen  *narrative.Generator
)

// InitHandler wires the handler to a session and a generator.
func InitHandler(s *session.Session, g *narrative.Generator) {
	sess = s
	gen = g
}

// NarrativeRequest selects what to narrate. Kind is one of
// "general", "line" or "indicator".
type NarrativeRequest struct {
	Kind      string `json:"kind"`
	Line      string `json:"line,omitempty"`
	Objective string `json:"objective,omitempty"`
	Indicator string `json:"indicator,omitempty"`
	Year      int    `json:"year,omitempty"`
}

// NarrativeResponse carries the rendered markdown.
type NarrativeResponse struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

// HandleNarrative resolves a narrative request through the cache and,
// on miss, the configured model (POST /api/narrative).
func HandleNarrative(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "POST required", http.StatusMethodNotAllowed)
		return
	}

	var req NarrativeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	key, prompt, meta, err := buildPrompt(req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	text := gen.Text(r.Context(), key, prompt, meta)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(NarrativeResponse{Key: key, Text: text})
}

func buildPrompt(req NarrativeRequest) (key, prompt string, meta store.NarrativeEntry, err error) {
	year := req.Year
	if year == 0 {
		year = sess.Dataset().MaxYear()
	}
	meta.GeneratedAt = time.Now().Format(time.RFC3339)

	switch req.Kind {
	case "general":
		res, aerr := sess.Aggregate(year, dataset.DefaultOptions(year))
		if aerr != nil {
			return "", "", meta, fmt.Errorf("aggregation unavailable: %w", aerr)
		}
		return narrative.GeneralKey, narrative.GeneralPrompt(sess.Metrics(year), res.Lines), meta, nil

	case "line":
		if req.Line == "" {
			return "", "", meta, fmt.Errorf("line required for kind 'line'")
		}
		res, aerr := sess.Aggregate(year, dataset.DefaultOptions(year))
		if aerr != nil {
			return "", "", meta, fmt.Errorf("aggregation unavailable: %w", aerr)
		}
		summary, objectives, ok := lineSlice(res, req.Line)
		if !ok {
			return "", "", meta, fmt.Errorf("unknown line %q", req.Line)
		}
		// Key through the canonical label so request variants share one
		// cache entry with the pre-generated one.
		meta.Line = summary.Line
		return summary.Line, narrative.LinePrompt(summary, objectives), meta, nil

	case "indicator":
		if req.Indicator == "" {
			return "", "", meta, fmt.Errorf("indicator required for kind 'indicator'")
		}
		name := canonicalIndicator(sess.Dataset(), req.Indicator)
		h := sess.History(name)
		meta.Line = dataset.NormalizeLabel(req.Line)
		meta.Objective = dataset.NormalizeLabel(req.Objective)
		meta.Direction = string(h.Direction)
		return name, narrative.IndicatorPrompt(h, meta.Line, meta.Objective), meta, nil
	}
	return "", "", meta, fmt.Errorf("unknown narrative kind %q", req.Kind)
}

// canonicalIndicator maps any casing/whitespace variant of an indicator name
// to the label stored in the dataset, which is also the form pre-generation
// keys the cache with.
func canonicalIndicator(ds *models.Dataset, indicator string) string {
	key := dataset.LabelKey(indicator)
	for i := range ds.Records {
		if dataset.LabelKey(ds.Records[i].Indicator) == key {
			return ds.Records[i].Indicator
		}
	}
	return dataset.NormalizeLabel(indicator)
}

// lineSlice pulls one line's summary and its objective nodes out of an
// aggregation result.
func lineSlice(res *aggregate.Result, line string) (aggregate.LineSummary, []aggregate.CascadeNode, bool) {
	key := dataset.LabelKey(line)
	var summary aggregate.LineSummary
	found := false
	for _, ls := range res.Lines {
		if dataset.LabelKey(ls.Line) == key {
			summary = ls
			found = true
			break
		}
	}
	if !found {
		return summary, nil, false
	}
	var objectives []aggregate.CascadeNode
	for _, node := range res.Cascade {
		if node.Level == 2 && dataset.LabelKey(node.Line) == key {
			objectives = append(objectives, node)
		}
	}
	return summary, objectives, true
}
