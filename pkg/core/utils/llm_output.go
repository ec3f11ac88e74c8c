// Package utils contains hygiene helpers for model-generated narrative text:
// JSON repair for structured responses and markdown cleanup for prose.
package utils

import (
	"encoding/json"
	"fmt"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

// DecodeModelJSON unmarshals a model's JSON response into schema, repairing
// the common LLM defects first (single quotes, trailing commas, unclosed
// braces, markdown fences). If strict parsing of the repaired text still
// fails, a lenient HJSON pass is the last resort before giving up.
func DecodeModelJSON(raw string, schema interface{}) error {
	repaired, err := jsonrepair.RepairJSON(raw)
	if err != nil {
		repaired = raw
	}
	if err := json.Unmarshal([]byte(repaired), schema); err == nil {
		return nil
	}
	if err := hjson.Unmarshal([]byte(repaired), schema); err != nil {
		return fmt.Errorf("model response is not decodable JSON: %w", err)
	}
	return nil
}

// RepairModelJSON returns the repaired JSON text, or "{}" when the input is
// beyond repair. Narrative cache writers use this so a half-broken response
// never corrupts the cache file.
func RepairModelJSON(raw string) string {
	repaired, err := jsonrepair.RepairJSON(raw)
	if err != nil {
		return "{}"
	}
	return repaired
}
