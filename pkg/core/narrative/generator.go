package narrative

import (
	"context"
	"fmt"
	"strings"

	"strategic_dashboard/pkg/core/store"
	"strategic_dashboard/pkg/core/utils"
)

// GeneralKey is the cache key for the plan-wide executive summary.
const GeneralKey = "__general__"

// Generator fulfills the narrative contract with read-through caching and
// placeholder degradation. A nil provider is valid: every lookup that
// misses the cache then resolves to the placeholder.
type Generator struct {
	provider Provider
	cache    *store.NarrativeCache
	model    string
}

// NewGenerator wires a provider (may be nil) to a cache (required).
func NewGenerator(provider Provider, cache *store.NarrativeCache, model string) *Generator {
	return &Generator{provider: provider, cache: cache, model: model}
}

// Text resolves the narrative for an entity key: cached text when present,
// a fresh generation written through on success, the placeholder otherwise.
// Failures are absorbed; this method never returns an error because the
// pipeline must stay renderable without narrative text.
func (g *Generator) Text(ctx context.Context, key, prompt string, meta store.NarrativeEntry) string {
	if entry, ok := g.cache.Get(ctx, key); ok && entry.Text != "" {
		return entry.Text
	}
	if g.provider == nil {
		return Placeholder
	}

	raw, err := g.provider.GenerateResponse(ctx, prompt, SystemPrompt, map[string]interface{}{"model": g.model})
	if err != nil {
		fmt.Printf("[NARRATIVE] generation failed for %q: %v\n", key, err)
		return Placeholder
	}

	text := RenderResponse(raw)
	if text == "" || !utils.ValidMarkdown(text) {
		return Placeholder
	}

	meta.Text = text
	meta.Model = g.model
	if err := g.cache.Save(ctx, key, meta); err != nil {
		// Cache write failure is not a generation failure.
		fmt.Printf("[NARRATIVE] cache save failed for %q: %v\n", key, err)
	}
	return text
}

// modelAnalysis is the structured object the prompts request.
type modelAnalysis struct {
	Analysis       string `json:"analisis"`
	Recommendation string `json:"recomendacion"`
}

// RenderResponse turns a raw model response into display markdown. The
// prompts ask for a JSON object; malformed JSON goes through repair before
// decoding, and a response that ignored the format entirely is kept as
// plain markdown after fence stripping.
func RenderResponse(raw string) string {
	var parsed modelAnalysis
	if err := utils.DecodeModelJSON(raw, &parsed); err == nil {
		if text := strings.TrimSpace(parsed.Analysis); text != "" {
			if rec := strings.TrimSpace(parsed.Recommendation); rec != "" {
				text += "\n\n**Recomendación:** " + rec
			}
			return text
		}
	}
	return utils.CleanNarrative(raw)
}
