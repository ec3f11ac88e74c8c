// Command pregen walks every indicator in the workbook and pre-generates its
// narrative analysis into the cache file, so the dashboard can serve analyses
// without live model calls.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"strategic_dashboard/pkg/core/aggregate"
	"strategic_dashboard/pkg/core/dataset"
	"strategic_dashboard/pkg/core/narrative"
	"strategic_dashboard/pkg/core/store"
	"strategic_dashboard/pkg/core/utils"

	"github.com/joho/godotenv"
)

const quotaBackoff = 60 * time.Second

func main() {
	godotenv.Load()

	datasetPath := flag.String("dataset", "Data/Dataset_Unificado.xlsx", "workbook path")
	cacheFile := flag.String("cache", "Data/analisis_cache.json", "narrative cache file")
	model := flag.String("model", "gemini-2.0-flash-lite", "model name")
	force := flag.Bool("force", false, "regenerate entries already cached")
	pause := flag.Duration("pause", 5*time.Second, "pause between model calls")
	flag.Parse()

	ctx := context.Background()

	ds, err := dataset.LoadWorkbook(*datasetPath)
	if err != nil {
		fmt.Printf("[FATAL] Dataset: %v\n", err)
		os.Exit(1)
	}

	client, err := narrative.NewDirectClient(ctx, *model)
	if err != nil {
		fmt.Printf("[FATAL] Model client: %v\n", err)
		os.Exit(1)
	}
	defer client.Close()

	cache := store.NewNarrativeCache(nil, *cacheFile)

	year := ds.MaxYear()
	records := dataset.Apply(ds, dataset.DefaultOptions(year))
	fmt.Printf("[PREGEN] %d records for %d, model %s\n", len(records), year, *model)

	generated, skipped, failed := 0, 0, 0
	for _, line := range dataset.Lines(records) {
		for _, objective := range dataset.Objectives(records, line) {
			for _, indicator := range dataset.Indicators(records, line, objective) {
				if !*force {
					if _, ok := cache.Get(ctx, indicator); ok {
						skipped++
						continue
					}
				}

				h := aggregate.IndicatorHistory(ds, indicator)
				prompt := narrative.IndicatorPrompt(h, line, objective)
				text, err := generate(ctx, client, prompt, *pause)
				if err != nil {
					fmt.Printf("[PREGEN] FAILED %q: %v\n", indicator, err)
					failed++
					continue
				}
				text = narrative.RenderResponse(text)
				if text == "" || !utils.ValidMarkdown(text) {
					fmt.Printf("[PREGEN] Discarded malformed output for %q\n", indicator)
					failed++
					continue
				}

				entry := store.NarrativeEntry{
					Text:        text,
					Line:        line,
					Objective:   objective,
					Direction:   string(h.Direction),
					Model:       *model,
					GeneratedAt: time.Now().Format(time.RFC3339),
				}
				if err := cache.Save(ctx, indicator, entry); err != nil {
					fmt.Printf("[PREGEN] Cache write for %q: %v\n", indicator, err)
				}
				generated++
				fmt.Printf("[PREGEN] %d ok: %s\n", generated, indicator)
				time.Sleep(*pause)
			}
		}
	}

	fmt.Printf("[PREGEN] Done: %d generated, %d cached, %d failed (%d entries total)\n",
		generated, skipped, failed, cache.Len())
	if failed > 0 {
		os.Exit(1)
	}
}

// generate calls the model, waiting out one quota window before retrying.
func generate(ctx context.Context, client *narrative.DirectClient, prompt string, pause time.Duration) (string, error) {
	text, err := client.GenerateResponse(ctx, prompt, narrative.SystemPrompt, nil)
	if err == nil {
		return text, nil
	}
	if !narrative.IsQuotaError(err) {
		return "", err
	}
	fmt.Printf("[PREGEN] Quota exhausted, backing off %s\n", quotaBackoff)
	time.Sleep(quotaBackoff)
	return client.GenerateResponse(ctx, prompt, narrative.SystemPrompt, nil)
}
