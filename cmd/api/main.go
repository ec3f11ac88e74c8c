package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"strategic_dashboard/pkg/api/dashboard"
	apiNarrative "strategic_dashboard/pkg/api/narrative"
	"strategic_dashboard/pkg/core/dataset"
	"strategic_dashboard/pkg/core/narrative"
	"strategic_dashboard/pkg/core/session"
	"strategic_dashboard/pkg/core/store"
	"strategic_dashboard/pkg/models"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	godotenv.Load()

	cfg, err := session.LoadConfig("config/dashboard.yaml")
	if err != nil {
		fmt.Printf("[FATAL] Config: %v\n", err)
		os.Exit(1)
	}
	if len(cfg.AllowedYears) > 0 {
		dataset.DefaultReportingYears = cfg.AllowedYears
	}
	for line, color := range cfg.LineColors {
		models.LineColors[line] = color
	}

	sess, err := session.Open(cfg.DatasetPath)
	if err != nil {
		fmt.Printf("[FATAL] Dataset: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("[SESSION] Loaded %s (%d records, years %v)\n",
		cfg.DatasetPath, len(sess.Dataset().Records), sess.Dataset().Years())

	// Narrative cache prefers Postgres when DATABASE_URL is set, with the
	// pre-generated json file as the second tier.
	ctx := context.Background()
	if os.Getenv("DATABASE_URL") != "" {
		if err := store.InitDB(ctx); err != nil {
			fmt.Printf("[WARNING] Narrative DB unavailable, file cache only: %v\n", err)
		} else {
			defer store.Close()
		}
	}
	cache := store.NewNarrativeCache(store.GetPool(), cfg.NarrativeFile)

	// Without an API key the generator degrades to the placeholder text and
	// the cached analyses keep working.
	var provider narrative.Provider
	if os.Getenv("GEMINI_API_KEY") != "" {
		provider = &narrative.GeminiProvider{Model: cfg.Model}
	} else {
		fmt.Println("[WARNING] GEMINI_API_KEY not set; narratives served from cache only")
	}
	gen := narrative.NewGenerator(provider, cache, cfg.Model)

	dashboard.InitHandler(sess)
	apiNarrative.InitHandler(sess, gen)

	http.HandleFunc("/api/dashboard/metrics", dashboard.HandleMetrics)
	http.HandleFunc("/api/dashboard/lines", dashboard.HandleLines)
	http.HandleFunc("/api/dashboard/cascade", dashboard.HandleCascade)
	http.HandleFunc("/api/dashboard/line", dashboard.HandleLineDetail)
	http.HandleFunc("/api/dashboard/history", dashboard.HandleHistory)
	http.HandleFunc("/api/dashboard/years", dashboard.HandleYears)
	http.HandleFunc("/api/dashboard/refresh", dashboard.HandleRefresh)
	http.HandleFunc("/api/dashboard/export", dashboard.HandleExport)
	http.HandleFunc("/api/narrative", apiNarrative.HandleNarrative)

	fmt.Printf("API server starting on %s...\n", cfg.Listen)
	fmt.Println("  - GET  /api/dashboard/metrics")
	fmt.Println("  - GET  /api/dashboard/lines")
	fmt.Println("  - GET  /api/dashboard/cascade")
	fmt.Println("  - GET  /api/dashboard/line")
	fmt.Println("  - GET  /api/dashboard/history")
	fmt.Println("  - GET  /api/dashboard/years")
	fmt.Println("  - POST /api/dashboard/refresh")
	fmt.Println("  - GET  /api/dashboard/export")
	fmt.Println("  - POST /api/narrative")

	if err := http.ListenAndServe(cfg.Listen, nil); err != nil {
		fmt.Printf("[FATAL] Server failed to start: %v\n", err)
		os.Exit(1)
	}
}
