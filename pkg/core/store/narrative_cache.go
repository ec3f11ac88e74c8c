package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NarrativeCache is the flat key -> analysis mapping behind the dashboard's
// narrative texts. Keys are indicator or line names (or the fixed "general"
// key). Reads go through the DB when a pool is configured, the JSON cache
// file otherwise; writes go through on every successful generation.
type NarrativeCache struct {
	pool     *pgxpool.Pool
	filePath string

	mu      sync.Mutex
	entries map[string]NarrativeEntry // file-tier working copy
	loaded  bool
}

// NarrativeEntry is one cached analysis. The JSON field names match the
// cache file produced by earlier generations of the reporting tooling, so
// an existing analisis_cache.json stays readable.
type NarrativeEntry struct {
	Text        string `json:"analisis"`
	Line        string `json:"linea,omitempty"`
	Objective   string `json:"objetivo,omitempty"`
	Direction   string `json:"sentido,omitempty"`
	Model       string `json:"modelo,omitempty"`
	GeneratedAt string `json:"fecha_generacion"`
}

// NewNarrativeCache builds a cache over the given pool (may be nil) and
// cache file path. An empty path defaults to Data/analisis_cache.json.
func NewNarrativeCache(pool *pgxpool.Pool, filePath string) *NarrativeCache {
	if filePath == "" {
		filePath = filepath.Join("Data", "analisis_cache.json")
	}
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		fmt.Printf("[NARRATIVE] cache dir check: %v\n", err)
	}
	return &NarrativeCache{pool: pool, filePath: filePath}
}

// Get returns the cached entry for a key, or false on a miss. Misses are
// never errors.
func (c *NarrativeCache) Get(ctx context.Context, key string) (*NarrativeEntry, bool) {
	if c.pool != nil {
		query := `
			SELECT analysis_json
			FROM narrative_analyses
			WHERE entity_key = $1
			ORDER BY created_at DESC
			LIMIT 1
		`
		var data []byte
		if err := c.pool.QueryRow(ctx, query, key).Scan(&data); err == nil {
			var entry NarrativeEntry
			if err := json.Unmarshal(data, &entry); err == nil {
				return &entry, true
			}
		}
		return nil, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loadFileLocked()
	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	return &entry, true
}

// Save writes an entry through to the configured tiers. The file tier is
// rewritten whole after each save, matching the append-as-you-go behavior
// of the batch pre-generation tool.
func (c *NarrativeCache) Save(ctx context.Context, key string, entry NarrativeEntry) error {
	if entry.GeneratedAt == "" {
		entry.GeneratedAt = time.Now().Format("2006-01-02 15:04:05")
	}

	if c.pool != nil {
		data, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("marshal narrative entry: %w", err)
		}
		query := `
			INSERT INTO narrative_analyses (entity_key, analysis_json, created_at)
			VALUES ($1, $2, NOW())
			ON CONFLICT (entity_key)
			DO UPDATE SET analysis_json = EXCLUDED.analysis_json, created_at = NOW()
		`
		if _, err := c.pool.Exec(ctx, query, key, data); err != nil {
			return fmt.Errorf("save narrative to db: %w", err)
		}
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loadFileLocked()
	c.entries[key] = entry
	return c.writeFileLocked()
}

// Len reports the number of cached entries in the file tier.
func (c *NarrativeCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loadFileLocked()
	return len(c.entries)
}

func (c *NarrativeCache) loadFileLocked() {
	if c.loaded {
		return
	}
	c.entries = map[string]NarrativeEntry{}
	c.loaded = true
	data, err := os.ReadFile(c.filePath)
	if err != nil {
		return // no cache file yet
	}
	if err := json.Unmarshal(data, &c.entries); err != nil {
		fmt.Printf("[NARRATIVE] cache file %s unreadable, starting fresh: %v\n", c.filePath, err)
		c.entries = map[string]NarrativeEntry{}
	}
}

func (c *NarrativeCache) writeFileLocked() error {
	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal narrative cache: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(c.filePath), filepath.Base(c.filePath)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp cache file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close cache file: %w", err)
	}
	return os.Rename(tmpPath, c.filePath)
}
