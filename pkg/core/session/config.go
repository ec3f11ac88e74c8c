package session

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Config is the dashboard configuration file (config/dashboard.yaml).
type Config struct {
	DatasetPath   string            `yaml:"dataset_path"`
	NarrativeFile string            `yaml:"narrative_cache"`
	Model         string            `yaml:"narrative_model"`
	AllowedYears  []int             `yaml:"allowed_years"`
	Listen        string            `yaml:"listen"`
	LineColors    map[string]string `yaml:"line_colors"`
}

// LoadConfig reads the yaml config, filling defaults for anything omitted.
// A missing file is not an error; defaults apply.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		DatasetPath:   "Data/Dataset_Unificado.xlsx",
		NarrativeFile: "Data/analisis_cache.json",
		Model:         "gemini-2.0-flash-lite",
		Listen:        ":8080",
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
