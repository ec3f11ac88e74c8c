package utils

import "testing"

type analysisSchema struct {
	Summary string   `json:"summary"`
	Risks   []string `json:"risks"`
}

func TestDecodeModelJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"clean json", `{"summary": "ok", "risks": ["a"]}`},
		{"markdown fenced", "```json\n{\"summary\": \"ok\", \"risks\": [\"a\"]}\n```"},
		{"single quotes", `{'summary': 'ok', 'risks': ['a']}`},
		{"trailing comma", `{"summary": "ok", "risks": ["a"],}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out analysisSchema
			if err := DecodeModelJSON(tt.raw, &out); err != nil {
				t.Fatalf("DecodeModelJSON: %v", err)
			}
			if out.Summary != "ok" || len(out.Risks) != 1 {
				t.Errorf("decoded = %+v", out)
			}
		})
	}
}

func TestDecodeModelJSONRejectsGarbage(t *testing.T) {
	var out analysisSchema
	if err := DecodeModelJSON("the model refused to answer", &out); err == nil {
		t.Error("prose should not decode")
	}
}

func TestRepairModelJSON(t *testing.T) {
	if got := RepairModelJSON(`{"a": 1,}`); got == "" || got == "{}" {
		t.Errorf("repairable input returned %q", got)
	}
}

func TestCleanNarrative(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text", "Hola mundo", "Hola mundo"},
		{"whitespace", "  \n Hola \n ", "Hola"},
		{"markdown fence", "```markdown\n## Título\nTexto\n```", "## Título\nTexto"},
		{"bare fence", "```\nTexto\n```", "Texto"},
		{"inner fence kept", "Antes\n```\ncode\n```\nDespués", "Antes\n```\ncode\n```\nDespués"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanNarrative(tt.in); got != tt.want {
				t.Errorf("CleanNarrative = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidMarkdown(t *testing.T) {
	if !ValidMarkdown("## Título\n\n- punto uno\n- punto dos") {
		t.Error("well-formed markdown rejected")
	}
	if !ValidMarkdown("") {
		t.Error("empty input still parses; callers guard emptiness separately")
	}
}
