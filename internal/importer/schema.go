package importer

import (
	"encoding/json"
	"fmt"
	"os"
)

// ImportSchema is the top-level JSON structure for a graph import: a set
// of spans keyed by local refs plus the connections between them.
type ImportSchema struct {
	Spans       []SpanImport       `json:"spans"`
	Connections []ConnectionImport `json:"connections,omitempty"`
}

// SpanImport defines one span in the import file. Dates are partial
// ("2007", "2007-03", "2007-03-15") and optional.
type SpanImport struct {
	Ref         string         `json:"ref"`
	Type        string         `json:"type"`
	Name        string         `json:"name"`
	Slug        string         `json:"slug,omitempty"`
	Start       string         `json:"start,omitempty"`
	End         string         `json:"end,omitempty"`
	State       string         `json:"state,omitempty"`
	AccessLevel string         `json:"access_level,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// ConnectionImport defines one connection between two imported spans.
// Dates apply to the generated connection-span.
type ConnectionImport struct {
	ParentRef string `json:"parent_ref"`
	ChildRef  string `json:"child_ref"`
	Type      string `json:"type"`
	Start     string `json:"start,omitempty"`
	End       string `json:"end,omitempty"`
}

// LoadImportSchema reads and parses a graph import JSON file.
func LoadImportSchema(path string) (*ImportSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var schema ImportSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	return &schema, nil
}
