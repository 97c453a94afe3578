package summarizer

import (
	"encoding/json"
)

// JSONFormatter renders a Summary as indented JSON.
type JSONFormatter struct {
	Indent string
}

// NewJSONFormatter creates a JSONFormatter indenting with two spaces.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{Indent: "  "}
}

// Format implements Formatter.
func (f *JSONFormatter) Format(s *Summary) string {
	data, err := json.MarshalIndent(s, "", f.Indent)
	if err != nil {
		// Summary holds only plain values, so this is unreachable in practice.
		return "{}\n"
	}
	return string(data) + "\n"
}
