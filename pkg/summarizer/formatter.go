package summarizer

// Formatter defines the interface for formatting a Summary.
type Formatter interface {
	// Format converts a Summary to a formatted string.
	Format(summary *Summary) string
}

// FormatFunc is a function adapter for the Formatter interface.
type FormatFunc func(summary *Summary) string

// Format implements the Formatter interface.
func (f FormatFunc) Format(summary *Summary) string {
	return f(summary)
}

// ForName returns the formatter registered under name: "json" or
// "markdown". Anything else falls back to Markdown.
func ForName(name string, opts ...MarkdownOption) Formatter {
	if name == "json" {
		return NewJSONFormatter()
	}
	return NewMarkdownFormatter(opts...)
}
