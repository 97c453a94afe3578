package summarizer

import (
	"fmt"
	"strings"

	"github.com/ideamans/go-l10n"
)

// MarkdownFormatter renders a Summary as a Markdown report.
type MarkdownFormatter struct {
	translate func(string) string
	version   string
}

// MarkdownOption configures a MarkdownFormatter.
type MarkdownOption func(*MarkdownFormatter)

// WithTranslator replaces the heading and label translator.
func WithTranslator(fn func(string) string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.translate = fn
	}
}

// WithVersion adds the tool version to the report footer.
func WithVersion(version string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.version = version
	}
}

// NewMarkdownFormatter creates a formatter that translates labels with
// go-l10n unless WithTranslator is given.
func NewMarkdownFormatter(opts ...MarkdownOption) *MarkdownFormatter {
	f := &MarkdownFormatter{translate: l10n.T}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format implements Formatter.
func (f *MarkdownFormatter) Format(s *Summary) string {
	t := f.translate
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", t("Verification Summary"))

	status := t("PASSED")
	if !s.Passed() {
		status = t("FAILED")
	}
	fmt.Fprintf(&b, "**%s**: %d / %d %s\n\n", status, s.Totals.Passed, s.Totals.Files, t("sources passed"))

	fmt.Fprintf(&b, "## %s\n\n", t("Settings"))
	fmt.Fprintf(&b, "| %s | %s |\n|---|---|\n", t("Item"), t("Value"))
	fmt.Fprintf(&b, "| %s | %d |\n", t("Frames per Sequence"), s.Settings.FramesPerSequence)
	if s.Settings.MaxSequences > 0 {
		fmt.Fprintf(&b, "| %s | %d |\n", t("Max Sequences"), s.Settings.MaxSequences)
	}
	if s.Settings.Resize != "" {
		fmt.Fprintf(&b, "| %s | %s |\n", t("Resize"), s.Settings.Resize)
	}
	if s.Settings.Root != "" {
		fmt.Fprintf(&b, "| %s | `%s` |\n", t("Fixtures Root"), s.Settings.Root)
	}
	if len(s.Settings.Patterns) > 0 {
		fmt.Fprintf(&b, "| %s | `%s` |\n", t("Patterns"), strings.Join(s.Settings.Patterns, "`, `"))
	}
	if len(s.Settings.Exclude) > 0 {
		fmt.Fprintf(&b, "| %s | %s |\n", t("Excluded"), strings.Join(s.Settings.Exclude, ", "))
	}
	if s.Settings.Decoder != "" {
		fmt.Fprintf(&b, "| %s | %s |\n", t("Decoder"), s.Settings.Decoder)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "## %s\n\n", t("Sources"))
	if len(s.Files) == 0 {
		fmt.Fprintf(&b, "%s\n\n", t("No sources were verified."))
	} else {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s |\n",
			t("Source"), t("Codec"), t("Shape"), t("Frames"),
			t("Sequences"), t("Dropped"), t("Size"), t("Result"))
		b.WriteString("|---|---|---|---:|---:|---:|---:|---|\n")
		for _, file := range s.Files {
			fmt.Fprintf(&b, "| %s | %s | %s | %d | %s | %d | %s | %s |\n",
				file.Name,
				orNA(file.Codec),
				orNA(file.Shape),
				file.Frames,
				sequences(file),
				file.Dropped,
				formatBytes(file.Bytes),
				f.result(file),
			)
		}
		b.WriteString("\n")
	}

	var failures []FileSummary
	for _, file := range s.Files {
		if !file.Passed {
			failures = append(failures, file)
		}
	}
	if len(failures) > 0 {
		fmt.Fprintf(&b, "## %s\n\n", t("Failures"))
		for _, file := range failures {
			switch {
			case file.Error != "":
				fmt.Fprintf(&b, "- **%s**: %s\n", file.Name, file.Error)
			case file.FirstMismatch != "":
				fmt.Fprintf(&b, "- **%s**: %s (%d %s)\n", file.Name, file.FirstMismatch, file.Mismatched, t("mismatched frames"))
			default:
				fmt.Fprintf(&b, "- **%s**: %s %d, %s %d\n", file.Name,
					t("expected sequences"), file.Reference, t("streamed"), file.Streamed)
			}
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "---\n\n%s `%s` · %s", t("Run"), s.RunID, s.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	if f.version != "" {
		fmt.Fprintf(&b, " · vidseq %s", f.version)
	}
	b.WriteString("\n")

	return b.String()
}

func (f *MarkdownFormatter) result(file FileSummary) string {
	if file.Passed {
		return f.translate("OK")
	}
	return "**" + f.translate("NG") + "**"
}

func sequences(file FileSummary) string {
	if file.Reference == file.Streamed {
		return fmt.Sprintf("%d", file.Streamed)
	}
	return fmt.Sprintf("%d / %d", file.Streamed, file.Reference)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// formatBytes formats bytes into a human-readable string.
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit && exp < 2; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(bytes)/float64(div), "KMG"[exp])
}

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		"Verification Summary":      "検証サマリー",
		"PASSED":                    "成功",
		"FAILED":                    "失敗",
		"sources passed":            "件のソースが一致",
		"Settings":                  "設定",
		"Item":                      "項目",
		"Value":                     "値",
		"Frames per Sequence":       "シーケンスあたりのフレーム数",
		"Max Sequences":             "最大シーケンス数",
		"Resize":                    "リサイズ",
		"Fixtures Root":             "フィクスチャのルート",
		"Patterns":                  "パターン",
		"Excluded":                  "除外",
		"Decoder":                   "デコーダー",
		"Sources":                   "ソース",
		"No sources were verified.": "検証されたソースはありません。",
		"Source":                    "ソース",
		"Codec":                     "コーデック",
		"Shape":                     "形状",
		"Frames":                    "フレーム",
		"Sequences":                 "シーケンス",
		"Dropped":                   "破棄",
		"Size":                      "サイズ",
		"Result":                    "結果",
		"Failures":                  "失敗の詳細",
		"mismatched frames":         "フレーム不一致",
		"expected sequences":        "期待シーケンス数",
		"streamed":                  "ストリーム",
		"Run":                       "実行",
	})
}
