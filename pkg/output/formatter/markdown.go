package formatter

import (
	"os"
	"path/filepath"
	"time"

	"github.com/who0xac/hackfusion/pkg/plan"
	"github.com/who0xac/hackfusion/pkg/report"
)

// MarkdownFormatter writes the assessment report
type MarkdownFormatter struct {
	OutputPath  string
	GeneratedAt time.Time
}

// NewMarkdownFormatter creates a new markdown formatter
func NewMarkdownFormatter(outputPath string, generatedAt time.Time) *MarkdownFormatter {
	return &MarkdownFormatter{
		OutputPath:  outputPath,
		GeneratedAt: generatedAt,
	}
}

// Format writes report.md
func (m *MarkdownFormatter) Format(run *plan.Run) (string, error) {
	outputFile := filepath.Join(m.OutputPath, "report.md")
	if err := os.WriteFile(outputFile, []byte(report.Generate(run, m.GeneratedAt)), 0644); err != nil {
		return "", err
	}
	return outputFile, nil
}
