package formatter

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/who0xac/hackfusion/pkg/plan"
)

// Formatter writes one representation of a finished run into a directory
type Formatter interface {
	// Format writes the run and returns the path of the file it created
	Format(run *plan.Run) (string, error)
}

// RunMetadata is the summary block at the top of the JSON output
type RunMetadata struct {
	RunID      string    `json:"run_id"`
	Category   string    `json:"category"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	Duration   string    `json:"duration"`
	Steps      int       `json:"steps"`
	Failed     int       `json:"failed"`
	Version    string    `json:"version"`
	Generated  time.Time `json:"generated_at"`
	ReportFile string    `json:"report_file,omitempty"`
}

// RunDir returns the per-run output directory under base
func RunDir(base string, run *plan.Run) string {
	id := run.ID
	if len(id) > 8 {
		id = id[:8]
	}
	return filepath.Join(base, fmt.Sprintf("%s_%s", run.StartedAt.Format("20060102_150405"), id))
}

// New returns the formatter for a configured format name
func New(format, outputPath, version string, generatedAt time.Time) (Formatter, error) {
	switch format {
	case "md":
		return NewMarkdownFormatter(outputPath, generatedAt), nil
	case "json":
		return NewJSONFormatter(outputPath, version, generatedAt), nil
	case "csv":
		return NewCSVFormatter(outputPath), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// WriteAll writes the run in every requested format into its own directory
// under base and returns the created files
func WriteAll(base string, run *plan.Run, formats []string, version string, generatedAt time.Time) ([]string, error) {
	dir := RunDir(base, run)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var files []string
	for _, f := range formats {
		fm, err := New(f, dir, version, generatedAt)
		if err != nil {
			return files, err
		}
		path, err := fm.Format(run)
		if err != nil {
			return files, fmt.Errorf("failed to write %s output: %w", f, err)
		}
		files = append(files, path)
	}
	return files, nil
}
