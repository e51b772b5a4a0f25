package formatter

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/who0xac/hackfusion/pkg/plan"
)

// JSONFormatter handles JSON output
type JSONFormatter struct {
	OutputPath  string
	Version     string
	GeneratedAt time.Time
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(outputPath, version string, generatedAt time.Time) *JSONFormatter {
	return &JSONFormatter{
		OutputPath:  outputPath,
		Version:     version,
		GeneratedAt: generatedAt,
	}
}

type jsonRun struct {
	Metadata RunMetadata `json:"metadata"`
	*plan.Run
}

// Format writes the run record to run.json
func (j *JSONFormatter) Format(run *plan.Run) (string, error) {
	outputFile := filepath.Join(j.OutputPath, "run.json")

	file, err := os.Create(outputFile)
	if err != nil {
		return "", err
	}
	defer file.Close()

	category := ""
	if run.Plan != nil {
		category = run.Plan.Category
	}

	// Marshal with indentation for readability
	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")

	err = encoder.Encode(jsonRun{
		Metadata: RunMetadata{
			RunID:     run.ID,
			Category:  category,
			StartTime: run.StartedAt,
			EndTime:   run.FinishedAt,
			Duration:  run.Duration().String(),
			Steps:     len(run.Logs),
			Failed:    len(run.Failed()),
			Version:   j.Version,
			Generated: j.GeneratedAt,
		},
		Run: run,
	})
	if err != nil {
		return "", err
	}

	return outputFile, nil
}
