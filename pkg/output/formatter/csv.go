package formatter

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"

	"github.com/who0xac/hackfusion/pkg/plan"
	"github.com/who0xac/hackfusion/pkg/report"
)

// CSVFormatter handles CSV output
type CSVFormatter struct {
	OutputPath string
}

// NewCSVFormatter creates a new CSV formatter
func NewCSVFormatter(outputPath string) *CSVFormatter {
	return &CSVFormatter{
		OutputPath: outputPath,
	}
}

// Format writes the execution log and the findings to CSV files and returns
// the log file's path
func (c *CSVFormatter) Format(run *plan.Run) (string, error) {
	logFile, err := c.writeLogCSV(run)
	if err != nil {
		return "", err
	}

	if err := c.writeFindingsCSV(run); err != nil {
		return "", err
	}

	return logFile, nil
}

// writeLogCSV writes one row per execution log entry
func (c *CSVFormatter) writeLogCSV(run *plan.Run) (string, error) {
	outputFile := filepath.Join(c.OutputPath, "execution_log.csv")

	file, err := os.Create(outputFile)
	if err != nil {
		return "", err
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	// Write header
	rows := [][]string{{"Time", "Step", "Action", "Tool", "Status", "Target", "Error"}}
	for _, l := range run.Logs {
		rows = append(rows, []string{
			l.Timestamp.Format(report.DateLayout),
			strconv.Itoa(l.Step),
			l.Action,
			l.Tool,
			string(l.Status),
			l.Target,
			l.Error,
		})
	}

	if err := writer.WriteAll(rows); err != nil {
		return "", err
	}
	return outputFile, nil
}

// writeFindingsCSV writes every vulnerability with the step that found it
func (c *CSVFormatter) writeFindingsCSV(run *plan.Run) error {
	outputFile := filepath.Join(c.OutputPath, "findings.csv")

	file, err := os.Create(outputFile)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	rows := [][]string{{"Step", "Tool", "Finding"}}
	for i, r := range run.Results {
		for _, v := range r.Result.Vulnerabilities() {
			rows = append(rows, []string{strconv.Itoa(i + 1), r.Step.Tool, v})
		}
	}

	return writer.WriteAll(rows)
}
