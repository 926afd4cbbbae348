package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// OutputManager organizes report artifacts (listings, result CSVs, chart
// workbooks) under a per-job directory.
type OutputManager struct {
	BaseOutputDir string
}

// NewOutputManager creates a new output manager
func NewOutputManager(baseOutputDir string) *OutputManager {
	return &OutputManager{
		BaseOutputDir: baseOutputDir,
	}
}

// JobDir creates (if needed) and returns the output directory for a job.
func (om *OutputManager) JobDir(jobID string) (string, error) {
	jobDir := filepath.Join(om.BaseOutputDir, jobID)

	if err := os.MkdirAll(jobDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create job output directory: %w", err)
	}

	return jobDir, nil
}

// FilePath generates a full path for an output file, stripping any path
// separators from the file name.
func (om *OutputManager) FilePath(jobID, fileName string) (string, error) {
	jobDir, err := om.JobDir(jobID)
	if err != nil {
		return "", err
	}

	return filepath.Join(jobDir, filepath.Base(fileName)), nil
}

// DownloadURL generates a download URL for a report artifact
func (om *OutputManager) DownloadURL(jobID, fileName string) string {
	return fmt.Sprintf("/api/v1/download/%s/%s", jobID, filepath.Base(fileName))
}

// FileType determines the artifact type based on extension
func (om *OutputManager) FileType(fileName string) string {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv":
		return "csv"
	case ".txt":
		return "listing"
	case ".xlsx", ".xls":
		return "chart"
	default:
		return "unknown"
	}
}

// FileSize returns the size of a file in bytes
func (om *OutputManager) FileSize(filePath string) (int64, error) {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return 0, err
	}
	return fileInfo.Size(), nil
}
