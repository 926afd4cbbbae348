package store

import (
	"database/sql"
	"encoding/json"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/BrutalPeanut/iowa-liquor-sales/internal/model"
)

var db *sql.DB

// InitDB opens the SQLite database and creates the schema if needed.
func InitDB(dbPath string) error {
	var err error
	db, err = sql.Open("sqlite3", dbPath)
	if err != nil {
		return err
	}

	schema := []string{
		`CREATE TABLE IF NOT EXISTS jobs (
			id TEXT PRIMARY KEY,
			spec TEXT,
			status TEXT,
			created_at DATETIME,
			updated_at DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS job_errors (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			job_id TEXT,
			error_message TEXT,
			created_at DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS job_logs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			job_id TEXT,
			stage TEXT,
			level TEXT,
			message TEXT,
			context TEXT,
			created_at DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS analysis_results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			job_id TEXT,
			aggregation TEXT,
			kind TEXT,
			position INTEGER,
			label TEXT,
			value REAL,
			created_at DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS quarantined_rows (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			job_id TEXT,
			line INTEGER,
			stage TEXT,
			reason TEXT,
			raw TEXT,
			created_at DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS output_files (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			job_id TEXT,
			file_name TEXT,
			file_path TEXT,
			file_type TEXT,
			file_size INTEGER,
			download_url TEXT,
			created_at DATETIME
		);`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}

// SaveJob stores a new analysis job
func SaveJob(jobID string, spec model.AnalysisJobSpec) error {
	specJSON, err := json.Marshal(spec)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	_, err = db.Exec(`INSERT INTO jobs (id, spec, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		jobID, specJSON, "pending", now, now)
	return err
}

// SaveJobError records an error for a job
func SaveJobError(jobID string, err error) error {
	if err == nil {
		return nil
	}
	now := time.Now().UTC()
	_, e := db.Exec(`INSERT INTO job_errors (job_id, error_message, created_at) VALUES (?, ?, ?)`,
		jobID, err.Error(), now)
	return e
}

// GetJobErrors returns recorded errors for a job, newest first
func GetJobErrors(jobID string) ([]map[string]interface{}, error) {
	rows, err := db.Query(`SELECT error_message, created_at FROM job_errors WHERE job_id = ? ORDER BY created_at DESC`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var errors []map[string]interface{}
	for rows.Next() {
		var message string
		var createdAt time.Time
		if err := rows.Scan(&message, &createdAt); err != nil {
			return nil, err
		}
		errors = append(errors, map[string]interface{}{
			"message":   message,
			"createdAt": createdAt,
		})
	}
	return errors, rows.Err()
}

// ListJobs returns all jobs with basic info
func ListJobs() ([]map[string]interface{}, error) {
	rows, err := db.Query(`SELECT id, status, created_at, updated_at FROM jobs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []map[string]interface{}
	for rows.Next() {
		var id, status string
		var createdAt, updatedAt time.Time
		if err := rows.Scan(&id, &status, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		jobs = append(jobs, map[string]interface{}{
			"id":        id,
			"status":    status,
			"createdAt": createdAt,
			"updatedAt": updatedAt,
		})
	}
	return jobs, rows.Err()
}

// GetJob fetches full job spec and status
func GetJob(jobID string) (map[string]interface{}, error) {
	var specJSON string
	var status string
	var createdAt, updatedAt time.Time

	err := db.QueryRow(`SELECT spec, status, created_at, updated_at FROM jobs WHERE id = ?`, jobID).
		Scan(&specJSON, &status, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	var spec model.AnalysisJobSpec
	if err := json.Unmarshal([]byte(specJSON), &spec); err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"id":        jobID,
		"spec":      spec,
		"status":    status,
		"createdAt": createdAt,
		"updatedAt": updatedAt,
	}, nil
}

// GetJobSpec fetches just the stored spec, typed, for reruns.
func GetJobSpec(jobID string) (model.AnalysisJobSpec, error) {
	var spec model.AnalysisJobSpec
	var specJSON string

	err := db.QueryRow(`SELECT spec FROM jobs WHERE id = ?`, jobID).Scan(&specJSON)
	if err != nil {
		return spec, err
	}
	err = json.Unmarshal([]byte(specJSON), &spec)
	return spec, err
}

// UpdateJobStatus updates job status
func UpdateJobStatus(jobID string, status string) error {
	now := time.Now().UTC()
	_, err := db.Exec(`UPDATE jobs SET status = ?, updated_at = ? WHERE id = ?`, status, now, jobID)
	return err
}

// SaveStageLog persists a structured per-stage log entry
func SaveStageLog(jobID, stage, level, message string, context map[string]interface{}) error {
	ctxJSON, err := json.Marshal(context)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	_, err = db.Exec(`INSERT INTO job_logs (job_id, stage, level, message, context, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		jobID, stage, level, message, ctxJSON, now)
	return err
}

// GetStageLogs returns the most recent stage logs for a job
func GetStageLogs(jobID string, limit int) ([]map[string]interface{}, error) {
	rows, err := db.Query(`SELECT stage, level, message, context, created_at FROM job_logs
		WHERE job_id = ? ORDER BY created_at DESC, id DESC LIMIT ?`, jobID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []map[string]interface{}
	for rows.Next() {
		var stage, level, message, ctxJSON string
		var createdAt time.Time
		if err := rows.Scan(&stage, &level, &message, &ctxJSON, &createdAt); err != nil {
			return nil, err
		}
		var context map[string]interface{}
		json.Unmarshal([]byte(ctxJSON), &context)
		logs = append(logs, map[string]interface{}{
			"stage":     stage,
			"level":     level,
			"message":   message,
			"context":   context,
			"createdAt": createdAt,
		})
	}
	return logs, rows.Err()
}

// SaveResultSeries persists one aggregation's ordered series
func SaveResultSeries(jobID, aggregation, kind string, series []model.LabeledValue) error {
	now := time.Now().UTC()
	for i, lv := range series {
		_, err := db.Exec(`INSERT INTO analysis_results (job_id, aggregation, kind, position, label, value, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			jobID, aggregation, kind, i, lv.Label, lv.Value, now)
		if err != nil {
			return err
		}
	}
	return nil
}

// GetResults returns all persisted results for a job, grouped by aggregation
// and in stored order.
func GetResults(jobID string) ([]map[string]interface{}, error) {
	rows, err := db.Query(`SELECT aggregation, kind, position, label, value FROM analysis_results
		WHERE job_id = ? ORDER BY aggregation, position`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []map[string]interface{}
	for rows.Next() {
		var aggregation, kind, label string
		var position int
		var value float64
		if err := rows.Scan(&aggregation, &kind, &position, &label, &value); err != nil {
			return nil, err
		}
		results = append(results, map[string]interface{}{
			"aggregation": aggregation,
			"kind":        kind,
			"position":    position,
			"label":       label,
			"value":       value,
		})
	}
	return results, rows.Err()
}

// SaveQuarantinedRows persists rows removed by the loader or cleaner
func SaveQuarantinedRows(jobID string, quarantined []model.QuarantinedRow) error {
	now := time.Now().UTC()
	for _, q := range quarantined {
		_, err := db.Exec(`INSERT INTO quarantined_rows (job_id, line, stage, reason, raw, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			jobID, q.Line, q.Stage, q.Reason, q.Raw, now)
		if err != nil {
			return err
		}
	}
	return nil
}

// GetQuarantinedRows returns quarantined rows for a job in line order
func GetQuarantinedRows(jobID string) ([]map[string]interface{}, error) {
	rows, err := db.Query(`SELECT line, stage, reason, raw FROM quarantined_rows
		WHERE job_id = ? ORDER BY line`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quarantined []map[string]interface{}
	for rows.Next() {
		var line int
		var stage, reason, raw string
		if err := rows.Scan(&line, &stage, &reason, &raw); err != nil {
			return nil, err
		}
		quarantined = append(quarantined, map[string]interface{}{
			"line":   line,
			"stage":  stage,
			"reason": reason,
			"raw":    raw,
		})
	}
	return quarantined, rows.Err()
}

// SaveOutputFile records a report artifact for a job
func SaveOutputFile(jobID, fileName, filePath, fileType string, fileSize int64, downloadURL string) error {
	now := time.Now().UTC()
	_, err := db.Exec(`INSERT INTO output_files (job_id, file_name, file_path, file_type, file_size, download_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		jobID, fileName, filePath, fileType, fileSize, downloadURL, now)
	return err
}

// GetOutputFiles returns all report artifacts for a job
func GetOutputFiles(jobID string) ([]map[string]interface{}, error) {
	rows, err := db.Query(`SELECT file_name, file_path, file_type, file_size, download_url FROM output_files
		WHERE job_id = ? ORDER BY created_at`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []map[string]interface{}
	for rows.Next() {
		var fileName, filePath, fileType, downloadURL string
		var fileSize int64
		if err := rows.Scan(&fileName, &filePath, &fileType, &fileSize, &downloadURL); err != nil {
			return nil, err
		}
		files = append(files, map[string]interface{}{
			"file_name":    fileName,
			"file_path":    filePath,
			"file_type":    fileType,
			"file_size":    fileSize,
			"download_url": downloadURL,
		})
	}
	return files, rows.Err()
}

// DeleteJob removes a job and everything recorded for it
func DeleteJob(jobID string) error {
	stmts := []string{
		`DELETE FROM analysis_results WHERE job_id = ?`,
		`DELETE FROM quarantined_rows WHERE job_id = ?`,
		`DELETE FROM output_files WHERE job_id = ?`,
		`DELETE FROM job_logs WHERE job_id = ?`,
		`DELETE FROM job_errors WHERE job_id = ?`,
		`DELETE FROM jobs WHERE id = ?`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt, jobID); err != nil {
			return err
		}
	}
	return nil
}
