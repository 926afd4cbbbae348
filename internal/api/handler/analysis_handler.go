package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/BrutalPeanut/iowa-liquor-sales/internal/model"
	"github.com/BrutalPeanut/iowa-liquor-sales/internal/pipeline"
	"github.com/BrutalPeanut/iowa-liquor-sales/internal/store"
	"github.com/BrutalPeanut/iowa-liquor-sales/pkg/utils"
)

const analysesPrefix = "/api/v1/analyses/"

// jobIDFromPath extracts the job ID between the analyses prefix and an
// optional suffix like "/results".
func jobIDFromPath(path, suffix string) (string, bool) {
	if !strings.HasPrefix(path, analysesPrefix) || !strings.HasSuffix(path, suffix) {
		return "", false
	}
	jobID := path[len(analysesPrefix) : len(path)-len(suffix)]
	return jobID, jobID != ""
}

// CreateAnalysis creates and starts a new analysis job
// @Summary Create a new analysis
// @Description Create and start an analysis job with the provided configuration
// @Tags analyses
// @Accept json
// @Produce json
// @Param analysis body model.AnalysisJobSpec true "Analysis configuration"
// @Success 200 {object} map[string]interface{} "Analysis created successfully"
// @Failure 400 {object} map[string]interface{} "Invalid request payload"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /analyses [post]
func CreateAnalysis(w http.ResponseWriter, r *http.Request) {
	var job model.AnalysisJobSpec
	if err := json.NewDecoder(r.Body).Decode(&job); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	// 1. Validate payload
	if job.Source.URL == "" {
		http.Error(w, "A source URL is required", http.StatusBadRequest)
		return
	}
	for _, agg := range job.Aggregations {
		if agg.Name == "" || agg.Kind == "" {
			http.Error(w, "Every aggregation needs a name and a kind", http.StatusBadRequest)
			return
		}
	}

	// 2. Generate job ID
	jobID := uuid.New().String()

	// 3. Save job to DB
	if err := store.SaveJob(jobID, job); err != nil {
		http.Error(w, "Failed to save job", http.StatusInternalServerError)
		return
	}

	// 4. Start the analysis asynchronously; the run itself is single-pass
	ctx, cancel := context.WithTimeout(context.Background(), utils.ParseDuration(job.JobTimeout))

	go func() {
		defer cancel()
		if err := pipeline.Run(ctx, jobID, job); err != nil {
			store.SaveJobError(jobID, err)
		}
	}()

	// 5. Return response
	resp := map[string]interface{}{
		"message":   "Analysis created successfully!",
		"jobID":     jobID,
		"status":    "pending",
		"createdAt": time.Now().UTC(),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// ListAnalyses retrieves all analysis jobs
// @Summary List all analyses
// @Description Get a list of all analysis jobs with their current status
// @Tags analyses
// @Accept json
// @Produce json
// @Success 200 {array} map[string]interface{} "List of analyses"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /analyses [get]
func ListAnalyses(w http.ResponseWriter, r *http.Request) {
	jobs, err := store.ListJobs()
	if err != nil {
		http.Error(w, "Failed to fetch analyses", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(jobs)
}

// GetAnalysis retrieves a specific analysis job
// @Summary Get analysis
// @Description Retrieve details of a specific analysis job
// @Tags analyses
// @Accept json
// @Produce json
// @Param id path string true "Analysis ID"
// @Success 200 {object} map[string]interface{} "Analysis details"
// @Failure 400 {object} map[string]interface{} "Invalid analysis ID"
// @Failure 404 {object} map[string]interface{} "Analysis not found"
// @Router /analyses/{id} [get]
func GetAnalysis(w http.ResponseWriter, r *http.Request) {
	jobID, ok := jobIDFromPath(r.URL.Path, "")
	if !ok {
		http.Error(w, "Job ID is required", http.StatusBadRequest)
		return
	}

	job, err := store.GetJob(jobID)
	if err != nil {
		http.Error(w, "Job not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job)
}

// GetAnalysisErrors retrieves errors for an analysis
// @Summary Get analysis errors
// @Description Retrieve all errors that occurred during an analysis run
// @Tags analyses
// @Accept json
// @Produce json
// @Param id path string true "Analysis ID"
// @Success 200 {object} map[string]interface{} "Analysis errors"
// @Failure 400 {object} map[string]interface{} "Invalid analysis ID"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /analyses/{id}/errors [get]
func GetAnalysisErrors(w http.ResponseWriter, r *http.Request) {
	jobID, ok := jobIDFromPath(r.URL.Path, "/errors")
	if !ok {
		http.Error(w, "Job ID is required", http.StatusBadRequest)
		return
	}

	errors, err := store.GetJobErrors(jobID)
	if err != nil {
		http.Error(w, "Failed to retrieve errors", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"job_id": jobID,
		"errors": errors,
		"count":  len(errors),
	})
}

// GetAnalysisResults retrieves persisted aggregation results
// @Summary Get analysis results
// @Description Retrieve aggregation results for a specific analysis job
// @Tags analyses
// @Accept json
// @Produce json
// @Param id path string true "Analysis ID"
// @Success 200 {object} map[string]interface{} "Analysis results"
// @Failure 400 {object} map[string]interface{} "Invalid analysis ID"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /analyses/{id}/results [get]
func GetAnalysisResults(w http.ResponseWriter, r *http.Request) {
	jobID, ok := jobIDFromPath(r.URL.Path, "/results")
	if !ok {
		http.Error(w, "Job ID is required", http.StatusBadRequest)
		return
	}

	results, err := store.GetResults(jobID)
	if err != nil {
		http.Error(w, "Failed to retrieve results", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"job_id":  jobID,
		"results": results,
		"count":   len(results),
	})
}

// GetAnalysisQuarantine retrieves rows removed for format problems
// @Summary Get quarantined rows
// @Description Retrieve rows removed from the table during load or clean
// @Tags analyses
// @Accept json
// @Produce json
// @Param id path string true "Analysis ID"
// @Success 200 {object} map[string]interface{} "Quarantined rows"
// @Failure 400 {object} map[string]interface{} "Invalid analysis ID"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /analyses/{id}/quarantine [get]
func GetAnalysisQuarantine(w http.ResponseWriter, r *http.Request) {
	jobID, ok := jobIDFromPath(r.URL.Path, "/quarantine")
	if !ok {
		http.Error(w, "Job ID is required", http.StatusBadRequest)
		return
	}

	rows, err := store.GetQuarantinedRows(jobID)
	if err != nil {
		http.Error(w, "Failed to retrieve quarantined rows", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"job_id":     jobID,
		"quarantine": rows,
		"count":      len(rows),
	})
}

// GET /api/v1/analyses/{id}/logs
func GetAnalysisLogs(w http.ResponseWriter, r *http.Request) {
	jobID, ok := jobIDFromPath(r.URL.Path, "/logs")
	if !ok {
		http.Error(w, "Job ID is required", http.StatusBadRequest)
		return
	}

	limit := 100 // default
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsedLimit, err := strconv.Atoi(limitStr); err == nil && parsedLimit > 0 {
			limit = parsedLimit
		}
	}

	logs, err := store.GetStageLogs(jobID, limit)
	if err != nil {
		http.Error(w, "Failed to retrieve logs", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"job_id": jobID,
		"logs":   logs,
		"count":  len(logs),
		"limit":  limit,
	})
}

// GET /api/v1/analyses/{id}/files
func GetAnalysisFiles(w http.ResponseWriter, r *http.Request) {
	jobID, ok := jobIDFromPath(r.URL.Path, "/files")
	if !ok {
		http.Error(w, "Job ID is required", http.StatusBadRequest)
		return
	}

	files, err := store.GetOutputFiles(jobID)
	if err != nil {
		http.Error(w, "Failed to retrieve files", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"job_id": jobID,
		"files":  files,
		"count":  len(files),
	})
}

// RerunAnalysis re-executes an analysis with its stored configuration
// @Summary Rerun analysis
// @Description Re-execute an analysis job with the same configuration
// @Tags analyses
// @Accept json
// @Produce json
// @Param id path string true "Analysis ID"
// @Success 200 {object} map[string]interface{} "Rerun initiated"
// @Failure 400 {object} map[string]interface{} "Invalid analysis ID"
// @Failure 404 {object} map[string]interface{} "Analysis not found"
// @Router /analyses/{id}/rerun [post]
func RerunAnalysis(w http.ResponseWriter, r *http.Request) {
	jobID, ok := jobIDFromPath(r.URL.Path, "/rerun")
	if !ok {
		http.Error(w, "Job ID is required", http.StatusBadRequest)
		return
	}

	spec, err := store.GetJobSpec(jobID)
	if err != nil {
		http.Error(w, "Job not found", http.StatusNotFound)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), utils.ParseDuration(spec.JobTimeout))
	go func() {
		defer cancel()
		if err := pipeline.Run(ctx, jobID, spec); err != nil {
			fmt.Printf("❌ Rerun failed for job %s: %v\n", jobID, err)
		} else {
			fmt.Printf("✅ Rerun successful for job %s\n", jobID)
		}
	}()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Rerun initiated",
		"job_id":  jobID,
		"status":  "rerunning",
	})
}

// DeleteAnalysis deletes an analysis job and its artifacts
// @Summary Delete analysis
// @Description Delete an analysis job and all its associated files and data
// @Tags analyses
// @Accept json
// @Produce json
// @Param id path string true "Analysis ID"
// @Success 200 {object} map[string]interface{} "Analysis deleted"
// @Failure 400 {object} map[string]interface{} "Invalid analysis ID"
// @Failure 404 {object} map[string]interface{} "Analysis not found"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /analyses/{id} [delete]
func DeleteAnalysis(w http.ResponseWriter, r *http.Request) {
	jobID, ok := jobIDFromPath(r.URL.Path, "")
	if !ok {
		http.Error(w, "Job ID is required", http.StatusBadRequest)
		return
	}

	if _, err := store.GetJob(jobID); err != nil {
		http.Error(w, "Job not found", http.StatusNotFound)
		return
	}

	files, err := store.GetOutputFiles(jobID)
	if err != nil {
		store.SaveStageLog(jobID, "delete", "warning", "Failed to get files for deletion", map[string]interface{}{
			"error": err.Error(),
		})
	}

	for _, file := range files {
		if filePath, ok := file["file_path"].(string); ok {
			if err := os.Remove(filePath); err != nil {
				store.SaveStageLog(jobID, "delete", "warning", "Failed to delete file", map[string]interface{}{
					"file_path": filePath,
					"error":     err.Error(),
				})
			}
		}
	}

	jobDir := fmt.Sprintf("outputs/%s", jobID)
	os.RemoveAll(jobDir)

	if err := store.DeleteJob(jobID); err != nil {
		http.Error(w, "Failed to delete job from database", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message":       "Analysis and all artifacts deleted successfully",
		"job_id":        jobID,
		"files_deleted": len(files),
	})
}

// DownloadFile serves a report artifact for download
// @Summary Download file
// @Description Download a report artifact from an analysis job
// @Tags files
// @Accept json
// @Produce application/octet-stream
// @Param jobID path string true "Job ID"
// @Param filename path string true "File name"
// @Success 200 {file} file "File download"
// @Failure 400 {object} map[string]interface{} "Invalid URL format"
// @Failure 404 {object} map[string]interface{} "File not found"
// @Router /download/{jobID}/{filename} [get]
func DownloadFile(w http.ResponseWriter, r *http.Request) {
	// URL format: /api/v1/download/jobID/filename
	pathParts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(pathParts) < 5 {
		http.Error(w, "Invalid URL format", http.StatusBadRequest)
		return
	}
	jobID := pathParts[3]
	fileName := pathParts[4]

	filePath := fmt.Sprintf("outputs/%s/%s", jobID, fileName)

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	w.Header().Set("Content-Type", "application/octet-stream")
	http.ServeFile(w, r, filePath)
}
