package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/BrutalPeanut/iowa-liquor-sales/internal/chart"
	"github.com/BrutalPeanut/iowa-liquor-sales/internal/model"
	"github.com/BrutalPeanut/iowa-liquor-sales/internal/store"
	"github.com/BrutalPeanut/iowa-liquor-sales/internal/table"
	"github.com/BrutalPeanut/iowa-liquor-sales/pkg/utils"
)

// ------------------- Pipeline Runner -------------------

// Run executes one analysis job from load to report. Control flow is
// strictly linear: loader, cleaner, aggregator (repeatedly), reporter. The
// table is materialized once, mutated only by the cleaner, then read-only.
func Run(ctx context.Context, jobID string, job model.AnalysisJobSpec) (err error) {
	start := time.Now()
	fmt.Printf("🚀 Starting analysis for job: %s\n", jobID)

	store.UpdateJobStatus(jobID, "running")

	defer func() {
		if err != nil {
			status := "failed"
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				status = "cancelled"
			}
			store.UpdateJobStatus(jobID, status)
			store.SaveJobError(jobID, err)
		}
	}()

	timeout := utils.ParseDuration(job.JobTimeout)
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// --- LOADING STAGE ---
	store.UpdateJobStatus(jobID, "loading")
	store.SaveStageLog(jobID, "loading", "info", "Starting load stage", map[string]interface{}{
		"source": job.Source.URL,
	})

	t, quarantined, err := LoadSource(job.Source)
	if err != nil {
		return fmt.Errorf("load stage failed for %s: %w", job.Source.URL, err)
	}
	store.SaveQuarantinedRows(jobID, quarantined)
	store.SaveStageLog(jobID, "loading", "info", "Load stage completed", map[string]interface{}{
		"records":     t.Len(),
		"quarantined": len(quarantined),
	})

	if err = ctx.Err(); err != nil {
		return err
	}

	// --- CLEANING STAGE ---
	store.UpdateJobStatus(jobID, "cleaning")
	cleanResult, err := Clean(t, job.Cleaning)
	if err != nil {
		return fmt.Errorf("clean stage failed: %w", err)
	}
	store.SaveQuarantinedRows(jobID, cleanResult.Quarantined)
	store.SaveStageLog(jobID, "cleaning", "info", "Clean stage completed", map[string]interface{}{
		"nulls_dropped": cleanResult.NullsDropped,
		"quarantined":   len(cleanResult.Quarantined),
		"records":       t.Len(),
	})

	if err = ctx.Err(); err != nil {
		return err
	}

	// --- AGGREGATION STAGE ---
	// The table is read-only from here on.
	store.UpdateJobStatus(jobID, "aggregating")
	sets := make([]model.NamedSeries, 0, len(job.Aggregations))
	for _, agg := range job.Aggregations {
		set, aggErr := runAggregation(t, agg)
		if aggErr != nil {
			err = fmt.Errorf("aggregation %q failed: %w", agg.Name, aggErr)
			return err
		}
		if saveErr := store.SaveResultSeries(jobID, set.Name, set.Kind, set.Series); saveErr != nil {
			err = fmt.Errorf("failed to save results for %q: %w", agg.Name, saveErr)
			return err
		}
		sets = append(sets, set)
		fmt.Printf("📊 Aggregation %q: %d result rows\n", set.Name, len(set.Series))
	}
	store.SaveStageLog(jobID, "aggregating", "info", "Aggregation stage completed", map[string]interface{}{
		"aggregations": len(sets),
	})

	if err = ctx.Err(); err != nil {
		return err
	}

	// --- REPORTING STAGE ---
	if job.Report != nil {
		store.UpdateJobStatus(jobID, "reporting")
		if err = runReport(jobID, job, sets); err != nil {
			return fmt.Errorf("report stage failed: %w", err)
		}
	}

	store.UpdateJobStatus(jobID, "completed")
	fmt.Printf("🏁 Analysis completed for job %s in %v\n", jobID, time.Since(start))
	return nil
}

// runAggregation dispatches one aggregator invocation over the cleaned,
// read-only table.
func runAggregation(t *table.Table, agg model.Aggregation) (model.NamedSeries, error) {
	var filter *Filter
	if agg.FilterColumn != "" {
		filter = &Filter{Column: agg.FilterColumn, Equals: agg.FilterValue}
	}

	set := model.NamedSeries{Name: agg.Name, Kind: agg.Kind}

	switch agg.Kind {
	case model.KindFrequencyCount:
		entries := FrequencyCount(t, agg.Column, FrequencyOptions{
			Filter:    filter,
			TopK:      agg.TopK,
			KeepNulls: agg.KeepNulls,
		})
		set.Series = FrequencySeries(entries)

	case model.KindGroupedSum:
		sums := GroupedSum(t, agg.GroupBy, agg.ValueColumn, filter)
		set.Series = SumSeries(sums)

	case model.KindPatternCount:
		entries := FrequencyCount(t, agg.Column, FrequencyOptions{Filter: filter})
		matched, err := MatchedCount(entries, agg.Pattern)
		if err != nil {
			return set, err
		}
		set.Series = []model.LabeledValue{{Label: agg.Pattern, Value: float64(matched)}}

	default:
		return set, fmt.Errorf("unknown aggregation kind: %s", agg.Kind)
	}

	return set, nil
}

// runReport writes the configured artifacts and records them for download.
func runReport(jobID string, job model.AnalysisJobSpec, sets []model.NamedSeries) error {
	om := utils.NewOutputManager("outputs")

	saveArtifact := func(fileName, path string) {
		size, _ := om.FileSize(path)
		store.SaveOutputFile(jobID, fileName, path, om.FileType(fileName), size, om.DownloadURL(jobID, fileName))
	}

	if job.Report.ListingFile != "" {
		path, err := om.FilePath(jobID, job.Report.ListingFile)
		if err != nil {
			return err
		}
		if err := WriteListingFile(path, sets); err != nil {
			return err
		}
		saveArtifact(job.Report.ListingFile, path)
		fmt.Printf("💾 Report: listing written to %s\n", path)
	}

	if job.Report.ResultsFile != "" {
		path, err := om.FilePath(jobID, job.Report.ResultsFile)
		if err != nil {
			return err
		}
		rows, err := WriteResultsCSV(path, sets)
		if err != nil {
			return err
		}
		saveArtifact(job.Report.ResultsFile, path)
		fmt.Printf("💾 Report: %d result rows exported to %s\n", rows, path)
	}

	for _, c := range job.Report.Charts {
		series := findSeries(sets, c.Aggregation)
		if series == nil {
			return fmt.Errorf("chart references unknown aggregation %q", c.Aggregation)
		}
		path, err := om.FilePath(jobID, c.File)
		if err != nil {
			return err
		}
		charter := chart.NewExcelCharter(path)
		if err := ChartSeries(series, charter, c.Title, c.XLabel, c.YLabel); err != nil {
			return err
		}
		saveArtifact(c.File, path)
		fmt.Printf("💾 Report: chart %q rendered to %s\n", c.Title, path)
	}

	return nil
}

func findSeries(sets []model.NamedSeries, name string) []model.LabeledValue {
	for _, set := range sets {
		if set.Name == name {
			return set.Series
		}
	}
	return nil
}
