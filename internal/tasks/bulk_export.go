package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mdnxzzzz/vaultmusic/internal/formatter"
	"github.com/mdnxzzzz/vaultmusic/internal/shared"
	"golang.org/x/time/rate"
)

// BulkExportOpts contains configuration for bulk user exports.
type BulkExportOpts struct {
	Format     string  // Export format: json, csv, markdown, txt
	OutputDir  string  // Base output directory (default: vault_export_{epoch})
	NumWorkers int     // Concurrent workers (default: 4)
	RateLimit  float64 // Exports per second; zero means unthrottled
}

// BulkExport dumps the state of the given users concurrently, one file per
// user, and writes a manifest summarizing the run.
//
// An empty userIDs slice exports every known user. Partial failures are
// recorded in the result rather than aborting the run.
func (e *ExportEngine) BulkExport(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	userIDs []string,
	opts BulkExportOpts,
) (*BulkExportResult, error) {
	if len(userIDs) == 0 {
		ids, err := e.exporter.ListUserIDs()
		if err != nil {
			return nil, fmt.Errorf("failed to list users: %w", err)
		}
		userIDs = ids
	}

	if opts.Format == "" {
		opts.Format = "json"
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("vault_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 4
	}
	if opts.NumWorkers > 8 {
		opts.NumWorkers = 8
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &BulkExportResult{
		TotalUsers:      len(userIDs),
		OutputDirectory: opts.OutputDir,
		Format:          opts.Format,
		Results:         make([]UserExportResult, 0, len(userIDs)),
	}

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}

	jobs := make(chan string, len(userIDs))
	results := make(chan UserExportResult, len(userIDs))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, jobs, results, limiter, opts)
	}

	e.sendProgress(prog, listingUsersUpdate(len(userIDs)))
	for _, userID := range userIDs {
		jobs <- userID
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success {
			result.SuccessfulExports++
			e.sendProgress(prog, exportCompletedUpdate(completed, len(userIDs), res.UserID, res.FilePath))
		} else {
			result.FailedExports++
			e.sendProgress(prog, exportFailedUpdate(completed, len(userIDs), res.UserID, res.Error))
		}
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	if err := e.writeManifest(result, manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath

	e.sendProgress(prog, manifestUpdate(manifestPath))
	return result, nil
}

// exportWorker is a worker goroutine that exports users from the jobs channel.
func (e *ExportEngine) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan string,
	results chan<- UserExportResult,
	limiter *rate.Limiter,
	opts BulkExportOpts,
) {
	defer wg.Done()

	for userID := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return
			}
		}

		results <- e.exportSingleUser(userID, opts)
	}
}

// exportSingleUser dumps one user's state in the requested format.
func (e *ExportEngine) exportSingleUser(userID string, opts BulkExportOpts) UserExportResult {
	result := UserExportResult{UserID: userID}

	export, err := e.exporter.Export(userID)
	if err != nil {
		result.Error = fmt.Errorf("failed to assemble export: %w", err)
		return result
	}

	path, err := formatter.WriteExport(export, opts.OutputDir, opts.Format)
	if err != nil {
		result.Error = err
		return result
	}

	result.FilePath = path
	result.Success = true
	return result
}

// writeManifest records the run summary next to the exported files. Failed
// users carry their error text in the manifest.
func (e *ExportEngine) writeManifest(result *BulkExportResult, path string) error {
	type manifestEntry struct {
		UserID   string `json:"user_id"`
		FilePath string `json:"file_path,omitempty"`
		Success  bool   `json:"success"`
		Error    string `json:"error,omitempty"`
	}

	entries := make([]manifestEntry, 0, len(result.Results))
	for _, res := range result.Results {
		entry := manifestEntry{
			UserID:   res.UserID,
			FilePath: res.FilePath,
			Success:  res.Success,
		}
		if res.Error != nil {
			entry.Error = res.Error.Error()
		}
		entries = append(entries, entry)
	}

	manifest := map[string]any{
		"total_users":        result.TotalUsers,
		"successful_exports": result.SuccessfulExports,
		"failed_exports":     result.FailedExports,
		"output_directory":   result.OutputDirectory,
		"format":             result.Format,
		"results":            entries,
	}

	data, err := shared.MarshalJSON(manifest, true)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	return nil
}
