package tasks

import (
	"github.com/mdnxzzzz/vaultmusic/internal/models"
)

// Exporter supplies the user state the export jobs operate on.
// [services.SyncService] satisfies it.
type Exporter interface {
	ListUserIDs() ([]string, error)
	Export(userID string) (*models.UserExport, error)
}

// UserExportResult is the outcome of exporting one user.
type UserExportResult struct {
	UserID   string `json:"user_id"`
	FilePath string `json:"file_path,omitempty"`
	Success  bool   `json:"success"`
	Error    error  `json:"-"`
}

// BulkExportResult summarizes a full bulk export run.
type BulkExportResult struct {
	TotalUsers        int                `json:"total_users"`
	SuccessfulExports int                `json:"successful_exports"`
	FailedExports     int                `json:"failed_exports"`
	OutputDirectory   string             `json:"output_directory"`
	Format            string             `json:"format"`
	ManifestPath      string             `json:"-"`
	Results           []UserExportResult `json:"results"`
}

// ExportEngine runs export jobs over an Exporter.
type ExportEngine struct {
	exporter Exporter
}

// NewExportEngine creates a new ExportEngine.
func NewExportEngine(exporter Exporter) *ExportEngine {
	return &ExportEngine{exporter: exporter}
}

// sendProgress delivers an update without blocking when nobody is listening.
func (e *ExportEngine) sendProgress(prog chan<- ProgressUpdate, update ProgressUpdate) {
	if prog == nil {
		return
	}
	select {
	case prog <- update:
	default:
	}
}
