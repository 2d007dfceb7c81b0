package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
}

// Operation phase enumeration
type Phase int

const (
	ListUsers Phase = iota
	ExportUser
	ExportDone
	ExportFailed
	WriteManifest
)

func (p Phase) String() string {
	switch p {
	case ListUsers:
		return "list_users"
	case ExportUser:
		return "export_user"
	case ExportDone:
		return "export_done"
	case ExportFailed:
		return "export_failed"
	case WriteManifest:
		return "write_manifest"
	default:
		return ""
	}
}

func listingUsersUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ListUsers,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Exporting %d users...", total),
	}
}

func exportCompletedUpdate(step, total int, userID, path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportDone,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Exported %s to %s", userID, path),
	}
}

func exportFailedUpdate(step, total int, userID string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportFailed,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Failed to export %s: %v", userID, err),
	}
}

func manifestUpdate(path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteManifest,
		Message: fmt.Sprintf("Manifest written to %s", path),
	}
}
