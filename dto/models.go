package dto

import "time"

type ItemStatus string

const (
	StatusPending    ItemStatus = "pending"
	StatusProcessing ItemStatus = "processing"
	StatusCompleted  ItemStatus = "completed"
	StatusError      ItemStatus = "error"
)

// Valid reports whether s is one of the four known statuses.
func (s ItemStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusError:
		return true
	}
	return false
}

// CanTransition reports whether an item may move from s to next.
// Items never go back to pending; an errored item may be picked up again.
func (s ItemStatus) CanTransition(next ItemStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusProcessing
	case StatusProcessing:
		return next == StatusCompleted || next == StatusError
	case StatusError:
		return next == StatusProcessing
	case StatusCompleted:
		return false
	}
	return false
}

// Eligible reports whether an item in this status is picked up by a batch pass.
func (s ItemStatus) Eligible() bool {
	switch s {
	case StatusPending, StatusError:
		return true
	case StatusProcessing, StatusCompleted:
		return false
	}
	return false
}

// QueueItem is one uploaded image awaiting or undergoing processing.
type QueueItem struct {
	ID         string     `json:"id"`
	FileName   string     `json:"file_name"`
	MimeType   string     `json:"mime_type"`
	Size       int        `json:"size"`
	Status     ItemStatus `json:"status"`
	Progress   int        `json:"progress"`
	RawText    string     `json:"raw_text,omitempty"`
	Error      string     `json:"error,omitempty"`
	Numbers    []string   `json:"numbers,omitempty"`
	NewNumbers int        `json:"new_numbers"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// ExtractedNumber is one unique phone number surfaced from a batch.
type ExtractedNumber struct {
	ID        string    `json:"id"`
	Canonical string    `json:"canonical"`
	Original  string    `json:"original"`
	Source    string    `json:"source"`
	FoundAt   time.Time `json:"found_at"`
}

type ExportMode string

const (
	ExportModeStandard ExportMode = "standard"
	ExportModeGoogle   ExportMode = "google"
)

// ExportRecord keeps the exact bytes of one export so it can be downloaded again.
type ExportRecord struct {
	ID        string     `json:"id"`
	FileName  string     `json:"file_name"`
	CreatedAt time.Time  `json:"created_at"`
	Count     int        `json:"count"`
	Mode      ExportMode `json:"mode"`
	Content   string     `json:"content"`
}

// BatchSummary describes the outcome of one orchestrator pass.
type BatchSummary struct {
	Processed  int               `json:"processed"`
	Completed  int               `json:"completed"`
	Failed     int               `json:"failed"`
	Skipped    int               `json:"skipped"`
	NewNumbers []ExtractedNumber `json:"new_numbers"`
	Duplicates int               `json:"duplicates"`
	TotalKnown int               `json:"total_known"`
}
