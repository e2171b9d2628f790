package history

import "time"

// Run is one recorded invocation of the reduce operation.
type Run struct {
	ID           string
	StartedAt    time.Time
	Duration     time.Duration
	Input        string
	Output       string
	BytesIn      int64
	BytesOut     int64
	Images       int
	Recompressed int
	Skipped      int
	Scale        float64
	Quality      float64
	ExemptWidth  int
	ExemptHeight int
	Error        string // empty when the run succeeded
}

// Store defines the interface for run ledger persistence
type Store interface {
	// Record stores a run, assigning an ID when it has none. It returns the ID.
	Record(run Run) (string, error)

	// Get retrieves a run by ID, or nil if it does not exist
	Get(id string) (*Run, error)

	// Recent lists the most recent runs, newest first
	Recent(limit int) ([]Run, error)

	// Close releases resources
	Close() error
}
