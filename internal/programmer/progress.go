package programmer

import "time"

// Progress phases.
const (
	PhaseErasing   = "erasing"
	PhaseWriting   = "writing"
	PhaseVerifying = "verifying"
	PhaseComplete  = "complete"
)

// Progress is passed to the ProgressCallback.
type Progress struct {
	Phase string

	// Page is the number of pages finished in this phase; TotalPages the
	// number the image covers.
	Page       int
	TotalPages int

	Percentage   float64
	BytesWritten int
	ElapsedTime  time.Duration
}

// ProgressCallback should return quickly; it runs between flash operations.
type ProgressCallback func(Progress)
