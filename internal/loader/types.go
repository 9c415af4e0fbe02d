package loader

import (
	"time"

	"github.com/cybertec-postgresql/sqlsplit/internal/discovery"
)

// FragmentRun represents the application of one fragment
type FragmentRun struct {
	Fragment  *discovery.DiscoveredFile
	StartTime time.Time
	EndTime   time.Time
	Status    FragmentStatus
	Error     error // Non-nil if the fragment failed
}

// FragmentStatus represents the state of a fragment
type FragmentStatus int

const (
	FragmentPending FragmentStatus = iota
	FragmentLoaded
	FragmentFailed
	FragmentSkipped // Not attempted because an earlier fragment failed
)

// String returns a string representation of FragmentStatus
func (fs FragmentStatus) String() string {
	switch fs {
	case FragmentPending:
		return "pending"
	case FragmentLoaded:
		return "loaded"
	case FragmentFailed:
		return "failed"
	case FragmentSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Duration returns the time spent applying the fragment
func (fr *FragmentRun) Duration() time.Duration {
	if fr.StartTime.IsZero() {
		return 0
	}
	if fr.EndTime.IsZero() {
		return time.Since(fr.StartTime)
	}
	return fr.EndTime.Sub(fr.StartTime)
}

// Summary summarizes a load
type Summary struct {
	Total         int
	Loaded        int
	Failed        int
	Skipped       int
	Bytes         int64 // Bytes of the loaded fragments
	TotalDuration time.Duration
}

// Summarize creates a summary of fragment runs
func Summarize(runs []*FragmentRun) *Summary {
	summary := &Summary{Total: len(runs)}
	for _, run := range runs {
		summary.TotalDuration += run.Duration()
		switch run.Status {
		case FragmentLoaded:
			summary.Loaded++
			summary.Bytes += run.Fragment.Size
		case FragmentFailed:
			summary.Failed++
		case FragmentSkipped, FragmentPending:
			summary.Skipped++
		}
	}
	return summary
}

// AllLoaded returns true if every fragment was applied
func (s *Summary) AllLoaded() bool {
	return s.Loaded == s.Total
}

// ExitCode returns the appropriate exit code based on the load results
func (s *Summary) ExitCode() int {
	if s.AllLoaded() {
		return 0
	}
	return 1
}
