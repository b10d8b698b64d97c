package domain

import "fmt"

// Stats is a read-only snapshot of learning progress, derived from the
// word set and the daily loop.
type Stats struct {
	TotalWords int
	Learned    int
	Remaining  int
	LoopSize   int
}

// ProgressString returns a user-friendly one-line summary.
func (s Stats) ProgressString() string {
	if s.TotalWords == 0 {
		return "no words yet"
	}
	pct := float64(s.Learned) / float64(s.TotalWords) * 100
	return fmt.Sprintf("%d/%d learned (%.0f%%), %d in loop", s.Learned, s.TotalWords, pct, s.LoopSize)
}
