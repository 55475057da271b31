package pipeline

// RunStats tracks aggregate counters and byte totals across a batch run.
type RunStats struct {
	Total            int
	Current          int
	Encoded          int
	Skipped          int
	Failed           int
	Aborted          int
	TotalInputBytes  int64
	TotalOutputBytes int64

	// Results holds the terminal result of every job that ran.
	Results []Result
}

// SizeChange returns the aggregate byte difference between outputs and
// inputs. Positive means the outputs grew.
func (s *RunStats) SizeChange() int64 {
	return s.TotalOutputBytes - s.TotalInputBytes
}

// OK reports whether no job failed or was aborted.
func (s *RunStats) OK() bool {
	return s.Failed == 0 && s.Aborted == 0
}
