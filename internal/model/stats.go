package model

// Stats holds the aggregate counters shown under the list
type Stats struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

// StatsOf counts completed and total tasks
func StatsOf(tasks []Task) Stats {
	s := Stats{Total: len(tasks)}
	for _, t := range tasks {
		if t.Done {
			s.Completed++
		}
	}
	return s
}

// Pending returns the number of tasks not yet done
func (s Stats) Pending() int {
	return s.Total - s.Completed
}

// Percent returns completed/total*100, or 0 for an empty list
func (s Stats) Percent() float64 {
	if s.Total <= 0 {
		return 0
	}
	return float64(s.Completed) / float64(s.Total) * 100
}
