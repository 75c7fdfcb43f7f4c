package results

// Summary aggregates a set of outcomes.
type Summary struct {
	Total    int
	Passed   int
	Failed   int
	Duration float64
	// ByTest holds the latest result per test name.
	ByTest map[string]Result
}

func Summarize(outcomes []TestOutcome) Summary {
	s := Summary{ByTest: make(map[string]Result)}
	for _, o := range outcomes {
		s.Total++
		s.Duration += o.Duration
		if o.Result == Pass {
			s.Passed++
		} else {
			s.Failed++
		}
		s.ByTest[o.TestName] = o.Result
	}
	return s
}

// PassRate is the fraction of passed runs, 0 when there are none.
func (s Summary) PassRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Passed) / float64(s.Total)
}
