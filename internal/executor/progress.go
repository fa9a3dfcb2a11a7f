package executor

// ProgressSink receives a unit-weight increment after each action
// completes (successfully or not), per spec.md §4.6's progress accounting.
// The failed action that exhausts the error budget is not reported, since
// Execute returns at that point.
// A nil sink is valid and simply means progress isn't observed.
type ProgressSink func(weight float64)

// actionWeight implements spec.md §4.6's empirical unit weight,
// `1 + size/102400` (roughly 1ms/file + 10ms/MB).
func actionWeight(size int64) float64 {
	return 1 + float64(size)/102400
}

func (p ProgressSink) report(size int64) {
	if p == nil {
		return
	}
	p(actionWeight(size))
}
