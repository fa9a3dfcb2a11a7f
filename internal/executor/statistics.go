package executor

import "time"

// Statistics accumulates the counters spec.md §4.6/§4.7 attributes to one
// job run. The teacher's own synchronization engine keeps an analogous
// counter set as a process-wide singleton; this spec places it as a plain
// struct passed by pointer instead; see internal/job, which holds one per
// job so concurrent or nested jobs in tests stay isolated.
type Statistics struct {
	BytesCopied     int64
	BytesHardlinked int64
	FilesCopied     int
	FilesHardlinked int
	FilesDeleted    int
	DirsCreated     int
	ScanErrors      int
	BackupErrors    int
	StartTime       time.Time
	EndTime         time.Time
}

// Duration returns the elapsed wall time between StartTime and EndTime,
// zero if the run hasn't finished.
func (s *Statistics) Duration() time.Duration {
	if s.EndTime.IsZero() {
		return 0
	}
	return s.EndTime.Sub(s.StartTime)
}
