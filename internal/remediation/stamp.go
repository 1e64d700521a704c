package remediation

import (
	"sync/atomic"
	"time"
)

// RestartTimeFormat renders restart stamps as UTC ISO-8601 with microseconds and a trailing Z
const RestartTimeFormat = "2006-01-02T15:04:05.000000Z"

// stamper hands out restart timestamps that strictly increase within the process,
// even when the clock stalls or steps backwards.
type stamper struct {
	now  func() time.Time
	last atomic.Int64 // unix microseconds of the last stamp
}

func newStamper(now func() time.Time) *stamper {
	if now == nil {
		now = time.Now
	}
	return &stamper{now: now}
}

func (s *stamper) next() string {
	for {
		prev := s.last.Load()
		micros := s.now().UTC().UnixMicro()
		if micros <= prev {
			micros = prev + 1
		}
		if s.last.CompareAndSwap(prev, micros) {
			return time.UnixMicro(micros).UTC().Format(RestartTimeFormat)
		}
	}
}
