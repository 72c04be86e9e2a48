package archivefs

import (
	"fmt"
	"io"
)

// Message levels passed to Sink.OnMessage.
const (
	LevelDebug   = "debug"
	LevelInfo    = "info"
	LevelWarning = "warning"
)

// Sink receives progress and diagnostic events from one operation. Both
// fields are optional; a nil Sink discards everything. Callbacks run
// synchronously on the goroutine performing the I/O that produced them, so
// they must not block for long: the archive stream stalls while they run.
type Sink struct {
	// OnProgress is invoked with the operation's completion percentage
	// (0-100, non-decreasing, ending at exactly 100) and the name of the
	// entry or archive that produced the event.
	OnProgress func(percent float64, name string)

	// OnMessage is invoked with diagnostic messages at LevelDebug,
	// LevelInfo or LevelWarning.
	OnMessage func(level, message string)
}

// Progress reports a completion percentage for the named entry or archive.
func (s *Sink) Progress(percent float64, name string) {
	if s == nil || s.OnProgress == nil {
		return
	}
	s.OnProgress(percent, name)
}

// Debugf formats and emits a debug-level message.
func (s *Sink) Debugf(format string, args ...interface{}) {
	s.message(LevelDebug, format, args...)
}

// Infof formats and emits an info-level message.
func (s *Sink) Infof(format string, args ...interface{}) {
	s.message(LevelInfo, format, args...)
}

// Warnf formats and emits a warning-level message.
func (s *Sink) Warnf(format string, args ...interface{}) {
	s.message(LevelWarning, format, args...)
}

func (s *Sink) message(level, format string, args ...interface{}) {
	if s == nil || s.OnMessage == nil {
		return
	}
	s.OnMessage(level, fmt.Sprintf(format, args...))
}

// countingWriter forwards writes to an inner writer and reports cumulative
// progress against a known byte total. base holds bytes already accounted to
// the operation before this stream started, so per-file counters chain into
// one operation-wide percentage. A zero total suppresses reporting entirely;
// the drivers fall back to entry-count progress in that regime.
type countingWriter struct {
	w     io.Writer
	sink  *Sink
	name  string
	base  int64
	total int64
	count int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	if n > 0 {
		cw.count += int64(n)
		cw.report()
	}
	return n, err
}

func (cw *countingWriter) report() {
	if cw.total <= 0 {
		return
	}
	cw.sink.Progress(clampPercent(cw.base+cw.count, cw.total), cw.name)
}

// countingReader is the read-side twin of countingWriter, with identical
// accounting on every Read.
type countingReader struct {
	r     io.Reader
	sink  *Sink
	name  string
	base  int64
	total int64
	count int64
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	if n > 0 {
		cr.count += int64(n)
		cr.report()
	}
	return n, err
}

func (cr *countingReader) report() {
	if cr.total <= 0 {
		return
	}
	cr.sink.Progress(clampPercent(cr.base+cr.count, cr.total), cr.name)
}

// clampPercent converts a count/total pair to a percentage capped at 100.
func clampPercent(count, total int64) float64 {
	percent := 100 * float64(count) / float64(total)
	if percent > 100 {
		percent = 100
	}
	return percent
}
