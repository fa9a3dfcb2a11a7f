// Package comparator implements the comparator chain (spec.md §4.4) used
// by the planner to decide whether a file present on both sides of a diff
// is "same" or "different", generalized from the way the teacher's own
// synchronization core composes several independent difference checks into
// one verdict (pkg/synchronization/core/diff.go), but operating over the
// flat scan.Entry model this spec uses rather than a recursive Entry tree.
package comparator

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/frontdown/frontdown/internal/fsview"
	"github.com/frontdown/frontdown/internal/scan"
)

// Method identifies one step in the comparator chain.
type Method string

const (
	// MethodModDate compares modification times with whole-second
	// truncation and a 2-second FAT-granularity tolerance.
	MethodModDate Method = "moddate"
	// MethodSize compares byte length.
	MethodSize Method = "size"
	// MethodBytes streams both files and compares content directly.
	MethodBytes Method = "bytes"
	// MethodHash is reserved: no digest algorithm is specified, so this
	// method is accepted by UnmarshalYAML but rejected by configuration
	// validation and by Chain.Validate (ErrUnsupportedMethod) rather than
	// silently behaving like
	// "bytes" or inventing an algorithm the spec never named.
	MethodHash Method = "hash"
)

// UnmarshalYAML implements a strict enum decode, rejecting any method name
// outside the four recognized values at configuration-load time.
func (m *Method) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	switch Method(raw) {
	case MethodModDate, MethodSize, MethodBytes, MethodHash:
		*m = Method(raw)
		return nil
	default:
		return fmt.Errorf("invalid comparator method %q", raw)
	}
}

// ErrUnsupportedMethod is returned when a configured chain uses
// MethodHash, which is reserved but not implemented.
var ErrUnsupportedMethod = errors.New("comparator method not implemented: hash")

// ErrModTimeUnavailable is returned when a chain starting with moddate is
// used against a side that cannot report modification times.
var ErrModTimeUnavailable = errors.New("comparison side does not support modification times")

// modTimeTolerance is the FAT-granularity tolerance applied to moddate
// comparisons.
const modTimeTolerance = 2 * time.Second

// Chain is an ordered, short-circuiting sequence of comparison methods.
type Chain []Method

// Validate checks that a chain's methods are all implemented and, if it
// starts with moddate, that both sides can supply modification times.
func (c Chain) Validate(sourceHasModTime, compareHasModTime bool) error {
	for _, m := range c {
		if m == MethodHash {
			return ErrUnsupportedMethod
		}
	}
	if len(c) > 0 && c[0] == MethodModDate {
		if !sourceHasModTime || !compareHasModTime {
			return ErrModTimeUnavailable
		}
	}
	return nil
}

// Verdict is the outcome of comparing two files.
type Verdict int

const (
	// Same indicates every method in the chain agreed the files are
	// equal.
	Same Verdict = iota
	// Different indicates some method in the chain disagreed (and
	// short-circuited the remaining methods).
	Different
)

// Reader provides byte access to a file for the "bytes" comparator,
// deferring the open until it's actually needed so moddate/size can
// short-circuit cheaply.
type Reader func() (io.ReadCloser, error)

// Compare runs the chain against two files' scan entries, opening their
// contents via the provided readers only if the chain reaches "bytes".
// Read failures during a "bytes" comparison are treated as Different and
// reported to the caller so it can be counted as a scan/comparison error,
// per spec.md §7's ComparisonError handling.
func Compare(chain Chain, source, compare scan.Entry, sourceReader, compareReader Reader) (Verdict, error) {
	for _, method := range chain {
		switch method {
		case MethodModDate:
			if !withinTolerance(source.Modified, compare.Modified) {
				return Different, nil
			}
		case MethodSize:
			if source.Size != compare.Size {
				return Different, nil
			}
		case MethodBytes:
			same, err := compareBytes(sourceReader, compareReader)
			if err != nil {
				return Different, fmt.Errorf("unable to compare file contents: %w", err)
			}
			if !same {
				return Different, nil
			}
		case MethodHash:
			return Different, ErrUnsupportedMethod
		}
	}
	return Same, nil
}

func withinTolerance(a, b time.Time) bool {
	d := a.Sub(b)
	if d < 0 {
		d = -d
	}
	return d.Truncate(time.Second) <= modTimeTolerance
}

func compareBytes(sourceReader, compareReader Reader) (bool, error) {
	sourceStream, err := sourceReader()
	if err != nil {
		return false, err
	}
	defer sourceStream.Close()

	compareStream, err := compareReader()
	if err != nil {
		return false, err
	}
	defer compareStream.Close()

	const chunkSize = 64 * 1024
	sourceBuffer := make([]byte, chunkSize)
	compareBuffer := make([]byte, chunkSize)
	for {
		sourceRead, sourceErr := io.ReadFull(sourceStream, sourceBuffer)
		compareRead, compareErr := io.ReadFull(compareStream, compareBuffer)
		if sourceRead != compareRead || !bytes.Equal(sourceBuffer[:sourceRead], compareBuffer[:compareRead]) {
			return false, nil
		}
		sourceDone := sourceErr == io.EOF || sourceErr == io.ErrUnexpectedEOF
		compareDone := compareErr == io.EOF || compareErr == io.ErrUnexpectedEOF
		if sourceDone != compareDone {
			return false, nil
		}
		if sourceDone {
			return true, nil
		}
		if sourceErr != nil {
			return false, sourceErr
		}
		if compareErr != nil {
			return false, compareErr
		}
	}
}

// OpenReader adapts an fsview.View into a Reader for a given relative
// path.
func OpenReader(view fsview.View, relpath scan.RelPath) Reader {
	return func() (io.ReadCloser, error) {
		return view.OpenRead(string(relpath))
	}
}
