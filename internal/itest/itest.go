// Package itest supplies lightweight assertion helpers for tests that
// prefer a terse call at the point of comparison over a table-driven
// test: the leb128 decoder tests and the tree-level packages (memorymap,
// diffmap, postprocess, catalog, report, memviz). The map-file, ELF and DWARF
// reader tests use testify instead.
package itest

import (
	"bytes"
	"fmt"
	"reflect"
	"testing"
)

// Equate fails the test if got and want are not deeply equal.
func Equate(t *testing.T, got, want interface{}) {
	t.Helper()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %#v, wanted %#v", got, want)
	}
}

// ExpectSuccess fails the test if v is a non-nil error or false.
func ExpectSuccess(t *testing.T, v interface{}) {
	t.Helper()
	switch v := v.(type) {
	case nil:
		return
	case error:
		if v != nil {
			t.Errorf("expected success, got error: %v", v)
		}
	case bool:
		if !v {
			t.Errorf("expected success, got false")
		}
	default:
		t.Errorf("unsupported type for ExpectSuccess: %T", v)
	}
}

// ExpectFailure fails the test if v is a nil error or true.
func ExpectFailure(t *testing.T, v interface{}) {
	t.Helper()
	switch v := v.(type) {
	case nil:
		t.Errorf("expected failure, got nil")
	case error:
		if v == nil {
			t.Errorf("expected failure, got nil error")
		}
	case bool:
		if v {
			t.Errorf("expected failure, got true")
		}
	default:
		t.Errorf("unsupported type for ExpectFailure: %T", v)
	}
}

// ExpectEquality is an alias of Equate kept for call sites that read
// more naturally with an explicit pass/fail verb.
func ExpectEquality(t *testing.T, got, want interface{}) {
	t.Helper()
	Equate(t, got, want)
}

// ExpectInequality fails the test if got and want are deeply equal.
func ExpectInequality(t *testing.T, got, want interface{}) {
	t.Helper()
	if reflect.DeepEqual(got, want) {
		t.Errorf("got %#v, did not want equality with %#v", got, want)
	}
}

// ExpectApproximate fails the test if got and want differ by more than
// tolerance.
func ExpectApproximate(t *testing.T, got, want, tolerance float64) {
	t.Helper()
	d := got - want
	if d < 0 {
		d = -d
	}
	if d > tolerance {
		t.Errorf("got %v, wanted %v (+/- %v)", got, want, tolerance)
	}
}

// CappedWriter is an io.Writer that discards bytes once it reaches its
// capacity, used to give map-parser and DWARF-reader tests a bounded
// buffer to inspect without truncation surprises mid-assertion.
type CappedWriter struct {
	buf bytes.Buffer
	cap int
}

// NewCappedWriter returns a CappedWriter with room for cap bytes.
func NewCappedWriter(cap int) (*CappedWriter, error) {
	if cap <= 0 {
		return nil, fmt.Errorf("itest: capped writer requires a positive capacity")
	}
	return &CappedWriter{cap: cap}, nil
}

func (c *CappedWriter) Write(p []byte) (int, error) {
	room := c.cap - c.buf.Len()
	if room <= 0 {
		return len(p), nil
	}
	if len(p) > room {
		p = p[:room]
	}
	c.buf.Write(p)
	return len(p), nil
}

// String returns the buffer's contents so far.
func (c *CappedWriter) String() string {
	return c.buf.String()
}

// Reset empties the buffer.
func (c *CappedWriter) Reset() {
	c.buf.Reset()
}

// Compare reports whether the buffer's contents equal s.
func (c *CappedWriter) Compare(s string) bool {
	return c.buf.String() == s
}
