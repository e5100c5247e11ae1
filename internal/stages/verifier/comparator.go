package verifier

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"github.com/mini-maxit/tester/pkg/constants"
	pkgerrors "github.com/mini-maxit/tester/pkg/errors"
)

type CompareMode int

const (
	ExactMatch CompareMode = iota + 1
	CRLFInsensitiveExactMatch
	IgnoreSpaces
	IgnoreSpacesAndNewlines
)

var compareModeNames = map[CompareMode]string{
	ExactMatch:                constants.CompareModeExactMatch,
	CRLFInsensitiveExactMatch: constants.CompareModeCRLFInsensitiveExact,
	IgnoreSpaces:              constants.CompareModeIgnoreSpaces,
	IgnoreSpacesAndNewlines:   constants.CompareModeIgnoreSpacesAndNewlines,
}

func (m CompareMode) String() string {
	if name, ok := compareModeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("CompareMode(%d)", int(m))
}

func ParseCompareMode(s string) (CompareMode, error) {
	for mode, name := range compareModeNames {
		if name == s {
			return mode, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", pkgerrors.ErrInvalidCompareMode, s)
}

// Comparator decides whether the actual output is equivalent to the expected one.
type Comparator interface {
	Compare(actual, expected []byte) bool
}

type ExactComparator struct{}

func (ExactComparator) Compare(actual, expected []byte) bool {
	return bytes.Equal(actual, expected)
}

type CRLFInsensitiveComparator struct {
	Inner Comparator
}

func (c CRLFInsensitiveComparator) Compare(actual, expected []byte) bool {
	return c.Inner.Compare(normalizeCRLF(actual), normalizeCRLF(expected))
}

// SplitLinesComparator requires the same number of lines and compares them pairwise.
type SplitLinesComparator struct {
	Inner Comparator
}

func (c SplitLinesComparator) Compare(actual, expected []byte) bool {
	actualLines := splitLines(actual)
	expectedLines := splitLines(expected)
	if len(actualLines) != len(expectedLines) {
		return false
	}
	for i := range actualLines {
		if !c.Inner.Compare(actualLines[i], expectedLines[i]) {
			return false
		}
	}
	return true
}

// SplitComparator requires the same number of whitespace separated tokens and
// compares them pairwise, in order.
type SplitComparator struct {
	Inner Comparator
}

func (c SplitComparator) Compare(actual, expected []byte) bool {
	actualWords := bytes.Fields(actual)
	expectedWords := bytes.Fields(expected)
	if len(actualWords) != len(expectedWords) {
		return false
	}
	for i := range actualWords {
		if !c.Inner.Compare(actualWords[i], expectedWords[i]) {
			return false
		}
	}
	return true
}

// FloatingPointNumberComparator accepts two numbers whose absolute or relative
// difference is within tolerance. Tokens that are not numbers must match exactly.
type FloatingPointNumberComparator struct {
	RelTol float64
	AbsTol float64
}

func (c FloatingPointNumberComparator) Compare(actual, expected []byte) bool {
	x, errX := strconv.ParseFloat(string(actual), 64)
	y, errY := strconv.ParseFloat(string(expected), 64)
	if errX != nil || errY != nil {
		return bytes.Equal(actual, expected)
	}
	return isClose(x, y, c.RelTol, c.AbsTol)
}

func isClose(a, b, relTol, absTol float64) bool {
	if a == b {
		return true
	}
	if math.IsInf(a, 0) || math.IsInf(b, 0) {
		return false
	}
	diff := math.Abs(a - b)
	return diff <= math.Max(relTol*math.Max(math.Abs(a), math.Abs(b)), absTol)
}

// NewComparator builds the comparator for mode. When tolerance is set the leaf
// token comparator becomes numeric. The second return value reports whether the
// comparator is one of the exact family, which enables the whitespace hint.
func NewComparator(mode CompareMode, tolerance *float64) (Comparator, bool) {
	if tolerance == nil {
		switch mode {
		case ExactMatch:
			return ExactComparator{}, true
		case CRLFInsensitiveExactMatch:
			return CRLFInsensitiveComparator{Inner: ExactComparator{}}, true
		}
	}

	var word Comparator = ExactComparator{}
	if tolerance != nil {
		word = FloatingPointNumberComparator{RelTol: *tolerance, AbsTol: *tolerance}
	}

	var file Comparator
	if mode == IgnoreSpacesAndNewlines {
		file = SplitComparator{Inner: word}
	} else {
		file = SplitLinesComparator{Inner: SplitComparator{Inner: word}}
	}
	return CRLFInsensitiveComparator{Inner: file}, false
}

// newHintComparator ignores all whitespace; it is only used to suggest a mode.
func newHintComparator() Comparator {
	return CRLFInsensitiveComparator{Inner: SplitComparator{Inner: ExactComparator{}}}
}

func normalizeCRLF(b []byte) []byte {
	return bytes.ReplaceAll(b, []byte("\r\n"), []byte("\n"))
}

// splitLines splits on '\n' without producing a trailing empty line, so
// "a\nb\n" and "a\nb" both yield two lines. A trailing '\r' is dropped.
func splitLines(b []byte) [][]byte {
	if len(b) == 0 {
		return nil
	}
	lines := bytes.Split(b, []byte("\n"))
	if len(lines[len(lines)-1]) == 0 {
		lines = lines[:len(lines)-1]
	}
	for i, line := range lines {
		lines[i] = bytes.TrimSuffix(line, []byte("\r"))
	}
	return lines
}

// trimTrailingSpace strips trailing whitespace. It runs before any comparator.
func trimTrailingSpace(b []byte) []byte {
	return bytes.TrimRight(b, " \t\r\n\v\f")
}
