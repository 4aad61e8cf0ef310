// Package interval implements an interval algebra over the extended reals:
// closed, open, and half-open intervals, used throughout the toolkit as
// clock guards, reset targets, and zones.
package interval

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/arnelund/tfa/internal/tfaerr"
)

// Interval is a (possibly half-open) range over ℝ ∪ {+∞}. The zero value
// is not a valid Interval; construct one with New.
type Interval struct {
	Lo, Hi             float64
	LoClosed, HiClosed bool
}

// New constructs an Interval, validating that lo <= hi, that neither
// endpoint is NaN, and that +∞ is only used as an open endpoint.
func New(lo, hi float64, loClosed, hiClosed bool) (Interval, error) {
	iv := Interval{Lo: lo, Hi: hi, LoClosed: loClosed, HiClosed: hiClosed}
	if err := iv.validate(); err != nil {
		return Interval{}, err
	}
	return iv, nil
}

// MustNew is like New but panics on an invalid interval. Intended for use in
// tests and for literal intervals known to be valid at compile time.
func MustNew(lo, hi float64, loClosed, hiClosed bool) Interval {
	iv, err := New(lo, hi, loClosed, hiClosed)
	if err != nil {
		panic(err.Error())
	}
	return iv
}

func (iv Interval) validate() error {
	if math.IsNaN(iv.Lo) || math.IsNaN(iv.Hi) {
		return tfaerr.New("interval endpoint is NaN", tfaerr.ErrInvalidInterval)
	}
	if iv.Lo > iv.Hi {
		return tfaerr.New(fmt.Sprintf("lower bound %v is greater than upper bound %v", iv.Lo, iv.Hi), tfaerr.ErrInvalidInterval)
	}
	if math.IsInf(iv.Hi, 1) && iv.HiClosed {
		return tfaerr.New("+Inf may only be used as an open upper bound", tfaerr.ErrInvalidInterval)
	}
	if math.IsInf(iv.Lo, 1) && iv.LoClosed {
		return tfaerr.New("+Inf may only be used as an open lower bound", tfaerr.ErrInvalidInterval)
	}
	return nil
}

// Contains reports whether c falls within iv, honoring open/closed
// endpoints.
func (iv Interval) Contains(c float64) bool {
	var loOK, hiOK bool
	if iv.LoClosed {
		loOK = c >= iv.Lo
	} else {
		loOK = c > iv.Lo
	}
	if iv.HiClosed {
		hiOK = c <= iv.Hi
	} else {
		hiOK = c < iv.Hi
	}
	return loOK && hiOK
}

// IsDegenerate reports whether iv contains exactly one point, i.e. Lo == Hi
// and both endpoints are closed.
func (iv Interval) IsDegenerate() bool {
	return iv.Lo == iv.Hi && iv.LoClosed && iv.HiClosed
}

// String formats iv using standard interval bracket notation, e.g.
// "[1, 3]", "(0, 1]", "[5, +Inf)".
func (iv Interval) String() string {
	var sb strings.Builder
	if iv.LoClosed {
		sb.WriteByte('[')
	} else {
		sb.WriteByte('(')
	}
	sb.WriteString(formatEndpoint(iv.Lo))
	sb.WriteString(", ")
	sb.WriteString(formatEndpoint(iv.Hi))
	if iv.HiClosed {
		sb.WriteByte(']')
	} else {
		sb.WriteByte(')')
	}
	return sb.String()
}

// Overlaps reports whether iv and o share at least one point.
func (iv Interval) Overlaps(o Interval) bool {
	// No shared point is possible only if one interval ends at or before the
	// other begins, with at least one of the touching endpoints open.
	if iv.Hi < o.Lo || (iv.Hi == o.Lo && !(iv.HiClosed && o.LoClosed)) {
		return false
	}
	if o.Hi < iv.Lo || (o.Hi == iv.Lo && !(o.HiClosed && iv.LoClosed)) {
		return false
	}
	return true
}

func formatEndpoint(v float64) string {
	if math.IsInf(v, 1) {
		return "+Inf"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Parse parses the bracket notation produced by String, e.g. "[1, 3]" or
// "(0, +Inf)". It is the inverse of String and is used by internal/config
// to read guard and reset intervals out of a TOML definition.
func Parse(s string) (Interval, error) {
	s = strings.TrimSpace(s)
	if len(s) < 3 {
		return Interval{}, tfaerr.New(fmt.Sprintf("not a valid interval: %q", s), tfaerr.ErrInvalidInterval)
	}

	var loClosed, hiClosed bool
	switch s[0] {
	case '[':
		loClosed = true
	case '(':
		loClosed = false
	default:
		return Interval{}, tfaerr.New(fmt.Sprintf("not a valid interval: missing opening bracket: %q", s), tfaerr.ErrInvalidInterval)
	}
	switch s[len(s)-1] {
	case ']':
		hiClosed = true
	case ')':
		hiClosed = false
	default:
		return Interval{}, tfaerr.New(fmt.Sprintf("not a valid interval: missing closing bracket: %q", s), tfaerr.ErrInvalidInterval)
	}

	inner := s[1 : len(s)-1]
	parts := strings.SplitN(inner, ",", 2)
	if len(parts) != 2 {
		return Interval{}, tfaerr.New(fmt.Sprintf("not a valid interval: expected \"lo, hi\": %q", s), tfaerr.ErrInvalidInterval)
	}

	lo, err := parseEndpoint(strings.TrimSpace(parts[0]))
	if err != nil {
		return Interval{}, tfaerr.New(fmt.Sprintf("not a valid interval: bad lower bound in %q", s), tfaerr.ErrInvalidInterval, err)
	}
	hi, err := parseEndpoint(strings.TrimSpace(parts[1]))
	if err != nil {
		return Interval{}, tfaerr.New(fmt.Sprintf("not a valid interval: bad upper bound in %q", s), tfaerr.ErrInvalidInterval, err)
	}

	return New(lo, hi, loClosed, hiClosed)
}

func parseEndpoint(s string) (float64, error) {
	if s == "+Inf" || s == "inf" || s == "Inf" {
		return math.Inf(1), nil
	}
	return strconv.ParseFloat(s, 64)
}
