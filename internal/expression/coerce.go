package expression

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// Domain is the comparison type a predicate reads its column as.
type Domain string

// Comparison domains.
const (
	DomainNumber    Domain = "NUMBER"
	DomainTimestamp Domain = "TIMESTAMP"
	DomainText      Domain = "TEXT"
)

// ParseDomain maps an authored compare_as keyword to a Domain. An empty keyword means TEXT.
func ParseDomain(s string) (Domain, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "TEXT", "STRING", "STRINGS":
		return DomainText, nil
	case "NUMBER", "NUMBERS", "NUMERIC":
		return DomainNumber, nil
	case "TIMESTAMP", "TIMESTAMPS", "DATE", "DATETIME":
		return DomainTimestamp, nil
	}
	return "", fmt.Errorf("unknown comparison domain %q", s)
}

// timestampLayouts are tried in order. Go accepts a fractional seconds field after the
// seconds even when the layout omits it, so the fractional variants are only listed for the
// layouts without seconds.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02",
	"01/02/2006 15:04:05",
	"01/02/2006",
}

// Comparable is a coerced value. Exactly one field is meaningful, chosen by Domain.
type Comparable struct {
	Time   time.Time
	Text   string
	Domain Domain
	Number float64
}

// Compare returns -1, 0 or 1 as c is less than, equal to or greater than other.
// Both values must share a domain.
func (c Comparable) Compare(other Comparable) int {
	switch c.Domain {
	case DomainNumber:
		switch {
		case c.Number < other.Number:
			return -1
		case c.Number > other.Number:
			return 1
		}
		return 0
	case DomainTimestamp:
		return c.Time.Compare(other.Time)
	default:
		return strings.Compare(c.Text, other.Text)
	}
}

// errNotANumber rejects NaN, which has no place in an ordering. Infinities order
// normally and are accepted.
var errNotANumber = errors.New("NaN is not comparable")

// CoerceValue reads one raw string as the given domain.
func CoerceValue(domain Domain, raw string) (Comparable, error) {
	switch domain {
	case DomainNumber:
		f, err := cast.ToFloat64E(strings.TrimSpace(raw))
		if err != nil {
			return Comparable{}, &CoercionError{Domain: domain, Value: raw, Err: err}
		}
		if math.IsNaN(f) {
			return Comparable{}, &CoercionError{Domain: domain, Value: raw, Err: errNotANumber}
		}
		return Comparable{Domain: domain, Number: f}, nil
	case DomainTimestamp:
		t, err := parseTimestamp(raw)
		if err != nil {
			return Comparable{}, &CoercionError{Domain: domain, Value: raw, Err: err}
		}
		return Comparable{Domain: domain, Time: t}, nil
	case DomainText:
		return Comparable{Domain: domain, Text: raw}, nil
	}
	return Comparable{}, &CoercionError{Domain: domain, Value: raw, Err: fmt.Errorf("unknown domain %q", domain)}
}

// Coerce reads a row cell and a comparison literal as the given domain.
// A CoercionError names whichever side failed first, the cell before the literal.
func Coerce(domain Domain, cell, literal string) (Comparable, Comparable, error) {
	left, err := CoerceValue(domain, cell)
	if err != nil {
		return Comparable{}, Comparable{}, err
	}
	right, err := CoerceValue(domain, literal)
	if err != nil {
		return Comparable{}, Comparable{}, err
	}
	return left, right, nil
}

func parseTimestamp(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("no accepted date/time layout matches %q", raw)
}
