package repository

import "time"

// Orderable enumerates the field types that accept range conditions. Strings
// and booleans are deliberately excluded: only numeric and temporal fields
// may be range-filtered.
type Orderable interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64 | time.Time
}

type condKind int

const (
	condExact condKind = iota
	condRange
)

// Condition is a single per-field constraint: either an exact value or an
// inclusive [from, to] range over an orderable field. The zero Condition is
// not valid; use the constructors.
type Condition struct {
	kind  condKind
	value any
	from  any // nil = unbounded below
	to    any // nil = unbounded above
}

// Exact requires the field to equal v. Temporal values compare by instant.
func Exact[V comparable](v V) Condition {
	return Condition{kind: condExact, value: v}
}

// Between requires from <= field <= to.
func Between[V Orderable](from, to V) Condition {
	return Condition{kind: condRange, from: from, to: to}
}

// AtLeast requires field >= from.
func AtLeast[V Orderable](from V) Condition {
	return Condition{kind: condRange, from: from}
}

// AtMost requires field <= to.
func AtMost[V Orderable](to V) Condition {
	return Condition{kind: condRange, to: to}
}

// ExactValue returns the exact-match value, if this is an exact condition.
func (c Condition) ExactValue() (any, bool) {
	if c.kind != condExact {
		return nil, false
	}
	return c.value, true
}

// RangeBounds returns the inclusive bounds, if this is a range condition.
// A nil bound is unbounded on that side.
func (c Condition) RangeBounds() (from, to any, ok bool) {
	if c.kind != condRange {
		return nil, nil, false
	}
	return c.from, c.to, true
}

// Matches reports whether a field value satisfies the condition. This is the
// reference filter resolution algorithm every backend must reproduce.
func (c Condition) Matches(field any) bool {
	if c.kind == condRange {
		if c.from != nil {
			cmp, ok := compareOrdered(field, c.from)
			if !ok || cmp < 0 {
				return false
			}
		}
		if c.to != nil {
			cmp, ok := compareOrdered(field, c.to)
			if !ok || cmp > 0 {
				return false
			}
		}
		return true
	}
	return equalValues(field, c.value)
}

// Criteria maps filterable field names to their conditions. Absent fields
// impose no constraint; an entity passes only if it passes every condition.
type Criteria map[string]Condition

// MatchesFields evaluates the criteria against an entity's field map.
// A criteria key naming no field never matches.
func (c Criteria) MatchesFields(fields map[string]any) bool {
	for key, cond := range c {
		v, ok := fields[key]
		if !ok {
			return false
		}
		if !cond.Matches(v) {
			return false
		}
	}
	return true
}

func equalValues(a, b any) bool {
	if at, ok := a.(time.Time); ok {
		bt, ok := b.(time.Time)
		return ok && at.Equal(bt)
	}
	return a == b
}

// compareOrdered compares two values of an orderable kind. Numeric values
// compare through float64 so int fields match int64 bounds and vice versa.
func compareOrdered(a, b any) (int, bool) {
	if at, ok := a.(time.Time); ok {
		bt, ok := b.(time.Time)
		if !ok {
			return 0, false
		}
		return at.Compare(bt), true
	}
	af, ok := toFloat(a)
	if !ok {
		return 0, false
	}
	bf, ok := toFloat(b)
	if !ok {
		return 0, false
	}
	switch {
	case af < bf:
		return -1, true
	case af > bf:
		return 1, true
	default:
		return 0, true
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
