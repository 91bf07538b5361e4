package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCondition_Exact(t *testing.T) {
	assert.True(t, Exact("a").Matches("a"))
	assert.False(t, Exact("a").Matches("b"))
	assert.True(t, Exact(true).Matches(true))
	assert.False(t, Exact(true).Matches(false))
	assert.True(t, Exact(42).Matches(42))
	assert.False(t, Exact(42).Matches(43))
}

func TestCondition_Exact_TimeComparesByInstant(t *testing.T) {
	utc := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	local := utc.In(time.FixedZone("X", 3*3600))

	// Same instant, different locations.
	assert.True(t, Exact(utc).Matches(local))
	assert.False(t, Exact(utc).Matches(utc.Add(time.Second)))
}

func TestCondition_Range_BoundsAreInclusive(t *testing.T) {
	cond := Between(12, 20)
	assert.False(t, cond.Matches(10))
	assert.True(t, cond.Matches(12))
	assert.True(t, cond.Matches(15))
	assert.True(t, cond.Matches(20))
	assert.False(t, cond.Matches(25))

	assert.True(t, AtLeast(15).Matches(15))
	assert.True(t, AtLeast(15).Matches(25))
	assert.False(t, AtLeast(15).Matches(10))

	assert.True(t, AtMost(15).Matches(15))
	assert.True(t, AtMost(15).Matches(10))
	assert.False(t, AtMost(15).Matches(25))
}

func TestCondition_Range_MixedNumericWidths(t *testing.T) {
	// An int64 field against int bounds still compares numerically.
	assert.True(t, Between(10, 20).Matches(int64(15)))
	assert.True(t, AtLeast(10.5).Matches(11))
}

func TestCondition_Range_Time(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cond := Between(base, base.AddDate(0, 1, 0))

	assert.True(t, cond.Matches(base))
	assert.True(t, cond.Matches(base.AddDate(0, 0, 15)))
	assert.True(t, cond.Matches(base.AddDate(0, 1, 0)))
	assert.False(t, cond.Matches(base.AddDate(0, 2, 0)))
	assert.False(t, cond.Matches(base.Add(-time.Second)))
}

func TestCondition_Range_NonOrderedFieldNeverMatches(t *testing.T) {
	assert.False(t, Between(1, 5).Matches("three"))
}

func TestCriteria_MatchesFields(t *testing.T) {
	fields := map[string]any{"name": "Even", "age": 15, "active": true}

	assert.True(t, Criteria{}.MatchesFields(fields), "vacuous criteria matches everything")
	assert.True(t, Criteria{"name": Exact("Even"), "age": AtLeast(10)}.MatchesFields(fields))
	assert.False(t, Criteria{"name": Exact("Even"), "age": AtLeast(20)}.MatchesFields(fields),
		"criteria combine with logical AND")
	assert.False(t, Criteria{"missing": Exact("x")}.MatchesFields(fields),
		"unknown field never matches")
}
