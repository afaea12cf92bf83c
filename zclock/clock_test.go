package zclock_test

import (
	"testing"
	"time"

	tdd "github.com/stretchr/testify/assert"
	"go.bryk.io/zcap/zclock"
)

func TestSystem_ReportsUTC(t *testing.T) {
	assert := tdd.New(t)
	now := zclock.System().Now()
	assert.Equal(time.UTC, now.Location())
	assert.WithinDuration(time.Now().UTC(), now, time.Second)
}

func TestFixed_AlwaysReportsSameInstant(t *testing.T) {
	assert := tdd.New(t)
	fixed := time.Date(2026, 3, 5, 12, 0, 0, 0, time.FixedZone("x", 3600))
	clock := zclock.Fixed(fixed)

	assert.Equal(fixed.UTC(), clock.Now())
	assert.Equal(clock.Now(), clock.Now())
}
