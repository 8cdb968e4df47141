package jitter

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDuration_Bounds(t *testing.T) {
	for range 100 {
		d := Duration(time.Second, DefaultJitter)
		assert.GreaterOrEqual(t, d, time.Second)
		assert.LessOrEqual(t, d, 1500*time.Millisecond)
	}
}

func TestDurationWithRand_Deterministic(t *testing.T) {
	a := DurationWithRand(time.Second, DefaultJitter, rand.New(rand.NewPCG(1, 2)))
	b := DurationWithRand(time.Second, DefaultJitter, rand.New(rand.NewPCG(1, 2)))
	assert.Equal(t, a, b)
}

func TestBackoff(t *testing.T) {
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 200 * time.Millisecond},
		{1, 400 * time.Millisecond},
		{2, 800 * time.Millisecond},
		{3, 1600 * time.Millisecond},
		{4, 2 * time.Second},
		{40, 2 * time.Second},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, backoff(200*time.Millisecond, 2*time.Second, tt.attempt), "attempt %d", tt.attempt)
	}
}

func TestExponentialBackoff_CappedWithJitter(t *testing.T) {
	d := ExponentialBackoff(time.Second, 4*time.Second, 10, DefaultJitter)
	assert.GreaterOrEqual(t, d, 4*time.Second)
	assert.LessOrEqual(t, d, 6*time.Second)
}
