package uncertain

import (
	"errors"
	"math/rand/v2"
	"testing"

	"gouncertain/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniform() *Leaf[float64] {
	return FromFunc(func(r *rand.Rand) float64 { return r.Float64() })
}

func TestLeaf_IdempotentWithinEpoch(t *testing.T) {
	src := NewSeededSource(1, 2)
	x := uniform()

	first, err := x.Sample(src, 3)
	require.NoError(t, err)
	second, err := x.Sample(src, 3)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, src.Draws(), "second request must hit the memo")
}

func TestLeaf_FreshAcrossEpochs(t *testing.T) {
	src := NewSeededSource(1, 2)
	x := uniform()

	values, err := Samples[float64](x, src, 0, 50)
	require.NoError(t, err)

	distinct := make(map[float64]bool)
	for _, v := range values {
		distinct[v] = true
	}
	assert.Len(t, distinct, 50)
}

func TestLeaf_SameSeedSameStream(t *testing.T) {
	x := uniform()

	a, err := Samples[float64](x, NewSeededSource(7, 11), 0, 20)
	require.NoError(t, err)
	b, err := Samples[float64](x, NewSeededSource(7, 11), 0, 20)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestSource_ResetStartsNewSession(t *testing.T) {
	src := NewSeededSource(5, 5)
	x := uniform()

	before, err := x.Sample(src, 0)
	require.NoError(t, err)

	src.Reset()
	assert.Equal(t, 0, src.Draws())

	after, err := x.Sample(src, 0)
	require.NoError(t, err)
	assert.NotEqual(t, before, after, "reset must drop memoized samples, not rewind the stream")
}

func TestMap_AppliesFunctionAtSameEpoch(t *testing.T) {
	src := NewSeededSource(9, 9)
	x := uniform()
	doubled := Map[float64, float64](x, func(v float64) float64 { return 2 * v })

	for epoch := uint64(0); epoch < 100; epoch++ {
		got, err := doubled.Sample(src, epoch)
		require.NoError(t, err)
		up, err := x.Sample(src, epoch)
		require.NoError(t, err)
		assert.Equal(t, 2*up, got, "epoch %d", epoch)
	}
}

func TestMap_AddsNoRandomness(t *testing.T) {
	x := uniform()
	above := Map[float64, bool](x, func(v float64) bool { return v > 0.5 })

	plain := NewSeededSource(3, 4)
	mapped := NewSeededSource(3, 4)
	for epoch := uint64(0); epoch < 20; epoch++ {
		up, err := x.Sample(plain, epoch)
		require.NoError(t, err)
		got, err := above.Sample(mapped, epoch)
		require.NoError(t, err)
		assert.Equal(t, up > 0.5, got)
	}
	assert.Equal(t, plain.Draws(), mapped.Draws())
}

func TestMap2_SharedUpstreamStaysConsistent(t *testing.T) {
	src := NewSeededSource(13, 17)
	x := uniform()
	diff := Map2[float64, float64, float64](x, x, func(a, b float64) float64 { return a - b })

	for epoch := uint64(0); epoch < 100; epoch++ {
		v, err := diff.Sample(src, epoch)
		require.NoError(t, err)
		assert.Zero(t, v)
	}
}

func TestMap2_IndependentUpstreamsDiffer(t *testing.T) {
	src := NewSeededSource(13, 17)
	diff := Map2[float64, float64, float64](uniform(), uniform(), func(a, b float64) float64 { return a - b })

	nonZero := 0
	for epoch := uint64(0); epoch < 20; epoch++ {
		v, err := diff.Sample(src, epoch)
		require.NoError(t, err)
		if v != 0 {
			nonZero++
		}
	}
	assert.Equal(t, 20, nonZero)
}

func TestMapErr_PropagatesFailure(t *testing.T) {
	src := NewSeededSource(1, 1)
	boom := errors.New("boom")
	failing := MapErr[float64, float64](uniform(), func(float64) (float64, error) { return 0, boom })
	downstream := Map[float64, bool](failing, func(v float64) bool { return v > 0 })

	_, err := downstream.Sample(src, 0)
	assert.ErrorIs(t, err, boom)

	_, err = Samples[bool](downstream, src, 0, 5)
	assert.ErrorIs(t, err, boom)
	assert.True(t, core.IsSamplingError(err))
}

func TestPoint_AlwaysSamplesItsValue(t *testing.T) {
	src := NewSeededSource(0, 0)
	p := Point(true)
	for epoch := uint64(0); epoch < 10; epoch++ {
		v, err := p.Sample(src, epoch)
		require.NoError(t, err)
		assert.True(t, v)
	}
	assert.Zero(t, src.Draws())
}
