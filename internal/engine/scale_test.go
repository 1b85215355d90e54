package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScaleAnchors(t *testing.T) {
	s := DefaultScaleTable()

	assert.Equal(t, 800, s.Scale(100, TierHard, CategoryMath))
	assert.Equal(t, 200, s.Scale(0, TierEasy, CategoryMath))
	// 18/20 on easy: round(200 + 0.9*300)
	assert.Equal(t, 470, s.Scale(90, TierEasy, CategoryMath))
	// 8/20 on hard: round(550 + 0.4*250)
	assert.Equal(t, 650, s.Scale(40, TierHard, CategoryMath))
}

func TestScaleStaysInBand(t *testing.T) {
	s := DefaultScaleTable()
	for _, cat := range []SubjectCategory{CategoryMath, CategoryReadingWriting} {
		for _, tier := range TierOrder {
			b := s.BandFor(tier, cat)
			for p := 0; p <= 100; p++ {
				got := s.Scale(float64(p), tier, cat)
				require.GreaterOrEqual(t, got, b.Min, "p=%d tier=%s cat=%s", p, tier, cat)
				require.LessOrEqual(t, got, b.Max, "p=%d tier=%s cat=%s", p, tier, cat)
			}
		}
	}
}

func TestScaleClampsBadInput(t *testing.T) {
	s := DefaultScaleTable()

	assert.Equal(t, 200, s.Scale(-5, TierEasy, CategoryMath))
	assert.Equal(t, 500, s.Scale(150, TierEasy, CategoryMath))
	assert.Equal(t, 200, s.Scale(math.NaN(), TierEasy, CategoryMath))
}

func TestScaleUnknownTierFallsBackToMedium(t *testing.T) {
	s := DefaultScaleTable()
	want := s.Scale(50, TierMedium, CategoryMath)

	assert.Equal(t, want, s.Scale(50, DifficultyTier("impossible"), CategoryMath))
}

func TestScaleMonotoneInPercent(t *testing.T) {
	s := DefaultScaleTable()
	prev := -1
	for p := 0; p <= 100; p++ {
		got := s.Scale(float64(p), TierMedium, CategoryReadingWriting)
		require.GreaterOrEqual(t, got, prev)
		prev = got
	}
}

func TestParseTierAndCategory(t *testing.T) {
	assert.Equal(t, TierEasy, ParseTier(" Easy "))
	assert.Equal(t, TierHard, ParseTier("HARD"))
	assert.Equal(t, TierMedium, ParseTier("nonsense"))

	assert.Equal(t, CategoryMath, ParseCategory("Math"))
	assert.Equal(t, CategoryReadingWriting, ParseCategory("rw"))
	assert.Equal(t, CategoryReadingWriting, ParseCategory("unknown"))

	_, ok := ParseCategoryStrict("unknown")
	assert.False(t, ok)
}
