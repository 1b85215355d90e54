package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeEmpty(t *testing.T) {
	ctx := context.Background()
	agg := NewAggregator(NewInMemoryStore(), DefaultScaleTable())

	sum, err := agg.Summarize(ctx, "s1", "", DiagnosticBaseline{})
	require.NoError(t, err)
	assert.Equal(t, Summary{MathScore: 400, RWScore: 400, Total: 800, Target: 1500, Gap: 700}, sum)
}

func TestSummarizeBaselineIsFloorNotCeiling(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	require.NoError(t, store.PutCourse(ctx, Course{ID: "m1", Category: CategoryMath}))
	ledger := NewLedger(store, DefaultScaleTable())
	agg := NewAggregator(store, DefaultScaleTable())

	// scaled 470 on math easy, above the 450 baseline
	_, err := ledger.UpdateIfBetter(ctx, "s1", "m1", TierEasy, 90)
	require.NoError(t, err)

	sum, err := agg.Summarize(ctx, "s1", "", DiagnosticBaseline{MathScore: 450, RWScore: 600, TargetScore: 1400})
	require.NoError(t, err)
	assert.Equal(t, 470, sum.MathScore) // beats the floor
	assert.Equal(t, 600, sum.RWScore)   // floor holds with no rw records
	assert.Equal(t, 1070, sum.Total)
	assert.Equal(t, 330, sum.Gap)
}

func TestSummarizeTakesMaxAcrossTiersAndCourses(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	require.NoError(t, store.PutCourse(ctx, Course{ID: "m1", Category: CategoryMath}))
	require.NoError(t, store.PutCourse(ctx, Course{ID: "m2", Category: CategoryMath}))
	require.NoError(t, store.PutCourse(ctx, Course{ID: "r1", Category: CategoryReadingWriting}))
	ledger := NewLedger(store, DefaultScaleTable())
	agg := NewAggregator(store, DefaultScaleTable())

	_, _ = ledger.UpdateIfBetter(ctx, "s1", "m1", TierEasy, 100)  // 500
	_, _ = ledger.UpdateIfBetter(ctx, "s1", "m2", TierHard, 60)   // 700
	_, _ = ledger.UpdateIfBetter(ctx, "s1", "r1", TierMedium, 80) // 600

	sum, err := agg.Summarize(ctx, "s1", "", DefaultBaseline())
	require.NoError(t, err)
	assert.Equal(t, 700, sum.MathScore)
	assert.Equal(t, 600, sum.RWScore)
	assert.Equal(t, 1300, sum.Total)

	// single-course scope ignores the other courses
	sum, err = agg.Summarize(ctx, "s1", "m1", DefaultBaseline())
	require.NoError(t, err)
	assert.Equal(t, 500, sum.MathScore)
	assert.Equal(t, 400, sum.RWScore)
}

func TestSummarizeCaps(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	require.NoError(t, store.PutCourse(ctx, Course{ID: "m1", Category: CategoryMath}))
	agg := NewAggregator(store, DefaultScaleTable())

	// an absurd baseline is still capped at the scale maximums
	sum, err := agg.Summarize(ctx, "s1", "", DiagnosticBaseline{MathScore: 1200, RWScore: 900, TargetScore: 1600})
	require.NoError(t, err)
	assert.Equal(t, 800, sum.MathScore)
	assert.Equal(t, 800, sum.RWScore)
	assert.Equal(t, 1600, sum.Total)
	assert.Equal(t, 0, sum.Gap)
}

func TestSummarizeRescalesFromStoredPercent(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	require.NoError(t, store.PutCourse(ctx, Course{ID: "m1", Category: CategoryMath}))
	ledger := NewLedger(store, DefaultScaleTable())

	_, err := ledger.UpdateIfBetter(ctx, "s1", "m1", TierHard, 100) // stored scaled 800
	require.NoError(t, err)

	// aggregate under a narrower hard band: the stored percentage is
	// re-scaled, the stale BestScaled is ignored
	reconfigured := ScaleTable{
		CategoryMath:           {TierEasy: {200, 500}, TierMedium: {400, 650}, TierHard: {550, 700}},
		CategoryReadingWriting: {TierEasy: {200, 500}, TierMedium: {400, 650}, TierHard: {550, 700}},
	}
	agg := NewAggregator(store, reconfigured)
	sum, err := agg.Summarize(ctx, "s1", "", DefaultBaseline())
	require.NoError(t, err)
	assert.Equal(t, 700, sum.MathScore)
}
