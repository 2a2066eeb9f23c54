package engine

import (
	"testing"
	"time"

	"github.com/SAP-F-2025/diagnostic-service/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestPracticeDelta_HardCorrect(t *testing.T) {
	u := PracticeDelta(50, "M_ALG_LIN1", models.TierHard, true, 30*time.Second)

	assert.Equal(t, 12, u.Delta)
	assert.Equal(t, 62, u.NewMastery)
	assert.False(t, u.IsSlow)
}

func TestPracticeDelta_MediumSlowMathFloors(t *testing.T) {
	// Medium is the fluency checkpoint; math target is 90s, so 120s is
	// slow and 8 floors to 6.
	u := PracticeDelta(50, "M_ALG_LIN1", models.TierMedium, true, 120*time.Second)

	assert.Equal(t, 6, u.Delta)
	assert.Equal(t, 56, u.NewMastery)
	assert.True(t, u.IsSlow)
}

func TestPracticeDelta_MathTargetIs90s(t *testing.T) {
	// 80s is within the math target, not slow for the other target this
	// would already be over.
	u := PracticeDelta(50, "M_ALG_LIN1", models.TierMedium, true, 80*time.Second)

	assert.Equal(t, 8, u.Delta)
	assert.False(t, u.IsSlow)

	// Same timing on a non-math skill (60s target) is slow.
	u = PracticeDelta(50, "RW_CS_WIC", models.TierMedium, true, 80*time.Second)
	assert.Equal(t, 6, u.Delta)
	assert.True(t, u.IsSlow)
}

func TestPracticeDelta_SlowOnlyDefinedAtMedium(t *testing.T) {
	// Easy and Hard answers are never slow, no matter how long they take.
	u := PracticeDelta(50, "M_ALG_LIN1", models.TierHard, true, time.Hour)

	assert.Equal(t, 12, u.Delta)
	assert.False(t, u.IsSlow)

	u = PracticeDelta(50, "M_ALG_LIN1", models.TierEasy, true, time.Hour)
	assert.Equal(t, 4, u.Delta)
	assert.False(t, u.IsSlow)
}

func TestPracticeDelta_IncorrectNeverRegresses(t *testing.T) {
	for _, tier := range []models.DifficultyTier{models.TierEasy, models.TierMedium, models.TierHard} {
		u := PracticeDelta(50, "M_ALG_LIN1", tier, false, 10*time.Second)
		assert.Zero(t, u.Delta, tier)
		assert.Equal(t, 50, u.NewMastery, tier)
	}
}

func TestPracticeDelta_ClampsAt100(t *testing.T) {
	u := PracticeDelta(95, "M_ALG_LIN1", models.TierHard, true, 30*time.Second)

	assert.Equal(t, 100, u.NewMastery)
}

func TestPracticeDelta_EasyCorrect(t *testing.T) {
	u := PracticeDelta(0, "RW_CS_WIC", models.TierEasy, true, 10*time.Second)

	assert.Equal(t, 4, u.Delta)
	assert.Equal(t, 4, u.NewMastery)
}
