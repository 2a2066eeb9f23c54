package engine

import (
	"time"

	"github.com/SAP-F-2025/diagnostic-service/internal/models"
)

// Target response times for the fluency check. Medium is the fluency
// checkpoint tier: only there does "slow" exist.
const (
	mathTargetTime  = 90 * time.Second
	otherTargetTime = 60 * time.Second
)

// Per-tier mastery gains for a correct practice answer.
const (
	deltaHard   = 12
	deltaMedium = 8
	deltaEasy   = 4
)

// slowPenaltyFactor reduces a slow Medium answer's gain by 20%, floored
// (8 -> 6).
const slowPenaltyFactor = 0.8

// PracticeUpdate is the outcome of one continuous mastery update.
type PracticeUpdate struct {
	Delta      int
	NewMastery int
	IsSlow     bool
}

// PracticeDelta applies the continuous mastery rule for a single
// practice answer. Mastery never regresses: incorrect answers leave it
// unchanged, and the result is clamped to [0,100].
func PracticeDelta(currentMastery int, skillID string, difficulty models.DifficultyTier, isCorrect bool, timeTaken time.Duration) PracticeUpdate {
	target := otherTargetTime
	if models.IsMathSkillID(skillID) {
		target = mathTargetTime
	}

	isSlow := difficulty == models.TierMedium && timeTaken > target

	delta := 0
	if isCorrect {
		switch difficulty {
		case models.TierHard:
			delta = deltaHard
		case models.TierMedium:
			delta = deltaMedium
		default:
			delta = deltaEasy
		}
		if isSlow {
			delta = int(float64(delta) * slowPenaltyFactor)
		}
	}

	return PracticeUpdate{
		Delta:      delta,
		NewMastery: clamp(currentMastery+delta, 0, 100),
		IsSlow:     isSlow,
	}
}
