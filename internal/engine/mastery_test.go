package engine

import (
	"fmt"
	"testing"
	"time"

	"github.com/SAP-F-2025/diagnostic-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skillResponse(skillID string, tier models.DifficultyTier, correct, answered bool) models.ScoredResponse {
	r := models.ScoredResponse{
		QuestionID:     fmt.Sprintf("%s-%s-%v-%d", skillID, tier, correct, time.Now().UnixNano()),
		Module:         models.ModuleStage2Medium,
		SkillID:        skillID,
		Difficulty:     tier,
		CorrectLabel:   "A",
		IsCorrect:      answered && correct,
		PointsPossible: 1,
		AnsweredAt:     time.Now(),
	}
	if answered {
		label := "A"
		if !correct {
			label = "B"
		}
		r.SelectedLabel = &label
	}
	if r.IsCorrect {
		r.PointsEarned = 1
	}
	return r
}

func TestSeededMastery_NoEvidenceIsNeutral(t *testing.T) {
	assert.Equal(t, 50, SeededMastery(nil))

	// Unanswered responses are not evidence either.
	rs := []models.ScoredResponse{skillResponse("M_ALG_LIN1", models.TierHard, false, false)}
	assert.Equal(t, 50, SeededMastery(rs))
}

func TestSeededMastery_AlwaysWithinBounds(t *testing.T) {
	// A long run of all-incorrect answers must not reach 0.
	var wrong []models.ScoredResponse
	for i := 0; i < 20; i++ {
		wrong = append(wrong, skillResponse("M_ALG_LIN1", models.TierHard, false, true))
	}
	assert.GreaterOrEqual(t, SeededMastery(wrong), 5)

	// A long run of all-correct answers must not reach 100.
	var right []models.ScoredResponse
	for i := 0; i < 20; i++ {
		right = append(right, skillResponse("M_ALG_LIN1", models.TierHard, true, true))
	}
	assert.LessOrEqual(t, SeededMastery(right), 95)
}

func TestSeededMastery_ShrinksTowardPrior(t *testing.T) {
	// One wrong Easy answer: (0 + 4*0.7) / (1 + 4) = 0.56 -> 56.
	rs := []models.ScoredResponse{skillResponse("M_ALG_LIN1", models.TierEasy, false, true)}
	assert.Equal(t, 56, SeededMastery(rs))

	// One right Easy answer: (1 + 2.8) / 5 = 0.76 -> 76.
	rs = []models.ScoredResponse{skillResponse("M_ALG_LIN1", models.TierEasy, true, true)}
	assert.Equal(t, 76, SeededMastery(rs))
}

func TestSeededMastery_MonotonicInCorrectCount(t *testing.T) {
	// For a fixed total, each additional correct answer never lowers the
	// estimate.
	const total = 8
	prev := -1
	for correct := 0; correct <= total; correct++ {
		var rs []models.ScoredResponse
		for i := 0; i < correct; i++ {
			rs = append(rs, skillResponse("M_ALG_LIN1", models.TierMedium, true, true))
		}
		for i := correct; i < total; i++ {
			rs = append(rs, skillResponse("M_ALG_LIN1", models.TierMedium, false, true))
		}
		got := SeededMastery(rs)
		assert.GreaterOrEqual(t, got, prev, "correct=%d", correct)
		assert.GreaterOrEqual(t, got, 5)
		assert.LessOrEqual(t, got, 95)
		prev = got
	}
}

func TestSeededMastery_HarderItemsWeighMore(t *testing.T) {
	hardRight := []models.ScoredResponse{
		skillResponse("S", models.TierHard, true, true),
		skillResponse("S", models.TierEasy, false, true),
	}
	easyRight := []models.ScoredResponse{
		skillResponse("S", models.TierEasy, true, true),
		skillResponse("S", models.TierHard, false, true),
	}
	assert.Greater(t, SeededMastery(hardRight), SeededMastery(easyRight))
}

func TestLevelFromAccuracy(t *testing.T) {
	assert.Equal(t, models.LevelMastery, LevelFromAccuracy(0.8))
	assert.Equal(t, models.LevelProficient, LevelFromAccuracy(0.6))
	assert.Equal(t, models.LevelDeveloping, LevelFromAccuracy(0.4))
	assert.Equal(t, models.LevelNeedsHelp, LevelFromAccuracy(0.39))
}

func TestFinalize_EndToEnd(t *testing.T) {
	var responses []models.ScoredResponse

	// Skill A: 1/3 correct, skill B: 3/3 correct, skill C: 0/2 correct.
	responses = append(responses,
		skillResponse("M_ALG_LIN1", models.TierEasy, true, true),
		skillResponse("M_ALG_LIN1", models.TierMedium, false, true),
		skillResponse("M_ALG_LIN1", models.TierMedium, false, true),
		skillResponse("M_GEO_CIR", models.TierMedium, true, true),
		skillResponse("M_GEO_CIR", models.TierMedium, true, true),
		skillResponse("M_GEO_CIR", models.TierHard, true, true),
		skillResponse("M_PSD_PCT", models.TierEasy, false, true),
		skillResponse("M_PSD_PCT", models.TierEasy, false, true),
	)

	result := Finalize(responses)

	require.Len(t, result.MasteryBySkill, 3)
	for skillID, pct := range result.MasteryBySkill {
		assert.GreaterOrEqual(t, pct, 5, skillID)
		assert.LessOrEqual(t, pct, 95, skillID)
	}

	// Weakest first in both the stats and the recommendation list.
	require.NotEmpty(t, result.SkillStats)
	assert.Equal(t, "M_PSD_PCT", result.SkillStats[0].SkillID)
	assert.Equal(t, models.LevelNeedsHelp, result.SkillStats[0].Level)
	require.Len(t, result.RecommendedSkills, 3)
	assert.Equal(t, "M_PSD_PCT", result.RecommendedSkills[0])

	// Daily priority is the lowest seeded mastery.
	assert.Equal(t, "M_PSD_PCT", result.DailySkillID)
	assert.Less(t, result.MasteryBySkill["M_PSD_PCT"], result.MasteryBySkill["M_GEO_CIR"])
}

func TestFinalize_CapsRecommendations(t *testing.T) {
	var responses []models.ScoredResponse
	for i := 0; i < 9; i++ {
		responses = append(responses, skillResponse(fmt.Sprintf("M_SKILL_%d", i), models.TierMedium, false, true))
	}

	result := Finalize(responses)

	assert.Len(t, result.RecommendedSkills, MaxRecommendedSkills)
}

func TestFinalize_ExcludesUnansweredAndUnresolved(t *testing.T) {
	responses := []models.ScoredResponse{
		skillResponse("M_ALG_LIN1", models.TierMedium, true, true),
		skillResponse("M_ALG_LIN1", models.TierHard, false, false), // unanswered
		skillResponse("", models.TierMedium, true, true),           // unresolved skill
	}

	result := Finalize(responses)

	require.Len(t, result.MasteryBySkill, 1)
	require.Len(t, result.SkillStats, 1)
	// Only the single answered response counted.
	assert.Equal(t, 1, result.SkillStats[0].Total)
}

func TestFinalize_NoResponses(t *testing.T) {
	result := Finalize(nil)

	assert.Empty(t, result.MasteryBySkill)
	assert.Empty(t, result.RecommendedSkills)
	assert.Empty(t, result.DailySkillID)
}
