package engine

import (
	"fmt"
	"testing"
	"time"

	"github.com/SAP-F-2025/diagnostic-service/internal/models"
	"github.com/stretchr/testify/assert"
)

// routingResponses builds a routing response set with the given correct
// counts per tier, padding with incorrect Medium answers up to total.
func routingResponses(easy, medium, hard, total int) []models.ScoredResponse {
	var out []models.ScoredResponse
	now := time.Now()

	add := func(tier models.DifficultyTier, correct bool) {
		label := "A"
		scored := models.ScoredResponse{
			QuestionID:     fmt.Sprintf("Q%d", len(out)+1),
			Module:         models.ModuleRouting,
			SkillID:        "M_ALG_LIN1",
			Difficulty:     tier,
			SelectedLabel:  &label,
			CorrectLabel:   "A",
			IsCorrect:      correct,
			PointsPossible: 1,
			AnsweredAt:     now,
		}
		if correct {
			scored.PointsEarned = 1
		} else {
			scored.CorrectLabel = "B"
		}
		out = append(out, scored)
	}

	for i := 0; i < easy; i++ {
		add(models.TierEasy, true)
	}
	for i := 0; i < medium; i++ {
		add(models.TierMedium, true)
	}
	for i := 0; i < hard; i++ {
		add(models.TierHard, true)
	}
	for len(out) < total {
		add(models.TierMedium, false)
	}
	return out
}

func TestComputeRoute_Hard(t *testing.T) {
	// H=2, M=4 so M+H=6: both Hard conditions met.
	decision := ComputeRoute(routingResponses(0, 4, 2, 10))

	assert.Equal(t, models.TierHard, decision.Route)
	assert.Equal(t, 2, decision.Stats.HardCorrect)
	assert.Equal(t, 4, decision.Stats.MediumCorrect)
	assert.Equal(t, 6, decision.Stats.TotalCorrect)
}

func TestComputeRoute_Easy(t *testing.T) {
	// T=3 with no Hard correct routes Easy.
	decision := ComputeRoute(routingResponses(2, 1, 0, 10))

	assert.Equal(t, models.TierEasy, decision.Route)
	assert.Equal(t, 3, decision.Stats.TotalCorrect)
}

func TestComputeRoute_Medium(t *testing.T) {
	// T=5, H=1, M+H=3: neither Hard nor Easy conditions hold.
	decision := ComputeRoute(routingResponses(2, 2, 1, 10))

	assert.Equal(t, models.TierMedium, decision.Route)
	assert.Equal(t, 5, decision.Stats.TotalCorrect)
}

func TestComputeRoute_HardNeedsBothConditions(t *testing.T) {
	// H=2 but M+H=5 falls short of 6: not Hard.
	decision := ComputeRoute(routingResponses(4, 3, 2, 10))

	assert.Equal(t, models.TierMedium, decision.Route)
}

func TestComputeRoute_UnansweredAbsentFromCounts(t *testing.T) {
	responses := routingResponses(2, 1, 0, 5)
	// An unanswered item contributes to no count, not even total.
	responses = append(responses, models.ScoredResponse{
		QuestionID: "QX",
		Module:     models.ModuleRouting,
		SkillID:    "M_GEO_CIR",
		Difficulty: models.TierHard,
	})

	decision := ComputeRoute(responses)

	assert.Equal(t, models.TierEasy, decision.Route)
	assert.Equal(t, 5, decision.Stats.TotalResponses)
}

func TestComputeRoute_EmptyResponsesRoutesEasy(t *testing.T) {
	decision := ComputeRoute(nil)

	assert.Equal(t, models.TierEasy, decision.Route)
	assert.Zero(t, decision.Stats.TotalCorrect)
}

func TestComputeRoute_IgnoresStage2Responses(t *testing.T) {
	responses := routingResponses(2, 1, 0, 3)
	label := "A"
	responses = append(responses, models.ScoredResponse{
		QuestionID:    "S2",
		Module:        models.ModuleStage2Hard,
		Difficulty:    models.TierHard,
		SelectedLabel: &label,
		CorrectLabel:  "A",
		IsCorrect:     true,
	})

	decision := ComputeRoute(responses)

	assert.Equal(t, models.TierEasy, decision.Route)
	assert.Zero(t, decision.Stats.HardCorrect)
}
