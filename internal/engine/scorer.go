// Package engine holds the pure diagnostic and mastery math: response
// scoring, routing, the batch mastery estimator and the per-answer
// practice update. Nothing in here touches storage or the network so the
// whole package is unit-testable in isolation.
package engine

import (
	"time"

	"github.com/SAP-F-2025/diagnostic-service/internal/models"
)

// Submission is a student's raw answer to one question. A nil
// SelectedLabel means the item was never answered (time expired or
// skipped).
type Submission struct {
	SelectedLabel *string
	TimeTakenMs   *int64
}

// ScoreResponse maps a question and a submission into a scored record.
// A nil selection earns 0 points, identical to a wrong answer for
// scoring; it stays distinguishable downstream via Answered() for
// user-facing warnings and for the mastery estimator's exclusion rule.
func ScoreResponse(q *models.Question, module models.ModuleName, sub Submission, now time.Time) models.ScoredResponse {
	isCorrect := sub.SelectedLabel != nil && *sub.SelectedLabel == q.CorrectLabel

	points := 0
	if isCorrect {
		points = q.PointsPossible()
	}

	return models.ScoredResponse{
		QuestionID:     q.ID,
		Module:         module,
		SkillID:        q.SkillID,
		Difficulty:     q.Difficulty,
		SelectedLabel:  sub.SelectedLabel,
		CorrectLabel:   q.CorrectLabel,
		IsCorrect:      isCorrect,
		PointsEarned:   points,
		PointsPossible: q.PointsPossible(),
		TimeTakenMs:    sub.TimeTakenMs,
		AnsweredAt:     now,
	}
}

// UpsertResponse replaces the response with the same question id, or
// appends when none exists. Last write wins; the operation is idempotent
// so re-answering before submission leaves exactly one record per item.
func UpsertResponse(responses []models.ScoredResponse, next models.ScoredResponse) []models.ScoredResponse {
	for i, r := range responses {
		if r.QuestionID == next.QuestionID && r.Module == next.Module {
			out := make([]models.ScoredResponse, len(responses))
			copy(out, responses)
			out[i] = next
			return out
		}
	}
	out := make([]models.ScoredResponse, 0, len(responses)+1)
	out = append(out, responses...)
	return append(out, next)
}

// UnansweredQuestions returns, in battery order, the ids of module items
// that are either missing from the response set or recorded with a nil
// selection. Used for the review warning before a manual submit.
func UnansweredQuestions(questionIDs []string, responses []models.ScoredResponse, module models.ModuleName) []string {
	byID := make(map[string]models.ScoredResponse, len(responses))
	for _, r := range responses {
		if r.Module == module {
			byID[r.QuestionID] = r
		}
	}

	var unanswered []string
	for _, qid := range questionIDs {
		r, ok := byID[qid]
		if !ok || !r.Answered() {
			unanswered = append(unanswered, qid)
		}
	}
	return unanswered
}
