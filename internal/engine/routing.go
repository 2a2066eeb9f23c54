package engine

import (
	"github.com/SAP-F-2025/diagnostic-service/internal/models"
)

// RouteDecision is the outcome of the routing module: the Stage-2 tier
// plus the per-tier correct counts kept for audit.
type RouteDecision struct {
	Route models.DifficultyTier
	Stats models.RoutingStats
}

// ComputeRoute decides the Stage-2 tier from the routing module's scored
// responses. Unanswered items contribute to no count at all — they are
// absent from the formula, not recorded as incorrect.
//
// Rules, in priority order over correct counts E/M/H (T = E+M+H):
//
//	Hard   if H >= 2 and M+H >= 6
//	Easy   if T <= 3
//	Medium otherwise
//
// The decision is identical whether triggered by manual submit or by
// timer expiry; the caller records which.
func ComputeRoute(responses []models.ScoredResponse) RouteDecision {
	var easy, medium, hard, total int

	for _, r := range responses {
		if r.Module != models.ModuleRouting || !r.Answered() {
			continue
		}
		total++
		if !r.IsCorrect {
			continue
		}
		switch r.Difficulty {
		case models.TierEasy:
			easy++
		case models.TierMedium:
			medium++
		case models.TierHard:
			hard++
		}
	}

	correct := easy + medium + hard

	route := models.TierMedium
	switch {
	case hard >= 2 && medium+hard >= 6:
		route = models.TierHard
	case correct <= 3:
		route = models.TierEasy
	}

	return RouteDecision{
		Route: route,
		Stats: models.RoutingStats{
			EasyCorrect:    easy,
			MediumCorrect:  medium,
			HardCorrect:    hard,
			TotalCorrect:   correct,
			TotalResponses: total,
		},
	}
}
