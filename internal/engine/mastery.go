package engine

import (
	"math"
	"sort"

	"github.com/SAP-F-2025/diagnostic-service/internal/models"
)

// Difficulty weights: harder items carry more evidentiary weight in the
// seeded mastery estimate.
const (
	weightEasy   = 1.0
	weightMedium = 1.4
	weightHard   = 1.8
)

// Shrinkage prior: equivalent to 4 phantom medium-weight observations at
// 70% accuracy. Keeps a lone answer on a rarely-tested skill from
// producing a 0% or 100% estimate.
const (
	PriorMean     = 0.70
	PriorStrength = 4.0
)

// Mastery bounds for diagnostic seeding. Only continuous practice may
// approach 0 or 100.
const (
	seededMasteryFloor   = 5
	seededMasteryCeiling = 95
	neutralMastery       = 50
)

// MaxRecommendedSkills caps the practice plan produced at finalization.
const MaxRecommendedSkills = 6

// FinalizeResult is everything the session finalizer derives from the
// combined Routing + Stage-2 response set.
type FinalizeResult struct {
	// skillID -> seeded mastery percent, clamped to [5,95].
	MasteryBySkill map[string]int
	// Weakest-first accuracy report for the student-facing summary.
	SkillStats []models.SkillStat
	// Up to MaxRecommendedSkills lowest-accuracy skills, weakest first.
	RecommendedSkills []string
	// Lowest seeded mastery; empty when no skill produced an estimate.
	DailySkillID string
}

func difficultyWeight(d models.DifficultyTier) float64 {
	switch d {
	case models.TierHard:
		return weightHard
	case models.TierMedium:
		return weightMedium
	default:
		return weightEasy
	}
}

// SeededMastery computes the weighted shrinkage estimate for one skill's
// responses. Unanswered responses are excluded from the evidence — this
// deliberately differs from the routing formula and from raw scoring.
// With no answered items the estimate is a neutral 50.
func SeededMastery(responses []models.ScoredResponse) int {
	var wTotal, wCorrect float64

	for _, r := range responses {
		if !r.Answered() {
			continue
		}
		w := difficultyWeight(r.Difficulty)
		wTotal += w
		if r.IsCorrect {
			wCorrect += w
		}
	}

	if wTotal == 0 {
		return neutralMastery
	}

	p := (wCorrect + PriorStrength*PriorMean) / (wTotal + PriorStrength)
	pct := int(math.Round(p * 100))

	return clamp(pct, seededMasteryFloor, seededMasteryCeiling)
}

// LevelFromAccuracy maps a points-accuracy ratio to the four-level
// qualitative label ladder.
func LevelFromAccuracy(acc float64) models.MasteryLevel {
	switch {
	case acc >= 0.8:
		return models.LevelMastery
	case acc >= 0.6:
		return models.LevelProficient
	case acc >= 0.4:
		return models.LevelDeveloping
	default:
		return models.LevelNeedsHelp
	}
}

// Finalize collapses every scored response across both modules into the
// per-skill mastery map, the accuracy report, the practice plan and the
// daily priority skill. Responses whose skill id is empty cannot be
// resolved and are ignored throughout.
func Finalize(responses []models.ScoredResponse) FinalizeResult {
	answered := make([]models.ScoredResponse, 0, len(responses))
	for _, r := range responses {
		if r.Answered() && r.SkillID != "" {
			answered = append(answered, r)
		}
	}

	// Unweighted per-skill accuracy for the human-readable report.
	type skillAgg struct {
		correct, total           int
		pointsEarned, pointsPoss int
	}
	aggBySkill := make(map[string]*skillAgg)
	var skillOrder []string
	for _, r := range answered {
		agg, ok := aggBySkill[r.SkillID]
		if !ok {
			agg = &skillAgg{}
			aggBySkill[r.SkillID] = agg
			skillOrder = append(skillOrder, r.SkillID)
		}
		agg.total++
		if r.IsCorrect {
			agg.correct++
		}
		agg.pointsEarned += r.PointsEarned
		agg.pointsPoss += r.PointsPossible
	}

	stats := make([]models.SkillStat, 0, len(skillOrder))
	for _, skillID := range skillOrder {
		agg := aggBySkill[skillID]
		acc := float64(agg.correct) / float64(agg.total)
		ptsAcc := acc
		if agg.pointsPoss > 0 {
			ptsAcc = float64(agg.pointsEarned) / float64(agg.pointsPoss)
		}
		stats = append(stats, models.SkillStat{
			SkillID:        skillID,
			Correct:        agg.correct,
			Total:          agg.total,
			Accuracy:       round3(acc),
			PointsAccuracy: round3(ptsAcc),
			Level:          LevelFromAccuracy(ptsAcc),
		})
	}

	// Weakest first; ties keep first-seen order.
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].PointsAccuracy < stats[j].PointsAccuracy
	})

	recommended := make([]string, 0, MaxRecommendedSkills)
	for _, s := range stats {
		if len(recommended) == MaxRecommendedSkills {
			break
		}
		recommended = append(recommended, s.SkillID)
	}

	// Weighted shrinkage estimates over all answered responses per skill.
	responsesBySkill := make(map[string][]models.ScoredResponse)
	for _, r := range answered {
		responsesBySkill[r.SkillID] = append(responsesBySkill[r.SkillID], r)
	}

	mastery := make(map[string]int, len(responsesBySkill))
	for skillID, rs := range responsesBySkill {
		mastery[skillID] = SeededMastery(rs)
	}

	return FinalizeResult{
		MasteryBySkill:    mastery,
		SkillStats:        stats,
		RecommendedSkills: recommended,
		DailySkillID:      lowestMasterySkill(mastery, skillOrder),
	}
}

// lowestMasterySkill picks the daily priority skill: lowest seeded
// mastery, ties broken by the order skills first appeared in the
// response set so the selection is deterministic.
func lowestMasterySkill(mastery map[string]int, order []string) string {
	best := ""
	bestPct := 0
	for _, skillID := range order {
		pct, ok := mastery[skillID]
		if !ok {
			continue
		}
		if best == "" || pct < bestPct {
			best = skillID
			bestPct = pct
		}
	}
	return best
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
