package services

import (
	"math"

	"github.com/The-Birdheads/life-os/models"
)

// Breakdown is the legacy weighted-blend score for one day. It is derived
// on the fly for the record view and analytics; it is never persisted.
type Breakdown struct {
	TaskTotal     float64 `json:"task_total"`
	ActionTotal   float64 `json:"action_total"`
	TotalScore    float64 `json:"total_score"`
	TaskRatio     float64 `json:"task_ratio"`
	ActionRatio   float64 `json:"action_ratio"`
	BalanceFactor float64 `json:"balance_factor"`
	Fulfillment   float64 `json:"fulfillment"`
}

// ComputeFulfillment blends completed-task weights and logged-action
// volumes into one number. Tasks contribute their priority weight when
// active and done today. Action entries contribute the action's want
// score scaled by satisfaction (unset counts as 3, clamped to 1..5, /5).
// Entries pointing at a missing or inactive action contribute nothing.
//
// The balance factor rewards days where the two sides contribute evenly:
// a day that is 100% tasks scores lower than an even mix at the same raw
// total. With a zero total everything, ratios included, is zero.
func ComputeFulfillment(tasks []models.Task, actions []models.Action, doneTaskIDs map[string]bool, entries []models.ActionEntry) Breakdown {
	var b Breakdown

	for _, t := range tasks {
		if t.IsActive && doneTaskIDs[t.ID] {
			b.TaskTotal += safeScore(t.Priority)
		}
	}

	actionByID := make(map[string]models.Action, len(actions))
	for _, a := range actions {
		actionByID[a.ID] = a
	}

	for _, e := range entries {
		a, ok := actionByID[e.ActionID]
		if !ok || !a.IsActive {
			continue
		}
		sat := 3.0
		if e.Satisfaction != nil {
			sat = float64(*e.Satisfaction)
		}
		weight := math.Min(5, math.Max(1, sat)) / 5
		b.ActionTotal += safeScore(a.WantScore) * weight
	}

	b.TotalScore = b.TaskTotal + b.ActionTotal
	if b.TotalScore == 0 {
		return b
	}

	b.TaskRatio = b.TaskTotal / b.TotalScore
	b.ActionRatio = b.ActionTotal / b.TotalScore
	b.BalanceFactor = 1 - math.Abs(b.TaskRatio-b.ActionRatio)
	b.Fulfillment = b.TotalScore * (0.5 + 0.5*b.BalanceFactor)
	return b
}

// ValidateFulfillment checks a user-entered day rating. Values that are
// finite integers-after-truncation in [1,100] pass; everything else maps
// to nil and is stored as null rather than rejected with an error.
func ValidateFulfillment(raw float64) *int {
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return nil
	}
	if raw < 1 || raw > 100 {
		return nil
	}
	v := int(math.Trunc(raw))
	return &v
}

// safeScore coerces a stored weight to a usable number. Negative values
// come from hand-edited rows and count as zero.
func safeScore(v int) float64 {
	if v < 0 {
		return 0
	}
	return float64(v)
}
