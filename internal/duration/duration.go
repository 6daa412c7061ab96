// Package duration computes an adaptive recommended session length for a
// task instance: a focus duration, a recovery buffer, and the combined
// scheduling recommendation. All outputs are multiples of five minutes.
//
// The thresholds and multipliers here are product-tuned policy; none of
// them derive from anything physical.
package duration

import (
	"math"

	"plancal/internal/model"
)

// Input describes one task instance. Zero values fall back to documented
// defaults rather than failing: difficulty 3, cadence 3, balanced energy,
// archetype SKILL_ACQUISITION, shallow-work cognitive adjustment.
type Input struct {
	EstimatedMinutes   float64             `json:"estimated_minutes"`
	Archetype          model.Archetype     `json:"archetype"`
	CognitiveType      model.CognitiveType `json:"cognitive_type"`
	Difficulty         int                 `json:"difficulty"` // 1-5
	SubTaskCount       int                 `json:"sub_task_count"`
	EnergyCost         model.EnergyCost    `json:"energy_cost"`
	CadencePerWeek     int                 `json:"cadence_per_week"`
	SameDayLoadMinutes int                 `json:"same_day_load_minutes"`
}

// Output is the model's recommendation. FocusDurationMinutes is in
// [15,180], BufferMinutes in [5,45], ScheduledRecommendationMinutes in
// [20,210] and never below the focus duration.
type Output struct {
	FocusDurationMinutes           int `json:"focus_duration_minutes"`
	BufferMinutes                  int `json:"buffer_minutes"`
	ScheduledRecommendationMinutes int `json:"scheduled_recommendation_minutes"`
}

var archetypeBase = map[model.Archetype]float64{
	model.ArchetypeHabitBuilding:    30,
	model.ArchetypeDeepWorkProject:  80,
	model.ArchetypeSkillAcquisition: 50,
	model.ArchetypeMaintenance:      35,
}

var cognitiveAdjust = map[model.CognitiveType]float64{
	model.CognitiveDeepWork:    20,
	model.CognitiveLearning:    10,
	model.CognitiveCreative:    10,
	model.CognitiveAdmin:       -5,
	model.CognitiveShallowWork: -10,
}

var energyMultiplier = map[model.EnergyCost]float64{
	model.EnergyHighOctane: 1.08,
	model.EnergyBalanced:   1.00,
	model.EnergyRecovery:   0.82,
}

const (
	focusMin = 15
	focusMax = 180

	bufferMin = 5
	bufferMax = 45

	scheduledMin = 20
	scheduledMax = 210

	difficultyStepMinutes = 8

	highCadencePerWeek = 6 // sessions/week at which sessions shrink
	lowCadencePerWeek  = 2 // sessions/week at which sessions grow

	heavyLoadMinutes  = 360 // same-day load at which focus drops hardest
	mediumLoadMinutes = 240
	lightLoadMinutes  = 90
)

// Compute runs the ten-step heuristic. It is pure, total and deterministic.
func Compute(in Input) Output {
	base := in.EstimatedMinutes
	if math.IsNaN(base) || math.IsInf(base, 0) || base <= 0 {
		b, ok := archetypeBase[in.Archetype]
		if !ok {
			b = archetypeBase[model.ArchetypeSkillAcquisition]
		}
		base = b
	}

	adj, ok := cognitiveAdjust[in.CognitiveType]
	if !ok {
		adj = cognitiveAdjust[model.CognitiveShallowWork]
	}
	minutes := base + adj

	difficulty := in.Difficulty
	if difficulty == 0 {
		difficulty = 3
	}
	difficulty = clampInt(difficulty, 1, 5)
	minutes += float64(difficulty-3) * difficultyStepMinutes

	switch {
	case in.SubTaskCount >= 5:
		minutes += 10
	case in.SubTaskCount <= 1:
		minutes -= 5
	}

	energy, ok := energyMultiplier[in.EnergyCost]
	if !ok {
		energy = energyMultiplier[model.EnergyBalanced]
	}
	minutes *= energy

	cadence := in.CadencePerWeek
	if cadence == 0 {
		cadence = 3
	}
	if cadence < 1 {
		cadence = 1
	}
	switch {
	case cadence >= highCadencePerWeek:
		minutes *= 0.88
	case cadence <= lowCadencePerWeek:
		minutes *= 1.10
	}

	load := in.SameDayLoadMinutes
	switch {
	case load >= heavyLoadMinutes:
		minutes *= 0.80
	case load >= mediumLoadMinutes:
		minutes *= 0.90
	case load <= lightLoadMinutes:
		minutes *= 1.05
	}

	focus := clampInt(round5(minutes), focusMin, focusMax)

	raw := math.Max(5, 0.15*float64(focus)) + loadBuffer(load) + complexityBuffer(difficulty)
	buffer := clampInt(round5(raw), bufferMin, bufferMax)

	scheduled := clampInt(round5(float64(focus+buffer)), scheduledMin, scheduledMax)
	if scheduled < focus {
		scheduled = focus
	}

	return Output{
		FocusDurationMinutes:           focus,
		BufferMinutes:                  buffer,
		ScheduledRecommendationMinutes: scheduled,
	}
}

func loadBuffer(load int) float64 {
	switch {
	case load >= 300:
		return 10
	case load >= 180:
		return 5
	default:
		return 0
	}
}

func complexityBuffer(difficulty int) float64 {
	switch {
	case difficulty >= 4:
		return 10
	case difficulty == 3:
		return 5
	default:
		return 0
	}
}

// round5 rounds to the nearest multiple of 5 minutes, halves away from zero.
func round5(v float64) int {
	return int(math.Round(v/5)) * 5
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
