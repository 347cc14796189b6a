package app

import "math"

// minScoreFactor is the floor applied to the latency scaling: a correct answer
// never earns less than 30% of the question's base points.
const minScoreFactor = 0.3

// ComputeScore converts correctness and answer latency into points.
// Wrong answers earn 0. Correct answers earn basePoints scaled down linearly
// by how much of the time limit elapsed before the answer arrived, floored at
// minScoreFactor. Pure and total; callers must pass non-negative latencyMs.
func ComputeScore(correct bool, basePoints, timeLimitSec int, latencyMs int64) int {
	if !correct {
		return 0
	}
	limitMs := float64(max(1, timeLimitSec)) * 1000
	factor := 1 - float64(latencyMs)/limitMs
	if factor < minScoreFactor {
		factor = minScoreFactor
	}
	return int(math.Round(float64(basePoints) * factor))
}
