package domain

import "math/rand"

// TrapTile is the sentinel marking a trap on the road.
const TrapTile = -1

// GenerateTrack builds the per-round road: index 0 is the camp (always 0),
// indices 1..TotalSteps hold either 1..MaxGoldPerStep gold or TrapTile.
// Exactly TotalTraps distinct trap positions are drawn from 1..TotalSteps.
func GenerateTrack(rng *rand.Rand, s Settings) []int {
	traps := make(map[int]bool, s.TotalTraps)
	for len(traps) < s.TotalTraps {
		traps[rng.Intn(s.TotalSteps)+1] = true
	}

	road := make([]int, s.TotalSteps+1)
	road[0] = 0
	for i := 1; i <= s.TotalSteps; i++ {
		if traps[i] {
			road[i] = TrapTile
		} else {
			road[i] = rng.Intn(s.MaxGoldPerStep) + 1
		}
	}
	return road
}

// CountTraps returns the number of trap tiles on a road.
func CountTraps(road []int) int {
	n := 0
	for _, tile := range road {
		if tile == TrapTile {
			n++
		}
	}
	return n
}
