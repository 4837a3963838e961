package domain

import (
	"math/rand"
	"testing"
)

func TestGenerateTrack(t *testing.T) {
	settings := DefaultSettings()

	for seed := int64(0); seed < 20; seed++ {
		rng := rand.New(rand.NewSource(seed))
		road := GenerateTrack(rng, settings)

		if len(road) != settings.TotalSteps+1 {
			t.Fatalf("seed %d: road length = %d, want %d", seed, len(road), settings.TotalSteps+1)
		}
		if road[0] != 0 {
			t.Fatalf("seed %d: camp tile = %d, want 0", seed, road[0])
		}
		if got := CountTraps(road); got != settings.TotalTraps {
			t.Fatalf("seed %d: trap count = %d, want %d", seed, got, settings.TotalTraps)
		}
		for i := 1; i <= settings.TotalSteps; i++ {
			tile := road[i]
			if tile == TrapTile {
				continue
			}
			if tile < 1 || tile > settings.MaxGoldPerStep {
				t.Fatalf("seed %d: tile %d value = %d, want 1..%d", seed, i, tile, settings.MaxGoldPerStep)
			}
		}
	}
}

func TestGenerateTrack_AllTraps(t *testing.T) {
	settings := Settings{TotalSteps: 4, TotalTraps: 4, MaxGoldPerStep: 5}
	road := GenerateTrack(rand.New(rand.NewSource(1)), settings)

	if got := CountTraps(road); got != 4 {
		t.Fatalf("trap count = %d, want 4", got)
	}
}

func TestSettingsNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   Settings
		want Settings
	}{
		{
			name: "defaults pass through",
			in:   DefaultSettings(),
			want: DefaultSettings(),
		},
		{
			name: "zero values clamped",
			in:   Settings{},
			want: Settings{TotalRounds: 1, TotalSteps: 2, TotalTraps: 2, MaxGoldPerStep: 1},
		},
		{
			name: "traps capped at steps",
			in:   Settings{TotalRounds: 2, TotalSteps: 3, TotalTraps: 10, MaxGoldPerStep: 4},
			want: Settings{TotalRounds: 2, TotalSteps: 3, TotalTraps: 3, MaxGoldPerStep: 4},
		},
		{
			name: "negative fee zeroed",
			in:   Settings{EntranceFee: -5, TotalRounds: 1, TotalSteps: 5, TotalTraps: 2, MaxGoldPerStep: 3},
			want: Settings{TotalRounds: 1, TotalSteps: 5, TotalTraps: 2, MaxGoldPerStep: 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Normalize(); got != tt.want {
				t.Fatalf("Normalize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
