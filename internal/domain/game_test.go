package domain

import (
	"testing"
)

func TestPlayerReturnToCamp(t *testing.T) {
	p := &Player{PlayerID: "p1", GoldInCamp: 5, GoldCarried: 7, IsOnRoad: true, Position: 3}
	p.ReturnToCamp()

	if p.GoldInCamp != 12 {
		t.Fatalf("GoldInCamp = %d, want 12", p.GoldInCamp)
	}
	if p.GoldCarried != 0 || p.IsOnRoad || p.Position != 0 {
		t.Fatalf("road state not cleared: %+v", p)
	}
}

func TestPlayerHitTrap(t *testing.T) {
	p := &Player{PlayerID: "p1", GoldInCamp: 5, GoldCarried: 7, IsOnRoad: true, Position: 3}
	p.HitTrap()

	if p.GoldCarried != 0 {
		t.Fatalf("carried gold should be lost, got %d", p.GoldCarried)
	}
	if p.GoldInCamp != 5 {
		t.Fatalf("camp gold must survive a trap, got %d", p.GoldInCamp)
	}
	if p.IsOnRoad {
		t.Fatal("player should be forced off the road")
	}
}

func TestPlayerResetForNewRound(t *testing.T) {
	p := &Player{PlayerID: "p1", GoldInCamp: 9, GoldCarried: 4, Position: 6}
	p.MakeChoice(ChoiceAdvance)
	p.ResetForNewRound()

	if p.GoldInCamp != 9 {
		t.Fatalf("camp gold must carry over rounds, got %d", p.GoldInCamp)
	}
	if !p.IsOnRoad || p.Position != 0 {
		t.Fatalf("player should start the round at the road mouth: %+v", p)
	}
	if p.HasMadeChoice || p.Choice != ChoiceNone {
		t.Fatalf("choice state should be cleared: %+v", p)
	}
}

func TestAllPlayersSelected(t *testing.T) {
	g := &Game{Players: []*Player{
		{PlayerID: "a", IsOnRoad: true},
		{PlayerID: "b", IsOnRoad: false},
		{PlayerID: "c", IsOnRoad: true},
	}}

	if g.AllPlayersSelected() {
		t.Fatal("on-road players without choices should block resolution")
	}

	g.Players[0].MakeChoice(ChoiceAdvance)
	g.Players[2].MakeChoice(ChoiceReturn)
	if !g.AllPlayersSelected() {
		t.Fatal("off-road players must not block resolution")
	}
}

func TestComputeRankings(t *testing.T) {
	players := []*Player{
		{PlayerID: "a", PlayerName: "A", GoldInCamp: 10},
		{PlayerID: "b", PlayerName: "B", GoldInCamp: 30},
		{PlayerID: "c", PlayerName: "C", GoldInCamp: 20},
	}

	rankings := ComputeRankings(players, 50)

	if rankings[0].PlayerID != "b" || rankings[1].PlayerID != "c" || rankings[2].PlayerID != "a" {
		t.Fatalf("unexpected order: %+v", rankings)
	}

	// Pot is 150. Shares: b=75, c=50, a=25.
	if rankings[0].Payout != 75 || rankings[1].Payout != 50 || rankings[2].Payout != 25 {
		t.Fatalf("unexpected payouts: %+v", rankings)
	}

	var sum int64
	for _, r := range rankings {
		sum += r.Payout
	}
	if sum != 150 {
		t.Fatalf("payouts sum = %d, want full pot 150", sum)
	}
}

func TestComputeRankings_LeftoverGoesToWinner(t *testing.T) {
	players := []*Player{
		{PlayerID: "a", GoldInCamp: 1},
		{PlayerID: "b", GoldInCamp: 1},
		{PlayerID: "c", GoldInCamp: 1},
	}

	// Pot 100 does not divide by 3; 100/3 = 33 each, leftover 1 to rank 1.
	rankings := ComputeRankings(players, 100)
	total := int64(100) * 3

	var sum int64
	for _, r := range rankings {
		sum += r.Payout
	}
	if sum != total {
		t.Fatalf("payouts sum = %d, want %d", sum, total)
	}
	if rankings[0].Payout <= rankings[1].Payout {
		t.Fatalf("rank 1 should absorb the leftover: %+v", rankings)
	}
}

func TestComputeRankings_ZeroTotalPaysNobody(t *testing.T) {
	players := []*Player{
		{PlayerID: "a"},
		{PlayerID: "b"},
		{PlayerID: "c"},
	}

	for _, r := range ComputeRankings(players, 50) {
		if r.Payout != 0 {
			t.Fatalf("expected zero payout for %s, got %d", r.PlayerID, r.Payout)
		}
	}
}

func TestComputeRankings_StableForTies(t *testing.T) {
	players := []*Player{
		{PlayerID: "first", GoldInCamp: 10},
		{PlayerID: "second", GoldInCamp: 10},
		{PlayerID: "third", GoldInCamp: 10},
	}

	rankings := ComputeRankings(players, 30)
	if rankings[0].PlayerID != "first" || rankings[1].PlayerID != "second" || rankings[2].PlayerID != "third" {
		t.Fatalf("tie order should match roster order: %+v", rankings)
	}
}
