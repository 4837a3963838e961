package integration

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

type joinQueueRequest struct {
	PlayerName string `json:"playerName"`
	Address    string `json:"address,omitempty"`
}

type choiceRequest struct {
	RoomID string `json:"roomId"`
	Choice string `json:"choice"`
}

type playerSnapshot struct {
	PlayerID    string `json:"playerId"`
	GoldInCamp  int    `json:"goldInCamp"`
	GoldCarried int    `json:"goldCarried"`
	IsOnRoad    bool   `json:"isOnRoad"`
}

type gameSnapshot struct {
	GameID        string           `json:"gameId"`
	RoomID        string           `json:"roomId"`
	CurrentRound  int              `json:"currentRound"`
	CurrentStep   int              `json:"currentStep"`
	RoadGolds     []int            `json:"roadGolds"`
	Players       []playerSnapshot `json:"players"`
	LastEventTick int64            `json:"lastEventTick"`
}

func TestThreePlayersStartGame(t *testing.T) {
	clients := make([]*TestClient, 3)
	for i := 0; i < 3; i++ {
		clients[i] = NewTestClient(t)
		defer clients[i].Close()
	}
	t.Log("Created 3 clients")

	matchID := clients[0].FindAndJoinHub(t)
	t.Logf("Client 0 joined hub: %s", matchID)

	for i := 1; i < 3; i++ {
		if _, err := clients[i].Socket.JoinMatch(context.Background(), nil, matchID, nil); err != nil {
			t.Fatalf("Client %d failed to join hub: %v", i, err)
		}
	}

	time.Sleep(1 * time.Second)

	names := []string{"Alice", "Bob", "Cara"}
	for i, c := range clients {
		c.SendJSON(t, matchID, OpJoinQueue, joinQueueRequest{PlayerName: names[i]})
	}

	for i, c := range clients {
		data := c.WaitForMatchState(t, OpGameStarted, 5*time.Second)

		var snapshot gameSnapshot
		if err := json.Unmarshal(data.Data, &snapshot); err != nil {
			t.Errorf("Client %d failed to unmarshal game snapshot: %v", i, err)
			continue
		}

		if len(snapshot.Players) != 3 {
			t.Errorf("Client %d expected 3 players, got %d", i, len(snapshot.Players))
		}
		if snapshot.CurrentRound != 1 {
			t.Errorf("Client %d expected round 1, got %d", i, snapshot.CurrentRound)
		}
		if len(snapshot.RoadGolds) == 0 || snapshot.RoadGolds[0] != 0 {
			t.Errorf("Client %d expected camp tile worth 0, got %v", i, snapshot.RoadGolds)
		}
		for _, p := range snapshot.Players {
			if !p.IsOnRoad {
				t.Errorf("Client %d expected player %s on road at game start", i, p.PlayerID)
			}
		}
	}

	t.Log("Game started with 3 players.")
}

func TestChoicesResolveStep(t *testing.T) {
	clients := make([]*TestClient, 3)
	for i := 0; i < 3; i++ {
		clients[i] = NewTestClient(t)
		defer clients[i].Close()
	}

	matchID := clients[0].FindAndJoinHub(t)
	for i := 1; i < 3; i++ {
		if _, err := clients[i].Socket.JoinMatch(context.Background(), nil, matchID, nil); err != nil {
			t.Fatalf("Client %d failed to join hub: %v", i, err)
		}
	}
	time.Sleep(1 * time.Second)

	for i, c := range clients {
		c.SendJSON(t, matchID, OpJoinQueue, joinQueueRequest{PlayerName: "P" + string(rune('A'+i))})
	}

	var start gameSnapshot
	data := clients[0].WaitForMatchState(t, OpGameStarted, 5*time.Second)
	if err := json.Unmarshal(data.Data, &start); err != nil {
		t.Fatalf("Failed to unmarshal game start: %v", err)
	}

	// Everyone advances; the cohort should move one step.
	for _, c := range clients {
		c.SendJSON(t, matchID, OpSubmitChoice, choiceRequest{RoomID: start.RoomID, Choice: "advance"})
	}

	update := clients[0].WaitForMatchState(t, OpGameUpdated, 5*time.Second)
	var snapshot gameSnapshot
	if err := json.Unmarshal(update.Data, &snapshot); err != nil {
		t.Fatalf("Failed to unmarshal game update: %v", err)
	}

	if snapshot.CurrentStep != 1 {
		t.Fatalf("Expected cohort at step 1 after simultaneous advance, got %d", snapshot.CurrentStep)
	}
	if snapshot.LastEventTick == 0 {
		t.Fatal("Expected event tick to advance after resolution")
	}
}
