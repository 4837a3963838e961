package nakama

const (
	// RpcQuickMatch is the Nakama RPC id clients call to find or create the hub match.
	RpcQuickMatch = "quick_match"

	// MatchNameGoldRoad is the authoritative match handler name registered with Nakama.
	MatchNameGoldRoad = "goldroad_match"
)
