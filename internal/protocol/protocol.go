// Package protocol defines the wire payloads exchanged between the Gold Road
// server and its clients. Payloads travel as JSON over Nakama match data
// messages, identified by the op codes below.
package protocol

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpJoinQueue       int64 = 1
	OpSubmitChoice    int64 = 2
	OpRequestContinue int64 = 3
	OpLeaveRoom       int64 = 4

	// Server -> Client events
	OpRoomAssigned    int64 = 101
	OpRoomUpdated     int64 = 102
	OpGameStarted     int64 = 103
	OpGameUpdated     int64 = 104
	OpGameOver        int64 = 105
	OpReturnedToRoom  int64 = 106
	OpReturnedToLobby int64 = 107
	OpActionAck       int64 = 108
)

// JoinQueueRequest asks the server to seat the sender in a room.
type JoinQueueRequest struct {
	PlayerName string `json:"playerName"`
	// Address is the payout address used for on-chain settlement.
	Address string `json:"address,omitempty"`
}

// ChoiceRequest submits the sender's decision for the current step.
type ChoiceRequest struct {
	RoomID string `json:"roomId"`
	Choice string `json:"choice"` // "advance" or "return"
}

// ContinueRequest marks the sender ready for the next game in their room.
type ContinueRequest struct {
	RoomID string `json:"roomId"`
}

// LeaveRequest removes the sender from their room.
type LeaveRequest struct {
	RoomID string `json:"roomId"`
}

// Ack is the per-action acknowledgement sent back to the requester.
type Ack struct {
	Ok            bool     `json:"ok"`
	Action        string   `json:"action,omitempty"`
	Error         string   `json:"error,omitempty"`
	RoomID        string   `json:"roomId,omitempty"`
	Waiting       bool     `json:"waiting,omitempty"`
	RoomFull      bool     `json:"roomFull,omitempty"`
	EveryoneReady bool     `json:"everyoneReady,omitempty"`
	ReadyPlayers  []string `json:"readyPlayers,omitempty"`
}
