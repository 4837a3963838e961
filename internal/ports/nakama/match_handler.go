package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"goldroad/internal/app"
	"goldroad/internal/bot"
	"goldroad/internal/config"
	"goldroad/internal/domain"
	"goldroad/internal/ports"
	"goldroad/internal/ports/chain"
	"goldroad/internal/protocol"

	"github.com/heroiclabs/nakama-common/runtime"
)

// matchLabel is the JSON label published for the hub match so the
// quick_match RPC can find it.
type matchLabel struct {
	Game  string `json:"game"`
	Open  int    `json:"open"`
	Phase string `json:"phase"`
}

// MatchState holds the authoritative runtime state for the hub match. A
// single hub hosts every room and game through the session directory.
type MatchState struct {
	Tick      int64
	Presences map[string]runtime.Presence
	Directory *app.Directory
	Wallet    ports.WalletPort

	BotsEnabled      bool
	BotMinDelay      int
	BotMaxDelay      int
	BotAutoFillDelay int

	// roomWaitingSince tracks when an under-full room started waiting for
	// bot auto-fill, keyed by room id.
	roomWaitingSince map[string]int64
	// botWaitUntil schedules the next bot action per room.
	botWaitUntil map[string]int64
	// botAgents maps room id to the agents seated there.
	botAgents map[string][]*bot.Agent
	// botSerial backs synthesized identities once the pool is exhausted.
	botSerial int

	rng *rand.Rand
}

// nextFreeBotIdentity picks a pool identity not currently seated anywhere,
// synthesizing one when the pool is exhausted. Rooms run concurrently in the
// hub, so an identity must never sit in two rooms at once.
func (ms *MatchState) nextFreeBotIdentity() bot.BotIdentity {
	for i := 0; i < bot.PoolSize(); i++ {
		identity := bot.GetBotIdentity(i)
		if ms.Directory.GetPlayer(identity.UserID) == nil {
			return identity
		}
	}

	ms.botSerial++
	temperament := bot.TemperamentCautious
	if ms.botSerial%2 == 0 {
		temperament = bot.TemperamentBold
	}
	return bot.BotIdentity{
		UserID:      fmt.Sprintf("bot_%d", ms.botSerial),
		DisplayName: fmt.Sprintf("Expedition Bot %d", ms.botSerial),
		Temperament: temperament,
	}
}

func (ms *MatchState) humanCount() int {
	return len(ms.Presences)
}

func newMatchHandler() runtime.Match {
	return &matchHandler{}
}

type matchHandler struct{}

// MatchInit is called when the hub match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing hub match handler.")

	if err := bot.LoadIdentities("data/bot_identities.json"); err != nil {
		logger.Warn("MatchInit: Could not load bot identities: %v", err)
	}

	if err := config.LoadGameConfig("data/game_config.json"); err != nil {
		logger.Warn("MatchInit: Could not load game config: %v", err)
	}
	gameCfg := config.GetGameConfig()

	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)

	// The chain gateway is optional; without a URL and signing secret the
	// server runs off-chain only.
	var settlement ports.SettlementPort
	gatewayURL := ""
	issuer := "goldroad"
	if gameCfg != nil {
		gatewayURL = gameCfg.ChainGatewayURL
		if gameCfg.ChainTokenIssuer != "" {
			issuer = gameCfg.ChainTokenIssuer
		}
	}
	if url, ok := env["goldroad_chain_gateway_url"]; ok && url != "" {
		gatewayURL = url
	}
	secret := env["goldroad_chain_secret"]
	if gatewayURL != "" && secret != "" {
		tokens := app.NewChainTokenService(secret, issuer)
		settlement = chain.NewGateway(gatewayURL, tokens)
		logger.Info("MatchInit: Chain gateway enabled at %s", gatewayURL)
	} else {
		logger.Info("MatchInit: Chain gateway disabled, running off-chain.")
	}

	svc := app.NewService(nil, settlement, config.Settings())
	state := &MatchState{
		Presences:        make(map[string]runtime.Presence),
		Directory:        app.NewDirectory(svc, nil),
		Wallet:           NewNakamaWalletAdapter(nk),
		BotsEnabled:      true,
		roomWaitingSince: make(map[string]int64),
		botWaitUntil:     make(map[string]int64),
		botAgents:        make(map[string][]*bot.Agent),
		rng:              rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	if gameCfg != nil {
		state.BotMinDelay = gameCfg.BotMinDelaySeconds
		state.BotMaxDelay = gameCfg.BotMaxDelaySeconds
		state.BotAutoFillDelay = gameCfg.BotAutoFillDelaySeconds
	}
	if val, ok := env["goldroad_bots_enabled"]; ok {
		state.BotsEnabled = val == "true"
	}
	if val, ok := env["goldroad_bot_min_delay_sec"]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			state.BotMinDelay = i
		}
	}
	if val, ok := env["goldroad_bot_max_delay_sec"]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			state.BotMaxDelay = i
		}
	}
	if val, ok := env["goldroad_bot_auto_fill_delay_sec"]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			state.BotAutoFillDelay = i
		}
	}

	if state.BotMinDelay == 0 {
		state.BotMinDelay = 1
	}
	if state.BotMaxDelay < state.BotMinDelay {
		state.BotMaxDelay = state.BotMinDelay + 2
	}
	if state.BotAutoFillDelay == 0 {
		state.BotAutoFillDelay = 10
	}

	label := matchLabel{Game: "goldroad", Open: 1, Phase: "lobby"}
	labelBytes, err := json.Marshal(label)
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}

	tickRate := 1
	return state, tickRate, string(labelBytes)
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	if _, ok := state.(*MatchState); !ok {
		return state, false, "state not found"
	}
	// The hub match itself is never full; room capacity is enforced when
	// the player joins the queue.
	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		matchState.Presences[p.GetUserId()] = p
		logger.Debug("MatchJoin: User %s connected to hub.", p.GetUserId())
	}

	return matchState
}

// MatchLeave is called when one or more players disconnect from the hub.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		userID := p.GetUserId()
		delete(matchState.Presences, userID)

		if room := matchState.Directory.RoomForPlayer(userID); room != nil {
			events, err := matchState.Directory.LeaveRoom(room.RoomID, userID)
			if err != nil {
				logger.Warn("MatchLeave: Failed to remove %s from room %s: %v", userID, room.RoomID, err)
			}
			for _, ev := range events {
				mh.broadcastEvent(ctx, matchState, dispatcher, logger, ev)
			}
			mh.evictBotOnlyRoom(ctx, matchState, dispatcher, logger, room.RoomID)
		}
		matchState.Directory.RemovePlayer(userID)
	}

	if matchState.humanCount() == 0 {
		logger.Info("MatchLeave: Terminating hub with no humans.")
		return nil
	}

	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick

	for _, msg := range messages {
		switch msg.GetOpCode() {
		case protocol.OpJoinQueue:
			mh.handleJoinQueue(ctx, matchState, dispatcher, logger, msg)
		case protocol.OpSubmitChoice:
			mh.handleSubmitChoice(ctx, matchState, dispatcher, logger, msg)
		case protocol.OpRequestContinue:
			mh.handleRequestContinue(ctx, matchState, dispatcher, logger, msg)
		case protocol.OpLeaveRoom:
			mh.handleLeaveRoom(ctx, matchState, dispatcher, logger, msg)
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	if matchState.BotsEnabled {
		mh.processBots(ctx, matchState, dispatcher, logger)
	}

	return matchState
}

func (mh *matchHandler) handleJoinQueue(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()

	request := protocol.JoinQueueRequest{}
	if len(msg.GetData()) > 0 {
		if err := json.Unmarshal(msg.GetData(), &request); err != nil {
			logger.Warn("handleJoinQueue: Invalid request from %s: %v", senderID, err)
			mh.sendAck(state, dispatcher, logger, senderID, protocol.Ack{Action: "join_queue", Error: "invalid request"})
			return
		}
	}

	name := request.PlayerName
	if name == "" {
		if p, exists := state.Presences[senderID]; exists {
			name = p.GetUsername()
		}
	}

	player := state.Directory.CreatePlayer(senderID, name, request.Address)
	events, err := state.Directory.AddPlayerToQueue(ctx, player)
	if err != nil {
		logger.Warn("handleJoinQueue: User %s could not be seated: %v", senderID, err)
		mh.sendAck(state, dispatcher, logger, senderID, protocol.Ack{Action: "join_queue", Error: err.Error()})
		return
	}

	roomID := ""
	if room := state.Directory.RoomForPlayer(senderID); room != nil {
		roomID = room.RoomID
	}
	mh.sendAck(state, dispatcher, logger, senderID, protocol.Ack{Ok: true, Action: "join_queue", RoomID: roomID})

	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}
}

func (mh *matchHandler) handleSubmitChoice(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()

	request := protocol.ChoiceRequest{}
	if err := json.Unmarshal(msg.GetData(), &request); err != nil {
		logger.Warn("handleSubmitChoice: Invalid request from %s: %v", senderID, err)
		mh.sendAck(state, dispatcher, logger, senderID, protocol.Ack{Action: "submit_choice", Error: "invalid request"})
		return
	}

	events, err := state.Directory.MakeChoice(request.RoomID, senderID, domain.Choice(request.Choice))
	if err != nil {
		logger.Warn("handleSubmitChoice: User %s in room %s: %v", senderID, request.RoomID, err)
		mh.sendAck(state, dispatcher, logger, senderID, protocol.Ack{Action: "submit_choice", Error: err.Error(), RoomID: request.RoomID})
		return
	}

	mh.sendAck(state, dispatcher, logger, senderID, protocol.Ack{Ok: true, Action: "submit_choice", RoomID: request.RoomID})

	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}
}

func (mh *matchHandler) handleRequestContinue(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()

	request := protocol.ContinueRequest{}
	if err := json.Unmarshal(msg.GetData(), &request); err != nil {
		logger.Warn("handleRequestContinue: Invalid request from %s: %v", senderID, err)
		mh.sendAck(state, dispatcher, logger, senderID, protocol.Ack{Action: "request_continue", Error: "invalid request"})
		return
	}

	ack, events, err := state.Directory.RequestContinue(ctx, request.RoomID, senderID)
	if err != nil {
		logger.Warn("handleRequestContinue: User %s in room %s: %v", senderID, request.RoomID, err)
		mh.sendAck(state, dispatcher, logger, senderID, protocol.Ack{Action: "request_continue", Error: err.Error(), RoomID: request.RoomID})
		return
	}

	mh.sendAck(state, dispatcher, logger, senderID, protocol.Ack{
		Ok:            true,
		Action:        "request_continue",
		RoomID:        request.RoomID,
		Waiting:       ack.Waiting,
		RoomFull:      ack.RoomFull,
		EveryoneReady: ack.EveryoneReady,
		ReadyPlayers:  ack.ReadyPlayers,
	})

	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}
}

func (mh *matchHandler) handleLeaveRoom(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()

	request := protocol.LeaveRequest{}
	if err := json.Unmarshal(msg.GetData(), &request); err != nil {
		logger.Warn("handleLeaveRoom: Invalid request from %s: %v", senderID, err)
		mh.sendAck(state, dispatcher, logger, senderID, protocol.Ack{Action: "leave_room", Error: "invalid request"})
		return
	}

	events, err := state.Directory.LeaveRoom(request.RoomID, senderID)
	if err != nil {
		logger.Warn("handleLeaveRoom: User %s in room %s: %v", senderID, request.RoomID, err)
		mh.sendAck(state, dispatcher, logger, senderID, protocol.Ack{Action: "leave_room", Error: err.Error(), RoomID: request.RoomID})
		return
	}

	mh.sendAck(state, dispatcher, logger, senderID, protocol.Ack{Ok: true, Action: "leave_room", RoomID: request.RoomID})

	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}

	mh.evictBotOnlyRoom(ctx, state, dispatcher, logger, request.RoomID)
}

// evictBotOnlyRoom dissolves a room whose remaining occupants are all bots.
func (mh *matchHandler) evictBotOnlyRoom(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, roomID string) {
	room := state.Directory.GetRoom(roomID)
	if room == nil {
		delete(state.botAgents, roomID)
		delete(state.botWaitUntil, roomID)
		return
	}

	for _, p := range room.Players {
		if !bot.IsBot(p.PlayerID) {
			return
		}
	}

	for _, agent := range state.botAgents[roomID] {
		if _, err := state.Directory.LeaveRoom(roomID, agent.ID); err != nil {
			logger.Warn("evictBotOnlyRoom: Bot %s could not leave room %s: %v", agent.ID, roomID, err)
		}
		state.Directory.RemovePlayer(agent.ID)
	}
	delete(state.botAgents, roomID)
	delete(state.botWaitUntil, roomID)
	logger.Debug("evictBotOnlyRoom: Dissolved bot-only room %s", roomID)
}

func (mh *matchHandler) processBots(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	mh.autoFillRooms(ctx, state, dispatcher, logger)
	mh.runBotTurns(ctx, state, dispatcher, logger)
}

// autoFillRooms seats bots in rooms that have been short-handed too long.
func (mh *matchHandler) autoFillRooms(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	waiting := state.Directory.WaitingRooms()
	waitingSet := make(map[string]bool, len(waiting))

	for _, roomID := range waiting {
		waitingSet[roomID] = true
		since, tracked := state.roomWaitingSince[roomID]
		if !tracked {
			state.roomWaitingSince[roomID] = state.Tick
			continue
		}
		if state.Tick-since < int64(state.BotAutoFillDelay) {
			continue
		}

		room := state.Directory.GetRoom(roomID)
		if room == nil {
			delete(state.roomWaitingSince, roomID)
			continue
		}

		for i := room.PlayerCount(); i < domain.RoomSize; i++ {
			identity := state.nextFreeBotIdentity()
			agent := bot.NewAgent(identity)
			player := state.Directory.CreatePlayer(identity.UserID, identity.DisplayName, "")

			events, err := state.Directory.AddPlayerToRoom(ctx, roomID, player)
			if err != nil {
				logger.Error("autoFillRooms: Failed to seat bot %s in room %s: %v", identity.UserID, roomID, err)
				break
			}
			state.botAgents[roomID] = append(state.botAgents[roomID], agent)
			logger.Info("autoFillRooms: Added bot %s to room %s", identity.DisplayName, roomID)

			for _, ev := range events {
				mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
			}
		}
		delete(state.roomWaitingSince, roomID)
	}

	// Drop timers for rooms that stopped waiting.
	for roomID := range state.roomWaitingSince {
		if !waitingSet[roomID] {
			delete(state.roomWaitingSince, roomID)
		}
	}
}

// runBotTurns lets seated bots act: submit road choices during a game and
// ready up once a game has finished.
func (mh *matchHandler) runBotTurns(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	for roomID, agents := range state.botAgents {
		room := state.Directory.GetRoom(roomID)
		if room == nil {
			delete(state.botAgents, roomID)
			delete(state.botWaitUntil, roomID)
			continue
		}

		game := room.Game
		if game == nil {
			continue
		}

		if game.IsGameFinished {
			for _, agent := range agents {
				_, events, err := state.Directory.RequestContinue(ctx, roomID, agent.ID)
				if err != nil {
					logger.Warn("runBotTurns: Bot %s could not ready up in room %s: %v", agent.ID, roomID, err)
					continue
				}
				for _, ev := range events {
					mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
				}
			}
			continue
		}

		// Give bots a human-like pause before committing a choice.
		if state.botWaitUntil[roomID] == 0 {
			delay := state.rng.Intn(state.BotMaxDelay-state.BotMinDelay+1) + state.BotMinDelay
			state.botWaitUntil[roomID] = state.Tick + int64(delay)
			continue
		}
		if state.Tick < state.botWaitUntil[roomID] {
			continue
		}
		state.botWaitUntil[roomID] = 0

		for _, agent := range agents {
			choice := agent.Play(game)
			if choice == domain.ChoiceNone {
				continue
			}
			events, err := state.Directory.MakeChoice(roomID, agent.ID, choice)
			if err != nil {
				logger.Warn("runBotTurns: Bot %s choice failed in room %s: %v", agent.ID, roomID, err)
				continue
			}
			for _, ev := range events {
				mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
			}
		}
	}
}

// broadcastEvent handles the conversion and dispatching of app events to Nakama.
func (mh *matchHandler) broadcastEvent(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	var opCode int64
	var payload any

	switch ev.Kind {
	case app.EventRoomAssigned:
		opCode = protocol.OpRoomAssigned
		p := ev.Payload.(app.RoomPayload)
		payload = protocol.SnapshotRoom(p.Room)
	case app.EventRoomUpdated:
		opCode = protocol.OpRoomUpdated
		p := ev.Payload.(app.RoomPayload)
		payload = protocol.SnapshotRoom(p.Room)
	case app.EventGameStarted:
		opCode = protocol.OpGameStarted
		p := ev.Payload.(app.GamePayload)
		payload = protocol.SnapshotGame(p.Game)

		mh.chargeEntranceFees(ctx, state, logger, p.Game)
	case app.EventGameUpdated:
		opCode = protocol.OpGameUpdated
		p := ev.Payload.(app.GamePayload)
		payload = protocol.SnapshotGame(p.Game)
	case app.EventGameOver:
		opCode = protocol.OpGameOver
		p := ev.Payload.(app.GameOverPayload)
		results := make([]protocol.RankingEntry, 0, len(p.Rankings))
		for _, r := range p.Rankings {
			results = append(results, protocol.RankingEntry{
				Rank:       r.Rank,
				PlayerID:   r.PlayerID,
				PlayerName: r.PlayerName,
				FinalGold:  r.FinalGold,
				Payout:     r.Payout,
			})
		}
		payload = protocol.GameOverEvent{GameID: p.GameID, FinalResults: results}

		mh.settleGame(ctx, state, logger, p)
	case app.EventReturnedToRoom:
		opCode = protocol.OpReturnedToRoom
		p := ev.Payload.(app.RoomPayload)
		payload = protocol.SnapshotRoom(p.Room)
	case app.EventReturnedToLobby:
		opCode = protocol.OpReturnedToLobby
		payload = struct{}{}
	default:
		logger.Warn("Unknown event kind: %v", ev.Kind)
		return
	}

	bytes, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal event %v: %v", ev.Kind, err)
		return
	}

	// Determine recipients (default to broadcast)
	var recipients []runtime.Presence
	if len(ev.Recipients) > 0 {
		for _, uid := range ev.Recipients {
			if p, ok := state.Presences[uid]; ok {
				recipients = append(recipients, p)
			}
		}

		// If we had intended recipients but none are connected (e.g. they
		// are bots), we MUST NOT broadcast to everyone else.
		if len(recipients) == 0 {
			return
		}
	}

	dispatcher.BroadcastMessage(opCode, bytes, recipients, nil, true)
}

// chargeEntranceFees mirrors the entrance fee into the off-chain wallets when
// a game starts. The chain gateway owns the authoritative fee claim; a failed
// mirror never blocks the start. Bots hold no wallet and are skipped.
func (mh *matchHandler) chargeEntranceFees(ctx context.Context, state *MatchState, logger runtime.Logger, g *domain.Game) {
	if state.Wallet == nil || g == nil {
		return
	}
	fee := g.Settings.EntranceFee
	if fee <= 0 {
		return
	}

	updates := make([]ports.WalletUpdate, 0, len(g.Players))
	for _, p := range g.Players {
		if bot.IsBot(p.PlayerID) {
			continue
		}
		updates = append(updates, ports.WalletUpdate{
			UserID: p.PlayerID,
			Amount: -fee,
			Metadata: map[string]interface{}{
				"game_id": g.GameID,
				"reason":  "entrance_fee",
			},
		})
	}
	if len(updates) == 0 {
		return
	}
	if err := state.Wallet.UpdateBalances(ctx, updates); err != nil {
		logger.Warn("chargeEntranceFees: Failed to mirror entrance fees for game %s: %v", g.GameID, err)
	}
}

// settleGame triggers on-chain settlement for a finished game and mirrors
// payouts into the off-chain Nakama wallets.
func (mh *matchHandler) settleGame(ctx context.Context, state *MatchState, logger runtime.Logger, p app.GameOverPayload) {
	txHash, err := state.Directory.SettleGame(ctx, p.GameID)
	if err != nil {
		logger.Error("settleGame: On-chain settlement failed for game %s: %v", p.GameID, err)
	} else if txHash != "" {
		logger.Info("settleGame: Game %s settled on-chain: %s", p.GameID, txHash)
	}

	if state.Wallet == nil {
		return
	}

	updates := make([]ports.WalletUpdate, 0, len(p.Rankings))
	for _, r := range p.Rankings {
		if r.Payout == 0 || bot.IsBot(r.PlayerID) {
			continue
		}
		updates = append(updates, ports.WalletUpdate{
			UserID: r.PlayerID,
			Amount: r.Payout,
			Metadata: map[string]interface{}{
				"game_id": p.GameID,
				"reason":  "game_settlement",
			},
		})
	}
	if len(updates) == 0 {
		return
	}
	if err := state.Wallet.UpdateBalances(ctx, updates); err != nil {
		logger.Error("settleGame: Failed to mirror payouts for game %s: %v", p.GameID, err)
	}
}

// sendAck sends a per-action acknowledgement to a specific user.
func (mh *matchHandler) sendAck(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, ack protocol.Ack) {
	bytes, err := json.Marshal(ack)
	if err != nil {
		logger.Error("Failed to marshal ack: %v", err)
		return
	}

	presence, ok := state.Presences[userID]
	if !ok {
		// Bots have no presence; their acks are dropped.
		return
	}

	dispatcher.BroadcastMessage(protocol.OpActionAck, bytes, []runtime.Presence{presence}, nil, true)
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, reason int) interface{} {
	logger.Debug("MatchTerminate: Match terminated for reason %d", reason)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
