package game

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/consolecatch/server/internal/cache"
	"github.com/consolecatch/server/internal/deck"
	"github.com/consolecatch/server/internal/models"
)

// Phase is the room lifecycle stage.
type Phase string

const (
	PhaseWaiting Phase = "waiting"
	PhasePlaying Phase = "playing"
	PhaseEnded   Phase = "ended"
)

const (
	// MaxPlayers bounds the roster, bots included.
	MaxPlayers = 6
	// MinPlayers is the minimum roster size to start a game.
	MinPlayers = 2
	// HandSize is how many cards each participant is dealt.
	HandSize = 8
)

var avatars = []string{"🐉", "🦊", "🐺", "🦁", "🐯", "🦄", "🐻", "🐼", "🦅", "🦋"}

var botNames = []string{"Atari Bot", "Pixel Bot", "Combo Bot", "Turbo Bot", "Retro Bot", "Glitch Bot"}

// DrawSource names where the current player draws from.
type DrawSource string

const (
	DrawDeck    DrawSource = "deck"
	DrawDiscard DrawSource = "discard"
)

// Room holds the entire state of one live game session. All mutation is
// serialized behind mu; timer callbacks re-acquire the lock and validate
// turnSeq so a stale timer never races a voluntary action.
type Room struct {
	Code   string
	Phase  Phase
	HostID uuid.UUID

	// Players in seat order; the order defines turn rotation and only
	// changes when someone leaves.
	Players []*models.Player

	Stock   *deck.Stock
	Discard *deck.Discard

	CurrentTurn int
	Round       int

	turnSeq   int // increments whenever the acting player changes
	turnTimer *time.Timer

	// TurnDuration is the human turn limit. Bots instead get a short
	// randomized "thinking" delay.
	TurnDuration time.Duration

	actionIndex int
	rng         *rand.Rand
	log         *logrus.Entry

	// BroadcastFn delivers events to connections. Set by the boundary
	// adapter before the room sees any traffic; nil-safe for tests.
	BroadcastFn BroadcastFunc

	mu sync.Mutex
}

// NewRoom builds an empty waiting room.
func NewRoom(code string, turnSecs int, logger *logrus.Logger) *Room {
	if logger == nil {
		logger = logrus.New()
	}
	return &Room{
		Code:         code,
		Phase:        PhaseWaiting,
		Round:        1,
		TurnDuration: time.Duration(turnSecs) * time.Second,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
		Discard:      &deck.Discard{},
		log:          logger.WithField("room", code),
	}
}

// fire sends ev to every human in the room. Assumes lock is held.
func (r *Room) fire(ev Event) {
	if r.BroadcastFn == nil {
		return
	}
	targets := make([]*models.Player, 0, len(r.Players))
	for _, p := range r.Players {
		if !p.IsBot {
			targets = append(targets, p)
		}
	}
	r.BroadcastFn(targets, ev)
}

// fireTo sends ev to a single player; bots never receive events. Assumes
// lock is held.
func (r *Room) fireTo(p *models.Player, ev Event) {
	if r.BroadcastFn == nil || p == nil || p.IsBot {
		return
	}
	r.BroadcastFn([]*models.Player{p}, ev)
}

// logAction appends a record to the Redis action history, asynchronously so
// game logic never waits on the network. Assumes lock is held.
func (r *Room) logAction(actorID uuid.UUID, actionType string, payload map[string]interface{}) {
	r.actionIndex++
	if payload == nil {
		payload = make(map[string]interface{})
	}
	record := cache.RoomActionRecord{
		RoomCode:    r.Code,
		ActionIndex: r.actionIndex,
		ActorID:     actorID,
		ActionType:  actionType,
		Payload:     payload,
		Timestamp:   time.Now().UnixMilli(),
	}
	go func(rec cache.RoomActionRecord) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := cache.PublishRoomAction(ctx, rec); err != nil {
			logrus.Warnf("room %s: failed to publish action %d: %v", rec.RoomCode, rec.ActionIndex, err)
		}
	}(record)
}

func (r *Room) getPlayer(id uuid.UUID) *models.Player {
	for _, p := range r.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (r *Room) currentPlayer() *models.Player {
	if r.CurrentTurn < 0 || r.CurrentTurn >= len(r.Players) {
		return nil
	}
	return r.Players[r.CurrentTurn]
}

// publicState builds the shared snapshot. Assumes lock is held.
func (r *Room) publicState() *PublicState {
	st := &PublicState{
		RoomCode:    r.Code,
		Phase:       r.Phase,
		HostID:      r.HostID,
		CurrentTurn: r.CurrentTurn,
		Round:       r.Round,
	}
	if r.Stock != nil {
		st.DeckCount = r.Stock.Len()
	}
	if top, ok := r.Discard.Top(); ok {
		c := top
		st.TopDiscard = &c
	}
	for _, p := range r.Players {
		st.Players = append(st.Players, PlayerPublic{
			ID:           p.ID,
			Name:         p.Name,
			Avatar:       p.Avatar,
			IsBot:        p.IsBot,
			CardCount:    len(p.Hand),
			SetsComplete: p.LockedSetCount(),
			Gold:         p.Gold,
			Lucky:        p.Lucky,
			DiscardPile:  p.DiscardPile,
		})
	}
	return st
}

// broadcastState pushes the shared snapshot to everyone: as lobby_update
// while the room is still gathering, as game_state once play begins.
// Assumes lock held.
func (r *Room) broadcastState() {
	typ := EventGameState
	if r.Phase == PhaseWaiting {
		typ = EventLobbyUpdate
	}
	r.fire(Event{Type: typ, Room: r.publicState()})
}

// sendHands unicasts each human their private hand view. Assumes lock held.
func (r *Room) sendHands() {
	for _, p := range r.Players {
		r.sendHand(p)
	}
}

func (r *Room) sendHand(p *models.Player) {
	r.fireTo(p, Event{Type: EventYourHand, Hand: &HandState{
		Hand:     p.Hand,
		Sets:     p.Sets,
		HasDrawn: p.HasDrawn,
	}})
}

// Snapshot returns the current public state. Exported for the boundary
// adapter's room_created / room_joined replies.
func (r *Room) Snapshot() *PublicState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.publicState()
}

// HumanCount returns the number of seated non-bot participants.
func (r *Room) HumanCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.humanCount()
}

func (r *Room) humanCount() int {
	n := 0
	for _, p := range r.Players {
		if !p.IsBot {
			n++
		}
	}
	return n
}

// Join seats a human participant. The first to join becomes host.
func (r *Room) Join(p *models.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Phase != PhaseWaiting {
		return ErrGameInProgress
	}
	if len(r.Players) >= MaxPlayers {
		return ErrRoomFull
	}

	p.Avatar = avatars[len(r.Players)%len(avatars)]
	r.Players = append(r.Players, p)
	if r.HostID == uuid.Nil {
		r.HostID = p.ID
	}
	r.log.WithField("player", p.Name).Info("player joined")
	r.logAction(p.ID, "player_join", map[string]interface{}{"name": p.Name})

	r.fire(Event{Type: EventPlayerJoined, Player: playerInfo(p)})
	r.broadcastState()
	return nil
}

// AddBot seats a computer-controlled participant. Host only, lobby only.
func (r *Room) AddBot(requester uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if requester != r.HostID {
		return ErrNotHost
	}
	if r.Phase != PhaseWaiting {
		return ErrWrongPhase
	}
	if len(r.Players) >= MaxPlayers {
		return ErrRoomFull
	}

	botCount := len(r.Players) - r.humanCount()
	bot := &models.Player{
		ID:     uuid.New(),
		Name:   botNames[botCount%len(botNames)],
		Avatar: avatars[len(r.Players)%len(avatars)],
		IsBot:  true,
	}
	if botCount >= len(botNames) {
		bot.Name = fmt.Sprintf("%s %d", bot.Name, botCount/len(botNames)+1)
	}
	r.Players = append(r.Players, bot)
	r.log.WithField("bot", bot.Name).Info("bot added")
	r.logAction(requester, "bot_add", map[string]interface{}{"name": bot.Name})

	r.fire(Event{Type: EventPlayerJoined, Player: playerInfo(bot)})
	r.broadcastState()
	return nil
}

// RemoveBot unseats the most recently added bot. Host only, lobby only.
func (r *Room) RemoveBot(requester uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if requester != r.HostID {
		return ErrNotHost
	}
	if r.Phase != PhaseWaiting {
		return ErrWrongPhase
	}
	for i := len(r.Players) - 1; i >= 0; i-- {
		if r.Players[i].IsBot {
			bot := r.Players[i]
			r.Players = append(r.Players[:i], r.Players[i+1:]...)
			r.logAction(requester, "bot_remove", map[string]interface{}{"name": bot.Name})
			r.fire(Event{Type: EventPlayerLeft, Player: playerInfo(bot)})
			r.broadcastState()
			return nil
		}
	}
	return ErrNoBots
}

// Start deals a fresh game. Host only, lobby only, at least two players.
func (r *Room) Start(requester uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if requester != r.HostID {
		return ErrNotHost
	}
	if r.Phase != PhaseWaiting {
		return ErrWrongPhase
	}
	if len(r.Players) < MinPlayers {
		return ErrNeedTwoPlayers
	}

	r.Phase = PhasePlaying
	r.Stock = deck.NewStock(r.rng)
	r.Discard = &deck.Discard{}
	r.CurrentTurn = 0
	r.Round = 1
	r.turnSeq++

	for _, p := range r.Players {
		p.Hand = nil
		p.Sets = [models.NumSetSlots][]models.Card{}
		p.DiscardPile = nil
		p.HasDrawn = false
		for i := 0; i < HandSize; i++ {
			if c, err := r.Stock.Draw(); err == nil {
				p.Hand = append(p.Hand, c)
			}
		}
	}
	if c, err := r.Stock.Draw(); err == nil {
		r.Discard.Push(c)
	}

	r.log.WithField("players", len(r.Players)).Info("game started")
	r.logAction(requester, "game_start", map[string]interface{}{"players": len(r.Players)})

	r.fire(Event{Type: EventGameStarted, Message: "Game has started!"})
	r.broadcastState()
	r.sendHands()
	r.startTurnTimer()
	return nil
}

// startTurnTimer arms the countdown for the current player: the configured
// human limit, or a short randomized "thinking" delay for bots. Assumes lock
// is held.
func (r *Room) startTurnTimer() {
	if r.turnTimer != nil {
		r.turnTimer.Stop()
	}
	cur := r.currentPlayer()
	if cur == nil || r.Phase != PhasePlaying {
		return
	}

	seq := r.turnSeq
	if cur.IsBot {
		delay := time.Second + time.Duration(r.rng.Intn(1000))*time.Millisecond
		r.fire(Event{Type: EventTimerStart, Timer: &TimerInfo{Seconds: int(delay.Seconds()), PlayerID: cur.ID}})
		r.turnTimer = time.AfterFunc(delay, func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			if r.Phase != PhasePlaying || r.turnSeq != seq {
				return
			}
			r.botTakeTurn()
		})
		return
	}

	r.fire(Event{Type: EventTimerStart, Timer: &TimerInfo{Seconds: int(r.TurnDuration.Seconds()), PlayerID: cur.ID}})
	pid := cur.ID
	r.turnTimer = time.AfterFunc(r.TurnDuration, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if r.Phase != PhasePlaying || r.turnSeq != seq {
			return
		}
		r.log.WithField("player", pid).Info("turn timer expired")
		r.forceMove()
	})
}

// stopTurnTimer cancels any pending countdown. Assumes lock is held.
func (r *Room) stopTurnTimer() {
	if r.turnTimer != nil {
		r.turnTimer.Stop()
		r.turnTimer = nil
	}
}

// drawFromStock pops the top deck card, reshuffling the discard pile first
// if the deck ran dry. Assumes lock is held.
func (r *Room) drawFromStock() (models.Card, error) {
	c, err := r.Stock.Draw()
	if err == nil {
		return c, nil
	}
	if !r.Stock.Reshuffle(r.Discard) {
		return models.Card{}, ErrDeckExhausted
	}
	r.logAction(uuid.Nil, "deck_reshuffle", map[string]interface{}{"deckCount": r.Stock.Len()})
	r.fire(Event{Type: EventDeckReshuffled})
	c, err = r.Stock.Draw()
	if err != nil {
		return models.Card{}, ErrDeckExhausted
	}
	return c, nil
}

// HandleDraw applies the current player's single draw for the turn, from the
// deck or the discard pile.
func (r *Room) HandleDraw(playerID uuid.UUID, source DrawSource) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, err := r.checkTurn(playerID)
	if err != nil {
		return err
	}
	if p.HasDrawn {
		return ErrAlreadyDrawn
	}

	var card models.Card
	switch source {
	case DrawDeck:
		card, err = r.drawFromStock()
		if err != nil {
			return err
		}
	case DrawDiscard:
		var ok bool
		card, ok = r.Discard.PopTop()
		if !ok {
			return ErrDiscardEmpty
		}
	default:
		return ErrInvalidCard
	}

	p.Hand = append(p.Hand, card)
	p.HasDrawn = true
	r.logAction(playerID, "draw", map[string]interface{}{"source": string(source)})

	c := card
	r.fireTo(p, Event{Type: EventCardDrawn, Card: &c, Source: string(source)})
	r.sendHand(p)
	r.broadcastState()
	return nil
}

// HandleLockSet locks three hand cards into an empty slot. The room stays
// untouched unless every precondition passes. Winning (third slot locked)
// ends the game on the spot.
func (r *Room) HandleLockSet(playerID uuid.UUID, slotIndex int, handIndexes []int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, err := r.checkTurn(playerID)
	if err != nil {
		return err
	}
	if !p.HasDrawn {
		return ErrMustDrawFirst
	}
	if slotIndex < 0 || slotIndex >= models.NumSetSlots {
		return ErrInvalidSlot
	}
	if p.SlotLocked(slotIndex) {
		return ErrSlotLocked
	}
	if len(handIndexes) != 3 {
		return ErrWrongCardCount
	}
	seen := map[int]bool{}
	cards := make([]models.Card, 0, 3)
	for _, idx := range handIndexes {
		if idx < 0 || idx >= len(p.Hand) || seen[idx] {
			return ErrInvalidCard
		}
		seen[idx] = true
		cards = append(cards, p.Hand[idx])
	}
	if !deck.IsValidSet(cards) {
		return ErrNotASet
	}

	r.lockSet(p, slotIndex, handIndexes, cards)
	if p.LockedSetCount() == models.NumSetSlots {
		r.triggerWin(p)
		return nil
	}
	r.sendHand(p)
	r.broadcastState()
	return nil
}

// lockSet applies a validated lock: fills the slot and removes the cards
// from hand by descending index. Assumes lock is held.
func (r *Room) lockSet(p *models.Player, slotIndex int, handIndexes []int, cards []models.Card) {
	p.Sets[slotIndex] = cards
	sorted := append([]int(nil), handIndexes...)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))
	for _, idx := range sorted {
		p.Hand = append(p.Hand[:idx], p.Hand[idx+1:]...)
	}
	r.logAction(p.ID, "set_lock", map[string]interface{}{"slot": slotIndex})
	r.fireTo(p, Event{Type: EventSetLocked, Lock: &LockInfo{
		PlayerID:  p.ID,
		SlotIndex: slotIndex,
		Cards:     cards,
	}})
}

// HandleDiscard discards one hand card and ends the turn.
func (r *Room) HandleDiscard(playerID uuid.UUID, handIndex int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, err := r.checkTurn(playerID)
	if err != nil {
		return err
	}
	if !p.HasDrawn {
		return ErrMustDrawFirst
	}
	if handIndex < 0 || handIndex >= len(p.Hand) {
		return ErrInvalidCard
	}

	// Cancel the countdown before mutating so a racing timeout can never
	// advance the turn a second time.
	r.stopTurnTimer()

	card := p.Hand[handIndex]
	p.Hand = append(p.Hand[:handIndex], p.Hand[handIndex+1:]...)
	p.DiscardPile = append(p.DiscardPile, card)
	r.Discard.Push(card)
	r.logAction(playerID, "discard", map[string]interface{}{"card": card.Kind})

	r.advanceTurn()
	return nil
}

// checkTurn validates that the room is mid-game and playerID is the acting
// player. Assumes lock is held.
func (r *Room) checkTurn(playerID uuid.UUID) (*models.Player, error) {
	if r.Phase != PhasePlaying {
		return nil, ErrWrongPhase
	}
	p := r.getPlayer(playerID)
	if p == nil {
		return nil, ErrPlayerNotFound
	}
	if cur := r.currentPlayer(); cur == nil || cur.ID != playerID {
		return nil, ErrNotYourTurn
	}
	return p, nil
}

// forceMove resolves an expired human turn: draw if they haven't, then
// discard a uniformly random hand card, then advance. Assumes lock is held.
func (r *Room) forceMove() {
	p := r.currentPlayer()
	if p == nil {
		return
	}

	if !p.HasDrawn {
		if c, err := r.drawFromStock(); err == nil {
			p.Hand = append(p.Hand, c)
		}
		p.HasDrawn = true
	}

	if len(p.Hand) > 0 {
		idx := r.rng.Intn(len(p.Hand))
		card := p.Hand[idx]
		p.Hand = append(p.Hand[:idx], p.Hand[idx+1:]...)
		p.DiscardPile = append(p.DiscardPile, card)
		r.Discard.Push(card)
	}
	r.logAction(p.ID, "force_move", nil)

	r.fireTo(p, Event{Type: EventForceMove, Message: "Time expired! Auto-move made."})
	r.advanceTurn()
}

// advanceTurn rotates to the next seat, bumps the round counter and restarts
// the countdown. Assumes lock is held.
func (r *Room) advanceTurn() {
	if r.Phase != PhasePlaying || len(r.Players) == 0 {
		return
	}
	r.CurrentTurn = (r.CurrentTurn + 1) % len(r.Players)
	r.Round++
	r.turnSeq++
	r.Players[r.CurrentTurn].HasDrawn = false

	r.broadcastState()
	r.sendHands()
	r.startTurnTimer()
}

// triggerWin ends the game: credits the winner's currency reward and
// broadcasts the final ranking. Assumes lock is held.
func (r *Room) triggerWin(winner *models.Player) {
	r.stopTurnTimer()
	r.Phase = PhaseEnded
	r.turnSeq++

	goldEarned := 120 + r.rng.Intn(80)
	luckyEarned := 0
	if r.rng.Float64() < 0.7 {
		luckyEarned = 5 + r.rng.Intn(15)
	}
	winner.Gold += goldEarned
	winner.Lucky += luckyEarned

	ranking := make([]RankingEntry, 0, len(r.Players))
	for _, p := range r.Players {
		ranking = append(ranking, RankingEntry{
			ID:           p.ID,
			Name:         p.Name,
			Avatar:       p.Avatar,
			SetsComplete: p.LockedSetCount(),
			Gold:         p.Gold,
			Lucky:        p.Lucky,
		})
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		if ranking[i].SetsComplete != ranking[j].SetsComplete {
			return ranking[i].SetsComplete > ranking[j].SetsComplete
		}
		return ranking[i].Gold > ranking[j].Gold
	})

	r.log.WithFields(logrus.Fields{"winner": winner.Name, "gold": goldEarned}).Info("game over")
	r.logAction(winner.ID, "game_over", map[string]interface{}{"gold": goldEarned, "lucky": luckyEarned})

	r.broadcastState()
	r.fire(Event{Type: EventGameOver, Result: &GameResult{
		Winner:      *playerInfo(winner),
		GoldEarned:  goldEarned,
		LuckyEarned: luckyEarned,
		Ranking:     ranking,
	}})
}

// Leave removes a participant, repairing host role and turn state. Returns
// the removed player (nil if unknown) and how many humans remain; the
// session directory tears the room down once that count hits zero.
func (r *Room) Leave(playerID uuid.UUID) (*models.Player, int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := -1
	for i, p := range r.Players {
		if p.ID == playerID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, r.humanCount()
	}

	left := r.Players[idx]
	wasActing := r.Phase == PhasePlaying && idx == r.CurrentTurn
	r.Players = append(r.Players[:idx], r.Players[idx+1:]...)
	r.log.WithField("player", left.Name).Info("player left")
	r.logAction(playerID, "player_leave", map[string]interface{}{"name": left.Name})

	r.fire(Event{Type: EventPlayerLeft, Player: playerInfo(left)})

	if len(r.Players) == 0 {
		r.stopTurnTimer()
		return left, 0
	}

	if r.HostID == playerID {
		for _, p := range r.Players {
			if !p.IsBot {
				r.HostID = p.ID
				r.fireTo(p, Event{Type: EventYouAreHost})
				break
			}
		}
	}

	if r.Phase == PhasePlaying {
		// Known quirk kept from the observed behavior: the index is only
		// clamped when it falls off the end, so a mid-list departure can
		// skip or repeat a seat.
		if r.CurrentTurn >= len(r.Players) {
			r.CurrentTurn = 0
		}
		if wasActing {
			r.stopTurnTimer()
			r.turnSeq++
			r.Players[r.CurrentTurn].HasDrawn = false
			r.startTurnTimer()
		}
	}

	r.broadcastState()
	r.sendHands()
	return left, r.humanCount()
}

// Shutdown cancels the pending timer and marks the room terminal so stale
// callbacks become no-ops. Called by the session directory at teardown.
func (r *Room) Shutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopTurnTimer()
	r.Phase = PhaseEnded
	r.log.Info("room shut down")
}
