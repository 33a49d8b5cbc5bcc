package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/consolecatch/server/internal/models"
)

func TestFindLockableSet(t *testing.T) {
	snes := cardOfKind(t, "snes")
	n64 := cardOfKind(t, "n64")
	sw := cardOfKind(t, "switch")
	ps1 := cardOfKind(t, "ps1")
	xbox := cardOfKind(t, "xbox")

	t.Run("prefers kind triples", func(t *testing.T) {
		// snes/n64/switch also form a beige color triple, but the three
		// ps1 copies match by kind first in hand order.
		hand := []models.Card{snes, ps1, n64, ps1, sw, ps1}
		assert.Equal(t, []int{1, 3, 5}, findLockableSet(hand))
	})

	t.Run("falls back to color triples", func(t *testing.T) {
		hand := []models.Card{snes, xbox, n64, ps1, sw}
		assert.Equal(t, []int{0, 2, 4}, findLockableSet(hand))
	})

	t.Run("nil when nothing locks", func(t *testing.T) {
		hand := []models.Card{snes, ps1, xbox, snes, ps1}
		assert.Nil(t, findLockableSet(hand))
	})
}

func TestSafestDiscard(t *testing.T) {
	snes := cardOfKind(t, "snes")
	n64 := cardOfKind(t, "n64")
	ps1 := cardOfKind(t, "ps1")
	xbox := cardOfKind(t, "xbox")

	// The beige cards (snes, n64) all score 2 through color; ps1 and xbox
	// score 0, and the earlier of the two wins the tie.
	hand := []models.Card{snes, n64, snes, ps1, xbox}
	assert.Equal(t, 3, safestDiscard(hand))
}

func TestFirstEmptySlot(t *testing.T) {
	snes := cardOfKind(t, "snes")
	p := &models.Player{}
	assert.Equal(t, 0, firstEmptySlot(p))
	p.Sets[0] = []models.Card{snes, snes, snes}
	assert.Equal(t, 1, firstEmptySlot(p))
	p.Sets[1] = []models.Card{snes, snes, snes}
	p.Sets[2] = []models.Card{snes, snes, snes}
	assert.Equal(t, -1, firstEmptySlot(p))
}

func TestBotTakesFullTurn(t *testing.T) {
	r, players, mb := setupRoom(t, 2)
	require.NoError(t, r.AddBot(players[0].ID))
	require.NoError(t, r.Start(players[0].ID))
	defer r.Shutdown()

	r.mu.Lock()
	bot := r.Players[2]
	require.True(t, bot.IsBot)
	r.CurrentTurn = 2
	r.turnSeq++
	handBefore := len(bot.Hand)
	r.botTakeTurn()
	locked := 0
	for _, s := range bot.Sets {
		locked += len(s)
	}
	assert.Equal(t, handBefore, len(bot.Hand)+locked, "draw and discard net out around any locks")
	assert.Len(t, bot.DiscardPile, 1)
	assert.Equal(t, 0, r.CurrentTurn)
	assert.False(t, r.Players[0].HasDrawn, "the next seat starts fresh")
	r.mu.Unlock()

	assert.False(t, mb.playerSaw(bot.ID, EventCardDrawn), "bots never receive events")
	assert.True(t, mb.playerSaw(players[0].ID, EventGameState))
}

func TestBotWinsMidTurn(t *testing.T) {
	r, players, mb := setupRoom(t, 2)
	require.NoError(t, r.AddBot(players[0].ID))
	require.NoError(t, r.Start(players[0].ID))
	defer r.Shutdown()

	snes := cardOfKind(t, "snes")
	n64 := cardOfKind(t, "n64")
	ps1 := cardOfKind(t, "ps1")
	psp := cardOfKind(t, "psp")
	xbox := cardOfKind(t, "xbox")

	r.mu.Lock()
	bot := r.Players[2]
	bot.Sets[0] = []models.Card{snes, snes, snes}
	// Two lockable groups in hand: a ps1 kind triple and a green color
	// triple; locking both fills the remaining slots and wins on the spot.
	bot.Hand = []models.Card{ps1, ps1, ps1, psp, psp, cardOfKind(t, "ps4"), xbox, n64}
	r.CurrentTurn = 2
	r.turnSeq++
	r.botTakeTurn()

	assert.Equal(t, PhaseEnded, r.Phase)
	assert.Equal(t, 3, bot.LockedSetCount())
	assert.GreaterOrEqual(t, bot.Gold, 120)
	r.mu.Unlock()

	over := mb.lastOfType(EventGameOver)
	require.NotNil(t, over)
	assert.Equal(t, bot.ID, over.Result.Winner.ID)
}

// A room of one human and one bot keeps rotating: the bot acts on its own
// shortly after the human's discard hands it the turn.
func TestBotActsOnItsOwnTimer(t *testing.T) {
	r, players, _ := setupRoom(t, 1)
	require.NoError(t, r.AddBot(players[0].ID))
	require.NoError(t, r.Start(players[0].ID))
	defer r.Shutdown()

	require.NoError(t, r.HandleDraw(players[0].ID, DrawDeck))
	require.NoError(t, r.HandleDiscard(players[0].ID, 0))

	r.mu.Lock()
	require.Equal(t, 1, r.CurrentTurn)
	r.mu.Unlock()

	// Bot thinking delay is 1s plus up to 1s of jitter.
	deadline := time.After(3 * time.Second)
	for {
		r.mu.Lock()
		turn, round := r.CurrentTurn, r.Round
		r.mu.Unlock()
		if turn == 0 && round == 3 {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("bot never completed its turn (turn=%d round=%d)", turn, round)
		case <-time.After(20 * time.Millisecond):
		}
	}
}
