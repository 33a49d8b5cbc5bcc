package game

import (
	"github.com/consolecatch/server/internal/models"
)

// botTakeTurn drives one full bot turn through the same transitions a human
// would produce: draw from the deck, greedily lock any sets, then discard
// the least promising card. A third locked slot wins mid-turn and ends the
// game immediately. Assumes lock is held and the current player is a bot.
func (r *Room) botTakeTurn() {
	p := r.currentPlayer()
	if p == nil || !p.IsBot {
		return
	}

	// Bots only ever draw from the deck.
	if c, err := r.drawFromStock(); err == nil {
		p.Hand = append(p.Hand, c)
	}
	p.HasDrawn = true
	r.logAction(p.ID, "draw", map[string]interface{}{"source": string(DrawDeck)})

	for p.LockedSetCount() < models.NumSetSlots {
		indexes := findLockableSet(p.Hand)
		if indexes == nil {
			break
		}
		slot := firstEmptySlot(p)
		if slot == -1 {
			break
		}
		cards := make([]models.Card, 0, 3)
		for _, idx := range indexes {
			cards = append(cards, p.Hand[idx])
		}
		r.lockSet(p, slot, indexes, cards)
		if p.LockedSetCount() == models.NumSetSlots {
			r.triggerWin(p)
			return
		}
	}

	if len(p.Hand) > 0 {
		idx := safestDiscard(p.Hand)
		card := p.Hand[idx]
		p.Hand = append(p.Hand[:idx], p.Hand[idx+1:]...)
		p.DiscardPile = append(p.DiscardPile, card)
		r.Discard.Push(card)
		r.logAction(p.ID, "discard", map[string]interface{}{"card": card.Kind})
	}

	r.advanceTurn()
}

// findLockableSet returns the hand indexes of the first valid 3-card set,
// trying kind groups before color groups in hand order, or nil.
func findLockableSet(hand []models.Card) []int {
	if idx := firstTriple(hand, func(c models.Card) string { return c.Kind }); idx != nil {
		return idx
	}
	return firstTriple(hand, func(c models.Card) string { return c.Color })
}

// firstTriple finds the first key (in hand order) that at least three cards
// share, and returns the indexes of its first three members.
func firstTriple(hand []models.Card, key func(models.Card) string) []int {
	counts := map[string]int{}
	for _, c := range hand {
		counts[key(c)]++
	}
	for _, c := range hand {
		if counts[key(c)] < 3 {
			continue
		}
		k := key(c)
		indexes := make([]int, 0, 3)
		for i, other := range hand {
			if key(other) == k {
				indexes = append(indexes, i)
				if len(indexes) == 3 {
					return indexes
				}
			}
		}
	}
	return nil
}

func firstEmptySlot(p *models.Player) int {
	for i := 0; i < models.NumSetSlots; i++ {
		if !p.SlotLocked(i) {
			return i
		}
	}
	return -1
}

// safestDiscard picks the card least likely to complete a set: lowest
// safety score, where score = max(cards sharing its kind, cards sharing its
// color) among the rest of the hand. Ties keep the first occurrence.
func safestDiscard(hand []models.Card) int {
	best, bestScore := 0, int(^uint(0)>>1)
	for i, c := range hand {
		kindCount, colorCount := 0, 0
		for j, other := range hand {
			if i == j {
				continue
			}
			if other.Kind == c.Kind {
				kindCount++
			}
			if other.Color == c.Color {
				colorCount++
			}
		}
		score := kindCount
		if colorCount > score {
			score = colorCount
		}
		if score < bestScore {
			best, bestScore = i, score
		}
	}
	return best
}
