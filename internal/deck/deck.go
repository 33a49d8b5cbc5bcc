package deck

import (
	"errors"
	"math/rand"

	"github.com/consolecatch/server/internal/models"
)

// ErrEmpty is returned by Draw when the stock has no cards left. Callers are
// expected to attempt a Reshuffle from the discard pile before treating the
// deck as exhausted.
var ErrEmpty = errors.New("deck: empty")

// Stock is the shared face-down deck. Draws pop from the tail.
type Stock struct {
	cards []models.Card
	rng   *rand.Rand
}

// NewStock builds a full deck (CopiesPerKind copies of every catalog kind)
// in uniformly random order.
func NewStock(rng *rand.Rand) *Stock {
	s := &Stock{rng: rng, cards: make([]models.Card, 0, Size)}
	for _, kind := range Catalog() {
		for i := 0; i < CopiesPerKind; i++ {
			s.cards = append(s.cards, kind)
		}
	}
	s.shuffle(s.cards)
	return s
}

func (s *Stock) shuffle(cards []models.Card) {
	s.rng.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
}

// Len returns the number of cards remaining.
func (s *Stock) Len() int { return len(s.cards) }

// Draw removes and returns the top card, or ErrEmpty.
func (s *Stock) Draw() (models.Card, error) {
	if len(s.cards) == 0 {
		return models.Card{}, ErrEmpty
	}
	c := s.cards[len(s.cards)-1]
	s.cards = s.cards[:len(s.cards)-1]
	return c, nil
}

// Reshuffle moves every discard except the visible top card back into the
// stock and shuffles. The retained card stays as the pile's sole entry so the
// top discard never changes across a reshuffle. No-op (returns false) when
// the pile has one card or fewer.
func (s *Stock) Reshuffle(d *Discard) bool {
	if d.Len() <= 1 {
		return false
	}
	top := d.cards[len(d.cards)-1]
	s.cards = append(s.cards, d.cards[:len(d.cards)-1]...)
	s.shuffle(s.cards)
	d.cards = d.cards[:0]
	d.cards = append(d.cards, top)
	return true
}

// Discard is the shared face-up pile; only the top card is drawable.
type Discard struct {
	cards []models.Card
}

// Push places c on top of the pile.
func (d *Discard) Push(c models.Card) { d.cards = append(d.cards, c) }

// PopTop removes and returns the top card, if any.
func (d *Discard) PopTop() (models.Card, bool) {
	if len(d.cards) == 0 {
		return models.Card{}, false
	}
	c := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return c, true
}

// Top returns the visible top card without removing it.
func (d *Discard) Top() (models.Card, bool) {
	if len(d.cards) == 0 {
		return models.Card{}, false
	}
	return d.cards[len(d.cards)-1], true
}

// Len returns the number of cards in the pile.
func (d *Discard) Len() int { return len(d.cards) }
