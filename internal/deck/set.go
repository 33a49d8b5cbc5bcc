package deck

import "github.com/consolecatch/server/internal/models"

// IsValidSet reports whether the cards form a lockable set: exactly three
// cards all sharing a kind, or all sharing a color. Any other card count is
// simply not a set, never an error.
func IsValidSet(cards []models.Card) bool {
	if len(cards) != 3 {
		return false
	}
	if cards[0].Kind == cards[1].Kind && cards[1].Kind == cards[2].Kind {
		return true
	}
	if cards[0].Color == cards[1].Color && cards[1].Color == cards[2].Color {
		return true
	}
	return false
}
