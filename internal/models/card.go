package models

// Card is an immutable value describing one of the 21 fixed card kinds.
// Kind is the card's identity and Color acts as its suit; three cards lock
// into a set when they all share either one.
type Card struct {
	Kind    string `json:"id"`
	Name    string `json:"name"`
	Emoji   string `json:"emoji"`
	Color   string `json:"color"`
	SetName string `json:"setName"`
}
