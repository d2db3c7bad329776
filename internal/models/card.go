package models

import "fmt"

// Color is the printed color of a card, implied by its suit.
type Color string

const (
	ColorBlack Color = "black"
	ColorRed   Color = "red"
)

// Suit is one of the four standard french suits.
type Suit string

const (
	SuitClubs    Suit = "clubs"
	SuitSpades   Suit = "spades"
	SuitDiamonds Suit = "diamonds"
	SuitHearts   Suit = "hearts"
)

// Suits lists the suits in the deck's base order.
var Suits = []Suit{SuitClubs, SuitSpades, SuitDiamonds, SuitHearts}

// ColorOf returns black for clubs and spades, red for diamonds and hearts.
func ColorOf(s Suit) Color {
	if s == SuitDiamonds || s == SuitHearts {
		return ColorRed
	}
	return ColorBlack
}

// Rank runs from Two (2) through Ace (14).
type Rank int

const (
	RankTwo Rank = iota + 2
	RankThree
	RankFour
	RankFive
	RankSix
	RankSeven
	RankEight
	RankNine
	RankTen
	RankJack
	RankQueen
	RankKing
	RankAce
)

// Ranks lists all thirteen ranks in ascending order.
var Ranks = []Rank{
	RankTwo, RankThree, RankFour, RankFive, RankSix, RankSeven, RankEight,
	RankNine, RankTen, RankJack, RankQueen, RankKing, RankAce,
}

func (r Rank) String() string {
	switch r {
	case RankJack:
		return "J"
	case RankQueen:
		return "Q"
	case RankKing:
		return "K"
	case RankAce:
		return "A"
	default:
		return fmt.Sprintf("%d", int(r))
	}
}

// Card is an immutable playing card. Construct with NewCard; the color is
// derived from the suit and never set independently.
type Card struct {
	Color Color `json:"color"`
	Rank  Rank  `json:"rank"`
	Suit  Suit  `json:"suit"`
}

func NewCard(rank Rank, suit Suit) Card {
	return Card{Color: ColorOf(suit), Rank: rank, Suit: suit}
}

func (c Card) String() string {
	return fmt.Sprintf("%s of %s", c.Rank, c.Suit)
}
