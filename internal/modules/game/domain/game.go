package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Status string

const (
	StatusOpen Status = "open"
	StatusFull Status = "full"
)

var (
	ErrAlreadyJoined = errors.New("user already joined the game")
	ErrGameFull      = errors.New("game is full")
)

// Game is a posted pickup game. Exactly one of the API location (name,
// latitude, longitude) or the manual free-text location is populated.
type Game struct {
	ID           uuid.UUID `db:"id" json:"id"`
	CreatorID    string    `db:"creator_id" json:"creatorId"`
	CreatorEmail string    `db:"creator_email" json:"creatorEmail"`

	LocationName   *string  `db:"location_name" json:"locationName,omitempty"`
	Latitude       *float64 `db:"latitude" json:"latitude,omitempty"`
	Longitude      *float64 `db:"longitude" json:"longitude,omitempty"`
	ManualLocation *string  `db:"manual_location" json:"manualLocation,omitempty"`

	Sport      string         `db:"sport" json:"sport"`
	Time       time.Time      `db:"time" json:"time"`
	MaxPlayers int            `db:"max_players" json:"maxPlayers"`
	Players    pq.StringArray `db:"players" json:"players"`
	Status     Status         `db:"status" json:"status"`
}

// HasCoordinates reports whether the game carries an API-sourced coordinate.
// Manual-text-only games are never geolocatable.
func (g Game) HasCoordinates() bool {
	return g.Latitude != nil && g.Longitude != nil
}

// Join appends userID to the roster. The roster never contains duplicates
// and never exceeds MaxPlayers.
func (g *Game) Join(userID string) error {
	for _, player := range g.Players {
		if player == userID {
			return ErrAlreadyJoined
		}
	}

	if len(g.Players) >= g.MaxPlayers {
		return ErrGameFull
	}

	g.Players = append(g.Players, userID)
	g.refreshStatus()

	return nil
}

// Leave removes one matching roster entry. Removing an absent user is a
// no-op; the return value reports whether anything changed.
func (g *Game) Leave(userID string) bool {
	for i, player := range g.Players {
		if player == userID {
			g.Players = append(g.Players[:i], g.Players[i+1:]...)
			g.refreshStatus()
			return true
		}
	}

	return false
}

func (g *Game) refreshStatus() {
	if len(g.Players) >= g.MaxPlayers {
		g.Status = StatusFull
	} else {
		g.Status = StatusOpen
	}
}

// NewGame builds the stored representation of a freshly posted game with
// the creator as the first roster member.
func NewGame(
	creatorID string,
	creatorEmail string,
	sport string,
	at time.Time,
	maxPlayers int,
) Game {
	game := Game{
		ID:           uuid.New(),
		CreatorID:    creatorID,
		CreatorEmail: creatorEmail,
		Sport:        sport,
		Time:         at,
		MaxPlayers:   maxPlayers,
		Players:      pq.StringArray{creatorID},
	}
	game.refreshStatus()

	return game
}
