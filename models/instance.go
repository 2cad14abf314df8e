package models

import "time"

// TournamentInstance — конкретное проведение базового турнира:
// один организатор, один город, одна дата, фиксированный взнос.
type TournamentInstance struct {
	ID           int       `json:"id"`
	TournamentID int       `json:"tournament_id"`
	OrganizerID  int       `json:"organizer_id"`
	CityID       int       `json:"city_id"`
	Date         time.Time `json:"date"`
	Fee          float64   `json:"fee"`
	MaxPlayers   int       `json:"max_players"`
	CreatedAt    time.Time `json:"created_at"`

	// Опциональные связанные сущности (не мапятся напрямую)
	Tournament *Tournament `json:"tournament,omitempty"`
	Organizer  *Organizer  `json:"organizer,omitempty"`
	City       *City       `json:"city,omitempty"`

	// Headcount is the live enrollment count at read time, not a stored column.
	Headcount int `json:"headcount"`
}

// TournamentInstancePatch carries the fields an update request actually sent.
// Nil means "leave as is"; every present field is validated individually.
type TournamentInstancePatch struct {
	TournamentID *int       `json:"tournament_id"`
	CityID       *int       `json:"city_id"`
	Date         *time.Time `json:"date"`
	Fee          *float64   `json:"fee"`
	MaxPlayers   *int       `json:"max_players"`
}
