package models

import "time"

// RosterEntry — строка списка записавшихся для организатора:
// игрок, контакты и состояние платежа.
type RosterEntry struct {
	EnrollmentID  int       `json:"enrollment_id"`
	PlayerID      int       `json:"player_id"`
	PlayerName    string    `json:"player_name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	EnrolledAt    time.Time `json:"enrolled_at"`
	PaymentStatus string    `json:"payment_status"`
	PaymentMethod string    `json:"payment_method"`
	Amount        float64   `json:"amount"`
}

// Roster — итоговая проекция по инстансу турнира.
type Roster struct {
	InstanceID int           `json:"instance_id"`
	Headcount  int           `json:"headcount"`
	MaxPlayers int           `json:"max_players"`
	Entries    []RosterEntry `json:"entries"`
}
