package models

import "time"

// Enrollment — запись игрока на проведение турнира. Связь с инстансом
// идет через enrollment_instances (одна запись — один инстанс — один платеж).
type Enrollment struct {
	ID        int       `json:"id"`
	PlayerID  int       `json:"player_id"`
	PaymentID *int      `json:"payment_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// EnrollmentDetail is the player-facing listing row: an enrollment joined
// with its instance, base tournament, organizer, city and payment summary.
type EnrollmentDetail struct {
	EnrollmentID   int       `json:"enrollment_id"`
	InstanceID     int       `json:"instance_id"`
	TournamentName string    `json:"tournament_name"`
	OrganizerName  string    `json:"organizer_name"`
	CityName       string    `json:"city_name"`
	Date           time.Time `json:"date"`
	Fee            float64   `json:"fee"`
	EnrolledAt     time.Time `json:"enrolled_at"`
	PaymentStatus  string    `json:"payment_status"`
	PaymentMethod  string    `json:"payment_method"`
}
