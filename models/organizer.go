package models

type Organizer struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	AddressID int    `json:"address_id"`
	UserID    int    `json:"user_id"`

	User *User `json:"user,omitempty"`
}
