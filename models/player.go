package models

// Player связывает учетную запись пользователя с профилем шахматиста.
type Player struct {
	ID        int    `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	AddressID int    `json:"address_id"`
	UserID    int    `json:"user_id"`

	User *User `json:"user,omitempty"`
}

func (p *Player) FullName() string {
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}
