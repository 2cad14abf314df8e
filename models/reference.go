package models

// Справочные сущности: страны, города, адреса.
// Управляются вне этого сервиса, здесь только для FK-валидации и выдачи имен.

type Country struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type City struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	CountryID int    `json:"country_id"`
}

type Address struct {
	ID     int    `json:"id"`
	Line   string `json:"line"`
	CityID int    `json:"city_id"`
}
