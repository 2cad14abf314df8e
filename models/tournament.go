package models

// Tournament — базовый турнир (каталог): именованный шаблон,
// который организаторы инстанцируют на дату и город.
type Tournament struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
