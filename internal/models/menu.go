package models

import "time"

type Menu struct {
	ID      string    `json:"id"`
	OwnerID string    `json:"owner_id"`
	MenuID  int64     `json:"menu_id"`
	Name    string    `json:"name"`
	Price   int       `json:"price"`
	Created time.Time `json:"created_at"`
}
