package models

import "time"

type QrCode struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	ImageData string    `json:"image_data"`
	Created   time.Time `json:"created_at"`
}
