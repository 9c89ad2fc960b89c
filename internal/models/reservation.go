package models

import "time"

type Reservation struct {
	ID              string    `json:"id"`
	OwnerID         string    `json:"owner_id"`
	ReservationID   int64     `json:"reservation_id"`
	CustomerName    string    `json:"customer_name"`
	PhoneNumber     string    `json:"phone_number"`
	ReservationTime time.Time `json:"reservation_time"`
	NumberOfGuests  int       `json:"number_of_guests"`
	Status          string    `json:"status"`
	Created         time.Time `json:"created_at"`
}
