package models

import "time"

type OrderItem struct {
	MenuID   int64  `json:"menu_id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    int    `json:"price"`
}

type Order struct {
	ID         string      `json:"id"`
	OwnerID    string      `json:"owner_id"`
	OrderID    int64       `json:"order_id"`
	TableID    int         `json:"table_id"`
	TableName  string      `json:"table_name"`
	Items      []OrderItem `json:"items"`
	OrderTime  string      `json:"order_time"`
	OrderDate  string      `json:"order_date"`
	TotalPrice int         `json:"total_price"`
	Paid       bool        `json:"paid"`
	Completed  bool        `json:"completed"`
	Created    time.Time   `json:"created_at"`
}
