package store

import (
	"context"
	"time"

	"tableorder/api-service/internal/models"
)

type CreateUserInput struct {
	Username     string
	PasswordHash string
	Name         string
	Phone        string
	Role         string
}

type CreateMenuInput struct {
	OwnerID   string
	MenuID    int64
	Name      string
	Price     int
	CreatedAt time.Time
}

type UpdateMenuInput struct {
	Name  string
	Price int
}

type CreateOrderInput struct {
	OwnerID    string
	OrderID    int64
	TableID    int
	TableName  string
	Items      []models.OrderItem
	OrderTime  string
	OrderDate  string
	TotalPrice int
	CreatedAt  time.Time
}

type CreateReservationInput struct {
	OwnerID         string
	ReservationID   int64
	CustomerName    string
	PhoneNumber     string
	ReservationTime time.Time
	NumberOfGuests  int
	Status          string
	CreatedAt       time.Time
}

type UpdateReservationInput struct {
	CustomerName    string
	PhoneNumber     string
	ReservationTime time.Time
	NumberOfGuests  int
	Status          string
}

// UserStore is the credential store consumed by the authentication service.
type UserStore interface {
	UsernameExists(ctx context.Context, username string) (bool, error)
	FindUserByUsername(ctx context.Context, username string) (models.User, error)
	CreateUser(ctx context.Context, input CreateUserInput) (models.User, error)
	UpdateUserPassword(ctx context.Context, userID, passwordHash string) error
}

// MenuStore, OrderStore, ReservationStore, and QrCodeStore all take the
// resolved owner id as a mandatory filter. Single-record lookups match id
// and owner jointly and return ErrNotFound on any miss.
type MenuStore interface {
	ListMenus(ctx context.Context, ownerID string) ([]models.Menu, error)
	CreateMenu(ctx context.Context, input CreateMenuInput) (models.Menu, error)
	UpdateMenu(ctx context.Context, id, ownerID string, input UpdateMenuInput) (models.Menu, error)
	DeleteMenu(ctx context.Context, id, ownerID string) error
}

type OrderStore interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (models.Order, error)
	ListOrders(ctx context.Context, ownerID string) ([]models.Order, error)
	ListTableOrders(ctx context.Context, ownerID string, tableID int) ([]models.Order, error)
	ListRemainingOrders(ctx context.Context, ownerID string) ([]models.Order, error)
	MarkOrderPaid(ctx context.Context, id, ownerID string) (models.Order, error)
	MarkOrderCompleted(ctx context.Context, id, ownerID string) (models.Order, error)
}

type ReservationStore interface {
	ListReservations(ctx context.Context, ownerID string) ([]models.Reservation, error)
	CreateReservation(ctx context.Context, input CreateReservationInput) (models.Reservation, error)
	UpdateReservation(ctx context.Context, id, ownerID string, input UpdateReservationInput) (models.Reservation, error)
	DeleteReservation(ctx context.Context, id, ownerID string) error
}

type QrCodeStore interface {
	LatestQrCode(ctx context.Context, ownerID string) (models.QrCode, error)
	SaveQrCode(ctx context.Context, ownerID, imageData string, now time.Time) (models.QrCode, error)
}

type Store interface {
	UserStore
	MenuStore
	OrderStore
	ReservationStore
	QrCodeStore
}
