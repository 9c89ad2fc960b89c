package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"tableorder/api-service/internal/models"
	"tableorder/api-service/internal/store"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func (s *Store) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	row := s.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)
	`, username)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (s *Store) FindUserByUsername(ctx context.Context, username string) (models.User, error) {
	var user models.User
	row := s.pool.QueryRow(ctx, `
		SELECT user_id, username, password_hash, name, phone, role, created_at
		FROM users
		WHERE username = $1
	`, username)
	if err := row.Scan(&user.UserID, &user.Username, &user.PasswordHash, &user.Name, &user.Phone, &user.Role, &user.Created); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, store.ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func (s *Store) CreateUser(ctx context.Context, input store.CreateUserInput) (models.User, error) {
	userID := uuid.NewString()
	created := time.Now().UTC()
	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (user_id, username, password_hash, name, phone, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, userID, input.Username, input.PasswordHash, input.Name, input.Phone, input.Role, created)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, store.ErrConflict
		}
		return models.User{}, err
	}
	return models.User{
		UserID:       userID,
		Username:     input.Username,
		PasswordHash: input.PasswordHash,
		Name:         input.Name,
		Phone:        input.Phone,
		Role:         input.Role,
		Created:      created,
	}, nil
}

func (s *Store) UpdateUserPassword(ctx context.Context, userID, passwordHash string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE users SET password_hash = $2 WHERE user_id = $1
	`, userID, passwordHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) ListMenus(ctx context.Context, ownerID string) ([]models.Menu, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, owner_id, menu_id, name, price, created_at
		FROM menus
		WHERE owner_id = $1
		ORDER BY created_at ASC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var menus []models.Menu
	for rows.Next() {
		var menu models.Menu
		if err := rows.Scan(&menu.ID, &menu.OwnerID, &menu.MenuID, &menu.Name, &menu.Price, &menu.Created); err != nil {
			return nil, err
		}
		menus = append(menus, menu)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return menus, nil
}

func (s *Store) CreateMenu(ctx context.Context, input store.CreateMenuInput) (models.Menu, error) {
	id := uuid.NewString()
	_, err := s.pool.Exec(ctx, `
		INSERT INTO menus (id, owner_id, menu_id, name, price, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, id, input.OwnerID, input.MenuID, input.Name, input.Price, input.CreatedAt)
	if err != nil {
		return models.Menu{}, err
	}
	return models.Menu{
		ID:      id,
		OwnerID: input.OwnerID,
		MenuID:  input.MenuID,
		Name:    input.Name,
		Price:   input.Price,
		Created: input.CreatedAt,
	}, nil
}

func (s *Store) UpdateMenu(ctx context.Context, id, ownerID string, input store.UpdateMenuInput) (models.Menu, error) {
	var menu models.Menu
	row := s.pool.QueryRow(ctx, `
		UPDATE menus SET name = $3, price = $4
		WHERE id = $1 AND owner_id = $2
		RETURNING id, owner_id, menu_id, name, price, created_at
	`, id, ownerID, input.Name, input.Price)
	if err := row.Scan(&menu.ID, &menu.OwnerID, &menu.MenuID, &menu.Name, &menu.Price, &menu.Created); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Menu{}, store.ErrNotFound
		}
		return models.Menu{}, err
	}
	return menu, nil
}

func (s *Store) DeleteMenu(ctx context.Context, id, ownerID string) error {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM menus WHERE id = $1 AND owner_id = $2
	`, id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) CreateOrder(ctx context.Context, input store.CreateOrderInput) (models.Order, error) {
	id := uuid.NewString()
	items, err := json.Marshal(input.Items)
	if err != nil {
		return models.Order{}, err
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO orders (id, owner_id, order_id, table_id, table_name, items,
		                    order_time, order_date, total_price, is_paid, is_completed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, FALSE, FALSE, $10)
	`, id, input.OwnerID, input.OrderID, input.TableID, input.TableName, items,
		input.OrderTime, input.OrderDate, input.TotalPrice, input.CreatedAt)
	if err != nil {
		return models.Order{}, err
	}
	return models.Order{
		ID:         id,
		OwnerID:    input.OwnerID,
		OrderID:    input.OrderID,
		TableID:    input.TableID,
		TableName:  input.TableName,
		Items:      input.Items,
		OrderTime:  input.OrderTime,
		OrderDate:  input.OrderDate,
		TotalPrice: input.TotalPrice,
		Created:    input.CreatedAt,
	}, nil
}

const orderColumns = `id, owner_id, order_id, table_id, table_name, items,
	order_time, order_date, total_price, is_paid, is_completed, created_at`

func scanOrder(row pgx.Row) (models.Order, error) {
	var order models.Order
	var items []byte
	if err := row.Scan(&order.ID, &order.OwnerID, &order.OrderID, &order.TableID, &order.TableName, &items,
		&order.OrderTime, &order.OrderDate, &order.TotalPrice, &order.Paid, &order.Completed, &order.Created); err != nil {
		return models.Order{}, err
	}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &order.Items); err != nil {
			return models.Order{}, err
		}
	}
	return order, nil
}

func (s *Store) queryOrders(ctx context.Context, query string, args ...interface{}) ([]models.Order, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *Store) ListOrders(ctx context.Context, ownerID string) ([]models.Order, error) {
	return s.queryOrders(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`, ownerID)
}

func (s *Store) ListTableOrders(ctx context.Context, ownerID string, tableID int) ([]models.Order, error) {
	return s.queryOrders(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE owner_id = $1 AND table_id = $2 AND is_paid = FALSE
		ORDER BY created_at DESC
	`, ownerID, tableID)
}

func (s *Store) ListRemainingOrders(ctx context.Context, ownerID string) ([]models.Order, error) {
	return s.queryOrders(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE owner_id = $1 AND is_paid = TRUE AND is_completed = FALSE
		ORDER BY created_at DESC
	`, ownerID)
}

func (s *Store) markOrder(ctx context.Context, id, ownerID, column string) (models.Order, error) {
	order, err := scanOrder(s.pool.QueryRow(ctx, `
		UPDATE orders SET `+column+` = TRUE
		WHERE id = $1 AND owner_id = $2
		RETURNING `+orderColumns+`
	`, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Order{}, store.ErrNotFound
		}
		return models.Order{}, err
	}
	return order, nil
}

func (s *Store) MarkOrderPaid(ctx context.Context, id, ownerID string) (models.Order, error) {
	return s.markOrder(ctx, id, ownerID, "is_paid")
}

func (s *Store) MarkOrderCompleted(ctx context.Context, id, ownerID string) (models.Order, error) {
	return s.markOrder(ctx, id, ownerID, "is_completed")
}

func (s *Store) ListReservations(ctx context.Context, ownerID string) ([]models.Reservation, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, owner_id, reservation_id, customer_name, phone_number,
		       reservation_time, number_of_guests, status, created_at
		FROM reservations
		WHERE owner_id = $1
		ORDER BY created_at ASC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reservations []models.Reservation
	for rows.Next() {
		var res models.Reservation
		if err := rows.Scan(&res.ID, &res.OwnerID, &res.ReservationID, &res.CustomerName, &res.PhoneNumber,
			&res.ReservationTime, &res.NumberOfGuests, &res.Status, &res.Created); err != nil {
			return nil, err
		}
		reservations = append(reservations, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reservations, nil
}

func (s *Store) CreateReservation(ctx context.Context, input store.CreateReservationInput) (models.Reservation, error) {
	id := uuid.NewString()
	_, err := s.pool.Exec(ctx, `
		INSERT INTO reservations (id, owner_id, reservation_id, customer_name, phone_number,
		                          reservation_time, number_of_guests, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, id, input.OwnerID, input.ReservationID, input.CustomerName, input.PhoneNumber,
		input.ReservationTime, input.NumberOfGuests, input.Status, input.CreatedAt)
	if err != nil {
		return models.Reservation{}, err
	}
	return models.Reservation{
		ID:              id,
		OwnerID:         input.OwnerID,
		ReservationID:   input.ReservationID,
		CustomerName:    input.CustomerName,
		PhoneNumber:     input.PhoneNumber,
		ReservationTime: input.ReservationTime,
		NumberOfGuests:  input.NumberOfGuests,
		Status:          input.Status,
		Created:         input.CreatedAt,
	}, nil
}

func (s *Store) UpdateReservation(ctx context.Context, id, ownerID string, input store.UpdateReservationInput) (models.Reservation, error) {
	var res models.Reservation
	row := s.pool.QueryRow(ctx, `
		UPDATE reservations
		SET customer_name = $3, phone_number = $4, reservation_time = $5,
		    number_of_guests = $6, status = $7
		WHERE id = $1 AND owner_id = $2
		RETURNING id, owner_id, reservation_id, customer_name, phone_number,
		          reservation_time, number_of_guests, status, created_at
	`, id, ownerID, input.CustomerName, input.PhoneNumber, input.ReservationTime,
		input.NumberOfGuests, input.Status)
	if err := row.Scan(&res.ID, &res.OwnerID, &res.ReservationID, &res.CustomerName, &res.PhoneNumber,
		&res.ReservationTime, &res.NumberOfGuests, &res.Status, &res.Created); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Reservation{}, store.ErrNotFound
		}
		return models.Reservation{}, err
	}
	return res, nil
}

func (s *Store) DeleteReservation(ctx context.Context, id, ownerID string) error {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM reservations WHERE id = $1 AND owner_id = $2
	`, id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) LatestQrCode(ctx context.Context, ownerID string) (models.QrCode, error) {
	var qr models.QrCode
	row := s.pool.QueryRow(ctx, `
		SELECT id, owner_id, image_data, created_at
		FROM qrcodes
		WHERE owner_id = $1
	`, ownerID)
	if err := row.Scan(&qr.ID, &qr.OwnerID, &qr.ImageData, &qr.Created); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.QrCode{}, store.ErrNotFound
		}
		return models.QrCode{}, err
	}
	return qr, nil
}

// SaveQrCode keeps exactly one record per owner. The unique index on
// owner_id turns a racing first save into an update of the winner's row,
// so the record id survives overwrites.
func (s *Store) SaveQrCode(ctx context.Context, ownerID, imageData string, now time.Time) (models.QrCode, error) {
	var qr models.QrCode
	row := s.pool.QueryRow(ctx, `
		INSERT INTO qrcodes (id, owner_id, image_data, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (owner_id) DO UPDATE
		SET image_data = EXCLUDED.image_data, created_at = EXCLUDED.created_at
		RETURNING id, owner_id, image_data, created_at
	`, uuid.NewString(), ownerID, imageData, now)
	if err := row.Scan(&qr.ID, &qr.OwnerID, &qr.ImageData, &qr.Created); err != nil {
		return models.QrCode{}, err
	}
	return qr, nil
}
