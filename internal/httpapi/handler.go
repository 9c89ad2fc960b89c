package httpapi

import (
	"encoding/json"
	"errors"
	"expvar"
	"net/http"
	"strconv"
	"strings"
	"time"

	"tableorder/api-service/internal/auth"
	"tableorder/api-service/internal/models"
	"tableorder/api-service/internal/store"

	"github.com/google/uuid"
)

type Handler struct {
	auth  *auth.Service
	store store.Store
}

type signupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

type resetPasswordRequest struct {
	Username        string `json:"username"`
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type menuRequest struct {
	Name  string `json:"name"`
	Price int    `json:"price"`
}

type orderRequest struct {
	TableID    int                `json:"table_id"`
	TableName  string             `json:"table_name"`
	Items      []models.OrderItem `json:"items"`
	OrderTime  string             `json:"order_time"`
	OrderDate  string             `json:"order_date"`
	TotalPrice int                `json:"total_price"`
}

type reservationRequest struct {
	CustomerName    string    `json:"customer_name"`
	PhoneNumber     string    `json:"phone_number"`
	ReservationTime time.Time `json:"reservation_time"`
	NumberOfGuests  int       `json:"number_of_guests"`
	Status          string    `json:"status"`
}

type qrCodeRequest struct {
	ImageData string `json:"image_data"`
}

type statusResponse struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Error responseError `json:"error"`
}

type responseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func NewHandler(authService *auth.Service, st store.Store) *Handler {
	return &Handler{auth: authService, store: st}
}

func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", h.handleHealth)
	mux.Handle("/debug/vars", expvar.Handler())
	mux.HandleFunc("/api/auth/signup", h.handleSignup)
	mux.HandleFunc("/api/auth/login", h.handleLogin)
	mux.HandleFunc("/api/auth/reset-password", h.handleResetPassword)
	mux.HandleFunc("/api/menus", h.handleMenus)
	mux.HandleFunc("/api/menus/", h.handleMenuByID)
	mux.HandleFunc("/api/orders", h.handleOrders)
	mux.HandleFunc("/api/orders/table/", h.handleTableOrders)
	mux.HandleFunc("/api/orders/remaining", h.handleRemainingOrders)
	mux.HandleFunc("/api/orders/", h.handleOrderActions)
	mux.HandleFunc("/api/reservations", h.handleReservations)
	mux.HandleFunc("/api/reservations/", h.handleReservationByID)
	mux.HandleFunc("/api/qrcode", h.handleQrCode)
	return mux
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) handleSignup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req signupRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Name = strings.TrimSpace(req.Name)
	req.Phone = strings.TrimSpace(req.Phone)

	if req.Username == "" || req.Password == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "username, password, and name are required")
		return
	}

	if err := h.auth.Signup(r.Context(), req.Username, req.Password, req.Name, req.Phone); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "username and password are required")
		return
	}

	result, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Token: result.Token, UserID: result.UserID, Name: result.Name})
}

func (h *Handler) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req resetPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.CurrentPassword == "" || req.NewPassword == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "username, current_password, and new_password are required")
		return
	}

	if err := h.auth.ResetPassword(r.Context(), req.Username, req.CurrentPassword, req.NewPassword); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

func (h *Handler) handleMenus(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		menus, err := h.store.ListMenus(r.Context(), ownerID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, menus)
	case http.MethodPost:
		var req menuRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" || req.Price < 0 {
			writeError(w, http.StatusBadRequest, "invalid_request", "name is required and price must not be negative")
			return
		}
		now := time.Now().UTC()
		menu, err := h.store.CreateMenu(r.Context(), store.CreateMenuInput{
			OwnerID:   ownerID,
			MenuID:    now.UnixMilli(),
			Name:      req.Name,
			Price:     req.Price,
			CreatedAt: now,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, menu)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handleMenuByID(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/menus/")
	if id == "" || strings.Contains(id, "/") || !isValidUUID(id) {
		writeError(w, http.StatusBadRequest, "invalid_request", "menu id must be a UUID")
		return
	}

	switch r.Method {
	case http.MethodPut:
		var req menuRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" || req.Price < 0 {
			writeError(w, http.StatusBadRequest, "invalid_request", "name is required and price must not be negative")
			return
		}
		menu, err := h.store.UpdateMenu(r.Context(), id, ownerID, store.UpdateMenuInput{Name: req.Name, Price: req.Price})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, menu)
	case http.MethodDelete:
		if err := h.store.DeleteMenu(r.Context(), id, ownerID); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handleOrders(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		orders, err := h.store.ListOrders(r.Context(), ownerID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, orders)
	case http.MethodPost:
		var req orderRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.TableID <= 0 || len(req.Items) == 0 {
			writeError(w, http.StatusBadRequest, "invalid_request", "table_id and items are required")
			return
		}
		for _, item := range req.Items {
			if item.Quantity <= 0 || item.Price < 0 {
				writeError(w, http.StatusBadRequest, "invalid_request", "item quantity must be positive and price must not be negative")
				return
			}
		}
		now := time.Now().UTC()
		if req.OrderDate == "" {
			req.OrderDate = now.Format("2006-01-02")
		}
		if req.OrderTime == "" {
			req.OrderTime = now.Format("15:04")
		}
		if req.TotalPrice == 0 {
			for _, item := range req.Items {
				req.TotalPrice += item.Price * item.Quantity
			}
		}
		order, err := h.store.CreateOrder(r.Context(), store.CreateOrderInput{
			OwnerID:    ownerID,
			OrderID:    now.UnixMilli(),
			TableID:    req.TableID,
			TableName:  strings.TrimSpace(req.TableName),
			Items:      req.Items,
			OrderTime:  req.OrderTime,
			OrderDate:  req.OrderDate,
			TotalPrice: req.TotalPrice,
			CreatedAt:  now,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, order)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handleTableOrders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	raw := strings.TrimPrefix(r.URL.Path, "/api/orders/table/")
	tableID, err := strconv.Atoi(raw)
	if err != nil || tableID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "table id must be a positive integer")
		return
	}

	orders, err := h.store.ListTableOrders(r.Context(), ownerID, tableID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) handleRemainingOrders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	orders, err := h.store.ListRemainingOrders(r.Context(), ownerID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) handleOrderActions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/orders/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || !isValidUUID(parts[0]) {
		writeError(w, http.StatusBadRequest, "invalid_request", "expected /api/orders/{id}/pay or /api/orders/{id}/complete")
		return
	}

	var (
		order models.Order
		err   error
	)
	switch parts[1] {
	case "pay":
		order, err = h.store.MarkOrderPaid(r.Context(), parts[0], ownerID)
	case "complete":
		order, err = h.store.MarkOrderCompleted(r.Context(), parts[0], ownerID)
	default:
		writeError(w, http.StatusBadRequest, "invalid_request", "unknown order action")
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) handleReservations(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		reservations, err := h.store.ListReservations(r.Context(), ownerID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, reservations)
	case http.MethodPost:
		var req reservationRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		req.CustomerName = strings.TrimSpace(req.CustomerName)
		if req.CustomerName == "" || req.ReservationTime.IsZero() || req.NumberOfGuests <= 0 {
			writeError(w, http.StatusBadRequest, "invalid_request", "customer_name, reservation_time, and number_of_guests are required")
			return
		}
		if req.Status == "" {
			req.Status = "confirmed"
		}
		now := time.Now().UTC()
		res, err := h.store.CreateReservation(r.Context(), store.CreateReservationInput{
			OwnerID:         ownerID,
			ReservationID:   now.UnixMilli(),
			CustomerName:    req.CustomerName,
			PhoneNumber:     strings.TrimSpace(req.PhoneNumber),
			ReservationTime: req.ReservationTime,
			NumberOfGuests:  req.NumberOfGuests,
			Status:          req.Status,
			CreatedAt:       now,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handleReservationByID(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/reservations/")
	if id == "" || strings.Contains(id, "/") || !isValidUUID(id) {
		writeError(w, http.StatusBadRequest, "invalid_request", "reservation id must be a UUID")
		return
	}

	switch r.Method {
	case http.MethodPut:
		var req reservationRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		req.CustomerName = strings.TrimSpace(req.CustomerName)
		if req.CustomerName == "" || req.ReservationTime.IsZero() || req.NumberOfGuests <= 0 {
			writeError(w, http.StatusBadRequest, "invalid_request", "customer_name, reservation_time, and number_of_guests are required")
			return
		}
		if req.Status == "" {
			req.Status = "confirmed"
		}
		res, err := h.store.UpdateReservation(r.Context(), id, ownerID, store.UpdateReservationInput{
			CustomerName:    req.CustomerName,
			PhoneNumber:     strings.TrimSpace(req.PhoneNumber),
			ReservationTime: req.ReservationTime,
			NumberOfGuests:  req.NumberOfGuests,
			Status:          req.Status,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	case http.MethodDelete:
		if err := h.store.DeleteReservation(r.Context(), id, ownerID); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handleQrCode(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		qr, err := h.store.LatestQrCode(r.Context(), ownerID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, qr)
	case http.MethodPost:
		var req qrCodeRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if strings.TrimSpace(req.ImageData) == "" {
			writeError(w, http.StatusBadRequest, "invalid_request", "image_data is required")
			return
		}
		qr, err := h.store.SaveQrCode(r.Context(), ownerID, req.ImageData, time.Now().UTC())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, qr)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid JSON payload")
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: responseError{Code: code, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func isValidUUID(value string) bool {
	_, err := uuid.Parse(value)
	return err == nil
}
