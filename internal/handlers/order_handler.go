package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"pizza-service/internal/middleware"
	"pizza-service/internal/models"
	"pizza-service/internal/services"

	"github.com/rs/zerolog"
)

type OrderHandler struct {
	menuService  *services.MenuService
	orderService *services.OrderService
	logger       zerolog.Logger
}

func NewOrderHandler(menuService *services.MenuService, orderService *services.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		menuService:  menuService,
		orderService: orderService,
		logger:       logger,
	}
}

// GetMenu handles GET /api/order/menu.
func (h *OrderHandler) GetMenu(w http.ResponseWriter, r *http.Request) {
	menu, err := h.menuService.List()
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, menu)
}

// CreateOrder handles POST /api/order.
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized", "User not authenticated")
		return
	}

	var req models.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	resp, err := h.orderService.Create(user, &req)
	if err != nil {
		h.logger.Warn().Err(err).Int("diner_id", user.ID).Msg("Order rejected")
		respondWithDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, resp)
}

// GetOrders handles GET /api/order. Page defaults to 1.
func (h *OrderHandler) GetOrders(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized", "User not authenticated")
		return
	}

	page := 1
	if p := r.URL.Query().Get("page"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 {
			respondWithError(w, http.StatusBadRequest, "invalid_page", "Invalid page number")
			return
		}
		page = n
	}

	history, err := h.orderService.List(user.ID, page)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, history)
}
