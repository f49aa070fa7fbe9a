package services

import (
	"database/sql"
	"fmt"
	"time"

	"pizza-service/internal/errdefs"
	"pizza-service/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

const historyPageSize = 10

type OrderService struct {
	db        *sql.DB
	secretKey []byte
	logger    zerolog.Logger
}

func NewOrderService(db *sql.DB, secret string, logger zerolog.Logger) *OrderService {
	return &OrderService{
		db:        db,
		secretKey: []byte(secret),
		logger:    logger,
	}
}

// Create validates the order against the catalog and the franchise registry,
// persists it in one transaction, and returns it with a signed receipt.
func (s *OrderService) Create(diner *models.User, req *models.CreateOrderRequest) (*models.CreateOrderResponse, error) {
	if len(req.Items) == 0 {
		return nil, errdefs.Validation("invalid_request", "an order needs at least one item")
	}

	storeID, err := req.StoreID.Int()
	if err != nil {
		return nil, errdefs.Validation("invalid_store", "storeId must be numeric")
	}

	var id int
	err = s.db.QueryRow(
		"SELECT id FROM stores WHERE id = ? AND franchise_id = ?",
		storeID, req.FranchiseID,
	).Scan(&id)
	if err == sql.ErrNoRows {
		return nil, errdefs.Validation("invalid_store", "store does not belong to franchise")
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("Error validating store")
		return nil, errdefs.Internal("database error", err)
	}

	for _, item := range req.Items {
		var price float64
		err := s.db.QueryRow("SELECT price FROM menu_items WHERE id = ?", item.MenuID).Scan(&price)
		if err == sql.ErrNoRows {
			return nil, errdefs.Validation("unknown_menu_item", fmt.Sprintf("menu item %d does not exist", item.MenuID))
		}
		if err != nil {
			s.logger.Error().Err(err).Msg("Error validating menu item")
			return nil, errdefs.Internal("database error", err)
		}
		// The client submits the price it displayed; it must match the
		// catalog exactly or the order is rejected.
		if item.Price != price {
			return nil, errdefs.Validation("price_mismatch", fmt.Sprintf("menu item %d price does not match the catalog", item.MenuID))
		}
	}

	date := time.Now().UTC()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, errdefs.Internal("database error", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		"INSERT INTO orders (diner_id, franchise_id, store_id, date) VALUES (?, ?, ?, ?)",
		diner.ID, req.FranchiseID, storeID, date,
	)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error creating order")
		return nil, errdefs.Internal("failed to create order", err)
	}
	orderID, err := result.LastInsertId()
	if err != nil {
		return nil, errdefs.Internal("failed to get order ID", err)
	}

	for _, item := range req.Items {
		_, err := tx.Exec(
			"INSERT INTO order_items (order_id, menu_id, description, price) VALUES (?, ?, ?, ?)",
			orderID, item.MenuID, item.Description, item.Price,
		)
		if err != nil {
			s.logger.Error().Err(err).Msg("Error creating order item")
			return nil, errdefs.Internal("failed to create order item", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, errdefs.Internal("database error", err)
	}

	receipt := models.OrderReceipt{
		Items:       req.Items,
		StoreID:     req.StoreID,
		FranchiseID: req.FranchiseID,
		Date:        date,
		ID:          int(orderID),
	}

	token, err := s.receiptToken(diner, receipt)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int("order_id", receipt.ID).Int("diner_id", diner.ID).Msg("Order created")
	return &models.CreateOrderResponse{
		Order: receipt,
		JWT:   token,
	}, nil
}

// List returns one page of the diner's order history in insertion order.
func (s *OrderService) List(dinerID, page int) (*models.OrderHistory, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * historyPageSize

	rows, err := s.db.Query(
		"SELECT id, franchise_id, store_id, date FROM orders WHERE diner_id = ? ORDER BY id LIMIT ? OFFSET ?",
		dinerID, historyPageSize, offset,
	)
	if err != nil {
		s.logger.Error().Err(err).Int("diner_id", dinerID).Msg("Error fetching orders")
		return nil, errdefs.Internal("database error", err)
	}

	orders := []models.Order{}
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.FranchiseID, &o.StoreID, &o.Date); err != nil {
			rows.Close()
			return nil, errdefs.Internal("database error", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, errdefs.Internal("database error", err)
	}
	rows.Close()

	for i := range orders {
		items, err := s.listItems(orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}

	return &models.OrderHistory{
		DinerID: dinerID,
		Orders:  orders,
		Page:    page,
	}, nil
}

func (s *OrderService) listItems(orderID int) ([]models.OrderItem, error) {
	rows, err := s.db.Query(
		"SELECT id, menu_id, description, price FROM order_items WHERE order_id = ? ORDER BY id",
		orderID,
	)
	if err != nil {
		return nil, errdefs.Internal("database error", err)
	}
	defer rows.Close()

	items := []models.OrderItem{}
	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ID, &item.MenuID, &item.Description, &item.Price); err != nil {
			return nil, errdefs.Internal("database error", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// receiptToken signs the order into a compact display artifact. It carries no
// authority; nothing in the service accepts it back.
func (s *OrderService) receiptToken(diner *models.User, receipt models.OrderReceipt) (string, error) {
	claims := jwt.MapClaims{
		"iat": time.Now().Unix(),
		"iss": "pizza-service",
		"diner": map[string]interface{}{
			"id":    diner.ID,
			"name":  diner.Name,
			"email": diner.Email,
		},
		"order": receipt,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error signing receipt")
		return "", errdefs.Internal("failed to sign receipt", err)
	}
	return tokenString, nil
}
