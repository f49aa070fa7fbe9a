package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"pizza-service/internal/middleware"
	"pizza-service/internal/models"
	"pizza-service/internal/services"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrderHandler(t *testing.T) (*OrderHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	menuService := services.NewMenuService(db, zerolog.Nop())
	orderService := services.NewOrderService(db, "test-secret", zerolog.Nop())
	return NewOrderHandler(menuService, orderService, zerolog.Nop()), mock
}

var testDiner = &models.User{ID: 3, Name: "Kai Chen", Email: "d@jwt.com", Roles: []models.Role{{Role: models.RoleDiner}}}

func TestOrderHandler_GetMenu(t *testing.T) {
	h, mock := newTestOrderHandler(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title, image, price, description FROM menu_items ORDER BY id")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "image", "price", "description"}).
			AddRow(1, "Veggie", "pizza1.png", 0.0038, "A garden of delight").
			AddRow(2, "Pepperoni", "pizza2.png", 0.0042, "Spicy treat"))

	r := httptest.NewRequest("GET", "/api/order/menu", nil)
	w := httptest.NewRecorder()
	h.GetMenu(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[
		{"id":1,"title":"Veggie","image":"pizza1.png","price":0.0038,"description":"A garden of delight"},
		{"id":2,"title":"Pepperoni","image":"pizza2.png","price":0.0042,"description":"Spicy treat"}
	]`, w.Body.String())
}

func TestOrderHandler_CreateOrder(t *testing.T) {
	h, mock := newTestOrderHandler(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM stores WHERE id = ? AND franchise_id = ?")).
		WithArgs(4, 2).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(4))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT price FROM menu_items WHERE id = ?")).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"price"}).AddRow(0.0038))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT price FROM menu_items WHERE id = ?")).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"price"}).AddRow(0.0042))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO orders")).
		WithArgs(3, 2, 4, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(23, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO order_items")).
		WithArgs(int64(23), 1, "Veggie", 0.0038).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO order_items")).
		WithArgs(int64(23), 2, "Pepperoni", 0.0042).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	body := `{
		"items": [
			{"menuId": 1, "description": "Veggie", "price": 0.0038},
			{"menuId": 2, "description": "Pepperoni", "price": 0.0042}
		],
		"storeId": "4",
		"franchiseId": 2
	}`
	r := middleware.WithUser(httptest.NewRequest("POST", "/api/order", strings.NewReader(body)), testDiner)
	w := httptest.NewRecorder()
	h.CreateOrder(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Order map[string]json.RawMessage `json:"order"`
		JWT   string                     `json:"jwt"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, `23`, string(resp.Order["id"]))
	assert.Equal(t, `"4"`, string(resp.Order["storeId"]), "storeId echoes the client's string form")
	assert.Equal(t, `2`, string(resp.Order["franchiseId"]))
	assert.NotEmpty(t, resp.JWT)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderHandler_CreateOrderAnonymous(t *testing.T) {
	h, _ := newTestOrderHandler(t)

	r := httptest.NewRequest("POST", "/api/order", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	h.CreateOrder(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOrderHandler_GetOrders(t *testing.T) {
	h, mock := newTestOrderHandler(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM orders WHERE diner_id = ?")).
		WithArgs(3, 10, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "franchise_id", "store_id", "date"}))

	r := middleware.WithUser(httptest.NewRequest("GET", "/api/order", nil), testDiner)
	w := httptest.NewRecorder()
	h.GetOrders(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"dinerId":3,"orders":[],"page":1}`, w.Body.String())
}

func TestOrderHandler_GetOrdersInvalidPage(t *testing.T) {
	h, _ := newTestOrderHandler(t)

	r := middleware.WithUser(httptest.NewRequest("GET", "/api/order?page=zero", nil), testDiner)
	w := httptest.NewRecorder()
	h.GetOrders(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderHandler_GetOrdersPageParam(t *testing.T) {
	h, mock := newTestOrderHandler(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM orders WHERE diner_id = ?")).
		WithArgs(3, 10, 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "franchise_id", "store_id", "date"}))

	r := middleware.WithUser(httptest.NewRequest("GET", "/api/order?page=2", nil), testDiner)
	w := httptest.NewRecorder()
	h.GetOrders(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"page":2`)
}

// routeRequest runs the handler through a mux router so path variables are
// populated.
func routeRequest(h http.HandlerFunc, pattern string, r *http.Request) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc(pattern, h)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	return w
}
