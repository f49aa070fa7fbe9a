package models

import (
	"encoding/json"
	"errors"
	"strconv"
	"time"
)

// FlexID accepts a JSON number or string and re-encodes in the same form the
// client sent. The UI submits the selected store id as a string while other
// clients send numbers.
type FlexID struct {
	raw json.RawMessage
}

func NewFlexID(id int) FlexID {
	return FlexID{raw: json.RawMessage(strconv.Itoa(id))}
}

func (f *FlexID) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		f.raw = append(json.RawMessage(nil), data...)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err == nil {
		f.raw = append(json.RawMessage(nil), data...)
		return nil
	}
	return errors.New("id must be a string or number")
}

func (f FlexID) MarshalJSON() ([]byte, error) {
	if f.raw == nil {
		return []byte("null"), nil
	}
	return f.raw, nil
}

// Int resolves the id to its numeric value.
func (f FlexID) Int() (int, error) {
	s := string(f.raw)
	if len(s) >= 2 && s[0] == '"' {
		s = s[1 : len(s)-1]
	}
	return strconv.Atoi(s)
}

func (f FlexID) String() string {
	s := string(f.raw)
	if len(s) >= 2 && s[0] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

type OrderItem struct {
	ID          int     `json:"id,omitempty"`
	MenuID      int     `json:"menuId"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// Order is a persisted order as returned by the history listing.
type Order struct {
	ID          int         `json:"id"`
	FranchiseID int         `json:"franchiseId"`
	StoreID     int         `json:"storeId"`
	Date        time.Time   `json:"date"`
	Items       []OrderItem `json:"items"`
}

// Total is the sum of the item prices in the order's currency unit.
func (o *Order) Total() float64 {
	var total float64
	for _, item := range o.Items {
		total += item.Price
	}
	return total
}

type CreateOrderRequest struct {
	Items       []OrderItem `json:"items"`
	StoreID     FlexID      `json:"storeId"`
	FranchiseID int         `json:"franchiseId"`
}

// OrderReceipt echoes the submitted order with its assigned id. StoreID keeps
// the form the client sent it in.
type OrderReceipt struct {
	Items       []OrderItem `json:"items"`
	StoreID     FlexID      `json:"storeId"`
	FranchiseID int         `json:"franchiseId"`
	Date        time.Time   `json:"date"`
	ID          int         `json:"id"`
}

type CreateOrderResponse struct {
	Order OrderReceipt `json:"order"`
	JWT   string       `json:"jwt"`
}

type OrderHistory struct {
	DinerID int     `json:"dinerId"`
	Orders  []Order `json:"orders"`
	Page    int     `json:"page"`
}
