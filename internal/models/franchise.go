package models

type Franchise struct {
	ID     int              `json:"id"`
	Name   string           `json:"name"`
	Admins []FranchiseAdmin `json:"admins,omitempty"`
	Stores []Store          `json:"stores"`
}

type FranchiseAdmin struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Store struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	TotalRevenue float64 `json:"totalRevenue,omitempty"`
}

type CreateFranchiseRequest struct {
	Name   string       `json:"name"`
	Admins []AdminEmail `json:"admins"`
}

type AdminEmail struct {
	Email string `json:"email"`
}

// CreateFranchiseResponse omits the store list; a new franchise has none.
type CreateFranchiseResponse struct {
	ID     int              `json:"id"`
	Name   string           `json:"name"`
	Admins []FranchiseAdmin `json:"admins"`
}

type CreateStoreRequest struct {
	Name string `json:"name"`
}

type StoreResponse struct {
	ID          int    `json:"id"`
	FranchiseID int    `json:"franchiseId"`
	Name        string `json:"name"`
}
