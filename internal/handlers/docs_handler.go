package handlers

import (
	"net/http"
)

type endpointDoc struct {
	Method       string `json:"method"`
	Path         string `json:"path"`
	Description  string `json:"description"`
	RequiresAuth bool   `json:"requiresAuth"`
}

var apiDocs = struct {
	Name      string        `json:"name"`
	Version   string        `json:"version"`
	Endpoints []endpointDoc `json:"endpoints"`
}{
	Name:    "JWT Pizza API",
	Version: "1.0",
	Endpoints: []endpointDoc{
		{"POST", "/api/auth", "Register a new user", false},
		{"PUT", "/api/auth", "Login an existing user", false},
		{"DELETE", "/api/auth", "Logout the current user", true},
		{"GET", "/api/order/menu", "Get the pizza menu", false},
		{"POST", "/api/order", "Create an order for the authenticated user", true},
		{"GET", "/api/order", "Get the authenticated user's order history", true},
		{"GET", "/api/franchise", "List all franchises", false},
		{"GET", "/api/franchise/{userId}", "List a user's franchises", true},
		{"POST", "/api/franchise", "Create a franchise (admin)", true},
		{"DELETE", "/api/franchise/{id}", "Delete a franchise (admin)", true},
		{"POST", "/api/franchise/{id}/store", "Create a store", true},
		{"DELETE", "/api/franchise/{id}/store/{storeId}", "Delete a store", true},
	},
}

// Docs handles GET /docs with a machine-readable API description.
func Docs(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, apiDocs)
}
