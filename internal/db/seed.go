package db

import (
	"database/sql"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

type seedMenuItem struct {
	title       string
	image       string
	price       float64
	description string
}

var defaultMenu = []seedMenuItem{
	{"Veggie", "pizza1.png", 0.0038, "A garden of delight"},
	{"Pepperoni", "pizza2.png", 0.0042, "Spicy treat"},
	{"Margarita", "pizza3.png", 0.0014, "Essential classic"},
	{"Crusty", "pizza4.png", 0.0028, "A dry mouthed favorite"},
}

// Seed loads the menu catalog and the default admin account. Both are
// idempotent so repeated startups leave existing data alone.
func Seed(db *sql.DB, adminName, adminEmail, adminPassword string) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM menu_items").Scan(&count); err != nil {
		return fmt.Errorf("checking menu: %w", err)
	}
	if count == 0 {
		for _, item := range defaultMenu {
			_, err := db.Exec(
				"INSERT INTO menu_items (title, image, price, description) VALUES (?, ?, ?, ?)",
				item.title, item.image, item.price, item.description,
			)
			if err != nil {
				return fmt.Errorf("seeding menu: %w", err)
			}
		}
	}

	var adminID int
	err := db.QueryRow("SELECT id FROM users WHERE email = ?", adminEmail).Scan(&adminID)
	if err == sql.ErrNoRows {
		hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hashing admin password: %w", err)
		}
		result, err := db.Exec(
			"INSERT INTO users (name, email, password_hash) VALUES (?, ?, ?)",
			adminName, adminEmail, string(hash),
		)
		if err != nil {
			return fmt.Errorf("seeding admin: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("seeding admin: %w", err)
		}
		_, err = db.Exec("INSERT INTO user_roles (user_id, role) VALUES (?, ?)", id, "admin")
		if err != nil {
			return fmt.Errorf("seeding admin role: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("checking admin: %w", err)
	}

	return nil
}
