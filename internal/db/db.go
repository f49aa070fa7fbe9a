package db

import (
	"database/sql"
	"log"

	_ "github.com/go-sql-driver/mysql"
)

func InitDB(dbURL string) *sql.DB {
	db, err := sql.Open("mysql", dbURL+"?parseTime=true")
	if err != nil {
		log.Fatal("could not open database:", err)
	}

	if err := db.Ping(); err != nil {
		log.Fatal("database is not responding:", err)
	}

	return db
}

func RunMigrations(db *sql.DB) {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(100) NOT NULL,
			email VARCHAR(100) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS user_roles (
			id INT AUTO_INCREMENT PRIMARY KEY,
			user_id INT NOT NULL,
			role VARCHAR(50) NOT NULL,
			object_id INT,
			UNIQUE KEY uniq_user_role (user_id, role, object_id),
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS franchises (
			id INT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(100) NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS stores (
			id INT AUTO_INCREMENT PRIMARY KEY,
			franchise_id INT NOT NULL,
			name VARCHAR(100) NOT NULL,
			INDEX idx_franchise_id (franchise_id)
		);`,
		`CREATE TABLE IF NOT EXISTS menu_items (
			id INT AUTO_INCREMENT PRIMARY KEY,
			title VARCHAR(100) NOT NULL,
			image VARCHAR(100),
			price DOUBLE NOT NULL,
			description VARCHAR(255)
		);`,
		`CREATE TABLE IF NOT EXISTS orders (
			id INT AUTO_INCREMENT PRIMARY KEY,
			diner_id INT NOT NULL,
			franchise_id INT NOT NULL,
			store_id INT NOT NULL,
			date DATETIME DEFAULT CURRENT_TIMESTAMP,
			INDEX idx_diner_id (diner_id),
			INDEX idx_store_id (store_id)
		);`,
		`CREATE TABLE IF NOT EXISTS order_items (
			id INT AUTO_INCREMENT PRIMARY KEY,
			order_id INT NOT NULL,
			menu_id INT NOT NULL,
			description VARCHAR(255),
			price DOUBLE NOT NULL,
			FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE
		);`,
	}

	for _, q := range queries {
		if _, err := db.Exec(q); err != nil {
			log.Fatal("migration failed:", err)
		}
	}
}
