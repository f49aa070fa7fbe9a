package services

import (
	"database/sql"

	"pizza-service/internal/errdefs"
	"pizza-service/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

type FranchiseService struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewFranchiseService(db *sql.DB, logger zerolog.Logger) *FranchiseService {
	return &FranchiseService{
		db:     db,
		logger: logger,
	}
}

// List returns every franchise with its admins and stores, in insertion
// order. Store revenue is the sum of item prices over that store's orders.
func (s *FranchiseService) List() ([]models.Franchise, error) {
	rows, err := s.db.Query("SELECT id, name FROM franchises ORDER BY id")
	if err != nil {
		s.logger.Error().Err(err).Msg("Error fetching franchises")
		return nil, errdefs.Internal("database error", err)
	}

	franchises := []models.Franchise{}
	for rows.Next() {
		var f models.Franchise
		if err := rows.Scan(&f.ID, &f.Name); err != nil {
			rows.Close()
			return nil, errdefs.Internal("database error", err)
		}
		franchises = append(franchises, f)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, errdefs.Internal("database error", err)
	}
	rows.Close()

	for i := range franchises {
		if err := s.fill(&franchises[i]); err != nil {
			return nil, err
		}
	}

	return franchises, nil
}

// ListForUser returns the franchises the user administers.
func (s *FranchiseService) ListForUser(userID int) ([]models.Franchise, error) {
	rows, err := s.db.Query(
		`SELECT f.id, f.name FROM franchises f
		 JOIN user_roles r ON r.object_id = f.id
		 WHERE r.user_id = ? AND r.role = 'franchisee' ORDER BY f.id`,
		userID,
	)
	if err != nil {
		s.logger.Error().Err(err).Int("user_id", userID).Msg("Error fetching user franchises")
		return nil, errdefs.Internal("database error", err)
	}

	franchises := []models.Franchise{}
	for rows.Next() {
		var f models.Franchise
		if err := rows.Scan(&f.ID, &f.Name); err != nil {
			rows.Close()
			return nil, errdefs.Internal("database error", err)
		}
		franchises = append(franchises, f)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, errdefs.Internal("database error", err)
	}
	rows.Close()

	for i := range franchises {
		if err := s.fill(&franchises[i]); err != nil {
			return nil, err
		}
	}

	return franchises, nil
}

// Create registers a franchise and elevates each listed admin to franchisee.
// Admins that do not exist yet get a placeholder account keyed by email.
func (s *FranchiseService) Create(req *models.CreateFranchiseRequest) (*models.CreateFranchiseResponse, error) {
	if req.Name == "" {
		return nil, errdefs.Validation("invalid_request", "franchise name is required")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, errdefs.Internal("database error", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec("INSERT INTO franchises (name) VALUES (?)", req.Name)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error creating franchise")
		return nil, errdefs.Internal("failed to create franchise", err)
	}
	franchiseID, err := result.LastInsertId()
	if err != nil {
		return nil, errdefs.Internal("failed to get franchise ID", err)
	}

	admins := []models.FranchiseAdmin{}
	for _, entry := range req.Admins {
		if entry.Email == "" {
			return nil, errdefs.Validation("invalid_request", "admin email is required")
		}

		admin := models.FranchiseAdmin{Email: entry.Email}
		err := tx.QueryRow("SELECT id, name FROM users WHERE email = ?", entry.Email).
			Scan(&admin.ID, &admin.Name)
		if err == sql.ErrNoRows {
			// The account is a placeholder until the admin registers;
			// the random password is never disclosed.
			hash, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
			if err != nil {
				return nil, errdefs.Internal("failed to hash password", err)
			}
			res, err := tx.Exec(
				"INSERT INTO users (name, email, password_hash) VALUES (?, ?, ?)",
				entry.Email, entry.Email, string(hash),
			)
			if err != nil {
				s.logger.Error().Err(err).Str("email", entry.Email).Msg("Error creating franchise admin")
				return nil, errdefs.Internal("failed to create admin user", err)
			}
			id, err := res.LastInsertId()
			if err != nil {
				return nil, errdefs.Internal("failed to get admin ID", err)
			}
			admin.ID = int(id)
			admin.Name = entry.Email
		} else if err != nil {
			s.logger.Error().Err(err).Msg("Error resolving franchise admin")
			return nil, errdefs.Internal("database error", err)
		}

		_, err = tx.Exec(
			"INSERT INTO user_roles (user_id, role, object_id) VALUES (?, 'franchisee', ?)",
			admin.ID, franchiseID,
		)
		if err != nil {
			s.logger.Error().Err(err).Msg("Error assigning franchisee role")
			return nil, errdefs.Internal("failed to assign franchisee role", err)
		}

		admins = append(admins, admin)
	}

	if err := tx.Commit(); err != nil {
		return nil, errdefs.Internal("database error", err)
	}

	s.logger.Info().Int("franchise_id", int(franchiseID)).Str("name", req.Name).Msg("Franchise created")
	return &models.CreateFranchiseResponse{
		ID:     int(franchiseID),
		Name:   req.Name,
		Admins: admins,
	}, nil
}

// Delete removes the franchise, its stores, and its franchisee role grants.
func (s *FranchiseService) Delete(franchiseID int) error {
	var id int
	err := s.db.QueryRow("SELECT id FROM franchises WHERE id = ?", franchiseID).Scan(&id)
	if err == sql.ErrNoRows {
		return errdefs.NotFound("franchise_not_found", "franchise not found")
	}
	if err != nil {
		return errdefs.Internal("database error", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return errdefs.Internal("database error", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM user_roles WHERE role = 'franchisee' AND object_id = ?", franchiseID); err != nil {
		return errdefs.Internal("failed to delete franchisee roles", err)
	}
	if _, err := tx.Exec("DELETE FROM stores WHERE franchise_id = ?", franchiseID); err != nil {
		return errdefs.Internal("failed to delete stores", err)
	}
	if _, err := tx.Exec("DELETE FROM franchises WHERE id = ?", franchiseID); err != nil {
		return errdefs.Internal("failed to delete franchise", err)
	}

	if err := tx.Commit(); err != nil {
		return errdefs.Internal("database error", err)
	}

	s.logger.Info().Int("franchise_id", franchiseID).Msg("Franchise deleted")
	return nil
}

func (s *FranchiseService) CreateStore(franchiseID int, name string) (*models.StoreResponse, error) {
	if name == "" {
		return nil, errdefs.Validation("invalid_request", "store name is required")
	}

	var id int
	err := s.db.QueryRow("SELECT id FROM franchises WHERE id = ?", franchiseID).Scan(&id)
	if err == sql.ErrNoRows {
		return nil, errdefs.NotFound("franchise_not_found", "franchise not found")
	}
	if err != nil {
		return nil, errdefs.Internal("database error", err)
	}

	result, err := s.db.Exec("INSERT INTO stores (franchise_id, name) VALUES (?, ?)", franchiseID, name)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error creating store")
		return nil, errdefs.Internal("failed to create store", err)
	}
	storeID, err := result.LastInsertId()
	if err != nil {
		return nil, errdefs.Internal("failed to get store ID", err)
	}

	return &models.StoreResponse{
		ID:          int(storeID),
		FranchiseID: franchiseID,
		Name:        name,
	}, nil
}

func (s *FranchiseService) DeleteStore(franchiseID, storeID int) error {
	result, err := s.db.Exec("DELETE FROM stores WHERE id = ? AND franchise_id = ?", storeID, franchiseID)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error deleting store")
		return errdefs.Internal("failed to delete store", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return errdefs.Internal("database error", err)
	}
	if affected == 0 {
		return errdefs.NotFound("store_not_found", "store not found")
	}
	return nil
}

func (s *FranchiseService) fill(f *models.Franchise) error {
	admins, err := s.listAdmins(f.ID)
	if err != nil {
		return err
	}
	stores, err := s.listStores(f.ID)
	if err != nil {
		return err
	}
	f.Admins = admins
	f.Stores = stores
	return nil
}

func (s *FranchiseService) listAdmins(franchiseID int) ([]models.FranchiseAdmin, error) {
	rows, err := s.db.Query(
		`SELECT u.id, u.name, u.email FROM users u
		 JOIN user_roles r ON r.user_id = u.id
		 WHERE r.role = 'franchisee' AND r.object_id = ? ORDER BY r.id`,
		franchiseID,
	)
	if err != nil {
		return nil, errdefs.Internal("database error", err)
	}
	defer rows.Close()

	var admins []models.FranchiseAdmin
	for rows.Next() {
		var a models.FranchiseAdmin
		if err := rows.Scan(&a.ID, &a.Name, &a.Email); err != nil {
			return nil, errdefs.Internal("database error", err)
		}
		admins = append(admins, a)
	}
	return admins, rows.Err()
}

func (s *FranchiseService) listStores(franchiseID int) ([]models.Store, error) {
	rows, err := s.db.Query(
		`SELECT s.id, s.name, COALESCE(SUM(oi.price), 0) FROM stores s
		 LEFT JOIN orders o ON o.store_id = s.id
		 LEFT JOIN order_items oi ON oi.order_id = o.id
		 WHERE s.franchise_id = ? GROUP BY s.id, s.name ORDER BY s.id`,
		franchiseID,
	)
	if err != nil {
		return nil, errdefs.Internal("database error", err)
	}
	defer rows.Close()

	stores := []models.Store{}
	for rows.Next() {
		var st models.Store
		if err := rows.Scan(&st.ID, &st.Name, &st.TotalRevenue); err != nil {
			return nil, errdefs.Internal("database error", err)
		}
		stores = append(stores, st)
	}
	return stores, rows.Err()
}
