package services

import (
	"database/sql"
	"fmt"

	"pizza-service/internal/errdefs"
	"pizza-service/internal/models"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewUserService(db *sql.DB, logger zerolog.Logger) *UserService {
	return &UserService{
		db:     db,
		logger: logger,
	}
}

// Register creates a user with the diner role.
func (s *UserService) Register(req *models.RegisterRequest) (*models.User, error) {
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return nil, errdefs.Validation("invalid_request", "name, email, and password are required")
	}

	var existingID int
	err := s.db.QueryRow("SELECT id FROM users WHERE email = ?", req.Email).Scan(&existingID)
	if err == nil {
		return nil, errdefs.Validation("email_taken", "a user with this email already exists")
	} else if err != sql.ErrNoRows {
		s.logger.Error().Err(err).Msg("Error checking existing user")
		return nil, errdefs.Internal("database error", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error hashing password")
		return nil, errdefs.Internal("failed to hash password", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, errdefs.Internal("database error", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		"INSERT INTO users (name, email, password_hash) VALUES (?, ?, ?)",
		req.Name, req.Email, string(hashedPassword),
	)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error creating user")
		return nil, errdefs.Internal("failed to create user", err)
	}

	userID, err := result.LastInsertId()
	if err != nil {
		return nil, errdefs.Internal("failed to get user ID", err)
	}

	_, err = tx.Exec(
		"INSERT INTO user_roles (user_id, role) VALUES (?, ?)",
		userID, string(models.RoleDiner),
	)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error assigning diner role")
		return nil, errdefs.Internal("failed to assign role", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, errdefs.Internal("database error", err)
	}

	user := &models.User{
		ID:    int(userID),
		Name:  req.Name,
		Email: req.Email,
		Roles: []models.Role{{Role: models.RoleDiner}},
	}

	s.logger.Info().Int("user_id", user.ID).Str("email", user.Email).Msg("User registered")
	return user, nil
}

// Authenticate validates credentials. Failures are reported generically so
// callers cannot tell a bad email from a bad password.
func (s *UserService) Authenticate(req *models.LoginRequest) (*models.User, error) {
	if req.Email == "" || req.Password == "" {
		return nil, errdefs.Auth("authentication_failed", "invalid email or password")
	}

	var user models.User
	var passwordHash string
	err := s.db.QueryRow(
		"SELECT id, name, email, password_hash FROM users WHERE email = ?",
		req.Email,
	).Scan(&user.ID, &user.Name, &user.Email, &passwordHash)

	if err == sql.ErrNoRows {
		return nil, errdefs.Auth("authentication_failed", "invalid email or password")
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("Error querying user")
		return nil, errdefs.Internal("database error", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(req.Password)); err != nil {
		s.logger.Warn().Str("email", req.Email).Msg("Failed authentication attempt")
		return nil, errdefs.Auth("authentication_failed", "invalid email or password")
	}

	user.Roles, err = s.loadRoles(user.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int("user_id", user.ID).Str("email", user.Email).Msg("User authenticated")
	return &user, nil
}

func (s *UserService) GetUserByID(userID int) (*models.User, error) {
	var user models.User
	err := s.db.QueryRow(
		"SELECT id, name, email, password_hash FROM users WHERE id = ?",
		userID,
	).Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash)

	if err == sql.ErrNoRows {
		return nil, errdefs.NotFound("user_not_found", "user not found")
	}
	if err != nil {
		s.logger.Error().Err(err).Int("user_id", userID).Msg("Error fetching user")
		return nil, errdefs.Internal("database error", err)
	}

	user.Roles, err = s.loadRoles(user.ID)
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (s *UserService) loadRoles(userID int) ([]models.Role, error) {
	rows, err := s.db.Query(
		"SELECT role, object_id FROM user_roles WHERE user_id = ? ORDER BY id",
		userID,
	)
	if err != nil {
		s.logger.Error().Err(err).Int("user_id", userID).Msg("Error fetching roles")
		return nil, errdefs.Internal("database error", err)
	}
	defer rows.Close()

	roles := []models.Role{}
	for rows.Next() {
		var role models.Role
		var objectID sql.NullInt64
		if err := rows.Scan(&role.Role, &objectID); err != nil {
			return nil, errdefs.Internal("database error", err)
		}
		if objectID.Valid {
			role.ObjectID = int(objectID.Int64)
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, errdefs.Internal(fmt.Sprintf("reading roles for user %d", userID), err)
	}

	return roles, nil
}
