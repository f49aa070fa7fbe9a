package services

import (
	"database/sql"

	"pizza-service/internal/errdefs"
	"pizza-service/internal/models"

	"github.com/rs/zerolog"
)

type MenuService struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewMenuService(db *sql.DB, logger zerolog.Logger) *MenuService {
	return &MenuService{
		db:     db,
		logger: logger,
	}
}

func (s *MenuService) List() ([]models.MenuItem, error) {
	rows, err := s.db.Query("SELECT id, title, image, price, description FROM menu_items ORDER BY id")
	if err != nil {
		s.logger.Error().Err(err).Msg("Error fetching menu")
		return nil, errdefs.Internal("database error", err)
	}
	defer rows.Close()

	menu := []models.MenuItem{}
	for rows.Next() {
		var item models.MenuItem
		if err := rows.Scan(&item.ID, &item.Title, &item.Image, &item.Price, &item.Description); err != nil {
			return nil, errdefs.Internal("database error", err)
		}
		menu = append(menu, item)
	}
	if err := rows.Err(); err != nil {
		return nil, errdefs.Internal("database error", err)
	}

	return menu, nil
}
