package services

import (
	"context"
	"errors"
	"strconv"
	"time"

	"pizza-service/internal/errdefs"
	"pizza-service/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// SessionService issues bearer tokens and tracks them server-side so logout
// actually revokes. A token resolves only while its signature verifies and
// its session key is still present in redis.
type SessionService struct {
	rdb       *redis.Client
	secretKey []byte
	ttl       time.Duration
	logger    zerolog.Logger
}

type SessionClaims struct {
	UserID int `json:"userId"`
	jwt.RegisteredClaims
}

func NewSessionService(rdb *redis.Client, secret string, ttl time.Duration, logger zerolog.Logger) *SessionService {
	return &SessionService{
		rdb:       rdb,
		secretKey: []byte(secret),
		ttl:       ttl,
		logger:    logger,
	}
}

func sessionKey(jti string) string {
	return "session:" + jti
}

func userSessionKey(userID int) string {
	return "user_session:" + strconv.Itoa(userID)
}

// Issue creates the user's session token. A user holds at most one live
// session: issuing a new token revokes the previous one.
func (s *SessionService) Issue(ctx context.Context, user *models.User) (string, error) {
	now := time.Now()
	claims := &SessionClaims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.Itoa(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error signing session token")
		return "", errdefs.Internal("failed to issue token", err)
	}

	if previous, err := s.rdb.Get(ctx, userSessionKey(user.ID)).Result(); err == nil {
		s.rdb.Del(ctx, sessionKey(previous))
	}

	if err := s.rdb.Set(ctx, sessionKey(claims.ID), user.ID, s.ttl).Err(); err != nil {
		s.logger.Error().Err(err).Msg("Error storing session")
		return "", errdefs.Internal("failed to store session", err)
	}
	if err := s.rdb.Set(ctx, userSessionKey(user.ID), claims.ID, s.ttl).Err(); err != nil {
		s.logger.Error().Err(err).Msg("Error storing session")
		return "", errdefs.Internal("failed to store session", err)
	}

	return tokenString, nil
}

// Resolve returns the user id for a live token. Any failure collapses into a
// single auth error: the caller is anonymous.
func (s *SessionService) Resolve(ctx context.Context, tokenString string) (int, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return 0, err
	}

	if err := s.rdb.Get(ctx, sessionKey(claims.ID)).Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, errdefs.Auth("invalid_token", "invalid or expired token")
		}
		s.logger.Error().Err(err).Msg("Error reading session")
		return 0, errdefs.Internal("failed to read session", err)
	}

	return claims.UserID, nil
}

// Revoke ends the session. Revoking an already revoked token fails the same
// way any dead token does.
func (s *SessionService) Revoke(ctx context.Context, tokenString string) error {
	claims, err := s.parse(tokenString)
	if err != nil {
		return err
	}

	deleted, err := s.rdb.Del(ctx, sessionKey(claims.ID)).Result()
	if err != nil {
		s.logger.Error().Err(err).Msg("Error deleting session")
		return errdefs.Internal("failed to delete session", err)
	}
	if deleted == 0 {
		return errdefs.Auth("invalid_token", "invalid or expired token")
	}

	if current, err := s.rdb.Get(ctx, userSessionKey(claims.UserID)).Result(); err == nil && current == claims.ID {
		s.rdb.Del(ctx, userSessionKey(claims.UserID))
	}

	s.logger.Info().Int("user_id", claims.UserID).Msg("Session revoked")
	return nil
}

func (s *SessionService) parse(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secretKey, nil
	})
	if err != nil || !token.Valid {
		return nil, errdefs.Auth("invalid_token", "invalid or expired token")
	}
	return claims, nil
}
