package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/WardrobeApp/internal/config"
	"github.com/GoArmGo/WardrobeApp/internal/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SessionCookie — имя cookie с идентификатором сессии
const SessionCookie = "sid"

const sessionKeyPrefix = "session:"

// SessionStore хранит сессии в Redis: cookie sid -> id пользователя.
// TTL продлевается на каждый аутентифицированный запрос (rolling).
type SessionStore struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewSessionStore создает хранилище сессий и проверяет соединение с Redis
func NewSessionStore(cfg *config.Config, logger *slog.Logger) (*SessionStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("не удалось подключиться к Redis: %w", err)
	}

	logger.Info("redis connection established", "addr", cfg.RedisAddr)
	return &SessionStore{rdb: rdb, ttl: cfg.SessionTTL, logger: logger}, nil
}

// TTL возвращает время жизни сессии (для cookie)
func (s *SessionStore) TTL() time.Duration {
	return s.ttl
}

// Create открывает новую сессию для пользователя и возвращает sid
func (s *SessionStore) Create(ctx context.Context, userID uuid.UUID) (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("ошибка генерации идентификатора сессии: %w", err)
	}
	sid := hex.EncodeToString(raw)

	if err := s.rdb.Set(ctx, sessionKeyPrefix+sid, userID.String(), s.ttl).Err(); err != nil {
		s.logger.Error("failed to create session", "user_id", userID, "error", err)
		return "", fmt.Errorf("ошибка сохранения сессии: %w", err)
	}
	return sid, nil
}

// Get возвращает id пользователя по sid и продлевает сессию
func (s *SessionStore) Get(ctx context.Context, sid string) (uuid.UUID, error) {
	val, err := s.rdb.Get(ctx, sessionKeyPrefix+sid).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, domain.ErrUnauthenticated
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("ошибка чтения сессии: %w", err)
	}

	userID, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, domain.ErrUnauthenticated
	}

	// rolling-сессия: каждый запрос продлевает TTL
	if err := s.rdb.Expire(ctx, sessionKeyPrefix+sid, s.ttl).Err(); err != nil {
		s.logger.Warn("failed to refresh session ttl", "error", err)
	}
	return userID, nil
}

// Destroy завершает сессию
func (s *SessionStore) Destroy(ctx context.Context, sid string) error {
	if err := s.rdb.Del(ctx, sessionKeyPrefix+sid).Err(); err != nil {
		return fmt.Errorf("ошибка удаления сессии: %w", err)
	}
	return nil
}

func (s *SessionStore) Close() error {
	return s.rdb.Close()
}
