package storage

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"ghostnseek/backend/internal/config"
	"ghostnseek/backend/internal/models"
)

var (
	// ErrSessionNotFound is returned when a session ID resolves to nothing.
	ErrSessionNotFound = errors.New("chat session not found")
	// ErrSessionEnded is returned on writes to a closed or expired session.
	ErrSessionEnded = errors.New("chat session has ended")
)

type Storage interface {
	// Users
	SaveUser(user *models.User) error
	GetUserByID(id string) (*models.User, error)
	UpdateUser(user *models.User) error
	UpdateUserReputation(userID string, delta int) error
	IsUserBanned(anonID string) (bool, error)
	BanUser(anonID string, duration time.Duration) error

	// Matchmaking
	EnqueueAndMatch(userID string) (*models.ChatSession, error)
	MatchOldestPair() (*models.ChatSession, error)
	RemoveFromQueue(userID string) error

	// Sessions
	GetSessionByID(sessionID string) (*models.ChatSession, error)
	GetActiveSessionIDForUser(userID string) (string, error)
	GetExpiredSessions(now time.Time) ([]models.ChatSession, error)
	CloseSession(sessionID string) error
	DeleteSessionData(sessionID string) error

	// Messages
	SaveMessage(msg *models.ChatMessage) error
	GetTranscript(sessionID string) ([]models.Message, error)
	PublishMessage(sessionID string, msg models.ChatMessage) error

	// Moderation strikes
	IncrementStrikes(anonID string) (int64, error)

	// Reports
	SaveReport(report *models.Report) error
	GetReportsForUser(userID string, since time.Time) ([]models.Report, error)

	// Payments
	SavePaymentOrder(order *models.PaymentOrder) error
	UpdatePaymentOrderStatus(orderID, status string) error
	GetPaymentOrder(orderID string) (*models.PaymentOrder, error)
}

type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		Ctx:   context.Background(),
	}
}

// SaveUser persists a user to PostgreSQL.
func (s *Service) SaveUser(user *models.User) error {
	return s.DB.Save(user).Error
}

func (s *Service) GetUserByID(id string) (*models.User, error) {
	var user models.User
	err := s.DB.First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// First contact: create the anonymous user with initial reputation.
		user = models.User{ID: id, ReputationScore: config.InitialReputation}
		if createErr := s.DB.Create(&user).Error; createErr != nil {
			return nil, createErr
		}
		return &user, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Service) UpdateUser(user *models.User) error {
	return s.DB.Save(user).Error
}

// UpdateUserReputation adjusts the reputation score by delta, clamped to the
// configured bounds.
func (s *Service) UpdateUserReputation(userID string, delta int) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}
	user.ReputationScore += delta
	if user.ReputationScore > config.MaxReputation {
		user.ReputationScore = config.MaxReputation
	}
	if user.ReputationScore < config.MinReputation {
		user.ReputationScore = config.MinReputation
	}
	return s.DB.Save(user).Error
}

// IsUserBanned checks the ban status in Redis.
func (s *Service) IsUserBanned(anonID string) (bool, error) {
	key := "ban:" + anonID
	status, err := s.Redis.Get(s.Ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return status != "", nil
}

// BanUser sets a ban key in Redis expiring after the given duration.
func (s *Service) BanUser(anonID string, duration time.Duration) error {
	key := "ban:" + anonID
	return s.Redis.Set(s.Ctx, key, "active", duration).Err()
}

// EnqueueAndMatch inserts a waiting entry for userID and attempts to pair the
// two oldest outstanding entries inside a single transaction. The two rows
// are locked with FOR UPDATE SKIP LOCKED so concurrent matchers can never
// observe and consume the same pair twice. Returns the new session, or nil
// when the caller stays queued.
func (s *Service) EnqueueAndMatch(userID string) (*models.ChatSession, error) {
	var session *models.ChatSession

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		// 1. One entry per user: re-enqueueing refreshes the position.
		if err := tx.Where("user_id = ?", userID).Delete(&models.WaitingEntry{}).Error; err != nil {
			return err
		}
		entry := models.WaitingEntry{UserID: userID, EnqueuedAt: time.Now().UTC()}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		// 2. Pair the two oldest entries, if they exist.
		matched, err := matchPairTx(tx)
		if err != nil {
			return err
		}
		session = matched
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.syncQueuePresence(userID, session)
	return session, nil
}

// MatchOldestPair pairs the two oldest waiting entries without enqueueing
// anyone. Used by the matcher's retry loop to drain entries left behind by
// failed attempts. Returns nil when fewer than two users are waiting.
func (s *Service) MatchOldestPair() (*models.ChatSession, error) {
	var session *models.ChatSession

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		matched, err := matchPairTx(tx)
		if err != nil {
			return err
		}
		session = matched
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.syncQueuePresence("", session)
	return session, nil
}

// matchPairTx reads the two oldest waiting entries under row locks, deletes
// exactly those two and creates the session referencing both users.
func matchPairTx(tx *gorm.DB) (*models.ChatSession, error) {
	var oldest []models.WaitingEntry
	if err := tx.Raw(
		`SELECT id, user_id, enqueued_at FROM waiting_entries
		 ORDER BY enqueued_at ASC LIMIT 2 FOR UPDATE SKIP LOCKED`,
	).Scan(&oldest).Error; err != nil {
		return nil, err
	}

	if len(oldest) < 2 || oldest[0].UserID == oldest[1].UserID {
		return nil, nil
	}

	if err := tx.Delete(&models.WaitingEntry{}, []uint{oldest[0].ID, oldest[1].ID}).Error; err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	session := &models.ChatSession{
		SessionID: uuid.New().String(),
		User1ID:   oldest[0].UserID,
		User2ID:   oldest[1].UserID,
		IsActive:  true,
		StartedAt: now,
		ExpiresAt: now.Add(config.SessionDuration),
	}
	if err := tx.Create(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}

// syncQueuePresence mirrors queue membership into the Redis presence set.
// Best effort: matchmaking correctness never depends on it.
func (s *Service) syncQueuePresence(enqueued string, session *models.ChatSession) {
	if enqueued != "" {
		if err := s.Redis.SAdd(s.Ctx, "waiting:presence", enqueued).Err(); err != nil {
			log.Printf("WARNING: failed to add %s to presence set: %v", enqueued, err)
		}
	}
	if session != nil {
		if err := s.Redis.SRem(s.Ctx, "waiting:presence", session.User1ID, session.User2ID).Err(); err != nil {
			log.Printf("WARNING: failed to clear presence for session %s: %v", session.SessionID, err)
		}
	}
}

// RemoveFromQueue deletes the user's waiting entry, e.g. on disconnect.
func (s *Service) RemoveFromQueue(userID string) error {
	if err := s.DB.Where("user_id = ?", userID).Delete(&models.WaitingEntry{}).Error; err != nil {
		return err
	}
	return s.Redis.SRem(s.Ctx, "waiting:presence", userID).Err()
}

func (s *Service) GetSessionByID(sessionID string) (*models.ChatSession, error) {
	var session models.ChatSession
	err := s.DB.Where("session_id = ?", sessionID).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		log.Printf("ERROR: Failed to get session %s: %v", sessionID, err)
		return nil, err
	}
	return &session, nil
}

// GetActiveSessionIDForUser finds the active session the user participates in.
func (s *Service) GetActiveSessionIDForUser(userID string) (string, error) {
	var session models.ChatSession
	err := s.DB.Where("is_active = ?", true).
		Where("user1_id = ? OR user2_id = ?", userID, userID).
		First(&session).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil // user is not in an active session
	}
	if err != nil {
		log.Printf("ERROR: Failed to find active session for user %s: %v", userID, err)
		return "", err
	}
	return session.SessionID, nil
}

// GetExpiredSessions returns active sessions whose deadline passed before now.
func (s *Service) GetExpiredSessions(now time.Time) ([]models.ChatSession, error) {
	var sessions []models.ChatSession
	if err := s.DB.Where("is_active = ? AND expires_at < ?", true, now).
		Find(&sessions).Error; err != nil {
		log.Printf("ERROR: Failed to retrieve expired sessions: %v", err)
		return nil, err
	}
	return sessions, nil
}

// CloseSession marks the session inactive and stamps EndedAt.
func (s *Service) CloseSession(sessionID string) error {
	return s.DB.Model(&models.ChatSession{}).
		Where("session_id = ?", sessionID).
		Updates(map[string]interface{}{
			"is_active": false,
			"ended_at":  gorm.Expr("NOW()"),
		}).Error
}
