package storage

import (
	"encoding/json"
	"errors"
	"log"

	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"ghostnseek/backend/internal/config"
	"ghostnseek/backend/internal/models"
)

// SaveMessage appends a message to the session log with a server-assigned
// timestamp. The session deadline is enforced here: writes to a closed or
// expired session fail with ErrSessionEnded regardless of any client timer.
func (s *Service) SaveMessage(msg *models.ChatMessage) error {
	session, err := s.GetSessionByID(msg.SessionID)
	if err != nil {
		return err
	}
	if !session.IsActive || session.Expired(time.Now().UTC()) {
		return ErrSessionEnded
	}
	if !session.HasParticipant(msg.SenderID) {
		return ErrSessionNotFound
	}

	record := models.Message{
		SessionID: msg.SessionID,
		SenderID:  msg.SenderID,
		Content:   msg.Content,
		Type:      msg.Type,
		Flagged:   msg.Flagged,
	}
	if err := s.DB.Create(&record).Error; err != nil {
		log.Printf("ERROR: Failed to save message for session %s: %v", msg.SessionID, err)
		return err
	}

	// Backfill the DB-assigned ID and timestamp so the published copy carries them.
	msg.ID = record.ID
	msg.CreatedAt = record.CreatedAt
	return nil
}

// GetTranscript returns the ordered message log for a session.
func (s *Service) GetTranscript(sessionID string) ([]models.Message, error) {
	var transcript []models.Message
	if err := s.DB.Where("session_id = ?", sessionID).
		Order("created_at asc").
		Find(&transcript).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return transcript, nil
		}
		log.Printf("ERROR: Failed to get transcript for session %s: %v", sessionID, err)
		return nil, err
	}
	return transcript, nil
}

// DeleteSessionData removes the session row and all of its messages. Invoked
// when a participant leaves and by the background purge task.
func (s *Service) DeleteSessionData(sessionID string) error {
	var g errgroup.Group

	g.Go(func() error {
		return s.DB.Unscoped().
			Where("session_id = ?", sessionID).
			Delete(&models.Message{}).Error
	})
	g.Go(func() error {
		return s.DB.Unscoped().
			Where("session_id = ?", sessionID).
			Delete(&models.ChatSession{}).Error
	})

	if err := g.Wait(); err != nil {
		log.Printf("ERROR: Failed to delete data for session %s: %v", sessionID, err)
		return err
	}
	return nil
}

// PublishMessage publishes a message to the session's Redis Pub/Sub channel.
func (s *Service) PublishMessage(sessionID string, msg models.ChatMessage) error {
	msgBytes, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return s.Redis.Publish(s.Ctx, "session:"+sessionID, string(msgBytes)).Err()
}

// SubscribeToAllSessions subscribes to every session channel; the hub's
// listener fans messages out to locally connected clients.
func (s *Service) SubscribeToAllSessions() *redis.PubSub {
	return s.Redis.PSubscribe(s.Ctx, "session:*")
}

// IncrementStrikes bumps the user's moderation strike counter. The counter
// expires after the strike window so old violations age out.
func (s *Service) IncrementStrikes(anonID string) (int64, error) {
	key := "strikes:" + anonID
	count, err := s.Redis.Incr(s.Ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		if err := s.Redis.Expire(s.Ctx, key, config.StrikeWindow).Err(); err != nil {
			log.Printf("WARNING: failed to set strike TTL for %s: %v", anonID, err)
		}
	}
	return count, nil
}

func (s *Service) SaveReport(report *models.Report) error {
	if err := s.DB.Create(report).Error; err != nil {
		log.Printf("ERROR: Failed to save report for session %s: %v", report.SessionID, err)
		return err
	}
	return nil
}

func (s *Service) GetReportsForUser(userID string, since time.Time) ([]models.Report, error) {
	var reports []models.Report
	if err := s.DB.Where("target_id = ? AND created_at > ?", userID, since.Unix()).
		Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}

func (s *Service) SavePaymentOrder(order *models.PaymentOrder) error {
	return s.DB.Create(order).Error
}

func (s *Service) UpdatePaymentOrderStatus(orderID, status string) error {
	return s.DB.Model(&models.PaymentOrder{}).
		Where("order_id = ?", orderID).
		Update("status", status).Error
}

func (s *Service) GetPaymentOrder(orderID string) (*models.PaymentOrder, error) {
	var order models.PaymentOrder
	if err := s.DB.Where("order_id = ?", orderID).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}
