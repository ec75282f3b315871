// Package report handles user reports, reputation management and the
// escalating ban ladder built on top of them.
package report

import (
	"log"
	"time"

	"ghostnseek/backend/internal/analysis"
	"ghostnseek/backend/internal/config"
	"ghostnseek/backend/internal/models"
	"ghostnseek/backend/internal/storage"
)

// Service handles the business logic for reports.
type Service struct {
	Storage storage.Storage
}

func NewService(s storage.Storage) *Service {
	return &Service{Storage: s}
}

// HandleReport persists a report, applies its reputation penalty to the
// target and re-evaluates the target's ban status.
func (s *Service) HandleReport(report *models.Report) error {
	if err := s.Storage.SaveReport(report); err != nil {
		return err
	}

	weight := analysis.GetWeight(report.Category)
	if err := s.Storage.UpdateUserReputation(report.TargetID, -weight); err != nil {
		return err
	}

	return s.CheckForBan(report.TargetID)
}

// CheckForBan bans a user whose reputation dropped below the threshold or who
// accumulated too many reports inside the frequency window.
func (s *Service) CheckForBan(userID string) error {
	user, err := s.Storage.GetUserByID(userID)
	if err != nil {
		return err
	}

	if user.ReputationScore < config.BanThresholdReputation {
		return s.applyBan(user)
	}

	reports, err := s.Storage.GetReportsForUser(userID, time.Now().Add(-config.BanFrequencyWindow))
	if err != nil {
		return err
	}
	if len(reports) > config.BanThresholdFrequency {
		return s.applyBan(user)
	}

	return nil
}

// applyBan picks the ban level from the time since the previous ban: repeat
// offenses inside a week jump to the longest duration, inside a month to the
// middle one.
func (s *Service) applyBan(user *models.User) error {
	level := 1
	if user.LastBanDate > 0 {
		sinceLast := time.Since(time.Unix(user.LastBanDate, 0))
		if sinceLast < 7*24*time.Hour {
			level = 3
		} else if sinceLast < 30*24*time.Hour {
			level = 2
		}
	}

	duration := getBanDuration(level)

	if err := s.Storage.BanUser(user.ID, duration); err != nil {
		log.Printf("WARNING: failed to set ban key for user %s: %v", user.ID, err)
	}

	user.IsBlocked = true
	user.BlockLevel = level
	user.BlockEndTime = time.Now().Add(duration).Unix()
	user.LastBanDate = time.Now().Unix()
	return s.Storage.UpdateUser(user)
}

func getBanDuration(level int) time.Duration {
	switch level {
	case 1:
		return config.BanLevel1Duration
	case 2:
		return config.BanLevel2Duration
	default:
		return config.BanLevel3Duration
	}
}
