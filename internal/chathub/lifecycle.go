package chathub

import (
	"log"
	"time"

	"ghostnseek/backend/internal/config"
	"ghostnseek/backend/internal/storage"
)

// LifecycleService owns session expiry. Deadlines live on the session row
// (ExpiresAt), so client countdowns are display only: the sweeper closes any
// session past its deadline, notifies both participants and schedules the
// data purge.
type LifecycleService struct {
	Hub     *ManagerService
	Storage storage.Storage
	Purges  PurgeScheduler
}

func NewLifecycleService(hub *ManagerService, s storage.Storage, p PurgeScheduler) *LifecycleService {
	return &LifecycleService{
		Hub:     hub,
		Storage: s,
		Purges:  p,
	}
}

// Run sweeps on a fixed interval until the process exits.
func (l *LifecycleService) Run() {
	log.Println("Session lifecycle sweeper started.")

	ticker := time.NewTicker(config.SweepInterval)
	defer ticker.Stop()

	for range ticker.C {
		l.SweepOnce(time.Now().UTC())
	}
}

// SweepOnce closes every active session whose deadline passed before now.
func (l *LifecycleService) SweepOnce(now time.Time) {
	sessions, err := l.Storage.GetExpiredSessions(now)
	if err != nil {
		log.Printf("ERROR: expiry sweep failed: %v", err)
		return
	}

	for i := range sessions {
		session := sessions[i]
		if err := l.Storage.CloseSession(session.SessionID); err != nil {
			log.Printf("ERROR: failed to close expired session %s: %v", session.SessionID, err)
			continue
		}
		l.Hub.NotifySessionEnded(&session)

		// Data outlives the chat just long enough to build clue cards, then
		// the purge task deletes the session and its messages.
		if err := l.Purges.SchedulePurge(session.SessionID, config.SessionPurgeDelay); err != nil {
			log.Printf("WARNING: failed to schedule purge for session %s: %v", session.SessionID, err)
		}
		log.Printf("Session expired and closed: %s", session.SessionID)
	}
}
