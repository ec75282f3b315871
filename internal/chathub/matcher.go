package chathub

import (
	"log"
	"time"

	"ghostnseek/backend/internal/config"
	"ghostnseek/backend/internal/models"
	"ghostnseek/backend/internal/storage"
)

// MatcherService pairs waiting users. The pairing itself is a single atomic
// storage transaction over the two oldest waiting entries; this service feeds
// requests into it and notifies the matched clients.
type MatcherService struct {
	Hub     *ManagerService
	Storage storage.Storage
}

// NewMatcherService creates a new Matcher.
func NewMatcherService(hub *ManagerService, s storage.Storage) *MatcherService {
	return &MatcherService{
		Hub:     hub,
		Storage: s,
	}
}

// Run is the matcher's main goroutine: it serves search requests and
// periodically retries entries left queued by earlier failed attempts.
func (m *MatcherService) Run() {
	log.Println("Matcher Service started.")

	ticker := time.NewTicker(config.MatchRetryInterval)
	defer ticker.Stop()

	for {
		select {
		case req := <-m.Hub.MatchRequestCh:
			m.HandleRequest(req)
		case <-ticker.C:
			m.DrainQueue()
		}
	}
}

// HandleRequest enqueues the requesting user and attempts a pairing. The
// session ID ("" while still queued) is delivered on ResultCh when present;
// the matched partner is notified through the hub.
func (m *MatcherService) HandleRequest(req models.SearchRequest) {
	reply := func(sessionID string) {
		if req.ResultCh == nil {
			return
		}
		select {
		case req.ResultCh <- sessionID:
		default:
		}
	}

	banned, err := m.Storage.IsUserBanned(req.UserID)
	if err != nil {
		log.Printf("WARNING: ban check failed for %s: %v", req.UserID, err)
	}
	if banned {
		log.Printf("Match request refused, user banned: %s", req.UserID)
		reply("")
		return
	}

	session, err := m.Storage.EnqueueAndMatch(req.UserID)
	if err != nil {
		// The waiting entry, if written, stays for a later retry.
		log.Printf("ERROR: match attempt failed for %s: %v", req.UserID, err)
		reply("")
		return
	}
	if session == nil {
		reply("")
		return
	}

	log.Printf("Match found: %s and %s in session %s", session.User1ID, session.User2ID, session.SessionID)
	m.Hub.NotifySessionStarted(session)
	reply(session.SessionID)
}

// DrainQueue pairs any two users still waiting, e.g. after a failed attempt
// or an instance restart, until fewer than two entries remain.
func (m *MatcherService) DrainQueue() {
	for {
		session, err := m.Storage.MatchOldestPair()
		if err != nil {
			log.Printf("ERROR: queue drain failed: %v", err)
			return
		}
		if session == nil {
			return
		}
		log.Printf("Match found (retry): %s and %s in session %s", session.User1ID, session.User2ID, session.SessionID)
		m.Hub.NotifySessionStarted(session)
	}
}
