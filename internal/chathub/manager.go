package chathub

import (
	"context"
	"errors"
	"log"
	"time"

	"ghostnseek/backend/internal/config"
	"ghostnseek/backend/internal/models"
	"ghostnseek/backend/internal/storage"
)

// ModerationVerdict is the outcome of screening one message.
type ModerationVerdict struct {
	IsAppropriate bool
	// DisplayText is the text to show and persist: the original message when
	// appropriate, the placeholder otherwise.
	DisplayText string
}

// Moderator screens a message before it is persisted or fanned out. The
// implementation must fail closed: on any internal failure the verdict is
// inappropriate with the placeholder text.
type Moderator interface {
	Moderate(ctx context.Context, message string) ModerationVerdict
}

// PurgeScheduler enqueues a deferred deletion of a session and its messages.
type PurgeScheduler interface {
	SchedulePurge(sessionID string, delay time.Duration) error
}

const (
	// moderationTimeout bounds one upstream moderation call. On expiry the
	// gateway fails closed and the message is flagged.
	moderationTimeout = 10 * time.Second
	// maxModerationWorkers bounds in-flight moderation calls.
	maxModerationWorkers = 32
)

// sessionNotice asks the hub loop to notify a session's participants.
type sessionNotice struct {
	session *models.ChatSession
	started bool
}

// directDelivery asks the hub loop to deliver a message to one user.
type directDelivery struct {
	userID string
	msg    models.ChatMessage
}

// ManagerService is the hub: it tracks connected clients, runs every message
// through moderation, persists it and fans it out via Redis Pub/Sub so all
// server instances deliver it to their local participants.
//
// Clients is owned by the Run goroutine. Everything that needs to touch it —
// matcher notifications, sweeper notifications, worker deliveries — goes
// through a channel consumed by Run; nothing else may read or write the map
// once Run has started.
type ManagerService struct {
	Clients map[string]Client

	// Channels
	IncomingCh     chan models.ChatMessage
	MatchRequestCh chan models.SearchRequest
	RegisterCh     chan Client
	UnregisterCh   chan Client
	PubSubCh       chan models.ChatMessage
	NoticeCh       chan sessionNotice
	DeliverCh      chan directDelivery

	Storage    storage.Storage
	Moderation Moderator

	// workers is a semaphore bounding concurrent moderation calls.
	workers chan struct{}
}

func NewManagerService(s storage.Storage, mod Moderator) *ManagerService {
	return &ManagerService{
		Clients:        make(map[string]Client),
		IncomingCh:     make(chan models.ChatMessage),
		MatchRequestCh: make(chan models.SearchRequest),
		RegisterCh:     make(chan Client),
		UnregisterCh:   make(chan Client),
		PubSubCh:       make(chan models.ChatMessage, 64),
		NoticeCh:       make(chan sessionNotice, 16),
		DeliverCh:      make(chan directDelivery, 64),
		Storage:        s,
		Moderation:     mod,
		workers:        make(chan struct{}, maxModerationWorkers),
	}
}

// Run is the hub's main dispatch loop.
func (m *ManagerService) Run() {
	m.StartPubSubListener()

	for {
		select {
		case client := <-m.RegisterCh:
			m.Clients[client.GetUserID()] = client
			log.Printf("Client registered: %s", client.GetUserID())

		case client := <-m.UnregisterCh:
			if current, ok := m.Clients[client.GetUserID()]; ok && current == client {
				delete(m.Clients, client.GetUserID())
				client.Close()
				// A queued user who disconnects should not be matched.
				if err := m.Storage.RemoveFromQueue(client.GetUserID()); err != nil {
					log.Printf("WARNING: failed to dequeue %s on disconnect: %v", client.GetUserID(), err)
				}
				log.Printf("Client unregistered: %s", client.GetUserID())
			}

		case msg := <-m.IncomingCh:
			m.handleIncoming(msg)

		case notice := <-m.NoticeCh:
			if notice.started {
				m.notifySessionStarted(notice.session)
			} else {
				m.notifySessionEnded(notice.session)
			}

		case delivery := <-m.DeliverCh:
			m.sendToUser(delivery.userID, delivery.msg)

		case msg := <-m.PubSubCh:
			// Message arrived from this or another instance via Redis.
			m.fanout(msg)
		}
	}
}

// handleIncoming dispatches one message read from a client connection.
// Moderation happens off the hub goroutine so a slow upstream call never
// stalls registration or other sessions' traffic.
func (m *ManagerService) handleIncoming(msg models.ChatMessage) {
	if msg.Type == models.MsgTypeEndChat {
		m.endSession(msg.SessionID)
		return
	}

	m.workers <- struct{}{}
	go func(msg models.ChatMessage) {
		defer func() { <-m.workers }()
		m.processMessage(msg)
	}(msg)
}

// processMessage runs on a worker goroutine: moderation first, then
// persistence, then publish for fanout. It never touches Clients; delivery
// back to a user goes through DeliverCh.
func (m *ManagerService) processMessage(msg models.ChatMessage) {
	// 1. Moderation gate, bounded in time. The stored and displayed text is
	// always the verdict text, never the raw input of a flagged message.
	ctx, cancel := context.WithTimeout(context.Background(), moderationTimeout)
	verdict := m.Moderation.Moderate(ctx, msg.Content)
	cancel()

	msg.Content = verdict.DisplayText
	msg.Flagged = !verdict.IsAppropriate
	if msg.Type == "" {
		msg.Type = models.MsgTypeText
	}

	// 2. Append to the session log. The deadline check lives in SaveMessage.
	if err := m.Storage.SaveMessage(&msg); err != nil {
		if errors.Is(err, storage.ErrSessionEnded) {
			m.DeliverCh <- directDelivery{
				userID: msg.SenderID,
				msg: models.ChatMessage{
					SessionID: msg.SessionID,
					SenderID:  "system",
					Type:      models.MsgTypeSessionEnded,
					Content:   config.NoticeSessionEnded,
				},
			}
			return
		}
		log.Printf("ERROR: failed to save message for session %s: %v", msg.SessionID, err)
		return
	}

	// 3. Publish so every instance (including this one) delivers it.
	if err := m.Storage.PublishMessage(msg.SessionID, msg); err != nil {
		log.Printf("ERROR: failed to publish message for session %s: %v", msg.SessionID, err)
	}

	if msg.Flagged {
		m.recordStrike(msg)
	}
}

// fanout delivers a published message to the locally connected participants
// of its session.
func (m *ManagerService) fanout(msg models.ChatMessage) {
	session, err := m.Storage.GetSessionByID(msg.SessionID)
	if err != nil {
		log.Printf("WARNING: fanout for unknown session %s: %v", msg.SessionID, err)
		return
	}

	for _, userID := range []string{session.User1ID, session.User2ID} {
		m.sendToUser(userID, msg)
	}
}

func (m *ManagerService) sendToUser(userID string, msg models.ChatMessage) {
	client, ok := m.Clients[userID]
	if !ok {
		return
	}
	select {
	case client.GetSendChannel() <- msg:
	default:
		// Slow consumer: drop the connection rather than block the hub.
		delete(m.Clients, userID)
		client.Close()
	}
}

// NotifySessionStarted hands the new session to the hub loop, which assigns
// both participants and tells them a partner was found. Safe to call from any
// goroutine.
func (m *ManagerService) NotifySessionStarted(session *models.ChatSession) {
	m.NoticeCh <- sessionNotice{session: session, started: true}
}

// NotifySessionEnded hands the ended session to the hub loop, which tells
// both participants it is over. Safe to call from any goroutine.
func (m *ManagerService) NotifySessionEnded(session *models.ChatSession) {
	m.NoticeCh <- sessionNotice{session: session, started: false}
}

// notifySessionStarted runs on the hub goroutine. The second participant
// discovers the session this way rather than via a match response of their
// own.
func (m *ManagerService) notifySessionStarted(session *models.ChatSession) {
	notice := models.ChatMessage{
		SessionID: session.SessionID,
		SenderID:  "system",
		Type:      models.MsgTypeMatchFound,
		Content:   config.NoticeMatchFound,
	}
	for _, userID := range []string{session.User1ID, session.User2ID} {
		if client, ok := m.Clients[userID]; ok {
			client.SetSessionID(session.SessionID)
		}
		m.sendToUser(userID, notice)
	}
}

// notifySessionEnded runs on the hub goroutine.
func (m *ManagerService) notifySessionEnded(session *models.ChatSession) {
	notice := models.ChatMessage{
		SessionID: session.SessionID,
		SenderID:  "system",
		Type:      models.MsgTypeSessionEnded,
		Content:   config.NoticeSessionEnded,
	}
	for _, userID := range []string{session.User1ID, session.User2ID} {
		m.sendToUser(userID, notice)
	}
}

// endSession closes a session early on a participant's request. Runs on the
// hub goroutine, so it notifies directly.
func (m *ManagerService) endSession(sessionID string) {
	session, err := m.Storage.GetSessionByID(sessionID)
	if err != nil {
		log.Printf("WARNING: end_chat for unknown session %s: %v", sessionID, err)
		return
	}
	if err := m.Storage.CloseSession(sessionID); err != nil {
		log.Printf("ERROR: failed to close session %s: %v", sessionID, err)
		return
	}
	m.notifySessionEnded(session)
}

// recordStrike counts a flagged message against its sender and files an
// automatic report once the threshold is crossed within the strike window.
func (m *ManagerService) recordStrike(msg models.ChatMessage) {
	count, err := m.Storage.IncrementStrikes(msg.SenderID)
	if err != nil {
		log.Printf("WARNING: failed to count strike for %s: %v", msg.SenderID, err)
		return
	}
	if count != int64(config.StrikeAutoReportThreshold) {
		return
	}
	report := &models.Report{
		ReporterID: "system",
		TargetID:   msg.SenderID,
		SessionID:  msg.SessionID,
		Category:   "Medium",
		Violations: []string{"moderation_strikes"},
		Details:    "repeated flagged messages within the strike window",
	}
	if err := m.Storage.SaveReport(report); err != nil {
		log.Printf("ERROR: failed to file auto report for %s: %v", msg.SenderID, err)
	}
}
