package chathub_test

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"ghostnseek/backend/internal/chathub"
	"ghostnseek/backend/internal/models"
)

// MockStorage is a testify mock of the storage.Storage interface.
type MockStorage struct {
	mock.Mock
}

// User operations
func (m *MockStorage) SaveUser(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockStorage) GetUserByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) UpdateUser(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockStorage) UpdateUserReputation(userID string, delta int) error {
	args := m.Called(userID, delta)
	return args.Error(0)
}

func (m *MockStorage) IsUserBanned(anonID string) (bool, error) {
	args := m.Called(anonID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStorage) BanUser(anonID string, duration time.Duration) error {
	args := m.Called(anonID, duration)
	return args.Error(0)
}

// Matchmaking operations
func (m *MockStorage) EnqueueAndMatch(userID string) (*models.ChatSession, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChatSession), args.Error(1)
}

func (m *MockStorage) MatchOldestPair() (*models.ChatSession, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChatSession), args.Error(1)
}

func (m *MockStorage) RemoveFromQueue(userID string) error {
	args := m.Called(userID)
	return args.Error(0)
}

// Session operations
func (m *MockStorage) GetSessionByID(sessionID string) (*models.ChatSession, error) {
	args := m.Called(sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChatSession), args.Error(1)
}

func (m *MockStorage) GetActiveSessionIDForUser(userID string) (string, error) {
	args := m.Called(userID)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) GetExpiredSessions(now time.Time) ([]models.ChatSession, error) {
	args := m.Called(now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ChatSession), args.Error(1)
}

func (m *MockStorage) CloseSession(sessionID string) error {
	args := m.Called(sessionID)
	return args.Error(0)
}

func (m *MockStorage) DeleteSessionData(sessionID string) error {
	args := m.Called(sessionID)
	return args.Error(0)
}

// Message operations
func (m *MockStorage) SaveMessage(msg *models.ChatMessage) error {
	args := m.Called(msg)
	return args.Error(0)
}

func (m *MockStorage) GetTranscript(sessionID string) ([]models.Message, error) {
	args := m.Called(sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Message), args.Error(1)
}

func (m *MockStorage) PublishMessage(sessionID string, msg models.ChatMessage) error {
	args := m.Called(sessionID, msg)
	return args.Error(0)
}

// Moderation strike operations
func (m *MockStorage) IncrementStrikes(anonID string) (int64, error) {
	args := m.Called(anonID)
	return args.Get(0).(int64), args.Error(1)
}

// Report operations
func (m *MockStorage) SaveReport(report *models.Report) error {
	args := m.Called(report)
	return args.Error(0)
}

func (m *MockStorage) GetReportsForUser(userID string, since time.Time) ([]models.Report, error) {
	args := m.Called(userID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Report), args.Error(1)
}

// Payment operations
func (m *MockStorage) SavePaymentOrder(order *models.PaymentOrder) error {
	args := m.Called(order)
	return args.Error(0)
}

func (m *MockStorage) UpdatePaymentOrderStatus(orderID, status string) error {
	args := m.Called(orderID, status)
	return args.Error(0)
}

func (m *MockStorage) GetPaymentOrder(orderID string) (*models.PaymentOrder, error) {
	args := m.Called(orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PaymentOrder), args.Error(1)
}

// MockModerator is a testify mock of the chathub.Moderator interface.
type MockModerator struct {
	mock.Mock
}

func (m *MockModerator) Moderate(ctx context.Context, message string) chathub.ModerationVerdict {
	args := m.Called(message)
	return args.Get(0).(chathub.ModerationVerdict)
}

// approving returns a moderator passing the given text through unchanged.
func approving(text string) *MockModerator {
	mod := new(MockModerator)
	mod.On("Moderate", text).Return(chathub.ModerationVerdict{
		IsAppropriate: true,
		DisplayText:   text,
	}).Maybe()
	return mod
}

// MockPurgeScheduler is a testify mock of the chathub.PurgeScheduler interface.
type MockPurgeScheduler struct {
	mock.Mock
}

func (m *MockPurgeScheduler) SchedulePurge(sessionID string, delay time.Duration) error {
	args := m.Called(sessionID, delay)
	return args.Error(0)
}

// MockClient is a plain test double for the chathub.Client interface. The
// buffered send channel lets tests inspect delivered messages. The hub
// goroutine sets the session ID while tests read it, hence the mutex.
type MockClient struct {
	mu        sync.Mutex
	userID    string
	sessionID string
	send      chan models.ChatMessage
	closed    bool
}

func newMockClient(id string) *MockClient {
	return &MockClient{
		userID: id,
		send:   make(chan models.ChatMessage, 10),
	}
}

func (c *MockClient) GetUserID() string { return c.userID }

func (c *MockClient) GetSessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

func (c *MockClient) SetSessionID(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessionID = id
}

func (c *MockClient) GetSendChannel() chan<- models.ChatMessage { return c.send }
func (c *MockClient) Run()                                      {}

func (c *MockClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// DrainMessages empties the send channel and returns everything delivered.
func (c *MockClient) DrainMessages() []models.ChatMessage {
	var messages []models.ChatMessage
	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return messages
			}
			messages = append(messages, msg)
		default:
			return messages
		}
	}
}
