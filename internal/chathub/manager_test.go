package chathub_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"ghostnseek/backend/internal/chathub"
	"ghostnseek/backend/internal/config"
	"ghostnseek/backend/internal/models"
	"ghostnseek/backend/internal/storage"
)

func TestManager_RegisterUnregister(t *testing.T) {
	storageMock := new(MockStorage)
	hub := createTestHub(storageMock, nil)
	storageMock.On("RemoveFromQueue", "user_A").Return(nil)

	clientA := newMockClient("user_A")

	go hub.Run()

	hub.RegisterCh <- clientA
	time.Sleep(100 * time.Millisecond)
	assert.Contains(t, hub.Clients, "user_A")

	hub.UnregisterCh <- clientA
	time.Sleep(100 * time.Millisecond)
	assert.NotContains(t, hub.Clients, "user_A")
	storageMock.AssertCalled(t, "RemoveFromQueue", "user_A")
}

func TestManager_IncomingMessage_SavedAndPublished(t *testing.T) {
	storageMock := new(MockStorage)
	hub := createTestHub(storageMock, approving("hello"))

	storageMock.On("SaveMessage", mock.AnythingOfType("*models.ChatMessage")).Return(nil)
	storageMock.On("PublishMessage", "session-1", mock.AnythingOfType("models.ChatMessage")).Return(nil)

	go hub.Run()

	hub.IncomingCh <- models.ChatMessage{SessionID: "session-1", SenderID: "user_A", Content: "hello"}
	time.Sleep(100 * time.Millisecond)

	storageMock.AssertCalled(t, "SaveMessage", mock.MatchedBy(func(m *models.ChatMessage) bool {
		return m.Content == "hello" && m.Type == models.MsgTypeText && !m.Flagged
	}))
	storageMock.AssertCalled(t, "PublishMessage", "session-1", mock.AnythingOfType("models.ChatMessage"))
}

// TestManager_IncomingMessage_Flagged verifies a flagged message is stored
// and published with the placeholder, never the original text.
func TestManager_IncomingMessage_Flagged(t *testing.T) {
	storageMock := new(MockStorage)
	moderatorMock := new(MockModerator)
	moderatorMock.On("Moderate", "add me @handle").Return(chathub.ModerationVerdict{
		IsAppropriate: false,
		DisplayText:   config.ModeratedPlaceholder,
	})
	hub := chathub.NewManagerService(storageMock, moderatorMock)

	storageMock.On("SaveMessage", mock.AnythingOfType("*models.ChatMessage")).Return(nil)
	storageMock.On("PublishMessage", "session-1", mock.AnythingOfType("models.ChatMessage")).Return(nil)
	storageMock.On("IncrementStrikes", "user_A").Return(int64(1), nil)

	go hub.Run()

	hub.IncomingCh <- models.ChatMessage{SessionID: "session-1", SenderID: "user_A", Content: "add me @handle"}
	time.Sleep(100 * time.Millisecond)

	storageMock.AssertCalled(t, "SaveMessage", mock.MatchedBy(func(m *models.ChatMessage) bool {
		return m.Content == config.ModeratedPlaceholder && m.Flagged
	}))
	storageMock.AssertCalled(t, "IncrementStrikes", "user_A")
}

// TestManager_IncomingMessage_AutoReport verifies that crossing the strike
// threshold files a system report against the sender.
func TestManager_IncomingMessage_AutoReport(t *testing.T) {
	storageMock := new(MockStorage)
	moderatorMock := new(MockModerator)
	moderatorMock.On("Moderate", mock.AnythingOfType("string")).Return(chathub.ModerationVerdict{
		IsAppropriate: false,
		DisplayText:   config.ModeratedPlaceholder,
	})
	hub := chathub.NewManagerService(storageMock, moderatorMock)

	storageMock.On("SaveMessage", mock.AnythingOfType("*models.ChatMessage")).Return(nil)
	storageMock.On("PublishMessage", mock.AnythingOfType("string"), mock.AnythingOfType("models.ChatMessage")).Return(nil)
	storageMock.On("IncrementStrikes", "user_A").Return(int64(config.StrikeAutoReportThreshold), nil)
	storageMock.On("SaveReport", mock.AnythingOfType("*models.Report")).Return(nil)

	go hub.Run()

	hub.IncomingCh <- models.ChatMessage{SessionID: "session-1", SenderID: "user_A", Content: "spam"}
	time.Sleep(100 * time.Millisecond)

	storageMock.AssertCalled(t, "SaveReport", mock.MatchedBy(func(r *models.Report) bool {
		return r.TargetID == "user_A" && r.ReporterID == "system"
	}))
}

// TestManager_IncomingMessage_SessionEnded verifies writes past the deadline
// bounce back to the sender with an ended notice and are never published.
func TestManager_IncomingMessage_SessionEnded(t *testing.T) {
	storageMock := new(MockStorage)
	hub := createTestHub(storageMock, approving("too late"))

	clientA := newMockClient("user_A")
	hub.Clients["user_A"] = clientA

	storageMock.On("SaveMessage", mock.AnythingOfType("*models.ChatMessage")).Return(storage.ErrSessionEnded)

	go hub.Run()

	hub.IncomingCh <- models.ChatMessage{SessionID: "session-1", SenderID: "user_A", Content: "too late"}
	time.Sleep(100 * time.Millisecond)

	msgs := clientA.DrainMessages()
	assert.Len(t, msgs, 1)
	assert.Equal(t, models.MsgTypeSessionEnded, msgs[0].Type)
	storageMock.AssertNotCalled(t, "PublishMessage", mock.Anything, mock.Anything)
}

func TestManager_PubSubFanout(t *testing.T) {
	storageMock := new(MockStorage)
	hub := createTestHub(storageMock, nil)

	clientB := newMockClient("user_B")
	hub.Clients["user_B"] = clientB

	session := &models.ChatSession{SessionID: "session-1", User1ID: "user_A", User2ID: "user_B"}
	storageMock.On("GetSessionByID", "session-1").Return(session, nil)

	go hub.Run()

	hub.PubSubCh <- models.ChatMessage{SessionID: "session-1", SenderID: "user_A", Content: "hello"}
	time.Sleep(100 * time.Millisecond)

	msgs := clientB.DrainMessages()
	assert.Len(t, msgs, 1)
	assert.Equal(t, "hello", msgs[0].Content)
}

// TestManager_ConcurrentSessionNotifications verifies session notifications
// issued from another goroutine (the matcher and sweeper path) are delivered
// while the hub loop is busy with connection churn. All client-map access
// happens on the hub goroutine; this test runs cleanly under the race
// detector.
func TestManager_ConcurrentSessionNotifications(t *testing.T) {
	storageMock := new(MockStorage)
	hub := createTestHub(storageMock, nil)
	storageMock.On("RemoveFromQueue", mock.AnythingOfType("string")).Return(nil)

	clientA := newMockClient("user_A")
	clientB := newMockClient("user_B")

	go hub.Run()
	hub.RegisterCh <- clientA
	hub.RegisterCh <- clientB

	session := &models.ChatSession{SessionID: "session-77", User1ID: "user_A", User2ID: "user_B", IsActive: true}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 5; i++ {
			hub.NotifySessionStarted(session)
			hub.NotifySessionEnded(session)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			churn := newMockClient(fmt.Sprintf("churn_%d", i))
			hub.RegisterCh <- churn
			hub.UnregisterCh <- churn
		}
	}()
	wg.Wait()
	time.Sleep(100 * time.Millisecond)

	assert.Equal(t, "session-77", clientA.GetSessionID())
	assert.NotEmpty(t, clientA.DrainMessages())
	assert.NotEmpty(t, clientB.DrainMessages())
}

// stallingModerator blocks until its delay or the context deadline, recording
// whether a deadline was set.
type stallingModerator struct {
	delay       time.Duration
	deadlineSet chan bool
}

func (s *stallingModerator) Moderate(ctx context.Context, message string) chathub.ModerationVerdict {
	_, hasDeadline := ctx.Deadline()
	s.deadlineSet <- hasDeadline
	select {
	case <-time.After(s.delay):
	case <-ctx.Done():
	}
	return chathub.ModerationVerdict{IsAppropriate: true, DisplayText: message}
}

// TestManager_SlowModerationDoesNotStallHub verifies an in-flight moderation
// call neither blocks the dispatch loop nor runs without a deadline.
func TestManager_SlowModerationDoesNotStallHub(t *testing.T) {
	storageMock := new(MockStorage)
	storageMock.On("SaveMessage", mock.AnythingOfType("*models.ChatMessage")).Return(nil).Maybe()
	storageMock.On("PublishMessage", mock.AnythingOfType("string"), mock.AnythingOfType("models.ChatMessage")).Return(nil).Maybe()

	mod := &stallingModerator{delay: 2 * time.Second, deadlineSet: make(chan bool, 1)}
	hub := chathub.NewManagerService(storageMock, mod)

	go hub.Run()

	hub.IncomingCh <- models.ChatMessage{SessionID: "session-1", SenderID: "user_A", Content: "slow one"}
	assert.True(t, <-mod.deadlineSet, "Moderation calls must carry a deadline")

	// The hub keeps serving registrations while moderation is in flight.
	registered := make(chan struct{})
	go func() {
		hub.RegisterCh <- newMockClient("user_B")
		close(registered)
	}()
	select {
	case <-registered:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("hub stalled behind an in-flight moderation call")
	}
}

// TestManager_EndChat verifies either participant may end the session early.
func TestManager_EndChat(t *testing.T) {
	storageMock := new(MockStorage)
	hub := createTestHub(storageMock, nil)

	clientA := newMockClient("user_A")
	clientB := newMockClient("user_B")
	hub.Clients["user_A"] = clientA
	hub.Clients["user_B"] = clientB

	session := &models.ChatSession{SessionID: "session-1", User1ID: "user_A", User2ID: "user_B", IsActive: true}
	storageMock.On("GetSessionByID", "session-1").Return(session, nil)
	storageMock.On("CloseSession", "session-1").Return(nil)

	go hub.Run()

	hub.IncomingCh <- models.ChatMessage{SessionID: "session-1", SenderID: "user_A", Type: models.MsgTypeEndChat}
	time.Sleep(100 * time.Millisecond)

	storageMock.AssertCalled(t, "CloseSession", "session-1")
	msgsA := clientA.DrainMessages()
	msgsB := clientB.DrainMessages()
	assert.Len(t, msgsA, 1)
	assert.Len(t, msgsB, 1)
	assert.Equal(t, models.MsgTypeSessionEnded, msgsA[0].Type)
	assert.Equal(t, models.MsgTypeSessionEnded, msgsB[0].Type)
}
