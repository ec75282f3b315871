package chathub

import (
	"encoding/json"
	"log"

	"ghostnseek/backend/internal/models"
	"ghostnseek/backend/internal/storage"
)

// StartPubSubListener starts a goroutine feeding messages published on the
// session channels into PubSubCh. Every instance subscribes, so a message
// saved on one server reaches participants connected to any server.
func (m *ManagerService) StartPubSubListener() {
	svc, ok := m.Storage.(*storage.Service)
	if !ok {
		// Test doubles inject into PubSubCh directly.
		log.Println("WARNING: pubsub listener disabled, storage does not expose redis")
		return
	}

	go func() {
		pubsub := svc.SubscribeToAllSessions()
		defer pubsub.Close()

		for msg := range pubsub.Channel() {
			var chatMsg models.ChatMessage
			if err := json.Unmarshal([]byte(msg.Payload), &chatMsg); err != nil {
				log.Printf("Error unmarshalling Redis message: %v", err)
				continue
			}
			m.PubSubCh <- chatMsg
		}
	}()
}
