// Package handler wires the HTTP and WebSocket surface to the services
// behind it.
package handler

import (
	"context"

	"ghostnseek/backend/internal/chathub"
	"ghostnseek/backend/internal/cluecard"
	"ghostnseek/backend/internal/genai"
	"ghostnseek/backend/internal/payment"
	"ghostnseek/backend/internal/report"
	"ghostnseek/backend/internal/storage"
)

// checkout is the slice of the payment service the handlers use.
type checkout interface {
	CreateOrder(ctx context.Context) (string, error)
	CaptureOrder(ctx context.Context, orderID string) error
}

// Handler holds the services the HTTP surface dispatches to.
type Handler struct {
	Hub        *chathub.ManagerService
	Storage    storage.Storage
	Moderation *genai.ModerationService
	Clues      *genai.ClueService
	Artwork    *genai.ArtworkService
	Exporter   *cluecard.Exporter
	Payment    checkout
	Reports    *report.Service
	Purges     chathub.PurgeScheduler
}

func NewHandler(
	hub *chathub.ManagerService,
	s storage.Storage,
	moderation *genai.ModerationService,
	clues *genai.ClueService,
	artwork *genai.ArtworkService,
	pay *payment.Service,
	reports *report.Service,
	purges chathub.PurgeScheduler,
) *Handler {
	return &Handler{
		Hub:        hub,
		Storage:    s,
		Moderation: moderation,
		Clues:      clues,
		Artwork:    artwork,
		Exporter:   cluecard.NewExporter(),
		Payment:    pay,
		Reports:    reports,
		Purges:     purges,
	}
}
