// Package payment handles the artwork unlock checkout against PayPal. Orders
// are created and captured server side so the unlock can never be forged by
// the client.
package payment

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/plutov/paypal/v4"

	"ghostnseek/backend/internal/config"
	"ghostnseek/backend/internal/models"
)

var (
	ErrOrderNotCompleted = errors.New("payment was not completed")
	ErrMissingOrderID    = errors.New("order id is required")
)

// checkoutClient is the slice of the PayPal SDK the service uses.
type checkoutClient interface {
	CreateOrder(ctx context.Context, intent string, purchaseUnits []paypal.PurchaseUnitRequest, payer *paypal.CreateOrderPayer, appContext *paypal.ApplicationContext) (*paypal.Order, error)
	CaptureOrder(ctx context.Context, orderID string, captureOrderRequest paypal.CaptureOrderRequest) (*paypal.CaptureOrderResponse, error)
}

// orderStore persists orders so captures can be reconciled later.
type orderStore interface {
	SavePaymentOrder(order *models.PaymentOrder) error
	UpdatePaymentOrderStatus(orderID, status string) error
}

type Service struct {
	Client  checkoutClient
	Storage orderStore
}

// NewService builds the PayPal client from PAYPAL_CLIENT_ID, PAYPAL_SECRET
// and PAYPAL_BASE (defaults to the sandbox).
func NewService(store orderStore) (*Service, error) {
	clientID := os.Getenv("PAYPAL_CLIENT_ID")
	secret := os.Getenv("PAYPAL_SECRET")
	if clientID == "" || secret == "" {
		return nil, errors.New("PAYPAL_CLIENT_ID and PAYPAL_SECRET must be set")
	}
	base := os.Getenv("PAYPAL_BASE")
	if base == "" {
		base = paypal.APIBaseSandBox
	}

	client, err := paypal.NewClient(clientID, secret, base)
	if err != nil {
		return nil, fmt.Errorf("failed to create paypal client: %w", err)
	}
	if _, err := client.GetAccessToken(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to authenticate with paypal: %w", err)
	}

	return &Service{Client: client, Storage: store}, nil
}

// CreateOrder opens a checkout order for the artwork unlock. The price is
// fixed server side; the client never supplies an amount.
func (s *Service) CreateOrder(ctx context.Context) (string, error) {
	units := []paypal.PurchaseUnitRequest{
		{
			Description: "Ghost n seek clue card artwork",
			Amount: &paypal.PurchaseUnitAmount{
				Value:    config.ArtworkPriceValue,
				Currency: config.ArtworkPriceCurrency,
			},
		},
	}

	order, err := s.Client.CreateOrder(ctx, paypal.OrderIntentCapture, units, nil, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create order: %w", err)
	}

	record := &models.PaymentOrder{
		OrderID:  order.ID,
		Amount:   config.ArtworkPriceValue,
		Currency: config.ArtworkPriceCurrency,
		Status:   "CREATED",
	}
	if err := s.Storage.SavePaymentOrder(record); err != nil {
		// The provider order exists either way; capture still reconciles it.
		log.Printf("WARNING: failed to persist payment order %s: %v", order.ID, err)
	}

	return order.ID, nil
}

// CaptureOrder captures the order and verifies the provider reports it as
// completed. Only a verified capture unlocks the artwork.
func (s *Service) CaptureOrder(ctx context.Context, orderID string) error {
	if orderID == "" {
		return ErrMissingOrderID
	}

	capture, err := s.Client.CaptureOrder(ctx, orderID, paypal.CaptureOrderRequest{})
	if err != nil {
		if dbErr := s.Storage.UpdatePaymentOrderStatus(orderID, "FAILED"); dbErr != nil {
			log.Printf("WARNING: failed to mark order %s failed: %v", orderID, dbErr)
		}
		return fmt.Errorf("failed to capture order: %w", err)
	}

	if capture.Status != "COMPLETED" {
		if dbErr := s.Storage.UpdatePaymentOrderStatus(orderID, capture.Status); dbErr != nil {
			log.Printf("WARNING: failed to update order %s status: %v", orderID, dbErr)
		}
		return ErrOrderNotCompleted
	}

	if err := s.Storage.UpdatePaymentOrderStatus(orderID, "COMPLETED"); err != nil {
		log.Printf("WARNING: failed to mark order %s completed: %v", orderID, err)
	}
	return nil
}
