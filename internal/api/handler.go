package api

import (
	"github.com/SherClockHolmes/webpush-go"

	"github.com/BrianDuong3003/Room-Booking-System/config"
	"github.com/BrianDuong3003/Room-Booking-System/internal/auth"
	"github.com/BrianDuong3003/Room-Booking-System/internal/notification"
	"github.com/BrianDuong3003/Room-Booking-System/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store    store.Store
	issuer   *auth.TokenIssuer
	authCfg  config.AuthConfig
	webpush  *webpush.Options
	notifier *notification.WorkerPool
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, issuer *auth.TokenIssuer, authCfg config.AuthConfig, webpushOptions *webpush.Options, notifier *notification.WorkerPool) *Handler {
	return &Handler{
		store:    s,
		issuer:   issuer,
		authCfg:  authCfg,
		webpush:  webpushOptions,
		notifier: notifier,
	}
}
