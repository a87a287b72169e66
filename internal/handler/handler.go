// Package handler is the HTTP surface: request decoding, the response
// envelope, and routing. Business rules live in internal/booking.
package handler

import (
	"github.com/rs/zerolog"

	"hospital-workflow-api/internal/booking"
	"hospital-workflow-api/internal/store"
)

type Handler struct {
	store   *store.Store
	booking *booking.Service
	secret  string
	log     zerolog.Logger
}

func New(st *store.Store, engine *booking.Service, secret string, log zerolog.Logger) *Handler {
	return &Handler{store: st, booking: engine, secret: secret, log: log}
}
