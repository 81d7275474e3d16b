package handlers

import (
	"context"
	"net/http"
	"time"

	"ecolife-backend/internal/metrics"
	"ecolife-backend/internal/notify"
	"ecolife-backend/internal/store"
	"ecolife-backend/internal/validation"

	"go.uber.org/zap"
)

type ContactHandler struct {
	store    *store.Memory
	notifier notify.Notifier
	logger   *zap.Logger
}

func NewContactHandler(store *store.Memory, notifier notify.Notifier, logger *zap.Logger) *ContactHandler {
	return &ContactHandler{
		store:    store,
		notifier: notifier,
		logger:   logger,
	}
}

type ContactRequest struct {
	Name    string `json:"name" validate:"notblank"`
	Email   string `json:"email" validate:"notblank"`
	Subject string `json:"subject"`
	Message string `json:"message" validate:"notblank"`
}

type ContactResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Entry   interface{} `json:"entry"`
}

// --- POST /api/contact ---

func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req ContactRequest
	// An unreadable body is reported the same way as missing fields.
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Name, email, and message are required.")
		return
	}
	// Presence is checked on what will be stored, not on the raw input
	req = ContactRequest{
		Name:    validation.SanitizeText(req.Name),
		Email:   validation.SanitizeText(req.Email),
		Subject: validation.SanitizeText(req.Subject),
		Message: validation.SanitizeText(req.Message),
	}
	if err := validation.Validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Name, email, and message are required.")
		return
	}

	entry := h.store.AddContact(store.NewContact{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	})
	metrics.ContactMessagesTotal.Inc()
	h.logger.Info("contact_received",
		zap.String("contact_id", entry.ID),
		zap.Int("message_length", len(entry.Message)),
	)

	// Notify in the background; the visitor does not wait on email delivery
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		subject, body := notify.FormatContact(entry)
		if err := h.notifier.Publish(ctx, subject, body); err != nil {
			h.logger.Warn("contact_notification_failed", zap.String("contact_id", entry.ID), zap.Error(err))
		}
	}()

	writeJSON(w, http.StatusCreated, ContactResponse{
		Success: true,
		Message: "Message received. Thank you for reaching out!",
		Entry:   entry,
	})
}

// --- GET /api/contact ---

func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	items := h.store.Contacts()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(items),
		"items": items,
	})
}
