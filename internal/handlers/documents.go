package handlers

import (
	"net/http"

	"ecolife-backend/internal/metrics"
	"ecolife-backend/internal/middleware"
	"ecolife-backend/internal/models"
	"ecolife-backend/internal/productivity"

	"go.uber.org/zap"
)

// DocumentHandler reads and writes the signed-in user's productivity document.
type DocumentHandler struct {
	records productivity.RecordStore
	logger  *zap.Logger
}

func NewDocumentHandler(records productivity.RecordStore, logger *zap.Logger) *DocumentHandler {
	return &DocumentHandler{
		records: records,
		logger:  logger,
	}
}

// --- GET /api/me/productivity ---

func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	record, err := h.records.Load(r.Context(), userID)
	if err != nil {
		h.logger.Error("productivity_document_load_failed", zap.String("user_id", userID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}
	if record == nil {
		writeError(w, http.StatusNotFound, productivity.MissingRecordMessage)
		return
	}
	writeJSON(w, http.StatusOK, cleanRecord(*record))
}

// --- PUT /api/me/productivity ---

func (h *DocumentHandler) Put(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	// A JSON null leaves body nil; it must not wipe the stored document
	var body *models.ProductivityRecord
	if err := decodeJSON(w, r, &body); err != nil || body == nil {
		writeError(w, http.StatusBadRequest, "Invalid productivity record.")
		return
	}
	record := cleanRecord(*body)

	if err := h.records.Save(r.Context(), userID, record); err != nil {
		metrics.DocumentWrites.WithLabelValues("error").Inc()
		h.logger.Error("productivity_document_save_failed", zap.String("user_id", userID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}
	metrics.DocumentWrites.WithLabelValues("ok").Inc()
	writeJSON(w, http.StatusOK, record)
}

// cleanRecord applies the data-model defaults and bounds to a client-supplied record.
func cleanRecord(record models.ProductivityRecord) models.ProductivityRecord {
	record = record.Clone()
	for i := range record.Goals {
		g := &record.Goals[i]
		g.Progress = models.ClampProgress(g.Progress)
		if g.Category == "" {
			g.Category = models.DefaultGoalCategory
		}
	}
	for i := range record.Tasks {
		t := &record.Tasks[i]
		if !t.Priority.Valid() {
			t.Priority = models.PriorityMedium
		}
		if t.Category == "" {
			t.Category = models.DefaultTaskCategory
		}
	}
	for i := range record.Habits {
		h := &record.Habits[i]
		if h.Streak < 0 {
			h.Streak = 0
		}
		if h.CompletedDates == nil {
			h.CompletedDates = []string{}
		}
	}
	return record
}
