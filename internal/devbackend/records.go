package devbackend

import (
	"errors"
	"net/http"
	"time"

	"github.com/dropDatabas3/quicknotify/internal/api"
	"github.com/dropDatabas3/quicknotify/internal/observability/logger"
)

func toAPIRecord(r record) api.Record {
	return api.Record{
		ID:           r.ID,
		TemplateName: r.TemplateName,
		Recipients:   r.Recipients,
		Subject:      r.Subject,
		Status:       r.Status,
		ErrorMsg:     r.ErrorMsg,
		CreatedAt:    api.Timestamp{Time: r.CreatedAt},
		SentAt:       api.Timestamp{Time: r.SentAt},
		Duration:     r.Duration,
	}
}

func (s *Server) listRecords(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	perPage := queryInt(r, "per_page", api.DefaultRecordsPerPage)
	status := r.URL.Query().Get("status")
	switch status {
	case "", api.StatusAll, api.StatusSuccess, api.StatusFailed:
	default:
		writeError(w, http.StatusBadRequest, "Invalid status filter")
		return
	}
	items, total := s.store.listRecords(status, page, perPage)
	out := api.RecordList{Records: make([]api.Record, 0, len(items)), Total: total, Page: page, PerPage: perPage}
	for _, rec := range items {
		out.Records = append(out.Records, toAPIRecord(rec))
	}
	writeJSON(w, http.StatusOK, out)
}

// recordStats cuenta "hoy" desde la medianoche UTC.
func (s *Server) recordStats(w http.ResponseWriter, r *http.Request) {
	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	var out api.RecordStats
	out.Today.Total, out.Today.Success, out.Today.Failed = s.store.counts(today, today.AddDate(0, 0, 1))
	out.Total.Total, out.Total.Success, out.Total.Failed = s.store.counts(time.Time{}, time.Time{})
	writeJSON(w, http.StatusOK, out)
}

// retryRecord vuelve a entregar el registro y lo actualiza en el lugar.
func (s *Server) retryRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	rec, err := s.store.record(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "Record not found")
		return
	}
	log := logger.From(r.Context())
	d, err := s.deliver(r.Context(), rec.Recipients, rec.CC, rec.BCC, rec.Subject, rec.Content)
	if errors.Is(err, errNoSMTP) {
		writeError(w, http.StatusBadRequest, "SMTP not configured")
		return
	}
	if err != nil {
		log.Error("no se pudo preparar el reintento", logger.RecordID(id), logger.Err(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := s.store.updateRecord(id, func(rec *record) { applyDelivery(rec, d) }); err != nil {
		log.Warn("el registro se borró durante el reintento", logger.RecordID(id), logger.Err(err))
		writeError(w, http.StatusNotFound, "Record not found")
		return
	}
	log.Info("reintento", logger.RecordID(id), logger.Bool("success", d.ok))

	status := http.StatusOK
	if !d.ok {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, api.SendResult{Message: d.message, Success: d.ok, RecordID: id, Duration: d.duration})
}
