// internal/adapters/in/http/handler/report_handler.go
package handler

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"stoky/internal/application/usecase"
)

// ReportHandler triggers the daily sales CSV export.
//
//	POST /reports/sales/export  {fecha: "2006-01-02"}  (empty = today)
type ReportHandler struct {
	uc *usecase.ReportUsecase
}

func NewReportHandler(uc *usecase.ReportUsecase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

func (h *ReportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.uc == nil {
		writeErr(w, http.StatusServiceUnavailable, "report export is not configured")
		return
	}
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var in struct {
		Date string `json:"fecha"`
	}
	if !decodeBody(w, r, &in) {
		return
	}

	day := time.Now().UTC()
	if d := strings.TrimSpace(in.Date); d != "" {
		parsed, err := time.Parse("2006-01-02", d)
		if err != nil {
			writeErr(w, http.StatusBadRequest, "fecha inválida (use YYYY-MM-DD)")
			return
		}
		day = parsed
	}

	object, err := h.uc.ExportDaily(r.Context(), day)
	if err != nil {
		if errors.Is(err, usecase.ErrReportUploaderMissing) {
			writeErr(w, http.StatusServiceUnavailable, "report export is not configured")
			return
		}
		log.Printf("[report_handler] export failed day=%s: %v", day.Format("2006-01-02"), err)
		writeErr(w, http.StatusInternalServerError, "exportación fallida")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"object": object})
}
