// Package httpapi exposes the advisor flows as a JSON API.
package httpapi

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"InvestSuggest/internal/advisor"
)

type Handler struct {
	advisor *advisor.Advisor
}

func NewHandler(a *advisor.Advisor) *Handler {
	return &Handler{advisor: a}
}

type depositRequest struct {
	Bank        string  `json:"bank"`
	TenureYears int     `json:"tenure_years"`
	Principal   float64 `json:"principal"`
}

type analysisRequest struct {
	Ticker            string  `json:"ticker"`
	InitialInvestment float64 `json:"initial_investment"`
}

type forecastRequest struct {
	Ticker string `json:"ticker"`
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// kindNoData is reported when a ticker has no history; it is not an advisor error.
const kindNoData = "no_data"

func (h *Handler) Banks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"banks": h.advisor.Banks()})
}

func (h *Handler) Deposit(w http.ResponseWriter, r *http.Request) {
	var req depositRequest
	if !decode(w, r, &req) {
		return
	}
	q, err := h.advisor.QuoteDeposit(r.Context(), req.Bank, req.TenureYears, req.Principal)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (h *Handler) Analysis(w http.ResponseWriter, r *http.Request) {
	var req analysisRequest
	if !decode(w, r, &req) {
		return
	}
	report, err := h.advisor.AnalyzeGrowth(r.Context(), req.Ticker, req.InitialInvestment)
	if err != nil {
		writeError(w, err)
		return
	}
	if !report.Found {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: advisor.MsgNoData, Kind: kindNoData})
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *Handler) Forecast(w http.ResponseWriter, r *http.Request) {
	var req forecastRequest
	if !decode(w, r, &req) {
		return
	}
	report, err := h.advisor.Forecast(r.Context(), req.Ticker)
	if err != nil {
		writeError(w, err)
		return
	}
	if !report.Found {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: advisor.MsgNoData, Kind: kindNoData})
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "time": time.Now().UTC().Format(time.RFC3339)})
}

func decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body", Kind: advisor.KindValidation.String()})
		return false
	}
	return true
}

func statusFor(k advisor.Kind) int {
	switch k {
	case advisor.KindValidation:
		return http.StatusBadRequest
	case advisor.KindNotFound:
		return http.StatusNotFound
	case advisor.KindFetch:
		return http.StatusBadGateway
	case advisor.KindInsufficientData:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	k := advisor.Classify(err)
	writeJSON(w, statusFor(k), errorResponse{Error: advisor.UserMessage(err), Kind: k.String()})
}

// writeJSON encodes v before touching the response so an encoding failure
// becomes a 500 instead of a truncated success.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		log.Printf("[ERROR] encode response: %v", err)
		status = http.StatusInternalServerError
		buf.Reset()
		json.NewEncoder(&buf).Encode(errorResponse{Error: "failed to encode response", Kind: advisor.KindInternal.String()})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Printf("[ERROR] write response: %v", err)
	}
}
