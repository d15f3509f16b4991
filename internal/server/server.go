package server

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/iwvelando/finance-pro/internal/ledger"
	"github.com/iwvelando/finance-pro/internal/session"
	"github.com/iwvelando/finance-pro/pkg/constants"
	"github.com/iwvelando/finance-pro/pkg/output"
	"github.com/iwvelando/finance-pro/pkg/validation"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

//go:embed static/*
var staticFiles embed.FS

type handler struct {
	logger      *zap.Logger
	session     *session.Session
	maxBodySize int64
	version     string
}

// NewHandler constructs the HTTP handler that serves the web UI and the JSON API.
func NewHandler(logger *zap.Logger, sess *session.Session, maxBodySize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxBodySize <= 0 {
		maxBodySize = constants.DefaultMaxBodySizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{logger: logger, session: sess, maxBodySize: maxBodySize, version: trimmedVersion}

	mux := http.NewServeMux()

	// Current inputs, lists and derived report
	mux.HandleFunc("GET /api/report", h.handleReport)
	mux.HandleFunc("PUT /api/inputs", h.handleUpdateInputs)

	mux.HandleFunc("POST /api/expenses", h.handleAddExpense)
	mux.HandleFunc("PUT /api/expenses/{id}", h.handleEditExpense)
	mux.HandleFunc("DELETE /api/expenses/{id}", h.handleRemoveExpense)

	mux.HandleFunc("POST /api/costs", h.handleAddCost)
	mux.HandleFunc("PUT /api/costs/{id}", h.handleEditCost)
	mux.HandleFunc("DELETE /api/costs/{id}", h.handleRemoveCost)

	mux.HandleFunc("GET /api/export/expenses.csv", h.handleExportExpenses)
	mux.HandleFunc("POST /api/reset", h.handleReset)

	// Version endpoint for UI metadata
	mux.HandleFunc("GET /api/version", h.handleVersion)

	mux.Handle("GET /metrics", promhttp.Handler())

	// Static assets (web UI)
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(fmt.Sprintf("failed to prepare embedded static files: %v", err))
	}
	mux.Handle("GET /", http.FileServer(http.FS(sub)))

	return h.logRequests(mux)
}

type inputsRequest struct {
	Regime         *string            `json:"regime"`
	Revenue        *float64           `json:"revenue"`
	OwnerDraw      *float64           `json:"ownerDraw"`
	FlatFee        *float64           `json:"flatFee"`
	RevenueTaxRate *float64           `json:"revenueTaxRate"`
	OtherTaxes     *float64           `json:"otherTaxes"`
	Allocation     *allocationRequest `json:"allocation"`
}

type allocationRequest struct {
	Reserve      *float64 `json:"reserve"`
	FutureTaxes  *float64 `json:"futureTaxes"`
	Reinvestment *float64 `json:"reinvestment"`
	Distribution *float64 `json:"distribution"`
}

type expenseRequest struct {
	Name     string  `json:"name"`
	Amount   float64 `json:"amount"`
	Kind     string  `json:"kind"`
	Category string  `json:"category"`
}

type costRequest struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

func (h *handler) handleReport(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.session.State())
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleUpdateInputs(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleUpdateInputs"

	var req inputsRequest
	if !h.decodeBody(w, r, &req, op) {
		return
	}

	var regime ledger.Regime
	if req.Regime != nil {
		parsed, ok := ledger.ParseRegime(*req.Regime)
		if !ok {
			h.respondErrorWithOp(w, http.StatusUnprocessableEntity, fmt.Sprintf("unknown regime %q", *req.Regime), op)
			return
		}
		regime = parsed
	}
	if err := req.validate(); err != nil {
		h.respondErrorWithOp(w, http.StatusUnprocessableEntity, err.Error(), op)
		return
	}

	h.session.Update("ledger.SetInputs", func(l *ledger.Ledger) bool {
		if req.Regime != nil {
			l.SetRegime(regime)
		}
		setIf(req.Revenue, l.SetRevenue)
		setIf(req.OwnerDraw, l.SetOwnerDraw)
		setIf(req.FlatFee, l.SetFlatFee)
		setIf(req.RevenueTaxRate, l.SetRevenueTaxRate)
		setIf(req.OtherTaxes, l.SetOtherTaxes)
		if a := req.Allocation; a != nil {
			alloc := l.Inputs().Allocation
			setIf(a.Reserve, func(v float64) { alloc.Reserve = v })
			setIf(a.FutureTaxes, func(v float64) { alloc.FutureTaxes = v })
			setIf(a.Reinvestment, func(v float64) { alloc.Reinvestment = v })
			setIf(a.Distribution, func(v float64) { alloc.Distribution = v })
			l.SetAllocation(alloc)
		}
		return true
	})

	h.writeJSON(w, http.StatusOK, h.session.State())
}

type fieldCheck struct {
	field string
	value *float64
	pct   bool
}

func (req inputsRequest) validate() error {
	checks := []fieldCheck{
		{"revenue", req.Revenue, false},
		{"ownerDraw", req.OwnerDraw, false},
		{"flatFee", req.FlatFee, false},
		{"otherTaxes", req.OtherTaxes, false},
		{"revenueTaxRate", req.RevenueTaxRate, true},
	}
	if a := req.Allocation; a != nil {
		checks = append(checks,
			fieldCheck{"allocation.reserve", a.Reserve, true},
			fieldCheck{"allocation.futureTaxes", a.FutureTaxes, true},
			fieldCheck{"allocation.reinvestment", a.Reinvestment, true},
			fieldCheck{"allocation.distribution", a.Distribution, true},
		)
	}

	for _, c := range checks {
		if c.value == nil {
			continue
		}
		var err error
		if c.pct {
			err = validation.ValidatePercentage(c.field, *c.value)
		} else {
			err = validation.ValidateNonNegative(c.field, *c.value)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func setIf(v *float64, set func(float64)) {
	if v != nil {
		set(*v)
	}
}

func (h *handler) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleAddExpense"

	var req expenseRequest
	if !h.decodeBody(w, r, &req, op) {
		return
	}
	kind, ok := ledger.ParseExpenseKind(req.Kind)
	if !ok {
		h.respondErrorWithOp(w, http.StatusUnprocessableEntity, fmt.Sprintf("unknown kind %q", req.Kind), op)
		return
	}

	item, ok := h.session.AddOperatingExpense(req.Name, req.Amount, kind, req.Category)
	if !ok {
		h.respondErrorWithOp(w, http.StatusUnprocessableEntity, itemError(req.Name, req.Amount), op)
		return
	}
	h.writeJSON(w, http.StatusCreated, item)
}

func (h *handler) handleEditExpense(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleEditExpense"
	id := r.PathValue("id")

	var req expenseRequest
	if !h.decodeBody(w, r, &req, op) {
		return
	}
	kind, ok := ledger.ParseExpenseKind(req.Kind)
	if !ok {
		h.respondErrorWithOp(w, http.StatusUnprocessableEntity, fmt.Sprintf("unknown kind %q", req.Kind), op)
		return
	}

	found := false
	accepted := h.session.Update("ledger.EditOperatingExpense", func(l *ledger.Ledger) bool {
		for _, e := range l.Expenses() {
			if e.ID == id {
				found = true
				break
			}
		}
		return found && l.EditOperatingExpense(id, req.Name, req.Amount, kind, req.Category)
	})

	switch {
	case !found:
		h.respondErrorWithOp(w, http.StatusNotFound, fmt.Sprintf("operating expense %q not found", id), op)
	case !accepted:
		h.respondErrorWithOp(w, http.StatusUnprocessableEntity, itemError(req.Name, req.Amount), op)
	default:
		h.writeJSON(w, http.StatusOK, h.session.State())
	}
}

func (h *handler) handleRemoveExpense(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !h.session.RemoveOperatingExpense(id) {
		h.respondErrorWithOp(w, http.StatusNotFound, fmt.Sprintf("operating expense %q not found", id), "server.handleRemoveExpense")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) handleAddCost(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleAddCost"

	var req costRequest
	if !h.decodeBody(w, r, &req, op) {
		return
	}

	item, ok := h.session.AddDirectCost(req.Name, req.Amount)
	if !ok {
		h.respondErrorWithOp(w, http.StatusUnprocessableEntity, itemError(req.Name, req.Amount), op)
		return
	}
	h.writeJSON(w, http.StatusCreated, item)
}

func (h *handler) handleEditCost(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleEditCost"
	id := r.PathValue("id")

	var req costRequest
	if !h.decodeBody(w, r, &req, op) {
		return
	}

	found := false
	accepted := h.session.Update("ledger.EditDirectCost", func(l *ledger.Ledger) bool {
		for _, c := range l.DirectCosts() {
			if c.ID == id {
				found = true
				break
			}
		}
		return found && l.EditDirectCost(id, req.Name, req.Amount)
	})

	switch {
	case !found:
		h.respondErrorWithOp(w, http.StatusNotFound, fmt.Sprintf("direct cost %q not found", id), op)
	case !accepted:
		h.respondErrorWithOp(w, http.StatusUnprocessableEntity, itemError(req.Name, req.Amount), op)
	default:
		h.writeJSON(w, http.StatusOK, h.session.State())
	}
}

func (h *handler) handleRemoveCost(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !h.session.RemoveDirectCost(id) {
		h.respondErrorWithOp(w, http.StatusNotFound, fmt.Sprintf("direct cost %q not found", id), "server.handleRemoveCost")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) handleExportExpenses(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", constants.ExpenseExportFilename))
	if err := output.WriteExpensesCSV(w, h.session.Expenses()); err != nil {
		h.logger.Error("failed to write expense export",
			zap.String("op", "server.handleExportExpenses"),
			zap.Error(err),
		)
	}
}

func (h *handler) handleReset(w http.ResponseWriter, r *http.Request) {
	h.session.Reset()
	h.writeJSON(w, http.StatusOK, h.session.State())
}

// decodeBody reads a size-limited JSON body into dst. It writes the error
// response itself and reports whether the handler should continue.
func (h *handler) decodeBody(w http.ResponseWriter, r *http.Request, dst any, op string) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxBytesErr):
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds limit of %d bytes", h.maxBodySize), op)
		case errors.Is(err, io.EOF):
			h.respondErrorWithOp(w, http.StatusBadRequest, "request body is empty", op)
		default:
			h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON body: %v", err), op)
		}
		return false
	}
	return true
}

func itemError(name string, amount float64) string {
	if err := validation.ValidateItem(name, amount); err != nil {
		return err.Error()
	}
	return "item rejected"
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	level := h.logger.Warn
	if status >= http.StatusInternalServerError {
		level = h.logger.Error
	}
	level("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

// statusRecorder wraps http.ResponseWriter to capture the status code.
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.statusCode = code
	sr.ResponseWriter.WriteHeader(code)
}

// Unwrap returns the underlying ResponseWriter for http.ResponseController.
func (sr *statusRecorder) Unwrap() http.ResponseWriter { return sr.ResponseWriter }

func (h *handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sr := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(sr, r)
		h.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", sr.statusCode),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
