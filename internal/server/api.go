package server

import (
	"context"
	"errors"
	"mime"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/vanshika/osintportal/internal/domain"
	"github.com/vanshika/osintportal/internal/export"
	"github.com/vanshika/osintportal/internal/service"
	"github.com/vanshika/osintportal/internal/store"
	"github.com/vanshika/osintportal/internal/validate"
)

// apiBanner is the body of GET /api.
const apiBanner = "OSINT Portal API"

// LookupRunner is the part of the lookup service the handlers depend on.
type LookupRunner interface {
	Lookup(ctx context.Context, kind domain.Kind, raw string) (domain.Lookup, error)
	Start(kind domain.Kind, raw string) (domain.Lookup, error)
	Get(id string) (domain.Lookup, error)
	Delay(kind domain.Kind) time.Duration
}

// APIHandlers exposes HTTP handlers for the JSON API.
type APIHandlers struct {
	logger  *zap.Logger
	service LookupRunner
}

// NewAPIHandlers constructs an APIHandlers instance.
func NewAPIHandlers(logger *zap.Logger, svc LookupRunner) *APIHandlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &APIHandlers{
		logger:  logger.Named("api"),
		service: svc,
	}
}

type createLookupRequest struct {
	Kind  string `json:"kind"`
	Query string `json:"query"`
}

type noticeResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func (h *APIHandlers) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": apiBanner})
}

// handleDirect serves GET /api/{kind}/{query}, blocking for the simulated delay.
func (h *APIHandlers) handleDirect(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/")
	if rest == "" {
		h.handleRoot(w, r)
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	segment, rawQuery, _ := strings.Cut(rest, "/")
	kind, err := domain.ParseKind(segment)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	l, err := h.service.Lookup(r.Context(), kind, rawQuery)
	if err != nil {
		h.writeLookupError(w, err, kind)
		return
	}
	respondJSON(w, http.StatusOK, l)
}

func (h *APIHandlers) handleLookups(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var req createLookupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload: "+err.Error())
		return
	}
	kind, err := domain.ParseKind(req.Kind)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	l, err := h.service.Start(kind, req.Query)
	if err != nil {
		h.writeLookupError(w, err, kind)
		return
	}
	w.Header().Set("Location", "/api/lookups/"+l.ID)
	respondJSON(w, http.StatusAccepted, l)
}

func (h *APIHandlers) handleLookup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/lookups/"), "/")
	id, action, _ := strings.Cut(rest, "/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "lookup ID is required")
		return
	}

	l, err := h.service.Get(id)
	if err != nil {
		h.writeLookupError(w, err, "")
		return
	}

	switch action {
	case "":
		respondJSON(w, http.StatusOK, l)
	case "export":
		h.export(w, r, l)
	default:
		writeError(w, http.StatusNotFound, "unknown lookup resource")
	}
}

func (h *APIHandlers) export(w http.ResponseWriter, r *http.Request, l domain.Lookup) {
	format, err := export.ParseFormat(l.Kind, r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !l.Complete() {
		writeError(w, http.StatusConflict, export.ErrNotReady.Error())
		return
	}

	w.Header().Set("Content-Type", export.ContentType(format))
	w.Header().Set("Content-Disposition", contentDisposition(export.Filename(l, format)))
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	if err := export.Write(w, format, l); err != nil {
		h.logger.Error("export failed", zap.String("id", l.ID), zap.String("format", string(format)), zap.Error(err))
	}
}

func (h *APIHandlers) writeLookupError(w http.ResponseWriter, err error, kind domain.Kind) {
	if notice, ok := validate.Notice(err); ok {
		respondJSON(w, http.StatusBadRequest, noticeResponse{Error: notice.Title, Message: notice.Message})
		return
	}
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "lookup not found")
	case errors.Is(err, export.ErrNotReady):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrShuttingDown), errors.Is(err, store.ErrClosed):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, "lookup cancelled")
	default:
		h.logger.Error("lookup failed", zap.String("kind", kind.String()), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "lookup failed")
	}
}

// contentDisposition quotes filename so queries carrying quotes, semicolons
// or non-ASCII text still produce a parseable header.
func contentDisposition(filename string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": filename}); v != "" {
		return v
	}
	return "attachment"
}

func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, noticeResponse{Error: msg})
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}
