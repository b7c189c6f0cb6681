package handler

//go:generate mockgen -source=handler.go -destination=mocks/mock_service.go -package=mocks Service

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"roster/internal/records/models"
	dErrors "roster/pkg/domain-errors"
	"roster/pkg/platform/httputil"
	"roster/pkg/requestcontext"
)

// Success messages returned by the mutating endpoints.
const (
	MsgCreated = "Record successfully created!"
	MsgUpdated = "Record successfully updated!"
	MsgDeleted = "Record successfully deleted!"

	MsgRecordIDRequired = "Record ID is required"
	MsgRecordIDInvalid  = "Record ID must be an integer"
)

// Service defines the record operations the API depends on.
type Service interface {
	Create(ctx context.Context, p models.Person) error
	Update(ctx context.Context, n int, p models.Person) error
	Delete(ctx context.Context, n int) error
	List(ctx context.Context) ([]models.Record, error)
}

// Handler serves the JSON record API.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a record API handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts the record endpoints on the router. The body-addressed
// routes are kept for clients of the older API.
func (h *Handler) Register(r chi.Router) {
	r.Get("/api/records", h.HandleList)
	r.Post("/api/records", h.HandleCreate)
	r.Put("/api/records/{id}", h.HandleUpdate)
	r.Delete("/api/records/{id}", h.HandleDelete)

	r.Post("/api/create", h.HandleCreate)
	r.Put("/api/update_record", h.HandleUpdateByBody)
	r.Delete("/api/delete", h.HandleDeleteByBody)
}

// HandleList handles GET /api/records.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	records, err := h.service.List(ctx)
	if err != nil {
		h.logFailure(ctx, "list records failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ListResponse{Success: true, Records: records})
}

// HandleCreate handles POST /api/records and POST /api/create.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, err := httputil.DecodeJSON[PersonRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	person, err := req.Prepare(requestcontext.Now(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.Create(ctx, person); err != nil {
		h.logFailure(ctx, "create record failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusCreated, MsgCreated)
}

// HandleUpdate handles PUT /api/records/{id}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	n, err := pathRecordID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, err := httputil.DecodeJSON[PersonRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.update(w, r, n, req)
}

// HandleUpdateByBody handles PUT /api/update_record.
func (h *Handler) HandleUpdateByBody(w http.ResponseWriter, r *http.Request) {
	req, err := httputil.DecodeJSON[UpdateRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if req.RecordID == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, MsgRecordIDRequired))
		return
	}
	h.update(w, r, int(*req.RecordID), &req.PersonRequest)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request, n int, req *PersonRequest) {
	ctx := r.Context()

	person, err := req.Prepare(requestcontext.Now(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.Update(ctx, n, person); err != nil {
		h.logFailure(ctx, "update record failed", err, "index", n)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, MsgUpdated)
}

// HandleDelete handles DELETE /api/records/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	n, err := pathRecordID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.delete(w, r, n)
}

// HandleDeleteByBody handles DELETE /api/delete.
func (h *Handler) HandleDeleteByBody(w http.ResponseWriter, r *http.Request) {
	req, err := httputil.DecodeJSON[DeleteRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if req.RecordID == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, MsgRecordIDRequired))
		return
	}
	h.delete(w, r, int(*req.RecordID))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request, n int) {
	ctx := r.Context()

	if err := h.service.Delete(ctx, n); err != nil {
		h.logFailure(ctx, "delete record failed", err, "index", n)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, MsgDeleted)
}

func (h *Handler) logFailure(ctx context.Context, msg string, err error, args ...any) {
	args = append(args,
		"request_id", requestcontext.RequestID(ctx),
		"code", dErrors.CodeOf(err),
		"error", err,
	)
	if httputil.StatusFor(err) >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, msg, args...)
		return
	}
	h.logger.WarnContext(ctx, msg, args...)
}

func pathRecordID(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "id")
	if raw == "" {
		return 0, dErrors.New(dErrors.CodeBadRequest, MsgRecordIDRequired)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeBadRequest, MsgRecordIDInvalid)
	}
	return n, nil
}
