// Package web serves the browser front end. Pages are rendered on the server
// and talk to the record service in-process.
package web

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"roster/internal/records/models"
	dErrors "roster/pkg/domain-errors"
	"roster/pkg/platform/httputil"
	"roster/pkg/requestcontext"
)

//go:embed templates/*.html
var templateFS embed.FS

// Notice levels.
const (
	LevelSuccess = "success"
	LevelDanger  = "danger"
)

const (
	msgCreated          = "Record successfully created!"
	msgUpdated          = "Record successfully updated!"
	msgDeleted          = "Record successfully deleted!"
	msgRecordIDRequired = "Record ID is required"
)

// Service is the subset of record operations the pages use.
type Service interface {
	Create(ctx context.Context, p models.Person) error
	Update(ctx context.Context, n int, p models.Person) error
	Delete(ctx context.Context, n int) error
	List(ctx context.Context) ([]models.Record, error)
}

// Notice is a one-shot message shown at the top of a page.
type Notice struct {
	Level string
	Text  string
}

type page struct {
	Title   string
	Notice  *Notice
	Errors  []string
	Records []models.Record
	Form    models.Person
}

// Handler renders the front end pages.
type Handler struct {
	service Service
	logger  *slog.Logger
	pages   map[string]*template.Template
}

// New parses the embedded templates and constructs the handler.
func New(service Service, logger *slog.Logger) (*Handler, error) {
	pages := make(map[string]*template.Template)
	for _, name := range []string{"index", "records", "create"} {
		t, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		pages[name] = t
	}
	return &Handler{service: service, logger: logger, pages: pages}, nil
}

// Register mounts the page routes on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/", h.handleIndex)
	r.Get("/records", h.handleRecords)
	r.Get("/create", h.handleCreateForm)
	r.Post("/create", h.handleCreate)
	r.Post("/update", h.handleUpdate)
	r.Delete("/delete", h.handleDelete)
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "index", page{Title: "Home", Notice: noticeFrom(r)})
}

func (h *Handler) handleRecords(w http.ResponseWriter, r *http.Request) {
	h.renderRecords(w, r, http.StatusOK, noticeFrom(r), nil)
}

func (h *Handler) renderRecords(w http.ResponseWriter, r *http.Request, status int, notice *Notice, errs []string) {
	records, err := h.service.List(r.Context())
	if err != nil {
		h.logger.WarnContext(r.Context(), "list records failed", "error", err)
		errs = append(errs, "An error occurred: "+err.Error())
		if status < http.StatusBadRequest {
			status = httputil.StatusFor(err)
		}
	}
	h.render(w, r, status, "records", page{Title: "Records", Notice: notice, Errors: errs, Records: records})
}

func (h *Handler) handleCreateForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "create", page{Title: "Create", Notice: noticeFrom(r)})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		h.render(w, r, http.StatusBadRequest, "create", page{Title: "Create", Errors: []string{"Invalid form submission"}})
		return
	}
	form := models.Person{
		FirstName:   r.PostForm.Get("first_name"),
		LastName:    r.PostForm.Get("last_name"),
		DateOfBirth: r.PostForm.Get("dob"),
	}.Normalize()

	if err := form.Validate(requestcontext.Now(ctx)); err != nil {
		h.render(w, r, http.StatusBadRequest, "create", page{Title: "Create", Errors: messages(err), Form: form})
		return
	}
	if err := h.service.Create(ctx, form); err != nil {
		h.logger.WarnContext(ctx, "create record failed", "error", err)
		h.render(w, r, httputil.StatusFor(err), "create", page{Title: "Create", Errors: messages(err), Form: form})
		return
	}
	redirectWithNotice(w, r, "/records", LevelSuccess, msgCreated)
}

// handleUpdate answers JSON to scripted callers (X-Requested-With) and
// redirects or re-renders for plain form posts.
func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ajax := r.Header.Get("X-Requested-With") == "XMLHttpRequest"

	fail := func(err error) {
		if ajax {
			httputil.WriteError(w, err)
			return
		}
		h.renderRecords(w, r, httputil.StatusFor(err), nil, messages(err))
	}

	if err := r.ParseForm(); err != nil {
		fail(dErrors.Wrap(err, dErrors.CodeBadRequest, "Invalid form submission"))
		return
	}
	n, err := parseRecordID(r.PostForm.Get("record_id"))
	if err != nil {
		fail(err)
		return
	}
	p := models.Person{
		FirstName:   r.PostForm.Get("first_name"),
		LastName:    r.PostForm.Get("last_name"),
		DateOfBirth: r.PostForm.Get("date_of_birth"),
	}.Normalize()
	if err := p.Validate(requestcontext.Now(ctx)); err != nil {
		fail(err)
		return
	}
	if err := h.service.Update(ctx, n, p); err != nil {
		h.logger.WarnContext(ctx, "update record failed", "index", n, "error", err)
		fail(err)
		return
	}

	if ajax {
		httputil.WriteSuccess(w, http.StatusOK, msgUpdated)
		return
	}
	redirectWithNotice(w, r, "/records", LevelSuccess, msgUpdated)
}

type deleteRequest struct {
	RecordID *int `json:"record_id"`
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, err := httputil.DecodeJSON[deleteRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if req.RecordID == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, msgRecordIDRequired))
		return
	}
	if err := h.service.Delete(ctx, *req.RecordID); err != nil {
		h.logger.WarnContext(ctx, "delete record failed", "index", *req.RecordID, "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, msgDeleted)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, name string, data page) {
	var buf bytes.Buffer
	if err := h.pages[name].ExecuteTemplate(&buf, "layout", data); err != nil {
		h.logger.ErrorContext(r.Context(), "render page failed", "page", name, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func noticeFrom(r *http.Request) *Notice {
	text := strings.TrimSpace(r.URL.Query().Get("notice"))
	if text == "" {
		return nil
	}
	level := r.URL.Query().Get("level")
	if level != LevelSuccess {
		level = LevelDanger
	}
	return &Notice{Level: level, Text: text}
}

func redirectWithNotice(w http.ResponseWriter, r *http.Request, path, level, text string) {
	q := url.Values{}
	q.Set("notice", text)
	q.Set("level", level)
	http.Redirect(w, r, path+"?"+q.Encode(), http.StatusSeeOther)
}

func parseRecordID(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, dErrors.New(dErrors.CodeBadRequest, msgRecordIDRequired)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeBadRequest, "Record ID must be an integer")
	}
	return n, nil
}

func messages(err error) []string {
	if fields := dErrors.Fields(err); len(fields) > 0 {
		return fields
	}
	return []string{err.Error()}
}
