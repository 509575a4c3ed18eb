package fakebackend

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"donorsetup/internal/infra"
	"donorsetup/internal/middleware"
)

var (
	errEmailExists  = errors.New("email exists")
	errDuplicateKey = errors.New("duplicate key")
	errUnknownTable = errors.New("unknown table")
)

// reserved PostgREST query parameters that are not column filters.
var reservedParams = map[string]struct{}{
	"select":      {},
	"on_conflict": {},
	"order":       {},
	"limit":       {},
	"offset":      {},
}

// Options configures the fake backend.
type Options struct {
	ServiceKey string
	Logger     *infra.Logger
	Store      *Store
}

// Server is an http.Handler serving the fake API.
type Server struct {
	store  *Store
	router chi.Router
}

// NewServer builds the router. A nil Store gets a fresh one.
func NewServer(opts Options) *Server {
	store := opts.Store
	if store == nil {
		store = NewStore()
	}
	logger := opts.Logger
	if logger == nil {
		logger = infra.DiscardLogger()
	}

	s := &Server{store: store}
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		chimw.Recoverer,
		middleware.Logger(*logger),
	)

	r.Get("/auth/v1/health", s.health)

	r.Group(func(r chi.Router) {
		r.Use(middleware.ServiceKey(opts.ServiceKey))
		r.Route("/auth/v1/admin/users", func(r chi.Router) {
			r.Post("/", s.createUser)
			r.Get("/", s.listUsers)
		})
		r.Route("/rest/v1/{table}", func(r chi.Router) {
			r.Get("/", s.selectRows)
			r.Post("/", s.insertRow)
			r.Patch("/", s.patchRows)
		})
	})

	s.router = r
	return s
}

// Store exposes the backing store for assertions and seeding.
func (s *Server) Store() *Store {
	return s.store
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"name": "fakebackend", "status": "ok"})
}

type createUserPayload struct {
	Email        string         `json:"email"`
	Password     string         `json:"password"`
	EmailConfirm bool           `json:"email_confirm"`
	UserMetadata map[string]any `json:"user_metadata"`
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	var req createUserPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		authError(w, http.StatusBadRequest, "validation_failed", "Could not parse request body as JSON")
		return
	}
	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		authError(w, http.StatusBadRequest, "validation_failed", "Unable to validate email address: invalid format")
		return
	}
	if len(req.Password) < 6 {
		authError(w, http.StatusUnprocessableEntity, "weak_password", "Password should be at least 6 characters.")
		return
	}

	user, status, err := s.store.createUser(email, req.UserMetadata)
	switch {
	case errors.Is(err, errEmailExists):
		authError(w, http.StatusUnprocessableEntity, "email_exists", "A user with this email address has already been registered")
		return
	case err != nil:
		if status == 0 {
			status = http.StatusInternalServerError
		}
		authError(w, status, "unexpected_failure", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	page := positiveInt(r.URL.Query().Get("page"), 1)
	perPage := positiveInt(r.URL.Query().Get("per_page"), 50)
	writeJSON(w, http.StatusOK, map[string]any{
		"aud":   "authenticated",
		"users": s.store.listUsers(page, perPage),
	})
}

func (s *Server) selectRows(w http.ResponseWriter, r *http.Request) {
	filters, ok := parseFilters(w, r)
	if !ok {
		return
	}
	rows, found := s.store.selectRows(chi.URLParam(r, "table"), filters)
	if !found {
		unknownTable(w, chi.URLParam(r, "table"))
		return
	}
	writeJSON(w, http.StatusOK, project(rows, selectColumns(r)))
}

func (s *Server) patchRows(w http.ResponseWriter, r *http.Request) {
	filters, ok := parseFilters(w, r)
	if !ok {
		return
	}
	var patch Row
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		restError(w, http.StatusBadRequest, "PGRST102", "Empty or invalid json")
		return
	}
	rows, found := s.store.patchRows(chi.URLParam(r, "table"), filters, patch)
	if !found {
		unknownTable(w, chi.URLParam(r, "table"))
		return
	}
	if wantsRepresentation(r) {
		writeJSON(w, http.StatusOK, project(rows, selectColumns(r)))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) insertRow(w http.ResponseWriter, r *http.Request) {
	var row Row
	if err := json.NewDecoder(r.Body).Decode(&row); err != nil {
		restError(w, http.StatusBadRequest, "PGRST102", "Empty or invalid json")
		return
	}
	merge := strings.Contains(r.Header.Get("Prefer"), "resolution=merge-duplicates")
	table := chi.URLParam(r, "table")
	switch err := s.store.insertRow(table, row, merge); {
	case errors.Is(err, errUnknownTable):
		unknownTable(w, table)
		return
	case errors.Is(err, errDuplicateKey):
		restError(w, http.StatusConflict, "23505", "duplicate key value violates unique constraint \""+table+"_pkey\"")
		return
	case err != nil:
		restError(w, http.StatusInternalServerError, "XX000", err.Error())
		return
	}
	if wantsRepresentation(r) {
		writeJSON(w, http.StatusCreated, []Row{row})
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// parseFilters accepts only eq. operators, which is all the provisioner uses.
func parseFilters(w http.ResponseWriter, r *http.Request) (map[string]string, bool) {
	filters := map[string]string{}
	for col, values := range r.URL.Query() {
		if _, reserved := reservedParams[col]; reserved || len(values) == 0 {
			continue
		}
		value, ok := strings.CutPrefix(values[0], "eq.")
		if !ok {
			restError(w, http.StatusBadRequest, "PGRST100", "unsupported filter operator on "+col)
			return nil, false
		}
		filters[col] = value
	}
	return filters, true
}

func selectColumns(r *http.Request) []string {
	sel := strings.TrimSpace(r.URL.Query().Get("select"))
	if sel == "" || sel == "*" {
		return nil
	}
	var cols []string
	for _, c := range strings.Split(sel, ",") {
		if c = strings.TrimSpace(c); c != "" {
			cols = append(cols, c)
		}
	}
	return cols
}

func wantsRepresentation(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Prefer"), "return=representation")
}

func positiveInt(raw string, fallback int) int {
	if v, err := strconv.Atoi(raw); err == nil && v > 0 {
		return v
	}
	return fallback
}

func unknownTable(w http.ResponseWriter, table string) {
	restError(w, http.StatusNotFound, "42P01", "relation \"public."+table+"\" does not exist")
}

func authError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, map[string]any{"code": status, "error_code": code, "msg": msg})
}

func restError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, map[string]any{"code": code, "details": nil, "hint": nil, "message": msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
