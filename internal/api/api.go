package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/starboard-dev/starboard/internal/dashboard"
	"github.com/starboard-dev/starboard/internal/github"
	"github.com/starboard-dev/starboard/internal/models"
	"github.com/starboard-dev/starboard/internal/refresh"
)

// Server provides the REST API handlers.
type Server struct {
	dash *dashboard.Dashboard
	disc *dashboard.Discoverer
	gh   github.Client
}

// NewServer creates a new API server.
func NewServer(dash *dashboard.Dashboard, gh github.Client) *Server {
	return &Server{
		dash: dash,
		disc: dashboard.NewDiscoverer(dash, gh),
		gh:   gh,
	}
}

// Router returns an http.Handler for the API routes.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/projects", s.listProjects)
	mux.HandleFunc("POST /api/v1/projects", s.createProject)
	mux.HandleFunc("GET /api/v1/projects/{id}", s.getProject)
	mux.HandleFunc("DELETE /api/v1/projects/{id}", s.deleteProject)
	mux.HandleFunc("POST /api/v1/projects/{id}/refresh", s.refreshProject)

	mux.HandleFunc("POST /api/v1/projects/{id}/categories", s.addProjectCategory)
	mux.HandleFunc("DELETE /api/v1/projects/{id}/categories/{catID}", s.removeProjectCategory)

	mux.HandleFunc("GET /api/v1/categories", s.listCategories)
	mux.HandleFunc("POST /api/v1/categories", s.createCategory)
	mux.HandleFunc("DELETE /api/v1/categories/{id}", s.deleteCategory)

	mux.HandleFunc("GET /api/v1/discover", s.discoverSearch)
	mux.HandleFunc("POST /api/v1/discover", s.discoverAdd)

	mux.HandleFunc("GET /api/v1/status", s.statusOverview)

	return corsMiddleware(mux)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// --- Projects ---

func (s *Server) listProjects(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	var categoryIDs []string
	if raw := r.URL.Query().Get("categories"); raw != "" {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				categoryIDs = append(categoryIDs, id)
			}
		}
	}

	writeJSON(w, http.StatusOK, s.dash.Filter(query, categoryIDs))
}

func (s *Server) getProject(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	p, ok := s.dash.Project(id)
	if !ok {
		writeError(w, http.StatusNotFound, "project not found: "+id)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) createProject(w http.ResponseWriter, r *http.Request) {
	var p models.Project
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if p.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if p.ID == "" {
		p.ID = dashboard.NewID()
	}
	p.Normalize()

	if err := s.dash.AddProject(r.Context(), p); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) deleteProject(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	removed, err := s.dash.RemoveProject(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !removed {
		writeError(w, http.StatusNotFound, "project not found: "+id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) refreshProject(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	p, ok := s.dash.Project(id)
	if !ok {
		writeError(w, http.StatusNotFound, "project not found: "+id)
		return
	}

	result, err := refresh.Project(r.Context(), s.dash, s.gh, p)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// --- Project categories ---

func (s *Server) addProjectCategory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var c models.Category
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if c.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if c.ID == "" {
		c.ID = dashboard.NewID()
	}

	ok, err := s.dash.AddCategoryToProject(r.Context(), id, c)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "project not found: "+id)
		return
	}

	p, _ := s.dash.Project(id)
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) removeProjectCategory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	catID := r.PathValue("catID")

	ok, err := s.dash.RemoveCategoryFromProject(r.Context(), id, catID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "project not found: "+id)
		return
	}

	p, _ := s.dash.Project(id)
	writeJSON(w, http.StatusOK, p)
}

// --- Categories ---

func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.dash.Categories())
}

func (s *Server) createCategory(w http.ResponseWriter, r *http.Request) {
	var c models.Category
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if c.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if c.ID == "" {
		c.ID = dashboard.NewID()
	}

	added, err := s.dash.AddGlobalCategory(r.Context(), c)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !added {
		writeError(w, http.StatusConflict, "category already exists: "+c.Name)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	removed, err := s.dash.RemoveGlobalCategory(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !removed {
		writeError(w, http.StatusNotFound, "category not found: "+id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Discovery ---

func (s *Server) discoverSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "q is required")
		return
	}

	repos, err := s.gh.Search(r.Context(), query)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, repos)
}

func (s *Server) discoverAdd(w http.ResponseWriter, r *http.Request) {
	var repo models.Repo
	if err := json.NewDecoder(r.Body).Decode(&repo); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if repo.FullName == "" {
		writeError(w, http.StatusBadRequest, "full_name is required")
		return
	}

	// A bare {"full_name": "owner/repo"} body is allowed; fill in the rest
	// of the record before handing it to the discoverer.
	if repo.Name == "" {
		owner, name, ok := strings.Cut(repo.FullName, "/")
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid full_name: "+repo.FullName)
			return
		}
		full, err := s.gh.GetRepo(r.Context(), owner, name)
		if err != nil {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		repo = *full
	}

	p, err := s.disc.Add(r.Context(), repo)
	if err != nil {
		slog.Warn("discovery add failed", "repo", repo.FullName, "error", err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// --- Status ---

func (s *Server) statusOverview(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"projects":   len(s.dash.Projects()),
		"categories": len(s.dash.Categories()),
		"loading":    s.disc.Loading(),
	})
}
