package mockapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/user/movieticket/internal/model"
)

const (
	serviceName  = "Movie Ticket System"
	maxBodyBytes = 1 << 20
)

// Server 开发用 REST 后端，实现 /api 下的电影接口
type Server struct {
	store  *Store
	logger *log.Logger
	router chi.Router
}

// New 创建 mock 服务并注册路由
func New(store *Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	s := &Server{store: store, logger: logger, router: r}
	s.registerRoutes()
	return s
}

// ServeHTTP 实现 http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) registerRoutes() {
	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not Found", "The requested resource was not found")
	})
	s.router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed", "Method not allowed")
	})

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Post("/reload", s.handleReload)
		r.Get("/genres", s.handleGenres)
		r.Route("/movies", func(r chi.Router) {
			r.Get("/", s.handleListMovies)
			r.Post("/", s.handleCreateMovie)
			r.Get("/search/{query}", s.handleSearch)
			r.Get("/genre/{genre}", s.handleByGenre)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetMovie)
				r.Put("/", s.handleUpdateMovie)
				r.Delete("/", s.handleDeleteMovie)
			})
		})
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.HealthStatus{Status: "UP", Service: serviceName})
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Load(); err != nil {
		s.logger.Printf("[MockAPI] reload failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error", err.Error())
		return
	}
	s.logger.Printf("[MockAPI] reloaded %d movies", s.store.Len())
	writeJSON(w, http.StatusOK, map[string]string{"status": "success", "message": "Movies reloaded from file"})
}

func (s *Server) handleGenres(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Genres())
}

func (s *Server) handleListMovies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.List())
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query, ok := pathParam(w, r, "query")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.store.SearchTitle(query))
}

func (s *Server) handleByGenre(w http.ResponseWriter, r *http.Request) {
	genre, ok := pathParam(w, r, "genre")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.store.ByGenre(genre))
}

func (s *Server) handleGetMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r, "id")
	if !ok {
		return
	}
	movie, found := s.store.Get(id)
	if !found {
		writeError(w, http.StatusNotFound, "Not Found", "Movie not found")
		return
	}
	writeJSON(w, http.StatusOK, movie)
}

func (s *Server) handleCreateMovie(w http.ResponseWriter, r *http.Request) {
	movie, ok := decodeMovie(w, r)
	if !ok {
		return
	}
	created, err := s.store.Create(movie)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.logger.Printf("[MockAPI] created movie %q (id %s)", created.Title, created.ID)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r, "id")
	if !ok {
		return
	}
	movie, ok := decodeMovie(w, r)
	if !ok {
		return
	}
	updated, err := s.store.Update(id, movie)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.logger.Printf("[MockAPI] updated movie %q (id %s)", updated.Title, updated.ID)
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r, "id")
	if !ok {
		return
	}
	if err := s.store.Delete(id); err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.logger.Printf("[MockAPI] deleted movie id %s", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "Not Found", "Movie not found")
	case errors.Is(err, ErrDuplicateID):
		writeError(w, http.StatusConflict, "Conflict", "Movie with this ID already exists")
	default:
		s.logger.Printf("[MockAPI] store error: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to save movies")
	}
}

func decodeMovie(w http.ResponseWriter, r *http.Request) (model.Movie, bool) {
	var movie model.Movie
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&movie); err != nil {
		writeError(w, http.StatusBadRequest, "Bad Request", "Invalid JSON body")
		return model.Movie{}, false
	}
	if strings.TrimSpace(movie.Title) == "" {
		writeError(w, http.StatusBadRequest, "Bad Request", "title is required")
		return model.Movie{}, false
	}
	if movie.Cast == nil {
		movie.Cast = []string{}
	}
	return movie, true
}

func pathParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	value := chi.URLParam(r, name)
	// chi 在 RawPath 存在时按转义后的路径匹配
	var err error
	if r.URL.RawPath != "" {
		value, err = url.PathUnescape(value)
	}
	if err != nil || value == "" {
		writeError(w, http.StatusBadRequest, "Bad Request", "invalid "+name+" parameter")
		return "", false
	}
	return value, true
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, title, message string) {
	writeJSON(w, status, map[string]string{"error": title, "message": message})
}
