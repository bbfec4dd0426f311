package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/kotche/notekeeper/internal/service/auth"
	"github.com/kotche/notekeeper/internal/service/categories"
	"github.com/kotche/notekeeper/internal/service/notes"
)

const (
	longProcessTimeout = 2 * time.Second
)

type Server struct {
	auth       auth.Service
	notes      notes.Service
	categories categories.Service
	log        zerolog.Logger
}

func New(authServ auth.Service, notesServ notes.Service, categoriesServ categories.Service, log zerolog.Logger) *Server {
	return &Server{
		auth:       authServ,
		notes:      notesServ,
		categories: categoriesServ,
		log:        log,
	}
}

// Router wires middleware and routes. Everything under the authorized group
// resolves the current user from the bearer token before any handler runs.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger(), s.requestMetrics())

	r.POST("/register", s.register)
	r.POST("/login", s.login)
	r.Any("/logout", s.logout)

	authorized := r.Group("/", s.authenticate())
	{
		authorized.POST("/notes", s.createNote)
		authorized.GET("/notes", s.listNotes)
		authorized.GET("/notes/search", s.searchNotes)
		authorized.GET("/notes/:id", s.getNote)
		authorized.PUT("/notes/:id", s.updateNote)
		authorized.DELETE("/notes/:id", s.deleteNote)
		authorized.PUT("/notes/:id/category", s.assignCategory)
		authorized.POST("/notes/:id/favorite", s.toggleFavorite)
		authorized.POST("/categories", s.createCategory)
	}

	return r
}

func (s *Server) Run(addr string) error {
	s.log.Info().Str("addr", addr).Msg("server started")
	return s.Router().Run(addr)
}
