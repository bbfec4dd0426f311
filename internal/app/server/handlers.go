package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kotche/notekeeper/infrastructure/metrics"
	"github.com/kotche/notekeeper/internal/model"
)

type (
	credentialsRequest struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	createNoteRequest struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}

	updateNoteRequest struct {
		Title   *string `json:"title"`
		Content *string `json:"content"`
	}

	assignCategoryRequest struct {
		CategoryID string `json:"category_id"`
	}

	createCategoryRequest struct {
		Name string `json:"name"`
	}
)

func (s *Server) register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password required"})
		return
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	if err := s.auth.Register(ctx, req.Username, req.Password); err != nil {
		if errors.Is(err, model.ErrUsernameTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Username already exists"})
			return
		}
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User registered successfully"})
}

func (s *Server) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid credentials"})
		return
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	token, err := s.auth.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, model.ErrInvalidCredentials) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid credentials"})
			return
		}
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Login successful", "token": token})
}

// logout always succeeds: tokens are client-held, so there is no server-side
// session to destroy.
func (s *Server) logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (s *Server) createNote(c *gin.Context) {
	var req createNoteRequest
	// title and content may both be absent, matching the permissive create
	_ = c.ShouldBindJSON(&req)

	ctx, cancel := s.requestContext(c)
	defer cancel()

	noteID, err := s.notes.Create(ctx, currentUser(c), req.Title, req.Content)
	if err != nil {
		s.fail(c, err)
		return
	}

	metrics.NotesCreatedTotal.Inc()
	c.JSON(http.StatusCreated, gin.H{"message": "Note created", "id": noteID})
}

func (s *Server) listNotes(c *gin.Context) {
	ctx, cancel := s.requestContext(c)
	defer cancel()

	notesList, err := s.notes.List(ctx, currentUser(c))
	if err != nil {
		s.fail(c, err)
		return
	}

	views := make([]gin.H, 0, len(notesList))
	for _, note := range notesList {
		views = append(views, noteView(note))
	}

	c.JSON(http.StatusOK, views)
}

func (s *Server) getNote(c *gin.Context) {
	noteID, ok := notePathID(c)
	if !ok {
		return
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	note, err := s.notes.Get(ctx, noteID, currentUser(c))
	if err != nil {
		s.noteError(c, err)
		return
	}

	c.JSON(http.StatusOK, noteView(*note))
}

func (s *Server) updateNote(c *gin.Context) {
	noteID, ok := notePathID(c)
	if !ok {
		return
	}

	var req updateNoteRequest
	_ = c.ShouldBindJSON(&req)

	ctx, cancel := s.requestContext(c)
	defer cancel()

	if err := s.notes.Update(ctx, noteID, currentUser(c), req.Title, req.Content); err != nil {
		s.noteError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Note updated"})
}

func (s *Server) deleteNote(c *gin.Context) {
	noteID, ok := notePathID(c)
	if !ok {
		return
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	if err := s.notes.Delete(ctx, noteID, currentUser(c)); err != nil {
		s.noteError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Note deleted"})
}

func (s *Server) assignCategory(c *gin.Context) {
	var req assignCategoryRequest
	_ = c.ShouldBindJSON(&req)

	// an unparsable note or category id reads the same as a missing one
	noteID, noteErr := uuid.Parse(c.Param("id"))
	categoryID, categoryErr := uuid.Parse(req.CategoryID)
	if noteErr != nil || categoryErr != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invalid note or category"})
		return
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	if err := s.notes.AssignCategory(ctx, noteID, categoryID, currentUser(c)); err != nil {
		if errors.Is(err, model.ErrInvalidReference) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Invalid note or category"})
			return
		}
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category assigned"})
}

func (s *Server) toggleFavorite(c *gin.Context) {
	noteID, ok := notePathID(c)
	if !ok {
		return
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	isFavorite, err := s.notes.ToggleFavorite(ctx, noteID, currentUser(c))
	if err != nil {
		s.noteError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"favorite": isFavorite})
}

func (s *Server) searchNotes(c *gin.Context) {
	ctx, cancel := s.requestContext(c)
	defer cancel()

	notesList, err := s.notes.Search(ctx, currentUser(c), c.Query("q"))
	if err != nil {
		s.fail(c, err)
		return
	}

	views := make([]gin.H, 0, len(notesList))
	for _, note := range notesList {
		views = append(views, searchView(note))
	}

	c.JSON(http.StatusOK, views)
}

func (s *Server) createCategory(c *gin.Context) {
	var req createCategoryRequest
	_ = c.ShouldBindJSON(&req)

	ctx, cancel := s.requestContext(c)
	defer cancel()

	categoryID, err := s.categories.Create(ctx, currentUser(c), req.Name)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category created", "id": categoryID})
}

func (s *Server) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), longProcessTimeout)
}

// notePathID parses the note id from the path. An unparsable id is reported
// exactly like a missing note.
func notePathID(c *gin.Context) (model.NoteID, bool) {
	noteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Note not found"})
		return uuid.Nil, false
	}
	return noteID, true
}

func (s *Server) noteError(c *gin.Context, err error) {
	if errors.Is(err, model.ErrNoteNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Note not found"})
		return
	}
	s.fail(c, err)
}

func (s *Server) fail(c *gin.Context, err error) {
	s.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

func noteView(note model.Note) gin.H {
	return gin.H{
		"id":          note.ID,
		"title":       note.Title,
		"content":     note.Content,
		"category":    note.CategoryName,
		"is_favorite": note.IsFavorite,
	}
}

func searchView(note model.Note) gin.H {
	return gin.H{
		"id":       note.ID,
		"title":    note.Title,
		"category": note.CategoryName,
	}
}
