package devserver

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"todo/internal/service"
	"todo/internal/storage"
)

func (s *Server) handleListAll(c *gin.Context) {
	limit, err := intQuery(c, "limit", service.DefaultLimit)
	if err != nil || limit < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}
	offset, err := intQuery(c, "offset", service.DefaultOffset)
	if err != nil || offset < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid offset"})
		return
	}
	s.list(c, storage.FilterAll, limit, offset)
}

func (s *Server) handleListCompleted(c *gin.Context) {
	s.list(c, storage.FilterCompleted, -1, 0)
}

func (s *Server) handleListActive(c *gin.Context) {
	s.list(c, storage.FilterActive, -1, 0)
}

func (s *Server) list(c *gin.Context, filter storage.Filter, limit, offset int) {
	tasks, err := s.store.List(c.Request.Context(), filter, limit, offset)
	if err != nil {
		s.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (s *Server) handleGet(c *gin.Context) {
	task, err := s.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.storageError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) handleCreate(c *gin.Context) {
	var in service.CreateTask
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if strings.TrimSpace(in.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title required"})
		return
	}

	task := service.Task{
		ID:        uuid.New().String(),
		Title:     in.Title,
		Completed: in.Completed.Or(false),
	}
	if err := s.store.Create(c.Request.Context(), task); err != nil {
		s.internalError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

// updateBody is the merged record the client submits.
type updateBody struct {
	Title     *string `json:"title"`
	Completed *bool   `json:"completed"`
}

func (s *Server) handleUpdate(c *gin.Context) {
	id := c.Param("id")

	var body updateBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := s.store.Get(c.Request.Context(), id)
	if err != nil {
		s.storageError(c, err)
		return
	}
	if body.Title != nil {
		if strings.TrimSpace(*body.Title) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "title required"})
			return
		}
		task.Title = *body.Title
	}
	if body.Completed != nil {
		task.Completed = *body.Completed
	}

	if err := s.store.Update(c.Request.Context(), task); err != nil {
		s.storageError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) handleDelete(c *gin.Context) {
	task, err := s.store.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.storageError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) storageError(c *gin.Context, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "todo not found"})
		return
	}
	s.internalError(c, err)
}

func (s *Server) internalError(c *gin.Context, err error) {
	s.log.Error("storage failure", "path", c.Request.URL.Path, "err", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

func intQuery(c *gin.Context, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
