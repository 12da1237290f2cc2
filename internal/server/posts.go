package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskboard/internal/models"
)

// handleListPosts returns posts newest first; ?authorId= narrows the list.
func (s *Server) handleListPosts(c *gin.Context) {
	posts, err := s.store.ListPosts(c.Request.Context(), c.Query("authorId"))
	if err != nil {
		s.respondError(c, statusFor(err), err)
		return
	}
	respondSuccess(c, http.StatusOK, posts)
}

func (s *Server) handleGetPost(c *gin.Context) {
	post, err := s.store.GetPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, statusFor(err), err)
		return
	}
	respondSuccess(c, http.StatusOK, post)
}

func (s *Server) handleCreatePost(c *gin.Context) {
	var req models.Post
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	post, err := s.store.CreatePost(c.Request.Context(), req)
	if err != nil {
		s.respondError(c, statusFor(err), err)
		return
	}
	respondSuccess(c, http.StatusCreated, post)
}

func (s *Server) handleUpdatePost(c *gin.Context) {
	var patch models.PostPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	post, err := s.store.UpdatePost(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		s.respondError(c, statusFor(err), err)
		return
	}
	respondSuccess(c, http.StatusOK, post)
}

func (s *Server) handleDeletePost(c *gin.Context) {
	if err := s.store.DeletePost(c.Request.Context(), c.Param("id")); err != nil {
		s.respondError(c, statusFor(err), err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"status": "deleted"})
}
