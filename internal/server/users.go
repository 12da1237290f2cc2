package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskboard/internal/models"
)

func (s *Server) handleListUsers(c *gin.Context) {
	users, err := s.store.ListUsers(c.Request.Context())
	if err != nil {
		s.respondError(c, statusFor(err), err)
		return
	}
	respondSuccess(c, http.StatusOK, users)
}

func (s *Server) handleGetUser(c *gin.Context) {
	user, err := s.store.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, statusFor(err), err)
		return
	}
	respondSuccess(c, http.StatusOK, user)
}

// handleCreateUser registers an account; the id is generated when omitted.
func (s *Server) handleCreateUser(c *gin.Context) {
	var req models.User
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	user, err := s.store.CreateUser(c.Request.Context(), req)
	if err != nil {
		s.respondError(c, statusFor(err), err)
		return
	}
	respondSuccess(c, http.StatusCreated, user)
}

func (s *Server) handleUpdateUser(c *gin.Context) {
	var patch models.UserPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	user, err := s.store.UpdateUser(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		s.respondError(c, statusFor(err), err)
		return
	}
	respondSuccess(c, http.StatusOK, user)
}

func (s *Server) handleDeleteUser(c *gin.Context) {
	if err := s.store.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		s.respondError(c, statusFor(err), err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"status": "deleted"})
}
