package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskboard/internal/models"
)

// handleListPersons returns all known persons.
func (s *Server) handleListPersons(c *gin.Context) {
	persons, err := s.store.ListPersons(c.Request.Context())
	if err != nil {
		s.respondError(c, statusFor(err), err)
		return
	}
	respondSuccess(c, http.StatusOK, persons)
}

// handleGetPerson returns one person.
func (s *Server) handleGetPerson(c *gin.Context) {
	person, err := s.store.GetPerson(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, statusFor(err), err)
		return
	}
	respondSuccess(c, http.StatusOK, person)
}

// handleCreatePerson creates a new person entity.
func (s *Server) handleCreatePerson(c *gin.Context) {
	var req models.Person
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	person, err := s.store.CreatePerson(c.Request.Context(), req)
	if err != nil {
		s.respondError(c, statusFor(err), err)
		return
	}
	respondSuccess(c, http.StatusCreated, person)
}

// handleUpdatePerson edits an existing person.
func (s *Server) handleUpdatePerson(c *gin.Context) {
	var patch models.PersonPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	person, err := s.store.UpdatePerson(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		s.respondError(c, statusFor(err), err)
		return
	}
	respondSuccess(c, http.StatusOK, person)
}

// handleDeletePerson removes a person and unassigns their tasks.
func (s *Server) handleDeletePerson(c *gin.Context) {
	if err := s.store.DeletePerson(c.Request.Context(), c.Param("id")); err != nil {
		s.respondError(c, statusFor(err), err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"status": "deleted"})
}
