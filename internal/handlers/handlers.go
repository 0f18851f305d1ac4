// Package handlers wires the HTTP surface to the domain services and maps
// the error taxonomy onto statuses and user-facing messages in one place.
package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"coachtrack/internal/apperr"
	"coachtrack/internal/attendance"
	"coachtrack/internal/auth"
	"coachtrack/internal/batch"
	"coachtrack/internal/report"
	"coachtrack/internal/student"
)

// Handler carries the domain services the endpoints delegate to.
type Handler struct {
	Auth       *auth.Manager
	Batches    *batch.Service
	Students   *student.Service
	Attendance *attendance.Service
	Reports    *report.Service
}

// New creates the handler set.
func New(authMgr *auth.Manager, batches *batch.Service, students *student.Service, att *attendance.Service, reports *report.Service) *Handler {
	return &Handler{
		Auth:       authMgr,
		Batches:    batches,
		Students:   students,
		Attendance: att,
		Reports:    reports,
	}
}

// respondError translates a service error into a status and message.
// Nothing here is fatal; the caller sees a message, retries by hand.
func respondError(c *gin.Context, err error) {
	var vErr *apperr.ValidationError
	switch {
	case errors.Is(err, apperr.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
	case errors.Is(err, apperr.ErrSessionExpired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session expired. Please sign in again."})
	case errors.Is(err, apperr.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, apperr.ErrDuplicateRoll):
		c.JSON(http.StatusConflict, gin.H{"error": "This roll number is already in use"})
	case errors.Is(err, apperr.ErrNothingToSave):
		c.JSON(http.StatusBadRequest, gin.H{"error": "No attendance marked yet"})
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Message, "field": vErr.Field})
	case apperr.IsConnectivity(err):
		log.Printf("connectivity error on %s: %v", c.FullPath(), err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Unable to connect to the server. Please try again later."})
	default:
		log.Printf("request failed on %s: %v", c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An unexpected error occurred"})
	}
}

// dateParam reads an optional yyyy-mm-dd query parameter, defaulting to
// today (UTC).
func dateParam(c *gin.Context, name string) (time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	d, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, apperr.NewValidation(name, "expected yyyy-mm-dd")
	}
	return d, nil
}
