package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"coachtrack/internal/attendance"
	"coachtrack/internal/auth"
)

// GetDayAttendance returns the marking state for a day (default today).
func (h *Handler) GetDayAttendance(c *gin.Context) {
	date, err := dateParam(c, "date")
	if err != nil {
		respondError(c, err)
		return
	}
	records, err := h.Attendance.Day(c.Request.Context(), c.Param("batchID"), date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date.Format(time.DateOnly), "records": records})
}

type markRequest struct {
	StudentID string `json:"student_id" binding:"required"`
	Status    string `json:"status" binding:"required"`
}

// MarkAttendance writes one student's status for today and returns the
// day's records re-read from the store, so the caller reconciles against
// what was actually persisted.
func (h *Handler) MarkAttendance(c *gin.Context) {
	var req markRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, err := dateParam(c, "date")
	if err != nil {
		respondError(c, err)
		return
	}
	batchID := c.Param("batchID")
	if err := h.Attendance.Mark(c.Request.Context(), batchID, req.StudentID, date, attendance.Status(req.Status), auth.UserID(c)); err != nil {
		respondError(c, err)
		return
	}
	records, err := h.Attendance.Day(c.Request.Context(), batchID, date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date.Format(time.DateOnly), "records": records})
}

type bulkSaveRequest struct {
	Marks map[string]string `json:"marks" binding:"required"`
}

// BulkSaveAttendance persists the whole marking state in one upsert.
// Students absent from the marks map are unmarked and stay untouched.
func (h *Handler) BulkSaveAttendance(c *gin.Context) {
	var req bulkSaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, err := dateParam(c, "date")
	if err != nil {
		respondError(c, err)
		return
	}

	marks := make(map[string]attendance.Status, len(req.Marks))
	for studentID, status := range req.Marks {
		marks[studentID] = attendance.Status(status)
	}

	saved, err := h.Attendance.BulkSave(c.Request.Context(), c.Param("batchID"), date, marks, auth.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": saved, "date": date.Format(time.DateOnly)})
}

// AttendanceSummary returns the advisory present/absent/late/unmarked
// counters for a day, derived from the day's records and the roster size.
func (h *Handler) AttendanceSummary(c *gin.Context) {
	date, err := dateParam(c, "date")
	if err != nil {
		respondError(c, err)
		return
	}
	batchID := c.Param("batchID")
	roster, err := h.Students.List(c.Request.Context(), batchID, "")
	if err != nil {
		respondError(c, err)
		return
	}
	summary, err := h.Attendance.DaySummary(c.Request.Context(), batchID, date, len(roster))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
