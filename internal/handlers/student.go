package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"coachtrack/internal/student"
)

type studentRequest struct {
	FullName    string `json:"full_name" binding:"required"`
	RollNumber  string `json:"roll_number" binding:"required"`
	Grade       string `json:"grade"`
	ContactInfo struct {
		Phone       string `json:"phone"`
		Email       string `json:"email"`
		ParentName  string `json:"parent_name"`
		ParentPhone string `json:"parent_phone"`
	} `json:"contact_info"`
}

func (r studentRequest) toInput() student.Input {
	return student.Input{
		FullName:   r.FullName,
		RollNumber: r.RollNumber,
		Grade:      r.Grade,
		ContactInfo: student.ContactInfo{
			Phone:       r.ContactInfo.Phone,
			Email:       r.ContactInfo.Email,
			ParentName:  r.ContactInfo.ParentName,
			ParentPhone: r.ContactInfo.ParentPhone,
		},
	}
}

// ListStudents returns a batch roster ordered by roll number. The optional
// q parameter filters by case-insensitive substring over name and roll
// number without another database query.
func (h *Handler) ListStudents(c *gin.Context) {
	students, err := h.Students.List(c.Request.Context(), c.Param("batchID"), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"students": students})
}

// CreateStudent adds a student to the batch.
func (h *Handler) CreateStudent(c *gin.Context) {
	var req studentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	st, err := h.Students.Create(c.Request.Context(), c.Param("batchID"), req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, st)
}

// UpdateStudent edits a student.
func (h *Handler) UpdateStudent(c *gin.Context) {
	var req studentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	st, err := h.Students.Update(c.Request.Context(), c.Param("studentID"), req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// DeleteStudent removes a student; their attendance records cascade.
func (h *Handler) DeleteStudent(c *gin.Context) {
	if err := h.Students.Delete(c.Request.Context(), c.Param("studentID")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
