package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"coachtrack/internal/auth"
	"coachtrack/internal/batch"
)

type batchRequest struct {
	Name       string `json:"name" binding:"required"`
	CourseType string `json:"course_type" binding:"required,coursetype"`
	StartDate  string `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate    string `json:"end_date" binding:"required,datetime=2006-01-02"`
}

func (r batchRequest) toInput() batch.Input {
	start, _ := time.Parse(time.DateOnly, r.StartDate)
	end, _ := time.Parse(time.DateOnly, r.EndDate)
	return batch.Input{
		Name:       r.Name,
		CourseType: r.CourseType,
		StartDate:  start,
		EndDate:    end,
	}
}

// ListBatches returns all batches, newest first.
func (h *Handler) ListBatches(c *gin.Context) {
	batches, err := h.Batches.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"batches": batches})
}

// GetBatch returns one batch.
func (h *Handler) GetBatch(c *gin.Context) {
	b, err := h.Batches.Get(c.Request.Context(), c.Param("batchID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// CreateBatch creates a batch stamped with the acting user.
func (h *Handler) CreateBatch(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	b, err := h.Batches.Create(c.Request.Context(), req.toInput(), auth.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

// UpdateBatch overwrites a batch's fields. Last writer wins.
func (h *Handler) UpdateBatch(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	b, err := h.Batches.Update(c.Request.Context(), c.Param("batchID"), req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// DeleteBatch removes a batch and everything under it. The delete cascades,
// so the client must send confirm=true to show the user acknowledged it.
func (h *Handler) DeleteBatch(c *gin.Context) {
	if c.Query("confirm") != "true" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "deleting a batch removes its students and attendance; pass confirm=true"})
		return
	}
	if err := h.Batches.Delete(c.Request.Context(), c.Param("batchID")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
