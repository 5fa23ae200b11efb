package handlers

import (
	"net/http"
	"strconv"

	"go-repair-ledger/internal/engine"

	"github.com/gin-gonic/gin"
)

// --- POST: Open a new repair ticket ---
func (h *Handler) CreateJob(c *gin.Context) {
	var in engine.CreateJobInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	id, err := h.Engine.CreateJob(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// --- GET: All jobs, newest first ---
func (h *Handler) GetJobs(c *gin.Context) {
	jobs, err := h.Engine.Jobs(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, jobs)
}

// --- GET: Open jobs, soonest due first ---
func (h *Handler) GetActiveJobs(c *gin.Context) {
	jobs, err := h.Engine.ActiveJobs(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, jobs)
}

// --- GET: Delivered jobs ---
func (h *Handler) GetJobHistory(c *gin.Context) {
	jobs, err := h.Engine.JobHistory(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, jobs)
}

// --- PUT: Update costs/parts/status on an open job ---
func (h *Handler) UpdateJob(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job ID"})
		return
	}

	var in engine.UpdateJobInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	in.ID = id

	if err := h.Engine.UpdateJob(c.Request.Context(), in); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Job updated"})
}

// --- POST: Deliver a job (final costs, ledger debit, stock deduction) ---
func (h *Handler) CloseJob(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job ID"})
		return
	}

	var in engine.CloseJobInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	in.ID = id

	if err := h.Engine.CloseJob(c.Request.Context(), in); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Job delivered"})
}

// --- GET: Open jobs per technician ---
func (h *Handler) GetWorkload(c *gin.Context) {
	out, err := h.Engine.Workload(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// --- GET: Delivered/late counts and on-time rate per technician ---
func (h *Handler) GetPerformance(c *gin.Context) {
	out, err := h.Engine.Performance(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
