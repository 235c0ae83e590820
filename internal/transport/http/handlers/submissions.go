package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arklim/task-bounty-service/internal/transport/http/middleware"
	"github.com/arklim/task-bounty-service/internal/usecase"
)

// SubmissionHandler exposes submission read and review endpoints.
type SubmissionHandler struct {
	submissions *usecase.SubmissionService
}

// NewSubmissionHandler constructs SubmissionHandler.
func NewSubmissionHandler(submissions *usecase.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissions: submissions}
}

// ListByTask returns one page of submissions for a task.
func (h *SubmissionHandler) ListByTask(c *gin.Context) {
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	status, err := usecase.ParseSubmissionStatus(c.Query("status"))
	if err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid status filter"))
		return
	}

	page := parseIntQuery(c, "page", 1)
	pageSize := parseIntQuery(c, "page_size", 0)

	result, err := h.submissions.ListByTask(c.Request.Context(), taskID, status, page, pageSize)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrTaskNotFound, Status: http.StatusNotFound, Message: "task not found"},
		}, http.StatusInternalServerError, "failed to list submissions")
		return
	}

	out := make([]SubmissionResponse, 0, len(result.Submissions))
	for _, sub := range result.Submissions {
		out = append(out, newSubmissionResponse(sub))
	}

	c.JSON(http.StatusOK, SubmissionListResponse{
		Submissions: out,
		Pagination: PaginationInfo{
			Page:     result.Page,
			PageSize: result.PageSize,
			Total:    result.Total,
		},
	})
}

// Get returns a single submission.
func (h *SubmissionHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	sub, err := h.submissions.Get(c.Request.Context(), id)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrSubmissionNotFound, Status: http.StatusNotFound, Message: "submission not found"},
		}, http.StatusInternalServerError, "failed to load submission")
		return
	}

	c.JSON(http.StatusOK, newSubmissionResponse(*sub))
}

// Approve marks a submission approved.
func (h *SubmissionHandler) Approve(c *gin.Context) {
	h.review(c, true)
}

// Reject marks a submission rejected.
func (h *SubmissionHandler) Reject(c *gin.Context) {
	h.review(c, false)
}

func (h *SubmissionHandler) review(c *gin.Context, approve bool) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req ReviewRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid request body"))
			return
		}
	}

	reviewer := ""
	if claims, ok := middleware.CurrentClaims(c); ok {
		reviewer = claims.Subject
	}

	decide := h.submissions.Reject
	if approve {
		decide = h.submissions.Approve
	}

	updated, err := decide(c.Request.Context(), id, reviewer, req.Note)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrSubmissionNotFound, Status: http.StatusNotFound, Message: "submission not found"},
		}, http.StatusInternalServerError, "failed to review submission")
		return
	}

	c.JSON(http.StatusOK, newSubmissionResponse(*updated))
}
