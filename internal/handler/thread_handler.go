package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"forum-service/internal/dto"
	"forum-service/internal/response"
	"forum-service/internal/service"
)

type ThreadHandler struct {
	threadService service.ThreadService
	logger        *zap.Logger
}

func NewThreadHandler(threadService service.ThreadService, logger *zap.Logger) *ThreadHandler {
	return &ThreadHandler{threadService: threadService, logger: logger}
}

// ListThreads godoc
// @Summary      List threads
// @Description  Returns every thread, newest first. Search, filtering and sorting happen on the client.
// @Tags         threads
// @Produce      json
// @Success      200 {object} response.SuccessResponse{data=[]dto.ThreadResponse}
// @Failure      500 {object} response.ErrorResponse
// @Router       /threads [get]
func (h *ThreadHandler) ListThreads(c *gin.Context) {
	threads, err := h.threadService.ListThreads(c.Request.Context())
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, threads)
}

// GetThread godoc
// @Summary      Get a thread
// @Tags         threads
// @Produce      json
// @Param        slug path string true "Thread slug"
// @Success      200 {object} response.SuccessResponse{data=dto.ThreadResponse}
// @Failure      404 {object} response.ErrorResponse
// @Router       /threads/{slug} [get]
func (h *ThreadHandler) GetThread(c *gin.Context) {
	thread, err := h.threadService.GetThread(c.Request.Context(), c.Param("slug"))
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, thread)
}

// CreateThread godoc
// @Summary      Create a thread
// @Tags         threads
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateThreadRequest true "Thread"
// @Success      201 {object} response.SuccessResponse{data=dto.ThreadResponse}
// @Failure      400 {object} response.ErrorResponse
// @Failure      401 {object} response.ErrorResponse
// @Router       /threads [post]
// @Security     BearerAuth
func (h *ThreadHandler) CreateThread(c *gin.Context) {
	var req dto.CreateThreadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	thread, err := h.threadService.CreateThread(requestContext(c), &req)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, thread)
}

// UpdateThread godoc
// @Summary      Edit a thread
// @Description  Only the author may edit. Any edit counts as thread activity.
// @Tags         threads
// @Accept       json
// @Produce      json
// @Param        slug    path string                  true "Thread slug"
// @Param        request body dto.UpdateThreadRequest true "Fields to change"
// @Success      200 {object} response.SuccessResponse{data=dto.ThreadResponse}
// @Failure      400 {object} response.ErrorResponse
// @Failure      403 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Router       /threads/{slug} [patch]
// @Security     BearerAuth
func (h *ThreadHandler) UpdateThread(c *gin.Context) {
	var req dto.UpdateThreadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	thread, err := h.threadService.UpdateThread(requestContext(c), c.Param("slug"), &req)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, thread)
}

// ToggleVote godoc
// @Summary      Toggle the caller's upvote on a thread
// @Tags         threads
// @Produce      json
// @Param        slug path string true "Thread slug"
// @Success      200 {object} response.SuccessResponse{data=dto.VoteResponse}
// @Failure      401 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Router       /threads/{slug}/upvote [post]
// @Security     BearerAuth
func (h *ThreadHandler) ToggleVote(c *gin.Context) {
	vote, err := h.threadService.ToggleVote(requestContext(c), c.Param("slug"))
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, vote)
}
