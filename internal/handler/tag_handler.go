package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"forum-service/internal/dto"
	"forum-service/internal/response"
	"forum-service/internal/service"
)

type TagHandler struct {
	tagService service.TagService
	logger     *zap.Logger
}

func NewTagHandler(tagService service.TagService, logger *zap.Logger) *TagHandler {
	return &TagHandler{tagService: tagService, logger: logger}
}

// ListTags godoc
// @Summary      List tags
// @Tags         tags
// @Produce      json
// @Success      200 {object} response.SuccessResponse{data=[]dto.TagResponse}
// @Router       /tags [get]
func (h *TagHandler) ListTags(c *gin.Context) {
	tags, err := h.tagService.ListTags(c.Request.Context())
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, tags)
}

// CreateTag godoc
// @Summary      Create a tag
// @Description  Returns 409 ALREADY_EXISTS when a tag with the same slug exists
// @Tags         tags
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateTagRequest true "Tag"
// @Success      201 {object} response.SuccessResponse{data=dto.TagResponse}
// @Failure      400 {object} response.ErrorResponse
// @Failure      409 {object} response.ErrorResponse
// @Router       /tags [post]
// @Security     BearerAuth
func (h *TagHandler) CreateTag(c *gin.Context) {
	var req dto.CreateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	tag, err := h.tagService.CreateTag(requestContext(c), &req)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, tag)
}
