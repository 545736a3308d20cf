package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ressKim-io/NewsMind/api-service/internal/usecase"
)

// ClassifyHandler handles bias classification HTTP requests
type ClassifyHandler struct {
	classifyUC usecase.ClassifyUsecase
}

// NewClassifyHandler creates a new classify handler
func NewClassifyHandler(classifyUC usecase.ClassifyUsecase) *ClassifyHandler {
	return &ClassifyHandler{classifyUC: classifyUC}
}

// ClassifyText handles POST /api/v1/classify
func (h *ClassifyHandler) ClassifyText(c *gin.Context) {
	var input usecase.ClassifyTextInput
	if !bindJSON(c, &input) {
		return
	}

	output, err := h.classifyUC.ClassifyText(c.Request.Context(), &input)
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}

	respondClassification(c, http.StatusOK, output, output.Warning)
}

// ClassifyURL handles POST /api/v1/classify/url.
// An unreachable or empty article is still a 200 with a warning result.
func (h *ClassifyHandler) ClassifyURL(c *gin.Context) {
	var input usecase.ClassifyURLInput
	if !bindJSON(c, &input) {
		return
	}

	output, err := h.classifyUC.ClassifyURL(c.Request.Context(), &input)
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}

	respondClassification(c, http.StatusOK, output, output.Warning)
}

// ClassifyFeed handles POST /api/v1/classify/feed
func (h *ClassifyHandler) ClassifyFeed(c *gin.Context) {
	var input usecase.ClassifyFeedInput
	if !bindJSON(c, &input) {
		return
	}

	output, err := h.classifyUC.ClassifyFeed(c.Request.Context(), &input)
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}

	respondClassification(c, http.StatusOK, output, output.Warning)
}

// GetPrediction handles GET /api/v1/predictions/:id
func (h *ClassifyHandler) GetPrediction(c *gin.Context) {
	id, err := ExtractUUIDParam(c, "id")
	if err != nil {
		HandleInvalidUUID(c, "prediction id")
		return
	}

	output, err := h.classifyUC.GetPrediction(c.Request.Context(), id)
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, output)
}

// ListPredictions handles GET /api/v1/predictions
func (h *ClassifyHandler) ListPredictions(c *gin.Context) {
	page := ParsePagination(c)

	output, err := h.classifyUC.ListPredictions(c.Request.Context(), page.Limit, page.Offset)
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, output)
}

// Labels handles GET /api/v1/labels
func (h *ClassifyHandler) Labels(c *gin.Context) {
	respondSuccess(c, http.StatusOK, usecase.LabelLegend())
}

// Examples handles GET /api/v1/examples
func (h *ClassifyHandler) Examples(c *gin.Context) {
	respondSuccess(c, http.StatusOK, gin.H{"examples": usecase.ExampleHeadlines})
}
