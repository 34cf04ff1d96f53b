package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tieubaoca/second-brain-be/repository"
	"github.com/tieubaoca/second-brain-be/service"
	"github.com/tieubaoca/second-brain-be/types"
)

// DocumentHandler is the ingestion boundary. Upstream collaborators (PDF
// extraction, web scraping, audio transcription) post plain text here.
type DocumentHandler struct {
	brain        *service.BrainService
	documentRepo repository.DocumentRepo
}

func NewDocumentHandler(brain *service.BrainService, documentRepo repository.DocumentRepo) *DocumentHandler {
	return &DocumentHandler{
		brain:        brain,
		documentRepo: documentRepo,
	}
}

func (h *DocumentHandler) HandleIngest(c *gin.Context) {
	var req types.IngestDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Invalid request body",
		})
		return
	}
	if req.Source == "" || !types.ValidDocumentType(req.Type) {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "source is required and type must be one of pdf, web, audio",
		})
		return
	}

	err := h.brain.AddDocument(c.Request.Context(), req.Text, types.DocumentMetadata{
		Source:    req.Source,
		Type:      req.Type,
		CreatedAt: req.CreatedAt,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  false,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data: types.IngestResponse{
			Source: req.Source,
		},
	})
}

func (h *DocumentHandler) HandleListDocuments(c *gin.Context) {
	if h.documentRepo == nil {
		c.JSON(http.StatusServiceUnavailable, types.DataResponse{
			Status:  false,
			Message: "document registry is not configured",
		})
		return
	}

	page, _ := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)

	records, total, err := h.documentRepo.PaginateDocuments(c.Request.Context(), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  false,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data: gin.H{
			"documents": records,
			"total":     total,
		},
	})
}
