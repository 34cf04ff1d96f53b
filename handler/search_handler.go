package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tieubaoca/second-brain-be/service"
	"github.com/tieubaoca/second-brain-be/types"
)

type SearchHandler struct {
	brain *service.BrainService
}

func NewSearchHandler(brain *service.BrainService) *SearchHandler {
	return &SearchHandler{
		brain: brain,
	}
}

// HandleSearch returns the raw top-k chunks for a query without generation,
// useful for inspecting what the index would feed the answer pipeline.
func (h *SearchHandler) HandleSearch(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "missing query parameter q",
		})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(service.DefaultTopK)))
	if err != nil || limit < 1 {
		limit = service.DefaultTopK
	}

	_, results, err := h.brain.Retrieve(c.Request.Context(), query, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  false,
			Message: "Search failed: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data: types.SearchResponse{
			Results: results,
		},
	})
}
