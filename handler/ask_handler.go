package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tieubaoca/second-brain-be/service"
	"github.com/tieubaoca/second-brain-be/types"
)

type AskHandler struct {
	brain *service.BrainService
}

func NewAskHandler(brain *service.BrainService) *AskHandler {
	return &AskHandler{
		brain: brain,
	}
}

// HandleAsk answers a question as a server-sent event stream: one "context"
// event carrying the retrieved context up front, then "message" events for
// each generated fragment, then "done".
func (h *AskHandler) HandleAsk(c *gin.Context) {
	var req types.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Question == "" {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Invalid request body",
		})
		return
	}

	fragments, contextStr, results, err := h.brain.Query(c.Request.Context(), req.Question)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  false,
			Message: err.Error(),
		})
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	contextEvent, err := json.Marshal(types.AskContextEvent{
		Context: contextStr,
		Results: results,
	})
	if err == nil {
		c.SSEvent("context", string(contextEvent))
		c.Writer.Flush()
	}

	clientGone := c.Writer.CloseNotify()
	for {
		select {
		case <-clientGone:
			return // Client disconnected
		case fragment, ok := <-fragments:
			if !ok {
				c.SSEvent("done", "")
				c.Writer.Flush()
				return
			}
			c.SSEvent("message", fragment)
			c.Writer.Flush()
		}
	}
}
