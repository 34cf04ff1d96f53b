package handler

import (
	"bufio"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tieubaoca/second-brain-be/database"
	"github.com/tieubaoca/second-brain-be/service"
	"github.com/tieubaoca/second-brain-be/types"
)

// The SSE loop uses CloseNotify, which httptest.ResponseRecorder does not
// implement, so this goes through a real listener.
func TestHandleAskStream(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := &fakeVectorStore{
		ids:   []string{"id-1"},
		texts: []string{"Paris is the capital of France."},
		metadatas: []database.ChunkMetadata{
			{Source: "geo.txt", Type: types.DocumentTypePDF, CreatedAt: "2024-01-15T09:30:00Z"},
		},
	}
	brain := service.NewBrainService(store, nil, nil, service.NewChunker(service.DefaultChunkerConfig), nil)
	router := gin.New()
	router.POST("/api/v1/ask", NewAskHandler(brain).HandleAsk)

	srv := httptest.NewServer(router)
	defer srv.Close()

	payload, err := json.Marshal(types.AskRequest{Question: "What is the capital of France?"})
	require.NoError(t, err)
	resp, err := http.Post(srv.URL+"/api/v1/ask", "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/event-stream")

	var events []string
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "event:") {
			events = append(events, strings.TrimSpace(strings.TrimPrefix(line, "event:")))
		}
	}
	require.NoError(t, scanner.Err())

	// Context first, then the missing-credential fragment, then done.
	require.Len(t, events, 3)
	assert.Equal(t, "context", events[0])
	assert.Equal(t, "message", events[1])
	assert.Equal(t, "done", events[2])
}

func TestHandleAskRejectsEmptyQuestion(t *testing.T) {
	gin.SetMode(gin.TestMode)
	brain := service.NewBrainService(&fakeVectorStore{}, nil, nil, service.NewChunker(service.DefaultChunkerConfig), nil)
	router := gin.New()
	router.POST("/api/v1/ask", NewAskHandler(brain).HandleAsk)

	w := postJSON(t, router, "/api/v1/ask", types.AskRequest{Question: ""})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
