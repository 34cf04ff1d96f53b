package types

type DataResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type IngestResponse struct {
	Source string `json:"source"`
}

type SearchResponse struct {
	Results []RetrievalResult `json:"results"`
}

// AskContextEvent is sent eagerly on the answer stream before any generated
// fragment, so a client can display provenance without waiting for generation.
type AskContextEvent struct {
	Context string            `json:"context"`
	Results []RetrievalResult `json:"results"`
}
