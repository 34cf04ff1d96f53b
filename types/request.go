package types

type IngestDocumentRequest struct {
	Text      string `json:"text"`
	Source    string `json:"source"`
	Type      string `json:"type"`
	CreatedAt string `json:"created_at,omitempty"`
}

type AskRequest struct {
	Question string `json:"question"`
}

type SearchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

type PaginateDocumentsRequest struct {
	Page  int64 `json:"page"`
	Limit int64 `json:"limit"`
}
