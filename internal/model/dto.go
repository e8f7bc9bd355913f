package model

// AskRequest 定义了问答接口的请求体。
type AskRequest struct {
	Question string `json:"question"`
}

// SourceDTO 定义了答案引用的单条证据来源。
type SourceDTO struct {
	DocumentID   string  `json:"document_id"`
	DocumentName string  `json:"document_name"`
	Snippet      string  `json:"snippet"`
	Highlight    string  `json:"highlight"`
	Score        float64 `json:"score"`
	ChunkIndex   int     `json:"chunk_index"`
}

// AskResponse 定义了问答接口的响应体。
type AskResponse struct {
	Answer          string      `json:"answer"`
	Sources         []SourceDTO `json:"sources"`
	Confidence      string      `json:"confidence"`
	ConfidenceScore float64     `json:"confidence_score"`
}

// UploadResponseDTO 定义了文档上传成功后的响应体。
type UploadResponseDTO struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ChunkCount int    `json:"chunk_count"`
	Message    string `json:"message"`
}

// DocumentListDTO 定义了文档列表的响应体，列表项不含全文。
type DocumentListDTO struct {
	Documents []Document `json:"documents"`
	Count     int        `json:"count"`
}

// HealthResponse 定义了健康检查接口的响应体。
type HealthResponse struct {
	Status         string `json:"status"`
	Database       string `json:"database"`
	Redis          string `json:"redis"`
	LLM            string `json:"llm"`
	DocumentsCount int64  `json:"documents_count"`
	ChunksCount    int64  `json:"chunks_count"`
}
