package model

// Chunk 对应于数据库中的 chunks 表，是检索的最小单元。
// Embedding 以 JSON 序列化存储在文本列中，维度由所用 embedding 模型决定。
// ChunkIndex 在同一文档内从 0 开始连续递增；分块一经写入不再修改。
type Chunk struct {
	ID           string    `gorm:"primaryKey;type:varchar(36);column:id" json:"id"`
	DocumentID   string    `gorm:"type:varchar(36);not null;index;column:document_id" json:"document_id"`
	DocumentName string    `gorm:"type:varchar(255);column:document_name" json:"document_name"`
	Text         string    `gorm:"type:text;column:text" json:"text"`
	Embedding    []float32 `gorm:"type:json;serializer:json;column:embedding" json:"embedding"`
	ChunkIndex   int       `gorm:"not null;column:chunk_index" json:"chunk_index"`
}

func (Chunk) TableName() string {
	return "chunks"
}
