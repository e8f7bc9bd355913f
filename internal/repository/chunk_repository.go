package repository

import (
	"knowledge-qa-go/internal/model"

	"gorm.io/gorm"
)

// ChunkRepository 定义了对 chunks 表的数据操作接口。
type ChunkRepository interface {
	BatchCreate(chunks []*model.Chunk) error
	FindAll() ([]*model.Chunk, error)
	DeleteByDocumentID(documentID string) error
	Count() (int64, error)
}

type chunkRepository struct {
	db *gorm.DB
}

// NewChunkRepository 创建一个新的 ChunkRepository 实例。
func NewChunkRepository(db *gorm.DB) ChunkRepository {
	return &chunkRepository{db: db}
}

// BatchCreate 批量创建分块记录。
func (r *chunkRepository) BatchCreate(chunks []*model.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	return r.db.CreateInBatches(chunks, 100).Error // 每100条记录一批
}

// FindAll 返回全部分块记录，问答时用于全量相似度扫描。
// 按 document_id + chunk_index 排序，保证同分排序的确定性。
func (r *chunkRepository) FindAll() ([]*model.Chunk, error) {
	var chunks []*model.Chunk
	err := r.db.Order("document_id, chunk_index").Find(&chunks).Error
	return chunks, err
}

// DeleteByDocumentID 删除某文档的全部分块记录。
func (r *chunkRepository) DeleteByDocumentID(documentID string) error {
	return r.db.Where("document_id = ?", documentID).Delete(&model.Chunk{}).Error
}

// Count 返回分块总数。
func (r *chunkRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Chunk{}).Count(&count).Error
	return count, err
}
