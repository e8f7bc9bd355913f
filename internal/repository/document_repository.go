// Package repository 提供了对数据库的访问接口。
package repository

import (
	"errors"

	"knowledge-qa-go/internal/model"

	"gorm.io/gorm"
)

// ErrNotFound 表示查询的记录不存在。
var ErrNotFound = errors.New("record not found")

// DocumentRepository 定义了对 documents 表的数据操作接口。
type DocumentRepository interface {
	Create(doc *model.Document) error
	FindAll() ([]model.Document, error)
	FindByID(id string) (*model.Document, error)
	DeleteByID(id string) error
	Count() (int64, error)
}

type documentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository 创建一个新的 DocumentRepository 实例。
func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

// Create 创建一条文档记录。
func (r *documentRepository) Create(doc *model.Document) error {
	return r.db.Create(doc).Error
}

// FindAll 返回所有文档记录，不加载全文字段。
func (r *documentRepository) FindAll() ([]model.Document, error) {
	var docs []model.Document
	err := r.db.Select("id", "name", "object_key", "upload_date", "chunk_count").
		Order("upload_date DESC").Find(&docs).Error
	return docs, err
}

// FindByID 根据 ID 查找单条文档记录（含全文）。
func (r *documentRepository) FindByID(id string) (*model.Document, error) {
	var doc model.Document
	err := r.db.Where("id = ?", id).First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// DeleteByID 根据 ID 删除文档记录。
func (r *documentRepository) DeleteByID(id string) error {
	return r.db.Where("id = ?", id).Delete(&model.Document{}).Error
}

// Count 返回文档总数。
func (r *documentRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Document{}).Count(&count).Error
	return count, err
}
