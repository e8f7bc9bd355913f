// Package model 定义了与数据库表对应的 Go 结构体。
package model

import "time"

// Document 对应于数据库中的 documents 表。
// 文档上传后不可变，删除时级联删除其全部分块。
type Document struct {
	ID         string    `gorm:"primaryKey;type:varchar(36);column:id" json:"id"`
	Name       string    `gorm:"type:varchar(255);not null;column:name" json:"name"`
	Text       string    `gorm:"type:longtext;column:text" json:"text,omitempty"`
	ObjectKey  string    `gorm:"type:varchar(255);column:object_key" json:"-"`
	UploadDate time.Time `gorm:"column:upload_date" json:"upload_date"`
	ChunkCount int       `gorm:"not null;default:0;column:chunk_count" json:"chunk_count"`
}

func (Document) TableName() string {
	return "documents"
}
