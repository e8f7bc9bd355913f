package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"knowledge-qa-go/internal/model"
	"knowledge-qa-go/internal/pipeline"
	"knowledge-qa-go/internal/repository"
	"knowledge-qa-go/pkg/log"
	"knowledge-qa-go/pkg/storage"

	"github.com/google/uuid"
)

// 下载链接有效期。
const downloadURLExpiry = time.Hour

// DocumentService 定义了文档管理操作的接口。
type DocumentService interface {
	Upload(ctx context.Context, fileName string, content []byte) (*model.UploadResponseDTO, error)
	List() (*model.DocumentListDTO, error)
	Get(id string) (*model.Document, error)
	Delete(ctx context.Context, id string) error
	GenerateDownloadURL(id string) (string, error)
}

type documentService struct {
	processor   *pipeline.Processor
	docRepo     repository.DocumentRepository
	chunkRepo   repository.ChunkRepository
	objectStore storage.ObjectStore
}

// NewDocumentService 创建一个新的 DocumentService 实例。
func NewDocumentService(
	processor *pipeline.Processor,
	docRepo repository.DocumentRepository,
	chunkRepo repository.ChunkRepository,
	objectStore storage.ObjectStore,
) DocumentService {
	return &documentService{
		processor:   processor,
		docRepo:     docRepo,
		chunkRepo:   chunkRepo,
		objectStore: objectStore,
	}
}

// Upload 校验并入库一份文本文档：分块、逐块向量化、持久化，
// 并将原始文件内容备份到对象存储（尽力而为，不阻塞入库）。
func (s *documentService) Upload(ctx context.Context, fileName string, content []byte) (*model.UploadResponseDTO, error) {
	if !utf8.Valid(content) {
		return nil, ErrMalformedUpload
	}
	text := string(content)
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyDocument
	}

	doc := &model.Document{
		ID:         uuid.NewString(),
		Name:       fileName,
		Text:       text,
		UploadDate: time.Now().UTC(),
	}

	// 原始文件先备份到对象存储；失败只降级为无备份，不影响入库
	objectKey := fmt.Sprintf("uploads/%s/%s", doc.ID, fileName)
	if err := s.objectStore.Put(ctx, objectKey, content, "text/plain; charset=utf-8"); err != nil {
		log.Warnf("[DocumentService] 备份原始文件到对象存储失败, doc: %s, err: %v", doc.ID, err)
	} else {
		doc.ObjectKey = objectKey
	}

	if err := s.processor.Process(ctx, doc, text); err != nil {
		// 入库失败时清理已备份的对象，避免悬挂
		if doc.ObjectKey != "" {
			if rmErr := s.objectStore.Remove(ctx, doc.ObjectKey); rmErr != nil {
				log.Warnf("[DocumentService] 清理对象存储备份失败, key: %s, err: %v", doc.ObjectKey, rmErr)
			}
		}
		return nil, err
	}

	log.Infof("[DocumentService] 文档上传成功, ID: %s, Name: %s, 分块数: %d", doc.ID, doc.Name, doc.ChunkCount)
	return &model.UploadResponseDTO{
		ID:         doc.ID,
		Name:       doc.Name,
		ChunkCount: doc.ChunkCount,
		Message:    "Document uploaded successfully",
	}, nil
}

// List 返回全部文档的列表（不含全文）。
func (s *documentService) List() (*model.DocumentListDTO, error) {
	docs, err := s.docRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	if docs == nil {
		docs = []model.Document{}
	}
	return &model.DocumentListDTO{Documents: docs, Count: len(docs)}, nil
}

// Get 返回单个文档（含全文）。
func (s *documentService) Get(id string) (*model.Document, error) {
	return s.docRepo.FindByID(id)
}

// Delete 级联删除文档：先删分块，再删文档记录，最后清理对象存储备份。
func (s *documentService) Delete(ctx context.Context, id string) error {
	doc, err := s.docRepo.FindByID(id)
	if err != nil {
		return err
	}

	if err := s.chunkRepo.DeleteByDocumentID(id); err != nil {
		return fmt.Errorf("failed to delete chunks of document %s: %w", id, err)
	}
	if err := s.docRepo.DeleteByID(id); err != nil {
		return fmt.Errorf("failed to delete document %s: %w", id, err)
	}

	if doc.ObjectKey != "" {
		if err := s.objectStore.Remove(ctx, doc.ObjectKey); err != nil {
			// 对象清理失败不影响删除结果
			log.Warnf("[DocumentService] 删除对象存储备份失败, key: %s, err: %v", doc.ObjectKey, err)
		}
	}

	log.Infof("[DocumentService] 文档删除成功, ID: %s", id)
	return nil
}

// GenerateDownloadURL 为文档的原始文件生成预签名下载链接。
func (s *documentService) GenerateDownloadURL(id string) (string, error) {
	doc, err := s.docRepo.FindByID(id)
	if err != nil {
		return "", err
	}
	if doc.ObjectKey == "" {
		return "", repository.ErrNotFound
	}
	return s.objectStore.PresignedURL(doc.ObjectKey, downloadURLExpiry)
}
