package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"knowledge-qa-go/internal/model"
	"knowledge-qa-go/internal/pipeline"
	"knowledge-qa-go/internal/repository"
)

type fakeDocRepo struct {
	docs map[string]*model.Document
}

func newFakeDocRepo() *fakeDocRepo {
	return &fakeDocRepo{docs: make(map[string]*model.Document)}
}

func (f *fakeDocRepo) Create(doc *model.Document) error {
	stored := *doc
	f.docs[doc.ID] = &stored
	return nil
}

func (f *fakeDocRepo) FindAll() ([]model.Document, error) {
	var docs []model.Document
	for _, d := range f.docs {
		docs = append(docs, *d)
	}
	return docs, nil
}

func (f *fakeDocRepo) FindByID(id string) (*model.Document, error) {
	doc, ok := f.docs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return doc, nil
}

func (f *fakeDocRepo) DeleteByID(id string) error {
	delete(f.docs, id)
	return nil
}

func (f *fakeDocRepo) Count() (int64, error) {
	return int64(len(f.docs)), nil
}

type fakeObjectStore struct {
	objects map[string][]byte
	removed []string
	putErr  error
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: make(map[string][]byte)}
}

func (f *fakeObjectStore) Put(_ context.Context, objectName string, data []byte, _ string) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.objects[objectName] = data
	return nil
}

func (f *fakeObjectStore) Remove(_ context.Context, objectName string) error {
	delete(f.objects, objectName)
	f.removed = append(f.removed, objectName)
	return nil
}

func (f *fakeObjectStore) PresignedURL(objectName string, _ time.Duration) (string, error) {
	return "https://minio.local/" + objectName, nil
}

// ---- 测试装配 ----

type documentServiceFixture struct {
	svc       DocumentService
	embedder  *fakeEmbedder
	docRepo   *fakeDocRepo
	chunkRepo *fakeChunkRepo
	store     *fakeObjectStore
}

func newDocumentServiceFixture() *documentServiceFixture {
	cfg := testRAGConfig()
	cfg.ChunkSize = 20
	cfg.ChunkOverlap = 5

	f := &documentServiceFixture{
		embedder:  &fakeEmbedder{vector: []float32{1, 0}},
		docRepo:   newFakeDocRepo(),
		chunkRepo: &fakeChunkRepo{},
		store:     newFakeObjectStore(),
	}
	processor := pipeline.NewProcessor(f.embedder, f.docRepo, f.chunkRepo, cfg)
	f.svc = NewDocumentService(processor, f.docRepo, f.chunkRepo, f.store)
	return f
}

func TestUploadMalformedContent(t *testing.T) {
	f := newDocumentServiceFixture()

	_, err := f.svc.Upload(context.Background(), "bad.txt", []byte{0xff, 0xfe, 0xfd})
	assert.ErrorIs(t, err, ErrMalformedUpload)
	// 校验失败发生在向量化与持久化之前
	assert.Zero(t, f.embedder.calls)
	assert.Empty(t, f.docRepo.docs)
}

func TestUploadEmptyDocument(t *testing.T) {
	f := newDocumentServiceFixture()

	_, err := f.svc.Upload(context.Background(), "empty.txt", []byte("   \n\t  "))
	assert.ErrorIs(t, err, ErrEmptyDocument)
	assert.Zero(t, f.embedder.calls)
}

func TestUploadSuccess(t *testing.T) {
	f := newDocumentServiceFixture()
	content := []byte(strings.Repeat("The quick brown fox. ", 10))

	resp, err := f.svc.Upload(context.Background(), "fox.txt", content)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "fox.txt", resp.Name)
	assert.Equal(t, "Document uploaded successfully", resp.Message)
	assert.Greater(t, resp.ChunkCount, 1)

	// 文档与分块均已持久化，分块数一致且 chunk_index 连续
	doc, err := f.docRepo.FindByID(resp.ID)
	require.NoError(t, err)
	assert.Equal(t, resp.ChunkCount, doc.ChunkCount)
	require.Len(t, f.chunkRepo.chunks, resp.ChunkCount)
	for i, chunk := range f.chunkRepo.chunks {
		assert.Equal(t, i, chunk.ChunkIndex)
		assert.Equal(t, resp.ID, chunk.DocumentID)
		assert.Equal(t, "fox.txt", chunk.DocumentName)
		assert.NotEmpty(t, chunk.Embedding)
	}

	// 原始文件备份到了对象存储
	assert.Equal(t, "uploads/"+resp.ID+"/fox.txt", doc.ObjectKey)
	assert.Equal(t, content, f.store.objects[doc.ObjectKey])
}

func TestUploadEmbeddingFailureLeavesNoPartialData(t *testing.T) {
	f := newDocumentServiceFixture()
	f.embedder.err = errors.New("embedding provider down")

	_, err := f.svc.Upload(context.Background(), "fox.txt", []byte(strings.Repeat("text ", 20)))
	require.Error(t, err)
	// 整个入库被中止：没有文档、没有分块，已备份的对象也被清理
	assert.Empty(t, f.docRepo.docs)
	assert.Empty(t, f.chunkRepo.chunks)
	assert.Empty(t, f.store.objects)
	assert.Len(t, f.store.removed, 1)
}

func TestUploadObjectStoreFailureDegrades(t *testing.T) {
	// 对象存储不可用只降级为无备份，不影响入库
	f := newDocumentServiceFixture()
	f.store.putErr = errors.New("minio down")

	resp, err := f.svc.Upload(context.Background(), "fox.txt", []byte("some document text"))
	require.NoError(t, err)

	doc, err := f.docRepo.FindByID(resp.ID)
	require.NoError(t, err)
	assert.Empty(t, doc.ObjectKey)
}

func TestDeleteCascades(t *testing.T) {
	f := newDocumentServiceFixture()
	resp, err := f.svc.Upload(context.Background(), "fox.txt", []byte(strings.Repeat("text to delete ", 5)))
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(context.Background(), resp.ID))
	assert.Empty(t, f.docRepo.docs)
	assert.Empty(t, f.chunkRepo.chunks)
	assert.Contains(t, f.chunkRepo.deleted, resp.ID)
	assert.Empty(t, f.store.objects)
}

func TestDeleteMissingDocument(t *testing.T) {
	f := newDocumentServiceFixture()
	err := f.svc.Delete(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestListEmpty(t *testing.T) {
	f := newDocumentServiceFixture()
	list, err := f.svc.List()
	require.NoError(t, err)
	assert.NotNil(t, list.Documents)
	assert.Zero(t, list.Count)
}

func TestGenerateDownloadURL(t *testing.T) {
	f := newDocumentServiceFixture()
	resp, err := f.svc.Upload(context.Background(), "fox.txt", []byte("downloadable text"))
	require.NoError(t, err)

	url, err := f.svc.GenerateDownloadURL(resp.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://minio.local/uploads/"+resp.ID+"/fox.txt", url)
}

func TestGenerateDownloadURLWithoutBackup(t *testing.T) {
	// 没有对象存储备份的文档视为原始文件不存在
	f := newDocumentServiceFixture()
	f.store.putErr = errors.New("minio down")
	resp, err := f.svc.Upload(context.Background(), "fox.txt", []byte("text"))
	require.NoError(t, err)

	_, err = f.svc.GenerateDownloadURL(resp.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
