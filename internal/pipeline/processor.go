package pipeline

import (
	"context"

	"knowledge-qa-go/internal/config"
	"knowledge-qa-go/internal/model"
	"knowledge-qa-go/internal/repository"
	"knowledge-qa-go/pkg/embedding"
	"knowledge-qa-go/pkg/log"

	"github.com/google/uuid"
)

// Processor 封装了文档入库的所有依赖和逻辑：分块、逐块向量化、持久化。
type Processor struct {
	embeddingClient embedding.Client
	docRepo         repository.DocumentRepository
	chunkRepo       repository.ChunkRepository
	ragCfg          config.RAGConfig
}

// NewProcessor 创建一个新的 Processor 实例。
func NewProcessor(
	embeddingClient embedding.Client,
	docRepo repository.DocumentRepository,
	chunkRepo repository.ChunkRepository,
	ragCfg config.RAGConfig,
) *Processor {
	return &Processor{
		embeddingClient: embeddingClient,
		docRepo:         docRepo,
		chunkRepo:       chunkRepo,
		ragCfg:          ragCfg,
	}
}

// Process 是文档入库的主函数：分块、按 chunk_index 顺序逐块向量化，
// 全部成功后才写入文档与分块记录。任何一块向量化失败都会中止整个入库，
// 不留下部分数据。
func (p *Processor) Process(ctx context.Context, doc *model.Document, text string) error {
	log.Infof("[Processor] 开始处理文档, ID: %s, Name: %s", doc.ID, doc.Name)

	// 1. 文本切块
	log.Infof("[Processor] 步骤1: 进行文本分块, chunkSize: %d, chunkOverlap: %d", p.ragCfg.ChunkSize, p.ragCfg.ChunkOverlap)
	pieces := SplitText(text, p.ragCfg.ChunkSize, p.ragCfg.ChunkOverlap)
	log.Infof("[Processor] 步骤1: 文本分块完成, 共生成 %d 个分块", len(pieces))

	// 2. 逐块向量化（顺序执行，保持 chunk_index 连续）
	chunks := make([]*model.Chunk, 0, len(pieces))
	for i, piece := range pieces {
		log.Infof("[Processor] 正在向量化分块 %d/%d", i+1, len(pieces))
		vector, err := p.embeddingClient.CreateEmbedding(ctx, piece)
		if err != nil {
			log.Errorf("[Processor] 分块 %d 向量化失败, Error: %v", i, err)
			return err
		}
		chunks = append(chunks, &model.Chunk{
			ID:           uuid.NewString(),
			DocumentID:   doc.ID,
			DocumentName: doc.Name,
			Text:         piece,
			Embedding:    vector,
			ChunkIndex:   i,
		})
	}

	// 3. 持久化文档与分块
	doc.ChunkCount = len(chunks)
	if err := p.docRepo.Create(doc); err != nil {
		log.Errorf("[Processor] 保存文档记录失败, Error: %v", err)
		return err
	}
	if err := p.chunkRepo.BatchCreate(chunks); err != nil {
		log.Errorf("[Processor] 批量保存分块失败, Error: %v", err)
		return err
	}

	log.Infof("[Processor] 文档处理成功完成, ID: %s, 分块数: %d", doc.ID, len(chunks))
	return nil
}
