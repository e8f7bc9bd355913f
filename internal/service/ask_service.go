package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"knowledge-qa-go/internal/config"
	"knowledge-qa-go/internal/model"
	"knowledge-qa-go/internal/ranking"
	"knowledge-qa-go/internal/repository"
	"knowledge-qa-go/pkg/embedding"
	"knowledge-qa-go/pkg/llm"
	"knowledge-qa-go/pkg/log"
)

// AskService 定义了问答操作的接口。
type AskService interface {
	Ask(ctx context.Context, question string) (*model.AskResponse, error)
}

type askService struct {
	embeddingClient embedding.Client
	llmClient       llm.Client
	chunkRepo       repository.ChunkRepository
	ranker          *ranking.Ranker
	ragCfg          config.RAGConfig
}

// NewAskService 创建一个新的 AskService 实例。
func NewAskService(
	embeddingClient embedding.Client,
	llmClient llm.Client,
	chunkRepo repository.ChunkRepository,
	ranker *ranking.Ranker,
	ragCfg config.RAGConfig,
) AskService {
	return &askService{
		embeddingClient: embeddingClient,
		llmClient:       llmClient,
		chunkRepo:       chunkRepo,
		ranker:          ranker,
		ragCfg:          ragCfg,
	}
}

// Ask 协调一次完整的问答流程：向量化问题、全量扫描打分、筛选证据、生成回答。
// 返回的回答只有三种形态：有证据支撑的完整回答、固定的"信息不足"回答、显式失败。
func (s *askService) Ask(ctx context.Context, question string) (*model.AskResponse, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}
	log.Infof("[AskService] 开始处理提问: '%s'", question)

	// 1. 向量化问题
	questionVector, err := s.embeddingClient.CreateEmbedding(ctx, question)
	if err != nil {
		log.Errorf("[AskService] 向量化问题失败: %v", err)
		return nil, fmt.Errorf("failed to create question embedding: %w", err)
	}

	// 2. 读取全量语料。语料为空与"无证据匹配"是不同的情形，在打分前检出
	chunks, err := s.chunkRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load chunk corpus: %w", err)
	}
	if len(chunks) == 0 {
		log.Warnf("[AskService] 语料库为空, 无法回答")
		return nil, ErrCorpusEmpty
	}
	log.Infof("[AskService] 语料库加载完成, 共 %d 个分块", len(chunks))

	// 3. 排序筛选证据
	candidates := s.ranker.Rank(questionVector, chunks)
	if len(candidates) == 0 {
		// 无证据越过阈值：返回固定回答，不调用聊天模型
		log.Infof("[AskService] 没有分块越过阈值, 返回固定回答")
		return &model.AskResponse{
			Answer:          noEvidenceAnswer,
			Sources:         []model.SourceDTO{},
			Confidence:      ranking.ConfidenceLow,
			ConfidenceScore: 0.0,
		}, nil
	}
	log.Infof("[AskService] 筛选出 %d 个候选分块, 最高分: %.4f", len(candidates), candidates[0].Score)

	// 4. 构建上下文并调用聊天模型
	contextBlock := buildContextBlock(candidates)
	rawAnswer, err := s.llmClient.Complete(ctx, answerSystemPrompt, buildUserPrompt(contextBlock, question))
	if err != nil {
		log.Errorf("[AskService] 调用聊天模型失败: %v", err)
		return nil, fmt.Errorf("failed to generate answer: %w", err)
	}

	// 5. 宽松解析模型输出，失败则原文返回
	answer := rawAnswer
	if parsed, ok := parseModelAnswer(rawAnswer); ok {
		answer = parsed
	}

	// 6. 组装来源引用与置信度
	sources := make([]model.SourceDTO, 0, len(candidates))
	for _, cand := range candidates {
		sources = append(sources, model.SourceDTO{
			DocumentID:   cand.Chunk.DocumentID,
			DocumentName: cand.Chunk.DocumentName,
			Snippet:      truncateSnippet(cand.Chunk.Text, s.ragCfg.SnippetLength),
			Highlight:    selectHighlight(cand.Chunk.Text, question),
			Score:        round4(cand.Score),
			ChunkIndex:   cand.Chunk.ChunkIndex,
		})
	}

	confidence, confidenceScore := s.ranker.Confidence(candidates)
	log.Infof("[AskService] 问答完成, 置信度: %s (%.4f), 引用 %d 条来源", confidence, confidenceScore, len(sources))

	return &model.AskResponse{
		Answer:          answer,
		Sources:         sources,
		Confidence:      confidence,
		ConfidenceScore: round4(confidenceScore),
	}, nil
}

// round4 保留四位小数，用于对外展示分数。
func round4(x float64) float64 {
	return math.Round(x*10000) / 10000
}
