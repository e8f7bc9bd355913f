package service

import (
	"context"
	"time"

	"knowledge-qa-go/internal/model"
	"knowledge-qa-go/internal/repository"
	"knowledge-qa-go/pkg/embedding"
	"knowledge-qa-go/pkg/log"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// embeddingProbeTimeout 是健康检查中 embedding 连通性探测的硬超时。
const embeddingProbeTimeout = 8 * time.Second

// HealthService 定义了健康检查操作的接口。
type HealthService interface {
	Check(ctx context.Context) *model.HealthResponse
}

type healthService struct {
	db              *gorm.DB
	rdb             *redis.Client
	embeddingClient embedding.Client
	docRepo         repository.DocumentRepository
	chunkRepo       repository.ChunkRepository
}

// NewHealthService 创建一个新的 HealthService 实例。
func NewHealthService(
	db *gorm.DB,
	rdb *redis.Client,
	embeddingClient embedding.Client,
	docRepo repository.DocumentRepository,
	chunkRepo repository.ChunkRepository,
) HealthService {
	return &healthService{
		db:              db,
		rdb:             rdb,
		embeddingClient: embeddingClient,
		docRepo:         docRepo,
		chunkRepo:       chunkRepo,
	}
}

// Check 汇总各依赖的连通性与语料规模。任何依赖异常都只会降级状态，不会失败。
func (s *healthService) Check(ctx context.Context) *model.HealthResponse {
	resp := &model.HealthResponse{
		Database: "connected",
		Redis:    "connected",
		LLM:      "connected",
	}

	dbOK := true
	if sqlDB, err := s.db.DB(); err != nil {
		dbOK = false
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbOK = false
	}
	if !dbOK {
		resp.Database = "disconnected"
	}

	if err := s.rdb.Ping(ctx).Err(); err != nil {
		resp.Redis = "disconnected"
	}

	llmOK := s.probeEmbedding(ctx)
	if !llmOK {
		resp.LLM = "disconnected"
	}

	if docs, err := s.docRepo.Count(); err == nil {
		resp.DocumentsCount = docs
	}
	if chunks, err := s.chunkRepo.Count(); err == nil {
		resp.ChunksCount = chunks
	}

	if dbOK && llmOK {
		resp.Status = "healthy"
	} else {
		resp.Status = "degraded"
	}
	return resp
}

// probeEmbedding 用一次轻量 embedding 调用探测模型服务连通性，带硬超时。
func (s *healthService) probeEmbedding(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, embeddingProbeTimeout)
	defer cancel()

	if _, err := s.embeddingClient.CreateEmbedding(probeCtx, "health check"); err != nil {
		log.Errorf("[HealthService] embedding 连通性探测失败: %v", err)
		return false
	}
	return true
}
