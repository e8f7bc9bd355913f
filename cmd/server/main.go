// Package main 是应用程序的入口点。
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"knowledge-qa-go/internal/config"
	"knowledge-qa-go/internal/handler"
	"knowledge-qa-go/internal/middleware"
	"knowledge-qa-go/internal/model"
	"knowledge-qa-go/internal/pipeline"
	"knowledge-qa-go/internal/ranking"
	"knowledge-qa-go/internal/repository"
	"knowledge-qa-go/internal/service"
	"knowledge-qa-go/pkg/database"
	"knowledge-qa-go/pkg/embedding"
	"knowledge-qa-go/pkg/llm"
	"knowledge-qa-go/pkg/log"
	"knowledge-qa-go/pkg/storage"

	"github.com/gin-gonic/gin"
)

const version = "1.0.0"

func main() {
	// 1. 初始化配置
	config.Init("./configs/config.yaml")
	cfg := config.Conf

	// 2. 初始化日志记录器
	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync() // 确保在程序退出时刷新所有缓冲的日志条目
	log.Info("日志记录器初始化成功")

	// 3. 初始化数据库、Redis 与对象存储
	database.InitMySQL(cfg.Database.MySQL.DSN)
	database.InitRedis(cfg.Database.Redis.Addr, cfg.Database.Redis.Password, cfg.Database.Redis.DB)
	storage.InitMinIO(cfg.MinIO)
	if err := database.DB.AutoMigrate(&model.Document{}, &model.Chunk{}); err != nil {
		log.Fatal("数据库迁移失败", err)
	}

	// 4. 初始化 Repository
	docRepo := repository.NewDocumentRepository(database.DB)
	chunkRepo := repository.NewChunkRepository(database.DB)

	// 5. 初始化协作方客户端（embedding 客户端外加一层 Redis 读穿缓存）
	embeddingClient := embedding.NewCachedClient(
		embedding.NewClient(cfg.Embedding),
		database.RDB,
		cfg.Embedding.Model,
		time.Duration(cfg.Embedding.CacheTTLHours)*time.Hour,
	)
	llmClient := llm.NewClient(cfg.LLM)
	objectStore := storage.NewObjectStore(cfg.MinIO)

	// 6. 初始化 Service (依赖注入)
	processor := pipeline.NewProcessor(embeddingClient, docRepo, chunkRepo, cfg.RAG)
	ranker := ranking.NewRanker(ranking.ConfigFromRAG(cfg.RAG))
	documentService := service.NewDocumentService(processor, docRepo, chunkRepo, objectStore)
	askService := service.NewAskService(embeddingClient, llmClient, chunkRepo, ranker, cfg.RAG)
	healthService := service.NewHealthService(database.DB, database.RDB, embeddingClient, docRepo, chunkRepo)

	// 7. 设置 Gin 模式并创建路由引擎
	gin.SetMode(cfg.Server.Mode)
	r := gin.New() // 使用 New() 创建一个不带默认中间件的引擎
	r.Use(middleware.RequestLogger(), middleware.CORS(cfg.Server.CORSOrigins), gin.Recovery())

	// 8. 注册路由
	apiV1 := r.Group("/api/v1")
	{
		apiV1.GET("/", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "Private Knowledge Q&A API", "version": version})
		})

		documents := apiV1.Group("/documents")
		{
			docHandler := handler.NewDocumentHandler(documentService)
			documents.POST("/upload", docHandler.Upload)
			documents.GET("", docHandler.List)
			documents.GET("/:id", docHandler.Get)
			documents.GET("/:id/download", docHandler.Download)
			documents.DELETE("/:id", docHandler.Delete)
		}

		apiV1.POST("/ask", handler.NewAskHandler(askService).Ask)
		apiV1.GET("/health", handler.NewHealthHandler(healthService).Check)
	}

	// 9. 启动 HTTP 服务器并实现优雅停机
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		log.Infof("服务启动于 %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP 服务监听失败: %s\n", err)
		}
	}()

	// 等待中断信号以实现优雅停机
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("接收到停机信号，正在关闭服务...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("HTTP 服务器关闭失败: %v", err)
	}

	log.Info("服务已优雅关闭")
}
