// Package config 负责加载和管理应用程序的配置。
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// 全局配置变量，存储从配置文件加载的所有设置。
var Conf Config

// Config 是整个应用程序的配置结构体，与 config.yaml 文件结构对应。
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Log       LogConfig       `mapstructure:"log"`
	MinIO     MinIOConfig     `mapstructure:"minio"`
	Embedding EmbeddingConfig `mapstructure:"embedding"`
	LLM       LLMConfig       `mapstructure:"llm"`
	RAG       RAGConfig       `mapstructure:"rag"`
}

// ServerConfig 存储服务器相关的配置。
type ServerConfig struct {
	Port        string `mapstructure:"port"`
	Mode        string `mapstructure:"mode"`
	CORSOrigins string `mapstructure:"cors_origins"`
}

// DatabaseConfig 存储所有数据库连接的配置。
type DatabaseConfig struct {
	MySQL MySQLConfig `mapstructure:"mysql"`
	Redis RedisConfig `mapstructure:"redis"`
}

// MySQLConfig 存储 MySQL 数据库的配置。
type MySQLConfig struct {
	DSN string `mapstructure:"dsn"`
}

// RedisConfig 存储 Redis 的配置。
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LogConfig 存储日志相关的配置。
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// MinIOConfig 存储 MinIO 对象存储的配置。
type MinIOConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	BucketName      string `mapstructure:"bucket_name"`
}

// EmbeddingConfig 存储 Embedding 模型相关的配置。
// AppURL/AppName 为可选的透传头（HTTP-Referer / X-Title），兼容 OpenRouter 等网关。
type EmbeddingConfig struct {
	APIKey        string `mapstructure:"api_key"`
	BaseURL       string `mapstructure:"base_url"`
	Model         string `mapstructure:"model"`
	Dimensions    int    `mapstructure:"dimensions"`
	AppURL        string `mapstructure:"app_url"`
	AppName       string `mapstructure:"app_name"`
	CacheTTLHours int    `mapstructure:"cache_ttl_hours"`
}

// LLMConfig 存储大语言模型相关的配置。
type LLMConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	BaseURL     string  `mapstructure:"base_url"`
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`
}

// RAGConfig 存储检索与排序核心的参数。
// 阈值均作用于归一化后的 [0,1] 相似度，置信度区间为闭区间（恰好等于阈值归入更高档）。
type RAGConfig struct {
	ChunkSize        int     `mapstructure:"chunk_size"`        // 每个分块的长度（按 rune 计），默认 400
	ChunkOverlap     int     `mapstructure:"chunk_overlap"`     // 相邻分块的重叠长度，默认 100
	TopK             int     `mapstructure:"top_k"`             // 候选集大小上限，默认 10
	MinScore         float64 `mapstructure:"min_score"`         // 候选最低分阈值，默认 0.40
	ConfidenceHigh   float64 `mapstructure:"confidence_high"`   // 平均分 >= 该值判为 high，默认 0.52
	ConfidenceMedium float64 `mapstructure:"confidence_medium"` // 平均分 >= 该值判为 medium，默认 0.49
	SnippetLength    int     `mapstructure:"snippet_length"`    // 来源片段截断长度（按 rune 计），默认 200
}

// Init 初始化配置加载，从指定的路径读取 YAML 文件并解析到 Conf 变量中。
func Init(configPath string) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		panic(fmt.Errorf("读取配置文件失败: %w", err))
	}

	if err := viper.Unmarshal(&Conf); err != nil {
		panic(fmt.Errorf("无法将配置解析到结构体中: %w", err))
	}
}

// setDefaults 为检索核心等参数设置默认值，配置文件可覆盖。
func setDefaults() {
	viper.SetDefault("rag.chunk_size", 400)
	viper.SetDefault("rag.chunk_overlap", 100)
	viper.SetDefault("rag.top_k", 10)
	viper.SetDefault("rag.min_score", 0.40)
	viper.SetDefault("rag.confidence_high", 0.52)
	viper.SetDefault("rag.confidence_medium", 0.49)
	viper.SetDefault("rag.snippet_length", 200)
	viper.SetDefault("embedding.cache_ttl_hours", 24)
	viper.SetDefault("llm.temperature", 0.2)
	viper.SetDefault("server.cors_origins", "*")
}
