package embedding

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"time"

	"knowledge-qa-go/pkg/log"

	"github.com/go-redis/redis/v8"
)

// cachedClient 为底层 embedding 客户端增加一层 Redis 读穿缓存。
// 相同文本的向量结果是确定可复用的，缓存命中可省去一次远端调用。
// Redis 不可用或缓存未命中时直接回源，缓存层永远不会让请求失败。
type cachedClient struct {
	inner Client
	rdb   *redis.Client
	model string
	ttl   time.Duration
}

// NewCachedClient 用 Redis 缓存包装一个 embedding 客户端。
func NewCachedClient(inner Client, rdb *redis.Client, model string, ttl time.Duration) Client {
	return &cachedClient{
		inner: inner,
		rdb:   rdb,
		model: model,
		ttl:   ttl,
	}
}

// CreateEmbedding 先查缓存，未命中再调用底层客户端并回填。
func (c *cachedClient) CreateEmbedding(ctx context.Context, text string) ([]float32, error) {
	key := c.cacheKey(text)

	if data, err := c.rdb.Get(ctx, key).Bytes(); err == nil {
		var vector []float32
		if err := json.Unmarshal(data, &vector); err == nil && len(vector) > 0 {
			return vector, nil
		}
		// 缓存内容损坏时按未命中处理
		log.Warnf("[EmbeddingCache] 缓存内容解析失败, key: %s", key)
	}

	vector, err := c.inner.CreateEmbedding(ctx, text)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(vector); err == nil {
		if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
			// 回填失败只记录，不影响本次结果
			log.Warnf("[EmbeddingCache] 写入缓存失败, key: %s, err: %v", key, err)
		}
	}
	return vector, nil
}

// cacheKey 以模型名加文本摘要作为缓存键，避免不同模型的向量互相污染。
func (c *cachedClient) cacheKey(text string) string {
	sum := md5.Sum([]byte(text))
	return fmt.Sprintf("embedding:cache:%s:%x", c.model, sum)
}
