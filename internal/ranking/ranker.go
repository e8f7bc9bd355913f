package ranking

import (
	"sort"

	"knowledge-qa-go/internal/config"
	"knowledge-qa-go/internal/model"
)

// 置信度档位。
const (
	ConfidenceLow    = "low"
	ConfidenceMedium = "medium"
	ConfidenceHigh   = "high"
)

// Candidate 是一次提问范围内的临时对象：一个分块与它对该问题的归一化相似度。
type Candidate struct {
	Chunk *model.Chunk
	Score float64
}

// Config 汇集了排序核心的全部参数，避免散落的魔法数字。
type Config struct {
	TopK             int     // 候选集大小上限，默认 10
	MinScore         float64 // 归一化分数的最低阈值，默认 0.40
	ConfidenceHigh   float64 // 平均分 >= 该值判为 high，默认 0.52
	ConfidenceMedium float64 // 平均分 >= 该值判为 medium，默认 0.49
}

// ConfigFromRAG 从应用配置构造排序参数。
func ConfigFromRAG(cfg config.RAGConfig) Config {
	return Config{
		TopK:             cfg.TopK,
		MinScore:         cfg.MinScore,
		ConfidenceHigh:   cfg.ConfidenceHigh,
		ConfidenceMedium: cfg.ConfidenceMedium,
	}
}

// Ranker 把全量分块与一个问题向量转化为去重后的高分证据集。
type Ranker struct {
	cfg Config
}

// NewRanker 创建一个新的 Ranker 实例。
func NewRanker(cfg Config) *Ranker {
	return &Ranker{cfg: cfg}
}

// Rank 对语料库做单遍扫描打分，返回排序、截断、过滤、去重后的候选列表。
// 结果可能为空：没有任何分块越过阈值即为"无证据"，不回退到低质量匹配。
func (r *Ranker) Rank(questionVector []float32, chunks []*model.Chunk) []Candidate {
	scored := make([]Candidate, 0, len(chunks))
	for _, chunk := range chunks {
		scored = append(scored, Candidate{
			Chunk: chunk,
			Score: Normalize(Cosine(questionVector, chunk.Embedding)),
		})
	}

	// 稳定排序：同分时保持语料库原始顺序，保证结果可复现
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > r.cfg.TopK {
		scored = scored[:r.cfg.TopK]
	}

	// 过滤低于阈值的候选，并按 (document_id, 分块文本) 去重，保留得分最高的首个
	type chunkKey struct {
		documentID string
		text       string
	}
	seen := make(map[chunkKey]struct{}, len(scored))
	result := make([]Candidate, 0, len(scored))
	for _, cand := range scored {
		if cand.Score < r.cfg.MinScore {
			continue
		}
		key := chunkKey{documentID: cand.Chunk.DocumentID, text: cand.Chunk.Text}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, cand)
	}
	return result
}

// Confidence 根据最终候选列表的平均归一化分数给出置信度档位。
// 空列表返回 ("low", 0.0)；阈值按闭区间处理，恰好等于阈值归入更高档。
func (r *Ranker) Confidence(candidates []Candidate) (string, float64) {
	if len(candidates) == 0 {
		return ConfidenceLow, 0.0
	}

	var sum float64
	for _, cand := range candidates {
		sum += cand.Score
	}
	avg := sum / float64(len(candidates))

	switch {
	case avg >= r.cfg.ConfidenceHigh:
		return ConfidenceHigh, avg
	case avg >= r.cfg.ConfidenceMedium:
		return ConfidenceMedium, avg
	default:
		return ConfidenceLow, avg
	}
}
