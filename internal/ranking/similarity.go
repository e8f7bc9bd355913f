// Package ranking 实现了检索排序核心：相似度计算、候选筛选与置信度估计。
package ranking

import "math"

// Cosine 计算两个向量的余弦相似度，结果限制在 [-1, 1]。
// 任一向量模长为 0 时返回 0.0，避免除零。
func Cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	denom := math.Sqrt(normA) * math.Sqrt(normB)
	if denom == 0 {
		return 0.0
	}

	value := dot / denom
	// 吸收浮点误差
	return math.Max(-1.0, math.Min(1.0, value))
}

// Normalize 将原始余弦相似度从 [-1,1] 线性映射到 [0,1]。
// 下游的阈值与置信度计算只使用归一化后的分数。
func Normalize(rawCosine float64) float64 {
	normalized := (rawCosine + 1.0) / 2.0
	return math.Max(0.0, math.Min(1.0, normalized))
}
