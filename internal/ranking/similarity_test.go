package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosineIdenticalVectors(t *testing.T) {
	v := []float32{0.3, -0.5, 0.8}
	assert.InDelta(t, 1.0, Cosine(v, v), 1e-6)
	assert.InDelta(t, 1.0, Normalize(Cosine(v, v)), 1e-6)
}

func TestCosineOppositeVectors(t *testing.T) {
	a := []float32{0.3, -0.5, 0.8}
	b := []float32{-0.3, 0.5, -0.8}
	assert.InDelta(t, -1.0, Cosine(a, b), 1e-6)
	assert.InDelta(t, 0.0, Normalize(Cosine(a, b)), 1e-6)
}

func TestCosineOrthogonalVectors(t *testing.T) {
	a := []float32{1, 0}
	b := []float32{0, 1}
	assert.InDelta(t, 0.0, Cosine(a, b), 1e-6)
	assert.InDelta(t, 0.5, Normalize(Cosine(a, b)), 1e-6)
}

func TestCosineZeroVector(t *testing.T) {
	// 零向量相似度定义为 0，归一化后落在 0.5
	a := []float32{0, 0, 0}
	b := []float32{1, 2, 3}
	assert.Equal(t, 0.0, Cosine(a, b))
	assert.Equal(t, 0.0, Cosine(b, a))
	assert.InDelta(t, 0.5, Normalize(Cosine(a, b)), 1e-9)
}

func TestCosineEmptyVector(t *testing.T) {
	assert.Equal(t, 0.0, Cosine(nil, nil))
	assert.Equal(t, 0.0, Cosine([]float32{}, []float32{1}))
}

func TestCosineMismatchedLength(t *testing.T) {
	// 维度不一致时按较短长度计算，不 panic
	a := []float32{1, 0, 0}
	b := []float32{1, 0}
	assert.NotPanics(t, func() { Cosine(a, b) })
}

func TestNormalizeClamping(t *testing.T) {
	assert.Equal(t, 1.0, Normalize(1.5))
	assert.Equal(t, 0.0, Normalize(-1.5))
	assert.InDelta(t, 0.75, Normalize(0.5), 1e-9)
}
