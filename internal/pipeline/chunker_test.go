package pipeline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitTextEmptyInput(t *testing.T) {
	assert.Empty(t, SplitText("", 400, 100))
	assert.Empty(t, SplitText("   \n\t  ", 4, 1))
}

func TestSplitTextShortText(t *testing.T) {
	chunks := SplitText("hello", 400, 100)
	require.Len(t, chunks, 1)
	assert.Equal(t, "hello", chunks[0])
}

func TestSplitTextCoverage(t *testing.T) {
	// overlap < chunkSize 时，原文的每个字符都应出现在至少一个分块中。
	// 用 200 个互不相同的 rune 构造文本，逐字符验证覆盖
	runes := make([]rune, 200)
	for i := range runes {
		runes[i] = rune(0x4E00 + i)
	}
	text := string(runes)

	chunks := SplitText(text, 40, 10)
	require.NotEmpty(t, chunks)

	seen := make(map[rune]bool)
	for _, chunk := range chunks {
		for _, r := range chunk {
			seen[r] = true
		}
	}
	for i, r := range runes {
		assert.True(t, seen[r], "第 %d 个字符未被任何分块覆盖", i)
	}
}

func TestSplitTextNonEmptyChunks(t *testing.T) {
	text := "aaaa    bbbb    cccc    dddd"
	for _, chunk := range SplitText(text, 6, 2) {
		assert.NotEmpty(t, strings.TrimSpace(chunk))
	}
}

func TestSplitTextDeterministic(t *testing.T) {
	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 30)
	first := SplitText(text, 100, 25)
	second := SplitText(text, 100, 25)
	assert.Equal(t, first, second)
}

func TestSplitTextStepClampedToOne(t *testing.T) {
	// overlap >= chunkSize 时步长退化为 1，不允许死循环
	chunks := SplitText("abcdefghij", 4, 4)
	require.NotEmpty(t, chunks)
	assert.Equal(t, "abcd", chunks[0])
	assert.Equal(t, "bcde", chunks[1])
}

func TestSplitTextTailTruncation(t *testing.T) {
	// 锁定历史行为：步长被钳制时提前终止条件可能丢弃尾部字符。
	// step=1, overlap=5: i=5 时 5+5>=10 触发停止，最后一个窗口止于第 8 个字符
	chunks := SplitText("abcdefghij", 4, 5)
	joined := strings.Join(chunks, "")
	assert.NotContains(t, joined, "i")
	assert.NotContains(t, joined, "j")
}

func TestSplitTextRuneBased(t *testing.T) {
	// 长度按 rune 计，多字节字符不会被截断
	text := strings.Repeat("知识问答服务", 10)
	for _, chunk := range SplitText(text, 7, 2) {
		for _, r := range chunk {
			assert.Contains(t, "知识问答服务", string(r))
		}
	}
}
