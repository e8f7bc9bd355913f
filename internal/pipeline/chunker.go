// Package pipeline 定义了文档入库的核心流程。
package pipeline

import "strings"

// SplitText 将长文本按指定大小和重叠切分为有序的分块序列。
// 长度与重叠均按 rune 计，窗口起点每次前进 step = max(1, chunkSize-overlap)，
// 分块去除首尾空白后为空则跳过。纯函数，无副作用。
func SplitText(text string, chunkSize, chunkOverlap int) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	step := chunkSize - chunkOverlap
	if step < 1 {
		// 重叠不小于分块长度时步长会变为非正数，退化为逐字前进
		step = 1
	}

	var chunks []string
	i := 0
	for i < len(runes) {
		end := i + chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunk := strings.TrimSpace(string(runes[i:end]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}

		i += step
		// 历史行为：剩余尾部落在 overlap 覆盖范围内时提前停止。
		// 某些 (长度, 分块, 重叠) 组合下，最后一段右对齐窗口不会单独生成；
		// 检索质量依赖该截断行为，改动前需要先确认（见 DESIGN.md）。
		if i+chunkOverlap >= len(runes) {
			break
		}
	}
	return chunks
}
