package service

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"knowledge-qa-go/internal/ranking"
)

// noEvidenceAnswer 是没有任何证据越过阈值时的固定回答。
const noEvidenceAnswer = "I don't have enough information in the uploaded documents to answer this question."

// answerSystemPrompt 约束模型只依据提供的上下文作答，并返回严格 JSON。
const answerSystemPrompt = `You are a helpful AI assistant that answers questions based ONLY on the provided context.

IMPORTANT RULES:
1. Base your answer ONLY on the retrieved context. If multiple sources are present, consider all before answering.
2. When multiple documents are retrieved and the question asks for comparison, explicitly compare information from EACH document.
3. Do NOT assume missing information if context from both documents is present.
4. If a document truly has no relevant info, explicitly verify before stating it.
5. If the context doesn't contain enough information to answer the question, respond with: "I don't have enough information in the uploaded documents to answer this question."
6. Return STRICT JSON only, with this shape:
   {"answer": string, "sources": [{"documentName": string, "snippet": string}]}
7. Do not include markdown, code fences, or extra keys`

// buildContextBlock 按排序顺序拼接候选分块，作为模型的上下文。
func buildContextBlock(candidates []ranking.Candidate) string {
	parts := make([]string, 0, len(candidates))
	for _, cand := range candidates {
		parts = append(parts, fmt.Sprintf("--- Document: %s\n%s", cand.Chunk.DocumentName, cand.Chunk.Text))
	}
	return strings.Join(parts, "\n\n")
}

// buildUserPrompt 拼接上下文与问题。
func buildUserPrompt(contextBlock, question string) string {
	return fmt.Sprintf("Context from documents:\n\n%s\n\n---\n\nQuestion: %s\n\nReturn JSON only.", contextBlock, question)
}

// modelAnswer 是约定的模型结构化输出。
type modelAnswer struct {
	Answer  string `json:"answer"`
	Sources []struct {
		DocumentName string `json:"documentName"`
		Snippet      string `json:"snippet"`
	} `json:"sources"`
}

// parseModelAnswer 对模型输出做宽松的三段式解析：
// 直接解析 -> 提取文本中首个内嵌 JSON 对象解析 -> 放弃（调用方回退到原文）。
// 解析失败不是错误。
func parseModelAnswer(text string) (string, bool) {
	if text == "" {
		return "", false
	}

	var parsed modelAnswer
	if err := json.Unmarshal([]byte(text), &parsed); err == nil {
		if answer := strings.TrimSpace(parsed.Answer); answer != "" {
			return answer, true
		}
		return "", false
	}

	// 模型偶尔会在 JSON 外包裹说明文字或代码栅栏，取首个 { 到最后一个 } 的子串重试
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", false
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), &parsed); err != nil {
		return "", false
	}
	if answer := strings.TrimSpace(parsed.Answer); answer != "" {
		return answer, true
	}
	return "", false
}

// truncateSnippet 将分块文本截断为展示用的片段，超长部分以省略号结尾。
// 长度按 rune 计，避免截断多字节字符。
func truncateSnippet(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}

// reNonTerm 去除词项以外的字符：保留中文、英文字母、数字与空白。
var reNonTerm = regexp.MustCompile(`[^\p{Han}a-z0-9\s]+`)

// termSet 将文本规范化为小写词项集合。
func termSet(text string) map[string]struct{} {
	cleaned := reNonTerm.ReplaceAllString(strings.ToLower(text), " ")
	terms := make(map[string]struct{})
	for _, term := range strings.Fields(cleaned) {
		terms[term] = struct{}{}
	}
	return terms
}

// splitSentences 按句末标点（.!?。！？ 后跟空白或结尾）切分文本。
func splitSentences(text string) []string {
	var sentences []string
	runes := []rune(text)
	start := 0
	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case '.', '!', '?', '。', '！', '？':
			// 连续标点归入同一句
			j := i + 1
			for j < len(runes) && isSentenceEnd(runes[j]) {
				j++
			}
			if j >= len(runes) || isSpace(runes[j]) {
				sentences = append(sentences, string(runes[start:j]))
				for j < len(runes) && isSpace(runes[j]) {
					j++
				}
				start = j
				i = j - 1
			}
		}
	}
	if start < len(runes) {
		sentences = append(sentences, string(runes[start:]))
	}
	return sentences
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?' || r == '。' || r == '！' || r == '？'
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

// selectHighlight 在分块文本中选出与问题词项重叠率最高的一句作为高亮。
// 重叠率 = |问题词项 ∩ 句子词项| / |问题词项|；并列或完全无重叠时取首句；
// 问题没有可用词项时返回整段文本。
func selectHighlight(text, question string) string {
	questionTerms := termSet(question)
	if len(questionTerms) == 0 {
		return strings.TrimSpace(text)
	}

	sentences := splitSentences(strings.TrimSpace(text))
	if len(sentences) == 0 {
		return strings.TrimSpace(text)
	}

	best := sentences[0]
	bestScore := -1.0
	for _, sentence := range sentences {
		sentenceTerms := termSet(sentence)
		if len(sentenceTerms) == 0 {
			continue
		}
		overlap := 0
		for term := range questionTerms {
			if _, ok := sentenceTerms[term]; ok {
				overlap++
			}
		}
		score := float64(overlap) / float64(len(questionTerms))
		if score > bestScore {
			bestScore = score
			best = sentence
		}
	}
	return strings.TrimSpace(best)
}
