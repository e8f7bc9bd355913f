package handler

import (
	"errors"
	"net/http"

	"knowledge-qa-go/internal/model"
	"knowledge-qa-go/internal/service"
	"knowledge-qa-go/pkg/embedding"
	"knowledge-qa-go/pkg/llm"
	"knowledge-qa-go/pkg/log"

	"github.com/gin-gonic/gin"
)

// AskHandler 负责处理问答请求。
type AskHandler struct {
	askService service.AskService
}

// NewAskHandler 创建一个新的 AskHandler 实例。
func NewAskHandler(askService service.AskService) *AskHandler {
	return &AskHandler{askService: askService}
}

// Ask 处理一次提问：校验、检索、生成回答。
func (h *AskHandler) Ask(c *gin.Context) {
	var req model.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求体"})
		return
	}

	resp, err := h.askService.Ask(c.Request.Context(), req.Question)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyQuestion):
			c.JSON(http.StatusBadRequest, gin.H{"error": "问题不能为空"})
		case errors.Is(err, service.ErrCorpusEmpty):
			c.JSON(http.StatusNotFound, gin.H{"error": "No documents available. Please upload documents first."})
		case errors.Is(err, embedding.ErrUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "向量化服务暂不可用"})
		case errors.Is(err, llm.ErrUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "问答服务暂不可用"})
		default:
			log.Error("Ask: 处理提问失败", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "处理提问失败"})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}
