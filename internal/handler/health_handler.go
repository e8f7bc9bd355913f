package handler

import (
	"net/http"

	"knowledge-qa-go/internal/service"

	"github.com/gin-gonic/gin"
)

// HealthHandler 负责处理健康检查请求。
type HealthHandler struct {
	healthService service.HealthService
}

// NewHealthHandler 创建一个新的 HealthHandler 实例。
func NewHealthHandler(healthService service.HealthService) *HealthHandler {
	return &HealthHandler{healthService: healthService}
}

// Check 返回各依赖的连通性与语料规模。
func (h *HealthHandler) Check(c *gin.Context) {
	resp := h.healthService.Check(c.Request.Context())
	status := http.StatusOK
	if resp.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, resp)
}
