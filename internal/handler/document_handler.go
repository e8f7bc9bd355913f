// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"errors"
	"io"
	"net/http"

	"knowledge-qa-go/internal/repository"
	"knowledge-qa-go/internal/service"
	"knowledge-qa-go/pkg/embedding"
	"knowledge-qa-go/pkg/log"

	"github.com/gin-gonic/gin"
)

// DocumentHandler 负责处理所有与文档管理相关的 API 请求。
type DocumentHandler struct {
	docService service.DocumentService
}

// NewDocumentHandler 创建一个新的 DocumentHandler 实例。
func NewDocumentHandler(docService service.DocumentService) *DocumentHandler {
	return &DocumentHandler{docService: docService}
}

// Upload 处理文档上传请求，表单字段名为 file。
func (h *DocumentHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少上传文件"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Error("Upload: 打开上传文件失败", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "读取上传文件失败"})
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		log.Error("Upload: 读取上传文件失败", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "读取上传文件失败"})
		return
	}

	result, err := h.docService.Upload(c.Request.Context(), fileHeader.Filename, content)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMalformedUpload):
			c.JSON(http.StatusBadRequest, gin.H{"error": "文件必须是 UTF-8 文本"})
		case errors.Is(err, service.ErrEmptyDocument):
			c.JSON(http.StatusBadRequest, gin.H{"error": "文件内容为空"})
		case errors.Is(err, embedding.ErrUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "向量化服务暂不可用"})
		default:
			log.Error("Upload: 文档入库失败", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "文档上传失败"})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// List 处理获取文档列表的请求。
func (h *DocumentHandler) List(c *gin.Context) {
	result, err := h.docService.List()
	if err != nil {
		log.Error("List: 获取文档列表失败", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取文档列表失败"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// Get 处理获取单个文档的请求。
func (h *DocumentHandler) Get(c *gin.Context) {
	id := c.Param("id")
	doc, err := h.docService.Get(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "文档不存在"})
			return
		}
		log.Error("Get: 查询文档失败", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询文档失败"})
		return
	}
	c.JSON(http.StatusOK, doc)
}

// Delete 处理删除文档的请求，级联删除其全部分块。
func (h *DocumentHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.docService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "文档不存在"})
			return
		}
		log.Error("Delete: 删除文档失败", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "删除文档失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "deleted": true})
}

// Download 处理生成原始文件下载链接的请求。
func (h *DocumentHandler) Download(c *gin.Context) {
	id := c.Param("id")
	url, err := h.docService.GenerateDownloadURL(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "文档或原始文件不存在"})
			return
		}
		log.Error("Download: 生成下载链接失败", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "生成下载链接失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}
