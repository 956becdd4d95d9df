package v1

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/nicksanjaya/optimasi-order-selection/internal/service/excel"
)

// DownloadExport 下载求解结果（一次性链接）
// GET /api/export/download/:token
func (h *Handler) DownloadExport(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少下载令牌"})
		return
	}

	item, ok := h.downloads.take(token)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "下载链接已失效"})
		return
	}

	if _, err := os.Stat(item.filePath); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "导出文件不存在"})
		return
	}

	c.Header("Content-Disposition", excel.ContentDisposition(item.filename))
	c.Header("Content-Type", excel.ContentType)
	c.File(item.filePath)

	_ = os.Remove(item.filePath)
}
