package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nicksanjaya/optimasi-order-selection/internal/model"
)

// StatusResponse 系统状态响应
type StatusResponse struct {
	Tables           int           `json:"tables"`           // 缓存中的输入表数
	PendingDownloads int           `json:"pendingDownloads"` // 未下载的导出文件数
	Schema           string        `json:"schema"`
	CapacityMode     string        `json:"capacityMode"`
	Weights          model.Weights `json:"weights"`
	Tolerance        float64       `json:"tolerance"`
	TimeoutSeconds   float64       `json:"timeoutSeconds"`
}

// GetStatus 获取系统状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	d := h.settings.Defaults
	c.JSON(http.StatusOK, StatusResponse{
		Tables:           h.tables.count(),
		PendingDownloads: h.downloads.pending(),
		Schema:           string(d.Schema),
		CapacityMode:     string(d.CapacityMode),
		Weights:          d.Weights,
		Tolerance:        h.settings.Tolerance,
		TimeoutSeconds:   d.Timeout.Seconds(),
	})
}
