package v1

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nicksanjaya/optimasi-order-selection/internal/model"
	"github.com/nicksanjaya/optimasi-order-selection/internal/service/excel"
	"github.com/nicksanjaya/optimasi-order-selection/internal/service/optimizer"
)

// OptimizeRequest 求解请求
// orders/promises 按零件号（忽略大小写）对齐，orderList/promiseList 按行序对齐
type OptimizeRequest struct {
	TableID      string         `json:"tableId" validate:"required,uuid"`
	Capacity     *float64       `json:"capacity" validate:"required,gte=0"`
	Orders       map[string]int `json:"orders" validate:"omitempty,dive,keys,required,endkeys,gte=0"`
	OrderList    []int          `json:"orderList" validate:"omitempty,dive,gte=0"`
	Promises     map[string]int `json:"promises" validate:"omitempty,dive,keys,required,endkeys,gte=0"`
	PromiseList  []int          `json:"promiseList" validate:"omitempty,dive,gte=0"`
	CapacityMode string         `json:"capacityMode" validate:"omitempty,oneof=at_most exactly"`
	Schema       string         `json:"schema" validate:"omitempty,oneof=auto basic margin promise"`
}

// OptimizeResponse 求解响应
type OptimizeResponse struct {
	Result      *model.SolveResult `json:"result"`
	Lines       []string           `json:"lines"`
	DownloadURL string             `json:"downloadUrl"`
}

// Optimize 执行求解并生成一次性下载链接
// POST /api/optimize
func (h *Handler) Optimize(c *gin.Context) {
	var req OptimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误"})
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "参数校验失败", "detail": err.Error()})
		return
	}

	up, ok := h.tables.get(req.TableID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "输入表不存在或已过期"})
		return
	}

	opts := h.settings.Defaults
	if req.Schema != "" {
		opts.Schema = model.SchemaKind(req.Schema)
	}
	if req.CapacityMode != "" {
		opts.CapacityMode = model.CapacityMode(req.CapacityMode)
	}

	result, err := h.optimizer.Optimize(c.Request.Context(), optimizer.Request{
		Table:    up.Table,
		Capacity: *req.Capacity,
		Orders:   model.QuantityTable{ByPN: req.Orders, Positional: req.OrderList},
		Promises: model.QuantityTable{ByPN: req.Promises, Positional: req.PromiseList},
		Options:  opts,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	token, err := h.saveExport(result)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, OptimizeResponse{
		Result:      result,
		Lines:       result.Lines(),
		DownloadURL: fmt.Sprintf("%s/export/download/%s", apiPrefix(c), token),
	})
}

// saveExport 写出结果文件并登记下载令牌
func (h *Handler) saveExport(result *model.SolveResult) (string, error) {
	dir := h.settings.ExportDir
	if dir == "" {
		dir = os.TempDir()
	}

	data, err := excel.NewExporter(h.settings.ExportSheet).Bytes(result)
	if err != nil {
		return "", err
	}

	f, err := os.CreateTemp(dir, "orderquota_export_*.xlsx")
	if err != nil {
		return "", &model.IOError{Op: "create export", Path: dir, Err: err}
	}
	path := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		_ = os.Remove(path)
		return "", &model.IOError{Op: "write export", Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", &model.IOError{Op: "close export", Path: path, Err: err}
	}

	token := h.downloads.put(path, exportFilename, h.settings.DownloadTTL)
	h.logger.Debug("导出文件已生成", zap.String("path", path))
	return token, nil
}

const exportFilename = "allocation.xlsx"

func apiPrefix(c *gin.Context) string {
	if i := strings.Index(c.Request.URL.Path, "/optimize"); i > 0 {
		return c.Request.URL.Path[:i]
	}
	return "/api"
}
