package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nicksanjaya/optimasi-order-selection/internal/model"
)

// writeError 按错误类型返回 HTTP 状态
//   - 输入表结构/数值错误、数量校验错误：400
//   - 求解未得到最优解：422，附带原始状态与终止原因
//   - 等待求解超时或请求取消：503
//   - 文件读写及其他错误：500
func (h *Handler) writeError(c *gin.Context, err error) {
	var (
		schemaErr   *model.SchemaError
		coercionErr *model.TypeCoercionError
		unsolved    *model.InfeasibleOrUnsolvedError
		ioErr       *model.IOError
	)

	switch {
	case errors.As(err, &schemaErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "输入表结构错误",
			"attribute": schemaErr.Attribute,
			"detail":    err.Error(),
		})
	case errors.As(err, &coercionErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "数值转换失败",
			"row":       coercionErr.Row,
			"attribute": coercionErr.Attribute,
			"value":     coercionErr.Value,
			"detail":    err.Error(),
		})
	case errors.Is(err, model.ErrNegativeCapacity),
		errors.Is(err, model.ErrUnknownPN),
		errors.Is(err, model.ErrQuantityLength),
		errors.Is(err, model.ErrAmbiguousPN):
		c.JSON(http.StatusBadRequest, gin.H{"error": "参数校验失败", "detail": err.Error()})
	case errors.As(err, &unsolved):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":       "未找到最优解",
			"status":      unsolved.Status,
			"termination": unsolved.Termination,
			"warnings":    unsolved.Warnings,
			"detail":      err.Error(),
		})
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "求解繁忙，请稍后重试"})
	case errors.As(err, &ioErr):
		h.logger.Error("文件读写失败", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "文件读写失败", "detail": err.Error()})
	default:
		h.logger.Error("请求处理失败", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "内部错误", "detail": err.Error()})
	}
}
