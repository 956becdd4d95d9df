package v1

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/nicksanjaya/optimasi-order-selection/internal/model"
	"github.com/nicksanjaya/optimasi-order-selection/internal/service/optimizer"
)

// Settings API 运行参数
type Settings struct {
	Sheet       string             // 上传表读取的工作表，空为第一个
	ExportSheet string             // 导出工作表名
	ExportDir   string             // 导出文件目录
	DownloadTTL time.Duration      // 下载链接有效期
	TableTTL    time.Duration      // 上传表缓存有效期
	Defaults    model.SolveOptions // 请求未指定时的求解选项
	Tolerance   float64
}

// Handler API 处理器
type Handler struct {
	optimizer *optimizer.Optimizer
	settings  Settings
	tables    *tableCache
	downloads *exportDownloadStore
	validate  *validator.Validate
	logger    *zap.Logger
}

// NewHandler 创建 API 处理器
func NewHandler(opt *optimizer.Optimizer, settings Settings, logger *zap.Logger) *Handler {
	if settings.DownloadTTL <= 0 {
		settings.DownloadTTL = 10 * time.Minute
	}
	if settings.TableTTL <= 0 {
		settings.TableTTL = time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		optimizer: opt,
		settings:  settings,
		tables:    newTableCache(settings.TableTTL),
		downloads: newExportDownloadStore(settings.DownloadTTL),
		validate:  validator.New(),
		logger:    logger,
	}
}

// RegisterRoutes 注册 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/status", h.GetStatus)

	// 上传输入表
	router.POST("/tables", h.UploadTable)
	router.GET("/tables/:id", h.GetTable)
	router.DELETE("/tables/:id", h.DeleteTable)

	// 求解
	router.POST("/optimize", h.Optimize)

	// 结果下载
	router.GET("/export/download/:token", h.DownloadExport)
}
