package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/nicksanjaya/optimasi-order-selection/internal/model"
	"github.com/nicksanjaya/optimasi-order-selection/internal/service/excel"
	"github.com/nicksanjaya/optimasi-order-selection/internal/service/optimizer"
	"github.com/nicksanjaya/optimasi-order-selection/internal/service/table"
)

// uploadedTable 已上传的输入表
type uploadedTable struct {
	ID         string
	Filename   string
	Table      *table.Table
	UploadedAt time.Time
}

// tableCache 上传表缓存，过期自动清理
type tableCache struct {
	c *cache.Cache
}

func newTableCache(ttl time.Duration) *tableCache {
	return &tableCache{c: cache.New(ttl, 2*ttl)}
}

func (s *tableCache) put(filename string, tbl *table.Table) *uploadedTable {
	t := &uploadedTable{
		ID:         uuid.New().String(),
		Filename:   filename,
		Table:      tbl,
		UploadedAt: time.Now(),
	}
	s.c.SetDefault(t.ID, t)
	return t
}

func (s *tableCache) get(id string) (*uploadedTable, bool) {
	v, ok := s.c.Get(id)
	if !ok {
		return nil, false
	}
	return v.(*uploadedTable), true
}

func (s *tableCache) delete(id string) {
	s.c.Delete(id)
}

func (s *tableCache) count() int {
	return s.c.ItemCount()
}

// TableResponse 输入表视图：列名、识别出的结构、带衍生指标的零件
type TableResponse struct {
	TableID  string       `json:"tableId"`
	Filename string       `json:"filename"`
	Schema   model.Schema `json:"schema"`
	Columns  []string     `json:"columns"`
	Items    []model.Item `json:"items"`
	// 订单量与承诺量合计，便于填写产能
	TotalOrder   int       `json:"totalOrder"`
	TotalPromise int       `json:"totalPromise"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

func newTableResponse(up *uploadedTable, schema model.Schema, items []model.Item) TableResponse {
	return TableResponse{
		TableID:      up.ID,
		Filename:     up.Filename,
		Schema:       schema,
		Columns:      up.Table.Columns,
		Items:        items,
		TotalOrder:   model.TotalOrder(items),
		TotalPromise: model.TotalPromise(items),
		UploadedAt:   up.UploadedAt,
	}
}

// UploadTable 上传 Excel 输入表
// POST /api/tables  (multipart: file, sheet?, schema?)
func (h *Handler) UploadTable(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "未找到上传文件"})
		return
	}

	kind, err := model.ParseSchemaKind(c.DefaultPostForm("schema", string(h.settings.Defaults.Schema)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的表结构类型", "detail": err.Error()})
		return
	}

	src, err := fh.Open()
	if err != nil {
		h.writeError(c, &model.IOError{Op: "open upload", Path: fh.Filename, Err: err})
		return
	}
	defer src.Close()

	parser := excel.NewParser(fh.Filename)
	if err := parser.LoadFile(src); err != nil {
		// 无法识别为工作簿属于输入问题
		c.JSON(http.StatusBadRequest, gin.H{"error": "无法读取 Excel 文件", "detail": err.Error()})
		return
	}
	defer parser.Close()

	tbl, err := parser.ReadTable(c.DefaultPostForm("sheet", h.settings.Sheet))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "读取工作表失败", "detail": err.Error()})
		return
	}

	items, schema, err := optimizer.PrepareItems(tbl, kind, h.settings.Defaults.Weights)
	if err != nil {
		h.writeError(c, err)
		return
	}

	up := h.tables.put(fh.Filename, tbl)
	h.logger.Info("输入表已上传",
		zap.String("tableId", up.ID),
		zap.String("filename", fh.Filename),
		zap.String("schema", string(schema.Kind)),
		zap.Int("items", len(items)))

	c.JSON(http.StatusCreated, newTableResponse(up, schema, items))
}

// GetTable 查询已上传的输入表
// GET /api/tables/:id?schema=
func (h *Handler) GetTable(c *gin.Context) {
	up, ok := h.tables.get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "输入表不存在或已过期"})
		return
	}

	kind, err := model.ParseSchemaKind(c.DefaultQuery("schema", string(h.settings.Defaults.Schema)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的表结构类型", "detail": err.Error()})
		return
	}

	items, schema, err := optimizer.PrepareItems(up.Table, kind, h.settings.Defaults.Weights)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTableResponse(up, schema, items))
}

// DeleteTable 删除已上传的输入表
// DELETE /api/tables/:id
func (h *Handler) DeleteTable(c *gin.Context) {
	id := c.Param("id")
	if _, ok := h.tables.get(id); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "输入表不存在或已过期"})
		return
	}
	h.tables.delete(id)
	c.Status(http.StatusNoContent)
}
