package optimizer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/nicksanjaya/optimasi-order-selection/internal/metrics"
	"github.com/nicksanjaya/optimasi-order-selection/internal/model"
	"github.com/nicksanjaya/optimasi-order-selection/internal/service/calculator"
	"github.com/nicksanjaya/optimasi-order-selection/internal/service/table"
)

// Request 单次求解请求
// Orders/Promises 为本次运行的逐项数量，为空时沿用输入表的 Order/Promise 列
type Request struct {
	Table    *table.Table
	Capacity float64
	Orders   model.QuantityTable
	Promises model.QuantityTable
	Options  model.SolveOptions
}

// Optimizer 产能分配优化器
// 同一时刻只运行一个 构建-求解-映射 流程
type Optimizer struct {
	solver   Solver
	sem      *semaphore.Weighted
	logger   *zap.Logger
	recorder metrics.SolveRecorder
}

// Option 优化器选项
type Option func(*Optimizer)

// WithSolver 替换求解器
func WithSolver(s Solver) Option {
	return func(o *Optimizer) { o.solver = s }
}

// WithLogger 设置日志器
func WithLogger(l *zap.Logger) Option {
	return func(o *Optimizer) { o.logger = l }
}

// WithRecorder 设置指标记录器
func WithRecorder(r metrics.SolveRecorder) Option {
	return func(o *Optimizer) { o.recorder = r }
}

// New 创建优化器，默认使用单纯形求解器
func New(opts ...Option) *Optimizer {
	o := &Optimizer{
		solver:   NewSimplexSolver(DefaultTolerance),
		sem:      semaphore.NewWeighted(1),
		logger:   zap.NewNop(),
		recorder: metrics.Nop{},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Optimize 执行一次完整求解
// 输入错误返回 SchemaError/TypeCoercionError/校验错误，求解失败返回 *model.InfeasibleOrUnsolvedError
func (o *Optimizer) Optimize(ctx context.Context, req Request) (*model.SolveResult, error) {
	if req.Table == nil {
		return nil, errors.New("optimize: nil table")
	}
	if err := o.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("optimize: %w", err)
	}
	defer o.sem.Release(1)

	start := time.Now()
	result, items, warnings, err := o.run(ctx, req)
	o.recorder.RecordSolve(outcomeLabel(err), items, time.Since(start))

	if err != nil {
		o.logger.Warn("求解失败",
			zap.Int("items", items),
			zap.Float64("capacity", req.Capacity),
			zap.Strings("warnings", warnings),
			zap.Error(err))
		return nil, err
	}

	o.logger.Info("求解完成",
		zap.Int("items", items),
		zap.Float64("capacity", req.Capacity),
		zap.Float64("objective", result.Objective),
		zap.Float64("totalMargin", result.TotalMargin),
		zap.Duration("elapsed", time.Since(start)))
	for _, w := range result.Warnings {
		o.logger.Warn("数据提示", zap.String("warning", w))
	}
	return result, nil
}

// run 返回结果、零件数与数据提示；失败时提示也会写入 InfeasibleOrUnsolvedError
func (o *Optimizer) run(ctx context.Context, req Request) (*model.SolveResult, int, []string, error) {
	opts := req.Options

	mode, err := model.ParseCapacityMode(string(opts.CapacityMode))
	if err != nil {
		return nil, 0, nil, err
	}

	schema := resolveRequestSchema(req.Table.Columns, opts.Schema, !req.Promises.IsEmpty())
	items, err := table.Normalize(req.Table, schema)
	if err != nil {
		return nil, 0, nil, err
	}

	var warnings []string
	if err := req.Orders.Apply(items, func(it *model.Item, q int) { it.Order = q }); err != nil {
		return nil, len(items), nil, fmt.Errorf("orders: %w", err)
	}
	if !req.Promises.IsEmpty() {
		if schema.HasPromise() {
			if err := req.Promises.Apply(items, func(it *model.Item, q int) { it.Promise = q }); err != nil {
				return nil, len(items), nil, fmt.Errorf("promises: %w", err)
			}
		} else {
			warnings = append(warnings, fmt.Sprintf("表结构 %s 不含承诺量约束，已忽略承诺量", schema.Kind))
		}
	}

	calculator.NewEngine(weightsOrDefault(opts.Weights)).Calculate(items)
	warnings = append(warnings, calculator.ValidateItems(items)...)

	cfg := model.NewPipelineConfig(schema, mode)
	prog, err := BuildModel(items, req.Capacity, cfg)
	if err != nil {
		return nil, len(items), warnings, err
	}

	solveCtx := ctx
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		solveCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	sol := o.solver.Solve(solveCtx, prog)
	if !sol.IsOptimal() {
		err := sol.Failure()
		var unsolved *model.InfeasibleOrUnsolvedError
		if errors.As(err, &unsolved) {
			unsolved.Warnings = warnings
		}
		return nil, len(items), warnings, err
	}

	result := Project(items, sol.Values)
	result.Status = string(sol.Status)
	result.Termination = string(sol.Termination)
	result.Objective = sol.Objective
	result.Warnings = warnings
	return result, len(items), warnings, nil
}

// PrepareItems 解析并计算衍生指标，供上传后展示
func PrepareItems(t *table.Table, kind model.SchemaKind, w model.Weights) ([]model.Item, model.Schema, error) {
	schema := model.ResolveSchema(t.Columns, kind)
	items, err := table.Normalize(t, schema)
	if err != nil {
		return nil, schema, err
	}
	calculator.NewEngine(weightsOrDefault(w)).Calculate(items)
	return items, schema, nil
}

// resolveRequestSchema 自动识别时，若本次运行传入了承诺量，则按承诺结构求解，
// 此时 Promise 列不再必需
func resolveRequestSchema(columns []string, kind model.SchemaKind, promisesGiven bool) model.Schema {
	schema := model.ResolveSchema(columns, kind)
	if schema.HasPromise() || !promisesGiven {
		return schema
	}
	if kind != model.SchemaAuto && kind != "" {
		return schema
	}
	schema.Kind = model.SchemaPromise
	return schema
}

func weightsOrDefault(w model.Weights) model.Weights {
	if w == (model.Weights{}) {
		return model.DefaultWeights()
	}
	return w
}

// outcomeLabel 指标标签：solved、终止原因或 invalid
func outcomeLabel(err error) string {
	if err == nil {
		return string(OutcomeSolved)
	}
	var unsolved *model.InfeasibleOrUnsolvedError
	if errors.As(err, &unsolved) {
		return unsolved.Termination
	}
	return "invalid"
}
