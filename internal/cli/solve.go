package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nicksanjaya/optimasi-order-selection/internal/model"
	"github.com/nicksanjaya/optimasi-order-selection/internal/service/excel"
	"github.com/nicksanjaya/optimasi-order-selection/internal/service/optimizer"
)

// NewSolveCommand 单次求解
func NewSolveCommand() *cobra.Command {
	var (
		input    string
		sheet    string
		capacity float64
		orders   []string
		promises []string
		mode     string
		schema   string
		output   string
		timeout  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "读取 Excel 输入表并求解一次",
		Long: `读取 Excel 输入表，按产能求解分配方案，输出每个零件的分配量与总毛利。

--order/--promise 可重复，格式为 PN=数量，覆盖输入表中对应零件的 Order/Promise。

Examples:
  orderquota solve --input master.xlsx --capacity 8
  orderquota solve --input master.xlsx --capacity 8 --order A=10 --order B=5 --output result.xlsx`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if capacity < 0 {
				return fmt.Errorf("--capacity must be non-negative")
			}
			orderTable, err := parseQuantities(orders)
			if err != nil {
				return fmt.Errorf("--order: %w", err)
			}
			promiseTable, err := parseQuantities(promises)
			if err != nil {
				return fmt.Errorf("--promise: %w", err)
			}

			cfg, _, err := loadConfig()
			if err != nil {
				return fmt.Errorf("加载配置失败: %w", err)
			}
			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer logger.Sync()

			opts := cfg.SolveOptions()
			if schema != "" {
				kind, err := model.ParseSchemaKind(schema)
				if err != nil {
					return err
				}
				opts.Schema = kind
			}
			if mode != "" {
				m, err := model.ParseCapacityMode(mode)
				if err != nil {
					return err
				}
				opts.CapacityMode = m
			}
			if timeout > 0 {
				opts.Timeout = timeout
			}
			if sheet == "" {
				sheet = cfg.Excel.Sheet
			}

			tbl, err := excel.ReadTableFile(input, sheet)
			if err != nil {
				return err
			}

			opt := optimizer.New(
				optimizer.WithSolver(optimizer.NewSimplexSolver(cfg.Solver.Tolerance)),
				optimizer.WithLogger(logger.Named("optimizer")),
			)

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			result, err := opt.Optimize(ctx, optimizer.Request{
				Table:    tbl,
				Capacity: capacity,
				Orders:   model.QuantityTable{ByPN: orderTable},
				Promises: model.QuantityTable{ByPN: promiseTable},
				Options:  opts,
			})
			if err != nil {
				var unsolved *model.InfeasibleOrUnsolvedError
				if errors.As(err, &unsolved) {
					for _, w := range unsolved.Warnings {
						fmt.Fprintln(cmd.ErrOrStderr(), "提示:", w)
					}
				}
				return err
			}

			out := cmd.OutOrStdout()
			for _, line := range result.Lines() {
				fmt.Fprintln(out, line)
			}
			for _, w := range result.Warnings {
				fmt.Fprintln(cmd.ErrOrStderr(), "提示:", w)
			}

			if output != "" {
				if err := excel.NewExporter(cfg.Excel.ExportSheet).SaveAs(result, output); err != nil {
					return err
				}
				fmt.Fprintf(out, "已导出: %s\n", output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Excel 输入表路径")
	cmd.Flags().StringVar(&sheet, "sheet", "", "工作表名（默认为第一个）")
	cmd.Flags().Float64VarP(&capacity, "capacity", "c", 0, "总产能")
	cmd.Flags().StringArrayVar(&orders, "order", nil, "订单量 PN=数量，可重复")
	cmd.Flags().StringArrayVar(&promises, "promise", nil, "承诺量 PN=数量，可重复")
	cmd.Flags().StringVar(&mode, "mode", "", "产能约束 at_most|exactly")
	cmd.Flags().StringVar(&schema, "schema", "", "表结构 auto|basic|margin|promise")
	cmd.Flags().StringVarP(&output, "output", "o", "", "导出结果 xlsx 路径")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "求解超时（覆盖配置文件）")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("capacity")

	return cmd
}

// parseQuantities 解析 PN=数量 列表
func parseQuantities(pairs []string) (map[string]int, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]int, len(pairs))
	for _, p := range pairs {
		pn, raw, ok := strings.Cut(p, "=")
		pn = strings.TrimSpace(pn)
		if !ok || pn == "" {
			return nil, fmt.Errorf("invalid pair %q, want PN=quantity", p)
		}
		qty, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("invalid quantity in %q: %w", p, err)
		}
		if qty < 0 {
			return nil, fmt.Errorf("negative quantity in %q", p)
		}
		out[pn] = qty
	}
	return out, nil
}
