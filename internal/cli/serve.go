package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	v1 "github.com/nicksanjaya/optimasi-order-selection/internal/api/v1"
	"github.com/nicksanjaya/optimasi-order-selection/internal/config"
	"github.com/nicksanjaya/optimasi-order-selection/internal/metrics"
	"github.com/nicksanjaya/optimasi-order-selection/internal/server"
	"github.com/nicksanjaya/optimasi-order-selection/internal/service/optimizer"
	"github.com/nicksanjaya/optimasi-order-selection/internal/util"
)

// NewServeCommand 启动 HTTP 服务
func NewServeCommand() *cobra.Command {
	var (
		port      int
		devMode   bool
		dataDir   string
		noBrowser bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "启动 HTTP 服务",
		Long: `启动 HTTP 服务，提供上传输入表、求解与结果下载接口。

Examples:
  orderquota serve
  orderquota serve --port 8080 --dev`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, info, err := loadConfig()
			if err != nil {
				return fmt.Errorf("加载配置失败: %w", err)
			}

			// 命令行参数覆盖配置（config.toml 显式配置的端口优先）
			if port > 0 && !info.PortSpecified {
				cfg.Server.Port = port
			}
			if devMode {
				cfg.Server.DevMode = true
			}
			if dataDir != "" {
				cfg.Data.DataDir = dataDir
			}

			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer logger.Sync()

			return runServer(cmd.Context(), cfg, logger, !noBrowser)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "服务端口（仅当 config.toml 未显式配置 port 时生效）")
	cmd.Flags().BoolVar(&devMode, "dev", false, "开发模式")
	cmd.Flags().StringVar(&dataDir, "data-dir", "", "数据目录（覆盖配置文件）")
	cmd.Flags().BoolVar(&noBrowser, "no-browser", false, "不自动打开浏览器")

	return cmd
}

func runServer(ctx context.Context, cfg *config.AppConfig, logger *zap.Logger, browser bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		return fmt.Errorf("创建数据目录失败: %w", err)
	}
	logger.Info("数据目录", zap.String("path", dataDir))

	collector := metrics.NewSolveCollector()
	if err := collector.Register(metrics.Registry); err != nil {
		return fmt.Errorf("注册指标失败: %w", err)
	}

	opt := optimizer.New(
		optimizer.WithSolver(optimizer.NewSimplexSolver(cfg.Solver.Tolerance)),
		optimizer.WithLogger(logger.Named("optimizer")),
		optimizer.WithRecorder(collector),
	)

	api := v1.NewHandler(opt, v1.Settings{
		Sheet:       cfg.Excel.Sheet,
		ExportSheet: cfg.Excel.ExportSheet,
		ExportDir:   config.ExportsDir(dataDir),
		DownloadTTL: cfg.DownloadTTL(),
		TableTTL:    cfg.TableTTL(),
		Defaults:    cfg.SolveOptions(),
		Tolerance:   cfg.Solver.Tolerance,
	}, logger.Named("api"))

	srv := server.NewServer(api, logger.Named("http"), server.Options{
		DevMode:   cfg.Server.DevMode,
		RateLimit: cfg.Server.RateLimit,
		RateBurst: cfg.Server.RateBurst,
		Gatherer:  metrics.Registry,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	url := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run(addr)
	}()

	// 打开浏览器
	if browser && cfg.Server.OpenBrowser && !cfg.Server.DevMode {
		if err := util.OpenBrowserWithFallback(url); err != nil {
			logger.Warn("无法自动打开浏览器，请手动访问", zap.String("url", url), zap.Error(err))
		}
	} else {
		logger.Info("请访问", zap.String("url", url))
	}

	// 等待信号
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("服务启动失败: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("正在关闭服务...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
