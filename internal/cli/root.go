package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nicksanjaya/optimasi-order-selection/internal/config"
	"github.com/nicksanjaya/optimasi-order-selection/internal/logging"
)

var (
	// 全局参数
	configPath string
	logLevel   string
)

// NewRootCommand 根命令
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "orderquota",
		Short: "产能分配优化工具",
		Long: `orderquota 按评分在零件之间分配有限产能：
每个零件不超过订单量、不低于承诺量，总量不超过（或恰好等于）产能。

Examples:
  orderquota serve --port 20261
  orderquota solve --input master.xlsx --capacity 8
  orderquota solve --input master.xlsx --capacity 100 --order PN-1=40 --promise PN-1=10 --mode exactly --output result.xlsx`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"配置文件路径（默认为可执行文件同目录下的 config.toml）")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"日志级别 debug|info|warn|error（覆盖配置文件）")

	rootCmd.AddCommand(NewServeCommand())
	rootCmd.AddCommand(NewSolveCommand())

	return rootCmd
}

// Execute 执行根命令
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig 加载配置并应用全局参数
func loadConfig() (*config.AppConfig, config.LoadConfigInfo, error) {
	cfg, info, err := config.LoadConfigWithInfo(configPath)
	if err != nil {
		return nil, info, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	return cfg, info, nil
}

func newLogger(cfg *config.AppConfig) (*zap.Logger, error) {
	return logging.New(cfg.Log.Level, cfg.Server.DevMode)
}
