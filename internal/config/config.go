package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/nicksanjaya/optimasi-order-selection/internal/model"
)

// 环境变量
const (
	EnvPort         = "ORDERQUOTA_PORT"
	EnvLogLevel     = "ORDERQUOTA_LOG_LEVEL"
	EnvCapacityMode = "ORDERQUOTA_CAPACITY_MODE"
	EnvDataDir      = "ORDERQUOTA_DATA_DIR"
)

// FileName 默认配置文件名
const FileName = "config.toml"

// AppConfig 应用配置
type AppConfig struct {
	Server ServerConfig `toml:"server"`
	Data   DataConfig   `toml:"data"`
	Solver SolverConfig `toml:"solver"`
	Excel  ExcelConfig  `toml:"excel"`
	Log    LogConfig    `toml:"log"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port        int     `toml:"port" validate:"min=1,max=65535"`
	DevMode     bool    `toml:"dev_mode"`
	OpenBrowser bool    `toml:"open_browser"`
	RateLimit   float64 `toml:"rate_limit" validate:"gte=0"` // 每秒请求数，0 表示不限流
	RateBurst   int     `toml:"rate_burst" validate:"gte=0"`
}

// DataConfig 数据配置
type DataConfig struct {
	DataDir string `toml:"data_dir" validate:"required"`
}

// SolverConfig 求解配置
type SolverConfig struct {
	Schema         string        `toml:"schema" validate:"oneof=auto basic margin promise"`
	CapacityMode   string        `toml:"capacity_mode" validate:"oneof=at_most exactly"`
	Tolerance      float64       `toml:"tolerance" validate:"gte=0"`
	TimeoutSeconds int           `toml:"timeout_seconds" validate:"gte=0"`
	Weights        model.Weights `toml:"weights"`
}

// ExcelConfig Excel 读写配置
type ExcelConfig struct {
	Sheet              string `toml:"sheet"` // 为空时读取第一个工作表
	ExportSheet        string `toml:"export_sheet"`
	DownloadTTLMinutes int    `toml:"download_ttl_minutes" validate:"gt=0"`
	TableTTLMinutes    int    `toml:"table_ttl_minutes" validate:"gt=0"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level string `toml:"level" validate:"oneof=debug info warn error"`
}

// LoadConfigInfo 配置加载元信息
type LoadConfigInfo struct {
	Path          string
	Found         bool
	PortSpecified bool
}

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:        20261,
			DevMode:     false,
			OpenBrowser: true,
			RateLimit:   20,
			RateBurst:   40,
		},
		Data: DataConfig{
			DataDir: "data",
		},
		Solver: SolverConfig{
			Schema:         string(model.SchemaAuto),
			CapacityMode:   string(model.CapacityAtMost),
			Tolerance:      1e-7,
			TimeoutSeconds: 30,
			Weights:        model.DefaultWeights(),
		},
		Excel: ExcelConfig{
			Sheet:              "",
			ExportSheet:        "Result",
			DownloadTTLMinutes: 10,
			TableTTLMinutes:    60,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// SolveOptions 默认求解选项
func (c *AppConfig) SolveOptions() model.SolveOptions {
	return model.SolveOptions{
		Schema:       model.SchemaKind(c.Solver.Schema),
		CapacityMode: model.CapacityMode(c.Solver.CapacityMode),
		Weights:      c.Solver.Weights,
		Timeout:      time.Duration(c.Solver.TimeoutSeconds) * time.Second,
	}
}

// DownloadTTL 下载链接有效期
func (c *AppConfig) DownloadTTL() time.Duration {
	return time.Duration(c.Excel.DownloadTTLMinutes) * time.Minute
}

// TableTTL 上传表缓存有效期
func (c *AppConfig) TableTTL() time.Duration {
	return time.Duration(c.Excel.TableTTLMinutes) * time.Minute
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverAny, ok := raw["server"]
	if !ok {
		return false
	}

	serverMap, ok := serverAny.(map[string]any)
	if !ok {
		return false
	}

	_, ok = serverMap["port"]
	return ok
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// DefaultPath 可执行文件同目录下的 config.toml
func DefaultPath() string {
	exeDir, err := GetExeDir()
	if err != nil {
		// 无法获取可执行文件目录，使用当前目录
		exeDir = "."
	}
	return filepath.Join(exeDir, FileName)
}

// LoadConfigWithInfo 加载配置并返回元信息
// 顺序：默认值 -> config.toml -> .env -> 环境变量，最后做校验
// path 为空时使用可执行文件同目录下的 config.toml
func LoadConfigWithInfo(path string) (*AppConfig, LoadConfigInfo, error) {
	if path == "" {
		path = DefaultPath()
	}
	info := LoadConfigInfo{Path: path}
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		info.Found = true
		info.PortSpecified = isPortSpecifiedInToml(data)
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, info, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// 配置文件不存在，使用默认配置
	default:
		return nil, info, fmt.Errorf("read %s: %w", path, err)
	}

	// .env 不覆盖已存在的环境变量
	envPath := filepath.Join(filepath.Dir(path), ".env")
	if err := godotenv.Load(envPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, info, fmt.Errorf("load %s: %w", envPath, err)
	}

	if err := applyEnv(config, &info); err != nil {
		return nil, info, err
	}

	if err := ValidateConfig(config); err != nil {
		return nil, info, err
	}

	return config, info, nil
}

// LoadConfig 加载配置
func LoadConfig(path string) (*AppConfig, error) {
	config, _, err := LoadConfigWithInfo(path)
	return config, err
}

// 环境变量覆盖
func applyEnv(config *AppConfig, info *LoadConfigInfo) error {
	if v := os.Getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: invalid port %q", EnvPort, v)
		}
		config.Server.Port = port
		info.PortSpecified = true
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		config.Log.Level = v
	}
	if v := os.Getenv(EnvCapacityMode); v != "" {
		config.Solver.CapacityMode = v
	}
	if v := os.Getenv(EnvDataDir); v != "" {
		config.Data.DataDir = v
	}
	return nil
}

// SaveConfig 保存配置
func SaveConfig(config *AppConfig, path string) error {
	if path == "" {
		path = DefaultPath()
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ResolveDataDir 数据目录绝对路径，相对路径基于可执行文件目录
func ResolveDataDir(config *AppConfig) string {
	if filepath.IsAbs(config.Data.DataDir) {
		return config.Data.DataDir
	}
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}
	return filepath.Join(exeDir, config.Data.DataDir)
}

// EnsureDataDir 确保数据目录及导出子目录存在
func EnsureDataDir(config *AppConfig) (string, error) {
	dataDir := ResolveDataDir(config)

	if err := os.MkdirAll(filepath.Join(dataDir, "exports"), 0755); err != nil {
		return "", err
	}

	return dataDir, nil
}

// ExportsDir 导出文件目录
func ExportsDir(dataDir string) string {
	return filepath.Join(dataDir, "exports")
}
