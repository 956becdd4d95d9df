package model

import (
	"fmt"
	"strings"
	"time"
)

// CapacityMode 总产能约束形式
type CapacityMode string

const (
	CapacityAtMost  CapacityMode = "at_most" // Σx <= capacity
	CapacityExactly CapacityMode = "exactly" // Σx == capacity
)

// ParseCapacityMode 解析产能约束形式，空字符串视为 at_most
func ParseCapacityMode(s string) (CapacityMode, error) {
	switch CapacityMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", CapacityAtMost:
		return CapacityAtMost, nil
	case CapacityExactly:
		return CapacityExactly, nil
	default:
		return "", fmt.Errorf("unknown capacity mode: %q", s)
	}
}

// Weights 评分权重
// Cost 默认为正权重（成本分越高评分越高），如需惩罚成本可配置为负数
type Weights struct {
	Quality    float64 `json:"quality" toml:"quality"`
	Production float64 `json:"production" toml:"production"`
	Cost       float64 `json:"cost" toml:"cost"`
}

// DefaultWeights 默认权重 {0.4, 0.3, 0.3}
func DefaultWeights() Weights {
	return Weights{
		Quality:    0.4,
		Production: 0.3,
		Cost:       0.3,
	}
}

// PipelineConfig 求解流水线参数
type PipelineConfig struct {
	HasMargin    bool         `json:"hasMargin"`
	HasPromise   bool         `json:"hasPromise"`
	CapacityMode CapacityMode `json:"capacityMode"`
}

// NewPipelineConfig 由表结构和产能约束形式得到流水线参数
func NewPipelineConfig(schema Schema, mode CapacityMode) PipelineConfig {
	if mode == "" {
		mode = CapacityAtMost
	}
	return PipelineConfig{
		HasMargin:    schema.HasMargin(),
		HasPromise:   schema.HasPromise(),
		CapacityMode: mode,
	}
}

// SolveOptions 单次求解选项
type SolveOptions struct {
	Schema       SchemaKind    `json:"schema"`
	CapacityMode CapacityMode  `json:"capacityMode"`
	Weights      Weights       `json:"weights"`
	Timeout      time.Duration `json:"timeout"` // 0 表示不限时
}

// DefaultSolveOptions 默认求解选项
func DefaultSolveOptions() SolveOptions {
	return SolveOptions{
		Schema:       SchemaAuto,
		CapacityMode: CapacityAtMost,
		Weights:      DefaultWeights(),
	}
}
