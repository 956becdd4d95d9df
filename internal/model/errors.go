package model

import (
	"errors"
	"fmt"
)

// 输入校验错误
var (
	ErrNegativeCapacity = errors.New("capacity must be non-negative")
	ErrUnknownPN        = errors.New("unknown part number")
	ErrQuantityLength   = errors.New("quantity count does not match item count")
	ErrAmbiguousPN      = errors.New("part numbers differ only by case")
)

// SchemaError 输入表缺少必需列（或 PN 列不合法）
type SchemaError struct {
	Attribute string
	Reason    string
}

func (e *SchemaError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid column %s: %s", e.Attribute, e.Reason)
	}
	return fmt.Sprintf("missing required column: %s", e.Attribute)
}

// TypeCoercionError 数值列包含无法转换为整数的值
type TypeCoercionError struct {
	Row       int // Excel 行号（表头为第 1 行）
	Attribute string
	Value     string
	Err       error
}

func (e *TypeCoercionError) Error() string {
	return fmt.Sprintf("row %d column %s: cannot convert %q to integer: %v", e.Row, e.Attribute, e.Value, e.Err)
}

func (e *TypeCoercionError) Unwrap() error {
	return e.Err
}

// InfeasibleOrUnsolvedError 求解器未以最优解结束
// Warnings 为求解前的数据提示，常能说明不可行的原因
type InfeasibleOrUnsolvedError struct {
	Status      string
	Termination string
	Warnings    []string
	Err         error
}

func (e *InfeasibleOrUnsolvedError) Error() string {
	msg := fmt.Sprintf("no optimal solution: solver status %s, termination condition %s", e.Status, e.Termination)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *InfeasibleOrUnsolvedError) Unwrap() error {
	return e.Err
}

// IOError 上传读取或导出写入失败
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
