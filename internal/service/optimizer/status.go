package optimizer

import (
	"context"
	"errors"

	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/nicksanjaya/optimasi-order-selection/internal/model"
)

// SolverStatus 求解器运行状态
type SolverStatus string

const (
	StatusOK      SolverStatus = "ok"
	StatusWarning SolverStatus = "warning"
	StatusError   SolverStatus = "error"
	StatusAborted SolverStatus = "aborted"
)

// TerminationCondition 求解终止原因
type TerminationCondition string

const (
	TerminationOptimal      TerminationCondition = "optimal"
	TerminationInfeasible   TerminationCondition = "infeasible"
	TerminationUnbounded    TerminationCondition = "unbounded"
	TerminationMaxTimeLimit TerminationCondition = "maxTimeLimit"
	TerminationError        TerminationCondition = "error"
)

// Outcome 对调用方的二分结果
type Outcome string

const (
	OutcomeSolved Outcome = "solved"
	OutcomeFailed Outcome = "failed"
)

// Solution 求解器原始输出
// 仅当 Outcome() 为 solved 时 Values 有效
type Solution struct {
	Status      SolverStatus
	Termination TerminationCondition
	Objective   float64
	Values      []float64
	Err         error
}

// Outcome 状态为 ok 且终止原因为 optimal 视为求解成功，其余均为失败
func (s *Solution) Outcome() Outcome {
	if s.Status == StatusOK && s.Termination == TerminationOptimal {
		return OutcomeSolved
	}
	return OutcomeFailed
}

// IsOptimal 是否得到最优解
func (s *Solution) IsOptimal() bool {
	return s.Outcome() == OutcomeSolved
}

// IsInfeasible 是否不可行
func (s *Solution) IsInfeasible() bool {
	return s.Termination == TerminationInfeasible
}

// IsUnbounded 是否无界
func (s *Solution) IsUnbounded() bool {
	return s.Termination == TerminationUnbounded
}

// Failure 失败时生成带原始状态的错误，成功时返回 nil
func (s *Solution) Failure() error {
	if s.Outcome() == OutcomeSolved {
		return nil
	}
	return &model.InfeasibleOrUnsolvedError{
		Status:      string(s.Status),
		Termination: string(s.Termination),
		Err:         s.Err,
	}
}

// classify 将求解器错误映射为状态与终止原因
func classify(err error) (SolverStatus, TerminationCondition) {
	switch {
	case err == nil:
		return StatusOK, TerminationOptimal
	case errors.Is(err, lp.ErrInfeasible):
		return StatusWarning, TerminationInfeasible
	case errors.Is(err, lp.ErrUnbounded):
		return StatusWarning, TerminationUnbounded
	case errors.Is(err, context.DeadlineExceeded):
		return StatusAborted, TerminationMaxTimeLimit
	case errors.Is(err, context.Canceled):
		return StatusAborted, TerminationError
	default:
		return StatusError, TerminationError
	}
}
