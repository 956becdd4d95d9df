package optimizer

import (
	"context"
	"math"

	"gonum.org/v1/gonum/optimize/convex/lp"
)

// DefaultTolerance 单纯形法默认容差
const DefaultTolerance = 1e-7

// Solver 线性规划求解器
type Solver interface {
	Solve(ctx context.Context, prog *LinearProgram) *Solution
}

// SimplexSolver 基于 gonum 单纯形法的默认求解器
type SimplexSolver struct {
	Tolerance float64
}

// NewSimplexSolver 创建求解器，tol <= 0 时使用默认容差
func NewSimplexSolver(tol float64) *SimplexSolver {
	if tol <= 0 {
		tol = DefaultTolerance
	}
	return &SimplexSolver{Tolerance: tol}
}

type simplexResult struct {
	optF float64
	optX []float64
	err  error
}

// Solve 求解最大化问题
// gonum 的单纯形法不支持中途取消，这里在独立 goroutine 中运行并等待 ctx；
// ctx 结束时立即返回 aborted，后台计算结果被丢弃
func (s *SimplexSolver) Solve(ctx context.Context, prog *LinearProgram) *Solution {
	if err := ctx.Err(); err != nil {
		return failed(err)
	}

	// 无变量：总产能约束退化为 0 (<=|==) capacity
	if prog.NumVars() == 0 {
		return s.solveEmpty(prog)
	}

	c, A, b, err := prog.StandardForm()
	if err != nil {
		return failed(err)
	}

	done := make(chan simplexResult, 1)
	go func() {
		optF, optX, err := lp.Simplex(c, A, b, s.Tolerance, nil)
		done <- simplexResult{optF: optF, optX: optX, err: err}
	}()

	var res simplexResult
	select {
	case <-ctx.Done():
		return failed(ctx.Err())
	case res = <-done:
	}

	if res.err != nil {
		return failed(res.err)
	}

	n := prog.NumVars()
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		v := res.optX[i]
		if math.Abs(v) < s.Tolerance {
			v = 0
		}
		values[i] = v
	}

	return &Solution{
		Status:      StatusOK,
		Termination: TerminationOptimal,
		Objective:   -res.optF,
		Values:      values,
	}
}

func (s *SimplexSolver) solveEmpty(prog *LinearProgram) *Solution {
	for _, con := range prog.Constraints {
		ok := true
		switch con.Sense {
		case LessEqual:
			ok = 0 <= con.RHS+s.Tolerance
		case Equal:
			ok = math.Abs(con.RHS) <= s.Tolerance
		case GreaterEqual:
			ok = 0 >= con.RHS-s.Tolerance
		}
		if !ok {
			return failed(lp.ErrInfeasible)
		}
	}
	return &Solution{
		Status:      StatusOK,
		Termination: TerminationOptimal,
		Values:      []float64{},
	}
}

func failed(err error) *Solution {
	status, term := classify(err)
	return &Solution{Status: status, Termination: term, Err: err}
}

var _ Solver = (*SimplexSolver)(nil)
