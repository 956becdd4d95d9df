package optimizer

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/nicksanjaya/optimasi-order-selection/internal/model"
)

// Sense 约束方向
type Sense int

const (
	LessEqual    Sense = iota // a·x <= b
	Equal                     // a·x == b
	GreaterEqual              // a·x >= b
)

func (s Sense) String() string {
	switch s {
	case LessEqual:
		return "<="
	case Equal:
		return "=="
	case GreaterEqual:
		return ">="
	default:
		return "?"
	}
}

// Constraint 线性约束
type Constraint struct {
	Name   string
	Coeffs []float64 // 长度等于变量数
	Sense  Sense
	RHS    float64
}

// LinearProgram 线性规划模型：max Objective·x，x >= 0
type LinearProgram struct {
	Vars        []string // 决策变量名（零件号）
	Objective   []float64
	Constraints []Constraint
}

// NumVars 变量数
func (lp *LinearProgram) NumVars() int {
	return len(lp.Vars)
}

// BuildModel 构建分配模型
//   - 每个零件一个非负连续变量
//   - 总产能约束：Σx <= capacity 或 Σx == capacity
//   - 上限约束：x_i <= Order_i
//   - 下限约束（启用 Promise 时）：x_i >= Promise_i
//   - 目标：max Σ Rating_i · x_i
func BuildModel(items []model.Item, capacity float64, cfg model.PipelineConfig) (*LinearProgram, error) {
	if capacity < 0 || math.IsNaN(capacity) || math.IsInf(capacity, 0) {
		return nil, fmt.Errorf("%w: %v", model.ErrNegativeCapacity, capacity)
	}

	n := len(items)
	lp := &LinearProgram{
		Vars:        make([]string, n),
		Objective:   make([]float64, n),
		Constraints: make([]Constraint, 0, 1+2*n),
	}
	for i, it := range items {
		lp.Vars[i] = it.PN
		lp.Objective[i] = it.Rating
	}

	// 总产能
	balance := Constraint{
		Name:   "balance",
		Coeffs: make([]float64, n),
		Sense:  LessEqual,
		RHS:    capacity,
	}
	if cfg.CapacityMode == model.CapacityExactly {
		balance.Sense = Equal
	}
	for i := range balance.Coeffs {
		balance.Coeffs[i] = 1
	}
	lp.Constraints = append(lp.Constraints, balance)

	// 订单量上限
	for i, it := range items {
		lp.Constraints = append(lp.Constraints, unitConstraint("limit["+it.PN+"]", n, i, LessEqual, float64(it.Order)))
	}

	// 承诺量下限
	if cfg.HasPromise {
		for i, it := range items {
			lp.Constraints = append(lp.Constraints, unitConstraint("promise["+it.PN+"]", n, i, GreaterEqual, float64(it.Promise)))
		}
	}

	return lp, nil
}

func unitConstraint(name string, n, idx int, sense Sense, rhs float64) Constraint {
	coeffs := make([]float64, n)
	coeffs[idx] = 1
	return Constraint{Name: name, Coeffs: coeffs, Sense: sense, RHS: rhs}
}

// Evaluate 计算目标函数值
func (lp *LinearProgram) Evaluate(x []float64) float64 {
	total := 0.0
	for i, c := range lp.Objective {
		total += c * x[i]
	}
	return total
}

// Feasible 检查 x 是否满足全部约束（容差 tol）
func (lp *LinearProgram) Feasible(x []float64, tol float64) bool {
	for _, v := range x {
		if v < -tol {
			return false
		}
	}
	for _, c := range lp.Constraints {
		lhs := 0.0
		for i, a := range c.Coeffs {
			lhs += a * x[i]
		}
		switch c.Sense {
		case LessEqual:
			if lhs > c.RHS+tol {
				return false
			}
		case Equal:
			if math.Abs(lhs-c.RHS) > tol {
				return false
			}
		case GreaterEqual:
			if lhs < c.RHS-tol {
				return false
			}
		}
	}
	return true
}

var errEmptyModel = errors.New("model has no variables")

// StandardForm 转换为标准型：min cᵀz, Az = b, z >= 0
// <= 约束加松弛变量，>= 约束减剩余变量；目标取负以转为最小化
// 右端项为负时整行取反，保证 b >= 0
func (lp *LinearProgram) StandardForm() (c []float64, A *mat.Dense, b []float64, err error) {
	n := lp.NumVars()
	if n == 0 {
		return nil, nil, nil, errEmptyModel
	}
	m := len(lp.Constraints)

	slacks := 0
	for _, con := range lp.Constraints {
		if con.Sense != Equal {
			slacks++
		}
	}

	cols := n + slacks
	c = make([]float64, cols)
	for i, v := range lp.Objective {
		c[i] = -v
	}

	A = mat.NewDense(m, cols, nil)
	b = make([]float64, m)

	slack := n
	for r, con := range lp.Constraints {
		sign := 1.0
		if con.RHS < 0 {
			sign = -1
		}
		for j, a := range con.Coeffs {
			if a != 0 {
				A.Set(r, j, sign*a)
			}
		}
		switch con.Sense {
		case LessEqual:
			A.Set(r, slack, sign)
			slack++
		case GreaterEqual:
			A.Set(r, slack, -sign)
			slack++
		}
		b[r] = sign * con.RHS
	}

	return c, A, b, nil
}
