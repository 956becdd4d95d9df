package optimizer

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"testing"

	"github.com/cucumber/godog"

	"github.com/nicksanjaya/optimasi-order-selection/internal/model"
)

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: initializeAllocationScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

type allocationContext struct {
	items    []model.Item
	capacity float64
	cfg      model.PipelineConfig
	prog     *LinearProgram
	sol      *Solution
	second   *Solution
	result   *model.SolveResult
}

func (c *allocationContext) reset() {
	c.items = nil
	c.capacity = 0
	c.cfg = model.PipelineConfig{HasMargin: true, CapacityMode: model.CapacityAtMost}
	c.prog = nil
	c.sol = nil
	c.second = nil
	c.result = nil
}

func (c *allocationContext) theItems(tbl *godog.Table) error {
	if len(tbl.Rows) == 0 {
		return fmt.Errorf("empty item table")
	}
	header := tbl.Rows[0].Cells
	for _, row := range tbl.Rows[1:] {
		var it model.Item
		for i, cell := range row.Cells {
			v := cell.Value
			var err error
			switch header[i].Value {
			case "PN":
				it.PN = v
			case "Order":
				it.Order, err = strconv.Atoi(v)
			case "Promise":
				it.Promise, err = strconv.Atoi(v)
			case "Rating":
				it.Rating, err = strconv.ParseFloat(v, 64)
			case "Margin":
				it.Margin, err = strconv.Atoi(v)
			default:
				err = fmt.Errorf("unknown column %q", header[i].Value)
			}
			if err != nil {
				return err
			}
		}
		c.items = append(c.items, it)
	}
	return nil
}

func (c *allocationContext) aCapacityOf(capacity float64) error {
	c.capacity = capacity
	return nil
}

func (c *allocationContext) theCapacityModeIs(mode string) error {
	m, err := model.ParseCapacityMode(mode)
	if err != nil {
		return err
	}
	c.cfg.CapacityMode = m
	return nil
}

func (c *allocationContext) promiseConstraintsAreActive() error {
	c.cfg.HasPromise = true
	return nil
}

func (c *allocationContext) theAllocationIsSolved() error {
	prog, err := BuildModel(c.items, c.capacity, c.cfg)
	if err != nil {
		return err
	}
	c.prog = prog
	c.sol = NewSimplexSolver(0).Solve(context.Background(), prog)
	if c.sol.IsOptimal() {
		c.result = Project(c.items, c.sol.Values)
	}
	return nil
}

func (c *allocationContext) theAllocationIsSolvedTwice() error {
	if err := c.theAllocationIsSolved(); err != nil {
		return err
	}
	c.second = NewSimplexSolver(0).Solve(context.Background(), c.prog)
	return nil
}

func (c *allocationContext) theSolveSucceeds() error {
	if !c.sol.IsOptimal() {
		return fmt.Errorf("expected solved, got %v", c.sol.Failure())
	}
	return nil
}

func (c *allocationContext) theSolveFailsWithTermination(term string) error {
	if c.sol.IsOptimal() {
		return fmt.Errorf("expected failure, got optimal")
	}
	if string(c.sol.Termination) != term {
		return fmt.Errorf("expected termination %s, got %s", term, c.sol.Termination)
	}
	return nil
}

func (c *allocationContext) isAllocated(pn string, want float64) error {
	got, ok := c.result.QuantityOf(pn)
	if !ok {
		return fmt.Errorf("unknown part number %s", pn)
	}
	if math.Abs(got-want) > 1e-6 {
		return fmt.Errorf("%s: expected %v, got %v", pn, want, got)
	}
	return nil
}

func (c *allocationContext) theTotalMarginIs(want float64) error {
	if math.Abs(c.result.TotalMargin-want) > 1e-6 {
		return fmt.Errorf("expected total margin %v, got %v", want, c.result.TotalMargin)
	}
	return nil
}

func (c *allocationContext) theTotalAllocationEqualsTheCapacity() error {
	if math.Abs(c.result.TotalQuantity()-c.capacity) > 1e-6 {
		return fmt.Errorf("expected total %v, got %v", c.capacity, c.result.TotalQuantity())
	}
	return nil
}

func (c *allocationContext) everyAllocationRespectsItsBounds() error {
	if !c.prog.Feasible(c.sol.Values, 1e-6) {
		return fmt.Errorf("allocation %v violates the model", c.sol.Values)
	}
	return nil
}

func (c *allocationContext) bothObjectivesAreEqual() error {
	if !c.sol.IsOptimal() || !c.second.IsOptimal() {
		return fmt.Errorf("expected both solves to succeed")
	}
	if math.Abs(c.sol.Objective-c.second.Objective) > 1e-6 {
		return fmt.Errorf("objectives differ: %v vs %v", c.sol.Objective, c.second.Objective)
	}
	return nil
}

func initializeAllocationScenario(sc *godog.ScenarioContext) {
	c := &allocationContext{}

	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		c.reset()
		return ctx, nil
	})

	sc.Step(`^the items:$`, c.theItems)
	sc.Step(`^a capacity of (\d+(?:\.\d+)?)$`, c.aCapacityOf)
	sc.Step(`^the capacity mode is "([^"]*)"$`, c.theCapacityModeIs)
	sc.Step(`^promise constraints are active$`, c.promiseConstraintsAreActive)
	sc.Step(`^the allocation is solved$`, c.theAllocationIsSolved)
	sc.Step(`^the allocation is solved twice$`, c.theAllocationIsSolvedTwice)
	sc.Step(`^the solve succeeds$`, c.theSolveSucceeds)
	sc.Step(`^the solve fails with termination "([^"]*)"$`, c.theSolveFailsWithTermination)
	sc.Step(`^"([^"]*)" is allocated (\d+(?:\.\d+)?)$`, c.isAllocated)
	sc.Step(`^the total margin is (-?\d+(?:\.\d+)?)$`, c.theTotalMarginIs)
	sc.Step(`^the total allocation equals the capacity$`, c.theTotalAllocationEqualsTheCapacity)
	sc.Step(`^every allocation respects its bounds$`, c.everyAllocationRespectsItsBounds)
	sc.Step(`^both objectives are equal$`, c.bothObjectivesAreEqual)
}
