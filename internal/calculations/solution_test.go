package calculations

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/cloud-ru/mcp-tvm-go/internal/validators"
)

func TestResolveCompoundingPeriods(t *testing.T) {
	s, err := FutureValueSolution(0.1, 12, -10000, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertAbs(t, "annual fv", s.FutureValue, 31384.28, 0.005)

	quarterly, err := s.FutureValueSolution(false, 48)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertClose(t, "quarterly rate", quarterly.Rate, 0.025, relTol)
	if quarterly.Periods != 48 {
		t.Errorf("expected 48 periods, got %d", quarterly.Periods)
	}
	assertAbs(t, "quarterly fv", quarterly.FutureValue, 32714.90, 0.005)

	continuousRate, err := s.RateSolution(true, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertAbs(t, "continuous rate", continuousRate.Rate, 0.095310, 5e-7)
	assertClose(t, "continuous fv", continuousRate.FutureValue, s.FutureValue, relTol)

	pv, err := quarterly.PresentValueSolution(false, 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertClose(t, "annual rate restored", pv.Rate, 0.1, relTol)
	assertAbs(t, "pv from quarterly fv at annual rate", pv.PresentValue, -32714.90/math.Pow(1.1, 12), 0.01)
}

func TestResolveAllVariables(t *testing.T) {
	base, err := FutureValueSolution(0.045, 20, -5000, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, continuous := range []bool{false, true} {
		for _, variable := range []SolvedVariable{VariableRate, VariablePeriods, VariablePresentValue, VariableFutureValue} {
			s, err := base.Resolve(variable, continuous, 0)
			if err != nil {
				t.Fatalf("Resolve(%s, %v): %v", variable, continuous, err)
			}
			if s.SolvedVariable != variable || s.Continuous != continuous {
				t.Errorf("Resolve(%s, %v) returned %s continuous=%v", variable, continuous, s.SolvedVariable, s.Continuous)
			}
			assertSeriesBoundaries(t, variable.String(), s.Series(), s.Periods, s.PresentValue, s.FutureValue)

			// Без смены режима начисления пересчет возвращает исходное решение
			if !continuous {
				assertClose(t, "rate", s.Rate, base.Rate, 1e-9)
				assertAbs(t, "periods", s.FractionalPeriods, base.FractionalPeriods, 1e-6)
				assertClose(t, "pv", s.PresentValue, base.PresentValue, relTol)
				assertClose(t, "fv", s.FutureValue, base.FutureValue, relTol)
			}
		}
	}

	_, err = base.Resolve(SolvedVariable(42), false, 0)
	assertErrorIs(t, err, validators.ErrInvalidParameter)
}

func TestPeriodsSolutionAfterRescale(t *testing.T) {
	s, err := PeriodsSolution(0.08, -5000, 7000, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	continuous, err := s.PeriodsSolution(true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if continuous.FractionalPeriods >= s.FractionalPeriods {
		t.Errorf("continuous compounding at a positive rate should need fewer periods: %g >= %g",
			continuous.FractionalPeriods, s.FractionalPeriods)
	}
	assertClose(t, "continuous periods", continuous.FractionalPeriods, math.Log(1.4)/0.08, relTol)
}

func TestVaryCompoundingPeriods(t *testing.T) {
	s, err := FutureValueSolution(0.05, 4, -100, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	list, err := s.FutureValueVaryCompoundingPeriods([]uint32{1, 4, 12, 52, 365}, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []float64{120.0000, 121.5506, 121.9391, 122.0934, 122.1336, 122.1403}
	if len(list.Entries) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(list.Entries))
	}
	for i, entry := range list.Entries {
		assertAbs(t, "scenario", entry.Output, want[i], 0.0001)
	}
	if !math.IsInf(list.Entries[len(want)-1].Input, 1) {
		t.Error("last entry should describe continuous compounding")
	}
	if list.InputVariable != VariablePeriods || list.OutputVariable != VariableFutureValue {
		t.Errorf("unexpected variables %s -> %s", list.InputVariable, list.OutputVariable)
	}

	data, err := json.Marshal(list)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"input":"continuous"`) || !strings.Contains(string(data), `"output_variable":"future_value"`) {
		t.Errorf("unexpected JSON %s", data)
	}

	pvList, err := s.PresentValueVaryCompoundingPeriods([]uint32{0, 4}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pvList.Entries) != 1 {
		t.Fatalf("zero compounding periods should be skipped, got %d entries", len(pvList.Entries))
	}
	assertClose(t, "pv scenario", pvList.Entries[0].Output, -100, relTol)
}

func TestCompareSolutions(t *testing.T) {
	a, err := FutureValueSolution(0.1, 12, -10000, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	quarterly, err := a.FutureValueSolution(false, 48)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c := CompareSolutions(a, quarterly)
	if c.Equivalent {
		t.Error("quarterly compounding changes the future value")
	}
	assertClose(t, "periods difference", c.PeriodsDifference, 36, relTol)
	assertClose(t, "fv difference", c.FutureValueDifference, quarterly.FutureValue-a.FutureValue, relTol)

	continuous, err := a.RateSolution(true, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !CompareSolutions(a, continuous).Equivalent {
		t.Error("re-solving the rate under continuous compounding keeps pv and fv")
	}
}
