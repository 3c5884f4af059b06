package calculations

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/cloud-ru/mcp-tvm-go/pkg/utils"
)

// PresentValueVaryCompoundingPeriods строит таблицу "что если": текущая стоимость при той же
// ставке за весь срок, но разной частоте начисления. При includeContinuous последняя строка
// соответствует непрерывному начислению (Input = +Inf).
func (s *TvmSolution) PresentValueVaryCompoundingPeriods(compoundingPeriods []uint32, includeContinuous bool) (*ScenarioList, error) {
	setup := fmt.Sprintf("Текущая стоимость при разной частоте начисления: ставка %.6f, периодов %s, будущая стоимость %.4f",
		s.Rate, formatPeriods(s.FractionalPeriods), s.FutureValue)
	return s.varyCompoundingPeriods(setup, VariablePresentValue, compoundingPeriods, includeContinuous,
		func(rate, periods float64, continuous bool) (float64, error) {
			return presentValueInternal(rate, periods, s.FutureValue, continuous)
		})
}

// FutureValueVaryCompoundingPeriods то же, что PresentValueVaryCompoundingPeriods, для будущей стоимости
func (s *TvmSolution) FutureValueVaryCompoundingPeriods(compoundingPeriods []uint32, includeContinuous bool) (*ScenarioList, error) {
	setup := fmt.Sprintf("Будущая стоимость при разной частоте начисления: ставка %.6f, периодов %s, текущая стоимость %.4f",
		s.Rate, formatPeriods(s.FractionalPeriods), s.PresentValue)
	return s.varyCompoundingPeriods(setup, VariableFutureValue, compoundingPeriods, includeContinuous,
		func(rate, periods float64, continuous bool) (float64, error) {
			return futureValueInternal(rate, periods, s.PresentValue, continuous)
		})
}

func (s *TvmSolution) varyCompoundingPeriods(setup string, output SolvedVariable, compoundingPeriods []uint32, includeContinuous bool,
	solve func(rate, periods float64, continuous bool) (float64, error)) (*ScenarioList, error) {
	rateForSingleSpan := s.Rate * s.FractionalPeriods
	entries := make([]ScenarioEntry, 0, len(compoundingPeriods)+1)
	for _, periods := range compoundingPeriods {
		if periods == 0 {
			continue
		}
		value, err := solve(rateForSingleSpan/float64(periods), float64(periods), s.Continuous)
		if err != nil {
			return nil, err
		}
		entries = append(entries, ScenarioEntry{Input: float64(periods), Output: value})
	}
	if includeContinuous {
		value, err := solve(rateForSingleSpan, 1, true)
		if err != nil {
			return nil, err
		}
		entries = append(entries, ScenarioEntry{Input: math.Inf(1), Output: value})
	}
	return &ScenarioList{
		Setup:          setup,
		InputVariable:  VariablePeriods,
		OutputVariable: output,
		Entries:        entries,
	}, nil
}

// MarshalJSON заменяет бесконечное число периодов строкой "continuous": JSON не умеет Inf
func (e ScenarioEntry) MarshalJSON() ([]byte, error) {
	var input interface{} = e.Input
	if math.IsInf(e.Input, 1) {
		input = "continuous"
	}
	return json.Marshal(struct {
		Input  interface{} `json:"input"`
		Output float64     `json:"output"`
	}{input, e.Output})
}

// SolutionComparison сравнение двух решений: разности B - A и признак финансовой эквивалентности
type SolutionComparison struct {
	A                      *TvmSolution `json:"a"`
	B                      *TvmSolution `json:"b"`
	RateDifference         float64      `json:"rate_difference"`
	PeriodsDifference      float64      `json:"periods_difference"`
	PresentValueDifference float64      `json:"present_value_difference"`
	FutureValueDifference  float64      `json:"future_value_difference"`
	// Equivalent true, если оба решения переводят одну и ту же pv в одну и ту же fv
	Equivalent bool `json:"equivalent"`
}

const equivalenceTolerance = 1e-9

// CompareSolutions сравнивает два решения
func CompareSolutions(a, b *TvmSolution) SolutionComparison {
	return SolutionComparison{
		A:                      a,
		B:                      b,
		RateDifference:         b.Rate - a.Rate,
		PeriodsDifference:      b.FractionalPeriods - a.FractionalPeriods,
		PresentValueDifference: b.PresentValue - a.PresentValue,
		FutureValueDifference:  b.FutureValue - a.FutureValue,
		Equivalent: utils.ApproxEqualRel(a.PresentValue, b.PresentValue, equivalenceTolerance) &&
			utils.ApproxEqualRel(a.FutureValue, b.FutureValue, equivalenceTolerance),
	}
}
