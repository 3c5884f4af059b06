package calculations

import (
	"fmt"
	"math"

	"github.com/cloud-ru/mcp-tvm-go/internal/validators"
	"github.com/cloud-ru/mcp-tvm-go/pkg/utils"
)

// FutureValue возвращает будущую стоимость: fv = -pv * (1 + r)^n или fv = -pv * e^(r*n)
func FutureValue(rate float64, periods uint32, presentValue float64, continuous bool) (float64, error) {
	return futureValueInternal(rate, float64(periods), presentValue, continuous)
}

// FutureValueSolution возвращает будущую стоимость вместе с формулами
func FutureValueSolution(rate float64, periods uint32, presentValue float64, continuous bool) (*TvmSolution, error) {
	return futureValueSolutionInternal(rate, float64(periods), presentValue, continuous)
}

func futureValueInternal(rate, periods, presentValue float64, continuous bool) (float64, error) {
	if err := checkFutureValueParameters(rate, periods, presentValue); err != nil {
		return 0, err
	}
	var futureValue float64
	if continuous {
		futureValue = -presentValue * math.Exp(rate*periods)
	} else {
		futureValue = -presentValue * math.Pow(1.0+rate, periods)
	}
	if !utils.IsFinite(futureValue) {
		return 0, validators.InvalidValue("future_value", "результат не является конечным числом")
	}
	return futureValue, nil
}

func futureValueSolutionInternal(rate, periods, presentValue float64, continuous bool) (*TvmSolution, error) {
	futureValue, err := futureValueInternal(rate, periods, presentValue, continuous)
	if err != nil {
		return nil, err
	}
	var formula, symbolicFormula string
	if continuous {
		formula = fmt.Sprintf("%.4f = %.4f * %.6f^(%.6f * %s)", futureValue, -presentValue, math.E, rate, formatPeriods(periods))
		symbolicFormula = "fv = -pv * e^(rt)"
	} else {
		formula = fmt.Sprintf("%.4f = %.4f * (%.6f ^ %s)", futureValue, -presentValue, 1.0+rate, formatPeriods(periods))
		symbolicFormula = "fv = -pv * (1 + r)^n"
	}
	return newSolution(VariableFutureValue, continuous, rate, periods, presentValue, futureValue, formula, symbolicFormula), nil
}

func checkFutureValueParameters(rate, periods, presentValue float64) error {
	if err := validators.CheckRate("rate", rate); err != nil {
		return err
	}
	if err := validators.CheckPeriodsFinite("periods", periods); err != nil {
		return err
	}
	return validators.CheckValue("present_value", presentValue)
}

// formatPeriods печатает целое число периодов без дробной части
func formatPeriods(periods float64) string {
	if periods == math.Trunc(periods) {
		return fmt.Sprintf("%d", int64(periods))
	}
	return fmt.Sprintf("%.4f", periods)
}
