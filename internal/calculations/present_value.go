package calculations

import (
	"fmt"
	"math"

	"github.com/cloud-ru/mcp-tvm-go/internal/validators"
	"github.com/cloud-ru/mcp-tvm-go/pkg/utils"
)

// PresentValue возвращает текущую стоимость: pv = -fv / (1 + r)^n или pv = -fv / e^(r*n)
func PresentValue(rate float64, periods uint32, futureValue float64, continuous bool) (float64, error) {
	return presentValueInternal(rate, float64(periods), futureValue, continuous)
}

// PresentValueSolution возвращает текущую стоимость вместе с формулами
func PresentValueSolution(rate float64, periods uint32, futureValue float64, continuous bool) (*TvmSolution, error) {
	return presentValueSolutionInternal(rate, float64(periods), futureValue, continuous)
}

func presentValueInternal(rate, periods, futureValue float64, continuous bool) (float64, error) {
	if err := checkPresentValueParameters(rate, periods, futureValue, continuous); err != nil {
		return 0, err
	}
	if futureValue == 0 {
		// Остается только полная потеря при ставке -100%
		return 0, nil
	}
	if rate == 0 || periods == 0 {
		// Начисления нет, текущая стоимость равна будущей с обратным знаком
		return -futureValue, nil
	}
	var presentValue float64
	if continuous {
		presentValue = -futureValue / math.Exp(rate*periods)
	} else {
		presentValue = -futureValue / math.Pow(1.0+rate, periods)
	}
	if !utils.IsFinite(presentValue) {
		return 0, validators.InvalidValue("present_value", "результат не является конечным числом")
	}
	return presentValue, nil
}

func presentValueSolutionInternal(rate, periods, futureValue float64, continuous bool) (*TvmSolution, error) {
	presentValue, err := presentValueInternal(rate, periods, futureValue, continuous)
	if err != nil {
		return nil, err
	}
	var formula, symbolicFormula string
	if continuous {
		formula = fmt.Sprintf("%.4f = %.4f / %.6f^(%.6f * %s)", presentValue, -futureValue, math.E, rate, formatPeriods(periods))
		symbolicFormula = "pv = -fv / e^(rt)"
	} else {
		formula = fmt.Sprintf("%.4f = %.4f / (%.6f ^ %s)", presentValue, -futureValue, 1.0+rate, formatPeriods(periods))
		symbolicFormula = "pv = -fv / (1 + r)^n"
	}
	return newSolution(VariablePresentValue, continuous, rate, periods, presentValue, futureValue, formula, symbolicFormula), nil
}

func checkPresentValueParameters(rate, periods, futureValue float64, continuous bool) error {
	if err := validators.CheckRate("rate", rate); err != nil {
		return err
	}
	if err := validators.CheckPeriodsFinite("periods", periods); err != nil {
		return err
	}
	if err := validators.CheckValue("future_value", futureValue); err != nil {
		return err
	}
	totalLoss := !continuous && rate == -1.0
	if totalLoss && periods > 0 && futureValue != 0 {
		return validators.Unsatisfiable("future_value",
			"при ставке -100%% вложение обнуляется, ненулевая будущая стоимость %g недостижима", futureValue)
	}
	if !totalLoss && rate != 0 && periods > 0 && utils.ApproxZero(futureValue) {
		return validators.Unsatisfiable("future_value",
			"будущая стоимость равна нулю при ненулевой ставке и периодах: текущую стоимость не восстановить")
	}
	return nil
}
