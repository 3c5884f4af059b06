package calculations

import (
	"fmt"
	"math"

	"github.com/cloud-ru/mcp-tvm-go/internal/validators"
	"github.com/cloud-ru/mcp-tvm-go/pkg/utils"
)

// Rate возвращает ставку за период, при которой pv за periods периодов превращается в -fv
func Rate(periods uint32, presentValue, futureValue float64, continuous bool) (float64, error) {
	rate, _, err := rateInternal(periods, presentValue, futureValue, continuous)
	return rate, err
}

// RateSolution возвращает ставку за период вместе с формулами
func RateSolution(periods uint32, presentValue, futureValue float64, continuous bool) (*TvmSolution, error) {
	rate, special, err := rateInternal(periods, presentValue, futureValue, continuous)
	if err != nil {
		return nil, err
	}
	var formula, symbolicFormula string
	switch {
	case special == specialZeroSum:
		formula = fmt.Sprintf("%.6f = {pv + fv = 0, подходит любая ставка}", rate)
		symbolicFormula = "r = 0 if pv + fv = 0"
	case special == specialTotalLoss:
		formula = fmt.Sprintf("%.6f = {fv = 0, полная потеря}", rate)
		symbolicFormula = "r = -1 if fv = 0"
	case continuous:
		formula = fmt.Sprintf("%.6f = ln(%.4f / %.4f) / %d", rate, -futureValue, presentValue, periods)
		symbolicFormula = "r = ln(-fv / pv) / t"
	default:
		formula = fmt.Sprintf("%.6f = ((%.4f / %.4f) ^ (1 / %d)) - 1", rate, -futureValue, presentValue, periods)
		symbolicFormula = "r = ((-fv / pv) ^ (1 / n)) - 1"
	}
	return newSolution(VariableRate, continuous, rate, float64(periods), presentValue, futureValue, formula, symbolicFormula), nil
}

type specialCase int

const (
	specialNone specialCase = iota
	specialZeroSum
	specialTotalLoss
)

func rateInternal(periods uint32, presentValue, futureValue float64, continuous bool) (float64, specialCase, error) {
	if err := validators.CheckValue("present_value", presentValue); err != nil {
		return 0, specialNone, err
	}
	if err := validators.CheckValue("future_value", futureValue); err != nil {
		return 0, specialNone, err
	}
	if utils.ApproxZero(presentValue + futureValue) {
		// Вырожденный случай: подходит любая ставка
		return 0, specialZeroSum, nil
	}
	if futureValue == 0 {
		if continuous {
			return 0, specialNone, validators.Unsatisfiable("future_value",
				"при непрерывном начислении вложение не обнуляется ни при какой ставке")
		}
		if periods == 0 {
			return 0, specialNone, validators.Unsatisfiable("periods",
				"за ноль периодов ненулевая текущая стоимость не может обнулиться")
		}
		// Полная потеря вложения
		return -1.0, specialTotalLoss, nil
	}
	if err := checkRateParameters(periods, presentValue, futureValue); err != nil {
		return 0, specialNone, err
	}

	var rate float64
	if continuous {
		rate = math.Log(-futureValue/presentValue) / float64(periods)
	} else {
		rate = math.Pow(-futureValue/presentValue, 1.0/float64(periods)) - 1.0
	}
	if !utils.IsFinite(rate) {
		return 0, specialNone, validators.InvalidRate("rate", "результат не является конечным числом")
	}
	return rate, specialNone, nil
}

func checkRateParameters(periods uint32, presentValue, futureValue float64) error {
	if utils.ApproxZero(presentValue) {
		return validators.Unsatisfiable("present_value",
			"текущая стоимость равна нулю, а будущая нет: ставку найти невозможно")
	}
	if presentValue < 0 && futureValue < 0 {
		return validators.Unsatisfiable("future_value", "текущая и будущая стоимость отрицательны, знаки должны быть противоположны")
	}
	if presentValue > 0 && futureValue > 0 {
		return validators.Unsatisfiable("future_value", "текущая и будущая стоимость положительны, знаки должны быть противоположны")
	}
	if periods == 0 {
		return validators.Unsatisfiable("periods",
			"количество периодов равно нулю, а pv + fv не равно нулю: ставку найти невозможно")
	}
	return nil
}
