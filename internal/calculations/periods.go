package calculations

import (
	"fmt"
	"math"

	"github.com/cloud-ru/mcp-tvm-go/internal/validators"
	"github.com/cloud-ru/mcp-tvm-go/pkg/utils"
)

// Periods возвращает дробное количество периодов, за которое pv превращается в -fv.
// Для целого числа периодов результат округляется вверх.
func Periods(rate, presentValue, futureValue float64, continuous bool) (float64, error) {
	return periodsInternal(rate, presentValue, futureValue, continuous)
}

// PeriodsSolution возвращает количество периодов вместе с формулами
func PeriodsSolution(rate, presentValue, futureValue float64, continuous bool) (*TvmSolution, error) {
	fractionalPeriods, err := periodsInternal(rate, presentValue, futureValue, continuous)
	if err != nil {
		return nil, err
	}
	var formula, symbolicFormula string
	switch {
	case utils.ApproxZero(presentValue + futureValue):
		formula = fmt.Sprintf("%.2f = {pv + fv = 0}", fractionalPeriods)
		symbolicFormula = "n = 0 if pv + fv = 0"
	case futureValue == 0:
		formula = fmt.Sprintf("%.2f = {r = -1, fv = 0}", fractionalPeriods)
		symbolicFormula = "n = 1 if r = -1 and fv = 0"
	case continuous:
		formula = fmt.Sprintf("%.2f = ln(%.4f / %.4f) / %.6f", fractionalPeriods, -futureValue, presentValue, rate)
		symbolicFormula = "n = ln(-fv / pv) / r"
	default:
		formula = fmt.Sprintf("%.2f = log(%.4f / %.4f, base %.6f)", fractionalPeriods, -futureValue, presentValue, 1.0+rate)
		symbolicFormula = "n = log(-fv / pv, base (1 + r))"
	}
	return newSolution(VariablePeriods, continuous, rate, fractionalPeriods, presentValue, futureValue, formula, symbolicFormula), nil
}

func periodsInternal(rate, presentValue, futureValue float64, continuous bool) (float64, error) {
	if err := validators.CheckRate("rate", rate); err != nil {
		return 0, err
	}
	if err := validators.CheckValue("present_value", presentValue); err != nil {
		return 0, err
	}
	if err := validators.CheckValue("future_value", futureValue); err != nil {
		return 0, err
	}
	if utils.ApproxZero(presentValue + futureValue) {
		// Вырожденный случай, включая pv = fv = 0: периоды не нужны
		return 0, nil
	}
	if futureValue == 0 && rate == -1.0 && !continuous {
		// Ставка -100%: любая ненулевая сумма обнуляется ровно за один период
		return 1, nil
	}
	if err := checkPeriodsParameters(rate, presentValue, futureValue, continuous); err != nil {
		return 0, err
	}

	var fractionalPeriods float64
	if continuous {
		fractionalPeriods = math.Log(-futureValue/presentValue) / rate
	} else {
		fractionalPeriods = math.Log(-futureValue/presentValue) / math.Log(1.0+rate)
	}
	if !utils.IsFinite(fractionalPeriods) || fractionalPeriods < 0 {
		return 0, validators.Unsatisfiable("periods", "количество периодов получилось некорректным (%g)", fractionalPeriods)
	}
	if math.Ceil(utils.Round4(fractionalPeriods)) > math.MaxUint32 {
		return 0, validators.Unsatisfiable("periods",
			"количество периодов %g больше допустимого %d", fractionalPeriods, uint32(math.MaxUint32))
	}
	return fractionalPeriods, nil
}

func checkPeriodsParameters(rate, presentValue, futureValue float64, continuous bool) error {
	if presentValue == 0 && futureValue != 0 {
		return validators.Unsatisfiable("present_value",
			"текущая стоимость равна нулю, а будущая нет: количество периодов найти невозможно")
	}
	if futureValue == 0 {
		return validators.Unsatisfiable("future_value",
			"будущая стоимость равна нулю, это возможно только при ставке ровно -100%% и обычном начислении")
	}
	if presentValue < 0 && futureValue < 0 {
		return validators.Unsatisfiable("future_value", "текущая и будущая стоимость отрицательны, знаки должны быть противоположны")
	}
	if presentValue > 0 && futureValue > 0 {
		return validators.Unsatisfiable("future_value", "текущая и будущая стоимость положительны, знаки должны быть противоположны")
	}
	if math.Abs(presentValue) < math.Abs(futureValue) && rate <= 0 {
		return validators.Unsatisfiable("rate",
			"|pv| < |fv| при неположительной ставке: никакое начисление не достигнет будущей стоимости")
	}
	if math.Abs(presentValue) > math.Abs(futureValue) && rate >= 0 {
		return validators.Unsatisfiable("rate",
			"|pv| > |fv| при неотрицательной ставке: никакое начисление не достигнет будущей стоимости")
	}
	if !continuous && rate == -1.0 {
		return validators.Unsatisfiable("rate", "при ставке -100%% вложение обнуляется за один период")
	}
	return nil
}
