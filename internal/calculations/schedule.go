package calculations

import (
	"github.com/cloud-ru/mcp-tvm-go/internal/validators"
	"github.com/cloud-ru/mcp-tvm-go/pkg/utils"
)

// FutureValueSchedule последовательно наращивает текущую стоимость по ставкам каждого периода.
// Поддерживается только обычное (дискретное) начисление.
func FutureValueSchedule(rates []float64, presentValue float64) (float64, error) {
	if err := validators.CheckSchedule(rates); err != nil {
		return 0, err
	}
	if err := validators.CheckValue("present_value", presentValue); err != nil {
		return 0, err
	}
	futureValue := -presentValue
	for _, rate := range rates {
		futureValue *= 1.0 + rate
	}
	if !utils.IsFinite(futureValue) {
		return 0, validators.InvalidValue("future_value", "результат не является конечным числом")
	}
	return futureValue, nil
}

// FutureValueScheduleSolution то же, что FutureValueSchedule, но возвращает решение с рядом
func FutureValueScheduleSolution(rates []float64, presentValue float64) (*ScheduleSolution, error) {
	futureValue, err := FutureValueSchedule(rates, presentValue)
	if err != nil {
		return nil, err
	}
	return newScheduleSolution(VariableFutureValue, rates, presentValue, futureValue), nil
}

// PresentValueSchedule дисконтирует будущую стоимость по ставкам периодов в обратном порядке
func PresentValueSchedule(rates []float64, futureValue float64) (float64, error) {
	if err := validators.CheckSchedule(rates); err != nil {
		return 0, err
	}
	if err := validators.CheckValue("future_value", futureValue); err != nil {
		return 0, err
	}
	if futureValue == 0 {
		return 0, nil
	}
	presentValue := -futureValue
	for i := len(rates) - 1; i >= 0; i-- {
		if rates[i] == -1.0 {
			return 0, validators.Unsatisfiable("rates",
				"в периоде %d ставка -100%%, ненулевая будущая стоимость недостижима", i+1)
		}
		presentValue /= 1.0 + rates[i]
	}
	if !utils.IsFinite(presentValue) {
		return 0, validators.InvalidValue("present_value", "результат не является конечным числом")
	}
	return presentValue, nil
}

// PresentValueScheduleSolution то же, что PresentValueSchedule, но возвращает решение с рядом
func PresentValueScheduleSolution(rates []float64, futureValue float64) (*ScheduleSolution, error) {
	presentValue, err := PresentValueSchedule(rates, futureValue)
	if err != nil {
		return nil, err
	}
	return newScheduleSolution(VariablePresentValue, rates, presentValue, futureValue), nil
}

// Series восстанавливает значения на конец каждого периода графика ставок
func (s *ScheduleSolution) Series() PeriodSeries {
	return buildSeries(s.SolvedVariable, false, s.Rates, float64(len(s.Rates)), s.PresentValue, s.FutureValue)
}
