package calculations

import (
	"github.com/cloud-ru/mcp-tvm-go/internal/validators"
)

// RateSolution пересчитывает ставку при тех же pv и fv.
// compoundingPeriods == 0 оставляет текущее число периодов.
func (s *TvmSolution) RateSolution(continuous bool, compoundingPeriods uint32) (*TvmSolution, error) {
	periods := s.Periods
	if compoundingPeriods != 0 {
		periods = compoundingPeriods
	}
	return RateSolution(periods, s.PresentValue, s.FutureValue, continuous)
}

// PeriodsSolution пересчитывает число периодов при той же ставке, pv и fv
func (s *TvmSolution) PeriodsSolution(continuous bool) (*TvmSolution, error) {
	return PeriodsSolution(s.Rate, s.PresentValue, s.FutureValue, continuous)
}

// PresentValueSolution пересчитывает текущую стоимость при той же fv.
// Если задано compoundingPeriods, ставка за весь срок делится на новое число периодов.
func (s *TvmSolution) PresentValueSolution(continuous bool, compoundingPeriods uint32) (*TvmSolution, error) {
	rate, periods := s.rescale(compoundingPeriods)
	return presentValueSolutionInternal(rate, periods, s.FutureValue, continuous)
}

// FutureValueSolution пересчитывает будущую стоимость при той же pv.
// Если задано compoundingPeriods, ставка за весь срок делится на новое число периодов.
func (s *TvmSolution) FutureValueSolution(continuous bool, compoundingPeriods uint32) (*TvmSolution, error) {
	rate, periods := s.rescale(compoundingPeriods)
	return futureValueSolutionInternal(rate, periods, s.PresentValue, continuous)
}

// Resolve решает заново относительно variable, удерживая остальные три величины
func (s *TvmSolution) Resolve(variable SolvedVariable, continuous bool, compoundingPeriods uint32) (*TvmSolution, error) {
	switch variable {
	case VariableRate:
		return s.RateSolution(continuous, compoundingPeriods)
	case VariablePeriods:
		return s.PeriodsSolution(continuous)
	case VariablePresentValue:
		return s.PresentValueSolution(continuous, compoundingPeriods)
	case VariableFutureValue:
		return s.FutureValueSolution(continuous, compoundingPeriods)
	}
	return nil, validators.InvalidParameter("variable", "неизвестная переменная %s", variable)
}

// rescale сохраняет ставку за весь срок: rate * fractional_periods = new_rate * n
func (s *TvmSolution) rescale(compoundingPeriods uint32) (float64, float64) {
	if compoundingPeriods == 0 || float64(compoundingPeriods) == s.FractionalPeriods {
		return s.Rate, s.FractionalPeriods
	}
	rateForSingleSpan := s.Rate * s.FractionalPeriods
	return rateForSingleSpan / float64(compoundingPeriods), float64(compoundingPeriods)
}
