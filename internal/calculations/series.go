package calculations

import (
	"fmt"
	"math"
	"slices"

	"github.com/cloud-ru/mcp-tvm-go/internal/metrics"
)

// Series восстанавливает значение вложения на конец каждого периода.
// Элемент 0 равен -pv, последний элемент равен fv независимо от того, какая величина вычислялась.
func (s *TvmSolution) Series() PeriodSeries {
	rates := make([]float64, s.Periods)
	for i := range rates {
		rates[i] = s.Rate
	}
	return buildSeries(s.SolvedVariable, s.Continuous, rates, s.FractionalPeriods, s.PresentValue, s.FutureValue)
}

// Filter возвращает новый ряд из элементов, для которых predicate вернул true
func (ps PeriodSeries) Filter(predicate func(Period) bool) PeriodSeries {
	filtered := make(PeriodSeries, 0, len(ps))
	for _, p := range ps {
		if predicate(p) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// First возвращает начальный элемент ряда
func (ps PeriodSeries) First() Period {
	return ps[0]
}

// Last возвращает конечный элемент ряда
func (ps PeriodSeries) Last() Period {
	return ps[len(ps)-1]
}

func buildSeries(variable SolvedVariable, continuous bool, rates []float64, fractionalPeriods, presentValue, futureValue float64) PeriodSeries {
	// Неполный последний период: прямой расчет не совпадет с границей, ее берем как есть
	fractional := fractionalPeriods != float64(len(rates))
	var series PeriodSeries
	if variable == VariablePresentValue {
		series = backwardSeries(continuous, rates, fractional, presentValue, futureValue)
	} else {
		series = forwardSeries(continuous, rates, variable == VariablePeriods || fractional, presentValue, futureValue)
	}
	metrics.SeriesPeriods.WithLabelValues("tvm").Observe(float64(len(rates)))
	return series
}

// forwardSeries идет от -pv вперед, умножая на (1 + r) или e^r
func forwardSeries(continuous bool, rates []float64, pinLast bool, presentValue, futureValue float64) PeriodSeries {
	periods := len(rates)
	series := make(PeriodSeries, 0, periods+1)
	value := -presentValue
	series = append(series, Period{Index: 0, Rate: 0, Value: value, Formula: fmt.Sprintf("%.4f", value), SymbolicFormula: "value = -pv"})
	for period := 1; period <= periods; period++ {
		rate := rates[period-1]
		prev := value
		var entry Period
		switch {
		case pinLast && period == periods:
			value = futureValue
			entry = Period{Formula: fmt.Sprintf("%.4f", value), SymbolicFormula: "value = fv"}
		case continuous:
			value = prev * math.Exp(rate)
			entry = Period{
				Formula:         fmt.Sprintf("%.4f = %.4f * (%.6f ^ %.6f)", value, prev, math.E, rate),
				SymbolicFormula: "value = {previous period value} * e^r",
			}
		default:
			value = prev * (1.0 + rate)
			entry = Period{
				Formula:         fmt.Sprintf("%.4f = %.4f * %.6f", value, prev, 1.0+rate),
				SymbolicFormula: "value = {previous period value} * (1 + r)",
			}
		}
		entry.Index = uint32(period)
		entry.Rate = rate
		entry.Value = value
		series = append(series, entry)
	}
	return series
}

// backwardSeries идет от fv назад, деля на (1 + r) или e^r; строится в обратном порядке и разворачивается один раз
func backwardSeries(continuous bool, rates []float64, pinFirst bool, presentValue, futureValue float64) PeriodSeries {
	periods := len(rates)
	series := make(PeriodSeries, 0, periods+1)
	value := futureValue
	var lastRate float64
	if periods > 0 {
		lastRate = rates[periods-1]
	}
	series = append(series, Period{Index: uint32(periods), Rate: lastRate, Value: value, Formula: fmt.Sprintf("%.4f", value), SymbolicFormula: "value = fv"})
	for period := periods - 1; period >= 0; period-- {
		nextRate := rates[period]
		next := value
		var rate float64
		if period > 0 {
			rate = rates[period-1]
		}
		var entry Period
		switch {
		case pinFirst && period == 0:
			value = -presentValue
			entry = Period{Formula: fmt.Sprintf("%.4f", value), SymbolicFormula: "value = -pv"}
		case continuous:
			value = next / math.Exp(nextRate)
			entry = Period{
				Formula:         fmt.Sprintf("%.4f = %.4f / (%.6f ^ %.6f)", value, next, math.E, nextRate),
				SymbolicFormula: "value = {next period value} / e^r",
			}
		case nextRate == -1.0:
			// Значение перед полной потерей не определено; ноль согласован с pv = 0
			value = 0
			entry = Period{Formula: fmt.Sprintf("%.4f", value), SymbolicFormula: "value = 0 if r = -1"}
		default:
			value = next / (1.0 + nextRate)
			entry = Period{
				Formula:         fmt.Sprintf("%.4f = %.4f / %.6f", value, next, 1.0+nextRate),
				SymbolicFormula: "value = {next period value} / (1 + r)",
			}
		}
		entry.Index = uint32(period)
		entry.Rate = rate
		entry.Value = value
		series = append(series, entry)
	}
	slices.Reverse(series)
	return series
}
