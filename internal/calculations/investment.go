package calculations

import (
	"math"

	"github.com/cloud-ru/mcp-tvm-go/internal/validators"
	"github.com/cloud-ru/mcp-tvm-go/pkg/utils"
)

// NetPresentValue чистая приведенная стоимость: начальное вложение (обычно отрицательное)
// плюс дисконтированные одинаковые поступления cashflow в конце каждого из periods периодов
func NetPresentValue(rate float64, periods uint32, initialInvestment, cashflow float64) (float64, error) {
	if err := validators.CheckValue("initial_investment", initialInvestment); err != nil {
		return 0, err
	}
	annuityValue, err := PresentValueAnnuity(rate, periods, cashflow, false)
	if err != nil {
		return 0, err
	}
	// PresentValueAnnuity возвращает сумму, которую нужно вложить; поступления имеют обратный знак
	return initialInvestment - annuityValue, nil
}

// NetPresentValueSchedule чистая приведенная стоимость неравных потоков.
// cashflows[0] относится к моменту 0, cashflows[k] дисконтируется по ставкам rates[0..k-1],
// поэтому len(rates) должна быть равна len(cashflows) - 1.
func NetPresentValueSchedule(rates, cashflows []float64) (float64, error) {
	if len(cashflows) == 0 {
		return 0, validators.InvalidValue("cashflows", "список потоков пуст")
	}
	if len(rates) != len(cashflows)-1 {
		return 0, validators.InvalidValue("rates", "ожидается %d ставок для %d потоков, получено %d",
			len(cashflows)-1, len(cashflows), len(rates))
	}
	if len(rates) > 0 {
		if err := validators.CheckSchedule(rates); err != nil {
			return 0, err
		}
	}
	for _, cashflow := range cashflows {
		if err := validators.CheckValue("cashflows", cashflow); err != nil {
			return 0, err
		}
	}

	npv := cashflows[0]
	discount := 1.0
	for k, rate := range rates {
		cashflow := cashflows[k+1]
		if rate == -1.0 || discount == 0 {
			// После ставки -100% дисконт не определен: допустимы только нулевые поступления
			if cashflow != 0 {
				return 0, validators.Unsatisfiable("rates",
					"в периоде %d ставка -100%%, поступление %g не приводится к моменту 0", k+1, cashflow)
			}
			discount = 0
			continue
		}
		discount /= 1.0 + rate
		npv += cashflow * discount
	}
	if !utils.IsFinite(npv) {
		return 0, validators.InvalidValue("net_present_value", "результат не является конечным числом")
	}
	return npv, nil
}

// GrowthMetrics показатели роста вклада с регулярными взносами
type GrowthMetrics struct {
	TotalInvested           float64 `json:"total_invested"`
	FinalValue              float64 `json:"final_value"`
	CapitalGain             float64 `json:"capital_gain"`
	ROIPercent              float64 `json:"roi_percent"`
	AnnualizedReturnPercent float64 `json:"annualized_return_percent"`
	ProfitPercent           float64 `json:"profit_percent"`
	Years                   float64 `json:"years"`
}

// InvestmentResult график вклада и его итоговые показатели
type InvestmentResult struct {
	Schedule      []DepositPeriod `json:"schedule"`
	GrowthMetrics GrowthMetrics   `json:"growth_metrics"`
}

// InvestmentGrowth рассчитывает рост вложения pv с регулярными взносами pmt.
// periodsPerYear нужен только для годовой доходности.
func InvestmentGrowth(cfg ConfigInterface, rate float64, periods uint32, presentValue, payment float64,
	contributionAtBeginning bool, periodsPerYear uint32) (*InvestmentResult, error) {
	if periodsPerYear == 0 {
		return nil, validators.InvalidValue("periods_per_year", "должно быть не меньше 1")
	}
	schedule, err := DepositSchedule(cfg, rate, periods, presentValue, payment, contributionAtBeginning)
	if err != nil {
		return nil, err
	}

	totalInvested := -presentValue - payment*float64(periods)
	finalValue := -presentValue
	var totalInterest float64
	if len(schedule) > 0 {
		last := schedule[len(schedule)-1]
		finalValue = last.EndingBalance
		totalInterest = last.CumulativeInterest
	}

	metrics := GrowthMetrics{
		TotalInvested: utils.Round2(totalInvested),
		FinalValue:    utils.Round2(finalValue),
		CapitalGain:   utils.Round2(finalValue - totalInvested),
		Years:         utils.Round2(float64(periods) / float64(periodsPerYear)),
	}
	if totalInvested > 0 {
		metrics.ROIPercent = utils.Round2((finalValue - totalInvested) / totalInvested * 100)
	}
	years := float64(periods) / float64(periodsPerYear)
	if years > 0 && totalInvested > 0 && finalValue > 0 {
		metrics.AnnualizedReturnPercent = utils.Round2((math.Pow(finalValue/totalInvested, 1.0/years) - 1.0) * 100)
	}
	if finalValue > 0 {
		metrics.ProfitPercent = utils.Round2(totalInterest / finalValue * 100)
	}

	return &InvestmentResult{
		Schedule:      schedule,
		GrowthMetrics: metrics,
	}, nil
}
