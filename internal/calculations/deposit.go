package calculations

import (
	"fmt"
	"math"

	"github.com/cloud-ru/mcp-tvm-go/internal/metrics"
	"github.com/cloud-ru/mcp-tvm-go/internal/validators"
	"github.com/cloud-ru/mcp-tvm-go/pkg/utils"
)

// ConfigInterface определяет интерфейс для получения конфигурации
type ConfigInterface interface {
	ValueCap() float64
}

// AnnuitySolution текущая и будущая стоимость ряда одинаковых платежей
type AnnuitySolution struct {
	Rate           float64 `json:"rate"`
	Periods        uint32  `json:"periods"`
	Payment        float64 `json:"payment"`
	DueAtBeginning bool    `json:"due_at_beginning"`
	PresentValue   float64 `json:"present_value"`
	FutureValue    float64 `json:"future_value"`
	SumOfPayments  float64 `json:"sum_of_payments"`
	// SumOfInterest проценты, накопленные к концу срока: fv + сумма платежей
	SumOfInterest   float64 `json:"sum_of_interest"`
	Formula         string  `json:"formula"`
	SymbolicFormula string  `json:"symbolic_formula"`
}

// DepositPeriod движение по вкладу за один период
type DepositPeriod struct {
	Period                  uint32  `json:"period"`
	StartingBalance         float64 `json:"starting_balance"`
	Contribution            float64 `json:"contribution"`
	Interest                float64 `json:"interest"`
	EndingBalance           float64 `json:"ending_balance"`
	CumulativeContributions float64 `json:"cumulative_contributions"`
	CumulativeInterest      float64 `json:"cumulative_interest"`
}

// PresentValueAnnuity текущая стоимость ряда платежей pmt: -pmt * (1 - (1 + r)^-n) / r,
// при оплате в начале периода результат умножается на (1 + r)
func PresentValueAnnuity(rate float64, periods uint32, payment float64, dueAtBeginning bool) (float64, error) {
	if err := checkAnnuityParameters(rate, payment); err != nil {
		return 0, err
	}
	if rate == 0 {
		return -payment * float64(periods), nil
	}
	value := -payment * (1.0 - math.Pow(1.0+rate, -float64(periods))) / rate
	if dueAtBeginning {
		value *= 1.0 + rate
	}
	if !utils.IsFinite(value) {
		return 0, validators.InvalidValue("present_value", "результат не является конечным числом")
	}
	return value, nil
}

// FutureValueAnnuity будущая стоимость ряда платежей pmt: -pmt * ((1 + r)^n - 1) / r,
// при оплате в начале периода результат умножается на (1 + r)
func FutureValueAnnuity(rate float64, periods uint32, payment float64, dueAtBeginning bool) (float64, error) {
	if err := checkAnnuityParameters(rate, payment); err != nil {
		return 0, err
	}
	if rate == 0 {
		return -payment * float64(periods), nil
	}
	value := -payment * (math.Pow(1.0+rate, float64(periods)) - 1.0) / rate
	if dueAtBeginning {
		value *= 1.0 + rate
	}
	if !utils.IsFinite(value) {
		return 0, validators.InvalidValue("future_value", "результат не является конечным числом")
	}
	return value, nil
}

// AnnuityValueSolution текущая и будущая стоимость аннуитета вместе с формулами
func AnnuityValueSolution(rate float64, periods uint32, payment float64, dueAtBeginning bool) (*AnnuitySolution, error) {
	presentValue, err := PresentValueAnnuity(rate, periods, payment, dueAtBeginning)
	if err != nil {
		return nil, err
	}
	futureValue, err := FutureValueAnnuity(rate, periods, payment, dueAtBeginning)
	if err != nil {
		return nil, err
	}
	due := 0.0
	if dueAtBeginning {
		due = 1.0
	}
	sumOfPayments := payment * float64(periods)
	formula := fmt.Sprintf("%.4f = %.4f * ((1 - (1 / %.6f)^%d) / %.6f) * (1 + (%.6f * %g))", presentValue, -payment, 1.0+rate, periods, rate, rate, due)
	symbolicFormula := "pv = -pmt * ((1 - (1 / (1 + r))^n) / r) * (1 + (r * due))"
	if rate == 0 {
		formula = fmt.Sprintf("%.4f = %.4f * %d", presentValue, -payment, periods)
		symbolicFormula = "pv = -pmt * n"
	}
	return &AnnuitySolution{
		Rate:            rate,
		Periods:         periods,
		Payment:         payment,
		DueAtBeginning:  dueAtBeginning,
		PresentValue:    presentValue,
		FutureValue:     futureValue,
		SumOfPayments:   sumOfPayments,
		SumOfInterest:   futureValue + sumOfPayments,
		Formula:         formula,
		SymbolicFormula: symbolicFormula,
	}, nil
}

// DepositSchedule рассчитывает график вклада с капитализацией.
// Вложенная сумма pv и взносы pmt отрицательны (деньги уходят от вкладчика), баланс положителен.
// Итоговый баланс совпадает с fv, для которой Payment(rate, periods, pv, fv, due) = pmt.
func DepositSchedule(cfg ConfigInterface, rate float64, periods uint32, presentValue, payment float64,
	contributionAtBeginning bool) ([]DepositPeriod, error) {
	if err := checkAnnuityParameters(rate, payment); err != nil {
		return nil, err
	}
	if err := validators.CheckValue("present_value", presentValue); err != nil {
		return nil, err
	}

	balance := -presentValue
	contribution := -payment
	balanceCap := cfg.ValueCap()
	schedule := make([]DepositPeriod, 0, periods)
	var cumulativeContributions, cumulativeInterest float64

	for period := uint32(1); period <= periods; period++ {
		starting := balance

		if contributionAtBeginning {
			balance += contribution
			cumulativeContributions += contribution
		}

		interest := balance * rate
		balance += interest
		cumulativeInterest += interest

		if !contributionAtBeginning {
			balance += contribution
			cumulativeContributions += contribution
		}

		if math.Abs(balance) > balanceCap || !utils.IsFinite(balance) {
			return nil, validators.InvalidValue("future_value",
				"итоговый баланс превысил верхнюю границу %g (проверьте ставку/срок/взносы)", balanceCap)
		}

		schedule = append(schedule, DepositPeriod{
			Period:                  period,
			StartingBalance:         starting,
			Contribution:            contribution,
			Interest:                interest,
			EndingBalance:           balance,
			CumulativeContributions: cumulativeContributions,
			CumulativeInterest:      cumulativeInterest,
		})
	}
	metrics.SeriesPeriods.WithLabelValues("deposit").Observe(float64(len(schedule)))
	return schedule, nil
}

func checkAnnuityParameters(rate, payment float64) error {
	if err := validators.CheckRateAboveMinusOne("rate", rate); err != nil {
		return err
	}
	return validators.CheckValue("payment", payment)
}
