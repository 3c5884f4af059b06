package calculations

import (
	"fmt"

	"github.com/cloud-ru/mcp-tvm-go/internal/metrics"
	"github.com/cloud-ru/mcp-tvm-go/internal/validators"
)

// DifferentialSchedule график дифференцированного погашения: основной долг гасится
// равными частями, проценты начисляются на остаток, поэтому платеж убывает.
// Знаки те же, что у Schedule: полученный кредит pv > 0, платежи отрицательны.
func DifferentialSchedule(rate float64, periods uint32, presentValue float64) ([]PaymentPeriod, error) {
	if err := validators.CheckRateAboveMinusOne("rate", rate); err != nil {
		return nil, err
	}
	if err := validators.CheckValue("present_value", presentValue); err != nil {
		return nil, err
	}
	if periods == 0 {
		if presentValue != 0 {
			return nil, validators.Unsatisfiable("periods", "периодов нет, а pv = %g, долг погасить нельзя", presentValue)
		}
		return []PaymentPeriod{}, nil
	}

	n := float64(periods)
	principalPart := -presentValue / n
	schedule := make([]PaymentPeriod, 0, periods)
	var paymentsToDate, principalToDate, interestToDate float64
	for period := uint32(1); period <= periods; period++ {
		outstanding := presentValue + principalToDate
		principal := principalPart
		if period == periods {
			// Последний платеж закрывает остаток целиком
			principal = -outstanding
		}
		interest := -outstanding * rate
		payment := principal + interest
		paymentsToDate += payment
		principalToDate += principal
		interestToDate += interest
		schedule = append(schedule, PaymentPeriod{
			Period:          period,
			Rate:            rate,
			Payment:         payment,
			PaymentsToDate:  paymentsToDate,
			Principal:       principal,
			PrincipalToDate: principalToDate,
			Interest:        interest,
			InterestToDate:  interestToDate,
			Formula:         fmt.Sprintf("%.4f = %.4f - (%.4f * %.6f)", payment, principal, outstanding, rate),
			SymbolicFormula: "payment = -(pv / n) - (principal * rate)",
		})
	}
	for i := range schedule {
		schedule[i].PaymentsRemaining = paymentsToDate - schedule[i].PaymentsToDate
		schedule[i].PrincipalRemaining = principalToDate - schedule[i].PrincipalToDate
		schedule[i].InterestRemaining = interestToDate - schedule[i].InterestToDate
	}
	metrics.SeriesPeriods.WithLabelValues("differential").Observe(float64(len(schedule)))
	return schedule, nil
}
