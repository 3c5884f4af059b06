package calculations

import (
	"fmt"
	"math"

	"github.com/cloud-ru/mcp-tvm-go/internal/metrics"
	"github.com/cloud-ru/mcp-tvm-go/internal/validators"
	"github.com/cloud-ru/mcp-tvm-go/pkg/utils"
)

// Payment возвращает постоянный платеж за период, при котором
// pv * (1 + r)^n + pmt * ((1 + r)^n - 1) / r + fv = 0.
// При оплате в начале периода знаменатель дополнительно умножается на (1 + r).
func Payment(rate float64, periods uint32, presentValue, futureValue float64, dueAtBeginning bool) (float64, error) {
	if err := checkPaymentParameters(rate, periods, presentValue, futureValue); err != nil {
		return 0, err
	}
	if periods == 0 {
		return 0, nil
	}
	if rate == 0 {
		// Процентов нет: платеж равен всей сумме, деленной на число периодов
		return (-presentValue - futureValue) / float64(periods), nil
	}

	rateMultiplier := 1.0 + rate
	growth := math.Pow(rateMultiplier, float64(periods))
	numerator := (presentValue*growth + futureValue) * -rate
	denominator := growth - 1.0
	if dueAtBeginning {
		denominator *= rateMultiplier
	}
	if !utils.IsFinite(numerator) || !utils.IsFinite(denominator) || denominator == 0 {
		return 0, validators.InvalidValue("rate", "знаменатель формулы платежа вырождается при ставке %g и %d периодах", rate, periods)
	}
	payment := numerator / denominator
	if !utils.IsFinite(payment) {
		return 0, validators.InvalidValue("payment", "результат не является конечным числом")
	}
	return payment, nil
}

// SolvePayment возвращает платеж вместе с итогами и формулами
func SolvePayment(rate float64, periods uint32, presentValue, futureValue float64, dueAtBeginning bool) (*PaymentSolution, error) {
	payment, err := Payment(rate, periods, presentValue, futureValue, dueAtBeginning)
	if err != nil {
		return nil, err
	}
	formula, symbolicFormula := paymentFormula(rate, periods, presentValue, futureValue, dueAtBeginning, payment)
	sumOfPayments := payment * float64(periods)
	s := &PaymentSolution{
		Rate:            rate,
		Periods:         periods,
		PresentValue:    presentValue,
		FutureValue:     futureValue,
		DueAtBeginning:  dueAtBeginning,
		Payment:         payment,
		SumOfPayments:   sumOfPayments,
		SumOfInterest:   sumOfPayments + presentValue + futureValue,
		Formula:         formula,
		SymbolicFormula: symbolicFormula,
	}
	assertInvariant(s.invariant)
	return s, nil
}

func (s *PaymentSolution) invariant() error {
	if !utils.ApproxEqual(s.SumOfPayments, s.Payment*float64(s.Periods)) {
		return fmt.Errorf("sum of payments %g does not match %g * %d", s.SumOfPayments, s.Payment, s.Periods)
	}
	if !utils.ApproxEqual(s.SumOfInterest, s.SumOfPayments+s.PresentValue+s.FutureValue) {
		return fmt.Errorf("sum of interest %g does not reconcile", s.SumOfInterest)
	}
	return nil
}

// Schedule раскладывает каждый платеж на основной долг и проценты
func (s *PaymentSolution) Schedule() ([]PaymentPeriod, error) {
	if s.DueAtBeginning && s.Rate != 0 && s.FutureValue != 0 {
		return nil, validators.Unsatisfiable("future_value",
			"при оплате в начале периода разложение на основной долг и проценты строится только для fv = 0")
	}
	principalTotal := -s.PresentValue - s.FutureValue
	schedule := make([]PaymentPeriod, 0, s.Periods)
	var paymentsToDate, principalToDate, interestToDate float64
	for period := uint32(1); period <= s.Periods; period++ {
		outstanding := s.PresentValue + principalToDate
		var interest float64
		var formula, symbolicFormula string
		if s.DueAtBeginning && period == 1 {
			// Первый платеж вносится сразу, проценты еще не начислены
			formula, symbolicFormula = "0", "interest = 0"
		} else {
			interest = -outstanding * s.Rate
			formula = fmt.Sprintf("%.4f = -(%.4f * %.6f)", interest, outstanding, s.Rate)
			symbolicFormula = "interest = -(principal * rate)"
		}
		principal := s.Payment - interest
		paymentsToDate += s.Payment
		principalToDate += principal
		interestToDate += interest
		schedule = append(schedule, PaymentPeriod{
			Period:             period,
			Rate:               s.Rate,
			DueAtBeginning:     s.DueAtBeginning,
			Payment:            s.Payment,
			PaymentsToDate:     paymentsToDate,
			PaymentsRemaining:  s.SumOfPayments - paymentsToDate,
			Principal:          principal,
			PrincipalToDate:    principalToDate,
			PrincipalRemaining: principalTotal - principalToDate,
			Interest:           interest,
			InterestToDate:     interestToDate,
			InterestRemaining:  s.SumOfInterest - interestToDate,
			Formula:            formula,
			SymbolicFormula:    symbolicFormula,
		})
	}
	metrics.SeriesPeriods.WithLabelValues("payment").Observe(float64(len(schedule)))
	assertInvariant(func() error { return s.scheduleInvariant(schedule) })
	return schedule, nil
}

func (s *PaymentSolution) scheduleInvariant(schedule []PaymentPeriod) error {
	for _, p := range schedule {
		if !utils.ApproxEqual(p.Principal+p.Interest, p.Payment) {
			return fmt.Errorf("period %d: principal %g + interest %g != payment %g", p.Period, p.Principal, p.Interest, p.Payment)
		}
	}
	if len(schedule) == 0 {
		return nil
	}
	last := schedule[len(schedule)-1]
	tolerance := math.Max(1.0, math.Abs(s.PresentValue)+math.Abs(s.FutureValue)) * 1e-6
	for name, remaining := range map[string]float64{
		"payments":  last.PaymentsRemaining,
		"principal": last.PrincipalRemaining,
		"interest":  last.InterestRemaining,
	} {
		if math.Abs(remaining) > tolerance {
			return fmt.Errorf("%s remaining %g after the last period", name, remaining)
		}
	}
	return nil
}

func checkPaymentParameters(rate float64, periods uint32, presentValue, futureValue float64) error {
	if err := validators.CheckRateAboveMinusOne("rate", rate); err != nil {
		return err
	}
	if err := validators.CheckValue("present_value", presentValue); err != nil {
		return err
	}
	if err := validators.CheckValue("future_value", futureValue); err != nil {
		return err
	}
	if periods == 0 && !utils.ApproxZero(presentValue+futureValue) {
		return validators.Unsatisfiable("periods",
			"периодов нет, а pv + fv = %g, платеж вычислить нельзя", presentValue+futureValue)
	}
	return nil
}

func paymentFormula(rate float64, periods uint32, presentValue, futureValue float64, dueAtBeginning bool, payment float64) (string, string) {
	var formula, symbolicFormula string
	rateMultiplier := 1.0 + rate
	switch {
	case periods == 0:
		formula, symbolicFormula = fmt.Sprintf("%.4f", 0.0), "0"
	case rate == 0:
		switch {
		case futureValue == 0:
			formula, symbolicFormula = fmt.Sprintf("%.4f / %d", -presentValue, periods), "-pv / n"
		case presentValue == 0:
			formula, symbolicFormula = fmt.Sprintf("%.4f / %d", -futureValue, periods), "-fv / n"
		default:
			formula = fmt.Sprintf("(%.4f %s) / %d", -presentValue, signedTerm(-futureValue), periods)
			symbolicFormula = "(-pv - fv) / n"
		}
	default:
		var numerator, symbolicNumerator string
		switch {
		case futureValue == 0:
			numerator = fmt.Sprintf("(%.4f * %.6f^%d * %.6f)", presentValue, rateMultiplier, periods, -rate)
			symbolicNumerator = "(pv * (1 + r)^n * -r)"
		case presentValue == 0:
			numerator = fmt.Sprintf("(%.4f * %.6f)", futureValue, -rate)
			symbolicNumerator = "(fv * -r)"
		default:
			numerator = fmt.Sprintf("(((%.4f * %.6f^%d) %s) * %.6f)", presentValue, rateMultiplier, periods, signedTerm(futureValue), -rate)
			symbolicNumerator = "(((pv * (1 + r)^n) + fv) * -r)"
		}
		denominator := fmt.Sprintf("(%.6f^%d - 1)", rateMultiplier, periods)
		symbolicDenominator := "((1 + r)^n - 1)"
		if dueAtBeginning {
			denominator = fmt.Sprintf("(%s * %.6f)", denominator, rateMultiplier)
			symbolicDenominator = fmt.Sprintf("(%s * (1 + r))", symbolicDenominator)
		}
		formula = numerator + " / " + denominator
		symbolicFormula = symbolicNumerator + " / " + symbolicDenominator
	}
	return fmt.Sprintf("%.4f = %s", payment, formula), "pmt = " + symbolicFormula
}

// signedTerm печатает слагаемое со знаком: "+ 25.0000" или "- 25.0000"
func signedTerm(value float64) string {
	if value < 0 {
		return fmt.Sprintf("- %.4f", -value)
	}
	return fmt.Sprintf("+ %.4f", value)
}
