package calculations

import (
	"fmt"
	"math"

	"github.com/cloud-ru/mcp-tvm-go/pkg/utils"
)

// SolvedVariable определяет, какая из четырех величин TVM была вычислена
type SolvedVariable int

const (
	VariableRate SolvedVariable = iota
	VariablePeriods
	VariablePresentValue
	VariableFutureValue
)

func (v SolvedVariable) String() string {
	switch v {
	case VariableRate:
		return "rate"
	case VariablePeriods:
		return "periods"
	case VariablePresentValue:
		return "present_value"
	case VariableFutureValue:
		return "future_value"
	default:
		return fmt.Sprintf("SolvedVariable(%d)", int(v))
	}
}

// MarshalText сериализует переменную в ее имя
func (v SolvedVariable) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// ParseSolvedVariable разбирает имя переменной
func ParseSolvedVariable(name string) (SolvedVariable, error) {
	switch name {
	case "rate":
		return VariableRate, nil
	case "periods":
		return VariablePeriods, nil
	case "present_value":
		return VariablePresentValue, nil
	case "future_value":
		return VariableFutureValue, nil
	}
	return 0, fmt.Errorf("unknown variable %q", name)
}

// TvmSolution результат расчета с фиксированной ставкой.
// Создается решателем и после этого не изменяется.
type TvmSolution struct {
	SolvedVariable    SolvedVariable `json:"solved_variable"`
	Continuous        bool           `json:"continuous_compounding"`
	Rate              float64        `json:"rate"`
	Periods           uint32         `json:"periods"`
	FractionalPeriods float64        `json:"fractional_periods"`
	PresentValue      float64        `json:"present_value"`
	FutureValue       float64        `json:"future_value"`
	Formula           string         `json:"formula"`
	SymbolicFormula   string         `json:"symbolic_formula"`
}

func newSolution(variable SolvedVariable, continuous bool, rate, fractionalPeriods, presentValue, futureValue float64, formula, symbolicFormula string) *TvmSolution {
	s := &TvmSolution{
		SolvedVariable:    variable,
		Continuous:        continuous,
		Rate:              rate,
		Periods:           roundFractionalPeriods(fractionalPeriods),
		FractionalPeriods: fractionalPeriods,
		PresentValue:      presentValue,
		FutureValue:       futureValue,
		Formula:           formula,
		SymbolicFormula:   symbolicFormula,
	}
	assertInvariant(s.invariant)
	return s
}

// roundFractionalPeriods округляет вверх: неполный последний период все равно идет.
// Решатели не выпускают fractionalPeriods, чей потолок не помещается в uint32.
func roundFractionalPeriods(fractionalPeriods float64) uint32 {
	return uint32(math.Ceil(utils.Round4(fractionalPeriods)))
}

func (s *TvmSolution) invariant() error {
	switch {
	case !utils.IsFinite(s.Rate) || s.Rate < -1.0:
		return fmt.Errorf("rate %g out of domain", s.Rate)
	case !utils.IsFinite(s.FractionalPeriods) || s.FractionalPeriods < 0:
		return fmt.Errorf("fractional periods %g out of domain", s.FractionalPeriods)
	case float64(s.Periods) != math.Ceil(utils.Round4(s.FractionalPeriods)):
		return fmt.Errorf("periods %d do not match fractional periods %g", s.Periods, s.FractionalPeriods)
	case !utils.IsFinite(s.PresentValue) || !utils.IsFinite(s.FutureValue):
		return fmt.Errorf("present value %g or future value %g is not finite", s.PresentValue, s.FutureValue)
	case s.Formula == "" || s.SymbolicFormula == "":
		return fmt.Errorf("empty formula")
	}
	return nil
}

// ScheduleSolution результат расчета со ставкой, меняющейся по периодам
type ScheduleSolution struct {
	SolvedVariable SolvedVariable `json:"solved_variable"`
	Rates          []float64      `json:"rates"`
	Periods        uint32         `json:"periods"`
	PresentValue   float64        `json:"present_value"`
	FutureValue    float64        `json:"future_value"`
}

func newScheduleSolution(variable SolvedVariable, rates []float64, presentValue, futureValue float64) *ScheduleSolution {
	s := &ScheduleSolution{
		SolvedVariable: variable,
		Rates:          append([]float64(nil), rates...),
		Periods:        uint32(len(rates)),
		PresentValue:   presentValue,
		FutureValue:    futureValue,
	}
	assertInvariant(s.invariant)
	return s
}

func (s *ScheduleSolution) invariant() error {
	if s.SolvedVariable != VariablePresentValue && s.SolvedVariable != VariableFutureValue {
		return fmt.Errorf("schedule cannot solve for %s", s.SolvedVariable)
	}
	if int(s.Periods) != len(s.Rates) {
		return fmt.Errorf("periods %d do not match %d rates", s.Periods, len(s.Rates))
	}
	for i, rate := range s.Rates {
		if !utils.IsFinite(rate) || rate < -1.0 {
			return fmt.Errorf("rate %d (%g) out of domain", i+1, rate)
		}
	}
	if !utils.IsFinite(s.PresentValue) || !utils.IsFinite(s.FutureValue) {
		return fmt.Errorf("present value %g or future value %g is not finite", s.PresentValue, s.FutureValue)
	}
	return nil
}

// Period значение вложения на конец одного периода
type Period struct {
	Index           uint32  `json:"period"`
	Rate            float64 `json:"rate"`
	Value           float64 `json:"value"`
	Formula         string  `json:"formula"`
	SymbolicFormula string  `json:"symbolic_formula"`
}

// PeriodSeries ряд значений: индекс 0 начальное значение, последний элемент конечное
type PeriodSeries []Period

// PaymentSolution результат расчета постоянного платежа по аннуитету
type PaymentSolution struct {
	Rate            float64 `json:"rate"`
	Periods         uint32  `json:"periods"`
	PresentValue    float64 `json:"present_value"`
	FutureValue     float64 `json:"future_value"`
	DueAtBeginning  bool    `json:"due_at_beginning"`
	Payment         float64 `json:"payment"`
	SumOfPayments   float64 `json:"sum_of_payments"`
	SumOfInterest   float64 `json:"sum_of_interest"`
	Formula         string  `json:"formula"`
	SymbolicFormula string  `json:"symbolic_formula"`
}

// PaymentPeriod разложение одного платежа на основной долг и проценты
type PaymentPeriod struct {
	Period             uint32  `json:"period"`
	Rate               float64 `json:"rate"`
	DueAtBeginning     bool    `json:"due_at_beginning"`
	Payment            float64 `json:"payment"`
	PaymentsToDate     float64 `json:"payments_to_date"`
	PaymentsRemaining  float64 `json:"payments_remaining"`
	Principal          float64 `json:"principal"`
	PrincipalToDate    float64 `json:"principal_to_date"`
	PrincipalRemaining float64 `json:"principal_remaining"`
	Interest           float64 `json:"interest"`
	InterestToDate     float64 `json:"interest_to_date"`
	InterestRemaining  float64 `json:"interest_remaining"`
	Formula            string  `json:"formula"`
	SymbolicFormula    string  `json:"symbolic_formula"`
}

// ScenarioEntry один сценарий: входное значение и результат
type ScenarioEntry struct {
	Input  float64 `json:"input"`
	Output float64 `json:"output"`
}

// ScenarioList набор сценариев "что если" для разных частот начисления
type ScenarioList struct {
	Setup          string          `json:"setup"`
	InputVariable  SolvedVariable  `json:"input_variable"`
	OutputVariable SolvedVariable  `json:"output_variable"`
	Entries        []ScenarioEntry `json:"entries"`
}
