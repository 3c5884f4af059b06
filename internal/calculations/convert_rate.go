package calculations

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/cloud-ru/mcp-tvm-go/internal/logging"
	"github.com/cloud-ru/mcp-tvm-go/internal/validators"
	"github.com/cloud-ru/mcp-tvm-go/pkg/utils"
)

// RateKind вид ставки
type RateKind string

const (
	// APR номинальная годовая ставка
	APR RateKind = "apr"
	// EPR эффективная ставка за период начисления
	EPR RateKind = "epr"
	// EAR эффективная годовая ставка
	EAR RateKind = "ear"
)

// Частота начисления выше ежедневной обычно означает ошибку во входных данных
const maxUsualCompoundingPeriods = 366

// ConvertRateSolution одна и та же ставка во всех трех видах
type ConvertRateSolution struct {
	InputKind          RateKind `json:"input_kind"`
	InputRate          float64  `json:"input_rate"`
	CompoundingPeriods uint32   `json:"compounding_periods"`
	Continuous         bool     `json:"continuous_compounding"`
	APR                float64  `json:"apr"`
	// EPR не определена при непрерывном начислении
	EPR             *float64 `json:"epr,omitempty"`
	EAR             float64  `json:"ear"`
	Formula         string   `json:"formula"`
	SymbolicFormula string   `json:"symbolic_formula"`
}

// ConvertAPRToEAR (1 + apr / n)^n - 1
func ConvertAPRToEAR(apr float64, compoundingPeriods uint32) (float64, error) {
	if err := checkAPR(apr, compoundingPeriods); err != nil {
		return 0, err
	}
	n := float64(compoundingPeriods)
	return finiteRate("apr", apr, math.Pow(1.0+apr/n, n)-1.0)
}

// ConvertAPRToEPR apr / n
func ConvertAPRToEPR(apr float64, compoundingPeriods uint32) (float64, error) {
	if err := checkAPR(apr, compoundingPeriods); err != nil {
		return 0, err
	}
	return apr / float64(compoundingPeriods), nil
}

// ConvertEARToEPR (1 + ear)^(1 / n) - 1
func ConvertEARToEPR(ear float64, compoundingPeriods uint32) (float64, error) {
	if err := checkEAR(ear, compoundingPeriods); err != nil {
		return 0, err
	}
	return math.Pow(1.0+ear, 1.0/float64(compoundingPeriods)) - 1.0, nil
}

// ConvertEARToAPR epr * n
func ConvertEARToAPR(ear float64, compoundingPeriods uint32) (float64, error) {
	epr, err := ConvertEARToEPR(ear, compoundingPeriods)
	if err != nil {
		return 0, err
	}
	return epr * float64(compoundingPeriods), nil
}

// ConvertEPRToEAR (1 + epr)^n - 1
func ConvertEPRToEAR(epr float64, compoundingPeriods uint32) (float64, error) {
	if err := checkEPR(epr, compoundingPeriods); err != nil {
		return 0, err
	}
	return finiteRate("epr", epr, math.Pow(1.0+epr, float64(compoundingPeriods))-1.0)
}

// finiteRate отклоняет переполнение при возведении в степень
func finiteRate(name string, input, result float64) (float64, error) {
	if !utils.IsFinite(result) {
		return 0, validators.InvalidRate(name, "ставка %g слишком велика: результат не является конечным числом", input)
	}
	return result, nil
}

// ConvertEPRToAPR epr * n
func ConvertEPRToAPR(epr float64, compoundingPeriods uint32) (float64, error) {
	if err := checkEPR(epr, compoundingPeriods); err != nil {
		return 0, err
	}
	return epr * float64(compoundingPeriods), nil
}

// ConvertAPRToEARContinuous e^apr - 1
func ConvertAPRToEARContinuous(apr float64) (float64, error) {
	if err := validators.CheckValue("apr", apr); err != nil {
		return 0, err
	}
	validators.WarnIfUnusualRate("apr", apr)
	ear := math.Expm1(apr)
	if !utils.IsFinite(ear) {
		return 0, validators.InvalidRate("apr", "ставка %g слишком велика для непрерывного начисления", apr)
	}
	return ear, nil
}

// ConvertEARToAPRContinuous ln(1 + ear)
func ConvertEARToAPRContinuous(ear float64) (float64, error) {
	if err := checkEAR(ear, 1); err != nil {
		return 0, err
	}
	return math.Log1p(ear), nil
}

// ConvertRate приводит ставку вида kind ко всем трем видам
func ConvertRate(kind RateKind, rate float64, compoundingPeriods uint32, continuous bool) (*ConvertRateSolution, error) {
	s := &ConvertRateSolution{
		InputKind:          kind,
		InputRate:          rate,
		CompoundingPeriods: compoundingPeriods,
		Continuous:         continuous,
	}
	var err error
	if continuous {
		switch kind {
		case APR:
			s.APR = rate
			s.EAR, err = ConvertAPRToEARContinuous(rate)
			s.Formula = fmt.Sprintf("%.6f = %.6f^%.6f - 1", s.EAR, math.E, rate)
			s.SymbolicFormula = "ear = e^apr - 1"
		case EAR:
			s.EAR = rate
			s.APR, err = ConvertEARToAPRContinuous(rate)
			s.Formula = fmt.Sprintf("%.6f = ln(1 + %.6f)", s.APR, rate)
			s.SymbolicFormula = "apr = ln(1 + ear)"
		default:
			return nil, validators.InvalidRate("kind", "при непрерывном начислении ставка за период не определена")
		}
		if err != nil {
			return nil, err
		}
		return s, nil
	}

	n := float64(compoundingPeriods)
	var epr float64
	switch kind {
	case APR:
		s.APR = rate
		if epr, err = ConvertAPRToEPR(rate, compoundingPeriods); err != nil {
			return nil, err
		}
		if s.EAR, err = ConvertAPRToEAR(rate, compoundingPeriods); err != nil {
			return nil, err
		}
		s.Formula = fmt.Sprintf("%.6f = (1 + (%.6f / %d))^%d - 1", s.EAR, rate, compoundingPeriods, compoundingPeriods)
		s.SymbolicFormula = "ear = (1 + (apr / n))^n - 1"
	case EPR:
		epr = rate
		if s.APR, err = ConvertEPRToAPR(rate, compoundingPeriods); err != nil {
			return nil, err
		}
		if s.EAR, err = ConvertEPRToEAR(rate, compoundingPeriods); err != nil {
			return nil, err
		}
		s.Formula = fmt.Sprintf("%.6f = (1 + %.6f)^%d - 1", s.EAR, rate, compoundingPeriods)
		s.SymbolicFormula = "ear = (1 + epr)^n - 1"
	case EAR:
		s.EAR = rate
		if epr, err = ConvertEARToEPR(rate, compoundingPeriods); err != nil {
			return nil, err
		}
		s.APR = epr * n
		s.Formula = fmt.Sprintf("%.6f = ((1 + %.6f)^(1 / %d) - 1) * %d", s.APR, rate, compoundingPeriods, compoundingPeriods)
		s.SymbolicFormula = "apr = ((1 + ear)^(1 / n) - 1) * n"
	default:
		return nil, validators.InvalidRate("kind", "неизвестный вид ставки %q", kind)
	}
	s.EPR = &epr
	return s, nil
}

func checkCompoundingPeriods(compoundingPeriods uint32) error {
	if compoundingPeriods < 1 {
		return validators.InvalidValue("compounding_periods", "частота начисления должна быть не меньше 1")
	}
	if compoundingPeriods > maxUsualCompoundingPeriods {
		logging.Log.WithFields(logrus.Fields{
			"compounding_periods": compoundingPeriods,
		}).Warn("частота начисления больше ежедневной")
	}
	return nil
}

func checkAPR(apr float64, compoundingPeriods uint32) error {
	if err := checkCompoundingPeriods(compoundingPeriods); err != nil {
		return err
	}
	if err := validators.CheckValue("apr", apr); err != nil {
		return err
	}
	if apr/float64(compoundingPeriods) < -1.0 {
		return validators.InvalidRate("apr", "ставка за период %g меньше -1.0", apr/float64(compoundingPeriods))
	}
	validators.WarnIfUnusualRate("apr", apr)
	return nil
}

func checkEPR(epr float64, compoundingPeriods uint32) error {
	if err := checkCompoundingPeriods(compoundingPeriods); err != nil {
		return err
	}
	return validators.CheckRate("epr", epr)
}

func checkEAR(ear float64, compoundingPeriods uint32) error {
	if err := checkCompoundingPeriods(compoundingPeriods); err != nil {
		return err
	}
	if err := validators.CheckValue("ear", ear); err != nil {
		return err
	}
	if ear <= -1.0 {
		return validators.InvalidRate("ear", "эффективная годовая ставка должна быть больше -1.0")
	}
	validators.WarnIfUnusualRate("ear", ear)
	return nil
}
