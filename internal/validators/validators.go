package validators

import (
	"math"
	"sync/atomic"

	"github.com/cloud-ru/mcp-tvm-go/internal/config"
	"github.com/cloud-ru/mcp-tvm-go/internal/logging"
	"github.com/cloud-ru/mcp-tvm-go/internal/metrics"
	"github.com/cloud-ru/mcp-tvm-go/pkg/utils"
	"github.com/sirupsen/logrus"
)

// rateWarningThreshold хранит порог в виде битов float64
var rateWarningThreshold atomic.Uint64

func init() {
	rateWarningThreshold.Store(math.Float64bits(1.0))
}

// ConfigureRateWarning задает порог предупреждения о необычной ставке из конфигурации
func ConfigureRateWarning(cfg *config.Config) {
	if cfg == nil || !utils.IsFinite(cfg.RateWarningThreshold()) || cfg.RateWarningThreshold() <= 0 {
		return
	}
	rateWarningThreshold.Store(math.Float64bits(cfg.RateWarningThreshold()))
}

// ValidateFiniteRange проверяет, что число конечно и лежит в [minInclusive; maxInclusive]
func ValidateFiniteRange(name string, value float64, minInclusive, maxInclusive float64) error {
	if !utils.IsFinite(value) {
		return InvalidValue(name, "значение не является конечным числом")
	}
	if value < minInclusive {
		return InvalidValue(name, "значение должно быть ≥ %g", minInclusive)
	}
	if value > maxInclusive {
		return InvalidValue(name, "значение слишком велико (>%g)", maxInclusive)
	}
	return nil
}

// ValidateIntRange проверяет, что целое число в допустимом диапазоне
func ValidateIntRange(name string, value int, minInclusive, maxInclusive int) error {
	if value < minInclusive || value > maxInclusive {
		return InvalidValue(name, "значение должно быть в диапазоне [%d; %d]", minInclusive, maxInclusive)
	}
	return nil
}

// CheckRate проверяет ставку за период: конечна и не меньше -100%.
// Ставка ниже -1.0 означала бы потерю больше всей суммы за один период.
func CheckRate(name string, rate float64) error {
	if !utils.IsFinite(rate) {
		return InvalidRate(name, "ставка не является конечным числом")
	}
	if rate < -1.0 {
		return InvalidRate(name, "ставка %g меньше -1.0 (-100%%)", rate)
	}
	WarnIfUnusualRate(name, rate)
	return nil
}

// CheckRateAboveMinusOne проверяет ставку строго больше -100%
func CheckRateAboveMinusOne(name string, rate float64) error {
	if err := CheckRate(name, rate); err != nil {
		return err
	}
	if rate == -1.0 {
		return InvalidRate(name, "ставка должна быть больше -1.0 (-100%%)")
	}
	return nil
}

// CheckValue проверяет, что денежная сумма конечна
func CheckValue(name string, value float64) error {
	if !utils.IsFinite(value) {
		return InvalidValue(name, "значение не является конечным числом")
	}
	return nil
}

// CheckPeriodsFinite проверяет дробное количество периодов
func CheckPeriodsFinite(name string, periods float64) error {
	if !utils.IsFinite(periods) || periods < 0 {
		return InvalidValue(name, "количество периодов должно быть конечным и неотрицательным")
	}
	return nil
}

// CheckSchedule проверяет непустой список ставок по периодам; каждая ставка проверяется отдельно
func CheckSchedule(rates []float64) error {
	if len(rates) == 0 {
		return InvalidValue("rates", "список ставок пуст")
	}
	for i, rate := range rates {
		if !utils.IsFinite(rate) {
			return InvalidRate("rates", "ставка периода %d не является конечным числом", i+1)
		}
		if rate < -1.0 {
			return InvalidRate("rates", "ставка периода %d (%g) меньше -1.0", i+1, rate)
		}
		WarnIfUnusualRate("rates", rate)
	}
	return nil
}

// WarnIfUnusualRate пишет предупреждение, если модуль ставки больше порога.
// Это не ошибка: расчет продолжается.
func WarnIfUnusualRate(name string, rate float64) bool {
	threshold := math.Float64frombits(rateWarningThreshold.Load())
	if math.Abs(rate) <= threshold {
		return false
	}
	metrics.UnusualRateWarnings.WithLabelValues(name).Inc()
	logging.Log.WithFields(logrus.Fields{
		"parameter": name,
		"rate":      rate,
	}).Warnf("ставка за период %g превышает %g по модулю; ожидается доходность %g%%?", rate, threshold, rate*100)
	return true
}

// CheckPeriods проверяет количество периодов по ограничениям конфигурации
func CheckPeriods(cfg *config.Config, periods int) error {
	return ValidateIntRange("periods", periods, 0, cfg.MaxPeriods)
}

// CheckCompoundingPeriods проверяет количество периодов начисления (не меньше одного)
func CheckCompoundingPeriods(cfg *config.Config, periods int) error {
	return ValidateIntRange("compounding_periods", periods, 1, cfg.MaxPeriods)
}

// CheckAmount проверяет модуль денежной суммы по ограничениям конфигурации
func CheckAmount(cfg *config.Config, name string, value float64) error {
	cap := ValueCap(cfg)
	return ValidateFiniteRange(name, value, -cap, cap)
}

// CheckScheduleLength проверяет длину графика ставок
func CheckScheduleLength(cfg *config.Config, length int) error {
	return ValidateIntRange("rates", length, 1, cfg.MaxScheduleLength)
}

// ValueCap возвращает максимальный модуль суммы
func ValueCap(cfg *config.Config) float64 {
	if cfg == nil {
		return 1e15 // Значение по умолчанию
	}
	return cfg.ValueCap()
}
