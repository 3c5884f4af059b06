package tools

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/cloud-ru/mcp-tvm-go/internal/calculations"
	"github.com/cloud-ru/mcp-tvm-go/internal/config"
	"github.com/cloud-ru/mcp-tvm-go/internal/logging"
	"github.com/cloud-ru/mcp-tvm-go/internal/metrics"
	"github.com/cloud-ru/mcp-tvm-go/internal/validators"
)

// ErrUnknownTool инструмент с таким именем не зарегистрирован
var ErrUnknownTool = errors.New("unknown tool")

// ToolHandler представляет обработчик инструмента MCP
type ToolHandler func(ctx context.Context, params map[string]interface{}) (interface{}, error)

// Definition описание инструмента для клиента
type Definition struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Parameters  []string `json:"parameters"`
}

// CallResult результат вызова инструмента
type CallResult struct {
	CallID string      `json:"call_id"`
	Tool   string      `json:"tool"`
	Result interface{} `json:"result"`
}

// Registry набор инструментов, привязанных к конфигурации и трейсеру
type Registry struct {
	definitions map[string]Definition
	handlers    map[string]ToolHandler
}

// NewRegistry регистрирует все инструменты TVM
func NewRegistry(cfg *config.Config, tracer trace.Tracer) *Registry {
	r := &Registry{
		definitions: make(map[string]Definition),
		handlers:    make(map[string]ToolHandler),
	}
	r.register(Definition{"tvm_rate", "Ставка за период по числу периодов, текущей и будущей стоимости",
		[]string{"periods", "present_value", "future_value", "continuous", "include_series"}}, TvmRateHandler(cfg, tracer))
	r.register(Definition{"tvm_periods", "Количество периодов по ставке, текущей и будущей стоимости",
		[]string{"rate", "present_value", "future_value", "continuous", "include_series"}}, TvmPeriodsHandler(cfg, tracer))
	r.register(Definition{"tvm_present_value", "Текущая стоимость по ставке, числу периодов и будущей стоимости",
		[]string{"rate", "periods", "future_value", "continuous", "include_series"}}, TvmPresentValueHandler(cfg, tracer))
	r.register(Definition{"tvm_future_value", "Будущая стоимость по ставке, числу периодов и текущей стоимости",
		[]string{"rate", "periods", "present_value", "continuous", "include_series"}}, TvmFutureValueHandler(cfg, tracer))
	r.register(Definition{"tvm_present_value_schedule", "Текущая стоимость при ставке, меняющейся по периодам",
		[]string{"rates", "future_value", "include_series"}}, PresentValueScheduleHandler(cfg, tracer))
	r.register(Definition{"tvm_future_value_schedule", "Будущая стоимость при ставке, меняющейся по периодам",
		[]string{"rates", "present_value", "include_series"}}, FutureValueScheduleHandler(cfg, tracer))
	r.register(Definition{"tvm_resolve", "Пересчет решения относительно другой величины или другой частоты начисления",
		[]string{"rate", "periods", "present_value", "continuous", "solve_for", "target_continuous", "compounding_periods"}}, ResolveHandler(cfg, tracer))
	r.register(Definition{"tvm_vary_compounding", "Таблица результатов для разных частот начисления",
		[]string{"rate", "periods", "present_value", "continuous", "compounding_periods", "include_continuous", "output"}}, VaryCompoundingHandler(cfg, tracer))
	r.register(Definition{"payment_schedule", "Постоянный платеж по аннуитету и его разложение на долг и проценты",
		[]string{"rate", "periods", "present_value", "future_value", "due_at_beginning", "include_schedule"}}, PaymentScheduleHandler(cfg, tracer))
	r.register(Definition{"differential_schedule", "График дифференцированного погашения кредита равными долями основного долга",
		[]string{"rate", "periods", "present_value"}}, DifferentialScheduleHandler(cfg, tracer))
	r.register(Definition{"convert_rate", "Пересчет ставки между APR, EPR и EAR",
		[]string{"kind", "rate", "compounding_periods", "continuous"}}, ConvertRateHandler(cfg, tracer))
	r.register(Definition{"annuity_value", "Текущая и будущая стоимость ряда одинаковых платежей",
		[]string{"rate", "periods", "payment", "due_at_beginning"}}, AnnuityValueHandler(cfg, tracer))
	r.register(Definition{"net_present_value", "Чистая приведенная стоимость постоянных или неравных потоков",
		[]string{"rate", "periods", "initial_investment", "cashflow", "rates", "cashflows"}}, NetPresentValueHandler(cfg, tracer))
	r.register(Definition{"investment_growth", "График вклада с регулярными взносами и показатели доходности",
		[]string{"rate", "periods", "present_value", "payment", "contribution_at_beginning", "periods_per_year"}}, InvestmentGrowthHandler(cfg, tracer))
	return r
}

func (r *Registry) register(definition Definition, handler ToolHandler) {
	r.definitions[definition.Name] = definition
	r.handlers[definition.Name] = handler
}

// Definitions возвращает описания инструментов, отсортированные по имени
func (r *Registry) Definitions() []Definition {
	definitions := make([]Definition, 0, len(r.definitions))
	for _, d := range r.definitions {
		definitions = append(definitions, d)
	}
	sort.Slice(definitions, func(i, j int) bool { return definitions[i].Name < definitions[j].Name })
	return definitions
}

// Call вызывает инструмент по имени
func (r *Registry) Call(ctx context.Context, name string, params map[string]interface{}) (*CallResult, error) {
	handler, ok := r.handlers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	if params == nil {
		params = map[string]interface{}{}
	}
	callID := uuid.NewString()
	result, err := handler(withCallID(ctx, callID), params)
	if err != nil {
		return nil, err
	}
	return &CallResult{CallID: callID, Tool: name, Result: result}, nil
}

type callIDKey struct{}

func withCallID(ctx context.Context, callID string) context.Context {
	return context.WithValue(ctx, callIDKey{}, callID)
}

func callIDFrom(ctx context.Context) string {
	callID, _ := ctx.Value(callIDKey{}).(string)
	return callID
}

// instrument оборачивает расчет в span, счетчики prometheus и журнал ошибок
func instrument(tracer trace.Tracer, toolName string, run func(ctx context.Context, span trace.Span, p params) (interface{}, error)) ToolHandler {
	return func(ctx context.Context, raw map[string]interface{}) (interface{}, error) {
		ctx, span := tracer.Start(ctx, toolName)
		defer span.End()
		if callID := callIDFrom(ctx); callID != "" {
			span.SetAttributes(attribute.String("call_id", callID))
		}

		metrics.APICalls.WithLabelValues("mcp", toolName, "started").Inc()

		result, err := run(ctx, span, params(raw))
		if err != nil {
			kind := validators.Kind(err)
			status, message := "error", "ошибка при выполнении расчета"
			if errors.Is(err, validators.ErrInvalidParameter) {
				status, message = "validation_error", "неверные параметры"
			}
			span.SetAttributes(attribute.String("error", kind))
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			metrics.ToolCalls.WithLabelValues(toolName, status).Inc()
			metrics.CalculationErrors.WithLabelValues(toolName, kind).Inc()
			metrics.APICalls.WithLabelValues("mcp", toolName, "error").Inc()
			logging.Log.WithFields(logrus.Fields{
				"tool":       toolName,
				"call_id":    callIDFrom(ctx),
				"error_type": kind,
			}).Warn(err.Error())
			return nil, fmt.Errorf("%s: %w", message, err)
		}

		span.SetAttributes(attribute.Bool("success", true))
		metrics.ToolCalls.WithLabelValues(toolName, "success").Inc()
		metrics.APICalls.WithLabelValues("mcp", toolName, "success").Inc()
		return result, nil
	}
}

// TvmResult решение с рядом значений по периодам
type TvmResult struct {
	Solution *calculations.TvmSolution `json:"solution"`
	Series   calculations.PeriodSeries `json:"series,omitempty"`
}

// ScheduleResult решение по графику ставок с рядом значений
type ScheduleResult struct {
	Solution *calculations.ScheduleSolution `json:"solution"`
	Series   calculations.PeriodSeries      `json:"series,omitempty"`
}

func tvmResult(s *calculations.TvmSolution, p params) (*TvmResult, error) {
	includeSeries, err := p.flag("include_series", true)
	if err != nil {
		return nil, err
	}
	result := &TvmResult{Solution: s}
	if includeSeries {
		result.Series = s.Series()
	}
	return result, nil
}

func setSolutionAttributes(span trace.Span, s *calculations.TvmSolution) {
	span.SetAttributes(
		attribute.String("solved_variable", s.SolvedVariable.String()),
		attribute.Bool("continuous", s.Continuous),
		attribute.Float64("rate", s.Rate),
		attribute.Float64("fractional_periods", s.FractionalPeriods),
		attribute.Float64("present_value", s.PresentValue),
		attribute.Float64("future_value", s.FutureValue),
	)
}

// TvmRateHandler обрабатывает запрос на расчет ставки
func TvmRateHandler(cfg *config.Config, tracer trace.Tracer) ToolHandler {
	return instrument(tracer, "tvm_rate", func(ctx context.Context, span trace.Span, p params) (interface{}, error) {
		periods, err := p.count("periods")
		if err != nil {
			return nil, err
		}
		presentValue, futureValue, err := amounts(cfg, p, "present_value", "future_value")
		if err != nil {
			return nil, err
		}
		continuous, err := p.flag("continuous", false)
		if err != nil {
			return nil, err
		}
		if err := validators.CheckPeriods(cfg, int(periods)); err != nil {
			return nil, err
		}

		s, err := calculations.RateSolution(periods, presentValue, futureValue, continuous)
		if err != nil {
			return nil, err
		}
		setSolutionAttributes(span, s)
		return tvmResult(s, p)
	})
}

// TvmPeriodsHandler обрабатывает запрос на расчет количества периодов
func TvmPeriodsHandler(cfg *config.Config, tracer trace.Tracer) ToolHandler {
	return instrument(tracer, "tvm_periods", func(ctx context.Context, span trace.Span, p params) (interface{}, error) {
		rate, err := p.number("rate")
		if err != nil {
			return nil, err
		}
		presentValue, futureValue, err := amounts(cfg, p, "present_value", "future_value")
		if err != nil {
			return nil, err
		}
		continuous, err := p.flag("continuous", false)
		if err != nil {
			return nil, err
		}

		s, err := calculations.PeriodsSolution(rate, presentValue, futureValue, continuous)
		if err != nil {
			return nil, err
		}
		// Ряд строится по целому числу периодов
		if err := validators.CheckPeriods(cfg, int(s.Periods)); err != nil {
			return nil, err
		}
		setSolutionAttributes(span, s)
		return tvmResult(s, p)
	})
}

// TvmPresentValueHandler обрабатывает запрос на расчет текущей стоимости
func TvmPresentValueHandler(cfg *config.Config, tracer trace.Tracer) ToolHandler {
	return instrument(tracer, "tvm_present_value", func(ctx context.Context, span trace.Span, p params) (interface{}, error) {
		rate, periods, continuous, err := rateAndPeriods(cfg, p)
		if err != nil {
			return nil, err
		}
		futureValue, err := amount(cfg, p, "future_value")
		if err != nil {
			return nil, err
		}

		s, err := calculations.PresentValueSolution(rate, periods, futureValue, continuous)
		if err != nil {
			return nil, err
		}
		setSolutionAttributes(span, s)
		return tvmResult(s, p)
	})
}

// TvmFutureValueHandler обрабатывает запрос на расчет будущей стоимости
func TvmFutureValueHandler(cfg *config.Config, tracer trace.Tracer) ToolHandler {
	return instrument(tracer, "tvm_future_value", func(ctx context.Context, span trace.Span, p params) (interface{}, error) {
		rate, periods, continuous, err := rateAndPeriods(cfg, p)
		if err != nil {
			return nil, err
		}
		presentValue, err := amount(cfg, p, "present_value")
		if err != nil {
			return nil, err
		}

		s, err := calculations.FutureValueSolution(rate, periods, presentValue, continuous)
		if err != nil {
			return nil, err
		}
		setSolutionAttributes(span, s)
		return tvmResult(s, p)
	})
}

// PresentValueScheduleHandler обрабатывает запрос на расчет текущей стоимости по графику ставок
func PresentValueScheduleHandler(cfg *config.Config, tracer trace.Tracer) ToolHandler {
	return instrument(tracer, "tvm_present_value_schedule", func(ctx context.Context, span trace.Span, p params) (interface{}, error) {
		rates, err := scheduleRates(cfg, p)
		if err != nil {
			return nil, err
		}
		futureValue, err := amount(cfg, p, "future_value")
		if err != nil {
			return nil, err
		}
		span.SetAttributes(attribute.Int("periods", len(rates)), attribute.Float64("future_value", futureValue))

		s, err := calculations.PresentValueScheduleSolution(rates, futureValue)
		if err != nil {
			return nil, err
		}
		return scheduleResult(s, p)
	})
}

// FutureValueScheduleHandler обрабатывает запрос на расчет будущей стоимости по графику ставок
func FutureValueScheduleHandler(cfg *config.Config, tracer trace.Tracer) ToolHandler {
	return instrument(tracer, "tvm_future_value_schedule", func(ctx context.Context, span trace.Span, p params) (interface{}, error) {
		rates, err := scheduleRates(cfg, p)
		if err != nil {
			return nil, err
		}
		presentValue, err := amount(cfg, p, "present_value")
		if err != nil {
			return nil, err
		}
		span.SetAttributes(attribute.Int("periods", len(rates)), attribute.Float64("present_value", presentValue))

		s, err := calculations.FutureValueScheduleSolution(rates, presentValue)
		if err != nil {
			return nil, err
		}
		return scheduleResult(s, p)
	})
}

func scheduleResult(s *calculations.ScheduleSolution, p params) (*ScheduleResult, error) {
	includeSeries, err := p.flag("include_series", true)
	if err != nil {
		return nil, err
	}
	result := &ScheduleResult{Solution: s}
	if includeSeries {
		result.Series = s.Series()
	}
	return result, nil
}

// ResolveResult исходное решение, пересчитанное решение и их сравнение
type ResolveResult struct {
	Base       *calculations.TvmSolution       `json:"base"`
	Resolved   *calculations.TvmSolution       `json:"resolved"`
	Comparison calculations.SolutionComparison `json:"comparison"`
	Series     calculations.PeriodSeries       `json:"series"`
}

// ResolveHandler обрабатывает запрос на пересчет решения
func ResolveHandler(cfg *config.Config, tracer trace.Tracer) ToolHandler {
	return instrument(tracer, "tvm_resolve", func(ctx context.Context, span trace.Span, p params) (interface{}, error) {
		base, err := baseSolution(cfg, p)
		if err != nil {
			return nil, err
		}
		solveFor, err := p.text("solve_for", "")
		if err != nil {
			return nil, err
		}
		variable, err := calculations.ParseSolvedVariable(solveFor)
		if err != nil {
			return nil, validators.InvalidParameter("solve_for", "ожидается rate, periods, present_value или future_value")
		}
		targetContinuous, err := p.flag("target_continuous", base.Continuous)
		if err != nil {
			return nil, err
		}
		compoundingPeriods, err := p.optionalCount("compounding_periods", 0)
		if err != nil {
			return nil, err
		}
		if err := validators.CheckPeriods(cfg, int(compoundingPeriods)); err != nil {
			return nil, err
		}

		resolved, err := base.Resolve(variable, targetContinuous, compoundingPeriods)
		if err != nil {
			return nil, err
		}
		if err := validators.CheckPeriods(cfg, int(resolved.Periods)); err != nil {
			return nil, err
		}
		setSolutionAttributes(span, resolved)
		return &ResolveResult{
			Base:       base,
			Resolved:   resolved,
			Comparison: calculations.CompareSolutions(base, resolved),
			Series:     resolved.Series(),
		}, nil
	})
}

// VaryCompoundingHandler обрабатывает запрос на таблицу сценариев по частоте начисления
func VaryCompoundingHandler(cfg *config.Config, tracer trace.Tracer) ToolHandler {
	return instrument(tracer, "tvm_vary_compounding", func(ctx context.Context, span trace.Span, p params) (interface{}, error) {
		base, err := baseSolution(cfg, p)
		if err != nil {
			return nil, err
		}
		compoundingPeriods, err := p.counts("compounding_periods")
		if err != nil {
			return nil, err
		}
		for _, n := range compoundingPeriods {
			if err := validators.CheckCompoundingPeriods(cfg, int(n)); err != nil {
				return nil, err
			}
		}
		includeContinuous, err := p.flag("include_continuous", true)
		if err != nil {
			return nil, err
		}
		output, err := p.text("output", calculations.VariableFutureValue.String())
		if err != nil {
			return nil, err
		}
		span.SetAttributes(attribute.Int("scenarios", len(compoundingPeriods)), attribute.String("output", output))

		switch output {
		case calculations.VariableFutureValue.String():
			return base.FutureValueVaryCompoundingPeriods(compoundingPeriods, includeContinuous)
		case calculations.VariablePresentValue.String():
			return base.PresentValueVaryCompoundingPeriods(compoundingPeriods, includeContinuous)
		}
		return nil, validators.InvalidParameter("output", "ожидается present_value или future_value")
	})
}

// PaymentResult платеж и график его разложения
type PaymentResult struct {
	Solution *calculations.PaymentSolution `json:"solution"`
	Schedule []calculations.PaymentPeriod  `json:"schedule,omitempty"`
}

// PaymentScheduleHandler обрабатывает запрос на расчет аннуитетного платежа
func PaymentScheduleHandler(cfg *config.Config, tracer trace.Tracer) ToolHandler {
	return instrument(tracer, "payment_schedule", func(ctx context.Context, span trace.Span, p params) (interface{}, error) {
		rate, err := p.number("rate")
		if err != nil {
			return nil, err
		}
		periods, err := p.count("periods")
		if err != nil {
			return nil, err
		}
		if err := validators.CheckPeriods(cfg, int(periods)); err != nil {
			return nil, err
		}
		presentValue, err := amount(cfg, p, "present_value")
		if err != nil {
			return nil, err
		}
		futureValue, err := p.optionalNumber("future_value", 0)
		if err != nil {
			return nil, err
		}
		if err := validators.CheckAmount(cfg, "future_value", futureValue); err != nil {
			return nil, err
		}
		dueAtBeginning, err := p.flag("due_at_beginning", false)
		if err != nil {
			return nil, err
		}
		includeSchedule, err := p.flag("include_schedule", true)
		if err != nil {
			return nil, err
		}

		s, err := calculations.SolvePayment(rate, periods, presentValue, futureValue, dueAtBeginning)
		if err != nil {
			return nil, err
		}
		span.SetAttributes(
			attribute.Float64("payment", s.Payment),
			attribute.Float64("sum_of_interest", s.SumOfInterest),
		)
		result := &PaymentResult{Solution: s}
		if includeSchedule {
			if result.Schedule, err = s.Schedule(); err != nil {
				return nil, err
			}
		}
		return result, nil
	})
}

// DifferentialScheduleResult график дифференцированных платежей
type DifferentialScheduleResult struct {
	FirstPayment  float64                      `json:"first_payment"`
	LastPayment   float64                      `json:"last_payment"`
	SumOfPayments float64                      `json:"sum_of_payments"`
	SumOfInterest float64                      `json:"sum_of_interest"`
	Schedule      []calculations.PaymentPeriod `json:"schedule"`
}

// DifferentialScheduleHandler обрабатывает запрос на график дифференцированного кредита
func DifferentialScheduleHandler(cfg *config.Config, tracer trace.Tracer) ToolHandler {
	return instrument(tracer, "differential_schedule", func(ctx context.Context, span trace.Span, p params) (interface{}, error) {
		rate, err := p.number("rate")
		if err != nil {
			return nil, err
		}
		periods, err := p.count("periods")
		if err != nil {
			return nil, err
		}
		if err := validators.CheckPeriods(cfg, int(periods)); err != nil {
			return nil, err
		}
		presentValue, err := amount(cfg, p, "present_value")
		if err != nil {
			return nil, err
		}

		schedule, err := calculations.DifferentialSchedule(rate, periods, presentValue)
		if err != nil {
			return nil, err
		}
		result := &DifferentialScheduleResult{Schedule: schedule}
		if len(schedule) > 0 {
			first, last := schedule[0], schedule[len(schedule)-1]
			result.FirstPayment = first.Payment
			result.LastPayment = last.Payment
			result.SumOfPayments = last.PaymentsToDate
			result.SumOfInterest = last.InterestToDate
		}
		span.SetAttributes(attribute.Float64("sum_of_interest", result.SumOfInterest))
		return result, nil
	})
}

// ConvertRateHandler обрабатывает запрос на пересчет вида ставки
func ConvertRateHandler(cfg *config.Config, tracer trace.Tracer) ToolHandler {
	return instrument(tracer, "convert_rate", func(ctx context.Context, span trace.Span, p params) (interface{}, error) {
		kind, err := p.text("kind", "")
		if err != nil {
			return nil, err
		}
		rate, err := p.number("rate")
		if err != nil {
			return nil, err
		}
		continuous, err := p.flag("continuous", false)
		if err != nil {
			return nil, err
		}
		compoundingPeriods := uint32(1)
		if !continuous {
			if compoundingPeriods, err = p.count("compounding_periods"); err != nil {
				return nil, err
			}
			if err := validators.CheckCompoundingPeriods(cfg, int(compoundingPeriods)); err != nil {
				return nil, err
			}
		}
		span.SetAttributes(attribute.String("kind", kind), attribute.Float64("rate", rate))

		return calculations.ConvertRate(calculations.RateKind(strings.ToLower(kind)), rate, compoundingPeriods, continuous)
	})
}

// AnnuityValueHandler обрабатывает запрос на расчет стоимости аннуитета
func AnnuityValueHandler(cfg *config.Config, tracer trace.Tracer) ToolHandler {
	return instrument(tracer, "annuity_value", func(ctx context.Context, span trace.Span, p params) (interface{}, error) {
		rate, err := p.number("rate")
		if err != nil {
			return nil, err
		}
		periods, err := p.count("periods")
		if err != nil {
			return nil, err
		}
		if err := validators.CheckPeriods(cfg, int(periods)); err != nil {
			return nil, err
		}
		payment, err := amount(cfg, p, "payment")
		if err != nil {
			return nil, err
		}
		dueAtBeginning, err := p.flag("due_at_beginning", false)
		if err != nil {
			return nil, err
		}

		return calculations.AnnuityValueSolution(rate, periods, payment, dueAtBeginning)
	})
}

// NetPresentValueResult чистая приведенная стоимость
type NetPresentValueResult struct {
	NetPresentValue float64 `json:"net_present_value"`
}

// NetPresentValueHandler обрабатывает запрос на расчет NPV.
// Если передан список cashflows, считается NPV неравных потоков по списку rates.
func NetPresentValueHandler(cfg *config.Config, tracer trace.Tracer) ToolHandler {
	return instrument(tracer, "net_present_value", func(ctx context.Context, span trace.Span, p params) (interface{}, error) {
		var npv float64
		if p.has("cashflows") {
			cashflows, err := p.numbers("cashflows")
			if err != nil {
				return nil, err
			}
			if err := validators.CheckScheduleLength(cfg, len(cashflows)); err != nil {
				return nil, err
			}
			var rates []float64
			if len(cashflows) > 1 {
				if rates, err = p.numbers("rates"); err != nil {
					return nil, err
				}
			}
			if npv, err = calculations.NetPresentValueSchedule(rates, cashflows); err != nil {
				return nil, err
			}
		} else {
			rate, err := p.number("rate")
			if err != nil {
				return nil, err
			}
			periods, err := p.count("periods")
			if err != nil {
				return nil, err
			}
			if err := validators.CheckPeriods(cfg, int(periods)); err != nil {
				return nil, err
			}
			initialInvestment, cashflow, err := amounts(cfg, p, "initial_investment", "cashflow")
			if err != nil {
				return nil, err
			}
			if npv, err = calculations.NetPresentValue(rate, periods, initialInvestment, cashflow); err != nil {
				return nil, err
			}
		}
		span.SetAttributes(attribute.Float64("net_present_value", npv))
		return &NetPresentValueResult{NetPresentValue: npv}, nil
	})
}

// InvestmentGrowthHandler обрабатывает запрос на расчет роста вклада
func InvestmentGrowthHandler(cfg *config.Config, tracer trace.Tracer) ToolHandler {
	return instrument(tracer, "investment_growth", func(ctx context.Context, span trace.Span, p params) (interface{}, error) {
		rate, periods, _, err := rateAndPeriods(cfg, p)
		if err != nil {
			return nil, err
		}
		presentValue, payment, err := amounts(cfg, p, "present_value", "payment")
		if err != nil {
			return nil, err
		}
		contributionAtBeginning, err := p.flag("contribution_at_beginning", false)
		if err != nil {
			return nil, err
		}
		periodsPerYear, err := p.optionalCount("periods_per_year", 12)
		if err != nil {
			return nil, err
		}

		result, err := calculations.InvestmentGrowth(cfg, rate, periods, presentValue, payment, contributionAtBeginning, periodsPerYear)
		if err != nil {
			return nil, err
		}
		span.SetAttributes(
			attribute.Float64("final_value", result.GrowthMetrics.FinalValue),
			attribute.Float64("roi_percent", result.GrowthMetrics.ROIPercent),
		)
		return result, nil
	})
}

// baseSolution строит решение для будущей стоимости, от которого отталкиваются пересчеты
func baseSolution(cfg *config.Config, p params) (*calculations.TvmSolution, error) {
	rate, periods, continuous, err := rateAndPeriods(cfg, p)
	if err != nil {
		return nil, err
	}
	presentValue, err := amount(cfg, p, "present_value")
	if err != nil {
		return nil, err
	}
	return calculations.FutureValueSolution(rate, periods, presentValue, continuous)
}

func rateAndPeriods(cfg *config.Config, p params) (float64, uint32, bool, error) {
	rate, err := p.number("rate")
	if err != nil {
		return 0, 0, false, err
	}
	periods, err := p.count("periods")
	if err != nil {
		return 0, 0, false, err
	}
	if err := validators.CheckPeriods(cfg, int(periods)); err != nil {
		return 0, 0, false, err
	}
	continuous, err := p.flag("continuous", false)
	if err != nil {
		return 0, 0, false, err
	}
	return rate, periods, continuous, nil
}

func amount(cfg *config.Config, p params, name string) (float64, error) {
	value, err := p.number(name)
	if err != nil {
		return 0, err
	}
	if err := validators.CheckAmount(cfg, name, value); err != nil {
		return 0, err
	}
	return value, nil
}

func amounts(cfg *config.Config, p params, first, second string) (float64, float64, error) {
	a, err := amount(cfg, p, first)
	if err != nil {
		return 0, 0, err
	}
	b, err := amount(cfg, p, second)
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

func scheduleRates(cfg *config.Config, p params) ([]float64, error) {
	rates, err := p.numbers("rates")
	if err != nil {
		return nil, err
	}
	if err := validators.CheckScheduleLength(cfg, len(rates)); err != nil {
		return nil, err
	}
	return rates, nil
}
