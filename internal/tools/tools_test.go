package tools

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"go.opentelemetry.io/otel/trace/noop"

	"github.com/cloud-ru/mcp-tvm-go/internal/calculations"
	"github.com/cloud-ru/mcp-tvm-go/internal/config"
	"github.com/cloud-ru/mcp-tvm-go/internal/validators"
)

const tolerance = 1e-6

func testConfig() *config.Config {
	return &config.Config{
		MaxPeriods:           1000,
		MaxScheduleLength:    100,
		MaxAbsValue:          1e12,
		UnusualRateThreshold: 1.0,
	}
}

func newTestRegistry() *Registry {
	return NewRegistry(testConfig(), noop.NewTracerProvider().Tracer("test"))
}

func call(t *testing.T, r *Registry, name string, p map[string]interface{}) *CallResult {
	t.Helper()
	result, err := r.Call(context.Background(), name, p)
	if err != nil {
		t.Fatalf("%s: неожиданная ошибка: %v", name, err)
	}
	if result.CallID == "" {
		t.Errorf("%s: пустой call_id", name)
	}
	if result.Tool != name {
		t.Errorf("%s: tool = %q", name, result.Tool)
	}
	return result
}

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > tolerance {
		t.Errorf("%s = %.10f, ожидалось %.10f", name, got, want)
	}
}

func TestDefinitions(t *testing.T) {
	definitions := newTestRegistry().Definitions()
	if len(definitions) != 14 {
		t.Fatalf("зарегистрировано %d инструментов, ожидалось 14", len(definitions))
	}
	for i := 1; i < len(definitions); i++ {
		if definitions[i-1].Name >= definitions[i].Name {
			t.Errorf("описания не отсортированы: %s >= %s", definitions[i-1].Name, definitions[i].Name)
		}
	}
	for _, d := range definitions {
		if d.Description == "" || len(d.Parameters) == 0 {
			t.Errorf("%s: неполное описание", d.Name)
		}
	}
}

func TestCallUnknownTool(t *testing.T) {
	_, err := newTestRegistry().Call(context.Background(), "tvm_unknown", nil)
	if !errors.Is(err, ErrUnknownTool) {
		t.Errorf("ожидалась ErrUnknownTool, получено %v", err)
	}
}

func TestTvmFutureValueTool(t *testing.T) {
	result := call(t, newTestRegistry(), "tvm_future_value", map[string]interface{}{
		"rate":          0.1,
		"periods":       10,
		"present_value": -100.0,
	})
	tvm, ok := result.Result.(*TvmResult)
	if !ok {
		t.Fatalf("неожиданный тип результата %T", result.Result)
	}
	assertNear(t, "future_value", tvm.Solution.FutureValue, 259.3742460100002)
	if len(tvm.Series) != 11 {
		t.Errorf("длина ряда = %d, ожидалось 11", len(tvm.Series))
	}
	assertNear(t, "series.last", tvm.Series.Last().Value, tvm.Solution.FutureValue)
}

func TestTvmToolsAcceptJSONNumbers(t *testing.T) {
	var p map[string]interface{}
	decoder := json.NewDecoder(strings.NewReader(`{"rate": 0.1, "present_value": -100, "future_value": 259.37424601, "include_series": false}`))
	decoder.UseNumber()
	if err := decoder.Decode(&p); err != nil {
		t.Fatal(err)
	}

	result := call(t, newTestRegistry(), "tvm_periods", p)
	tvm := result.Result.(*TvmResult)
	assertNear(t, "fractional_periods", tvm.Solution.FractionalPeriods, 10)
	if tvm.Solution.Periods != 10 {
		t.Errorf("periods = %d, ожидалось 10", tvm.Solution.Periods)
	}
	if tvm.Series != nil {
		t.Errorf("ряд не запрашивался, получено %d периодов", len(tvm.Series))
	}
}

func TestTvmRateAndPresentValueTools(t *testing.T) {
	r := newTestRegistry()

	rate := call(t, r, "tvm_rate", map[string]interface{}{
		"periods":       10,
		"present_value": -100.0,
		"future_value":  259.3742460100002,
	}).Result.(*TvmResult)
	assertNear(t, "rate", rate.Solution.Rate, 0.1)

	pv := call(t, r, "tvm_present_value", map[string]interface{}{
		"rate":         0.1,
		"periods":      10,
		"future_value": 259.3742460100002,
		"continuous":   false,
	}).Result.(*TvmResult)
	assertNear(t, "present_value", pv.Solution.PresentValue, -100)
}

func TestScheduleTools(t *testing.T) {
	r := newTestRegistry()

	fv := call(t, r, "tvm_future_value_schedule", map[string]interface{}{
		"rates":         []interface{}{0.1, 0.2, 0.0},
		"present_value": -100.0,
	}).Result.(*ScheduleResult)
	assertNear(t, "future_value", fv.Solution.FutureValue, 132)
	if len(fv.Series) != 4 {
		t.Errorf("длина ряда = %d, ожидалось 4", len(fv.Series))
	}

	pv := call(t, r, "tvm_present_value_schedule", map[string]interface{}{
		"rates":        []float64{0.1, 0.2, 0.0},
		"future_value": 132.0,
	}).Result.(*ScheduleResult)
	assertNear(t, "present_value", pv.Solution.PresentValue, -100)
}

func TestResolveTool(t *testing.T) {
	result := call(t, newTestRegistry(), "tvm_resolve", map[string]interface{}{
		"rate":                0.1,
		"periods":             10,
		"present_value":       -100.0,
		"solve_for":           "future_value",
		"compounding_periods": 40,
	}).Result.(*ResolveResult)

	assertNear(t, "base.future_value", result.Base.FutureValue, 259.3742460100002)
	assertNear(t, "resolved.future_value", result.Resolved.FutureValue, 268.5063838389963)
	assertNear(t, "resolved.rate", result.Resolved.Rate, 0.025)
	if result.Comparison.Equivalent {
		t.Error("решения с разной частотой начисления не эквивалентны")
	}
	if len(result.Series) != 41 {
		t.Errorf("длина ряда = %d, ожидалось 41", len(result.Series))
	}
}

func TestResolveToolRejectsUnknownVariable(t *testing.T) {
	_, err := newTestRegistry().Call(context.Background(), "tvm_resolve", map[string]interface{}{
		"rate":          0.1,
		"periods":       10,
		"present_value": -100.0,
		"solve_for":     "payment",
	})
	if !errors.Is(err, validators.ErrInvalidParameter) {
		t.Fatalf("ожидалась ErrInvalidParameter, получено %v", err)
	}
	if !strings.HasPrefix(err.Error(), "неверные параметры") {
		t.Errorf("неожиданный текст ошибки: %v", err)
	}
}

func TestVaryCompoundingTool(t *testing.T) {
	list := call(t, newTestRegistry(), "tvm_vary_compounding", map[string]interface{}{
		"rate":                0.2,
		"periods":             1,
		"present_value":       -100.0,
		"compounding_periods": []interface{}{1, 2, 4},
		"include_continuous":  true,
	}).Result.(*calculations.ScenarioList)

	if len(list.Entries) != 4 {
		t.Fatalf("сценариев %d, ожидалось 4", len(list.Entries))
	}
	assertNear(t, "n=1", list.Entries[0].Output, 120)
	assertNear(t, "n=2", list.Entries[1].Output, 121)
	assertNear(t, "continuous", list.Entries[3].Output, 100*math.Exp(0.2))

	_, err := newTestRegistry().Call(context.Background(), "tvm_vary_compounding", map[string]interface{}{
		"rate":                0.2,
		"periods":             1,
		"present_value":       -100.0,
		"compounding_periods": []interface{}{1},
		"output":              "rate",
	})
	if !errors.Is(err, validators.ErrInvalidParameter) {
		t.Errorf("ожидалась ErrInvalidParameter, получено %v", err)
	}
}

func TestPaymentScheduleTool(t *testing.T) {
	result := call(t, newTestRegistry(), "payment_schedule", map[string]interface{}{
		"rate":          0.01,
		"periods":       12,
		"present_value": 1000.0,
	}).Result.(*PaymentResult)

	if len(result.Schedule) != 12 {
		t.Fatalf("длина графика = %d, ожидалось 12", len(result.Schedule))
	}
	// pmt = -1000 * 0.01 / (1 - 1.01^-12)
	assertNear(t, "payment", result.Solution.Payment, -1000*0.01/(1-math.Pow(1.01, -12)))
}

func TestDifferentialScheduleTool(t *testing.T) {
	result := call(t, newTestRegistry(), "differential_schedule", map[string]interface{}{
		"rate":          0.01,
		"periods":       12,
		"present_value": 1000000.0,
	}).Result.(*DifferentialScheduleResult)

	if len(result.Schedule) != 12 {
		t.Fatalf("длина графика = %d, ожидалось 12", len(result.Schedule))
	}
	assertNear(t, "first_payment", result.FirstPayment, -1000000.0/12-10000)
	assertNear(t, "sum_of_interest", result.SumOfInterest, -65000)
}

func TestConvertRateTool(t *testing.T) {
	s := call(t, newTestRegistry(), "convert_rate", map[string]interface{}{
		"kind":                "APR",
		"rate":                0.12,
		"compounding_periods": 12,
	}).Result.(*calculations.ConvertRateSolution)

	assertNear(t, "ear", s.EAR, math.Pow(1.01, 12)-1)
	if s.EPR == nil {
		t.Fatal("EPR должна быть определена при дискретном начислении")
	}
	assertNear(t, "epr", *s.EPR, 0.01)
}

func TestAnnuityValueTool(t *testing.T) {
	s := call(t, newTestRegistry(), "annuity_value", map[string]interface{}{
		"rate":    0.0,
		"periods": 10,
		"payment": -100.0,
	}).Result.(*calculations.AnnuitySolution)

	assertNear(t, "present_value", s.PresentValue, 1000)
	assertNear(t, "future_value", s.FutureValue, 1000)
}

func TestNetPresentValueTool(t *testing.T) {
	r := newTestRegistry()

	constant := call(t, r, "net_present_value", map[string]interface{}{
		"rate":               0.0,
		"periods":            3,
		"initial_investment": -100.0,
		"cashflow":           50.0,
	}).Result.(*NetPresentValueResult)
	assertNear(t, "npv", constant.NetPresentValue, 50)

	uneven := call(t, r, "net_present_value", map[string]interface{}{
		"rates":     []interface{}{0.1, 0.1},
		"cashflows": []interface{}{-100, 60, 60},
	}).Result.(*NetPresentValueResult)
	assertNear(t, "npv", uneven.NetPresentValue, -100+60/1.1+60/1.21)
}

func TestInvestmentGrowthTool(t *testing.T) {
	result := call(t, newTestRegistry(), "investment_growth", map[string]interface{}{
		"rate":          0.0,
		"periods":       12,
		"present_value": -1000.0,
		"payment":       -100.0,
	}).Result.(*calculations.InvestmentResult)

	if len(result.Schedule) != 12 {
		t.Fatalf("длина графика = %d, ожидалось 12", len(result.Schedule))
	}
	assertNear(t, "final_value", result.GrowthMetrics.FinalValue, 2200)
	assertNear(t, "capital_gain", result.GrowthMetrics.CapitalGain, 0)
}

func TestToolErrors(t *testing.T) {
	r := newTestRegistry()

	tests := []struct {
		name   string
		tool   string
		params map[string]interface{}
		want   error
	}{
		{
			name:   "отсутствует параметр",
			tool:   "tvm_future_value",
			params: map[string]interface{}{"rate": 0.1, "periods": 10},
			want:   validators.ErrInvalidParameter,
		},
		{
			name:   "строка вместо числа",
			tool:   "tvm_future_value",
			params: map[string]interface{}{"rate": "0.1", "periods": 10, "present_value": -100.0},
			want:   validators.ErrInvalidParameter,
		},
		{
			name:   "дробное число периодов",
			tool:   "tvm_future_value",
			params: map[string]interface{}{"rate": 0.1, "periods": 2.5, "present_value": -100.0},
			want:   validators.ErrInvalidParameter,
		},
		{
			name:   "слишком много периодов",
			tool:   "tvm_future_value",
			params: map[string]interface{}{"rate": 0.1, "periods": 5000, "present_value": -100.0},
			want:   validators.ErrInvalidValue,
		},
		{
			name:   "сумма больше предела",
			tool:   "tvm_future_value",
			params: map[string]interface{}{"rate": 0.1, "periods": 10, "present_value": -1e13},
			want:   validators.ErrInvalidValue,
		},
		{
			name:   "ставка меньше -100%",
			tool:   "tvm_future_value",
			params: map[string]interface{}{"rate": -1.5, "periods": 10, "present_value": -100.0},
			want:   validators.ErrInvalidRate,
		},
		{
			name:   "одинаковые знаки pv и fv",
			tool:   "tvm_rate",
			params: map[string]interface{}{"periods": 10, "present_value": 100.0, "future_value": 100.0},
			want:   validators.ErrUnsatisfiableConstraint,
		},
		{
			name:   "пустой график ставок",
			tool:   "tvm_future_value_schedule",
			params: map[string]interface{}{"rates": []interface{}{}, "present_value": -100.0},
			want:   validators.ErrInvalidValue,
		},
		{
			name:   "непрерывная EPR",
			tool:   "convert_rate",
			params: map[string]interface{}{"kind": "epr", "rate": 0.01, "continuous": true},
			want:   validators.ErrInvalidRate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Call(context.Background(), tt.tool, tt.params)
			if !errors.Is(err, tt.want) {
				t.Errorf("ожидалась %v, получено %v", tt.want, err)
			}
		})
	}
}
