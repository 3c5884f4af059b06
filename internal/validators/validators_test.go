package validators

import (
	"errors"
	"math"
	"testing"

	"github.com/cloud-ru/mcp-tvm-go/internal/config"
)

func TestValidators(t *testing.T) {
	cfg, _ := config.LoadConfig()

	tests := []struct {
		name      string
		validator func(*config.Config, interface{}) error
		value     interface{}
		wantError error
	}{
		{
			name:      "valid periods",
			validator: func(cfg *config.Config, v interface{}) error { return CheckPeriods(cfg, v.(int)) },
			value:     12,
		},
		{
			name:      "zero periods allowed",
			validator: func(cfg *config.Config, v interface{}) error { return CheckPeriods(cfg, v.(int)) },
			value:     0,
		},
		{
			name:      "negative periods",
			validator: func(cfg *config.Config, v interface{}) error { return CheckPeriods(cfg, v.(int)) },
			value:     -1,
			wantError: ErrInvalidValue,
		},
		{
			name:      "compounding periods zero",
			validator: func(cfg *config.Config, v interface{}) error { return CheckCompoundingPeriods(cfg, v.(int)) },
			value:     0,
			wantError: ErrInvalidValue,
		},
		{
			name:      "valid amount negative",
			validator: func(cfg *config.Config, v interface{}) error { return CheckAmount(cfg, "present_value", v.(float64)) },
			value:     -250000.0,
		},
		{
			name:      "amount too large",
			validator: func(cfg *config.Config, v interface{}) error { return CheckAmount(cfg, "present_value", v.(float64)) },
			value:     1e20,
			wantError: ErrInvalidValue,
		},
		{
			name:      "amount NaN",
			validator: func(cfg *config.Config, v interface{}) error { return CheckAmount(cfg, "future_value", v.(float64)) },
			value:     math.NaN(),
			wantError: ErrInvalidValue,
		},
		{
			name:      "schedule length zero",
			validator: func(cfg *config.Config, v interface{}) error { return CheckScheduleLength(cfg, v.(int)) },
			value:     0,
			wantError: ErrInvalidValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.validator(cfg, tt.value)
			if tt.wantError == nil {
				if err != nil {
					t.Errorf("unexpected error %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantError) {
				t.Errorf("error = %v, want %v", err, tt.wantError)
			}
			if !errors.Is(err, ErrInvalidParameter) {
				t.Errorf("error %v should match ErrInvalidParameter", err)
			}
		})
	}
}

func TestCheckRate(t *testing.T) {
	tests := []struct {
		name      string
		rate      float64
		wantError bool
	}{
		{"typical", 0.034, false},
		{"complete loss", -1.0, false},
		{"below complete loss", -1.01, true},
		{"unusual but valid", 2.5, false},
		{"NaN", math.NaN(), true},
		{"infinity", math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckRate("rate", tt.rate)
			if (err != nil) != tt.wantError {
				t.Fatalf("CheckRate() error = %v, wantError %v", err, tt.wantError)
			}
			if err != nil && !errors.Is(err, ErrInvalidRate) {
				t.Errorf("expected ErrInvalidRate, got %v", err)
			}
		})
	}

	if err := CheckRateAboveMinusOne("rate", -1.0); !errors.Is(err, ErrInvalidRate) {
		t.Errorf("expected -1.0 to be rejected, got %v", err)
	}
}

func TestCheckSchedule(t *testing.T) {
	if err := CheckSchedule(nil); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("empty schedule: got %v", err)
	}
	if err := CheckSchedule([]float64{0.04, -1.5}); !errors.Is(err, ErrInvalidRate) {
		t.Errorf("rate below -1: got %v", err)
	}
	if err := CheckSchedule([]float64{0.04, -0.039, 0.106}); err != nil {
		t.Errorf("valid schedule: got %v", err)
	}
}

func TestWarnIfUnusualRate(t *testing.T) {
	if WarnIfUnusualRate("rate", 0.5) {
		t.Error("0.5 should not trigger a warning")
	}
	if !WarnIfUnusualRate("rate", -1.5) {
		t.Error("-1.5 should trigger a warning")
	}

	cfg := &config.Config{UnusualRateThreshold: 3.0}
	ConfigureRateWarning(cfg)
	defer ConfigureRateWarning(&config.Config{UnusualRateThreshold: 1.0})
	if WarnIfUnusualRate("rate", 2.0) {
		t.Error("2.0 should not trigger a warning with threshold 3.0")
	}
}

func TestKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{InvalidRate("rate", "bad"), "invalid_rate"},
		{InvalidValue("pv", "bad"), "invalid_value"},
		{Unsatisfiable("fv", "bad"), "unsatisfiable"},
		{errors.New("other"), "calculation"},
	}
	for _, tt := range tests {
		if got := Kind(tt.err); got != tt.want {
			t.Errorf("Kind(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
