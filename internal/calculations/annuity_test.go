package calculations

import (
	"math"
	"testing"

	"github.com/cloud-ru/mcp-tvm-go/internal/validators"
)

func TestPayment(t *testing.T) {
	tests := []struct {
		name           string
		rate           float64
		periods        uint32
		presentValue   float64
		futureValue    float64
		dueAtBeginning bool
		want           float64
		wantError      error
	}{
		{"basic", 0.034, 10, 100, 0, false, -11.9636085342686, nil},
		{"negative rate", -0.034, 10, 100, 0, false, -8.22683411973293, nil},
		{"present and future value", 0.034, 10, -100, 25, false, 9.82270640070143, nil},
		{"negative future value", 0.034, 10, -100, -25, false, 14.1045106678357, nil},
		{"zero rate", 0, 10, 100, 10, false, -11, nil},
		{"due at beginning", 0.034, 10, 100, 0, true, -11.5702210196021, nil},
		{"due at beginning with future value", 0.034, 10, -100, 25, true, 9.49971605483697, nil},
		{"zero periods balanced", 0.05, 0, 100, -100, false, 0, nil},
		{"zero periods unbalanced", 0.05, 0, 100, 0, false, 0, validators.ErrUnsatisfiableConstraint},
		{"rate -1", -1, 10, 100, 0, false, 0, validators.ErrInvalidRate},
		{"rate NaN", math.NaN(), 10, 100, 0, false, 0, validators.ErrInvalidRate},
		{"infinite present value", 0.05, 10, math.Inf(1), 0, false, 0, validators.ErrInvalidValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Payment(tt.rate, tt.periods, tt.presentValue, tt.futureValue, tt.dueAtBeginning)
			if tt.wantError != nil {
				assertErrorIs(t, err, tt.wantError)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			assertClose(t, "payment", got, tt.want, 1e-12)
		})
	}
}

func TestSolvePayment(t *testing.T) {
	s, err := SolvePayment(0.034, 10, 100, 0, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertClose(t, "sum of payments", s.SumOfPayments, s.Payment*10, relTol)
	assertClose(t, "sum of interest", s.SumOfInterest, s.SumOfPayments+100, relTol)
	if s.SymbolicFormula != "pmt = (pv * (1 + r)^n * -r) / ((1 + r)^n - 1)" {
		t.Errorf("unexpected symbolic formula %q", s.SymbolicFormula)
	}

	due, err := SolvePayment(0.034, 10, -100, 25, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if due.SymbolicFormula != "pmt = (((pv * (1 + r)^n) + fv) * -r) / (((1 + r)^n - 1) * (1 + r))" {
		t.Errorf("unexpected symbolic formula %q", due.SymbolicFormula)
	}

	zero, err := SolvePayment(0, 10, 100, 10, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if zero.Formula != "-11.0000 = (-100.0000 - 10.0000) / 10" || zero.SymbolicFormula != "pmt = (-pv - fv) / n" {
		t.Errorf("unexpected zero rate formulas %q, %q", zero.Formula, zero.SymbolicFormula)
	}
}

func TestPaymentScheduleReconciliation(t *testing.T) {
	tests := []struct {
		name           string
		rate           float64
		periods        uint32
		presentValue   float64
		futureValue    float64
		dueAtBeginning bool
	}{
		{"loan", 0.01, 36, 25000, 0, false},
		{"loan with balloon", 0.034, 10, -100, 25, false},
		{"savings target", 0.005, 120, 0, 50000, false},
		{"negative rate", -0.02, 24, 1000, 0, false},
		{"zero rate", 0, 12, 1200, 0, false},
		{"zero rate with future value due at beginning", 0, 12, 1200, -200, true},
		{"due at beginning", 0.034, 10, 100, 0, true},
		{"single period", 0.1, 1, 1000, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := SolvePayment(tt.rate, tt.periods, tt.presentValue, tt.futureValue, tt.dueAtBeginning)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			schedule, err := s.Schedule()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(schedule) != int(tt.periods) {
				t.Fatalf("expected %d periods, got %d", tt.periods, len(schedule))
			}

			var principal, interest float64
			for i, p := range schedule {
				if p.Period != uint32(i+1) {
					t.Errorf("entry %d has period %d", i, p.Period)
				}
				assertClose(t, "principal + interest", p.Principal+p.Interest, p.Payment, relTol)
				principal += p.Principal
				interest += p.Interest
			}
			assertClose(t, "sum of principal", principal, -tt.presentValue-tt.futureValue, 1e-8)
			assertClose(t, "sum of interest", interest, s.SumOfInterest, 1e-8)

			last := schedule[len(schedule)-1]
			assertAbs(t, "payments remaining", last.PaymentsRemaining, 0, 1e-6)
			assertAbs(t, "principal remaining", last.PrincipalRemaining, 0, 1e-6)
			assertAbs(t, "interest remaining", last.InterestRemaining, 0, 1e-6)

			if tt.dueAtBeginning && (schedule[0].Interest != 0 || schedule[0].SymbolicFormula != "interest = 0") {
				t.Errorf("first payment due at beginning must carry no interest: %+v", schedule[0])
			}
		})
	}
}

func TestPaymentScheduleDueAtBeginningWithFutureValue(t *testing.T) {
	s, err := SolvePayment(0.034, 10, -100, 25, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = s.Schedule()
	assertErrorIs(t, err, validators.ErrUnsatisfiableConstraint)
}

func TestPaymentScheduleFormula(t *testing.T) {
	s, err := SolvePayment(0.1, 2, 1000, 0, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	schedule, err := s.Schedule()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if schedule[0].Formula != "-100.0000 = -(1000.0000 * 0.100000)" {
		t.Errorf("unexpected formula %q", schedule[0].Formula)
	}
	if schedule[0].SymbolicFormula != "interest = -(principal * rate)" {
		t.Errorf("unexpected symbolic formula %q", schedule[0].SymbolicFormula)
	}
}

func TestPaymentScheduleZeroPeriods(t *testing.T) {
	s, err := SolvePayment(0.05, 0, 100, -100, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	schedule, err := s.Schedule()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(schedule) != 0 {
		t.Errorf("expected empty schedule, got %d entries", len(schedule))
	}
}
