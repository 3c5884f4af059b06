package calculations

import (
	"errors"
	"math"
	"testing"

	"github.com/cloud-ru/mcp-tvm-go/pkg/utils"
)

// relTol допуск для сравнения результатов, полученных разными путями
const relTol = 1e-9

func assertClose(t *testing.T, name string, got, want, tol float64) {
	t.Helper()
	if !utils.ApproxEqualRel(got, want, tol) {
		t.Errorf("%s = %.12f, want %.12f (tol %g)", name, got, want, tol)
	}
}

func assertAbs(t *testing.T, name string, got, want, tol float64) {
	t.Helper()
	if math.IsNaN(got) || math.Abs(got-want) > tol {
		t.Errorf("%s = %.10f, want %.10f (±%g)", name, got, want, tol)
	}
}

func assertErrorIs(t *testing.T, err, target error) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error %v, got nil", target)
	}
	if !errors.Is(err, target) {
		t.Errorf("expected error %v, got %v", target, err)
	}
}

type testConfig struct {
	cap float64
}

func (c testConfig) ValueCap() float64 {
	return c.cap
}
