package utils

import "math"

const (
	// ApproxEpsilon абсолютный допуск при сравнении чисел с плавающей точкой
	ApproxEpsilon = 0.000001
	// ApproxULPs допустимое расстояние в ULP для относительного сравнения
	ApproxULPs = 20
)

// Round2 округляет число до 2 знаков после запятой
func Round2(value float64) float64 {
	return math.Round(value*100) / 100
}

// Round4 округляет число до 4 знаков после запятой
func Round4(value float64) float64 {
	return math.Round(value*10000) / 10000
}

// Round6 округляет число до 6 знаков после запятой
func Round6(value float64) float64 {
	return math.Round(value*1000000) / 1000000
}

// IsFinite проверяет, является ли число конечным
func IsFinite(value float64) bool {
	return !math.IsInf(value, 0) && !math.IsNaN(value)
}

// ApproxEqual сравнивает два числа с абсолютным допуском ApproxEpsilon
// либо с расстоянием не более ApproxULPs единиц последнего разряда.
func ApproxEqual(a, b float64) bool {
	return ApproxEqualTol(a, b, ApproxEpsilon, ApproxULPs)
}

// ApproxEqualTol то же, что ApproxEqual, но с явными допусками
func ApproxEqualTol(a, b, epsilon float64, ulps int64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return false
	}
	if a == b {
		return true
	}
	if math.Abs(a-b) <= epsilon {
		return true
	}
	if math.Signbit(a) != math.Signbit(b) {
		return false
	}
	ia := int64(math.Float64bits(a))
	ib := int64(math.Float64bits(b))
	diff := ia - ib
	if diff < 0 {
		diff = -diff
	}
	return diff <= ulps
}

// ApproxEqualRel сравнивает с допуском, пропорциональным большему из модулей (но не меньше rel)
func ApproxEqualRel(a, b, rel float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return false
	}
	scale := math.Max(1.0, math.Max(math.Abs(a), math.Abs(b)))
	return math.Abs(a-b) <= rel*scale
}

// ApproxZero проверяет, что число приблизительно равно нулю
func ApproxZero(value float64) bool {
	return ApproxEqual(0.0, value)
}

// Number числовые типы, которые принимаются на вход и приводятся к float64
type Number interface {
	~int | ~int32 | ~int64 | ~float32 | ~float64
}

// ToFloat приводит число к float64
func ToFloat[T Number](value T) float64 {
	return float64(value)
}
