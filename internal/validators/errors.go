package validators

import (
	"errors"
	"fmt"
)

// Классы ошибок проверки параметров. Все ошибки локальные и не подлежат повтору.
var (
	// ErrInvalidParameter общий класс: любая ошибка проверки параметров
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrInvalidRate ставка не является конечным числом или меньше -100%
	ErrInvalidRate = errors.New("invalid rate")

	// ErrInvalidValue денежная сумма или количество периодов недопустимы
	ErrInvalidValue = errors.New("invalid value")

	// ErrUnsatisfiableConstraint не существует ставки или числа периодов,
	// удовлетворяющих уравнению при данных знаках и нулях
	ErrUnsatisfiableConstraint = errors.New("unsatisfiable constraint")
)

// ParameterError ошибка, указывающая на конкретный аргумент
type ParameterError struct {
	Param  string
	Reason string
	Kind   error
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Kind, e.Param, e.Reason)
}

func (e *ParameterError) Unwrap() error {
	return e.Kind
}

// Is позволяет сопоставлять любую ParameterError с ErrInvalidParameter
func (e *ParameterError) Is(target error) bool {
	return target == ErrInvalidParameter
}

// InvalidParameter создает ошибку ErrInvalidParameter: аргумент отсутствует или имеет неверный тип
func InvalidParameter(param, format string, args ...interface{}) error {
	return &ParameterError{Param: param, Reason: fmt.Sprintf(format, args...), Kind: ErrInvalidParameter}
}

// InvalidRate создает ошибку ErrInvalidRate для аргумента param
func InvalidRate(param, format string, args ...interface{}) error {
	return &ParameterError{Param: param, Reason: fmt.Sprintf(format, args...), Kind: ErrInvalidRate}
}

// InvalidValue создает ошибку ErrInvalidValue для аргумента param
func InvalidValue(param, format string, args ...interface{}) error {
	return &ParameterError{Param: param, Reason: fmt.Sprintf(format, args...), Kind: ErrInvalidValue}
}

// Unsatisfiable создает ошибку ErrUnsatisfiableConstraint для аргумента param
func Unsatisfiable(param, format string, args ...interface{}) error {
	return &ParameterError{Param: param, Reason: fmt.Sprintf(format, args...), Kind: ErrUnsatisfiableConstraint}
}

// Kind возвращает короткое имя класса ошибки для меток метрик
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrInvalidRate):
		return "invalid_rate"
	case errors.Is(err, ErrInvalidValue):
		return "invalid_value"
	case errors.Is(err, ErrUnsatisfiableConstraint):
		return "unsatisfiable"
	case errors.Is(err, ErrInvalidParameter):
		return "invalid_parameter"
	default:
		return "calculation"
	}
}
