package tools

import (
	"encoding/json"
	"math"

	"github.com/cloud-ru/mcp-tvm-go/internal/validators"
	"github.com/cloud-ru/mcp-tvm-go/pkg/utils"
)

// params аргументы вызова инструмента в том виде, в каком они пришли из JSON или CLI
type params map[string]interface{}

// toFloat приводит любое поддерживаемое числовое значение к float64
func toFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return utils.ToFloat(v), true
	case int:
		return utils.ToFloat(v), true
	case int32:
		return utils.ToFloat(v), true
	case int64:
		return utils.ToFloat(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	}
	return 0, false
}

func (p params) has(name string) bool {
	_, ok := p[name]
	return ok
}

func (p params) number(name string) (float64, error) {
	value, ok := p[name]
	if !ok {
		return 0, validators.InvalidParameter(name, "обязательный параметр отсутствует")
	}
	f, ok := toFloat(value)
	if !ok {
		return 0, validators.InvalidParameter(name, "ожидается число, получено %T", value)
	}
	return f, nil
}

func (p params) optionalNumber(name string, defaultValue float64) (float64, error) {
	if !p.has(name) {
		return defaultValue, nil
	}
	return p.number(name)
}

func (p params) count(name string) (uint32, error) {
	f, err := p.number(name)
	if err != nil {
		return 0, err
	}
	return toUint(name, f)
}

func (p params) optionalCount(name string, defaultValue uint32) (uint32, error) {
	if !p.has(name) {
		return defaultValue, nil
	}
	return p.count(name)
}

func toUint(name string, f float64) (uint32, error) {
	if !utils.IsFinite(f) || f < 0 || f > math.MaxUint32 || f != math.Trunc(f) {
		return 0, validators.InvalidParameter(name, "ожидается целое неотрицательное число, получено %g", f)
	}
	return uint32(f), nil
}

func (p params) flag(name string, defaultValue bool) (bool, error) {
	value, ok := p[name]
	if !ok {
		return defaultValue, nil
	}
	b, ok := value.(bool)
	if !ok {
		return false, validators.InvalidParameter(name, "ожидается true или false, получено %T", value)
	}
	return b, nil
}

func (p params) text(name, defaultValue string) (string, error) {
	value, ok := p[name]
	if !ok {
		return defaultValue, nil
	}
	s, ok := value.(string)
	if !ok {
		return "", validators.InvalidParameter(name, "ожидается строка, получено %T", value)
	}
	return s, nil
}

func (p params) numbers(name string) ([]float64, error) {
	value, ok := p[name]
	if !ok {
		return nil, validators.InvalidParameter(name, "обязательный параметр отсутствует")
	}
	switch v := value.(type) {
	case []float64:
		return v, nil
	case []interface{}:
		result := make([]float64, len(v))
		for i, item := range v {
			f, ok := toFloat(item)
			if !ok {
				return nil, validators.InvalidParameter(name, "элемент %d: ожидается число, получено %T", i, item)
			}
			result[i] = f
		}
		return result, nil
	}
	return nil, validators.InvalidParameter(name, "ожидается список чисел, получено %T", value)
}

func (p params) counts(name string) ([]uint32, error) {
	values, err := p.numbers(name)
	if err != nil {
		return nil, err
	}
	result := make([]uint32, len(values))
	for i, f := range values {
		if result[i], err = toUint(name, f); err != nil {
			return nil, err
		}
	}
	return result, nil
}
