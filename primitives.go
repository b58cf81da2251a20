package tavi

import (
	"encoding/json"
	"math"
	"reflect"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// String declares a string field.
func String(name string) *Field { return newField(name, stringType{}) }

// Int declares an integer field. JSON numbers and json.Number values
// coerce when they carry no fractional part.
func Int(name string) *Field { return newField(name, intType{}) }

// Float declares a float64 field.
func Float(name string) *Field { return newField(name, floatType{}) }

// Bool declares a boolean field.
func Bool(name string) *Field { return newField(name, boolType{}) }

// Time declares a date-time field. Strings coerce via RFC3339, with
// the Nano form accepted first so trailing zeros stay optional.
func Time(name string) *Field { return newField(name, timeType{}) }

// UUID declares an identity-style field. Strings coerce via uuid.Parse.
func UUID(name string) *Field { return newField(name, uuidType{}) }

type stringType struct{}

func (stringType) Name() string { return "string" }

func (stringType) Coerce(raw any) (any, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		return v, nil
	}
	return nil, coerceFailure(codeString)
}

type intType struct{}

func (intType) Name() string { return "int" }

func (intType) Coerce(raw any) (any, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case int:
		return v, nil
	case int8, int16, int32, int64:
		return int(reflect.ValueOf(v).Int()), nil
	case uint, uint8, uint16, uint32, uint64:
		return int(reflect.ValueOf(v).Uint()), nil
	case float64:
		if math.Trunc(v) != v {
			return nil, coerceFailure(codeInt)
		}
		return int(v), nil
	case json.Number:
		i64, err := v.Int64()
		if err != nil {
			return nil, coerceFailure(codeInt)
		}
		return int(i64), nil
	}
	return nil, coerceFailure(codeInt)
}

type floatType struct{}

func (floatType) Name() string { return "float" }

func (floatType) Coerce(raw any) (any, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int, int8, int16, int32, int64:
		return float64(reflect.ValueOf(v).Int()), nil
	case uint, uint8, uint16, uint32, uint64:
		return float64(reflect.ValueOf(v).Uint()), nil
	case json.Number:
		f64, err := strconv.ParseFloat(v.String(), 64)
		if err != nil {
			return nil, coerceFailure(codeFloat)
		}
		return f64, nil
	}
	return nil, coerceFailure(codeFloat)
}

type boolType struct{}

func (boolType) Name() string { return "bool" }

func (boolType) Coerce(raw any) (any, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case bool:
		return v, nil
	}
	return nil, coerceFailure(codeBool)
}

type timeType struct{}

func (timeType) Name() string { return "time" }

func (timeType) Coerce(raw any) (any, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case time.Time:
		return v, nil
	case *time.Time:
		if v == nil {
			return nil, nil
		}
		return *v, nil
	case string:
		t, err := parseRFC3339(v)
		if err != nil {
			return nil, coerceFailure(codeTime)
		}
		return t, nil
	}
	return nil, coerceFailure(codeTime)
}

func parseRFC3339(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		if t2, err2 := time.Parse(time.RFC3339, s); err2 == nil {
			return t2, nil
		}
		return time.Time{}, err
	}
	return t, nil
}

type uuidType struct{}

func (uuidType) Name() string { return "uuid" }

func (uuidType) Coerce(raw any) (any, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case uuid.UUID:
		return v, nil
	case string:
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, coerceFailure(codeUUID)
		}
		return id, nil
	}
	return nil, coerceFailure(codeUUID)
}
