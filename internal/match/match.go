package match

import (
	"bytes"
	"fmt"
	"math/big"
	"reflect"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

type anyValue struct{}

// Anything ... Wildcard that matches any single argument value
var Anything = anyValue{}

// Argument ... Matches one expected value against one decoded event argument.
// Indexed dynamic parameters (string, bytes, slices, arrays) only survive in a
// log as their keccak hash; those match either by raw value or precomputed hash.
func Argument(expected, actual interface{}, input abi.Argument) error {
	if _, ok := expected.(anyValue); ok {
		return nil
	}

	if input.Indexed && isDynamic(input.Type) {
		return hashed(expected, actual)
	}

	return Value(expected, actual)
}

// hashed ... Matches against the topic hash of an indexed dynamic argument
func hashed(expected, actual interface{}) error {
	hash, ok := actual.(common.Hash)
	if !ok {
		return fmt.Errorf(badExpectedErr, expected, actual)
	}

	switch exp := expected.(type) {
	case common.Hash:
		if exp == hash {
			return nil
		}
		return fmt.Errorf(notEqualErr, format(exp), format(hash))

	case [32]byte:
		return hashed(common.Hash(exp), actual)

	case string:
		return hashed(crypto.Keccak256Hash([]byte(exp)), actual)

	case []byte:
		return hashed(crypto.Keccak256Hash(exp), actual)

	default:
		return fmt.Errorf(badHashMatchErr, expected)
	}
}

// Value ... Deep structural equality between an expected value and a decoded
// value. Arrays and slices compare element wise, tuples compare field wise,
// integers widen to big.Int before comparison.
func Value(expected, actual interface{}) error {
	switch act := actual.(type) {
	case *big.Int:
		exp, ok := toBigInt(expected)
		if !ok {
			return fmt.Errorf(badExpectedErr, expected, actual)
		}

		if exp.Cmp(act) != 0 {
			return fmt.Errorf(notEqualErr, format(exp), format(act))
		}
		return nil

	case common.Address:
		switch exp := expected.(type) {
		case common.Address:
			if exp == act {
				return nil
			}
		case string:
			if strings.EqualFold(exp, act.Hex()) {
				return nil
			}
		default:
			return fmt.Errorf(badExpectedErr, expected, actual)
		}
		return fmt.Errorf(notEqualErr, format(expected), format(act))

	case common.Hash:
		switch exp := expected.(type) {
		case common.Hash:
			if exp == act {
				return nil
			}
		case [32]byte:
			if common.Hash(exp) == act {
				return nil
			}
		case string:
			if strings.EqualFold(exp, act.Hex()) {
				return nil
			}
		default:
			return fmt.Errorf(badExpectedErr, expected, actual)
		}
		return fmt.Errorf(notEqualErr, format(expected), format(act))

	case []byte:
		exp, ok := toBytes(expected)
		if !ok {
			return fmt.Errorf(badExpectedErr, expected, actual)
		}

		if !bytes.Equal(exp, act) {
			return fmt.Errorf(notEqualErr, format(exp), format(act))
		}
		return nil

	case bool:
		if exp, ok := expected.(bool); ok {
			if exp == act {
				return nil
			}
			return fmt.Errorf(notEqualErr, format(exp), format(act))
		}
		return fmt.Errorf(badExpectedErr, expected, actual)

	case string:
		if exp, ok := expected.(string); ok {
			if exp == act {
				return nil
			}
			return fmt.Errorf(notEqualErr, format(exp), format(act))
		}
		return fmt.Errorf(badExpectedErr, expected, actual)
	}

	return reflected(expected, actual)
}

// reflected ... Structural comparison for fixed byte arrays, slices, arrays
// and tuple structs that have no dedicated fast path above
func reflected(expected, actual interface{}) error {
	av := reflect.ValueOf(actual)

	switch av.Kind() {
	case reflect.Array:
		// Fixed byte arrays ([N]byte) compare as byte strings
		if av.Type().Elem().Kind() == reflect.Uint8 {
			return fixedBytes(expected, av)
		}
		return elementWise(expected, av)

	case reflect.Slice:
		return elementWise(expected, av)

	case reflect.Struct:
		return fieldWise(expected, av)
	}

	if reflect.DeepEqual(expected, actual) {
		return nil
	}

	return fmt.Errorf(notEqualErr, format(expected), format(actual))
}

func fixedBytes(expected interface{}, av reflect.Value) error {
	act := make([]byte, av.Len())
	reflect.Copy(reflect.ValueOf(act), av)

	exp, ok := toBytes(expected)
	if !ok {
		ev := reflect.ValueOf(expected)
		if ev.Kind() != reflect.Array || ev.Type().Elem().Kind() != reflect.Uint8 {
			return fmt.Errorf(badExpectedErr, expected, av.Interface())
		}

		exp = make([]byte, ev.Len())
		reflect.Copy(reflect.ValueOf(exp), ev)
	}

	if !bytes.Equal(exp, act) {
		return fmt.Errorf(notEqualErr, format(exp), format(act))
	}

	return nil
}

func elementWise(expected interface{}, av reflect.Value) error {
	ev := reflect.ValueOf(expected)
	if ev.Kind() != reflect.Slice && ev.Kind() != reflect.Array {
		return fmt.Errorf(badExpectedErr, expected, av.Interface())
	}

	if ev.Len() != av.Len() {
		return fmt.Errorf(lengthErr,
			format(expected), format(av.Interface()), ev.Len(), av.Len())
	}

	for i := 0; i < av.Len(); i++ {
		if err := Value(ev.Index(i).Interface(), av.Index(i).Interface()); err != nil {
			return err
		}
	}

	return nil
}

// fieldWise ... Tuples decode into structs; the expected value may be a struct
// with the same field count or a slice of positional field values
func fieldWise(expected interface{}, av reflect.Value) error {
	ev := reflect.ValueOf(expected)
	if ev.Kind() == reflect.Ptr {
		ev = ev.Elem()
	}

	switch ev.Kind() {
	case reflect.Struct:
		if ev.NumField() != av.NumField() {
			return fmt.Errorf(lengthErr,
				format(expected), format(av.Interface()), ev.NumField(), av.NumField())
		}

		for i := 0; i < av.NumField(); i++ {
			if err := Value(ev.Field(i).Interface(), av.Field(i).Interface()); err != nil {
				return err
			}
		}
		return nil

	case reflect.Slice, reflect.Array:
		if ev.Len() != av.NumField() {
			return fmt.Errorf(lengthErr,
				format(expected), format(av.Interface()), ev.Len(), av.NumField())
		}

		for i := 0; i < av.NumField(); i++ {
			if err := Value(ev.Index(i).Interface(), av.Field(i).Interface()); err != nil {
				return err
			}
		}
		return nil
	}

	return fmt.Errorf(badExpectedErr, expected, av.Interface())
}

// toBigInt ... Widens native integer types to big.Int
func toBigInt(v interface{}) (*big.Int, bool) {
	switch n := v.(type) {
	case *big.Int:
		return n, true
	case big.Int:
		return &n, true
	case int:
		return big.NewInt(int64(n)), true
	case int8:
		return big.NewInt(int64(n)), true
	case int16:
		return big.NewInt(int64(n)), true
	case int32:
		return big.NewInt(int64(n)), true
	case int64:
		return big.NewInt(n), true
	case uint:
		return new(big.Int).SetUint64(uint64(n)), true
	case uint8:
		return new(big.Int).SetUint64(uint64(n)), true
	case uint16:
		return new(big.Int).SetUint64(uint64(n)), true
	case uint32:
		return new(big.Int).SetUint64(uint64(n)), true
	case uint64:
		return new(big.Int).SetUint64(n), true
	}

	return nil, false
}

// toBytes ... Accepts raw bytes or a 0x prefixed hex string
func toBytes(v interface{}) ([]byte, bool) {
	switch b := v.(type) {
	case []byte:
		return b, true
	case string:
		decoded, err := hexutil.Decode(b)
		if err != nil {
			return nil, false
		}
		return decoded, true
	}

	return nil, false
}

// isDynamic ... True for ABI types whose indexed form is a keccak hash
func isDynamic(t abi.Type) bool {
	switch t.T {
	case abi.StringTy, abi.BytesTy, abi.SliceTy, abi.ArrayTy, abi.TupleTy:
		return true
	}

	return false
}

// format ... Human readable rendering for assertion diagnostics
func format(v interface{}) string {
	switch val := v.(type) {
	case *big.Int:
		return val.String()
	case big.Int:
		return val.String()
	case int:
		return fmt.Sprintf("%d", val)
	case int64:
		return fmt.Sprintf("%d", val)
	case uint64:
		return fmt.Sprintf("%d", val)
	case string:
		return fmt.Sprintf("%q", val)
	case []byte:
		return hexutil.Encode(val)
	case common.Address:
		return val.Hex()
	case common.Hash:
		return val.Hex()
	case bool:
		return fmt.Sprintf("%t", val)
	}

	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			raw := make([]byte, rv.Len())
			reflect.Copy(reflect.ValueOf(raw), rv)
			return hexutil.Encode(raw)
		}
		fallthrough

	case reflect.Slice:
		parts := make([]string, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			parts = append(parts, format(rv.Index(i).Interface()))
		}
		return "[" + strings.Join(parts, ", ") + "]"

	case reflect.Ptr:
		if !rv.IsNil() {
			return format(rv.Elem().Interface())
		}

	case reflect.Struct:
		parts := make([]string, 0, rv.NumField())
		for i := 0; i < rv.NumField(); i++ {
			parts = append(parts, format(rv.Field(i).Interface()))
		}
		return "(" + strings.Join(parts, ", ") + ")"
	}

	return fmt.Sprintf("%v", v)
}
