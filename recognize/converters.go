package recognize

import (
	"fmt"
	"strconv"
	"strings"
)

// Converter transforms a list of already-tokenized surface strings into a
// list of typed values, one per input string. Callers supplying their own
// converters must keep this 1:1 shape so the recognition builder can zip
// raw and converted tokens together the way path_to_recognition does.
type Converter func(tokens []string) ([]interface{}, error)

// DefaultConverters returns the built-in converter table: int, float, bool,
// lower, upper.
func DefaultConverters() map[string]Converter {
	return map[string]Converter{
		"int":   convertEach(convertInt),
		"float": convertEach(convertFloat),
		"bool":  convertEach(convertBool),
		"lower": convertEach(convertLower),
		"upper": convertEach(convertUpper),
	}
}

func convertEach(f func(string) (interface{}, error)) Converter {
	return func(tokens []string) ([]interface{}, error) {
		out := make([]interface{}, len(tokens))
		for i, t := range tokens {
			v, err := f(t)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrConverterFailed, err)
			}
			out[i] = v
		}
		return out, nil
	}
}

func convertInt(s string) (interface{}, error)   { return strconv.Atoi(s) }
func convertFloat(s string) (interface{}, error) { return strconv.ParseFloat(s, 64) }
func convertLower(s string) (interface{}, error) { return strings.ToLower(s), nil }
func convertUpper(s string) (interface{}, error) { return strings.ToUpper(s), nil }

func convertBool(s string) (interface{}, error) {
	switch strings.ToLower(s) {
	case "true", "yes", "on", "1":
		return true, nil
	case "false", "no", "off", "0":
		return false, nil
	default:
		return strconv.ParseBool(s)
	}
}
