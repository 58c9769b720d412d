package recognize

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rhasspy/rhasspy-nlu-go/graph"
)

// rawSub is one entry of the flattened, intent-marker-stripped trace: the
// graph's own word for the step (raw) and its output label or, once a
// converter has resolved it, the converted value itself (sub).
type rawSub struct {
	raw string
	sub interface{}
}

type converterFrame struct {
	key    string
	name   string
	args   []string
	tokens []rawSub
}

// buildRecognition walks an accepted trace and reconstructs text, tokens,
// and entity spans, applying any converter pipelines along the way.
// confidence is supplied by the caller, who alone knows whether it came
// from a strict or fuzzy match.
func buildRecognition(trace []step, confidence float64, converters map[string]Converter) (Recognition, error) {
	recognition := Recognition{Intent: IntentResult{Confidence: confidence}}

	var rawSubTokens []rawSub
	for _, s := range trace {
		if strings.HasPrefix(s.OLabel, graph.LabelPrefix) {
			recognition.Intent.Name = strings.TrimPrefix(s.OLabel, graph.LabelPrefix)
			continue
		}
		rawSubTokens = append(rawSubTokens, rawSub{raw: s.ILabel, sub: s.OLabel})
	}

	rawConvTokens, err := resolveConverters(rawSubTokens, converters)
	if err != nil {
		return Recognition{}, err
	}

	if err := collectEntities(&recognition, rawConvTokens); err != nil {
		return Recognition{}, err
	}

	recognition.Text = joinValues(recognition.Tokens)
	recognition.RawText = strings.Join(recognition.RawTokens, " ")
	return recognition, nil
}

func resolveConverters(tokens []rawSub, converters map[string]Converter) ([]rawSub, error) {
	var stack []*converterFrame
	var out []rawSub

	for _, t := range tokens {
		subStr, isMarker := t.sub.(string)

		switch {
		case isMarker && subStr != "" && len(stack) > 0 && !strings.HasPrefix(subStr, "__"):
			top := stack[len(stack)-1]
			top.tokens = append(top.tokens, t)

		case isMarker && strings.HasPrefix(subStr, graph.ConvertPrefix):
			key := strings.TrimPrefix(subStr, graph.ConvertPrefix)
			name, args := key, []string(nil)
			if idx := strings.Index(key, ","); idx >= 0 {
				parts := strings.Split(key, ",")
				name, args = parts[0], parts[1:]
			}
			stack = append(stack, &converterFrame{key: key, name: name, args: args})

		case isMarker && strings.HasPrefix(subStr, graph.ConvertedPrefix):
			if len(stack) == 0 {
				return nil, fmt.Errorf("%w: %s without a matching %s", ErrUnbalancedStack, graph.ConvertedPrefix, graph.ConvertPrefix)
			}
			frame := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			actualKey := strings.TrimPrefix(subStr, graph.ConvertedPrefix)
			if frame.key != actualKey {
				return nil, fmt.Errorf("%w: mismatched converter (expected %s, got %s)", ErrUnbalancedStack, frame.key, actualKey)
			}

			zipped, err := runConverter(frame, converters)
			if err != nil {
				return nil, err
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.tokens = append(parent.tokens, zipped...)
			} else {
				out = append(out, zipped...)
			}

		default:
			out = append(out, t)
		}
	}
	if len(stack) > 0 {
		return nil, fmt.Errorf("%w: %d converter(s) left open", ErrUnbalancedStack, len(stack))
	}
	return out, nil
}

func runConverter(frame *converterFrame, converters map[string]Converter) ([]rawSub, error) {
	var rawTokens, subTokens []string
	for _, t := range frame.tokens {
		if t.raw != "" {
			rawTokens = append(rawTokens, t.raw)
		}
		if s := subToString(t.sub); s != "" {
			subTokens = append(subTokens, s)
		}
	}

	fn, ok := converters[frame.name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownConverter, frame.name)
	}
	converted, err := fn(subTokens)
	if err != nil {
		return nil, err
	}
	return zipRawConverted(rawTokens, converted), nil
}

func collectEntities(recognition *Recognition, tokens []rawSub) error {
	var stack []*Entity
	rawIndex, subIndex := 0, 0

	for _, t := range tokens {
		if t.raw != "" {
			recognition.RawTokens = append(recognition.RawTokens, t.raw)
			rawIndex += utf8.RuneCountInString(t.raw) + 1
			if len(stack) > 0 {
				last := stack[len(stack)-1]
				last.RawTokens = append(last.RawTokens, t.raw)
			}
		}

		subStr, isMarker := t.sub.(string)
		if t.sub == nil || (isMarker && subStr == "") {
			continue
		}

		switch {
		case isMarker && strings.HasPrefix(subStr, graph.TagBeginPrefix):
			name := strings.TrimPrefix(subStr, graph.TagBeginPrefix)
			stack = append(stack, &Entity{Name: name, Start: subIndex, RawStart: rawIndex})

		case isMarker && strings.HasPrefix(subStr, graph.TagEndPrefix):
			if len(stack) == 0 {
				return fmt.Errorf("%w: %s without a matching %s", ErrUnbalancedStack, graph.TagEndPrefix, graph.TagBeginPrefix)
			}
			last := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			actualName := strings.TrimPrefix(subStr, graph.TagEndPrefix)
			if last.Name != actualName {
				return fmt.Errorf("%w: mismatched entity (expected %s, got %s)", ErrUnbalancedStack, last.Name, actualName)
			}
			last.End = subIndex - 1
			last.RawEnd = rawIndex - 1
			if len(last.Tokens) == 1 {
				last.Value = last.Tokens[0]
			} else {
				last.Value = joinValues(last.Tokens)
			}
			last.RawValue = strings.Join(last.RawTokens, " ")
			recognition.Entities = append(recognition.Entities, *last)

		default:
			if len(stack) > 0 {
				last := stack[len(stack)-1]
				last.Tokens = append(last.Tokens, t.sub)
			}
			recognition.Tokens = append(recognition.Tokens, t.sub)
			subIndex += utf8.RuneCountInString(fmt.Sprint(t.sub)) + 1
		}
	}
	if len(stack) > 0 {
		return fmt.Errorf("%w: %d entity(ies) left open", ErrUnbalancedStack, len(stack))
	}
	return nil
}

func zipRawConverted(raw []string, converted []interface{}) []rawSub {
	n := len(raw)
	if len(converted) > n {
		n = len(converted)
	}
	out := make([]rawSub, n)
	for i := 0; i < n; i++ {
		var r string
		var c interface{} = ""
		if i < len(raw) {
			r = raw[i]
		}
		if i < len(converted) {
			c = converted[i]
		}
		out[i] = rawSub{raw: r, sub: c}
	}
	return out
}

func subToString(v interface{}) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func joinValues(values []interface{}) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, " ")
}
