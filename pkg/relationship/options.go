package relationship

// Options is the caller-supplied configuration bag of a relationship.
// The registry never interprets it; hooks may.
type Options map[string]any

// Clone returns a deep copy of the options. Nested maps and slices as
// produced by YAML or JSON decoding are copied too; other values are
// copied as is. A nil bag clones to an empty one.
func (o Options) Clone() Options {
	out := make(Options, len(o))
	for k, v := range o {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case Options:
		return val.Clone()
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = cloneValue(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		return append([]string(nil), val...)
	default:
		return v
	}
}

// Get returns the raw value stored under name
func (o Options) Get(name string) (any, bool) {
	v, ok := o[name]
	return v, ok
}

// String returns the value under name if it is a string, otherwise def
func (o Options) String(name, def string) string {
	if v, ok := o[name].(string); ok {
		return v
	}
	return def
}

// Bool returns the value under name if it is a bool, otherwise def
func (o Options) Bool(name string, def bool) bool {
	if v, ok := o[name].(bool); ok {
		return v
	}
	return def
}
