// Package params provides typed access to hyperparameter maps.
//
// Algorithm recipes carry their hyperparameters as a map[string]any decoded
// from YAML, so numeric values may arrive as int or float64 depending on how
// they were written. Get normalizes across those representations.
package params

// Get retrieves a typed hyperparameter from a map[string]any.
// If the key is missing or the value cannot be converted, it returns the
// default value.
func Get[T any](m map[string]any, key string, defaultValue T) T {
	if val, ok := m[key]; ok {
		switch any(defaultValue).(type) {
		case int:
			switch x := val.(type) {
			case int:
				return any(x).(T)
			case float64:
				return any(int(x)).(T)
			}
		case float64:
			switch x := val.(type) {
			case float64:
				return any(x).(T)
			case int:
				return any(float64(x)).(T)
			}
		case string:
			if s, ok := val.(string); ok {
				return any(s).(T)
			}
		case bool:
			if b, ok := val.(bool); ok {
				return any(b).(T)
			}
		default:
			// fallback: if type matches exactly
			if v2, ok := val.(T); ok {
				return v2
			}
		}
	}
	return defaultValue
}

// Floats retrieves a float slice hyperparameter, normalizing element types.
// YAML decodes numeric sequences as []any, so each element is converted
// individually.
func Floats(m map[string]any, key string, defaultValue []float64) []float64 {
	val, ok := m[key]
	if !ok {
		return defaultValue
	}

	raw, ok := val.([]any)
	if !ok {
		if fs, ok := val.([]float64); ok {
			return fs
		}
		return defaultValue
	}

	out := make([]float64, 0, len(raw))
	for _, v := range raw {
		switch x := v.(type) {
		case float64:
			out = append(out, x)
		case int:
			out = append(out, float64(x))
		default:
			return defaultValue
		}
	}

	return out
}
