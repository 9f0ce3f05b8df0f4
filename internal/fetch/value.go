package fetch

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// wrappedValue decodes Redfin fields that arrive either as a bare scalar
// or wrapped in a {"value": x, "level": y} object.
type wrappedValue struct {
	raw json.RawMessage
}

func (w *wrappedValue) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '{' {
		var obj struct {
			Value json.RawMessage `json:"value"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		w.raw = obj.Value
		return nil
	}
	w.raw = append(json.RawMessage(nil), data...)
	return nil
}

// asInt64 returns the value as an int64, truncating floats.
func (w wrappedValue) asInt64() (int64, bool) {
	f, ok := w.asFloat64()
	if !ok {
		return 0, false
	}
	return int64(f), true
}

// asFloat64 returns the value as a float64, parsing numeric strings too.
func (w wrappedValue) asFloat64() (float64, bool) {
	if len(w.raw) == 0 || string(w.raw) == "null" {
		return 0, false
	}

	var f float64
	if err := json.Unmarshal(w.raw, &f); err == nil {
		return f, true
	}

	var s string
	if err := json.Unmarshal(w.raw, &s); err == nil {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f, true
		}
	}

	return 0, false
}

// asString returns the value as a string, formatting bare numbers.
func (w wrappedValue) asString() (string, bool) {
	if len(w.raw) == 0 || string(w.raw) == "null" {
		return "", false
	}

	var s string
	if err := json.Unmarshal(w.raw, &s); err == nil {
		return s, s != ""
	}

	var f float64
	if err := json.Unmarshal(w.raw, &f); err == nil {
		if f == float64(int64(f)) {
			return strconv.FormatInt(int64(f), 10), true
		}
		return fmt.Sprintf("%g", f), true
	}

	return "", false
}
