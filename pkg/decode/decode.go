// Package decode converts loosely typed values into typed structs.
package decode

import "encoding/json"

// FromMap converts data into T by round-tripping through JSON, so T's json tags apply.
func FromMap[T any](data map[string]any) (T, error) {
	var result T
	b, err := json.Marshal(data)
	if err != nil {
		return result, err
	}
	err = json.Unmarshal(b, &result)
	return result, err
}
