package openapi

import "encoding/json"

// MarshalJSON renders the document as indented JSON.
func MarshalJSON(spec *Spec) ([]byte, error) {
	return json.MarshalIndent(spec, "", "  ")
}
