package api

import "encoding/json"

// CompareRequest carries two raw statements, each as the accounting provider
// returned it.
type CompareRequest struct {
	Current  json.RawMessage `json:"current" validate:"required"`
	Previous json.RawMessage `json:"previous" validate:"required"`
}
