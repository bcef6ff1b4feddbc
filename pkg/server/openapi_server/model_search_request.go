// SPDX-License-Identifier: MIT

package openapi_server

import "fmt"

type SearchRequest struct {
	Start  *Location `json:"start,omitempty"`
	Goal   *Location `json:"goal,omitempty"`
	Policy string    `json:"policy,omitempty"`
}

type StepRequest struct {
	Count int `json:"count,omitempty"`
}

// AssertStepRequestRequired checks if the required fields are not zero-ed
func AssertStepRequestRequired(obj StepRequest) error {
	if obj.Count < 0 {
		return &ParsingError{Err: fmt.Errorf("count must not be negative, got %v", obj.Count)}
	}
	return nil
}
