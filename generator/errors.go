package generator

import "fmt"

// GatewayError wraps any transport-level failure from the AI gateway. Network,
// auth, quota and empty-completion causes all look the same to callers.
type GatewayError struct {
	Err error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("ai gateway: %v", e.Err)
}

func (e *GatewayError) Unwrap() error { return e.Err }

// FormatError means the gateway call itself succeeded but the response did not
// match the expected shape (unparseable JSON, missing required key, empty text
// where text was required). The operation is not retried.
type FormatError struct {
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("response format: %s: %v", e.Reason, e.Err)
	}
	return "response format: " + e.Reason
}

func (e *FormatError) Unwrap() error { return e.Err }
