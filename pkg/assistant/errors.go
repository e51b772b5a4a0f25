package assistant

import "fmt"

// ServiceCallError wraps a network, auth or quota failure from the reasoning service
type ServiceCallError struct {
	Err error
}

func (e *ServiceCallError) Error() string {
	return fmt.Sprintf("reasoning service call failed: %v", e.Err)
}

func (e *ServiceCallError) Unwrap() error {
	return e.Err
}

// MalformedReplyError is returned when the service reply is not the expected JSON shape
type MalformedReplyError struct {
	Reply string
	Err   error
}

func (e *MalformedReplyError) Error() string {
	return fmt.Sprintf("malformed reply: %v", e.Err)
}

func (e *MalformedReplyError) Unwrap() error {
	return e.Err
}

// PlanGenerationError is returned by GeneratePlan. It wraps a
// *ServiceCallError or a *MalformedReplyError.
type PlanGenerationError struct {
	Err error
}

func (e *PlanGenerationError) Error() string {
	return fmt.Sprintf("error analyzing request: %v", e.Err)
}

func (e *PlanGenerationError) Unwrap() error {
	return e.Err
}

// ParameterRefinementError is returned by RefineParams
type ParameterRefinementError struct {
	Tool string
	Err  error
}

func (e *ParameterRefinementError) Error() string {
	return fmt.Sprintf("error getting %s step parameters: %v", e.Tool, e.Err)
}

func (e *ParameterRefinementError) Unwrap() error {
	return e.Err
}
