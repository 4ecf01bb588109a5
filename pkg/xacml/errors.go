package xacml

import "fmt"

// Reason identifies which structural validation rule a policy document failed.
type Reason int

const (
	// ReasonMalformedDocument indicates the raw document could not be parsed at all.
	ReasonMalformedDocument Reason = iota

	// ReasonMissingDenyAdvice indicates the document has no Deny rule carrying an advice.
	ReasonMissingDenyAdvice

	// ReasonMissingNotice indicates an advice lacks the mandatory localized user notice.
	ReasonMissingNotice

	// ReasonUnboundedTarget indicates a rule targets any service provider without
	// the no-SP-target exemption.
	ReasonUnboundedTarget

	// ReasonUnresolvedAssignment indicates a rule declares an assignment without a
	// resolvable Level-of-Assurance.
	ReasonUnresolvedAssignment
)

// String returns a human readable form of the validation reason.
func (r Reason) String() string {
	switch r {
	case ReasonMalformedDocument:
		return "malformed policy document"
	case ReasonMissingDenyAdvice:
		return "no deny rule with an advice present"
	case ReasonMissingNotice:
		return "advice lacks the localized user notice"
	case ReasonUnboundedTarget:
		return "rule target is not bound to a service provider"
	case ReasonUnresolvedAssignment:
		return "assignment does not resolve to a level of assurance"
	default:
		return "unknown parse failure"
	}
}

// ParseError is returned when a policy document fails a structural validation rule.
// A document that fails any rule yields no definition at all.
type ParseError struct {
	// PolicyName names the offending policy.
	PolicyName string

	// Reason is the validation rule the document failed.
	Reason Reason

	// Detail optionally names the offending rule, advice or assignment.
	Detail string
}

// Error implements the error interface for ParseError.
func (e *ParseError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("policy %q: %s: %s", e.PolicyName, e.Reason, e.Detail)
	}
	return fmt.Sprintf("policy %q: %s", e.PolicyName, e.Reason)
}
