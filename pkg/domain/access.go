package domain

// AccessLevel is the capability requested on a policy action.
type AccessLevel string

const (
	// AccessRead grants reading a policy.
	AccessRead AccessLevel = "READ"

	// AccessWrite grants creating, editing or deleting a policy.
	AccessWrite AccessLevel = "WRITE"

	// AccessViolations grants viewing policy violation records. It is a distinct,
	// more permissive capability that requires authentication but no entity
	// ownership matching.
	AccessViolations AccessLevel = "VIOLATIONS"
)

// String returns the AccessLevel as a string
func (a AccessLevel) String() string {
	return string(a)
}

// IsValid returns true when the access level is one of the supported values.
func (a AccessLevel) IsValid() bool {
	switch a {
	case AccessRead, AccessWrite, AccessViolations:
		return true
	default:
		return false
	}
}
