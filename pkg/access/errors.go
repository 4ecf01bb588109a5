package access

import (
	"errors"
	"fmt"
)

var (
	// ErrNoPrincipal indicates the request context carried no authenticated
	// principal. This is a caller precondition violation: the authentication
	// boundary must populate the context before enforcement is invoked.
	ErrNoPrincipal = errors.New("no federated principal in request context")
)

// MismatchServiceProviderError indicates the target service provider is not
// owned by the principal's institution.
type MismatchServiceProviderError struct {
	EntityID string
}

// Error implements the error interface for MismatchServiceProviderError.
func (e *MismatchServiceProviderError) Error() string {
	return fmt.Sprintf("policy for target service provider %q is not owned by you", e.EntityID)
}

// MismatchIdentityProvidersError indicates a target identity provider is not
// owned by the principal's institution.
type MismatchIdentityProvidersError struct {
	EntityID string
}

// Error implements the error interface for MismatchIdentityProvidersError.
func (e *MismatchIdentityProvidersError) Error() string {
	return fmt.Sprintf("policy for target identity provider %q is not owned by you", e.EntityID)
}

// OriginatingIdentityProviderError indicates the policy's anchoring IdP is
// neither owned by the principal nor equal to the principal's authenticating
// authority.
type OriginatingIdentityProviderError struct {
	AuthenticatingAuthority string
}

// Error implements the error interface for OriginatingIdentityProviderError.
func (e *OriginatingIdentityProviderError) Error() string {
	return fmt.Sprintf("policy is anchored to identity provider %q which you neither own nor authenticated through", e.AuthenticatingAuthority)
}
