// Package constants defines the constants that are shared between packages of the PDP server.
package constants

import "time"

const (
	// PDPServerPort is the default port the API server listens on.
	PDPServerPort = 8080

	// PDPHTTPServerPort is the default port for health and version probes.
	PDPHTTPServerPort = 9091

	// EnvVarHumanReadableLogMessages is the env var used to enable human readable log messages.
	EnvVarHumanReadableLogMessages = "PDP_HUMAN_READABLE_LOGS"

	// DefaultRegistryRequestTimeout bounds a single service registry lookup.
	// A lookup that does not complete within this window fails closed.
	DefaultRegistryRequestTimeout = 5 * time.Second

	// DefaultViolationRetentionDays is the default number of days a policy
	// violation record is kept before the retention cleaner removes it.
	DefaultViolationRetentionDays = 30
)

const (
	// HeaderNameID is the trusted-proxy header carrying the principal's stable identifier.
	HeaderNameID = "X-Unspecified-Name-Id"

	// HeaderDisplayName is the trusted-proxy header carrying the principal's display name.
	HeaderDisplayName = "X-Display-Name"

	// HeaderIdpEntityID is the trusted-proxy header carrying the entityID of the
	// IdP that authenticated the principal.
	HeaderIdpEntityID = "X-Idp-Entity-Id"
)
