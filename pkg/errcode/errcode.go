// Package errcode defines the error codes for error messages and an explanation
// of what the error signifies.
package errcode

import (
	"fmt"
)

// ErrCode defines the type to represent error codes
type ErrCode int

const (
	// Kind defines the kind for the error code constants
	Kind = "error_code"
)

// Range 1000-1050 is reserved for errors related to application startup or bootstrapping
const (
	// ErrInvalidCLIArgument indicates an invalid CLI argument
	ErrInvalidCLIArgument ErrCode = iota + 1000

	// ErrSettingLogLevel indicates the specified log level could not be set
	ErrSettingLogLevel

	// ErrLoadingConfigFile indicates the server configuration file could not be read
	ErrLoadingConfigFile

	// ErrOpeningDatabase indicates the policy database connection could not be established
	ErrOpeningDatabase

	// ErrPrePolicyLoad indicates the startup policy ingestion strategy failed
	ErrPrePolicyLoad
)

// Range 2000-2500 is reserved for errors related to access enforcement
const (
	// ErrRegistryLookup indicates a service registry ownership lookup failed;
	// the enforcement decision fails closed when this occurs
	ErrRegistryLookup ErrCode = iota + 2000

	// ErrNoPrincipalInContext indicates the request context carried no federated principal
	ErrNoPrincipalInContext

	// ErrRecordingViolation indicates a policy violation record could not be appended
	ErrRecordingViolation
)

// Range 3000-3500 is reserved for errors related to policy document parsing
const (
	// ErrParsingPolicyDocument indicates a policy document failed structural validation
	ErrParsingPolicyDocument ErrCode = iota + 3000

	// ErrReadingPolicyFile indicates a policy document could not be read from disk
	ErrReadingPolicyFile
)

// Range 4000-4500 is reserved for errors related to the policy and violation stores
const (
	// ErrSavingPolicy indicates a policy record could not be persisted
	ErrSavingPolicy ErrCode = iota + 4000

	// ErrFetchingPolicy indicates a policy record could not be fetched
	ErrFetchingPolicy

	// ErrDeletingViolations indicates aged violation records could not be deleted
	ErrDeletingViolations
)

// Range 5000-5500 is reserved for errors related to periodic jobs
const (
	// ErrMissingServiceProviderCheck indicates the missing-SP validation sweep failed
	ErrMissingServiceProviderCheck ErrCode = iota + 5000

	// ErrSendingMail indicates an alert mail could not be delivered
	ErrSendingMail
)

// String returns the error code as a string, ex. E1000
func (e ErrCode) String() string {
	return fmt.Sprintf("E%d", e)
}

// FromStr returns the ErrCode representation for the given error code string
// Ex. E1000 is converted to ErrInvalidCLIArgument
func FromStr(e string) (ErrCode, error) {
	errStr := e
	if len(errStr) > 0 && errStr[0] == 'E' {
		errStr = errStr[1:]
	}
	var errInt int
	if _, err := fmt.Sscanf(errStr, "%d", &errInt); err != nil {
		return ErrCode(0), fmt.Errorf("Error code '%s' is not a valid error code format. Should be of the form Exxxx, ex. E1000", e)
	}
	return ErrCode(errInt), nil
}
