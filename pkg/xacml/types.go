// Package xacml implements the structural validation of raw policy documents and
// their transformation into usable policy definitions. The low-level document
// reading is behind the narrow Reader interface so the validation logic can be
// exercised with synthetic RuleSet fixtures.
package xacml

import (
	"github.com/openconext/pdp/pkg/logger"
)

var log = logger.New("xacml")

const (
	// AttributeIDSPEntityID is the target designator for a service provider entity reference.
	AttributeIDSPEntityID = "SPentityID"

	// AttributeIDIDPEntityID is the target designator for an identity provider entity reference.
	AttributeIDIDPEntityID = "IDPentityID"

	// AdviceMessagePrefix prefixes the attribute ids of localized deny messages
	// carried on an advice, ex. DenyMessage:nl.
	AdviceMessagePrefix = "DenyMessage:"

	// LocaleNL is the locale of the mandatory user-facing deny notice.
	LocaleNL = "nl"
)

// Effect is the outcome a rule produces when it matches.
type Effect string

const (
	// EffectPermit grants the request.
	EffectPermit Effect = "Permit"

	// EffectDeny blocks the request.
	EffectDeny Effect = "Deny"
)

// RuleSet is the low-level structured representation of a parsed policy document.
type RuleSet struct {
	PolicyID    string
	Description string
	Rules       []Rule

	// NoSPTargetExemption marks the narrow special case of documents explicitly
	// flagged to carry no service provider target. Only such documents may contain
	// rules matching any SP.
	NoSPTargetExemption bool
}

// Rule is a single policy rule: an effect, the entities it targets, the advices
// accompanying its decision and the obligation assignments it declares.
type Rule struct {
	ID          string
	Effect      Effect
	Target      Target
	Advices     []Advice
	Assignments []Assignment
}

// Target holds the concrete entity references a rule resolves to. A target with no
// service provider references matches any SP.
type Target struct {
	ServiceProviderIDs  []string
	IdentityProviderIDs []string
	Attributes          []Attribute
}

// Attribute is a non-entity name/value match referenced by a rule target.
type Attribute struct {
	Name  string
	Value string
}

// Advice is a non-blocking notice accompanying a rule's decision, keyed by locale.
type Advice struct {
	ID       string
	Messages map[string]string
}

// Assignment binds an obligation to a rule's decision; here the obligation is a
// Level-of-Assurance step-up requirement.
type Assignment struct {
	Identifier string
	Level      string
}

// Reader parses a raw policy document into its structured representation.
// Implementations must be safe for concurrent use.
type Reader interface {
	// ParseDocument parses the given document bytes, or fails when the document
	// is not syntactically valid.
	ParseDocument(doc []byte) (*RuleSet, error)
}
