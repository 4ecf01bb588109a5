// Package domain implements the value types shared by the PDP components: federation
// entities, the authenticated federated principal, policies and their parsed definitions.
package domain

import (
	"time"

	mapset "github.com/deckarep/golang-set"
)

// FederationEntity identifies a single IdP or SP known to the federation.
// Identity is determined by EntityID; two entities with the same EntityID are the
// same entity regardless of the remaining metadata.
type FederationEntity struct {
	// EntityID is the globally unique, opaque identifier of the entity, typically a URI.
	EntityID string `json:"entityId"`

	// InstitutionID identifies the institution that owns the entity.
	InstitutionID string `json:"institutionId"`

	// Name is the display name of the entity.
	Name string `json:"nameNl,omitempty"`

	// NameEN is the English display name of the entity.
	NameEN string `json:"nameEn,omitempty"`

	// State marks test/production entities in the registry. Not used by decision logic.
	State string `json:"state,omitempty"`
}

// FederatedPrincipal is the authenticated actor on whose behalf policy actions are
// performed. It is constructed once per authenticated request by the authentication
// boundary and must not be mutated or shared across requests.
type FederatedPrincipal struct {
	// Identifier is the stable identifier of the principal.
	Identifier string

	// DisplayName is the human readable name of the principal.
	DisplayName string

	// AuthenticatingAuthority is the entityID of the IdP that authenticated the
	// principal. There is exactly one.
	AuthenticatingAuthority string

	// InstitutionID identifies the principal's institution and scopes registry
	// fallback lookups when local entity-set membership is inconclusive.
	InstitutionID string

	// IdpEntities are the IdP entities owned by the principal's institution.
	IdpEntities []FederationEntity

	// SpEntities are the SP entities owned by the principal's institution.
	SpEntities []FederationEntity

	// PolicyIdpAccessEnforcementRequired marks principals subject to IdP/SP
	// ownership enforcement. Administrators are exempt and carry false here.
	PolicyIdpAccessEnforcementRequired bool

	idpEntityIDs mapset.Set
	spEntityIDs  mapset.Set
}

// NewFederatedPrincipal constructs an immutable FederatedPrincipal and indexes the
// owned entity sets for membership tests.
func NewFederatedPrincipal(identifier, displayName, authenticatingAuthority, institutionID string,
	idpEntities, spEntities []FederationEntity, enforcementRequired bool) *FederatedPrincipal {
	idpIDs := mapset.NewSet()
	for _, e := range idpEntities {
		idpIDs.Add(e.EntityID)
	}
	spIDs := mapset.NewSet()
	for _, e := range spEntities {
		spIDs.Add(e.EntityID)
	}
	return &FederatedPrincipal{
		Identifier:                         identifier,
		DisplayName:                        displayName,
		AuthenticatingAuthority:            authenticatingAuthority,
		InstitutionID:                      institutionID,
		IdpEntities:                        idpEntities,
		SpEntities:                         spEntities,
		PolicyIdpAccessEnforcementRequired: enforcementRequired,
		idpEntityIDs:                       idpIDs,
		spEntityIDs:                        spIDs,
	}
}

// RequiresAccessEnforcement returns true when the principal is subject to
// IdP/SP ownership enforcement.
func (p *FederatedPrincipal) RequiresAccessEnforcement() bool {
	return p.PolicyIdpAccessEnforcementRequired
}

// OwnsIdpEntity returns true when the given entityID is in the principal's owned IdP set.
func (p *FederatedPrincipal) OwnsIdpEntity(entityID string) bool {
	return p.idpEntityIDs != nil && p.idpEntityIDs.Contains(entityID)
}

// OwnsSpEntity returns true when the given entityID is in the principal's owned SP set.
func (p *FederatedPrincipal) OwnsSpEntity(entityID string) bool {
	return p.spEntityIDs != nil && p.spEntityIDs.Contains(entityID)
}

// PolicyType tags a policy with its evaluation variant.
type PolicyType string

const (
	// PolicyTypeRegular is a plain allow/deny access policy.
	PolicyTypeRegular PolicyType = "reg"

	// PolicyTypeStepUp is a policy carrying Level-of-Assurance step-up obligations.
	PolicyTypeStepUp PolicyType = "step"
)

// Policy is a named, access controllable unit holding the raw policy document.
// AuthenticatingAuthority anchors the policy to the IdP that must have authenticated
// whoever created it; it is set at creation and used for ownership checks.
type Policy struct {
	ID                      uint       `json:"id" gorm:"primaryKey;autoIncrement"`
	Name                    string     `json:"name"`
	PolicyXML               string     `json:"policyXml" gorm:"column:policy_xml;type:mediumtext"`
	Active                  bool       `json:"active"`
	AuthenticatingAuthority string     `json:"authenticatingAuthority"`
	UserIdentifier          string     `json:"userIdentifier"`
	UserDisplayName         string     `json:"userDisplayName"`
	Type                    PolicyType `json:"type"`
	CreatedAt               time.Time  `json:"created"`
}

// LoA is a Level-of-Assurance step-up obligation extracted from a policy rule
// assignment: the attribute identifier the obligation is bound to and the
// assurance level it requires.
type LoA struct {
	Identifier string `json:"identifier"`
	Level      string `json:"level"`
}

// Attribute is a name/value pair referenced by a policy definition.
type Attribute struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// PolicyDefinition is the validated, structured result of parsing a Policy's raw
// document. It is derivable and never persisted independently of its source policy;
// it only exists for documents that passed every structural validation rule.
type PolicyDefinition struct {
	PolicyID uint   `json:"policyId"`
	Name     string `json:"name"`

	// LoAs are the step-up obligations in document rule order, duplicates permitted.
	LoAs []LoA `json:"loas"`

	// ServiceProviderIDs are the SP entity references resolved from the rule targets.
	ServiceProviderIDs []string `json:"serviceProviderIds"`

	// IdentityProviderIDs are the IdP entity references resolved from the rule targets.
	IdentityProviderIDs []string `json:"identityProviderIds"`

	// Attributes are the attribute name/value pairs referenced by the document's rules.
	Attributes []Attribute `json:"attributes"`
}
