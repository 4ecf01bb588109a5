package xacml

import (
	"fmt"

	"github.com/openconext/pdp/pkg/domain"
	"github.com/openconext/pdp/pkg/errcode"
)

// DefinitionParser validates a policy's raw document and extracts its definition.
// Parsing is a pure function of the document: no I/O, no ambient state, safe for
// concurrent use.
type DefinitionParser struct {
	reader Reader
}

// NewDefinitionParser returns a DefinitionParser backed by the given document
// reader. A nil reader defaults to the XML reader.
func NewDefinitionParser(reader Reader) *DefinitionParser {
	if reader == nil {
		reader = NewXMLReader()
	}
	return &DefinitionParser{reader: reader}
}

// Parse validates the policy's raw document against every structural rule and
// returns the extracted definition. A single violating rule fails the whole
// document; no partial definition is ever returned.
func (p *DefinitionParser) Parse(policy domain.Policy) (domain.PolicyDefinition, error) {
	ruleSet, err := p.reader.ParseDocument([]byte(policy.PolicyXML))
	if err != nil {
		log.Error().Err(err).Str(errcode.Kind, errcode.ErrParsingPolicyDocument.String()).
			Msgf("Policy %q document failed to parse", policy.Name)
		return domain.PolicyDefinition{}, &ParseError{
			PolicyName: policy.Name,
			Reason:     ReasonMalformedDocument,
			Detail:     err.Error(),
		}
	}

	if !hasAdvisedDenyRule(ruleSet) {
		return domain.PolicyDefinition{}, &ParseError{
			PolicyName: policy.Name,
			Reason:     ReasonMissingDenyAdvice,
		}
	}

	definition := domain.PolicyDefinition{
		PolicyID: policy.ID,
		Name:     policy.Name,
	}

	for _, rule := range ruleSet.Rules {
		for _, advice := range rule.Advices {
			if advice.Messages[LocaleNL] == "" {
				return domain.PolicyDefinition{}, &ParseError{
					PolicyName: policy.Name,
					Reason:     ReasonMissingNotice,
					Detail:     fmt.Sprintf("advice %q on rule %q", advice.ID, rule.ID),
				}
			}
		}

		if len(rule.Target.ServiceProviderIDs) == 0 && !ruleSet.NoSPTargetExemption {
			return domain.PolicyDefinition{}, &ParseError{
				PolicyName: policy.Name,
				Reason:     ReasonUnboundedTarget,
				Detail:     fmt.Sprintf("rule %q", rule.ID),
			}
		}

		for _, assignment := range rule.Assignments {
			if assignment.Identifier == "" || assignment.Level == "" {
				return domain.PolicyDefinition{}, &ParseError{
					PolicyName: policy.Name,
					Reason:     ReasonUnresolvedAssignment,
					Detail:     fmt.Sprintf("rule %q", rule.ID),
				}
			}
			definition.LoAs = append(definition.LoAs, domain.LoA{
				Identifier: assignment.Identifier,
				Level:      assignment.Level,
			})
		}

		definition.ServiceProviderIDs = appendUnique(definition.ServiceProviderIDs, rule.Target.ServiceProviderIDs)
		definition.IdentityProviderIDs = appendUnique(definition.IdentityProviderIDs, rule.Target.IdentityProviderIDs)
		for _, attr := range rule.Target.Attributes {
			definition.Attributes = append(definition.Attributes, domain.Attribute{
				Name:  attr.Name,
				Value: attr.Value,
			})
		}
	}

	return definition, nil
}

// hasAdvisedDenyRule reports whether at least one rule denies with an advice
// attached. A policy lacking an explicit, advised deny path would fail open.
func hasAdvisedDenyRule(rs *RuleSet) bool {
	for _, rule := range rs.Rules {
		if rule.Effect == EffectDeny && len(rule.Advices) > 0 {
			return true
		}
	}
	return false
}

func appendUnique(existing []string, ids []string) []string {
	for _, id := range ids {
		seen := false
		for _, e := range existing {
			if e == id {
				seen = true
				break
			}
		}
		if !seen {
			existing = append(existing, id)
		}
	}
	return existing
}
