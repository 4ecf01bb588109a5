package xacml

import (
	"encoding/xml"
	"strings"

	"github.com/pkg/errors"
)

// xmlReader is the default Reader implementation. It parses the XACML 3.0 subset
// emitted by the policy templates: a single Policy element with Rule children
// carrying targets, advice expressions and obligation expressions.
type xmlReader struct{}

// NewXMLReader returns a Reader for XML policy documents.
func NewXMLReader() Reader {
	return &xmlReader{}
}

type xmlPolicy struct {
	XMLName     xml.Name  `xml:"Policy"`
	PolicyID    string    `xml:"PolicyId,attr"`
	NoSPTarget  bool      `xml:"NoSPTarget,attr"`
	Description string    `xml:"Description"`
	Rules       []xmlRule `xml:"Rule"`
}

type xmlRule struct {
	RuleID      string          `xml:"RuleId,attr"`
	Effect      string          `xml:"Effect,attr"`
	Target      xmlTarget       `xml:"Target"`
	Advices     []xmlAdvice     `xml:"AdviceExpressions>AdviceExpression"`
	Obligations []xmlObligation `xml:"ObligationExpressions>ObligationExpression"`
}

type xmlTarget struct {
	AnyOf []xmlAnyOf `xml:"AnyOf"`
}

type xmlAnyOf struct {
	AllOf []xmlAllOf `xml:"AllOf"`
}

type xmlAllOf struct {
	Matches []xmlMatch `xml:"Match"`
}

type xmlMatch struct {
	Value      string        `xml:"AttributeValue"`
	Designator xmlDesignator `xml:"AttributeDesignator"`
}

type xmlDesignator struct {
	AttributeID string `xml:"AttributeId,attr"`
}

type xmlAdvice struct {
	AdviceID    string              `xml:"AdviceId,attr"`
	Assignments []xmlAssignmentExpr `xml:"AttributeAssignmentExpression"`
}

type xmlObligation struct {
	ObligationID string              `xml:"ObligationId,attr"`
	Assignments  []xmlAssignmentExpr `xml:"AttributeAssignmentExpression"`
}

type xmlAssignmentExpr struct {
	AttributeID string `xml:"AttributeId,attr"`
	Value       string `xml:"AttributeValue"`
}

// ParseDocument parses the given XML document into a RuleSet.
func (r *xmlReader) ParseDocument(doc []byte) (*RuleSet, error) {
	var p xmlPolicy
	if err := xml.Unmarshal(doc, &p); err != nil {
		return nil, errors.Wrap(err, "unmarshalling policy document")
	}

	rs := &RuleSet{
		PolicyID:            p.PolicyID,
		Description:         strings.TrimSpace(p.Description),
		NoSPTargetExemption: p.NoSPTarget,
	}
	for _, xr := range p.Rules {
		rule := Rule{
			ID:     xr.RuleID,
			Effect: Effect(xr.Effect),
			Target: resolveTarget(xr.Target),
		}
		for _, xa := range xr.Advices {
			advice := Advice{
				ID:       xa.AdviceID,
				Messages: map[string]string{},
			}
			for _, assignment := range xa.Assignments {
				if strings.HasPrefix(assignment.AttributeID, AdviceMessagePrefix) {
					locale := strings.TrimPrefix(assignment.AttributeID, AdviceMessagePrefix)
					advice.Messages[locale] = assignment.Value
				}
			}
			rule.Advices = append(rule.Advices, advice)
		}
		for _, xo := range xr.Obligations {
			for _, assignment := range xo.Assignments {
				rule.Assignments = append(rule.Assignments, Assignment{
					Identifier: assignment.AttributeID,
					Level:      strings.TrimSpace(assignment.Value),
				})
			}
		}
		rs.Rules = append(rs.Rules, rule)
	}
	return rs, nil
}

func resolveTarget(t xmlTarget) Target {
	var target Target
	for _, anyOf := range t.AnyOf {
		for _, allOf := range anyOf.AllOf {
			for _, match := range allOf.Matches {
				value := strings.TrimSpace(match.Value)
				switch match.Designator.AttributeID {
				case AttributeIDSPEntityID:
					target.ServiceProviderIDs = append(target.ServiceProviderIDs, value)
				case AttributeIDIDPEntityID:
					target.IdentityProviderIDs = append(target.IdentityProviderIDs, value)
				default:
					target.Attributes = append(target.Attributes, Attribute{
						Name:  match.Designator.AttributeID,
						Value: value,
					})
				}
			}
		}
	}
	return target
}
