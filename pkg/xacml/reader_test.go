package xacml

import (
	"testing"

	tassert "github.com/stretchr/testify/assert"

	"github.com/openconext/pdp/pkg/domain"
)

const stepUpPolicyXML = `<?xml version="1.0" encoding="UTF-8"?>
<Policy xmlns="urn:oasis:names:tc:xacml:3.0:core:schema:wd-17" PolicyId="urn:pdp:policy:stepup">
  <Description>Step-up policy requiring increasing levels of assurance</Description>
  <Rule RuleId="deny-loa3" Effect="Deny">
    <Target>
      <AnyOf>
        <AllOf>
          <Match MatchId="urn:oasis:names:tc:xacml:1.0:function:string-equal">
            <AttributeValue DataType="http://www.w3.org/2001/XMLSchema#string">http://mock-sp</AttributeValue>
            <AttributeDesignator AttributeId="SPentityID" Category="urn:oasis:names:tc:xacml:3.0:attribute-category:resource" DataType="http://www.w3.org/2001/XMLSchema#string" MustBePresent="false"/>
          </Match>
          <Match MatchId="urn:oasis:names:tc:xacml:1.0:function:string-equal">
            <AttributeValue DataType="http://www.w3.org/2001/XMLSchema#string">http://mock-idp</AttributeValue>
            <AttributeDesignator AttributeId="IDPentityID" Category="urn:oasis:names:tc:xacml:3.0:attribute-category:resource" DataType="http://www.w3.org/2001/XMLSchema#string" MustBePresent="false"/>
          </Match>
        </AllOf>
      </AnyOf>
    </Target>
    <AdviceExpressions>
      <AdviceExpression AdviceId="deny-advice" AppliesTo="Deny">
        <AttributeAssignmentExpression AttributeId="DenyMessage:nl">
          <AttributeValue DataType="http://www.w3.org/2001/XMLSchema#string">Extra authenticatie vereist</AttributeValue>
        </AttributeAssignmentExpression>
        <AttributeAssignmentExpression AttributeId="DenyMessage:en">
          <AttributeValue DataType="http://www.w3.org/2001/XMLSchema#string">Additional authentication required</AttributeValue>
        </AttributeAssignmentExpression>
      </AdviceExpression>
    </AdviceExpressions>
    <ObligationExpressions>
      <ObligationExpression ObligationId="urn:pdp:obligation:stepup" FulfillOn="Deny">
        <AttributeAssignmentExpression AttributeId="urn:pdp:loa">
          <AttributeValue DataType="http://www.w3.org/2001/XMLSchema#string">http://pdp/assurance/loa3</AttributeValue>
        </AttributeAssignmentExpression>
        <AttributeAssignmentExpression AttributeId="urn:pdp:loa">
          <AttributeValue DataType="http://www.w3.org/2001/XMLSchema#string">http://pdp/assurance/loa2</AttributeValue>
        </AttributeAssignmentExpression>
      </ObligationExpression>
    </ObligationExpressions>
  </Rule>
  <Rule RuleId="deny-loa1" Effect="Deny">
    <Target>
      <AnyOf>
        <AllOf>
          <Match MatchId="urn:oasis:names:tc:xacml:1.0:function:string-equal">
            <AttributeValue DataType="http://www.w3.org/2001/XMLSchema#string">http://mock-sp2</AttributeValue>
            <AttributeDesignator AttributeId="SPentityID" Category="urn:oasis:names:tc:xacml:3.0:attribute-category:resource" DataType="http://www.w3.org/2001/XMLSchema#string" MustBePresent="false"/>
          </Match>
          <Match MatchId="urn:oasis:names:tc:xacml:1.0:function:string-equal">
            <AttributeValue DataType="http://www.w3.org/2001/XMLSchema#string">employee</AttributeValue>
            <AttributeDesignator AttributeId="urn:mace:dir:attribute-def:eduPersonAffiliation" Category="urn:oasis:names:tc:xacml:3.0:attribute-category:resource" DataType="http://www.w3.org/2001/XMLSchema#string" MustBePresent="false"/>
          </Match>
        </AllOf>
      </AnyOf>
    </Target>
    <AdviceExpressions>
      <AdviceExpression AdviceId="deny-advice-2" AppliesTo="Deny">
        <AttributeAssignmentExpression AttributeId="DenyMessage:nl">
          <AttributeValue DataType="http://www.w3.org/2001/XMLSchema#string">Extra authenticatie vereist</AttributeValue>
        </AttributeAssignmentExpression>
      </AdviceExpression>
    </AdviceExpressions>
    <ObligationExpressions>
      <ObligationExpression ObligationId="urn:pdp:obligation:stepup" FulfillOn="Deny">
        <AttributeAssignmentExpression AttributeId="urn:pdp:loa">
          <AttributeValue DataType="http://www.w3.org/2001/XMLSchema#string">http://pdp/assurance/loa1</AttributeValue>
        </AttributeAssignmentExpression>
      </ObligationExpression>
    </ObligationExpressions>
  </Rule>
</Policy>`

func TestParseDocumentStepUpPolicy(t *testing.T) {
	assert := tassert.New(t)
	ruleSet, err := NewXMLReader().ParseDocument([]byte(stepUpPolicyXML))

	assert.NoError(err)
	assert.Equal("urn:pdp:policy:stepup", ruleSet.PolicyID)
	assert.Len(ruleSet.Rules, 2)
	assert.False(ruleSet.NoSPTargetExemption)

	first := ruleSet.Rules[0]
	assert.Equal(EffectDeny, first.Effect)
	assert.Equal([]string{"http://mock-sp"}, first.Target.ServiceProviderIDs)
	assert.Equal([]string{"http://mock-idp"}, first.Target.IdentityProviderIDs)
	assert.Equal("Extra authenticatie vereist", first.Advices[0].Messages["nl"])
	assert.Equal("Additional authentication required", first.Advices[0].Messages["en"])

	second := ruleSet.Rules[1]
	assert.Equal([]Attribute{{Name: "urn:mace:dir:attribute-def:eduPersonAffiliation", Value: "employee"}}, second.Target.Attributes)
}

func TestStepUpPolicyYieldsThreeLoas(t *testing.T) {
	assert := tassert.New(t)
	parser := NewDefinitionParser(nil)

	definition, err := parser.Parse(domain.Policy{
		ID:        3,
		Name:      "stepup-policy",
		PolicyXML: stepUpPolicyXML,
		Type:      domain.PolicyTypeStepUp,
	})

	assert.NoError(err)
	assert.Len(definition.LoAs, 3)
	assert.Equal([]domain.LoA{
		{Identifier: "urn:pdp:loa", Level: "http://pdp/assurance/loa3"},
		{Identifier: "urn:pdp:loa", Level: "http://pdp/assurance/loa2"},
		{Identifier: "urn:pdp:loa", Level: "http://pdp/assurance/loa1"},
	}, definition.LoAs)
	assert.Equal([]string{"http://mock-sp", "http://mock-sp2"}, definition.ServiceProviderIDs)
}

func TestParseDocumentMalformedXML(t *testing.T) {
	assert := tassert.New(t)
	_, err := NewXMLReader().ParseDocument([]byte("<Policy><Rule></Policy>"))
	assert.Error(err)
}

func TestParseDocumentNoSPTargetMarker(t *testing.T) {
	assert := tassert.New(t)
	doc := `<Policy PolicyId="urn:pdp:policy:idp-only" NoSPTarget="true">
  <Rule RuleId="deny" Effect="Deny">
    <Target/>
    <AdviceExpressions>
      <AdviceExpression AdviceId="a" AppliesTo="Deny">
        <AttributeAssignmentExpression AttributeId="DenyMessage:nl">
          <AttributeValue>Geen toegang</AttributeValue>
        </AttributeAssignmentExpression>
      </AdviceExpression>
    </AdviceExpressions>
  </Rule>
</Policy>`
	ruleSet, err := NewXMLReader().ParseDocument([]byte(doc))
	assert.NoError(err)
	assert.True(ruleSet.NoSPTargetExemption)

	_, err = NewDefinitionParser(NewXMLReader()).Parse(domain.Policy{Name: "idp-only", PolicyXML: doc})
	assert.NoError(err)
}
