package loader

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/openconext/pdp/pkg/domain"
	"github.com/openconext/pdp/pkg/registry"
	"github.com/openconext/pdp/pkg/store"
	"github.com/openconext/pdp/pkg/xacml"
)

// performanceLoader synthesizes policies for load testing, one per registry SP
// round-robin, each targeting a real SP so entity-scoped enforcement stays
// meaningful under load.
type performanceLoader struct {
	count       int
	registry    registry.ServiceRegistry
	policyStore store.PolicyStore
}

// NewPerformanceLoader returns a PrePolicyLoader synthesizing count policies
// from the registry's entities.
func NewPerformanceLoader(count int, reg registry.ServiceRegistry, policyStore store.PolicyStore) PrePolicyLoader {
	return &performanceLoader{
		count:       count,
		registry:    reg,
		policyStore: policyStore,
	}
}

// Load synthesizes and stores the configured number of policies.
func (l *performanceLoader) Load(ctx context.Context) error {
	sps, err := l.registry.ServiceProviders(ctx)
	if err != nil {
		return errors.Wrap(err, "listing registry service providers")
	}
	idps, err := l.registry.IdentityProviders(ctx)
	if err != nil {
		return errors.Wrap(err, "listing registry identity providers")
	}
	if len(sps) == 0 || len(idps) == 0 {
		return errors.New("registry has no entities to synthesize policies from")
	}

	policies := make([]domain.Policy, 0, l.count)
	for i := 0; i < l.count; i++ {
		sp := sps[i%len(sps)]
		idp := idps[i%len(idps)]
		name := fmt.Sprintf("perf-policy-%s", uuid.New().String())
		policies = append(policies, domain.Policy{
			Name:                    name,
			PolicyXML:               syntheticPolicyXML(name, sp.EntityID),
			Active:                  true,
			AuthenticatingAuthority: idp.EntityID,
			UserIdentifier:          "system",
			UserDisplayName:         "Performance loader",
			Type:                    domain.PolicyTypeRegular,
		})
	}

	if err := l.policyStore.SaveAll(ctx, policies); err != nil {
		return errors.Wrap(err, "saving synthesized policies")
	}
	log.Info().Msgf("Synthesized %d policies", len(policies))
	return nil
}

// syntheticPolicyXML renders a minimal document that passes every structural
// validation rule: a deny rule bound to the SP, advised with a localized notice.
func syntheticPolicyXML(name, spEntityID string) string {
	return fmt.Sprintf(`<Policy PolicyId=%q>
  <Description>Synthesized policy for load testing</Description>
  <Rule RuleId="deny-rule" Effect="Deny">
    <Target>
      <AnyOf>
        <AllOf>
          <Match MatchId="urn:oasis:names:tc:xacml:1.0:function:string-equal">
            <AttributeValue>%s</AttributeValue>
            <AttributeDesignator AttributeId=%q/>
          </Match>
        </AllOf>
      </AnyOf>
    </Target>
    <AdviceExpressions>
      <AdviceExpression AdviceId="deny-advice" AppliesTo="Deny">
        <AttributeAssignmentExpression AttributeId="DenyMessage:nl">
          <AttributeValue>Geen toegang tot deze dienst</AttributeValue>
        </AttributeAssignmentExpression>
        <AttributeAssignmentExpression AttributeId="DenyMessage:en">
          <AttributeValue>No access to this service</AttributeValue>
        </AttributeAssignmentExpression>
      </AdviceExpression>
    </AdviceExpressions>
  </Rule>
</Policy>`, name, spEntityID, xacml.AttributeIDSPEntityID)
}
