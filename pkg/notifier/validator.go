package notifier

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/openconext/pdp/pkg/announcements"
	"github.com/openconext/pdp/pkg/errcode"
	"github.com/openconext/pdp/pkg/messaging"
	"github.com/openconext/pdp/pkg/registry"
	"github.com/openconext/pdp/pkg/store"
	"github.com/openconext/pdp/pkg/xacml"
)

// MissingServiceProviderValidator compares the SP entities referenced by stored
// policies against the service registry and mails one alert listing every
// reference that no longer resolves.
type MissingServiceProviderValidator struct {
	policyStore store.PolicyStore
	registry    registry.ServiceRegistry
	parser      *xacml.DefinitionParser
	mailBox     MailBox
}

// NewMissingServiceProviderValidator returns a validator over the given collaborators.
func NewMissingServiceProviderValidator(policyStore store.PolicyStore, reg registry.ServiceRegistry,
	parser *xacml.DefinitionParser, mailBox MailBox) *MissingServiceProviderValidator {
	return &MissingServiceProviderValidator{
		policyStore: policyStore,
		registry:    reg,
		parser:      parser,
		mailBox:     mailBox,
	}
}

// Start launches the goroutine running a sweep for every revalidation request or
// policy change announced on the broker. It returns immediately; the goroutine
// stops when the stop channel closes.
func (v *MissingServiceProviderValidator) Start(broker *messaging.Broker, stop <-chan struct{}) {
	events := broker.SubscribePolicyEvents(
		announcements.ScheduleRevalidation,
		announcements.PolicyAdded,
		announcements.PolicyUpdated,
		announcements.PolicyDeleted)

	go func() {
		defer broker.UnsubPolicyEvents(events)
		for {
			select {
			case <-events:
				if err := v.Validate(context.Background()); err != nil {
					log.Error().Err(err).Str(errcode.Kind, errcode.ErrMissingServiceProviderCheck.String()).
						Msg("Error validating policies against the service registry")
				}
			case <-stop:
				return
			}
		}
	}()
}

// Validate runs one sweep: parse every stored policy, resolve each referenced SP
// in the registry, and mail a single alert listing the missing ones.
func (v *MissingServiceProviderValidator) Validate(ctx context.Context) error {
	policies, err := v.policyStore.List(ctx)
	if err != nil {
		return errors.Wrap(err, "listing policies for registry validation")
	}

	var missing *multierror.Error
	for _, policy := range policies {
		definition, err := v.parser.Parse(policy)
		if err != nil {
			// An unparseable stored policy is a defect elsewhere; skip it here.
			log.Warn().Err(err).Msgf("Skipping policy %q in registry validation", policy.Name)
			continue
		}
		for _, spEntityID := range definition.ServiceProviderIDs {
			exists, err := v.registry.ServiceProviderExists(ctx, spEntityID)
			if err != nil {
				return errors.Wrapf(err, "resolving service provider %q", spEntityID)
			}
			if !exists {
				missing = multierror.Append(missing,
					fmt.Errorf("policy %q references service provider %q which no longer resolves", policy.Name, spEntityID))
			}
		}
	}

	if missing.ErrorOrNil() == nil {
		log.Debug().Msgf("All %d policies reference resolvable service providers", len(policies))
		return nil
	}

	var body strings.Builder
	for _, err := range missing.Errors {
		body.WriteString(err.Error())
		body.WriteString("\n")
	}
	subject := fmt.Sprintf("PDP: %d policy service provider references no longer resolve", len(missing.Errors))
	if err := v.mailBox.Send(subject, body.String()); err != nil {
		log.Error().Err(err).Str(errcode.Kind, errcode.ErrSendingMail.String()).
			Msg("Error sending missing service provider alert")
		return err
	}
	log.Info().Msgf("Sent missing service provider alert listing %d references", len(missing.Errors))
	return nil
}
