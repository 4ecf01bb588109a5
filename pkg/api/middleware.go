package api

import (
	"net/http"

	"github.com/openconext/pdp/pkg/access"
	"github.com/openconext/pdp/pkg/constants"
	"github.com/openconext/pdp/pkg/domain"
	"github.com/openconext/pdp/pkg/registry"
)

// headerAdmin marks principals exempt from IdP access enforcement. Set by the
// authentication layer in front of this server, never by end users.
const headerAdmin = "X-Admin"

// PrincipalMiddleware maps the trusted-proxy authentication headers to a
// FederatedPrincipal on the request context. It is the interface boundary to
// the external authentication layer: the handshake itself happens upstream, and
// requests without the headers are rejected here.
func PrincipalMiddleware(reg registry.ServiceRegistry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identifier := r.Header.Get(constants.HeaderNameID)
			displayName := r.Header.Get(constants.HeaderDisplayName)
			authority := r.Header.Get(constants.HeaderIdpEntityID)
			if identifier == "" || authority == "" {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Message: "no authenticated principal on request"})
				return
			}

			institutionID := institutionOf(r, reg, authority)
			idps, sps, err := reg.EntitiesByInstitution(r.Context(), institutionID)
			if err != nil {
				log.Error().Err(err).Msgf("Error resolving owned entities for institution %q", institutionID)
				writeJSON(w, http.StatusBadGateway, errorResponse{Message: "service registry unavailable"})
				return
			}

			principal := domain.NewFederatedPrincipal(identifier, displayName, authority, institutionID,
				idps, sps, r.Header.Get(headerAdmin) != "true")
			next.ServeHTTP(w, r.WithContext(access.WithPrincipal(r.Context(), principal)))
		})
	}
}

// institutionOf resolves the institution owning the authenticating IdP. An
// unknown IdP yields an empty institution: the principal then owns no entities
// and every ownership check falls through to the registry, which fails closed.
func institutionOf(r *http.Request, reg registry.ServiceRegistry, authority string) string {
	idps, err := reg.IdentityProviders(r.Context())
	if err != nil {
		log.Error().Err(err).Msgf("Error resolving institution of IdP %q", authority)
		return ""
	}
	for _, idp := range idps {
		if idp.EntityID == authority {
			return idp.InstitutionID
		}
	}
	return ""
}
