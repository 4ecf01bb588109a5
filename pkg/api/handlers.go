package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/openconext/pdp/pkg/access"
	"github.com/openconext/pdp/pkg/announcements"
	"github.com/openconext/pdp/pkg/domain"
	"github.com/openconext/pdp/pkg/errcode"
	"github.com/openconext/pdp/pkg/messaging"
	"github.com/openconext/pdp/pkg/store"
)

// NewRouter returns the API router with all internal endpoints registered.
func (s *Server) NewRouter() *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/pdp/api/internal/policies", s.listPolicies).Methods(http.MethodGet)
	router.HandleFunc("/pdp/api/internal/policies", s.createPolicy).Methods(http.MethodPost)
	router.HandleFunc("/pdp/api/internal/policies/{id}", s.getPolicy).Methods(http.MethodGet)
	router.HandleFunc("/pdp/api/internal/policies/{id}", s.updatePolicy).Methods(http.MethodPut)
	router.HandleFunc("/pdp/api/internal/policies/{id}", s.deletePolicy).Methods(http.MethodDelete)
	router.HandleFunc("/pdp/api/internal/policies/{id}/definition", s.getDefinition).Methods(http.MethodGet)
	router.HandleFunc("/pdp/api/internal/violations", s.listViolations).Methods(http.MethodGet)
	router.HandleFunc("/pdp/api/internal/users/me", s.currentUser).Methods(http.MethodGet)
	return router
}

// listPolicies returns the stored policies the principal may read.
func (s *Server) listPolicies(w http.ResponseWriter, r *http.Request) {
	policies, err := s.policyStore.List(r.Context())
	if err != nil {
		log.Error().Err(err).Str(errcode.Kind, errcode.ErrFetchingPolicy.String()).Msg("Error listing policies")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "error listing policies"})
		return
	}

	readable := make([]domain.Policy, 0, len(policies))
	for i := range policies {
		policy := policies[i]
		if err := s.enforce(r, &policy, domain.AccessRead); err == nil {
			readable = append(readable, policy)
		}
	}
	writeJSON(w, http.StatusOK, readable)
}

// getPolicy returns one policy after a READ enforcement decision against the
// policy's target entities.
func (s *Server) getPolicy(w http.ResponseWriter, r *http.Request) {
	policy, ok := s.fetchPolicy(w, r)
	if !ok {
		return
	}
	if !s.enforceOrForbid(w, r, policy, domain.AccessRead) {
		return
	}
	writeJSON(w, http.StatusOK, policy)
}

// getDefinition parses one policy and returns its validated definition.
func (s *Server) getDefinition(w http.ResponseWriter, r *http.Request) {
	policy, ok := s.fetchPolicy(w, r)
	if !ok {
		return
	}
	if !s.enforceOrForbid(w, r, policy, domain.AccessRead) {
		return
	}
	definition, err := s.parser.Parse(*policy)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, definition)
}

// policyRequest is the JSON body of policy create/update requests.
type policyRequest struct {
	Name      string            `json:"name"`
	PolicyXML string            `json:"policyXml"`
	Active    bool              `json:"active"`
	Type      domain.PolicyType `json:"type"`
}

// createPolicy validates the submitted document, enforces WRITE access against
// its target entities and stores it anchored to the principal's authenticating
// authority. A document failing validation is never persisted.
func (s *Server) createPolicy(w http.ResponseWriter, r *http.Request) {
	var req policyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid policy request body"})
		return
	}

	authority, err := s.enforcer.AuthenticatingAuthority(r.Context())
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Message: err.Error()})
		return
	}
	username, _ := s.enforcer.Username(r.Context())
	displayName, _ := s.enforcer.UserDisplayName(r.Context())

	policy := domain.Policy{
		Name:                    req.Name,
		PolicyXML:               req.PolicyXML,
		Active:                  req.Active,
		AuthenticatingAuthority: authority,
		UserIdentifier:          username,
		UserDisplayName:         displayName,
		Type:                    req.Type,
	}

	if _, err := s.parser.Parse(policy); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: err.Error()})
		return
	}
	if !s.enforceOrForbid(w, r, &policy, domain.AccessWrite) {
		return
	}

	if err := s.policyStore.Save(r.Context(), &policy); err != nil {
		log.Error().Err(err).Str(errcode.Kind, errcode.ErrSavingPolicy.String()).Msgf("Error saving policy %q", policy.Name)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "error saving policy"})
		return
	}
	s.broker.PublishPolicyEvent(messaging.PubSubMessage{
		Kind:   announcements.PolicyAdded,
		NewObj: policy,
	})
	writeJSON(w, http.StatusCreated, policy)
}

// updatePolicy replaces a policy's document after validation and WRITE
// enforcement against both the stored and the submitted version.
func (s *Server) updatePolicy(w http.ResponseWriter, r *http.Request) {
	existing, ok := s.fetchPolicy(w, r)
	if !ok {
		return
	}

	var req policyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid policy request body"})
		return
	}

	updated := *existing
	updated.Name = req.Name
	updated.PolicyXML = req.PolicyXML
	updated.Active = req.Active
	updated.Type = req.Type

	if _, err := s.parser.Parse(updated); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: err.Error()})
		return
	}
	if !s.enforceOrForbid(w, r, &updated, domain.AccessWrite) {
		return
	}

	if err := s.policyStore.Save(r.Context(), &updated); err != nil {
		log.Error().Err(err).Str(errcode.Kind, errcode.ErrSavingPolicy.String()).Msgf("Error saving policy %q", updated.Name)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "error saving policy"})
		return
	}
	s.broker.PublishPolicyEvent(messaging.PubSubMessage{
		Kind:   announcements.PolicyUpdated,
		OldObj: *existing,
		NewObj: updated,
	})
	writeJSON(w, http.StatusOK, updated)
}

// deletePolicy removes a policy after WRITE enforcement.
func (s *Server) deletePolicy(w http.ResponseWriter, r *http.Request) {
	policy, ok := s.fetchPolicy(w, r)
	if !ok {
		return
	}
	if !s.enforceOrForbid(w, r, policy, domain.AccessWrite) {
		return
	}
	if err := s.policyStore.Delete(r.Context(), policy.ID); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "error deleting policy"})
		return
	}
	s.broker.PublishPolicyEvent(messaging.PubSubMessage{
		Kind:   announcements.PolicyDeleted,
		OldObj: *policy,
	})
	w.WriteHeader(http.StatusNoContent)
}

// listViolations returns the violation records. Viewing violations requires
// authentication only; the enforcer allows it without ownership checks.
func (s *Server) listViolations(w http.ResponseWriter, r *http.Request) {
	if err := s.enforcer.ActionAllowed(r.Context(), nil, domain.AccessViolations, "", nil); err != nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Message: err.Error()})
		return
	}
	violations, err := s.violationStore.List(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "error listing violations"})
		return
	}
	writeJSON(w, http.StatusOK, violations)
}

// currentUser returns the acting principal's identity.
func (s *Server) currentUser(w http.ResponseWriter, r *http.Request) {
	authority, err := s.enforcer.AuthenticatingAuthority(r.Context())
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Message: err.Error()})
		return
	}
	username, _ := s.enforcer.Username(r.Context())
	displayName, _ := s.enforcer.UserDisplayName(r.Context())
	writeJSON(w, http.StatusOK, userResponse{
		Identifier:              username,
		DisplayName:             displayName,
		AuthenticatingAuthority: authority,
	})
}

// enforce runs the enforcement decision for a policy action using the policy's
// parsed target entities.
func (s *Server) enforce(r *http.Request, policy *domain.Policy, level domain.AccessLevel) error {
	var spEntityID string
	var idpEntityIDs []string
	if definition, err := s.parser.Parse(*policy); err == nil {
		if len(definition.ServiceProviderIDs) > 0 {
			spEntityID = definition.ServiceProviderIDs[0]
		}
		idpEntityIDs = definition.IdentityProviderIDs
	}
	return s.enforcer.ActionAllowed(r.Context(), policy, level, spEntityID, idpEntityIDs)
}

// enforceOrForbid runs the enforcement decision and, on denial, records a
// violation with the error kind as reason code and writes the forbidden response.
func (s *Server) enforceOrForbid(w http.ResponseWriter, r *http.Request, policy *domain.Policy, level domain.AccessLevel) bool {
	err := s.enforce(r, policy, level)
	if err == nil {
		return true
	}

	violation := &domain.Violation{
		PolicyID:    policy.ID,
		PolicyName:  policy.Name,
		AccessLevel: level,
		Reason:      reasonCode(err),
	}
	if appendErr := s.violationStore.Append(r.Context(), violation); appendErr != nil {
		log.Error().Err(appendErr).Str(errcode.Kind, errcode.ErrRecordingViolation.String()).
			Msgf("Error recording violation for policy %q", policy.Name)
	}
	writeJSON(w, http.StatusForbidden, errorResponse{Message: err.Error()})
	return false
}

// reasonCode maps an enforcement error to the violation record's reason code.
func reasonCode(err error) string {
	var spErr *access.MismatchServiceProviderError
	var idpErr *access.MismatchIdentityProvidersError
	var originErr *access.OriginatingIdentityProviderError
	switch {
	case errors.As(err, &spErr):
		return "mismatch-service-provider"
	case errors.As(err, &idpErr):
		return "mismatch-identity-providers"
	case errors.As(err, &originErr):
		return "originating-identity-provider-mismatch"
	default:
		return "forbidden"
	}
}

func (s *Server) fetchPolicy(w http.ResponseWriter, r *http.Request) (*domain.Policy, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid policy id"})
		return nil, false
	}
	policy, err := s.policyStore.Get(r.Context(), uint(id))
	if err == store.ErrPolicyNotFound {
		writeJSON(w, http.StatusNotFound, errorResponse{Message: "policy not found"})
		return nil, false
	}
	if err != nil {
		log.Error().Err(err).Str(errcode.Kind, errcode.ErrFetchingPolicy.String()).Msgf("Error fetching policy %d", id)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "error fetching policy"})
		return nil, false
	}
	return policy, true
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("Error encoding API response")
	}
}
