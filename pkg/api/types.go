// Package api implements the internal HTTP API of the PDP server: policy CRUD,
// violation listing and the current-user endpoint, each guarded by the access
// enforcer.
package api

import (
	"github.com/openconext/pdp/pkg/access"
	"github.com/openconext/pdp/pkg/logger"
	"github.com/openconext/pdp/pkg/messaging"
	"github.com/openconext/pdp/pkg/store"
	"github.com/openconext/pdp/pkg/xacml"
)

var log = logger.New("api")

// Server holds the collaborators of the API handlers.
type Server struct {
	enforcer       access.Enforcer
	parser         *xacml.DefinitionParser
	policyStore    store.PolicyStore
	violationStore store.ViolationStore
	broker         *messaging.Broker
}

// NewServer returns an API server over the given collaborators.
func NewServer(enforcer access.Enforcer, parser *xacml.DefinitionParser,
	policyStore store.PolicyStore, violationStore store.ViolationStore, broker *messaging.Broker) *Server {
	return &Server{
		enforcer:       enforcer,
		parser:         parser,
		policyStore:    policyStore,
		violationStore: violationStore,
		broker:         broker,
	}
}

// errorResponse is the JSON body of a non-2xx API response.
type errorResponse struct {
	Message string `json:"message"`
}

// userResponse is the JSON body of the current-user endpoint.
type userResponse struct {
	Identifier              string `json:"identifier"`
	DisplayName             string `json:"displayName"`
	AuthenticatingAuthority string `json:"authenticatingAuthority"`
}
