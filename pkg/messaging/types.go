// Package messaging implements the messaging infrastructure between different
// components within the PDP server.
package messaging

import (
	"github.com/cskr/pubsub"

	"github.com/openconext/pdp/pkg/announcements"
	"github.com/openconext/pdp/pkg/logger"
)

var (
	log = logger.New("message-broker")
)

// Broker implements the message broker functionality
type Broker struct {
	policyEventPubSub *pubsub.PubSub
	controlPubSub     *pubsub.PubSub
}

// PubSubMessage is the message type carried on the broker's topics
type PubSubMessage struct {
	// Kind is the announcement type of the message
	Kind announcements.AnnouncementType

	// OldObj is the object state before the event, if any
	OldObj interface{}

	// NewObj is the object state after the event, if any
	NewObj interface{}
}
