package messaging

import (
	"github.com/cskr/pubsub"

	"github.com/openconext/pdp/pkg/announcements"
)

// NewBroker returns a new message broker instance.
func NewBroker() *Broker {
	return &Broker{
		policyEventPubSub: pubsub.New(0),
		controlPubSub:     pubsub.New(0),
	}
}

// PublishPolicyEvent publishes a policy change message on its kind's topic.
func (b *Broker) PublishPolicyEvent(msg PubSubMessage) {
	log.Trace().Msgf("Publishing policy event kind: %s", msg.Kind)
	b.policyEventPubSub.Pub(msg, msg.Kind.String())
}

// SubscribePolicyEvents returns a channel subscribed to the given policy event kinds.
func (b *Broker) SubscribePolicyEvents(kinds ...announcements.AnnouncementType) chan interface{} {
	topics := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		topics = append(topics, kind.String())
	}
	return b.policyEventPubSub.Sub(topics...)
}

// UnsubPolicyEvents unsubscribes the given channel from policy events.
// The channel is drained in a goroutine so a blocked publisher cannot deadlock Unsub.
func (b *Broker) UnsubPolicyEvents(ch chan interface{}) {
	go func() {
		for range ch {
		}
	}()
	b.policyEventPubSub.Unsub(ch)
}

// PublishControl publishes a control plane message (ticker, config) on its kind's topic.
func (b *Broker) PublishControl(msg PubSubMessage) {
	log.Trace().Msgf("Publishing control msg kind: %s", msg.Kind)
	b.controlPubSub.Pub(msg, msg.Kind.String())
}

// SubscribeControl returns a channel subscribed to the given control message kinds.
func (b *Broker) SubscribeControl(kinds ...announcements.AnnouncementType) chan interface{} {
	topics := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		topics = append(topics, kind.String())
	}
	return b.controlPubSub.Sub(topics...)
}

// UnsubControl unsubscribes the given channel from control messages.
func (b *Broker) UnsubControl(ch chan interface{}) {
	go func() {
		for range ch {
		}
	}()
	b.controlPubSub.Unsub(ch)
}
