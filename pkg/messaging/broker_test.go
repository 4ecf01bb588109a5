package messaging

import (
	"testing"
	"time"

	tassert "github.com/stretchr/testify/assert"

	"github.com/openconext/pdp/pkg/announcements"
)

func TestBrokerPolicyEvents(t *testing.T) {
	assert := tassert.New(t)
	broker := NewBroker()

	events := broker.SubscribePolicyEvents(announcements.PolicyAdded, announcements.PolicyUpdated)
	defer broker.UnsubPolicyEvents(events)

	go broker.PublishPolicyEvent(PubSubMessage{Kind: announcements.PolicyAdded, NewObj: "access-policy"})

	select {
	case raw := <-events:
		msg, ok := raw.(PubSubMessage)
		assert.True(ok)
		assert.Equal(announcements.PolicyAdded, msg.Kind)
		assert.Equal("access-policy", msg.NewObj)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for policy event")
	}
}

func TestBrokerPolicyEventsFilterByKind(t *testing.T) {
	assert := tassert.New(t)
	broker := NewBroker()

	events := broker.SubscribePolicyEvents(announcements.PolicyDeleted)
	defer broker.UnsubPolicyEvents(events)

	// No subscriber for PolicyAdded on this channel; must not be delivered.
	broker.PublishPolicyEvent(PubSubMessage{Kind: announcements.PolicyAdded})

	select {
	case <-events:
		t.Fatal("received event for a kind not subscribed to")
	case <-time.After(50 * time.Millisecond):
	}

	go broker.PublishPolicyEvent(PubSubMessage{Kind: announcements.PolicyDeleted})
	select {
	case raw := <-events:
		msg := raw.(PubSubMessage)
		assert.Equal(announcements.PolicyDeleted, msg.Kind)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for policy event")
	}
}

func TestBrokerControlMessages(t *testing.T) {
	assert := tassert.New(t)
	broker := NewBroker()

	control := broker.SubscribeControl(announcements.TickerStart)
	defer broker.UnsubControl(control)

	go broker.PublishControl(PubSubMessage{Kind: announcements.TickerStart, NewObj: time.Minute})

	select {
	case raw := <-control:
		msg := raw.(PubSubMessage)
		assert.Equal(announcements.TickerStart, msg.Kind)
		assert.Equal(time.Minute, msg.NewObj)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for control message")
	}
}
