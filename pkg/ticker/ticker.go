// Package ticker implements the periodic trigger for the registry revalidation sweep.
package ticker

import (
	"time"

	"github.com/openconext/pdp/pkg/announcements"
	"github.com/openconext/pdp/pkg/configurator"
	"github.com/openconext/pdp/pkg/logger"
	"github.com/openconext/pdp/pkg/messaging"
)

const (
	// Any value under minimumTickerDuration will be understood as a ticker stop
	// Conversely, a value equals or above it will be understood as ticker start
	minimumTickerDuration = time.Duration(1 * time.Minute)
)

// ResyncTicker contains the stop configuration for the ticker routines
type ResyncTicker struct {
	stopTickerRoutine chan struct{}
	stopConfigRoutine chan struct{}
}

var log = logger.New("ticker")

// InitTicker initializes a ticker that is configured via the broker's control
// topics and triggers registry revalidation sweeps on the policy event topic.
// Upon this function return, the ticker is guaranteed to be started and ready
// to receive new events.
func InitTicker(cfg configurator.Configurator, broker *messaging.Broker) *ResyncTicker {
	// Start resync ticker routine
	tickerIsReady := make(chan struct{})
	stopTicker := make(chan struct{})
	go ticker(broker, tickerIsReady, stopTicker)
	<-tickerIsReady

	// Start config listener
	configIsReady := make(chan struct{})
	stopConfig := make(chan struct{})
	go tickerConfigListener(cfg, broker, configIsReady, stopConfig)
	<-configIsReady

	return &ResyncTicker{
		stopTickerRoutine: stopTicker,
		stopConfigRoutine: stopConfig,
	}
}

// Stop stops the ticker routines.
func (r *ResyncTicker) Stop() {
	close(r.stopTickerRoutine)
	close(r.stopConfigRoutine)
}

// Listens to config updates and notifies ticker routine to start/stop
func tickerConfigListener(cfg configurator.Configurator, broker *messaging.Broker, ready chan struct{}, stop <-chan struct{}) {
	configChannel := broker.SubscribeControl(announcements.ConfigUpdated)
	defer broker.UnsubControl(configChannel)

	// Bootstrap after subscribing
	currentDuration := cfg.GetRegistryResyncInterval()

	// Initial config
	if currentDuration >= minimumTickerDuration {
		broker.PublishControl(messaging.PubSubMessage{
			Kind:   announcements.TickerStart,
			NewObj: currentDuration,
		})
	}
	close(ready)

	for {
		select {
		case <-configChannel:
			newResyncInterval := cfg.GetRegistryResyncInterval()
			// Skip no changes from current applied conf
			if currentDuration == newResyncInterval {
				continue
			}

			// We have a change
			if newResyncInterval >= minimumTickerDuration {
				// Notify to re/start ticker
				log.Warn().Msgf("Interval %s >= %s, issuing start ticker.", newResyncInterval, minimumTickerDuration)
				broker.PublishControl(messaging.PubSubMessage{
					Kind:   announcements.TickerStart,
					NewObj: newResyncInterval,
				})
			} else {
				// Notify to ticker to stop
				log.Warn().Msgf("Interval %s < %s, issuing ticker stop.", newResyncInterval, minimumTickerDuration)
				broker.PublishControl(messaging.PubSubMessage{
					Kind:   announcements.TickerStop,
					NewObj: newResyncInterval,
				})
			}
			currentDuration = newResyncInterval
		case <-stop:
			return
		}
	}
}

func ticker(broker *messaging.Broker, ready chan struct{}, stop <-chan struct{}) {
	ticker := make(<-chan time.Time)
	tickStart := broker.SubscribeControl(announcements.TickerStart)
	tickStop := broker.SubscribeControl(announcements.TickerStop)

	// Notify the calling function we are ready to receive events
	// Necessary as starting the ticker could loose events by the
	// caller if the caller intends to immediately start it
	close(ready)

	for {
		select {
		case msg := <-tickStart:
			psubMsg, ok := msg.(messaging.PubSubMessage)
			if !ok {
				log.Error().Msgf("Could not cast to pubsub msg %v", msg)
				continue
			}

			// Cast new object to duration value
			tickerDuration, ok := psubMsg.NewObj.(time.Duration)
			if !ok {
				log.Error().Msgf("Failed to cast ticker duration %v", psubMsg)
				continue
			}

			log.Info().Msgf("Ticker starting with duration of %s", tickerDuration)
			ticker = time.NewTicker(tickerDuration).C
		case <-tickStop:
			log.Info().Msgf("Ticker stopping")
			ticker = make(<-chan time.Time)
		case <-ticker:
			log.Info().Msgf("Ticker requesting registry revalidation sweep")
			broker.PublishPolicyEvent(messaging.PubSubMessage{
				Kind: announcements.ScheduleRevalidation,
			})
		case <-stop:
			return
		}
	}
}
