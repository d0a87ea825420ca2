package events

// SubscribeToChannel forwards events of type T into ch, dropping them when
// ch is full so a slow SSE client cannot stall the bus.
func SubscribeToChannel[T Event](bus *Bus, ch chan<- any) func() {
	return Subscribe(bus, func(e T) {
		select {
		case ch <- e:
		default:
		}
	})
}

// SubscribeAll forwards every sensor event into ch and returns one
// function removing all subscriptions.
func SubscribeAll(bus *Bus, ch chan<- any) func() {
	unsubs := []func(){
		SubscribeToChannel[SensorAttachedEvent](bus, ch),
		SubscribeToChannel[SensorDetachedEvent](bus, ch),
		SubscribeToChannel[FormatAppliedEvent](bus, ch),
		SubscribeToChannel[StreamStateChangedEvent](bus, ch),
		SubscribeToChannel[ParamChangedEvent](bus, ch),
		SubscribeToChannel[GroupAppliedEvent](bus, ch),
		SubscribeToChannel[OperationFailedEvent](bus, ch),
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}
