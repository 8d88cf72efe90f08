package domain

// ExtractEvents converts raw calls and messages into uniform interaction events.
// The customer phone is the caller/sender for inbound records, the callee/
// recipient otherwise; records whose customer phone cannot be resolved are
// dropped. The result is unordered; consumers sort as needed.
func ExtractEvents(calls []Call, messages []Message) []InteractionEvent {
	events := make([]InteractionEvent, 0, len(calls)+len(messages))

	for _, c := range calls {
		phone := c.CustomerNumber()
		if phone == "" {
			continue
		}
		kind := KindCallOutbound
		if c.IsInbound() {
			kind = KindCallInbound
		}
		events = append(events, InteractionEvent{
			Phone:     phone,
			Timestamp: c.EventTime(),
			Kind:      kind,
		})
	}

	for _, m := range messages {
		phone := m.CustomerNumber()
		if phone == "" {
			continue
		}
		kind := KindSMSOutbound
		if m.IsInbound() {
			kind = KindSMSInbound
		}
		events = append(events, InteractionEvent{
			Phone:     phone,
			Timestamp: m.EventTime(),
			Kind:      kind,
		})
	}

	return events
}
