package domain

// ResolveLastUsedPhone determines which of a contact's two known phone numbers
// was involved in the most recent interaction.
//
// It returns either primary or secondary exactly as given (canonical display
// form), never the raw event phone. Policy:
//   - no secondary, or secondary normalizes identically to primary: primary;
//   - events matching neither normalized key are ignored;
//   - no classifiable events at all: primary (ties and empty sets never
//     surface secondary);
//   - on an exact timestamp tie, the event encountered first in the scan wins.
//     Source timestamps are coarse, so no stronger tie-break is defined.
func ResolveLastUsedPhone(primary string, secondary string, events []InteractionEvent) string {
	primaryKey := NormalizePhone(primary)
	secondaryKey := NormalizePhone(secondary)

	if secondaryKey == "" || secondaryKey == primaryKey {
		return primary
	}

	best := primary
	found := false
	var bestTime int64

	for _, ev := range events {
		key := NormalizePhone(ev.Phone)
		if key == "" {
			// An empty key is never a match target, even when primary
			// itself has no digits.
			continue
		}
		var candidate string
		switch key {
		case primaryKey:
			candidate = primary
		case secondaryKey:
			candidate = secondary
		default:
			continue
		}
		ts := ev.Timestamp.UnixMilli()
		if !found || ts > bestTime {
			best = candidate
			bestTime = ts
			found = true
		}
	}

	return best
}
