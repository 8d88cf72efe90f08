package domain

// DedupeContacts collapses listing aggregates that refer to the same underlying
// phone identity into one list entry per non-empty digit key.
//
// The input is walked in given order and first-seen order of distinct keys is
// preserved in the output. When a key repeats, the already-emitted entry is
// replaced in place only if the candidate's call count is strictly greater;
// ties keep the earlier entry. Aggregates with an empty digit key are never
// deduplicated (unknown numbers don't collide), so each is emitted as its
// own row.
func DedupeContacts(aggregates []ContactAggregate) []ContactListEntry {
	entries := make([]ContactListEntry, 0, len(aggregates))
	seen := make(map[string]int, len(aggregates))

	for _, agg := range aggregates {
		entry := NewContactListEntry(agg)
		if entry.DigitKey == "" {
			entries = append(entries, entry)
			continue
		}
		if idx, ok := seen[entry.DigitKey]; ok {
			if entry.CallCount > entries[idx].CallCount {
				entries[idx] = entry
			}
			continue
		}
		seen[entry.DigitKey] = len(entries)
		entries = append(entries, entry)
	}

	return entries
}
