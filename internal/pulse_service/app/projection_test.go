package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsecrm/golang_services/internal/pulse_service/domain"
)

func TestProjection_ReplaceAndReadContactList(t *testing.T) {
	p := NewProjection()
	p.ReplaceContacts([]domain.ContactListEntry{
		{DigitKey: "15551234567", Contact: domain.ContactAggregate{ContactID: "c1"}, HasUnread: true},
	})

	list := p.ContactList()
	require.Len(t, list, 1)

	// Mutating the returned copy must not leak into the projection.
	list[0].HasUnread = false
	assert.True(t, p.ContactList()[0].HasUnread)
}

func TestProjection_MarkContactReadIsIdempotent(t *testing.T) {
	p := NewProjection()
	p.ReplaceContacts([]domain.ContactListEntry{
		{Contact: domain.ContactAggregate{ContactID: "c1"}, HasUnread: true},
		{Contact: domain.ContactAggregate{ContactID: "c2"}, HasUnread: true},
	})

	assert.True(t, p.MarkContactRead("c1"))
	first := p.ContactList()

	assert.True(t, p.MarkContactRead("c1"))
	second := p.ContactList()

	assert.Equal(t, first, second)
	assert.False(t, second[0].HasUnread)
	assert.True(t, second[1].HasUnread)

	assert.False(t, p.MarkContactRead("missing"))
}

func TestProjection_LastRequestWinsOnTimelineFetch(t *testing.T) {
	p := NewProjection()

	tokenA := p.BeginTimelineFetch("contact-a")
	tokenB := p.BeginTimelineFetch("contact-b")

	// The response for contact-a completes after contact-b was selected:
	// it must be discarded.
	staleApplied := p.CompleteTimelineFetch(tokenA, &domain.Timeline{}, "+15550000001")
	assert.False(t, staleApplied)

	applied := p.CompleteTimelineFetch(tokenB, &domain.Timeline{}, "+15550000002")
	assert.True(t, applied)

	contactID, timeline, lastUsed := p.TimelineSnapshot()
	assert.Equal(t, "contact-b", contactID)
	assert.NotNil(t, timeline)
	assert.Equal(t, "+15550000002", lastUsed)
}

func TestProjection_RapidReselectionSameContact(t *testing.T) {
	p := NewProjection()

	first := p.BeginTimelineFetch("contact-a")
	second := p.BeginTimelineFetch("contact-a")

	// Same contact reselected: only the newest fetch may land.
	assert.False(t, p.CompleteTimelineFetch(first, &domain.Timeline{}, ""))
	assert.True(t, p.CompleteTimelineFetch(second, &domain.Timeline{}, ""))
}

func TestProjection_SwitchingContactClearsTimeline(t *testing.T) {
	p := NewProjection()

	token := p.BeginTimelineFetch("contact-a")
	require.True(t, p.CompleteTimelineFetch(token, &domain.Timeline{}, "+15551230000"))

	p.BeginTimelineFetch("contact-b")
	contactID, timeline, lastUsed := p.TimelineSnapshot()
	assert.Equal(t, "contact-b", contactID)
	assert.Nil(t, timeline)
	assert.Empty(t, lastUsed)
}

func TestProjection_TranscriptDeltaAccumulation(t *testing.T) {
	p := NewProjection()

	p.AppendTranscriptDelta("CA123", "hello ")
	p.AppendTranscriptDelta("CA123", "world")

	snap, ok := p.Transcript("CA123")
	require.True(t, ok)
	assert.Equal(t, "hello world", snap.Text)
	assert.False(t, snap.Finalized)
}

func TestProjection_DuplicateDeltaSkipped(t *testing.T) {
	p := NewProjection()

	p.AppendTranscriptDelta("CA123", "hello")
	p.AppendTranscriptDelta("CA123", "hello") // redelivered

	snap, ok := p.Transcript("CA123")
	require.True(t, ok)
	assert.Equal(t, "hello", snap.Text)
}

func TestProjection_FinalizeReplacesBufferedDeltas(t *testing.T) {
	p := NewProjection()

	p.AppendTranscriptDelta("CA123", "partial one ")
	p.AppendTranscriptDelta("CA123", "partial two")
	p.FinalizeTranscript("CA123", "the full corrected transcript")

	snap, ok := p.Transcript("CA123")
	require.True(t, ok)
	assert.Equal(t, "the full corrected transcript", snap.Text)
	assert.True(t, snap.Finalized)
}

func TestProjection_FinalizeIsIdempotent(t *testing.T) {
	p := NewProjection()

	p.FinalizeTranscript("CA123", "final text")
	first, _ := p.Transcript("CA123")

	p.FinalizeTranscript("CA123", "final text")
	second, _ := p.Transcript("CA123")

	assert.Equal(t, first, second)
}

func TestProjection_DeltaAfterFinalizeAppendedBehindFinal(t *testing.T) {
	p := NewProjection()

	p.FinalizeTranscript("CA123", "final text.")
	p.AppendTranscriptDelta("CA123", " late fragment")

	snap, ok := p.Transcript("CA123")
	require.True(t, ok)
	assert.Equal(t, "final text. late fragment", snap.Text)
	assert.True(t, snap.Finalized)
}

func TestProjection_UnknownTranscriptMissing(t *testing.T) {
	p := NewProjection()
	_, ok := p.Transcript("CA999")
	assert.False(t, ok)
}
