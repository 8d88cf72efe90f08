package app

import (
	"strings"
	"sync"

	"github.com/pulsecrm/golang_services/internal/pulse_service/domain"
)

// Projection is the single state container for everything this service derives
// from the CRM backend: the deduplicated contact list, the open contact's
// timeline, and per-call live transcript buffers.
//
// All state is mutated only through the methods below, under one mutex, so
// every reader observes one consistent snapshot and never a partially updated
// one. The projection holds no durable state; it is rebuilt from fetches and
// push events.
type Projection struct {
	mu sync.RWMutex

	entries []domain.ContactListEntry

	selectedContactID string
	// fetchSeq implements last-request-wins for timeline fetches: a response
	// is applied only if no newer fetch began for the selection since.
	fetchSeq      uint64
	timeline      *domain.Timeline
	lastUsedPhone string

	transcripts map[string]*transcriptBuffer
}

// NewProjection creates an empty projection.
func NewProjection() *Projection {
	return &Projection{
		transcripts: make(map[string]*transcriptBuffer),
	}
}

// --- contact list ---

// ReplaceContacts swaps in a freshly reconciled contact list.
func (p *Projection) ReplaceContacts(entries []domain.ContactListEntry) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries = entries
}

// ContactList returns a copy of the current list projection.
func (p *Projection) ContactList() []domain.ContactListEntry {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]domain.ContactListEntry, len(p.entries))
	copy(out, p.entries)
	return out
}

// MarkContactRead clears the unread flag for the given contact in the local
// projection. Idempotent; reconciled with the next full refresh. Returns true
// if an entry was affected.
func (p *Projection) MarkContactRead(contactID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	affected := false
	for i := range p.entries {
		if p.entries[i].Contact.ContactID == contactID {
			p.entries[i].HasUnread = false
			affected = true
		}
	}
	return affected
}

// --- timeline selection ---

// TimelineFetchToken identifies one in-flight timeline fetch.
type TimelineFetchToken struct {
	ContactID string
	seq       uint64
}

// BeginTimelineFetch records contactID as the selected contact and returns a
// token for the fetch about to start. Selecting a different contact clears the
// previous timeline immediately (placeholder view) and logically cancels
// interest in any prior in-flight fetch: its token will no longer match.
func (p *Projection) BeginTimelineFetch(contactID string) TimelineFetchToken {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.selectedContactID != contactID {
		p.timeline = nil
		p.lastUsedPhone = ""
	}
	p.selectedContactID = contactID
	p.fetchSeq++
	return TimelineFetchToken{ContactID: contactID, seq: p.fetchSeq}
}

// CompleteTimelineFetch applies a fetched timeline if and only if the token
// still matches the current selection and no newer fetch has started. Returns
// false when the response is stale and was discarded.
func (p *Projection) CompleteTimelineFetch(token TimelineFetchToken, timeline *domain.Timeline, lastUsedPhone string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if token.ContactID != p.selectedContactID || token.seq != p.fetchSeq {
		return false
	}
	p.timeline = timeline
	p.lastUsedPhone = lastUsedPhone
	return true
}

// SelectedContactID returns the contact the timeline view is tracking.
func (p *Projection) SelectedContactID() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.selectedContactID
}

// TimelineSnapshot returns the open contact, its timeline (nil while loading
// or after a NotFound degrade) and the resolved last-used phone.
func (p *Projection) TimelineSnapshot() (contactID string, timeline *domain.Timeline, lastUsedPhone string) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.selectedContactID, p.timeline, p.lastUsedPhone
}

// --- live transcripts ---

// transcriptBuffer accumulates transcript fragments for one call.
type transcriptBuffer struct {
	segments  []string
	finalized bool
}

func (b *transcriptBuffer) text() string {
	return strings.Join(b.segments, "")
}

// TranscriptSnapshot is a read-only view of one call's transcript buffer.
type TranscriptSnapshot struct {
	Text      string `json:"text"`
	Finalized bool   `json:"finalized"`
}

// AppendTranscriptDelta appends a live transcript fragment for callSid.
// A fragment identical to the last appended one is skipped, so redelivered
// deltas do not duplicate text. Fragments arriving after finalize are appended
// behind the final text rather than dropped; transport ordering is not
// guaranteed.
func (p *Projection) AppendTranscriptDelta(callSid string, fragment string) {
	if callSid == "" || fragment == "" {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	buf := p.transcripts[callSid]
	if buf == nil {
		buf = &transcriptBuffer{}
		p.transcripts[callSid] = buf
	}
	if n := len(buf.segments); n > 0 && buf.segments[n-1] == fragment {
		return
	}
	buf.segments = append(buf.segments, fragment)
}

// FinalizeTranscript atomically replaces the buffer for callSid with the final
// text. This is the terminal state for the call's transcript; reapplying the
// same finalize leaves the buffer unchanged.
func (p *Projection) FinalizeTranscript(callSid string, finalText string) {
	if callSid == "" {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.transcripts[callSid] = &transcriptBuffer{
		segments:  []string{finalText},
		finalized: true,
	}
}

// Transcript returns the buffered transcript for callSid, if any.
func (p *Projection) Transcript(callSid string) (TranscriptSnapshot, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	buf, ok := p.transcripts[callSid]
	if !ok {
		return TranscriptSnapshot{}, false
	}
	return TranscriptSnapshot{Text: buf.text(), Finalized: buf.finalized}, true
}
