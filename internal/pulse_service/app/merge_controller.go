package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/pulsecrm/golang_services/internal/pulse_service/domain"
)

// MergeController applies push events from the CRM backend to the in-memory
// projection without full-reload latency. Every handler is idempotent:
// reapplying the same event yields the same projection, because handlers
// either set flags or trigger refreshes that recompute from a fresh backend
// snapshot, never local arithmetic on counts.
type MergeController struct {
	projection *Projection
	directory  ContactDirectory
	notifier   ChangeNotifier
	logger     *slog.Logger
}

// NewMergeController creates a controller over the given projection.
// notifier may be nil, in which case notifications are discarded.
func NewMergeController(projection *Projection, directory ContactDirectory, notifier ChangeNotifier, logger *slog.Logger) *MergeController {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &MergeController{
		projection: projection,
		directory:  directory,
		notifier:   notifier,
		logger:     logger.With("component", "merge_controller"),
	}
}

// Run drains events from the channel until ctx is cancelled or the channel
// closes. Events are applied strictly one at a time, so no projection update
// observes a partially applied event.
func (m *MergeController) Run(ctx context.Context, events <-chan domain.PushEvent) error {
	for {
		select {
		case <-ctx.Done():
			m.logger.InfoContext(ctx, "Merge controller stopping", "reason", ctx.Err())
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				m.logger.InfoContext(ctx, "Push event channel closed, merge controller stopping")
				return nil
			}
			m.Apply(ctx, ev)
		}
	}
}

// Apply dispatches one push event to its handler.
func (m *MergeController) Apply(ctx context.Context, ev domain.PushEvent) {
	start := time.Now()
	defer func() {
		eventApplyDurationHist.WithLabelValues(string(ev.Type)).Observe(time.Since(start).Seconds())
	}()

	if !ev.Type.Known() {
		m.logger.WarnContext(ctx, "Skipping unknown push event type", "type", ev.Type)
		pushEventsAppliedCounter.WithLabelValues(string(ev.Type), "skipped_unknown").Inc()
		return
	}

	m.logger.DebugContext(ctx, "Applying push event",
		"type", ev.Type, "contact_id", ev.ContactID, "call_sid", ev.CallSid, "parent_call_sid", ev.ParentCallSid)

	switch ev.Type {
	case domain.PushCallCreated, domain.PushCallUpdated:
		m.handleCallEvent(ctx, ev)
	case domain.PushMessageAdded:
		m.handleMessageAdded(ctx, ev)
	case domain.PushContactRead:
		m.handleContactRead(ctx, ev)
	case domain.PushTranscriptDelta:
		m.projection.AppendTranscriptDelta(ev.CallSid, ev.Text)
		m.notifier.NotifyChanged(ProjectionChange{Scope: "transcript", CallSid: ev.CallSid, ContactID: ev.ContactID})
	case domain.PushTranscriptFinalized:
		m.projection.FinalizeTranscript(ev.CallSid, ev.Text)
		m.notifier.NotifyChanged(ProjectionChange{Scope: "transcript", CallSid: ev.CallSid, ContactID: ev.ContactID})
	}

	pushEventsAppliedCounter.WithLabelValues(string(ev.Type), "applied").Inc()
}

// handleCallEvent refreshes projections for a call create/update. Child call
// legs are suppressed from the list-level refresh to avoid spurious reordering
// from call-leg churn, but still trigger a scoped timeline refresh when they
// belong to the open contact.
func (m *MergeController) handleCallEvent(ctx context.Context, ev domain.PushEvent) {
	if !ev.IsChildCallLeg() {
		m.RefreshContactList(ctx)
	}
	if ev.ContactID != "" && ev.ContactID == m.projection.SelectedContactID() {
		m.refreshOpenTimeline(ctx, ev.ContactID)
	}
}

// handleMessageAdded refreshes the list projection (counts, last interaction)
// and, for the open contact only, the timeline. Other contacts never get their
// full timelines fetched speculatively.
func (m *MergeController) handleMessageAdded(ctx context.Context, ev domain.PushEvent) {
	m.RefreshContactList(ctx)
	if ev.ContactID != "" && ev.ContactID == m.projection.SelectedContactID() {
		m.refreshOpenTimeline(ctx, ev.ContactID)
	}
}

// handleContactRead clears the unread flag optimistically, ahead of the next
// server-confirmed refresh.
func (m *MergeController) handleContactRead(ctx context.Context, ev domain.PushEvent) {
	if m.projection.MarkContactRead(ev.ContactID) {
		m.notifier.NotifyChanged(ProjectionChange{Scope: "contact_read", ContactID: ev.ContactID})
	}
}

// RefreshContactList re-fetches the contact-call aggregates and swaps in the
// reconciled (deduplicated) list. On failure the projection keeps its
// last-known-good state.
func (m *MergeController) RefreshContactList(ctx context.Context) {
	aggregates, err := m.directory.ListContactCalls(ctx, "")
	if err != nil {
		contactListRefreshCounter.WithLabelValues("error").Inc()
		m.logger.ErrorContext(ctx, "Contact list refresh failed, keeping last-known-good projection", "error", err)
		return
	}

	m.projection.ReplaceContacts(domain.DedupeContacts(aggregates))
	contactListRefreshCounter.WithLabelValues("success").Inc()
	m.notifier.NotifyChanged(ProjectionChange{Scope: "contact_list"})
}

// OpenContact makes contactID the selected contact, fetches its timeline and
// returns the applied snapshot. A NotFound from the backend degrades to an
// empty placeholder view rather than an error: the contact may have vanished
// between list and detail fetch.
func (m *MergeController) OpenContact(ctx context.Context, contactID string) (*domain.Timeline, string, error) {
	token := m.projection.BeginTimelineFetch(contactID)

	timeline, err := m.directory.GetTimeline(ctx, contactID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			m.logger.WarnContext(ctx, "Contact vanished between list and detail fetch", "contact_id", contactID)
			empty := &domain.Timeline{}
			if m.projection.CompleteTimelineFetch(token, empty, "") {
				timelineRefreshCounter.WithLabelValues("success").Inc()
				return empty, "", nil
			}
			timelineRefreshCounter.WithLabelValues("stale_discarded").Inc()
			return empty, "", nil
		}
		timelineRefreshCounter.WithLabelValues("error").Inc()
		return nil, "", err
	}

	lastUsed := resolveTimelinePhone(timeline)
	if !m.projection.CompleteTimelineFetch(token, timeline, lastUsed) {
		// A newer selection superseded this fetch; last-request-wins.
		timelineRefreshCounter.WithLabelValues("stale_discarded").Inc()
		m.logger.DebugContext(ctx, "Discarded stale timeline response", "contact_id", contactID)
		return timeline, lastUsed, nil
	}

	timelineRefreshCounter.WithLabelValues("success").Inc()
	m.notifier.NotifyChanged(ProjectionChange{Scope: "timeline", ContactID: contactID})
	return timeline, lastUsed, nil
}

// refreshOpenTimeline re-fetches the timeline of the currently open contact.
func (m *MergeController) refreshOpenTimeline(ctx context.Context, contactID string) {
	if _, _, err := m.OpenContact(ctx, contactID); err != nil {
		m.logger.ErrorContext(ctx, "Scoped timeline refresh failed", "contact_id", contactID, "error", err)
	}
}

// resolveTimelinePhone derives the last-used phone for the timeline's contact
// from its merged call/message event stream.
func resolveTimelinePhone(timeline *domain.Timeline) string {
	if timeline == nil || timeline.Contact == nil {
		return ""
	}
	primary := timeline.Contact.CustomerPhone()
	secondary := timeline.Contact.SecondaryE164
	events := domain.ExtractEvents(timeline.Calls, timeline.Messages)
	return domain.ResolveLastUsedPhone(primary, secondary, events)
}
