package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ts(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}

func tsPtr(sec int64) *time.Time {
	t := ts(sec)
	return &t
}

func TestExtractEvents_CallDirectionSelectsCustomerPhone(t *testing.T) {
	calls := []Call{
		{CallSid: "CA1", FromNumber: "+15550001111", ToNumber: "+15552223333", Direction: "inbound", StartedAt: tsPtr(100), CreatedAt: ts(90)},
		{CallSid: "CA2", FromNumber: "+15552223333", ToNumber: "+15550001111", Direction: "outbound-dial", StartedAt: tsPtr(200), CreatedAt: ts(190)},
	}

	events := ExtractEvents(calls, nil)
	require.Len(t, events, 2)

	assert.Equal(t, "+15550001111", events[0].Phone)
	assert.Equal(t, KindCallInbound, events[0].Kind)
	assert.True(t, events[0].Kind.IsCall())
	assert.Equal(t, ts(100), events[0].Timestamp)

	assert.Equal(t, "+15550001111", events[1].Phone)
	assert.Equal(t, KindCallOutbound, events[1].Kind)
	assert.True(t, events[1].Kind.IsCall())
}

func TestExtractEvents_CallFallsBackToCreatedAt(t *testing.T) {
	calls := []Call{
		{CallSid: "CA1", FromNumber: "+15550001111", ToNumber: "+15552223333", Direction: "inbound", CreatedAt: ts(90)},
	}

	events := ExtractEvents(calls, nil)
	require.Len(t, events, 1)
	assert.Equal(t, ts(90), events[0].Timestamp)
}

func TestExtractEvents_MessageTimestampPrefersRemote(t *testing.T) {
	messages := []Message{
		{MessageSid: "SM1", FromNumber: "+15550001111", ToNumber: "+15552223333", Direction: "inbound", RemoteCreatedAt: tsPtr(500), CreatedAt: ts(510)},
		{MessageSid: "SM2", FromNumber: "+15552223333", ToNumber: "+15550001111", Direction: "outbound", CreatedAt: ts(600)},
	}

	events := ExtractEvents(nil, messages)
	require.Len(t, events, 2)

	assert.Equal(t, KindSMSInbound, events[0].Kind)
	assert.False(t, events[0].Kind.IsCall())
	assert.Equal(t, ts(500), events[0].Timestamp)

	assert.Equal(t, KindSMSOutbound, events[1].Kind)
	assert.Equal(t, "+15550001111", events[1].Phone)
	assert.Equal(t, ts(600), events[1].Timestamp)
}

func TestExtractEvents_DropsUnresolvablePhones(t *testing.T) {
	calls := []Call{
		{CallSid: "CA1", FromNumber: "", ToNumber: "+15552223333", Direction: "inbound", CreatedAt: ts(10)},
	}
	messages := []Message{
		{MessageSid: "SM1", FromNumber: "+15550001111", ToNumber: "", Direction: "outbound", CreatedAt: ts(20)},
	}

	events := ExtractEvents(calls, messages)
	assert.Empty(t, events)
}

func TestExtractEvents_EmptyInputs(t *testing.T) {
	assert.Empty(t, ExtractEvents(nil, nil))
	assert.Empty(t, ExtractEvents([]Call{}, []Message{}))
}
