package crmclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pulsecrm/golang_services/internal/pulse_service/domain"
)

// SendMessageInput is the body of an outbound SMS. MediaURL, when set,
// references an already-uploaded attachment.
type SendMessageInput struct {
	Body     string `json:"body"`
	MediaURL string `json:"media_url,omitempty"`
}

// StartConversationInput opens a new customer conversation, optionally sending
// a first message in the same call.
type StartConversationInput struct {
	CustomerE164   string `json:"customer_e164"`
	ProxyE164      string `json:"proxy_e164"`
	InitialMessage string `json:"initial_message,omitempty"`
}

// PolishResult is the messaging service's rewrite of a draft message.
// FallbackUsed is true when the rewriter was unavailable and the original
// text came back unchanged.
type PolishResult struct {
	PolishedText string `json:"polished_text"`
	FallbackUsed bool   `json:"fallback_used"`
}

// SendMessage posts a message into an existing conversation.
func (c *Client) SendMessage(ctx context.Context, conversationID string, in SendMessageInput) (*domain.Message, error) {
	var msg domain.Message
	path := "/conversations/" + url.PathEscape(conversationID) + "/messages"
	if err := c.do(ctx, http.MethodPost, path, nil, in, &msg); err != nil {
		return nil, fmt.Errorf("send message to conversation %s: %w", conversationID, err)
	}
	return &msg, nil
}

// StartConversation opens a conversation between a customer and a proxy number.
func (c *Client) StartConversation(ctx context.Context, in StartConversationInput) (*domain.Conversation, error) {
	var conv domain.Conversation
	if err := c.do(ctx, http.MethodPost, "/conversations", nil, in, &conv); err != nil {
		return nil, fmt.Errorf("start conversation with %s: %w", in.CustomerE164, err)
	}
	return &conv, nil
}

// MarkConversationRead clears a conversation's unread flag.
func (c *Client) MarkConversationRead(ctx context.Context, conversationID string) error {
	path := "/conversations/" + url.PathEscape(conversationID) + "/read"
	if err := c.do(ctx, http.MethodPost, path, nil, nil, nil); err != nil {
		return fmt.Errorf("mark conversation %s read: %w", conversationID, err)
	}
	return nil
}

// PolishText asks the messaging service to clean up a draft message.
func (c *Client) PolishText(ctx context.Context, text string) (*PolishResult, error) {
	var result PolishResult
	body := map[string]string{"text": text}
	if err := c.do(ctx, http.MethodPost, "/messages/polish", nil, body, &result); err != nil {
		return nil, fmt.Errorf("polish text: %w", err)
	}
	return &result, nil
}
