package domain

import (
	"encoding/json"
)

// Client → server event types.
const (
	TypeEnterConversation    = "enter_conversation"
	TypeLeaveConversation    = "leave_conversation"
	TypeMarkNotificationRead = "mark_notification_read"
)

// Server → client event types.
const (
	TypeConnectionSuccess      = "connection_success"
	TypeNewNotification        = "new_notification"
	TypeNotificationMarkedRead = "notification_marked_read"
)

// ClientEvent is the envelope every post-handshake client frame uses.
// Data stays raw until the event type picks a payload struct.
type ClientEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// ServerEvent is the outbound envelope.
type ServerEvent struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// ConversationPayload carries enter/leave signals. ConversationID is
// client-side bookkeeping only; presence is keyed by the counterpart user.
//
// Client-facing payloads use camelCase keys; the web clients already speak
// that casing and the gateway must not break them.
type ConversationPayload struct {
	ParticipantID  string `json:"participantId"`
	ConversationID string `json:"conversationId,omitempty"`
}

// MarkReadPayload acknowledges a notification as read.
type MarkReadPayload struct {
	NotificationID string `json:"notificationId"`
	SenderID       string `json:"senderId,omitempty"`
}

// ConnectionSuccess is sent once, immediately after a successful handshake.
// UnreadCount is the recipient's pending notification total, present only
// when the gateway runs with the notification store enabled.
type ConnectionSuccess struct {
	Message     string `json:"message"`
	UserID      string `json:"userId"`
	UnreadCount int    `json:"unreadCount,omitempty"`
}

// MarkedRead acknowledges a mark_notification_read event.
type MarkedRead struct {
	NotificationID string `json:"notificationId"`
}

// NotificationEvent is the wire form external producers append to the
// ingest stream. Payload is forwarded to recipients untouched.
type NotificationEvent struct {
	RecipientID string          `json:"recipientId"`
	SenderID    string          `json:"senderId"`
	Payload     json.RawMessage `json:"payload"`
}
