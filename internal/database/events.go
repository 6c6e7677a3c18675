package database

import (
	"encoding/json"
	"fmt"
)

// Well-known analytics event types. event_type is free text on the wire, so
// unknown tags are stored and returned untouched; these constants cover the
// types the dashboard queries care about.
const (
	EventTypeView                = "view"
	EventTypeRSVPButtonClick     = "rsvp_button_click"
	EventTypeRSVPActionSuccess   = "rsvp_action_success"
	EventTypeRSVPActionError     = "rsvp_action_error"
	EventTypeRSVPActionException = "rsvp_action_exception"
	EventTypeMessage             = "message"
	EventTypeConfirmationChange  = "invitation_confirmation_change"
)

// activityEventTypes are the tags surfaced in the recent-activity feed and
// its filter options.
var activityEventTypes = []string{
	EventTypeView,
	EventTypeRSVPButtonClick,
	EventTypeRSVPActionSuccess,
	EventTypeRSVPActionError,
	EventTypeRSVPActionException,
}

// ConfirmationChangeData is the payload of invitation_confirmation_change
// events. It duplicates the invitation state on purpose: the row is the
// audit trail even when the toggle was a state no-op.
type ConfirmationChangeData struct {
	Slug        string `json:"slug"`
	Action      string `json:"action"`
	IsConfirmed int    `json:"is_confirmed"`
	Timestamp   string `json:"timestamp"`
}

// MessageData is the payload of message events left by guests.
type MessageData struct {
	GuestName string `json:"guest_name"`
	Message   string `json:"message"`
}

// ViewData is the payload of view events. All fields are optional.
type ViewData struct {
	Section string `json:"section,omitempty"`
}

// RSVPActionData is the payload of the rsvp_button_click and rsvp_action_*
// family of events.
type RSVPActionData struct {
	Slug   string `json:"slug,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// EncodeEventData serializes a typed payload for storage. A nil payload
// stores SQL NULL.
func EncodeEventData(data any) (*string, error) {
	if data == nil {
		return nil, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode event data: %w", err)
	}
	s := string(raw)
	return &s, nil
}

// DecodeEventData parses a stored event_data blob into the variant matching
// eventType. Unknown types come back as json.RawMessage so the log never
// loses information it cannot interpret.
func DecodeEventData(eventType string, raw *string) (any, error) {
	if raw == nil {
		return nil, nil
	}

	var dst any
	switch eventType {
	case EventTypeConfirmationChange:
		dst = &ConfirmationChangeData{}
	case EventTypeMessage:
		dst = &MessageData{}
	case EventTypeView:
		dst = &ViewData{}
	case EventTypeRSVPButtonClick, EventTypeRSVPActionSuccess,
		EventTypeRSVPActionError, EventTypeRSVPActionException:
		dst = &RSVPActionData{}
	default:
		var msg json.RawMessage
		if err := json.Unmarshal([]byte(*raw), &msg); err != nil {
			return nil, fmt.Errorf("failed to decode event data: %w", err)
		}
		return msg, nil
	}

	if err := json.Unmarshal([]byte(*raw), dst); err != nil {
		return nil, fmt.Errorf("failed to decode %s event data: %w", eventType, err)
	}
	return dst, nil
}
