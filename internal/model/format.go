package model

import (
	"fmt"
	"strings"
)

const timeDisplayLayout = "2006-01-02 15:04:05"

// StatusText returns a human-readable live-status indicator.
func (r *Room) StatusText() string {
	if r.IsLive() {
		return "🟢 live"
	}
	return "🔴 offline"
}

// SilentText returns a human-readable mute-state indicator.
func (r *Room) SilentText() string {
	if r.IsSilent {
		return "🔕 muted"
	}
	return "🔔 notifying"
}

// NotificationText renders the message sent to recipients when the
// room's live status changes.
func (r *Room) NotificationText() string {
	glyph, verb := "🔴", "went offline"
	if r.IsLive() {
		glyph, verb = "🟢", "went live"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s #%s %s\n", glyph, r.Name, verb)
	if r.Title != "" {
		fmt.Fprintf(&b, "\n📺 Title: %s", r.Title)
	}
	if r.LiveStart != nil {
		fmt.Fprintf(&b, "\n⏰ Since: %s", r.LiveStart.Format(timeDisplayLayout))
	}
	return b.String()
}

// InfoText renders the identity block used by administrative replies.
func (r *Room) InfoText() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", r.Name)
	fmt.Fprintf(&b, "UID: %d\n", r.UID)
	fmt.Fprintf(&b, "Room ID: %d", r.RoomID)
	return b.String()
}
