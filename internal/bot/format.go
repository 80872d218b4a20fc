package bot

import (
	"fmt"
	"strings"

	"blive_bot/internal/model"
	"blive_bot/internal/poller"
)

// FormatRoomList formats the tracked-rooms listing for /ls.
func FormatRoomList(rooms []model.Room) string {
	if len(rooms) == 0 {
		return "📭 No rooms tracked yet. Use /add <room_id> to add one."
	}
	var b strings.Builder
	b.WriteString("Tracked rooms:\n")
	for i := range rooms {
		r := &rooms[i]
		fmt.Fprintf(&b, "\n%s (%d)\n%s | %s\n", r.Name, r.RoomID, r.StatusText(), r.SilentText())
	}
	return b.String()
}

// FormatCheckSummary formats the result of a forced poll cycle.
func FormatCheckSummary(events []poller.TransitionEvent) string {
	if len(events) == 0 {
		return "Checked all rooms, no transitions."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d transition(s):\n", len(events))
	for _, ev := range events {
		fmt.Fprintf(&b, "\n%s (%d): %s → %s\n", ev.Room.Name, ev.Room.RoomID, ev.Previous, ev.Current)
	}
	return b.String()
}
