package bilibili

import (
	"context"
	"fmt"
	"strings"
	"time"

	"blive_bot/internal/model"
)

// liveTimeLayout is the timestamp format used by the room endpoint.
const liveTimeLayout = "2006-01-02 15:04:05"

// sentinel prefix for "no live time recorded" ("0000-00-00 00:00:00").
const zeroTimePrefix = "0000"

// RefreshRoom fetches current platform state for the room and applies
// it in place. With resolveName it also looks up the broadcaster's
// display name, which costs an extra API call and is only needed when
// a room is first added. Persistence is the caller's responsibility.
func (c *Client) RefreshRoom(ctx context.Context, room *model.Room, resolveName bool) error {
	info, err := c.GetRoomInfo(ctx, room.RoomID)
	if err != nil {
		return fmt.Errorf("refresh room %d: %w", room.RoomID, err)
	}

	applyRoomInfo(room, info, time.Now().UTC())

	if resolveName {
		master, err := c.GetMasterInfo(ctx, room.UID)
		if err != nil {
			return fmt.Errorf("refresh room %d: %w", room.RoomID, err)
		}
		room.Name = master.Name
	}
	return nil
}

// applyRoomInfo maps a room payload onto the room. When the room is
// live but the reported start time is the zero sentinel or does not
// parse, now is used as a fallback so a live room always carries a
// start timestamp. An offline room's start time is always cleared.
func applyRoomInfo(room *model.Room, info *RoomInfo, now time.Time) {
	room.UID = info.UID
	room.Title = info.Title
	room.CoverURL = info.UserCover

	if info.LiveStatus != 1 {
		room.LiveStatus = model.StatusOffline
		room.LiveStart = nil
		return
	}

	room.LiveStatus = model.StatusLive
	if strings.HasPrefix(info.LiveTime, zeroTimePrefix) {
		room.LiveStart = &now
		return
	}
	t, err := time.Parse(liveTimeLayout, info.LiveTime)
	if err != nil {
		room.LiveStart = &now
		return
	}
	room.LiveStart = &t
}

// RoomURL returns the public watch page for a live room.
func RoomURL(roomID int64) string {
	return fmt.Sprintf("https://live.bilibili.com/h5/%d", roomID)
}

// CoverURL returns the room's cover URL, or the default cover when the
// room has none.
func CoverURL(room *model.Room) string {
	if room.CoverURL == "" {
		return DefaultCoverURL
	}
	return room.CoverURL
}
