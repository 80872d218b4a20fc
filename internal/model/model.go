// Package model defines the domain types used across the application.
package model

import "time"

// LiveStatus is the broadcasting state of a room.
type LiveStatus string

// Supported live statuses.
const (
	StatusOffline LiveStatus = "offline"
	StatusLive    LiveStatus = "live"
)

// Room represents one tracked broadcaster's live room.
type Room struct {
	ID         int64
	RoomID     int64
	UID        int64
	Name       string
	Title      string
	CoverURL   string
	LiveStatus LiveStatus
	LiveStart  *time.Time
	IsDeleted  bool
	IsSilent   bool
	CreatedAt  time.Time
}

// IsLive reports whether the room is currently broadcasting.
func (r *Room) IsLive() bool {
	return r.LiveStatus == StatusLive
}
