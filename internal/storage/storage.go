// Package storage defines the persistence interface and its implementations.
package storage

import (
	"context"
	"errors"

	"blive_bot/internal/model"
)

// ErrNotFound is returned when no matching room exists.
var ErrNotFound = errors.New("room not found")

// ErrRoomExists is returned when inserting a room whose room_id is already tracked.
var ErrRoomExists = errors.New("room already exists")

// Storage is the interface for all persistence operations.
type Storage interface {
	ListActiveRooms(ctx context.Context) ([]model.Room, error)
	GetRoom(ctx context.Context, roomID int64) (*model.Room, error)
	CreateRoom(ctx context.Context, room *model.Room) error
	UpdateRoom(ctx context.Context, room *model.Room) error
	SetDeleted(ctx context.Context, roomID int64) error

	Close() error
}
