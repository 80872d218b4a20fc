package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver registration.

	"blive_bot/internal/model"
	"blive_bot/migrations"
)

const timeLayout = "2006-01-02T15:04:05Z"

// SQLite implements Storage backed by a SQLite database.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at dsn and runs pending migrations.
func NewSQLite(dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// ListActiveRooms returns all non-deleted rooms in insertion order.
func (s *SQLite) ListActiveRooms(ctx context.Context) ([]model.Room, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, room_id, uid, name, title, cover_url, live_status, live_start, is_deleted, is_silent, created_at
		 FROM rooms WHERE is_deleted = 0 ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("query rooms: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var rooms []model.Room
	for rows.Next() {
		r, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, *r)
	}
	return rooms, rows.Err()
}

// GetRoom returns a single non-deleted room by its platform room ID.
func (s *SQLite) GetRoom(ctx context.Context, roomID int64) (*model.Room, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, room_id, uid, name, title, cover_url, live_status, live_start, is_deleted, is_silent, created_at
		 FROM rooms WHERE room_id = ? AND is_deleted = 0`, roomID,
	)
	r, err := scanRoom(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return r, err
}

// CreateRoom inserts a new room and populates its ID and CreatedAt.
func (s *SQLite) CreateRoom(ctx context.Context, room *model.Room) error {
	now := time.Now().UTC().Format(timeLayout)
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO rooms (room_id, uid, name, title, cover_url, live_status, live_start, is_deleted, is_silent, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		room.RoomID, room.UID, room.Name, room.Title, room.CoverURL,
		string(room.LiveStatus), formatLiveStart(room.LiveStart),
		boolToInt(room.IsDeleted), boolToInt(room.IsSilent), now,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrRoomExists
		}
		return fmt.Errorf("insert room: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	room.ID = id
	room.CreatedAt, _ = time.Parse(timeLayout, now)
	return nil
}

// UpdateRoom persists the full room record, keyed by room_id.
func (s *SQLite) UpdateRoom(ctx context.Context, room *model.Room) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE rooms SET uid = ?, name = ?, title = ?, cover_url = ?, live_status = ?, live_start = ?, is_silent = ?
		 WHERE room_id = ? AND is_deleted = 0`,
		room.UID, room.Name, room.Title, room.CoverURL,
		string(room.LiveStatus), formatLiveStart(room.LiveStart),
		boolToInt(room.IsSilent), room.RoomID,
	)
	if err != nil {
		return fmt.Errorf("update room: %w", err)
	}
	return nil
}

// SetDeleted soft-deletes a room; the row is kept but excluded from
// listings and future poll cycles.
func (s *SQLite) SetDeleted(ctx context.Context, roomID int64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE rooms SET is_deleted = 1 WHERE room_id = ? AND is_deleted = 0`, roomID,
	)
	if err != nil {
		return fmt.Errorf("soft delete room: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func formatLiveStart(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := t.UTC().Format(timeLayout)
	return &v
}

type scannable interface {
	Scan(dest ...any) error
}

func scanRoom(row scannable) (*model.Room, error) {
	var r model.Room
	var status string
	var isDeleted, isSilent int
	var liveStart, created sql.NullString
	err := row.Scan(&r.ID, &r.RoomID, &r.UID, &r.Name, &r.Title, &r.CoverURL,
		&status, &liveStart, &isDeleted, &isSilent, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan room: %w", err)
	}
	r.LiveStatus = model.LiveStatus(status)
	r.IsDeleted = isDeleted == 1
	r.IsSilent = isSilent == 1
	if liveStart.Valid {
		t, err := time.Parse(timeLayout, liveStart.String)
		if err != nil {
			return nil, fmt.Errorf("parse live_start %q: %w", liveStart.String, err)
		}
		r.LiveStart = &t
	}
	if created.Valid {
		t, err := time.Parse(timeLayout, created.String)
		if err != nil {
			return nil, fmt.Errorf("parse created_at %q: %w", created.String, err)
		}
		r.CreatedAt = t
	}
	return &r, nil
}
