package bilibili

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"blive_bot/internal/model"
)

func TestApplyRoomInfo(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	parsed := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		info       RoomInfo
		wantStatus model.LiveStatus
		wantStart  *time.Time
	}{
		{
			name: "live with parseable time",
			info: RoomInfo{
				UID: 642922, Title: "Test Stream", LiveStatus: 1,
				LiveTime: "2024-01-01 10:00:00",
			},
			wantStatus: model.StatusLive,
			wantStart:  &parsed,
		},
		{
			name: "live with zero sentinel falls back to now",
			info: RoomInfo{
				LiveStatus: 1,
				LiveTime:   "0000-00-00 00:00:00",
			},
			wantStatus: model.StatusLive,
			wantStart:  &now,
		},
		{
			name: "live with unparseable time falls back to now",
			info: RoomInfo{
				LiveStatus: 1,
				LiveTime:   "just now",
			},
			wantStatus: model.StatusLive,
			wantStart:  &now,
		},
		{
			name: "offline clears start even with a timestamp present",
			info: RoomInfo{
				LiveStatus: 0,
				LiveTime:   "2024-01-01 10:00:00",
			},
			wantStatus: model.StatusOffline,
			wantStart:  nil,
		},
		{
			name: "rounds (status 2) treated as offline",
			info: RoomInfo{
				LiveStatus: 2,
				LiveTime:   "2024-01-01 10:00:00",
			},
			wantStatus: model.StatusOffline,
			wantStart:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stale := time.Date(2023, 12, 24, 0, 0, 0, 0, time.UTC)
			room := model.Room{
				RoomID:     1001,
				LiveStatus: model.StatusOffline,
				LiveStart:  &stale,
			}
			applyRoomInfo(&room, &tt.info, now)

			if diff := cmp.Diff(tt.wantStatus, room.LiveStatus); diff != "" {
				t.Errorf("status mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantStart, room.LiveStart); diff != "" {
				t.Errorf("live start mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.info.Title, room.Title); diff != "" {
				t.Errorf("title mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.info.UID, room.UID); diff != "" {
				t.Errorf("uid mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRefreshRoomResolvesName(t *testing.T) {
	roomFixture := loadFixture(t, "../../testdata/room_info.json")
	masterFixture := loadFixture(t, "../../testdata/master_info.json")

	c := newTestClient(&routingTransport{responses: map[string]string{
		"/room/v1/Room/get_info":    roomFixture,
		"/live_user/v1/Master/info": masterFixture,
	}})

	room := model.Room{RoomID: 1001}
	if err := c.RefreshRoom(context.Background(), &room, true); err != nil {
		t.Fatalf("refresh room: %v", err)
	}

	if diff := cmp.Diff("alice", room.Name); diff != "" {
		t.Errorf("name mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(model.StatusLive, room.LiveStatus); diff != "" {
		t.Errorf("status mismatch (-want +got):\n%s", diff)
	}
	if room.LiveStart == nil {
		t.Fatal("expected LiveStart to be set for a live room")
	}
}

func TestRefreshRoomSkipsNameWithoutResolve(t *testing.T) {
	roomFixture := loadFixture(t, "../../testdata/room_info.json")

	c := newTestClient(&routingTransport{responses: map[string]string{
		"/room/v1/Room/get_info": roomFixture,
	}})

	room := model.Room{RoomID: 1001, Name: "kept"}
	if err := c.RefreshRoom(context.Background(), &room, false); err != nil {
		t.Fatalf("refresh room: %v", err)
	}
	if diff := cmp.Diff("kept", room.Name); diff != "" {
		t.Errorf("name mismatch (-want +got):\n%s", diff)
	}
}

func TestCoverURL(t *testing.T) {
	room := model.Room{CoverURL: "https://example.com/c.jpg"}
	if diff := cmp.Diff("https://example.com/c.jpg", CoverURL(&room)); diff != "" {
		t.Errorf("cover url mismatch (-want +got):\n%s", diff)
	}
	room.CoverURL = ""
	if diff := cmp.Diff(DefaultCoverURL, CoverURL(&room)); diff != "" {
		t.Errorf("default cover mismatch (-want +got):\n%s", diff)
	}
}

// routingTransport serves a canned body per URL path.
type routingTransport struct {
	responses map[string]string
}

func (r *routingTransport) Do(req *http.Request) (*http.Response, error) {
	body, ok := r.responses[req.URL.Path]
	if !ok {
		return nil, fmt.Errorf("unexpected path %s", req.URL.Path)
	}
	return &http.Response{
		StatusCode: 200,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
	}, nil
}
