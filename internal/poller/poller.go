// Package poller implements the live-status poll cycle: refreshing
// tracked rooms, detecting transitions and fanning out notifications.
package poller

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"blive_bot/internal/bilibili"
	"blive_bot/internal/metrics"
	"blive_bot/internal/model"
	"blive_bot/internal/storage"
)

// Notifier delivers a notification message to a single chat. A nil
// photo degrades to a plain text message; a non-empty liveURL is
// attached as a watch link.
type Notifier interface {
	SendPhoto(chatID int64, caption string, photo []byte, liveURL string) error
}

// TransitionEvent records one detected live-status change.
type TransitionEvent struct {
	Room     model.Room
	Previous model.LiveStatus
	Current  model.LiveStatus
}

// Poller periodically sweeps all tracked rooms and notifies recipients
// about live-status transitions.
type Poller struct {
	store      storage.Storage
	client     *bilibili.Client
	notifier   Notifier
	recipients []int64
	log        *slog.Logger
	metrics    *metrics.Metrics
	tick       time.Duration

	// Serializes sweeps: /check may trigger a cycle from the bot's
	// goroutine while the ticker loop runs its own.
	mu sync.Mutex
}

// New creates a Poller. Recipients is the fixed list of chats that
// receive transition notifications.
func New(store storage.Storage, client *bilibili.Client, notifier Notifier, recipients []int64, log *slog.Logger) *Poller {
	return &Poller{
		store:      store,
		client:     client,
		notifier:   notifier,
		recipients: recipients,
		log:        log,
		tick:       1 * time.Minute,
	}
}

// SetTickInterval overrides the default 1-minute poll interval.
func (p *Poller) SetTickInterval(d time.Duration) {
	p.tick = d
}

// SetMetrics attaches a metrics bundle. A nil bundle disables recording.
func (p *Poller) SetMetrics(m *metrics.Metrics) {
	p.metrics = m
}

// Run starts the poll loop, blocking until ctx is cancelled. Cycles
// run to completion one at a time; a new cycle never starts while the
// previous one is in flight.
func (p *Poller) Run(ctx context.Context) {
	p.RunCycle(ctx)

	ticker := time.NewTicker(p.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.RunCycle(ctx)
		}
	}
}

// RunCycle sweeps all tracked rooms once and returns the transitions
// detected, in detection order. A fetch failure for one room skips
// that room and never aborts the rest of the sweep. Notifications are
// dispatched after the full sweep, skipping muted rooms. Concurrent
// calls are serialized so two sweeps never race on a room's stored
// previous-status read.
func (p *Poller) RunCycle(ctx context.Context) []TransitionEvent {
	p.mu.Lock()
	defer p.mu.Unlock()

	rooms, err := p.store.ListActiveRooms(ctx)
	if err != nil {
		p.log.Error("list rooms", "error", err)
		return nil
	}

	var events []TransitionEvent
	live := 0
	for i := range rooms {
		if ctx.Err() != nil {
			return events
		}
		room := rooms[i]

		previous := room.LiveStatus
		if err := p.client.RefreshRoom(ctx, &room, false); err != nil {
			p.log.Error("refresh room", "room_id", room.RoomID, "error", err)
			p.metrics.IncFetchErrors()
			continue
		}
		if room.IsLive() {
			live++
		}

		if room.LiveStatus == previous {
			continue
		}

		p.log.Info("transition",
			"room_id", room.RoomID,
			"name", room.Name,
			"from", previous,
			"to", room.LiveStatus,
		)
		p.metrics.IncTransitions(string(room.LiveStatus))

		// The stored row is the source of truth for the next cycle's
		// previous-status read. A failed write is logged and the event
		// still dispatched; the next cycle may then notify again,
		// which at-least-once delivery permits.
		if err := p.store.UpdateRoom(ctx, &room); err != nil {
			p.log.Error("persist room", "room_id", room.RoomID, "error", err)
		}

		events = append(events, TransitionEvent{
			Room:     room,
			Previous: previous,
			Current:  room.LiveStatus,
		})
	}

	for _, ev := range events {
		if ev.Room.IsSilent {
			continue
		}
		p.dispatch(ctx, ev)
	}

	p.metrics.IncPollCycles()
	p.metrics.SetLiveRooms(live)
	return events
}

// dispatch sends one transition notification to every recipient. A
// failed delivery to one recipient never blocks the others.
func (p *Poller) dispatch(ctx context.Context, ev TransitionEvent) {
	caption := ev.Room.NotificationText()

	// The watch link only makes sense while the stream is up.
	var liveURL string
	if ev.Current == model.StatusLive {
		liveURL = bilibili.RoomURL(ev.Room.RoomID)
	}

	photo, err := p.client.DownloadAsset(ctx, bilibili.CoverURL(&ev.Room))
	if err != nil {
		p.log.Warn("download cover", "room_id", ev.Room.RoomID, "error", err)
		photo = nil
	}

	for _, chatID := range p.recipients {
		if err := p.notifier.SendPhoto(chatID, caption, photo, liveURL); err != nil {
			p.log.Error("send notification", "chat_id", chatID, "room_id", ev.Room.RoomID, "error", err)
			p.metrics.IncNotificationErrors()
			continue
		}
		p.metrics.IncNotificationsSent()

		// Rate limit: ~20 messages/sec max for Telegram
		time.Sleep(50 * time.Millisecond)
	}
}
