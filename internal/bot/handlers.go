package bot

import (
	"context"
	"errors"
	"fmt"

	"blive_bot/internal/bilibili"
	"blive_bot/internal/model"
	"blive_bot/internal/storage"
)

func (b *Bot) handleStart(chatID int64) {
	b.reply(chatID, `This bot tracks Bilibili live rooms and pushes a
notification when a broadcaster goes live or offline.

Use /add <room_id> to start tracking a room.
Use /help for the full command reference.`)
}

func (b *Bot) handleHelp(chatID int64) {
	b.reply(chatID, `Commands:
/add <room_id> — track a live room
/rm <room_id> — stop tracking a room
/ls — list tracked rooms
/silent <room_id> — toggle notification muting for a room
/check — poll all rooms now`)
}

func (b *Bot) handleAdd(ctx context.Context, chatID int64, args string) {
	roomID, err := ParseRoomIDArg(args)
	if err != nil {
		b.reply(chatID, "Usage: /add <room_id>")
		return
	}

	if existing, err := b.store.GetRoom(ctx, roomID); err == nil {
		b.reply(chatID, "⚠️ Room already tracked:\n"+existing.InfoText())
		return
	} else if !errors.Is(err, storage.ErrNotFound) {
		b.reply(chatID, fmt.Sprintf("Error: %v", err))
		return
	}

	room := &model.Room{RoomID: roomID, LiveStatus: model.StatusOffline}
	if err := b.client.RefreshRoom(ctx, room, true); err != nil {
		b.log.Error("first refresh", "room_id", roomID, "error", err)
		b.reply(chatID, fmt.Sprintf("Could not fetch room %d. Check the room ID.", roomID))
		return
	}

	if err := b.store.CreateRoom(ctx, room); err != nil {
		if errors.Is(err, storage.ErrRoomExists) {
			b.reply(chatID, "⚠️ Room already tracked:\n"+room.InfoText())
			return
		}
		b.reply(chatID, fmt.Sprintf("Failed to save room: %v", err))
		return
	}

	caption := "✅ Room added:\n" + room.InfoText() + "\n" + room.StatusText()
	photo, err := b.client.DownloadAsset(ctx, bilibili.CoverURL(room))
	if err != nil {
		b.log.Warn("download cover", "room_id", roomID, "error", err)
		photo = nil
	}
	if err := b.SendPhoto(chatID, caption, photo, ""); err != nil {
		b.log.Error("send confirmation", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) handleRemove(ctx context.Context, chatID int64, args string) {
	roomID, err := ParseRoomIDArg(args)
	if err != nil {
		b.reply(chatID, "Usage: /rm <room_id>")
		return
	}

	room, err := b.store.GetRoom(ctx, roomID)
	if err != nil {
		b.reply(chatID, fmt.Sprintf("Room %d is not tracked.", roomID))
		return
	}

	if err := b.store.SetDeleted(ctx, roomID); err != nil {
		b.reply(chatID, fmt.Sprintf("Error removing room: %v", err))
		return
	}
	b.reply(chatID, "🗑 Room removed:\n"+room.InfoText())
}

func (b *Bot) handleList(ctx context.Context, chatID int64) {
	rooms, err := b.store.ListActiveRooms(ctx)
	if err != nil {
		b.reply(chatID, fmt.Sprintf("Error: %v", err))
		return
	}
	b.reply(chatID, FormatRoomList(rooms))
}

func (b *Bot) handleSilent(ctx context.Context, chatID int64, args string) {
	roomID, err := ParseRoomIDArg(args)
	if err != nil {
		b.reply(chatID, "Usage: /silent <room_id>")
		return
	}

	room, err := b.store.GetRoom(ctx, roomID)
	if err != nil {
		b.reply(chatID, fmt.Sprintf("Room %d is not tracked.", roomID))
		return
	}

	room.IsSilent = !room.IsSilent
	if err := b.store.UpdateRoom(ctx, room); err != nil {
		b.reply(chatID, fmt.Sprintf("Error: %v", err))
		return
	}
	b.reply(chatID, fmt.Sprintf("⚙️ %s — %s", room.Name, room.SilentText()))
}

func (b *Bot) handleCheck(ctx context.Context, chatID int64) {
	if b.cycler == nil {
		b.reply(chatID, "On-demand checks are not available.")
		return
	}
	events := b.cycler.RunCycle(ctx)
	b.reply(chatID, FormatCheckSummary(events))
}
