package bot

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseRoomIDArg extracts a positive numeric room ID from a command
// argument string.
func ParseRoomIDArg(args string) (int64, error) {
	s := strings.TrimSpace(args)
	if s == "" {
		return 0, fmt.Errorf("room ID is required")
	}
	id, err := strconv.ParseInt(strings.Fields(s)[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid room ID %q", s)
	}
	return id, nil
}
