package protocol

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseText parses a line of the classic text protocol: get, gets, gat,
// gats, version, stats, touch, quit.
func ParseText(line string) (Command, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Command{}, ErrNoCommand
	}

	parts := strings.Fields(line)
	if len(parts) == 0 {
		return Command{}, ErrNoCommand
	}

	switch parts[0] {
	case "get":
		if len(parts) < 2 {
			return Command{}, fmt.Errorf("get requires at least one key")
		}
		return Command{Kind: Get, Keys: parts[1:]}, nil

	case "gets":
		if len(parts) < 2 {
			return Command{}, fmt.Errorf("gets requires at least one key")
		}
		return Command{Kind: Gets, Keys: parts[1:]}, nil

	case "gat":
		if len(parts) < 3 {
			return Command{}, fmt.Errorf("gat requires exptime and at least one key")
		}
		exptime, err := parseExptime(parts[1])
		if err != nil {
			return Command{}, fmt.Errorf("invalid exptime in gat command: %w", err)
		}
		return Command{Kind: Gat, Exptime: exptime, Keys: parts[2:]}, nil

	case "gats":
		if len(parts) < 3 {
			return Command{}, fmt.Errorf("gats requires exptime and at least one key")
		}
		exptime, err := parseExptime(parts[1])
		if err != nil {
			return Command{}, fmt.Errorf("invalid exptime in gats command: %w", err)
		}
		return Command{Kind: Gats, Exptime: exptime, Keys: parts[2:]}, nil

	case "version":
		return Command{Kind: Version}, nil

	case "stats":
		if len(parts) > 1 {
			return Command{Kind: Stats, StatsArg: strings.Join(parts[1:], " "), HasStatsArg: true}, nil
		}
		return Command{Kind: Stats}, nil

	case "touch":
		if len(parts) != 3 {
			return Command{}, fmt.Errorf("touch requires key and exptime")
		}
		exptime, err := parseExptime(parts[2])
		if err != nil {
			return Command{}, fmt.Errorf("invalid exptime in touch command: %w", err)
		}
		return Command{Kind: Touch, Key: parts[1], Exptime: exptime}, nil

	case "quit":
		return Command{Kind: Quit}, nil

	default:
		return Command{}, fmt.Errorf("unknown command: %s", parts[0])
	}
}

func parseExptime(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}
