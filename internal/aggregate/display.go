package aggregate

import (
	"fmt"
	"strings"
)

const (
	displayLimit   = 500
	abbreviateTo   = 100
	displayJoin    = ". "
	abbreviateJoin = " | "
)

// DisplayTotal renders the achievements of the drafts currently held as one
// running summary. Empty values are skipped. When the plain summary would be
// longer than 500 characters every value is shortened to its first 100
// characters and shown as "Session N: ...", joined by " | ".
func DisplayTotal(achievements []string) string {
	var parts []string
	for _, a := range achievements {
		if a = strings.TrimSpace(a); a != "" {
			parts = append(parts, a)
		}
	}

	joined := strings.Join(parts, displayJoin)
	if len([]rune(joined)) <= displayLimit {
		return joined
	}

	short := make([]string, len(parts))
	for i, p := range parts {
		short[i] = fmt.Sprintf("Session %d: %s", i+1, abbreviate(p, abbreviateTo))
	}
	return strings.Join(short, abbreviateJoin)
}

func abbreviate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
