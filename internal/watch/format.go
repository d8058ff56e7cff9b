package watch

// Notification message texts. Plain text only; the delivery channel is not
// asked to render any markup.

import (
	"fmt"
	"strings"
	"time"
)

// FormatHumanUTC renders a timestamp the way recipients see it.
func FormatHumanUTC(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04 UTC")
}

// FormatWatchingMessage is sent once when a launch is first admitted.
func FormatWatchingMessage(name, symbol string, startTime time.Time) string {
	return fmt.Sprintf("Watching token %s (%s) for release at %s",
		name, symbol, FormatHumanUTC(startTime))
}

// FormatReleasedMessage is sent exactly once when the contract address
// becomes available.
func FormatReleasedMessage(name, symbol, contractAddress string, startTime time.Time) string {
	var message strings.Builder
	message.WriteString("🚨 TOKEN RELEASED! 🚨\n")
	message.WriteString(fmt.Sprintf("Name: %s (%s)\n", name, symbol))
	message.WriteString(fmt.Sprintf("Contract Address: %s\n", contractAddress))
	message.WriteString(fmt.Sprintf("Release Time: %s", FormatHumanUTC(startTime)))
	return message.String()
}

// FormatDigestMessage lists upcoming launches, soonest first.
func FormatDigestMessage(entries []EntryView) string {
	if len(entries) == 0 {
		return "No upcoming token launches right now."
	}

	var message strings.Builder
	message.WriteString(fmt.Sprintf("📅 Upcoming token launches (%d):\n", len(entries)))
	for _, e := range entries {
		message.WriteString(fmt.Sprintf("• %s (%s) — %s\n", e.Name, e.Symbol, FormatHumanUTC(e.StartTime)))
	}
	return strings.TrimRight(message.String(), "\n")
}
