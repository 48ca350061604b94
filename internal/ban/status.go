package ban

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// StatusText renders the chat line for a ban status lookup.
func StatusText(name string, record Record, banned bool) string {
	if !banned {
		return fmt.Sprintf("Player %s is not CT-Banned.", name)
	}

	if record.Permanent() {
		return fmt.Sprintf("Player %s is CT-Banned permanently (%s, banned %s).",
			name, record.Reason, humanize.Time(record.CreatedOn))
	}

	return fmt.Sprintf("Player %s is CT-Banned (%s, expires %s).",
		name, record.Reason, humanize.Time(record.ValidUntil))
}
