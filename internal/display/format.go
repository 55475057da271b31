package display

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FormatBytes returns a human-readable size (B, KiB, MiB, GiB, TiB, PiB).
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	suffixes := []string{"KiB", "MiB", "GiB", "TiB", "PiB", "EiB"}
	if exp >= len(suffixes) {
		exp = len(suffixes) - 1
		div = 1
		for i := 0; i <= exp; i++ {
			div *= unit
		}
	}
	return fmt.Sprintf("%.1f %s", float64(bytes)/float64(div), suffixes[exp])
}

// FormatBytesWithSign prefixes with + or - for delta display (e.g. "- 1.2 GiB").
func FormatBytesWithSign(bytes int64) string {
	sign := ""
	if bytes > 0 {
		sign = "+ "
	} else if bytes < 0 {
		sign = "- "
		bytes = -bytes
	}
	return sign + FormatBytes(bytes)
}

// FormatElapsed spells out a wall-clock duration in words, e.g.
// "1 hour 2 minutes", "3 minutes 5 seconds" or "42 seconds".
func FormatElapsed(d time.Duration) string {
	secs := int64(d.Round(time.Second) / time.Second)
	if secs < 1 {
		return "less than a second"
	}
	h, m, sec := secs/3600, secs/60%60, secs%60

	var parts []string
	add := func(n int64, unit string) {
		switch {
		case n == 1:
			parts = append(parts, "1 "+unit)
		case n > 1:
			parts = append(parts, strconv.FormatInt(n, 10)+" "+unit+"s")
		}
	}
	add(h, "hour")
	add(m, "minute")
	if h == 0 {
		add(sec, "second")
	}
	return strings.Join(parts, " ")
}

// FormatTimecode renders seconds as HH:MM:SS.ss.
func FormatTimecode(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	cs := int64(seconds*100 + 0.5)
	h := cs / 360000
	m := cs / 6000 % 60
	s := cs / 100 % 60
	return fmt.Sprintf("%02d:%02d:%02d.%02d", h, m, s, cs%100)
}
