package calc

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/napolitain/lastwar-buildtime/internal/models"
)

var (
	digitsRegex = regexp.MustCompile(`^\d+$`)
	clockRegex  = regexp.MustCompile(`^(?:(\d+)\s*[dD]\s*)?(\d+):(\d{1,2}):(\d{1,2})$`)
	daysRegex   = regexp.MustCompile(`^(\d+)\s*[dD]$`)
)

// BaseSeconds converts a days/hours/minutes/seconds entry to seconds.
// Components are not range-limited, so 0d 30:00:00 is 108000.
func BaseSeconds(days, hours, minutes, seconds int64) (int64, error) {
	if days < 0 || hours < 0 || minutes < 0 || seconds < 0 {
		return 0, fmt.Errorf("%w: duration components must be non-negative", models.ErrInvalidInput)
	}
	total := float64(days)*86400 + float64(hours)*3600 + float64(minutes)*60 + float64(seconds)
	if total >= float64(maxReducedSeconds) {
		return 0, fmt.Errorf("%w: duration is out of range", models.ErrInvalidInput)
	}
	return days*86400 + hours*3600 + minutes*60 + seconds, nil
}

// ParseBaseDuration parses "4d 08:24:00", "08:24:00", "4d", "375840" or "104h24m"
func ParseBaseDuration(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty duration", models.ErrInvalidInput)
	}

	if digitsRegex.MatchString(s) {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: duration %q: %v", models.ErrInvalidInput, s, err)
		}
		return n, nil
	}

	if m := clockRegex.FindStringSubmatch(s); m != nil {
		var days int64
		if m[1] != "" {
			days = atoi(m[1])
		}
		hours, minutes, seconds := atoi(m[2]), atoi(m[3]), atoi(m[4])
		if minutes > 59 || seconds > 59 {
			return 0, fmt.Errorf("%w: duration %q: minutes and seconds must be below 60", models.ErrInvalidInput, s)
		}
		return BaseSeconds(days, hours, minutes, seconds)
	}

	if m := daysRegex.FindStringSubmatch(s); m != nil {
		return BaseSeconds(atoi(m[1]), 0, 0, 0)
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%w: unrecognised duration %q", models.ErrInvalidInput, s)
	}
	if d < 0 {
		return 0, fmt.Errorf("%w: negative duration %q", models.ErrInvalidInput, s)
	}
	return int64(d / time.Second), nil
}

// atoi is only called on regex-matched digit runs
func atoi(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return math.MaxInt64
	}
	return n
}
