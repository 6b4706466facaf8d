// Package format renders calculator values for the CLI and the HTTP API.
package format

import (
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/napolitain/lastwar-buildtime/internal/calc"
	"github.com/napolitain/lastwar-buildtime/internal/models"
)

// InstantLayout is the wall-clock format used for completion times
const InstantLayout = "2006-01-02 15:04:05"

var printer = message.NewPrinter(language.Korean)

var resourceLabels = map[models.ResourceType]string{
	models.Iron: "철",
	models.Food: "식량",
	models.Gold: "골드",
}

// Duration renders a seconds count as "1D 20:54:11"
func Duration(seconds int64) string {
	return calc.Decompose(seconds).String()
}

// Instant renders t in its own location as "2026-03-16 06:24:11"
func Instant(t time.Time) string {
	return t.Format(InstantLayout)
}

// Integer renders n with digit grouping, e.g. 375,840
func Integer(n int64) string {
	return printer.Sprintf("%d", n)
}

// Percent renders p without trailing zeros, e.g. "82.5%"
func Percent(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64) + "%"
}

// Resource renders a raw amount with a K/M/B suffix.
// Values are truncated, not rounded, to one decimal: 16_190_000 is "16.1M".
func Resource(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "-"
	}
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}

	switch {
	case v >= 1e9:
		return sign + scaled(v, 1e9) + "B"
	case v >= 1e6:
		return sign + scaled(v, 1e6) + "M"
	case v >= 1e3:
		return sign + scaled(v, 1e3) + "K"
	}
	return sign + Integer(int64(v))
}

func scaled(v, unit float64) string {
	// the epsilon keeps 16.1e6/1e6*10 from landing on 160.999...
	tenths := math.Trunc(v/unit*10 + 1e-9)
	s := strconv.FormatFloat(tenths/10, 'f', 1, 64)
	return strings.TrimSuffix(s, ".0")
}

// ResourceLabel returns the display label of a resource type
func ResourceLabel(rt models.ResourceType) string {
	if l, ok := resourceLabels[rt]; ok {
		return l
	}
	return string(rt)
}

// Costs renders all non-zero components, e.g. "철 16.1M · 식량 16.1M · 골드 5.4M"
func Costs(c models.Costs) string {
	if c.IsZero() {
		return "-"
	}
	var parts []string
	for _, rt := range models.AllResourceTypes() {
		if v := c.Get(rt); v != 0 {
			parts = append(parts, ResourceLabel(rt)+" "+Resource(v))
		}
	}
	return strings.Join(parts, " · ")
}

// Prerequisites joins labels for a table cell
func Prerequisites(p []string) string {
	if len(p) == 0 {
		return "-"
	}
	return strings.Join(p, ", ")
}
