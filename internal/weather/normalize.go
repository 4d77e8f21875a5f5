package weather

import (
	"math"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/i474232898/weather-favorites/internal/common"
)

// RoundTemperature rounds a provider temperature to whole degrees, half away from zero.
func RoundTemperature(c float64) int {
	return int(math.Round(c))
}

// Capitalize upper-cases the first letter of a description ("lekkie opady" -> "Lekkie opady").
func Capitalize(s string) string {
	s = strings.TrimSpace(s)
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// ConditionFromIcon maps an OpenWeatherMap icon code ("10d", "50n", ...) to a Condition.
func ConditionFromIcon(icon string) Condition {
	if len(icon) < 2 {
		return ConditionUnknown
	}
	switch icon[:2] {
	case "01":
		return ConditionClear
	case "02", "03", "04":
		return ConditionCloudy
	case "09", "10":
		return ConditionRain
	case "11":
		return ConditionStorm
	case "13":
		return ConditionSnow
	case "50":
		return ConditionMist
	default:
		return ConditionUnknown
	}
}

// ConditionFromText maps a free-text condition ("Patchy light drizzle") to a Condition.
func ConditionFromText(text string) Condition {
	switch {
	case text == "":
		return ConditionUnknown
	case common.HasAnyFold(text, "thunder", "storm"):
		return ConditionStorm
	case common.HasAnyFold(text, "snow", "sleet", "blizzard", "ice pellets"):
		return ConditionSnow
	case common.HasAnyFold(text, "rain", "shower", "drizzle"):
		return ConditionRain
	case common.HasAnyFold(text, "mist", "fog", "haze"):
		return ConditionMist
	case common.HasAnyFold(text, "cloud", "overcast"):
		return ConditionCloudy
	case common.HasAnyFold(text, "sunny", "clear"):
		return ConditionClear
	default:
		return ConditionUnknown
	}
}

// Normalize fills the derived fields of a freshly decoded snapshot.
// Condition is only derived when the provider left it empty. The description
// is kept as the provider sent it; presentation capitalizes it.
func Normalize(s Snapshot, now time.Time) Snapshot {
	if s.Condition == "" {
		s.Condition = ConditionFromIcon(s.Icon)
	}
	if s.FetchedAt.IsZero() {
		s.FetchedAt = now.UTC()
	}
	return s
}
