package notifications

import (
	"fmt"
	"strings"

	"github.com/albapepper/waktu/internal/prayer"
)

const refreshBody = "Please open the app to refresh today’s prayer times and notifications."

const clockLayout = "3:04 PM"

func prayerBody(p prayer.Prayer, minutes int, place string, traveling bool, day []prayer.Prayer) string {
	name := p.Names.Transliteration + nameSuffix(p.Key)
	clock := p.Time.Format(clockLayout)

	var b strings.Builder
	if minutes > 0 {
		fmt.Fprintf(&b, "%dm until %s in %s", minutes, name, place)
		if traveling {
			b.WriteString(" (traveling)")
		}
		fmt.Fprintf(&b, " [%s]", clock)
		return b.String()
	}

	fmt.Fprintf(&b, "Time for %s at %s in %s", name, clock, place)
	if traveling {
		b.WriteString(" (traveling)")
	}
	if p.Key == prayer.Fajr && len(day) > 1 {
		fmt.Fprintf(&b, " [ends at %s]", day[1].Time.Format(clockLayout))
	}
	return b.String()
}

func nameSuffix(k prayer.Key) string {
	switch k {
	case prayer.Sunrise:
		return " (end of Fajr)"
	case prayer.Jumuah:
		return " (Friday)"
	default:
		return ""
	}
}
