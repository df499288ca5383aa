package aggregator

import (
	"strings"

	"github.com/jengzang/tripmap-backend-go/internal/models"
)

// dayAliases maps upstream weekday tokens (English and Chinese, as
// returned by the places API depending on locale) to the fixed keys
var dayAliases = map[string]string{
	"monday":    models.Monday,
	"tuesday":   models.Tuesday,
	"wednesday": models.Wednesday,
	"thursday":  models.Thursday,
	"friday":    models.Friday,
	"saturday":  models.Saturday,
	"sunday":    models.Sunday,
	"星期一":       models.Monday,
	"星期二":       models.Tuesday,
	"星期三":       models.Wednesday,
	"星期四":       models.Thursday,
	"星期五":       models.Friday,
	"星期六":       models.Saturday,
	"星期日":       models.Sunday,
	"星期天":       models.Sunday,
}

// ParseHours turns a weekday_text array ("Monday: 9:00 AM – 5:00 PM")
// into an OpeningHours map. Lines that do not start with a recognized
// weekday token are skipped; nil is returned when nothing parses so the
// field is omitted from JSON.
func ParseHours(weekdayText []string) models.OpeningHours {
	var hours models.OpeningHours

	for _, line := range weekdayText {
		day, text, ok := splitHoursLine(line)
		if !ok {
			continue
		}
		if hours == nil {
			hours = make(models.OpeningHours)
		}
		hours[day] = text
	}

	return hours
}

// splitHoursLine splits one weekday line on its first colon (ASCII or
// fullwidth) and resolves the day token
func splitHoursLine(line string) (day, text string, ok bool) {
	sep := strings.Index(line, ":")
	wide := strings.Index(line, "：")
	if sep < 0 || (wide >= 0 && wide < sep) {
		sep = wide
	}
	if sep < 0 {
		return "", "", false
	}

	token := strings.ToLower(strings.TrimSpace(line[:sep]))
	day, known := dayAliases[token]
	if !known {
		return "", "", false
	}

	rest := line[sep:]
	// 跳过分隔符本身（ASCII 冒号 1 字节，全角 3 字节）
	if strings.HasPrefix(rest, "：") {
		rest = rest[len("："):]
	} else {
		rest = rest[1:]
	}

	return day, strings.TrimSpace(rest), true
}
