package domain

import (
	"bytes"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// Article is one recommended news item as returned by the service
type Article struct {
	ID        ID        `json:"id"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	ImageURL  string    `json:"imageLink,omitempty"`
	Publisher string    `json:"publisher"`
	CreatedAt Timestamp `json:"createdAt"`
	Link      string    `json:"link"`
	IsLiked   bool      `json:"isLiked"`
}

// DateString returns the publication date in Vietnamese short form (d/m/yyyy)
func (a Article) DateString() string {
	if a.CreatedAt.IsZero() {
		return ""
	}
	return a.CreatedAt.Format("2/1/2006")
}

// Timestamp decodes the service's createdAt values. It is only used for
// display, so a value in an unknown format decodes to the zero time
// instead of failing the whole page.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999-0700",
	"2006-01-02T15:04:05.999999999Z07",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	t.Time = parseTimestamp(bytes.TrimSpace(data))
	return nil
}

// parseTimestamp accepts ISO strings, epoch milliseconds (integer, float or
// numeric string) and date-time arrays [y, m, d, h, min, s, nanos].
// Anything else yields the zero time.
func parseTimestamp(data []byte) time.Time {
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return time.Time{}
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return time.Time{}
		}
		s = strings.TrimSpace(s)
		for _, layout := range timestampLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed
			}
		}
		return fromMillis(s)
	case '[':
		var parts []int
		if err := json.Unmarshal(data, &parts); err != nil || len(parts) < 3 {
			return time.Time{}
		}
		for len(parts) < 7 {
			parts = append(parts, 0)
		}
		return time.Date(parts[0], time.Month(parts[1]), parts[2], parts[3], parts[4], parts[5], parts[6], time.UTC)
	default:
		return fromMillis(string(data))
	}
}

func fromMillis(s string) time.Time {
	ms, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(ms) || math.IsInf(ms, 0) {
		return time.Time{}
	}
	return time.UnixMilli(int64(ms)).UTC()
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339Nano))
}
