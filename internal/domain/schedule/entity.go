package schedule

import "time"

type Holiday struct {
	ID        string
	Date      time.Time
	Name      string
	CreatedAt time.Time
}

// WeeklyOffConfig marks weekdays (0=Sunday..6=Saturday) as off for a user
// from EffectiveDate onward, until EndDate when set. Seq is the insertion
// order and breaks ties between configs with the same EffectiveDate.
type WeeklyOffConfig struct {
	ID            string
	UserID        string
	Weekdays      []int
	EffectiveDate time.Time
	EndDate       *time.Time
	Seq           int64
	CreatedAt     time.Time
}

// ActiveOn reports whether the config's window covers date.
func (c WeeklyOffConfig) ActiveOn(date time.Time) bool {
	if c.EffectiveDate.After(date) {
		return false
	}
	return c.EndDate == nil || !c.EndDate.Before(date)
}

// IsOff reports whether weekday is one of the configured days off.
func (c WeeklyOffConfig) IsOff(weekday int) bool {
	for _, d := range c.Weekdays {
		if d == weekday {
			return true
		}
	}
	return false
}
