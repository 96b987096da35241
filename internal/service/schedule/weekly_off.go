package schedule

import (
	"sort"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/calendar"
)

// WeeklyOffResolver answers weekly-off lookups for one user's configs.
// Configs are ordered by (EffectiveDate, Seq), so among configs with the same
// effective date the last inserted wins.
type WeeklyOffResolver struct {
	configs []schedule.WeeklyOffConfig
}

func NewWeeklyOffResolver(configs []schedule.WeeklyOffConfig) *WeeklyOffResolver {
	sorted := make([]schedule.WeeklyOffConfig, len(configs))
	copy(sorted, configs)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if !a.EffectiveDate.Equal(b.EffectiveDate) {
			return a.EffectiveDate.Before(b.EffectiveDate)
		}
		return a.Seq < b.Seq
	})
	return &WeeklyOffResolver{configs: sorted}
}

// Active returns the config authoritative on date: the most recently
// effective one whose window still covers date.
func (r *WeeklyOffResolver) Active(date time.Time) (schedule.WeeklyOffConfig, bool) {
	date = calendar.Truncate(date)

	// index of the first config effective after date
	i := sort.Search(len(r.configs), func(i int) bool {
		return r.configs[i].EffectiveDate.After(date)
	})
	for i--; i >= 0; i-- {
		if r.configs[i].ActiveOn(date) {
			return r.configs[i], true
		}
	}
	return schedule.WeeklyOffConfig{}, false
}

func (r *WeeklyOffResolver) IsWeeklyOff(date time.Time) bool {
	cfg, ok := r.Active(date)
	return ok && cfg.IsOff(calendar.Weekday(date))
}
