// Package reminder decide cuándo un participante debe recibir un recordatorio.
package reminder

import "time"

const day = 24 * time.Hour

// Policy umbrales en días.
type Policy struct {
	MinDaysSinceActivity    float64
	MinDaysBetweenReminders float64
}

// DefaultPolicy 3 días sin actividad y 7 días entre recordatorios.
var DefaultPolicy = Policy{MinDaysSinceActivity: 3, MinDaysBetweenReminders: 7}

// ShouldRemind es una función pura: sin actividad registrada nunca se recuerda.
func ShouldRemind(lastActivity, lastReminder *time.Time, now time.Time, p Policy) bool {
	if lastActivity == nil || lastActivity.IsZero() {
		return false
	}
	if daysBetween(*lastActivity, now) < p.MinDaysSinceActivity {
		return false
	}
	if lastReminder == nil || lastReminder.IsZero() {
		return true
	}
	return daysBetween(*lastReminder, now) >= p.MinDaysBetweenReminders
}

// ShouldRemindMillis misma regla con marcas de tiempo en milisegundos.
func ShouldRemindMillis(lastActivityMs, lastReminderMs *int64, nowMs int64, p Policy) bool {
	return ShouldRemind(fromMillis(lastActivityMs), fromMillis(lastReminderMs), time.UnixMilli(nowMs), p)
}

func fromMillis(ms *int64) *time.Time {
	if ms == nil || *ms == 0 {
		return nil
	}
	t := time.UnixMilli(*ms)
	return &t
}

func daysBetween(from, to time.Time) float64 {
	return float64(to.Sub(from)) / float64(day)
}
