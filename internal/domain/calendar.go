package domain

import "time"

// UpcomingWithin keeps services dated within [today, today+windowDays],
// inclusive on both ends, comparing calendar dates only. Services without
// a date are excluded. Shared by the reminder scan and the
// upcoming-services endpoint.
func UpcomingWithin(services []*Service, today time.Time, windowDays int) []*Service {
	from := truncateToDay(today)
	to := from.AddDate(0, 0, windowDays)

	var upcoming []*Service
	for _, svc := range services {
		if svc.ServiceDate == nil {
			continue
		}
		date := truncateToDay(*svc.ServiceDate)
		if date.Before(from) || date.After(to) {
			continue
		}
		upcoming = append(upcoming, svc)
	}
	return upcoming
}

// DaysUntil returns the whole days from ref to target, floored at zero:
// a target in the past is reported as 0, never negative.
func DaysUntil(ref, target time.Time) int {
	days := int(truncateToDay(target).Sub(truncateToDay(ref)).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
