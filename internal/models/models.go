package models

import (
	"strconv"
	"time"
)

// DayFormat is how entry dates are stored: an ISO-8601 date computed in the
// configured timezone.
const DayFormat = "2006-01-02"

// Day buckets t into a calendar date string in loc. All "today" computations
// go through this, once per update or tick.
func Day(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DayFormat)
}

type User struct {
	ID        int64
	Username  string
	FirstName string
	LastName  string
	CreatedAt time.Time
}

// DisplayName prefers the @username, then first/last name, then the raw id.
func (u User) DisplayName() string {
	if u.Username != "" {
		return "@" + u.Username
	}
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	if name != "" {
		return name
	}
	return "id" + strconv.FormatInt(u.ID, 10)
}

// UserTotal is one row of a day's aggregation: a registered user and their
// summed total for a single exercise, zero when they logged nothing.
type UserTotal struct {
	User  User
	Total int
}

type Entry struct {
	ID       int64
	UserID   int64
	Exercise string
	Day      string
	Value    int
}
