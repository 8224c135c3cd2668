package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Harrypotter-hub/SmartBunk/internal/model"
)

// mwfSubject meets Mon/Wed/Fri through January 2026. 2026-01-01 is a Thursday.
func mwfSubject() model.Subject {
	return model.Subject{
		ID:        "sub-1",
		Name:      "Data Structures",
		Schedule:  []time.Weekday{time.Monday, time.Wednesday, time.Friday},
		StartDate: "2026-01-01",
		EndDate:   "2026-01-31",
	}
}

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestParseDateRejectsMalformed(t *testing.T) {
	for _, s := range []string{"", "2026-1-5", "05-01-2026", "2026-01-32", "yesterday"} {
		_, err := ParseDate(s)
		assert.ErrorIs(t, err, ErrInvalidDate, "input %q", s)
	}
}

func TestFormatLocalDateUsesLocalFields(t *testing.T) {
	// 23:30 local on Jan 5 must format as Jan 5 even though the UTC
	// instant may already be Jan 6.
	local := time.Date(2026, time.January, 5, 23, 30, 0, 0, time.Local)
	assert.Equal(t, "2026-01-05", FormatLocalDate(local))
}

func TestIsEventDayTermBounds(t *testing.T) {
	sub := mwfSubject()
	none := HolidaySet{}

	// Day before the term start is never valid.
	assert.False(t, IsEventDay(date(t, "2025-12-31"), sub, none).OK)
	// Day after the term end is never valid.
	assert.False(t, IsEventDay(date(t, "2026-02-01"), sub, none).OK)

	// The term start itself is valid iff the weekday matches. 2026-01-01
	// is a Thursday, so not for this subject.
	assert.False(t, IsEventDay(date(t, "2026-01-01"), sub, none).OK)

	monday := mwfSubject()
	monday.StartDate = "2026-01-05" // a Monday
	assert.True(t, IsEventDay(date(t, "2026-01-05"), monday, none).OK)
}

func TestIsEventDayWeekday(t *testing.T) {
	sub := mwfSubject()
	none := HolidaySet{}

	assert.True(t, IsEventDay(date(t, "2026-01-05"), sub, none).OK)  // Mon
	assert.True(t, IsEventDay(date(t, "2026-01-07"), sub, none).OK)  // Wed
	assert.False(t, IsEventDay(date(t, "2026-01-06"), sub, none).OK) // Tue
	assert.False(t, IsEventDay(date(t, "2026-01-10"), sub, none).OK) // Sat
}

func TestHolidayBeatsScheduleMatch(t *testing.T) {
	sub := mwfSubject()
	holidays := NewHolidaySet([]string{"2026-01-26"}) // a Monday

	v := IsEventDay(date(t, "2026-01-26"), sub, holidays)
	assert.False(t, v.OK)
	assert.Equal(t, "holiday", v.Reason)
}

func TestIsEventDayMalformedTerm(t *testing.T) {
	sub := mwfSubject()
	sub.EndDate = "soon"
	assert.False(t, IsEventDay(date(t, "2026-01-05"), sub, nil).OK)
}

func TestCountClassDays(t *testing.T) {
	sub := mwfSubject()
	none := HolidaySet{}

	// All of January 2026: 4 Mondays, 4 Wednesdays, 5 Fridays.
	got := CountClassDays(sub, date(t, "2026-01-01"), date(t, "2026-01-31"), none)
	assert.Equal(t, 13, got)

	// Strictly after Jan 15 (a Thursday): 16, 19, 21, 23, 26, 28, 30.
	got = CountClassDays(sub, date(t, "2026-01-16"), date(t, "2026-01-31"), none)
	assert.Equal(t, 7, got)

	// Inverted range counts zero, not an error.
	got = CountClassDays(sub, date(t, "2026-01-31"), date(t, "2026-01-01"), none)
	assert.Equal(t, 0, got)

	// A single valid day is inclusive on both ends.
	got = CountClassDays(sub, date(t, "2026-01-05"), date(t, "2026-01-05"), none)
	assert.Equal(t, 1, got)
}

func TestCountClassDaysSkipsHolidays(t *testing.T) {
	sub := mwfSubject()
	holidays := NewHolidaySet([]string{"2026-01-26"})

	got := CountClassDays(sub, date(t, "2026-01-01"), date(t, "2026-01-31"), holidays)
	assert.Equal(t, 12, got)
}

func TestSubjectsOnDatePreservesOrder(t *testing.T) {
	mwf := mwfSubject()
	tue := model.Subject{
		ID:        "sub-2",
		Name:      "Electronics",
		Schedule:  []time.Weekday{time.Tuesday},
		StartDate: "2026-01-01",
		EndDate:   "2026-01-31",
	}
	daily := model.Subject{
		ID:   "sub-3",
		Name: "Workshop",
		Schedule: []time.Weekday{
			time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday,
		},
		StartDate: "2026-01-01",
		EndDate:   "2026-01-31",
	}

	got := SubjectsOnDate(date(t, "2026-01-05"), []model.Subject{mwf, tue, daily}, nil)
	require.Len(t, got, 2)
	assert.Equal(t, "sub-1", got[0].ID)
	assert.Equal(t, "sub-3", got[1].ID)
}

func TestNewHolidaySetDropsMalformed(t *testing.T) {
	set := NewHolidaySet([]string{"2026-01-26", "not-a-date", "2026-08-15"})
	assert.True(t, set.Contains("2026-01-26"))
	assert.True(t, set.Contains("2026-08-15"))
	assert.False(t, set.Contains("not-a-date"))
	assert.Len(t, set, 2)
}

func TestClassDaysLists(t *testing.T) {
	sub := mwfSubject()
	days := ClassDays(sub, date(t, "2026-01-16"), date(t, "2026-01-23"), nil)
	assert.Equal(t, []string{"2026-01-16", "2026-01-19", "2026-01-21", "2026-01-23"}, days)
}
