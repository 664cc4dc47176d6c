package Schedule

import (
	"testing"

	"gorm.io/datatypes"
)

func TestParseWorkingDays(t *testing.T) {
	t.Run("empty config falls back to Mon-Fri", func(t *testing.T) {
		days := ParseWorkingDays(nil)
		if !days["monday"] || days["saturday"] {
			t.Errorf("expected Mon-Fri default, got %v", days)
		}
	})

	t.Run("malformed JSON falls back to Mon-Fri", func(t *testing.T) {
		days := ParseWorkingDays(datatypes.JSON(`{broken`))
		if !days["friday"] || days["sunday"] {
			t.Errorf("expected Mon-Fri default, got %v", days)
		}
	})

	t.Run("all days disabled falls back to Mon-Fri", func(t *testing.T) {
		days := ParseWorkingDays(datatypes.JSON(`{"monday":false,"tuesday":false}`))
		if !days["monday"] {
			t.Errorf("expected fallback when no day is enabled, got %v", days)
		}
	})

	t.Run("valid config is honored", func(t *testing.T) {
		days := ParseWorkingDays(datatypes.JSON(`{"monday":true,"saturday":true,"sunday":false}`))
		if !days["saturday"] {
			t.Error("expected saturday enabled")
		}
		if days["sunday"] {
			t.Error("expected sunday disabled")
		}
	})
}

func TestCalendarIsWorkingDay(t *testing.T) {
	cal := workWeekCalendar()
	if !cal.IsWorkingDay(monday) {
		t.Error("Monday should be a working day")
	}
	saturday := monday.AddDate(0, 0, 5)
	if cal.IsWorkingDay(saturday) {
		t.Error("Saturday should not be a working day")
	}
}

func TestNextWorkingDay(t *testing.T) {
	cal := workWeekCalendar()

	t.Run("working day is returned unchanged", func(t *testing.T) {
		assertDate(t, cal.NextWorkingDay(monday), monday, "monday")
	})

	t.Run("saturday rolls to monday", func(t *testing.T) {
		saturday := monday.AddDate(0, 0, 5)
		nextMonday := monday.AddDate(0, 0, 7)
		assertDate(t, cal.NextWorkingDay(saturday), nextMonday, "saturday")
	})

	t.Run("sunday rolls to monday", func(t *testing.T) {
		sunday := monday.AddDate(0, 0, 6)
		nextMonday := monday.AddDate(0, 0, 7)
		assertDate(t, cal.NextWorkingDay(sunday), nextMonday, "sunday")
	})
}

func TestAddWorkingDays(t *testing.T) {
	cal := workWeekCalendar()

	t.Run("skips the weekend", func(t *testing.T) {
		friday := monday.AddDate(0, 0, 4)
		nextMonday := monday.AddDate(0, 0, 7)
		assertDate(t, cal.AddWorkingDays(friday, 1), nextMonday, "friday+1")
	})

	t.Run("zero normalizes to a working day", func(t *testing.T) {
		saturday := monday.AddDate(0, 0, 5)
		nextMonday := monday.AddDate(0, 0, 7)
		assertDate(t, cal.AddWorkingDays(saturday, 0), nextMonday, "saturday+0")
	})

	t.Run("full week spans two weekends", func(t *testing.T) {
		// 10 working days from Monday lands two weeks later.
		assertDate(t, cal.AddWorkingDays(monday, 10), monday.AddDate(0, 0, 14), "monday+10")
	})

	t.Run("negative delegates to subtraction", func(t *testing.T) {
		previousFriday := monday.AddDate(0, 0, -3)
		assertDate(t, cal.AddWorkingDays(monday, -1), previousFriday, "monday-1")
	})
}

func TestSubWorkingDays(t *testing.T) {
	cal := workWeekCalendar()

	t.Run("walks back over the weekend", func(t *testing.T) {
		previousFriday := monday.AddDate(0, 0, -3)
		assertDate(t, cal.SubWorkingDays(monday, 1), previousFriday, "monday-1")
	})

	t.Run("weekend start normalizes backwards first", func(t *testing.T) {
		sunday := monday.AddDate(0, 0, 6)
		friday := monday.AddDate(0, 0, 4)
		assertDate(t, cal.SubWorkingDays(sunday, 0), friday, "sunday-0")
	})
}
