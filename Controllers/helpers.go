package Controllers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"Mason/Models"
	"Mason/Schedule"
)

const dateLayout = "2006-01-02"

// paramID parses a numeric route parameter.
func paramID(ctx *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(ctx.Params(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// currentUserID returns the ID of the authenticated user, if any. The auth
// middleware stores the user in ctx.Locals.
func currentUserID(ctx *fiber.Ctx) *uint {
	user, ok := ctx.Locals("user").(Models.User)
	if !ok {
		return nil
	}
	id := user.ID
	return &id
}

// companyCalendar builds the working-day calendar from company settings,
// falling back to Mon-Fri when settings are missing.
func companyCalendar() Schedule.Calendar {
	setting, err := Models.GetCompanySetting()
	if err != nil {
		return Schedule.NewCalendar(Schedule.DefaultWorkingDays())
	}
	return Schedule.NewCalendar(Schedule.ParseWorkingDays(setting.WorkingDays))
}

func parseDate(value string) (time.Time, error) {
	return time.Parse(dateLayout, value)
}

// dependencyErrorStatus maps the typed dependency errors to HTTP statuses.
func dependencyErrorStatus(err error) int {
	switch {
	case errors.Is(err, Schedule.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, Schedule.ErrCyclicDependency),
		errors.Is(err, Schedule.ErrDuplicateDependency):
		return fiber.StatusConflict
	case errors.Is(err, Schedule.ErrSelfReference):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}
