package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func getUserID(c *fiber.Ctx) (uuid.UUID, error) {
	userIDStr, ok := c.Locals("userID").(string)
	if !ok {
		return uuid.Nil, fiber.ErrUnauthorized
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, err
	}

	return userID, nil
}

// parseDateRange reads optional start/end query params in YYYY-MM-DD form.
// The end bound is interpreted end-of-day inclusive by the repository.
func parseDateRange(c *fiber.Ctx) (start, end *time.Time, err error) {
	const layout = "2006-01-02"

	if s := c.Query("start"); s != "" {
		t, perr := time.Parse(layout, s)
		if perr != nil {
			return nil, nil, fmt.Errorf("invalid start date %q", s)
		}
		start = &t
	}
	if e := c.Query("end"); e != "" {
		t, perr := time.Parse(layout, e)
		if perr != nil {
			return nil, nil, fmt.Errorf("invalid end date %q", e)
		}
		end = &t
	}
	return start, end, nil
}
