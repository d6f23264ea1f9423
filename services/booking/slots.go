package booking

import (
	"fmt"
	"time"

	"gharseva/utils"
)

// Working hours: hourly slots from 09:00 up to and including 18:00.
const (
	firstSlotHour = 9
	lastSlotHour  = 18
)

// workingSlots returns every bookable slot label for a day.
func workingSlots() []string {
	slots := make([]string, 0, lastSlotHour-firstSlotHour+1)
	for h := firstSlotHour; h <= lastSlotHour; h++ {
		slots = append(slots, fmt.Sprintf("%02d:00", h))
	}
	return slots
}

// AvailableSlots lists the free slots for a service on a date: the working
// hours minus slots already taken by live bookings.
func (s *DefaultBookingService) AvailableSlots(serviceID, date string) ([]string, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, utils.NewValidation("date must be YYYY-MM-DD")
	}

	booked, err := s.Repo.BookedTimesFor(serviceID, date)
	if err != nil {
		return nil, err
	}

	taken := make(map[string]bool, len(booked))
	for _, t := range booked {
		taken[t] = true
	}

	var free []string
	for _, slot := range workingSlots() {
		if !taken[slot] {
			free = append(free, slot)
		}
	}
	return free, nil
}

// validateSlot rejects malformed or past-dated slot requests.
func validateSlot(date, timeLabel string) error {
	slot, err := time.ParseInLocation("2006-01-02 15:04", date+" "+timeLabel, time.Local)
	if err != nil {
		return utils.NewValidation("invalid date or time")
	}
	if slot.Before(time.Now()) {
		return utils.NewValidation("cannot book a slot in the past")
	}
	return nil
}

func containsSlot(slots []string, want string) bool {
	for _, s := range slots {
		if s == want {
			return true
		}
	}
	return false
}
