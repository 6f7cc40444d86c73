package services

import (
	"time"

	"fitclub_go/apperrors"
	"fitclub_go/models"
	"fitclub_go/timeslot"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AvailabilityService decides whether a trainer can take a personal
// booking at a requested date and time. Bookings attach to discrete fixed
// slots on the trainer's weekly schedule, not to arbitrary times.
type AvailabilityService struct {
	db *gorm.DB
}

func NewAvailabilityService(db *gorm.DB) *AvailabilityService {
	return &AvailabilityService{db: db}
}

// lockForUpdate adds a row lock on MySQL. SQLite (used in tests) has a
// single writer and rejects the clause, so it is skipped there.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "mysql" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// Resolve checks the trainer's weekly schedule and existing bookings for
// (date, tod). On success it returns the matched schedule slot. Inside a
// booking transaction the matched slot row is locked, closing the
// check-then-insert window: concurrent attempts on the same slot serialize
// on the lock and the loser fails the uniqueness re-check.
func (s *AvailabilityService) Resolve(tx *gorm.DB, trainerID uint, date time.Time, tod timeslot.TimeOfDay, forBooking bool) (*models.TrainerScheduleSlot, error) {
	day := timeslot.WeekdayOf(date)

	var allSlots []models.TrainerScheduleSlot
	if err := tx.Where("trainer_id = ?", trainerID).
		Order("day_of_week, start_time").
		Find(&allSlots).Error; err != nil {
		return nil, apperrors.Infrastructure(err)
	}
	if len(allSlots) == 0 {
		return nil, apperrors.NotFound(apperrors.CodeNoSchedule,
			"trainer has no schedule yet, contact an administrator")
	}

	var daySlots []models.TrainerScheduleSlot
	for _, slot := range allSlots {
		if timeslot.Weekday(slot.DayOfWeek) == day {
			daySlots = append(daySlots, slot)
		}
	}
	if len(daySlots) == 0 {
		days := availableDays(allSlots)
		return nil, apperrors.Conflict(apperrors.CodeDayNotAvailable,
			"trainer does not work on "+string(day)).
			WithDetails(map[string]interface{}{"available_days": days})
	}

	// Requested time must match a slot start exactly.
	var matched *models.TrainerScheduleSlot
	for i := range daySlots {
		start, err := timeslot.ParseTimeOfDay(daySlots[i].StartTime)
		if err != nil {
			continue
		}
		if start == tod {
			matched = &daySlots[i]
			break
		}
	}
	if matched == nil {
		return nil, apperrors.Conflict(apperrors.CodeTimeNotAvailable,
			"trainer does not work at "+tod.HHMM()).
			WithDetails(map[string]interface{}{"available_times": availableRanges(daySlots)})
	}

	if forBooking {
		// Re-read the slot under lock so concurrent bookings of the same
		// (trainer, day, time) serialize here.
		var locked models.TrainerScheduleSlot
		if err := lockForUpdate(tx).First(&locked, matched.ID).Error; err != nil {
			return nil, apperrors.Infrastructure(err)
		}
		matched = &locked
	}

	var taken int64
	err := tx.Model(&models.PersonalBooking{}).
		Where("trainer_id = ? AND booking_date = ? AND booking_time = ?", trainerID, date, tod.Normalize()).
		Where("status IN ?", []string{models.BookingPending, models.BookingConfirmed}).
		Count(&taken).Error
	if err != nil {
		return nil, apperrors.Infrastructure(err)
	}
	if taken > 0 {
		return nil, apperrors.Conflict(apperrors.CodeSlotTaken, "this time is already booked")
	}

	return matched, nil
}

// AvailableForTime lists trainers with a schedule slot starting at tod on
// the given weekday that is not already booked for the date.
func (s *AvailabilityService) AvailableForTime(date time.Time, tod timeslot.TimeOfDay) ([]models.Trainer, error) {
	day := timeslot.WeekdayOf(date)

	var slots []models.TrainerScheduleSlot
	err := s.db.Where("day_of_week = ? AND start_time = ?", string(day), tod.Normalize()).
		Find(&slots).Error
	if err != nil {
		return nil, apperrors.Infrastructure(err)
	}

	trainers := make([]models.Trainer, 0, len(slots))
	for _, slot := range slots {
		var taken int64
		err := s.db.Model(&models.PersonalBooking{}).
			Where("trainer_id = ? AND booking_date = ? AND booking_time = ?", slot.TrainerID, date, tod.Normalize()).
			Where("status IN ?", []string{models.BookingPending, models.BookingConfirmed}).
			Count(&taken).Error
		if err != nil {
			return nil, apperrors.Infrastructure(err)
		}
		if taken > 0 {
			continue
		}
		var trainer models.Trainer
		if err := s.db.Preload("User").First(&trainer, slot.TrainerID).Error; err == nil {
			trainers = append(trainers, trainer)
		}
	}
	return trainers, nil
}

func availableDays(slots []models.TrainerScheduleSlot) []string {
	seen := make(map[string]bool)
	var days []string
	for _, w := range timeslot.Weekdays {
		for _, slot := range slots {
			if slot.DayOfWeek == string(w) && !seen[slot.DayOfWeek] {
				seen[slot.DayOfWeek] = true
				days = append(days, slot.DayOfWeek)
			}
		}
	}
	return days
}

func availableRanges(slots []models.TrainerScheduleSlot) []string {
	ranges := make([]string, 0, len(slots))
	for _, slot := range slots {
		r, err := timeslot.ParseRange(slot.StartTime, slot.EndTime)
		if err != nil {
			continue
		}
		ranges = append(ranges, r.String())
	}
	return ranges
}
