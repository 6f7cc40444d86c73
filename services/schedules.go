package services

import (
	"fmt"

	"fitclub_go/apperrors"
	"fitclub_go/models"
	"fitclub_go/timeslot"

	"gorm.io/gorm"
)

// Personal-training slots are fixed-length.
const slotMinutes = 60

// ScheduleService owns the trainer weekly schedule and the cross-schedule
// conflict rules between personal slots and group sessions.
type ScheduleService struct {
	db *gorm.DB
}

func NewScheduleService(db *gorm.DB) *ScheduleService {
	return &ScheduleService{db: db}
}

// SlotInput is one requested slot. The replace path always derives a
// one-hour end; single-slot updates may override it with EndTime.
type SlotInput struct {
	DayOfWeek string `json:"day_of_week"`
	StartTime string `json:"start_time"`         // HH:MM or HH:MM:SS
	EndTime   string `json:"end_time,omitempty"` // optional, update only
}

// ReplaceTrainerSchedule swaps the trainer's whole weekly schedule for the
// given slot set in one transaction: validate, delete everything, bulk
// insert. Duplicates on (day, start) are collapsed; overlapping slots on
// the same day reject the whole request. Returns the number of slots
// written.
func (s *ScheduleService) ReplaceTrainerSchedule(trainerID uint, inputs []SlotInput, adminID *uint) (int, error) {
	if len(inputs) == 0 {
		return 0, apperrors.Validation(apperrors.CodeEmptySchedule, "schedule must contain at least one slot")
	}

	var trainer models.Trainer
	if err := s.db.First(&trainer, trainerID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, apperrors.NotFound(apperrors.CodeTrainerNotFound, "trainer not found")
		}
		return 0, apperrors.Infrastructure(err)
	}

	type normSlot struct {
		day   timeslot.Weekday
		start timeslot.TimeOfDay
	}
	seen := make(map[normSlot]bool)
	var slots []models.TrainerScheduleSlot
	byDay := make(map[timeslot.Weekday][]timeslot.Range)

	for i, in := range inputs {
		day, ok := timeslot.ParseWeekday(in.DayOfWeek)
		if !ok {
			return 0, apperrors.Validation("invalid_day",
				fmt.Sprintf("slot %d: unknown day %q", i+1, in.DayOfWeek))
		}
		start, err := timeslot.ParseTimeOfDay(in.StartTime)
		if err != nil {
			return 0, apperrors.Validation("invalid_time",
				fmt.Sprintf("slot %d: bad start time %q", i+1, in.StartTime))
		}
		key := normSlot{day, start}
		if seen[key] {
			continue
		}
		seen[key] = true

		r := timeslot.RangeFrom(start, slotMinutes)
		for _, other := range byDay[day] {
			if r.Overlaps(other) {
				return 0, apperrors.Conflict(apperrors.CodeScheduleOverlap,
					fmt.Sprintf("slots overlap on %s around %s", day, start.HHMM()))
			}
		}
		byDay[day] = append(byDay[day], r)

		slots = append(slots, models.TrainerScheduleSlot{
			TrainerID: trainerID,
			DayOfWeek: string(day),
			StartTime: start.Normalize(),
			EndTime:   r.End.Normalize(),
			SlotType:  "personal",
			MaxSlots:  1,
			CreatedBy: adminID,
		})
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("trainer_id = ?", trainerID).
			Delete(&models.TrainerScheduleSlot{}).Error; err != nil {
			return apperrors.Infrastructure(err)
		}
		if err := tx.Create(&slots).Error; err != nil {
			return apperrors.Infrastructure(err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(slots), nil
}

// TrainerSchedule returns a trainer's slots ordered for display, times
// rendered as HH:MM.
func (s *ScheduleService) TrainerSchedule(trainerID uint) ([]models.TrainerScheduleSlot, error) {
	var slots []models.TrainerScheduleSlot
	err := s.db.Where("trainer_id = ?", trainerID).
		Order("day_of_week, start_time").
		Find(&slots).Error
	if err != nil {
		return nil, apperrors.Infrastructure(err)
	}
	for i := range slots {
		slots[i].StartTime = timeslot.DisplayHHMM(slots[i].StartTime)
		slots[i].EndTime = timeslot.DisplayHHMM(slots[i].EndTime)
	}
	return slots, nil
}

// UpdateSlot moves a single slot to a new day/time, rejecting overlaps with
// the trainer's other slots.
func (s *ScheduleService) UpdateSlot(slotID uint, in SlotInput) (*models.TrainerScheduleSlot, error) {
	var slot models.TrainerScheduleSlot
	if err := s.db.First(&slot, slotID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("slot_not_found", "schedule slot not found")
		}
		return nil, apperrors.Infrastructure(err)
	}

	day, ok := timeslot.ParseWeekday(in.DayOfWeek)
	if !ok {
		return nil, apperrors.Validation("invalid_day", "unknown day "+in.DayOfWeek)
	}
	start, err := timeslot.ParseTimeOfDay(in.StartTime)
	if err != nil {
		return nil, apperrors.Validation("invalid_time", "bad start time "+in.StartTime)
	}
	r := timeslot.RangeFrom(start, slotMinutes)
	if in.EndTime != "" {
		end, err := timeslot.ParseTimeOfDay(in.EndTime)
		if err != nil {
			return nil, apperrors.Validation("invalid_time", "bad end time "+in.EndTime)
		}
		if end.Minutes() <= start.Minutes() {
			return nil, apperrors.Validation("invalid_time", "end time must be after start time")
		}
		r.End = end
	}

	var siblings []models.TrainerScheduleSlot
	err = s.db.Where("trainer_id = ? AND day_of_week = ? AND id <> ?", slot.TrainerID, string(day), slotID).
		Find(&siblings).Error
	if err != nil {
		return nil, apperrors.Infrastructure(err)
	}
	for _, sib := range siblings {
		other, err := timeslot.ParseRange(sib.StartTime, sib.EndTime)
		if err != nil {
			continue
		}
		if r.Overlaps(other) {
			return nil, apperrors.Conflict(apperrors.CodeScheduleOverlap,
				"slot overlaps an existing slot on "+string(day))
		}
	}

	slot.DayOfWeek = string(day)
	slot.StartTime = start.Normalize()
	slot.EndTime = r.End.Normalize()
	if err := s.db.Save(&slot).Error; err != nil {
		return nil, apperrors.Infrastructure(err)
	}
	return &slot, nil
}

// DeleteSlot removes one slot from a trainer's schedule.
func (s *ScheduleService) DeleteSlot(slotID uint) error {
	res := s.db.Unscoped().Delete(&models.TrainerScheduleSlot{}, slotID)
	if res.Error != nil {
		return apperrors.Infrastructure(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("slot_not_found", "schedule slot not found")
	}
	return nil
}

// ValidateGroupAssignment rejects assigning a trainer to a group session
// whose weekly occurrences would overlap either the trainer's personal
// schedule or another group session they already lead. excludeSessionID
// skips the session being edited.
func (s *ScheduleService) ValidateGroupAssignment(trainerID uint, days []timeslot.Weekday, start timeslot.TimeOfDay, durationMinutes int, excludeSessionID *uint) error {
	r := timeslot.RangeFrom(start, durationMinutes)

	var personal []models.TrainerScheduleSlot
	if err := s.db.Where("trainer_id = ?", trainerID).Find(&personal).Error; err != nil {
		return apperrors.Infrastructure(err)
	}

	q := s.db.Where("trainer_id = ?", trainerID)
	if excludeSessionID != nil {
		q = q.Where("id <> ?", *excludeSessionID)
	}
	var sessions []models.GroupSession
	if err := q.Find(&sessions).Error; err != nil {
		return apperrors.Infrastructure(err)
	}

	for _, day := range days {
		for _, slot := range personal {
			if timeslot.Weekday(slot.DayOfWeek) != day {
				continue
			}
			other, err := timeslot.ParseRange(slot.StartTime, slot.EndTime)
			if err != nil {
				continue
			}
			if r.Overlaps(other) {
				return apperrors.Conflict(apperrors.CodeScheduleOverlap,
					fmt.Sprintf("trainer has a personal slot on %s at %s", day, other.String())).
					WithDetails(map[string]interface{}{"day": string(day), "conflict": "personal"})
			}
		}
		for _, sess := range sessions {
			sessStart, err := timeslot.ParseTimeOfDay(sess.Time)
			if err != nil {
				continue
			}
			sessRange := timeslot.RangeFrom(sessStart, sess.Duration)
			for _, sessDay := range timeslot.ParseDaySet(sess.Days) {
				if sessDay != day {
					continue
				}
				if r.Overlaps(sessRange) {
					return apperrors.Conflict(apperrors.CodeScheduleOverlap,
						fmt.Sprintf("trainer already leads %q on %s at %s", sess.Name, day, sessRange.String())).
						WithDetails(map[string]interface{}{"day": string(day), "conflict": "group", "session_id": sess.ID})
				}
			}
		}
	}
	return nil
}
