package services

import (
	"fitclub_go/apperrors"
	"fitclub_go/models"
	"fitclub_go/timeslot"

	"gorm.io/gorm"
)

// GroupSessionService manages the group class catalog. Trainer assignment
// runs through the schedule conflict validator.
type GroupSessionService struct {
	db        *gorm.DB
	schedules *ScheduleService
}

func NewGroupSessionService(db *gorm.DB, schedules *ScheduleService) *GroupSessionService {
	return &GroupSessionService{db: db, schedules: schedules}
}

// GroupSessionInput carries a create or update request.
type GroupSessionInput struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Days            []string `json:"days"`
	Time            string   `json:"time"` // HH:MM or HH:MM:SS
	Duration        int      `json:"duration"`
	MaxParticipants int      `json:"max_participants"`
	TrainerID       *uint    `json:"trainer_id"`
}

func (s *GroupSessionService) validate(in GroupSessionInput, excludeID *uint) ([]timeslot.Weekday, timeslot.TimeOfDay, error) {
	var zero timeslot.TimeOfDay
	if in.Name == "" {
		return nil, zero, apperrors.Validation("missing_name", "session name is required")
	}
	if len(in.Days) == 0 {
		return nil, zero, apperrors.Validation("missing_days", "at least one day is required")
	}
	days := make([]timeslot.Weekday, 0, len(in.Days))
	for _, d := range in.Days {
		day, ok := timeslot.ParseWeekday(d)
		if !ok {
			return nil, zero, apperrors.Validation("invalid_day", "unknown day "+d)
		}
		days = append(days, day)
	}
	start, err := timeslot.ParseTimeOfDay(in.Time)
	if err != nil {
		return nil, zero, apperrors.Validation("invalid_time", "bad session time "+in.Time)
	}
	if in.Duration <= 0 {
		return nil, zero, apperrors.Validation("invalid_duration", "duration must be positive")
	}
	if in.MaxParticipants <= 0 {
		return nil, zero, apperrors.Validation("invalid_capacity", "max participants must be positive")
	}

	if in.TrainerID != nil {
		var trainer models.Trainer
		if err := s.db.First(&trainer, *in.TrainerID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, zero, apperrors.NotFound(apperrors.CodeTrainerNotFound, "trainer not found")
			}
			return nil, zero, apperrors.Infrastructure(err)
		}
		if err := s.schedules.ValidateGroupAssignment(*in.TrainerID, days, start, in.Duration, excludeID); err != nil {
			return nil, zero, err
		}
	}
	return days, start, nil
}

// Create adds a group session after conflict validation.
func (s *GroupSessionService) Create(in GroupSessionInput) (*models.GroupSession, error) {
	days, start, err := s.validate(in, nil)
	if err != nil {
		return nil, err
	}
	session := &models.GroupSession{
		Name:            in.Name,
		Description:     in.Description,
		Days:            timeslot.JoinDaySet(days),
		Time:            start.Normalize(),
		Duration:        in.Duration,
		MaxParticipants: in.MaxParticipants,
		TrainerID:       in.TrainerID,
	}
	if err := s.db.Create(session).Error; err != nil {
		return nil, apperrors.Infrastructure(err)
	}
	return session, nil
}

// Update rewrites a session's definition, revalidating the trainer's
// schedule against the new days and time.
func (s *GroupSessionService) Update(id uint, in GroupSessionInput) (*models.GroupSession, error) {
	var session models.GroupSession
	if err := s.db.First(&session, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound(apperrors.CodeSessionNotFound, "group session not found")
		}
		return nil, apperrors.Infrastructure(err)
	}

	days, start, err := s.validate(in, &id)
	if err != nil {
		return nil, err
	}

	session.Name = in.Name
	session.Description = in.Description
	session.Days = timeslot.JoinDaySet(days)
	session.Time = start.Normalize()
	session.Duration = in.Duration
	session.MaxParticipants = in.MaxParticipants
	session.TrainerID = in.TrainerID
	if err := s.db.Save(&session).Error; err != nil {
		return nil, apperrors.Infrastructure(err)
	}
	return &session, nil
}

// Delete removes a session. Sessions with live seats are kept; clients
// cancel first.
func (s *GroupSessionService) Delete(id uint) error {
	var seats int64
	err := s.db.Model(&models.GroupBooking{}).
		Where("session_id = ? AND status <> ?", id, models.BookingCancelled).
		Count(&seats).Error
	if err != nil {
		return apperrors.Infrastructure(err)
	}
	if seats > 0 {
		return apperrors.Conflict(apperrors.CodeHasUpcomingBookings,
			"session has active bookings, cancel them first")
	}
	res := s.db.Delete(&models.GroupSession{}, id)
	if res.Error != nil {
		return apperrors.Infrastructure(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound(apperrors.CodeSessionNotFound, "group session not found")
	}
	return nil
}

// List returns all sessions with trainers preloaded, times as HH:MM.
func (s *GroupSessionService) List() ([]models.GroupSession, error) {
	var sessions []models.GroupSession
	err := s.db.Preload("Trainer").Preload("Trainer.User").
		Order("name").Find(&sessions).Error
	if err != nil {
		return nil, apperrors.Infrastructure(err)
	}
	for i := range sessions {
		sessions[i].Time = timeslot.DisplayHHMM(sessions[i].Time)
	}
	return sessions, nil
}

// Get returns one session by id, time as HH:MM.
func (s *GroupSessionService) Get(id uint) (*models.GroupSession, error) {
	var session models.GroupSession
	err := s.db.Preload("Trainer").Preload("Trainer.User").First(&session, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound(apperrors.CodeSessionNotFound, "group session not found")
		}
		return nil, apperrors.Infrastructure(err)
	}
	session.Time = timeslot.DisplayHHMM(session.Time)
	return &session, nil
}
