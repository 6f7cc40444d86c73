package models

import (
	"database/sql/driver"
	"time"

	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// JSON field type for GORM
type JSON []byte

func (j JSON) Value() (driver.Value, error) {
	if j.IsNull() {
		return nil, nil
	}
	return string(j), nil
}

func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	s, ok := value.([]byte)
	if !ok {
		return nil
	}
	*j = append((*j)[0:0], s...)
	return nil
}

func (j JSON) MarshalJSON() ([]byte, error) {
	if j == nil {
		return []byte("null"), nil
	}
	return j, nil
}

func (j *JSON) UnmarshalJSON(data []byte) error {
	if j == nil {
		return nil
	}
	*j = append((*j)[0:0], data...)
	return nil
}

func (j JSON) IsNull() bool {
	return len(j) == 0 || string(j) == "null"
}

// User roles
const (
	RoleClient  = "client"
	RoleTrainer = "trainer"
	RoleAdmin   = "admin"
)

// User model
type User struct {
	BaseModel
	Name     string `json:"name" gorm:"size:255;not null"`
	Email    string `json:"email" gorm:"size:255;not null;uniqueIndex"`
	Password string `json:"-" gorm:"size:255;not null"`
	Phone    string `json:"phone" gorm:"size:20"`
	Role     string `json:"role" gorm:"size:50;not null;default:'client'"` // client, trainer, admin

	// Relationships
	Trainer *Trainer `json:"trainer,omitempty" gorm:"foreignKey:UserID"`
}

// Trainer model, 1:1 with a User with role=trainer.
// Rating is a denormalized average recomputed from reviews.
type Trainer struct {
	BaseModel
	UserID         uint    `json:"user_id" gorm:"uniqueIndex;not null"`
	Experience     string  `json:"experience" gorm:"size:100"`
	Specialization string  `json:"specialization" gorm:"size:255"`
	Bio            string  `json:"bio" gorm:"type:text"`
	Rating         float64 `json:"rating" gorm:"type:decimal(2,1);default:0"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// TrainerScheduleSlot is one fixed recurring slot on a trainer's weekly
// personal-training schedule. Slots for the same trainer must not overlap
// on the same day.
type TrainerScheduleSlot struct {
	BaseModel
	TrainerID uint   `json:"trainer_id" gorm:"not null;index:idx_schedule_trainer_day,priority:1"`
	DayOfWeek string `json:"day_of_week" gorm:"size:20;not null;index:idx_schedule_trainer_day,priority:2"` // monday..sunday
	StartTime string `json:"start_time" gorm:"size:8;not null"` // HH:MM:SS
	EndTime   string `json:"end_time" gorm:"size:8;not null"`   // HH:MM:SS
	SlotType  string `json:"slot_type" gorm:"size:50;not null;default:'personal'"`
	MaxSlots  int    `json:"max_slots" gorm:"not null;default:1"`
	CreatedBy *uint  `json:"created_by" gorm:"default:null"`

	// Relationships
	Trainer Trainer `json:"trainer,omitempty" gorm:"foreignKey:TrainerID"`
}

func (TrainerScheduleSlot) TableName() string { return "trainer_schedule" }

// Payment methods for personal bookings
const (
	PaymentQRCode       = "qr_code"
	PaymentCash         = "cash"
	PaymentSubscription = "subscription"
)

// Booking statuses (personal and group)
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
	BookingCompleted = "completed"
)

// PersonalBooking is one client's reservation of a trainer (or of gym
// self-use when TrainerID is nil) at a specific date+time. At most one
// non-cancelled booking may exist per (trainer, date, time). Rows are
// never deleted; cancellation is a status change.
type PersonalBooking struct {
	BaseModel
	Code           string    `json:"code" gorm:"size:36;not null;uniqueIndex"`
	UserID         uint      `json:"user_id" gorm:"not null;index"`
	TrainerID      *uint     `json:"trainer_id" gorm:"default:null;index:idx_personal_slot,priority:1"`
	BookingDate    time.Time `json:"booking_date" gorm:"type:date;not null;index:idx_personal_slot,priority:2"`
	BookingTime    string    `json:"booking_time" gorm:"size:8;not null;index:idx_personal_slot,priority:3"` // HH:MM:SS
	PaymentMethod  string    `json:"payment_method" gorm:"size:50;not null;default:'qr_code'"` // qr_code, cash, subscription
	SubscriptionID *uint     `json:"subscription_id" gorm:"default:null"`
	InventoryID    *uint     `json:"inventory_id" gorm:"default:null"`
	Notes          string    `json:"notes" gorm:"type:text"`
	Status         string    `json:"status" gorm:"size:50;not null;default:'confirmed'"` // pending, confirmed, cancelled, completed

	// Relationships
	User         User              `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Trainer      *Trainer          `json:"trainer,omitempty" gorm:"foreignKey:TrainerID"`
	Subscription *UserSubscription `json:"subscription,omitempty" gorm:"foreignKey:SubscriptionID"`
	Inventory    *InventoryItem    `json:"inventory,omitempty" gorm:"foreignKey:InventoryID"`
}

// GroupSession is a recurring class definition. CurrentParticipants is a
// maintained counter equal to the number of non-cancelled group bookings;
// it is mutated only by the booking transaction manager.
type GroupSession struct {
	BaseModel
	Name                string `json:"name" gorm:"size:255;not null"`
	Description         string `json:"description" gorm:"type:text"`
	Days                string `json:"days" gorm:"size:255;not null"`       // comma-separated weekdays
	Time                string `json:"time" gorm:"size:8;not null"`         // HH:MM:SS
	Duration            int    `json:"duration" gorm:"not null;default:60"` // minutes
	MaxParticipants     int    `json:"max_participants" gorm:"not null;default:10"`
	CurrentParticipants int    `json:"current_participants" gorm:"not null;default:0"`
	TrainerID           *uint  `json:"trainer_id" gorm:"default:null;index"`

	// Relationships
	Trainer *Trainer `json:"trainer,omitempty" gorm:"foreignKey:TrainerID"`
}

// GroupBooking is a client's place in a group session, distinct from
// PersonalBooking. At most one non-cancelled booking per (user, session).
type GroupBooking struct {
	BaseModel
	Code           string    `json:"code" gorm:"size:36;not null;uniqueIndex"`
	UserID         uint      `json:"user_id" gorm:"not null;index:idx_group_user_session,priority:1"`
	SessionID      uint      `json:"session_id" gorm:"not null;index:idx_group_user_session,priority:2"`
	SubscriptionID *uint     `json:"subscription_id" gorm:"default:null"`
	BookingDate    time.Time `json:"booking_date" gorm:"not null"`
	Status         string    `json:"status" gorm:"size:50;not null;default:'confirmed'"` // confirmed, cancelled

	// Relationships
	User         User              `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Session      GroupSession      `json:"session,omitempty" gorm:"foreignKey:SessionID"`
	Subscription *UserSubscription `json:"subscription,omitempty" gorm:"foreignKey:SubscriptionID"`
}

func (GroupBooking) TableName() string { return "bookings" }

// Subscription categories
const (
	CategoryGroup = "group"
	CategoryGym   = "gym"
	CategoryCombo = "combo"
)

// SubscriptionType is a catalog entry clients purchase from.
type SubscriptionType struct {
	BaseModel
	Name         string  `json:"name" gorm:"size:255;not null"`
	Category     string  `json:"category" gorm:"size:50;not null"` // group, gym, combo
	Description  string  `json:"description" gorm:"type:text"`
	Price        float64 `json:"price" gorm:"type:decimal(10,2);not null"`
	VisitsCount  int     `json:"visits_count" gorm:"not null"`
	DurationDays int     `json:"duration_days" gorm:"not null"`
}

// Subscription statuses
const (
	SubscriptionActive  = "active"
	SubscriptionExpired = "expired"
)

// UserSubscription is the entitlement ledger row. "Active" always means
// status=active AND expires_at in the future, evaluated at query time;
// status is flipped to expired only by a conflicting purchase, never by a
// background sweep.
type UserSubscription struct {
	BaseModel
	UserID             uint      `json:"user_id" gorm:"not null;index"`
	SubscriptionTypeID uint      `json:"subscription_type_id" gorm:"not null"`
	PurchaseDate       time.Time `json:"purchase_date" gorm:"not null"`
	ExpiresAt          time.Time `json:"expires_at" gorm:"not null"`
	Status             string    `json:"status" gorm:"size:50;not null;default:'active'"` // active, expired
	RemainingVisits    int       `json:"remaining_visits" gorm:"not null"`

	// Relationships
	User             User             `json:"user,omitempty" gorm:"foreignKey:UserID"`
	SubscriptionType SubscriptionType `json:"subscription_type,omitempty" gorm:"foreignKey:SubscriptionTypeID"`
}

// InventoryItem is equipment a personal booking may reserve.
type InventoryItem struct {
	BaseModel
	Name string `json:"name" gorm:"size:255;not null"`
}

func (InventoryItem) TableName() string { return "inventory" }

// Review of a trainer by a client, one per (user, trainer) pair. Creating,
// updating or deleting a review recomputes Trainer.Rating.
type Review struct {
	BaseModel
	UserID    uint   `json:"user_id" gorm:"not null;index:idx_review_user_trainer,priority:1"`
	TrainerID uint   `json:"trainer_id" gorm:"not null;index:idx_review_user_trainer,priority:2"`
	Rating    int    `json:"rating" gorm:"not null"`
	Comment   string `json:"comment" gorm:"type:text"`

	// Relationships
	User    User    `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Trainer Trainer `json:"trainer,omitempty" gorm:"foreignKey:TrainerID"`
}

// ActivityLog records admin/client actions for auditing.
type ActivityLog struct {
	BaseModel
	UserID     uint   `json:"user_id"`
	Action     string `json:"action" gorm:"size:100;not null"`
	Resource   string `json:"resource" gorm:"size:100;not null"`
	ResourceID uint   `json:"resource_id"`
	Details    JSON   `json:"details" gorm:"type:json"`
	IPAddress  string `json:"ip_address" gorm:"size:45"`
	UserAgent  string `json:"user_agent" gorm:"size:500"`
}

// Notification is a persisted per-user message created by booking and
// subscription events.
type Notification struct {
	BaseModel
	UserID  uint       `json:"user_id" gorm:"not null;index"`
	Title   string     `json:"title" gorm:"size:255;not null"`
	Message string     `json:"message" gorm:"type:text;not null"`
	Type    string     `json:"type" gorm:"size:50;not null"` // info, warning, error, success
	Read    bool       `json:"read" gorm:"default:false"`
	ReadAt  *time.Time `json:"read_at"`
}
