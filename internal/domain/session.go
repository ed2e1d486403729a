package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionStatus is the lifecycle state of a workout session.
type SessionStatus string

const (
	SessionPlanned    SessionStatus = "planned"
	SessionInProgress SessionStatus = "in_progress"
	SessionCompleted  SessionStatus = "completed"
	SessionCancelled  SessionStatus = "cancelled"
)

// IsTerminal reports whether no further transitions are allowed.
func (s SessionStatus) IsTerminal() bool {
	return s == SessionCompleted || s == SessionCancelled
}

// WorkoutSession is one performed (or planned) instance of a workout.
// WorkoutID is a weak reference: the template may be deleted while the
// session survives.
type WorkoutSession struct {
	ID                    primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	OwnerIdentityID       int64               `bson:"ownerIdentityId" json:"ownerIdentityId"`
	WorkoutID             *primitive.ObjectID `bson:"workoutId,omitempty" json:"workoutId,omitempty"`
	Status                SessionStatus       `bson:"status" json:"status"`
	StartTime             *time.Time          `bson:"startTime,omitempty" json:"startTime,omitempty"`
	EndTime               *time.Time          `bson:"endTime,omitempty" json:"endTime,omitempty"`
	ActualDurationMinutes *int                `bson:"actualDurationMinutes,omitempty" json:"actualDurationMinutes,omitempty"`
	Rating                *int                `bson:"rating,omitempty" json:"rating,omitempty"`
	CaloriesBurned        *int                `bson:"caloriesBurned,omitempty" json:"caloriesBurned,omitempty"`
	TotalVolume           float64             `bson:"totalVolume" json:"totalVolume"`
	Notes                 string              `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt             time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt             time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// Date picks the timestamp list views sort and display by. The
// preference order end time, start time, creation time is part of the
// contract and must not change.
func (s *WorkoutSession) Date() time.Time {
	if s.EndTime != nil {
		return *s.EndTime
	}
	if s.StartTime != nil {
		return *s.StartTime
	}
	return s.CreatedAt
}

// SessionChange is the field set applied by a lifecycle transition.
// Nil pointers leave the stored value untouched.
type SessionChange struct {
	Status                SessionStatus
	StartTime             *time.Time
	EndTime               *time.Time
	ActualDurationMinutes *int
	TotalVolume           *float64
	Rating                *int
	CaloriesBurned        *int
	Notes                 *string
}

// SessionFilter narrows session listings.
type SessionFilter struct {
	Status   SessionStatus
	DateFrom *time.Time
	DateTo   *time.Time
	Page     int
	PageSize int
}
