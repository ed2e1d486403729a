package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExerciseLog records one performed set inside a workout session.
// At least one performance metric (reps, weight, duration, distance)
// must be present; a log without any metric is rejected.
type ExerciseLog struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SessionID         primitive.ObjectID `bson:"sessionId" json:"sessionId"`
	ExerciseID        primitive.ObjectID `bson:"exerciseId" json:"exerciseId"`
	OwnerIdentityID   int64              `bson:"ownerIdentityId" json:"ownerIdentityId"`
	SetNumber         int                `bson:"setNumber" json:"setNumber"`
	Reps              *int               `bson:"reps,omitempty" json:"reps,omitempty"`
	WeightKg          *float64           `bson:"weightKg,omitempty" json:"weightKg,omitempty"`
	DurationSeconds   *int               `bson:"durationSeconds,omitempty" json:"durationSeconds,omitempty"`
	DistanceKm        *float64           `bson:"distanceKm,omitempty" json:"distanceKm,omitempty"`
	Notes             string             `bson:"notes,omitempty" json:"notes,omitempty"`
	PerceivedExertion *int               `bson:"perceivedExertion,omitempty" json:"perceivedExertion,omitempty"`
	CompletedAt       time.Time          `bson:"completedAt" json:"completedAt"`
}

// HasMetric reports whether any performance metric is present.
func (l *ExerciseLog) HasMetric() bool {
	return l.Reps != nil || l.WeightKg != nil || l.DurationSeconds != nil || l.DistanceKm != nil
}

// Volume is this log's contribution to the session total. A missing
// reps or weight counts as zero.
func (l *ExerciseLog) Volume() float64 {
	if l.Reps == nil || l.WeightKg == nil {
		return 0
	}
	return float64(*l.Reps) * *l.WeightKg
}

// LogFilter narrows exercise log listings.
type LogFilter struct {
	SessionID  *primitive.ObjectID
	ExerciseID *primitive.ObjectID
	Page       int
	PageSize   int
}
