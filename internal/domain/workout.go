package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Prescription is the planned sets/reps/weight/rest for one exercise
// within a workout template. Prescriptions are embedded in the workout
// document so a template is always read atomically with its exercises.
type Prescription struct {
	ExerciseID    primitive.ObjectID `bson:"exerciseId" json:"exerciseId"`
	Order         int                `bson:"order" json:"order"`
	TargetSets    int                `bson:"targetSets" json:"targetSets"`
	TargetRepsMin int                `bson:"targetRepsMin,omitempty" json:"targetRepsMin,omitempty"`
	TargetRepsMax int                `bson:"targetRepsMax,omitempty" json:"targetRepsMax,omitempty"`
	TargetWeight  float64            `bson:"targetWeight,omitempty" json:"targetWeight,omitempty"`
	RestSeconds   int                `bson:"restSeconds" json:"restSeconds"`
	Notes         string             `bson:"notes,omitempty" json:"notes,omitempty"`
}

// Workout is a reusable workout template owned by an identity.
// TotalExercises and EstimatedDurationMinutes are derived from the
// prescription list and are never taken from client input.
type Workout struct {
	ID                       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name                     string             `bson:"name" json:"name"`
	Description              string             `bson:"description,omitempty" json:"description,omitempty"`
	OwnerIdentityID          int64              `bson:"ownerIdentityId" json:"ownerIdentityId"`
	Exercises                []Prescription     `bson:"exercises" json:"exercises"`
	Difficulty               Difficulty         `bson:"difficulty" json:"difficulty"`
	EstimatedDurationMinutes int                `bson:"estimatedDurationMinutes" json:"estimatedDurationMinutes"`
	Tags                     []string           `bson:"tags,omitempty" json:"tags,omitempty"`
	IsTemplate               bool               `bson:"isTemplate" json:"isTemplate"`
	IsPublic                 bool               `bson:"isPublic" json:"isPublic"`
	TotalExercises           int                `bson:"totalExercises" json:"totalExercises"`
	CreatedAt                time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt                time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// VisibleTo reports whether the workout can be read by the given identity.
func (w *Workout) VisibleTo(identityID int64) bool {
	return w.IsPublic || w.OwnerIdentityID == identityID
}

// ClonePrescriptions returns a value copy of the prescription list.
// Mutating the returned slice never affects the original template.
func (w *Workout) ClonePrescriptions() []Prescription {
	copied := make([]Prescription, len(w.Exercises))
	copy(copied, w.Exercises)
	return copied
}

// WorkoutFilter narrows workout listings.
type WorkoutFilter struct {
	Difficulty Difficulty
	Tag        string
	Page       int
	PageSize   int
}
