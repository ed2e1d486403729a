package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExerciseCategory classifies an exercise in the library.
type ExerciseCategory string

const (
	CategoryStrength     ExerciseCategory = "strength"
	CategoryCardio       ExerciseCategory = "cardio"
	CategoryFlexibility  ExerciseCategory = "flexibility"
	CategoryBalance      ExerciseCategory = "balance"
	CategoryPlyometric   ExerciseCategory = "plyometric"
	CategoryOlympic      ExerciseCategory = "olympic"
	CategoryPowerlifting ExerciseCategory = "powerlifting"
)

// Difficulty grades exercises and workout templates.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
	DifficultyExpert       Difficulty = "expert"
)

// MuscleGroup identifies a targeted muscle group.
type MuscleGroup string

const (
	MuscleChest      MuscleGroup = "chest"
	MuscleBack       MuscleGroup = "back"
	MuscleShoulders  MuscleGroup = "shoulders"
	MuscleBiceps     MuscleGroup = "biceps"
	MuscleTriceps    MuscleGroup = "triceps"
	MuscleForearms   MuscleGroup = "forearms"
	MuscleCore       MuscleGroup = "core"
	MuscleQuadriceps MuscleGroup = "quadriceps"
	MuscleHamstrings MuscleGroup = "hamstrings"
	MuscleGlutes     MuscleGroup = "glutes"
	MuscleCalves     MuscleGroup = "calves"
	MuscleFullBody   MuscleGroup = "full_body"
)

// Exercise is a library entry referenced by workout templates and logs.
// Built-in exercises (IsCustom == false) have no owner and are managed
// by administrators. Custom exercises belong to the identity that
// created them and default to private.
type Exercise struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name             string             `bson:"name" json:"name"`
	Description      string             `bson:"description,omitempty" json:"description,omitempty"`
	Category         ExerciseCategory   `bson:"category" json:"category"`
	Difficulty       Difficulty         `bson:"difficulty" json:"difficulty"`
	PrimaryMuscles   []MuscleGroup      `bson:"primaryMuscles,omitempty" json:"primaryMuscles,omitempty"`
	SecondaryMuscles []MuscleGroup      `bson:"secondaryMuscles,omitempty" json:"secondaryMuscles,omitempty"`
	Equipment        []string           `bson:"equipment,omitempty" json:"equipment,omitempty"`
	Instructions     []string           `bson:"instructions,omitempty" json:"instructions,omitempty"`
	VideoURL         string             `bson:"videoUrl,omitempty" json:"videoUrl,omitempty"`
	ImageURL         string             `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	IsCustom         bool               `bson:"isCustom" json:"isCustom"`
	OwnerIdentityID  *int64             `bson:"ownerIdentityId,omitempty" json:"ownerIdentityId,omitempty"`
	IsPublic         bool               `bson:"isPublic" json:"isPublic"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// VisibleTo reports whether the exercise can be read by the given identity.
func (e *Exercise) VisibleTo(identityID int64) bool {
	if !e.IsCustom || e.IsPublic {
		return true
	}
	return e.OwnerIdentityID != nil && *e.OwnerIdentityID == identityID
}

// ExerciseFilter narrows catalog listings.
type ExerciseFilter struct {
	Category   ExerciseCategory
	Difficulty Difficulty
	Muscle     MuscleGroup
	Search     string
	Page       int
	PageSize   int
}
