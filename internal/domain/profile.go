package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FitnessGoal enumerates the supported training goals.
type FitnessGoal string

const (
	GoalStrength    FitnessGoal = "strength"
	GoalCardio      FitnessGoal = "cardio"
	GoalWeightLoss  FitnessGoal = "weight_loss"
	GoalWeightGain  FitnessGoal = "weight_gain"
	GoalEndurance   FitnessGoal = "endurance"
	GoalFlexibility FitnessGoal = "flexibility"
	GoalGeneral     FitnessGoal = "general"
)

// ExperienceLevel describes how seasoned a user is.
type ExperienceLevel string

const (
	ExperienceBeginner     ExperienceLevel = "beginner"
	ExperienceIntermediate ExperienceLevel = "intermediate"
	ExperienceAdvanced     ExperienceLevel = "advanced"
	ExperienceExpert       ExperienceLevel = "expert"
)

// Profile holds the flexible-schema fitness attributes for an identity.
// It lives in the document store and is keyed by IdentityID (unique).
// The link is a weak reference: deleting the identity does not delete
// the profile.
type Profile struct {
	ID                    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	IdentityID            int64              `bson:"identityId" json:"identityId"`
	Bio                   string             `bson:"bio,omitempty" json:"bio,omitempty"`
	HeightCm              *int               `bson:"heightCm,omitempty" json:"heightCm,omitempty"`
	WeightKg              *float64           `bson:"weightKg,omitempty" json:"weightKg,omitempty"`
	DateOfBirth           *time.Time         `bson:"dateOfBirth,omitempty" json:"dateOfBirth,omitempty"`
	FitnessGoal           FitnessGoal        `bson:"fitnessGoal" json:"fitnessGoal"`
	ExperienceLevel       ExperienceLevel    `bson:"experienceLevel" json:"experienceLevel"`
	PreferredWorkoutTypes []string           `bson:"preferredWorkoutTypes,omitempty" json:"preferredWorkoutTypes,omitempty"`
	CreatedAt             time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt             time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ProfilePatch carries the mutable profile fields for a partial update.
// Nil pointers mean "leave unchanged".
type ProfilePatch struct {
	Bio                   *string
	HeightCm              *int
	WeightKg              *float64
	DateOfBirth           *time.Time
	FitnessGoal           *FitnessGoal
	ExperienceLevel       *ExperienceLevel
	PreferredWorkoutTypes []string
}

// IsEmpty reports whether the patch would change nothing.
func (p ProfilePatch) IsEmpty() bool {
	return p.Bio == nil && p.HeightCm == nil && p.WeightKg == nil &&
		p.DateOfBirth == nil && p.FitnessGoal == nil &&
		p.ExperienceLevel == nil && p.PreferredWorkoutTypes == nil
}
