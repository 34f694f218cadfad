package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User defines a learner and the reading progress embedded in their record
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name       string             `bson:"name" json:"name"`
	Email      string             `bson:"email" json:"email"`
	Password   string             `bson:"password" json:"-"`
	Progress   []DayProgress      `bson:"progress" json:"progress"`
	Streak     int                `bson:"streak" json:"streak"`
	Badges     []string           `bson:"badges" json:"badges"`
	ProfilePic string             `bson:"profilePic,omitempty" json:"profilePic,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ProfileUpdate carries the optional fields of a profile edit. Empty values
// mean "leave unchanged".
type ProfileUpdate struct {
	Name       string
	ProfilePic string
}

// IsEmpty reports whether the update would change nothing
func (u ProfileUpdate) IsEmpty() bool {
	return u.Name == "" && u.ProfilePic == ""
}

// Apply copies the non-empty fields onto the user
func (u ProfileUpdate) Apply(user *User) {
	if u.Name != "" {
		user.Name = u.Name
	}
	if u.ProfilePic != "" {
		user.ProfilePic = u.ProfilePic
	}
}

// FindDay returns the progress entry for day, or nil if the user never touched it
func (u *User) FindDay(day int) *DayProgress {
	for i := range u.Progress {
		if u.Progress[i].Day == day {
			return &u.Progress[i]
		}
	}
	return nil
}
