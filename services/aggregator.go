package services

import (
	"fmt"

	"learnwords/catalog"
	"learnwords/models"
)

// DashboardDTO is the dashboard's view of a user
type DashboardDTO struct {
	Name              string               `json:"name"`
	Email             string               `json:"email"`
	Progress          []models.DayProgress `json:"progress"`
	Streak            int                  `json:"streak"`
	Badges            []string             `json:"badges"`
	TotalWordsLearned int                  `json:"totalWordsLearned"`
}

// ProfileDTO is the profile page's view of a user
type ProfileDTO struct {
	Name              string   `json:"name"`
	Email             string   `json:"email"`
	Streak            int      `json:"streak"`
	Badges            []string `json:"badges"`
	TotalWordsLearned int      `json:"totalWordsLearned"`
	CoursesCompleted  int      `json:"coursesCompleted"`
	ProfilePic        *string  `json:"profilePic"`
}

// TotalWordsLearned counts read-marks across all days. It counts marks, not
// catalog words, so it is unaffected by later catalog edits.
func TotalWordsLearned(progress []models.DayProgress) int {
	total := 0
	for _, p := range progress {
		total += len(p.WordsRead)
	}
	return total
}

// CoursesCompleted counts days flagged completed
func CoursesCompleted(progress []models.DayProgress) int {
	count := 0
	for _, p := range progress {
		if p.Completed {
			count++
		}
	}
	return count
}

func DashboardView(user *models.User) DashboardDTO {
	progress := make([]models.DayProgress, 0, len(user.Progress))
	for _, p := range user.Progress {
		progress = append(progress, nonNilWords(p))
	}
	return DashboardDTO{
		Name:              user.Name,
		Email:             user.Email,
		Progress:          progress,
		Streak:            user.Streak,
		Badges:            badgesOf(user),
		TotalWordsLearned: TotalWordsLearned(user.Progress),
	}
}

func ProfileView(user *models.User) ProfileDTO {
	var pic *string
	if user.ProfilePic != "" {
		p := user.ProfilePic
		pic = &p
	}
	return ProfileDTO{
		Name:              user.Name,
		Email:             user.Email,
		Streak:            user.Streak,
		Badges:            badgesOf(user),
		TotalWordsLearned: TotalWordsLearned(user.Progress),
		CoursesCompleted:  CoursesCompleted(user.Progress),
		ProfilePic:        pic,
	}
}

// CourseListView lists catalog days in ascending numeric order
func CourseListView(c *catalog.Catalog) []catalog.Day {
	return c.Days()
}

// CourseDetailView returns the word list for day. An absent day is
// ErrDayNotFound; a present day with no words is an empty list.
func CourseDetailView(c *catalog.Catalog, day int) ([]catalog.WordEntry, error) {
	words, ok := c.Words(day)
	if !ok {
		return nil, fmt.Errorf("day %d: %w", day, models.ErrDayNotFound)
	}
	return words, nil
}

func badgesOf(user *models.User) []string {
	if user.Badges == nil {
		return []string{}
	}
	return user.Badges
}

func nonNilWords(p models.DayProgress) models.DayProgress {
	if p.WordsRead == nil {
		p.WordsRead = []string{}
	}
	return p
}
