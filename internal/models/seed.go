package models

import (
	"time"

	"github.com/gofrs/uuid"
)

// SeedTasks returns a small demo collection spanning every category and the
// interesting due-date cases (overdue, today, tomorrow, upcoming), relative
// to now. Used by the dev server and the CLI demo mode.
func SeedTasks(userID uuid.UUID, now time.Time) []Task {
	yesterday := now.AddDate(0, 0, -1)
	tomorrow := now.AddDate(0, 0, 1)
	inThreeDays := now.AddDate(0, 0, 3)
	nextWeek := now.AddDate(0, 0, 7)
	twoDaysAgo := now.AddDate(0, 0, -2)

	return []Task{
		{
			ID:               uuid.Must(uuid.NewV4()),
			UserID:           userID,
			Title:            "Draft project proposal",
			Description:      "Write the proposal for the new web application project.",
			Category:         CategoryWork,
			Status:           StatusInProgress,
			DueDate:          now,
			EstimatedMinutes: 120,
			Difficulty:       3,
			CreatedAt:        yesterday,
			UpdatedAt:        now,
		},
		{
			ID:               uuid.Must(uuid.NewV4()),
			UserID:           userID,
			Title:            "Watch React course",
			Description:      "Finish the online lectures on advanced React patterns.",
			Category:         CategoryStudy,
			Status:           StatusPending,
			DueDate:          tomorrow,
			EstimatedMinutes: 90,
			Difficulty:       2,
			CreatedAt:        yesterday,
			UpdatedAt:        now,
		},
		{
			ID:               uuid.Must(uuid.NewV4()),
			UserID:           userID,
			Title:            "Gym session",
			Description:      "Weight training, three times a week.",
			Category:         CategoryExercise,
			Status:           StatusCompleted,
			DueDate:          yesterday,
			EstimatedMinutes: 60,
			Difficulty:       2,
			CreatedAt:        twoDaysAgo,
			UpdatedAt:        yesterday,
		},
		{
			ID:               uuid.Must(uuid.NewV4()),
			UserID:           userID,
			Title:            "Read: Clean Code",
			Description:      "Read and summarize Robert Martin's Clean Code.",
			Category:         CategoryHobby,
			Status:           StatusPending,
			DueDate:          nextWeek,
			EstimatedMinutes: 180,
			Difficulty:       3,
			CreatedAt:        yesterday,
			UpdatedAt:        now,
		},
		{
			ID:               uuid.Must(uuid.NewV4()),
			UserID:           userID,
			Title:            "Book doctor appointment",
			Description:      "Schedule the annual health checkup.",
			Category:         CategoryOther,
			Status:           StatusPending,
			DueDate:          inThreeDays,
			EstimatedMinutes: 30,
			Difficulty:       1,
			CreatedAt:        now,
			UpdatedAt:        now,
		},
	}
}
