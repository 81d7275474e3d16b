package store

import "ecolife-backend/internal/models"

// DefaultSeed returns a fresh copy of the dataset the process-local collections start
// with. Nothing is shared between calls.
func DefaultSeed() models.ProductivityRecord {
	return models.ProductivityRecord{
		Goals: []models.Goal{
			{ID: "1", Title: "Reduce plastic usage by 50%", Progress: 65, TargetDate: "2025-12-31", Category: "Sustainability"},
			{ID: "2", Title: "Meditate daily for 30 days", Progress: 23, TargetDate: "2025-12-15", Category: "Wellness"},
		},
		Tasks: []models.Task{
			{ID: "1", Title: "Buy reusable shopping bags", Completed: false, Priority: models.PriorityHigh, Category: "Shopping"},
			{ID: "2", Title: "Research solar panel options", Completed: false, Priority: models.PriorityMedium, Category: "Home"},
			{ID: "3", Title: "Start composting bin", Completed: true, Priority: models.PriorityHigh, Category: "Waste"},
		},
		Habits: []models.Habit{
			{ID: "1", Name: "Morning Meditation", Description: "10 minutes daily", Streak: 7},
			{ID: "2", Name: "Zero Waste Shopping", Description: "Use reusable bags", Streak: 14},
			{ID: "3", Name: "Bike to Work", Description: "Reduce carbon footprint", Streak: 5},
		},
	}
}
