package domain

type WeeklyStats struct {
	StartDate       string      `json:"start_date"`
	EndDate         string      `json:"end_date"`
	Timezone        string      `json:"timezone"`
	DaysElapsed     int         `json:"days_elapsed"`
	TotalHabits     int         `json:"total_habits"`
	CompletionCount int         `json:"completion_count"`
	// OverallRate can exceed 100 when a habit is completed more than once in
	// a day. Uncapped on purpose; clamping is a presentation choice.
	OverallRate float64     `json:"overall_completion_rate"`
	HabitStats  []HabitStat `json:"habits"`
}

type HabitStat struct {
	HabitID        string  `json:"habit_id"`
	HabitTitle     string  `json:"habit_title"`
	Color          string  `json:"color"`
	Icon           string  `json:"icon"`
	TargetValue    int     `json:"target_value"`
	Unit           string  `json:"unit"`
	TotalValue     int     `json:"total_value"`
	CompletionRate float64 `json:"completion_rate"`
	DaysCompleted  int     `json:"days_completed"`
	DailyProgress  []int   `json:"daily_progress"`
}

type StreakReport struct {
	HabitID       string `json:"habit_id"`
	CurrentStreak int    `json:"current_streak"`
	LongestStreak int    `json:"longest_streak"`
}
