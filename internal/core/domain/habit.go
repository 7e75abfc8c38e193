package domain

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrHabitTitleEmpty    = errors.New("habit title cannot be empty")
	ErrHabitTitleTooLong  = errors.New("habit title is too long (max 100 chars)")
	ErrHabitDescTooLong   = errors.New("habit description is too long (max 500 chars)")
	ErrHabitInvalidUserID = errors.New("invalid user id")
	ErrInvalidColor       = errors.New("invalid color format (must be #RRGGBB)")
	ErrInvalidTarget      = errors.New("target must be at least 1")
	ErrHabitArchived      = errors.New("cannot update an archived habit")
)

var colorRegex = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)

const (
	DefaultIcon = "default_icon"
	MaxTitleLen = 100
	MaxDescLen  = 500
)

// Habit is one daily trackable. CurrentStreak and LongestStreak are derived
// values maintained by the streak worker, never edited by hand.
type Habit struct {
	ID            string     `json:"id" db:"id"`
	UserID        string     `json:"user_id" db:"user_id"`
	Title         string     `json:"title" db:"title"`
	Description   string     `json:"description,omitempty" db:"description"`
	Color         string     `json:"color" db:"color"`
	Icon          string     `json:"icon" db:"icon"`
	SortOrder     int        `json:"sort_order" db:"sort_order"`
	TargetValue   int        `json:"target_value" db:"target_value"`
	Unit          string     `json:"unit" db:"unit"`
	CurrentStreak int        `json:"current_streak" db:"current_streak"`
	LongestStreak int        `json:"longest_streak" db:"longest_streak"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
	ArchivedAt    *time.Time `json:"archived_at,omitempty" db:"archived_at"`
}

func validateHabit(title, desc, color string, target int) error {
	if strings.TrimSpace(title) == "" {
		return ErrHabitTitleEmpty
	}
	if len(strings.TrimSpace(title)) > MaxTitleLen {
		return ErrHabitTitleTooLong
	}
	if len(strings.TrimSpace(desc)) > MaxDescLen {
		return ErrHabitDescTooLong
	}
	if color != "" && !colorRegex.MatchString(color) {
		return ErrInvalidColor
	}
	if target < 1 {
		return ErrInvalidTarget
	}
	return nil
}

func NewHabit(userID, title, description, color, icon, unit string, target int) (*Habit, error) {
	if userID == "" {
		return nil, ErrHabitInvalidUserID
	}
	if target == 0 {
		target = 1
	}
	if err := validateHabit(title, description, color, target); err != nil {
		return nil, err
	}
	if icon == "" {
		icon = DefaultIcon
	}

	now := time.Now().UTC()

	return &Habit{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		Color:       color,
		Icon:        icon,
		Unit:        unit,
		TargetValue: target,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (h *Habit) Update(title, description, color, icon, unit string, target int) error {
	if h.ArchivedAt != nil {
		return ErrHabitArchived
	}
	if target == 0 {
		target = 1
	}
	if err := validateHabit(title, description, color, target); err != nil {
		return err
	}
	if icon == "" {
		icon = DefaultIcon
	}

	h.Title = strings.TrimSpace(title)
	h.Description = strings.TrimSpace(description)
	h.Color = color
	h.Icon = icon
	h.Unit = unit
	h.TargetValue = target
	h.UpdatedAt = time.Now().UTC()
	return nil
}

func (h *Habit) ChangePosition(newOrder int) error {
	if h.ArchivedAt != nil {
		return ErrHabitArchived
	}
	h.SortOrder = newOrder
	h.UpdatedAt = time.Now().UTC()
	return nil
}

func (h *Habit) Archive() {
	if h.ArchivedAt != nil {
		return
	}
	now := time.Now().UTC()
	h.ArchivedAt = &now
	h.UpdatedAt = now
}

func (h *Habit) Restore() {
	if h.ArchivedAt == nil {
		return
	}
	h.ArchivedAt = nil
	h.UpdatedAt = time.Now().UTC()
}
