package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// MaxCategoryLen is the maximum accepted length of a category name.
const MaxCategoryLen = 50

// DateLayout is the wire and storage format for expense dates.
const DateLayout = "2006-01-02"

var (
	// ErrNotFound reports a lookup miss for a specific expense id.
	ErrNotFound = errors.New("expense not found")

	// ErrNoExpenses reports an empty result set where the caller expected
	// at least one record (list, filter, search, summary).
	ErrNoExpenses = errors.New("no expenses found")
)

// ValidationError reports invalid input for a single expense field.
// It is always produced before any storage interaction.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

func invalid(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

type (
	// Date is a calendar date without a time component.
	Date struct {
		time.Time
	}

	// Expense is the sole persisted entity. ID is assigned by the store
	// at insert time and never changes afterwards.
	Expense struct {
		ID       int64   `json:"id"`
		Category string  `json:"category"`
		Amount   float64 `json:"amount"`
		Date     Date    `json:"date"`
	}

	// ExpensePatch carries the fields of a partial update. Nil fields
	// retain their prior values when the patch is applied.
	ExpensePatch struct {
		Category *string  `json:"category"`
		Amount   *float64 `json:"amount"`
		Date     *Date    `json:"date"`
	}
)

// NewDate creates a Date from year, month, day in UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current date, truncated to day precision.
func Today() Date {
	now := time.Now().UTC()
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: expected %s", s, DateLayout)
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

// Before reports whether d falls strictly before other.
func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

// After reports whether d falls strictly after other.
func (d Date) After(other Date) bool {
	return d.Time.After(other.Time)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(DateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		return errors.New("date cannot be empty")
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return invalid("date", "date is required")
	}
	return nil
}

// Validate checks the full entity invariants: positive amount, non-empty
// category of at most MaxCategoryLen characters, and a set date.
func (e Expense) Validate() error {
	if strings.TrimSpace(e.Category) == "" {
		return invalid("category", "category is required")
	}
	if len([]rune(e.Category)) > MaxCategoryLen {
		return invalid("category", fmt.Sprintf("category exceeds %d characters", MaxCategoryLen))
	}
	if e.Amount <= 0 {
		return invalid("amount", "amount must be greater than 0")
	}
	return e.Date.Validate()
}

// Validate checks only the fields present in the patch. The merged record
// is re-validated separately before commit.
func (p ExpensePatch) Validate() error {
	if p.Category != nil {
		if strings.TrimSpace(*p.Category) == "" {
			return invalid("category", "category is required")
		}
		if len([]rune(*p.Category)) > MaxCategoryLen {
			return invalid("category", fmt.Sprintf("category exceeds %d characters", MaxCategoryLen))
		}
	}
	if p.Amount != nil && *p.Amount <= 0 {
		return invalid("amount", "amount must be greater than 0")
	}
	if p.Date != nil {
		return p.Date.Validate()
	}
	return nil
}

// IsEmpty reports whether the patch carries no fields at all.
func (p ExpensePatch) IsEmpty() bool {
	return p.Category == nil && p.Amount == nil && p.Date == nil
}

// Apply merges the patch into e and returns the merged record. Fields not
// present in the patch keep their prior values; ID is never touched.
func (p ExpensePatch) Apply(e Expense) Expense {
	if p.Category != nil {
		e.Category = *p.Category
	}
	if p.Amount != nil {
		e.Amount = *p.Amount
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
	return e
}
