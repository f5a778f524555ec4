package core

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func validExpense() Expense {
	return Expense{
		Category: "Food",
		Amount:   12.50,
		Date:     NewDate(2024, 1, 15),
	}
}

func TestExpenseValidate(t *testing.T) {
	if err := validExpense().Validate(); err != nil {
		t.Fatalf("expected valid expense, got %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Expense)
		field  string
	}{
		{"empty category", func(e *Expense) { e.Category = "" }, "category"},
		{"blank category", func(e *Expense) { e.Category = "   " }, "category"},
		{"category too long", func(e *Expense) { e.Category = strings.Repeat("x", 51) }, "category"},
		{"zero amount", func(e *Expense) { e.Amount = 0 }, "amount"},
		{"negative amount", func(e *Expense) { e.Amount = -5 }, "amount"},
		{"missing date", func(e *Expense) { e.Date = Date{} }, "date"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := validExpense()
			tc.mutate(&e)
			err := e.Validate()
			if err == nil {
				t.Fatalf("expected validation error")
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if ve.Field != tc.field {
				t.Fatalf("expected field %q, got %q", tc.field, ve.Field)
			}
		})
	}
}

func TestExpenseValidateBoundaries(t *testing.T) {
	e := validExpense()
	e.Category = strings.Repeat("x", MaxCategoryLen)
	if err := e.Validate(); err != nil {
		t.Fatalf("50-char category should be valid, got %v", err)
	}

	e = validExpense()
	e.Amount = 0.01
	if err := e.Validate(); err != nil {
		t.Fatalf("amount 0.01 should be valid, got %v", err)
	}
}

func TestExpensePatchValidate(t *testing.T) {
	long := strings.Repeat("x", 51)
	zero := 0.0
	empty := ""

	if err := (ExpensePatch{}).Validate(); err != nil {
		t.Fatalf("empty patch should validate, got %v", err)
	}
	if err := (ExpensePatch{Category: &long}).Validate(); err == nil {
		t.Fatalf("expected error for long category")
	}
	if err := (ExpensePatch{Category: &empty}).Validate(); err == nil {
		t.Fatalf("expected error for empty category")
	}
	if err := (ExpensePatch{Amount: &zero}).Validate(); err == nil {
		t.Fatalf("expected error for zero amount")
	}
}

func TestExpensePatchApply(t *testing.T) {
	original := validExpense()
	original.ID = 7

	amount := 99.0
	merged := ExpensePatch{Amount: &amount}.Apply(original)

	if merged.Amount != 99.0 {
		t.Fatalf("expected amount 99, got %v", merged.Amount)
	}
	if merged.Category != original.Category || merged.Date != original.Date {
		t.Fatalf("patch changed fields it should not have: %+v", merged)
	}
	if merged.ID != 7 {
		t.Fatalf("patch must not change the id, got %d", merged.ID)
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	d := NewDate(2024, 2, 1)
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `"2024-02-01"` {
		t.Fatalf("unexpected encoding %s", data)
	}

	var back Date
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(d.Time) {
		t.Fatalf("round trip mismatch: %v != %v", back, d)
	}

	if err := json.Unmarshal([]byte(`"02/01/2024"`), &back); err == nil {
		t.Fatalf("expected error for wrong layout")
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-15")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d.Year() != 2024 || d.Month() != time.January || d.Day() != 15 {
		t.Fatalf("unexpected date %v", d)
	}
	if _, err := ParseDate("not-a-date"); err == nil {
		t.Fatalf("expected parse error")
	}
}
