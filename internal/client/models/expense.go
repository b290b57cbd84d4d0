// Package models defines the expense records and account payloads exchanged
// with the backend, along with client-side input validation.
package models

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Category is one of a closed set of expense categories.
type Category string

const (
	CategoryGrocery     Category = "Grocery"
	CategoryElectricity Category = "Electricity"
	CategoryShopping    Category = "Shopping"
	CategoryStudy       Category = "Study"
	CategoryHome        Category = "Home"
	CategoryOther       Category = "Other"
)

// Categories lists every valid category in display order.
var Categories = []Category{
	CategoryGrocery,
	CategoryElectricity,
	CategoryShopping,
	CategoryStudy,
	CategoryHome,
	CategoryOther,
}

var (
	ErrEmptyTitle      = errors.New("title must not be empty")
	ErrInvalidCategory = errors.New("category is not one of the allowed values")
	ErrInvalidAmount   = errors.New("amount must be a number")
)

// Valid reports whether c is a member of Categories.
func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// ParseCategory resolves s to a Category, ignoring case and surrounding spaces.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, v := range Categories {
		if strings.EqualFold(s, string(v)) {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
}

// Expense is a record as returned by the server. ID and Date are assigned
// server-side.
type Expense struct {
	ID       int64      `json:"id"`
	Title    string     `json:"title"`
	Category Category   `json:"category"`
	Amount   float64    `json:"amount"`
	Date     *Timestamp `json:"date,omitempty"`
}

// Input returns the editable fields of e.
func (e Expense) Input() ExpenseInput {
	return ExpenseInput{Title: e.Title, Category: e.Category, Amount: e.Amount}
}

// ExpenseInput is the payload for create and update requests.
type ExpenseInput struct {
	Title    string     `json:"title"`
	Category Category   `json:"category"`
	Amount   float64    `json:"amount"`
	Date     *Timestamp `json:"date,omitempty"`
}

// Validate checks the minimum the server would otherwise reject.
func (in ExpenseInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return ErrEmptyTitle
	}
	if !in.Category.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, in.Category)
	}
	if !finite(in.Amount) {
		return fmt.Errorf("%w: %v", ErrInvalidAmount, in.Amount)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ExpenseForm holds raw user-entered text before conversion.
type ExpenseForm struct {
	Title    string
	Category string
	Amount   string
}

// FormOf renders e back into form fields.
func FormOf(e Expense) ExpenseForm {
	return ExpenseForm{
		Title:    e.Title,
		Category: string(e.Category),
		Amount:   strconv.FormatFloat(e.Amount, 'f', -1, 64),
	}
}

// Parse validates the form and converts it into an ExpenseInput.
func (f ExpenseForm) Parse() (ExpenseInput, error) {
	title := strings.TrimSpace(f.Title)
	if title == "" {
		return ExpenseInput{}, ErrEmptyTitle
	}

	cat, err := ParseCategory(f.Category)
	if err != nil {
		return ExpenseInput{}, err
	}

	amount, err := strconv.ParseFloat(strings.TrimSpace(f.Amount), 64)
	if err != nil || !finite(amount) {
		return ExpenseInput{}, fmt.Errorf("%w: %q", ErrInvalidAmount, f.Amount)
	}

	in := ExpenseInput{Title: title, Category: cat, Amount: amount}
	return in, in.Validate()
}

// IsZero reports whether every field of the form is blank.
func (f ExpenseForm) IsZero() bool {
	return f == ExpenseForm{}
}
