package entities

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Common errors
var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrChallengeNotFound = errors.New("challenge not found")
	ErrExpenseNotFound   = errors.New("expense not found")
	ErrIncomeNotFound    = errors.New("income not found")
	ErrLoanNotFound      = errors.New("loan not found")
	ErrMistakeNotFound   = errors.New("mistake not found")
	ErrInvalidTrashKind  = errors.New("invalid trash kind")
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrEmptyText         = errors.New("text must not be empty")
	ErrScanInProgress    = errors.New("a scan is already in progress")
	ErrScanFailed        = errors.New("scan failed")
	ErrMissingAPIKey     = errors.New("vision api key is not configured")
)

// DayLayout is the calendar-day key format used by tasks and challenges.
const DayLayout = "2006-01-02"

// ClockLayout is the reminder time-of-day format.
const ClockLayout = "15:04"

// Defaults installed for fresh or pre-currency documents.
const (
	DefaultCurrency = "AED"
	DefaultGender   = GenderMale
)

func init() {
	// Stored documents carry plain JSON numbers for amounts, matching
	// documents written by earlier releases.
	decimal.MarshalJSONWithoutQuotes = true
}

// Enums and types
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

type LoanType string

const (
	LoanTypeLent     LoanType = "lent"
	LoanTypeBorrowed LoanType = "borrowed"
)

type NotificationType string

const (
	NotificationInfo    NotificationType = "info"
	NotificationSuccess NotificationType = "success"
	NotificationWarning NotificationType = "warning"
)

// TrashKind tags which live collection a trashed entity belongs to.
type TrashKind string

const (
	TrashKindTask      TrashKind = "task"
	TrashKindExpense   TrashKind = "expense"
	TrashKindIncome    TrashKind = "income"
	TrashKindLoan      TrashKind = "loan"
	TrashKindChallenge TrashKind = "challenge"
	TrashKindMistake   TrashKind = "mistake"
)

// Task is a to-do entry keyed to a calendar day.
type Task struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	Completed  bool   `json:"completed"`
	IsPriority bool   `json:"isPriority"`
	Date       string `json:"date"`           // YYYY-MM-DD
	Time       string `json:"time,omitempty"` // HH:MM reminder time
}

// Challenge is a self-set personal challenge for a day.
type Challenge struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	Notes     string `json:"notes,omitempty"`
	Date      string `json:"date"` // YYYY-MM-DD
}

// Expense is a spent amount with a full timestamp.
type Expense struct {
	ID          string          `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Category    string          `json:"category,omitempty"`
	Date        string          `json:"date"` // RFC 3339
}

// Income is a received amount with a full timestamp.
type Income struct {
	ID          string          `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Source      string          `json:"source,omitempty"`
	Date        string          `json:"date"` // RFC 3339
}

// Loan records money lent to or borrowed from a person. Creating a loan also
// creates a mirrored Expense (lent) or Income (borrowed) for balance
// accounting; the two records share no id and diverge independently.
type Loan struct {
	ID      string          `json:"id"`
	Person  string          `json:"person"`
	Amount  decimal.Decimal `json:"amount"`
	Type    LoanType        `json:"type"`
	DueDate string          `json:"dueDate,omitempty"` // YYYY-MM-DD
	IsPaid  bool            `json:"isPaid"`
}

// Mistake is a self-reported mistake with a full timestamp.
type Mistake struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Tag  string `json:"tag,omitempty"`
	Date string `json:"date"` // RFC 3339
}

// Notification is an in-app notification record, distinct from OS-level
// reminder delivery.
type Notification struct {
	ID      string           `json:"id"`
	Title   string           `json:"title"`
	Message string           `json:"message"`
	Date    string           `json:"date"` // RFC 3339
	Read    bool             `json:"read"`
	Type    NotificationType `json:"type"`
}

// TrashItem wraps a soft-deleted entity. Exactly one payload field is set,
// decided by Kind; the payload keeps the entity's original shape, including
// its original id, so a restore reproduces it verbatim.
type TrashItem struct {
	Kind      TrashKind
	DeletedAt string // RFC 3339

	Task      *Task
	Expense   *Expense
	Income    *Income
	Loan      *Loan
	Challenge *Challenge
	Mistake   *Mistake
}

type trashItemJSON struct {
	Kind      TrashKind       `json:"type"`
	Data      json.RawMessage `json:"data"`
	DeletedAt string          `json:"deletedAt"`
}

// MarshalJSON encodes the wrapped entity under the "data" key.
func (ti TrashItem) MarshalJSON() ([]byte, error) {
	var payload interface{}
	switch ti.Kind {
	case TrashKindTask:
		payload = ti.Task
	case TrashKindExpense:
		payload = ti.Expense
	case TrashKindIncome:
		payload = ti.Income
	case TrashKindLoan:
		payload = ti.Loan
	case TrashKindChallenge:
		payload = ti.Challenge
	case TrashKindMistake:
		payload = ti.Mistake
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidTrashKind, ti.Kind)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(trashItemJSON{Kind: ti.Kind, Data: data, DeletedAt: ti.DeletedAt})
}

// UnmarshalJSON decodes the "data" payload into the variant named by "type".
func (ti *TrashItem) UnmarshalJSON(b []byte) error {
	var raw trashItemJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	*ti = TrashItem{Kind: raw.Kind, DeletedAt: raw.DeletedAt}

	var dst interface{}
	switch raw.Kind {
	case TrashKindTask:
		ti.Task = &Task{}
		dst = ti.Task
	case TrashKindExpense:
		ti.Expense = &Expense{}
		dst = ti.Expense
	case TrashKindIncome:
		ti.Income = &Income{}
		dst = ti.Income
	case TrashKindLoan:
		ti.Loan = &Loan{}
		dst = ti.Loan
	case TrashKindChallenge:
		ti.Challenge = &Challenge{}
		dst = ti.Challenge
	case TrashKindMistake:
		ti.Mistake = &Mistake{}
		dst = ti.Mistake
	default:
		return fmt.Errorf("%w: %q", ErrInvalidTrashKind, raw.Kind)
	}

	return json.Unmarshal(raw.Data, dst)
}

// EntityID returns the wrapped entity's original id.
func (ti *TrashItem) EntityID() string {
	switch ti.Kind {
	case TrashKindTask:
		if ti.Task != nil {
			return ti.Task.ID
		}
	case TrashKindExpense:
		if ti.Expense != nil {
			return ti.Expense.ID
		}
	case TrashKindIncome:
		if ti.Income != nil {
			return ti.Income.ID
		}
	case TrashKindLoan:
		if ti.Loan != nil {
			return ti.Loan.ID
		}
	case TrashKindChallenge:
		if ti.Challenge != nil {
			return ti.Challenge.ID
		}
	case TrashKindMistake:
		if ti.Mistake != nil {
			return ti.Mistake.ID
		}
	}
	return ""
}

// AppData is the single document holding all user data. It is mutated only
// through the document store's patch-apply and mirrored to storage as a whole
// after every change.
type AppData struct {
	HasOnboarded   bool           `json:"hasOnboarded"`
	JoinDate       string         `json:"joinDate"`
	Name           string         `json:"name"`
	Gender         Gender         `json:"gender"`
	Currency       string         `json:"currency"`
	Tasks          []Task         `json:"tasks"`
	Challenges     []Challenge    `json:"challenges"`
	Expenses       []Expense      `json:"expenses"`
	Incomes        []Income       `json:"incomes"`
	Loans          []Loan         `json:"loans"`
	Mistakes       []Mistake      `json:"mistakes"`
	Notifications  []Notification `json:"notifications"`
	Trash          []TrashItem    `json:"trash"`
	DailyGoodThing string         `json:"dailyGoodThing"`
	LastActiveDate string         `json:"lastActiveDate"`
}

// DefaultAppData returns the document installed when storage is empty or
// unreadable.
func DefaultAppData(now time.Time) *AppData {
	stamp := now.Format(time.RFC3339)
	return &AppData{
		JoinDate:       stamp,
		Gender:         DefaultGender,
		Currency:       DefaultCurrency,
		Tasks:          []Task{},
		Challenges:     []Challenge{},
		Expenses:       []Expense{},
		Incomes:        []Income{},
		Loans:          []Loan{},
		Mistakes:       []Mistake{},
		Notifications:  []Notification{},
		Trash:          []TrashItem{},
		LastActiveDate: stamp,
	}
}

// Clone returns a deep copy safe to hand to observers and derived views.
func (d *AppData) Clone() *AppData {
	c := *d
	c.Tasks = append([]Task(nil), d.Tasks...)
	c.Challenges = append([]Challenge(nil), d.Challenges...)
	c.Expenses = append([]Expense(nil), d.Expenses...)
	c.Incomes = append([]Income(nil), d.Incomes...)
	c.Loans = append([]Loan(nil), d.Loans...)
	c.Mistakes = append([]Mistake(nil), d.Mistakes...)
	c.Notifications = append([]Notification(nil), d.Notifications...)
	c.Trash = make([]TrashItem, len(d.Trash))
	for i, it := range d.Trash {
		c.Trash[i] = it.clone()
	}
	return &c
}

func (ti TrashItem) clone() TrashItem {
	c := TrashItem{Kind: ti.Kind, DeletedAt: ti.DeletedAt}
	if ti.Task != nil {
		t := *ti.Task
		c.Task = &t
	}
	if ti.Expense != nil {
		e := *ti.Expense
		c.Expense = &e
	}
	if ti.Income != nil {
		in := *ti.Income
		c.Income = &in
	}
	if ti.Loan != nil {
		l := *ti.Loan
		c.Loan = &l
	}
	if ti.Challenge != nil {
		ch := *ti.Challenge
		c.Challenge = &ch
	}
	if ti.Mistake != nil {
		m := *ti.Mistake
		c.Mistake = &m
	}
	return c
}

// NewID returns a fresh entity id.
func NewID() string {
	return uuid.NewString()
}

// DayOf formats a timestamp as its calendar-day key.
func DayOf(t time.Time) string {
	return t.Format(DayLayout)
}

// SameDay reports whether an RFC 3339 timestamp falls on the given calendar
// day. Comparison is by calendar day in the timestamp's own offset, not by
// exact instant.
func SameDay(stamp, day string) bool {
	if stamp == "" {
		return false
	}
	t, err := time.Parse(time.RFC3339, stamp)
	if err != nil {
		// Older records carry bare day keys.
		t, err = time.Parse(DayLayout, stamp)
		if err != nil {
			return false
		}
	}
	return DayOf(t) == day
}

// Utility methods
func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale:
		return true
	default:
		return false
	}
}

func (lt LoanType) IsValid() bool {
	switch lt {
	case LoanTypeLent, LoanTypeBorrowed:
		return true
	default:
		return false
	}
}

func (nt NotificationType) IsValid() bool {
	switch nt {
	case NotificationInfo, NotificationSuccess, NotificationWarning:
		return true
	default:
		return false
	}
}

func (tk TrashKind) IsValid() bool {
	switch tk {
	case TrashKindTask, TrashKindExpense, TrashKindIncome, TrashKindLoan, TrashKindChallenge, TrashKindMistake:
		return true
	default:
		return false
	}
}

// Outstanding reports whether the loan still counts toward lent/borrowed
// totals.
func (l *Loan) Outstanding() bool {
	return !l.IsPaid
}
