package ports

// Request types for service operations. Validation tags are enforced at the
// HTTP boundary before any patch is computed; malformed input never reaches
// the document.

// CreateTaskRequest creates a task for a calendar day, optionally with a
// reminder time.
type CreateTaskRequest struct {
	Text       string `json:"text" validate:"required"`
	Date       string `json:"date" validate:"required,datetime=2006-01-02"`
	Time       string `json:"time" validate:"omitempty,datetime=15:04"`
	IsPriority bool   `json:"isPriority"`
}

// CreateChallengeRequest creates a personal challenge for a calendar day.
type CreateChallengeRequest struct {
	Text  string `json:"text" validate:"required"`
	Date  string `json:"date" validate:"required,datetime=2006-01-02"`
	Notes string `json:"notes"`
}

// CreateMistakeRequest logs a mistake on a calendar day.
type CreateMistakeRequest struct {
	Text string `json:"text" validate:"required"`
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
	Tag  string `json:"tag"`
}

// TransactionKind selects what a wallet submission creates. The loan kinds
// additionally create a mirror entry for balance accounting.
type TransactionKind string

const (
	TransactionIncome   TransactionKind = "income"
	TransactionExpense  TransactionKind = "expense"
	TransactionLent     TransactionKind = "lent"
	TransactionBorrowed TransactionKind = "borrowed"
)

// CreateTransactionRequest adds an income, expense, or loan. For loan kinds
// the description carries the person's name.
type CreateTransactionRequest struct {
	Kind        TransactionKind `json:"kind" validate:"required,oneof=income expense lent borrowed"`
	Amount      float64         `json:"amount" validate:"required,gt=0"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Date        string          `json:"date" validate:"omitempty,datetime=2006-01-02"`
	DueDate     string          `json:"dueDate" validate:"omitempty,datetime=2006-01-02"`
}

// TransactionFilter narrows the wallet listing.
type TransactionFilter string

const (
	FilterAll     TransactionFilter = "all"
	FilterIncome  TransactionFilter = "income"
	FilterExpense TransactionFilter = "expense"
	FilterLoans   TransactionFilter = "loans"
)

// OnboardRequest completes first-run onboarding.
type OnboardRequest struct {
	Name     string `json:"name" validate:"required"`
	Gender   string `json:"gender" validate:"required,oneof=male female"`
	Currency string `json:"currency" validate:"required,alpha,len=3"`
}

// UpdateSettingsRequest patches profile fields; nil fields are untouched.
type UpdateSettingsRequest struct {
	Name           *string `json:"name" validate:"omitempty,min=1"`
	Gender         *string `json:"gender" validate:"omitempty,oneof=male female"`
	Currency       *string `json:"currency" validate:"omitempty,alpha,len=3"`
	DailyGoodThing *string `json:"dailyGoodThing"`
}

// ScanRequest submits a receipt image for transaction extraction.
type ScanRequest struct {
	Image    string `json:"image" validate:"required,base64"`
	MimeType string `json:"mimeType" validate:"required"`
}
