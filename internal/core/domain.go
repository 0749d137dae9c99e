package core

import (
	"time"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

type (
	TransactionType string

	// DateTime is a local wall-clock timestamp serialized without a zone
	// offset ("2006-01-02T15:04:05"), matching the wire format of dates
	// supplied by API clients.
	DateTime struct {
		time.Time
	}

	User struct {
		ID           int64    `json:"id"`
		FullName     string   `json:"fullName"`
		Email        string   `json:"email"`
		PasswordHash string   `json:"-"`
		CreatedAt    DateTime `json:"createdAt"`
	}

	Category struct {
		ID        int64           `json:"id"`
		UserID    *int64          `json:"-"` // nil = system-wide default
		Name      string          `json:"name"`
		Type      TransactionType `json:"type"`
		Color     string          `json:"color"`
		Icon      string          `json:"icon"`
		CreatedAt DateTime        `json:"-"`
	}

	Transaction struct {
		ID          int64
		UserID      int64
		CategoryID  int64
		Type        TransactionType
		Amount      Amount
		Description *string
		Date        DateTime
		CreatedAt   DateTime
	}

	// CategorySpec describes one entry of the default-category table that is
	// provisioned for every new user. Kept as injectable configuration so
	// tests can substitute a smaller fixture set.
	CategorySpec struct {
		Name  string
		Type  TransactionType
		Color string
		Icon  string
	}
)

// DefaultCategories is the fixed set created for each user at registration:
// eight expense categories and four income categories.
var DefaultCategories = []CategorySpec{
	{Name: "Alimentação", Type: Expense, Color: "#FF6B6B", Icon: "restaurant"},
	{Name: "Transporte", Type: Expense, Color: "#FFB800", Icon: "car"},
	{Name: "Moradia", Type: Expense, Color: "#3B82F6", Icon: "home"},
	{Name: "Lazer", Type: Expense, Color: "#8B5CF6", Icon: "game"},
	{Name: "Saúde", Type: Expense, Color: "#EC4899", Icon: "medical"},
	{Name: "Educação", Type: Expense, Color: "#10B981", Icon: "school"},
	{Name: "Compras", Type: Expense, Color: "#F59E0B", Icon: "shopping"},
	{Name: "Contas", Type: Expense, Color: "#EF4444", Icon: "bill"},

	{Name: "Salário", Type: Income, Color: "#4CAF50", Icon: "money"},
	{Name: "Freelance", Type: Income, Color: "#66BB6A", Icon: "work"},
	{Name: "Investimentos", Type: Income, Color: "#81C784", Icon: "chart"},
	{Name: "Outros", Type: Income, Color: "#A5D6A7", Icon: "other"},
}

// Valid reports whether the type is one of the two known transaction kinds.
func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

const (
	// DateTimeLayout is the canonical storage and wire format for dates.
	DateTimeLayout = "2006-01-02T15:04:05"
	// dateTimeLayoutShort accepts client dates without a seconds component.
	dateTimeLayoutShort = "2006-01-02T15:04"
)

// ParseDateTime parses an ISO-8601 local date-time in the server's local
// time zone. Seconds are optional.
func ParseDateTime(s string) (DateTime, error) {
	for _, layout := range []string{DateTimeLayout, dateTimeLayoutShort} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return DateTime{Time: t}, nil
		}
	}
	return DateTime{}, ErrInvalidDate
}

// NewDateTime wraps a time.Time, truncating sub-second precision so that
// round-tripping through the wire format is lossless.
func NewDateTime(t time.Time) DateTime {
	return DateTime{Time: t.Truncate(time.Second)}
}

func (d DateTime) String() string {
	return d.Format(DateTimeLayout)
}

func (d DateTime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(DateTimeLayout) + `"`), nil
}

func (d *DateTime) UnmarshalJSON(b []byte) error {
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return ErrInvalidDate
	}
	parsed, err := ParseDateTime(string(b[1 : len(b)-1]))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
