package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"fintrack/internal/auth"
	"fintrack/internal/core"
)

// fakeStore is an in-memory Store for exercising the services without SQLite.
type fakeStore struct {
	users        map[string]core.User
	categories   []core.Category
	transactions []core.TransactionView
	nextID       int64

	createdDefaults []core.CategorySpec
	failWith        error
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: map[string]core.User{}, nextID: 1}
}

func (f *fakeStore) id() int64 {
	id := f.nextID
	f.nextID++
	return id
}

func (f *fakeStore) CreateUser(ctx context.Context, u core.User, defaults []core.CategorySpec) (core.User, error) {
	if f.failWith != nil {
		return core.User{}, f.failWith
	}
	if _, ok := f.users[u.Email]; ok {
		return core.User{}, core.ErrEmailTaken
	}
	u.ID = f.id()
	u.CreatedAt = core.NewDateTime(time.Now())
	f.users[u.Email] = u
	f.createdDefaults = defaults
	return u, nil
}

func (f *fakeStore) GetUserByEmail(ctx context.Context, email string) (core.User, error) {
	u, ok := f.users[email]
	if !ok {
		return core.User{}, core.ErrNotFound
	}
	return u, nil
}

func (f *fakeStore) ListCategories(ctx context.Context, userID int64) ([]core.Category, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	return f.categories, nil
}

func (f *fakeStore) CreateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	if f.failWith != nil {
		return core.Category{}, f.failWith
	}
	c.ID = f.id()
	f.categories = append(f.categories, c)
	return c, nil
}

func (f *fakeStore) CreateTransaction(ctx context.Context, t core.Transaction) (core.TransactionView, error) {
	if f.failWith != nil {
		return core.TransactionView{}, f.failWith
	}
	v := core.TransactionView{
		ID:          f.id(),
		CategoryID:  t.CategoryID,
		Type:        t.Type,
		Amount:      t.Amount,
		Description: t.Description,
		Date:        t.Date,
		CreatedAt:   core.NewDateTime(time.Now()),
	}
	f.transactions = append(f.transactions, v)
	return v, nil
}

func (f *fakeStore) ListTransactions(ctx context.Context, userID int64) ([]core.TransactionView, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	return f.transactions, nil
}

func (f *fakeStore) DeleteTransaction(ctx context.Context, userID, id int64) error {
	for i, v := range f.transactions {
		if v.ID == id {
			f.transactions = append(f.transactions[:i], f.transactions[i+1:]...)
			return nil
		}
	}
	return core.ErrNotFound
}

// recordingPublisher records publishes and optionally fails them.
type recordingPublisher struct {
	events []string
	err    error
}

func (p *recordingPublisher) PublishLedgerEvent(ctx context.Context, transactionID, userID int64, action string) error {
	p.events = append(p.events, action)
	return p.err
}

func validRegistration() RegisterInput {
	return RegisterInput{
		FullName:        "Maria Silva",
		Email:           "maria@example.com",
		Password:        "Abcdef12",
		ConfirmPassword: "Abcdef12",
	}
}

func TestRegisterCreatesUserWithDefaults(t *testing.T) {
	store := newFakeStore()
	svc := NewUserService(store)

	user, err := svc.Register(context.Background(), validRegistration())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.ID == 0 {
		t.Fatalf("expected assigned id")
	}
	if user.PasswordHash == "Abcdef12" || user.PasswordHash == "" {
		t.Fatalf("password stored unhashed")
	}
	if !auth.CheckPassword(user.PasswordHash, "Abcdef12") {
		t.Fatalf("stored hash does not verify")
	}
	if len(store.createdDefaults) != len(core.DefaultCategories) {
		t.Fatalf("default categories not passed to store")
	}
}

func TestRegisterValidationFailures(t *testing.T) {
	svc := NewUserService(newFakeStore())

	in := validRegistration()
	in.FullName = ""
	in.Password = "short"
	in.ConfirmPassword = "other"

	_, err := svc.Register(context.Background(), in)
	ve, ok := core.AsValidationError(err)
	if !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
	want := []string{auth.MsgFullNameRequired, auth.MsgPasswordTooShort, auth.MsgPasswordMismatch}
	if len(ve.Messages) != len(want) {
		t.Fatalf("messages = %v, want %v", ve.Messages, want)
	}
	for i, m := range want {
		if ve.Messages[i] != m {
			t.Fatalf("message %d = %q, want %q", i, ve.Messages[i], m)
		}
	}
}

func TestRegisterEmailTaken(t *testing.T) {
	store := newFakeStore()
	svc := NewUserService(store)
	ctx := context.Background()

	if _, err := svc.Register(ctx, validRegistration()); err != nil {
		t.Fatalf("first register: %v", err)
	}

	_, err := svc.Register(ctx, validRegistration())
	ve, ok := core.AsValidationError(err)
	if !ok || len(ve.Messages) != 1 || ve.Messages[0] != auth.MsgEmailTaken {
		t.Fatalf("expected %q, got %v", auth.MsgEmailTaken, err)
	}
}

func TestLogin(t *testing.T) {
	store := newFakeStore()
	svc := NewUserService(store)
	ctx := context.Background()

	registered, err := svc.Register(ctx, validRegistration())
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	t.Run("success", func(t *testing.T) {
		user, err := svc.Login(ctx, LoginInput{Email: "maria@example.com", Password: "Abcdef12"})
		if err != nil {
			t.Fatalf("login: %v", err)
		}
		if user.ID != registered.ID {
			t.Fatalf("wrong user returned: %+v", user)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginInput{Email: "ghost@example.com", Password: "Abcdef12"})
		ve, ok := core.AsValidationError(err)
		if !ok || ve.Messages[0] != auth.MsgInvalidCredentials {
			t.Fatalf("expected invalid-credentials, got %v", err)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginInput{Email: "maria@example.com", Password: "Wrong123"})
		ve, ok := core.AsValidationError(err)
		if !ok || ve.Messages[0] != auth.MsgInvalidCredentials {
			t.Fatalf("expected invalid-credentials, got %v", err)
		}
	})

	t.Run("email is case-insensitive", func(t *testing.T) {
		user, err := svc.Login(ctx, LoginInput{Email: "MARIA@Example.com", Password: "Abcdef12"})
		if err != nil {
			t.Fatalf("login: %v", err)
		}
		if user.ID != registered.ID {
			t.Fatalf("wrong user returned: %+v", user)
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginInput{})
		ve, ok := core.AsValidationError(err)
		if !ok || len(ve.Messages) != 2 {
			t.Fatalf("expected two messages, got %v", err)
		}
	})
}

func TestCategoryCreateScopesToUser(t *testing.T) {
	store := newFakeStore()
	svc := NewCategoryService(store)

	cat, err := svc.Create(context.Background(), 7, CategoryInput{
		Name: "Pets", Type: core.Expense, Color: "#123456", Icon: "paw",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if cat.UserID == nil || *cat.UserID != 7 {
		t.Fatalf("category not scoped to caller: %+v", cat)
	}
}

func TestTransactionCreateParsesAndPublishes(t *testing.T) {
	store := newFakeStore()
	pub := &recordingPublisher{}
	svc := NewTransactionService(store, pub)

	view, err := svc.Create(context.Background(), 1, TransactionInput{
		CategoryID: 3,
		Type:       core.Expense,
		Amount:     "12.345",
		Date:       "2024-01-10T12:00",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if view.Amount.String() != "12.35" {
		t.Fatalf("amount = %s, want 12.35", view.Amount)
	}
	if len(pub.events) != 1 || pub.events[0] != ActionCreated {
		t.Fatalf("events = %v", pub.events)
	}
}

func TestTransactionCreateRejectsBadInput(t *testing.T) {
	svc := NewTransactionService(newFakeStore(), nil)
	ctx := context.Background()

	cases := []struct {
		name string
		in   TransactionInput
		want error
	}{
		{"bad amount", TransactionInput{Type: core.Expense, Amount: "abc", Date: "2024-01-10T12:00:00"}, core.ErrInvalidAmount},
		{"negative amount", TransactionInput{Type: core.Expense, Amount: "-5", Date: "2024-01-10T12:00:00"}, core.ErrInvalidAmount},
		{"bad date", TransactionInput{Type: core.Income, Amount: "5", Date: "10/01/2024"}, core.ErrInvalidDate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, 1, tc.in)
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
			if _, ok := core.AsValidationError(err); ok {
				t.Fatalf("parse failures must not surface as validation errors")
			}
		})
	}
}

func TestTransactionCreateRejectsUnknownType(t *testing.T) {
	store := newFakeStore()
	svc := NewTransactionService(store, nil)

	_, err := svc.Create(context.Background(), 1, TransactionInput{
		CategoryID: 3, Type: "transfer", Amount: "5", Date: "2024-01-10T12:00:00",
	})
	if err == nil || !strings.Contains(err.Error(), "invalid transaction type") {
		t.Fatalf("err = %v, want invalid transaction type", err)
	}
	if _, ok := core.AsValidationError(err); ok {
		t.Fatalf("type rejection must not surface as a validation error")
	}
	if len(store.transactions) != 0 {
		t.Fatalf("nothing should have been persisted")
	}
}

func TestTransactionCreatePublishFailureIsNonFatal(t *testing.T) {
	store := newFakeStore()
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc := NewTransactionService(store, pub)

	_, err := svc.Create(context.Background(), 1, TransactionInput{
		CategoryID: 3, Type: core.Income, Amount: "100", Date: "2024-01-10T12:00:00",
	})
	if err != nil {
		t.Fatalf("create should survive publish failure, got %v", err)
	}
	if len(store.transactions) != 1 {
		t.Fatalf("transaction not persisted")
	}
}

func TestTransactionDelete(t *testing.T) {
	store := newFakeStore()
	pub := &recordingPublisher{}
	svc := NewTransactionService(store, pub)
	ctx := context.Background()

	view, err := svc.Create(ctx, 1, TransactionInput{
		CategoryID: 3, Type: core.Expense, Amount: "5", Date: "2024-01-10T12:00:00",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(ctx, 1, view.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(pub.events) != 2 || pub.events[1] != ActionDeleted {
		t.Fatalf("events = %v", pub.events)
	}

	err = svc.Delete(ctx, 1, view.ID)
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(pub.events) != 2 {
		t.Fatalf("missing row must not publish an event")
	}
}

func TestHomeSummaryUsesInjectedClock(t *testing.T) {
	store := newFakeStore()
	svc := NewTransactionService(store, nil)
	ctx := context.Background()

	for _, row := range []struct {
		typ    core.TransactionType
		amount string
		date   string
	}{
		{core.Income, "1000", "2024-01-05T09:00:00"},
		{core.Expense, "300", "2024-01-10T14:30:00"},
		{core.Expense, "200", "2023-12-20T10:00:00"},
	} {
		if _, err := svc.Create(ctx, 1, TransactionInput{
			CategoryID: 3, Type: row.typ, Amount: row.amount, Date: row.date,
		}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	svc.now = func() time.Time {
		return time.Date(2024, time.January, 31, 12, 0, 0, 0, time.Local)
	}

	summary, err := svc.HomeSummary(ctx, 1)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if got := summary.TotalBalance.String(); got != "500" {
		t.Fatalf("totalBalance = %s, want 500", got)
	}
	if got := summary.MonthIncome.String(); got != "1000" {
		t.Fatalf("monthIncome = %s, want 1000", got)
	}
	if got := summary.MonthExpense.String(); got != "300" {
		t.Fatalf("monthExpense = %s, want 300", got)
	}
}
