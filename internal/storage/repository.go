// Package storage implements the ledger store on SQLite.
//
// Monetary amounts are persisted as exact decimal text and dates as local
// "2006-01-02T15:04:05" text, so lexicographic ordering in SQL matches
// chronological ordering. Every multi-statement operation runs inside a
// single transaction.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"fintrack/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", "file:"+dbPath+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// withTx runs fn inside a transaction, committing on success and rolling
// back on failure or context cancellation.
func (r *SQLiteRepository) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			slog.ErrorContext(ctx, "Transaction rollback failed", "error", rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func nowStamp() string {
	return core.NewDateTime(time.Now()).String()
}

// CreateUser inserts a user together with its default category set in one
// transaction, so a registered user never exists without categories. Returns
// core.ErrEmailTaken when the email is already stored.
func (r *SQLiteRepository) CreateUser(ctx context.Context, u core.User, defaults []core.CategorySpec) (core.User, error) {
	var created core.User
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM users WHERE email = ?`, u.Email).Scan(&exists)
		if err != nil {
			return fmt.Errorf("check email uniqueness: %w", err)
		}
		if exists > 0 {
			return core.ErrEmailTaken
		}

		res, err := tx.ExecContext(ctx,
			`INSERT INTO users (full_name, email, password_hash, created_at) VALUES (?, ?, ?, ?)`,
			u.FullName, u.Email, u.PasswordHash, nowStamp())
		if err != nil {
			return fmt.Errorf("insert user: %w", err)
		}
		userID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("user id: %w", err)
		}

		for _, spec := range defaults {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO categories (user_id, name, type, color, icon, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
				userID, spec.Name, string(spec.Type), spec.Color, spec.Icon, nowStamp())
			if err != nil {
				return fmt.Errorf("insert default category %q: %w", spec.Name, err)
			}
		}

		created, err = scanUser(tx.QueryRowContext(ctx,
			`SELECT id, full_name, email, password_hash, created_at FROM users WHERE id = ?`, userID))
		if err != nil {
			return fmt.Errorf("read back user: %w", err)
		}
		return nil
	})
	if err != nil {
		return core.User{}, err
	}

	slog.InfoContext(ctx, "User created", "user_id", created.ID, "categories", len(defaults))
	return created, nil
}

// GetUserByEmail returns the user stored under email, or core.ErrNotFound.
func (r *SQLiteRepository) GetUserByEmail(ctx context.Context, email string) (core.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT id, full_name, email, password_hash, created_at FROM users WHERE email = ?`, email))
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, core.ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// ListCategories returns all of the user's categories in insertion order.
func (r *SQLiteRepository) ListCategories(ctx context.Context, userID int64) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, type, color, icon, created_at FROM categories WHERE user_id = ? ORDER BY id ASC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []core.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// CreateCategory inserts one category and returns the persisted row.
func (r *SQLiteRepository) CreateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	var created core.Category
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO categories (user_id, name, type, color, icon, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
			c.UserID, c.Name, string(c.Type), c.Color, c.Icon, nowStamp())
		if err != nil {
			return fmt.Errorf("insert category: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("category id: %w", err)
		}
		created, err = scanCategory(tx.QueryRowContext(ctx,
			`SELECT id, user_id, name, type, color, icon, created_at FROM categories WHERE id = ?`, id))
		if err != nil {
			return fmt.Errorf("read back category: %w", err)
		}
		return nil
	})
	if err != nil {
		return core.Category{}, err
	}

	slog.InfoContext(ctx, "Category created", "category_id", created.ID, "name", created.Name, "type", created.Type)
	return created, nil
}

const transactionViewColumns = `
    t.id, t.category_id, c.name, c.color, c.icon,
    t.type, t.amount, t.description, t.date, t.created_at`

// CreateTransaction inserts a transaction and re-reads it joined with its
// category inside the same storage transaction, so the insert-then-read is
// all-or-nothing. A categoryId that references no existing category fails
// the foreign key and surfaces as a generic persistence error.
func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) (core.TransactionView, error) {
	var created core.TransactionView
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO transactions (user_id, category_id, type, amount, description, date, created_at)
             VALUES (?, ?, ?, ?, ?, ?, ?)`,
			t.UserID, t.CategoryID, string(t.Type), t.Amount.String(), t.Description, t.Date.String(), nowStamp())
		if err != nil {
			return fmt.Errorf("insert transaction: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("transaction id: %w", err)
		}
		created, err = scanTransactionView(tx.QueryRowContext(ctx,
			`SELECT `+transactionViewColumns+`
             FROM transactions t INNER JOIN categories c ON c.id = t.category_id
             WHERE t.id = ?`, id))
		if err != nil {
			return fmt.Errorf("read back transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return core.TransactionView{}, err
	}

	slog.InfoContext(ctx, "Transaction created",
		"transaction_id", created.ID,
		"user_id", t.UserID,
		"type", created.Type,
		"amount", created.Amount.String())
	return created, nil
}

// ListTransactions returns the user's full ledger joined with category
// metadata, most recent first, ids ascending on equal dates.
func (r *SQLiteRepository) ListTransactions(ctx context.Context, userID int64) ([]core.TransactionView, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+transactionViewColumns+`
         FROM transactions t INNER JOIN categories c ON c.id = t.category_id
         WHERE t.user_id = ?
         ORDER BY t.date DESC, t.id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	views := []core.TransactionView{}
	for rows.Next() {
		v, err := scanTransactionView(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return views, nil
}

// DeleteTransaction removes a transaction only when both id and owner
// match. A missing row and a row owned by someone else are deliberately
// indistinguishable: both return core.ErrNotFound.
func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, userID, transactionID int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE id = ? AND user_id = ?`, transactionID, userID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete transaction rows affected: %w", err)
	}
	if affected == 0 {
		return core.ErrNotFound
	}

	slog.InfoContext(ctx, "Transaction deleted", "transaction_id", transactionID, "user_id", userID)
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (core.User, error) {
	var (
		u         core.User
		createdAt string
	)
	if err := row.Scan(&u.ID, &u.FullName, &u.Email, &u.PasswordHash, &createdAt); err != nil {
		return core.User{}, err
	}
	var err error
	u.CreatedAt, err = core.ParseDateTime(createdAt)
	if err != nil {
		return core.User{}, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	return u, nil
}

func scanCategory(row rowScanner) (core.Category, error) {
	var (
		c         core.Category
		userID    sql.NullInt64
		typ       string
		createdAt string
	)
	if err := row.Scan(&c.ID, &userID, &c.Name, &typ, &c.Color, &c.Icon, &createdAt); err != nil {
		return core.Category{}, err
	}
	if userID.Valid {
		c.UserID = &userID.Int64
	}
	c.Type = core.TransactionType(typ)
	var err error
	c.CreatedAt, err = core.ParseDateTime(createdAt)
	if err != nil {
		return core.Category{}, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	return c, nil
}

func scanTransactionView(row rowScanner) (core.TransactionView, error) {
	var (
		v           core.TransactionView
		typ         string
		amount      string
		description sql.NullString
		date        string
		createdAt   string
	)
	err := row.Scan(&v.ID, &v.CategoryID, &v.CategoryName, &v.CategoryColor, &v.CategoryIcon,
		&typ, &amount, &description, &date, &createdAt)
	if err != nil {
		return core.TransactionView{}, err
	}
	v.Type = core.TransactionType(typ)
	if v.Amount, err = core.ParseAmount(amount); err != nil {
		return core.TransactionView{}, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	if description.Valid {
		v.Description = &description.String
	}
	if v.Date, err = core.ParseDateTime(date); err != nil {
		return core.TransactionView{}, fmt.Errorf("parse date %q: %w", date, err)
	}
	if v.CreatedAt, err = core.ParseDateTime(createdAt); err != nil {
		return core.TransactionView{}, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	return v, nil
}
