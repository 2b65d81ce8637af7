package repository

import (
	"database/sql"
	"fmt"

	"github.com/finsight/finsight-service/internal/models"
	"github.com/google/uuid"
)

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateUser creates a new user in the database
func (r *Repository) CreateUser(user *models.User) error {
	user.ID = uuid.NewString()
	query := `
		INSERT INTO finsight.users (id, username, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4, CURRENT_TIMESTAMP)
		RETURNING created_at`
	err := r.db.QueryRow(query, user.ID, user.Username, user.Email, user.PasswordHash).
		Scan(&user.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindUserByEmail retrieves a user by email
func (r *Repository) FindUserByEmail(email string) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, username, email, password_hash, created_at
		FROM finsight.users
		WHERE email = $1`
	err := r.db.QueryRow(query, email).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// ListUsers retrieves all users, used by the weekly digest job
func (r *Repository) ListUsers() ([]models.User, error) {
	query := `
		SELECT id, username, email, created_at
		FROM finsight.users
		ORDER BY created_at`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// CreateTransaction creates a new transaction for a user
func (r *Repository) CreateTransaction(tx *models.Transaction) error {
	tx.ID = uuid.NewString()
	query := `
		INSERT INTO finsight.transactions (id, user_id, type, category, amount, date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING created_at, updated_at`
	err := r.db.QueryRow(query, tx.ID, tx.UserID, tx.Kind, tx.Category, tx.Amount, tx.Date).
		Scan(&tx.CreatedAt, &tx.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// ListTransactions retrieves all transactions for a user, newest first
func (r *Repository) ListTransactions(userID string) ([]models.Transaction, error) {
	query := `
		SELECT id, user_id, type, category, amount, date, created_at, updated_at
		FROM finsight.transactions
		WHERE user_id = $1
		ORDER BY date DESC NULLS LAST, created_at DESC`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txs []models.Transaction
	for rows.Next() {
		var tx models.Transaction
		if err := rows.Scan(&tx.ID, &tx.UserID, &tx.Kind, &tx.Category, &tx.Amount, &tx.Date, &tx.CreatedAt, &tx.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

// UpdateTransaction updates a user's transaction by id
func (r *Repository) UpdateTransaction(tx *models.Transaction) error {
	query := `
		UPDATE finsight.transactions
		SET type = $1, category = $2, amount = $3, date = $4, updated_at = CURRENT_TIMESTAMP
		WHERE id = $5 AND user_id = $6
		RETURNING updated_at`
	err := r.db.QueryRow(query, tx.Kind, tx.Category, tx.Amount, tx.Date, tx.ID, tx.UserID).
		Scan(&tx.UpdatedAt)
	if err == sql.ErrNoRows {
		return fmt.Errorf("transaction not found")
	}
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	return nil
}

// DeleteTransaction removes a user's transaction by id
func (r *Repository) DeleteTransaction(userID, txID string) error {
	res, err := r.db.Exec(`DELETE FROM finsight.transactions WHERE id = $1 AND user_id = $2`, txID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("transaction not found")
	}
	return nil
}
