package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/finsight/finsight-service/internal/analytics"
	"github.com/finsight/finsight-service/internal/config"
	"github.com/finsight/finsight-service/internal/ingest"
	"github.com/finsight/finsight-service/internal/models"
	"github.com/finsight/finsight-service/internal/realtime"
	"github.com/finsight/finsight-service/internal/repository"
	"github.com/finsight/finsight-service/internal/utils/email"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// Service handles business logic
type Service struct {
	repo     *repository.Repository
	analyzer *analytics.Analyzer
	hub      *realtime.Hub
	mailer   *email.Sender
	log      *logrus.Logger
	config   *config.Config
}

// NewService initializes a new service
func NewService(repo *repository.Repository, analyzer *analytics.Analyzer, hub *realtime.Hub, mailer *email.Sender, log *logrus.Logger, cfg *config.Config) *Service {
	return &Service{repo: repo, analyzer: analyzer, hub: hub, mailer: mailer, log: log, config: cfg}
}

// Register creates a new user with hashed password
func (s *Service) Register(username, email, password string) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	if err := s.repo.CreateUser(user); err != nil {
		return nil, err
	}

	s.log.Infof("User registered: %s", user.Email)
	return user, nil
}

// Login authenticates a user and returns a JWT token
func (s *Service) Login(email, password string) (string, error) {
	user, err := s.repo.FindUserByEmail(email)
	if err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   user.ID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
	})
	tokenString, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.log.Infof("User logged in: %s", user.Email)
	return tokenString, nil
}

// userIDFromContext extracts the authenticated user id set by the auth middleware
func userIDFromContext(ctx context.Context) (string, error) {
	userID, ok := ctx.Value("userID").(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("user ID not found in context")
	}
	return userID, nil
}

// AddTransaction stores a transaction for the authenticated user and pushes
// a fresh report to their websocket connections
func (s *Service) AddTransaction(ctx context.Context, tx *models.Transaction) (*models.Transaction, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if tx.Kind != models.KindIncome && tx.Kind != models.KindExpense {
		return nil, fmt.Errorf("transaction type must be %q or %q", models.KindIncome, models.KindExpense)
	}
	if tx.Amount < 0 {
		return nil, fmt.Errorf("amount must be non-negative")
	}
	if tx.Category == "" {
		tx.Category = "Other"
	}
	tx.UserID = userID

	if err := s.repo.CreateTransaction(tx); err != nil {
		return nil, err
	}

	s.log.Infof("Transaction created for user %s: %s %s %.2f", userID, tx.Kind, tx.Category, tx.Amount)
	s.pushReport(userID)
	return tx, nil
}

// ListTransactions returns all transactions for the authenticated user
func (s *Service) ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.ListTransactions(userID)
}

// UpdateTransaction updates one of the user's transactions
func (s *Service) UpdateTransaction(ctx context.Context, tx *models.Transaction) (*models.Transaction, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if tx.Kind != models.KindIncome && tx.Kind != models.KindExpense {
		return nil, fmt.Errorf("transaction type must be %q or %q", models.KindIncome, models.KindExpense)
	}
	tx.UserID = userID

	if err := s.repo.UpdateTransaction(tx); err != nil {
		return nil, err
	}

	s.pushReport(userID)
	return tx, nil
}

// DeleteTransaction removes one of the user's transactions
func (s *Service) DeleteTransaction(ctx context.Context, txID string) error {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteTransaction(userID, txID); err != nil {
		return err
	}
	s.pushReport(userID)
	return nil
}

// Report computes the full risk report for the authenticated user
func (s *Service) Report(ctx context.Context) (*models.RiskReport, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.reportFor(userID)
}

func (s *Service) reportFor(userID string) (*models.RiskReport, error) {
	txs, err := s.repo.ListTransactions(userID)
	if err != nil {
		return nil, err
	}
	return s.analyzer.Analyze(txs, time.Now().UTC()), nil
}

// Summary returns plain totals for the authenticated user
func (s *Service) Summary(ctx context.Context) (*models.Summary, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	txs, err := s.repo.ListTransactions(userID)
	if err != nil {
		return nil, err
	}

	sum := &models.Summary{ByCategory: make(map[string]float64)}
	for _, tx := range txs {
		if tx.Kind == models.KindIncome {
			sum.TotalIncome += tx.Amount
		} else {
			sum.TotalExpense += tx.Amount
			sum.ByCategory[tx.Category] += tx.Amount
		}
	}
	sum.NetBalance = sum.TotalIncome - sum.TotalExpense
	return sum, nil
}

// ImportCSV parses a CSV bank export and stores its rows for the user.
// Returns the number of imported transactions.
func (s *Service) ImportCSV(ctx context.Context, r io.Reader) (int, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return 0, err
	}
	txs, err := ingest.ParseCSV(r)
	if err != nil {
		return 0, err
	}
	return s.storeImported(userID, txs)
}

// ImportStatement parses an OFX-style XML statement and stores its
// transactions for the user
func (s *Service) ImportStatement(ctx context.Context, r io.Reader) (int, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return 0, err
	}
	txs, err := ingest.ParseStatement(r)
	if err != nil {
		return 0, err
	}
	return s.storeImported(userID, txs)
}

func (s *Service) storeImported(userID string, txs []models.Transaction) (int, error) {
	imported := 0
	for i := range txs {
		txs[i].UserID = userID
		if err := s.repo.CreateTransaction(&txs[i]); err != nil {
			s.log.Errorf("Failed to store imported transaction for user %s: %v", userID, err)
			continue
		}
		imported++
	}
	s.log.Infof("Imported %d/%d transactions for user %s", imported, len(txs), userID)
	if imported > 0 {
		s.pushReport(userID)
	}
	return imported, nil
}

// SendWeeklyDigests emails every user a digest of their current risk report.
// Invoked by the cron schedule.
func (s *Service) SendWeeklyDigests() {
	users, err := s.repo.ListUsers()
	if err != nil {
		s.log.Errorf("Failed to list users for digest: %v", err)
		return
	}
	for _, u := range users {
		report, err := s.reportFor(u.ID)
		if err != nil {
			s.log.Errorf("Failed to build digest report for user %s: %v", u.ID, err)
			continue
		}
		if err := s.mailer.SendRiskDigest(u.Email, u.Username, report); err != nil {
			s.log.Errorf("Failed to send digest to %s: %v", u.Email, err)
		}
	}
}

// pushReport recomputes the user's report and fans it out over any open
// websocket connections. Failures are logged, never surfaced to the caller.
func (s *Service) pushReport(userID string) {
	report, err := s.reportFor(userID)
	if err != nil {
		s.log.Errorf("Failed to build report push for user %s: %v", userID, err)
		return
	}
	s.hub.Push(userID, report)
}
