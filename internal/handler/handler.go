package handler

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/finsight/finsight-service/internal/models"
	"github.com/finsight/finsight-service/internal/realtime"
	"github.com/finsight/finsight-service/internal/service"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Handler exposes the service over HTTP
type Handler struct {
	svc      *service.Service
	hub      *realtime.Hub
	log      *logrus.Logger
	upgrader websocket.Upgrader
}

// NewHandler initializes a new handler
func NewHandler(svc *service.Service, hub *realtime.Hub, log *logrus.Logger) *Handler {
	return &Handler{
		svc: svc,
		hub: hub,
		log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The API is token-authenticated; cross-origin pages are fine.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

// Register handles user registration
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		http.Error(w, "Email and password are required", http.StatusBadRequest)
		return
	}

	user, err := h.svc.Register(req.Username, req.Email, req.Password)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to register: %v", err), http.StatusBadRequest)
		return
	}
	respondJSON(w, http.StatusCreated, user)
}

// Login handles user authentication
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	token, err := h.svc.Login(req.Email, req.Password)
	if err != nil {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

// ListTransactions returns the user's transactions
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := h.svc.ListTransactions(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to list transactions: %v", err), http.StatusInternalServerError)
		return
	}
	if txs == nil {
		txs = []models.Transaction{}
	}
	respondJSON(w, http.StatusOK, txs)
}

// CreateTransaction stores a new transaction
func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var tx models.Transaction
	if err := json.NewDecoder(r.Body).Decode(&tx); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	created, err := h.svc.AddTransaction(r.Context(), &tx)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to create transaction: %v", err), http.StatusBadRequest)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// UpdateTransaction modifies an existing transaction
func (h *Handler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var tx models.Transaction
	if err := json.NewDecoder(r.Body).Decode(&tx); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	tx.ID = mux.Vars(r)["id"]

	updated, err := h.svc.UpdateTransaction(r.Context(), &tx)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to update transaction: %v", err), http.StatusBadRequest)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// DeleteTransaction removes a transaction
func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteTransaction(r.Context(), mux.Vars(r)["id"]); err != nil {
		http.Error(w, fmt.Sprintf("Failed to delete transaction: %v", err), http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Analytics returns the full risk report for the user
func (h *Handler) Analytics(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.Report(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to build report: %v", err), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

// Summary returns income/expense totals for the user
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.Summary(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to build summary: %v", err), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// importBody returns the uploaded file when the request is multipart,
// otherwise the raw request body
func importBody(r *http.Request) (io.ReadCloser, error) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		return r.Body, nil
	}
	f, _, err := r.FormFile("file")
	if err != nil {
		return nil, fmt.Errorf("missing file field: %w", err)
	}
	return f, nil
}

// ImportCSV ingests a CSV bank export
func (h *Handler) ImportCSV(w http.ResponseWriter, r *http.Request) {
	body, err := importBody(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer body.Close()

	count, err := h.svc.ImportCSV(r.Context(), body)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to import CSV: %v", err), http.StatusBadRequest)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"imported": count})
}

// ImportStatement ingests an OFX-style XML statement
func (h *Handler) ImportStatement(w http.ResponseWriter, r *http.Request) {
	body, err := importBody(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer body.Close()

	count, err := h.svc.ImportStatement(r.Context(), body)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to import statement: %v", err), http.StatusBadRequest)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"imported": count})
}

// ExportCSV writes the user's transactions as a canonical four-column CSV
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	txs, err := h.svc.ListTransactions(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to export: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="transactions.csv"`)

	// The status is already on the wire at this point; a mid-stream
	// failure can only be logged, not reported to the client.
	if err := writeTransactionsCSV(w, txs); err != nil {
		h.log.Errorf("Failed to stream CSV export: %v", err)
	}
}

// writeTransactionsCSV writes the canonical four-column CSV. Undated
// transactions get an empty date field.
func writeTransactionsCSV(w io.Writer, txs []models.Transaction) error {
	writer := csv.NewWriter(w)
	writer.Write([]string{"type", "category", "amount", "date"})
	for _, tx := range txs {
		date := ""
		if tx.Date != nil {
			date = tx.Date.Format("2006-01-02")
		}
		writer.Write([]string{tx.Kind, tx.Category, fmt.Sprintf("%.2f", tx.Amount), date})
	}
	writer.Flush()
	return writer.Error()
}

// Websocket upgrades the connection and streams report updates to the user.
// An initial report is pushed on connect; afterwards the hub delivers a
// fresh report whenever the user's transactions change.
func (h *Handler) Websocket(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok || userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Errorf("Failed to upgrade websocket for user %s: %v", userID, err)
		return
	}
	h.hub.Register(userID, conn)
	defer h.hub.Unregister(userID, conn)

	if report, err := h.svc.Report(r.Context()); err == nil {
		conn.WriteJSON(report)
	}

	// Drain client frames until the peer goes away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
