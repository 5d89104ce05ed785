package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/aryan4codes/EthicalBank/internal/api/metrics"
	"github.com/aryan4codes/EthicalBank/internal/core/ports"
)

// TransactionDispatcher is the interface the handler uses to enqueue
// transactions for ingestion.
type TransactionDispatcher interface {
	Enqueue(txn ports.IngestTransactionInput)
	EnqueueBatch(txns []ports.IngestTransactionInput)
}

// TransactionHandler handles ledger reads and the ingestion feed.
type TransactionHandler struct {
	service    ports.TransactionService
	dispatcher TransactionDispatcher
}

func NewTransactionHandler(service ports.TransactionService, dispatcher TransactionDispatcher) *TransactionHandler {
	return &TransactionHandler{service: service, dispatcher: dispatcher}
}

type ingestTransactionRequest struct {
	AccountNumber string    `json:"account_number" validate:"required,min=8,max=20"`
	Type          string    `json:"type" validate:"required,oneof=debit credit"`
	Amount        float64   `json:"amount" validate:"required,gt=0"`
	Currency      string    `json:"currency" validate:"omitempty,len=3"`
	Description   string    `json:"description" validate:"omitempty,max=200"`
	Category      string    `json:"category" validate:"omitempty,max=50"`
	MerchantName  string    `json:"merchant_name" validate:"omitempty,max=100"`
	Reference     string    `json:"reference" validate:"omitempty,max=100"`
	OccurredAt    time.Time `json:"occurred_at"`
}

type acceptedResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count,omitempty"`
}

// Ingest handles POST /v1/transactions — enqueues a single transaction from
// the upstream feed, returns 202.
func (h *TransactionHandler) Ingest(c echo.Context) error {
	var req ingestTransactionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	h.dispatcher.Enqueue(toIngestInput(req))
	metrics.TransactionsAcceptedTotal.WithLabelValues("single").Inc()
	return c.JSON(http.StatusAccepted, acceptedResponse{Message: "transaction accepted"})
}

// IngestBatch handles POST /v1/transactions/batch — enqueues a batch,
// returns 202.
func (h *TransactionHandler) IngestBatch(c echo.Context) error {
	var reqs []ingestTransactionRequest
	if err := c.Bind(&reqs); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if len(reqs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "batch cannot be empty")
	}

	inputs := make([]ports.IngestTransactionInput, 0, len(reqs))
	for i, req := range reqs {
		if err := c.Validate(&req); err != nil {
			return echo.NewHTTPError(http.StatusUnprocessableEntity,
				fmt.Sprintf("transaction[%d]: %s", i, err.Error()))
		}
		inputs = append(inputs, toIngestInput(req))
	}

	h.dispatcher.EnqueueBatch(inputs)
	metrics.TransactionsAcceptedTotal.WithLabelValues("batch").Add(float64(len(inputs)))
	return c.JSON(http.StatusAccepted, acceptedResponse{
		Message: "transactions accepted",
		Count:   len(inputs),
	})
}

// List handles GET /api/transactions.
func (h *TransactionHandler) List(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.service.List(c.Request().Context(), ports.ListTransactionsFilter{
		UserID:    userID,
		AccountID: c.QueryParam("account_id"),
		Category:  c.QueryParam("category"),
		Type:      c.QueryParam("type"),
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// Get handles GET /api/transactions/:id.
func (h *TransactionHandler) Get(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	txn, err := h.service.Get(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, txn)
}

// toIngestInput maps the HTTP request to the service DTO.
func toIngestInput(r ingestTransactionRequest) ports.IngestTransactionInput {
	return ports.IngestTransactionInput{
		AccountNumber: r.AccountNumber,
		Type:          r.Type,
		Amount:        r.Amount,
		Currency:      r.Currency,
		Description:   r.Description,
		Category:      r.Category,
		MerchantName:  r.MerchantName,
		Reference:     r.Reference,
		OccurredAt:    r.OccurredAt,
	}
}
