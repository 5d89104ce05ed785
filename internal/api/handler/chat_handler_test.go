package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/aryan4codes/EthicalBank/internal/core/domain"
	"github.com/aryan4codes/EthicalBank/internal/core/ports"
)

type stubChatService struct {
	answerFn  func(ctx context.Context, in ports.AnswerQueryInput) (*ports.AnswerQueryResult, error)
	historyFn func(ctx context.Context, userID string, limit int) ([]*domain.QueryLog, error)
}

func (s *stubChatService) AnswerQuery(ctx context.Context, in ports.AnswerQueryInput) (*ports.AnswerQueryResult, error) {
	return s.answerFn(ctx, in)
}

func (s *stubChatService) History(ctx context.Context, userID string, limit int) ([]*domain.QueryLog, error) {
	return s.historyFn(ctx, userID, limit)
}

func chatContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", "user_1")
	c.Set("external_id", "auth0|abc")
	return c, rec
}

func TestChatHandler_Query_Success(t *testing.T) {
	stub := &stubChatService{
		answerFn: func(_ context.Context, in ports.AnswerQueryInput) (*ports.AnswerQueryResult, error) {
			if in.UserID != "user_1" || in.Query != "what is my balance?" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &ports.AnswerQueryResult{
				Response:            "Your balance is $250.",
				QueryType:           "account",
				AttributesAccessed:  []string{"accounts.balance"},
				AttributesReported:  []string{"accounts.balance"},
				AttributesValidated: []string{"accounts.balance"},
				ValidationStatus:    domain.ValidationMatched,
				AuditID:             "audit_1",
			}, nil
		},
	}
	handler := NewChatHandler(stub)

	c, rec := chatContext(t, http.MethodPost, "/api/chat/query", `{"query":"what is my balance?"}`)
	if err := handler.Query(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["response"] != "Your balance is $250." {
		t.Fatalf("unexpected response payload: %+v", resp)
	}
	if resp["validation_status"] != string(domain.ValidationMatched) {
		t.Fatalf("unexpected validation status: %v", resp["validation_status"])
	}
	if resp["audit_id"] != "audit_1" {
		t.Fatalf("unexpected audit id: %v", resp["audit_id"])
	}
}

func TestChatHandler_Query_EmptyQueryRejected(t *testing.T) {
	stub := &stubChatService{
		answerFn: func(_ context.Context, _ ports.AnswerQueryInput) (*ports.AnswerQueryResult, error) {
			t.Fatalf("service must not be called for an invalid payload")
			return nil, nil
		},
	}
	handler := NewChatHandler(stub)

	c, _ := chatContext(t, http.MethodPost, "/api/chat/query", `{"query":""}`)
	err := handler.Query(c)
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 HTTPError, got %v", err)
	}
}

func TestChatHandler_Query_MissingIdentity(t *testing.T) {
	handler := NewChatHandler(&stubChatService{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/chat/query", strings.NewReader(`{"query":"hi"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.Query(c)
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestChatHandler_Query_ServiceErrorPropagates(t *testing.T) {
	stub := &stubChatService{
		answerFn: func(_ context.Context, _ ports.AnswerQueryInput) (*ports.AnswerQueryResult, error) {
			return nil, domain.ErrCompletionUnavailable
		},
	}
	handler := NewChatHandler(stub)

	c, _ := chatContext(t, http.MethodPost, "/api/chat/query", `{"query":"hi"}`)
	if err := handler.Query(c); !errors.Is(err, domain.ErrCompletionUnavailable) {
		t.Fatalf("expected ErrCompletionUnavailable, got %v", err)
	}
}

func TestChatHandler_History(t *testing.T) {
	stub := &stubChatService{
		historyFn: func(_ context.Context, userID string, limit int) ([]*domain.QueryLog, error) {
			if userID != "user_1" {
				t.Fatalf("unexpected user: %s", userID)
			}
			if limit != 5 {
				t.Fatalf("expected limit 5, got %d", limit)
			}
			return []*domain.QueryLog{{ID: "audit_1", UserID: userID, QueryText: "hi"}}, nil
		},
	}
	handler := NewChatHandler(stub)

	c, rec := chatContext(t, http.MethodGet, "/api/chat/history?limit=5", "")
	if err := handler.History(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		History []map[string]any `json:"history"`
		Count   int              `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Count != 1 || len(resp.History) != 1 {
		t.Fatalf("unexpected history payload: %+v", resp)
	}
}
