package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/borgir/video-archive/internal/core/domain"
	"github.com/borgir/video-archive/internal/core/ports"
)

type stubAdminService struct {
	listFn func(ctx context.Context) ([]*domain.User, error)
	addFn  func(ctx context.Context, in ports.AddUserInput) (*domain.User, error)
}

func (s *stubAdminService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.listFn(ctx)
}

func (s *stubAdminService) AddUser(ctx context.Context, in ports.AddUserInput) (*domain.User, error) {
	return s.addFn(ctx, in)
}

func TestAdminHandler_ListUsers_OmitsHashes(t *testing.T) {
	e := newTestEcho()
	stub := &stubAdminService{
		listFn: func(context.Context) ([]*domain.User, error) {
			return []*domain.User{
				{ID: "u1", Username: "a", Email: "a@x.com", PasswordHash: "$2a$10$secret", Role: domain.RoleUser},
			}, nil
		},
	}

	c, rec := jsonContext(e, http.MethodGet, "/api/admin/users", nil)
	if err := NewAdminHandler(stub).ListUsers(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "$2a$10$secret") {
		t.Fatalf("password hash leaked: %s", rec.Body.String())
	}

	var users []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &users); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(users) != 1 || users[0]["email"] != "a@x.com" || users[0]["role"] != "user" {
		t.Fatalf("unexpected payload: %+v", users)
	}
}

func TestAdminHandler_AddUser_Created(t *testing.T) {
	e := newTestEcho()
	stub := &stubAdminService{
		addFn: func(_ context.Context, in ports.AddUserInput) (*domain.User, error) {
			return &domain.User{ID: "u9", Username: in.Username, Email: in.Email, Role: domain.RoleUser}, nil
		},
	}

	c, rec := jsonContext(e, http.MethodPost, "/api/admin/users", strings.NewReader(`{"username":"carol","email":"carol@x.com"}`))
	if err := NewAdminHandler(stub).AddUser(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp addUserResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.User.ID != "u9" || resp.User.Role != "user" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

// A role supplied in the body is never honoured.
func TestAdminHandler_AddUser_IgnoresRoleField(t *testing.T) {
	e := newTestEcho()
	var got ports.AddUserInput
	stub := &stubAdminService{
		addFn: func(_ context.Context, in ports.AddUserInput) (*domain.User, error) {
			got = in
			return &domain.User{ID: "u1", Username: in.Username, Email: in.Email, Role: domain.RoleUser}, nil
		},
	}

	body := `{"username":"mallory","email":"m@x.com","role":"admin"}`
	c, rec := jsonContext(e, http.MethodPost, "/api/admin/users", strings.NewReader(body))
	if err := NewAdminHandler(stub).AddUser(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got.Username != "mallory" || strings.Contains(rec.Body.String(), `"role":"admin"`) {
		t.Fatalf("role field must be ignored: %s", rec.Body.String())
	}
}

func TestAdminHandler_AddUser_Validation(t *testing.T) {
	e := newTestEcho()
	stub := &stubAdminService{
		addFn: func(context.Context, ports.AddUserInput) (*domain.User, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAdminHandler(stub)

	for _, body := range []string{`{"username":"x"}`, `{"email":"x@x.com"}`, `{"username":"x","email":"nope"}`, "{"} {
		c, _ := jsonContext(e, http.MethodPost, "/api/admin/users", strings.NewReader(body))
		if code := httpStatus(t, handler.AddUser(c)); code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", body, code)
		}
	}
}

func TestAdminHandler_AddUser_ServiceErrors(t *testing.T) {
	e := newTestEcho()
	notifyErr := fmt.Errorf("%w: %w", domain.ErrNotification, errors.New("smtp down"))

	for _, want := range []error{domain.ErrUserExists, notifyErr} {
		stub := &stubAdminService{
			addFn: func(context.Context, ports.AddUserInput) (*domain.User, error) {
				return &domain.User{}, want
			},
		}
		c, rec := jsonContext(e, http.MethodPost, "/api/admin/users", strings.NewReader(`{"username":"d","email":"d@x.com"}`))
		err := NewAdminHandler(stub).AddUser(c)
		if !errors.Is(err, want) {
			t.Fatalf("expected %v, got %v", want, err)
		}
		if rec.Body.Len() != 0 {
			t.Fatalf("handler must leave rendering to the error handler")
		}
	}
}
