package handlers_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/NicoGarabito/TPIIPB-gestion-pagos/internal/auth"
	"github.com/NicoGarabito/TPIIPB-gestion-pagos/internal/authz"
	"github.com/NicoGarabito/TPIIPB-gestion-pagos/internal/domain/payment"
	"github.com/NicoGarabito/TPIIPB-gestion-pagos/internal/domain/user"
	"github.com/NicoGarabito/TPIIPB-gestion-pagos/internal/http/handlers"
	"github.com/NicoGarabito/TPIIPB-gestion-pagos/internal/http/middlewares"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// Make sure Gin does not spam the console during the test

func init() {
	gin.SetMode(gin.TestMode)
}

// Fake ledger implementation of the handlers.PaymentLedger interface

type fakeLedger struct {
	createFn     func(ctx context.Context, req payment.CreatePaymentRequest) (payment.Payment, error)
	listFn       func(ctx context.Context, actor authz.Actor, requestedUserID *int64) ([]payment.Payment, error)
	updateFn     func(ctx context.Context, id int64, req payment.UpdatePaymentRequest) (payment.UpdateOutcome, error)
	deactivateFn func(ctx context.Context, id int64, actorID int64) error
}

func (f *fakeLedger) Create(ctx context.Context, req payment.CreatePaymentRequest) (payment.Payment, error) {
	if f.createFn != nil {
		return f.createFn(ctx, req)
	}
	return payment.Payment{}, nil
}

func (f *fakeLedger) List(ctx context.Context, actor authz.Actor, requestedUserID *int64) ([]payment.Payment, error) {
	if f.listFn != nil {
		return f.listFn(ctx, actor, requestedUserID)
	}
	return nil, nil
}

func (f *fakeLedger) Update(ctx context.Context, id int64, req payment.UpdatePaymentRequest) (payment.UpdateOutcome, error) {
	if f.updateFn != nil {
		return f.updateFn(ctx, id, req)
	}
	return payment.Updated, nil
}

func (f *fakeLedger) Deactivate(ctx context.Context, id int64, actorID int64) error {
	if f.deactivateFn != nil {
		return f.deactivateFn(ctx, id, actorID)
	}
	return nil
}

type staticVerifier struct {
	claims *auth.Claims
}

func (v *staticVerifier) Verify(token string) (*auth.Claims, error) {
	return v.claims, nil
}

// mounts the payments routes behind a gate resolving to the given actor

func paymentsRouter(l handlers.PaymentLedger, actor authz.Actor) *gin.Engine {
	r := gin.New()

	h := handlers.NewPaymentsHandler(l)
	gate := middlewares.NewGate(&staticVerifier{claims: &auth.Claims{UserID: actor.ID, Rol: actor.Rol}})

	r.POST("/api/payments", gate.Require(authz.OpCreatePayment), h.CreatePayment)
	r.GET("/api/payments", gate.Require(authz.OpListPayments), h.ListPayments)
	r.PUT("/api/payments/:id", gate.Require(authz.OpUpdatePayment), h.UpdatePayment)
	r.DELETE("/api/payments/:id", gate.Require(authz.OpDeactivatePayment), h.DeletePayment)

	return r
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var buf *bytes.Buffer
	if body != "" {
		buf = bytes.NewBufferString(body)
	} else {
		buf = &bytes.Buffer{}
	}

	req := httptest.NewRequest(method, path, buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer token")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

const validPaymentBody = `{
	"fechaPago": "2024-10-01T00:00:00Z",
	"monto": 100.00,
	"formaPago": "card",
	"ubicacion": "x",
	"userId": 1
}`

func TestCreatePaymentHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setUp          func(*fakeLedger)
		wantStatusCode int
	}{
		{
			name: "success",
			body: validPaymentBody,
			setUp: func(f *fakeLedger) {
				f.createFn = func(ctx context.Context, req payment.CreatePaymentRequest) (payment.Payment, error) {
					p := payment.NewFromCreateRequest(req)
					p.ID = 1
					return p, nil
				}
			},
			wantStatusCode: http.StatusCreated,
		},
		{
			name:           "validation_error",
			body:           `{"formaPago": ""}`,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "ledger_error",
			body: validPaymentBody,
			setUp: func(f *fakeLedger) {
				f.createFn = func(ctx context.Context, req payment.CreatePaymentRequest) (payment.Payment, error) {
					return payment.Payment{}, errors.New("db error")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeLedger{}

			if tt.setUp != nil {
				tt.setUp(f)
			}

			r := paymentsRouter(f, authz.Actor{ID: 1, Rol: user.RoleAdmin})
			w := doJSON(r, http.MethodPost, "/api/payments", tt.body)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}

func TestListPaymentsPassesActorAndFilter(t *testing.T) {
	var gotActor authz.Actor
	var gotRequested *int64

	f := &fakeLedger{
		listFn: func(ctx context.Context, actor authz.Actor, requestedUserID *int64) ([]payment.Payment, error) {
			gotActor = actor
			gotRequested = requestedUserID
			return []payment.Payment{}, nil
		},
	}

	r := paymentsRouter(f, authz.Actor{ID: 5, Rol: user.RoleSuper})
	w := doJSON(r, http.MethodGet, "/api/payments?userId=3", "")

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}

	if gotActor.ID != 5 || gotActor.Rol != user.RoleSuper {
		t.Fatalf("actor = %+v", gotActor)
	}

	if gotRequested == nil || *gotRequested != 3 {
		t.Fatalf("requestedUserID = %v, want 3", gotRequested)
	}
}

func TestListPaymentsLedgerError(t *testing.T) {
	f := &fakeLedger{
		listFn: func(ctx context.Context, actor authz.Actor, requestedUserID *int64) ([]payment.Payment, error) {
			return nil, errors.New("db error")
		},
	}

	r := paymentsRouter(f, authz.Actor{ID: 1, Rol: user.RoleAdmin})
	w := doJSON(r, http.MethodGet, "/api/payments", "")

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}
}

func TestUpdatePaymentHandler(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		setUp          func(*fakeLedger)
		wantStatusCode int
	}{
		{
			name: "updated",
			path: "/api/payments/1",
			setUp: func(f *fakeLedger) {
				f.updateFn = func(ctx context.Context, id int64, req payment.UpdatePaymentRequest) (payment.UpdateOutcome, error) {
					return payment.Updated, nil
				}
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name: "not_modified",
			path: "/api/payments/1",
			setUp: func(f *fakeLedger) {
				f.updateFn = func(ctx context.Context, id int64, req payment.UpdatePaymentRequest) (payment.UpdateOutcome, error) {
					return payment.NotModified, nil
				}
			},
			wantStatusCode: http.StatusNotModified,
		},
		{
			name: "not_found",
			path: "/api/payments/42",
			setUp: func(f *fakeLedger) {
				f.updateFn = func(ctx context.Context, id int64, req payment.UpdatePaymentRequest) (payment.UpdateOutcome, error) {
					return payment.NotModified, payment.ErrNotFound
				}
			},
			wantStatusCode: http.StatusNotFound,
		},
		{
			name:           "bad_id",
			path:           "/api/payments/abc",
			wantStatusCode: http.StatusNotFound,
		},
		{
			name: "ledger_error",
			path: "/api/payments/1",
			setUp: func(f *fakeLedger) {
				f.updateFn = func(ctx context.Context, id int64, req payment.UpdatePaymentRequest) (payment.UpdateOutcome, error) {
					return payment.NotModified, errors.New("db error")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeLedger{}

			if tt.setUp != nil {
				tt.setUp(f)
			}

			r := paymentsRouter(f, authz.Actor{ID: 1, Rol: user.RoleAdmin})
			w := doJSON(r, http.MethodPut, tt.path, `{"ubicacion": "y"}`)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}

func TestDeletePaymentHandler(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		setUp          func(*fakeLedger)
		wantStatusCode int
	}{
		{
			name: "success_passes_actor",
			path: "/api/payments/1",
			setUp: func(f *fakeLedger) {
				f.deactivateFn = func(ctx context.Context, id int64, actorID int64) error {
					if id != 1 || actorID != 2 {
						return errors.New("wrong arguments")
					}
					return nil
				}
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name: "not_found",
			path: "/api/payments/42",
			setUp: func(f *fakeLedger) {
				f.deactivateFn = func(ctx context.Context, id int64, actorID int64) error {
					return payment.ErrNotFound
				}
			},
			wantStatusCode: http.StatusNotFound,
		},
		{
			name: "deactivation_failed",
			path: "/api/payments/1",
			setUp: func(f *fakeLedger) {
				f.deactivateFn = func(ctx context.Context, id int64, actorID int64) error {
					return payment.ErrDeactivationFailed
				}
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeLedger{}

			if tt.setUp != nil {
				tt.setUp(f)
			}

			r := paymentsRouter(f, authz.Actor{ID: 2, Rol: user.RoleSuper})
			w := doJSON(r, http.MethodDelete, tt.path, "")

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}

func TestCreatePaymentKeepsExactAmount(t *testing.T) {
	var got payment.CreatePaymentRequest

	f := &fakeLedger{
		createFn: func(ctx context.Context, req payment.CreatePaymentRequest) (payment.Payment, error) {
			got = req
			p := payment.NewFromCreateRequest(req)
			p.ID = 1
			return p, nil
		},
	}

	r := paymentsRouter(f, authz.Actor{ID: 1, Rol: user.RoleAdmin})
	w := doJSON(r, http.MethodPost, "/api/payments", validPaymentBody)

	if w.Code != http.StatusCreated {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}

	if !got.Monto.Equal(decimal.RequireFromString("100.00")) {
		t.Fatalf("monto = %s, want 100.00", got.Monto)
	}

	want := time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)
	if !got.FechaPago.Equal(want) {
		t.Fatalf("fechaPago = %s, want %s", got.FechaPago, want)
	}
}
