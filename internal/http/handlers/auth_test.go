package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/NicoGarabito/TPIIPB-gestion-pagos/internal/domain/user"
	"github.com/NicoGarabito/TPIIPB-gestion-pagos/internal/http/handlers"
	"github.com/NicoGarabito/TPIIPB-gestion-pagos/internal/security"
	"github.com/gin-gonic/gin"
)

type fakeUserStore struct {
	getByCorreoFn func(ctx context.Context, correo string) (user.User, error)
	createFn      func(ctx context.Context, nombre, correo, passwordHash, rol string) (user.User, error)
}

func (f *fakeUserStore) GetByCorreo(ctx context.Context, correo string) (user.User, error) {
	if f.getByCorreoFn != nil {
		return f.getByCorreoFn(ctx, correo)
	}
	return user.User{}, user.ErrNotFound
}

func (f *fakeUserStore) Create(ctx context.Context, nombre, correo, passwordHash, rol string) (user.User, error) {
	if f.createFn != nil {
		return f.createFn(ctx, nombre, correo, passwordHash, rol)
	}
	return user.User{ID: 1, Nombre: nombre, Correo: correo, PasswordHash: passwordHash, Rol: rol}, nil
}

type fakeLoginRecorder struct {
	recorded []int64
	err      error
}

func (f *fakeLoginRecorder) Create(ctx context.Context, userID int64) error {
	if f.err != nil {
		return f.err
	}
	f.recorded = append(f.recorded, userID)
	return nil
}

type fakeSigner struct{}

func (fakeSigner) Sign(userID int64, rol string) (string, error) {
	return "signed-token", nil
}

func authRouter(store *fakeUserStore, logins *fakeLoginRecorder) *gin.Engine {
	r := gin.New()

	h := handlers.NewAuthHandler(store, store, logins, fakeSigner{}, nil)

	r.POST("/api/users/register", h.Register)
	r.POST("/api/users/login", h.Login)

	return r
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setUp          func(*fakeUserStore)
		wantStatusCode int
		wantRol        string
	}{
		{
			name:           "defaults_to_usuario_role",
			body:           `{"nombre": "Nico", "correo": "nico@example.com", "contraseña": "secret1"}`,
			wantStatusCode: http.StatusCreated,
			wantRol:        user.RoleUsuario,
		},
		{
			name:           "explicit_admin_role",
			body:           `{"nombre": "Nico", "correo": "nico@example.com", "contraseña": "secret1", "rol": "admin"}`,
			wantStatusCode: http.StatusCreated,
			wantRol:        user.RoleAdmin,
		},
		{
			name: "duplicate_correo",
			body: `{"nombre": "Nico", "correo": "nico@example.com", "contraseña": "secret1"}`,
			setUp: func(f *fakeUserStore) {
				f.createFn = func(ctx context.Context, nombre, correo, passwordHash, rol string) (user.User, error) {
					return user.User{}, user.ErrCorreoTaken
				}
			},
			wantStatusCode: http.StatusConflict,
		},
		{
			name:           "missing_correo",
			body:           `{"nombre": "Nico", "contraseña": "secret1"}`,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "short_password",
			body:           `{"nombre": "Nico", "correo": "nico@example.com", "contraseña": "abc"}`,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "unknown_role",
			body:           `{"nombre": "Nico", "correo": "nico@example.com", "contraseña": "secret1", "rol": "root"}`,
			wantStatusCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeUserStore{}

			if tt.setUp != nil {
				tt.setUp(store)
			}

			r := authRouter(store, &fakeLoginRecorder{})
			w := doJSON(r, http.MethodPost, "/api/users/register", tt.body)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if tt.wantRol == "" {
				return
			}

			var created user.User
			if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
				t.Fatalf("unmarshal response: %v", err)
			}

			if created.Rol != tt.wantRol {
				t.Fatalf("rol = %q, want %q", created.Rol, tt.wantRol)
			}
		})
	}
}

func TestRegisterHashesPassword(t *testing.T) {
	var storedHash string

	store := &fakeUserStore{
		createFn: func(ctx context.Context, nombre, correo, passwordHash, rol string) (user.User, error) {
			storedHash = passwordHash
			return user.User{ID: 1, Nombre: nombre, Correo: correo, Rol: rol}, nil
		},
	}

	r := authRouter(store, &fakeLoginRecorder{})
	w := doJSON(r, http.MethodPost, "/api/users/register", `{"nombre": "Nico", "correo": "nico@example.com", "contraseña": "secret1"}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}

	if storedHash == "" || storedHash == "secret1" {
		t.Fatalf("password stored without hashing: %q", storedHash)
	}

	if err := security.CheckPassword(storedHash, "secret1"); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}

	// the response must never leak the hash
	var raw map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &raw); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}

	for key := range raw {
		if key == "passwordHash" || key == "contraseña" {
			t.Fatalf("response leaks %q", key)
		}
	}
}

func TestLogin(t *testing.T) {
	hash, err := security.HashPassword("secret1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	known := user.User{ID: 7, Nombre: "Nico", Correo: "nico@example.com", PasswordHash: hash, Rol: user.RoleAdmin}

	lookup := func(ctx context.Context, correo string) (user.User, error) {
		if correo == known.Correo {
			return known, nil
		}
		return user.User{}, user.ErrNotFound
	}

	tests := []struct {
		name           string
		body           string
		wantStatusCode int
		wantToken      bool
	}{
		{
			name:           "success",
			body:           `{"correo": "nico@example.com", "contraseña": "secret1"}`,
			wantStatusCode: http.StatusOK,
			wantToken:      true,
		},
		{
			name:           "wrong_password",
			body:           `{"correo": "nico@example.com", "contraseña": "nope99"}`,
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "unknown_correo",
			body:           `{"correo": "ghost@example.com", "contraseña": "secret1"}`,
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "missing_password",
			body:           `{"correo": "nico@example.com"}`,
			wantStatusCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeUserStore{getByCorreoFn: lookup}
			logins := &fakeLoginRecorder{}

			r := authRouter(store, logins)
			w := doJSON(r, http.MethodPost, "/api/users/login", tt.body)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if !tt.wantToken {
				if len(logins.recorded) != 0 {
					t.Fatalf("login row recorded for failed attempt: %v", logins.recorded)
				}
				return
			}

			var resp map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("unmarshal response: %v", err)
			}

			if resp["token"] != "signed-token" {
				t.Fatalf("token = %q", resp["token"])
			}

			if len(logins.recorded) != 1 || logins.recorded[0] != known.ID {
				t.Fatalf("login rows = %v, want [%d]", logins.recorded, known.ID)
			}
		})
	}
}

func TestLoginSurvivesAuditFailure(t *testing.T) {
	hash, err := security.HashPassword("secret1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	store := &fakeUserStore{
		getByCorreoFn: func(ctx context.Context, correo string) (user.User, error) {
			return user.User{ID: 7, Correo: correo, PasswordHash: hash, Rol: user.RoleUsuario}, nil
		},
	}

	logins := &fakeLoginRecorder{err: context.DeadlineExceeded}

	r := authRouter(store, logins)
	w := doJSON(r, http.MethodPost, "/api/users/login", `{"correo": "nico@example.com", "contraseña": "secret1"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}
}
