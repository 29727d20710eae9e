package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/NicoGarabito/TPIIPB-gestion-pagos/internal/config"
	"github.com/NicoGarabito/TPIIPB-gestion-pagos/internal/domain/user"
	"github.com/NicoGarabito/TPIIPB-gestion-pagos/internal/security"
	"github.com/gin-gonic/gin"
)

type UserReader interface {
	GetByCorreo(ctx context.Context, correo string) (user.User, error)
}

type UserWriter interface {
	Create(ctx context.Context, nombre, correo, passwordHash, rol string) (user.User, error)
}

// LoginRecorder appends one audit row per successful authentication.
type LoginRecorder interface {
	Create(ctx context.Context, userID int64) error
}

type TokenSigner interface {
	Sign(userID int64, rol string) (string, error)
}

type AuthHandler struct {
	users      UserReader
	userWriter UserWriter
	logins     LoginRecorder
	jwt        TokenSigner
	log        *slog.Logger
}

func NewAuthHandler(users UserReader, userWriter UserWriter, logins LoginRecorder, jwt TokenSigner, log *slog.Logger) *AuthHandler {
	if log == nil {
		log = slog.Default()
	}

	return &AuthHandler{
		users:      users,
		userWriter: userWriter,
		logins:     logins,
		jwt:        jwt,
		log:        log,
	}
}

func (h *AuthHandler) Register(ctx *gin.Context) {
	var req user.RegisterRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	hash, err := security.HashPassword(req.Contrasena)

	if err != nil {
		RespondServerFault(ctx, "Could not create user", err)
		return
	}

	rol := req.Rol

	// default role for new users
	if rol == "" {
		rol = user.RoleUsuario
	}

	u, err := h.userWriter.Create(cctx, req.Nombre, req.Correo, hash, rol)

	if err != nil {
		if errors.Is(err, user.ErrCorreoTaken) {
			RespondMessage(ctx, http.StatusConflict, "email already exist")
			return
		}

		RespondServerFault(ctx, "Could not create user", err)
		return
	}

	ctx.JSON(http.StatusCreated, u)
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req user.LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	// short timeout for DB lookup
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	foundUser, err := h.users.GetByCorreo(cctx, req.Correo)
	if err != nil {
		RespondMessage(ctx, http.StatusUnauthorized, "wrong email or password")
		return
	}

	err = security.CheckPassword(foundUser.PasswordHash, req.Contrasena)

	if err != nil {
		RespondMessage(ctx, http.StatusUnauthorized, "wrong email or password")
		return
	}

	token, err := h.jwt.Sign(foundUser.ID, foundUser.Rol)

	if err != nil {
		RespondServerFault(ctx, "Could not generate token", err)
		return
	}

	// best effort: the login still succeeds if the audit append fails
	if err := h.logins.Create(cctx, foundUser.ID); err != nil {
		h.log.WarnContext(cctx, "login audit append failed", "user_id", foundUser.ID, "err", err)
	}

	ctx.JSON(http.StatusOK, gin.H{"token": token})
}
