package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/NicoGarabito/TPIIPB-gestion-pagos/internal/authz"
	"github.com/NicoGarabito/TPIIPB-gestion-pagos/internal/domain/payment"
	"github.com/NicoGarabito/TPIIPB-gestion-pagos/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

// PaymentLedger is the ledger surface the handler needs.
type PaymentLedger interface {
	Create(ctx context.Context, req payment.CreatePaymentRequest) (payment.Payment, error)
	List(ctx context.Context, actor authz.Actor, requestedUserID *int64) ([]payment.Payment, error)
	Update(ctx context.Context, id int64, req payment.UpdatePaymentRequest) (payment.UpdateOutcome, error)
	Deactivate(ctx context.Context, id int64, actorID int64) error
}

type PaymentsHandler struct {
	ledger PaymentLedger
}

func NewPaymentsHandler(ledger PaymentLedger) *PaymentsHandler {
	return &PaymentsHandler{ledger: ledger}
}

func (h *PaymentsHandler) CreatePayment(ctx *gin.Context) {
	var req payment.CreatePaymentRequest

	if !BindJSON(ctx, &req) {
		return
	}

	created, err := h.ledger.Create(ctx.Request.Context(), req)

	if err != nil {
		RespondServerFault(ctx, "payment creation failed", err)
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

func (h *PaymentsHandler) ListPayments(ctx *gin.Context) {
	actor, ok := middlewares.ActorFromContext(ctx)

	if !ok {
		RespondMessage(ctx, http.StatusForbidden, "token required")
		return
	}

	var requested *int64

	if raw := ctx.Query("userId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)

		if err == nil {
			requested = &id
		}
	}

	payments, err := h.ledger.List(ctx.Request.Context(), actor, requested)

	if err != nil {
		RespondServerFault(ctx, "payment fetch failed", err)
		return
	}

	ctx.JSON(http.StatusOK, payments)
}

func (h *PaymentsHandler) UpdatePayment(ctx *gin.Context) {
	id, ok := paymentID(ctx)

	if !ok {
		return
	}

	var req payment.UpdatePaymentRequest

	if !BindJSON(ctx, &req) {
		return
	}

	outcome, err := h.ledger.Update(ctx.Request.Context(), id, req)

	if err != nil {
		if errors.Is(err, payment.ErrNotFound) {
			RespondMessage(ctx, http.StatusNotFound, "payment not found")
			return
		}

		RespondServerFault(ctx, "payment update failed", err)
		return
	}

	if outcome == payment.NotModified {
		// net/http suppresses the body on 304, the status is the contract
		RespondMessage(ctx, http.StatusNotModified, "El pago no se modifico")
		return
	}

	RespondMessage(ctx, http.StatusOK, "payment updated successfully")
}

func (h *PaymentsHandler) DeletePayment(ctx *gin.Context) {
	id, ok := paymentID(ctx)

	if !ok {
		return
	}

	actor, _ := middlewares.ActorFromContext(ctx)

	err := h.ledger.Deactivate(ctx.Request.Context(), id, actor.ID)

	if err != nil {
		if errors.Is(err, payment.ErrNotFound) {
			RespondMessage(ctx, http.StatusNotFound, "payment not found")
			return
		}

		RespondServerFault(ctx, "disablePayment error", err)
		return
	}

	RespondMessage(ctx, http.StatusOK, "payment deleted successfully")
}

// a non-numeric id can't name any payment, so it reads as not found
func paymentID(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)

	if err != nil {
		RespondMessage(ctx, http.StatusNotFound, "payment not found")
		return 0, false
	}

	return id, true
}
