package payment

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Payment is a monetary record owned by exactly one user. Rows are never
// physically removed: deactivation flips Activo to false and stamps
// FechaEliminado, nothing else.
type Payment struct {
	ID             int64           `json:"id"`
	FechaPago      time.Time       `json:"fechaPago"`
	FechaCarga     time.Time       `json:"fechaCarga"`
	Monto          decimal.Decimal `json:"monto"`
	FormaPago      string          `json:"formaPago"`
	Descripcion    string          `json:"descripcion,omitempty"`
	Ubicacion      string          `json:"ubicacion"`
	Activo         bool            `json:"activo"`
	FechaEliminado *time.Time      `json:"fechaEliminado,omitempty"`
	UserID         int64           `json:"userId"`
}

// DeletedPayment is the audit row written for every deactivation, one per
// event, strictly before the activo flag flips.
type DeletedPayment struct {
	ID             int64     `json:"id"`
	PaymentID      int64     `json:"paymentId"`
	EliminadoPor   int64     `json:"eliminadoPor"`
	FechaEliminado time.Time `json:"fechaEliminado"`
}

// Login is an append-only record of a successful authentication.
type Login struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	LoginTime time.Time `json:"loginTime"`
}

var (
	ErrNotFound = errors.New("payment not found")
	// the audit insert failed, so the deactivation was aborted
	ErrDeactivationFailed = errors.New("payment deactivation failed")
)

type CreatePaymentRequest struct {
	FechaPago   time.Time       `json:"fechaPago" binding:"required"`
	Monto       decimal.Decimal `json:"monto" binding:"required"`
	FormaPago   string          `json:"formaPago" binding:"required"`
	Descripcion string          `json:"descripcion" binding:"omitempty,max=1000"`
	Ubicacion   string          `json:"ubicacion" binding:"required"`
	UserID      int64           `json:"userId" binding:"required"`
}

// partial update: nil pointers leave the stored value untouched.
// Ownership and the activo flag are not editable through this path.
type UpdatePaymentRequest struct {
	FechaPago   *time.Time       `json:"fechaPago"`
	Monto       *decimal.Decimal `json:"monto"`
	FormaPago   *string          `json:"formaPago" binding:"omitempty,min=1"`
	Descripcion *string          `json:"descripcion" binding:"omitempty,max=1000"`
	Ubicacion   *string          `json:"ubicacion" binding:"omitempty,min=1"`
}

// UpdateOutcome is the three-way result of an update: the row changed,
// the row matched but nothing changed, or (via ErrNotFound) no row.
type UpdateOutcome int

const (
	Updated UpdateOutcome = iota
	NotModified
)
