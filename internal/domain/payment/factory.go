package payment

import "time"

// NewFromCreateRequest builds a Payment row from the incoming DTO. The id
// is assigned by the store on insert.
func NewFromCreateRequest(req CreatePaymentRequest) Payment {
	return Payment{
		FechaPago:   req.FechaPago,
		FechaCarga:  time.Now().UTC(),
		Monto:       req.Monto,
		FormaPago:   req.FormaPago,
		Descripcion: req.Descripcion,
		Ubicacion:   req.Ubicacion,
		Activo:      true,
		UserID:      req.UserID,
	}
}
