package middlewares

const (
	ctxActorIDKey  = "auth.userID"
	ctxActorRolKey = "auth.rol"

	CtxRequestID = "request_id"
)
