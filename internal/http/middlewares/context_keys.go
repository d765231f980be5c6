package middlewares

type ctxKey string

const (
	CtxRequestID ctxKey = "request_id"
	// CtxUser holds the user.User resolved by the auth guard.
	CtxUser ctxKey = "auth.user"
)
