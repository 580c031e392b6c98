package handler

type ContextKey string

var (
	RoleCtxKey    ContextKey = "role"
	SubCtxKey     ContextKey = "sub"
	AssignmentCtx ContextKey = "assignment"
	RecipientCtx  ContextKey = "assignmentRecipient"
)
