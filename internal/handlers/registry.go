package handlers

// AppHandlers bundles every handler for route registration.
type AppHandlers struct {
	AuthHandler        *AuthHandler
	DeliverableHandler *DeliverableHandler
	ChatHandler        *ChatHandler
}
