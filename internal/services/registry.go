package services

// ServiceContainer bundles every service for handler wiring.
type ServiceContainer struct {
	DeliverableService DeliverableService
	ChatService        ChatService
	AuthService        AuthService
}
