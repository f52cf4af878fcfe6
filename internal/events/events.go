package events

// Row-level change operations pushed to connected clients.
const (
	OpInsert = "INSERT"
	OpUpdate = "UPDATE"
	OpDelete = "DELETE"
)

// Tables announced on the change channel.
const (
	TableDeliverables = "client_deliverables"
	TableChatMessages = "chat_messages"
)

// ChangeEvent is one row-level change. NewRow is absent on deletes,
// OldRow on inserts.
type ChangeEvent struct {
	Op     string      `json:"op"`
	Table  string      `json:"table"`
	NewRow interface{} `json:"new_row,omitempty"`
	OldRow interface{} `json:"old_row,omitempty"`
}

// Publisher fans a change event out to every subscribed client. Services
// publish after each successful mutation; delivery is best effort.
type Publisher interface {
	Publish(event ChangeEvent)
}

// NopPublisher drops every event. Used in tests and anywhere the fan-out
// channel is not wired.
type NopPublisher struct{}

func (NopPublisher) Publish(ChangeEvent) {}
