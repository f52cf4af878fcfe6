package client

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/gorilla/websocket"

	"github.com/moesamiii/production/internal/events"
	"github.com/moesamiii/production/internal/logger"
	"github.com/moesamiii/production/internal/services/dto"
	"github.com/moesamiii/production/internal/store"
)

// wireEvent mirrors events.ChangeEvent with the rows left undecoded
// until the table is known.
type wireEvent struct {
	Op     string          `json:"op"`
	Table  string          `json:"table"`
	NewRow json.RawMessage `json:"new_row"`
	OldRow json.RawMessage `json:"old_row"`
}

// Subscriber consumes the pushed change channel and routes each event
// to the store that mirrors its table.
type Subscriber struct {
	wsURL        string
	identity     *store.UserIdentity
	deliverables *store.DeliverableStore
	chat         *store.ChatStore
}

func NewSubscriber(wsURL string, identity *store.UserIdentity, deliverables *store.DeliverableStore, chat *store.ChatStore) *Subscriber {
	return &Subscriber{
		wsURL:        wsURL,
		identity:     identity,
		deliverables: deliverables,
		chat:         chat,
	}
}

// Run connects and consumes events until the context is cancelled or
// the connection drops. There is no automatic reconnect; callers decide
// whether a dropped channel is worth restarting.
func (s *Subscriber) Run(ctx context.Context) error {
	endpoint, err := url.Parse(s.wsURL)
	if err != nil {
		return err
	}
	query := endpoint.Query()
	query.Set("user_id", s.identity.ID)
	endpoint.RawQuery = query.Encode()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, endpoint.String(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	logger.Info("change subscription connected", "url", endpoint.Host)

	for {
		var event wireEvent
		if err := conn.ReadJSON(&event); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		s.dispatch(event)
	}
}

func (s *Subscriber) dispatch(event wireEvent) {
	switch event.Table {
	case events.TableDeliverables:
		newRow := decodeDeliverable(event.NewRow)
		oldRow := decodeDeliverable(event.OldRow)
		s.deliverables.ApplyChange(event.Op, newRow, oldRow)
	case events.TableChatMessages:
		if event.Op != events.OpInsert {
			return
		}
		var msg dto.MessageResponse
		if err := json.Unmarshal(event.NewRow, &msg); err != nil {
			logger.Warn("undecodable chat event", "error", err)
			return
		}
		s.chat.ApplyMessage(msg)
	default:
		logger.Debug("ignoring event for unknown table", "table", event.Table)
	}
}

func decodeDeliverable(raw json.RawMessage) *dto.DeliverableResponse {
	if len(raw) == 0 {
		return nil
	}
	var row dto.DeliverableResponse
	if err := json.Unmarshal(raw, &row); err != nil {
		logger.Warn("undecodable deliverable event", "error", err)
		return nil
	}
	return &row
}
