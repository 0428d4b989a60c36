package graph

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	graphql "github.com/graph-gophers/graphql-go"

	"github.com/Jaypurnwasi/RestaurantApp/apperr"
	"github.com/Jaypurnwasi/RestaurantApp/auth"
	"github.com/Jaypurnwasi/RestaurantApp/logger"
)

const (
	protocolTransportWS = "graphql-transport-ws"
	protocolLegacyWS    = "graphql-ws"

	initTimeout  = 10 * time.Second
	writeTimeout = 10 * time.Second
	keepAlive    = 25 * time.Second
)

// graphql-transport-ws close codes
const (
	closeBadMessage   = 4400
	closeUnauthorized = 4401
	closeInitTimeout  = 4408
	closeDuplicateID  = 4409
	closeTooManyInits = 4429
)

type wsMessage struct {
	ID      string          `json:"id,omitempty"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// messageTypes holds the per-protocol names for the same events
type messageTypes struct {
	subscribe, next, stop string
}

var (
	transportTypes = messageTypes{subscribe: "subscribe", next: "next", stop: "complete"}
	legacyTypes    = messageTypes{subscribe: "start", next: "data", stop: "stop"}
)

type wsSession struct {
	conn   *websocket.Conn
	schema *graphql.Schema
	log    *logger.Logger
	types  messageTypes
	legacy bool

	writeMu sync.Mutex

	mu   sync.Mutex
	subs map[string]context.CancelFunc
	wg   sync.WaitGroup
}

func (s *Server) serveWebsocket(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "error", err)
		return
	}
	ws := &wsSession{
		conn:   conn,
		schema: s.schema,
		log:    s.log,
		types:  transportTypes,
		subs:   make(map[string]context.CancelFunc),
	}
	if conn.Subprotocol() == protocolLegacyWS {
		ws.types = legacyTypes
		ws.legacy = true
	}

	// identity came from the upgrade request's cookie; there is no response left to set cookies on
	ctx, cancel := context.WithCancel(auth.WithSession(c.Request.Context(), nil))
	defer cancel()

	ws.log.Debug("websocket connected", "protocol", conn.Subprotocol(), "remote", c.ClientIP())
	ws.run(ctx)
	cancel()
	ws.wg.Wait()
	_ = conn.Close()
	ws.log.Debug("websocket closed", "remote", c.ClientIP())
}

func (ws *wsSession) write(msg wsMessage) error {
	ws.writeMu.Lock()
	defer ws.writeMu.Unlock()
	_ = ws.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return ws.conn.WriteJSON(msg)
}

func (ws *wsSession) close(code int, reason string) {
	ws.writeMu.Lock()
	defer ws.writeMu.Unlock()
	_ = ws.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(code, reason), time.Now().Add(writeTimeout))
}

func (ws *wsSession) run(ctx context.Context) {
	acked := false
	_ = ws.conn.SetReadDeadline(time.Now().Add(initTimeout))

	for {
		var msg wsMessage
		if err := ws.conn.ReadJSON(&msg); err != nil {
			if !acked {
				if ne, ok := err.(interface{ Timeout() bool }); ok && ne.Timeout() {
					ws.close(closeInitTimeout, "Connection initialisation timeout")
					return
				}
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				ws.log.Debug("websocket read failed", "error", err)
			}
			return
		}

		switch msg.Type {
		case "connection_init":
			if acked {
				ws.close(closeTooManyInits, "Too many initialisation requests")
				return
			}
			acked = true
			_ = ws.conn.SetReadDeadline(time.Time{})
			if err := ws.write(wsMessage{Type: "connection_ack"}); err != nil {
				return
			}
			if ws.legacy {
				ws.wg.Add(1)
				go ws.keepAlive(ctx)
			}

		case "ping":
			_ = ws.write(wsMessage{Type: "pong", Payload: msg.Payload})

		case "pong":

		case ws.types.subscribe:
			if !acked {
				ws.close(closeUnauthorized, "Unauthorized")
				return
			}
			var req request
			if msg.ID == "" || json.Unmarshal(msg.Payload, &req) != nil {
				ws.close(closeBadMessage, "Invalid subscribe message")
				return
			}
			if !ws.start(ctx, msg.ID, req) {
				ws.close(closeDuplicateID, "Subscriber for "+msg.ID+" already exists")
				return
			}

		case ws.types.stop:
			ws.stop(msg.ID)

		case "connection_terminate":
			return

		default:
			ws.close(closeBadMessage, "Unknown message type "+msg.Type)
			return
		}
	}
}

func (ws *wsSession) keepAlive(ctx context.Context) {
	defer ws.wg.Done()
	t := time.NewTicker(keepAlive)
	defer t.Stop()
	for {
		if err := ws.write(wsMessage{Type: "ka"}); err != nil {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}

// start runs one operation; false means id is already in use
func (ws *wsSession) start(ctx context.Context, id string, req request) bool {
	ws.mu.Lock()
	if _, dup := ws.subs[id]; dup {
		ws.mu.Unlock()
		return false
	}
	subCtx, cancel := context.WithCancel(ctx)
	ws.subs[id] = cancel
	ws.mu.Unlock()

	ws.wg.Add(1)
	go func() {
		defer ws.wg.Done()
		defer ws.stop(id)
		ws.pump(subCtx, id, req)
	}()
	return true
}

func (ws *wsSession) stop(id string) {
	ws.mu.Lock()
	cancel, ok := ws.subs[id]
	delete(ws.subs, id)
	ws.mu.Unlock()
	if ok {
		cancel()
	}
}

func (ws *wsSession) pump(ctx context.Context, id string, req request) {
	events, err := ws.schema.Subscribe(ctx, req.Query, req.OperationName, req.Variables)
	if err != nil {
		ws.log.Error("subscribe failed", "id", id, "error", err)
		ws.sendErrors(id, &graphql.Response{})
		return
	}

	first := true
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				if ctx.Err() == nil {
					_ = ws.write(wsMessage{ID: id, Type: "complete"})
				}
				return
			}
			resp, _ := ev.(*graphql.Response)
			if resp == nil {
				continue
			}
			// errors without data on the first event mean the operation never started
			if first && len(resp.Errors) > 0 && noData(resp) {
				ws.sendErrors(id, resp)
				return
			}
			first = false
			payload, err := json.Marshal(resp)
			if err != nil {
				ws.log.Error("encode subscription event", "id", id, "error", err)
				continue
			}
			if err := ws.write(wsMessage{ID: id, Type: ws.types.next, Payload: payload}); err != nil {
				return
			}
		}
	}
}

func noData(resp *graphql.Response) bool {
	return len(resp.Data) == 0 || string(resp.Data) == "null"
}

func (ws *wsSession) sendErrors(id string, resp *graphql.Response) {
	for _, qe := range resp.Errors {
		if qe.Extensions == nil && qe.ResolverError != nil {
			qe.Extensions = apperr.From(qe.ResolverError).Extensions()
		}
	}
	var payload []byte
	if ws.legacy {
		payload, _ = json.Marshal(resp)
		_ = ws.write(wsMessage{ID: id, Type: ws.types.next, Payload: payload})
		_ = ws.write(wsMessage{ID: id, Type: "complete"})
		return
	}
	errs := resp.Errors
	if len(errs) == 0 {
		payload = []byte(`[{"message":"Internal Server Error","extensions":{"code":"INTERNAL_SERVER_ERROR","status":500}}]`)
	} else {
		payload, _ = json.Marshal(errs)
	}
	_ = ws.write(wsMessage{ID: id, Type: "error", Payload: payload})
}
