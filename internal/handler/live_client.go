/*
Package handler provides the HTTP handlers and routing setup for the Awesome Chat server.

This file defines the liveClient struct, representing an active WebSocket connection
subscribed to live feeds. It manages the connection lifecycle, the read and write pumps,
and the per-connection set of feed subscriptions.
*/
package handler

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"awesomechat/internal/app/directory"
	"awesomechat/internal/app/live"
	"awesomechat/internal/app/private"
	"awesomechat/internal/pkg/logx"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a control frame sent by the client.
	maxFrameSize = 4096

	// sendBufferSize is the per-connection outbound queue length.
	sendBufferSize = 64
)

// inboundFrame is a subscription control message from the client.
type inboundFrame struct {
	Type  string `json:"type"`
	Topic string `json:"topic"`
}

// outboundFrame wraps a full feed snapshot pushed to the client.
type outboundFrame struct {
	Type  string          `json:"type"`
	Topic string          `json:"topic"`
	Data  json.RawMessage `json:"data"`
}

// liveClient is one authenticated WebSocket connection and its feed subscriptions.
type liveClient struct {
	conn   *websocket.Conn
	userID string
	deps   *AppDeps

	send chan []byte

	mu   sync.Mutex
	subs map[string]*live.Subscription

	logger zerolog.Logger
}

func newLiveClient(conn *websocket.Conn, userID string, deps *AppDeps) *liveClient {
	return &liveClient{
		conn:   conn,
		userID: userID,
		deps:   deps,
		send:   make(chan []byte, sendBufferSize),
		subs:   make(map[string]*live.Subscription),
		logger: logx.Logger().With().Str("client_id", userID).Str("component", "LiveClient").Logger(),
	}
}

// readPump consumes subscription control frames until the connection drops.
// Its exit path is the single teardown point for the connection, so presence
// detach fires on abrupt disconnects exactly as it does on clean closes.
func (c *liveClient) readPump() {
	defer c.cleanupOnDisconnect()

	c.conn.SetReadLimit(maxFrameSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frameBytes, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Connection closed unexpectedly")
			}
			break
		}

		c.processFrame(frameBytes)
	}
}

// cleanupOnDisconnect cancels every subscription, releases the presence
// session, and closes the connection.
func (c *liveClient) cleanupOnDisconnect() {
	c.logger.Info().Msg("Live connection cleanup starting.")

	c.mu.Lock()
	for topic, sub := range c.subs {
		sub.Cancel()
		delete(c.subs, topic)
	}
	c.mu.Unlock()

	c.deps.Presence.Detach(context.Background(), c.userID)

	close(c.send)

	if err := c.conn.Close(); err != nil {
		c.logger.Debug().Err(err).Msg("Connection close error")
	}
}

// processFrame dispatches one control frame.
func (c *liveClient) processFrame(frameBytes []byte) {
	var frame inboundFrame
	if err := json.Unmarshal(frameBytes, &frame); err != nil {
		c.logger.Warn().Err(err).Bytes("frame", frameBytes).Msg("Client sent invalid JSON frame")
		return
	}

	switch frame.Type {
	case "subscribe":
		c.subscribe(frame.Topic)
	case "unsubscribe":
		c.unsubscribe(frame.Topic)
	default:
		c.logger.Warn().Str("type", frame.Type).Msg("Unknown frame type")
	}
}

// allowedTopic enforces per-connection feed authorization: a client may watch
// the shared room, the presence set, its own document, and any pair channel it
// participates in.
func (c *liveClient) allowedTopic(topic string) bool {
	switch {
	case topic == live.TopicRoom, topic == live.TopicPresence:
		return true
	case topic == live.UserTopic(c.userID):
		return true
	default:
		channelID, ok := live.ParseChannelTopic(topic)
		return ok && private.IsParticipant(channelID, c.userID)
	}
}

// subscribe attaches the connection to a topic and pushes the initial snapshot.
func (c *liveClient) subscribe(topic string) {
	if !c.allowedTopic(topic) {
		c.logger.Warn().Str("topic", topic).Msg("Subscription rejected: topic not allowed.")
		return
	}

	c.mu.Lock()
	if _, ok := c.subs[topic]; ok {
		c.mu.Unlock()
		return
	}
	sub := c.deps.Feeds.Hub().Subscribe(topic)
	c.subs[topic] = sub
	c.mu.Unlock()

	go c.forward(sub)

	// Initial emission: a fresh subscription starts from the full current
	// snapshot rather than waiting for the next mutation. It goes through
	// the subscription buffer so a publish racing the subscribe coalesces
	// with it instead of arriving out of order behind it.
	snapshot, err := c.deps.Feeds.Snapshot(context.Background(), topic)
	if err != nil {
		c.logger.Error().Err(err).Str("topic", topic).Msg("Failed to build initial snapshot.")
	} else {
		sub.Seed(snapshot)
	}

	c.logger.Debug().Str("topic", topic).Msg("Subscribed to topic.")
}

// unsubscribe detaches the connection from a topic. Switching the selected
// friend is an unsubscribe of the old channel followed by a subscribe of the
// new one, so stale snapshots never leak into the new view.
func (c *liveClient) unsubscribe(topic string) {
	c.mu.Lock()
	sub, ok := c.subs[topic]
	if ok {
		delete(c.subs, topic)
	}
	c.mu.Unlock()

	if ok {
		sub.Cancel()
		c.logger.Debug().Str("topic", topic).Msg("Unsubscribed from topic.")
	}
}

// forward relays hub snapshots for one subscription into the send queue until
// the subscription is cancelled.
func (c *liveClient) forward(sub *live.Subscription) {
	for snapshot := range sub.C {
		c.push(sub.Topic(), snapshot)
	}
}

// push frames a snapshot and queues it for the write pump. The presence topic
// is filtered per connection: a client never sees itself in the online list.
func (c *liveClient) push(topic string, snapshot []byte) {
	if topic == live.TopicPresence {
		filtered, err := filterSelf(snapshot, c.userID)
		if err != nil {
			c.logger.Error().Err(err).Msg("Failed to filter presence snapshot.")
			return
		}
		snapshot = filtered
	}

	frame, err := json.Marshal(outboundFrame{Type: "snapshot", Topic: topic, Data: snapshot})
	if err != nil {
		c.logger.Error().Err(err).Str("topic", topic).Msg("Failed to marshal snapshot frame.")
		return
	}

	defer func() {
		// The send channel closes during teardown; a forwarder racing that
		// close loses a snapshot that no longer has a reader anyway.
		if r := recover(); r != nil {
			c.logger.Debug().Str("topic", topic).Msg("Dropped snapshot for closing connection.")
		}
	}()

	select {
	case c.send <- frame:
	default:
		// Queue full. Dropping is safe: the next emission carries the full
		// state again.
		c.logger.Warn().Str("topic", topic).Msg("Send queue full, dropping snapshot.")
	}
}

// filterSelf removes the viewer from an online-users snapshot.
func filterSelf(snapshot []byte, selfID string) ([]byte, error) {
	var users []directory.OnlineUser
	if err := json.Unmarshal(snapshot, &users); err != nil {
		return nil, err
	}

	filtered := make([]directory.OnlineUser, 0, len(users))
	for _, u := range users {
		if u.ID != selfID {
			filtered = append(filtered, u)
		}
	}
	return json.Marshal(filtered)
}

// writePump writes queued frames and heartbeat pings to the connection.
func (c *liveClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}

			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				c.logger.Debug().Err(err).Msg("Write failed, closing connection.")
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
