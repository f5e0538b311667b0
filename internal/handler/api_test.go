package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"awesomechat/internal/app/auth"
	"awesomechat/internal/app/directory"
	"awesomechat/internal/app/feeds"
	"awesomechat/internal/app/friends"
	"awesomechat/internal/app/live"
	"awesomechat/internal/app/presence"
	"awesomechat/internal/app/private"
	"awesomechat/internal/app/room"
	"awesomechat/internal/configs"
	"awesomechat/internal/pkg/auth/oauth"
	"awesomechat/internal/pkg/errs"
)

type apiResponse struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := &configs.AppConfig{
		Environment:     "development",
		Port:            8080,
		JWTSecret:       "test_secret",
		MaxStickerBytes: 256 << 10,
		MaxStickerCount: 30,
	}

	users := directory.NewMemoryStore()
	rooms := room.NewService(room.NewMemoryStore(), room.DefaultFeedLimit)
	priv := private.NewService(private.NewMemoryStore(), users)
	hub := live.NewHub()
	feedSvc := feeds.NewService(hub, users, rooms, priv)

	deps := &AppDeps{
		Config:   cfg,
		Auth:     auth.NewGateway(users, oauth.NewHTTPVerifier("http://127.0.0.1:0/userinfo"), cfg.JWTSecret),
		Users:    users,
		Rooms:    rooms,
		Private:  priv,
		Friends:  friends.NewService(users),
		Feeds:    feedSvc,
		Presence: presence.NewTracker(users, feedSvc),
	}

	server := httptest.NewServer(Router(deps))
	t.Cleanup(func() {
		server.Close()
		hub.Shutdown()
	})
	return server
}

func doJSON(t *testing.T, server *httptest.Server, method, path, token string, body any) *apiResponse {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, server.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	httpResp, err := server.Client().Do(req)
	require.NoError(t, err)
	defer httpResp.Body.Close()

	var out apiResponse
	require.NoError(t, json.NewDecoder(httpResp.Body).Decode(&out))
	return &out
}

type sessionData struct {
	Token string `json:"token"`
	User  struct {
		ID          string `json:"id"`
		Email       string `json:"email"`
		DisplayName string `json:"displayName"`
	} `json:"user"`
}

func signUp(t *testing.T, server *httptest.Server, email, name string) *sessionData {
	t.Helper()

	out := doJSON(t, server, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"email":       email,
		"password":    "hunter22",
		"displayName": name,
	})
	require.Equal(t, 0, out.Code, "signup failed: %s", out.Message)

	var session sessionData
	require.NoError(t, json.Unmarshal(out.Data, &session))
	require.NotEmpty(t, session.Token)
	require.NotEmpty(t, session.User.ID)
	return &session
}

func TestRoomMessageFlow(t *testing.T) {
	server := newTestServer(t)
	alice := signUp(t, server, "alice@example.com", "Alice")

	// Anonymous requests bounce.
	out := doJSON(t, server, http.MethodGet, "/api/messages/", "", nil)
	assert.Equal(t, errs.ErrUnauthorized, out.Code)

	out = doJSON(t, server, http.MethodPost, "/api/messages/", alice.Token, map[string]string{"text": "hello room"})
	require.Equal(t, 0, out.Code, out.Message)

	out = doJSON(t, server, http.MethodGet, "/api/messages/", alice.Token, nil)
	require.Equal(t, 0, out.Code, out.Message)

	var feed struct {
		Messages []room.Message `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(out.Data, &feed))
	require.Len(t, feed.Messages, 1)
	assert.Equal(t, "hello room", feed.Messages[0].Text)
	assert.Equal(t, alice.User.ID, feed.Messages[0].SenderID)
	assert.Equal(t, "Alice", feed.Messages[0].SenderName)
}

func TestFriendAndPrivateMessageFlow(t *testing.T) {
	server := newTestServer(t)
	alice := signUp(t, server, "alice@example.com", "Alice")
	bob := signUp(t, server, "bob@example.com", "Bob")

	// Private messages require a confirmed friendship.
	out := doJSON(t, server, http.MethodPost, "/api/private/messages", alice.Token, map[string]string{
		"receiverId": bob.User.ID,
		"text":       "too soon",
	})
	assert.Equal(t, errs.ErrNotFriends, out.Code)

	out = doJSON(t, server, http.MethodPost, "/api/friends/request", alice.Token, map[string]string{"userId": bob.User.ID})
	require.Equal(t, 0, out.Code, out.Message)

	out = doJSON(t, server, http.MethodPost, "/api/friends/accept", bob.Token, map[string]string{"userId": alice.User.ID})
	require.Equal(t, 0, out.Code, out.Message)

	out = doJSON(t, server, http.MethodPost, "/api/private/messages", alice.Token, map[string]string{
		"receiverId": bob.User.ID,
		"text":       "hi bob",
	})
	require.Equal(t, 0, out.Code, out.Message)

	// Both sides read the same channel.
	for _, session := range []*sessionData{alice, bob} {
		other := bob.User.ID
		if session == bob {
			other = alice.User.ID
		}
		out = doJSON(t, server, http.MethodGet, "/api/private/messages?with="+other, session.Token, nil)
		require.Equal(t, 0, out.Code, out.Message)

		var history struct {
			Messages []private.Message `json:"messages"`
		}
		require.NoError(t, json.Unmarshal(out.Data, &history))
		require.Len(t, history.Messages, 1)
		assert.Equal(t, "hi bob", history.Messages[0].Text)
		assert.Equal(t, alice.User.ID, history.Messages[0].SenderID)
	}
}

func readFrame(t *testing.T, conn *websocket.Conn) *outboundFrame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var frame outboundFrame
	require.NoError(t, json.Unmarshal(raw, &frame))
	return &frame
}

func TestLiveRoomFeedOverWebSocket(t *testing.T) {
	server := newTestServer(t)
	alice := signUp(t, server, "alice@example.com", "Alice")

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws?token=" + alice.Token
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "subscribe", "topic": "room"}))

	// A fresh subscription starts from the full current snapshot.
	frame := readFrame(t, conn)
	assert.Equal(t, "snapshot", frame.Type)
	assert.Equal(t, "room", frame.Topic)
	assert.JSONEq(t, "[]", string(frame.Data))

	out := doJSON(t, server, http.MethodPost, "/api/messages/", alice.Token, map[string]string{"text": "pushed live"})
	require.Equal(t, 0, out.Code, out.Message)

	frame = readFrame(t, conn)
	require.Equal(t, "room", frame.Topic)

	var messages []room.Message
	require.NoError(t, json.Unmarshal(frame.Data, &messages))
	require.Len(t, messages, 1)
	assert.Equal(t, "pushed live", messages[0].Text)
}

func TestPresenceFeedFiltersSelf(t *testing.T) {
	server := newTestServer(t)
	alice := signUp(t, server, "alice@example.com", "Alice")
	bob := signUp(t, server, "bob@example.com", "Bob")

	base := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws?token="

	aliceConn, _, err := websocket.DefaultDialer.Dial(base+alice.Token, nil)
	require.NoError(t, err)
	defer aliceConn.Close()

	require.NoError(t, aliceConn.WriteJSON(map[string]string{"type": "subscribe", "topic": "presence"}))

	// Initial snapshot: alice is online but filtered out of her own view.
	frame := readFrame(t, aliceConn)
	require.Equal(t, "presence", frame.Topic)
	assert.JSONEq(t, "[]", string(frame.Data))

	bobConn, _, err := websocket.DefaultDialer.Dial(base+bob.Token, nil)
	require.NoError(t, err)
	defer bobConn.Close()

	frame = readFrame(t, aliceConn)
	require.Equal(t, "presence", frame.Topic)

	var online []directory.OnlineUser
	require.NoError(t, json.Unmarshal(frame.Data, &online))
	require.Len(t, online, 1)
	assert.Equal(t, bob.User.ID, online[0].ID)
	assert.Equal(t, "Bob", online[0].Username)
}

func TestWebSocketRejectsBadToken(t *testing.T) {
	server := newTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws?token=garbage"
	_, httpResp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, httpResp)
	assert.Equal(t, http.StatusUnauthorized, httpResp.StatusCode)
	defer httpResp.Body.Close()
}

func TestHealthEndpoint(t *testing.T) {
	server := newTestServer(t)

	httpResp, err := server.Client().Get(server.URL + "/health")
	require.NoError(t, err)
	defer httpResp.Body.Close()
	assert.Equal(t, http.StatusOK, httpResp.StatusCode)
}
