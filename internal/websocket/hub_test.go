package websocket

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hrsuite/internal/auth"
	"hrsuite/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := NewHub(logger.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	r := gin.New()
	r.GET("/ws/:device", func(c *gin.Context) {
		ServeWs(hub, c, c.Param("device"))
	})
	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server, device string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/" + device
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readEnvelope(t *testing.T, conn *websocket.Conn) map[string]interface{} {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var env map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &env))
	return env
}

func TestNotifyTargetsOneDevice(t *testing.T) {
	hub, srv := startHub(t)
	a := dial(t, srv, "device-a1")
	b := dial(t, srv, "device-b1")
	require.Eventually(t, func() bool { return hub.Len() == 2 }, time.Second, 10*time.Millisecond)

	hub.Notify("device-b1", auth.Notification{Level: "success", Message: "Signed in"})
	hub.Broadcast("announcement.created", map[string]string{"title": "Holiday"})

	env := readEnvelope(t, b)
	assert.Equal(t, EventNotification, env["event"])
	assert.Equal(t, "Signed in", env["data"].(map[string]interface{})["message"])

	// a skips the notification and sees only the broadcast
	env = readEnvelope(t, a)
	assert.Equal(t, "announcement.created", env["event"])

	env = readEnvelope(t, b)
	assert.Equal(t, "announcement.created", env["event"])
}

func TestSessionChangedSendsNullOnSignOut(t *testing.T) {
	hub, srv := startHub(t)
	conn := dial(t, srv, "device-c1")
	require.Eventually(t, func() bool { return hub.Len() == 1 }, time.Second, 10*time.Millisecond)

	hub.SessionChanged("device-c1", nil)

	env := readEnvelope(t, conn)
	assert.Equal(t, EventSessionChanged, env["event"])
	assert.Nil(t, env["data"])
}

func TestClientDisconnectUnregisters(t *testing.T) {
	hub, srv := startHub(t)
	conn := dial(t, srv, "device-d1")
	require.Eventually(t, func() bool { return hub.Len() == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return hub.Len() == 0 }, time.Second, 10*time.Millisecond)
}
