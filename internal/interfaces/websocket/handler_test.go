package websocket

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	ws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-notification-relay/internal/infrastructure/hub"
	"go-notification-relay/internal/infrastructure/logger"
)

type mockLogger struct{}

func (m *mockLogger) Debug(msg string)                              {}
func (m *mockLogger) Debugf(format string, args ...any)             {}
func (m *mockLogger) Info(msg string)                               {}
func (m *mockLogger) Infof(format string, args ...any)              {}
func (m *mockLogger) Warn(msg string)                               {}
func (m *mockLogger) Warnf(format string, args ...any)              {}
func (m *mockLogger) Error(msg string)                              {}
func (m *mockLogger) Errorf(format string, args ...any)             {}
func (m *mockLogger) WithField(key string, value any) logger.Logger { return m }
func (m *mockLogger) WithFields(fields logger.Fields) logger.Logger { return m }
func (m *mockLogger) WithContext(ctx context.Context) logger.Logger { return m }
func (m *mockLogger) SetLevel(level logger.Level)                   {}
func (m *mockLogger) SetOutput(output io.Writer)                    {}

func testServer(t *testing.T, hubInstance *hub.Hub, allowed []string) string {
	t.Helper()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	InitWebSocketRouter(&mockLogger{}, hubInstance, r.Group(""), hub.WebSocketOptions{}, allowed)

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
}

func startedHub(t *testing.T) *hub.Hub {
	t.Helper()

	h := hub.New(&mockLogger{}, hub.Options{})
	require.NoError(t, h.Start(context.Background()))
	t.Cleanup(func() { _ = h.Stop(context.Background()) })
	return h
}

func waitForConnectionCount(h *hub.Hub, expected int) bool {
	for i := 0; i < 200; i++ {
		if h.ConnectionCount() == expected {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}

func TestConnect_EchoesText(t *testing.T) {
	h := startedHub(t)
	url := testServer(t, h, nil)

	conn, _, err := ws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(ws.TextMessage, []byte("ping")))

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "Message text was: ping", string(msg))
}

func TestConnect_RegistersAndRemovesOnDisconnect(t *testing.T) {
	h := startedHub(t)
	url := testServer(t, h, nil)

	conn, _, err := ws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	require.True(t, waitForConnectionCount(h, 1))

	require.NoError(t, conn.WriteMessage(ws.CloseMessage,
		ws.FormatCloseMessage(ws.CloseNormalClosure, "")))
	conn.Close()

	assert.True(t, waitForConnectionCount(h, 0))
}

func TestConnect_ReceivesBroadcast(t *testing.T) {
	h := startedHub(t)
	url := testServer(t, h, nil)

	conn, _, err := ws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.True(t, waitForConnectionCount(h, 1))

	report, err := h.Broadcast(context.Background(), "fan out")
	require.NoError(t, err)
	assert.Equal(t, 1, report.Delivered)

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "fan out", string(msg))
}

func TestConnect_HubNotRunning(t *testing.T) {
	h := hub.New(&mockLogger{}, hub.Options{})
	url := testServer(t, h, nil)

	_, resp, err := ws.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestConnect_OriginCheck(t *testing.T) {
	h := startedHub(t)
	url := testServer(t, h, []string{"https://allowed.example"})

	header := http.Header{"Origin": []string{"https://evil.example"}}
	_, resp, err := ws.DefaultDialer.Dial(url, header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	header = http.Header{"Origin": []string{"https://allowed.example"}}
	conn, _, err := ws.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	conn.Close()
}
