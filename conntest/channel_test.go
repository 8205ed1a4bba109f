package conntest

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebsocketChannel(t *testing.T) {
	var (
		upgrader websocket.Upgrader
		serverCh = make(chan *WebsocketChannel, 1)
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			close(serverCh)
			return
		}

		defer conn.Close()
		serverCh <- NewWebsocketChannel(conn)
	}))

	defer server.Close()

	wsURL := "ws" + server.URL[len("http"):]
	clientConn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer clientConn.Close()

	channel := <-serverCh
	require.NotNil(t, channel)
	assert.NotEmpty(t, channel.LocalAddress())
	assert.NotEmpty(t, channel.RemoteAddress())
	assert.NotNil(t, channel.RawHandle())
}

func TestWebsocketChannelNilConn(t *testing.T) {
	channel := NewWebsocketChannel(nil)
	assert.Empty(t, channel.LocalAddress())
	assert.Empty(t, channel.RemoteAddress())
	assert.Nil(t, channel.RawHandle())
}
