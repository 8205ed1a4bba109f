// Package conntest provides a reference driver.Channel implementation over
// a gorilla/websocket connection, grounded on device/connection.go's
// connection type. Unlike that type, WebsocketChannel is protocol-agnostic:
// it exposes the raw *websocket.Conn handle and addressing only, leaving
// framing and decoding to the caller, since the wire protocol is outside
// the driver's boundary.
package conntest

import (
	"github.com/gorilla/websocket"
)

// WebsocketChannel wraps a *websocket.Conn as a driver.Channel.
type WebsocketChannel struct {
	conn *websocket.Conn
}

// NewWebsocketChannel wraps conn.
func NewWebsocketChannel(conn *websocket.Conn) *WebsocketChannel {
	return &WebsocketChannel{conn: conn}
}

// LocalAddress returns the server-side address of the websocket connection.
func (c *WebsocketChannel) LocalAddress() string {
	if c.conn == nil {
		return ""
	}

	return c.conn.LocalAddr().String()
}

// RemoteAddress returns the client-side address of the websocket
// connection.
func (c *WebsocketChannel) RemoteAddress() string {
	if c.conn == nil {
		return ""
	}

	return c.conn.RemoteAddr().String()
}

// RawHandle exposes the underlying *websocket.Conn.
func (c *WebsocketChannel) RawHandle() interface{} {
	return c.conn
}
