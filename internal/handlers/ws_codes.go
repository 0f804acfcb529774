// internal/handlers/ws_codes.go
package handlers

import "github.com/coder/websocket"

// Custom WebSocket close codes used by the game handler.
const (
	BadSubprotocolError websocket.StatusCode = 3000 // Client connected without the "game" subprotocol.
	NotAtTableError     websocket.StatusCode = 3001 // Caller is not the human seated at this table.
	ReplacedError       websocket.StatusCode = 3002 // A newer connection took over the table.
)
