package ws

import (
	"net/http"

	"github.com/coder/websocket"
)

// Handler upgrades the request to a WebSocket and runs it as a hub client.
// Mount it behind the admin auth middleware; the hub itself does not check
// identity.
func Handler(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true, // dashboard may be served from a different host on the shop LAN
		})
		if err != nil {
			hub.logger.Warn("websocket accept", "error", err)
			return
		}

		client := newClient(hub, conn)
		client.run(r.Context())
	}
}
