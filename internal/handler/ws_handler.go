/*
Package handler provides the HTTP handler for WebSocket connection upgrading.

The handshake carries the user identity as a userId query parameter. A
connection without one is accepted but never registered with the presence
hub, so it neither appears online nor receives pushes.
*/
package handler

import (
	"net/http"

	"github.com/gorilla/websocket"

	"quickchat/internal/app/chat"
	"quickchat/internal/pkg/logx"
)

// HandleWebSocket upgrades the request and starts the client lifecycle.
func HandleWebSocket(upgrader websocket.Upgrader, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.URL.Query().Get("userId")

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		client := chat.NewClient(deps.Hub, conn, userID)

		go client.WritePump()

		if userID != "" {
			deps.Hub.Register(client)
			logx.Info("WebSocket connection established", "user_id", userID)
		} else {
			logx.Warn("WebSocket connection accepted without userId, presence not tracked")
		}

		client.ReadPump()
	}
}
