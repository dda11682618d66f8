package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/qobilovfirdavs02/ChatApp-server/internal/chat"
	"github.com/qobilovfirdavs02/ChatApp-server/pkg/logger"
)

// Relay is the process-wide chat relay, wired up in main.
var Relay *chat.Relay

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ChatWebSocket upgrades /ws/:username/:receiver and runs the session
// to completion on the handler goroutine. The request context cancels
// with the underlying connection.
func ChatWebSocket(c *gin.Context) {
	username := c.Param("username")
	receiver := c.Param("receiver")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn().Err(err).Str("user", username).Msg("websocket upgrade failed")
		return
	}

	sess := Relay.NewSession(conn, username, receiver)
	sess.Run(c.Request.Context())
}
