package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/awashimakentaro/diet/services"
)

type RealtimeController struct {
	RT *services.RealtimeHub
}

func NewRealtimeController(rt *services.RealtimeHub) *RealtimeController {
	return &RealtimeController{RT: rt}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true }, // tighten behind a proxy if needed
}

// SummaryWS keeps a socket open per client; the hub writes
// summary.invalidated events whenever meals or the goal change.
func (rc *RealtimeController) SummaryWS(c *gin.Context) {
	uid := c.GetUint("userID")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "websocket upgrade failed"})
		return
	}

	client := &services.WSClient{UserID: uid, Conn: conn}
	rc.RT.Register(client)

	// Reader loop only detects disconnects; clients never send payloads.
	go func() {
		defer rc.RT.Unregister(client)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(10 * time.Minute))
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
			_ = conn.SetReadDeadline(time.Now().Add(10 * time.Minute))
		}
	}()
}
