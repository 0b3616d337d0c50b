package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
	maxMsgSize       = 1 << 12 // 4 KB
	defaultInterval  = 1 * time.Second
	maxInterval      = 10 * time.Second
	maxIntervalMilli = 10_000 // 10s in ms
)

// Envelope used for WebSocket messages.
type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

type creditsPayload struct {
	Credits int `json:"credits"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// @Summary      Credit balance stream
// @Description  WebSocket pushing {"type":"credits","data":{"credits":N}} on every tick. Browsers may pass the token as ?token=.
// @Tags         account
// @Param        token        query  string  false  "Access token when the Authorization header cannot be set"
// @Param        interval     query  string  false  "Push interval, e.g. 2s (max 10s)"
// @Param        interval_ms  query  int     false  "Push interval in milliseconds (max 10000)"
// @Success      101
// @Failure      401  {object}  map[string]string
// @Router       /ws/credits [get]
func (h *Handler) wsCredits(c *gin.Context) {
	userID, ok := h.wsUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": errBadToken.Error()})
		return
	}
	interval := h.parseInterval(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	go h.startReader(conn, done)

	ticker := time.NewTicker(interval)
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		ping.Stop()
	}()

	if err := h.sendCredits(c.Request.Context(), conn, userID); err != nil {
		if h.log != nil {
			h.log.Infow("ws_write_failed_initial", "err", err, "user_id", userID)
		}
		return
	}

	for {
		select {
		case <-done:
			return
		case <-c.Request.Context().Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				if h.log != nil {
					h.log.Infow("ws_ping_failed", "err", err)
				}
				return
			}
		case <-ticker.C:
			if err := h.sendCredits(c.Request.Context(), conn, userID); err != nil {
				if h.log != nil {
					h.log.Infow("ws_write_failed", "err", err, "user_id", userID)
				}
				return
			}
		}
	}
}

// wsUser authenticates the upgrade request from the Authorization header or ?token=.
func (h *Handler) wsUser(c *gin.Context) (int, bool) {
	token, err := bearerToken(c)
	if err != nil {
		token = strings.TrimSpace(c.Query("token"))
	}
	if token == "" {
		return 0, false
	}
	id, err := h.services.ParseToken(token)
	if err != nil {
		return 0, false
	}
	return id, true
}

// Helper: parseInterval reads ?interval=2s or ?interval_ms=2000 with bounds.
func (h *Handler) parseInterval(c *gin.Context) time.Duration {
	if s := c.Query("interval"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d > 0 && d <= maxInterval {
			return d
		}
	}

	if ms := c.Query("interval_ms"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v > 0 && v <= maxIntervalMilli {
			return time.Duration(v) * time.Millisecond
		}
	}

	return defaultInterval
}

// Helper: startReader drains incoming messages to handle control frames and detect closure.
func (h *Handler) startReader(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if h.log != nil {
				h.log.Infow("ws_read_closed", "err", err)
			}
			return
		}
	}
}

// sendCredits writes the current balance, or an error envelope if it cannot be read.
func (h *Handler) sendCredits(ctx context.Context, conn *websocket.Conn, userID int) error {
	credits, err := h.services.Balance(ctx, userID)
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_get_balance_failed", "err", err, "user_id", userID)
		}
		if werr := conn.WriteJSON(wsEnvelope{Type: "error", Error: errLoadAccount}); werr != nil {
			return werr
		}
		return err
	}
	return conn.WriteJSON(wsEnvelope{Type: "credits", Data: creditsPayload{Credits: credits}})
}
