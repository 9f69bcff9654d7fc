package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"helpdesk/api/internal/ws"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Cross-origin policy is enforced by the CORS layer for the REST API;
	// the socket accepts any origin and relies on token auth.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ChatSocket upgrades the connection into a live subscription on a category
// room. The access token is validated once, at handshake time: from the
// `token` query parameter or the usual Authorization header. An invalid
// token rejects the handshake; the connection never reaches the stream.
func (h HandlerSet) ChatSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		prefix := h.cfg.Auth.Scheme + " "
		if header := c.GetHeader("Authorization"); strings.HasPrefix(header, prefix) {
			token = strings.TrimPrefix(header, prefix)
		}
	}
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	account, _, err := h.auth.ValidateAccess(c.Request.Context(), token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	categoryID := c.Param("category_id")
	if _, err := h.categories.Get(c.Request.Context(), categoryID); err != nil {
		h.respondError(c, err)
		return
	}

	if err := h.messages.Join(c.Request.Context(), account.ID, categoryID); err != nil {
		h.respondError(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	post := func(ctx context.Context, content string) error {
		_, err := h.messages.Post(ctx, account.ID, categoryID, content)
		return err
	}

	client := ws.NewClient(h.hub, conn, categoryID, account.ID, post)
	client.Start(context.Background())

	h.log.Debug().
		Str("account_id", account.ID).
		Str("category_id", categoryID).
		Msg("chat connection established")
}
