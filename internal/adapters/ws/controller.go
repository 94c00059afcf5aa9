package ws

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/sorapara/relay/internal/app"
	"github.com/sorapara/relay/internal/config"
	"github.com/sorapara/relay/internal/domain"
)

// Controller upgrades websocket requests and feeds inbound events into the
// lifecycle controller. /ws/chat serves the text namespaces (one-to-one and
// group), /ws/video the video-signaling namespace.
type Controller struct {
	cfg      *config.Config
	ctrl     *app.Controller
	hub      *Hub
	limiter  *RateLimiter
	upgrader websocket.Upgrader
}

func NewController(cfg *config.Config, ctrl *app.Controller, hub *Hub) *Controller {
	ctl := &Controller{
		cfg:     cfg,
		ctrl:    ctrl,
		hub:     hub,
		limiter: NewRateLimiter(cfg.MessageRate, cfg.RateWindow),
	}
	ctl.upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return cfg.OriginAllowed(r.Header.Get("Origin"))
		},
	}
	return ctl
}

func (ctl *Controller) HandleChat(ctx context.Context, c *gin.Context) {
	ctl.serve(ctx, c, ctl.dispatchChat)
}

func (ctl *Controller) HandleVideo(ctx context.Context, c *gin.Context) {
	ctl.serve(ctx, c, ctl.dispatchVideo)
}

func (ctl *Controller) serve(ctx context.Context, c *gin.Context, dispatch dispatchFunc) {
	// Each websocket gets its own id: one browser may hold a chat and a
	// video connection at once. The client token only ties logs together.
	sid := domain.ConnID(uuid.NewString())
	log.Info().Str("module", "ws").Str("sid", string(sid)).
		Str("client_token", c.GetString("client_token")).Msg("new WS connection")

	wsc, err := ctl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "ws").Msg("ws upgrade")
		return
	}
	wsc.SetReadLimit(ctl.cfg.ReadLimit)

	conn := newWSConn(wsc, ctl.cfg.SendBuffer)
	ctl.hub.Register(sid, conn)

	ctx, cancel := context.WithCancel(ctx)
	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, cancel, sid, conn, dispatch)
}
