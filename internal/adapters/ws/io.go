package ws

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/sorapara/relay/internal/domain"
)

type dispatchFunc func(sid domain.ConnID, data []byte)

func (ctl *Controller) writePump(ctx context.Context, c *wsConn) {
	for {
		select {
		case <-ctx.Done():
			return
		case data, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second)); err != nil {
				log.Error().Err(err).Str("module", "ws").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "ws").Msg("writePump write error")
				return
			}
		}
	}
}

func (ctl *Controller) readPump(ctx context.Context, cancel context.CancelFunc, sid domain.ConnID, c *wsConn, dispatch dispatchFunc) {
	defer func() {
		log.Info().Str("module", "ws").Str("sid", string(sid)).Msg("readPump closing")
		ctl.ctrl.Disconnect(sid)
		ctl.hub.Unregister(sid)
		ctl.limiter.Forget(sid)
		c.Close()
		cancel()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					log.Warn().Err(err).Str("module", "ws").Str("sid", string(sid)).Msg("readPump read error")
				}
				return
			}
			dispatch(sid, data)
		}
	}
}
