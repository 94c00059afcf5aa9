package ws

import (
	"encoding/json"

	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"

	"github.com/sorapara/relay/internal/domain"
)

func (ctl *Controller) dispatchVideo(sid domain.ConnID, data []byte) {
	var env inbound
	if err := json.Unmarshal(data, &env); err != nil {
		log.Warn().Err(err).Str("module", "ws.video").Msg("bad json")
		return
	}

	switch env.Type {
	case "setUsername":
		ctl.handleSetUsername(sid, env.Data, string(domain.ModeVideo))
	case "findVideoPartner":
		ctl.ctrl.FindNewPartner(sid)
	case "videoSignal":
		log.Debug().Str("module", "ws.video").Str("sid", string(sid)).
			Str("signal", classifySignal(env.Data)).Msg("forwarding signal")
		ctl.ctrl.VideoSignal(sid, env.Data)
	default:
		log.Warn().Str("module", "ws.video").Str("type", env.Type).Msg("unknown event")
	}
}

// classifySignal names the signal's type discriminator for logs. SDP payloads
// are normalized through pion's parser; everything else (candidates, custom
// control frames) passes through as-is. The payload itself is never touched.
func classifySignal(data json.RawMessage) string {
	var p struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &p); err != nil || p.Type == "" {
		return "unknown"
	}
	if t := webrtc.NewSDPType(p.Type); t != webrtc.SDPTypeUnknown {
		return t.String()
	}
	return p.Type
}
