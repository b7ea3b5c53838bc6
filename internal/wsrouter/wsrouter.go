// Package wsrouter decodes the closed set of inbound WebSocket message
// envelopes into per-type payload shapes, since every inbound type here
// maps onto a single engine method.
package wsrouter

import (
	"encoding/json"
	"fmt"

	"github.com/soundroom/server/internal/engine"
)

type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type joinPayload struct {
	RoomID   string `json:"roomId"`
	UserName string `json:"userName"`
}

type queueAddPayload struct {
	URL string `json:"url"`
}

type queueRemovePayload struct {
	TrackID string `json:"trackId"`
}

type seekPayload struct {
	Time float64 `json:"time"`
}

type chatPayload struct {
	Text string `json:"text"`
}

type crossfadePayload struct {
	Duration json.RawMessage `json:"duration"`
}

// Decode parses one raw client frame into an engine.InboundMessage. Frames
// of unrecognized type, or whose payload does not match the shape expected
// for their type, are returned as an error; the caller is expected to drop
// the connection or ignore the frame per its own policy, since the wire
// protocol defines no client-facing decode-error response.
func Decode(raw []byte) (engine.InboundMessage, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return engine.InboundMessage{}, fmt.Errorf("decode envelope: %w", err)
	}

	in := engine.InboundMessage{Type: env.Type}

	switch env.Type {
	case engine.InJoin:
		var p joinPayload
		if err := unmarshalPayload(env.Payload, &p); err != nil {
			return engine.InboundMessage{}, err
		}
		in.RoomID = p.RoomID
		in.UserName = p.UserName
	case engine.InQueueAdd:
		var p queueAddPayload
		if err := unmarshalPayload(env.Payload, &p); err != nil {
			return engine.InboundMessage{}, err
		}
		in.URL = p.URL
	case engine.InQueueRemove:
		var p queueRemovePayload
		if err := unmarshalPayload(env.Payload, &p); err != nil {
			return engine.InboundMessage{}, err
		}
		in.TrackID = p.TrackID
	case engine.InPlaybackPlay, engine.InPlaybackPause, engine.InPlaybackSkip:
		// no payload fields
	case engine.InPlaybackSeek:
		var p seekPayload
		if err := unmarshalPayload(env.Payload, &p); err != nil {
			return engine.InboundMessage{}, err
		}
		in.Time = p.Time
	case engine.InChatMessage:
		var p chatPayload
		if err := unmarshalPayload(env.Payload, &p); err != nil {
			return engine.InboundMessage{}, err
		}
		in.Text = p.Text
	case engine.InCrossfadeSet:
		var p crossfadePayload
		if err := unmarshalPayload(env.Payload, &p); err != nil {
			return engine.InboundMessage{}, err
		}
		in.Duration = coerceDuration(p.Duration)
	default:
		return engine.InboundMessage{}, fmt.Errorf("unknown message type %q", env.Type)
	}

	return in, nil
}

func unmarshalPayload(raw json.RawMessage, dst any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}

// coerceDuration reads crossfade:set's duration field as a number, treating
// anything missing, non-numeric, or otherwise unparseable as 0 rather than
// failing the whole frame's decode.
func coerceDuration(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0
	}
	return f
}
