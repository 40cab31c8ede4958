package srv

import (
	"encoding/json"

	fireprotocol "github.com/holdno/firetower/protocol"
	"github.com/holdno/firetower/service/tower"

	"github.com/wayfinder-ai/wayfinder/pkg/socket/firetower"
	"github.com/wayfinder-ai/wayfinder/pkg/types"
)

// Tower is the room-scoped realtime channel. Delivery is at-most-once and
// best-effort: publishing to a room with no subscriber drops the event.
type Tower struct {
	pusher *firetower.SelfPusher[PublishData]
	tower.Manager[PublishData]
}

type PublishData struct {
	Subject string            `json:"subject"`
	Version string            `json:"version"`
	Type    types.WsEventType `json:"type"`
	Data    any               `json:"data"`
}

func (c *PublishData) MarshalJSON() ([]byte, error) {
	if c == nil {
		return []byte(""), nil
	}
	return json.Marshal(c)
}

func (c *PublishData) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == `""` {
		return nil
	}
	return json.Unmarshal(data, c)
}

func SetupSocketSrv() (*Tower, error) {
	manager, pusher, err := firetower.SetupFiretower[PublishData]()
	if err != nil {
		return nil, err
	}

	return &Tower{
		pusher:  pusher,
		Manager: manager,
	}, nil
}

func ApplyTower() ApplyFunc {
	return func(s *Srv) {
		var err error
		if s.tower, err = SetupSocketSrv(); err != nil {
			panic(err)
		}
	}
}

func (t *Tower) Pusher() *firetower.SelfPusher[PublishData] {
	return t.pusher
}

func (t *Tower) NewMessage(imtopic string, _type fireprotocol.FireOperation, data PublishData) *fireprotocol.FireInfo[PublishData] {
	fire := t.NewFire(fireprotocol.SourceSystem, t.pusher)
	fire.Message.Topic = imtopic
	fire.Message.Type = _type
	fire.Message.Data = data
	return fire
}

func (t *Tower) publish(imtopic string, data PublishData) error {
	fire := t.NewMessage(imtopic, fireprotocol.PublishOperation, data)
	return t.Publish(fire)
}

func (t *Tower) PublishProgress(topic, message string) error {
	return t.publish(topic, PublishData{
		Subject: types.EVENT_SUBJECT_PROGRESS,
		Version: "v1",
		Type:    types.WS_EVENT_ASSISTANT_PROGRESS,
		Data: types.ProgressEvent{
			Type:      types.EVENT_SUBJECT_PROGRESS,
			Message:   message,
			Timestamp: types.EventTimestamp(),
		},
	})
}

func (t *Tower) PublishFinal(topic, message string, askingForMore bool, screenshots []types.ScreenshotWithURL) error {
	return t.publish(topic, PublishData{
		Subject: types.EVENT_SUBJECT_FINAL,
		Version: "v1",
		Type:    types.WS_EVENT_ASSISTANT_FINAL,
		Data: types.FinalEvent{
			Type:                       types.EVENT_SUBJECT_FINAL,
			Message:                    message,
			IsAskingForMoreInformation: askingForMore,
			ScreenshotsWithUrls:        screenshots,
			Timestamp:                  types.EventTimestamp(),
		},
	})
}

func (t *Tower) PublishAgentAction(topic, action, description string, metadata map[string]any) error {
	return t.publish(topic, PublishData{
		Subject: types.EVENT_SUBJECT_AGENT_ACTION,
		Version: "v1",
		Type:    types.WS_EVENT_AGENT_ACTION,
		Data: types.AgentActionEvent{
			Type:   types.EVENT_SUBJECT_AGENT_ACTION,
			Action: action,
			Details: types.AgentActionDetails{
				Description: description,
				Metadata:    metadata,
			},
			Timestamp: types.EventTimestamp(),
		},
	})
}

func (t *Tower) PublishPipelineError(topic, errMsg string) error {
	return t.publish(topic, PublishData{
		Subject: types.EVENT_SUBJECT_AGENT_ERROR,
		Version: "v1",
		Type:    types.WS_EVENT_PIPELINE_ERROR,
		Data: types.AgentErrorEvent{
			Error:     errMsg,
			Timestamp: types.EventTimestamp(),
		},
	})
}
