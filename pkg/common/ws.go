package common

import (
	"encoding/json"

	"github.com/olahol/melody"
	"github.com/scienceol/chemstock/pkg/common/code"
	"github.com/scienceol/chemstock/pkg/common/uuid"
)

// WsMsgType is the envelope of every websocket frame in both directions.
type WsMsgType struct {
	Action  string    `json:"action"`
	MsgUUID uuid.UUID `json:"msg_uuid"`
}

type WsResp struct {
	WsMsgType
	Code  code.ErrCode `json:"code"`
	Error string       `json:"error,omitempty"`
	Data  any          `json:"data,omitempty"`
}

func ReplyWSOk(s *melody.Session, action string, msgUUID uuid.UUID, data ...any) error {
	resp := &WsResp{
		WsMsgType: WsMsgType{Action: action, MsgUUID: msgUUID},
		Code:      code.Success,
	}
	if len(data) > 0 {
		resp.Data = data[0]
	}
	return writeWS(s, resp)
}

func ReplyWSErr(s *melody.Session, action string, msgUUID uuid.UUID, err error) error {
	c, _ := code.Parse(err)
	return writeWS(s, &WsResp{
		WsMsgType: WsMsgType{Action: action, MsgUUID: msgUUID},
		Code:      c,
		Error:     c.String(),
	})
}

func writeWS(s *melody.Session, resp *WsResp) error {
	b, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return s.Write(b)
}
