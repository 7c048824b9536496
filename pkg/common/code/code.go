package code

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrCode int

// Kind is the machine readable class of an error, stable across codes.
type Kind string

const (
	KindNotFound        Kind = "not_found"
	KindInvalidArgument Kind = "invalid_argument"
	KindConflict        Kind = "conflict"
	KindInternal        Kind = "internal"
)

const (
	Success ErrCode = 0

	// 1xxxx generic
	UnDefineErr    ErrCode = 10000
	ParamErr       ErrCode = 10001
	RecordNotFound ErrCode = 10002
	QueryRecordErr ErrCode = 10003
	CreateDataErr  ErrCode = 10004
	UpdateDataErr  ErrCode = 10005
	DeleteDataErr  ErrCode = 10006
	RPCHttpErr     ErrCode = 10007
	RPCHttpCodeErr ErrCode = 10008

	// 2xxxx chemicals
	ChemicalNotFound      ErrCode = 20001
	ChemicalCASExistErr   ErrCode = 20002
	ChemicalHasBottlesErr ErrCode = 20003
	InvalidCASErr         ErrCode = 20004

	// 3xxxx bottles and allocation
	BottleNotFound        ErrCode = 30001
	InvalidQuantityErr    ErrCode = 30002
	InvalidBottleStatus   ErrCode = 30003
	AllocationConflictErr ErrCode = 30004
	AllocateErr           ErrCode = 30005

	// 4xxxx locations
	LocationNotFound      ErrCode = 40001
	LocationNameExistErr  ErrCode = 40002
	LocationHasBottlesErr ErrCode = 40003

	// 5xxxx lookup
	LookupNotFound ErrCode = 50001

	// 6xxxx notify
	NotifyActionAlreadyRegistryErr ErrCode = 60001
	NotifySendMsgErr               ErrCode = 60002
	UnmarshalWSDataErr             ErrCode = 60003
	UnknownWSActionErr             ErrCode = 60004
)

type codeInfo struct {
	msg    string
	kind   Kind
	status int
}

var codeTable = map[ErrCode]codeInfo{
	Success:        {"success", "", http.StatusOK},
	UnDefineErr:    {"internal server error", KindInternal, http.StatusInternalServerError},
	ParamErr:       {"invalid parameter", KindInvalidArgument, http.StatusBadRequest},
	RecordNotFound: {"record not found", KindNotFound, http.StatusNotFound},
	QueryRecordErr: {"query record failed", KindInternal, http.StatusInternalServerError},
	CreateDataErr:  {"create record failed", KindInternal, http.StatusInternalServerError},
	UpdateDataErr:  {"update record failed", KindInternal, http.StatusInternalServerError},
	DeleteDataErr:  {"delete record failed", KindInternal, http.StatusInternalServerError},
	RPCHttpErr:     {"upstream request failed", KindInternal, http.StatusBadGateway},
	RPCHttpCodeErr: {"upstream returned an error status", KindInternal, http.StatusBadGateway},

	ChemicalNotFound:      {"chemical not found", KindNotFound, http.StatusNotFound},
	ChemicalCASExistErr:   {"chemical with this CAS number already exists", KindConflict, http.StatusBadRequest},
	ChemicalHasBottlesErr: {"cannot delete chemical with bottles, delete its bottles first", KindConflict, http.StatusBadRequest},
	InvalidCASErr:         {"invalid CAS number format", KindInvalidArgument, http.StatusBadRequest},

	BottleNotFound:        {"bottle not found", KindNotFound, http.StatusNotFound},
	InvalidQuantityErr:    {"number of bottles must be at least 1", KindInvalidArgument, http.StatusBadRequest},
	InvalidBottleStatus:   {"invalid bottle status", KindInvalidArgument, http.StatusBadRequest},
	AllocationConflictErr: {"bottle id allocation conflicted with a concurrent request", KindConflict, http.StatusConflict},
	AllocateErr:           {"failed to create bottles", KindInternal, http.StatusInternalServerError},

	LocationNotFound:      {"location not found", KindNotFound, http.StatusNotFound},
	LocationNameExistErr:  {"a location with this name already exists in this room/building", KindConflict, http.StatusConflict},
	LocationHasBottlesErr: {"cannot delete location with bottles, move or delete bottles first", KindConflict, http.StatusBadRequest},

	LookupNotFound: {"chemical not found", KindNotFound, http.StatusNotFound},

	NotifyActionAlreadyRegistryErr: {"notify action already registered", KindInternal, http.StatusInternalServerError},
	NotifySendMsgErr:               {"send notify message failed", KindInternal, http.StatusInternalServerError},
	UnmarshalWSDataErr:             {"malformed websocket message", KindInvalidArgument, http.StatusBadRequest},
	UnknownWSActionErr:             {"unknown websocket action", KindInvalidArgument, http.StatusBadRequest},
}

func (c ErrCode) info() codeInfo {
	if info, ok := codeTable[c]; ok {
		return info
	}
	return codeTable[UnDefineErr]
}

func (c ErrCode) Int() int { return int(c) }

func (c ErrCode) String() string { return c.info().msg }

func (c ErrCode) Error() string { return c.info().msg }

func (c ErrCode) Kind() Kind { return c.info().kind }

func (c ErrCode) HTTPStatus() int { return c.info().status }

func (c ErrCode) WithMsg(msg string) *ErrMsg {
	return &ErrMsg{Code: c, Msg: msg}
}

func (c ErrCode) WithMsgf(format string, args ...any) *ErrMsg {
	return &ErrMsg{Code: c, Msg: fmt.Sprintf(format, args...)}
}

func (c ErrCode) WithErr(err error) *ErrMsg {
	return &ErrMsg{Code: c, Msg: c.info().msg, Err: err}
}

func (c ErrCode) WithField(key string, value any) *ErrMsg {
	return (&ErrMsg{Code: c, Msg: c.info().msg}).WithField(key, value)
}

// ErrMsg is an ErrCode decorated with a message, a cause and extra reply fields.
type ErrMsg struct {
	Code   ErrCode
	Msg    string
	Err    error
	Fields map[string]any
}

func (e *ErrMsg) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%d %s: %v", e.Code, e.Msg, e.Err)
	}
	return fmt.Sprintf("%d %s", e.Code, e.Msg)
}

func (e *ErrMsg) Unwrap() error { return e.Err }

// Is lets errors.Is(err, code.X) match a decorated code.
func (e *ErrMsg) Is(target error) bool {
	c, ok := target.(ErrCode)
	return ok && c == e.Code
}

func (e *ErrMsg) WithField(key string, value any) *ErrMsg {
	if e.Fields == nil {
		e.Fields = make(map[string]any, 1)
	}
	e.Fields[key] = value
	return e
}

func (e *ErrMsg) WithMsg(msg string) *ErrMsg {
	e.Msg = msg
	return e
}

// Parse resolves any error to the outermost code it carries.
// Errors that carry no code are reported as UnDefineErr.
func Parse(err error) (ErrCode, *ErrMsg) {
	var em *ErrMsg
	if errors.As(err, &em) {
		return em.Code, em
	}
	var c ErrCode
	if errors.As(err, &c) {
		return c, nil
	}
	return UnDefineErr, nil
}
