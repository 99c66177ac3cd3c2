package utils

import (
	"errors"

	"pay-gateway-api/internal/constant"
)

// Response is the uniform JSON envelope.
type Response struct {
	Code    int         `json:"code"`
	Msg     string      `json:"msg"`
	Data    interface{} `json:"data,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
}

func Success(data interface{}) Response {
	return Response{
		Code: constant.CodeSuccess,
		Msg:  "success",
		Data: data,
	}
}

func Error(code int) Response {
	if msg, exists := constant.ErrorMessages[code]; exists {
		return Response{Code: code, Msg: msg}
	}
	return Response{Code: code, Msg: "unknown error"}
}

// FromErr maps a service error onto the envelope, keeping any
// diagnostic data the error carries (e.g. missing config fields).
func FromErr(err error, traceID string) Response {
	code := constant.CodeOf(err)
	resp := Error(code)
	resp.TraceID = traceID
	var ce constant.Error
	if errors.As(err, &ce) && ce.Data() != nil {
		resp.Data = ce.Data()
	}
	return resp
}
