package commands

import (
	"net/http"
	"reflect"
)

const SuccessMessage = "Success"

// Response is the envelope returned by every command execution. A 200 with
// nil Results means the operation succeeded with nothing to show.
type Response struct {
	Status   int    `json:"status"`
	Message  string `json:"message"`
	Results  any    `json:"results"`
	Duration int64  `json:"duration"`
}

func NewResponse() *Response {
	return &Response{
		Status:  http.StatusOK,
		Message: SuccessMessage,
	}
}

// SetResults stores payload, leaving Results nil for a nil or empty payload.
func (r *Response) SetResults(payload any) {
	if isEmpty(payload) {
		r.Results = nil
		return
	}
	r.Results = payload
}

func (r *Response) IsSuccess() bool {
	return r.Status >= 200 && r.Status < 300
}

func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	case reflect.Slice, reflect.Map:
		return rv.Len() == 0
	default:
		return false
	}
}
