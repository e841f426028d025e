package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
)

const TroubleshootingURL = "https://aka.ms/azmcp/troubleshooting"

// StatusClientClosedRequest marks a call abandoned because its context was
// cancelled.
const StatusClientClosedRequest = 499

// ConfigurationError is a programmer or deployment mistake, such as resolving
// a service that was never registered or registering a command twice.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

// ErrorMapper is one case of the error to (status, message) dispatch.
type ErrorMapper struct {
	Match func(err error) bool
	Map   func(err error) (int, string)
}

// MapAs builds a mapper matching errors of type E anywhere in the chain.
func MapAs[E error](fn func(target E) (int, string)) ErrorMapper {
	return ErrorMapper{
		Match: func(err error) bool {
			var target E
			return errors.As(err, &target)
		},
		Map: func(err error) (int, string) {
			var target E
			errors.As(err, &target)
			return fn(target)
		},
	}
}

// MapStatus matches Azure responses with the given HTTP status code.
func MapStatus(status int, message func(err error) string) ErrorMapper {
	return ErrorMapper{
		Match: func(err error) bool {
			var respErr *azcore.ResponseError
			return errors.As(err, &respErr) && respErr.StatusCode == status
		},
		Map: func(err error) (int, string) {
			return status, message(err)
		},
	}
}

// statusCoder lets collaborator errors carry their own HTTP-style status.
type statusCoder interface {
	error
	StatusCode() int
}

var defaultMappers = []ErrorMapper{
	MapAs(func(e *ValidationError) (int, string) {
		return http.StatusBadRequest, e.Error()
	}),
	MapAs(func(e *ConfigurationError) (int, string) {
		return http.StatusInternalServerError, withTroubleshooting(e.Error())
	}),
	{
		Match: func(err error) bool { return errors.Is(err, context.DeadlineExceeded) },
		Map: func(err error) (int, string) {
			return http.StatusRequestTimeout, withTroubleshooting("The operation timed out")
		},
	},
	{
		Match: func(err error) bool { return errors.Is(err, context.Canceled) },
		Map: func(err error) (int, string) {
			return StatusClientClosedRequest, "The operation was cancelled"
		},
	},
	MapAs(func(e *azidentity.AuthenticationFailedError) (int, string) {
		return http.StatusUnauthorized, withTroubleshooting("Authentication failed: " + e.Error())
	}),
	MapAs(func(e *azcore.ResponseError) (int, string) {
		return e.StatusCode, withTroubleshooting(e.Error())
	}),
	MapAs(func(e statusCoder) (int, string) {
		return e.StatusCode(), withTroubleshooting(e.Error())
	}),
}

// HandleError writes err into resp. Command mappers are consulted first, in
// order; the default table applies when none matches, and anything unknown
// becomes a 500.
func HandleError(resp *Response, err error, mappers []ErrorMapper) {
	status, message := mapError(err, mappers)
	resp.Status = status
	resp.Message = message
	resp.Results = nil
}

func mapError(err error, mappers []ErrorMapper) (int, string) {
	for _, m := range mappers {
		if m.Match(err) {
			return m.Map(err)
		}
	}
	for _, m := range defaultMappers {
		if m.Match(err) {
			return m.Map(err)
		}
	}
	return http.StatusInternalServerError, withTroubleshooting(err.Error())
}

func withTroubleshooting(msg string) string {
	return fmt.Sprintf("%s. To mitigate this issue, please refer to the troubleshooting guidelines here at %s.", msg, TroubleshootingURL)
}
