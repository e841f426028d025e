package commands

import (
	"fmt"
	"reflect"

	"github.com/sirupsen/logrus"

	"github.com/Azure/azure-mcp/internal/logger"
)

// Services resolves collaborators by type. It is populated once at startup
// with Provide and only read afterwards, so concurrent lookups need no lock.
type Services struct {
	byType map[reflect.Type]any
}

func NewServices() *Services {
	return &Services{byType: make(map[reflect.Type]any)}
}

// Provide registers svc under the type T. Call it before serving requests.
func Provide[T any](s *Services, svc T) {
	s.byType[reflect.TypeFor[T]()] = svc
}

// Context is the per-call scope handed to a command: service resolution,
// the response being built and a logger tagged with the call.
type Context struct {
	services *Services
	Response *Response
	Log      *logrus.Entry
}

func NewContext(services *Services) *Context {
	if services == nil {
		services = NewServices()
	}
	return &Context{
		services: services,
		Response: NewResponse(),
		Log:      logger.WithFields(logger.Fields{}),
	}
}

// GetService resolves the collaborator registered as T. A missing
// registration is a *ConfigurationError, surfaced to the caller as a 500.
func GetService[T any](cc *Context) (T, error) {
	var zero T
	t := reflect.TypeFor[T]()
	svc, ok := cc.services.byType[t]
	if !ok {
		cc.Log.WithField("kind", "configuration").Errorf("no service registered for %s", t)
		return zero, &ConfigurationError{Reason: fmt.Sprintf("no service registered for %s", t)}
	}
	typed, ok := svc.(T)
	if !ok {
		return zero, &ConfigurationError{Reason: fmt.Sprintf("service registered for %s has type %T", t, svc)}
	}
	return typed, nil
}
