package azure

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
)

// NotFoundError reports a named resource that does not exist in its container.
type NotFoundError struct {
	Resource  string
	Name      string
	Container string
}

func (e *NotFoundError) Error() string {
	if e.Container == "" {
		return fmt.Sprintf("%s '%s' not found", e.Resource, e.Name)
	}
	return fmt.Sprintf("%s '%s' not found in %s", e.Resource, e.Name, e.Container)
}

func (e *NotFoundError) StatusCode() int {
	return http.StatusNotFound
}

// StatusCode extracts the HTTP status of a failed Azure call, or 0.
func StatusCode(err error) int {
	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) {
		return respErr.StatusCode
	}
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return nf.StatusCode()
	}
	return 0
}

func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

func IsForbidden(err error) bool {
	return StatusCode(err) == http.StatusForbidden
}
