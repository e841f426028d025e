package options

import (
	"fmt"
	"strings"
)

type AuthMethod string

const (
	AuthMethodAuto             AuthMethod = "auto"
	AuthMethodCredential       AuthMethod = "credential"
	AuthMethodAzureCLI         AuthMethod = "azure-cli"
	AuthMethodManagedIdentity  AuthMethod = "managed-identity"
	AuthMethodWorkloadIdentity AuthMethod = "workload-identity"
	AuthMethodServicePrincipal AuthMethod = "service-principal"
)

var authMethods = []AuthMethod{
	AuthMethodAuto,
	AuthMethodCredential,
	AuthMethodAzureCLI,
	AuthMethodManagedIdentity,
	AuthMethodWorkloadIdentity,
	AuthMethodServicePrincipal,
}

// AuthMethodNames lists the accepted --auth-method values.
func AuthMethodNames() []string {
	names := make([]string, 0, len(authMethods))
	for _, m := range authMethods {
		names = append(names, string(m))
	}
	return names
}

func ParseAuthMethod(s string) (AuthMethod, error) {
	for _, m := range authMethods {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown auth method: %s (supported: %s)", s, strings.Join(AuthMethodNames(), ", "))
}
