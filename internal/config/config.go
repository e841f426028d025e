package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/Azure/azure-mcp/internal/options"
	"github.com/Azure/azure-mcp/internal/version"
)

type Config struct {
	Transport      string
	Host           string
	Port           int
	LogLevel       string
	LogFormat      string
	ReadOnly       bool
	Namespaces     []string
	ToolFilterFile string
	Timeout        int

	AuthMethod          string
	TenantID            string
	ClientID            string
	ClientSecret        string
	FederatedTokenFile  string
	DefaultSubscription string

	ShowHelp    bool
	ShowVersion bool

	flags *flag.FlagSet
}

func NewConfig() *Config {
	return &Config{
		Transport: "stdio",
		Host:      "127.0.0.1",
		Port:      8000,
		LogLevel:  "info",
		LogFormat: "text",
		ReadOnly:  false,
		Timeout:   120,

		AuthMethod: string(options.AuthMethodAuto),
	}
}

// ParseFlags parses the process arguments, handling --help and --version.
func (c *Config) ParseFlags() error {
	if err := c.Parse(os.Args[1:]); err != nil {
		return err
	}

	if c.ShowHelp {
		fmt.Printf("%s\n\nUsage:\n  azmcp [flags]\n  azmcp exec <group...> <command> [--option value...]\n\nFlags:\n", version.ServerName)
		c.flags.PrintDefaults()
		os.Exit(0)
	}

	if c.ShowVersion {
		fmt.Printf("%s version %s\n", version.ServerName, version.GetVersion())
		os.Exit(0)
	}

	return nil
}

// Parse applies command line flags, then environment overrides for anything
// the flags left unset, then validates.
func (c *Config) Parse(args []string) error {
	fs := flag.NewFlagSet("azmcp", flag.ContinueOnError)
	fs.StringVar(&c.Transport, "transport", c.Transport, "Transport mechanism (stdio, sse, streamable-http)")
	fs.StringVar(&c.Host, "host", c.Host, "Host to listen on (for non-stdio transport)")
	fs.IntVar(&c.Port, "port", c.Port, "Port to listen on (for non-stdio transport)")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&c.LogFormat, "log-format", c.LogFormat, "Log format (text, json)")
	fs.BoolVar(&c.ReadOnly, "read-only", c.ReadOnly, "Only expose and run read-only tools")
	fs.StringArrayVar(&c.Namespaces, "namespace", c.Namespaces, "Expose only tools of this top-level group (repeatable)")
	fs.StringVar(&c.ToolFilterFile, "tool-filter-file", c.ToolFilterFile, "Path to a YAML tool filter file")
	fs.IntVar(&c.Timeout, "timeout", c.Timeout, "Timeout for each tool call in seconds")
	fs.StringVar(&c.AuthMethod, "auth-method", c.AuthMethod, "Authentication method ("+strings.Join(options.AuthMethodNames(), ", ")+")")
	fs.BoolVarP(&c.ShowHelp, "help", "h", false, "Show help message")
	fs.BoolVar(&c.ShowVersion, "version", false, "Show version information")
	c.flags = fs

	if err := fs.Parse(args); err != nil {
		return err
	}

	c.loadFromEnv()

	return c.Validate()
}

func (c *Config) loadFromEnv() {
	changed := func(name string) bool {
		return c.flags != nil && c.flags.Changed(name)
	}

	if !changed("auth-method") {
		if method := os.Getenv("AZURE_MCP_AUTH_METHOD"); method != "" {
			c.AuthMethod = method
		}
	}

	if !changed("read-only") {
		if ro := os.Getenv("AZURE_MCP_READ_ONLY"); ro != "" {
			c.ReadOnly = ro == "true" || ro == "1"
		}
	}

	if !changed("namespace") {
		if ns := os.Getenv("AZURE_MCP_NAMESPACES"); ns != "" {
			c.Namespaces = splitList(ns)
		}
	}

	if tenantID := os.Getenv("AZURE_TENANT_ID"); tenantID != "" {
		c.TenantID = tenantID
	}

	if clientID := os.Getenv("AZURE_CLIENT_ID"); clientID != "" {
		c.ClientID = clientID
	}

	if tokenFile := os.Getenv("AZURE_FEDERATED_TOKEN_FILE"); tokenFile != "" {
		c.FederatedTokenFile = tokenFile
	}

	if secret := os.Getenv("AZURE_CLIENT_SECRET"); secret != "" {
		c.ClientSecret = secret
	}

	if sub := os.Getenv("AZURE_SUBSCRIPTION_ID"); sub != "" {
		c.DefaultSubscription = sub
	}
}

// LoadFromEnv applies only the environment, for modes that take no flags.
func (c *Config) LoadFromEnv() error {
	c.loadFromEnv()
	return c.Validate()
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be greater than 0")
	}

	validTransports := map[string]bool{
		"stdio":           true,
		"sse":             true,
		"streamable-http": true,
	}

	if !validTransports[c.Transport] {
		return fmt.Errorf("invalid transport: %s (must be stdio, sse, or streamable-http)", c.Transport)
	}

	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("invalid log format: %s (must be text or json)", c.LogFormat)
	}

	if _, err := options.ParseAuthMethod(c.AuthMethod); err != nil {
		return err
	}

	return nil
}

func (c *Config) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// AuthMethodValue is the validated auth method.
func (c *Config) AuthMethodValue() options.AuthMethod {
	return options.AuthMethod(c.AuthMethod)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
