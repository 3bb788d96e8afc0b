package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/kbukum/plughttp/component"
	"github.com/kbukum/plughttp/httpclient"
)

type callOptions struct {
	root *rootOptions

	baseURL   string
	username  string
	password  string
	proxyHost string
	proxyPort int
	noProxy   string
	strictTLS bool
	caFile    string
	timeout   time.Duration
	userAgent string

	options []string
	data    string
	extract string
	include bool
	raw     bool
}

func newCallCmd(root *rootOptions) *cobra.Command {
	o := &callOptions{root: root}
	cmd := &cobra.Command{
		Use:   "call VERB URI",
		Short: "Send one request and print the response body",
		Long: `Send one request and print the response body.

VERB is one of GET, POST, PUT, DELETE, HEAD or OPTIONS. A URI starting with
a scheme is used as is; anything else is appended to the base URL.

Options given with -o become query parameters, except Accept and
Content-Type which are sent as headers.`,
		Example: `  plughttp call GET /accounts/42 --base-url https://api.example.com/v1
  plughttp call POST /accounts -d @account.json -o Content-Type=application/json
  plughttp call GET https://api.example.com/v1/accounts -o status=open --extract 0.id`,
		Args: usageArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, args[0], args[1])
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.baseURL, "base-url", "", "base URL prefixed to relative URIs")
	f.StringVarP(&o.username, "username", "u", "", "Basic auth username")
	f.StringVarP(&o.password, "password", "p", "", "Basic auth password")
	f.StringVar(&o.proxyHost, "proxy-host", "", "HTTP proxy host")
	f.IntVar(&o.proxyPort, "proxy-port", 0, "HTTP proxy port")
	f.StringVar(&o.noProxy, "no-proxy", "", "hosts that bypass the proxy, NO_PROXY syntax")
	f.BoolVar(&o.strictTLS, "strict-tls", false, "verify server certificates")
	f.StringVar(&o.caFile, "ca-file", "", "PEM bundle of trusted CAs")
	f.DurationVar(&o.timeout, "timeout", 0, "request timeout (default 10s)")
	f.StringVar(&o.userAgent, "user-agent", "", "User-Agent header")
	f.StringArrayVarP(&o.options, "option", "o", nil, "request option key=value (repeatable)")
	f.StringVarP(&o.data, "data", "d", "", "request body, @file to read a file or - for stdin")
	f.StringVar(&o.extract, "extract", "", "print only the value at this JSON path")
	f.BoolVarP(&o.include, "include", "i", false, "print the status line and headers")
	f.BoolVar(&o.raw, "raw", false, "print JSON bodies without reformatting")
	return cmd
}

func (o *callOptions) run(cmd *cobra.Command, rawVerb, uri string) error {
	verb, err := httpclient.ParseVerb(rawVerb)
	if err != nil {
		return err
	}
	opts, err := parseOptions(o.options)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(o.root)
	if err != nil {
		return err
	}
	o.applyFlags(cmd.Flags(), &cfg.HTTP)
	cfg.HTTP.Logger = cfg.newLogger(cmd.ErrOrStderr())

	spec := httpclient.RequestSpec{Verb: verb, URI: uri, Options: opts}
	if cmd.Flags().Changed("data") {
		body, err := readBody(o.data, cmd.InOrStdin())
		if err != nil {
			return err
		}
		spec.Body = &body
	}

	stopTelemetry, err := cfg.startTelemetry(cmd.Context())
	if err != nil {
		return err
	}
	defer stopTelemetry()

	comp := httpclient.NewComponent(cfg.HTTP)
	reg := component.NewRegistry(cfg.HTTP.Logger)
	if err := reg.Register(comp); err != nil {
		return err
	}
	if err := reg.StartAll(cmd.Context()); err != nil {
		return err
	}
	defer func() { _ = reg.StopAll(context.Background()) }()
	client := comp.Client()

	p := newPrinter(cmd.OutOrStdout(), o.root.noColor)
	p.include, p.raw = o.include, o.raw
	var resp httpclient.Response
	if err := client.Do(cmd.Context(), spec, &resp); err != nil {
		if r := httpclient.ResponseOf(err); r != nil {
			_ = p.response(r, "")
		}
		return err
	}
	return p.response(&resp, o.extract)
}

// applyFlags copies explicitly set flags over the file configuration.
func (o *callOptions) applyFlags(fs *pflag.FlagSet, cfg *httpclient.Config) {
	if fs.Changed("base-url") {
		cfg.BaseURL = o.baseURL
	}
	if fs.Changed("username") {
		cfg.Username = o.username
	}
	if fs.Changed("password") {
		cfg.Password = o.password
	}
	if fs.Changed("proxy-host") {
		cfg.ProxyHost = o.proxyHost
	}
	if fs.Changed("proxy-port") {
		cfg.ProxyPort = o.proxyPort
	}
	if fs.Changed("no-proxy") {
		cfg.NoProxy = o.noProxy
	}
	if fs.Changed("strict-tls") {
		cfg.StrictTLS = o.strictTLS
	}
	if fs.Changed("ca-file") {
		if cfg.TLS == nil {
			cfg.TLS = &httpclient.TLSConfig{}
		}
		cfg.TLS.CAFile = o.caFile
	}
	if fs.Changed("timeout") {
		cfg.Timeout = o.timeout
	}
	if fs.Changed("user-agent") {
		cfg.UserAgent = o.userAgent
	}
}

// parseOptions turns key=value pairs into request options. A bare key
// maps to an empty value.
func parseOptions(pairs []string) (httpclient.Options, error) {
	opts := httpclient.NewOptions()
	for _, kv := range pairs {
		key, value, _ := strings.Cut(kv, "=")
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, &usageError{fmt.Errorf("invalid option %q: missing key", kv)}
		}
		opts.Set(key, value)
	}
	return opts, nil
}

// readBody resolves the --data value: @path reads a file, - reads stdin.
func readBody(data string, stdin io.Reader) (string, error) {
	switch {
	case data == "-":
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", &usageError{fmt.Errorf("reading body from stdin: %w", err)}
		}
		return string(b), nil
	case strings.HasPrefix(data, "@"):
		b, err := os.ReadFile(data[1:])
		if err != nil {
			return "", &usageError{fmt.Errorf("reading body file: %w", err)}
		}
		return string(b), nil
	}
	return data, nil
}
