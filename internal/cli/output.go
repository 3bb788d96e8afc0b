package cli

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/fatih/color"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"

	"github.com/kbukum/plughttp/codec"
	apperrors "github.com/kbukum/plughttp/errors"
	"github.com/kbukum/plughttp/httpclient"
)

// ErrPathNotFound is returned when --extract matches nothing.
var ErrPathNotFound = errors.New("extract path not found in response")

// ErrNotJSON is returned when --extract is used on a non-JSON body.
var ErrNotJSON = errors.New("response body is not JSON")

type colorScheme struct {
	StatusOK    *color.Color
	StatusWarn  *color.Color
	StatusError *color.Color
	HeaderKey   *color.Color
	Error       *color.Color
}

func newColorScheme(noColor bool) *colorScheme {
	s := &colorScheme{
		StatusOK:    color.New(color.FgGreen, color.Bold),
		StatusWarn:  color.New(color.FgYellow, color.Bold),
		StatusError: color.New(color.FgRed, color.Bold),
		HeaderKey:   color.New(color.FgCyan),
		Error:       color.New(color.FgRed),
	}
	if noColor {
		for _, c := range []*color.Color{s.StatusOK, s.StatusWarn, s.StatusError, s.HeaderKey, s.Error} {
			c.DisableColor()
		}
	}
	return s
}

type printer struct {
	w          io.Writer
	colors     *colorScheme
	noColor    bool
	include    bool
	raw        bool
	jsonErrors bool
}

func newPrinter(w io.Writer, noColor bool) *printer {
	noColor = noColor || color.NoColor
	return &printer{w: w, colors: newColorScheme(noColor), noColor: noColor}
}

func (p *printer) statusColor(code int) *color.Color {
	switch {
	case code >= http.StatusBadRequest:
		return p.colors.StatusError
	case code >= http.StatusMultipleChoices:
		return p.colors.StatusWarn
	}
	return p.colors.StatusOK
}

// response writes the status line and headers when include is set, then
// the body or the value extracted from it.
func (p *printer) response(r *httpclient.Response, extract string) error {
	if p.include {
		p.head(r)
	}
	if extract != "" {
		return p.extracted(r.Body, extract)
	}
	p.body(r.Body)
	return nil
}

func (p *printer) head(r *httpclient.Response) {
	status := fmt.Sprintf("HTTP %d %s", r.StatusCode, http.StatusText(r.StatusCode))
	_, _ = p.statusColor(r.StatusCode).Fprintln(p.w, status)

	keys := make([]string, 0, len(r.Headers))
	for k := range r.Headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, v := range r.Headers[k] {
			_, _ = fmt.Fprintf(p.w, "%s: %s\n", p.colors.HeaderKey.Sprint(k), v)
		}
	}
	_, _ = fmt.Fprintln(p.w)
}

func (p *printer) body(body []byte) {
	if len(body) == 0 {
		return
	}
	if !p.raw && gjson.ValidBytes(body) {
		body = pretty.Pretty(body)
		if !p.noColor {
			body = pretty.Color(body, nil)
		}
	}
	_, _ = p.w.Write(body)
	if body[len(body)-1] != '\n' {
		_, _ = fmt.Fprintln(p.w)
	}
}

func (p *printer) extracted(body []byte, path string) error {
	if !gjson.ValidBytes(body) {
		return ErrNotJSON
	}
	res := gjson.GetBytes(body, path)
	if !res.Exists() {
		return fmt.Errorf("%w: %s", ErrPathNotFound, path)
	}
	switch res.Type {
	case gjson.String:
		_, _ = fmt.Fprintln(p.w, res.Str)
	case gjson.JSON:
		p.body([]byte(res.Raw))
	default:
		_, _ = fmt.Fprintln(p.w, res.Raw)
	}
	return nil
}

// failure reports err on the error stream, as a colored line or as the
// JSON error envelope.
func (p *printer) failure(err error) {
	var he *httpclient.Error
	isClientErr := errors.As(err, &he)

	if p.jsonErrors {
		b, mErr := codec.JSON().Marshal(appErrorFor(err).ToResponse())
		if mErr == nil {
			_, _ = fmt.Fprintln(p.w, string(b))
			return
		}
	}

	icon := p.colors.Error.Sprint("✗")
	if isClientErr {
		ae := he.AppError(appName)
		hint := ""
		if ae.Retryable {
			hint = " (retryable)"
		}
		_, _ = fmt.Fprintf(p.w, "%s %s: %s%s\n", icon, ae.Code, he.Error(), hint)
		return
	}
	_, _ = fmt.Fprintf(p.w, "%s %s\n", icon, err.Error())
}

// appErrorFor maps any command error onto the shared error taxonomy.
func appErrorFor(err error) *apperrors.AppError {
	var he *httpclient.Error
	if errors.As(err, &he) {
		return he.AppError(appName)
	}
	if ae, ok := apperrors.AsAppError(err); ok {
		return ae
	}
	var ue *usageError
	var ce *configError
	if errors.As(err, &ue) || errors.As(err, &ce) {
		return apperrors.Validation(err.Error())
	}
	return apperrors.Internal(err).WithDetail("reason", err.Error())
}
