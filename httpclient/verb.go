package httpclient

import (
	"net/http"
	"strings"
)

// Verb is an HTTP method supported by the client.
type Verb string

const (
	VerbGet     Verb = http.MethodGet
	VerbPost    Verb = http.MethodPost
	VerbPut     Verb = http.MethodPut
	VerbDelete  Verb = http.MethodDelete
	VerbHead    Verb = http.MethodHead
	VerbOptions Verb = http.MethodOptions
)

// Verbs lists every supported verb.
var Verbs = []Verb{VerbGet, VerbPost, VerbPut, VerbDelete, VerbHead, VerbOptions}

// ParseVerb parses s case-insensitively.
func ParseVerb(s string) (Verb, error) {
	v := Verb(strings.ToUpper(strings.TrimSpace(s)))
	if !v.Valid() {
		return "", newError(KindInvalidVerb, "unrecognized verb: "+s, nil)
	}
	return v, nil
}

// Valid reports whether v is one of the supported verbs.
func (v Verb) Valid() bool {
	switch v {
	case VerbGet, VerbPost, VerbPut, VerbDelete, VerbHead, VerbOptions:
		return true
	}
	return false
}

// AllowsBody reports whether a request body is sent for v.
func (v Verb) AllowsBody() bool {
	return v != VerbGet && v != VerbHead
}

func (v Verb) String() string { return string(v) }
