package httpclient

import "encoding/base64"

// basicAuth returns the preemptive Basic Authorization header value.
// Either part may be empty.
func basicAuth(username, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+password))
}
