package structures

import "net/http"

// Route is one panel endpoint; Handler already rejects other methods.
type Route struct {
	Method  string
	Url     string
	Handler http.Handler
}
