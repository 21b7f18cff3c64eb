package providers

import (
	"github.com/klauspost/compress/gzhttp"
	"net/http"
)

// CompressionMiddleware gzips responses for clients that accept it.
func CompressionMiddleware(next http.Handler) http.Handler {
	return gzhttp.GzipHandler(next)
}
