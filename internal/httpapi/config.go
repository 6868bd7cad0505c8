package httpapi

import "time"

// DefaultMaxBodyBytes bounds JSON request bodies unless overridden.
const DefaultMaxBodyBytes int64 = 4 << 20

// maxBodyBytes controls the maximum allowed request body size for JSON endpoints.
var maxBodyBytes = DefaultMaxBodyBytes

// SetMaxBodyBytes allows configuring the maximum request body size.
func SetMaxBodyBytes(n int64) {
	if n <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
		return
	}
	maxBodyBytes = n
}

// requestTimeout bounds a whole /generate or /edit request.
// Zero means no additional timeout beyond the backend client's own.
var requestTimeout = int64(0) // seconds

// SetRequestTimeoutSeconds sets the pipeline timeout in seconds (0 disables).
func SetRequestTimeoutSeconds(sec int64) {
	if sec < 0 {
		sec = 0
	}
	requestTimeout = sec
}

func requestTimeoutDuration() time.Duration {
	return time.Duration(requestTimeout) * time.Second
}

// allMethods is the method list used when none is configured.
var allMethods = []string{"GET", "HEAD", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}

// CORS configuration. Every origin, method, and header is allowed until
// SetCORSOptions says otherwise.
var (
	corsEnabled        = true
	corsAllowedOrigins = []string{"*"}
	corsAllowedMethods = allMethods
	corsAllowedHeaders = []string{"*"}
)

// SetCORSOptions configures CORS behavior for the HTTP server. Empty lists
// allow everything. Takes effect for routers built afterwards.
func SetCORSOptions(enabled bool, origins, methods, headers []string) {
	corsEnabled = enabled
	corsAllowedOrigins = orDefault(origins, []string{"*"})
	corsAllowedMethods = orDefault(methods, allMethods)
	corsAllowedHeaders = orDefault(headers, []string{"*"})
}

func orDefault(v, def []string) []string {
	if len(v) == 0 {
		return def
	}
	return append([]string(nil), v...)
}
