// internal/app/system/limits/limits.go
package limits

// Request body size limits. The personnel extract itself is capped by
// csvutil.MaxUploadSize.
const (
	// MaxJSONBody caps JSON request bodies (edits, logins, admin forms).
	MaxJSONBody = 1 << 20 // 1 MB

	// MultipartOverhead is allowed on top of an uploaded file for
	// boundaries, part headers and small form fields.
	MultipartOverhead = 1 << 20 // 1 MB
)
