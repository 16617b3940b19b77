/*
Package errs provides custom error types and application-level error code constants.

These error codes identify specific business or system errors both internally
and in responses sent to clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body JSON is malformed.
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates the request body contained trailing data after valid JSON.
	ErrExtraContentInBody = 1004

	// ErrRequestEntityTooLarge indicates that the request body exceeded the server limit.
	ErrRequestEntityTooLarge = 1005

	// ErrRateLimitExceeded indicates that the request rate exceeded the configured limit.
	ErrRateLimitExceeded = 1006
)

// 2xxx: Message and Conversation Errors
const (
	// ErrEmptyMessage indicates a message that carries neither text nor an image.
	ErrEmptyMessage = 2001

	// ErrMessageContentTooLong indicates the text content exceeded the maximum length.
	ErrMessageContentTooLong = 2002

	// ErrImageTypeInvalid indicates an image of a type outside the allowlist.
	ErrImageTypeInvalid = 2003

	// ErrImageDataInvalid indicates image data that could not be decoded.
	ErrImageDataInvalid = 2004

	// ErrImageTooLarge indicates image data exceeding the size limit.
	ErrImageTooLarge = 2005
)

// 3xxx: User, Session, and Security Errors
const (
	// ErrInvalidEmail indicates a missing or malformed email address.
	ErrInvalidEmail = 3001

	// ErrInvalidPassword indicates a password outside the accepted length range.
	ErrInvalidPassword = 3002

	// ErrEmailAlreadyExists indicates a signup attempt with an email already in use.
	ErrEmailAlreadyExists = 3003

	// ErrInvalidCredentials indicates a failed email/password check at login.
	ErrInvalidCredentials = 3004

	// ErrUserNotFound indicates that the referenced user account does not exist.
	ErrUserNotFound = 3005

	// ErrUnauthorized indicates a missing or invalid bearer token.
	ErrUnauthorized = 3006
)

// 5xxx: Internal and Upstream Errors
const (
	// ErrUnknown represents an unclassified server internal error.
	ErrUnknown = 5000

	// ErrImageUploadFailed indicates the image hosting collaborator rejected an upload.
	ErrImageUploadFailed = 5001

	// ErrStorageFailed indicates a durable-storage collaborator failure.
	ErrStorageFailed = 5002
)
