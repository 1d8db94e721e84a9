package apperror

// ErrorCode is a general, system-level error category.
type ErrorCode string

const (
	CodeBadRequest   ErrorCode = "BAD_REQUEST"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeForbidden    ErrorCode = "FORBIDDEN"
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeConflict     ErrorCode = "CONFLICT"
	CodeUnavailable  ErrorCode = "UNAVAILABLE"
	CodeInternal     ErrorCode = "INTERNAL"
)

// BusinessCode names the specific business reason behind an error.
type BusinessCode string

const (
	BusinessCodeGeneral             BusinessCode = "GENERAL"
	BusinessCodeUserNotFound        BusinessCode = "USER_NOT_FOUND"
	BusinessCodeRoleNotFound        BusinessCode = "ROLE_NOT_FOUND"
	BusinessCodeResourceNotFound    BusinessCode = "RESOURCE_NOT_FOUND"
	BusinessCodeSessionNotFound     BusinessCode = "SESSION_NOT_FOUND"
	BusinessCodePermissionDenied    BusinessCode = "PERMISSION_DENIED"
	BusinessCodeInvalidAction       BusinessCode = "INVALID_ACTION"
	BusinessCodeInvalidStatus       BusinessCode = "INVALID_STATUS"
	BusinessCodeUpstreamRejected    BusinessCode = "UPSTREAM_REJECTED"
	BusinessCodeUpstreamUnavailable BusinessCode = "UPSTREAM_UNAVAILABLE"
	BusinessCodeCacheMiss           BusinessCode = "CACHE_MISS"
)
