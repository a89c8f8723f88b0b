package errors

// ErrorCode identifies the category of an AppError in API responses
type ErrorCode int32

const (
	ErrorCode_HTTP_OK ErrorCode = 0

	// General
	ErrorCode_INTERNAL         ErrorCode = 1000
	ErrorCode_INVALID_ARGUMENT ErrorCode = 1001
	ErrorCode_NOT_FOUND        ErrorCode = 1002
	ErrorCode_ALREADY_EXISTS   ErrorCode = 1003
	ErrorCode_UNAUTHENTICATED  ErrorCode = 1004
	ErrorCode_INVALID_PAYLOAD  ErrorCode = 1005

	// Webhook / tenant
	ErrorCode_WEBHOOK_INVALID_SIGNATURE ErrorCode = 2000
	ErrorCode_TENANT_NOT_CONFIGURED     ErrorCode = 2001

	// Pipeline
	ErrorCode_JOB_NOT_FOUND      ErrorCode = 3000
	ErrorCode_JOB_INVALID_STATE  ErrorCode = 3001
	ErrorCode_NO_MEDIA_AVAILABLE ErrorCode = 3002
	ErrorCode_GENERATION_FAILED  ErrorCode = 3003
	ErrorCode_PROCESSING_FAILED  ErrorCode = 3004

	// Distribution
	ErrorCode_DELIVERY_FAILED ErrorCode = 4000

	// Integrations
	ErrorCode_DB_QUERY_FAILED             ErrorCode = 5000
	ErrorCode_INTEGRATION_STORAGE_FAILED  ErrorCode = 5001
	ErrorCode_INTEGRATION_EXTERNAL_FAILED ErrorCode = 5002
)

var codeNames = map[ErrorCode]string{
	ErrorCode_HTTP_OK:                     "OK",
	ErrorCode_INTERNAL:                    "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:            "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:                   "NOT_FOUND",
	ErrorCode_ALREADY_EXISTS:              "ALREADY_EXISTS",
	ErrorCode_UNAUTHENTICATED:             "UNAUTHENTICATED",
	ErrorCode_INVALID_PAYLOAD:             "INVALID_PAYLOAD",
	ErrorCode_WEBHOOK_INVALID_SIGNATURE:   "WEBHOOK_INVALID_SIGNATURE",
	ErrorCode_TENANT_NOT_CONFIGURED:       "TENANT_NOT_CONFIGURED",
	ErrorCode_JOB_NOT_FOUND:               "JOB_NOT_FOUND",
	ErrorCode_JOB_INVALID_STATE:           "JOB_INVALID_STATE",
	ErrorCode_NO_MEDIA_AVAILABLE:          "NO_MEDIA_AVAILABLE",
	ErrorCode_GENERATION_FAILED:           "GENERATION_FAILED",
	ErrorCode_PROCESSING_FAILED:           "PROCESSING_FAILED",
	ErrorCode_DELIVERY_FAILED:             "DELIVERY_FAILED",
	ErrorCode_DB_QUERY_FAILED:             "DB_QUERY_FAILED",
	ErrorCode_INTEGRATION_STORAGE_FAILED:  "INTEGRATION_STORAGE_FAILED",
	ErrorCode_INTEGRATION_EXTERNAL_FAILED: "INTEGRATION_EXTERNAL_FAILED",
}

// String returns the symbolic name of the code
func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}
