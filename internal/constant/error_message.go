package constant

// ErrorMessages maps business codes to operator facing messages.
// Messages never include channel credentials or other secret values.
var ErrorMessages = map[int]string{
	CodeSuccess:       "success",
	CodeSystemError:   "system error",
	CodeDatabaseError: "database error",
	CodeMissingParams: "missing required parameters",
	CodeParamsType:    "parameter type error",
	CodeUnauthorized:  "unauthorized",

	CodeValidation:        "request validation failed",
	CodeAmountInvalid:     "amount must be a positive number",
	CodeEmailInvalid:      "customer email is invalid",
	CodeOwnershipMismatch: "resource belongs to another owner",

	CodeTransactionNotFound: "transaction not found",
	CodeReferenceConflict:   "transaction reference already exists",
	CodeStatusConflict:      "provider reported a contradicting terminal status",

	CodeChannelNotFound:     "channel not found",
	CodeChannelInactive:     "channel is inactive",
	CodeChannelInUse:        "channel has transactions and cannot be deleted",
	CodeUnsupportedProvider: "unsupported payment provider",
	CodeMissingConfigFields: "provider config is missing required fields",
	CodeDefaultRequired:     "owner must keep exactly one default channel",
	CodeFeeConfigInvalid:    "fee configuration is invalid",

	CodeProviderError:       "payment provider request failed",
	CodeProviderTimeout:     "payment provider request timed out",
	CodeProviderUnavailable: "payment provider temporarily unavailable",
}
