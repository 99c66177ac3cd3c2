package constant

// 0 / 1xxx: generic and system level codes
const (
	CodeSuccess       = 0
	CodeSystemError   = 1000
	CodeDatabaseError = 1001
	CodeMissingParams = 1002
	CodeParamsType    = 1003
	CodeUnauthorized  = 1004
)

// 20xx: request validation
const (
	CodeValidation        = 2000
	CodeAmountInvalid     = 2001
	CodeEmailInvalid      = 2002
	CodeOwnershipMismatch = 2003
)

// 21xx: transactions
const (
	CodeTransactionNotFound = 2100
	CodeReferenceConflict   = 2101
	CodeStatusConflict      = 2102
)

// 22xx: channels and provider configuration
const (
	CodeChannelNotFound     = 2200
	CodeChannelInactive     = 2201
	CodeChannelInUse        = 2202
	CodeUnsupportedProvider = 2203
	CodeMissingConfigFields = 2204
	CodeDefaultRequired     = 2205
	CodeFeeConfigInvalid    = 2206
)

// 23xx: provider calls
const (
	CodeProviderError       = 2300
	CodeProviderTimeout     = 2301
	CodeProviderUnavailable = 2302
)
