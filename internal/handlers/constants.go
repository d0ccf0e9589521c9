package handlers

// Common error message constants shared across handlers
const (
	ErrMsgInvalidRequestBody = "Invalid request body"
	ErrMsgUnauthorized       = "Unauthorized"
	ErrMsgUserIDNotFound     = "User ID not found"
	ErrMsgVoterNotFound      = "Voter profile not found"
	ErrMsgCandidateNotFound  = "Candidate profile not found"
	ErrMsgInternalError      = "Internal server error"
)

// Gateway webhook responses. The payment provider expects a bare text body.
const (
	GatewayResponseOK = "OK"
)
