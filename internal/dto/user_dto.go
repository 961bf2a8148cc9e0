package dto

// RegisterUserRequest is the registration payload. Username is optional: when
// empty an anonymous display name is allocated.
type RegisterUserRequest struct {
	Username       string  `json:"username" validate:"omitempty,min=5,max=30"`
	Password       string  `json:"password" validate:"required,min=8"`
	Email          string  `json:"email" validate:"omitempty,email"`
	ConsultingType string  `json:"consultingType" validate:"required"`
	AgencyID       int64   `json:"agencyId" validate:"required"`
	Postcode       string  `json:"postcode" validate:"required,len=5"`
	Age            *string `json:"age" validate:"omitempty"`
	State          *string `json:"state" validate:"omitempty"`
	TermsAccepted  bool    `json:"termsAccepted" validate:"required"`
}

type RegisterUserResponse struct {
	SessionID string `json:"sessionId,omitempty"`
	Username  string `json:"username"`
}

// CreateEnquiryRequest posts the first message of a session. The chat
// credentials prove the caller controls the chat-backend account.
type CreateEnquiryRequest struct {
	Message     string `json:"message" validate:"required"`
	RcUserID    string `json:"rcUserId" validate:"required"`
	RcAuthToken string `json:"rcToken" validate:"required"`
}
