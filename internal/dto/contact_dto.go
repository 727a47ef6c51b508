package dto

type ContactRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,mail"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message" validate:"required"`
}

type ContactStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type ContactReplyRequest struct {
	ReplyMessage string `json:"replyMessage" validate:"required"`
}

type ContactNotesRequest struct {
	Notes string `json:"notes"`
}
