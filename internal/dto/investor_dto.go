package dto

type InvestorRequest struct {
	Name  string  `json:"name" validate:"required,min=2"`
	Phone *string `json:"phone"`
	Email *string `json:"email" validate:"omitempty,email"`
}

type InvestorResponse struct {
	ID        uint    `json:"id"`
	Name      string  `json:"name"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email"`
	CreatedAt string  `json:"created_at"`
}

type InvestorListResponse struct {
	Data []InvestorResponse `json:"data"`
	PageMeta
}
