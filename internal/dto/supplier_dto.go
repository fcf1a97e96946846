package dto

type SupplierRequest struct {
	Name    string  `json:"name" validate:"required,min=2"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Address *string `json:"address"`
	Note    *string `json:"note"`
}

type SupplierResponse struct {
	ID      uint    `json:"id"`
	Name    string  `json:"name"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
	Address *string `json:"address"`
	Note    *string `json:"note"`
	CreatedAt string `json:"created_at"`
}

type SupplierListResponse struct {
	Data []SupplierResponse `json:"data"`
	PageMeta
}
