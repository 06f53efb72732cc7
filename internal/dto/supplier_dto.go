package dto

type CreateSupplierRequest struct {
	Name  string  `json:"name"  validate:"required,min=2,max=120"`
	Phone *string `json:"phone" validate:"omitempty,max=30"`
}

type UpdateSupplierRequest struct {
	Name  *string `json:"name"  validate:"omitempty,min=2,max=120"`
	Phone *string `json:"phone" validate:"omitempty,max=30"`
}

type SupplierResponse struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Phone *string `json:"phone"`
}
