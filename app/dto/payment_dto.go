package dto

type PaymentHashRequest struct {
	OrderID  string `json:"order_id" validate:"required,max=128" example:"FINE-6f1c"`
	Amount   Amount `json:"amount" validate:"gt=0" example:"2500.00"`
	Currency string `json:"currency" validate:"required,len=3" example:"LKR"`
}

type PaymentHashResponse struct {
	Hash string `json:"hash"`
}
