package dto

type RegisterAdminInitRequest struct {
	Name     string `json:"name" validate:"required,max=255" example:"Nimal Perera"`
	Email    string `json:"email" validate:"required,email,max=255" example:"nimal@efine.lk"`
	Password string `json:"password" validate:"required,min=6,max=128"`
	Role     string `json:"role" validate:"required,oneof=super_admin admin_officer finance_officer" example:"admin_officer"`
}

type RegisterAdminInitResponse struct {
	Success    bool   `json:"success"`
	TempSecret string `json:"tempSecret"`
	QRCodeURL  string `json:"qrCodeUrl"`
	OTPAuthURL string `json:"otpauthUrl"`
	Message    string `json:"message"`
}

type RegisterAdminCompleteRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=128"`
	Role     string `json:"role" validate:"required,oneof=super_admin admin_officer finance_officer"`
	Secret   string `json:"secret" validate:"required,max=128"`
	Token    string `json:"token" validate:"required,len=6,numeric"`
}

// AdminSummaryDTO is the projection returned after enrollment
type AdminSummaryDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type RegisterAdminCompleteResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Admin   AdminSummaryDTO `json:"admin"`
}
