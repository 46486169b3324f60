// Package docs registers the OpenAPI document served at /swagger/doc.json
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/admin/login": {
            "post": {
                "tags": ["Admin Auth"],
                "summary": "Admin login",
                "description": "Password login with an optional TOTP second factor",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.AdminLoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.AdminLoginResponse"}},
                    "400": {"description": "Missing fields", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "401": {"description": "Invalid credentials or 2FA code", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "403": {"description": "Deactivated or 2FA required", "schema": {"$ref": "#/definitions/dto.TwoFactorRequiredResponse"}}
                }
            }
        },
        "/api/admin/captcha": {
            "get": {
                "tags": ["Admin Auth"],
                "summary": "Issue a rotate captcha challenge",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.AdminCaptchaResponse"}}
                }
            }
        },
        "/api/admin/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Admin Auth"],
                "summary": "Current admin profile",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.AdminProfileResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/dto.APIResponse"}}
                }
            }
        },
        "/api/admin/2fa/generate": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Two Factor"],
                "summary": "Generate a TOTP secret and QR code",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.TwoFactorSetupResponse"}}
                }
            }
        },
        "/api/admin/2fa/enable": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Two Factor"],
                "summary": "Enable 2FA with a verified code",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.EnableTwoFactorRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.MessageResponse"}},
                    "400": {"description": "Invalid code", "schema": {"$ref": "#/definitions/dto.APIResponse"}}
                }
            }
        },
        "/api/admin/2fa/disable": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Two Factor"],
                "summary": "Disable 2FA after re-checking the password",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.DisableTwoFactorRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.MessageResponse"}},
                    "401": {"description": "Invalid password", "schema": {"$ref": "#/definitions/dto.APIResponse"}}
                }
            }
        },
        "/api/admin/register/init": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Admin Enrollment"],
                "summary": "Start two-step admin registration",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.RegisterAdminInitRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.RegisterAdminInitResponse"}},
                    "409": {"description": "Email already exists", "schema": {"$ref": "#/definitions/dto.APIResponse"}}
                }
            }
        },
        "/api/admin/register/complete": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Admin Enrollment"],
                "summary": "Finish admin registration with a TOTP code",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.RegisterAdminCompleteRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.RegisterAdminCompleteResponse"}},
                    "400": {"description": "Invalid verification code", "schema": {"$ref": "#/definitions/dto.APIResponse"}}
                }
            }
        },
        "/api/admin/dashboard/stats": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Reports"],
                "summary": "Dashboard counters and recent activity",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.DashboardStatsResponse"}}
                }
            }
        },
        "/api/payment/hash": {
            "post": {
                "tags": ["Payment"],
                "summary": "PayHere checkout hash",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.PaymentHashRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.PaymentHashResponse"}},
                    "500": {"description": "Merchant credentials missing", "schema": {"$ref": "#/definitions/dto.APIResponse"}}
                }
            }
        },
        "/api/auth/request-verification": {
            "post": {
                "tags": ["Officer Verification"],
                "summary": "Email a verification code to the station OIC",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.RequestVerificationRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.MessageResponse"}},
                    "404": {"description": "Invalid station code", "schema": {"$ref": "#/definitions/dto.APIResponse"}}
                }
            }
        }
    },
    "definitions": {
        "dto.APIResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "data": {},
                "error": {"$ref": "#/definitions/dto.ErrorDetail"}
            }
        },
        "dto.ErrorDetail": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "details": {}
            }
        },
        "dto.MessageResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"}
            }
        },
        "dto.AdminLoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string", "example": "admin@efine.lk"},
                "password": {"type": "string"},
                "totpToken": {"type": "string", "example": "123456"},
                "captchaChallengeId": {"type": "string"},
                "captchaAngle": {"type": "number"}
            }
        },
        "dto.AdminUserDTO": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "role": {"type": "string", "enum": ["super_admin", "admin_officer", "finance_officer"]},
                "phone": {"type": "string"},
                "profileImage": {"type": "string"},
                "isTwoFactorEnabled": {"type": "boolean"}
            }
        },
        "dto.AdminLoginResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "token": {"type": "string"},
                "expiresAt": {"type": "string", "format": "date-time"},
                "user": {"$ref": "#/definitions/dto.AdminUserDTO"}
            }
        },
        "dto.TwoFactorRequiredResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "requireTwoFactor": {"type": "boolean"},
                "message": {"type": "string"}
            }
        },
        "dto.AdminProfileResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "user": {"$ref": "#/definitions/dto.AdminUserDTO"}
            }
        },
        "dto.AdminCaptchaResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "challengeId": {"type": "string"},
                "masterImage": {"type": "string"},
                "thumbImage": {"type": "string"}
            }
        },
        "dto.TwoFactorSetupResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "secret": {"type": "string"},
                "qrCodeUrl": {"type": "string"},
                "otpauthUrl": {"type": "string"}
            }
        },
        "dto.EnableTwoFactorRequest": {
            "type": "object",
            "required": ["token", "secret"],
            "properties": {
                "token": {"type": "string", "example": "123456"},
                "secret": {"type": "string"}
            }
        },
        "dto.DisableTwoFactorRequest": {
            "type": "object",
            "required": ["password"],
            "properties": {
                "password": {"type": "string"}
            }
        },
        "dto.RegisterAdminInitRequest": {
            "type": "object",
            "required": ["name", "email", "password", "role"],
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string"},
                "role": {"type": "string", "enum": ["super_admin", "admin_officer", "finance_officer"]}
            }
        },
        "dto.RegisterAdminInitResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "tempSecret": {"type": "string"},
                "qrCodeUrl": {"type": "string"},
                "otpauthUrl": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "dto.RegisterAdminCompleteRequest": {
            "type": "object",
            "required": ["name", "email", "password", "role", "secret", "token"],
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string"},
                "role": {"type": "string", "enum": ["super_admin", "admin_officer", "finance_officer"]},
                "secret": {"type": "string"},
                "token": {"type": "string"}
            }
        },
        "dto.AdminSummaryDTO": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "role": {"type": "string"}
            }
        },
        "dto.RegisterAdminCompleteResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "admin": {"$ref": "#/definitions/dto.AdminSummaryDTO"}
            }
        },
        "dto.DashboardStatsResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "stats": {"type": "object"},
                "recentActivity": {"type": "object"}
            }
        },
        "dto.PaymentHashRequest": {
            "type": "object",
            "required": ["order_id", "amount", "currency"],
            "properties": {
                "order_id": {"type": "string"},
                "amount": {"type": "number", "example": 2500.00},
                "currency": {"type": "string", "example": "LKR"}
            }
        },
        "dto.PaymentHashResponse": {
            "type": "object",
            "properties": {
                "hash": {"type": "string"}
            }
        },
        "dto.RequestVerificationRequest": {
            "type": "object",
            "required": ["badgeNumber", "stationCode"],
            "properties": {
                "badgeNumber": {"type": "string"},
                "stationCode": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "e-Fine SL API",
	Description:      "Traffic fine administration backend: admin auth with TOTP, fines, reports and payments.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
