// Package docs holds the generated swagger specification.
// Regenerate with: swag init -g internal/social/http/router.go -o api/docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/signup": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Register a new user",
                "parameters": [
                    {
                        "description": "Signup payload",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/http.signupRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "User created successfully", "schema": {"$ref": "#/definitions/http.DetailResponse"}},
                    "400": {"description": "Validation failure", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Log in",
                "parameters": [
                    {
                        "description": "Login payload",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/http.loginRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "refresh and access tokens", "schema": {"$ref": "#/definitions/domain.TokenPair"}},
                    "400": {"description": "Invalid credentials or OTP", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/token/refresh": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Refresh tokens",
                "parameters": [
                    {
                        "description": "Refresh payload",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/http.refreshRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "new refresh and access tokens", "schema": {"$ref": "#/definitions/domain.TokenPair"}},
                    "401": {"description": "Invalid or expired refresh token", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/users/search": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Search users",
                "parameters": [
                    {"type": "string", "name": "keyword", "in": "query"},
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "page_size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "count, next, previous, results", "schema": {"$ref": "#/definitions/http.PageResponse"}},
                    "404": {"description": "Invalid page", "schema": {"$ref": "#/definitions/http.DetailResponse"}}
                }
            }
        },
        "/friend-request/send": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Friends"],
                "summary": "Send a friend request",
                "parameters": [
                    {
                        "description": "Recipient",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/http.friendSendRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created request", "schema": {"$ref": "#/definitions/http.FriendRequestResponse"}},
                    "400": {"description": "Self request, duplicate, unknown recipient or rate limit", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/friend-request/action/{id}": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Friends"],
                "summary": "Accept or reject a friend request",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {
                        "description": "accepted or rejected",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/http.friendActionRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "Resolved", "schema": {"$ref": "#/definitions/http.MessageResponse"}},
                    "403": {"description": "Acting user is not the recipient", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "404": {"description": "Not found or already acted upon", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/friend-request/list": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Friends"],
                "summary": "List friends or pending requests",
                "parameters": [
                    {"type": "string", "default": "accepted", "name": "status", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Friends or pending requests", "schema": {"type": "array", "items": {"$ref": "#/definitions/http.UserResponse"}}},
                    "404": {"description": "No friends / pending requests found", "schema": {"$ref": "#/definitions/http.MessageResponse"}}
                }
            }
        },
        "/mfa/totp/enroll": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["MFA"],
                "summary": "Enroll in TOTP",
                "responses": {
                    "200": {"description": "Secret and otpauth URL", "schema": {"$ref": "#/definitions/domain.MFAEnrollment"}},
                    "400": {"description": "Already enabled", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/mfa/totp/verify": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["MFA"],
                "summary": "Verify TOTP enrollment",
                "parameters": [
                    {
                        "description": "Current TOTP code",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/http.mfaCodeRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "TOTP enabled", "schema": {"$ref": "#/definitions/http.DetailResponse"}},
                    "400": {"description": "Invalid code", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/mfa/totp": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["MFA"],
                "summary": "Disable TOTP",
                "parameters": [
                    {
                        "description": "Current TOTP code",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/http.mfaCodeRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "TOTP disabled", "schema": {"$ref": "#/definitions/http.DetailResponse"}},
                    "400": {"description": "Invalid code or not enrolled", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/.well-known/jwks.json": {
            "get": {
                "produces": ["application/json"],
                "tags": ["well-known"],
                "summary": "Get JWKS",
                "responses": {
                    "200": {"description": "The JSON Web Key Set", "schema": {"$ref": "#/definitions/jwtx.JWKS"}}
                }
            }
        },
        "/livez": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "status, uptime, version", "schema": {"$ref": "#/definitions/http.HealthResponse"}}
                }
            }
        },
        "/readyz": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "status, uptime, version, checks", "schema": {"$ref": "#/definitions/http.HealthResponse"}},
                    "503": {"description": "service not ready", "schema": {"$ref": "#/definitions/http.HealthResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.TokenPair": {
            "type": "object",
            "properties": {
                "access": {"type": "string"},
                "refresh": {"type": "string"}
            }
        },
        "domain.MFAEnrollment": {
            "type": "object",
            "properties": {
                "account": {"type": "string"},
                "issuer": {"type": "string"},
                "secret": {"type": "string"},
                "url": {"type": "string"}
            }
        },
        "http.signupRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "http.loginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "otp": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "http.refreshRequest": {
            "type": "object",
            "properties": {
                "refresh": {"type": "string"}
            }
        },
        "http.friendSendRequest": {
            "type": "object",
            "properties": {
                "to_user": {"type": "string"}
            }
        },
        "http.friendActionRequest": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "enum": ["accepted", "rejected"]}
            }
        },
        "http.mfaCodeRequest": {
            "type": "object",
            "properties": {
                "otp": {"type": "string"}
            }
        },
        "http.UserResponse": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "first_name": {"type": "string"},
                "id": {"type": "string"},
                "last_name": {"type": "string"}
            }
        },
        "http.FriendRequestResponse": {
            "type": "object",
            "properties": {
                "created_at": {"type": "string"},
                "from_user": {"type": "string"},
                "id": {"type": "string"},
                "status": {"type": "string"},
                "to_user": {"type": "string"}
            }
        },
        "http.PageResponse": {
            "type": "object",
            "properties": {
                "count": {"type": "integer"},
                "next": {"type": "string"},
                "previous": {"type": "string"},
                "results": {"type": "array", "items": {"$ref": "#/definitions/http.UserResponse"}}
            }
        },
        "http.DetailResponse": {
            "type": "object",
            "properties": {
                "detail": {"type": "string"}
            }
        },
        "http.MessageResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"}
            }
        },
        "http.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"}
            }
        },
        "http.HealthResponse": {
            "type": "object",
            "properties": {
                "checks": {"type": "object"},
                "status": {"type": "string"},
                "uptime": {"type": "string"},
                "version": {"type": "string"}
            }
        },
        "jwtx.JWKS": {
            "type": "object",
            "properties": {
                "keys": {"type": "array", "items": {"type": "object"}}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "JWT access token. Format: \"Bearer {token}\".",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "SocialCore API",
	Description:      "Social-graph service: signup and login with JWT access tokens and rotating refresh tokens, user directory search, and a friend-request lifecycle with derived symmetric friendships.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
