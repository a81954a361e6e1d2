// Package docs registers the InsureVis OpenAPI description with swag.
// Regenerate the template with `swag init -g cmd/server/main.go`.
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
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Sign in to a review portal",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Invalid credentials"}, "403": {"description": "No portal access"}}
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["auth"],
                "summary": "Refresh tokens",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Invalid refresh token"}}
            }
        },
        "/reviews/claims": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["reviews"],
                "summary": "List claims for review",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/reviews/claims/export": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["reviews"],
                "summary": "Export claims as CSV or XLSX",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/reviews/claims/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["reviews"],
                "summary": "Claim review detail",
                "responses": {"200": {"description": "OK"}, "404": {"description": "Claim not found"}}
            }
        },
        "/reviews/claims/{id}/decision": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["reviews"],
                "summary": "Decide a claim",
                "responses": {"200": {"description": "OK"}, "409": {"description": "Precondition failed or claim locked"}}
            }
        },
        "/reviews/claims/{id}/documents/verification": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["reviews"],
                "summary": "Verify several documents",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/reviews/documents/{id}/verification": {
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["reviews"],
                "summary": "Verify or un-verify a document",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/reviews/documents/{id}/rejection": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["reviews"],
                "summary": "Reject a document",
                "responses": {"200": {"description": "OK"}, "400": {"description": "Missing reason"}}
            }
        },
        "/reviews/rejection-reasons": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["reviews"],
                "summary": "Document rejection reasons",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/documents/{id}/url": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["documents"],
                "summary": "Presigned document URL",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/documents/{id}/content": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["documents"],
                "summary": "Stream document content",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/admin/users": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["admin"],
                "summary": "List portal accounts",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["admin"],
                "summary": "Create a portal account",
                "responses": {"201": {"description": "Created"}, "409": {"description": "Email already exists"}}
            }
        },
        "/admin/reconcile": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["admin"],
                "summary": "Reconcile all open claims",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/admin/claims/{id}/reconcile": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["admin"],
                "summary": "Reconcile one claim",
                "responses": {"200": {"description": "OK"}}
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
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "InsureVis Claims Review API",
	Description:      "Car company and insurance company review of vehicle insurance claims.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
