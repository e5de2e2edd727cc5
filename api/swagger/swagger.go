package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "SMA Substitution Console API",
        "description": "JSON gateway over the substitution portal workflows",
        "version": "0.1.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Absence", "description": "Mark teachers absent"},
        {"name": "Substitutions", "description": "Substitution plan and edits"},
        {"name": "Transfers", "description": "Transfer requests and decisions"},
        {"name": "Theme", "description": "Light/dark preference"},
        {"name": "Exports", "description": "PDF and CSV exports"},
        {"name": "Observability", "description": "Health and metrics"}
    ],
    "paths": {
        "/health": {
            "get": {
                "tags": ["Observability"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "tags": ["Observability"],
                "summary": "Readiness check, pings the portal",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "Portal unreachable"}
                }
            }
        },
        "/api/v1/metrics/summary": {
            "get": {
                "tags": ["Observability"],
                "summary": "Request and submission counters",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/absence/roster": {
            "get": {
                "tags": ["Absence"],
                "summary": "Load the absence roster",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/absence/day": {
            "get": {
                "tags": ["Absence"],
                "summary": "Derive the rotation day for a date",
                "parameters": [
                    {"name": "date", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/absence": {
            "post": {
                "tags": ["Absence"],
                "summary": "Mark teachers absent",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitAbsenceRequest"}}
                ],
                "responses": {
                    "200": {"description": "Resolved or cancelled", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "No teachers selected", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Submission already in flight", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Portal rejected the submission", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "Portal unreachable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/absence/cancel": {
            "post": {
                "tags": ["Absence"],
                "summary": "Leave the absence page",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/substitutions/plan": {
            "get": {
                "tags": ["Substitutions"],
                "summary": "Substitution plan for a date",
                "parameters": [
                    {"name": "date", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/substitutions/{id}/candidates": {
            "get": {
                "tags": ["Substitutions"],
                "summary": "Teachers available to take over a substitution",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/substitutions/{id}": {
            "put": {
                "tags": ["Substitutions"],
                "summary": "Reassign a substitution",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/EditSubstitutionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/substitutions/{id}/transfer": {
            "post": {
                "tags": ["Transfers"],
                "summary": "Request a transfer of a substitution",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TransferRequestBody"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/transfers/{id}/{action}": {
            "post": {
                "tags": ["Transfers"],
                "summary": "Approve or reject a transfer request",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "action", "in": "path", "type": "string", "required": true, "enum": ["approve", "reject"]},
                    {"name": "payload", "in": "body", "schema": {"$ref": "#/definitions/ConfirmRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/theme": {
            "get": {
                "tags": ["Theme"],
                "summary": "Current theme",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Theme"],
                "summary": "Store a theme explicitly",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ThemeState"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/theme/toggle": {
            "post": {
                "tags": ["Theme"],
                "summary": "Flip between light and dark",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/exports/{kind}": {
            "post": {
                "tags": ["Exports"],
                "summary": "Export a page to PDF or CSV",
                "parameters": [
                    {"name": "kind", "in": "path", "type": "string", "required": true, "enum": ["substitution-plan", "schedule", "substitutions"]},
                    {"name": "payload", "in": "body", "schema": {"$ref": "#/definitions/ExportBody"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/exports/download/{token}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download an export via signed token",
                "produces": ["application/octet-stream"],
                "parameters": [
                    {"name": "token", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "File"},
                    "404": {"description": "Link invalid or expired"}
                }
            }
        }
    },
    "definitions": {
        "SubmitAbsenceRequest": {
            "type": "object",
            "properties": {
                "date": {"type": "string", "example": "2024-03-06"},
                "day": {"type": "string", "example": "Day 3"},
                "teacher_ids": {"type": "array", "items": {"type": "string"}},
                "confirm": {"type": "boolean"}
            }
        },
        "EditSubstitutionRequest": {
            "type": "object",
            "properties": {
                "new_teacher_id": {"type": "string"},
                "reason": {"type": "string"}
            }
        },
        "TransferRequestBody": {
            "type": "object",
            "properties": {
                "new_teacher_id": {"type": "string"},
                "reason": {"type": "string"},
                "transfer_all": {"type": "boolean"},
                "confirm": {"type": "boolean"}
            }
        },
        "ConfirmRequest": {
            "type": "object",
            "properties": {
                "confirm": {"type": "boolean"}
            }
        },
        "ThemeState": {
            "type": "object",
            "properties": {
                "theme": {"type": "string", "enum": ["light", "dark"]},
                "toggle_label": {"type": "string"}
            }
        },
        "ExportBody": {
            "type": "object",
            "properties": {
                "format": {"type": "string", "enum": ["pdf", "csv"]},
                "date": {"type": "string"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
