// Package docs is generated by swaggo/swag from the handler annotations.
// Regenerate with `swag init -g cmd/sitegen/docs.go -o docs`.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "sitegen maintainers"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/edit": {
            "post": {
                "description": "Applies natural-language instructions to an existing HTML document.",
                "consumes": ["application/json"],
                "produces": ["text/plain"],
                "tags": ["sites"],
                "summary": "Edit a site",
                "parameters": [
                    {"type": "string", "description": "Model override", "name": "model", "in": "query"},
                    {
                        "description": "Existing code and instructions",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/types.EditRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "Sanitized HTML document", "schema": {"type": "string"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "415": {"description": "Unsupported Media Type", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/generate": {
            "post": {
                "description": "Builds a single-file HTML page from arbitrary form data.",
                "consumes": ["application/json"],
                "produces": ["text/plain"],
                "tags": ["sites"],
                "summary": "Generate a site",
                "parameters": [
                    {"type": "string", "description": "Model override", "name": "model", "in": "query"},
                    {
                        "description": "Form data",
                        "name": "form",
                        "in": "body",
                        "required": true,
                        "schema": {"type": "object"}
                    }
                ],
                "responses": {
                    "200": {"description": "Sanitized HTML document", "schema": {"type": "string"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "415": {"description": "Unsupported Media Type", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/models": {
            "get": {
                "produces": ["application/json"],
                "tags": ["models"],
                "summary": "List models",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.ModelsResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "types.EditRequest": {
            "type": "object",
            "properties": {
                "existingCode": {"type": "string", "example": "<!DOCTYPE html><html><body><h1>Acme</h1></body></html>"},
                "instructions": {"type": "string", "example": "Make the heading blue and add a contact section."},
                "model": {"type": "string", "example": "qwen2.5-coder:7b"}
            }
        },
        "types.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "integer", "example": 400},
                "detail": {"type": "string", "example": "invalid JSON body"}
            }
        },
        "types.Model": {
            "type": "object",
            "properties": {
                "digest": {"type": "string"},
                "family": {"type": "string"},
                "modified_at": {"type": "string"},
                "name": {"type": "string"},
                "size": {"type": "integer"}
            }
        },
        "types.ModelsResponse": {
            "type": "object",
            "properties": {
                "default_model": {"type": "string"},
                "models": {"type": "array", "items": {"$ref": "#/definitions/types.Model"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "sitegen API",
	Description:      "Generates and edits single-file websites with a local language model.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
