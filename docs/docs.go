// Package docs registers the OpenAPI description served at /swagger.
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
        "/chat": {
            "post": {
                "consumes": ["application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "summary": "Ask about student leads",
                "parameters": [
                    {"type": "string", "description": "Question", "name": "user_input", "in": "formData", "required": true},
                    {"type": "string", "description": "JSON object of leads API filters", "name": "filters", "in": "formData"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.ChatResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.Response"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/errors.Response"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "summary": "Service health",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.HealthResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/types.HealthResponse"}}
                }
            }
        },
        "/test-api": {
            "get": {
                "produces": ["application/json"],
                "summary": "Probe the leads API",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}}
                }
            }
        },
        "/api/options": {
            "get": {
                "produces": ["application/json"],
                "summary": "Scoring choices",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/scoring.OptionSet"}}}
                }
            }
        },
        "/api/score": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Score one lead from factor values",
                "parameters": [
                    {"description": "Factor values in [0, 100]", "name": "lead", "in": "body", "required": true, "schema": {"$ref": "#/definitions/scoring.FactorVector"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/scoring.Result"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.Response"}}
                }
            }
        },
        "/api/score/options": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Score one lead from choices",
                "parameters": [
                    {"description": "One option label per factor", "name": "lead", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/scoring.Result"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.Response"}}
                }
            }
        },
        "/api/score/bulk": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "summary": "Score a csv or xlsx table",
                "parameters": [
                    {"type": "file", "description": "Table with the eight factor columns", "name": "file", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.Response"}}
                }
            }
        },
        "/api/score/bulk.csv": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["text/csv"],
                "summary": "Score a table and download csv",
                "parameters": [
                    {"type": "file", "description": "Table with the eight factor columns", "name": "file", "in": "formData", "required": true}
                ],
                "responses": {"200": {"description": "OK", "schema": {"type": "file"}}}
            }
        },
        "/api/score/bulk.xlsx": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "summary": "Score a table and download xlsx",
                "parameters": [
                    {"type": "file", "description": "Table with the eight factor columns", "name": "file", "in": "formData", "required": true}
                ],
                "responses": {"200": {"description": "OK", "schema": {"type": "file"}}}
            }
        },
        "/api/sample": {
            "get": {
                "produces": ["application/json"],
                "summary": "Analyse the session sample",
                "parameters": [
                    {"type": "string", "description": "Hot, Warm or Cold; repeatable", "name": "category", "in": "query"},
                    {"type": "string", "description": "Class applied for; repeatable", "name": "class", "in": "query"},
                    {"type": "number", "description": "Minimum score", "name": "min", "in": "query"},
                    {"type": "number", "description": "Maximum score", "name": "max", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"type": "object"}}}
            }
        },
        "/api/sample.csv": {
            "get": {
                "produces": ["text/csv"],
                "summary": "Download the session sample",
                "responses": {"200": {"description": "OK", "schema": {"type": "file"}}}
            }
        },
        "/api/sample/reset": {
            "post": {
                "produces": ["application/json"],
                "summary": "Regenerate the session sample",
                "responses": {"200": {"description": "OK", "schema": {"type": "object"}}}
            }
        },
        "/api/template": {
            "get": {
                "produces": ["text/csv"],
                "summary": "Download a scoring template",
                "responses": {"200": {"description": "OK", "schema": {"type": "file"}}}
            }
        },
        "/stats": {
            "get": {
                "produces": ["application/json"],
                "summary": "Runtime statistics",
                "responses": {"200": {"description": "OK", "schema": {"type": "object"}}}
            }
        }
    },
    "definitions": {
        "errors.Response": {
            "type": "object",
            "properties": {
                "error": {
                    "type": "object",
                    "properties": {
                        "category": {"type": "string"},
                        "message": {"type": "string"},
                        "fields": {"type": "array", "items": {"type": "string"}},
                        "request_id": {"type": "string"},
                        "timestamp": {"type": "string"}
                    }
                }
            }
        },
        "scoring.FactorVector": {
            "type": "object",
            "properties": {
                "location_score": {"type": "number", "maximum": 100, "minimum": 0},
                "how_you_know_us_score": {"type": "number", "maximum": 100, "minimum": 0},
                "sibling_in_school_score": {"type": "number", "maximum": 100, "minimum": 0},
                "previous_school_name_score": {"type": "number", "maximum": 100, "minimum": 0},
                "class_applied_for_score": {"type": "number", "maximum": 100, "minimum": 0},
                "last_class_percentage_score": {"type": "number", "maximum": 100, "minimum": 0},
                "communication_email_different_score": {"type": "number", "maximum": 100, "minimum": 0},
                "whatsapp_number_different_score": {"type": "number", "maximum": 100, "minimum": 0}
            }
        },
        "scoring.OptionSet": {
            "type": "object",
            "properties": {
                "factor": {"type": "string"},
                "field": {"type": "string"},
                "title": {"type": "string"},
                "options": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {"label": {"type": "string"}, "score": {"type": "number"}}
                    }
                }
            }
        },
        "scoring.Result": {
            "type": "object",
            "properties": {
                "lead_score": {"type": "number"},
                "category": {"type": "string", "enum": ["Hot", "Warm", "Cold"]},
                "lead_category": {"type": "string"},
                "color": {"type": "string"},
                "recommendation": {"type": "string"},
                "contributors": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "factor": {"type": "string"},
                            "value": {"type": "number"},
                            "weight": {"type": "number"},
                            "contribution": {"type": "number"}
                        }
                    }
                }
            }
        },
        "types.ChatResponse": {
            "type": "object",
            "properties": {"response": {"type": "string"}}
        },
        "types.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "external_api": {"type": "string"},
                "ai_model": {"type": "string"},
                "redis": {"type": "string"},
                "circuit_breaker": {"type": "string"},
                "services": {"type": "object"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Lead-o-meter API",
	Description:      "Admission lead scoring, bulk CSV/XLSX scoring and a narrated chat over the leads API.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
