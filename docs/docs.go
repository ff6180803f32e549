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
        "/health": {
            "get": {
                "tags": [
                    "health"
                ],
                "summary": "Files API configuration status",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handler.HealthResponse"
                        }
                    }
                }
            }
        },
        "/benchmark": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "tags": [
                    "benchmark"
                ],
                "summary": "Run a sequential benchmark",
                "consumes": [
                    "multipart/form-data"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "file",
                        "description": "Document to benchmark",
                        "name": "file",
                        "in": "formData",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/domain.HistoryEntry"
                        }
                    },
                    "400": {
                        "description": "Missing file",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponseBody"
                        }
                    },
                    "413": {
                        "description": "File too large",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponseBody"
                        }
                    },
                    "503": {
                        "description": "Files API credentials missing",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponseBody"
                        }
                    }
                }
            }
        },
        "/runs": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "tags": [
                    "benchmark"
                ],
                "summary": "Start every method without waiting",
                "consumes": [
                    "multipart/form-data"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "file",
                        "description": "Document to benchmark",
                        "name": "file",
                        "in": "formData",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "Run id to use instead of a generated one",
                        "name": "runId",
                        "in": "formData"
                    }
                ],
                "responses": {
                    "202": {
                        "description": "Accepted",
                        "schema": {
                            "$ref": "#/definitions/domain.HistoryEntry"
                        }
                    },
                    "400": {
                        "description": "Missing file",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponseBody"
                        }
                    },
                    "413": {
                        "description": "File too large",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponseBody"
                        }
                    }
                }
            }
        },
        "/runs/{runId}/resume": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "tags": [
                    "benchmark"
                ],
                "summary": "Resume polling a run",
                "parameters": [
                    {
                        "type": "string",
                        "name": "runId",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "202": {
                        "description": "Accepted"
                    },
                    "404": {
                        "description": "Run not found",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponseBody"
                        }
                    }
                }
            }
        },
        "/methods": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "tags": [
                    "benchmark"
                ],
                "summary": "List the configured methods",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/domain.MethodConfig"
                            }
                        }
                    }
                }
            }
        },
        "/methods/{method}/start": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "tags": [
                    "benchmark"
                ],
                "summary": "Start one method",
                "consumes": [
                    "multipart/form-data"
                ],
                "parameters": [
                    {
                        "enum": [
                            "basic",
                            "vision",
                            "agentic"
                        ],
                        "type": "string",
                        "name": "method",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "file",
                        "description": "Document to benchmark",
                        "name": "file",
                        "in": "formData",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/domain.StartHandle"
                        }
                    },
                    "400": {
                        "description": "Unknown method or missing file",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponseBody"
                        }
                    },
                    "502": {
                        "description": "Files API failure",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponseBody"
                        }
                    }
                }
            }
        },
        "/files/{id}/status": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "tags": [
                    "files"
                ],
                "summary": "Get a file's indexing status",
                "parameters": [
                    {
                        "type": "string",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "RFC3339 time the method was started",
                        "name": "startedAt",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/domain.FileStatusReport"
                        }
                    },
                    "400": {
                        "description": "Invalid startedAt",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponseBody"
                        }
                    },
                    "404": {
                        "description": "File not found",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponseBody"
                        }
                    }
                }
            }
        },
        "/files/{id}/passages": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "tags": [
                    "files"
                ],
                "summary": "List a file's passages",
                "parameters": [
                    {
                        "type": "string",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "integer",
                        "default": 100,
                        "name": "limit",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "name": "nextToken",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handler.PassagesResponse"
                        }
                    },
                    "404": {
                        "description": "File not found",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponseBody"
                        }
                    }
                }
            }
        },
        "/search": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "tags": [
                    "search"
                ],
                "summary": "Search every method of a run",
                "parameters": [
                    {
                        "type": "string",
                        "name": "q",
                        "in": "query",
                        "required": true
                    },
                    {
                        "type": "string",
                        "name": "runId",
                        "in": "query",
                        "required": true
                    },
                    {
                        "type": "integer",
                        "default": 10,
                        "name": "limit",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/domain.SearchResponse"
                        }
                    },
                    "400": {
                        "description": "Missing q or runId",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponseBody"
                        }
                    },
                    "404": {
                        "description": "Run not found",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponseBody"
                        }
                    }
                }
            }
        },
        "/ai-compare": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "tags": [
                    "compare"
                ],
                "summary": "Rank the methods of a run with an LLM",
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handler.CompareRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/domain.AiComparisonResult"
                        }
                    },
                    "400": {
                        "description": "Missing runId or a method's fileId",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponseBody"
                        }
                    },
                    "409": {
                        "description": "Recorded run where not every method completed",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponseBody"
                        }
                    },
                    "500": {
                        "description": "Extraction failed",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponseBody"
                        }
                    }
                }
            }
        },
        "/history": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "tags": [
                    "history"
                ],
                "summary": "List recorded runs, newest first",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/domain.RunSummary"
                            }
                        }
                    }
                }
            }
        },
        "/history/{runId}": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "tags": [
                    "history"
                ],
                "summary": "Get one recorded run",
                "parameters": [
                    {
                        "type": "string",
                        "name": "runId",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/domain.HistoryEntry"
                        }
                    },
                    "404": {
                        "description": "Run not found",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponseBody"
                        }
                    }
                }
            }
        },
        "/history/{runId}/compare": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "tags": [
                    "compare"
                ],
                "summary": "Rank the methods of a recorded run",
                "parameters": [
                    {
                        "type": "string",
                        "name": "runId",
                        "in": "path",
                        "required": true
                    },
                    {
                        "name": "request",
                        "in": "body",
                        "schema": {
                            "$ref": "#/definitions/handler.CompareRunRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/domain.AiComparisonResult"
                        }
                    },
                    "404": {
                        "description": "Run not found",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponseBody"
                        }
                    },
                    "409": {
                        "description": "Not every method completed",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponseBody"
                        }
                    }
                }
            }
        },
        "/history/export": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "tags": [
                    "history"
                ],
                "summary": "Export the run history as pretty-printed JSON",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/domain.HistoryEntry"
                            }
                        }
                    }
                }
            }
        },
        "/history/export.xlsx": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "tags": [
                    "history"
                ],
                "summary": "Export the run history as an xlsx workbook",
                "produces": [
                    "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "file"
                        }
                    }
                }
            }
        },
        "/history/import": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "tags": [
                    "history"
                ],
                "summary": "Import runs exported from another instance",
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/domain.HistoryEntry"
                            }
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handler.ImportResponse"
                        }
                    },
                    "400": {
                        "description": "Invalid payload",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponseBody"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "handler.ErrorResponseBody": {
            "type": "object",
            "properties": {
                "error": {
                    "type": "string"
                }
            }
        },
        "handler.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {
                    "type": "string",
                    "enum": [
                        "configured",
                        "missing_credentials"
                    ]
                },
                "hasBotId": {
                    "type": "boolean"
                },
                "hasToken": {
                    "type": "boolean"
                }
            }
        },
        "handler.PassagesResponse": {
            "type": "object",
            "properties": {
                "passages": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/domain.Passage"
                    }
                },
                "nextToken": {
                    "type": "string"
                }
            }
        },
        "handler.CompareRequest": {
            "type": "object",
            "properties": {
                "runId": {
                    "type": "string"
                },
                "fileIds": {
                    "type": "object",
                    "additionalProperties": {
                        "type": "string"
                    }
                },
                "instructions": {
                    "type": "string"
                }
            }
        },
        "handler.CompareRunRequest": {
            "type": "object",
            "properties": {
                "instructions": {
                    "type": "string"
                }
            }
        },
        "handler.ImportResponse": {
            "type": "object",
            "properties": {
                "imported": {
                    "type": "integer"
                }
            }
        },
        "domain.MethodConfig": {
            "type": "object",
            "properties": {
                "name": {
                    "type": "string"
                },
                "label": {
                    "type": "string"
                },
                "config": {
                    "type": "object"
                }
            }
        },
        "domain.MetaBreakdown": {
            "type": "object",
            "properties": {
                "byType": {
                    "type": "object",
                    "additionalProperties": {
                        "type": "integer"
                    }
                },
                "bySubtype": {
                    "type": "object",
                    "additionalProperties": {
                        "type": "integer"
                    }
                },
                "pageCount": {
                    "type": "integer"
                }
            }
        },
        "domain.MethodResult": {
            "type": "object",
            "properties": {
                "method": {
                    "type": "string"
                },
                "label": {
                    "type": "string"
                },
                "fileId": {
                    "type": "string"
                },
                "status": {
                    "type": "string"
                },
                "failedReason": {
                    "type": "string"
                },
                "startedAt": {
                    "type": "string"
                },
                "processingTimeMs": {
                    "type": "integer"
                },
                "passageCount": {
                    "type": "integer"
                },
                "contentCharsTotal": {
                    "type": "integer"
                },
                "metaBreakdown": {
                    "$ref": "#/definitions/domain.MetaBreakdown"
                },
                "sampleText": {
                    "type": "string"
                }
            }
        },
        "domain.OriginalFile": {
            "type": "object",
            "properties": {
                "name": {
                    "type": "string"
                },
                "size": {
                    "type": "integer"
                },
                "contentType": {
                    "type": "string"
                }
            }
        },
        "domain.HistoryEntry": {
            "type": "object",
            "properties": {
                "runId": {
                    "type": "string"
                },
                "startedAt": {
                    "type": "string"
                },
                "completedAt": {
                    "type": "string"
                },
                "originalFile": {
                    "$ref": "#/definitions/domain.OriginalFile"
                },
                "methods": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/domain.MethodResult"
                    }
                },
                "aiComparison": {
                    "$ref": "#/definitions/domain.AiComparisonResult"
                }
            }
        },
        "domain.PassageMeta": {
            "type": "object",
            "properties": {
                "type": {
                    "type": "string"
                },
                "subtype": {
                    "type": "string"
                },
                "pageNumber": {
                    "type": "integer"
                },
                "position": {
                    "type": "integer"
                },
                "sourceUrl": {
                    "type": "string"
                }
            }
        },
        "domain.Passage": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "content": {
                    "type": "string"
                },
                "meta": {
                    "$ref": "#/definitions/domain.PassageMeta"
                }
            }
        },
        "domain.SearchHit": {
            "type": "object",
            "properties": {
                "content": {
                    "type": "string"
                },
                "score": {
                    "type": "number"
                },
                "meta": {
                    "$ref": "#/definitions/domain.PassageMeta"
                }
            }
        },
        "domain.MethodSearchResult": {
            "type": "object",
            "properties": {
                "method": {
                    "type": "string"
                },
                "passages": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/domain.SearchHit"
                    }
                },
                "error": {
                    "type": "string"
                }
            }
        },
        "domain.SearchResponse": {
            "type": "object",
            "properties": {
                "query": {
                    "type": "string"
                },
                "results": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/domain.MethodSearchResult"
                    }
                }
            }
        },
        "domain.RankingEntry": {
            "type": "object",
            "properties": {
                "method": {
                    "type": "string"
                },
                "rank": {
                    "type": "integer"
                },
                "score": {
                    "type": "number"
                }
            }
        },
        "domain.MethodNotes": {
            "type": "object",
            "properties": {
                "strengths": {
                    "type": "string"
                },
                "weaknesses": {
                    "type": "string"
                }
            }
        },
        "domain.AiComparisonResult": {
            "type": "object",
            "properties": {
                "runId": {
                    "type": "string"
                },
                "generatedAt": {
                    "type": "string"
                },
                "ranking": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/domain.RankingEntry"
                    }
                },
                "summary": {
                    "type": "string"
                },
                "perMethodNotes": {
                    "type": "object",
                    "additionalProperties": {
                        "$ref": "#/definitions/domain.MethodNotes"
                    }
                },
                "recommendedMethod": {
                    "type": "string"
                }
            }
        },
        "domain.StartHandle": {
            "type": "object",
            "properties": {
                "fileId": {
                    "type": "string"
                },
                "method": {
                    "type": "string"
                },
                "label": {
                    "type": "string"
                },
                "startedAt": {
                    "type": "string"
                }
            }
        },
        "domain.FileStatusReport": {
            "type": "object",
            "properties": {
                "fileId": {
                    "type": "string"
                },
                "status": {
                    "type": "string"
                },
                "failedReason": {
                    "type": "string"
                },
                "processingTimeMs": {
                    "type": "integer"
                },
                "passageCount": {
                    "type": "integer"
                },
                "contentCharsTotal": {
                    "type": "integer"
                },
                "metaBreakdown": {
                    "$ref": "#/definitions/domain.MetaBreakdown"
                },
                "sampleText": {
                    "type": "string"
                }
            }
        },
        "domain.MethodSummary": {
            "type": "object",
            "properties": {
                "method": {
                    "type": "string"
                },
                "status": {
                    "type": "string"
                }
            }
        },
        "domain.RunSummary": {
            "type": "object",
            "properties": {
                "runId": {
                    "type": "string"
                },
                "fileName": {
                    "type": "string"
                },
                "fileSize": {
                    "type": "integer"
                },
                "startedAt": {
                    "type": "string"
                },
                "completedAt": {
                    "type": "string"
                },
                "methods": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/domain.MethodSummary"
                    }
                },
                "hasComparison": {
                    "type": "boolean"
                }
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Bearer token minted with ` + "`" + `benchctl token` + "`" + `. Required only when auth.jwt_secret is set.",
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
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "docbench API",
	Description:      "Benchmarks the parsing methods of a hosted files API on an uploaded document and compares their passages.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
