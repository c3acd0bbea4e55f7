// Package swagger holds the OpenAPI document for the amo API. Regenerate
// with `swag init -g cmd/server/server.go -o docs/swagger`.
package swagger

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
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Chat API"],
                "summary": "Chat with the shopping assistant",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/requests.ChatRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/responses.ChatResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/responses.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/responses.ErrorResponse"}}
                }
            }
        },
        "/voice/realtime-session": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Voice API"],
                "summary": "Create a realtime voice session",
                "parameters": [{"in": "body", "name": "request", "schema": {"$ref": "#/definitions/requests.RealtimeSessionRequest"}}],
                "responses": {
                    "200": {"description": "Provider session payload", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/responses.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/responses.ErrorResponse"}}
                }
            }
        },
        "/voice/realtime-sessions": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Voice API"],
                "summary": "List realtime sessions",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/realtime.ListLeasesResponse"}}
                }
            }
        },
        "/voice/chat-voice": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Voice API"],
                "summary": "Voice chat round-trip",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/requests.VoiceChatRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/responses.VoiceChatResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/responses.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/responses.ErrorResponse"}}
                }
            }
        },
        "/voice/synthesize": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["audio/mpeg"],
                "tags": ["Voice API"],
                "summary": "Synthesize speech",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/requests.SynthesizeRequest"}}],
                "responses": {
                    "200": {"description": "MP3 audio", "schema": {"type": "file"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/responses.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/responses.ErrorResponse"}}
                }
            }
        },
        "/voice/transcribe": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["Voice API"],
                "summary": "Transcribe audio",
                "parameters": [{"type": "file", "in": "formData", "name": "audio", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/responses.TranscribeResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/responses.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/responses.ErrorResponse"}}
                }
            }
        },
        "/product-search": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Search API"],
                "summary": "Search for products",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/requests.ProductSearchRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/responses.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/responses.ErrorResponse"}}
                }
            }
        },
        "/search-images": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Search API"],
                "summary": "Search product images",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/requests.SearchImagesRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/responses.SearchImagesResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/responses.ErrorResponse"}}
                }
            }
        },
        "/visuals/detect": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Visual API"],
                "summary": "Detect visual content",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/requests.DetectVisualRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/responses.ErrorResponse"}}
                }
            }
        },
        "/visuals/{category}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Visual API"],
                "summary": "Get visual content",
                "parameters": [{"type": "string", "in": "path", "name": "category", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/responses.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "conversation.Turn": {
            "type": "object",
            "properties": {
                "role": {"type": "string", "enum": ["user", "assistant"]},
                "content": {"type": "string"}
            }
        },
        "requests.ChatRequest": {
            "type": "object",
            "properties": {
                "messages": {"type": "array", "items": {"$ref": "#/definitions/conversation.Turn"}},
                "sessionId": {"type": "string"}
            }
        },
        "requests.RealtimeSessionRequest": {
            "type": "object",
            "properties": {
                "model": {"type": "string"},
                "voice": {"type": "string"},
                "instructions": {"type": "string"}
            }
        },
        "requests.VoiceChatRequest": {
            "type": "object",
            "properties": {
                "messages": {"type": "array", "items": {"$ref": "#/definitions/conversation.Turn"}},
                "voice": {"type": "string"},
                "speed": {"type": "number"}
            }
        },
        "requests.SynthesizeRequest": {
            "type": "object",
            "properties": {
                "text": {"type": "string"},
                "voice": {"type": "string"},
                "speed": {"type": "number"}
            }
        },
        "requests.ProductSearchRequest": {
            "type": "object",
            "properties": {
                "criteria": {"type": "string"},
                "maxPrice": {"type": "number"}
            }
        },
        "requests.SearchImagesRequest": {
            "type": "object",
            "properties": {
                "query": {"type": "string"},
                "productType": {"type": "string"}
            }
        },
        "requests.DetectVisualRequest": {
            "type": "object",
            "properties": {
                "messages": {"type": "array", "items": {"type": "string"}},
                "mode": {"type": "string", "enum": ["canvas", "voice"]}
            }
        },
        "realtime.ListLeasesResponse": {
            "type": "object",
            "properties": {
                "object": {"type": "string"},
                "data": {"type": "array", "items": {"type": "object"}}
            }
        },
        "responses.ChatResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "sessionId": {"type": "string"}
            }
        },
        "responses.VoiceChatResponse": {
            "type": "object",
            "properties": {
                "text": {"type": "string"},
                "audio": {"type": "string"},
                "audioSize": {"type": "integer"}
            }
        },
        "responses.TranscribeResponse": {
            "type": "object",
            "properties": {
                "text": {"type": "string"}
            }
        },
        "responses.SearchImagesResponse": {
            "type": "object",
            "properties": {
                "images": {"type": "array", "items": {"type": "object"}},
                "searchQuery": {"type": "string"}
            }
        },
        "responses.ErrorDetail": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "type": {"type": "string"},
                "code": {"type": "string"},
                "request_id": {"type": "string"}
            }
        },
        "responses.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"$ref": "#/definitions/responses.ErrorDetail"}
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
	Title:            "Amo API",
	Description:      "Shopping assistant relays, realtime voice provisioning and visual content.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
