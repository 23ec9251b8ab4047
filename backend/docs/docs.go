// Package docs holds the OpenAPI description served under /swagger.
// Regenerate it from the handler annotations with go generate in backend/.
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
    "securityDefinitions": {
        "ApiKeyAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/auth/register": {
            "post": {"tags": ["auth"], "summary": "Register a new user", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}}
        },
        "/auth/login": {
            "post": {"tags": ["auth"], "summary": "User login", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}
        },
        "/users/profile": {
            "get": {"security": [{"ApiKeyAuth": []}], "tags": ["users"], "summary": "Get user profile", "responses": {"200": {"description": "OK"}}},
            "put": {"security": [{"ApiKeyAuth": []}], "tags": ["users"], "summary": "Update user profile", "responses": {"200": {"description": "OK"}}}
        },
        "/courses": {
            "get": {"tags": ["courses"], "summary": "List published courses", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"ApiKeyAuth": []}], "tags": ["courses"], "summary": "Create course", "responses": {"201": {"description": "Created"}}}
        },
        "/courses/{id}": {
            "get": {"tags": ["courses"], "summary": "Course details", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "put": {"security": [{"ApiKeyAuth": []}], "tags": ["courses"], "summary": "Update course", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}},
            "delete": {"security": [{"ApiKeyAuth": []}], "tags": ["courses"], "summary": "Delete course", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}
        },
        "/courses/{id}/enroll": {
            "post": {"security": [{"ApiKeyAuth": []}], "tags": ["courses"], "summary": "Enroll in course", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}}
        },
        "/progress/courses": {
            "get": {"security": [{"ApiKeyAuth": []}], "tags": ["progress"], "summary": "Progress on all courses", "responses": {"200": {"description": "OK"}}}
        },
        "/progress/courses/{id}": {
            "get": {"security": [{"ApiKeyAuth": []}], "tags": ["progress"], "summary": "Progress on one course", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/progress/lessons/{id}/complete": {
            "post": {"security": [{"ApiKeyAuth": []}], "tags": ["progress"], "summary": "Mark lesson completed", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/certificates/courses/{courseId}/eligibility": {
            "get": {"security": [{"ApiKeyAuth": []}], "tags": ["certificates"], "summary": "Certificate eligibility", "parameters": [{"type": "integer", "name": "courseId", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/certificates/courses/{courseId}/generate": {
            "post": {"security": [{"ApiKeyAuth": []}], "tags": ["certificates"], "summary": "Issue certificate", "parameters": [{"type": "integer", "name": "courseId", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "201": {"description": "Created"}, "403": {"description": "Forbidden"}}}
        },
        "/certificates/verify/{code}": {
            "get": {"tags": ["certificates"], "summary": "Verify certificate", "parameters": [{"type": "string", "name": "code", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/lessons/{id}/comments": {
            "get": {"tags": ["comments"], "summary": "Get lesson comments", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"ApiKeyAuth": []}], "tags": ["comments"], "summary": "Add comment to lesson", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"201": {"description": "Created"}}}
        },
        "/health": {
            "get": {"tags": ["health"], "summary": "Health check", "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}}
        },
        "/users/activity": {
            "get": {"security": [{"ApiKeyAuth": []}], "tags": ["users"], "summary": "Get user activity", "parameters": [{"type": "integer", "default": 7, "name": "days", "in": "query"}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/courses/{id}/modules": {
            "post": {"security": [{"ApiKeyAuth": []}], "tags": ["courses"], "summary": "Add module", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"201": {"description": "Created"}, "403": {"description": "Forbidden"}}}
        },
        "/modules/{id}/lessons": {
            "post": {"security": [{"ApiKeyAuth": []}], "tags": ["courses"], "summary": "Add lesson", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"201": {"description": "Created"}, "403": {"description": "Forbidden"}}}
        },
        "/lessons/{id}": {
            "delete": {"security": [{"ApiKeyAuth": []}], "tags": ["courses"], "summary": "Delete lesson", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}
        },
        "/certificates": {
            "get": {"security": [{"ApiKeyAuth": []}], "tags": ["certificates"], "summary": "List my certificates", "responses": {"200": {"description": "OK"}}}
        },
        "/comments/{id}/replies": {
            "post": {"security": [{"ApiKeyAuth": []}], "tags": ["comments"], "summary": "Reply to a comment", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"201": {"description": "Created"}, "404": {"description": "Not Found"}}}
        },
        "/comments/{id}": {
            "delete": {"security": [{"ApiKeyAuth": []}], "tags": ["comments"], "summary": "Delete comment", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "CursifyNova API",
	Description:      "Course catalog, progress tracking and certificates.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
