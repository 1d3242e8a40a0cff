// Package swagger registers the OpenAPI document served under /swagger.
// Regenerate with: swag init -g cmd/api/main.go -o api/swagger
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
        "/api/auth/sign-in": {"post": {"tags": ["auth"], "summary": "Sign in", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/api/auth/master": {"post": {"tags": ["auth"], "summary": "Master access", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}},
        "/api/auth/sign-up": {"post": {"tags": ["auth"], "summary": "Sign up", "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}}},
        "/api/auth/oauth/{provider}": {"get": {"tags": ["auth"], "summary": "Start OAuth sign in", "parameters": [{"type": "string", "name": "provider", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/api/auth/callback/{provider}": {"get": {"tags": ["auth"], "summary": "OAuth callback", "parameters": [{"type": "string", "name": "provider", "in": "path", "required": true}], "responses": {"302": {"description": "Found"}}}},
        "/api/auth/otp": {"post": {"tags": ["auth"], "summary": "Send a one-time code", "responses": {"200": {"description": "OK"}}}},
        "/api/auth/otp/verify": {"post": {"tags": ["auth"], "summary": "Verify a one-time code", "responses": {"200": {"description": "OK"}}}},
        "/api/auth/reset": {"post": {"tags": ["auth"], "summary": "Request a password reset email", "responses": {"200": {"description": "OK"}}}},
        "/api/auth/reset/confirm": {"post": {"tags": ["auth"], "summary": "Set a new password with a reset token", "responses": {"200": {"description": "OK"}}}},
        "/api/auth/sign-out": {"post": {"tags": ["auth"], "summary": "Sign out", "responses": {"200": {"description": "OK"}}}},
        "/api/auth/me": {"get": {"tags": ["auth"], "summary": "Current identity", "responses": {"200": {"description": "OK"}}}},
        "/api/auth/profile": {"put": {"tags": ["auth"], "summary": "Update own profile", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/api/auth/preferences": {
            "get": {"tags": ["auth"], "summary": "Device preferences", "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["auth"], "summary": "Save device preferences", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/api/permissions": {"get": {"tags": ["auth"], "summary": "Role permission matrix", "responses": {"200": {"description": "OK"}}}},
        "/api/employees": {
            "get": {"tags": ["employees"], "summary": "List employees", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}},
            "post": {"tags": ["employees"], "summary": "Create an employee", "responses": {"201": {"description": "Created"}}}
        },
        "/api/employees/{id}": {
            "get": {"tags": ["employees"], "summary": "Get an employee", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "put": {"tags": ["employees"], "summary": "Update an employee", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["employees"], "summary": "Delete an employee", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/api/attendance": {
            "get": {"tags": ["attendance"], "summary": "List attendance records", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["attendance"], "summary": "Record attendance", "responses": {"201": {"description": "Created"}}}
        },
        "/api/attendance/{id}": {"put": {"tags": ["attendance"], "summary": "Update an attendance record", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/api/leave-requests": {
            "get": {"tags": ["leave"], "summary": "List leave requests", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["leave"], "summary": "Request leave", "responses": {"201": {"description": "Created"}}}
        },
        "/api/leave-requests/{id}/approve": {"put": {"tags": ["leave"], "summary": "Approve a leave request", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}}},
        "/api/leave-requests/{id}/reject": {"put": {"tags": ["leave"], "summary": "Reject a leave request", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}}},
        "/api/expenses": {
            "get": {"tags": ["expenses"], "summary": "List expense claims", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["expenses"], "summary": "Submit an expense claim", "responses": {"201": {"description": "Created"}}}
        },
        "/api/expenses/{id}/approve": {"put": {"tags": ["expenses"], "summary": "Approve an expense claim", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}}},
        "/api/expenses/{id}/reject": {"put": {"tags": ["expenses"], "summary": "Reject an expense claim", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}}},
        "/api/announcements": {
            "get": {"tags": ["announcements"], "summary": "Latest announcements", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["announcements"], "summary": "Publish an announcement", "responses": {"201": {"description": "Created"}}}
        },
        "/api/audit-logs": {"get": {"tags": ["audit"], "summary": "Get audit logs", "parameters": [{"type": "integer", "name": "page", "in": "query"}, {"type": "integer", "name": "limit", "in": "query"}, {"type": "string", "name": "actor_id", "in": "query"}, {"type": "string", "name": "action", "in": "query"}, {"type": "string", "name": "entity_id", "in": "query"}, {"type": "string", "name": "from", "in": "query"}, {"type": "string", "name": "to", "in": "query"}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "403": {"description": "Forbidden"}}}},
        "/api/users": {"get": {"tags": ["users"], "summary": "List users", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}},
        "/api/users/{id}": {"get": {"tags": ["users"], "summary": "Get a user", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/api/users/{id}/role": {"put": {"tags": ["users"], "summary": "Change a user's role", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}},
        "/api/dashboard/stats": {"get": {"tags": ["dashboard"], "summary": "Dashboard statistics", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}},
        "/api/ws": {"get": {"tags": ["realtime"], "summary": "Websocket for notifications, session changes and announcements", "responses": {"101": {"description": "Switching Protocols"}}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "HR Suite API",
	Description:      "Authentication, role based access and HR records (employees, attendance, leave, expenses, announcements).",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
