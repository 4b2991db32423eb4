// Package docs registers the focusflow OpenAPI document with swag.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {"tags": ["health"], "summary": "Liveness check", "responses": {"200": {"description": "OK"}}}
        },
        "/config": {
            "get": {"tags": ["auth"], "summary": "Client configuration", "responses": {"200": {"description": "OK"}}}
        },
        "/auth/register": {
            "post": {"tags": ["auth"], "summary": "Register a password account", "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/User"}}, "400": {"description": "Validation error"}, "409": {"description": "Username or email taken"}}}
        },
        "/auth/login": {
            "post": {"tags": ["auth"], "summary": "Log in with username and password", "responses": {"200": {"description": "OK"}, "401": {"description": "Invalid credentials"}}}
        },
        "/auth/logout": {
            "post": {"tags": ["auth"], "summary": "Log out", "responses": {"200": {"description": "OK"}}}
        },
        "/auth/me": {
            "get": {"tags": ["auth"], "summary": "Current user", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/User"}}, "401": {"description": "Unauthorized"}}}
        },
        "/sessions": {
            "get": {
                "tags": ["sessions"], "summary": "List sessions, newest first",
                "parameters": [{"name": "limit", "in": "query", "type": "integer"}],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Session"}}}}
            },
            "post": {
                "tags": ["sessions"], "summary": "Start a session",
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateSession"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/Session"}}, "400": {"description": "Unknown session type"}, "409": {"description": "Another session is active"}}
            }
        },
        "/sessions/{id}": {
            "get": {
                "tags": ["sessions"], "summary": "Get a session",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Session"}}, "403": {"description": "Owned by another user"}, "404": {"description": "Not found"}}
            },
            "put": {
                "tags": ["sessions"], "summary": "Complete or abort a session",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SessionPatch"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Session"}}, "400": {"description": "Validation error"}, "403": {"description": "Owned by another user"}, "404": {"description": "Not found"}, "409": {"description": "Already ended, or both completed and aborted"}}
            }
        },
        "/sessions/{id}/blocked-hit": {
            "post": {
                "tags": ["sessions"], "summary": "Record a blocked-site visit",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Session"}}, "409": {"description": "Session already ended"}}
            }
        },
        "/sessions/today": {
            "get": {"tags": ["stats"], "summary": "Today's sessions and summary", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/TodayStats"}}}}
        },
        "/sessions/stats": {
            "get": {
                "tags": ["stats"], "summary": "Daily statistics over a trailing window",
                "parameters": [{"name": "days", "in": "query", "type": "integer", "default": 7}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/RangeStats"}}, "400": {"description": "days < 1"}}
            }
        },
        "/timer-settings": {
            "get": {"tags": ["settings"], "summary": "Get timer settings", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/TimerSettings"}}}},
            "put": {
                "tags": ["settings"], "summary": "Update timer settings",
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TimerSettings"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/TimerSettings"}}, "400": {"description": "Out of range"}}
            }
        },
        "/blocklist": {
            "get": {"tags": ["blocklist"], "summary": "List blocked sites", "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/BlockedSite"}}}}},
            "post": {
                "tags": ["blocklist"], "summary": "Block a domain",
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"type": "object", "properties": {"domain": {"type": "string"}}}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/BlockedSite"}}, "400": {"description": "Invalid domain"}, "409": {"description": "Already blocked"}}
            }
        },
        "/blocklist/{id}": {
            "delete": {
                "tags": ["blocklist"], "summary": "Unblock a domain",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            }
        },
        "/events": {
            "get": {"tags": ["events"], "summary": "Session event websocket", "responses": {"101": {"description": "Switching Protocols to WebSocket"}}}
        }
    },
    "definitions": {
        "User": {
            "type": "object",
            "properties": {"id": {"type": "integer"}, "username": {"type": "string"}, "email": {"type": "string"}, "name": {"type": "string"}, "createdAt": {"type": "string", "format": "date-time"}}
        },
        "CreateSession": {
            "type": "object",
            "properties": {"type": {"type": "string", "enum": ["work", "break", "long-break"]}, "startTime": {"type": "string", "format": "date-time"}}
        },
        "Session": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"}, "userId": {"type": "integer"},
                "startTime": {"type": "string", "format": "date-time"}, "endTime": {"type": "string", "format": "date-time"},
                "type": {"type": "string", "enum": ["work", "break", "long-break"]},
                "duration": {"type": "integer"}, "completed": {"type": "boolean"}, "aborted": {"type": "boolean"},
                "abortReason": {"type": "string"}, "sitesBlocked": {"type": "integer"}
            }
        },
        "SessionPatch": {
            "type": "object",
            "properties": {
                "endTime": {"type": "string", "format": "date-time"}, "duration": {"type": "integer"},
                "completed": {"type": "boolean"}, "aborted": {"type": "boolean"},
                "abortReason": {"type": "string"}, "sitesBlocked": {"type": "integer"}
            }
        },
        "TodayStats": {
            "type": "object",
            "properties": {
                "sessions": {"type": "array", "items": {"$ref": "#/definitions/Session"}},
                "summary": {"type": "object", "properties": {"completedSessions": {"type": "integer"}, "totalFocusTimeSeconds": {"type": "integer"}, "totalFocusTimeMinutes": {"type": "integer"}}}
            }
        },
        "RangeStats": {
            "type": "object",
            "properties": {
                "dailyData": {"type": "array", "items": {"type": "object", "properties": {"date": {"type": "string"}, "focusMinutes": {"type": "integer"}, "completedSessions": {"type": "integer"}, "abortedSessions": {"type": "integer"}}}},
                "summary": {"type": "object", "properties": {"totalWorkSessions": {"type": "integer"}, "completedWorkSessions": {"type": "integer"}, "abortedWorkSessions": {"type": "integer"}, "totalFocusTimeMinutes": {"type": "integer"}, "completionRate": {"type": "integer"}}}
            }
        },
        "TimerSettings": {
            "type": "object",
            "properties": {
                "workDuration": {"type": "integer", "minimum": 1, "maximum": 60},
                "breakDuration": {"type": "integer", "minimum": 1, "maximum": 30},
                "longBreakDuration": {"type": "integer", "minimum": 5, "maximum": 60},
                "sessionsBeforeLongBreak": {"type": "integer", "minimum": 1, "maximum": 10},
                "soundEnabled": {"type": "boolean"}, "notificationsEnabled": {"type": "boolean"}
            }
        },
        "BlockedSite": {
            "type": "object",
            "properties": {"id": {"type": "integer"}, "userId": {"type": "integer"}, "domain": {"type": "string"}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Focusflow API",
	Description:      "Pomodoro sessions, statistics, timer settings and blocklist",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
