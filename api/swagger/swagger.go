package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "UniScheduler API",
        "description": "Generates and validates conflict-free weekly course schedules",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Schedules", "description": "Schedule generation and validation"},
        {"name": "Usage", "description": "Generator token accounting"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Liveness check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check of redis and postgres when configured",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "A dependency is unreachable"}
                }
            }
        },
        "/api/v1/schedules/generate": {
            "post": {
                "tags": ["Schedules"],
                "summary": "Generate a conflict-free weekly schedule",
                "description": "An empty class list means no valid schedule was found within the attempt budget.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/GenerateScheduleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ScheduleEnvelope"}},
                    "400": {"description": "Invalid payload", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "Timetable unavailable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "504": {"description": "Request cancelled or timed out", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/generate_schedule": {
            "post": {
                "tags": ["Schedules"],
                "summary": "Generate a schedule (legacy path, no envelope)",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/GenerateScheduleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ScheduleResponse"}}
                }
            }
        },
        "/api/v1/schedules/validate": {
            "post": {
                "tags": ["Schedules"],
                "summary": "Validate a schedule document",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/ValidateScheduleRequest"}}
                ],
                "responses": {
                    "200": {"description": "Verdict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid payload", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/usage": {
            "get": {
                "tags": ["Usage"],
                "summary": "Running generator token total",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/usage/runs": {
            "get": {
                "tags": ["Usage"],
                "summary": "Most recent generation runs",
                "produces": ["application/json"],
                "parameters": [
                    {"in": "query", "name": "limit", "type": "integer", "required": false}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid limit", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "CourseRequest": {
            "type": "object",
            "required": ["department", "number"],
            "properties": {
                "department": {"type": "string", "example": "CS"},
                "number": {"type": "string", "example": "2114"},
                "professor": {"type": "string"}
            }
        },
        "GenerateScheduleRequest": {
            "type": "object",
            "required": ["courses", "term_year"],
            "properties": {
                "courses": {"type": "array", "items": {"$ref": "#/definitions/CourseRequest"}},
                "preferences": {"type": "string"},
                "term_year": {"type": "string", "example": "202509"},
                "email": {"type": "string"}
            }
        },
        "ValidateScheduleRequest": {
            "type": "object",
            "required": ["courses", "schedule"],
            "properties": {
                "courses": {"type": "array", "items": {"$ref": "#/definitions/CourseRequest"}},
                "schedule": {"$ref": "#/definitions/ScheduleResponse"},
                "minGapMinutes": {"type": "integer"}
            }
        },
        "ClassEntry": {
            "type": "object",
            "properties": {
                "crn": {"type": "string"},
                "courseNumber": {"type": "string"},
                "courseName": {"type": "string"},
                "professorName": {"type": "string"},
                "days": {"type": "string", "example": "MWF"},
                "time": {"type": "string", "example": "9:05AM - 9:55AM"},
                "location": {"type": "string"},
                "isLab": {"type": "boolean"},
                "startMinute": {"type": "integer"},
                "endMinute": {"type": "integer"}
            }
        },
        "ScheduleResponse": {
            "type": "object",
            "properties": {
                "classes": {"type": "array", "items": {"$ref": "#/definitions/ClassEntry"}}
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
        },
        "ScheduleEnvelope": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/ScheduleResponse"}
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
