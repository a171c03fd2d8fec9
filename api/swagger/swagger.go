package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Algebra Radegast API",
        "description": "Course management API with JWT authentication and RBAC",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Registration, login, current user"},
        {"name": "Courses", "description": "Course CRUD"},
        {"name": "Course Teachers", "description": "Course ↔ teacher assignments"}
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header",
            "description": "Format: Bearer <token>"
        }
    },
    "paths": {
        "/auth/token": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate by email and password",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}],
                "responses": {
                    "200": {"description": "Bearer token", "schema": {"$ref": "#/definitions/TokenResponse"}},
                    "401": {"description": "Incorrect email or password"}
                }
            }
        },
        "/auth/token/register": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Register a new account and log it in",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}],
                "responses": {
                    "200": {"description": "Bearer token", "schema": {"$ref": "#/definitions/TokenResponse"}},
                    "400": {"description": "Validation failure or duplicate email"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Current user info",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "User info"},
                    "401": {"description": "Missing or invalid token"}
                }
            }
        },
        "/courses": {
            "get": {
                "tags": ["Courses"],
                "summary": "List courses",
                "responses": {"200": {"description": "Courses"}}
            },
            "post": {
                "tags": ["Courses"],
                "summary": "Create a course (admin or teacher)",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "201": {"description": "Created course"},
                    "403": {"description": "Guests may not create courses"}
                }
            }
        },
        "/courses/{id}": {
            "get": {
                "tags": ["Courses"],
                "summary": "Get a course",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "Course"}, "404": {"description": "Not found"}}
            },
            "patch": {
                "tags": ["Courses"],
                "summary": "Patch a course (admin or owner)",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "Updated course"}, "403": {"description": "Not owner"}, "404": {"description": "Not found"}}
            },
            "delete": {
                "tags": ["Courses"],
                "summary": "Delete a course (admin or owner)",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"204": {"description": "Deleted"}, "403": {"description": "Not owner"}, "404": {"description": "Not found"}}
            }
        },
        "/courses/{id}/teachers": {
            "get": {
                "tags": ["Course Teachers"],
                "summary": "List teachers on a course",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "Assignments"}, "404": {"description": "Course not found"}}
            },
            "post": {
                "tags": ["Course Teachers"],
                "summary": "Assign a teacher (admin)",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"201": {"description": "Assignment"}, "404": {"description": "Course or teacher missing"}, "409": {"description": "Pair already assigned"}}
            }
        },
        "/courses/{id}/teachers/export": {
            "get": {
                "tags": ["Course Teachers"],
                "summary": "Export the course roster as CSV or PDF (admin)",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {"200": {"description": "Roster document"}, "404": {"description": "Course not found"}}
            }
        },
        "/courses/{id}/teachers/{teacherId}": {
            "patch": {
                "tags": ["Course Teachers"],
                "summary": "Update a teacher's role on a course (admin)",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "teacherId", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {"200": {"description": "Assignment"}, "404": {"description": "Assignment not found"}}
            },
            "delete": {
                "tags": ["Course Teachers"],
                "summary": "Remove a teacher from a course (admin)",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "teacherId", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {"204": {"description": "Removed"}, "404": {"description": "Assignment not found"}}
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "RegisterRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string", "minLength": 8, "maxLength": 40},
                "full_name": {"type": "string"},
                "role": {"type": "string", "enum": ["admin", "teacher", "guest"]}
            }
        },
        "TokenResponse": {
            "type": "object",
            "properties": {
                "access_token": {"type": "string"},
                "token_type": {"type": "string", "example": "bearer"}
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
