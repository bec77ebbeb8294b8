package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "WFH Portal API",
        "description": "Work-from-home request, withdrawal and manager reassignment service",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Auth", "description": "Authentication"},
        {"name": "Requests", "description": "WFH request lifecycle"},
        {"name": "Withdrawals", "description": "Withdrawal of approved requests"},
        {"name": "Reassignments", "description": "Temporary manager delegation"},
        {"name": "Schedule", "description": "Personal, team and department schedules"},
        {"name": "Logs", "description": "Action audit trail"},
        {"name": "Employees", "description": "Staff directory"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate and obtain an access token",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/requests": {
            "post": {
                "tags": ["Requests"],
                "summary": "Submit a batch of WFH dates",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/SubmitResult"}},
                    "400": {"description": "Validation failed"}
                }
            }
        },
        "/requests/approve": {
            "post": {
                "tags": ["Requests"],
                "summary": "Approve a pending request",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DecisionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "409": {"description": "Not modified"}
                }
            }
        },
        "/requests/reject": {
            "post": {
                "tags": ["Requests"],
                "summary": "Reject a pending request",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DecisionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "409": {"description": "Not modified"}
                }
            }
        },
        "/requests/revoke": {
            "post": {
                "tags": ["Requests"],
                "summary": "Revoke an approved request",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DecisionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "409": {"description": "Not modified"}
                }
            }
        },
        "/requests/cancel": {
            "post": {
                "tags": ["Requests"],
                "summary": "Cancel an own pending request",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DecisionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "409": {"description": "Not modified"}
                }
            }
        },
        "/requests/own": {
            "get": {
                "tags": ["Requests"],
                "summary": "List own requests",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/requests/pending": {
            "get": {
                "tags": ["Requests"],
                "summary": "List pending requests awaiting the caller's decision",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/requests/team": {
            "get": {
                "tags": ["Requests"],
                "summary": "List all requests of direct reports",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/withdrawals": {
            "post": {
                "tags": ["Withdrawals"],
                "summary": "File a withdrawal for an approved request",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/WithdrawRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "An open withdrawal already exists"}
                }
            }
        },
        "/withdrawals/approve": {
            "post": {
                "tags": ["Withdrawals"],
                "summary": "Approve a pending withdrawal",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/WithdrawalDecisionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "409": {"description": "Not modified"}
                }
            }
        },
        "/withdrawals/reject": {
            "post": {
                "tags": ["Withdrawals"],
                "summary": "Reject a pending withdrawal",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/WithdrawalDecisionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "409": {"description": "Not modified"}
                }
            }
        },
        "/withdrawals/own": {
            "get": {
                "tags": ["Withdrawals"],
                "summary": "List own withdrawals",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/withdrawals/pending": {
            "get": {
                "tags": ["Withdrawals"],
                "summary": "List pending withdrawals awaiting the caller's decision",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reassignments": {
            "post": {
                "tags": ["Reassignments"],
                "summary": "Create a temporary manager reassignment",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateReassignmentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Conflicting reassignment"}
                }
            }
        },
        "/reassignments/handle": {
            "post": {
                "tags": ["Reassignments"],
                "summary": "Approve or reject an incoming reassignment",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/HandleReassignmentRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "409": {"description": "Not modified"}
                }
            }
        },
        "/reassignments/requests": {
            "get": {
                "tags": ["Reassignments"],
                "summary": "List delegated WFH requests visible under an active reassignment",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reassignments/pending": {
            "get": {
                "tags": ["Reassignments"],
                "summary": "List incoming reassignments awaiting the caller's decision",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reassignments/own": {
            "get": {
                "tags": ["Reassignments"],
                "summary": "List reassignments the caller created",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reassignments/incoming": {
            "get": {
                "tags": ["Reassignments"],
                "summary": "List reassignments naming the caller as temporary manager",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedule/own": {
            "get": {
                "tags": ["Schedule"],
                "summary": "Own WFH schedule",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedule/team": {
            "get": {
                "tags": ["Schedule"],
                "summary": "Team WFH schedule",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedule/department": {
            "get": {
                "tags": ["Schedule"],
                "summary": "Approved department schedule (HR only)",
                "parameters": [
                    {"name": "department", "in": "query", "required": true, "type": "string"},
                    {"name": "position", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden"}
                }
            }
        },
        "/schedule/department/export": {
            "get": {
                "tags": ["Schedule"],
                "summary": "Export department schedule as CSV or PDF (HR only)",
                "parameters": [
                    {"name": "department", "in": "query", "required": true, "type": "string"},
                    {"name": "position", "in": "query", "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File attachment"},
                    "403": {"description": "Forbidden"}
                }
            }
        },
        "/logs": {
            "get": {
                "tags": ["Logs"],
                "summary": "List action logs (non-HR callers see only their own)",
                "parameters": [
                    {"name": "kind", "in": "query", "type": "string"},
                    {"name": "department", "in": "query", "type": "string"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "offset", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/employees/me": {
            "get": {
                "tags": ["Employees"],
                "summary": "Own directory profile",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/employees/team": {
            "get": {
                "tags": ["Employees"],
                "summary": "Direct reports of the caller",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/employees/department": {
            "get": {
                "tags": ["Employees"],
                "summary": "Staff members of a department (HR only)",
                "parameters": [
                    {"name": "department", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden"}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "SubmitRequest": {
            "type": "object",
            "properties": {
                "requested_dates": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/SubmissionEntry"}
                },
                "reason": {"type": "string"}
            },
            "required": ["requested_dates", "reason"]
        },
        "SubmissionEntry": {
            "type": "object",
            "properties": {
                "date": {"type": "string", "format": "date"},
                "type": {"type": "string", "enum": ["AM", "PM", "FULL"]}
            },
            "required": ["date", "type"]
        },
        "SubmitResult": {
            "type": "object",
            "properties": {
                "success_dates": {"type": "array", "items": {"$ref": "#/definitions/SubmissionEntry"}},
                "note_dates": {"type": "array", "items": {"$ref": "#/definitions/SubmissionEntry"}},
                "error_dates": {"type": "array", "items": {"$ref": "#/definitions/SubmissionEntry"}},
                "weekend_dates": {"type": "array", "items": {"$ref": "#/definitions/SubmissionEntry"}},
                "past_dates": {"type": "array", "items": {"$ref": "#/definitions/SubmissionEntry"}},
                "past_deadline_dates": {"type": "array", "items": {"$ref": "#/definitions/SubmissionEntry"}},
                "duplicate_dates": {"type": "array", "items": {"$ref": "#/definitions/SubmissionEntry"}},
                "insert_error_dates": {"type": "array", "items": {"$ref": "#/definitions/SubmissionEntry"}}
            }
        },
        "DecisionRequest": {
            "type": "object",
            "properties": {
                "request_id": {"type": "integer"},
                "reason": {"type": "string"}
            },
            "required": ["request_id"]
        },
        "WithdrawRequest": {
            "type": "object",
            "properties": {
                "request_id": {"type": "integer"},
                "reason": {"type": "string"}
            },
            "required": ["request_id"]
        },
        "WithdrawalDecisionRequest": {
            "type": "object",
            "properties": {
                "withdrawal_id": {"type": "integer"},
                "reason": {"type": "string"}
            },
            "required": ["withdrawal_id"]
        },
        "CreateReassignmentRequest": {
            "type": "object",
            "properties": {
                "temp_manager_id": {"type": "integer"},
                "start_date": {"type": "string", "format": "date"},
                "end_date": {"type": "string", "format": "date"}
            },
            "required": ["temp_manager_id", "start_date", "end_date"]
        },
        "HandleReassignmentRequest": {
            "type": "object",
            "properties": {
                "reassignment_id": {"type": "integer"},
                "action": {"type": "string", "enum": ["APPROVE", "REJECT"]}
            },
            "required": ["reassignment_id", "action"]
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
                "pagination": {"type": "object"},
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
