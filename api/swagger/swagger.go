package swagger

import (
	"strings"

	"github.com/swaggo/swag"
)

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Timetable API",
        "description": "Weekly timetable generation with seeded randomized placement",
        "version": "1.0.0"
    },
    "basePath": "{{.BasePath}}",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Timetables", "description": "Generation, export and reference data"},
        {"name": "Observability", "description": "Process metrics"}
    ],
    "paths": {
        "/metrics/summary": {
            "get": {
                "tags": ["Observability"],
                "summary": "Aggregated process metrics",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetables/generate": {
            "post": {
                "tags": ["Timetables"],
                "summary": "Generate a weekly timetable",
                "description": "Omit seed for a random layout; the seed used is returned in data.seed and meta.seed.",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GenerateTimetableRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/TimetableEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "503": {"description": "Roster source unavailable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetables/batch": {
            "post": {
                "tags": ["Timetables"],
                "summary": "Generate timetables for several divisions",
                "description": "Division i is generated with seed+i.",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BatchGenerateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetables/export": {
            "get": {
                "tags": ["Timetables"],
                "summary": "Download a generated timetable",
                "produces": [
                    "text/csv",
                    "application/pdf",
                    "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
                    "text/calendar"
                ],
                "parameters": [
                    {"name": "branch", "in": "query", "required": true, "type": "string"},
                    {"name": "division", "in": "query", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "required": true, "type": "string", "enum": ["csv", "pdf", "xlsx", "ics"]},
                    {"name": "seed", "in": "query", "type": "integer", "format": "int64"},
                    {"name": "skipLibrary", "in": "query", "type": "boolean"},
                    {"name": "skipProject", "in": "query", "type": "boolean"},
                    {"name": "weekOf", "in": "query", "type": "string", "format": "date"},
                    {"name": "weeks", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Document", "headers": {"X-Timetable-Seed": {"type": "integer"}}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetables/legend": {
            "get": {
                "tags": ["Timetables"],
                "summary": "Session kinds with display tokens",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetables/slots": {
            "get": {
                "tags": ["Timetables"],
                "summary": "Teaching days and bell schedule",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetables/roster": {
            "get": {
                "tags": ["Timetables"],
                "summary": "Active roster, branches and divisions",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "GenerateTimetableRequest": {
            "type": "object",
            "required": ["branch", "division"],
            "properties": {
                "branch": {"type": "string", "example": "computer-eng"},
                "division": {"type": "string", "example": "div-a"},
                "seed": {"type": "integer", "format": "int64"},
                "skipLibrary": {"type": "boolean"},
                "skipProject": {"type": "boolean"}
            }
        },
        "BatchGenerateRequest": {
            "type": "object",
            "required": ["branch", "divisions"],
            "properties": {
                "branch": {"type": "string"},
                "divisions": {"type": "array", "items": {"type": "string"}},
                "seed": {"type": "integer", "format": "int64"},
                "skipLibrary": {"type": "boolean"},
                "skipProject": {"type": "boolean"}
            }
        },
        "TimetableCell": {
            "type": "object",
            "properties": {
                "slotId": {"type": "string", "example": "monday-0"},
                "time": {"type": "string", "example": "09:00 - 10:00"},
                "teacher": {"type": "string"},
                "teacherName": {"type": "string"},
                "course": {"type": "string"},
                "courseName": {"type": "string"},
                "type": {"type": "string", "enum": ["TH", "LAB", "LIBRARY", "PROJECT"]},
                "room": {"type": "string"},
                "batches": {"type": "array", "items": {"type": "string"}},
                "placement": {"type": "integer"},
                "continuation": {"type": "boolean"},
                "classColor": {"type": "string"},
                "typeBadge": {"type": "string"}
            }
        },
        "TimetableDay": {
            "type": "object",
            "properties": {
                "day": {"type": "string"},
                "cells": {"type": "array", "items": {"$ref": "#/definitions/TimetableCell"}}
            }
        },
        "Stats": {
            "type": "object",
            "properties": {
                "theorySessions": {"type": "integer"},
                "labSessions": {"type": "integer"},
                "libraryHours": {"type": "integer"},
                "projectHours": {"type": "integer"},
                "freeSlots": {"type": "integer"},
                "unplaced": {"type": "integer"}
            }
        },
        "Timetable": {
            "type": "object",
            "properties": {
                "generationId": {"type": "string", "format": "uuid"},
                "branch": {"type": "string"},
                "branchLabel": {"type": "string"},
                "division": {"type": "string"},
                "divisionLabel": {"type": "string"},
                "seed": {"type": "integer", "format": "int64"},
                "rosterSource": {"type": "string"},
                "generatedAt": {"type": "string", "format": "date-time"},
                "slots": {"type": "array", "items": {"type": "string"}},
                "days": {"type": "array", "items": {"$ref": "#/definitions/TimetableDay"}},
                "stats": {"$ref": "#/definitions/Stats"},
                "unplaced": {"type": "array", "items": {"type": "object"}}
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
        "TimetableEnvelope": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/Timetable"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

// DefaultBasePath matches the default API_PREFIX.
const DefaultBasePath = "/api/v1"

var basePath = DefaultBasePath

// SetBasePath points the document at the prefix the API group is mounted on.
// Call it before the server starts.
func SetBasePath(prefix string) {
	if prefix == "" {
		prefix = "/"
	}
	basePath = prefix
}

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return strings.Replace(docTemplate, "{{.BasePath}}", basePath, 1)
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
