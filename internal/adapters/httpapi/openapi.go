package httpapi

import (
	"net/http"

	"github.com/rogerbox/rogerbox/internal/httpjson"
)

// handleOpenAPI renvoie une description OpenAPI des routes principales.
func (s *Server) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	jsonOK := func(schemaRef string) map[string]any {
		return map[string]any{
			"description": "OK",
			"content": map[string]any{
				"application/json": map[string]any{
					"schema": map[string]any{"$ref": schemaRef},
				},
			},
		}
	}
	jsonBody := func(schemaRef string) map[string]any {
		return map[string]any{
			"required": true,
			"content": map[string]any{
				"application/json": map[string]any{
					"schema": map[string]any{"$ref": schemaRef},
				},
			},
		}
	}

	jsonErr := map[string]any{
		"description": "Error",
		"content": map[string]any{
			"application/json": map[string]any{
				"schema": map[string]any{"$ref": "#/components/schemas/Error"},
			},
		},
	}
	bearer := []any{map[string]any{"bearerAuth": []any{}}}
	intQuery := func(name string, required bool) map[string]any {
		return map[string]any{"name": name, "in": "query", "required": required, "schema": map[string]any{"type": "integer"}}
	}

	spec := map[string]any{
		"openapi": "3.0.3",
		"info": map[string]any{
			"title":   "RogerBox API",
			"version": "v1",
		},
		"components": map[string]any{
			"securitySchemes": map[string]any{
				"bearerAuth": map[string]any{"type": "http", "scheme": "bearer", "bearerFormat": "JWT"},
			},
			"schemas": map[string]any{
				"Error": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"error":  map[string]any{"type": "string"},
						"fields": map[string]any{"type": "object", "additionalProperties": map[string]any{"type": "string"}},
					},
					"required": []any{"error"},
				},
				"Credentials": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"email":    map[string]any{"type": "string", "format": "email"},
						"password": map[string]any{"type": "string", "minLength": 8},
						"fullName": map[string]any{"type": "string"},
					},
					"required": []any{"email", "password"},
				},
				"Session": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"token":     map[string]any{"type": "string"},
						"expiresAt": map[string]any{"type": "string", "format": "date-time"},
						"user":      map[string]any{"type": "object", "additionalProperties": true},
					},
				},
				"Complement": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id":              map[string]any{"type": "string"},
						"weekNumber":      map[string]any{"type": "integer", "minimum": 1, "maximum": 53},
						"year":            map[string]any{"type": "integer"},
						"dayOfWeek":       map[string]any{"type": "integer", "minimum": 1, "maximum": 7},
						"title":           map[string]any{"type": "string"},
						"description":     map[string]any{"type": "string"},
						"videoUrl":        map[string]any{"type": "string", "format": "uri"},
						"thumbnailUrl":    map[string]any{"type": "string", "format": "uri"},
						"durationSeconds": map[string]any{"type": "integer"},
						"isPublished":     map[string]any{"type": "boolean"},
						"publishAt":       map[string]any{"type": "string", "format": "date-time"},
					},
				},
				"TodayContent": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"item":       map[string]any{"$ref": "#/components/schemas/Complement", "nullable": true},
						"isWeekend":  map[string]any{"type": "boolean"},
						"dayOfWeek":  map[string]any{"type": "integer"},
						"weekNumber": map[string]any{"type": "integer"},
						"year":       map[string]any{"type": "integer"},
						"targetDay":  map[string]any{"type": "integer"},
						"reason":     map[string]any{"type": "string"},
					},
					"required": []any{"item", "isWeekend", "dayOfWeek", "weekNumber", "year"},
				},
				"Course": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id":          map[string]any{"type": "string"},
						"slug":        map[string]any{"type": "string"},
						"title":       map[string]any{"type": "string"},
						"level":       map[string]any{"type": "string", "enum": []any{"beginner", "intermediate", "advanced"}},
						"isPublished": map[string]any{"type": "boolean"},
						"position":    map[string]any{"type": "integer"},
					},
				},
				"Weight": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id":         map[string]any{"type": "string"},
						"weightKg":   map[string]any{"type": "number", "minimum": 20, "maximum": 400},
						"recordedOn": map[string]any{"type": "string", "format": "date"},
						"note":       map[string]any{"type": "string"},
					},
				},
				"Upload": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"key":       map[string]any{"type": "string"},
						"uploadUrl": map[string]any{"type": "string", "format": "uri"},
						"publicUrl": map[string]any{"type": "string", "format": "uri"},
						"method":    map[string]any{"type": "string"},
						"expiresAt": map[string]any{"type": "string", "format": "date-time"},
					},
				},
			},
		},
		"paths": map[string]any{
			"/api/v1/auth/register": map[string]any{
				"post": map[string]any{
					"requestBody": jsonBody("#/components/schemas/Credentials"),
					"responses": map[string]any{
						"201": jsonOK("#/components/schemas/Session"),
						"400": jsonErr,
						"409": jsonErr,
					},
				},
			},
			"/api/v1/auth/login": map[string]any{
				"post": map[string]any{
					"requestBody": jsonBody("#/components/schemas/Credentials"),
					"responses": map[string]any{
						"200": jsonOK("#/components/schemas/Session"),
						"401": jsonErr,
					},
				},
			},
			"/api/v1/complements/today": map[string]any{
				"get": map[string]any{
					"security": bearer,
					"responses": map[string]any{
						"200": jsonOK("#/components/schemas/TodayContent"),
						"401": jsonErr,
						"500": jsonErr,
					},
				},
			},
			"/api/v1/admin/complements/slot": map[string]any{
				"get": map[string]any{
					"security":   bearer,
					"parameters": []any{intQuery("week", true), intQuery("year", true), intQuery("day", true)},
					"responses": map[string]any{
						"200": jsonOK("#/components/schemas/TodayContent"),
						"400": jsonErr,
						"403": jsonErr,
						"500": jsonErr,
					},
				},
			},
			"/api/v1/admin/complements": map[string]any{
				"post": map[string]any{
					"security":    bearer,
					"requestBody": jsonBody("#/components/schemas/Complement"),
					"responses": map[string]any{
						"201": jsonOK("#/components/schemas/Complement"),
						"400": jsonErr,
						"409": jsonErr,
					},
				},
			},
			"/api/v1/courses": map[string]any{
				"get": map[string]any{
					"security": bearer,
					"responses": map[string]any{
						"200": map[string]any{
							"description": "OK",
							"content": map[string]any{
								"application/json": map[string]any{
									"schema": map[string]any{"type": "array", "items": map[string]any{"$ref": "#/components/schemas/Course"}},
								},
							},
						},
					},
				},
			},
			"/api/v1/me/weights": map[string]any{
				"post": map[string]any{
					"security":    bearer,
					"requestBody": jsonBody("#/components/schemas/Weight"),
					"responses": map[string]any{
						"201": jsonOK("#/components/schemas/Weight"),
						"400": jsonErr,
					},
				},
			},
			"/api/v1/admin/uploads": map[string]any{
				"post": map[string]any{
					"security": bearer,
					"responses": map[string]any{
						"201": jsonOK("#/components/schemas/Upload"),
						"400": jsonErr,
						"501": jsonErr,
					},
				},
			},
		},
	}

	httpjson.Write(w, http.StatusOK, spec)
}
