// Package docs holds the swagger document served under /api/swagger.
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
        "/chemicals": {
            "get": {
                "description": "Paginated chemicals with active and total bottle counts",
                "produces": ["application/json"],
                "tags": ["chemicals"],
                "summary": "List chemicals",
                "parameters": [
                    {"type": "string", "description": "substring of name, CAS number or formula", "name": "search", "in": "query"},
                    {"type": "integer", "description": "page, default 1", "name": "page", "in": "query"},
                    {"type": "integer", "description": "page size, default 50, max 200", "name": "limit", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/common.Resp"}}}
            },
            "post": {
                "description": "A duplicate CAS number fails with 400 and the existingId",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["chemicals"],
                "summary": "Create a chemical",
                "parameters": [
                    {"description": "chemical", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/chemical.ChemicalReq"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/common.Resp"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {}}}
                }
            }
        },
        "/chemicals/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["chemicals"],
                "summary": "Get a chemical with its bottles",
                "parameters": [{"type": "integer", "description": "chemical id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/common.Resp"}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {}}}
                }
            },
            "delete": {
                "description": "Fails with 400 and bottleCount while bottles reference it",
                "tags": ["chemicals"],
                "summary": "Delete a chemical",
                "parameters": [{"type": "integer", "description": "chemical id", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/common.Resp"}}}
            }
        },
        "/bottles": {
            "get": {
                "description": "Filters are AND-combined; expired selects active bottles past their expiration date",
                "produces": ["application/json"],
                "tags": ["bottles"],
                "summary": "List bottles",
                "parameters": [
                    {"type": "string", "description": "substring of bottle id, lot number, chemical name or CAS", "name": "search", "in": "query"},
                    {"type": "integer", "description": "chemical id", "name": "chemicalId", "in": "query"},
                    {"type": "integer", "description": "location id", "name": "locationId", "in": "query"},
                    {"type": "string", "description": "active, empty, disposed or expired", "name": "status", "in": "query"},
                    {"type": "boolean", "description": "only expired active bottles", "name": "expired", "in": "query"},
                    {"type": "integer", "description": "page", "name": "page", "in": "query"},
                    {"type": "integer", "description": "page size", "name": "limit", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/common.Resp"}}}
            },
            "post": {
                "description": "Allocates numberOfBottles consecutive ids under the chemical's parent id",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["bottles"],
                "summary": "Create a batch of bottles",
                "parameters": [
                    {"description": "batch", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/bottle.CreateReq"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/common.Resp"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {}}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {}}}
                }
            }
        },
        "/bottles/bulk-status": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["bottles"],
                "summary": "Set the status of many bottles",
                "parameters": [
                    {"description": "ids and status", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/bottle.BulkStatusReq"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/common.Resp"}}}
            }
        },
        "/locations": {
            "post": {
                "description": "Names are unique within a room and building; a collision fails with 409",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["locations"],
                "summary": "Create a storage location",
                "parameters": [
                    {"description": "location", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/location.LocationReq"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/common.Resp"}},
                    "409": {"description": "Conflict", "schema": {"type": "object", "additionalProperties": {}}}
                }
            }
        },
        "/locations/{id}": {
            "delete": {
                "description": "Fails with 400 and bottleCount while bottles reference it",
                "tags": ["locations"],
                "summary": "Delete a storage location",
                "parameters": [{"type": "integer", "description": "location id", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/common.Resp"}}}
            }
        },
        "/lookup/cas/{casNumber}": {
            "get": {
                "description": "Best effort; curated NFPA ratings win over external sources",
                "produces": ["application/json"],
                "tags": ["lookup"],
                "summary": "Look up chemical metadata by CAS number",
                "parameters": [{"type": "string", "description": "CAS registry number", "name": "casNumber", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/common.Resp"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {}}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {}}}
                }
            }
        },
        "/stats": {
            "get": {
                "produces": ["application/json"],
                "tags": ["stats"],
                "summary": "Dashboard counts",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/common.Resp"}}}
            }
        }
    },
    "definitions": {
        "common.Resp": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "data": {}
            }
        },
        "chemical.ChemicalReq": {
            "type": "object",
            "required": ["name"],
            "properties": {
                "casNumber": {"type": "string"},
                "name": {"type": "string"},
                "formula": {"type": "string"},
                "molecularWeight": {"type": "number"},
                "nfpaHealth": {"type": "integer", "maximum": 4, "minimum": 0},
                "nfpaFire": {"type": "integer", "maximum": 4, "minimum": 0},
                "nfpaReactivity": {"type": "integer", "maximum": 4, "minimum": 0},
                "nfpaSpecial": {"type": "string", "maxLength": 8},
                "sdsUrl": {"type": "string"},
                "supplier": {"type": "string"},
                "lookupSources": {"type": "array", "items": {"type": "string"}}
            }
        },
        "bottle.CreateReq": {
            "type": "object",
            "required": ["chemicalId"],
            "properties": {
                "chemicalId": {"type": "integer"},
                "numberOfBottles": {"type": "integer"},
                "locationId": {"type": "integer"},
                "quantity": {"type": "number"},
                "unit": {"type": "string"},
                "orderDate": {"type": "string"},
                "receivedDate": {"type": "string"},
                "expirationDate": {"type": "string"},
                "lotNumber": {"type": "string"},
                "poNumber": {"type": "string"},
                "notes": {"type": "string"}
            }
        },
        "bottle.BulkStatusReq": {
            "type": "object",
            "required": ["bottleIds", "status"],
            "properties": {
                "bottleIds": {"type": "array", "items": {"type": "integer"}},
                "status": {"type": "string"}
            }
        },
        "location.LocationReq": {
            "type": "object",
            "required": ["name"],
            "properties": {
                "name": {"type": "string"},
                "description": {"type": "string"},
                "room": {"type": "string"},
                "building": {"type": "string"},
                "storageType": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "chemstock API",
	Description:      "Laboratory chemical inventory: chemicals, bottles and storage locations.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
