// Package docs registers the OpenAPI document served under /swagger/.
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
		"/v1/ledger": {
			"get": {
				"tags": [
					"ledger"
				],
				"summary": "Ledger summary",
				"produces": [
					"application/json"
				],
				"parameters": [],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/LedgerResponse"
						}
					},
					"default": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/ErrorResponse"
						}
					}
				}
			}
		},
		"/v1/ledger/accounts/{address}": {
			"get": {
				"tags": [
					"ledger"
				],
				"summary": "Account balance and registration",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"name": "address",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/AccountResponse"
						}
					},
					"default": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/ErrorResponse"
						}
					}
				}
			}
		},
		"/v1/ledger/allowances/{owner}/{spender}": {
			"get": {
				"tags": [
					"ledger"
				],
				"summary": "Allowance",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"name": "owner",
						"in": "path",
						"required": true
					},
					{
						"type": "string",
						"name": "spender",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/AllowanceResponse"
						}
					},
					"default": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/ErrorResponse"
						}
					}
				}
			}
		},
		"/v1/ledger/voters": {
			"post": {
				"tags": [
					"ledger"
				],
				"summary": "Register voter",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Bearer token",
						"name": "Authorization",
						"in": "header",
						"required": true
					},
					{
						"type": "string",
						"description": "Request id",
						"name": "X-Request-Id",
						"in": "header",
						"required": true
					},
					{
						"in": "body",
						"name": "request",
						"required": true,
						"schema": {
							"$ref": "#/definitions/RegisterVoterRequest"
						}
					}
				],
				"responses": {
					"201": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/AccountResponse"
						}
					},
					"default": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/ErrorResponse"
						}
					}
				}
			}
		},
		"/v1/ledger/voters/batch": {
			"post": {
				"tags": [
					"ledger"
				],
				"summary": "Register voters",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Bearer token",
						"name": "Authorization",
						"in": "header",
						"required": true
					},
					{
						"type": "string",
						"description": "Request id",
						"name": "X-Request-Id",
						"in": "header",
						"required": true
					},
					{
						"in": "body",
						"name": "request",
						"required": true,
						"schema": {
							"$ref": "#/definitions/BatchRegisterVotersRequest"
						}
					}
				],
				"responses": {
					"201": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/RegisterVotersResponse"
						}
					},
					"default": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/ErrorResponse"
						}
					}
				}
			}
		},
		"/v1/ledger/approvals": {
			"post": {
				"tags": [
					"ledger"
				],
				"summary": "Approve spender",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Bearer token",
						"name": "Authorization",
						"in": "header",
						"required": true
					},
					{
						"type": "string",
						"description": "Request id",
						"name": "X-Request-Id",
						"in": "header",
						"required": true
					},
					{
						"in": "body",
						"name": "request",
						"required": true,
						"schema": {
							"$ref": "#/definitions/ApproveRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/AllowanceResponse"
						}
					},
					"default": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/ErrorResponse"
						}
					}
				}
			}
		},
		"/v1/ledger/transfers": {
			"post": {
				"tags": [
					"ledger"
				],
				"summary": "Transfer credits",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Bearer token",
						"name": "Authorization",
						"in": "header",
						"required": true
					},
					{
						"type": "string",
						"description": "Request id",
						"name": "X-Request-Id",
						"in": "header",
						"required": true
					},
					{
						"in": "body",
						"name": "request",
						"required": true,
						"schema": {
							"$ref": "#/definitions/TransferRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/TransferResponse"
						}
					},
					"default": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/ErrorResponse"
						}
					}
				}
			}
		},
		"/v1/ledger/transfers/from": {
			"post": {
				"tags": [
					"ledger"
				],
				"summary": "Transfer credits on behalf of owner",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Bearer token",
						"name": "Authorization",
						"in": "header",
						"required": true
					},
					{
						"type": "string",
						"description": "Request id",
						"name": "X-Request-Id",
						"in": "header",
						"required": true
					},
					{
						"in": "body",
						"name": "request",
						"required": true,
						"schema": {
							"$ref": "#/definitions/TransferFromRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/TransferResponse"
						}
					},
					"default": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/ErrorResponse"
						}
					}
				}
			}
		},
		"/v1/ledger/burns": {
			"post": {
				"tags": [
					"ledger"
				],
				"summary": "Burn credits",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Bearer token",
						"name": "Authorization",
						"in": "header",
						"required": true
					},
					{
						"type": "string",
						"description": "Request id",
						"name": "X-Request-Id",
						"in": "header",
						"required": true
					},
					{
						"in": "body",
						"name": "request",
						"required": true,
						"schema": {
							"$ref": "#/definitions/BurnRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/AccountResponse"
						}
					},
					"default": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/ErrorResponse"
						}
					}
				}
			}
		},
		"/v1/elections": {
			"get": {
				"tags": [
					"elections"
				],
				"summary": "List elections",
				"produces": [
					"application/json"
				],
				"parameters": [],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/ElectionListResponse"
						}
					},
					"default": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/ErrorResponse"
						}
					}
				}
			},
			"post": {
				"tags": [
					"elections"
				],
				"summary": "Create election",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Bearer token",
						"name": "Authorization",
						"in": "header",
						"required": true
					},
					{
						"type": "string",
						"description": "Request id",
						"name": "X-Request-Id",
						"in": "header",
						"required": true
					},
					{
						"in": "body",
						"name": "request",
						"required": true,
						"schema": {
							"$ref": "#/definitions/CreateElectionRequest"
						}
					}
				],
				"responses": {
					"201": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/ElectionResponse"
						}
					},
					"default": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/ErrorResponse"
						}
					}
				}
			}
		},
		"/v1/elections/{election_id}": {
			"get": {
				"tags": [
					"elections"
				],
				"summary": "Get election",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "integer",
						"name": "election_id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/ElectionResponse"
						}
					},
					"default": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/ErrorResponse"
						}
					}
				}
			}
		},
		"/v1/elections/{election_id}/candidates": {
			"post": {
				"tags": [
					"elections"
				],
				"summary": "Add candidate",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Bearer token",
						"name": "Authorization",
						"in": "header",
						"required": true
					},
					{
						"type": "string",
						"description": "Request id",
						"name": "X-Request-Id",
						"in": "header",
						"required": true
					},
					{
						"type": "integer",
						"name": "election_id",
						"in": "path",
						"required": true
					},
					{
						"in": "body",
						"name": "request",
						"required": true,
						"schema": {
							"$ref": "#/definitions/AddCandidateRequest"
						}
					}
				],
				"responses": {
					"201": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/CandidateResponse"
						}
					},
					"default": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/ErrorResponse"
						}
					}
				}
			}
		},
		"/v1/elections/{election_id}/candidates/{candidate_id}": {
			"get": {
				"tags": [
					"elections"
				],
				"summary": "Get candidate",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "integer",
						"name": "election_id",
						"in": "path",
						"required": true
					},
					{
						"type": "integer",
						"name": "candidate_id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/CandidateResponse"
						}
					},
					"default": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/ErrorResponse"
						}
					}
				}
			}
		},
		"/v1/elections/{election_id}/start": {
			"post": {
				"tags": [
					"elections"
				],
				"summary": "Start election",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Bearer token",
						"name": "Authorization",
						"in": "header",
						"required": true
					},
					{
						"type": "string",
						"description": "Request id",
						"name": "X-Request-Id",
						"in": "header",
						"required": true
					},
					{
						"type": "integer",
						"name": "election_id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/ElectionResponse"
						}
					},
					"default": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/ErrorResponse"
						}
					}
				}
			}
		},
		"/v1/elections/{election_id}/end": {
			"post": {
				"tags": [
					"elections"
				],
				"summary": "End election",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Bearer token",
						"name": "Authorization",
						"in": "header",
						"required": true
					},
					{
						"type": "string",
						"description": "Request id",
						"name": "X-Request-Id",
						"in": "header",
						"required": true
					},
					{
						"type": "integer",
						"name": "election_id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/EndElectionResponse"
						}
					},
					"default": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/ErrorResponse"
						}
					}
				}
			}
		},
		"/v1/elections/{election_id}/votes": {
			"post": {
				"tags": [
					"elections"
				],
				"summary": "Cast vote",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Bearer token",
						"name": "Authorization",
						"in": "header",
						"required": true
					},
					{
						"type": "string",
						"description": "Request id",
						"name": "X-Request-Id",
						"in": "header",
						"required": true
					},
					{
						"type": "integer",
						"name": "election_id",
						"in": "path",
						"required": true
					},
					{
						"in": "body",
						"name": "request",
						"required": true,
						"schema": {
							"$ref": "#/definitions/CastVoteRequest"
						}
					}
				],
				"responses": {
					"201": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/VoteRecordResponse"
						}
					},
					"default": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/ErrorResponse"
						}
					}
				}
			}
		},
		"/v1/elections/{election_id}/voters/{address}": {
			"get": {
				"tags": [
					"elections"
				],
				"summary": "Voter status",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "integer",
						"name": "election_id",
						"in": "path",
						"required": true
					},
					{
						"type": "string",
						"name": "address",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/VoterStatusResponse"
						}
					},
					"default": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/ErrorResponse"
						}
					}
				}
			}
		},
		"/v1/elections/{election_id}/winner": {
			"get": {
				"tags": [
					"elections"
				],
				"summary": "Winner of an ended election",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "integer",
						"name": "election_id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/CandidateResponse"
						}
					},
					"default": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/ErrorResponse"
						}
					}
				}
			}
		},
		"/v1/events": {
			"get": {
				"tags": [
					"events"
				],
				"summary": "List events",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "integer",
						"name": "after",
						"in": "query"
					},
					{
						"type": "integer",
						"name": "limit",
						"in": "query"
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/EventListResponse"
						}
					},
					"default": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/ErrorResponse"
						}
					}
				}
			}
		}
	},
	"definitions": {
		"ErrorResponse": {
			"type": "object",
			"properties": {
				"code": {
					"type": "string"
				},
				"message": {
					"type": "string"
				}
			}
		},
		"RegisterVoterRequest": {
			"type": "object",
			"properties": {
				"address": {
					"type": "string"
				},
				"amount": {
					"type": "string"
				}
			}
		},
		"BatchRegisterVotersRequest": {
			"type": "object",
			"properties": {
				"addresses": {
					"type": "array",
					"items": {
						"type": "string"
					}
				},
				"amount": {
					"type": "string"
				}
			}
		},
		"ApproveRequest": {
			"type": "object",
			"properties": {
				"spender": {
					"type": "string"
				},
				"amount": {
					"type": "string"
				}
			}
		},
		"TransferRequest": {
			"type": "object",
			"properties": {
				"to": {
					"type": "string"
				},
				"amount": {
					"type": "string"
				}
			}
		},
		"TransferFromRequest": {
			"type": "object",
			"properties": {
				"owner": {
					"type": "string"
				},
				"to": {
					"type": "string"
				},
				"amount": {
					"type": "string"
				}
			}
		},
		"BurnRequest": {
			"type": "object",
			"properties": {
				"amount": {
					"type": "string"
				}
			}
		},
		"CreateElectionRequest": {
			"type": "object",
			"properties": {
				"title": {
					"type": "string"
				},
				"description": {
					"type": "string"
				},
				"start_time": {
					"type": "string"
				},
				"end_time": {
					"type": "string"
				}
			}
		},
		"AddCandidateRequest": {
			"type": "object",
			"properties": {
				"name": {
					"type": "string"
				},
				"description": {
					"type": "string"
				}
			}
		},
		"CastVoteRequest": {
			"type": "object",
			"properties": {
				"candidate_id": {
					"type": "integer"
				},
				"amount": {
					"type": "string"
				}
			}
		},
		"LedgerResponse": {
			"type": "object",
			"properties": {
				"token_name": {
					"type": "string"
				},
				"token_symbol": {
					"type": "string"
				},
				"administrator": {
					"type": "string"
				},
				"custody": {
					"type": "string"
				},
				"tokens_per_vote": {
					"type": "string"
				},
				"total_supply": {
					"type": "string"
				},
				"voter_count": {
					"type": "integer"
				},
				"election_count": {
					"type": "integer"
				}
			}
		},
		"AccountResponse": {
			"type": "object",
			"properties": {
				"address": {
					"type": "string"
				},
				"balance": {
					"type": "string"
				},
				"registered": {
					"type": "boolean"
				}
			}
		},
		"RegisterVotersResponse": {
			"type": "object",
			"properties": {
				"items": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/AccountResponse"
					}
				}
			}
		},
		"AllowanceResponse": {
			"type": "object",
			"properties": {
				"owner": {
					"type": "string"
				},
				"spender": {
					"type": "string"
				},
				"amount": {
					"type": "string"
				}
			}
		},
		"TransferResponse": {
			"type": "object",
			"properties": {
				"from": {
					"type": "string"
				},
				"to": {
					"type": "string"
				},
				"amount": {
					"type": "string"
				}
			}
		},
		"CandidateResponse": {
			"type": "object",
			"properties": {
				"election_id": {
					"type": "integer"
				},
				"candidate_id": {
					"type": "integer"
				},
				"name": {
					"type": "string"
				},
				"description": {
					"type": "string"
				},
				"vote_count": {
					"type": "string"
				}
			}
		},
		"ElectionResponse": {
			"type": "object",
			"properties": {
				"election_id": {
					"type": "integer"
				},
				"candidate_count": {
					"type": "integer"
				},
				"total_votes_cast": {
					"type": "integer"
				},
				"title": {
					"type": "string"
				},
				"description": {
					"type": "string"
				},
				"start_time": {
					"type": "string"
				},
				"end_time": {
					"type": "string"
				},
				"status": {
					"type": "string"
				},
				"total_tokens_used": {
					"type": "string"
				},
				"started_at": {
					"type": "string"
				},
				"ended_at": {
					"type": "string"
				},
				"candidates": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/CandidateResponse"
					}
				}
			}
		},
		"ElectionListResponse": {
			"type": "object",
			"properties": {
				"count": {
					"type": "integer"
				},
				"items": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/ElectionResponse"
					}
				}
			}
		},
		"EndElectionResponse": {
			"type": "object",
			"properties": {
				"election": {
					"$ref": "#/definitions/ElectionResponse"
				},
				"winner": {
					"$ref": "#/definitions/CandidateResponse"
				}
			}
		},
		"VoteRecordResponse": {
			"type": "object",
			"properties": {
				"election_id": {
					"type": "integer"
				},
				"candidate_id": {
					"type": "integer"
				},
				"voter": {
					"type": "string"
				},
				"tokens": {
					"type": "string"
				},
				"weight": {
					"type": "string"
				},
				"cast_at": {
					"type": "string"
				}
			}
		},
		"VoterStatusResponse": {
			"type": "object",
			"properties": {
				"election_id": {
					"type": "integer"
				},
				"voter": {
					"type": "string"
				},
				"has_voted": {
					"type": "boolean"
				},
				"vote": {
					"$ref": "#/definitions/VoteRecordResponse"
				}
			}
		},
		"EventResponse": {
			"type": "object",
			"properties": {
				"event_id": {
					"type": "string"
				},
				"event_type": {
					"type": "string"
				},
				"occurred_at": {
					"type": "string"
				},
				"partition_key": {
					"type": "string"
				},
				"sequence": {
					"type": "integer"
				},
				"data": {
					"type": "object"
				}
			}
		},
		"EventListResponse": {
			"type": "object",
			"properties": {
				"items": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/EventResponse"
					}
				},
				"next_sequence": {
					"type": "integer"
				}
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
	Title:            "BlockVote API",
	Description:      "Token-weighted election engine: vote credit ledger and election lifecycle.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
