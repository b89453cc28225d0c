// Package docs holds the OpenAPI description served under /swagger.
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
        "/todos": {
            "get": {
                "tags": [
                    "todos"
                ],
                "summary": "List tasks",
                "description": "Without a project parameter the persisted selection is used.",
                "parameters": [
                    {
                        "in": "query",
                        "name": "filter",
                        "type": "string",
                        "enum": [
                            "all",
                            "active",
                            "completed",
                            "overdue"
                        ]
                    },
                    {
                        "in": "query",
                        "name": "project",
                        "type": "string"
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "Filtered view",
                        "schema": {
                            "$ref": "#/definitions/TaskView"
                        }
                    },
                    "400": {
                        "description": "Domain error",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    }
                }
            },
            "post": {
                "tags": [
                    "todos"
                ],
                "summary": "Create a task",
                "parameters": [
                    {
                        "in": "body",
                        "name": "request",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/AddTodoRequest"
                        }
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/Task"
                        }
                    },
                    "400": {
                        "description": "Domain error",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    }
                }
            }
        },
        "/todos/{id}": {
            "patch": {
                "tags": [
                    "todos"
                ],
                "summary": "Patch a task",
                "parameters": [
                    {
                        "in": "path",
                        "name": "id",
                        "type": "string",
                        "required": true,
                        "description": "Task ID"
                    },
                    {
                        "in": "body",
                        "name": "request",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/TaskChanges"
                        }
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "Updated",
                        "schema": {
                            "$ref": "#/definitions/Task"
                        }
                    },
                    "400": {
                        "description": "Domain error",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Domain error",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    }
                }
            },
            "delete": {
                "tags": [
                    "todos"
                ],
                "summary": "Delete a task",
                "parameters": [
                    {
                        "in": "path",
                        "name": "id",
                        "type": "string",
                        "required": true,
                        "description": "Task ID"
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "204": {
                        "description": "Deleted"
                    }
                }
            }
        },
        "/todos/toggle-all": {
            "post": {
                "tags": [
                    "todos"
                ],
                "summary": "Complete or reopen every task",
                "parameters": [
                    {
                        "in": "body",
                        "name": "request",
                        "required": false,
                        "schema": {
                            "$ref": "#/definitions/ToggleAllRequest"
                        }
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "All tasks",
                        "schema": {
                            "$ref": "#/definitions/TodoListResponse"
                        }
                    }
                }
            }
        },
        "/todos/clear-completed": {
            "post": {
                "tags": [
                    "todos"
                ],
                "summary": "Remove completed tasks",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "Remaining tasks",
                        "schema": {
                            "$ref": "#/definitions/TodoListResponse"
                        }
                    }
                }
            }
        },
        "/projects": {
            "get": {
                "tags": [
                    "projects"
                ],
                "summary": "List projects",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "Projects",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/Project"
                            }
                        }
                    }
                }
            },
            "post": {
                "tags": [
                    "projects"
                ],
                "summary": "Create a project",
                "parameters": [
                    {
                        "in": "body",
                        "name": "request",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/AddProjectRequest"
                        }
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/Project"
                        }
                    },
                    "400": {
                        "description": "Domain error",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    }
                }
            }
        },
        "/projects/{id}": {
            "delete": {
                "tags": [
                    "projects"
                ],
                "summary": "Delete a project",
                "description": "Tasks of the project move to the inbox.",
                "parameters": [
                    {
                        "in": "path",
                        "name": "id",
                        "type": "string",
                        "required": true,
                        "description": "Project ID"
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "204": {
                        "description": "Deleted"
                    },
                    "409": {
                        "description": "Domain error",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    }
                }
            }
        },
        "/projects/selected": {
            "get": {
                "tags": [
                    "projects"
                ],
                "summary": "Get the selected project scope",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "Selection",
                        "schema": {
                            "$ref": "#/definitions/SelectedProjectResponse"
                        }
                    }
                }
            },
            "put": {
                "tags": [
                    "projects"
                ],
                "summary": "Change the selected project scope",
                "parameters": [
                    {
                        "in": "body",
                        "name": "request",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/SelectProjectRequest"
                        }
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "Selection",
                        "schema": {
                            "$ref": "#/definitions/SelectedProjectResponse"
                        }
                    },
                    "400": {
                        "description": "Domain error",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    }
                }
            }
        },
        "/theme": {
            "get": {
                "tags": [
                    "preferences"
                ],
                "summary": "Get the theme",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "Theme",
                        "schema": {
                            "$ref": "#/definitions/ThemeResponse"
                        }
                    }
                }
            },
            "put": {
                "tags": [
                    "preferences"
                ],
                "summary": "Change the theme",
                "parameters": [
                    {
                        "in": "body",
                        "name": "request",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/SetThemeRequest"
                        }
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "Theme",
                        "schema": {
                            "$ref": "#/definitions/ThemeResponse"
                        }
                    },
                    "400": {
                        "description": "Domain error",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    }
                }
            }
        },
        "/data/export": {
            "get": {
                "tags": [
                    "data"
                ],
                "summary": "Download the whole state",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "Snapshot",
                        "schema": {
                            "$ref": "#/definitions/PersistedState"
                        }
                    }
                }
            }
        },
        "/data/import": {
            "post": {
                "tags": [
                    "data"
                ],
                "summary": "Replace the whole state",
                "description": "A rejected payload leaves the stored state untouched.",
                "parameters": [
                    {
                        "in": "body",
                        "name": "request",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/PersistedState"
                        }
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "Imported state",
                        "schema": {
                            "$ref": "#/definitions/PersistedState"
                        }
                    },
                    "400": {
                        "description": "Domain error",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "Task": {
            "type": "object",
            "required": [
                "id",
                "title",
                "completed",
                "projectId",
                "priority",
                "createdAt",
                "updatedAt"
            ],
            "properties": {
                "id": {
                    "type": "string"
                },
                "title": {
                    "type": "string"
                },
                "completed": {
                    "type": "boolean"
                },
                "projectId": {
                    "type": "string"
                },
                "priority": {
                    "type": "string",
                    "enum": [
                        "low",
                        "medium",
                        "high"
                    ]
                },
                "dueDate": {
                    "type": "string"
                },
                "createdAt": {
                    "type": "string"
                },
                "updatedAt": {
                    "type": "string"
                }
            }
        },
        "Project": {
            "type": "object",
            "required": [
                "id",
                "name"
            ],
            "properties": {
                "id": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "color": {
                    "type": "string"
                },
                "icon": {
                    "type": "string"
                }
            }
        },
        "TaskChanges": {
            "type": "object",
            "properties": {
                "title": {
                    "type": "string"
                },
                "completed": {
                    "type": "boolean"
                },
                "projectId": {
                    "type": "string"
                },
                "priority": {
                    "type": "string",
                    "enum": [
                        "low",
                        "medium",
                        "high"
                    ]
                },
                "dueDate": {
                    "type": "string"
                }
            }
        },
        "PersistedState": {
            "type": "object",
            "required": [
                "version",
                "todos",
                "projects",
                "theme",
                "selectedProjectId"
            ],
            "properties": {
                "version": {
                    "type": "string"
                },
                "todos": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/Task"
                    }
                },
                "projects": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/Project"
                    }
                },
                "theme": {
                    "type": "string",
                    "enum": [
                        "light",
                        "dark",
                        "auto"
                    ]
                },
                "selectedProjectId": {
                    "type": "string"
                },
                "exportedAt": {
                    "type": "string"
                }
            }
        },
        "TaskView": {
            "type": "object",
            "properties": {
                "todos": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/Task"
                    }
                },
                "filter": {
                    "type": "string"
                },
                "projectId": {
                    "type": "string"
                },
                "activeCount": {
                    "type": "integer"
                },
                "completedCount": {
                    "type": "integer"
                },
                "allCompleted": {
                    "type": "boolean"
                }
            }
        },
        "AddTodoRequest": {
            "type": "object",
            "required": [
                "title",
                "priority"
            ],
            "properties": {
                "title": {
                    "type": "string"
                },
                "projectId": {
                    "type": "string"
                },
                "priority": {
                    "type": "string",
                    "enum": [
                        "low",
                        "medium",
                        "high"
                    ]
                },
                "dueDate": {
                    "type": "string"
                }
            }
        },
        "ToggleAllRequest": {
            "type": "object",
            "properties": {
                "completed": {
                    "type": "boolean"
                }
            }
        },
        "AddProjectRequest": {
            "type": "object",
            "required": [
                "name"
            ],
            "properties": {
                "name": {
                    "type": "string"
                },
                "color": {
                    "type": "string",
                    "maxLength": 32
                },
                "icon": {
                    "type": "string",
                    "maxLength": 32
                }
            }
        },
        "SelectProjectRequest": {
            "type": "object",
            "required": [
                "projectId"
            ],
            "properties": {
                "projectId": {
                    "type": "string"
                }
            }
        },
        "SetThemeRequest": {
            "type": "object",
            "required": [
                "theme"
            ],
            "properties": {
                "theme": {
                    "type": "string",
                    "enum": [
                        "light",
                        "dark",
                        "auto"
                    ]
                }
            }
        },
        "TodoListResponse": {
            "type": "object",
            "properties": {
                "todos": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/Task"
                    }
                }
            }
        },
        "SelectedProjectResponse": {
            "type": "object",
            "properties": {
                "projectId": {
                    "type": "string"
                }
            }
        },
        "ThemeResponse": {
            "type": "object",
            "properties": {
                "theme": {
                    "type": "string",
                    "enum": [
                        "light",
                        "dark",
                        "auto"
                    ]
                }
            }
        },
        "ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                },
                "path": {
                    "type": "string"
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{"http"},
	Title:            "TodoPlus API",
	Description:      "Task, project and preference state for TodoPlus clients",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
