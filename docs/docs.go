// Package docs mantiene la definición OpenAPI que sirve /swagger/*.
// Regenerar con: swag init -g cmd/api/main.go -o docs
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
            "get": {
                "summary": "Liveness check",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/clients": {
            "get": {
                "tags": ["clients"],
                "summary": "Lista clientes",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}}
            },
            "post": {
                "tags": ["clients"],
                "summary": "Crea un cliente",
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}
            }
        },
        "/clients/{clientID}": {
            "get": {
                "tags": ["clients"],
                "summary": "Obtiene un cliente",
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            },
            "put": {
                "tags": ["clients"],
                "summary": "Actualiza un cliente",
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            },
            "delete": {
                "tags": ["clients"],
                "summary": "Borra un cliente sin animales asociados",
                "responses": {"204": {"description": "No Content"}, "409": {"description": "Conflict"}}
            }
        },
        "/animals": {
            "get": {
                "tags": ["animals"],
                "summary": "Lista animales, opcionalmente por cliente",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["animals"],
                "summary": "Registra un animal",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/animals/{animalID}": {
            "get": {"tags": ["animals"], "summary": "Obtiene un animal", "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["animals"], "summary": "Actualiza un animal", "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["animals"], "summary": "Borra un animal", "responses": {"204": {"description": "No Content"}}}
        },
        "/invoices": {
            "get": {"tags": ["invoices"], "summary": "Lista facturas", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["invoices"], "summary": "Crea una factura en borrador", "responses": {"201": {"description": "Created"}}}
        },
        "/invoices/{invoiceID}": {
            "get": {"tags": ["invoices"], "summary": "Obtiene una factura", "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["invoices"], "summary": "Actualiza una factura no anulada", "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}},
            "delete": {"tags": ["invoices"], "summary": "Borra una factura", "responses": {"204": {"description": "No Content"}}}
        },
        "/organizations": {
            "get": {"tags": ["organizations"], "summary": "Lista organizaciones", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["organizations"], "summary": "Crea una organización", "responses": {"201": {"description": "Created"}}}
        },
        "/organizations/{organizationID}": {
            "get": {"tags": ["organizations"], "summary": "Obtiene una organización", "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["organizations"], "summary": "Actualiza una organización", "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["organizations"], "summary": "Borra una organización (solo admin)", "responses": {"204": {"description": "No Content"}, "403": {"description": "Forbidden"}}}
        },
        "/blacklist": {
            "get": {"tags": ["blacklist"], "summary": "Lista entradas de la lista negra", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["blacklist"], "summary": "Crea una entrada", "responses": {"201": {"description": "Created"}}}
        },
        "/blacklist/{entryID}": {
            "get": {"tags": ["blacklist"], "summary": "Obtiene una entrada", "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["blacklist"], "summary": "Actualiza una entrada", "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["blacklist"], "summary": "Borra una entrada", "responses": {"204": {"description": "No Content"}}}
        },
        "/documents": {
            "get": {"tags": ["documents"], "summary": "Lista documentos (metadata, sin bytes)", "responses": {"200": {"description": "OK"}}},
            "post": {
                "tags": ["documents"],
                "summary": "Sube un documento PDF (multipart, máx 10 MiB)",
                "consumes": ["multipart/form-data"],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}
            }
        },
        "/documents/{documentID}": {
            "get": {"tags": ["documents"], "summary": "Obtiene metadata + historial de revisiones", "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["documents"], "summary": "Actualiza metadata y/o reemplaza el archivo", "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}},
            "delete": {"tags": ["documents"], "summary": "Borra documento e historial completo", "responses": {"204": {"description": "No Content"}}}
        },
        "/documents/{documentID}/file": {
            "get": {
                "tags": ["documents"],
                "summary": "Descarga el payload vivo",
                "produces": ["application/pdf"],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/documents/{documentID}/version/{version}": {
            "get": {
                "tags": ["documents"],
                "summary": "Descarga una versión puntual (1-indexada)",
                "produces": ["application/pdf"],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/documents/{documentID}/share": {
            "post": {
                "tags": ["documents"],
                "summary": "Emite un enlace de compartición (TTL por defecto: 7 días)",
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}
            }
        },
        "/share/{token}": {
            "get": {
                "tags": ["documents"],
                "summary": "Descarga pública por token; cualquier falla es 404",
                "produces": ["application/pdf"],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/users": {
            "get": {"tags": ["users"], "summary": "Lista usuarios (manage_users)", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}
        },
        "/users/{userID}": {
            "get": {"tags": ["users"], "summary": "Obtiene un usuario (manage_users)", "responses": {"200": {"description": "OK"}}}
        },
        "/users/{userID}/role": {
            "put": {"tags": ["users"], "summary": "Cambia el rol (manage_users)", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/users/{userID}/active": {
            "put": {"tags": ["users"], "summary": "Activa/desactiva la cuenta (manage_users)", "responses": {"200": {"description": "OK"}}}
        },
        "/settings": {
            "get": {"tags": ["settings"], "summary": "Lee la configuración de la clínica", "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["settings"], "summary": "Actualiza la configuración (manage_system_settings)", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}
        }
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Vet Records API",
	Description:      "Backend de gestión de registros para clínica veterinaria",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
