package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the back-office API.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg gin.IRouter) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>Virajo back office - Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "virajo-backoffice", "version": "v1.0.0" },
  "components": {
    "parameters": {
      "id": { "name": "id", "in": "path", "required": true, "schema": { "type": "string" } },
      "limit": { "name": "limit", "in": "query", "schema": { "type": "integer", "default": 10 } }
    },
    "schemas": {
      "Accepted": { "type": "object", "properties": { "success": {"type":"boolean"}, "id": {"type":"string"}, "emailSent": {"type":"boolean"}, "message": {"type":"string"}, "data": {"type":"object"} } },
      "Rejected": { "type": "object", "properties": { "success": {"type":"boolean"}, "error": {"type":"string"}, "code": {"type":"string"}, "errors": {"type":"array","items":{"type":"string"}}, "missingFields": {"type":"object","additionalProperties":{"type":"boolean"}} } },
      "Resume": { "type": "object", "properties": { "resume": { "type": "string", "format": "binary", "description": ".pdf, .doc or .docx" } } }
    }
  },
  "paths": {
    "/api/submissions/{kind}": {
      "post": {
        "summary": "Submit a form (contact, contact-page, application, apply-job)",
        "parameters": [{ "name": "kind", "in": "path", "required": true, "schema": { "type": "string", "enum": ["contact","contact-page","application","apply-job"] } }],
        "requestBody": { "content": { "multipart/form-data": { "schema": { "$ref": "#/components/schemas/Resume" } }, "application/json": { "schema": { "type": "object" } } } },
        "responses": { "201": { "description": "accepted", "content": { "application/json": { "schema": { "$ref": "#/components/schemas/Accepted" } } } }, "400": { "description": "rejected", "content": { "application/json": { "schema": { "$ref": "#/components/schemas/Rejected" } } } }, "429": { "description": "rate limited" } }
      }
    },
    "/api/contact": {
      "get": { "summary": "List contact submissions", "parameters": [{ "$ref": "#/components/parameters/limit" }], "responses": { "200": { "description": "array, newest first" } } },
      "post": { "summary": "Submit the contact form (name, email, phone|contact, company, message)", "responses": { "201": { "description": "accepted" }, "400": { "description": "rejected" } } }
    },
    "/api/contactpage": {
      "get": { "summary": "List contact page submissions", "parameters": [{ "$ref": "#/components/parameters/limit" }], "responses": { "200": { "description": "{success, count, data}" } } },
      "post": { "summary": "Submit the contact page form (firstName|name, email, message)", "responses": { "201": { "description": "accepted" }, "400": { "description": "rejected" } } }
    },
    "/api/applications": {
      "get": { "summary": "List job applications", "parameters": [{ "$ref": "#/components/parameters/limit" }], "responses": { "200": { "description": "array, newest first" } } },
      "post": { "summary": "Apply for a job listing (jobId, name, email, phone, resume)", "responses": { "201": { "description": "accepted" }, "400": { "description": "rejected" } } }
    },
    "/api/applications/job/{jobId}": {
      "get": { "summary": "List applications for a job", "parameters": [{ "name": "jobId", "in": "path", "required": true, "schema": { "type": "string" } }], "responses": { "200": { "description": "array" } } }
    },
    "/api/applyJob": {
      "get": { "summary": "List open applications", "parameters": [{ "$ref": "#/components/parameters/limit" }], "responses": { "200": { "description": "{success, count, data}" } } },
      "post": { "summary": "Open application (name, email, phone, location|city, experience, position, resume)", "responses": { "201": { "description": "accepted" }, "400": { "description": "rejected" } } }
    },
    "/api/blogs": {
      "get": { "summary": "List blog posts", "parameters": [{ "$ref": "#/components/parameters/limit" }], "responses": { "200": { "description": "array, newest first" } } },
      "post": { "summary": "Create a blog post", "responses": { "201": { "description": "created" }, "400": { "description": "validation error" } } }
    },
    "/api/blogs/{id}": {
      "get": { "summary": "Get a blog post by id or slug", "parameters": [{ "$ref": "#/components/parameters/id" }], "responses": { "200": { "description": "post" }, "404": { "description": "not found" } } },
      "put": { "summary": "Update title, content, slug, image, overlayColor, author", "parameters": [{ "$ref": "#/components/parameters/id" }], "responses": { "200": { "description": "updated" }, "404": { "description": "not found" } } },
      "delete": { "summary": "Delete a blog post", "parameters": [{ "$ref": "#/components/parameters/id" }], "responses": { "200": { "description": "deleted" }, "404": { "description": "not found" } } }
    },
    "/api/careers": {
      "get": { "summary": "List career postings", "parameters": [{ "$ref": "#/components/parameters/limit" }], "responses": { "200": { "description": "array, newest first" } } },
      "post": { "summary": "Create a career posting", "responses": { "201": { "description": "created" } } }
    },
    "/api/jobs": {
      "get": { "summary": "List active job listings", "parameters": [{ "$ref": "#/components/parameters/limit" }], "responses": { "200": { "description": "array, newest first" } } },
      "post": { "summary": "Create a job listing", "responses": { "201": { "description": "created" } } }
    },
    "/uploads/resumes/{name}": {
      "get": { "summary": "Download a stored resume", "parameters": [{ "name": "name", "in": "path", "required": true, "schema": { "type": "string" } }], "responses": { "200": { "description": "file" }, "404": { "description": "not found" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } },
    "/metrics": { "get": { "summary": "Prometheus metrics", "responses": { "200": { "description": "text exposition format" } } } }
  }
}`
