// Package swagger mounts the interactive API documentation UI, backed by
// the OpenAPI document served at /openapi.yml.
package swagger

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

const specURL = "/openapi.yml"

// Handler serves the swagger UI for mounting under /swagger/*.
func Handler() http.Handler {
	return httpSwagger.Handler(httpSwagger.URL(specURL))
}
