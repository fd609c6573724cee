// Package docs serves the static OpenAPI description of the API.
package docs

import _ "embed"

//go:embed openapi.json
var OpenAPISpec []byte
