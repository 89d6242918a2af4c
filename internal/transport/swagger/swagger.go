package swagger

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

// Handler serves the Swagger UI pointed at docURL.
func Handler(docURL string) http.Handler {
	return httpSwagger.Handler(
		httpSwagger.URL(docURL),
		httpSwagger.DocExpansion("list"),
	)
}
