package httpapi

import "net/http"

// NewRouter registers HTTP routes and returns the handler with middleware.
func NewRouter(app *App) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/orders/add-item", app.addItemHandler)
	mux.HandleFunc("/orders/", app.getOrderHandler)
	mux.HandleFunc("/health", app.healthHandler)
	mux.HandleFunc("/openapi.yaml", app.openapiHandler)
	mux.HandleFunc("/docs", app.docsHandler)
	mux.HandleFunc("/", app.rootHandler)
	return WithRequestID(WithLogging(mux))
}
