package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS allows a browser UI served from another origin to call the API.
// 预检请求直接以 204 结束，不进入路由。
var CORS = cors.Handler(cors.Options{
	AllowedOrigins:       []string{"https://*", "http://*"},
	AllowedMethods:       []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
	AllowedHeaders:       []string{"Accept", "Content-Type", "Authorization", "X-Request-ID"},
	ExposedHeaders:       []string{"X-Request-ID"},
	MaxAge:               600,
	OptionsSuccessStatus: http.StatusNoContent,
})
