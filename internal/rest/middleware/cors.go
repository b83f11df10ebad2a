package middleware

import (
	"net/http"
	"time"

	"github.com/flexprice/gstbill/internal/types"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSMiddleware allows browser clients from any origin. Exports are sent as
// attachments so Content-Disposition has to be exposed.
func CORSMiddleware() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			types.HeaderAuthorization,
			types.HeaderRequestID,
			types.HeaderCronSecret,
		},
		ExposeHeaders: []string{
			types.HeaderRequestID,
			"Content-Disposition",
		},
		MaxAge: 24 * time.Hour,
	})
}
