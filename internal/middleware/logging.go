package middleware

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
)

// RequestLogger logs one line per request with method, path, status,
// latency, client address and request id. Server errors are logged at
// error level, everything else at info.
func RequestLogger(logger *log.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURIPath:   true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			j := log.JSON{
				"method":      v.Method,
				"path":        v.URIPath,
				"status":      v.Status,
				"duration_ms": v.Latency.Milliseconds(),
				"remote_ip":   v.RemoteIP,
				"request_id":  v.RequestID,
			}
			if v.Error != nil {
				j["error"] = v.Error.Error()
			}
			if v.Status >= 500 {
				logger.Errorj(j)
				return nil
			}
			logger.Infoj(j)
			return nil
		},
	})
}
