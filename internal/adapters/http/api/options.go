package api

import "github.com/okian/mindthegap/pkg/logger"

// Option configures a Server.
type Option func(*Server)

// WithAllowedOrigins sets the CORS allow-list. An empty list keeps the default.
func WithAllowedOrigins(origins []string) Option {
	return func(s *Server) {
		if len(origins) > 0 {
			s.allowedOrigins = origins
		}
	}
}

// WithLogger sets the logger used by the handlers.
func WithLogger(log logger.Logger) Option {
	return func(s *Server) {
		if log != nil {
			s.logger = log
		}
	}
}
