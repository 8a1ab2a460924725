// Package health defines the health report services expose at their own
// health endpoint: a Status and the Metadata document around it.
//
// Example:
//
//	mux.Handle("/healthz", health.Handler(func() health.Metadata {
//	    return health.NewMetadata("My Service", "1.2.3",
//	        health.WithEnvironment("Production"),
//	        health.WithStatus(health.StatusHealthy),
//	    )
//	}))
//
// On the wire property names are camelCase and the status is one of the
// tokens "healthy", "degraded" or "unhealthy". Uptime is written as a Go
// duration ("26h30m0s"); "1.02:30:00" style values are accepted when reading.
package health
