// Package redis provides helpers for connecting to a Redis server and using it
// as the shared decision-cache backend.
//
// The package wraps the go-redis client and adds:
//
//   - Connect, which retries the connection using the supplied configuration.
//   - Storage, a context-aware byte key-value wrapper with prefix deletion
//     (SCAN + UNLINK) used for per-principal cache invalidation.
//   - Healthcheck, for liveness and readiness probes.
//
// Configuration is described by the Config struct whose fields can be
// populated from environment variables via github.com/caarlos0/env.
//
// # Usage
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	store := redis.NewStorageWithConfig(client, cfg)
//
//	_ = store.Set(ctx, "authz:d:t1:u1:document:~:read", payload, time.Minute)
//	_ = store.DeletePrefix(ctx, "authz:d:t1:u1:")
//
// Command failures wrap ErrCommandFailed; the authorization engine treats them
// as a cache miss.
package redis
