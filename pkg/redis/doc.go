// Package redis connects to the Redis server used by the redis storage
// backend.
//
// Config can be filled from the environment through pkg/config:
//
//	var cfg redis.Config
//	if err := config.Load(&cfg, config.WithPrefix("TRACKKIT_")); err != nil {
//	    return err
//	}
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	store := storage.NewRedis(client, cfg.Namespace)
//
// Healthcheck wraps PING for liveness probes and for the CLI's startup check.
package redis
