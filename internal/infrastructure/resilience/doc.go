/*
Package resilience provides the circuit breaker that guards the served
directory tree.

When the storage behind the tree starts failing (a dropped network mount,
a full disk) every download would otherwise wait on the filesystem and
fail slowly. The breaker counts consecutive failures, opens, and answers
503 straight away until its cooldown expires.

# States

	Closed --[Failures in a row]-> Open --[Cooldown]-> Half-Open --[Probes ok]-> Closed
	                                                       |
	                                                   [failure]
	                                                       v
	                                                     Open

# Usage

	breaker := resilience.New("storage", resilience.Settings{
		Failures: 5,
		Cooldown: 30 * time.Second,
		OnStateChange: func(name string, from, to resilience.State) {
			logger.Warn("breaker state changed", zap.String("to", to.String()))
		},
	})
	router.GET("/files/*path", resilience.Guard(breaker), handler)

	// Outside HTTP:
	err := breaker.Do(func() error { return dir.CopyNew(dst) })
*/
package resilience
