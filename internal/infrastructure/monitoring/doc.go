/*
Package monitoring provides metrics collection.

# Overview

Metrics tracks HTTP requests served by `fsentity serve` and every file
transfer, conflict and recovery performed by package entity. It implements
entity.Observer, so passing it with entity.WithObserver is all the wiring a
transfer needs.

# Usage

	metrics := monitoring.NewMetrics(prometheus.DefaultRegisterer)

	// Add middleware to Gin router
	router.Use(monitoring.Middleware(metrics))

	// Observe transfers
	d, err := entity.OpenDirectory(src, entity.WithObserver(metrics))

	// Time operations
	timer := monitoring.NewTimer(metrics, "copy")
	err = entity.Recover(d.CopyNew(dst))
	timer.Stop(err)

# Metrics Endpoint

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
*/
package monitoring
