/*
Package driver implements the per-connection execution driver described by
connexec: a Job queue, three monotonic lifecycle flags, lifecycle and
metrics notification, and the cooperative batch-draining contract a bounded
worker pool uses to service many connections without pinning each one to a
dedicated goroutine.
*/
package driver
