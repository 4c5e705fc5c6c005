// Package metrics registers the explorer's Prometheus collectors.
package metrics
