// Package requestrouting is the module root for the traffic-splitting
// HTTP interceptor that sits in front of a legacy XML-over-HTTP
// endpoint. See the routing, forwarder, capture, and interceptor
// packages for the configuration grammar, forwarding, response
// capture, and orchestration pieces respectively.
package requestrouting
