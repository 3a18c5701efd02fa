// Package proxyhead decodes the PROXY protocol (v1 and v2) preamble that a
// load balancer prepends to a forwarded connection, and wraps net.Listener
// and net.Conn so that the original client and destination addresses are
// reported instead of the balancer's own.
//
// The package is receive-only: it never writes PROXY headers.
//
// https://www.haproxy.org/download/1.8/doc/proxy-protocol.txt
package proxyhead
