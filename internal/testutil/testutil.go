// Package testutil holds small network helpers shared by tests.
package testutil

import (
	"net"
	"testing"
)

// DialAndSend connects to a TCP address, writes payload, and returns the
// still-open connection. The connection is closed when the test finishes.
func DialAndSend(t *testing.T, addr string, payload []byte) net.Conn {
	t.Helper()

	c, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { c.Close() })

	if len(payload) > 0 {
		if _, err := c.Write(payload); err != nil {
			t.Fatal(err)
		}
	}
	return c
}
