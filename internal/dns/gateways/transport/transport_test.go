package transport

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haukened/rr-decoy/internal/dns/common/log"
)

func TestBindNetwork(t *testing.T) {
	tests := []struct {
		name      string
		transport TransportType
		addr      string
		want      string
	}{
		{name: "ipv4 wildcard udp", transport: TransportUDP, addr: "0.0.0.0:53", want: "udp4"},
		{name: "ipv4 wildcard tcp", transport: TransportTCP, addr: "0.0.0.0:53", want: "tcp4"},
		{name: "ipv4 loopback", transport: TransportUDP, addr: "127.0.0.1:0", want: "udp4"},
		{name: "mapped ipv4", transport: TransportTCP, addr: "[::ffff:10.0.0.1]:53", want: "tcp4"},
		{name: "ipv6 wildcard", transport: TransportUDP, addr: "[::]:53", want: "udp6"},
		{name: "ipv6 loopback", transport: TransportTCP, addr: "[::1]:5353", want: "tcp6"},
		{name: "hostname", transport: TransportUDP, addr: "localhost:53", want: "udp"},
		{name: "no port", transport: TransportTCP, addr: "0.0.0.0", want: "tcp"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, bindNetwork(tt.transport, tt.addr))
		})
	}
}

func TestListenerPair_WildcardIPv4StaysIPv4(t *testing.T) {
	for _, tr := range NewListenerPair("0.0.0.0:0", newTestCodec(), log.NewNoopLogger(), Options{}) {
		require.NoError(t, tr.Start(context.Background(), newTestResponder()))
		t.Cleanup(func() { _ = tr.Stop() })

		host, port, err := net.SplitHostPort(tr.Address())
		require.NoError(t, err)
		assert.Equal(t, "0.0.0.0", host)

		switch tr.(type) {
		case *UDPTransport:
			conn, err := net.Dial("udp6", net.JoinHostPort("::1", port))
			if err != nil {
				t.Skipf("IPv6 loopback unavailable: %v", err)
			}
			defer conn.Close()
			_ = conn.SetDeadline(time.Now().Add(300 * time.Millisecond))
			_, err = conn.Write(packQuery(t, 7, "v6.example.com.", 1))
			require.NoError(t, err)
			_, err = conn.Read(make([]byte, 512))
			assert.Error(t, err, "an IPv4 wildcard must not answer on IPv6")
		case *TCPTransport:
			conn, err := net.DialTimeout("tcp6", net.JoinHostPort("::1", port), 300*time.Millisecond)
			if err == nil {
				conn.Close()
			}
			assert.Error(t, err, "an IPv4 wildcard must not accept on IPv6")
		}
	}
}
