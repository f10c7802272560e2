package transport

import (
	"bytes"
	"context"
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haukened/rr-decoy/internal/dns/common/log"
	"github.com/haukened/rr-decoy/internal/dns/domain"
)

func dialTCP(t *testing.T, addr string) net.Conn {
	t.Helper()
	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, conn.SetDeadline(time.Now().Add(3*time.Second)))
	return conn
}

// expectClosed asserts the server closed conn without sending anything.
func expectClosed(t *testing.T, conn net.Conn) {
	t.Helper()
	buf := make([]byte, 1)
	_, err := conn.Read(buf)
	assert.ErrorIs(t, err, io.EOF)
}

func TestTCPTransport_StartStop(t *testing.T) {
	tr := NewTCPTransport("127.0.0.1:0", newTestCodec(), log.NewNoopLogger(), 0)
	assert.Equal(t, "127.0.0.1:0", tr.Address())
	require.NoError(t, tr.Start(context.Background(), newTestResponder()))
	assert.NotEqual(t, "127.0.0.1:0", tr.Address())
	assert.ErrorContains(t, tr.Start(context.Background(), newTestResponder()), "already running")
	require.NoError(t, tr.Stop())
	assert.NoError(t, tr.Stop())
	assert.ErrorContains(t, tr.Start(context.Background(), newTestResponder()), "already stopped")
}

func TestTCPTransport_BindFailure(t *testing.T) {
	occupied, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer occupied.Close()

	tr := NewTCPTransport(occupied.Addr().String(), newTestCodec(), log.NewNoopLogger(), 0)
	assert.ErrorIs(t, tr.Start(context.Background(), newTestResponder()), domain.ErrTransport)
}

func TestTCPTransport_MatchesUDPEncoding(t *testing.T) {
	query := packQuery(t, 0x1234, "example.com.", dns.TypeA)

	udp := startUDP(t, newTestResponder())
	udpReply, err := udpExchange(t, udp.Address(), query)
	require.NoError(t, err)

	tcp := startTCP(t, newTestResponder())
	conn := dialTCP(t, tcp.Address())
	require.NoError(t, WritePrefixed(conn, query))

	var prefix [2]byte
	_, err = io.ReadFull(conn, prefix[:])
	require.NoError(t, err)
	assert.Equal(t, len(udpReply), int(prefix[0])<<8|int(prefix[1]))
	body := make([]byte, len(udpReply))
	_, err = io.ReadFull(conn, body)
	require.NoError(t, err)
	assert.Equal(t, udpReply, body)
}

func TestTCPTransport_MultipleMessagesPerConnection(t *testing.T) {
	tr := startTCP(t, newTestResponder())
	conn := dialTCP(t, tr.Address())

	types := []uint16{dns.TypeA, dns.TypeMX, dns.TypeSOA, dns.TypePTR}
	for i, qt := range types {
		require.NoError(t, WritePrefixed(conn, packQuery(t, uint16(i+1), "multi.example.", qt)))
	}
	for i, qt := range types {
		reply, err := ReadPrefixed(conn)
		require.NoError(t, err)
		var m dns.Msg
		require.NoError(t, m.Unpack(reply))
		assert.Equal(t, uint16(i+1), m.Id)
		require.Len(t, m.Answer, 1)
		assert.Equal(t, qt, m.Answer[0].Header().Rrtype)
	}
}

func TestTCPTransport_SplitWrites(t *testing.T) {
	tr := startTCP(t, newTestResponder())
	conn := dialTCP(t, tr.Address())

	var framed bytes.Buffer
	require.NoError(t, WritePrefixed(&framed, packQuery(t, 77, "slow.example.", dns.TypeCNAME)))
	for _, b := range framed.Bytes() {
		_, err := conn.Write([]byte{b})
		require.NoError(t, err)
	}
	reply, err := ReadPrefixed(conn)
	require.NoError(t, err)
	var m dns.Msg
	require.NoError(t, m.Unpack(reply))
	assert.Equal(t, uint16(77), m.Id)
	assert.Equal(t, "cname.example.com.", m.Answer[0].(*dns.CNAME).Target)
}

func TestTCPTransport_MalformedClosesConnection(t *testing.T) {
	valid := packQuery(t, 1, "example.com.", dns.TypeA)

	tests := []struct {
		name  string
		write []byte
	}{
		{name: "zero length prefix", write: []byte{0x00, 0x00}},
		{name: "undecodable message", write: append([]byte{0x00, 0x05}, valid[:5]...)},
		{name: "truncated question", write: func() []byte {
			var b bytes.Buffer
			_ = WritePrefixed(&b, valid[:len(valid)-2])
			return b.Bytes()
		}()},
	}

	tr := startTCP(t, newTestResponder())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := dialTCP(t, tr.Address())
			_, err := conn.Write(tt.write)
			require.NoError(t, err)
			expectClosed(t, conn)
		})
	}

	// the listener survives
	conn := dialTCP(t, tr.Address())
	require.NoError(t, WritePrefixed(conn, valid))
	_, err := ReadPrefixed(conn)
	assert.NoError(t, err)
}

func TestTCPTransport_NoQuestionsNoReply(t *testing.T) {
	tr := startTCP(t, newTestResponder())
	conn := dialTCP(t, tr.Address())

	require.NoError(t, WritePrefixed(conn, make([]byte, domain.HeaderSize)))
	require.NoError(t, WritePrefixed(conn, packQuery(t, 8, "after.example.", dns.TypeA)))

	reply, err := ReadPrefixed(conn)
	require.NoError(t, err)
	var m dns.Msg
	require.NoError(t, m.Unpack(reply))
	assert.Equal(t, uint16(8), m.Id, "the empty message must not produce a reply")
}

func TestTCPTransport_IdleTimeout(t *testing.T) {
	tr := NewTCPTransport("127.0.0.1:0", newTestCodec(), log.NewNoopLogger(), 100*time.Millisecond)
	require.NoError(t, tr.Start(context.Background(), newTestResponder()))
	defer tr.Stop()

	conn := dialTCP(t, tr.Address())
	start := time.Now()
	expectClosed(t, conn)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestTCPTransport_StopClosesIdleConnections(t *testing.T) {
	tr := NewTCPTransport("127.0.0.1:0", newTestCodec(), log.NewNoopLogger(), 0)
	require.NoError(t, tr.Start(context.Background(), newTestResponder()))

	conn := dialTCP(t, tr.Address())
	require.NoError(t, WritePrefixed(conn, packQuery(t, 1, "x.example.", dns.TypeA)))
	_, err := ReadPrefixed(conn)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		_ = tr.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("Stop blocked on an idle connection")
	}
	expectClosed(t, conn)
}

func TestTCPTransport_MiekgClient(t *testing.T) {
	tr := startTCP(t, newTestResponder())

	const n = 16
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(id uint16) {
			defer wg.Done()
			client := &dns.Client{Net: "tcp", Timeout: 3 * time.Second}
			m := new(dns.Msg)
			m.SetQuestion("tcp.example.", dns.TypeMX)
			m.Id = id
			resp, _, err := client.Exchange(m, tr.Address())
			if !assert.NoError(t, err) {
				return
			}
			assert.Equal(t, id, resp.Id)
			if assert.Len(t, resp.Answer, 1) {
				assert.Equal(t, "mail.example.com.", resp.Answer[0].(*dns.MX).Mx)
			}
		}(uint16(i + 1))
	}
	wg.Wait()
}

func TestTCPTransport_FromListener(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	tr := NewTCPTransportFromListener(ln, newTestCodec(), log.NewNoopLogger(), 0)
	assert.Equal(t, ln.Addr().String(), tr.Address())
	require.NoError(t, tr.Start(context.Background(), newTestResponder()))
	defer tr.Stop()

	conn := dialTCP(t, tr.Address())
	require.NoError(t, WritePrefixed(conn, packQuery(t, 3, "x.example.", dns.TypeA)))
	_, err = ReadPrefixed(conn)
	assert.NoError(t, err)
}

func TestTCPTransport_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	tr := NewTCPTransport("127.0.0.1:0", newTestCodec(), log.NewNoopLogger(), 0)
	require.NoError(t, tr.Start(ctx, newTestResponder()))
	addr := tr.Address()
	cancel()

	assert.Eventually(t, func() bool {
		c, err := net.DialTimeout("tcp", addr, 100*time.Millisecond)
		if err != nil {
			return true
		}
		c.Close()
		return false
	}, 2*time.Second, 20*time.Millisecond)
}
