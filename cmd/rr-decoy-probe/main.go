// Command rr-decoy-probe sends one DNS query to a responder and prints the
// answer section. It speaks the wire format through the same codec as the
// daemon, so it doubles as a smoke test for a deployed decoy.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"net"
	"os"
	"time"

	"github.com/haukened/rr-decoy/internal/dns/common/log"
	"github.com/haukened/rr-decoy/internal/dns/domain"
	"github.com/haukened/rr-decoy/internal/dns/gateways/transport"
	"github.com/haukened/rr-decoy/internal/dns/gateways/wire"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type probeOptions struct {
	server  string
	name    string
	qtype   domain.RRType
	qclass  domain.RRClass
	tcp     bool
	timeout time.Duration
}

func parseArgs(args []string, stderr io.Writer) (probeOptions, error) {
	fs := flag.NewFlagSet("rr-decoy-probe", flag.ContinueOnError)
	fs.SetOutput(stderr)
	server := fs.String("server", "127.0.0.1:5353", "responder address as host:port")
	name := fs.String("name", "example.com", "name to query")
	qtype := fs.String("type", "A", "query type mnemonic")
	qclass := fs.String("class", "IN", "query class mnemonic")
	useTCP := fs.Bool("tcp", false, "query over TCP instead of UDP")
	timeout := fs.Duration("timeout", 3*time.Second, "overall query timeout")

	if err := fs.Parse(args); err != nil {
		return probeOptions{}, err
	}

	t := domain.RRTypeFromString(*qtype)
	if t == 0 {
		return probeOptions{}, fmt.Errorf("unknown query type %q", *qtype)
	}
	c := domain.ParseRRClass(*qclass)
	if c == 0 {
		return probeOptions{}, fmt.Errorf("unknown query class %q", *qclass)
	}
	if _, _, err := net.SplitHostPort(*server); err != nil {
		return probeOptions{}, fmt.Errorf("invalid server address %q: %w", *server, err)
	}

	return probeOptions{
		server:  *server,
		name:    *name,
		qtype:   t,
		qclass:  c,
		tcp:     *useTCP,
		timeout: *timeout,
	}, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseArgs(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	resp, err := probe(opts)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	fmt.Fprintf(stdout, ";; id=%d opcode=%s rcode=%s aa=%t answers=%d\n",
		resp.Header.ID, resp.Header.Opcode, resp.Header.RCode, resp.Header.Authoritative, resp.AnswerCount())
	for _, rr := range resp.Answers {
		fmt.Fprintln(stdout, rr.String())
	}
	return 0
}

// probe sends a single query and decodes the reply.
func probe(opts probeOptions) (domain.Message, error) {
	codec := wire.NewCodec(log.NewNoopLogger())

	q, err := domain.NewQuestion(opts.name, opts.qtype, opts.qclass)
	if err != nil {
		return domain.Message{}, fmt.Errorf("invalid question: %w", err)
	}
	query := domain.Message{
		Header: domain.Header{
			ID:               uint16(rand.Uint32()),
			Opcode:           domain.OpcodeQuery,
			RecursionDesired: true,
		},
		Questions: []domain.Question{q},
	}

	network := transport.TransportUDP
	if opts.tcp {
		network = transport.TransportTCP
	}
	conn, err := net.DialTimeout(string(network), opts.server, opts.timeout)
	if err != nil {
		return domain.Message{}, fmt.Errorf("%w: dial %s: %v", domain.ErrTransport, opts.server, err)
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(opts.timeout))

	raw := codec.EncodeQuery(query)
	var reply []byte
	if opts.tcp {
		if err := transport.WritePrefixed(conn, raw); err != nil {
			return domain.Message{}, fmt.Errorf("%w: send: %v", domain.ErrTransport, err)
		}
		reply, err = transport.ReadPrefixed(conn)
	} else {
		if _, err := conn.Write(raw); err != nil {
			return domain.Message{}, fmt.Errorf("%w: send: %v", domain.ErrTransport, err)
		}
		buf := make([]byte, 65535)
		var n int
		n, err = conn.Read(buf)
		reply = buf[:n]
	}
	if err != nil {
		return domain.Message{}, fmt.Errorf("%w: receive: %v", domain.ErrTransport, err)
	}

	resp, err := codec.DecodeResponse(reply)
	if err != nil {
		return domain.Message{}, fmt.Errorf("decode response: %w", err)
	}
	if resp.Header.ID != query.Header.ID {
		return domain.Message{}, fmt.Errorf("response id %d does not match query id %d", resp.Header.ID, query.Header.ID)
	}
	if !resp.Header.Response {
		return domain.Message{}, fmt.Errorf("reply is not a response")
	}
	return resp, nil
}
