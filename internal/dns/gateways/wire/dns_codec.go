package wire

import (
	"encoding/binary"
	"fmt"

	"github.com/haukened/rr-decoy/internal/dns/common/log"
	"github.com/haukened/rr-decoy/internal/dns/common/rrdata"
	"github.com/haukened/rr-decoy/internal/dns/domain"
)

// dnsCodec implements the DNSCodec interface for RFC 1035 messages. The same
// encoding serves UDP and TCP; framing is the transport's concern.
type dnsCodec struct {
	logger log.Logger
}

// NewCodec creates and returns a new instance of dnsCodec using the provided logger.
// The logger is used for debug tracing within the codec.
func NewCodec(logger log.Logger) *dnsCodec {
	return &dnsCodec{
		logger: logger,
	}
}

// DecodeQuery parses the header and exactly qdcount questions from data.
// Bytes after the last question are ignored. Any failure wraps domain.ErrMalformedMessage.
func (c *dnsCodec) DecodeQuery(data []byte) (domain.Message, error) {
	msg, off, qdCount, err := decodeHeaderAndQuestions(data)
	if err != nil {
		return domain.Message{}, err
	}

	c.logger.Debug(map[string]any{
		"id":       msg.Header.ID,
		"opcode":   msg.Header.Opcode.String(),
		"qd":       qdCount,
		"consumed": off,
		"trailing": len(data) - off,
	}, "Decoded DNS query")

	return msg, nil
}

// EncodeResponse serializes a response message. It cannot fail: every Name and
// RData reachable from a Message already satisfies the wire limits.
func (c *dnsCodec) EncodeResponse(resp domain.Message) []byte {
	out := encodeMessage(resp)

	c.logger.Debug(map[string]any{
		"step": "final_packet",
		"id":   resp.Header.ID,
		"qd":   len(resp.Questions),
		"an":   len(resp.Answers),
		"size": len(out),
		"raw":  fmt.Sprintf("%x", out),
	}, "Final encoded DNS response")

	return out
}

// EncodeQuery serializes a query message; it shares the response encoder.
func (c *dnsCodec) EncodeQuery(query domain.Message) []byte {
	return encodeMessage(query)
}

// DecodeResponse parses a DNS response: header, questions and the answer section.
// Authority and additional records are not interpreted.
func (c *dnsCodec) DecodeResponse(data []byte) (domain.Message, error) {
	msg, off, _, err := decodeHeaderAndQuestions(data)
	if err != nil {
		return domain.Message{}, err
	}

	anCount := int(binary.BigEndian.Uint16(data[6:8]))
	answers := make([]domain.ResourceRecord, 0, anCount)
	for i := 0; i < anCount; i++ {
		rr, next, err := parseResourceRecord(data, off)
		if err != nil {
			return domain.Message{}, fmt.Errorf("failed to parse answer record %d: %w", i, err)
		}
		answers = append(answers, rr)
		off = next
	}
	msg.Answers = answers

	return msg, nil
}

// decodeHeaderAndQuestions reads the fixed header and the question section.
// It returns the offset of the first byte after the last question.
func decodeHeaderAndQuestions(data []byte) (domain.Message, int, int, error) {
	if len(data) < domain.HeaderSize {
		return domain.Message{}, 0, 0, fmt.Errorf("%w: message too short for header (%d bytes)", domain.ErrMalformedMessage, len(data))
	}
	id := binary.BigEndian.Uint16(data[0:2])
	header := domain.NewHeader(id, binary.BigEndian.Uint16(data[2:4]))
	if !header.Opcode.IsSupported() {
		return domain.Message{}, 0, 0, fmt.Errorf("%w: unknown opcode %d", domain.ErrMalformedMessage, header.Opcode)
	}
	qdCount := int(binary.BigEndian.Uint16(data[4:6]))

	off := domain.HeaderSize
	questions := make([]domain.Question, 0, min(qdCount, 16))
	for i := 0; i < qdCount; i++ {
		name, next, err := rrdata.ReadName(data, off)
		if err != nil {
			return domain.Message{}, 0, 0, fmt.Errorf("question %d: %w", i, err)
		}
		if next+4 > len(data) {
			return domain.Message{}, 0, 0, fmt.Errorf("%w: question %d truncated before type/class", domain.ErrMalformedMessage, i)
		}
		questions = append(questions, domain.Question{
			Name:  name,
			Type:  domain.RRType(binary.BigEndian.Uint16(data[next : next+2])),
			Class: domain.RRClass(binary.BigEndian.Uint16(data[next+2 : next+4])),
		})
		off = next + 4
	}

	return domain.Message{Header: header, Questions: questions}, off, qdCount, nil
}

// parseResourceRecord extracts a single resource record starting at offset.
func parseResourceRecord(data []byte, offset int) (domain.ResourceRecord, int, error) {
	name, offset, err := rrdata.ReadName(data, offset)
	if err != nil {
		return domain.ResourceRecord{}, 0, fmt.Errorf("failed to decode record name: %w", err)
	}

	if offset+10 > len(data) {
		return domain.ResourceRecord{}, 0, fmt.Errorf("%w: truncated record section after name", domain.ErrMalformedMessage)
	}

	typ := domain.RRType(binary.BigEndian.Uint16(data[offset : offset+2]))
	class := domain.RRClass(binary.BigEndian.Uint16(data[offset+2 : offset+4]))
	ttl := binary.BigEndian.Uint32(data[offset+4 : offset+8])
	rdLen := int(binary.BigEndian.Uint16(data[offset+8 : offset+10]))
	offset += 10

	if offset+rdLen > len(data) {
		return domain.ResourceRecord{}, 0, fmt.Errorf("%w: truncated rdata", domain.ErrMalformedMessage)
	}
	rd, err := rrdata.Decode(typ, data, offset, rdLen)
	if err != nil {
		return domain.ResourceRecord{}, 0, fmt.Errorf("invalid %s rdata: %w", typ, err)
	}

	rr, err := domain.NewResourceRecord(name, class, ttl, rd)
	if err != nil {
		return domain.ResourceRecord{}, 0, fmt.Errorf("invalid resource record: %w", err)
	}
	return rr, offset + rdLen, nil
}

// encodeMessage writes header, questions and answers without name compression.
// NSCOUNT and ARCOUNT are always zero.
func encodeMessage(m domain.Message) []byte {
	b := make([]byte, 0, 512)

	b = binary.BigEndian.AppendUint16(b, m.Header.ID)
	b = binary.BigEndian.AppendUint16(b, m.Header.Flags())
	b = binary.BigEndian.AppendUint16(b, uint16(len(m.Questions))) // QDCOUNT
	b = binary.BigEndian.AppendUint16(b, uint16(len(m.Answers)))   // ANCOUNT
	b = binary.BigEndian.AppendUint16(b, 0)                        // NSCOUNT
	b = binary.BigEndian.AppendUint16(b, 0)                        // ARCOUNT

	for _, q := range m.Questions {
		b = rrdata.AppendName(b, q.Name)
		b = binary.BigEndian.AppendUint16(b, uint16(q.Type))
		b = binary.BigEndian.AppendUint16(b, uint16(q.Class))
	}

	for _, rr := range m.Answers {
		b = rrdata.AppendName(b, rr.Name)
		b = binary.BigEndian.AppendUint16(b, uint16(rr.Type()))
		b = binary.BigEndian.AppendUint16(b, uint16(rr.Class))
		b = binary.BigEndian.AppendUint32(b, rr.TTL)

		// RDLENGTH is patched once the data is written
		lenAt := len(b)
		b = append(b, 0, 0)
		if rr.Data != nil {
			b = rr.Data.AppendWire(b)
		}
		binary.BigEndian.PutUint16(b[lenAt:], uint16(len(b)-lenAt-2))
	}

	return b
}

var _ DNSCodec = &dnsCodec{}
