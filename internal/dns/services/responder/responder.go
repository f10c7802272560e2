// Package responder builds the synthetic replies of the decoy and writes the
// query log. It holds no per-request state.
package responder

import (
	"fmt"
	"time"

	"github.com/haukened/rr-decoy/internal/dns/common/log"
	"github.com/haukened/rr-decoy/internal/dns/common/utils"
	"github.com/haukened/rr-decoy/internal/dns/domain"
)

// Responder answers every question with the canned payload for its type.
type Responder struct {
	answers       *AnswerTable
	authoritative bool
	queryLog      log.Logger
	tracker       ProberTracker
}

// Options configures a Responder. A nil Answers uses DefaultAnswers, a nil
// QueryLog discards records, and a nil Tracker omits client statistics.
type Options struct {
	Answers       *AnswerTable
	Authoritative bool
	QueryLog      log.Logger
	Tracker       ProberTracker
}

// New creates a Responder from opts.
func New(opts Options) *Responder {
	r := &Responder{
		answers:       opts.Answers,
		authoritative: opts.Authoritative,
		queryLog:      opts.QueryLog,
		tracker:       opts.Tracker,
	}
	if r.answers == nil {
		r.answers = DefaultAnswers()
	}
	if r.queryLog == nil {
		r.queryLog = log.NewNoopLogger()
	}
	return r
}

// BuildResponse logs every question of query and assembles the reply. Questions
// are echoed in order; each one adds at most one answer record.
func (r *Responder) BuildResponse(query domain.Message, peer domain.Peer) domain.Message {
	resp := domain.Message{
		Header: domain.Header{
			ID:               query.Header.ID,
			Response:         true,
			Opcode:           query.Header.Opcode,
			Authoritative:    r.authoritative,
			RecursionDesired: query.Header.RecursionDesired,
			RCode:            domain.RCodeNoError,
		},
		Questions: make([]domain.Question, len(query.Questions)),
	}
	copy(resp.Questions, query.Questions)

	var sighting *domain.Sighting
	if r.tracker != nil && len(query.Questions) > 0 {
		s := r.tracker.Observe(peer.IP())
		sighting = &s
	}

	for _, q := range query.Questions {
		fields := r.queryFields(query.Header.ID, q, peer, sighting)
		r.queryLog.Info(fields, "DNS query")

		rr, ok := r.answerFor(q)
		if !ok {
			r.queryLog.Warn(fields, "unsupported DNS query type")
			continue
		}
		resp.Answers = append(resp.Answers, rr)
	}

	return resp
}

// answerFor builds the answer record for q. The owner name and class are
// taken from the question.
func (r *Responder) answerFor(q domain.Question) (domain.ResourceRecord, bool) {
	rd, ok := r.answers.Lookup(q.Type)
	if !ok {
		return domain.ResourceRecord{}, false
	}
	rr, err := domain.NewResourceRecord(q.Name, q.Class, AnswerTTL, rd)
	if err != nil {
		return domain.ResourceRecord{}, false
	}
	return rr, true
}

func (r *Responder) queryFields(id uint16, q domain.Question, peer domain.Peer, s *domain.Sighting) map[string]any {
	name := q.Name.String()
	fields := map[string]any{
		"name":      name,
		"type":      q.Type.String(),
		"class":     q.Class.String(),
		"qtype":     uint16(q.Type),
		"id":        fmt.Sprintf("0x%04x", id),
		"client":    peer.String(),
		"transport": string(peer.Transport),
		"apex":      utils.GetApexDomain(name),
	}
	if s != nil {
		fields["client_queries"] = s.Queries
		fields["client_first_seen"] = s.FirstSeen.UTC().Format(time.RFC3339)
	}
	return fields
}

var _ DNSResponder = (*Responder)(nil)
