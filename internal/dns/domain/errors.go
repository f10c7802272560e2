package domain

import "errors"

var (
	// ErrMalformedMessage marks any inbound buffer that cannot be fully parsed.
	// Packets failing with it are dropped without a reply.
	ErrMalformedMessage = errors.New("malformed DNS message")

	// ErrUnsupportedQueryType marks a question type with no canned answer.
	// It is informational only and never aborts a response.
	ErrUnsupportedQueryType = errors.New("unsupported DNS query type")

	// ErrTransport marks bind, accept, read and write failures.
	ErrTransport = errors.New("dns transport error")
)
