package domain

import (
	"fmt"
)

// RData is the type-specific payload of a resource record.
// Each implementation reports the RRType it belongs to, so a record's
// declared type can never disagree with its payload.
type RData interface {
	// Type is the record type this payload encodes.
	Type() RRType
	// AppendWire appends the RDATA wire encoding (without RDLENGTH) to b.
	AppendWire(b []byte) []byte
	// String is the presentation form of the payload.
	String() string
}

// ResourceRecord is one answer entry. Its type is taken from Data.
type ResourceRecord struct {
	Name  Name
	Class RRClass
	TTL   uint32
	Data  RData
}

// NewResourceRecord constructs a ResourceRecord and validates its fields.
func NewResourceRecord(name Name, class RRClass, ttl uint32, data RData) (ResourceRecord, error) {
	rr := ResourceRecord{
		Name:  name,
		Class: class,
		TTL:   ttl,
		Data:  data,
	}
	if err := rr.Validate(); err != nil {
		return ResourceRecord{}, err
	}
	return rr, nil
}

// Validate checks whether the ResourceRecord fields are valid.
func (rr ResourceRecord) Validate() error {
	if rr.Data == nil {
		return fmt.Errorf("record data must be set")
	}
	return nil
}

// Type returns the record type declared by the payload.
func (rr ResourceRecord) Type() RRType {
	if rr.Data == nil {
		return 0
	}
	return rr.Data.Type()
}

// String renders the record as "name type class ttl=N data".
func (rr ResourceRecord) String() string {
	data := ""
	if rr.Data != nil {
		data = rr.Data.String()
	}
	return fmt.Sprintf("%s %s %s ttl=%d %s", rr.Name, rr.Type(), rr.Class, rr.TTL, data)
}
