package domain

import "strings"

// RRType represents a DNS resource record type (e.g. A, AAAA, MX).
// See IANA DNS Parameters for assigned codes.
type RRType uint16

// DNS Resource Record Type constants
const (
	RRTypeA          RRType = 1     // A - IPv4 address
	RRTypeNS         RRType = 2     // NS - Name server
	RRTypeMD         RRType = 3     // MD - Mail destination (obsolete)
	RRTypeMF         RRType = 4     // MF - Mail forwarder (obsolete)
	RRTypeCNAME      RRType = 5     // CNAME - Canonical name
	RRTypeSOA        RRType = 6     // SOA - Start of authority
	RRTypeMB         RRType = 7     // MB - Mailbox domain name
	RRTypeMG         RRType = 8     // MG - Mail group member
	RRTypeMR         RRType = 9     // MR - Mail rename domain name
	RRTypeNULL       RRType = 10    // NULL - Null record
	RRTypeWKS        RRType = 11    // WKS - Well known service
	RRTypePTR        RRType = 12    // PTR - Pointer
	RRTypeHINFO      RRType = 13    // HINFO - Host information
	RRTypeMINFO      RRType = 14    // MINFO - Mailbox information
	RRTypeMX         RRType = 15    // MX - Mail exchange
	RRTypeTXT        RRType = 16    // TXT - Text
	RRTypeRP         RRType = 17    // RP - Responsible person
	RRTypeAFSDB      RRType = 18    // AFSDB - AFS database
	RRTypeSIG        RRType = 24    // SIG - Signature
	RRTypeKEY        RRType = 25    // KEY - Key
	RRTypeAAAA       RRType = 28    // AAAA - IPv6 address
	RRTypeLOC        RRType = 29    // LOC - Location
	RRTypeSRV        RRType = 33    // SRV - Service
	RRTypeNAPTR      RRType = 35    // NAPTR - Naming authority pointer
	RRTypeKX         RRType = 36    // KX - Key exchanger
	RRTypeCERT       RRType = 37    // CERT - Certificate
	RRTypeDNAME      RRType = 39    // DNAME - Delegation name
	RRTypeOPT        RRType = 41    // OPT - EDNS option
	RRTypeDS         RRType = 43    // DS - Delegation signer
	RRTypeSSHFP      RRType = 44    // SSHFP - SSH key fingerprint
	RRTypeRRSIG      RRType = 46    // RRSIG - Resource record signature
	RRTypeNSEC       RRType = 47    // NSEC - Next secure
	RRTypeDNSKEY     RRType = 48    // DNSKEY - DNS key
	RRTypeNSEC3      RRType = 50    // NSEC3 - Next secure v3
	RRTypeNSEC3PARAM RRType = 51    // NSEC3PARAM - NSEC3 parameters
	RRTypeTLSA       RRType = 52    // TLSA - TLS association
	RRTypeSVCB       RRType = 64    // SVCB - Service binding
	RRTypeHTTPS      RRType = 65    // HTTPS - HTTPS binding
	RRTypeSPF        RRType = 99    // SPF - Sender policy framework
	RRTypeTKEY       RRType = 249   // TKEY - Transaction key
	RRTypeTSIG       RRType = 250   // TSIG - Transaction signature
	RRTypeIXFR       RRType = 251   // IXFR - Incremental zone transfer (query only)
	RRTypeAXFR       RRType = 252   // AXFR - Zone transfer (query only)
	RRTypeMAILB      RRType = 253   // MAILB - Mailbox records (query only)
	RRTypeMAILA      RRType = 254   // MAILA - Mail agent records (query only)
	RRTypeANY        RRType = 255   // ANY - Any type (query only)
	RRTypeCAA        RRType = 257   // CAA - Certificate authority authorization
)

var rrTypeNames = map[RRType]string{
	RRTypeA:          "A",
	RRTypeNS:         "NS",
	RRTypeMD:         "MD",
	RRTypeMF:         "MF",
	RRTypeCNAME:      "CNAME",
	RRTypeSOA:        "SOA",
	RRTypeMB:         "MB",
	RRTypeMG:         "MG",
	RRTypeMR:         "MR",
	RRTypeNULL:       "NULL",
	RRTypeWKS:        "WKS",
	RRTypePTR:        "PTR",
	RRTypeHINFO:      "HINFO",
	RRTypeMINFO:      "MINFO",
	RRTypeMX:         "MX",
	RRTypeTXT:        "TXT",
	RRTypeRP:         "RP",
	RRTypeAFSDB:      "AFSDB",
	RRTypeSIG:        "SIG",
	RRTypeKEY:        "KEY",
	RRTypeAAAA:       "AAAA",
	RRTypeLOC:        "LOC",
	RRTypeSRV:        "SRV",
	RRTypeNAPTR:      "NAPTR",
	RRTypeKX:         "KX",
	RRTypeCERT:       "CERT",
	RRTypeDNAME:      "DNAME",
	RRTypeOPT:        "OPT",
	RRTypeDS:         "DS",
	RRTypeSSHFP:      "SSHFP",
	RRTypeRRSIG:      "RRSIG",
	RRTypeNSEC:       "NSEC",
	RRTypeDNSKEY:     "DNSKEY",
	RRTypeNSEC3:      "NSEC3",
	RRTypeNSEC3PARAM: "NSEC3PARAM",
	RRTypeTLSA:       "TLSA",
	RRTypeSVCB:       "SVCB",
	RRTypeHTTPS:      "HTTPS",
	RRTypeSPF:        "SPF",
	RRTypeTKEY:       "TKEY",
	RRTypeTSIG:       "TSIG",
	RRTypeIXFR:       "IXFR",
	RRTypeAXFR:       "AXFR",
	RRTypeMAILB:      "MAILB",
	RRTypeMAILA:      "MAILA",
	RRTypeANY:        "ANY",
	RRTypeCAA:        "CAA",
}

// IsKnown returns true if the RRType has a mnemonic.
func (t RRType) IsKnown() bool {
	_, ok := rrTypeNames[t]
	return ok
}

// String returns the mnemonic of the RRType, or "UNKNOWN" when it has none.
func (t RRType) String() string {
	if s, ok := rrTypeNames[t]; ok {
		return s
	}
	return "UNKNOWN"
}

var rrTypeByName = func() map[string]RRType {
	m := make(map[string]RRType, len(rrTypeNames))
	for t, s := range rrTypeNames {
		m[s] = t
	}
	return m
}()

// RRTypeFromString maps a type mnemonic, in any case, to its RRType. Unknown input yields 0.
func RRTypeFromString(s string) RRType {
	return rrTypeByName[strings.ToUpper(s)]
}
