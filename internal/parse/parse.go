// Package parse matches raw access-log lines against the combined log
// format and produces structured records. Parsing is pure: no shared
// state, safe from any number of goroutines.
package parse

import (
	"regexp"
	"strconv"

	"github.com/loglift/loglift/internal/model"
)

// lineRE describes one combined-format access-log line:
// client IPv4, ident, authuser, bracketed timestamp, quoted request
// (METHOD path [protocol] or an arbitrary quoted fallback), status,
// byte count or "-", quoted referrer and user agent. The month allows
// an abbreviation with an optional full-name suffix (Jan or January),
// hours are 00-23, minutes and seconds 00-59.
var lineRE = regexp.MustCompile(`^(?P<ip>\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}) (?P<ident>\S+) (?P<user>\S+) \[(?P<ts>[0-3]\d/[A-Z][a-z]{2}[a-z]*/\d{4}:(?:[01]\d|2[0-3]):[0-5]\d:[0-5]\d [+-]\d{4})\] "(?P<req>(?:(?P<method>[A-Z]+) (?P<path>\S+)(?: (?P<proto>HTTP/[0-9.]+))?)|[^"]*)" (?P<status>\d{3}) (?P<bytes>\d+|-) "(?P<referrer>[^"]*)" "(?P<agent>[^"]*)"$`)

var (
	idxIP       = lineRE.SubexpIndex("ip")
	idxIdent    = lineRE.SubexpIndex("ident")
	idxUser     = lineRE.SubexpIndex("user")
	idxTS       = lineRE.SubexpIndex("ts")
	idxReq      = lineRE.SubexpIndex("req")
	idxMethod   = lineRE.SubexpIndex("method")
	idxPath     = lineRE.SubexpIndex("path")
	idxProto    = lineRE.SubexpIndex("proto")
	idxStatus   = lineRE.SubexpIndex("status")
	idxBytes    = lineRE.SubexpIndex("bytes")
	idxReferrer = lineRE.SubexpIndex("referrer")
	idxAgent    = lineRE.SubexpIndex("agent")
)

// Line attempts to parse one raw line. The second return value is false
// when the line does not conform to the grammar; a non-conforming line
// is not an error.
func Line(raw string) (*model.AccessRecord, bool) {
	m := lineRE.FindStringSubmatch(raw)
	if m == nil {
		return nil, false
	}

	rec := &model.AccessRecord{
		IP:        m[idxIP],
		Ident:     m[idxIdent],
		AuthUser:  m[idxUser],
		Timestamp: m[idxTS],
		Method:    m[idxMethod],
		Path:      m[idxPath],
		Protocol:  m[idxProto],
		Request:   m[idxReq],
		Referrer:  m[idxReferrer],
		UserAgent: m[idxAgent],
	}

	status, err := strconv.Atoi(m[idxStatus])
	if err != nil {
		return nil, false
	}
	rec.Status = status

	if b := m[idxBytes]; b != "-" {
		n, err := strconv.ParseInt(b, 10, 64)
		if err != nil {
			return nil, false
		}
		rec.Bytes = &n
	}
	return rec, true
}
