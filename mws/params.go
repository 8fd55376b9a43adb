package mws

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// Values holds the query parameters for a single MWS request. Parameter
// names follow Amazon's dotted notation, e.g.
// "TransportDetails.NonPartneredSmallParcelData.CarrierName".
type Values map[string]string

// NewValues creates an empty parameter set.
func NewValues() Values {
	return make(Values)
}

// Set stores a string parameter. Empty values are dropped so optional
// parameters can be passed through unconditionally.
func (v Values) Set(key, value string) {
	if value == "" {
		delete(v, key)
		return
	}
	v[key] = value
}

// SetInt stores an integer parameter.
func (v Values) SetInt(key string, value int) {
	v[key] = strconv.Itoa(value)
}

// SetFloat stores a float parameter without exponent notation.
func (v Values) SetFloat(key string, value float64) {
	v[key] = strconv.FormatFloat(value, 'f', -1, 64)
}

// SetBool stores a boolean parameter as "true"/"false".
func (v Values) SetBool(key string, value bool) {
	v[key] = strconv.FormatBool(value)
}

// SetTime stores a timestamp in the ISO-8601 form MWS expects.
// Zero times are dropped.
func (v Values) SetTime(key string, t time.Time) {
	if t.IsZero() {
		delete(v, key)
		return
	}
	v[key] = t.UTC().Format("2006-01-02T15:04:05Z")
}

// SetList stores values under Amazon's indexed list notation:
// prefix.member.1, prefix.member.2, ...
func (v Values) SetList(prefix, member string, values []string) {
	for i, val := range values {
		v.Set(prefix+"."+member+"."+strconv.Itoa(i+1), val)
	}
}

// ListKey builds an indexed list key: ListKey("PackageList", "member", 2,
// "TrackingId") -> "PackageList.member.2.TrackingId".
func ListKey(prefix, member string, index int, rest ...string) string {
	key := prefix + "." + member + "." + strconv.Itoa(index)
	for _, r := range rest {
		key += "." + r
	}
	return key
}

// ResetPrefix removes every parameter whose name starts with the given
// prefix. Used to guarantee a failed builder never leaves partial data
// behind for submission.
func (v Values) ResetPrefix(prefix string) {
	for key := range v {
		if strings.HasPrefix(key, prefix) {
			delete(v, key)
		}
	}
}

// Clone returns an independent copy.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for key, val := range v {
		out[key] = val
	}
	return out
}

// Keys returns the parameter names in sorted order.
func (v Values) Keys() []string {
	keys := make([]string, 0, len(v))
	for key := range v {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Encode serializes the parameters as a canonical query string: keys in
// byte order, names and values percent-encoded per RFC 3986. The same
// encoding feeds the signature and the request body, so the bytes signed
// are exactly the bytes sent.
func (v Values) Encode() string {
	var b strings.Builder
	for i, key := range v.Keys() {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(percentEncode(key))
		b.WriteByte('=')
		b.WriteString(percentEncode(v[key]))
	}
	return b.String()
}
