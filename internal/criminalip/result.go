package criminalip

import (
	"github.com/obegron/ipscope/internal/jsonvalue"
)

// Top-level keys of the combined value.
const (
	KeyMalicious  = "malicious"
	KeySuspicious = "suspicious"
)

// Result is one analysis: both reports for the same IP.
type Result struct {
	IP         string
	Malicious  jsonvalue.Value
	Suspicious jsonvalue.Value
	// Mock is set when the demo report stands in for a failed lookup.
	Mock bool
}

// Combined merges both reports under their fixed top-level keys.
func (r *Result) Combined() jsonvalue.Value {
	return jsonvalue.NewObject(
		jsonvalue.Member{Key: KeyMalicious, Value: r.Malicious},
		jsonvalue.Member{Key: KeySuspicious, Value: r.Suspicious},
	)
}

// FromCombined splits a combined value back into a Result. Missing reports
// are left null.
func FromCombined(ip string, v jsonvalue.Value) *Result {
	mal, _ := v.Get(KeyMalicious)
	sus, _ := v.Get(KeySuspicious)
	return &Result{IP: ip, Malicious: mal, Suspicious: sus}
}

// DemoResult returns the built-in report used when a lookup fails.
func DemoResult() *Result {
	v, err := jsonvalue.Parse(demoReport)
	if err != nil {
		panic("criminalip: embedded demo report is invalid: " + err.Error())
	}
	r := FromCombined(DefaultTarget, v)
	r.Mock = true
	return r
}
