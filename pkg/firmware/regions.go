package firmware

// RegionPrefixes holds the region-specific string that follows the model
// code in each component. An empty CP means the device family sold in
// that region has no discrete modem and CP mirrors AP.
type RegionPrefixes struct {
	AP  string
	CSC string
	CP  string
}

// Known region codes and their component prefixes. Extend as more
// regions are confirmed against published firmware.
var regionTable = map[string]RegionPrefixes{
	"XAA": {AP: "UE", CSC: "OYM", CP: "UE"}, // US unlocked
	"XAR": {AP: "UE", CSC: "OYM", CP: ""},   // US Wi-Fi models, no baseband
	"ATT": {AP: "SQ", CSC: "OYN", CP: "SQ"},
	"TMB": {AP: "SQ", CSC: "OYW", CP: "SQ"},
	"VZW": {AP: "SQ", CSC: "OYV", CP: "SQ"},
	"EUX": {AP: "XX", CSC: "OXM", CP: "XX"}, // European multi-CSC
	"EUY": {AP: "XX", CSC: "OXM", CP: "XX"},
	"DBT": {AP: "XX", CSC: "OXM", CP: "XX"},
	"BTU": {AP: "XX", CSC: "OXM", CP: "XX"},
	"XEF": {AP: "XX", CSC: "OXM", CP: "XX"},
	"INS": {AP: "XX", CSC: "ODM", CP: "XX"},
	"KOO": {AP: "KS", CSC: "OKR", CP: "KS"},
	"CHC": {AP: "ZC", CSC: "CHC", CP: "ZC"},
	"TGY": {AP: "ZH", CSC: "OZS", CP: "ZH"},
}

// RegionCodes looks up the component prefixes for a region. Unknown
// regions get the generic XX code with the region string itself as the
// CSC part, which is how the vendor encodes open-market regions that
// never made it into the table.
func RegionCodes(region string) RegionPrefixes {
	if p, ok := regionTable[region]; ok {
		return p
	}
	return RegionPrefixes{AP: "XX", CSC: region, CP: "XX"}
}
