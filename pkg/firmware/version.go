package firmware

import (
	"strings"
	"time"
)

// Firmware version strings are AP/CSC/CP where each component ends in a
// fixed 5-character tail: bootloader revision, version letter, year,
// month, serial. Example AP "S9280UEU1BXKV": model code S9280, region
// part UE, update type U, bootloader 1, letter B, year X (2024),
// month K (November), serial V (31).
const (
	BootloaderAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	VersionLetters     = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

	// Beta channel builds carry Z in the version letter slot instead of
	// an incrementing letter.
	BetaSentinel = 'Z'

	// Year letters are anchored at A = 2001 (U = 2021). Recovered from
	// known firmware strings, not documented by the vendor.
	yearBase = 2001

	// No firmware older than 2021 is served through this manifest
	// generation, so searches never go below it.
	MinSearchYear = 2021

	MaxSerial = 35

	// Offsets from the end of the AP component.
	serialOffset     = 1
	monthOffset      = 2
	yearOffset       = 3
	letterOffset     = 4
	bootloaderOffset = 5
)

// NormalizeVersion expands a raw 1- to 3-component version string into
// the canonical AP/CSC/CP form. A missing CP defaults to AP, and an
// empty third component is filled with the first.
func NormalizeVersion(vercode string) string {
	ver := strings.Split(vercode, "/")
	for len(ver) < 3 {
		ver = append(ver, ver[0])
	}
	ver = ver[:3]
	if ver[2] == "" {
		ver[2] = ver[0]
	}
	return strings.Join(ver, "/")
}

type Triplet struct {
	AP  string
	CSC string
	CP  string
}

// ParseTriplet normalizes vercode and splits it into its components.
func ParseTriplet(vercode string) Triplet {
	ver := strings.Split(NormalizeVersion(vercode), "/")
	return Triplet{AP: ver[0], CSC: ver[1], CP: ver[2]}
}

func (t Triplet) String() string {
	return t.AP + "/" + t.CSC + "/" + t.CP
}

// ModelCode strips the SM- sales prefix from a model identifier.
func ModelCode(model string) string {
	return strings.TrimPrefix(model, "SM-")
}

// YearChar encodes a calendar year into its version-string letter.
// ok is false for years outside the A-Z window.
func YearChar(year int) (byte, bool) {
	n := year - yearBase
	if n < 0 || n > 25 {
		return 0, false
	}
	return byte('A' + n), true
}

func YearFromChar(c byte) int {
	return yearBase + int(c-'A')
}

// MonthChar maps month 1-12 to A-L.
func MonthChar(month int) byte {
	return byte('A' + month - 1)
}

func MonthFromChar(c byte) int {
	return int(c-'A') + 1
}

// SerialChar maps serial 1-35 to 1-9 then A-Z. There is no leading 0.
func SerialChar(serial int) byte {
	if serial <= 9 {
		return byte('0' + serial)
	}
	return byte('A' + serial - 10)
}

func SerialFromChar(c byte) int {
	if c >= '0' && c <= '9' {
		return int(c - '0')
	}
	return int(c-'A') + 10
}

func tailChar(ap string, fromEnd int) (byte, bool) {
	if len(ap) < fromEnd {
		return 0, false
	}
	return ap[len(ap)-fromEnd], true
}

// ReferenceYear decodes the year letter of a reference AP component,
// falling back to the current calendar year when the reference is
// unusable.
func ReferenceYear(ap string) int {
	c, ok := tailChar(ap, yearOffset)
	if !ok || c < 'A' || c > 'Z' {
		return time.Now().Year()
	}
	return YearFromChar(c)
}

// BootloaderStart reads the bootloader revision of a reference AP
// component. Bootloader revisions only ever increase, so a search can
// begin at the reference's revision. Falls back to the lowest symbol.
func BootloaderStart(ap string) byte {
	c, ok := tailChar(ap, bootloaderOffset)
	if !ok || strings.IndexByte(BootloaderAlphabet, c) < 0 {
		return BootloaderAlphabet[0]
	}
	return c
}

// UpdateChar reads the version letter used to tell major updates apart
// from regular ones.
func UpdateChar(ap string) (byte, bool) {
	return tailChar(ap, letterOffset)
}
