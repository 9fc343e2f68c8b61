package reconstructor

// 1. Derive the search bounds (year window, bootloader start) from the
//    reference version when one is available
// 2. Walk the candidate space in fixed order: update type -> bootloader
//    -> version letter -> year -> month -> serial
// 3. Fingerprint every candidate (plus baseband-reuse and beta variants)
//    and test it against the disclosed fingerprint set
// 4. Stop as soon as maxMatches is reached or every disclosed
//    fingerprint has been recovered
// 5. Partition the matches into regular/major relative to the reference

import (
	"context"
	"fmt"
	"strings"
	"time"

	"FotaClientv2/internal/config"
	"FotaClientv2/internal/logging"
	"FotaClientv2/internal/models"
	"FotaClientv2/pkg/firmware"
	"FotaClientv2/pkg/utils"
)

type searchPoint struct {
	updateType byte
	bootloader byte
	letter     byte
	year       int
	month      int
	serial     int
}

// searchSpace enumerates the candidate axes as a single odometer so the
// cancellation and match-cap checks live at one point per step instead
// of being scattered through nested loops.
type searchSpace struct {
	updateTypes string
	bootloaders string
	letters     string
	years       []int

	ti, bi, li, yi, mi, si int
	done                   bool
}

func newSearchSpace(bootloaderStart byte, years []int) *searchSpace {
	start := strings.IndexByte(firmware.BootloaderAlphabet, bootloaderStart)
	if start < 0 {
		start = 0
	}
	return &searchSpace{
		// U = major update, S = security/regular. U builds are the more
		// common test-channel disclosures, so they go first.
		updateTypes: "US",
		bootloaders: firmware.BootloaderAlphabet[start:],
		letters:     firmware.VersionLetters,
		years:       years,
		done:        len(years) == 0,
	}
}

func (s *searchSpace) next() (searchPoint, bool) {
	if s.done {
		return searchPoint{}, false
	}

	pt := searchPoint{
		updateType: s.updateTypes[s.ti],
		bootloader: s.bootloaders[s.bi],
		letter:     s.letters[s.li],
		year:       s.years[s.yi],
		month:      s.mi + 1,
		serial:     s.si + 1,
	}

	// Advance the odometer, serial innermost.
	s.si++
	if s.si == firmware.MaxSerial {
		s.si = 0
		s.mi++
		if s.mi == 12 {
			s.mi = 0
			s.yi++
			if s.yi == len(s.years) {
				s.yi = 0
				s.li++
				if s.li == len(s.letters) {
					s.li = 0
					s.bi++
					if s.bi == len(s.bootloaders) {
						s.bi = 0
						s.ti++
						if s.ti == len(s.updateTypes) {
							s.done = true
						}
					}
				}
			}
		}
	}
	return pt, true
}

// buildCandidate assembles the full AP/CSC/CP string for a search point.
// The CSC component drops the update-type segment; CP mirrors AP when
// the region has no discrete modem.
func buildCandidate(modelCode string, codes firmware.RegionPrefixes, pt searchPoint, letter byte) (ap, csc, cp string) {
	yc, _ := firmware.YearChar(pt.year)
	tail := string([]byte{pt.bootloader, letter, yc, firmware.MonthChar(pt.month), firmware.SerialChar(pt.serial)})

	ap = modelCode + codes.AP + string(pt.updateType) + tail
	csc = modelCode + codes.CSC + tail
	if codes.CP == "" {
		cp = ap
	} else {
		cp = modelCode + codes.CP + string(pt.updateType) + tail
	}
	return ap, csc, cp
}

// buildProbes synthesizes the baseband probe list for one
// (type, bootloader, letter, year, month) prefix: the CP values for
// serial 1 and 2 merged with the reuse window.
func buildProbes(modelCode string, codes firmware.RegionPrefixes, pt searchPoint, ring *basebandRing) []string {
	probes := make([]string, 0, 2+basebandReuseWindow)
	appendProbe := func(cp string) {
		for _, p := range probes {
			if p == cp {
				return
			}
		}
		probes = append(probes, cp)
	}

	for serial := 1; serial <= 2; serial++ {
		probePt := pt
		probePt.serial = serial
		_, _, cp := buildCandidate(modelCode, codes, probePt, pt.letter)
		appendProbe(cp)
	}
	for _, cp := range ring.snapshot() {
		appendProbe(cp)
	}
	return probes
}

// candidatesAt lists the full candidate strings tested at one serial
// step, in match-priority order: the standard build, the standard build
// over each probe baseband, the beta build (version letter replaced by
// the Z sentinel), and the beta build over each probe baseband.
func candidatesAt(modelCode string, codes firmware.RegionPrefixes, pt searchPoint, probes []string) []string {
	ap, csc, cp := buildCandidate(modelCode, codes, pt, pt.letter)

	out := make([]string, 0, 2*(1+len(probes)))
	out = append(out, ap+"/"+csc+"/"+cp)
	for _, p := range probes {
		if p != cp {
			out = append(out, ap+"/"+csc+"/"+p)
		}
	}

	if pt.letter != firmware.BetaSentinel {
		bap, bcsc, bcp := buildCandidate(modelCode, codes, pt, firmware.BetaSentinel)
		out = append(out, bap+"/"+bcsc+"/"+bcp)
		for _, p := range probes {
			if p != bcp {
				out = append(out, bap+"/"+bcsc+"/"+p)
			}
		}
	}
	return out
}

func (r *Reconstructor) emit(event models.ProgressEvent) {
	if r.Progress == nil {
		return
	}
	event.CandidatesTried = r.tried
	utils.TryEnqueue(r.Progress, event)
}

// Run performs the bounded brute-force reconstruction. The enumeration
// is pure CPU work with no I/O; cancellation is honored once per serial
// step, and an aborted run returns only the terminal error, never a
// partial match list.
func (r *Reconstructor) Run(ctx context.Context) Result {
	res := Result{Reference: r.Reference}
	if r.disclosed == 0 {
		res.Err = ErrNoTestFirmware
		return res
	}

	var ref firmware.Triplet
	if r.Reference != "" {
		ref = firmware.ParseTriplet(r.Reference)
	}

	refYear := time.Now().Year()
	bootloaderStart := firmware.BootloaderAlphabet[0]
	if ref.AP != "" {
		refYear = firmware.ReferenceYear(ref.AP)
		bootloaderStart = firmware.BootloaderStart(ref.AP)
	}

	yearLo := refYear - 4
	if yearLo < firmware.MinSearchYear {
		yearLo = firmware.MinSearchYear
	}
	var years []int
	for y := yearLo; y <= refYear+1; y++ {
		if _, ok := firmware.YearChar(y); ok {
			years = append(years, y)
		}
	}

	maxMatches := r.MaxMatches
	if maxMatches <= 0 {
		maxMatches = config.Config.DefaultMaxMatches
	}

	modelCode := firmware.ModelCode(r.Model)
	codes := firmware.RegionCodes(r.Region)
	progressInterval := uint64(config.Config.ProgressEventInterval)

	logging.GlobalLogger.Info(fmt.Sprintf(
		"Reconstructing test firmware for %s/%s: %d fingerprints, years %d-%d, bootloader >= %c, reference %q",
		r.Model, r.Region, r.disclosed, yearLo, refYear+1, bootloaderStart, r.Reference))

	ring := &basebandRing{}
	matchedVersions := make(map[string]struct{})
	matchedFingerprints := make(map[string]struct{})
	space := newSearchSpace(bootloaderStart, years)
	var probes []string

search:
	for {
		pt, ok := space.next()
		if !ok {
			break
		}

		// Cancellation gate, once per serial step.
		if err := ctx.Err(); err != nil {
			logging.GlobalLogger.Warn("Reconstruction for " + r.Model + "/" + r.Region + " cancelled: " + err.Error())
			return Result{Reference: r.Reference, Err: err}
		}

		if pt.serial == 1 {
			probes = buildProbes(modelCode, codes, pt, ring)
		}

		for _, candidate := range candidatesAt(modelCode, codes, pt, probes) {
			r.tried++
			if progressInterval > 0 && r.tried%progressInterval == 0 {
				r.emit(models.ProgressEvent{Type: "progress", Matches: len(res.Matches)})
			}

			fp := r.FingerprintFn(candidate)
			if _, hit := r.fingerprints[fp]; !hit {
				continue
			}
			// Beta variants repeat across the letter axis; record each
			// recovered version once.
			if _, dup := matchedVersions[candidate]; dup {
				continue
			}
			matchedVersions[candidate] = struct{}{}
			matchedFingerprints[fp] = struct{}{}

			res.Matches = append(res.Matches, CandidateVersion{
				Version:     candidate,
				Fingerprint: fp,
				Year:        pt.year,
				Month:       pt.month,
				Serial:      pt.serial,
			})
			ring.add(firmware.ParseTriplet(candidate).CP)

			logging.GlobalLogger.Info("Recovered test firmware " + candidate + " for " + r.Model + "/" + r.Region)
			r.emit(models.ProgressEvent{Type: "match", Matches: len(res.Matches), Version: candidate})

			if len(res.Matches) >= maxMatches || len(matchedFingerprints) == r.disclosed {
				break search
			}
		}
	}

	r.categorize(&res, ref)
	res.Coverage = float64(len(res.Matches)) / float64(r.disclosed)
	if len(res.Matches) == 0 {
		res.Err = fmt.Errorf("%d disclosed fingerprints for %s/%s (reference %q, %d candidates tried): %w",
			r.disclosed, r.Model, r.Region, r.Reference, r.tried, ErrDecryptionExhausted)
	}
	return res
}

// categorize partitions the matches against the reference version: a
// candidate whose version letter is strictly greater than the
// reference's is a major update, everything else is regular. Without a
// usable reference everything is regular.
func (r *Reconstructor) categorize(res *Result, ref firmware.Triplet) {
	refChar, refOK := firmware.UpdateChar(ref.AP)
	for _, m := range res.Matches {
		c, ok := firmware.UpdateChar(firmware.ParseTriplet(m.Version).AP)
		if refOK && ok && c > refChar {
			res.Major = append(res.Major, m)
		} else {
			res.Regular = append(res.Regular, m)
		}
	}

	// Latest is the plain lexicographic max of the version strings,
	// not a decode of the date tail.
	res.LatestRegular = lexMax(res.Regular)
	res.LatestMajor = lexMax(res.Major)
}

func lexMax(list []CandidateVersion) string {
	best := ""
	for _, m := range list {
		if m.Version > best {
			best = m.Version
		}
	}
	return best
}
