package reconstructor

import (
	"errors"

	"FotaClientv2/internal/models"
	"FotaClientv2/pkg/fingerprint"
)

var (
	// ErrNoTestFirmware: the test manifest disclosed nothing, there is no
	// search to run.
	ErrNoTestFirmware = errors.New("no test firmware disclosed")

	// ErrDecryptionExhausted: fingerprints were disclosed but the bounded
	// search space contained no candidate matching any of them.
	ErrDecryptionExhausted = errors.New("no disclosed fingerprint matched within the search space")
)

// CandidateVersion is one reconstructed firmware version whose
// fingerprint was disclosed by the test manifest.
type CandidateVersion struct {
	Version     string
	Fingerprint string
	Year        int
	Month       int
	Serial      int
}

// Result of one reconstruction run. Regular and Major partition Matches
// relative to the reference version. LatestRegular/LatestMajor pick the
// lexicographic string maximum of each partition (see Run).
type Result struct {
	Reference     string
	Matches       []CandidateVersion
	Regular       []CandidateVersion
	Major         []CandidateVersion
	LatestRegular string
	LatestMajor   string
	Coverage      float64
	Err           error
}

// Modem firmware lags behind AP/CSC, so a CP value matched earlier in
// the search may pair with newer AP/CSC strings. The window keeps the
// most recent distinct CP values at constant per-candidate cost.
const basebandReuseWindow = 12

type basebandRing struct {
	values [basebandReuseWindow]string
	size   int
	next   int
}

func (r *basebandRing) add(cp string) {
	for i := 0; i < r.size; i++ {
		if r.values[i] == cp {
			return
		}
	}
	r.values[r.next] = cp
	r.next = (r.next + 1) % basebandReuseWindow
	if r.size < basebandReuseWindow {
		r.size++
	}
}

// snapshot returns the cached CP values, most recent first.
func (r *basebandRing) snapshot() []string {
	out := make([]string, 0, r.size)
	for i := 1; i <= r.size; i++ {
		out = append(out, r.values[(r.next-i+basebandReuseWindow)%basebandReuseWindow])
	}
	return out
}

type Reconstructor struct {
	Model      string
	Region     string
	Reference  string
	MaxMatches int

	// FingerprintFn computes the fingerprint of a full candidate string.
	// Defaults to md5 hex; replaceable in tests.
	FingerprintFn func(string) string

	// Progress, when non-nil, receives events during the search. Events
	// are dropped rather than ever blocking the enumeration.
	Progress chan<- models.ProgressEvent

	fingerprints map[string]struct{}
	disclosed    int
	tried        uint64
}

func New(model, region string, fingerprints []string, reference string, maxMatches int) *Reconstructor {
	set := make(map[string]struct{}, len(fingerprints))
	for _, fp := range fingerprints {
		set[fp] = struct{}{}
	}
	return &Reconstructor{
		Model:         model,
		Region:        region,
		Reference:     reference,
		MaxMatches:    maxMatches,
		FingerprintFn: fingerprint.Digest,
		fingerprints:  set,
		disclosed:     len(set),
	}
}
