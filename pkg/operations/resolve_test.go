package operations

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"FotaClientv2/pkg/fingerprint"
	"FotaClientv2/pkg/fusapi"
	"FotaClientv2/pkg/reconstructor"
)

const testTarget = "S9280UEU1BXKV/S9280OYM1BXKV/S9280UEU1BXKV"

func stableDoc(latest string) string {
	return fmt.Sprintf(`<versioninfo><firmware><version><latest o="14">%s</latest></version></firmware></versioninfo>`, latest)
}

func testDoc(values ...string) string {
	doc := "<versioninfo>"
	for _, v := range values {
		doc += "<value>" + v + "</value>"
	}
	return doc + "</versioninfo>"
}

func newTestClient(t *testing.T, stableBody, testBody string) *fusapi.Client {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/XAA/SM-S9280/version.xml":
			w.Write([]byte(stableBody))
		case "/XAA/SM-S9280/version.test.xml":
			w.Write([]byte(testBody))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(ts.Close)

	c := fusapi.NewClient()
	c.BaseURL = ts.URL
	return c
}

func TestReconstructTestWithCalibration(t *testing.T) {
	// Stable version one serial behind the undisclosed test build.
	reference := "S9280UEU1BXKU/S9280OYM1BXKU/S9280UEU1BXKU"
	c := newTestClient(t, stableDoc(reference), testDoc(fingerprint.Digest(testTarget)))

	res := ReconstructTest(context.Background(), c, "SM-S9280", "XAA", 0, nil)
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if res.Reference != reference {
		t.Errorf("reference = %q", res.Reference)
	}
	if len(res.Matches) != 1 || res.Matches[0].Version != testTarget {
		t.Fatalf("matches = %+v", res.Matches)
	}
	// Same version letter as the reference: a regular update.
	if len(res.Regular) != 1 || len(res.Major) != 0 {
		t.Errorf("partition regular=%d major=%d", len(res.Regular), len(res.Major))
	}
}

func TestReconstructTestCalibrationFailureSwallowed(t *testing.T) {
	vendorError := `<Error><Code>408</Code><Message>Not registered model or cc</Message></Error>`
	c := newTestClient(t, vendorError, testDoc(fingerprint.Digest(testTarget)))

	res := ReconstructTest(context.Background(), c, "SM-S9280", "XAA", 0, nil)
	if res.Err != nil {
		t.Fatalf("calibration failure must not surface: %v", res.Err)
	}
	if res.Reference != "" {
		t.Errorf("reference should be empty, got %q", res.Reference)
	}
	if len(res.Matches) != 1 {
		t.Fatalf("matches = %+v", res.Matches)
	}
	// Without a reference everything classifies regular.
	if len(res.Major) != 0 {
		t.Errorf("major partition should be empty: %+v", res.Major)
	}
}

func TestReconstructTestNothingDisclosed(t *testing.T) {
	c := newTestClient(t, stableDoc(testTarget), testDoc())

	res := ReconstructTest(context.Background(), c, "SM-S9280", "XAA", 0, nil)
	if !errors.Is(res.Err, reconstructor.ErrNoTestFirmware) {
		t.Fatalf("expected ErrNoTestFirmware, got %v", res.Err)
	}
}

func TestReconstructTestFingerprintFetchFailureIsTerminal(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/XAA/SM-S9280/version.xml" {
			w.Write([]byte(stableDoc(testTarget)))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(ts.Close)
	c := fusapi.NewClient()
	c.BaseURL = ts.URL

	res := ReconstructTest(context.Background(), c, "SM-S9280", "XAA", 0, nil)
	if res.Err == nil {
		t.Fatal("expected a terminal error")
	}
	if len(res.Matches) != 0 {
		t.Fatalf("matches = %+v", res.Matches)
	}
}

func TestBuildReconstructResponse(t *testing.T) {
	res := reconstructor.Result{
		Reference: testTarget,
		Matches: []reconstructor.CandidateVersion{
			{Version: "a/b/c", Fingerprint: "ff", Year: 2024, Month: 1, Serial: 2},
		},
		Regular:       []reconstructor.CandidateVersion{{Version: "a/b/c"}},
		LatestRegular: "a/b/c",
		Coverage:      0.5,
	}
	resp := BuildReconstructResponse("SM-S9280", "XAA", res)
	if resp.Status != "ok" || resp.Coverage != 0.5 || len(resp.Matches) != 1 {
		t.Fatalf("response = %+v", resp)
	}
	if resp.Matches[0].Version != "a/b/c" || resp.Matches[0].Year != 2024 {
		t.Errorf("match = %+v", resp.Matches[0])
	}

	res.Err = reconstructor.ErrNoTestFirmware
	resp = BuildReconstructResponse("SM-S9280", "XAA", res)
	if resp.Status != "error" || resp.Error == "" {
		t.Errorf("error response = %+v", resp)
	}
}

func TestStatusForError(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("x: %w", fusapi.ErrNoFirmware), 404},
		{fmt.Errorf("x: %w", fusapi.ErrAccessDenied), 403},
		{reconstructor.ErrNoTestFirmware, 404},
		{reconstructor.ErrDecryptionExhausted, 404},
		{&fusapi.VendorError{Code: "408"}, 502},
		{errors.New("boom"), 502},
	}
	for _, tc := range cases {
		if got := StatusForError(tc.err); got != tc.want {
			t.Errorf("StatusForError(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}
