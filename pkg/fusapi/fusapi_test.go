package fusapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

const stableDoc = `<?xml version="1.0" encoding="UTF-8"?>
<versioninfo>
  <url>https://fota-cloud-dn.ospserver.net/firmware/</url>
  <firmware>
    <model>SM-S9280</model>
    <cc>XAA</cc>
    <version>
      <latest o="14">S9280UEU1BXKV/S9280OYM1BXKV/</latest>
    </version>
  </firmware>
</versioninfo>`

const emptyDoc = `<?xml version="1.0" encoding="UTF-8"?>
<versioninfo>
  <firmware>
    <model>SM-S9280</model>
    <cc>ZZZ</cc>
    <version>
      <latest></latest>
    </version>
  </firmware>
</versioninfo>`

const deniedDoc = `<?xml version="1.0" encoding="UTF-8"?>
<versioninfo>
  <firmware>
    <version>
      <latest></latest>
      <status>403</status>
    </version>
  </firmware>
</versioninfo>`

const vendorErrorDoc = `<?xml version="1.0" encoding="UTF-8"?>
<Error>
  <Code>408</Code>
  <Message>Not registered model or cc</Message>
</Error>`

const testDoc = `<?xml version="1.0" encoding="UTF-8"?>
<versioninfo>
  <value>AABBCCDDEEFF00112233445566778899</value>
  <value>aabbccddeeff00112233445566778899</value>
  <value>ffeeddccbbaa99887766554433221100</value>
</versioninfo>`

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	c := NewClient()
	c.BaseURL = ts.URL
	return c
}

func TestGetLatestVersion(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/XAA/SM-S9280/version.xml" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("User-Agent") != "Kies2.0_FUS" {
			t.Errorf("unexpected user agent %q", r.Header.Get("User-Agent"))
		}
		w.Write([]byte(stableDoc))
	})

	info, err := c.GetLatestVersion(context.Background(), "SM-S9280", "XAA")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The blank CP component expands to the AP component.
	if info.Version != "S9280UEU1BXKV/S9280OYM1BXKV/S9280UEU1BXKV" {
		t.Errorf("version = %q", info.Version)
	}
	if info.AndroidVersion != "14" {
		t.Errorf("android version = %q", info.AndroidVersion)
	}
}

func TestGetLatestVersionNoFirmware(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(emptyDoc))
	})

	_, err := c.GetLatestVersion(context.Background(), "SM-S9280", "ZZZ")
	if !errors.Is(err, ErrNoFirmware) {
		t.Fatalf("expected ErrNoFirmware, got %v", err)
	}
}

func TestGetLatestVersionAccessDenied(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(deniedDoc))
	})

	_, err := c.GetLatestVersion(context.Background(), "SM-S9280", "XAA")
	if !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied, got %v", err)
	}
}

func TestGetLatestVersionVendorError(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(vendorErrorDoc))
	})

	_, err := c.GetLatestVersion(context.Background(), "SM-XXXX", "XAA")
	var venErr *VendorError
	if !errors.As(err, &venErr) {
		t.Fatalf("expected VendorError, got %v", err)
	}
	if venErr.Code != "408" {
		t.Errorf("code = %q", venErr.Code)
	}
	if !strings.Contains(venErr.Message, "Not registered") {
		t.Errorf("message = %q", venErr.Message)
	}
	if venErr.RawDocument == "" {
		t.Error("stable path should retain the raw document")
	}
}

func TestGetLatestVersionHTTPForbidden(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := c.GetLatestVersion(context.Background(), "SM-S9280", "XAA")
	if err == nil || !strings.Contains(err.Error(), "403") {
		t.Fatalf("expected 403 failure, got %v", err)
	}
}

func TestGetLatestVersionRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(stableDoc))
	})

	info, err := c.GetLatestVersion(context.Background(), "SM-S9280", "XAA")
	if err != nil {
		t.Fatalf("unexpected error after retry: %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("expected one retry, saw %d calls", calls.Load())
	}
	if info.Version == "" {
		t.Error("empty version after retry")
	}
}

func TestGetTestFingerprints(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/XAA/SM-S9280/version.test.xml" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(testDoc))
	})

	fps, err := c.GetTestFingerprints(context.Background(), "SM-S9280", "XAA")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Duplicates collapse and case normalizes.
	want := []string{"aabbccddeeff00112233445566778899", "ffeeddccbbaa99887766554433221100"}
	if len(fps) != len(want) {
		t.Fatalf("fingerprints = %v", fps)
	}
	for i := range want {
		if fps[i] != want[i] {
			t.Errorf("fingerprint[%d] = %q, want %q", i, fps[i], want[i])
		}
	}
}

func TestGetTestFingerprintsVendorErrorWithholdsDocument(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(vendorErrorDoc))
	})

	_, err := c.GetTestFingerprints(context.Background(), "SM-S9280", "XAA")
	var venErr *VendorError
	if !errors.As(err, &venErr) {
		t.Fatalf("expected VendorError, got %v", err)
	}
	if venErr.RawDocument != "" {
		t.Error("test path must withhold the raw document")
	}
}
