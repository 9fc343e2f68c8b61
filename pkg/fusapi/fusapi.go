package fusapi

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"

	"FotaClientv2/internal/config"
	"FotaClientv2/internal/logging"
	"FotaClientv2/internal/models"
	"FotaClientv2/pkg/firmware"

	"github.com/cenkalti/backoff/v4"
)

func (c *Client) manifestURL(model, region, manifest string) string {
	return fmt.Sprintf("%s/%s/%s/%s", c.BaseURL, region, model, manifest)
}

// fetch GETs a manifest document, retrying transient failures with
// exponential backoff. Client-side errors (4xx) are not retried.
func (c *Client) fetch(ctx context.Context, url string) (string, error) {
	bo := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(config.Config.MaxManifestFetchRetries)),
		ctx,
	)

	return backoff.RetryWithData(func() (string, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return "", backoff.Permanent(err)
		}
		req.Header.Set("User-Agent", userAgent)

		resp, err := c.HTTPClient.Do(req)
		if err != nil {
			return "", err
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusForbidden {
			io.Copy(io.Discard, resp.Body)
			return "", backoff.Permanent(fmt.Errorf("model or region not found (403)"))
		}
		if resp.StatusCode >= 500 {
			io.Copy(io.Discard, resp.Body)
			return "", fmt.Errorf("HTTP error: %d", resp.StatusCode)
		}
		if resp.StatusCode >= 400 {
			io.Copy(io.Discard, resp.Body)
			return "", backoff.Permanent(fmt.Errorf("HTTP error: %d", resp.StatusCode))
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", err
		}
		return string(body), nil
	}, bo)
}

// vendorError reports whether body is the service's error envelope.
func vendorError(body string) *VendorError {
	var payload models.FOTAErrorPayload
	if err := xml.Unmarshal([]byte(body), &payload); err != nil {
		return nil
	}
	return &VendorError{
		Code:        payload.Code,
		Message:     payload.Message,
		RawDocument: body,
	}
}

// GetLatestVersion resolves the published stable firmware version for a
// model/region pair from version.xml.
func (c *Client) GetLatestVersion(ctx context.Context, model, region string) (VersionInfo, error) {
	url := c.manifestURL(model, region, "version.xml")
	body, err := c.fetch(ctx, url)
	if err != nil {
		return VersionInfo{}, fmt.Errorf("fetch version manifest for %s/%s: %w", model, region, err)
	}

	if venErr := vendorError(body); venErr != nil {
		logging.GlobalLogger.Warn("Version manifest for " + model + "/" + region + " carried an error payload: " + venErr.Error())
		return VersionInfo{}, venErr
	}

	var doc models.FOTAVersionInfo
	if err := xml.Unmarshal([]byte(body), &doc); err != nil {
		logging.GlobalLogger.Debug("Malformed version manifest for " + model + "/" + region + ": " + body)
		return VersionInfo{}, fmt.Errorf("malformed version manifest for %s/%s: %w", model, region, err)
	}

	latest := strings.TrimSpace(doc.Firmware.Version.Latest.Value)
	if latest == "" {
		logging.GlobalLogger.Debug("Empty version manifest for " + model + "/" + region + ": " + body)
		if strings.TrimSpace(doc.Firmware.Version.Status) == "403" {
			return VersionInfo{}, fmt.Errorf("%s/%s: %w", model, region, ErrAccessDenied)
		}
		return VersionInfo{}, fmt.Errorf("%s/%s: %w", model, region, ErrNoFirmware)
	}

	info := VersionInfo{
		Version:        firmware.NormalizeVersion(latest),
		AndroidVersion: doc.Firmware.Version.Latest.AndroidVersion,
	}
	logging.GlobalLogger.Info("Resolved " + model + "/" + region + " to " + info.Version)
	return info, nil
}

// GetTestFingerprints fetches version.test.xml and collects the
// disclosed fingerprints from its value elements. Duplicates collapse
// and fingerprints are normalized to lowercase hex. The raw document is
// working data only and must never reach an API response.
func (c *Client) GetTestFingerprints(ctx context.Context, model, region string) ([]string, error) {
	url := c.manifestURL(model, region, "version.test.xml")
	body, err := c.fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch test manifest for %s/%s: %w", model, region, err)
	}

	if venErr := vendorError(body); venErr != nil {
		// Withhold the fingerprint document on the test path.
		venErr.RawDocument = ""
		return nil, venErr
	}

	var doc models.FOTATestVersionInfo
	if err := xml.Unmarshal([]byte(body), &doc); err != nil {
		return nil, fmt.Errorf("malformed test manifest for %s/%s: %w", model, region, err)
	}

	seen := make(map[string]struct{}, len(doc.Values))
	fingerprints := make([]string, 0, len(doc.Values))
	for _, v := range doc.Values {
		fp := strings.ToLower(strings.TrimSpace(v))
		if fp == "" {
			continue
		}
		if _, dup := seen[fp]; dup {
			continue
		}
		seen[fp] = struct{}{}
		fingerprints = append(fingerprints, fp)
	}

	logging.GlobalLogger.Info(fmt.Sprintf("Test manifest for %s/%s disclosed %d fingerprints", model, region, len(fingerprints)))
	return fingerprints, nil
}
