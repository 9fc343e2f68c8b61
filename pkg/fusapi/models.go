package fusapi

import (
	"errors"
	"net/http"
	"time"

	"FotaClientv2/internal/config"
)

const (
	DefaultBaseURL = "https://fota-cloud-dn.ospserver.net/firmware"

	// The FOTA endpoints only answer to known client identifications.
	userAgent = "Kies2.0_FUS"
)

var (
	ErrNoFirmware   = errors.New("no released firmware for this model/region")
	ErrAccessDenied = errors.New("access to firmware listing denied")
)

// VendorError is the service's own error envelope (root element Error
// with Code and Message children). RawDocument keeps the full payload
// for diagnosis.
type VendorError struct {
	Code        string
	Message     string
	RawDocument string
}

func (e *VendorError) Error() string {
	return "FOTA service error " + e.Code + ": " + e.Message
}

// VersionInfo is a resolved stable firmware version: the canonical
// AP/CSC/CP string plus the Android platform version it ships.
type VersionInfo struct {
	Version        string
	AndroidVersion string
}

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient() *Client {
	return &Client{
		BaseURL: DefaultBaseURL,
		HTTPClient: &http.Client{
			Timeout: time.Duration(config.Config.ManifestTimeoutSeconds) * time.Second,
		},
	}
}
