package models

import "encoding/xml"

// version.xml response model
type FOTAVersionInfo struct {
	XMLName  xml.Name `xml:"versioninfo"`
	URL      string   `xml:"url"`
	Firmware struct {
		Model       string `xml:"model"`
		CountryCode string `xml:"cc"`
		Version     struct {
			Latest struct {
				Value          string `xml:",chardata"`
				AndroidVersion string `xml:"o,attr"`
			} `xml:"latest"`
			// Status is reported next to <latest> when the serving
			// region refuses to hand out a version (403 = access denied).
			Status string `xml:"status"`
		} `xml:"version"`
	} `xml:"firmware"`
}

// version.test.xml response model. The test manifest never carries a
// plain version string, only <value> fingerprints under the root.
type FOTATestVersionInfo struct {
	XMLName xml.Name `xml:"versioninfo"`
	Values  []string `xml:"value"`
}

// Error payload returned with the vendor's own error envelope
type FOTAErrorPayload struct {
	XMLName xml.Name `xml:"Error"`
	Code    string   `xml:"Code"`
	Message string   `xml:"Message"`
}
