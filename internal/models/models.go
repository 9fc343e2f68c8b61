package models

type DeviceRequest struct {
	Model  string `json:"model" validate:"required"`
	Region string `json:"region" validate:"required"`
}

type ReconstructRequest struct {
	DeviceRequest
	MaxMatches int `json:"max_matches,omitempty"`
}

type BatchResolveRequest struct {
	Devices []DeviceRequest `json:"devices" validate:"required"`
}

type FirmwareInfo struct {
	Model          string `json:"model"`
	Region         string `json:"region"`
	Version        string `json:"version"`
	AndroidVersion string `json:"android_version,omitempty"`
}

type ResolveResponse struct {
	Status   string        `json:"status" validate:"oneof=ok error"`
	Firmware *FirmwareInfo `json:"firmware,omitempty"`
	Error    string        `json:"error,omitempty"`
}

type ReconstructedFirmware struct {
	Version     string `json:"version"`
	Fingerprint string `json:"fingerprint"`
	Year        int    `json:"year"`
	Month       int    `json:"month"`
	Serial      int    `json:"serial"`
}

type ReconstructResponse struct {
	Status        string                  `json:"status" validate:"oneof=ok error"`
	Model         string                  `json:"model"`
	Region        string                  `json:"region"`
	Reference     string                  `json:"reference,omitempty"`
	Matches       []ReconstructedFirmware `json:"matches,omitempty"`
	Regular       []string                `json:"regular,omitempty"`
	Major         []string                `json:"major,omitempty"`
	LatestRegular string                  `json:"latest_regular,omitempty"`
	LatestMajor   string                  `json:"latest_major,omitempty"`
	Coverage      float64                 `json:"coverage"`
	Error         string                  `json:"error,omitempty"`
}

type BatchResolveResponse struct {
	Results []ResolveResponse `json:"results"`
}

// ProgressEvent is one frame on the websocket stream. Type is "progress"
// while the search is running, "match" when a candidate is recovered and
// "result" for the terminal frame.
type ProgressEvent struct {
	Type            string  `json:"type" validate:"oneof=progress match result"`
	CandidatesTried uint64  `json:"candidates_tried"`
	Matches         int     `json:"matches"`
	Version         string  `json:"version,omitempty"`
	Coverage        float64 `json:"coverage,omitempty"`
	Error           string  `json:"error,omitempty"`
}
