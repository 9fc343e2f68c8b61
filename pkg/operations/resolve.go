package operations

import (
	"context"
	"errors"

	"FotaClientv2/internal/config"
	"FotaClientv2/internal/logging"
	"FotaClientv2/internal/models"
	"FotaClientv2/pkg/fusapi"
	"FotaClientv2/pkg/reconstructor"

	"golang.org/x/sync/errgroup"
)

// ResolveStable resolves the published stable firmware version for a
// model/region pair.
func ResolveStable(ctx context.Context, client *fusapi.Client, model, region string) (fusapi.VersionInfo, error) {
	return client.GetLatestVersion(ctx, model, region)
}

// ReconstructTest recovers undisclosed test firmware versions for a
// model/region pair. The stable version (calibration reference) and the
// disclosed fingerprint list are fetched concurrently; a calibration
// failure is absorbed and only degrades classification, while a
// fingerprint-fetch failure is terminal. The fingerprint document never
// leaves this boundary.
func ReconstructTest(ctx context.Context, client *fusapi.Client, model, region string, maxMatches int, progress chan<- models.ProgressEvent) reconstructor.Result {
	if maxMatches <= 0 {
		maxMatches = config.Config.DefaultMaxMatches
	}

	var reference string
	var fingerprints []string

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		info, err := client.GetLatestVersion(gctx, model, region)
		if err != nil {
			// Best effort only: without a reference the search still
			// runs, it just classifies every match as regular.
			logging.GlobalLogger.Warn("Calibration fetch for " + model + "/" + region + " failed, continuing without a reference: " + err.Error())
			return nil
		}
		reference = info.Version
		return nil
	})
	g.Go(func() error {
		fps, err := client.GetTestFingerprints(gctx, model, region)
		if err != nil {
			return err
		}
		fingerprints = fps
		return nil
	})
	if err := g.Wait(); err != nil {
		return reconstructor.Result{Err: err}
	}

	if len(fingerprints) == 0 {
		return reconstructor.Result{Err: reconstructor.ErrNoTestFirmware}
	}

	rec := reconstructor.New(model, region, fingerprints, reference, maxMatches)
	rec.Progress = progress
	return rec.Run(ctx)
}

// BuildReconstructResponse converts an engine result into the API shape.
func BuildReconstructResponse(model, region string, res reconstructor.Result) models.ReconstructResponse {
	resp := models.ReconstructResponse{
		Status:        "ok",
		Model:         model,
		Region:        region,
		Reference:     res.Reference,
		LatestRegular: res.LatestRegular,
		LatestMajor:   res.LatestMajor,
		Coverage:      res.Coverage,
	}
	for _, m := range res.Matches {
		resp.Matches = append(resp.Matches, models.ReconstructedFirmware{
			Version:     m.Version,
			Fingerprint: m.Fingerprint,
			Year:        m.Year,
			Month:       m.Month,
			Serial:      m.Serial,
		})
	}
	for _, m := range res.Regular {
		resp.Regular = append(resp.Regular, m.Version)
	}
	for _, m := range res.Major {
		resp.Major = append(resp.Major, m.Version)
	}
	if res.Err != nil {
		resp.Status = "error"
		resp.Error = res.Err.Error()
	}
	return resp
}

// StatusForError maps resolver errors onto HTTP-ish status classes used
// by the API layer.
func StatusForError(err error) int {
	var venErr *fusapi.VendorError
	switch {
	case errors.Is(err, fusapi.ErrNoFirmware),
		errors.Is(err, reconstructor.ErrNoTestFirmware),
		errors.Is(err, reconstructor.ErrDecryptionExhausted):
		return 404
	case errors.Is(err, fusapi.ErrAccessDenied):
		return 403
	case errors.As(err, &venErr):
		return 502
	default:
		return 502
	}
}
