package main

import (
	"context"
	"fmt"

	"FotaClientv2/pkg/fusapi"
	"FotaClientv2/pkg/operations"
)

func StructPrettyPrint(data interface{}) {
	fmt.Printf("%+v\n", data)
}

func main() {
	client := fusapi.NewClient()
	ctx := context.Background()

	devices := []struct {
		model  string
		region string
	}{
		{"SM-S9280", "CHC"},
		{"SM-S928B", "EUX"},
		{"SM-S928U", "XAA"},
		{"SM-S928U1", "ATT"},
	}

	for _, d := range devices {
		fmt.Printf("Resolving %s/%s...\n", d.model, d.region)
		info, err := operations.ResolveStable(ctx, client, d.model, d.region)
		if err != nil {
			fmt.Printf("Error resolving %s/%s: %v\n", d.model, d.region, err)
			continue
		}
		StructPrettyPrint(info)
	}

	fmt.Println("Fetching test manifest fingerprints...")
	fps, err := client.GetTestFingerprints(ctx, "SM-S928B", "EUX")
	if err != nil {
		fmt.Printf("Error fetching test fingerprints: %v\n", err)
		return
	}
	fmt.Printf("%d fingerprints disclosed\n", len(fps))
}
