// Package trackcore detects, tracks, and normalises extreme events (marine
// heatwave style blobs) on a gridded longitude-latitude anomaly field.
//
// It ties together four independent stages: per-day connected-component
// labelling, day-to-day linking into Tracks that may split and merge,
// per-track spatial/temporal normalisation onto a polar grid, and a
// composite reduction across tracks. Each stage is also usable on its own
// from the internal/ packages; this package is the friendly, batteries-
// included entry point.
//
// # Basic Usage
//
//	g, err := trackcore.NewCylinder(360, 180)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	var masks []*trackcore.DayMask
//	for day := range days {
//	    masks = append(masks, loadMaskForDay(g, day))
//	}
//
//	tracks, err := trackcore.Detect(context.Background(), masks, trackcore.DefaultConfig(), nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("found %d tracks\n", len(tracks.Tracks))
//
// # Normalisation and Composites
//
// Once a TrackSet exists, each track can be projected onto a standard
// polar grid and resampled over lifecycle phases, then reduced into a
// single composite:
//
//	tensor, err := trackcore.NormalizeAll(tracks, anomalySource, lookup, trackcore.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	composite := trackcore.Composite(tensor, trackcore.DefaultConfig().Composite)
//
// # Configuration
//
// trackcore.Config bundles every stage's options (minpix, alpha,
// connectivity, resolution, n_phases, earth_radius, composite_method) with
// the spec's defaults, matching the teacher's options-struct convention —
// there is no environment variable or config file layer.
package trackcore
