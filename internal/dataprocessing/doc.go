// Package dataprocessing turns a fixed-asset register worksheet into a clean,
// typed table and answers reporting queries over it.
//
// # Architecture
//
// Processing is a fixed sequence of versioned stages run by a Pipeline:
//
//	load → clean_columns → prune_rows → coerce_types → fill_missing
//	     → derive_metrics → quality_checks
//
// Only loading can fail the run. Every other stage reports a StageResult
// (succeeded, partial, skipped or failed) and runs on a copy of the data, so
// a failing stage leaves the table exactly as the previous stage produced it.
//
// Column labels are normalized first and then bound to canonical fields
// through a Schema, which knows both the English and Arabic headers of the
// register export. Later stages address fields only through that Mapping.
//
// # Usage
//
//	p := dataprocessing.NewPipeline(dataprocessing.Options{Logger: logger})
//	ds, report, err := p.Run(ctx, dataprocessing.Source{
//	    Path:  "data/assetv1.xlsx",
//	    Sheet: "FAR as of 30 Dec 23",
//	})
//	if err != nil {
//	    return err // wraps ErrDataUnavailable
//	}
//	a := dataprocessing.NewAnalyzer(ds)
//	summary := a.Summary()
//	laptops := a.Search("laptop", 100)
//
// # Data quality
//
// Violations such as negative costs, depreciation above cost or duplicate tag
// numbers are reported in Report.Quality and never corrected or excluded.
package dataprocessing
