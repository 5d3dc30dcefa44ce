// Package exporter writes processed registers and reports to files that
// open cleanly in a spreadsheet.
//
// CSVWriter produces UTF-8 CSV with an optional byte-order mark so Excel
// detects the encoding of Arabic labels. XLSXWriter writes one or more
// sheets with a bold header row using excelize's streaming writer.
//
// Report builders (GroupReport, AssetReport, ...) turn analysis results into
// header and record slices shared by both writers.
//
// Example usage:
//
//	rep := exporter.GroupReport("categories", analyzer.ByCategory())
//	w := exporter.NewCSVWriter("data/exports", logger)
//	err := w.WriteCSV("categories.csv", exporter.WriteOptions{
//	    Headers:   rep.Headers,
//	    Records:   rep.Records,
//	    BOMPrefix: true,
//	})
package exporter
