// Package files discovers register workbooks in the data directory.
//
//	d := files.NewDiscovery(cfg.Data.Dir, logger)
//	workbooks, err := d.FindWorkbooks(".")
package files
