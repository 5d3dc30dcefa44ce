// Package shared holds code used across packages that belongs to no single
// layer.
//
// The testutil subpackage provides slog capture for asserting on log output
// and fixture workbooks shaped like the register export, so loader, service
// and transport tests all exercise the same sample data.
package shared
