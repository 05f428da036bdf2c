// Package shared holds cross-cutting helpers that belong to no single
// architectural layer. Currently that is the testutil subpackage with the
// slog capture handler used by middleware and handler tests.
package shared
