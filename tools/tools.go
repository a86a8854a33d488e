//go:build tools

package tools

// Tool dependencies pinned in go.mod. Run `go mod tidy` after changing them.

import (
	_ "github.com/pressly/goose/v3/cmd/goose"
)
