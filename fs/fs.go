package appfs

import "embed"

// FS holds the SQL migrations run by goose.
//go:embed migrations
var FS embed.FS
