// Package all links every storage backend into a binary via blank imports.
// Import it once from main; the backends register themselves in init.
package all

import (
	_ "opinionetl/internal/storage/mssql"
	_ "opinionetl/internal/storage/postgres"
	_ "opinionetl/internal/storage/sqlite"
)
