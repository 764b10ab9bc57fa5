// Package all wires all built-in storage backends into the storage
// factory.
//
// This package exists purely for side effects: importing it (even as a
// blank import) causes the init functions of each concrete storage backend
// to run, which in turn register their factories and DDL bootstrappers with
// the storage package.
//
// In other words, importing this package makes the following storage kinds
// available at runtime:
//
//   - "postgres" (scrub/internal/storage/postgres)
//   - "sqlite"   (scrub/internal/storage/sqlite)
//   - "mysql"    (scrub/internal/storage/mysql)
package all

import (
	_ "scrub/internal/storage/mysql"
	_ "scrub/internal/storage/postgres"
	_ "scrub/internal/storage/sqlite"
)
