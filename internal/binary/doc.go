// Package binary ships the helper executables swissknife drives and puts
// them on disk when they are first needed.
//
// # Payloads
//
// Each helper (nircmd, cmdmp3) is stored in the payload/ directory as
// base64 text wrapped at 100 columns with CRLF line endings
// (see internal/payload), and compiled into the program with go:embed.
// payload/checksums.txt records the SHA-256 of every decoded executable.
// When payload/checksums.txt.asc and payload/signing-key.asc are present
// the checksum file must carry a valid OpenPGP signature from that key.
// The swissknife-pack command regenerates all of these from raw .exe files.
//
// # Materialization
//
// Manager.ResolveHelperPath returns <cacheRoot>/<name>.exe. If the file
// exists it is returned as is; nothing is hashed or rewritten. Otherwise
// the cache directory is created, the payload is decoded and verified, and
// the executable is written to a temporary file that is renamed into place.
//
// Concurrent first use is serialized per helper: in-process with a
// singleflight group, across processes with a lock file next to the
// executable. Readers never observe a partially written helper.
//
// # Usage
//
//	mgr, err := binary.NewManager(binary.Config{CacheRoot: cfg.CacheRoot})
//	if err != nil {
//	    return err
//	}
//	path, err := mgr.ResolveHelperPath(ctx, binary.Nircmd)
package binary
