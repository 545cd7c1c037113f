package binary

import (
	"testing"
	"testing/fstest"

	"github.com/ZebulonRouseFrantzich/swissknife/internal/payload"
)

// fakeExe is a stand-in helper with bytes base64 has to handle: NUL,
// high bytes and a PE-like header.
var fakeExe = []byte("MZ\x90\x00\x03\x00\x00\x00\x04\x00\x00\x00\xff\xff\x00\x00 fake helper \r\n\x00\x01\x02")

// payloadFS builds a payload directory holding files for every entry of
// bins plus a matching checksums.txt.
func payloadFS(t *testing.T, bins map[Binary][]byte) fstest.MapFS {
	t.Helper()

	sums := payload.NewChecksums()
	fsys := fstest.MapFS{}
	for b, data := range bins {
		fsys[b.PayloadName()] = &fstest.MapFile{Data: []byte(payload.Wrap(data))}
		sums.Set(b.FileName(), payload.Sum(data))
	}
	fsys[payload.ChecksumFile] = &fstest.MapFile{Data: []byte(sums.Format())}

	return fsys
}
