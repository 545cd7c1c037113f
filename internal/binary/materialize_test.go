package binary

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/ZebulonRouseFrantzich/swissknife/internal/payload"
)

func TestMaterialize(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "binary_content", data: fakeExe},
		{name: "empty", data: []byte{}},
		{name: "longer_than_one_line", data: bytes.Repeat([]byte{0x00, 0x7f, 0x80, 0xff}, 200)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dest := filepath.Join(t.TempDir(), "nircmd.exe")
			p := &EncodedPayload{
				Binary:   Nircmd,
				Text:     payload.Wrap(tt.data),
				Checksum: payload.Sum(tt.data),
			}

			if err := Materialize(p, dest); err != nil {
				t.Fatalf("Materialize() error = %v", err)
			}

			got, err := os.ReadFile(dest)
			if err != nil {
				t.Fatalf("read dest: %v", err)
			}
			if !bytes.Equal(got, tt.data) {
				t.Errorf("content mismatch: got %d bytes, want %d", len(got), len(tt.data))
			}

			if runtime.GOOS != "windows" {
				info, err := os.Stat(dest)
				if err != nil {
					t.Fatal(err)
				}
				if info.Mode().Perm()&0111 == 0 {
					t.Errorf("dest is not executable: %v", info.Mode())
				}
			}
		})
	}
}

func TestMaterialize_Overwrites(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "cmdmp3.exe")
	if err := os.WriteFile(dest, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}

	p := &EncodedPayload{Binary: Cmdmp3, Text: payload.Wrap(fakeExe)}
	if err := Materialize(p, dest); err != nil {
		t.Fatalf("Materialize() error = %v", err)
	}

	got, _ := os.ReadFile(dest)
	if !bytes.Equal(got, fakeExe) {
		t.Error("existing file was not replaced")
	}
}

func TestMaterialize_NoTempLeftBehind(t *testing.T) {
	dir := t.TempDir()
	p := &EncodedPayload{Binary: Nircmd, Text: payload.Wrap(fakeExe)}
	if err := Materialize(p, filepath.Join(dir, "nircmd.exe")); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("directory holds %v, want only nircmd.exe", names)
	}
}

func TestMaterialize_MissingParent(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "does", "not", "exist", "nircmd.exe")
	p := &EncodedPayload{Binary: Nircmd, Text: payload.Wrap(fakeExe)}

	err := Materialize(p, dest)
	if err == nil {
		t.Fatal("expected error for missing parent directory")
	}
	if !errors.Is(err, ErrIO) {
		t.Errorf("error %v does not match ErrIO", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error %v does not wrap os.ErrNotExist", err)
	}

	var ioe *IOError
	if !errors.As(err, &ioe) {
		t.Fatalf("error %T is not *IOError", err)
	}
}

func TestMaterialize_ChecksumMismatch(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "nircmd.exe")
	p := &EncodedPayload{
		Binary:   Nircmd,
		Text:     payload.Wrap(fakeExe),
		Checksum: payload.Sum([]byte("something else")),
	}

	err := Materialize(p, dest)
	if !errors.Is(err, ErrChecksumMismatch) {
		t.Fatalf("Materialize() error = %v, want ErrChecksumMismatch", err)
	}
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Error("dest was written despite checksum mismatch")
	}
}

func TestMaterialize_InvalidPayload(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "nircmd.exe")
	p := &EncodedPayload{Binary: Nircmd, Text: "not base64!\r\n"}

	if err := Materialize(p, dest); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestMaterialize_NilPayload(t *testing.T) {
	if err := Materialize(nil, filepath.Join(t.TempDir(), "x.exe")); err == nil {
		t.Fatal("expected error for nil payload")
	}
}
