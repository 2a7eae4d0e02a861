// Package tarball verifies and extracts package release archives.
//
// A release archive is an uncompressed tar holding:
//
//	VERSION          archive format version, currently "3"
//	metadata.json    package metadata as published
//	contents.tar.gz  the package sources
//	CHECKSUM         hex sha256 of VERSION, metadata.json and contents.tar.gz concatenated
//	SIGNATURE        base64 ed25519 signature of the raw checksum bytes
package tarball

import (
	"archive/tar"
	"bytes"
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/spf13/afero"
	"go.trai.ch/depot/internal/core/domain"
	"go.trai.ch/zerr"
)

// FormatVersion is the only archive format accepted.
const FormatVersion = "3"

const (
	memberVersion   = "VERSION"
	memberMetadata  = "metadata.json"
	memberContents  = "contents.tar.gz"
	memberChecksum  = "CHECKSUM"
	memberSignature = "SIGNATURE"

	// maxSmallMember bounds every member except contents.tar.gz.
	maxSmallMember = 1 << 20
)

// trustedPublicKey signs release archives. It is the same key that signs registry metadata.
var trustedPublicKey = ed25519.PublicKey(mustDecode("qkOBhw5phHcWohqdQsVLK41IYHlDllDgTRSIUv5wFw0="))

// Unpacker implements ports.Unpacker.
type Unpacker struct {
	fs        afero.Fs
	publicKey ed25519.PublicKey
}

// NewUnpacker creates an Unpacker writing to fsys and trusting the embedded key.
func NewUnpacker(fsys afero.Fs) *Unpacker {
	return newUnpackerWithKey(fsys, trustedPublicKey)
}

// newUnpackerWithKey creates an Unpacker trusting a custom key (used for testing).
func newUnpackerWithKey(fsys afero.Fs, key ed25519.PublicKey) *Unpacker {
	return &Unpacker{fs: fsys, publicKey: key}
}

type outerArchive struct {
	version   []byte
	metadata  []byte
	checksum  []byte
	signature []byte
	contents  afero.File
}

// Unpack reads a release archive from r, checks its checksum and signature,
// and extracts contents.tar.gz into dest. Nothing is extracted unless verification succeeds.
func (u *Unpacker) Unpack(r io.Reader, dest string) error {
	if err := u.fs.MkdirAll(dest, domain.DirPerm); err != nil {
		return extractErr(zerr.Wrap(err, domain.ErrArchiveExtractFailed.Error()))
	}

	outer, err := u.readOuter(r, dest)
	if outer != nil && outer.contents != nil {
		defer func() {
			_ = outer.contents.Close()
			_ = u.fs.Remove(outer.contents.Name())
		}()
	}
	if err != nil {
		return err
	}

	if err := u.verify(outer); err != nil {
		return zerr.With(err, "stage", domain.StageSignature)
	}

	if _, err := outer.contents.Seek(0, io.SeekStart); err != nil {
		return extractErr(zerr.Wrap(err, domain.ErrArchiveExtractFailed.Error()))
	}
	return u.extract(outer.contents, dest)
}

// readOuter buffers the small members in memory and spools contents.tar.gz
// into a temp file next to dest.
func (u *Unpacker) readOuter(r io.Reader, dest string) (*outerArchive, error) {
	outer := &outerArchive{}
	tr := tar.NewReader(r)
	seen := make(map[string]bool, 5)

	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return outer, downloadErr(zerr.Wrap(err, domain.ErrArchiveInvalid.Error()))
		}

		if seen[hdr.Name] {
			return outer, extractErr(zerr.With(domain.ErrArchiveInvalid, "duplicate_member", hdr.Name))
		}
		seen[hdr.Name] = true

		switch hdr.Name {
		case memberVersion:
			outer.version, err = readSmall(tr)
		case memberMetadata:
			outer.metadata, err = readSmall(tr)
		case memberChecksum:
			outer.checksum, err = readSmall(tr)
		case memberSignature:
			outer.signature, err = readSmall(tr)
		case memberContents:
			outer.contents, err = afero.TempFile(u.fs, filepath.Dir(dest), ".contents-*.tar.gz")
			if err == nil {
				_, err = io.Copy(outer.contents, tr)
			}
		default:
			continue
		}
		if err != nil {
			return outer, downloadErr(zerr.With(zerr.Wrap(err, domain.ErrArchiveInvalid.Error()), "member", hdr.Name))
		}
	}

	members := []struct {
		name    string
		present bool
		stage   string
	}{
		{memberVersion, outer.version != nil, domain.StageExtract},
		{memberMetadata, outer.metadata != nil, domain.StageExtract},
		{memberContents, outer.contents != nil, domain.StageExtract},
		{memberChecksum, outer.checksum != nil, domain.StageSignature},
		{memberSignature, outer.signature != nil, domain.StageSignature},
	}
	for _, m := range members {
		if !m.present {
			return outer, zerr.With(zerr.With(domain.ErrArchiveInvalid, "missing_member", m.name), "stage", m.stage)
		}
	}

	if v := strings.TrimSpace(string(outer.version)); v != FormatVersion {
		return outer, extractErr(zerr.With(domain.ErrArchiveInvalid, "format_version", v))
	}

	return outer, nil
}

func (u *Unpacker) verify(outer *outerArchive) error {
	expected, err := hex.DecodeString(strings.TrimSpace(string(outer.checksum)))
	if err != nil || len(expected) != sha256.Size {
		return zerr.With(domain.ErrArchiveChecksumMismatch, "reason", "malformed CHECKSUM")
	}

	h := sha256.New()
	h.Write(outer.version)
	h.Write(outer.metadata)
	if _, err := outer.contents.Seek(0, io.SeekStart); err != nil {
		return zerr.Wrap(err, domain.ErrArchiveChecksumMismatch.Error())
	}
	if _, err := io.Copy(h, outer.contents); err != nil {
		return zerr.Wrap(err, domain.ErrArchiveChecksumMismatch.Error())
	}
	if !bytes.Equal(h.Sum(nil), expected) {
		return domain.ErrArchiveChecksumMismatch
	}

	signature, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(outer.signature)))
	if err != nil {
		return zerr.Wrap(err, domain.ErrArchiveSignatureInvalid.Error())
	}
	if !ed25519.Verify(u.publicKey, expected, signature) {
		return domain.ErrArchiveSignatureInvalid
	}
	return nil
}

func (u *Unpacker) extract(contents io.Reader, dest string) error {
	gz, err := gzip.NewReader(contents)
	if err != nil {
		return extractErr(zerr.Wrap(err, domain.ErrArchiveInvalid.Error()))
	}
	defer func() {
		_ = gz.Close()
	}()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return extractErr(zerr.Wrap(err, domain.ErrArchiveInvalid.Error()))
		}

		target, err := safeJoin(dest, hdr.Name)
		if err != nil {
			return extractErr(err)
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			err = u.fs.MkdirAll(target, domain.DirPerm)
		case tar.TypeReg:
			err = u.writeFile(target, tr)
		default:
			err = zerr.With(zerr.With(domain.ErrArchiveUnsafePath, "entry", hdr.Name), "type", string(hdr.Typeflag))
			return extractErr(err)
		}
		if err != nil {
			return extractErr(zerr.With(zerr.Wrap(err, domain.ErrArchiveExtractFailed.Error()), "entry", hdr.Name))
		}
	}
}

func (u *Unpacker) writeFile(target string, r io.Reader) error {
	if err := u.fs.MkdirAll(filepath.Dir(target), domain.DirPerm); err != nil {
		return err
	}
	f, err := u.fs.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, domain.FilePerm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// safeJoin resolves name inside dest, rejecting absolute paths and parent traversal.
func safeJoin(dest, name string) (string, error) {
	if filepath.IsAbs(name) || strings.HasPrefix(name, "/") {
		return "", zerr.With(domain.ErrArchiveUnsafePath, "entry", name)
	}
	target := filepath.Join(dest, name)
	rel, err := filepath.Rel(dest, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", zerr.With(domain.ErrArchiveUnsafePath, "entry", name)
	}
	return target, nil
}

func readSmall(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxSmallMember+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxSmallMember {
		return nil, errors.New("member exceeds size limit")
	}
	return data, nil
}

func downloadErr(err error) error {
	return zerr.With(err, "stage", domain.StageDownload)
}

func extractErr(err error) error {
	return zerr.With(err, "stage", domain.StageExtract)
}

func mustDecode(encoded string) []byte {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil || len(raw) != ed25519.PublicKeySize {
		panic("tarball: invalid embedded public key")
	}
	return raw
}
