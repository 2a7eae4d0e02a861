package registry

import (
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"

	"go.trai.ch/depot/internal/core/domain"
	"go.trai.ch/zerr"
)

// trustedPublicKey is the registry's ed25519 signing key.
var trustedPublicKey = mustDecodeKey("qkOBhw5phHcWohqdQsVLK41IYHlDllDgTRSIUv5wFw0=")

// Envelope is the signed wrapper around every metadata response.
type Envelope struct {
	Payload   string `json:"payload"`
	Signature string `json:"signature"`
}

// PackagePayload is the decoded payload of a package metadata response.
type PackagePayload struct {
	Name     string           `json:"name"`
	Releases []ReleasePayload `json:"releases"`
}

// ReleasePayload describes one published version.
type ReleasePayload struct {
	Version      string            `json:"version"`
	Requirements map[string]string `json:"requirements"`
}

func mustDecodeKey(encoded string) ed25519.PublicKey {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil || len(raw) != ed25519.PublicKeySize {
		panic("registry: invalid embedded public key")
	}
	return ed25519.PublicKey(raw)
}

// decodeEnvelope verifies the envelope signature before decoding its payload.
func decodeEnvelope(data []byte, key ed25519.PublicKey) (*domain.PackageMetadata, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, zerr.Wrap(err, domain.ErrRegistryResponseInvalid.Error())
	}

	payload, err := base64.StdEncoding.DecodeString(env.Payload)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrRegistryResponseInvalid.Error()), "field", "payload")
	}
	signature, err := base64.StdEncoding.DecodeString(env.Signature)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrRegistryResponseInvalid.Error()), "field", "signature")
	}

	if !ed25519.Verify(key, payload, signature) {
		return nil, domain.ErrRegistrySignatureInvalid
	}

	var decoded PackagePayload
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, zerr.Wrap(err, domain.ErrRegistryResponseInvalid.Error())
	}

	meta := &domain.PackageMetadata{
		Name:     decoded.Name,
		Releases: make([]domain.Release, 0, len(decoded.Releases)),
	}
	for _, r := range decoded.Releases {
		meta.Releases = append(meta.Releases, domain.Release{
			Version:      r.Version,
			Requirements: domain.RequirementSet(r.Requirements),
		})
	}
	return meta, nil
}
