package binary

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ProtonMail/go-crypto/openpgp" //nolint:staticcheck // Using ProtonMail's maintained fork
	"github.com/ProtonMail/go-crypto/openpgp/armor"
)

// Verifier checks OpenPGP detached signatures over payload manifests.
type Verifier struct {
	keyring openpgp.EntityList
}

// NewVerifier creates a verifier from an armored or binary public keyring.
func NewVerifier(keyring []byte) (*Verifier, error) {
	entities, err := readKeyRing(keyring)
	if err != nil {
		return nil, err
	}
	return &Verifier{keyring: entities}, nil
}

// VerifySignature checks sig (armored or binary) over signed.
func (v *Verifier) VerifySignature(signed, sig []byte) error {
	_, err := openpgp.CheckArmoredDetachedSignature(v.keyring, bytes.NewReader(signed), bytes.NewReader(sig), nil)
	if err != nil {
		// Try non-armored signature
		_, err = openpgp.CheckDetachedSignature(v.keyring, bytes.NewReader(signed), bytes.NewReader(sig), nil)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSignature, err)
	}
	return nil
}

// Sign writes an armored detached signature over data made with signer.
// signer must hold an unencrypted private key.
func Sign(w io.Writer, signer *openpgp.Entity, data []byte) error {
	if signer == nil || signer.PrivateKey == nil {
		return fmt.Errorf("signing key has no private key")
	}
	if err := openpgp.ArmoredDetachSign(w, signer, bytes.NewReader(data), nil); err != nil {
		return fmt.Errorf("sign: %w", err)
	}
	return nil
}

// ReadSigningKey reads the first entity with a private key from an
// armored or binary keyring, decrypting it with passphrase if needed.
func ReadSigningKey(keyring, passphrase []byte) (*openpgp.Entity, error) {
	entities, err := readKeyRing(keyring)
	if err != nil {
		return nil, err
	}

	for _, e := range entities {
		if e.PrivateKey == nil {
			continue
		}
		if e.PrivateKey.Encrypted {
			if len(passphrase) == 0 {
				return nil, fmt.Errorf("signing key is encrypted and no passphrase was given")
			}
			if err := e.PrivateKey.Decrypt(passphrase); err != nil {
				return nil, fmt.Errorf("decrypt signing key: %w", err)
			}
		}
		return e, nil
	}

	return nil, fmt.Errorf("keyring contains no private key")
}

// ExportPublicKey writes the armored public part of e.
func ExportPublicKey(w io.Writer, e *openpgp.Entity) error {
	aw, err := armor.Encode(w, openpgp.PublicKeyType, nil)
	if err != nil {
		return fmt.Errorf("armor public key: %w", err)
	}
	if err := e.Serialize(aw); err != nil {
		aw.Close()
		return fmt.Errorf("serialize public key: %w", err)
	}
	return aw.Close()
}

// readKeyRing parses an armored keyring, falling back to binary.
func readKeyRing(keyring []byte) (openpgp.EntityList, error) {
	entities, err := openpgp.ReadArmoredKeyRing(bytes.NewReader(keyring))
	if err != nil {
		entities, err = openpgp.ReadKeyRing(bytes.NewReader(keyring))
		if err != nil {
			return nil, fmt.Errorf("read keyring: %w", err)
		}
	}

	if len(entities) == 0 {
		return nil, fmt.Errorf("keyring is empty")
	}

	return entities, nil
}

func bytesReader(b []byte) io.Reader {
	return bytes.NewReader(b)
}
