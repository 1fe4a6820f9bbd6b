package password

import (
	"errors"
	"strings"

	"github.com/alexedwards/argon2id"
	"golang.org/x/crypto/bcrypt"
)

type Hasher struct {
	policy Params
}

func NewHasher(p Params) *Hasher { return &Hasher{policy: p} }

// Hash returns a PHC string like `$argon2id$v=19$m=65536,t=3,p=1$...`
func (h *Hasher) Hash(plain string) (string, error) {
	p := argon2id.Params{
		Memory:      h.policy.Memory,
		Iterations:  h.policy.Iterations,
		Parallelism: h.policy.Parallelism,
		SaltLength:  h.policy.SaltLength,
		KeyLength:   h.policy.KeyLength,
	}
	return argon2id.CreateHash(plain, &p)
}

// Verify checks plain against an argon2id PHC hash or a bcrypt hash and
// reports whether the stored hash should be replaced.
func (h *Hasher) Verify(plain, stored string) (ok bool, needsRehash bool, err error) {
	if isBcrypt(stored) {
		err = bcrypt.CompareHashAndPassword([]byte(stored), []byte(plain))
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, false, nil
		}
		if err != nil {
			return false, false, err
		}
		return true, true, nil
	}

	ok, err = argon2id.ComparePasswordAndHash(plain, stored)
	if err != nil || !ok {
		return ok, false, err
	}
	return ok, h.NeedsRehash(stored), nil
}

func (h *Hasher) NeedsRehash(phc string) bool {
	if isBcrypt(phc) {
		return true
	}
	stored, _, _, err := argon2id.DecodeHash(phc)
	if err != nil {
		// Can't parse: treat as needs rehash.
		return true
	}
	return stored.Memory < h.policy.Memory ||
		stored.Iterations < h.policy.Iterations ||
		stored.Parallelism < h.policy.Parallelism ||
		stored.SaltLength < h.policy.SaltLength ||
		stored.KeyLength < h.policy.KeyLength
}

func isBcrypt(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}
