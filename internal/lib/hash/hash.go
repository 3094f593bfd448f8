// Package hash wraps bcrypt for password storage. Verify never reports why a
// comparison failed, only that it did.
package hash

import "golang.org/x/crypto/bcrypt"

func Password(plain string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
}

func Verify(plain string, digest []byte) bool {
	return bcrypt.CompareHashAndPassword(digest, []byte(plain)) == nil
}
