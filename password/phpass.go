package password

import (
	"crypto/md5"
	"crypto/subtle"
	"errors"
	"strings"
)

// WordPress portable ("PHPass") hash verification. The members site's
// accounts were exported from a WordPress install, so stored credential
// hashes look like $P$9IQRaTwmfeRo7ud9Fh4E2PdI0S3r.L0 until the member
// is migrated to argon2id. This is a faithful port of PHPass
// crypt_private: iterated raw MD5 with a custom base-64 alphabet.

const phpassItoa64 = "./0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

const phpassSettingLen = 12 // "$P$" + count char + 8-char salt

var errPHPassSetting = errors.New("invalid phpass setting")

// verifyPHPass checks a plaintext password against a $P$/$H$ portable hash.
func verifyPHPass(password, encodedHash string) (bool, error) {
	computed, err := phpassCrypt(password, encodedHash)
	if err != nil {
		return false, err
	}
	if len(computed) != len(encodedHash) {
		return false, nil
	}
	return subtle.ConstantTimeCompare([]byte(computed), []byte(encodedHash)) == 1, nil
}

func phpassCrypt(password, setting string) (string, error) {
	if len(setting) < phpassSettingLen {
		return "", errPHPassSetting
	}

	id := setting[:3]
	if id != "$P$" && id != "$H$" {
		return "", errPHPassSetting
	}

	countLog2 := strings.IndexByte(phpassItoa64, setting[3])
	if countLog2 < 7 || countLog2 > 30 {
		return "", errPHPassSetting
	}
	count := 1 << uint(countLog2)

	salt := setting[4:phpassSettingLen]

	sum := md5.Sum([]byte(salt + password))
	for i := 0; i < count; i++ {
		sum = md5.Sum(append(sum[:], password...))
	}

	return setting[:phpassSettingLen] + phpassEncode64(sum[:]), nil
}

// phpassEncode64 is PHPass's little-endian base-64 variant: 16 MD5 bytes
// become 22 alphabet characters.
func phpassEncode64(input []byte) string {
	var b strings.Builder
	b.Grow(22)

	i, n := 0, len(input)
	for i < n {
		value := uint32(input[i])
		i++
		b.WriteByte(phpassItoa64[value&0x3f])

		if i < n {
			value |= uint32(input[i]) << 8
		}
		b.WriteByte(phpassItoa64[(value>>6)&0x3f])
		if i >= n {
			break
		}
		i++

		if i < n {
			value |= uint32(input[i]) << 16
		}
		b.WriteByte(phpassItoa64[(value>>12)&0x3f])
		if i >= n {
			break
		}
		i++

		b.WriteByte(phpassItoa64[(value>>18)&0x3f])
	}

	return b.String()
}
