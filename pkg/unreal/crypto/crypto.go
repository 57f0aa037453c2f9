// Package crypto implements the Lineage 2 package file cipher.
//
// Encrypted packages begin with a 28-byte UTF-16LE header "Lineage2VerNNN"
// followed by the package bytes XORed with a single key byte. Ver 111 uses a
// fixed key; later versions derive the key from the filename.
package crypto

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// HeaderSize is the size of the encryption header: 14 UTF-16LE characters.
const HeaderSize = 28

// ver111Key is the fixed XOR key used by Ver 111 packages.
const ver111Key = 0xAC

var headerPattern = regexp.MustCompile(`^Lineage2Ver(\d{3})$`)

// ErrNotEncrypted reports that data does not begin with a recognized
// Lineage 2 encryption header. Callers must not treat such data as plaintext
// package bytes.
var ErrNotEncrypted = errors.New("not a Lineage 2 encrypted file")

// ParseHeader validates the 28-byte header and returns the format version.
func ParseHeader(data []byte) (int, error) {
	if len(data) < HeaderSize {
		return 0, ErrNotEncrypted
	}
	header := decodeUTF16LE(data[:HeaderSize])
	m := headerPattern.FindStringSubmatch(header)
	if m == nil {
		return 0, ErrNotEncrypted
	}
	version, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, ErrNotEncrypted
	}
	return version, nil
}

// IsEncrypted reports whether data begins with a Lineage 2 encryption header.
func IsEncrypted(data []byte) bool {
	_, err := ParseHeader(data)
	return err == nil
}

// DeriveKey computes the filename-derived XOR key: the sum of the lowercased
// filename's character codes, masked to a byte. The filename must not include
// a directory path.
func DeriveKey(filename string) byte {
	sum := 0
	for _, c := range strings.ToLower(filename) {
		sum += int(c)
	}
	return byte(sum & 0xFF)
}

// KeyFor returns the XOR key for a given header version and filename.
// Ver 111 always uses the fixed key regardless of filename.
func KeyFor(version int, filename string) byte {
	if version == 111 {
		return ver111Key
	}
	return DeriveKey(filename)
}

// XOR returns a fresh slice with every byte of data XORed with key.
// Applying it twice with the same key restores the input.
func XOR(data []byte, key byte) []byte {
	result := make([]byte, len(data))
	for i := range data {
		result[i] = data[i] ^ key
	}
	return result
}

// Decrypt validates the header of an encrypted package and returns the
// decrypted payload. The header itself is never encrypted and is dropped
// from the output.
func Decrypt(data []byte, filename string) ([]byte, error) {
	version, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}
	return XOR(data[HeaderSize:], KeyFor(version, filename)), nil
}

// DecryptFile decrypts an encrypted package file to a new file. The output
// does not contain the encryption header. The key is derived from the input
// file's base name.
func DecryptFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	header := make([]byte, HeaderSize)
	if _, err := io.ReadFull(in, header); err != nil {
		return fmt.Errorf("failed to read header of %s: %w", src, err)
	}
	version, err := ParseHeader(header)
	if err != nil {
		return fmt.Errorf("%s: %w", src, err)
	}
	key := KeyFor(version, baseName(src))

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	w := bufio.NewWriter(out)
	buf := make([]byte, 8192)
	for {
		n, readErr := in.Read(buf)
		for i := 0; i < n; i++ {
			buf[i] ^= key
		}
		if n > 0 {
			if _, err := w.Write(buf[:n]); err != nil {
				return err
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return readErr
		}
	}
	return w.Flush()
}

func baseName(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		return path[i+1:]
	}
	return path
}

// decodeUTF16LE converts 2-byte-per-character little-endian text to a string.
// Surrogate pairs do not occur in the header alphabet.
func decodeUTF16LE(b []byte) string {
	var sb strings.Builder
	for i := 0; i+1 < len(b); i += 2 {
		sb.WriteRune(rune(uint16(b[i]) | uint16(b[i+1])<<8))
	}
	return sb.String()
}
