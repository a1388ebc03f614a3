package lnurl_test

import (
	"strings"
	"testing"

	"citadel.sx/zapgate/lnurl"
	golnurl "github.com/fiatjaf/go-lnurl"
	"github.com/stretchr/testify/assert"
)

func Test_EncodeURL_RoundTrip(t *testing.T) {
	t.Parallel()
	assertions := assert.New(t)

	urls := []string{
		"https://example.com/.well-known/lnurlp/donate",
		"https://pay.citadel.sx/lnurlp/idioma?amount=21000",
		"https://a.b/c?amount=1000&comment=hi+there+donation%3Aabcd",
		"",
	}
	for _, target := range urls {
		encoded, err := lnurl.EncodeURL(target)
		assertions.Nil(err, "failed to encode %q", target)
		assertions.Equal(strings.ToLower(encoded), encoded, "output must be lower-case")
		assertions.True(strings.HasPrefix(encoded, "lnurl1"), "missing hrp and separator")

		// Checksum is always exactly six charset symbols.
		expectedLen := len("lnurl1") + (len(target)*8+4)/5 + 6
		assertions.Equal(expectedLen, len(encoded), "unexpected length for %q", target)

		// Round-trips under an independent reference decoder.
		decoded, err := golnurl.LNURLDecode(encoded)
		assertions.Nil(err, "reference decoder rejected %q", encoded)
		assertions.Equal(target, decoded, "round trip mismatch")
	}
}

func Test_Encode_Deterministic(t *testing.T) {
	t.Parallel()
	assertions := assert.New(t)

	first, err := lnurl.Encode("lnurl", []byte("https://example.com/cb"))
	assertions.Nil(err)
	second, err := lnurl.Encode("lnurl", []byte("https://example.com/cb"))
	assertions.Nil(err)
	assertions.Equal(first, second, "encoding must be pure")
}

func Test_ConvertBits(t *testing.T) {
	t.Parallel()
	assertions := assert.New(t)

	// A value wider than fromBits must be rejected, not truncated.
	_, err := lnurl.ConvertBits([]byte{0xff}, 4, 5, true)
	assertions.ErrorIs(err, lnurl.ErrEncoding, "expected wide value rejection")

	// Non-zero trailing bits without padding must be rejected.
	_, err = lnurl.ConvertBits([]byte{0xff}, 8, 5, false)
	assertions.ErrorIs(err, lnurl.ErrEncoding, "expected trailing bits rejection")

	// With padding the same input is fine.
	out, err := lnurl.ConvertBits([]byte{0xff}, 8, 5, true)
	assertions.Nil(err)
	assertions.Equal([]byte{0x1f, 0x1c}, out)
}
