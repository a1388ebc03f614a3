package invoice_test

import (
	"testing"

	"citadel.sx/zapgate/invoice"
	"github.com/stretchr/testify/assert"
)

func Test_Parse(t *testing.T) {
	t.Parallel()
	assertions := assert.New(t)

	valid := []string{
		"lnbc210n1pj9x7qhpp5abcdef",
		"lntb500n1somebody",
		"lntbs1body0",
		"lnbcrt10u1regtest",
		"  lightning:lnbc210n1pj9x7qhpp5abcdef  ",
		"LIGHTNING:lnbc210n1pj9x7qhpp5abcdef",
	}
	for _, raw := range valid {
		inv, err := invoice.Parse(raw)
		assertions.Nil(err, "expected %q to parse", raw)
		assertions.NotEmpty(inv)
	}

	invalid := []string{
		"not-an-invoice",
		"",
		"lnxx1body",
		"ln",
		"bitcoin:bc1qsomething",
		"lnbc 210n1 spaced",
	}
	for _, raw := range invalid {
		_, err := invoice.Parse(raw)
		assertions.ErrorIs(err, invoice.ErrInvalidShape, "expected %q to fail the shape check", raw)
	}
}

func Test_Normalize(t *testing.T) {
	t.Parallel()
	assertions := assert.New(t)

	assertions.Equal("lnbc1abc", invoice.Normalize(" lightning:lnbc1abc \n"))
	assertions.Equal("lnbc1abc", invoice.Normalize("lnbc1abc"))
	// Only the scheme prefix is stripped, nothing inside the body.
	assertions.Equal("xlightning:lnbc1abc", invoice.Normalize("xlightning:lnbc1abc"))
}
