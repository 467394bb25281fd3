package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodes(t *testing.T) {
	t.Run("HasCode finds wrapped coded error", func(t *testing.T) {
		err := fmt.Errorf("outer: %w", New(CodeNotTrained, "model has not been trained"))
		assert.True(t, HasCode(err, CodeNotTrained))
		assert.False(t, HasCode(err, CodeNotFound))
	})

	t.Run("outermost code wins", func(t *testing.T) {
		inner := New(CodeOutOfDomain, "unknown ethnicity")
		err := Wrap(inner, CodeFormatViolation, "row 3")
		assert.Equal(t, CodeFormatViolation, CodeOf(err))
		assert.True(t, errors.Is(err, inner))
	})

	t.Run("uncoded errors are internal", func(t *testing.T) {
		err := errors.New("boom")
		assert.Equal(t, CodeInternal, CodeOf(err))
		assert.Equal(t, KindInternal, KindOf(err))
		assert.Equal(t, "internal error", MessageOf(err))
	})

	t.Run("wrap nil is nil", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, CodeInternal, "x"))
	})

	t.Run("error string includes cause", func(t *testing.T) {
		err := Wrap(errors.New("no such file"), CodeNotFound, "source data/ids.csv")
		assert.Equal(t, "source data/ids.csv: no such file", err.Error())
		assert.Equal(t, "source data/ids.csv", MessageOf(err))
	})
}

func TestKinds(t *testing.T) {
	cases := map[Code]Kind{
		CodeInvalidInput:      KindInput,
		CodeUnsupportedFormat: KindInput,
		CodeOutOfDomain:       KindDomain,
		CodeInsufficientData:  KindDomain,
		CodeNotTrained:        KindDomain,
		CodeEmptyCollection:   KindDomain,
		CodeNotFound:          KindIO,
		CodeFormatViolation:   KindIO,
		CodePermissionDenied:  KindIO,
		CodeDecryptionFailure: KindCrypto,
		CodeInternal:          KindInternal,
	}
	for code, kind := range cases {
		t.Run(string(code), func(t *testing.T) {
			assert.Equal(t, kind, code.Kind())
		})
	}
}
