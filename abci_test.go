package custody_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	pkerr "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestCreateErrorResult(t *testing.T) {
	cases := map[string]struct {
		err     error
		debug   bool
		wantLog string
		code    uint32
	}{
		"stdlib error is redacted": {
			err:     fmt.Errorf("base"),
			wantLog: "internal error",
			code:    1,
		},
		"stdlib error in debug": {
			err:     pkerr.New("dave"),
			debug:   true,
			wantLog: "dave",
			code:    1,
		},
		"registered error": {
			err:     errors.Wrap(errors.ErrUnauthorized, "payer signature missing"),
			wantLog: "payer signature missing",
			code:    errors.ErrUnauthorized.ABCICode(),
		},
		"registered error in debug": {
			err:     errors.Wrap(errors.ErrState, "escrow confirmed"),
			debug:   true,
			wantLog: "escrow confirmed",
			code:    errors.ErrState.ABCICode(),
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			dres := custody.DeliverTxError(tc.err, tc.debug)
			assert.True(t, dres.IsErr())
			assert.True(t, strings.HasPrefix(dres.Log, "cannot deliver tx: "+tc.wantLog), dres.Log)
			assert.Equal(t, tc.code, dres.Code)

			cres := custody.CheckTxError(tc.err, tc.debug)
			assert.True(t, cres.IsErr())
			assert.True(t, strings.HasPrefix(cres.Log, "cannot check tx: "+tc.wantLog), cres.Log)
			assert.Equal(t, tc.code, cres.Code)
		})
	}
}

func TestCreateResults(t *testing.T) {
	d, msg := []byte{1, 3, 4}, "got it"
	dres := custody.DeliverResult{Data: d, Log: msg}
	ad := dres.ToABCI()
	assert.EqualValues(t, d, ad.Data)
	assert.Equal(t, msg, ad.Log)
	assert.Empty(t, ad.Tags)

	c, gas := "aok", int64(12345)
	cres := custody.NewCheck(gas, c)
	ac := cres.ToABCI()
	assert.Equal(t, c, ac.Log)
	assert.Equal(t, gas, ac.GasWanted)
	assert.Empty(t, ac.Data)

	ok := custody.DeliverOrError(&dres, nil, false)
	assert.False(t, ok.IsErr())
	failed := custody.CheckOrError(cres, errors.ErrNotFound, false)
	assert.Equal(t, errors.ErrNotFound.ABCICode(), failed.Code)
}
