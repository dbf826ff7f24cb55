package custody

import (
	"testing"

	"github.com/iov-one/custody/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type demoMsg struct {
	Num int
}

func (demoMsg) Path() string               { return "demo/num" }
func (m demoMsg) Marshal() ([]byte, error) { return []byte{byte(m.Num)}, nil }
func (*demoMsg) Unmarshal(bz []byte) error { return nil }

func (m demoMsg) Validate() error {
	if m.Num < 0 {
		return errors.Wrap(errors.ErrMsg, "negative")
	}
	return nil
}

type otherMsg struct{ demoMsg }

func (otherMsg) Path() string { return "demo/other" }

type demoTx struct {
	msg Msg
	err error
}

func (demoTx) Marshal() ([]byte, error) { return nil, nil }
func (*demoTx) Unmarshal([]byte) error  { return nil }
func (t demoTx) GetMsg() (Msg, error)   { return t.msg, t.err }

func TestLoadMsg(t *testing.T) {
	cases := map[string]struct {
		tx      Tx
		wantErr *errors.Error
		wantNum int
	}{
		"success": {
			tx:      &demoTx{msg: &demoMsg{Num: 5}},
			wantNum: 5,
		},
		"message is validated": {
			tx:      &demoTx{msg: &demoMsg{Num: -1}},
			wantErr: errors.ErrMsg,
		},
		"missing message": {
			tx:      &demoTx{},
			wantErr: errors.ErrMsg,
		},
		"typed nil message": {
			tx:      &demoTx{msg: (*demoMsg)(nil)},
			wantErr: errors.ErrMsg,
		},
		"message of another type": {
			tx:      &demoTx{msg: &otherMsg{}},
			wantErr: errors.ErrType,
		},
		"transaction error is passed through": {
			tx:      &demoTx{err: errors.ErrInput.New("broken")},
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var msg demoMsg
			err := LoadMsg(tc.tx, &msg)
			if tc.wantErr != nil {
				require.Error(t, err)
				assert.True(t, tc.wantErr.Is(err), "got %+v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantNum, msg.Num)
		})
	}
}

func TestLoadMsgNeedsPointer(t *testing.T) {
	err := LoadMsg(&demoTx{msg: &demoMsg{Num: 1}}, demoMsg{})
	assert.True(t, errors.ErrHuman.Is(err))
}

func TestGetPath(t *testing.T) {
	assert.Equal(t, "demo/num", GetPath(&demoTx{msg: &demoMsg{}}))
	assert.Equal(t, "(missing)", GetPath(&demoTx{}))
}
