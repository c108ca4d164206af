package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/dmitrijs2005/authflow/internal/client/authapi"
	"github.com/dmitrijs2005/authflow/internal/client/flows"
	"github.com/stretchr/testify/assert"
)

func TestNotifier_Fail(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"validation", authapi.Validation(flows.MsgEnterOTP), "[warning] Please enter the OTP\n"},
		{"mismatch", authapi.Validation(flows.MsgPasswordsDontMatch), "[error] Passwords do not match\n"},
		{"request", &authapi.Error{Kind: authapi.KindRequest, Message: "Invalid OTP"}, "[error] Invalid OTP\n"},
		{"network", &authapi.Error{Kind: authapi.KindNetwork, Message: authapi.NetworkMessage}, "[error] " + authapi.NetworkMessage + "\n"},
		{"stale", flows.ErrStale, "[info] " + flows.ErrStale.Error() + "\n"},
		{"pending", flows.ErrSubmissionPending, "[warning] " + flows.ErrSubmissionPending.Error() + "\n"},
		{"plain", errors.New("boom"), "[error] boom\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewNotifier(&buf).Fail(tt.err)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestNotifier_FailNil(t *testing.T) {
	var buf bytes.Buffer
	NewNotifier(&buf).Fail(nil)
	assert.Empty(t, buf.String())
}

func TestNotifier_Notify(t *testing.T) {
	var buf bytes.Buffer
	n := NewNotifier(&buf)
	n.Notify(LevelSuccess, "done")
	n.Notify(LevelInfo, "fyi")
	assert.Equal(t, "[success] done\n[info] fyi\n", buf.String())
}
