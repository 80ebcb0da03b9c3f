package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKind(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("store: get note: %w", ErrNotFound), KindNotFound},
		{fmt.Errorf("store: create note: %w", ErrIntegrity), KindIntegrity},
		{fmt.Errorf("store: acquire: %w", ErrLockContention), KindLockContention},
		{fmt.Errorf("store: open: %w", ErrStorageUnavailable), KindStorageUnavailable},
		{errors.New("boom"), KindInternal},
	}
	for _, c := range cases {
		if got := Kind(c.err); got != c.want {
			t.Errorf("Kind(%v) = %q, want %q", c.err, got, c.want)
		}
	}
}
