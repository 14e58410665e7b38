package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paygate/pkg/errdomain"
)

func TestParseIdentity(t *testing.T) {
	t.Run("accepts alphanumeric and underscore", func(t *testing.T) {
		for _, s := range []string{"alice", "user_123", "A1_b2", "0000"} {
			id, err := ParseIdentity(s)
			require.NoError(t, err, s)
			assert.Equal(t, s, id.String())
			assert.True(t, id.Valid())
		}
	})

	t.Run("rejects everything else", func(t *testing.T) {
		for _, s := range []string{"", "has space", "semi;colon", "dash-ed", "ünïcode", "a.b", "<script>"} {
			_, err := ParseIdentity(s)
			require.Error(t, err, s)
			assert.True(t, errdomain.Is(err, errdomain.CodeInvalidInput), s)
		}
	})
}

func TestParseGroupID(t *testing.T) {
	t.Run("accepts non-empty", func(t *testing.T) {
		gid, err := ParseGroupID("quiz_42")
		require.NoError(t, err)
		assert.Equal(t, "quiz_42", gid.String())
	})

	t.Run("rejects empty and whitespace", func(t *testing.T) {
		for _, s := range []string{"", "   ", "\t"} {
			_, err := ParseGroupID(s)
			require.Error(t, err)
			assert.True(t, errdomain.Is(err, errdomain.CodeInvalidInput))
		}
	})
}
