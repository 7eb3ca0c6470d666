package persist

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/maison/internal/errors"
)

type failingBackend struct {
	*MemoryBackend
	fail bool
}

func (f *failingBackend) Write(name string, data []byte) error {
	if f.fail {
		return stderrors.New("disk full")
	}
	return f.MemoryBackend.Write(name, data)
}

func TestContainerUpdatePersistsEveryMutation(t *testing.T) {
	backend := NewMemoryBackend()
	c := Open(newCounterStore(backend, 0, nil))
	assert.Equal(t, OutcomeFresh, c.Outcome())

	for i := 0; i < 3; i++ {
		require.NoError(t, c.Update(func(s counter) (counter, error) {
			return counter{Items: append(append([]string{}, s.Items...), "x"), Total: s.Total + 1}, nil
		}))
	}
	assert.Equal(t, 3, backend.Writes())

	reopened := Open(newCounterStore(backend, 0, nil))
	reopened.View(func(s counter) {
		assert.Equal(t, 3, s.Total)
		assert.Len(t, s.Items, 3)
	})
}

func TestContainerUpdateErrorLeavesStateUntouched(t *testing.T) {
	backend := NewMemoryBackend()
	c := Open(newCounterStore(backend, 0, nil))

	rejected := stderrors.New("rejected")
	err := c.Update(func(s counter) (counter, error) {
		return counter{Total: 99}, rejected
	})
	assert.ErrorIs(t, err, rejected)
	assert.Equal(t, 0, backend.Writes())
	c.View(func(s counter) { assert.Equal(t, 0, s.Total) })
}

func TestContainerWriteFailureRollsBack(t *testing.T) {
	backend := &failingBackend{MemoryBackend: NewMemoryBackend()}
	c := Open(newCounterStore(backend, 0, nil))
	require.NoError(t, c.Reset(counter{Total: 1}))

	backend.fail = true
	err := c.Reset(counter{Total: 2})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeStoreWrite, errors.CodeOf(err))
	c.View(func(s counter) { assert.Equal(t, 1, s.Total) })
}
