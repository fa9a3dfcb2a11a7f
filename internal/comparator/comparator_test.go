package comparator

import (
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frontdown/frontdown/internal/scan"
)

func reader(content string) Reader {
	return func() (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(content)), nil
	}
}

func failingReader(err error) Reader {
	return func() (io.ReadCloser, error) {
		return nil, err
	}
}

func TestChainValidate(t *testing.T) {
	t.Run("rejects hash anywhere in the chain", func(t *testing.T) {
		err := Chain{MethodSize, MethodHash}.Validate(true, true)
		assert.ErrorIs(t, err, ErrUnsupportedMethod)
	})

	t.Run("requires modtime support on both sides when leading with moddate", func(t *testing.T) {
		err := Chain{MethodModDate, MethodSize}.Validate(true, false)
		assert.ErrorIs(t, err, ErrModTimeUnavailable)
	})

	t.Run("allows moddate-less chains against a modtime-less side", func(t *testing.T) {
		err := Chain{MethodSize}.Validate(false, false)
		assert.NoError(t, err)
	})

	t.Run("accepts a valid chain", func(t *testing.T) {
		err := Chain{MethodModDate, MethodSize, MethodBytes}.Validate(true, true)
		assert.NoError(t, err)
	})
}

func TestCompareModDate(t *testing.T) {
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("within FAT tolerance compares same", func(t *testing.T) {
		source := scan.Entry{Modified: base}
		compare := scan.Entry{Modified: base.Add(2 * time.Second)}
		verdict, err := Compare(Chain{MethodModDate}, source, compare, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, Same, verdict)
	})

	t.Run("beyond tolerance compares different", func(t *testing.T) {
		source := scan.Entry{Modified: base}
		compare := scan.Entry{Modified: base.Add(3 * time.Second)}
		verdict, err := Compare(Chain{MethodModDate}, source, compare, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, Different, verdict)
	})
}

func TestCompareSize(t *testing.T) {
	source := scan.Entry{Size: 10}
	compare := scan.Entry{Size: 11}
	verdict, err := Compare(Chain{MethodSize}, source, compare, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, Different, verdict)
}

func TestCompareShortCircuitsBeforeBytes(t *testing.T) {
	source := scan.Entry{Size: 10}
	compare := scan.Entry{Size: 11}
	verdict, err := Compare(Chain{MethodSize, MethodBytes}, source, compare,
		func() (io.ReadCloser, error) { t.Fatal("bytes comparator should not have been reached"); return nil, nil },
		func() (io.ReadCloser, error) { t.Fatal("bytes comparator should not have been reached"); return nil, nil },
	)
	require.NoError(t, err)
	assert.Equal(t, Different, verdict)
}

func TestCompareBytes(t *testing.T) {
	t.Run("identical content is same", func(t *testing.T) {
		verdict, err := Compare(Chain{MethodBytes}, scan.Entry{}, scan.Entry{}, reader("hello world"), reader("hello world"))
		require.NoError(t, err)
		assert.Equal(t, Same, verdict)
	})

	t.Run("differing content is different", func(t *testing.T) {
		verdict, err := Compare(Chain{MethodBytes}, scan.Entry{}, scan.Entry{}, reader("hello world"), reader("hello there"))
		require.NoError(t, err)
		assert.Equal(t, Different, verdict)
	})

	t.Run("differing length is different", func(t *testing.T) {
		verdict, err := Compare(Chain{MethodBytes}, scan.Entry{}, scan.Entry{}, reader("short"), reader("much longer content"))
		require.NoError(t, err)
		assert.Equal(t, Different, verdict)
	})

	t.Run("a read failure surfaces as an error and counts as different", func(t *testing.T) {
		boom := errors.New("boom")
		verdict, err := Compare(Chain{MethodBytes}, scan.Entry{}, scan.Entry{}, failingReader(boom), reader("x"))
		require.Error(t, err)
		assert.Equal(t, Different, verdict)
	})
}

func TestCompareHashIsUnsupported(t *testing.T) {
	verdict, err := Compare(Chain{MethodHash}, scan.Entry{}, scan.Entry{}, nil, nil)
	assert.ErrorIs(t, err, ErrUnsupportedMethod)
	assert.Equal(t, Different, verdict)
}
